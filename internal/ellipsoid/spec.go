// Package ellipsoid resolves reference ellipsoid descriptions into validated models
// carrying the coefficients needed for authalic latitude conversion.
package ellipsoid

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
)

type kind uint8

const (
	kindUnset kind = iota
	kindNamed
	kindParametric
	kindSpherical
)

// Spec is a tagged union over the accepted ellipsoid descriptions: a registered name,
// a semimajor axis with inverse flattening, or a sphere radius.
type Spec struct {
	kind              kind
	name              string
	semimajorAxis     float64
	inverseFlattening float64
	radius            float64
}

func Named(name string) Spec {
	return Spec{kind: kindNamed, name: name}
}

func Parametric(semimajorAxis, inverseFlattening float64) Spec {
	return Spec{kind: kindParametric, semimajorAxis: semimajorAxis, inverseFlattening: inverseFlattening}
}

func Spherical(radius float64) Spec {
	return Spec{kind: kindSpherical, radius: radius}
}

func (s Spec) IsZero() bool { return s.kind == kindUnset }

// IsSpherical reports whether the description denotes a sphere. Named descriptions are
// spherical when the name contains "sphere".
func (s Spec) IsSpherical() bool {
	switch s.kind {
	case kindNamed:
		return strings.Contains(s.name, "sphere")
	case kindSpherical:
		return true
	default:
		return false
	}
}

func (s Spec) String() string {
	switch s.kind {
	case kindNamed:
		return s.name
	case kindParametric:
		return fmt.Sprintf("ellipsoid(a=%g, rf=%g)", s.semimajorAxis, s.inverseFlattening)
	case kindSpherical:
		return fmt.Sprintf("sphere(r=%g)", s.radius)
	default:
		return "<unset>"
	}
}

// AxisFlattening is satisfied by values exposing ellipsoid parameters as methods.
type AxisFlattening interface {
	SemimajorAxis() float64
	InverseFlattening() float64
}

// Sphere is satisfied by values exposing a sphere radius as a method.
type Sphere interface {
	Radius() float64
}

// FromValue accepts a Spec, a name, a parameter map keyed by field name, or a value
// exposing the parameters as methods.
func FromValue(v any) (Spec, error) {
	switch t := v.(type) {
	case Spec:
		return t, nil
	case *Spec:
		if t == nil {
			return Spec{}, geoerr.Validation("ellipsoid", "nil ellipsoid")
		}
		return *t, nil
	case string:
		return Named(t), nil
	case map[string]float64:
		return fromFields(t)
	case map[string]any:
		fields := make(map[string]float64, len(t))
		for k, raw := range t {
			f, ok := raw.(float64)
			if !ok {
				return Spec{}, geoerr.Validation("ellipsoid", "field %q is not a number", k)
			}
			fields[k] = f
		}
		return fromFields(fields)
	case AxisFlattening:
		return Parametric(t.SemimajorAxis(), t.InverseFlattening()), nil
	case Sphere:
		return Spherical(t.Radius()), nil
	default:
		return Spec{}, geoerr.Validation("ellipsoid", "unsupported ellipsoid description %T", v)
	}
}

func fromFields(m map[string]float64) (Spec, error) {
	a, hasA := m["semimajor_axis"]
	rf, hasRF := m["inverse_flattening"]
	if hasA && hasRF {
		return Parametric(a, rf), nil
	}
	if r, ok := m["radius"]; ok {
		return Spherical(r), nil
	}
	return Spec{}, geoerr.Validation("ellipsoid",
		"expected {semimajor_axis, inverse_flattening} or {radius}")
}

type specJSON struct {
	SemimajorAxis     *float64 `json:"semimajor_axis,omitempty"`
	InverseFlattening *float64 `json:"inverse_flattening,omitempty"`
	Radius            *float64 `json:"radius,omitempty"`
}

func (s *Spec) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return fmt.Errorf("decode ellipsoid name: %w", err)
		}
		*s = Named(name)
		return nil
	}
	var raw specJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decode ellipsoid: %w", err)
	}
	switch {
	case raw.SemimajorAxis != nil && raw.InverseFlattening != nil:
		*s = Parametric(*raw.SemimajorAxis, *raw.InverseFlattening)
	case raw.Radius != nil:
		*s = Spherical(*raw.Radius)
	default:
		return errors.Join(geoerr.ErrValidation,
			errors.New("ellipsoid: expected a name, {semimajor_axis, inverse_flattening} or {radius}"))
	}
	return nil
}

func (s Spec) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case kindNamed:
		return json.Marshal(s.name)
	case kindParametric:
		return json.Marshal(specJSON{SemimajorAxis: &s.semimajorAxis, InverseFlattening: &s.inverseFlattening})
	case kindSpherical:
		return json.Marshal(specJSON{Radius: &s.radius})
	default:
		return []byte("null"), nil
	}
}
