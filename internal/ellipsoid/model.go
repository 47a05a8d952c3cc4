package ellipsoid

import (
	"errors"
	"fmt"
	"math"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
)

var (
	ErrUnknownEllipsoid  = fmt.Errorf("unknown ellipsoid: %w", geoerr.ErrLookup)
	ErrInvalidFlattening = fmt.Errorf("inverse flattening must be >= 2: %w", geoerr.ErrValidation)
	ErrInvalidAxis       = fmt.Errorf("semimajor axis must be > 0: %w", geoerr.ErrValidation)
	ErrInvalidRadius     = fmt.Errorf("radius must be > 0: %w", geoerr.ErrValidation)
)

// Coefficients holds the values needed to move between geographic and authalic
// latitudes. They depend only on the eccentricity and never change after Resolve.
type Coefficients struct {
	e   float64
	e2  float64
	qp  float64
	inv [3]float64 // series for authalic -> geographic, in sin(2kβ)
}

func newCoefficients(f float64) Coefficients {
	e2 := f * (2 - f)
	if e2 == 0 {
		return Coefficients{qp: 2}
	}
	e := math.Sqrt(e2)
	e4 := e2 * e2
	e6 := e4 * e2
	return Coefficients{
		e:  e,
		e2: e2,
		qp: 1 + (1-e2)*math.Atanh(e)/e,
		inv: [3]float64{
			e2/3 + 31*e4/180 + 517*e6/5040,
			23*e4/360 + 251*e6/3780,
			761 * e6 / 45360,
		},
	}
}

type Model struct {
	name      string
	a         float64
	f         float64
	spherical bool
	coeffs    Coefficients
}

// Resolve validates s and precomputes the authalic coefficient table. The returned
// model is immutable and safe to share between goroutines.
func Resolve(s Spec) (*Model, error) {
	switch s.kind {
	case kindNamed:
		ref, ok := registry[s.name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEllipsoid, s.name)
		}
		f := 0.0
		if ref.rf != 0 {
			f = 1 / ref.rf
		}
		return newModel(s.name, ref.a, f, s.IsSpherical()), nil
	case kindParametric:
		if math.IsNaN(s.inverseFlattening) || s.inverseFlattening < 2 {
			return nil, fmt.Errorf("%w (got %g)", ErrInvalidFlattening, s.inverseFlattening)
		}
		if math.IsNaN(s.semimajorAxis) || s.semimajorAxis <= 0 {
			return nil, fmt.Errorf("%w (got %g)", ErrInvalidAxis, s.semimajorAxis)
		}
		return newModel(s.String(), s.semimajorAxis, 1/s.inverseFlattening, false), nil
	case kindSpherical:
		if math.IsNaN(s.radius) || s.radius <= 0 {
			return nil, fmt.Errorf("%w (got %g)", ErrInvalidRadius, s.radius)
		}
		return newModel(s.String(), s.radius, 0, true), nil
	default:
		return nil, errors.Join(geoerr.ErrValidation, errors.New("ellipsoid: empty description"))
	}
}

func newModel(name string, a, f float64, spherical bool) *Model {
	return &Model{
		name:      name,
		a:         a,
		f:         f,
		spherical: spherical,
		coeffs:    newCoefficients(f),
	}
}

func (m *Model) Name() string               { return m.name }
func (m *Model) SemimajorAxis() float64     { return m.a }
func (m *Model) Flattening() float64        { return m.f }
func (m *Model) IsSpherical() bool          { return m.spherical }
func (m *Model) Coefficients() Coefficients { return m.coeffs }

// ToAuthalic converts a geographic latitude (radians) to its authalic latitude.
func (m *Model) ToAuthalic(lat float64) float64 {
	c := &m.coeffs
	if m.spherical || c.e2 == 0 {
		return lat
	}
	ratio := c.q(math.Sin(lat)) / c.qp
	return math.Asin(math.Max(-1, math.Min(1, ratio)))
}

// ToGeographic converts an authalic latitude (radians) back to geographic latitude.
func (m *Model) ToGeographic(beta float64) float64 {
	c := &m.coeffs
	if m.spherical || c.e2 == 0 {
		return beta
	}
	if math.Abs(beta) >= math.Pi/2 {
		return beta
	}
	phi := beta +
		c.inv[0]*math.Sin(2*beta) +
		c.inv[1]*math.Sin(4*beta) +
		c.inv[2]*math.Sin(6*beta)

	q := c.qp * math.Sin(beta)
	for range 2 {
		sin, cos := math.Sincos(phi)
		if math.Abs(cos) < 1e-12 {
			break
		}
		w := 1 - c.e2*sin*sin
		phi += w * w / (2 * cos) * (q/(1-c.e2) - sin/w - math.Atanh(c.e*sin)/c.e)
	}
	return phi
}

func (c *Coefficients) q(sin float64) float64 {
	return (1 - c.e2) * (sin/(1-c.e2*sin*sin) + math.Atanh(c.e*sin)/c.e)
}
