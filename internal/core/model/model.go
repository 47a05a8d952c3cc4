// Package model defines core domain types shared across the service.
package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
)

// Bbox is a longitude/latitude box in degrees. A box with LonMin greater than
// LonMax wraps through longitude zero.
type Bbox struct {
	LonMin, LatMin float64
	LonMax, LatMax float64
}

// NewBbox builds a box from the (lon_min, lat_min, lon_max, lat_max) tuple form.
func NewBbox(v [4]float64) Bbox {
	return Bbox{LonMin: v[0], LatMin: v[1], LonMax: v[2], LatMax: v[3]}
}

// String representation matching the tuple order
func (b Bbox) String() string {
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f", b.LonMin, b.LatMin, b.LonMax, b.LatMax)
}

func (b Bbox) Validate() error {
	for _, v := range []float64{b.LonMin, b.LatMin, b.LonMax, b.LatMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return geoerr.Validation("bbox", "bounds must be finite (got %s)", b)
		}
	}
	if b.LatMin < -90 || b.LatMax > 90 {
		return geoerr.Validation("bbox", "latitudes must lie in [-90, 90] (got %s)", b)
	}
	if b.LatMin > b.LatMax {
		return geoerr.Validation("bbox", "lat_min %g is above lat_max %g", b.LatMin, b.LatMax)
	}
	return nil
}

// Scheme names a cell numbering.
type Scheme string

const (
	Nested Scheme = "nested"
	Ring   Scheme = "ring"
	Zuniq  Scheme = "zuniq"
)

func ParseScheme(s string) (Scheme, error) {
	switch sc := Scheme(strings.ToLower(strings.TrimSpace(s))); sc {
	case Nested, Ring, Zuniq:
		return sc, nil
	case "":
		return Nested, nil
	}
	return "", geoerr.Validation("scheme", "unknown indexing scheme %q", s)
}
