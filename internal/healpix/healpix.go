// Package healpix implements the nested HEALPix tiling used as the geometric oracle:
// per-depth layers mapping between cells and points on the unit sphere.
//
// Angles are in radians. Latitudes handed to a Layer are authalic latitudes; callers
// working on an ellipsoid convert them first.
package healpix

import (
	"math"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
)

// DepthMax is the deepest supported level; 12*4^29 cells still fit in 63 bits.
const DepthMax = 29

const (
	halfPi = math.Pi / 2
	twoPi  = 2 * math.Pi
)

// LonLat is a point on the sphere, in radians.
type LonLat struct {
	Lon float64
	Lat float64
}

// CellWeight pairs a cell with its bilinear interpolation weight.
type CellWeight struct {
	Cell   uint64
	Weight float64
}

func NSide(depth uint8) uint64 { return 1 << depth }

// NCells returns the number of cells covering the sphere at depth: 12*4^depth.
func NCells(depth uint8) uint64 { return 12 << (2 * uint64(depth)) }

func ValidateDepth(depth uint8) error {
	if depth > DepthMax {
		return geoerr.Validation("depth", "must be between 0 and %d, inclusive (got %d)", DepthMax, depth)
	}
	return nil
}

func ValidateCell(depth uint8, cell uint64) error {
	if n := NCells(depth); cell >= n {
		return geoerr.Validation("cell", "cell id %d out of range [0, %d) at depth %d", cell, n, depth)
	}
	return nil
}

// ValidateCells checks every id against the cell count at depth.
func ValidateCells(depth uint8, cells []uint64) error {
	n := NCells(depth)
	for i, c := range cells {
		if c >= n {
			return geoerr.Validation("cell", "cell id %d at position %d out of range [0, %d) at depth %d", c, i, n, depth)
		}
	}
	return nil
}

// Depths is either one depth shared by every element or one depth per element.
type Depths struct {
	constant uint8
	each     []uint8
}

func Constant(depth uint8) Depths { return Depths{constant: depth} }

func PerElement(depths []uint8) Depths { return Depths{each: depths} }

func (d Depths) IsConstant() bool { return d.each == nil }

func (d Depths) At(i int) uint8 {
	if d.each == nil {
		return d.constant
	}
	return d.each[i]
}

// Validate checks the depth range and, for per-element depths, that the array has n entries.
func (d Depths) Validate(n int) error {
	if d.each == nil {
		return ValidateDepth(d.constant)
	}
	if len(d.each) != n {
		return geoerr.Validation("depth", "per-element depths have length %d, expected %d", len(d.each), n)
	}
	for i, v := range d.each {
		if v > DepthMax {
			return geoerr.Validation("depth", "must be between 0 and %d, inclusive (got %d at position %d)", DepthMax, v, i)
		}
	}
	return nil
}

// ValidateCells checks each id against the cell count of its own depth.
func (d Depths) ValidateCells(cells []uint64) error {
	if d.each == nil {
		return ValidateCells(d.constant, cells)
	}
	for i, c := range cells {
		if err := ValidateCell(d.each[i], c); err != nil {
			return err
		}
	}
	return nil
}

// fmodulo returns v mod m in [0, m).
func fmodulo(v, m float64) float64 {
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	if r >= m {
		r = 0
	}
	return r
}

// Layer returns the layer of element i.
func (d Depths) Layer(i int) *Layer { return Get(d.At(i)) }
