// Package zuniq packs a (depth, cell) pair into one uint64 whose trailing sentinel
// bit records the depth. Encoded values order cells along the depth-29 space-filling
// curve, so a coarse cell sorts right after the start of its own range of children.
package zuniq

import (
	"math/bits"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
	"github.com/mohammed-shakir/healpix-geo/internal/healpix"
)

// Encode assumes depth <= healpix.DepthMax and a cell valid at that depth.
func Encode(depth uint8, cell uint64) uint64 {
	return (cell<<1 | 1) << (2 * uint64(healpix.DepthMax-depth))
}

// Decode is the inverse of Encode. Zero has no sentinel bit and is rejected.
func Decode(z uint64) (depth uint8, cell uint64, err error) {
	if z == 0 {
		return 0, 0, geoerr.Validation("zuniq", "0 is not a valid zuniq value")
	}
	tz := bits.TrailingZeros64(z)
	if tz%2 != 0 || tz > 2*healpix.DepthMax {
		return 0, 0, geoerr.Validation("zuniq", "%d carries no valid depth marker", z)
	}
	depth = uint8(healpix.DepthMax - tz/2)
	cell = z >> (tz + 1)
	if err := healpix.ValidateCell(depth, cell); err != nil {
		return 0, 0, err
	}
	return depth, cell, nil
}

// Depth returns the depth recorded in z.
func Depth(z uint64) (uint8, error) {
	d, _, err := Decode(z)
	return d, err
}
