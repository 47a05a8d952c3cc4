package nested

import (
	"context"
	"math"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
	"github.com/mohammed-shakir/healpix-geo/internal/dispatch"
	"github.com/mohammed-shakir/healpix-geo/internal/healpix"
	"github.com/mohammed-shakir/healpix-geo/internal/transform"
)

// NeighbourhoodWidth is the row width of a k-th neighbourhood: (2k+1)^2.
func NeighbourhoodWidth(k uint32) int {
	w := 2*int(k) + 1
	return w * w
}

// ValidateRing checks that k neighbour steps stay within one revolution of the grid.
func ValidateRing(depth uint8, k uint32) error {
	if nside := healpix.NSide(depth); uint64(k) > nside {
		return geoerr.Validation("ring", "must be at most nside=%d at depth %d (got %d)", nside, depth, k)
	}
	return nil
}

// FillNeighbourhood writes the ascending neighbourhood into row and pads the rest with -1.
func FillNeighbourhood(row []int64, cells []uint64) {
	n := copyCells(row, cells)
	for j := n; j < len(row); j++ {
		row[j] = -1
	}
}

func copyCells(row []int64, cells []uint64) int {
	n := min(len(row), len(cells))
	for j := range n {
		row[j] = int64(cells[j])
	}
	return n
}

// KthNeighbourhood writes, for every cell, the cells within k neighbour steps in
// ascending order, padded with -1 to NeighbourhoodWidth(k).
func KthNeighbourhood(ctx context.Context, cells []uint64, depth uint8, k uint32, out dispatch.Rows[int64], workers int) error {
	n := len(cells)
	if err := healpix.ValidateDepth(depth); err != nil {
		return err
	}
	if err := ValidateRing(depth, k); err != nil {
		return err
	}
	if err := healpix.ValidateCells(depth, cells); err != nil {
		return err
	}
	if err := dispatch.CheckRows("neighbours", out, n, NeighbourhoodWidth(k)); err != nil {
		return err
	}
	layer := healpix.Get(depth)
	dispatch.RunRows(ctx, dispatch.Default(), "nested.kth_neighbourhood", out, workers, func(i int, row []int64) {
		FillNeighbourhood(row, layer.KthNeighbourhood(cells[i], k))
	})
	return nil
}

// ValidateTargets checks distance targets: valid cells, or -1 for a missing target.
func ValidateTargets(depth uint8, to dispatch.Rows[int64]) error {
	limit := healpix.NCells(depth)
	for i, c := range to.Data {
		if c < -1 || (c >= 0 && uint64(c) >= limit) {
			return geoerr.Validation("to", "cell id %d at position %d out of range at depth %d", c, i, depth)
		}
	}
	return nil
}

// AngularDistances writes, for every cell in from, the great-circle angle in radians
// to each cell of the matching row of to. A -1 target gives NaN. No ellipsoid
// correction is applied.
func AngularDistances(ctx context.Context, from []uint64, to dispatch.Rows[int64], depth uint8, out dispatch.Rows[float64], workers int) error {
	n := len(from)
	if err := healpix.ValidateDepth(depth); err != nil {
		return err
	}
	if err := healpix.ValidateCells(depth, from); err != nil {
		return err
	}
	if to.Len() != n {
		return geoerr.Validation("to", "has %d rows, expected %d", to.Len(), n)
	}
	if err := ValidateTargets(depth, to); err != nil {
		return err
	}
	if err := dispatch.CheckRows("distances", out, n, to.Width); err != nil {
		return err
	}
	layer := healpix.Get(depth)
	dispatch.RunRows(ctx, dispatch.Default(), "nested.angular_distances", out, workers, func(i int, row []float64) {
		for j, c := range to.Row(i) {
			if c < 0 {
				row[j] = math.NaN()
				continue
			}
			row[j] = transform.AngularDistance(layer, from[i], layer, uint64(c))
		}
	})
	return nil
}
