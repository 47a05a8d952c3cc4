package ring

import (
	"context"
	"math"
	"slices"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
	"github.com/mohammed-shakir/healpix-geo/internal/dispatch"
	"github.com/mohammed-shakir/healpix-geo/internal/healpix"
	"github.com/mohammed-shakir/healpix-geo/internal/transform"
	"github.com/mohammed-shakir/healpix-geo/pkg/nested"
)

// KthNeighbourhood writes, for every ring cell, the ring ids of the cells within k
// neighbour steps in ascending order, padded with -1 to nested.NeighbourhoodWidth(k).
func KthNeighbourhood(ctx context.Context, cells []uint64, depth uint8, k uint32, out dispatch.Rows[int64], workers int) error {
	n := len(cells)
	if err := healpix.ValidateDepth(depth); err != nil {
		return err
	}
	if err := nested.ValidateRing(depth, k); err != nil {
		return err
	}
	if err := healpix.ValidateCells(depth, cells); err != nil {
		return err
	}
	if err := dispatch.CheckRows("neighbours", out, n, nested.NeighbourhoodWidth(k)); err != nil {
		return err
	}
	layer := healpix.Get(depth)
	dispatch.RunRows(ctx, dispatch.Default(), "ring.kth_neighbourhood", out, workers, func(i int, row []int64) {
		hood := layer.KthNeighbourhood(layer.FromRing(cells[i]), k)
		for j, c := range hood {
			hood[j] = layer.ToRing(c)
		}
		slices.Sort(hood)
		nested.FillNeighbourhood(row, hood)
	})
	return nil
}

// AngularDistances writes, for every ring cell in from, the great-circle angle in
// radians to each ring cell of the matching row of to. A -1 target gives NaN.
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
	if err := nested.ValidateTargets(depth, to); err != nil {
		return err
	}
	if err := dispatch.CheckRows("distances", out, n, to.Width); err != nil {
		return err
	}
	layer := healpix.Get(depth)
	dispatch.RunRows(ctx, dispatch.Default(), "ring.angular_distances", out, workers, func(i int, row []float64) {
		a := layer.FromRing(from[i])
		for j, c := range to.Row(i) {
			if c < 0 {
				row[j] = math.NaN()
				continue
			}
			row[j] = transform.AngularDistance(layer, a, layer, layer.FromRing(uint64(c)))
		}
	})
	return nil
}
