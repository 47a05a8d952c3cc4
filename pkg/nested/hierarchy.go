package nested

import (
	"context"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
	"github.com/mohammed-shakir/healpix-geo/internal/dispatch"
	"github.com/mohammed-shakir/healpix-geo/internal/healpix"
)

// ZoomWidth is the row width ZoomTo writes: 4^(newDepth-depth) when zooming in,
// otherwise 1.
func ZoomWidth(depth, newDepth uint8) int {
	if newDepth <= depth {
		return 1
	}
	return 1 << (2 * int(newDepth-depth))
}

// ZoomTo maps every cell to newDepth: itself, its parent, or all its children.
func ZoomTo(ctx context.Context, cells []uint64, depth, newDepth uint8, out dispatch.Rows[uint64], workers int) error {
	n := len(cells)
	if err := healpix.ValidateDepth(depth); err != nil {
		return err
	}
	if err := healpix.ValidateDepth(newDepth); err != nil {
		return geoerr.Validation("new_depth", "must be between 0 and %d, inclusive (got %d)", healpix.DepthMax, newDepth)
	}
	if err := healpix.ValidateCells(depth, cells); err != nil {
		return err
	}
	if err := dispatch.CheckRows("result", out, n, ZoomWidth(depth, newDepth)); err != nil {
		return err
	}
	layer := healpix.Get(depth)
	d := dispatch.Default()
	switch {
	case newDepth == depth:
		d.Run(ctx, "nested.zoom_to", n, workers, func(i int) { out.Data[i] = cells[i] })
	case newDepth < depth:
		d.Run(ctx, "nested.zoom_to", n, workers, func(i int) { out.Data[i] = layer.Parent(cells[i], newDepth) })
	default:
		dispatch.RunRows(ctx, d, "nested.zoom_to", out, workers, func(i int, row []uint64) {
			first, _ := layer.Children(cells[i], newDepth)
			for j := range row {
				row[j] = first + uint64(j)
			}
		})
	}
	return nil
}

// SiblingsWidth is 12 at depth 0, where the base cells have no parent, otherwise 4.
func SiblingsWidth(depth uint8) int {
	if depth == 0 {
		return 12
	}
	return 4
}

// Siblings writes every cell sharing the parent of each input cell, the cell itself
// included.
func Siblings(ctx context.Context, cells []uint64, depth uint8, out dispatch.Rows[uint64], workers int) error {
	n := len(cells)
	if err := healpix.ValidateDepth(depth); err != nil {
		return err
	}
	if err := healpix.ValidateCells(depth, cells); err != nil {
		return err
	}
	if err := dispatch.CheckRows("result", out, n, SiblingsWidth(depth)); err != nil {
		return err
	}
	layer := healpix.Get(depth)
	dispatch.RunRows(ctx, dispatch.Default(), "nested.siblings", out, workers, func(i int, row []uint64) {
		first, _ := layer.Siblings(cells[i])
		for j := range row {
			row[j] = first + uint64(j)
		}
	})
	return nil
}
