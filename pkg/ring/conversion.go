package ring

import (
	"context"

	"github.com/mohammed-shakir/healpix-geo/internal/dispatch"
	"github.com/mohammed-shakir/healpix-geo/internal/healpix"
)

// ToNested writes the nested id of every ring cell.
func ToNested(ctx context.Context, cells []uint64, depth uint8, out []uint64, workers int) error {
	return convert(ctx, "ring.to_nested", cells, depth, out, workers, (*healpix.Layer).FromRing)
}

// FromNested writes the ring id of every nested cell.
func FromNested(ctx context.Context, cells []uint64, depth uint8, out []uint64, workers int) error {
	return convert(ctx, "ring.from_nested", cells, depth, out, workers, (*healpix.Layer).ToRing)
}

func convert(ctx context.Context, op string, cells []uint64, depth uint8, out []uint64, workers int, fn func(*healpix.Layer, uint64) uint64) error {
	n := len(cells)
	if err := healpix.ValidateDepth(depth); err != nil {
		return err
	}
	if err := healpix.ValidateCells(depth, cells); err != nil {
		return err
	}
	if err := dispatch.CheckLen("result", len(out), n); err != nil {
		return err
	}
	layer := healpix.Get(depth)
	dispatch.Default().Run(ctx, op, n, workers, func(i int) { out[i] = fn(layer, cells[i]) })
	return nil
}
