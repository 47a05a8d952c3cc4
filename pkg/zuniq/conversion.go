// Package zuniq is the bulk interface over depth-embedding zuniq codes, where each
// element carries its own depth.
package zuniq

import (
	"context"
	"fmt"

	"github.com/mohammed-shakir/healpix-geo/internal/dispatch"
	"github.com/mohammed-shakir/healpix-geo/internal/healpix"
	"github.com/mohammed-shakir/healpix-geo/internal/zuniq"
)

// ValidateCodes decodes every code once so the bulk operations can dispatch
// infallible work.
func ValidateCodes(codes []uint64) error {
	for i, z := range codes {
		if _, _, err := zuniq.Decode(z); err != nil {
			return fmt.Errorf("position %d: %w", i, err)
		}
	}
	return nil
}

// decode is only called on codes that passed ValidateCodes.
func decode(z uint64) (uint8, uint64) {
	d, c, _ := zuniq.Decode(z)
	return d, c
}

// FromNested encodes nested cells at a constant or per-element depth.
func FromNested(ctx context.Context, cells []uint64, depth healpix.Depths, out []uint64, workers int) error {
	n := len(cells)
	if err := depth.Validate(n); err != nil {
		return err
	}
	if err := depth.ValidateCells(cells); err != nil {
		return err
	}
	if err := dispatch.CheckLen("zuniq", len(out), n); err != nil {
		return err
	}
	dispatch.Default().Run(ctx, "zuniq.from_nested", n, workers, func(i int) {
		out[i] = zuniq.Encode(depth.At(i), cells[i])
	})
	return nil
}

// ToNested decodes every code into its nested cell and depth.
func ToNested(ctx context.Context, codes []uint64, cells []uint64, depths []uint8, workers int) error {
	n := len(codes)
	if err := ValidateCodes(codes); err != nil {
		return err
	}
	if err := dispatch.CheckLen("cells", len(cells), n); err != nil {
		return err
	}
	if err := dispatch.CheckLen("depths", len(depths), n); err != nil {
		return err
	}
	dispatch.Default().Run(ctx, "zuniq.to_nested", n, workers, func(i int) {
		depths[i], cells[i] = decode(codes[i])
	})
	return nil
}
