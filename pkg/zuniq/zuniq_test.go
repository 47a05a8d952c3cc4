package zuniq

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
	"github.com/mohammed-shakir/healpix-geo/internal/dispatch"
	"github.com/mohammed-shakir/healpix-geo/internal/ellipsoid"
	"github.com/mohammed-shakir/healpix-geo/internal/healpix"
	"github.com/mohammed-shakir/healpix-geo/pkg/nested"
)

var ctx = context.Background()

func TestFromNested_ToNested_MixedDepths(t *testing.T) {
	cells := []uint64{0, 11, 47, 191, 3, 12<<58 - 1}
	depths := []uint8{0, 0, 1, 2, 10, 29}
	codes := make([]uint64, len(cells))
	if err := FromNested(ctx, cells, healpix.PerElement(depths), codes, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if codes[0] != 1<<58 || codes[1] != 23<<58 {
		t.Fatalf("base cell codes got=%v", codes[:2])
	}
	gotCells := make([]uint64, len(codes))
	gotDepths := make([]uint8, len(codes))
	if err := ToNested(ctx, codes, gotCells, gotDepths, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(cells, gotCells); diff != "" {
		t.Fatalf("cells mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(depths, gotDepths); diff != "" {
		t.Fatalf("depths mismatch (-want +got):\n%s", diff)
	}
}

func TestFromNested_ConstantDepth(t *testing.T) {
	codes := make([]uint64, 4)
	if err := FromNested(ctx, []uint64{0, 1, 2, 3}, healpix.Constant(29), codes, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]uint64{1, 3, 5, 7}, codes); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}
	if err := FromNested(ctx, []uint64{12}, healpix.Constant(0), codes[:1], 1); !errors.Is(err, geoerr.ErrValidation) {
		t.Fatalf("expected validation error for cell 12 at depth 0, got %v", err)
	}
}

func TestToNested_RejectsInvalidCodes(t *testing.T) {
	cells := []uint64{9, 9}
	depths := []uint8{9, 9}
	if err := ToNested(ctx, []uint64{1 << 58, 2}, cells, depths, 1); !errors.Is(err, geoerr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !slices.Equal(cells, []uint64{9, 9}) || !slices.Equal(depths, []uint8{9, 9}) {
		t.Fatalf("outputs written despite the error: %v %v", cells, depths)
	}
}

func TestCoordinates_MatchNested(t *testing.T) {
	lon := []float64{0, 45, 120.5, 300, 359.9}
	lat := []float64{0, 60, -45, 89.9, -89.9}
	depths := []uint8{0, 3, 7, 12, 29}
	ell := ellipsoid.Named("WGS84")

	codes := make([]uint64, len(lon))
	if err := LonLatToHealpix(ctx, lon, lat, healpix.PerElement(depths), ell, codes, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cells := make([]uint64, len(lon))
	if err := nested.LonLatToHealpix(ctx, lon, lat, healpix.PerElement(depths), ell, cells, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := make([]uint64, len(lon))
	if err := FromNested(ctx, cells, healpix.PerElement(depths), want, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(want, codes); diff != "" {
		t.Fatalf("codes mismatch (-want +got):\n%s", diff)
	}

	zl, zt := make([]float64, len(lon)), make([]float64, len(lon))
	if err := HealpixToLonLat(ctx, codes, ell, zl, zt, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nl, nt := make([]float64, len(lon)), make([]float64, len(lon))
	if err := nested.HealpixToLonLat(ctx, cells, healpix.PerElement(depths), ell, nl, nt, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(zl, nl) || !slices.Equal(zt, nt) {
		t.Fatalf("centers differ: zuniq=(%v, %v) nested=(%v, %v)", zl, zt, nl, nt)
	}

	vl, vt := dispatch.NewRows[float64](len(lon), 4), dispatch.NewRows[float64](len(lon), 4)
	if err := Vertices(ctx, codes, ell, vl, vt, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wl, wt := dispatch.NewRows[float64](len(lon), 4), dispatch.NewRows[float64](len(lon), 4)
	if err := nested.Vertices(ctx, cells, healpix.PerElement(depths), ell, wl, wt, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(vl.Data, wl.Data) || !slices.Equal(vt.Data, wt.Data) {
		t.Fatalf("vertices differ")
	}
}

func TestHealpixToLonLat_InvalidCode(t *testing.T) {
	out := make([]float64, 1)
	if err := HealpixToLonLat(ctx, []uint64{0}, ellipsoid.Named("sphere"), out, out, 1); !errors.Is(err, geoerr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
