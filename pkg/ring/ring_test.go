package ring

import (
	"context"
	"errors"
	"math"
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

func cellRange(n uint64) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = uint64(i)
	}
	return out
}

func TestFromNested_DepthOne(t *testing.T) {
	want := []uint64{
		13, 5, 4, 0, 15, 7, 6, 1, 17, 9, 8, 2, 19, 11, 10, 3,
		28, 20, 27, 12, 30, 22, 21, 14, 32, 24, 23, 16, 34, 26, 25, 18,
		44, 37, 36, 29, 45, 39, 38, 31, 46, 41, 40, 33, 47, 43, 42, 35,
	}
	got := make([]uint64, 48)
	if err := FromNested(ctx, cellRange(48), 1, got, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ring ids mismatch (-want +got):\n%s", diff)
	}
	back := make([]uint64, 48)
	if err := ToNested(ctx, got, 1, back, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(cellRange(48), back); diff != "" {
		t.Fatalf("nested ids mismatch (-want +got):\n%s", diff)
	}
}

func TestConversion_Validation(t *testing.T) {
	out := make([]uint64, 1)
	if err := ToNested(ctx, []uint64{48}, 1, out, 1); !errors.Is(err, geoerr.ErrValidation) {
		t.Fatalf("expected validation error for ring id 48, got %v", err)
	}
	if err := FromNested(ctx, []uint64{0}, 30, out, 1); !errors.Is(err, geoerr.ErrValidation) {
		t.Fatalf("expected validation error for depth 30, got %v", err)
	}
	if err := FromNested(ctx, []uint64{0, 1}, 1, out, 1); !errors.Is(err, geoerr.ErrValidation) {
		t.Fatalf("expected validation error for short output, got %v", err)
	}
}

func TestLonLat_RoundTrip(t *testing.T) {
	for _, depth := range []uint8{0, 2, 5} {
		cells := cellRange(healpix.NCells(depth))
		lon := make([]float64, len(cells))
		lat := make([]float64, len(cells))
		if err := HealpixToLonLat(ctx, cells, healpix.Constant(depth), ellipsoid.Named("WGS84"), lon, lat, 3); err != nil {
			t.Fatalf("depth %d: %v", depth, err)
		}
		for i := 1; i < len(lat); i++ {
			if lat[i] > lat[i-1]+1e-9 {
				t.Fatalf("depth %d: ring ids should run north to south, lat[%d]=%v lat[%d]=%v", depth, i-1, lat[i-1], i, lat[i])
			}
		}
		back := make([]uint64, len(cells))
		if err := LonLatToHealpix(ctx, lon, lat, healpix.Constant(depth), ellipsoid.Named("WGS84"), back, 3); err != nil {
			t.Fatalf("depth %d: %v", depth, err)
		}
		if !slices.Equal(back, cells) {
			t.Fatalf("depth %d: round trip differs", depth)
		}
	}
}

func TestVertices_MatchNested(t *testing.T) {
	ringIDs := []uint64{0, 69, 113, 191}
	nestedIDs := make([]uint64, len(ringIDs))
	if err := ToNested(ctx, ringIDs, 2, nestedIDs, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rl, rt := dispatch.NewRows[float64](4, 4), dispatch.NewRows[float64](4, 4)
	nl, nt := dispatch.NewRows[float64](4, 4), dispatch.NewRows[float64](4, 4)
	if err := Vertices(ctx, ringIDs, healpix.Constant(2), ellipsoid.Named("sphere"), rl, rt, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := nested.Vertices(ctx, nestedIDs, healpix.Constant(2), ellipsoid.Named("sphere"), nl, nt, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(nl.Data, rl.Data); diff != "" {
		t.Fatalf("longitudes mismatch (-nested +ring):\n%s", diff)
	}
	if diff := cmp.Diff(nt.Data, rt.Data); diff != "" {
		t.Fatalf("latitudes mismatch (-nested +ring):\n%s", diff)
	}
}

func TestKthNeighbourhood(t *testing.T) {
	layer := healpix.Get(2)
	cells := []uint64{69, 113}
	out := dispatch.NewRows[int64](2, 9)
	if err := KthNeighbourhood(ctx, cells, 2, 1, out, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, c := range cells {
		want := []int64{int64(c)}
		for _, nb := range layer.Neighbours(layer.FromRing(c)) {
			if nb >= 0 {
				want = append(want, int64(layer.ToRing(uint64(nb))))
			}
		}
		slices.Sort(want)
		for len(want) < 9 {
			want = append(want, -1)
		}
		if diff := cmp.Diff(want, out.Row(i)); diff != "" {
			t.Fatalf("ring cell %d mismatch (-want +got):\n%s", c, diff)
		}
	}
	if err := KthNeighbourhood(ctx, cells, 2, 1, dispatch.NewRows[int64](2, 8), 1); !errors.Is(err, geoerr.ErrValidation) {
		t.Fatalf("expected validation error for row width, got %v", err)
	}
}

func TestAngularDistances(t *testing.T) {
	// ring and nested ids coincide at depth 0
	to := dispatch.Rows[int64]{Data: []int64{6, 5, -1}, Width: 3}
	out := dispatch.NewRows[float64](1, 3)
	if err := AngularDistances(ctx, []uint64{4}, to, 0, out, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(out.Data[0]-math.Pi) > 1e-12 || math.Abs(out.Data[1]-math.Pi/2) > 1e-12 || !math.IsNaN(out.Data[2]) {
		t.Fatalf("got=%v", out.Data)
	}
	if err := AngularDistances(ctx, []uint64{4, 5}, to, 0, out, 1); !errors.Is(err, geoerr.ErrValidation) {
		t.Fatalf("expected validation error for row count, got %v", err)
	}
}
