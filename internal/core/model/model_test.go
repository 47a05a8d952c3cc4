package model

import (
	"errors"
	"math"
	"testing"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
)

func TestBbox_Validate(t *testing.T) {
	ok := []Bbox{
		NewBbox([4]float64{-10, -10, 10, 10}),
		NewBbox([4]float64{350, 0, 10, 5}),
		{LonMin: 0, LatMin: -90, LonMax: 360, LatMax: 90},
	}
	for _, b := range ok {
		if err := b.Validate(); err != nil {
			t.Fatalf("%s: unexpected error %v", b, err)
		}
	}
	bad := []Bbox{
		{LonMin: 0, LatMin: 10, LonMax: 1, LatMax: 5},
		{LonMin: 0, LatMin: -91, LonMax: 1, LatMax: 5},
		{LonMin: math.NaN(), LatMin: 0, LonMax: 1, LatMax: 5},
	}
	for _, b := range bad {
		if err := b.Validate(); !errors.Is(err, geoerr.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", b, err)
		}
	}
}

func TestParseScheme(t *testing.T) {
	for in, want := range map[string]Scheme{"nested": Nested, "RING": Ring, " zuniq": Zuniq, "": Nested} {
		got, err := ParseScheme(in)
		if err != nil || got != want {
			t.Fatalf("%q: got=(%v,%v) want=%v", in, got, err, want)
		}
	}
	if _, err := ParseScheme("morton"); !errors.Is(err, geoerr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
