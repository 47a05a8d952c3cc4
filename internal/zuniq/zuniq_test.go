package zuniq

import (
	"errors"
	"testing"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
	"github.com/mohammed-shakir/healpix-geo/internal/healpix"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for d := uint8(0); d <= healpix.DepthMax; d++ {
		n := healpix.NCells(d)
		for _, cell := range []uint64{0, 1, n / 2, n - 1} {
			z := Encode(d, cell)
			gd, gc, err := Decode(z)
			if err != nil {
				t.Fatalf("depth %d cell %d: %v", d, cell, err)
			}
			if gd != d || gc != cell {
				t.Fatalf("got=(%d,%d) want=(%d,%d)", gd, gc, d, cell)
			}
		}
	}
}

func TestEncode_KnownValues(t *testing.T) {
	if got, want := Encode(29, 0), uint64(1); got != want {
		t.Fatalf("got=%d want=%d", got, want)
	}
	if got, want := Encode(0, 0), uint64(1)<<58; got != want {
		t.Fatalf("got=%d want=%d", got, want)
	}
	if got, want := Encode(0, 11), uint64(23)<<58; got != want {
		t.Fatalf("got=%d want=%d", got, want)
	}
}

func TestEncode_OrdersChildrenAroundParent(t *testing.T) {
	parent := Encode(3, 100)
	for i := range uint64(4) {
		child := Encode(4, 400+i)
		if i < 2 && child >= parent {
			t.Fatalf("child %d should sort before its parent", i)
		}
		if i >= 2 && child <= parent {
			t.Fatalf("child %d should sort after its parent", i)
		}
	}
}

func TestDecode_Invalid(t *testing.T) {
	for _, z := range []uint64{0, 2, 1 << 59, healpix.NCells(0)<<59 | 1<<58} {
		if _, _, err := Decode(z); !errors.Is(err, geoerr.ErrValidation) {
			t.Fatalf("%d: expected validation error, got %v", z, err)
		}
	}
}

func TestDepth(t *testing.T) {
	d, err := Depth(Encode(12, 5))
	if err != nil || d != 12 {
		t.Fatalf("got=(%d,%v) want=12", d, err)
	}
}
