package moc

import (
	"fmt"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
)

// Slice is a positional selector with optional bounds. Nil fields take the usual
// defaults: the whole sequence, step 1.
type Slice struct {
	Start *int64
	Stop  *int64
	Step  *int64
}

// Span returns the slice [start, stop) with unit step.
func Span(start, stop int64) Slice { return Slice{Start: &start, Stop: &stop} }

// ConcreteSlice is a Slice resolved against a sequence length. With a negative step
// Stop may be -1, one before the first element.
type ConcreteSlice struct {
	Start int64
	Stop  int64
	Step  int64
}

// Concrete resolves s against a sequence of length size. Negative bounds count from
// the end, and out-of-range bounds are clamped.
func (s Slice) Concrete(size int64) (ConcreteSlice, error) {
	step := int64(1)
	if s.Step != nil {
		step = *s.Step
	}
	if step == 0 {
		return ConcreteSlice{}, geoerr.Validation("step", "slice step cannot be zero")
	}
	lower, upper := int64(0), size
	if step < 0 {
		lower, upper = -1, size-1
	}
	resolve := func(v *int64, def int64) int64 {
		if v == nil {
			return def
		}
		x := *v
		if x < 0 {
			x += size
			if x < lower {
				x = lower
			}
		} else if x > upper {
			x = upper
		}
		return x
	}
	startDef, stopDef := lower, upper
	if step < 0 {
		startDef, stopDef = upper, lower
	}
	return ConcreteSlice{
		Start: resolve(s.Start, startDef),
		Stop:  resolve(s.Stop, stopDef),
		Step:  step,
	}, nil
}

func (s Slice) String() string {
	f := func(v *int64) string {
		if v == nil {
			return "None"
		}
		return fmt.Sprint(*v)
	}
	return fmt.Sprintf("Slice(%s, %s, %s)", f(s.Start), f(s.Stop), f(s.Step))
}

// Len is the number of positions the slice selects.
func (c ConcreteSlice) Len() int64 {
	switch {
	case c.Step > 0 && c.Start < c.Stop:
		return (c.Stop-c.Start-1)/c.Step + 1
	case c.Step < 0 && c.Stop < c.Start:
		return (c.Start-c.Stop-1)/(-c.Step) + 1
	}
	return 0
}

// Positions expands the slice into explicit positions.
func (c ConcreteSlice) Positions() []int64 {
	out := make([]int64, 0, c.Len())
	for i, p := int64(0), c.Start; i < c.Len(); i, p = i+1, p+c.Step {
		out = append(out, p)
	}
	return out
}

func (c ConcreteSlice) String() string {
	return fmt.Sprintf("ConcreteSlice(%d, %d, %d)", c.Start, c.Stop, c.Step)
}
