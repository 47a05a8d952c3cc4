package moc

import (
	"fmt"
	"slices"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
)

// Select keeps the cells at the positions picked by s, counting positions over the
// ascending cell ids. Only unit steps can be expressed as ranges.
func (ix *Index) Select(s Slice) (*Index, error) {
	c, err := s.Concrete(int64(ix.Size()))
	if err != nil {
		return nil, err
	}
	if c.Step != 1 {
		return nil, fmt.Errorf("%w: slice step %d, only 1 is supported", geoerr.ErrUnsupportedSelection, c.Step)
	}
	if c.Start >= c.Stop {
		return &Index{depth: ix.depth}, nil
	}
	return ix.selectSpan(uint64(c.Start), uint64(c.Stop)), nil
}

// SelectPositions keeps the cells at the given positions, which must be ascending
// and consecutive.
func (ix *Index) SelectPositions(positions []uint64) (*Index, error) {
	if len(positions) == 0 {
		return &Index{depth: ix.depth}, nil
	}
	first := positions[0]
	for i, p := range positions {
		if p != first+uint64(i) {
			return nil, fmt.Errorf("%w: positions must be consecutive and ascending (position %d is %d)", geoerr.ErrUnsupportedSelection, i, p)
		}
	}
	last := positions[len(positions)-1]
	if size := ix.Size(); last >= size {
		return nil, geoerr.Validation("positions", "position %d out of range for an index of %d cells", last, size)
	}
	return ix.selectSpan(first, last+1), nil
}

// selectSpan keeps positions [from, to) of the flattened coverage.
func (ix *Index) selectSpan(from, to uint64) *Index {
	var out []Range
	var offset uint64
	for _, r := range ix.ranges {
		n := r.Len()
		lo := max(from, offset)
		hi := min(to, offset+n)
		if lo < hi {
			out = append(out, Range{r.Start + lo - offset, r.Start + hi - offset})
		}
		offset += n
		if offset >= to {
			break
		}
	}
	return &Index{depth: ix.depth, ranges: out}
}

// SelectRange keeps the cells with ids in [lo, hi], both inclusive, and reports the
// positions they occupied in ix.
func (ix *Index) SelectRange(lo, hi uint64) (ConcreteSlice, *Index) {
	if lo > hi {
		start := int64(ix.rank(lo))
		return ConcreteSlice{Start: start, Stop: start, Step: 1}, &Index{depth: ix.depth}
	}
	end := hi + 1
	if hi == ^uint64(0) {
		end = hi
	}
	sub := &Index{depth: ix.depth, ranges: intersect(ix.ranges, []Range{{lo, end}})}
	start := int64(ix.rank(lo))
	return ConcreteSlice{Start: start, Stop: start + int64(sub.Size()), Step: 1}, sub
}

// SelectCells keeps the requested cells that ix covers and returns their positions in ix.
func (ix *Index) SelectCells(cells []uint64) ([]int64, *Index) {
	wanted := slices.Clone(cells)
	slices.Sort(wanted)
	wanted = slices.Compact(wanted)

	var kept []uint64
	var positions []int64
	for _, c := range wanted {
		if ix.Contains(c) {
			kept = append(kept, c)
			positions = append(positions, int64(ix.rank(c)))
		}
	}
	return positions, fromCells(ix.depth, kept)
}
