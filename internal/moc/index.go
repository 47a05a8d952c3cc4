// Package moc implements a range-coded multi-order coverage of cells that all live at
// one depth. An Index is immutable; set operations and selections build new ones.
package moc

import (
	"fmt"
	"slices"

	"github.com/mohammed-shakir/healpix-geo/internal/core/geoerr"
	"github.com/mohammed-shakir/healpix-geo/internal/healpix"
)

// Range is the half-open interval [Start, End) of cell ids.
type Range struct {
	Start uint64
	End   uint64
}

func (r Range) Len() uint64 { return r.End - r.Start }

// Index holds sorted, disjoint and non-touching ranges at a fixed depth.
type Index struct {
	depth  uint8
	ranges []Range
}

// FullDomain covers every cell at depth.
func FullDomain(depth uint8) (*Index, error) {
	if err := healpix.ValidateDepth(depth); err != nil {
		return nil, err
	}
	return &Index{depth: depth, ranges: []Range{{0, healpix.NCells(depth)}}}, nil
}

// FromCellIDs builds the coverage of ids, which may be unsorted and repeated.
func FromCellIDs(depth uint8, ids []uint64) (*Index, error) {
	if err := healpix.ValidateDepth(depth); err != nil {
		return nil, err
	}
	if err := healpix.ValidateCells(depth, ids); err != nil {
		return nil, err
	}
	return fromCells(depth, ids), nil
}

// fromCells expects ids already validated for depth.
func fromCells(depth uint8, ids []uint64) *Index {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var ranges []Range
	for _, id := range sorted {
		if n := len(ranges); n > 0 && ranges[n-1].End == id {
			ranges[n-1].End++
			continue
		}
		ranges = append(ranges, Range{id, id + 1})
	}
	return &Index{depth: depth, ranges: ranges}
}

// FromRanges builds an index from ranges that must already be sorted and coalesced.
func FromRanges(depth uint8, ranges []Range) (*Index, error) {
	if err := healpix.ValidateDepth(depth); err != nil {
		return nil, err
	}
	n := healpix.NCells(depth)
	for i, r := range ranges {
		if r.Start >= r.End {
			return nil, geoerr.Validation("ranges", "range %d is empty or inverted: [%d, %d)", i, r.Start, r.End)
		}
		if r.End > n {
			return nil, geoerr.Validation("ranges", "range %d ends at %d, past the %d cells of depth %d", i, r.End, n, depth)
		}
		if i > 0 && r.Start <= ranges[i-1].End {
			return nil, geoerr.Validation("ranges", "range %d overlaps or touches its predecessor", i)
		}
	}
	return &Index{depth: depth, ranges: slices.Clone(ranges)}, nil
}

func (ix *Index) Depth() uint8 { return ix.depth }

// Ranges returns a copy of the coverage ranges.
func (ix *Index) Ranges() []Range { return slices.Clone(ix.ranges) }

// Size is the number of covered cells.
func (ix *Index) Size() uint64 {
	var n uint64
	for _, r := range ix.ranges {
		n += r.Len()
	}
	return n
}

// NBytes is the footprint of the range bounds: two 64-bit values per range.
func (ix *Index) NBytes() int { return 16 * len(ix.ranges) }

func (ix *Index) IsEmpty() bool { return len(ix.ranges) == 0 }

// CellIDs expands the coverage into ascending cell ids.
func (ix *Index) CellIDs() []uint64 {
	out := make([]uint64, 0, ix.Size())
	for _, r := range ix.ranges {
		for c := r.Start; c < r.End; c++ {
			out = append(out, c)
		}
	}
	return out
}

func (ix *Index) Contains(cell uint64) bool {
	_, found := slices.BinarySearchFunc(ix.ranges, cell, func(r Range, c uint64) int {
		switch {
		case r.End <= c:
			return -1
		case r.Start > c:
			return 1
		}
		return 0
	})
	return found
}

func (ix *Index) Equal(other *Index) bool {
	return ix.depth == other.depth && slices.Equal(ix.ranges, other.ranges)
}

func (ix *Index) String() string {
	return fmt.Sprintf("RangeMOCIndex(depth=%d, ranges=%d, size=%d)", ix.depth, len(ix.ranges), ix.Size())
}

func (ix *Index) checkDepth(other *Index) error {
	if ix.depth != other.depth {
		return fmt.Errorf("%w: depth %d vs %d", geoerr.ErrDepthMismatch, ix.depth, other.depth)
	}
	return nil
}

// Union returns the cells covered by either index.
func (ix *Index) Union(other *Index) (*Index, error) {
	if err := ix.checkDepth(other); err != nil {
		return nil, err
	}
	a, b := ix.ranges, other.ranges
	out := make([]Range, 0, len(a)+len(b))
	push := func(r Range) {
		if n := len(out); n > 0 && r.Start <= out[n-1].End {
			out[n-1].End = max(out[n-1].End, r.End)
			return
		}
		out = append(out, r)
	}
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		if j >= len(b) || (i < len(a) && a[i].Start <= b[j].Start) {
			push(a[i])
			i++
		} else {
			push(b[j])
			j++
		}
	}
	return &Index{depth: ix.depth, ranges: out}, nil
}

// Intersection returns the cells covered by both indexes.
func (ix *Index) Intersection(other *Index) (*Index, error) {
	if err := ix.checkDepth(other); err != nil {
		return nil, err
	}
	return &Index{depth: ix.depth, ranges: intersect(ix.ranges, other.ranges)}, nil
}

func intersect(a, b []Range) []Range {
	var out []Range
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		lo := max(a[i].Start, b[j].Start)
		hi := min(a[i].End, b[j].End)
		if lo < hi {
			out = append(out, Range{lo, hi})
		}
		if a[i].End < b[j].End {
			i++
		} else {
			j++
		}
	}
	return out
}

// rank counts the covered cells below cell.
func (ix *Index) rank(cell uint64) uint64 {
	var n uint64
	for _, r := range ix.ranges {
		if r.Start >= cell {
			break
		}
		n += min(r.End, cell) - r.Start
	}
	return n
}
