package moc

import (
	"slices"

	"github.com/mohammed-shakir/healpix-geo/internal/healpix"
)

// InternalBoundary returns, in ascending order, the covered cells with at least one
// of their eight neighbours outside the coverage.
//
// Each range is split into the largest aligned blocks it holds. A block whose
// neighbours at its own depth are all covered has no boundary cell, since its
// cells' neighbours lie in the block or in those neighbours; otherwise the block is
// split into its four children. The work follows the boundary length rather than
// the number of covered cells.
func (ix *Index) InternalBoundary() []uint64 {
	out := []uint64{}
	var walk func(depth uint8, hash uint64)
	walk = func(depth uint8, hash uint64) {
		shift := 2 * uint(ix.depth-depth)
		inside := true
		for _, nb := range healpix.Get(depth).Neighbours(hash) {
			if nb >= 0 && !ix.covers(uint64(nb)<<shift, uint64(nb+1)<<shift) {
				inside = false
				break
			}
		}
		if inside {
			return
		}
		if depth == ix.depth {
			out = append(out, hash)
			return
		}
		for i := range uint64(4) {
			walk(depth+1, hash<<2|i)
		}
	}
	for _, r := range ix.ranges {
		for s := r.Start; s < r.End; {
			k := uint(0)
			for k < uint(ix.depth) && s%(1<<(2*(k+1))) == 0 && s+1<<(2*(k+1)) <= r.End {
				k++
			}
			walk(ix.depth-uint8(k), s>>(2*k))
			s += 1 << (2 * k)
		}
	}
	return out
}

// covers reports whether [lo, hi) lies inside a single range.
func (ix *Index) covers(lo, hi uint64) bool {
	i, _ := slices.BinarySearchFunc(ix.ranges, lo, func(r Range, c uint64) int {
		if r.End <= c {
			return -1
		}
		return 1
	})
	return i < len(ix.ranges) && ix.ranges[i].Start <= lo && hi <= ix.ranges[i].End
}

// InternalBoundary builds the coverage of ids at depth and returns its boundary cells.
func InternalBoundary(depth uint8, ids []uint64) ([]uint64, error) {
	ix, err := FromCellIDs(depth, ids)
	if err != nil {
		return nil, err
	}
	return ix.InternalBoundary(), nil
}
