package healpix

import "slices"

// Direction indexes the result of Layer.Neighbours.
type Direction int

const (
	SouthWest Direction = iota
	West
	NorthWest
	North
	NorthEast
	East
	SouthEast
	South
)

var xoffset = [8]int64{-1, -1, 0, 1, 1, 1, 0, -1}
var yoffset = [8]int64{0, 1, 1, 1, 0, -1, -1, -1}

// facearray[nb][face] is the base cell reached when leaving face towards neighbour
// slot nb (4 is the face itself); -1 where three faces meet.
var facearray = [9][12]int{
	{8, 9, 10, 11, -1, -1, -1, -1, 10, 11, 8, 9},
	{5, 6, 7, 4, 8, 9, 10, 11, 9, 10, 11, 8},
	{-1, -1, -1, -1, 5, 6, 7, 4, -1, -1, -1, -1},
	{4, 5, 6, 7, 11, 8, 9, 10, 11, 8, 9, 10},
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11},
	{1, 2, 3, 0, 0, 1, 2, 3, 5, 6, 7, 4},
	{-1, -1, -1, -1, 7, 4, 5, 6, -1, -1, -1, -1},
	{3, 0, 1, 2, 3, 0, 1, 2, 4, 5, 6, 7},
	{2, 3, 0, 1, -1, -1, -1, -1, 0, 1, 2, 3},
}

// swaparray[nb][face/4] flags the coordinate transform applied on entering the
// neighbouring face: 1 flips x, 2 flips y, 4 swaps x and y.
var swaparray = [9][3]int{
	{0, 0, 3},
	{0, 0, 6},
	{0, 0, 0},
	{0, 0, 5},
	{0, 0, 0},
	{5, 0, 0},
	{0, 0, 0},
	{6, 0, 0},
	{3, 0, 0},
}

// translate resolves face coordinates that may step one cell outside the face.
func (l *Layer) translate(face int, x, y int64) (uint64, bool) {
	n := l.nside
	if x >= 0 && x < n && y >= 0 && y < n {
		return l.nest(x, y, face), true
	}
	nb := 4
	switch {
	case x < 0:
		x += n
		nb--
	case x >= n:
		x -= n
		nb++
	}
	switch {
	case y < 0:
		y += n
		nb -= 3
	case y >= n:
		y -= n
		nb += 3
	}
	f := facearray[nb][face]
	if f < 0 {
		return 0, false
	}
	bits := swaparray[nb][face>>2]
	if bits&1 != 0 {
		x = n - x - 1
	}
	if bits&2 != 0 {
		y = n - y - 1
	}
	if bits&4 != 0 {
		x, y = y, x
	}
	return l.nest(x, y, f), true
}

// Neighbours returns the eight cells around hash, indexed by Direction. Missing
// neighbours, at the corners where only three base cells meet, are -1.
func (l *Layer) Neighbours(hash uint64) [8]int64 {
	x, y, face := l.unnest(hash)
	var out [8]int64
	for i := range out {
		if c, ok := l.translate(face, x+xoffset[i], y+yoffset[i]); ok {
			out[i] = int64(c)
		} else {
			out[i] = -1
		}
	}
	return out
}

// KthNeighbourhood returns every cell within k neighbour steps of hash, including
// hash itself, in ascending order.
func (l *Layer) KthNeighbourhood(hash uint64, k uint32) []uint64 {
	x, y, face := l.unnest(hash)
	kk := int64(k)
	if x-kk >= 0 && x+kk < l.nside && y-kk >= 0 && y+kk < l.nside {
		out := make([]uint64, 0, (2*kk+1)*(2*kk+1))
		for dy := -kk; dy <= kk; dy++ {
			for dx := -kk; dx <= kk; dx++ {
				out = append(out, l.nest(x+dx, y+dy, face))
			}
		}
		slices.Sort(out)
		return out
	}

	seen := map[uint64]struct{}{hash: {}}
	frontier := []uint64{hash}
	for step := uint32(0); step < k && len(frontier) > 0; step++ {
		var next []uint64
		for _, c := range frontier {
			for _, nb := range l.Neighbours(c) {
				if nb < 0 {
					continue
				}
				if _, ok := seen[uint64(nb)]; ok {
					continue
				}
				seen[uint64(nb)] = struct{}{}
				next = append(next, uint64(nb))
			}
		}
		frontier = next
	}
	out := make([]uint64, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}
