package healpix

// Parent returns the ancestor of hash at the coarser depth to.
func (l *Layer) Parent(hash uint64, to uint8) uint64 {
	return hash >> (2 * uint64(l.depth-to))
}

// Children returns the first descendant of hash at the finer depth to and the
// number of descendants; they are contiguous.
func (l *Layer) Children(hash uint64, to uint8) (first, count uint64) {
	shift := 2 * uint64(to-l.depth)
	return hash << shift, 1 << shift
}

// Siblings returns the cells sharing the parent of hash, hash included. At depth 0
// it returns the twelve base cells.
func (l *Layer) Siblings(hash uint64) (first, count uint64) {
	if l.depth == 0 {
		return 0, 12
	}
	return hash &^ 3, 4
}
