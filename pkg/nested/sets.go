package nested

import (
	"github.com/mohammed-shakir/healpix-geo/internal/moc"
)

// RangeMOCIndex is a range-coded coverage of cells at one depth.
type RangeMOCIndex = moc.Index

func FullDomain(depth uint8) (*RangeMOCIndex, error) { return moc.FullDomain(depth) }

func FromCellIDs(depth uint8, cells []uint64) (*RangeMOCIndex, error) {
	return moc.FromCellIDs(depth, cells)
}

// InternalBoundary returns the cells of the set with a neighbour outside it.
func InternalBoundary(depth uint8, cells []uint64) ([]uint64, error) {
	return moc.InternalBoundary(depth, cells)
}
