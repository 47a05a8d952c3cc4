package moc

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const encodingVersion = 1

// header: version, depth, range count
const headerLen = 1 + 1 + 8

var ErrMalformed = errors.New("malformed index encoding")

// MarshalBinary encodes the depth and the range bounds, little endian.
func (ix *Index) MarshalBinary() ([]byte, error) {
	buf := make([]byte, headerLen, headerLen+ix.NBytes())
	buf[0] = encodingVersion
	buf[1] = ix.depth
	binary.LittleEndian.PutUint64(buf[2:], uint64(len(ix.ranges)))
	for _, r := range ix.ranges {
		buf = binary.LittleEndian.AppendUint64(buf, r.Start)
		buf = binary.LittleEndian.AppendUint64(buf, r.End)
	}
	return buf, nil
}

// UnmarshalBinary replaces ix with the decoded index after checking that its ranges are
// coalesced in ascending order below the cell count of its depth.
func (ix *Index) UnmarshalBinary(data []byte) error {
	if len(data) < headerLen {
		return fmt.Errorf("%w: %d bytes is shorter than the header", ErrMalformed, len(data))
	}
	if data[0] != encodingVersion {
		return fmt.Errorf("%w: unknown version %d", ErrMalformed, data[0])
	}
	n := binary.LittleEndian.Uint64(data[2:])
	body := data[headerLen:]
	if n > uint64(len(body)) || uint64(len(body)) != 16*n {
		return fmt.Errorf("%w: %d ranges announced, %d bytes of bounds", ErrMalformed, n, len(body))
	}
	ranges := make([]Range, n)
	for i := range ranges {
		ranges[i].Start = binary.LittleEndian.Uint64(body[16*i:])
		ranges[i].End = binary.LittleEndian.Uint64(body[16*i+8:])
	}
	decoded, err := FromRanges(data[1], ranges)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	*ix = *decoded
	return nil
}

// Decode is UnmarshalBinary into a fresh index.
func Decode(data []byte) (*Index, error) {
	ix := &Index{}
	if err := ix.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return ix, nil
}
