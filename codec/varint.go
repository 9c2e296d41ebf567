package codec

import "github.com/emberindex/ember/errs"

// maxPositionBits bounds a single position value: per-field token count is
// capped at 65,536, so positions fit in 21 bits (spec.md §4.1).
const maxPositionBits = 21

// EncodePosition serializes a single position value as 1-3 bytes of 7-bit
// chunks, least-significant chunk first. Each byte's top bit is a
// continuation stop-bit: 0 means another chunk follows, 1 means this is
// the final chunk. A 4th byte is never emitted since values are bounded to
// maxPositionBits bits.
func EncodePosition(v uint32) []byte {
	chunk0 := byte(v & 0x7F)
	v >>= 7
	if v == 0 {
		return []byte{chunk0 | 0x80}
	}

	chunk1 := byte(v & 0x7F)
	v >>= 7
	if v == 0 {
		return []byte{chunk0, chunk1 | 0x80}
	}

	chunk2 := byte(v & 0x7F)

	return []byte{chunk0, chunk1, chunk2 | 0x80}
}

// DecodePosition reads one variable-byte position from the start of data,
// returning the value and the number of bytes consumed.
func DecodePosition(data []byte) (uint32, int, error) {
	var v uint32
	for i := 0; i < 3; i++ {
		if i >= len(data) {
			return 0, 0, errs.ErrInvalidPointerTag
		}

		b := data[i]
		v |= uint32(b&0x7F) << uint(7*i)
		if b&0x80 != 0 {
			return v, i + 1, nil
		}
	}

	return 0, 0, errs.ErrTooManyPositions
}

// EncodePositions serializes an ascending slice of positions as a
// concatenated variable-byte stream. Positions are stored as successive
// absolute values (not delta-coded): the stream format itself carries no
// ordering requirement beyond what the caller chooses to emit.
func EncodePositions(positions []uint32) []byte {
	out := make([]byte, 0, len(positions)*2)
	for _, p := range positions {
		out = append(out, EncodePosition(p)...)
	}

	return out
}

// DecodePositions decodes count consecutive variable-byte positions from
// the start of data.
func DecodePositions(data []byte, count int) ([]uint32, error) {
	positions := make([]uint32, count)
	off := 0
	for i := 0; i < count; i++ {
		v, n, err := DecodePosition(data[off:])
		if err != nil {
			return nil, err
		}
		positions[i] = v
		off += n
	}

	return positions, nil
}
