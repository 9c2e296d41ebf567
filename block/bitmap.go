package block

import "github.com/emberindex/ember/section"

// BitmapBytes is the fixed size of a Bitmap-compressed block payload: one
// bit per addressable local docid.
const BitmapBytes = section.BitmapBlockBytes

// EncodeBitmap serializes docids as a fixed BitmapBytes-byte bitmap, one
// bit per local docid, matching dense blocks where most candidates are
// present.
func EncodeBitmap(docids []uint16) []byte {
	b := make([]byte, BitmapBytes)
	for _, d := range docids {
		b[d>>3] |= 1 << (d & 7)
	}

	return b
}

// DecodeBitmap parses a Bitmap-compressed block payload back into an
// ascending docid slice.
func DecodeBitmap(data []byte) []uint16 {
	docids := make([]uint16, 0, len(data)*2)
	for byteIdx, v := range data {
		for v != 0 {
			bit := v & (-v)
			pos := trailingZeros8(bit)
			docids = append(docids, uint16(byteIdx*8+pos))
			v &= v - 1
		}
	}

	return docids
}

// Test reports whether local docid d is set in a Bitmap-compressed block
// payload, without a full decode. Used by merge kernels that probe one
// operand while iterating the other.
func Test(data []byte, d uint16) bool {
	return data[d>>3]&(1<<(d&7)) != 0
}

func trailingZeros8(v byte) int {
	for i := 0; i < 8; i++ {
		if v&(1<<i) != 0 {
			return i
		}
	}

	return 8
}
