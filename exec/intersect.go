package exec

import (
	"math/bits"

	"github.com/emberindex/ember/block"
	"github.com/emberindex/ember/endian"
	"github.com/emberindex/ember/format"
)

func defaultEngine() endian.EndianEngine {
	return endian.GetLittleEndianEngine()
}

// IntersectArrayArray merges two ascending Array docid lists using
// exponential-then-linear galloping on b: for each element of a, gallop
// forward in b by doubling step size until overshooting, then binary
// search the bracketed range (spec.md §4.5).
func IntersectArrayArray(a, b []uint16) []uint16 {
	out := make([]uint16, 0, min(len(a), len(b)))
	j := 0
	for _, v := range a {
		if j >= len(b) {
			break
		}

		// Gallop.
		step := 1
		k := j
		for k < len(b) && b[k] < v {
			j = k
			k += step
			step *= 2
		}
		if k > len(b) {
			k = len(b)
		}

		// Binary search [j, k) for v.
		lo, hi := j, k
		for lo < hi {
			mid := (lo + hi) / 2
			if b[mid] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		j = lo

		if j < len(b) && b[j] == v {
			out = append(out, v)
			j++
		}
	}

	return out
}

func min(a, b int) int {
	if a < b {
		return a
	}

	return b
}

// IntersectArrayBitmap probes each element of a against t2's bitmap
// directly, maintaining t2's exact p_docid (the number of set bits before
// the probed position, i.e. the match's zero-based posting index) so
// positional lookups on the bitmap side can use the right posting index
// (spec.md §4.5).
//
// Returns the matching docids and, parallel to it, each match's p_docid
// within the bitmap side.
func IntersectArrayBitmap(a []uint16, bitmap []byte) (docids []uint16, pDocIDs []int) {
	var runningPopcount int
	nextByte := 0 // bytes [0, nextByte) are already summed into runningPopcount

	for _, v := range a {
		byteIdx := int(v) >> 3
		for ; nextByte < byteIdx; nextByte++ {
			runningPopcount += bits.OnesCount8(bitmap[nextByte])
		}

		if !block.Test(bitmap, v) {
			continue
		}

		mask := byte(1<<(uint(v&7)+1) - 1)
		pBefore := runningPopcount + bits.OnesCount8(bitmap[byteIdx]&mask) - 1
		docids = append(docids, v)
		pDocIDs = append(pDocIDs, pBefore)
	}

	return docids, pDocIDs
}

// IntersectBitmapBitmap ANDs two bitmaps word-wise and iterates set bits
// via trailing-zero-count / clear-lowest-bit, as spec.md §4.5 specifies.
func IntersectBitmapBitmap(a, b []byte) []uint16 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	out := make([]uint16, 0)
	for i := 0; i < n; i++ {
		v := a[i] & b[i]
		for v != 0 {
			bit := v & (-v)
			pos := bits.TrailingZeros8(bit)
			out = append(out, uint16(i*8+pos))
			v &= v - 1
		}
	}

	return out
}

// CountBitmapBitmap is the two-term fast path for Count-only queries:
// it sums matches without materializing the docid list.
func CountBitmapBitmap(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	count := 0
	for i := 0; i < n; i++ {
		count += bits.OnesCount8(a[i] & b[i])
	}

	return count
}

// Generic decodes both operands via block.Decode and merges them as plain
// ascending slices. Used for every compression pairing besides the three
// kernels specialized above (see package doc).
func Generic(tagA format.CompressionTag, dataA []byte, tagB format.CompressionTag, dataB []byte) ([]uint16, error) {
	a, err := block.Decode(tagA, dataA)
	if err != nil {
		return nil, err
	}
	b, err := block.Decode(tagB, dataB)
	if err != nil {
		return nil, err
	}

	return IntersectArrayArray(a, b), nil
}

// Intersect dispatches to the best-available kernel for the compression
// pairing of two blocks' docid payloads.
func Intersect(tagA format.CompressionTag, dataA []byte, tagB format.CompressionTag, dataB []byte) ([]uint16, error) {
	switch {
	case tagA == format.CompressionArray && tagB == format.CompressionArray:
		a, err := block.DecodeArray(dataA, defaultEngine())
		if err != nil {
			return nil, err
		}
		b, err := block.DecodeArray(dataB, defaultEngine())
		if err != nil {
			return nil, err
		}

		return IntersectArrayArray(a, b), nil

	case tagA == format.CompressionArray && tagB == format.CompressionBitmap:
		a, err := block.DecodeArray(dataA, defaultEngine())
		if err != nil {
			return nil, err
		}
		docids, _ := IntersectArrayBitmap(a, dataB)

		return docids, nil

	case tagA == format.CompressionBitmap && tagB == format.CompressionArray:
		b, err := block.DecodeArray(dataB, defaultEngine())
		if err != nil {
			return nil, err
		}
		docids, _ := IntersectArrayBitmap(b, dataA)

		return docids, nil

	case tagA == format.CompressionBitmap && tagB == format.CompressionBitmap:
		return IntersectBitmapBitmap(dataA, dataB), nil

	default:
		return Generic(tagA, dataA, tagB, dataB)
	}
}
