package exec

import (
	"sort"

	"github.com/emberindex/ember/block"
	"github.com/emberindex/ember/format"
)

// UnionBlockID merges N terms' docid lists block-aligned, producing the
// union's docids. Used for Count-only queries or queries with more than
// two terms (spec.md §4.6).
func UnionBlockID(lists [][]uint16) []uint16 {
	seen := make(map[uint16]struct{})
	for _, l := range lists {
		for _, d := range l {
			seen[d] = struct{}{}
		}
	}

	out := make([]uint16, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sortUint16(out)

	return out
}

// UnionDocID2 is the two-term union fast path, ORing both sides into an
// auxiliary block-granularity bitmap (spec.md §4.6).
func UnionDocID2(a, b []uint16) []uint16 {
	var bitmap [block.BitmapBytes]byte
	for _, d := range a {
		bitmap[d>>3] |= 1 << (d & 7)
	}
	for _, d := range b {
		bitmap[d>>3] |= 1 << (d & 7)
	}

	return block.DecodeBitmap(bitmap[:])
}

// UnionDocID3 generalizes the union to more than two terms by delegating
// to UnionBlockID: it collects the distinct docids of every list and
// sorts them ascending. It uses no priority queue and does no max-score
// pruning.
func UnionDocID3(lists [][]uint16) []uint16 {
	return UnionBlockID(lists)
}

func sortUint16(s []uint16) {
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
}

// DecodeAll decodes every block payload in lists to ascending docid
// slices, for callers assembling operands for the union strategies above.
func DecodeAll(tags []format.CompressionTag, datas [][]byte) ([][]uint16, error) {
	out := make([][]uint16, len(datas))
	for i, data := range datas {
		docids, err := block.Decode(tags[i], data)
		if err != nil {
			return nil, err
		}
		out[i] = docids
	}

	return out, nil
}
