package exec

import (
	"sort"

	"github.com/emberindex/ember/block"
	"github.com/emberindex/ember/format"
)

// Rejects reports whether local docid d appears in a NOT term's block
// payload, per the kernel spec.md §4.7 gives for each compression: Array
// advances linearly (binary search here, equivalent result) to >= d,
// Bitmap direct-tests the bit, RLE is decoded to its docids and
// binary-searched (equivalent to walking runs until run_end >= d).
func Rejects(tag format.CompressionTag, data []byte, d uint16) (bool, error) {
	switch tag {
	case format.CompressionBitmap:
		return block.Test(data, d), nil

	case format.CompressionArray:
		docids, err := block.DecodeArray(data, defaultEngine())
		if err != nil {
			return false, err
		}
		i := sort.Search(len(docids), func(i int) bool { return docids[i] >= d })

		return i < len(docids) && docids[i] == d, nil

	case format.CompressionRLE:
		docids, err := block.DecodeRLE(data, defaultEngine())
		if err != nil {
			return false, err
		}
		i := sort.Search(len(docids), func(i int) bool { return docids[i] >= d })

		return i < len(docids) && docids[i] == d, nil

	default:
		docids, err := block.Decode(tag, data)
		if err != nil {
			return false, err
		}
		for _, v := range docids {
			if v == d {
				return true, nil
			}
		}

		return false, nil
	}
}

// BM25FlagInert reports whether a NOT term carries no postings in this
// block at all — in that case the filter is inert (cannot reject
// anything) and the bm25_flag toggles off (spec.md §4.7).
func BM25FlagInert(postingCount int) bool {
	return postingCount == 0
}
