package index

import (
	"github.com/emberindex/ember/block"
	"github.com/emberindex/ember/endian"
	"github.com/emberindex/ember/format"
	"github.com/emberindex/ember/section"
)

func defaultEngine() endian.EndianEngine {
	return endian.GetLittleEndianEngine()
}

// level0Terms lazily allocates and returns the per-segment term maps that
// accumulate since the last commit.
func (idx *Index) level0Terms() []map[uint64]*level0Term {
	if idx.terms == nil {
		idx.terms = make([]map[uint64]*level0Term, idx.segmentCount)
		idx.termName = make([]map[uint64]string, idx.segmentCount)
		for i := range idx.terms {
			idx.terms[i] = make(map[uint64]*level0Term)
			idx.termName[i] = make(map[uint64]string)
		}
	}

	return idx.terms
}

// resetLevel0 clears every segment's accumulated terms after a commit has
// drained them into immutable blocks.
func (idx *Index) resetLevel0() {
	for i := range idx.terms {
		idx.terms[i] = make(map[uint64]*level0Term)
		idx.termName[i] = make(map[uint64]string)
	}
}

// encodeLocalDocIDs picks a compression kernel for a block's ascending
// local docids and serializes them (spec.md §3's adaptive block choice).
func encodeLocalDocIDs(locals []uint16) (format.CompressionTag, []byte) {
	return block.Encode(locals)
}

// assembleBlock concatenates a block's key head table with the
// already-built per-term payloads that follow it (pointer table,
// positions records, docid payload). It does not adjust any entry:
// commitLocked sets each PointerTableOffset relative to the start of the
// block's bytes, key head table included, before calling it.
func assembleBlock(entries []section.KeyHeadEntry, payloads []byte) []byte {
	headerSize := len(entries) * section.KeyHeadEntrySize
	out := make([]byte, 0, headerSize+len(payloads))

	for _, e := range entries {
		out = append(out, e.Bytes(defaultEngine())...)
	}
	out = append(out, payloads...)

	return out
}
