package posting

import (
	"github.com/emberindex/ember/format"
	"github.com/emberindex/ember/section"
)

// BlockIndexEntry is the in-memory counterpart of a block's presence for
// one term: everything section.KeyHeadEntry carries, plus MaxBlockScore,
// which is never persisted — it is estimated when the block is committed
// and estimated again from document frequency alone when an index is
// opened.
type BlockIndexEntry struct {
	BlockID            uint32
	PostingCount       uint16
	MaxDocID           uint16
	MaxPDocID          uint16
	BigramTermID1      uint8
	BigramTermID2      uint8
	PointerPivotPDocID uint16
	EmbeddedFieldID    uint16
	CompressionTag     format.CompressionTag
	PointerTableOffset uint32
	MaxBlockScore      float64
}

// FromKeyHeadEntry builds a BlockIndexEntry from its on-disk form.
// MaxBlockScore is left zero; callers recompute it during commit/open.
func FromKeyHeadEntry(blockID uint32, e section.KeyHeadEntry) BlockIndexEntry {
	tag, offset := section.UnpackCompressionPointer(e.CompressionPointer)

	return BlockIndexEntry{
		BlockID:            blockID,
		PostingCount:       e.PostingCount,
		MaxDocID:           e.MaxDocID,
		MaxPDocID:          e.MaxPDocID,
		BigramTermID1:      e.BigramTermID1,
		BigramTermID2:      e.BigramTermID2,
		PointerPivotPDocID: e.PointerPivotPDocID,
		EmbeddedFieldID:    e.EmbeddedFieldID,
		CompressionTag:     tag,
		PointerTableOffset: offset,
	}
}

// KeyHeadEntry converts back to the on-disk form, for serializing a
// freshly committed block's key head table.
func (b BlockIndexEntry) KeyHeadEntry(keyHash uint64) section.KeyHeadEntry {
	return section.KeyHeadEntry{
		KeyHash:            keyHash,
		PostingCount:       b.PostingCount,
		MaxDocID:           b.MaxDocID,
		MaxPDocID:          b.MaxPDocID,
		BigramTermID1:      b.BigramTermID1,
		BigramTermID2:      b.BigramTermID2,
		PointerPivotPDocID: b.PointerPivotPDocID,
		EmbeddedFieldID:    b.EmbeddedFieldID,
		CompressionPointer: section.PackCompressionPointer(b.CompressionTag, b.PointerTableOffset),
	}
}

// PostingListIndex is the per-term metadata a segment keeps in its
// key_hash -> PostingListIndex map (spec.md §3).
type PostingListIndex struct {
	KeyHash       uint64
	PostingCount  uint64
	BigramTermID1 uint8
	BigramTermID2 uint8
	MaxListScore  float64
	Blocks        []BlockIndexEntry
}

// IsBigram reports whether this term is a synthetic bigram of two
// stopwords rather than an ordinary token.
func (p *PostingListIndex) IsBigram() bool {
	return p.BigramTermID1 != section.BigramNone || p.BigramTermID2 != section.BigramNone
}

// BlockFor returns the entry for blockID and whether it was found. Blocks
// are append-only and sorted by BlockID by construction, so callers that
// scan many terms in block order can instead walk Blocks directly.
func (p *PostingListIndex) BlockFor(blockID uint32) (BlockIndexEntry, bool) {
	for _, b := range p.Blocks {
		if b.BlockID == blockID {
			return b, true
		}
	}

	return BlockIndexEntry{}, false
}
