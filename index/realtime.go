package index

import "github.com/emberindex/ember/realtime"

// indexRealtime appends one (term, doc) occurrence's positions to the
// segment's uncommitted linked-list buffer, in parallel with the level-0
// map accumulation Commit later drains. Searches with include_uncommitted
// set walk this buffer directly instead of waiting for the next commit
// (spec.md §4.11).
//
// The realtime record format stores a block-local (uint16) docid, not the
// full global docid: the buffer is reset on every commit, so at any given
// moment it only ever holds postings belonging to the single in-flight
// block, and idx.blockBase<<16 recovers the high bits on read.
func (idx *Index) indexRealtime(segID int, keyHash uint64, docID uint32, fieldID uint16, positions []uint32) {
	if idx.realtimeLens[segID] == nil {
		idx.realtimeLens[segID] = make(map[uint32]int)
	}

	local := uint16(docID - idx.blockBase<<16)
	encoded := realtime.EncodePositions(fieldID, positions)
	off := idx.realtime[segID].Append(keyHash, local, encoded)
	idx.realtimeLens[segID][off] = len(encoded)
}

// WalkRealtime decodes every uncommitted posting for keyHash in segment
// segID and calls fn with its reconstructed global docid, field id, and
// positions. Used by the search path when a request sets
// IncludeUncommitted (spec.md §6).
func (idx *Index) WalkRealtime(segID int, keyHash uint64, fn func(docID uint32, fieldID uint16, positions []uint32)) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	buf := idx.realtime[segID]
	lens := idx.realtimeLens[segID]
	base := idx.blockBase

	return buf.Walk(keyHash, func(off uint32) int {
		return lens[off]
	}, func(rec realtime.Record) bool {
		fieldID, positions, err := realtime.DecodePositions(rec.Positions)
		if err != nil {
			return true
		}
		fn(base<<16|uint32(rec.DocID), fieldID, positions)

		return true
	})
}
