package segment

import (
	"github.com/emberindex/ember/endian"
	"github.com/emberindex/ember/posting"
	"github.com/emberindex/ember/section"
)

// RestoreLevel appends one previously-committed level's block bytes to
// the segment's arena and rebuilds its term map from the block's leading
// key head table, for the index-open/reload path (spec.md §6). estimate
// supplies a block's MaxBlockScore for each key head entry, since the
// score is never itself persisted; the postings are not scanned here, so
// the value is whatever estimate computes from the entry alone.
//
// A reopened segment has no term strings to feed collision.Tracker (only
// key hashes survive on disk), so HasCollision is unreliable after a
// reload; that check is only meaningful for a freshly built index.
func (s *Segment) RestoreLevel(blockID uint32, data []byte, keyCount uint32, engine endian.EndianEngine, estimate func(section.KeyHeadEntry) float64) error {
	s.AppendBlock(data, keyCount)

	cursor := 0
	for i := uint32(0); i < keyCount; i++ {
		entry, err := section.ParseKeyHeadEntry(data[cursor:], engine)
		if err != nil {
			return err
		}
		cursor += section.KeyHeadEntrySize

		idx, ok := s.terms[entry.KeyHash]
		if !ok {
			idx = &posting.PostingListIndex{KeyHash: entry.KeyHash}
			s.terms[entry.KeyHash] = idx
		}
		idx.PostingCount += uint64(entry.PostingCount) + 1

		be := posting.FromKeyHeadEntry(blockID, entry)
		be.MaxBlockScore = estimate(entry)
		idx.Blocks = append(idx.Blocks, be)
	}

	return nil
}
