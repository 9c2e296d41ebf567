// Package segment implements the per-segment term map and append-only
// block byte arena (spec.md §3): one hash partition of the term space,
// holding a key_hash -> posting.PostingListIndex map and a growing
// sequence of committed block byte arrays.
package segment

import (
	"sort"

	"github.com/emberindex/ember/internal/collision"
	"github.com/emberindex/ember/posting"
)

// BlockOffset records where a committed block's bytes live within the
// segment's in-memory arena (spec.md §3).
type BlockOffset struct {
	FileOffset int64
	Length     uint32
	KeyCount   uint32
}

// Segment is one hash partition of the term space.
type Segment struct {
	ID int

	terms     map[uint64]*posting.PostingListIndex
	collision *collision.Tracker

	// arena holds every committed block's serialized bytes, concatenated
	// in commit order; BlockOffsets[i] describes arena's i-th block.
	arena        []byte
	BlockOffsets []BlockOffset
}

// New creates an empty segment.
func New(id int) *Segment {
	return &Segment{
		ID:        id,
		terms:     make(map[uint64]*posting.PostingListIndex),
		collision: collision.NewTracker(),
	}
}

// Lookup returns the PostingListIndex for a term's key_hash, if present.
func (s *Segment) Lookup(keyHash uint64) (*posting.PostingListIndex, bool) {
	idx, ok := s.terms[keyHash]

	return idx, ok
}

// GetOrCreate returns the existing PostingListIndex for (term, keyHash),
// creating one if this is the term's first appearance in the segment.
// Tracking the term string through collision.Tracker lets the segment
// detect and report key_hash collisions between distinct terms.
func (s *Segment) GetOrCreate(term string, keyHash uint64) (*posting.PostingListIndex, error) {
	if err := s.collision.Track(term, keyHash); err != nil {
		return nil, err
	}

	if idx, ok := s.terms[keyHash]; ok {
		return idx, nil
	}

	idx := &posting.PostingListIndex{KeyHash: keyHash}
	s.terms[keyHash] = idx

	return idx, nil
}

// HasCollision reports whether any two distinct terms in this segment
// hashed to the same key_hash.
func (s *Segment) HasCollision() bool {
	return s.collision.HasCollision()
}

// AppendBlock appends a newly committed block's bytes to the arena and
// records its offset table entry.
func (s *Segment) AppendBlock(data []byte, keyCount uint32) BlockOffset {
	off := BlockOffset{
		FileOffset: int64(len(s.arena)),
		Length:     uint32(len(data)),
		KeyCount:   keyCount,
	}
	s.arena = append(s.arena, data...)
	s.BlockOffsets = append(s.BlockOffsets, off)

	return off
}

// BlockBytes returns the byte slice for the blockIdx-th committed block
// (Ram access mode: the arena is already fully resident).
func (s *Segment) BlockBytes(blockIdx int) []byte {
	off := s.BlockOffsets[blockIdx]

	return s.arena[off.FileOffset : off.FileOffset+int64(off.Length)]
}

// Arena returns the full concatenated byte arena, for serialization or
// for handing to an mmap-backed reader.
func (s *Segment) Arena() []byte {
	return s.arena
}

// Terms returns every term's PostingListIndex, sorted by KeyHash for
// deterministic serialization order.
func (s *Segment) Terms() []*posting.PostingListIndex {
	out := make([]*posting.PostingListIndex, 0, len(s.terms))
	for _, idx := range s.terms {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].KeyHash < out[j].KeyHash })

	return out
}
