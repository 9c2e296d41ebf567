package index

import (
	"sort"

	"github.com/emberindex/ember/section"
)

// level0Posting is one term's accumulated occurrences for one document in
// the mutable, uncommitted level (spec.md §3's PostingListObject0).
type level0Posting struct {
	docID  uint32
	fields map[uint16][]uint32 // field id -> ascending positions within that field
}

// level0Term accumulates a segment's in-RAM postings for one term before
// commit serializes them into an immutable block.
type level0Term struct {
	keyHash  uint64
	postings map[uint32]*level0Posting // docID -> posting, built incrementally as documents are indexed
}

func newLevel0Term(keyHash uint64) *level0Term {
	return &level0Term{keyHash: keyHash, postings: make(map[uint32]*level0Posting)}
}

func (t *level0Term) add(docID uint32, fieldID uint16, position uint32) {
	p, ok := t.postings[docID]
	if !ok {
		p = &level0Posting{docID: docID, fields: make(map[uint16][]uint32)}
		t.postings[docID] = p
	}
	p.fields[fieldID] = append(p.fields[fieldID], position)
}

// blockSingleField reports whether every document carrying this term
// uses exactly one, and the same, field, and returns that field id (0 if
// not uniform). Terms touching more than one field anywhere in the block
// can never use single-field pointer embedding.
func blockSingleField(t *level0Term) (uint16, bool) {
	var fieldID uint16
	seen := false

	for _, p := range t.postings {
		if len(p.fields) != 1 {
			return section.NoEmbeddedField, false
		}
		for fid := range p.fields {
			if !seen {
				fieldID = fid
				seen = true
			} else if fid != fieldID {
				return section.NoEmbeddedField, false
			}
		}
	}

	return fieldID, true
}

// sortedDocIDs returns the term's accumulated docids in ascending order,
// the order a committed block's docid payload and key head entry require.
func (t *level0Term) sortedDocIDs() []uint32 {
	docIDs := make([]uint32, 0, len(t.postings))
	for d := range t.postings {
		docIDs = append(docIDs, d)
	}
	sort.Slice(docIDs, func(i, j int) bool { return docIDs[i] < docIDs[j] })

	return docIDs
}
