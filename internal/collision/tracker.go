// Package collision tracks term-name-to-key_hash assignments within a
// segment and flags the rare case where two distinct terms hash to the
// same 64-bit key_hash. The on-disk format has no room to store the
// original term string per posting list entry, so colliding terms share
// one posting list; a detected collision is only reported, through
// segment.Segment.HasCollision, and is not logged.
package collision

import (
	"github.com/emberindex/ember/errs"
)

// Tracker tracks term strings against their 64-bit key_hash during
// indexing and detects hash collisions.
type Tracker struct {
	terms        map[uint64]string
	termList     []string
	hasCollision bool
}

// NewTracker creates a new, empty collision tracker.
func NewTracker() *Tracker {
	return &Tracker{
		terms:    make(map[uint64]string),
		termList: make([]string, 0),
	}
}

// Track records that term hashes to keyHash. It returns an error only
// when term is empty; a genuine hash collision (different term, same
// keyHash) sets HasCollision() instead of failing, since the indexing
// path must keep progressing.
func (t *Tracker) Track(term string, keyHash uint64) error {
	if term == "" {
		return errs.ErrUnknownField
	}

	if existing, ok := t.terms[keyHash]; ok {
		if existing != term {
			t.hasCollision = true
		}

		return nil
	}

	t.terms[keyHash] = term
	t.termList = append(t.termList, term)

	return nil
}

// HasCollision reports whether any two distinct terms tracked so far
// share a key_hash.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Count returns the number of distinct terms tracked.
func (t *Tracker) Count() int {
	return len(t.termList)
}

// Reset clears all tracked terms, retaining allocated capacity for reuse
// across segments.
func (t *Tracker) Reset() {
	for k := range t.terms {
		delete(t.terms, k)
	}
	t.termList = t.termList[:0]
	t.hasCollision = false
}
