package search

import (
	"sort"

	"github.com/emberindex/ember/positions"
	"github.com/emberindex/ember/segment"
)

// scorePhrase implements Phrase-typed query clauses (spec.md §4.8,
// scenario 3): every word must be present in the document, in the same
// field, at strictly consecutive positions.
func scorePhrase(idx Segmenter, seg *segment.Segment, words []resolvedTerm, totalDocs uint64) (map[uint32]float64, error) {
	for _, w := range words {
		if w.plIdx == nil {
			return map[uint32]float64{}, nil
		}
	}
	if len(words) == 1 {
		return scoreTerm(idx, seg, words[0], totalDocs, false)
	}

	matches, err := alignAndIntersect(seg, words)
	if err != nil {
		return nil, err
	}

	scores := make(map[uint32]float64)
	for _, m := range matches {
		for _, local := range m.locals {
			postingsAt := make([]positions.Posting, len(words))
			aligned := true
			for i := range words {
				p, found := m.blocks[i].indexOfLocal(local)
				if !found {
					aligned = false
					break
				}
				post, err := m.blocks[i].postingAt(p)
				if err != nil {
					return nil, err
				}
				postingsAt[i] = post
			}
			if !aligned || !phraseAligned(postingsAt) {
				continue
			}

			docID := m.blockID<<16 | uint32(local)
			total := 0.0
			for i, w := range words {
				total += postingContribution(idx, w.plIdx, totalDocs, m.blockID, local, postingsAt[i])
			}
			scores[docID] = total
		}
	}

	return scores, nil
}

// phraseAligned reports whether some field holds every word's position in
// strict consecutive order: word i's position equals word 0's plus i.
// This checks the same ordering invariant spec.md §4.8's two-cursor scan
// enforces for adjacent words (pos[t1] + term_index[t2] == pos[t2] +
// term_index[t1]), via direct lookups into each word's already-decoded
// position list instead of a live cursor walk. The first aligned starting
// position found is taken as a match; spec.md §9 leaves open whether a
// phrase match should be counted per-occurrence, and this module only
// needs presence to decide a document matches at all.
func phraseAligned(ps []positions.Posting) bool {
	for _, fp0 := range ps[0].Fields {
		for _, p0 := range fp0.Positions {
			matched := true
			for i := 1; i < len(ps); i++ {
				fpi, ok := fieldPositions(ps[i], fp0.FieldID)
				if !ok || !containsPosition(fpi, p0+uint32(i)) {
					matched = false
					break
				}
			}
			if matched {
				return true
			}
		}
	}

	return false
}

func fieldPositions(p positions.Posting, fieldID uint16) ([]uint32, bool) {
	for _, fp := range p.Fields {
		if fp.FieldID == fieldID {
			return fp.Positions, true
		}
	}

	return nil, false
}

func containsPosition(list []uint32, target uint32) bool {
	i := sort.Search(len(list), func(i int) bool { return list[i] >= target })

	return i < len(list) && list[i] == target
}
