package search

import (
	"github.com/emberindex/ember/rank"
	"github.com/emberindex/ember/segment"
)

// scoreUnion sums every should-term's BM25F contribution per docid
// (spec.md §4.6): a document matching any subset of these terms gets the
// sum of whichever contributed.
func scoreUnion(idx Segmenter, seg *segment.Segment, terms []resolvedTerm, totalDocs uint64, includeUncommitted bool) (map[uint32]float64, error) {
	scores := make(map[uint32]float64)
	for _, t := range terms {
		m, err := scoreTerm(idx, seg, t, totalDocs, includeUncommitted)
		if err != nil {
			return nil, err
		}
		for docID, s := range m {
			scores[docID] += s
		}
	}

	return scores, nil
}

// scoreTerm scores one resolved term against a segment's committed blocks
// and, if requested, its realtime buffer (spec.md §4.11).
func scoreTerm(idx Segmenter, seg *segment.Segment, rt resolvedTerm, totalDocs uint64, includeUncommitted bool) (map[uint32]float64, error) {
	scores := make(map[uint32]float64)

	if rt.plIdx != nil {
		tc := newTermCursor(idx, seg, rt.plIdx)
		if err := tc.scoreInto(scores, totalDocs); err != nil {
			return nil, err
		}
	}

	if includeUncommitted {
		df := uint64(0)
		if rt.plIdx != nil {
			df = rt.plIdx.PostingCount
		}
		idf := rank.IDF(totalDocs, df)
		if err := addRealtimeScores(idx, seg, rt.keyHash, idf, scores); err != nil {
			return nil, err
		}
	}

	return scores, nil
}

// addRealtimeScores merges a term's uncommitted postings into scores, one
// BM25F contribution per docid summed across whatever fields it occurred
// in. The bm25Component uses the average-length case (rank.K): the
// realtime tier has no committed block to carry a per-document length
// table for yet, so there is nothing more precise to normalize against.
func addRealtimeScores(idx Segmenter, seg *segment.Segment, keyHash uint64, idf float64, scores map[uint32]float64) error {
	tf := make(map[uint32]float64)
	err := idx.WalkRealtime(seg.ID, keyHash, func(docID uint32, fieldID uint16, positions []uint32) {
		tf[docID] += float64(len(positions))
	})
	if err != nil {
		return err
	}

	for docID, t := range tf {
		scores[docID] += rank.FieldContribution(1.0, idf, t, rank.K)
	}

	return nil
}

// applyNot removes every docid neg's term touches, committed or
// uncommitted, from scores (spec.md §4.7).
func applyNot(idx Segmenter, seg *segment.Segment, scores map[uint32]float64, neg resolvedTerm, includeUncommitted bool) error {
	if neg.plIdx != nil {
		tc := newTermCursor(idx, seg, neg.plIdx)
		if err := tc.forEachDocID(func(docID uint32) { delete(scores, docID) }); err != nil {
			return err
		}
	}

	if includeUncommitted {
		return idx.WalkRealtime(seg.ID, neg.keyHash, func(docID uint32, fieldID uint16, positions []uint32) {
			delete(scores, docID)
		})
	}

	return nil
}
