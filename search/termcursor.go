package search

import (
	"github.com/emberindex/ember/positions"
	"github.com/emberindex/ember/posting"
	"github.com/emberindex/ember/rank"
	"github.com/emberindex/ember/segment"
)

// termCursor is one resolved term's view across every committed block in
// a segment: enough to accumulate BM25F contributions per docid or to
// walk every docid the term touches (for NOT clauses), without decoding
// more of a block than a caller asks for.
type termCursor struct {
	idx   Segmenter
	seg   *segment.Segment
	query *posting.PostingListIndex
}

func newTermCursor(idx Segmenter, seg *segment.Segment, query *posting.PostingListIndex) *termCursor {
	return &termCursor{idx: idx, seg: seg, query: query}
}

// scoreInto decodes every block this term touches and adds its BM25F
// contribution to each matching docid's running score (spec.md §4.9).
func (tc *termCursor) scoreInto(scores map[uint32]float64, totalDocs uint64) error {
	for _, be := range tc.query.Blocks {
		arena := tc.seg.BlockBytes(int(be.BlockID))
		tb, err := decodeTermBlock(arena, be)
		if err != nil {
			return err
		}

		for i, local := range tb.locals {
			p, err := tb.postingAt(i)
			if err != nil {
				return err
			}

			docID := be.BlockID<<16 | uint32(local)
			scores[docID] += postingContribution(tc.idx, tc.query, totalDocs, be.BlockID, local, p)
		}
	}

	return nil
}

// forEachDocID calls fn with every docid this term touches, across every
// committed block, without decoding positions (used by NOT clauses, which
// only need presence).
func (tc *termCursor) forEachDocID(fn func(uint32)) error {
	for _, be := range tc.query.Blocks {
		arena := tc.seg.BlockBytes(int(be.BlockID))
		tb, err := decodeTermBlock(arena, be)
		if err != nil {
			return err
		}

		for _, local := range tb.locals {
			fn(be.BlockID<<16 | uint32(local))
		}
	}

	return nil
}

// postingContribution sums a decoded posting's BM25F contribution across
// every field it occurs in, each scored against that field's own boost,
// idf, and real per-document length normalization (spec.md §4.9):
// rank.BM25Component of the document's compressed field length against
// that field's running average, not the average-length placeholder.
func postingContribution(idx Segmenter, plIdx *posting.PostingListIndex, totalDocs uint64, blockID uint32, local uint16, p positions.Posting) float64 {
	idf := rank.IDF(totalDocs, plIdx.PostingCount)
	s := idx.Schema()

	total := 0.0
	for _, fp := range p.Fields {
		tf := float64(len(fp.Positions))
		compLen := idx.DocLengthCompressed(blockID, fp.FieldID, local)
		avgLen := idx.FieldAvgLen(fp.FieldID)
		bm25Component := rank.BM25Component(compLen, avgLen)

		boost := 1.0
		if f, ok := s.ByID(fp.FieldID); ok && f.Boost != 0 {
			boost = f.Boost
		}

		total += rank.FieldContribution(boost, idf, tf, bm25Component)
	}

	return total
}
