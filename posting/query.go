package posting

import "github.com/emberindex/ember/format"

// DeltaCursor tracks the bit-packed Delta compression's decode state
// (spec.md §4.3): the bit width used per gap and the current bit position
// within the block's Delta payload.
type DeltaCursor struct {
	Rangebits int
	BitPos    int
}

// RLECursor tracks an RLE block's decode state: the current run's end
// local-docid, the run index, and the cumulative posting count through
// the end of the previous run (needed to compute a matched docid's
// absolute posting index for positional lookup).
type RLECursor struct {
	RunEnd  uint16
	PRun    int
	PRunSum int
}

// Query is the per-term cursor state a search holds while scanning one
// term across a segment's blocks (spec.md §4.3): the block pointer,
// p_docid cursor within the current block, compression-specific cursor
// state, and the scoring inputs computed once per term at query start.
//
// Non-unique query terms (e.g. a phrase query repeating a term) get their
// own Query value sharing the same PostingListIndex, so each occurrence
// tracks an independent position cursor.
type Query struct {
	Index *PostingListIndex

	BlockIdx int // index into Index.Blocks of the block currently being scanned
	PDocID   int // logical cursor: postings already consumed in the current block

	Delta DeltaCursor
	RLE   RLECursor

	IDF          float64
	IDFBigram1   float64
	IDFBigram2   float64
	MaxListScore float64
}

// NewQuery builds the initial cursor state for a term, positioned before
// its first block.
func NewQuery(idx *PostingListIndex) *Query {
	return &Query{
		Index:        idx,
		BlockIdx:     -1,
		MaxListScore: idx.MaxListScore,
	}
}

// CurrentBlock returns the block the cursor currently points at, or false
// if the cursor has been advanced past the last block.
func (q *Query) CurrentBlock() (BlockIndexEntry, bool) {
	if q.BlockIdx < 0 || q.BlockIdx >= len(q.Index.Blocks) {
		return BlockIndexEntry{}, false
	}

	return q.Index.Blocks[q.BlockIdx], true
}

// Advance moves the cursor to the next block and resets the per-block
// posting cursor, returning the new block or false if exhausted.
func (q *Query) Advance() (BlockIndexEntry, bool) {
	q.BlockIdx++
	q.PDocID = 0
	q.Delta = DeltaCursor{}
	q.RLE = RLECursor{}

	return q.CurrentBlock()
}

// SeekBlock advances the cursor to the first block with BlockID >= target,
// using a linear scan forward from the current position (blocks arrive in
// ascending BlockID order, and callers only ever seek forward).
func (q *Query) SeekBlock(target uint32) (BlockIndexEntry, bool) {
	for {
		b, ok := q.CurrentBlock()
		if !ok {
			if q.BlockIdx < 0 {
				if b, ok = q.Advance(); !ok {
					return BlockIndexEntry{}, false
				}
				if b.BlockID >= target {
					return b, true
				}
				continue
			}

			return BlockIndexEntry{}, false
		}
		if b.BlockID >= target {
			return b, true
		}
		if _, ok = q.Advance(); !ok {
			return BlockIndexEntry{}, false
		}
	}
}

// BM25Contribution computes one field's BM25F contribution given a raw
// term frequency, the block's BM25 denominator component for the
// document's compressed length, boost, and whether to use bigram idf.
func BM25Contribution(tf float64, bm25Component float64, boost float64, idf float64, sigma float64, k float64) float64 {
	return boost * idf * (tf*(k+1)/(tf+bm25Component) + sigma)
}

// ResolveIDF picks which cached idf a term's score should use: bigram idf
// when the term is a bigram and the similarity mode isn't proximity,
// otherwise the unigram idf.
func ResolveIDF(q *Query, similarity format.SimilarityType) float64 {
	if q.Index.IsBigram() && similarity != format.Bm25fProximity {
		if q.IDFBigram1 != 0 {
			return q.IDFBigram1
		}

		return q.IDFBigram2
	}

	return q.IDF
}
