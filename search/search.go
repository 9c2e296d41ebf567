package search

import (
	"github.com/emberindex/ember/facet"
	"github.com/emberindex/ember/format"
	"github.com/emberindex/ember/internal/hash"
	"github.com/emberindex/ember/posting"
	"github.com/emberindex/ember/query"
	"github.com/emberindex/ember/schema"
	"github.com/emberindex/ember/segment"
	"github.com/emberindex/ember/topk"
)

// Segmenter is the subset of index.Index the search path needs: segment
// lookup, schema access, BM25F's per-document length tables, and the
// realtime tier, kept as an interface so this package doesn't import
// index (which in turn lets index depend on search for convenience
// wrappers without a cycle).
type Segmenter interface {
	SegmentCount() int
	SegmentFor(i int) *segment.Segment
	Schema() *schema.Schema
	Similarity() format.SimilarityType
	IsDeleted(docID uint32) bool
	IndexedDocCount() uint64
	FieldAvgLen(fieldID uint16) float64
	DocLengthCompressed(blockID uint32, fieldID uint16, local uint16) uint8
	WalkRealtime(segID int, keyHash uint64, fn func(docID uint32, fieldID uint16, positions []uint32)) error
}

// Request is one search call's parameters (spec.md §6's search op).
type Request struct {
	Query           string
	DefaultType     format.QueryType
	Offset          int
	Length          int
	FacetFilters    []facet.Filter
	FacetStore      *facet.Store
	FacetFieldIndex int // which FacetFilters[i]/FacetStore facet this query targets, -1 if none
	FacetCounts     []FacetCount
	// IncludeUncommitted merges each clause's realtime (uncommitted)
	// postings into scoring, not just its committed blocks (spec.md §4.11,
	// §6's include_uncommitted).
	IncludeUncommitted bool
}

// Result is one scored, ranked document.
type Result struct {
	DocID uint32
	Score float64
}

// Response is the result of a search call.
type Response struct {
	ResultCount      int
	ResultCountTotal int
	Results          []Result
	Facets           []FacetResult
}

// Search executes a parsed query string against every segment of idx and
// returns the top Request.Length results after Request.Offset, per
// spec.md §6.
func Search(idx Segmenter, req Request) (Response, error) {
	parsed := query.Parse(req.Query, req.DefaultType)
	counters := newFacetCounters(req.FacetCounts)

	heap := topk.New(req.Offset + req.Length)
	total := 0

	if len(parsed.Terms) == 0 && len(parsed.Phrases) == 0 {
		// An empty query string is spec.md §8 scenario 5's "match every
		// document" case: there is no clause to resolve per segment, so
		// facet counting/filtering runs directly over every docid.
		n, err := searchMatchAll(idx, req, heap, counters)
		if err != nil {
			return Response{}, err
		}
		total = n
	} else {
		for segID := 0; segID < idx.SegmentCount(); segID++ {
			seg := idx.SegmentFor(segID)

			n, err := searchSegment(idx, seg, parsed, req, heap, counters)
			if err != nil {
				return Response{}, err
			}
			total += n
		}
	}

	sorted := heap.Sorted()
	resp := Response{ResultCountTotal: total, Facets: counters.results()}
	if req.Offset < len(sorted) {
		end := req.Offset + req.Length
		if end > len(sorted) {
			end = len(sorted)
		}
		for _, r := range sorted[req.Offset:end] {
			resp.Results = append(resp.Results, Result{DocID: r.DocID, Score: r.Score})
		}
	}
	resp.ResultCount = len(resp.Results)

	return resp, nil
}

// searchMatchAll walks every docid the index has ever assigned, for an
// empty query string: there are no terms to intersect or union, so every
// non-deleted document (subject to the facet filter) is a match, each
// with a zero score.
func searchMatchAll(idx Segmenter, req Request, heap *topk.Heap, counters *facetCounters) (int, error) {
	count := 0
	n := idx.IndexedDocCount()

	for docID := uint32(0); uint64(docID) < n; docID++ {
		if idx.IsDeleted(docID) {
			continue
		}
		if req.FacetStore != nil && req.FacetFieldIndex >= 0 && req.FacetFieldIndex < len(req.FacetFilters) {
			if !facet.Passes(req.FacetFilters[req.FacetFieldIndex], req.FacetStore, docID, req.FacetFieldIndex) {
				continue
			}
		}

		count++
		counters.add(req.FacetStore, docID)
		heap.Push(topk.Result{DocID: docID, Score: 0})
	}

	return count, nil
}

// searchSegment evaluates every clause against one segment, scoring and
// pushing survivors into heap. Returns the number of documents that
// passed every clause in this segment (for ResultCountTotal).
func searchSegment(idx Segmenter, seg *segment.Segment, parsed query.Parsed, req Request, heap *topk.Heap, counters *facetCounters) (int, error) {
	totalDocs := idx.IndexedDocCount()

	must, should, not := resolveTerms(seg, parsed)
	phrases := resolvePhrases(seg, parsed)

	if len(must) == 0 && len(should) == 0 && len(phrases) == 0 {
		return 0, nil
	}

	// must-terms and phrase clauses are both "required": a document has to
	// satisfy every one of them (spec.md §8 scenarios 2 and 3), so their
	// score maps are intersected rather than summed. should-terms are
	// purely additive (spec.md §4.6): once the required set is known, a
	// should-term only contributes extra score to documents already in it,
	// or — if nothing is required — defines the whole candidate set.
	var required []map[uint32]float64

	if len(must) > 0 {
		m, err := scoreIntersection(idx, seg, must, totalDocs, req.IncludeUncommitted)
		if err != nil {
			return 0, err
		}
		required = append(required, m)
	}
	for _, ph := range phrases {
		m, err := scorePhrase(idx, seg, ph, totalDocs)
		if err != nil {
			return 0, err
		}
		required = append(required, m)
	}

	scores := make(map[uint32]float64)
	if len(required) > 0 {
		scores = required[0]
		for _, m := range required[1:] {
			for docID := range scores {
				if s, ok := m[docID]; ok {
					scores[docID] += s
				} else {
					delete(scores, docID)
				}
			}
		}
	}

	if len(should) > 0 {
		soft, err := scoreUnion(idx, seg, should, totalDocs, req.IncludeUncommitted)
		if err != nil {
			return 0, err
		}
		if len(required) > 0 {
			for docID, s := range soft {
				if _, ok := scores[docID]; ok {
					scores[docID] += s
				}
			}
		} else {
			scores = soft
		}
	}

	for _, neg := range not {
		if err := applyNot(idx, seg, scores, neg, req.IncludeUncommitted); err != nil {
			return 0, err
		}
	}

	if req.FacetStore != nil && req.FacetFieldIndex >= 0 && req.FacetFieldIndex < len(req.FacetFilters) {
		filter := req.FacetFilters[req.FacetFieldIndex]
		for docID := range scores {
			if !facet.Passes(filter, req.FacetStore, docID, req.FacetFieldIndex) {
				delete(scores, docID)
			}
		}
	}

	count := 0
	for docID, score := range scores {
		if idx.IsDeleted(docID) {
			continue
		}
		count++
		counters.add(req.FacetStore, docID)
		heap.Push(topk.Result{DocID: docID, Score: score})
	}

	return count, nil
}

// resolvedTerm is a query term bound to the segment's posting list, or
// plIdx == nil if the term never occurs in this segment's committed
// blocks (it may still have uncommitted postings, reachable by keyHash
// through Segmenter.WalkRealtime).
type resolvedTerm struct {
	text    string
	keyHash uint64
	plIdx   *posting.PostingListIndex
}

// resolveTerms splits a parsed query's loose terms into must (Intersection
// type), should (Union type), and not groups (spec.md §6's query string
// operators).
func resolveTerms(seg *segment.Segment, parsed query.Parsed) (must, should, not []resolvedTerm) {
	for _, t := range parsed.Terms {
		keyHash := hash.TermHash(t.Text)
		plIdx, _ := seg.Lookup(keyHash)
		rt := resolvedTerm{text: t.Text, keyHash: keyHash, plIdx: plIdx}

		switch t.Type {
		case format.QueryIntersection:
			must = append(must, rt)
		case format.QueryNot:
			not = append(not, rt)
		default:
			should = append(should, rt)
		}
	}

	return must, should, not
}

// resolvePhrases binds each phrase clause's words to the segment, one
// resolvedTerm per word (duplicate words get their own entry, matching
// spec.md §4.8's non-unique query term cursors).
func resolvePhrases(seg *segment.Segment, parsed query.Parsed) [][]resolvedTerm {
	if len(parsed.Phrases) == 0 {
		return nil
	}

	phrases := make([][]resolvedTerm, 0, len(parsed.Phrases))
	for _, ph := range parsed.Phrases {
		words := make([]resolvedTerm, len(ph.Terms))
		for i, word := range ph.Terms {
			keyHash := hash.TermHash(word)
			plIdx, _ := seg.Lookup(keyHash)
			words[i] = resolvedTerm{text: word, keyHash: keyHash, plIdx: plIdx}
		}
		phrases = append(phrases, words)
	}

	return phrases
}
