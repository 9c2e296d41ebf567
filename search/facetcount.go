package search

import "github.com/emberindex/ember/facet"

// FacetCount requests bucketed counts for one facet, across every document
// a search call's query matches (or, for an empty query, every document),
// per spec.md §4.10 and §6's query_facets.
type FacetCount struct {
	FacetIndex  int
	UpperBounds []uint64
}

// FacetResult is one FacetCount's accumulated bucket counts, parallel to
// its UpperBounds.
type FacetResult struct {
	FacetIndex int
	Counts     []int
}

// facetCounters accumulates every requested FacetCount across a whole
// search call, fed one matching docid at a time as segments (or the
// match-all path) are scored.
type facetCounters struct {
	specs    []FacetCount
	counters []*facet.Counter
}

func newFacetCounters(specs []FacetCount) *facetCounters {
	fc := &facetCounters{specs: specs, counters: make([]*facet.Counter, len(specs))}
	for i, s := range specs {
		fc.counters[i] = facet.NewCounter(s.UpperBounds)
	}

	return fc
}

func (fc *facetCounters) add(store *facet.Store, docID uint32) {
	if store == nil {
		return
	}
	for i, s := range fc.specs {
		fc.counters[i].Add(store.ReadUint(docID, s.FacetIndex))
	}
}

func (fc *facetCounters) results() []FacetResult {
	if len(fc.specs) == 0 {
		return nil
	}

	out := make([]FacetResult, len(fc.specs))
	for i, s := range fc.specs {
		out[i] = FacetResult{FacetIndex: s.FacetIndex, Counts: fc.counters[i].Counts()}
	}

	return out
}
