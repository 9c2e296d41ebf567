package search

import (
	"sort"

	"github.com/emberindex/ember/exec"
	"github.com/emberindex/ember/posting"
	"github.com/emberindex/ember/segment"
)

// blockMatch is one shared block's per-term decoded view plus the local
// docids every term in the group has in common, from alignAndIntersect.
// blocks is parallel to the terms slice the alignment was run over.
type blockMatch struct {
	blockID uint32
	locals  []uint16
	blocks  []termBlock
}

// alignAndIntersect finds every block shared by every term (spec.md
// §4.4's WAND-style block alignment, via exec.AlignBlocks) and, within
// each, intersects the terms' docid lists: the first pair through
// exec.Intersect's compression-aware kernel dispatch (spec.md §4.5), any
// further terms folded in via IntersectArrayArray on the already-decoded
// result (the generic-fallback strategy spec.md §9 sanctions for
// compression pairings without a dedicated kernel). Every term must have
// a non-nil plIdx; callers check that first.
func alignAndIntersect(seg *segment.Segment, terms []resolvedTerm) ([]blockMatch, error) {
	queries := make([]*posting.Query, len(terms))
	for i, t := range terms {
		queries[i] = posting.NewQuery(t.plIdx)
	}

	candidates := exec.AlignBlocks(queries)

	matches := make([]blockMatch, 0, len(candidates))
	for _, cand := range candidates {
		blocks := make([]termBlock, len(terms))
		for i, t := range terms {
			be := t.plIdx.Blocks[cand.BlockIdx[i]]
			arena := seg.BlockBytes(int(be.BlockID))
			tb, err := decodeTermBlock(arena, be)
			if err != nil {
				return nil, err
			}
			blocks[i] = tb
		}

		locals, err := exec.Intersect(blocks[0].tag, blocks[0].docidPayload, blocks[1].tag, blocks[1].docidPayload)
		if err != nil {
			return nil, err
		}
		for i := 2; i < len(blocks); i++ {
			locals = exec.IntersectArrayArray(locals, blocks[i].locals)
		}

		matches = append(matches, blockMatch{blockID: cand.BlockID, locals: locals, blocks: blocks})
	}

	return matches, nil
}

// scoreIntersection implements Intersection-typed query terms (spec.md §8
// scenario 2): every term must be present in a document for it to match
// at all, unlike scoreUnion which sums any subset of terms.
func scoreIntersection(idx Segmenter, seg *segment.Segment, terms []resolvedTerm, totalDocs uint64, includeUncommitted bool) (map[uint32]float64, error) {
	if len(terms) == 1 {
		return scoreTerm(idx, seg, terms[0], totalDocs, includeUncommitted)
	}

	for _, t := range terms {
		if t.plIdx == nil {
			// A term absent from every committed block can never satisfy an
			// AND across multiple terms; the realtime tier's kernels aren't
			// re-derived for multi-term intersection (spec.md §4.11
			// describes only single-term scan specialization), so this
			// yields no matches rather than attempting a partial merge.
			return map[uint32]float64{}, nil
		}
	}

	sorted := make([]resolvedTerm, len(terms))
	copy(sorted, terms)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].plIdx.PostingCount < sorted[j].plIdx.PostingCount })

	matches, err := alignAndIntersect(seg, sorted)
	if err != nil {
		return nil, err
	}

	scores := make(map[uint32]float64)
	for _, m := range matches {
		for _, local := range m.locals {
			docID := m.blockID<<16 | uint32(local)
			total := 0.0
			for i, t := range sorted {
				p, ok := m.blocks[i].indexOfLocal(local)
				if !ok {
					continue
				}
				post, err := m.blocks[i].postingAt(p)
				if err != nil {
					return nil, err
				}
				total += postingContribution(idx, t.plIdx, totalDocs, m.blockID, local, post)
			}
			scores[docID] = total
		}
	}

	return scores, nil
}
