package exec

import (
	"sort"

	"github.com/emberindex/ember/posting"
)

// BlockCandidate pairs a shared block id with the accumulated max-score
// across every term that block contributes to, and a snapshot of each
// term's block index at that point — used for WAND-style ordering when
// top-k pruning is active (spec.md §4.4).
type BlockCandidate struct {
	BlockID    uint32
	BlockScore float64
	BlockIdx   []int // per-query snapshot of Query.BlockIdx
}

// AlignBlocks advances every query's block cursor with a two-finger scan
// to find the blocks shared by all terms (an intersection alignment).
// Queries should be ordered rarest-first by the caller (spec.md §4.4
// sorts by descending posting count, i.e. ascending rarity after the
// first term) so the scan narrows as fast as possible.
func AlignBlocks(queries []*posting.Query) []BlockCandidate {
	if len(queries) == 0 {
		return nil
	}

	var candidates []BlockCandidate
	for {
		b0, ok := queries[0].CurrentBlock()
		if !ok {
			if b0, ok = queries[0].Advance(); !ok {
				return candidates
			}
		}

		target := b0.BlockID
		allMatch := true
		for i := 1; i < len(queries); i++ {
			b, ok := queries[i].SeekBlock(target)
			if !ok {
				return candidates
			}
			if b.BlockID != target {
				target = b.BlockID
				allMatch = false
			}
		}

		if !allMatch {
			b, ok := queries[0].SeekBlock(target)
			if !ok {
				return candidates
			}
			if b.BlockID != target {
				continue
			}
		}

		score := 0.0
		snapshot := make([]int, len(queries))
		for i, q := range queries {
			b, _ := q.CurrentBlock()
			score += b.MaxBlockScore
			snapshot[i] = q.BlockIdx
		}
		candidates = append(candidates, BlockCandidate{BlockID: target, BlockScore: score, BlockIdx: snapshot})

		for _, q := range queries {
			if _, ok := q.Advance(); !ok {
				return candidates
			}
		}
	}
}

// AlignUnionBlocks advances every query's block cursor independently and
// returns every distinct block id touched by at least one term, each with
// the sum of max-scores from the terms that have it — used for union
// queries (spec.md §4.6).
func AlignUnionBlocks(queries []*posting.Query) []BlockCandidate {
	byBlock := make(map[uint32]float64)
	for _, q := range queries {
		for {
			b, ok := q.Advance()
			if !ok {
				break
			}
			byBlock[b.BlockID] += b.MaxBlockScore
		}
	}

	out := make([]BlockCandidate, 0, len(byBlock))
	for id, score := range byBlock {
		out = append(out, BlockCandidate{BlockID: id, BlockScore: score})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BlockScore > out[j].BlockScore })

	return out
}

// SortDescending sorts candidates by BlockScore descending, for
// WAND-style processing order once the full scan has completed.
func SortDescending(candidates []BlockCandidate) {
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].BlockScore > candidates[j].BlockScore })
}

// ShouldStop implements the WAND stopping rule: once the current top-k
// heap's minimum score is >= the next candidate's accumulated block
// score, no later (lower-scoring) candidate can possibly displace the
// heap's weakest survivor, so the scan can stop (spec.md §4.4).
func ShouldStop(heapMin float64, heapFull bool, candidateScore float64) bool {
	return heapFull && heapMin >= candidateScore
}
