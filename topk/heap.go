// Package topk implements the bounded min-heap results are pushed into
// during search (spec.md §4.9): min-by-score so the lowest-scoring entry
// is evicted first once the heap is full, with the final result list
// sorted descending.
package topk

import "container/heap"

// Result is one scored candidate pushed into the heap.
type Result struct {
	DocID uint32
	Score float64
}

// Heap is a bounded min-heap of Result, keyed by Score ascending so the
// root is always the current weakest survivor.
type Heap struct {
	capacity int
	items    resultSlice
}

// New returns a Heap that retains at most capacity results.
func New(capacity int) *Heap {
	h := &Heap{capacity: capacity}
	heap.Init(&h.items)

	return h
}

// Push offers a candidate result. If the heap is below capacity it is
// always kept; once full, it replaces the current minimum only if it
// scores higher.
func (h *Heap) Push(r Result) {
	if h.capacity <= 0 {
		return
	}

	if len(h.items) < h.capacity {
		heap.Push(&h.items, r)
		return
	}

	if r.Score > h.items[0].Score {
		h.items[0] = r
		heap.Fix(&h.items, 0)
	}
}

// Len reports how many results are currently held.
func (h *Heap) Len() int {
	return len(h.items)
}

// Min returns the current weakest surviving score and whether the heap is
// non-empty, used by WAND-style block pruning to decide whether a block's
// accumulated max-score can possibly beat the current cutoff.
func (h *Heap) Min() (float64, bool) {
	if len(h.items) == 0 {
		return 0, false
	}

	return h.items[0].Score, true
}

// Full reports whether the heap has reached its capacity.
func (h *Heap) Full() bool {
	return len(h.items) >= h.capacity
}

// Sorted returns a descending-by-score copy of the heap's results,
// leaving the heap unchanged.
func (h *Heap) Sorted() []Result {
	out := make([]Result, len(h.items))
	copy(out, h.items)

	// Simple descending sort; result sets are bounded by capacity so this
	// never needs to be more than an insertion sort over a small slice.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Score > out[j-1].Score; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}

	return out
}

type resultSlice []Result

func (s resultSlice) Len() int            { return len(s) }
func (s resultSlice) Less(i, j int) bool  { return s[i].Score < s[j].Score }
func (s resultSlice) Swap(i, j int)       { s[i], s[j] = s[j], s[i] }
func (s *resultSlice) Push(x interface{}) { *s = append(*s, x.(Result)) }
func (s *resultSlice) Pop() interface{} {
	old := *s
	n := len(old)
	item := old[n-1]
	*s = old[:n-1]

	return item
}
