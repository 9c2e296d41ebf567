package facet

import "sort"

// Counter accumulates per-bucket counts for one facet's range buckets.
// Buckets are given as ascending upper bounds; a value falls into the
// first bucket whose upper bound is > the value, except that a value equal
// to the last bound falls into the last bucket.
type Counter struct {
	upperBounds []uint64
	counts      []int
}

// NewCounter builds a Counter for buckets defined by their ascending
// upper bounds (exclusive, except the last, which is inclusive) — e.g.
// [20, 40, 60, 80, 100] for the five 20-wide buckets over ages 0..100.
func NewCounter(upperBounds []uint64) *Counter {
	return &Counter{upperBounds: upperBounds, counts: make([]int, len(upperBounds))}
}

// Add increments the bucket containing v. Every bucket's upper bound is
// exclusive except the last, which is inclusive, so a value sitting
// exactly on a bound belongs to the bucket above it (spec.md §8's
// endpoints-included example: ages 1..100 over [0-20,20-40,...,80-100]
// sized {19,20,20,20,21} means age 20 falls in the second bucket, not the
// first). Values past the final bound are dropped silently (spec.md §7:
// out-of-range facet values produce an empty bucket, not an error).
func (c *Counter) Add(v uint64) {
	i := sort.Search(len(c.upperBounds), func(i int) bool { return c.upperBounds[i] > v })

	if i >= len(c.upperBounds) {
		if len(c.upperBounds) > 0 && v == c.upperBounds[len(c.upperBounds)-1] {
			c.counts[len(c.counts)-1]++
		}

		return
	}

	c.counts[i]++
}

// Counts returns the accumulated per-bucket counts, parallel to the
// upperBounds the Counter was built with.
func (c *Counter) Counts() []int {
	out := make([]int, len(c.counts))
	copy(out, c.counts)

	return out
}
