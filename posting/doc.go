// Package posting holds the in-memory per-term structures built on top of
// section and block: PostingListIndex (spec.md §3's PostingListIndex, plus
// the in-memory-only MaxBlockScore per entry, recomputed at commit/open
// time rather than persisted) and PostingListQuery, the per-term cursor
// state a search holds while scanning a term's blocks (spec.md §4.3).
package posting
