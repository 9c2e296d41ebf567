// Package hash provides the two independent term hashers the on-disk
// format requires: a 64-bit content hash used as the exact lookup key
// within a segment, and a 32-bit segment selector used to route a term
// to one of the index's segments. Both hashers use fixed seeds so that
// on-disk hashes stay stable across process runs; re-seeding either one
// changes the on-disk format.
package hash

import (
	"github.com/cespare/xxhash/v2"
)

// segmentSeed is mixed into the 32-bit segment selector so that it is
// computed independently from the 64-bit content hash below, even though
// both ultimately derive from the same xxHash64 primitive. Changing this
// constant changes which segment every existing term maps to and is a
// breaking format change.
const segmentSeed uint64 = 0x9E3779B97F4A7C15

// TermHash computes the 64-bit content hash ("key_hash") of a term. This
// value is used as the exact lookup key within a segment's posting-list
// hash map; it is never truncated or reduced modulo the segment count.
func TermHash(term string) uint64 {
	return xxhash.Sum64String(term)
}

// SegmentSelector computes the 32-bit segment selector ("key0") of a term.
// The caller masks the result against (segmentCount-1) to pick a segment;
// segmentCount must be a power of two.
//
// The selector is derived from a differently-seeded hash of the term so
// that two terms landing in the same segment do not also collide on
// key_hash more often than chance, and vice versa.
func SegmentSelector(term string) uint32 {
	d := xxhash.NewWithSeed(segmentSeed)
	_, _ = d.WriteString(term)
	sum := d.Sum64()

	return uint32(sum>>32) ^ uint32(sum)
}

// ID computes the xxHash64 of the given string. Retained as a thin,
// general-purpose helper for non-term identifiers (e.g. document ids
// supplied as strings by the document-store collaborator).
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}
