package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTermHashDeterministic(t *testing.T) {
	assert.Equal(t, TermHash("quick"), TermHash("quick"))
	assert.NotEqual(t, TermHash("quick"), TermHash("brown"))
}

func TestSegmentSelectorDeterministic(t *testing.T) {
	assert.Equal(t, SegmentSelector("quick"), SegmentSelector("quick"))
}

func TestSegmentSelectorIndependentFromTermHash(t *testing.T) {
	// Not a correctness requirement, just documents the two hashers are
	// computed independently (different seeds), so collisions on one
	// don't imply collisions on the other.
	h1 := TermHash("term-a")
	h2 := TermHash("term-b")
	s1 := SegmentSelector("term-a")
	s2 := SegmentSelector("term-b")
	assert.NotEqual(t, h1, h2)
	// The selector is not simply the content hash folded to 32 bits.
	assert.NotEqual(t, uint32(h1>>32)^uint32(h1), s1)
	assert.NotEqual(t, uint32(h2>>32)^uint32(h2), s2)
}
