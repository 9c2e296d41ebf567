package realtime

import (
	"testing"

	"github.com/emberindex/ember/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferAppendAndWalk(t *testing.T) {
	b := NewBuffer()
	pos1 := codec.EncodePositions([]uint32{1, 2})
	pos2 := codec.EncodePositions([]uint32{5})

	b.Append(42, 0, pos1)
	b.Append(42, 1, pos2)

	lens := map[uint32]int{}
	off1, _ := b.Head(42)
	lens[off1] = len(pos2) // most recent record appended second
	// walk to find the earlier record's offset for its length mapping
	rec, err := b.ReadAt(off1, len(pos2))
	require.NoError(t, err)
	lens[rec.Next] = len(pos1)

	var docs []uint16
	err = b.Walk(42, func(off uint32) int { return lens[off] }, func(r Record) bool {
		docs = append(docs, r.DocID)
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []uint16{1, 0}, docs)
}

func TestBufferResetClears(t *testing.T) {
	b := NewBuffer()
	b.Append(1, 0, nil)
	b.Reset()
	_, ok := b.Head(1)
	assert.False(t, ok)
}
