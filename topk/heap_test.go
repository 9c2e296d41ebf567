package topk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeapKeepsTopK(t *testing.T) {
	h := New(2)
	h.Push(Result{DocID: 1, Score: 1.0})
	h.Push(Result{DocID: 2, Score: 5.0})
	h.Push(Result{DocID: 3, Score: 3.0})

	sorted := h.Sorted()
	assert.Len(t, sorted, 2)
	assert.Equal(t, uint32(2), sorted[0].DocID)
	assert.Equal(t, uint32(3), sorted[1].DocID)
}

func TestHeapMinReflectsCutoff(t *testing.T) {
	h := New(1)
	_, ok := h.Min()
	assert.False(t, ok)

	h.Push(Result{DocID: 1, Score: 2.0})
	min, ok := h.Min()
	assert.True(t, ok)
	assert.Equal(t, 2.0, min)

	h.Push(Result{DocID: 2, Score: 1.0})
	min, _ = h.Min()
	assert.Equal(t, 2.0, min)
}
