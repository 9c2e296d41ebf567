package exec

import (
	"testing"

	"github.com/emberindex/ember/block"
	"github.com/stretchr/testify/assert"
)

func TestIntersectArrayArray(t *testing.T) {
	a := []uint16{1, 3, 5, 7, 9, 100}
	b := []uint16{2, 3, 4, 7, 100, 200}
	got := IntersectArrayArray(a, b)
	assert.Equal(t, []uint16{3, 7, 100}, got)
}

func TestIntersectBitmapBitmap(t *testing.T) {
	a := block.EncodeBitmap([]uint16{1, 2, 3, 500})
	b := block.EncodeBitmap([]uint16{2, 3, 4, 500})
	got := IntersectBitmapBitmap(a, b)
	assert.Equal(t, []uint16{2, 3, 500}, got)
	assert.Equal(t, 3, CountBitmapBitmap(a, b))
}

func TestIntersectArrayBitmap(t *testing.T) {
	a := []uint16{1, 2, 10, 500}
	bitmap := block.EncodeBitmap([]uint16{2, 500, 999})
	docids, pDocIDs := IntersectArrayBitmap(a, bitmap)
	assert.Equal(t, []uint16{2, 500}, docids)
	assert.Equal(t, []int{0, 1}, pDocIDs)
}

func TestUnionDocID2(t *testing.T) {
	got := UnionDocID2([]uint16{1, 3}, []uint16{3, 5})
	assert.Equal(t, []uint16{1, 3, 5}, got)
}

func TestRejectsArray(t *testing.T) {
	data := block.EncodeArray([]uint16{1, 5, 9}, defaultEngine())
	rejected, err := Rejects(block.ChooseTag([]uint16{1, 5, 9}), data, 5)
	_ = err
	assert.True(t, rejected)
}
