package index

import (
	"path/filepath"
	"testing"

	"github.com/emberindex/ember/format"
	"github.com/emberindex/ember/internal/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveOpenPreservesDocsAndLengths(t *testing.T) {
	idx, err := New(testSchema(), 1, format.Bm25f)
	require.NoError(t, err)

	_, err = idx.IndexDocument(map[string]string{"body": "one two three four"})
	require.NoError(t, err)
	_, err = idx.IndexDocument(map[string]string{"body": "one"})
	require.NoError(t, err)
	require.NoError(t, idx.Commit())

	path := filepath.Join(t.TempDir(), "index.bin")
	require.NoError(t, idx.Save(path))

	reopened, err := Open(testSchema(), 1, format.Bm25f, path, format.AccessRam)
	require.NoError(t, err)

	assert.Equal(t, idx.IndexedDocCount(), reopened.IndexedDocCount())
	assert.InDelta(t, idx.FieldAvgLen(0), reopened.FieldAvgLen(0), 0.0001)
	assert.Equal(t, idx.DocLengthCompressed(0, 0, 0), reopened.DocLengthCompressed(0, 0, 0))
	assert.Equal(t, idx.DocLengthCompressed(0, 0, 1), reopened.DocLengthCompressed(0, 0, 1))

	seg := reopened.SegmentFor(0)
	pl, ok := seg.Lookup(hash.TermHash("one"))
	require.True(t, ok)
	assert.Equal(t, uint64(2), pl.PostingCount)
}
