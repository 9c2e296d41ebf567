package ember

import (
	"testing"

	"github.com/emberindex/ember/facet"
	"github.com/emberindex/ember/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	s := NewSchema([]Field{{ID: 0, Name: "body", Indexed: true, Stored: true}})
	idx, err := New(s, Options{SegmentCount: 1})
	require.NoError(t, err)

	return idx
}

// TestSearchUnionLengthNormalization covers spec.md §8 scenario 1: a
// shorter field containing the query term outscores a longer one.
func TestSearchUnionLengthNormalization(t *testing.T) {
	idx := newTestIndex(t)

	doc0, err := idx.IndexDocument(map[string]string{
		"body": "the quick brown fox jumps over the lazy dog again and again in a much longer sentence",
	})
	require.NoError(t, err)
	doc1, err := idx.IndexDocument(map[string]string{"body": "quick fox"})
	require.NoError(t, err)
	_, err = idx.IndexDocument(map[string]string{"body": "completely unrelated content"})
	require.NoError(t, err)

	require.NoError(t, idx.Commit())

	resp, err := idx.Search(Request{Query: "quick", Length: 10})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.ResultCountTotal)
	require.Len(t, resp.Results, 2)

	scores := map[uint32]float64{}
	for _, r := range resp.Results {
		scores[r.DocID] = r.Score
	}
	assert.Greater(t, scores[doc1], scores[doc0])
}

// TestSearchIntersection covers spec.md §8 scenario 2: an Intersection
// query only matches documents containing every term.
func TestSearchIntersection(t *testing.T) {
	idx := newTestIndex(t)

	_, err := idx.IndexDocument(map[string]string{"body": "apple banana"})
	require.NoError(t, err)
	doc1, err := idx.IndexDocument(map[string]string{"body": "apple cherry pie"})
	require.NoError(t, err)
	_, err = idx.IndexDocument(map[string]string{"body": "cherry date"})
	require.NoError(t, err)

	require.NoError(t, idx.Commit())

	resp, err := idx.Search(Request{Query: "apple cherry", DefaultType: format.QueryIntersection, Length: 10})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.ResultCountTotal)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, doc1, resp.Results[0].DocID)
}

// TestSearchPhrase covers spec.md §8 scenario 3: a phrase query only
// matches a document where the words occur in consecutive order.
func TestSearchPhrase(t *testing.T) {
	idx := newTestIndex(t)

	doc0, err := idx.IndexDocument(map[string]string{"body": "i live in new york city"})
	require.NoError(t, err)
	_, err = idx.IndexDocument(map[string]string{"body": "the new regulations affect york state"})
	require.NoError(t, err)
	_, err = idx.IndexDocument(map[string]string{"body": "completely unrelated content"})
	require.NoError(t, err)

	require.NoError(t, idx.Commit())

	resp, err := idx.Search(Request{Query: `"new york"`, Length: 10})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.ResultCountTotal)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, doc0, resp.Results[0].DocID)
}

// TestSearchNot covers spec.md §8 scenario 4: a NOT clause excludes any
// document also containing the negated term.
func TestSearchNot(t *testing.T) {
	idx := newTestIndex(t)

	doc0, err := idx.IndexDocument(map[string]string{"body": "red car"})
	require.NoError(t, err)
	_, err = idx.IndexDocument(map[string]string{"body": "red blue car"})
	require.NoError(t, err)
	_, err = idx.IndexDocument(map[string]string{"body": "blue car"})
	require.NoError(t, err)

	require.NoError(t, idx.Commit())

	resp, err := idx.Search(Request{Query: "red -blue", Length: 10})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.ResultCountTotal)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, doc0, resp.Results[0].DocID)
}

// TestSearchFacetRangeCount covers spec.md §8 scenario 5: an empty query
// with a facet bucket count request matches every document and buckets
// each into a 20-wide age range.
func TestSearchFacetRangeCount(t *testing.T) {
	idx := newTestIndex(t)

	data := make([]byte, 100)
	for age := 1; age <= 100; age++ {
		docID, err := idx.IndexDocument(map[string]string{"body": "filler"})
		require.NoError(t, err)
		data[docID] = byte(age)
	}
	require.NoError(t, idx.Commit())

	store := facet.NewStore(data, []int{0}, []format.FacetValueType{format.FacetU8})

	resp, err := idx.Search(Request{
		Query:  "",
		Length: 1,
		FacetCounts: []FacetCount{
			{FacetIndex: 0, UpperBounds: []uint64{20, 40, 60, 80, 100}},
		},
		FacetStore:      store,
		FacetFieldIndex: -1,
	})
	require.NoError(t, err)

	assert.Equal(t, 100, resp.ResultCountTotal)
	require.Len(t, resp.Facets, 1)
	assert.Equal(t, []int{19, 20, 20, 20, 21}, resp.Facets[0].Counts)
}

// TestSearchRealtime covers spec.md §8 scenario 6: an uncommitted
// document is only visible when include_uncommitted is set.
func TestSearchRealtime(t *testing.T) {
	idx := newTestIndex(t)

	_, err := idx.IndexDocument(map[string]string{"body": "hello world"})
	require.NoError(t, err)

	resp, err := idx.Search(Request{Query: "hello", Length: 10, IncludeUncommitted: true})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ResultCountTotal)

	resp, err = idx.Search(Request{Query: "hello", Length: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.ResultCountTotal)
}

// TestSaveOpenRoundTrip covers spec.md §6's round-trip invariant: indexing
// N documents then committing yields exactly N searchable docids, whether
// read from the live Index or one reopened from disk.
func TestSaveOpenRoundTrip(t *testing.T) {
	idx := newTestIndex(t)

	_, err := idx.IndexDocument(map[string]string{"body": "apple cherry pie"})
	require.NoError(t, err)
	_, err = idx.IndexDocument(map[string]string{"body": "apple banana"})
	require.NoError(t, err)
	require.NoError(t, idx.Commit())

	path := t.TempDir() + "/index.bin"
	require.NoError(t, idx.Save(path))

	s := NewSchema([]Field{{ID: 0, Name: "body", Indexed: true, Stored: true}})
	reopened, err := Open(s, Options{SegmentCount: 1}, path, AccessRam)
	require.NoError(t, err)

	assert.Equal(t, idx.IndexedDocCount(), reopened.IndexedDocCount())

	resp, err := reopened.Search(Request{Query: "apple cherry", DefaultType: format.QueryIntersection, Length: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.ResultCountTotal)
}
