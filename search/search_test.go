package search

import (
	"testing"

	"github.com/emberindex/ember/format"
	"github.com/emberindex/ember/index"
	"github.com/emberindex/ember/positions"
	"github.com/emberindex/ember/query"
	"github.com/emberindex/ember/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSegment(t *testing.T) (*index.Index, Segmenter) {
	t.Helper()

	s := schema.New([]schema.Field{{ID: 0, Name: "body", Indexed: true, Stored: true}})
	idx, err := index.New(s, 1, format.Bm25f)
	require.NoError(t, err)

	return idx, idx
}

// resolveTerms must bucket a query's loose terms by operator, binding each
// to the segment's posting list where one exists.
func TestResolveTermsBucketsByOperator(t *testing.T) {
	idx, seg := newTestSegment(t)

	_, err := idx.IndexDocument(map[string]string{"body": "red blue green"})
	require.NoError(t, err)
	require.NoError(t, idx.Commit())

	parsed := query.Parse("red -blue green", format.QueryUnion)
	must, should, not := resolveTerms(seg.SegmentFor(0), parsed)

	assert.Empty(t, must)
	require.Len(t, should, 2)
	require.Len(t, not, 1)
	assert.Equal(t, "blue", not[0].text)
	assert.NotNil(t, not[0].plIdx)
}

// A term absent from the segment's committed blocks still resolves (with a
// nil plIdx, keyHash still bound) rather than being dropped, since it may
// have uncommitted realtime postings reachable by keyHash.
func TestResolveTermsUnseenTermKeepsKeyHash(t *testing.T) {
	_, seg := newTestSegment(t)

	parsed := query.Parse("nonexistent", format.QueryUnion)
	_, should, _ := resolveTerms(seg.SegmentFor(0), parsed)

	require.Len(t, should, 1)
	assert.Nil(t, should[0].plIdx)
	assert.NotZero(t, should[0].keyHash)
}

func TestResolvePhrasesBindsEveryWord(t *testing.T) {
	idx, seg := newTestSegment(t)

	_, err := idx.IndexDocument(map[string]string{"body": "new york city"})
	require.NoError(t, err)
	require.NoError(t, idx.Commit())

	parsed := query.Parse(`"new york"`, format.QueryUnion)
	phrases := resolvePhrases(seg.SegmentFor(0), parsed)

	require.Len(t, phrases, 1)
	require.Len(t, phrases[0], 2)
	assert.Equal(t, "new", phrases[0][0].text)
	assert.Equal(t, "york", phrases[0][1].text)
	assert.NotNil(t, phrases[0][0].plIdx)
	assert.NotNil(t, phrases[0][1].plIdx)
}

func posting(field uint16, pos ...uint32) positions.Posting {
	return positions.Posting{Fields: []positions.FieldPositions{{FieldID: field, Positions: pos}}}
}

// phraseAligned requires every word's occurrence in a shared field to be
// consecutive: pos[i] == pos[0] + i for all words.
func TestPhraseAlignedConsecutivePositions(t *testing.T) {
	// "new" at 5 and 0, "york" at 1: the 0/1 pair is consecutive, aligned.
	assert.True(t, phraseAligned([]positions.Posting{posting(0, 5, 0), posting(0, 1)}))
}

func TestPhraseAlignedNonConsecutivePositions(t *testing.T) {
	// "new" at 0, "york" at 2: a word in between breaks the phrase.
	assert.False(t, phraseAligned([]positions.Posting{posting(0, 0), posting(0, 2)}))
}

func TestPhraseAlignedRequiresSharedField(t *testing.T) {
	// Each word only occurs in a different field: no field has both.
	assert.False(t, phraseAligned([]positions.Posting{posting(0, 0), posting(1, 1)}))
}

func TestPhraseAlignedPicksFirstValidStart(t *testing.T) {
	// "new" occurs at 0 and 10; only the 10/11 pair aligns with "york" at 11.
	assert.True(t, phraseAligned([]positions.Posting{posting(0, 0, 10), posting(0, 11)}))
}
