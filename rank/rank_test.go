package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentLengthCompressionMonotonic(t *testing.T) {
	for i := 1; i < 256; i++ {
		assert.Greater(t, DocumentLengthCompression[i], DocumentLengthCompression[i-1])
	}
}

func TestCompressLengthRoundTripsApprox(t *testing.T) {
	c := CompressLength(100)
	got := DocumentLengthCompression[c]
	assert.InDelta(t, 100, got, 20)
}

func TestIDFHigherForRarerTerms(t *testing.T) {
	rare := IDF(1000, 2)
	common := IDF(1000, 500)
	assert.Greater(t, rare, common)
}

func TestFieldContributionIncreasesWithTF(t *testing.T) {
	low := FieldContribution(1.0, 1.0, 1, 1.0)
	high := FieldContribution(1.0, 1.0, 10, 1.0)
	assert.Greater(t, high, low)
}

func TestShorterFieldScoresHigherForSameTF(t *testing.T) {
	avg := 10.0
	shortComp := BM25Component(CompressLength(3), avg)
	longComp := BM25Component(CompressLength(30), avg)
	shortScore := FieldContribution(1.0, 1.0, 1, shortComp)
	longScore := FieldContribution(1.0, 1.0, 1, longComp)
	assert.Greater(t, shortScore, longScore)
}
