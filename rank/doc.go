// Package rank implements BM25F scoring (spec.md §4.9): Robertson idf with
// per-term caching, the DOCUMENT_LENGTH_COMPRESSION lookup table used to
// turn a block's 8-bit compressed document length back into a BM25
// denominator component, and per-field boost combination.
package rank

import "math"

// K, B, and Sigma are the fixed BM25F tuning constants (spec.md §6).
const (
	K     = 1.2
	B     = 0.75
	Sigma = 0.0
)

// DocumentLengthCompression is the 256-entry log-spaced lookup table
// mapping a compressed 8-bit document length back to an approximate real
// token count, built once at process start (spec.md §9: "process-wide
// immutable tables — initialize once at startup").
var DocumentLengthCompression [256]float64

func init() {
	// Log-spaced buckets: bucket 0 maps to length 1, each subsequent
	// bucket grows by a fixed ratio up to a generous practical ceiling
	// for per-field token counts.
	const maxLength = 65536.0
	ratio := math.Pow(maxLength, 1.0/255.0)
	length := 1.0
	for i := range DocumentLengthCompression {
		DocumentLengthCompression[i] = length
		length *= ratio
	}
}

// CompressLength maps a real document length to the smallest 8-bit
// compressed bucket whose length is at least length (255 for longer
// lengths), for writing the per-field document-length table at commit
// time.
func CompressLength(length uint32) uint8 {
	lo, hi := 0, 255
	for lo < hi {
		mid := (lo + hi) / 2
		if DocumentLengthCompression[mid] < float64(length) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	return uint8(lo)
}

// IDF is Robertson's idf: ln((N - df + 0.5)/(df + 0.5) + 1).
func IDF(totalDocs, docFreq uint64) float64 {
	n := float64(totalDocs)
	df := float64(docFreq)

	return math.Log((n-df+0.5)/(df+0.5) + 1)
}

// BM25Component computes K * (1 - B + B * (doc_len_norm / avg_doc_len_norm))
// (spec.md §4.9). Search calls it once per scored posting.
func BM25Component(compressedLen uint8, avgDocLenNorm float64) float64 {
	docLenNorm := DocumentLengthCompression[compressedLen]
	if avgDocLenNorm == 0 {
		avgDocLenNorm = 1
	}

	return K * (1 - B + B*(docLenNorm/avgDocLenNorm))
}

// FieldContribution computes one field's BM25F contribution:
// boost * idf * (tf*(K+1)/(tf+bm25Component) + Sigma).
func FieldContribution(boost, idf, tf, bm25Component float64) float64 {
	return boost * idf * (tf*(K+1)/(tf+bm25Component) + Sigma)
}

// BM25ComponentTable precomputes BM25Component for all 256 compressed
// lengths against a given average, so scoring a block only indexes a
// slice instead of recomputing per posting.
func BM25ComponentTable(avgDocLenNorm float64) [256]float64 {
	var table [256]float64
	for i := range table {
		table[i] = BM25Component(uint8(i), avgDocLenNorm)
	}

	return table
}
