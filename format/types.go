// Package format defines the small enumerations shared by every layer of
// the on-disk codec. EncodingType/CompressionType describe the general
// byte-stream codecs used for the docstore blob and arena payloads
// (mirroring the teacher's blob-level compression choices); CompressionTag
// and the other domain enums below describe the inverted-index-specific
// block and query machinery spec.md §3 onward requires.
package format

type (
	EncodingType    uint8
	CompressionType uint8
)

const (
	TypeRaw     EncodingType = 0x1 // TypeRaw represents raw data with no format.
	TypeDelta   EncodingType = 0x2 // TypeDelta represents delta-of-delta encoding.
	TypeGorilla EncodingType = 0x3 // TypeGorilla represents Gorilla encoding.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.

)

func (e EncodingType) String() string {
	switch e {
	case TypeRaw:
		return "Raw"
	case TypeDelta:
		return "Delta"
	case TypeGorilla:
		return "Gorilla"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// CompressionTag identifies how a block's docid list is packed on disk.
// The two top bits of a BlockIndexEntry.CompressionTypePointer hold this
// value; the low 30 bits are a byte offset into the block arena.
type CompressionTag uint8

const (
	// CompressionDelta packs ascending local-docids as bit-packed
	// first-order gaps using a fixed rangebits. Reserved for dense,
	// low-cardinality postings where a merge's other side is also Delta.
	CompressionDelta CompressionTag = 0
	// CompressionArray stores an ascending ordered list of u16 local-docids.
	CompressionArray CompressionTag = 1
	// CompressionBitmap stores a fixed 8,192-byte (65,536-bit) bitmap.
	CompressionBitmap CompressionTag = 2
	// CompressionRLE stores run_count followed by (run_start, run_length) pairs.
	CompressionRLE CompressionTag = 3
)

func (c CompressionTag) String() string {
	switch c {
	case CompressionDelta:
		return "Delta"
	case CompressionArray:
		return "Array"
	case CompressionBitmap:
		return "Bitmap"
	case CompressionRLE:
		return "RLE"
	default:
		return "Unknown"
	}
}

// QueryType selects the default combination strategy for bare query terms.
type QueryType uint8

const (
	QueryUnion QueryType = iota
	QueryIntersection
	QueryPhrase
	QueryNot
)

func (q QueryType) String() string {
	switch q {
	case QueryUnion:
		return "Union"
	case QueryIntersection:
		return "Intersection"
	case QueryPhrase:
		return "Phrase"
	case QueryNot:
		return "Not"
	default:
		return "Unknown"
	}
}

// ResultType selects what a search call materializes.
type ResultType uint8

const (
	// ResultCount computes only result_count_total, no ranked results.
	ResultCount ResultType = iota
	// ResultTopk computes ranked top-k results without a verified total.
	ResultTopk
	// ResultTopkCount computes both ranked top-k results and the exact total.
	ResultTopkCount
)

// SimilarityType selects the ranking variant.
type SimilarityType uint8

const (
	// Bm25f is standard BM25F; bigrams score using bigram idf/tf exclusively.
	Bm25f SimilarityType = iota
	// Bm25fProximity scores the unigram contribution even when a bigram
	// match is present, trading some precision for proximity sensitivity.
	Bm25fProximity
)

// AccessType selects how segment byte arenas are exposed to search.
type AccessType uint8

const (
	// AccessRam preloads every committed block arena into process memory.
	AccessRam AccessType = iota
	// AccessMmap resolves block arenas on demand through a memory mapping.
	AccessMmap
)

func (a AccessType) String() string {
	if a == AccessMmap {
		return "Mmap"
	}

	return "Ram"
}

// FacetValueType identifies the on-disk width/interpretation of a facet field.
type FacetValueType uint8

const (
	FacetU8 FacetValueType = iota
	FacetU16
	FacetU32
	FacetU64
	FacetF32
	FacetF64
	FacetGeoPoint
	FacetString
)

// ByteWidth returns the fixed per-document byte width of a facet field,
// matching the width the facet store reserves for it.
func (t FacetValueType) ByteWidth() int {
	switch t {
	case FacetU8:
		return 1
	case FacetU16, FacetString:
		return 2
	case FacetU32, FacetF32:
		return 4
	case FacetU64, FacetF64, FacetGeoPoint:
		return 8
	default:
		return 0
	}
}
