package section

import (
	"github.com/emberindex/ember/endian"
	"github.com/emberindex/ember/errs"
)

// SegmentBlockHeader is the per-segment entry within a level header: the
// byte length and key count of that segment's block at this level.
type SegmentBlockHeader struct {
	BlockLength uint32
	KeyCount    uint32
}

// LevelHeader precedes each level's sequence of segment blocks in
// index.bin (spec.md §6). LongestFieldID is only meaningful (and only
// written) on the first level; later levels carry zero for it and readers
// must not overwrite the value already learned from level 0.
type LevelHeader struct {
	// LongestFieldID is the indexed field with the greatest cumulative
	// token count on the first document ever indexed. Only set on level 0.
	LongestFieldID uint16
	// DocumentLengthCompressed holds one RoaringBlockSize-byte array per
	// indexed field: local docid -> 8-bit compressed length, looked up
	// through DOCUMENT_LENGTH_COMPRESSION (rank package).
	DocumentLengthCompressed [][]byte
	IndexedDocCount          uint64
	PositionsSumNormalized   uint64
	Segments                 []SegmentBlockHeader
}

// Bytes serializes the level header. isFirstLevel controls whether
// LongestFieldID is written (it is meaningless, and omitted on disk, for
// any level after the first).
func (h LevelHeader) Bytes(engine endian.EndianEngine, isFirstLevel bool) []byte {
	size := 0
	if isFirstLevel {
		size += 2
	}
	size += len(h.DocumentLengthCompressed) * RoaringBlockSize
	size += 8 + 8
	size += len(h.Segments) * 8

	b := make([]byte, size)
	off := 0
	if isFirstLevel {
		engine.PutUint16(b[off:off+2], h.LongestFieldID)
		off += 2
	}
	for _, arr := range h.DocumentLengthCompressed {
		copy(b[off:off+RoaringBlockSize], arr)
		off += RoaringBlockSize
	}
	engine.PutUint64(b[off:off+8], h.IndexedDocCount)
	off += 8
	engine.PutUint64(b[off:off+8], h.PositionsSumNormalized)
	off += 8
	for _, seg := range h.Segments {
		engine.PutUint32(b[off:off+4], seg.BlockLength)
		engine.PutUint32(b[off+4:off+8], seg.KeyCount)
		off += 8
	}

	return b
}

// ParseLevelHeader parses a level header out of data, given the number of
// indexed fields, the number of segments, and whether this is the first
// level. It returns the number of bytes consumed.
func ParseLevelHeader(data []byte, engine endian.EndianEngine, fieldCount, segmentCount int, isFirstLevel bool) (LevelHeader, int, error) {
	off := 0
	h := LevelHeader{}

	if isFirstLevel {
		if len(data) < 2 {
			return h, 0, errs.ErrInvalidHeaderSize
		}
		h.LongestFieldID = engine.Uint16(data[0:2])
		off += 2
	}

	h.DocumentLengthCompressed = make([][]byte, fieldCount)
	for i := 0; i < fieldCount; i++ {
		if len(data) < off+RoaringBlockSize {
			return h, 0, errs.ErrInvalidHeaderSize
		}
		arr := make([]byte, RoaringBlockSize)
		copy(arr, data[off:off+RoaringBlockSize])
		h.DocumentLengthCompressed[i] = arr
		off += RoaringBlockSize
	}

	if len(data) < off+16 {
		return h, 0, errs.ErrInvalidHeaderSize
	}
	h.IndexedDocCount = engine.Uint64(data[off : off+8])
	off += 8
	h.PositionsSumNormalized = engine.Uint64(data[off : off+8])
	off += 8

	h.Segments = make([]SegmentBlockHeader, segmentCount)
	for i := 0; i < segmentCount; i++ {
		if len(data) < off+8 {
			return h, 0, errs.ErrInvalidHeaderSize
		}
		h.Segments[i] = SegmentBlockHeader{
			BlockLength: engine.Uint32(data[off : off+4]),
			KeyCount:    engine.Uint32(data[off+4 : off+8]),
		}
		off += 8
	}

	return h, off, nil
}
