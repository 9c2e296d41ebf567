package section

import (
	"github.com/emberindex/ember/endian"
	"github.com/emberindex/ember/errs"
	"github.com/emberindex/ember/format"
)

// KeyHeadEntry is a single fixed 24-byte record in a block's key head
// table (spec.md §3, block layout item 1): one entry per term that has at
// least one posting in this block.
//
//	Offset | Field                  | Type | Size
//	-------|------------------------|------|-----
//	0      | KeyHash                | u64  | 8
//	8      | PostingCount           | u16  | 2
//	10     | MaxDocID               | u16  | 2
//	12     | MaxPDocID              | u16  | 2
//	14     | BigramTermID1          | u8   | 1
//	15     | BigramTermID2          | u8   | 1
//	16     | PointerPivotPDocID     | u16  | 2
//	18     | EmbeddedFieldID        | u16  | 2
//	20     | CompressionTypePointer | u32  | 4
type KeyHeadEntry struct {
	KeyHash            uint64
	PostingCount       uint16
	MaxDocID           uint16
	MaxPDocID          uint16
	BigramTermID1      uint8
	BigramTermID2      uint8
	PointerPivotPDocID uint16
	// EmbeddedFieldID is the single field every embedded (non-multi-field)
	// rank-position pointer entry in this term's block implicitly belongs
	// to. A term whose occurrences span more than one field across the
	// block never uses single-field embedding (every posting falls back
	// to the multi-field indirect form instead), so this value is only
	// meaningful when at least one embedded entry is present.
	EmbeddedFieldID    uint16
	CompressionPointer uint32 // packed CompressionTag + byte offset, see PackCompressionPointer
}

// CompressionTag unpacks the compression tag half of CompressionPointer.
func (e KeyHeadEntry) CompressionTag() format.CompressionTag {
	tag, _ := UnpackCompressionPointer(e.CompressionPointer)

	return tag
}

// PointerTableOffset unpacks the byte-offset half of CompressionPointer:
// the offset, within the block arena, of this term's rank-position
// pointer table.
func (e KeyHeadEntry) PointerTableOffset() uint32 {
	_, offset := UnpackCompressionPointer(e.CompressionPointer)

	return offset
}

// Bytes serializes the entry into a newly allocated 24-byte slice.
func (e KeyHeadEntry) Bytes(engine endian.EndianEngine) []byte {
	var b [KeyHeadEntrySize]byte
	engine.PutUint64(b[0:8], e.KeyHash)
	engine.PutUint16(b[8:10], e.PostingCount)
	engine.PutUint16(b[10:12], e.MaxDocID)
	engine.PutUint16(b[12:14], e.MaxPDocID)
	b[14] = e.BigramTermID1
	b[15] = e.BigramTermID2
	engine.PutUint16(b[16:18], e.PointerPivotPDocID)
	engine.PutUint16(b[18:20], e.EmbeddedFieldID)
	engine.PutUint32(b[20:24], e.CompressionPointer)

	return b[:]
}

// WriteToSlice writes the entry into data at offset and returns the next
// write position (offset + KeyHeadEntrySize). data must have room.
func (e KeyHeadEntry) WriteToSlice(data []byte, offset int, engine endian.EndianEngine) int {
	engine.PutUint64(data[offset:offset+8], e.KeyHash)
	engine.PutUint16(data[offset+8:offset+10], e.PostingCount)
	engine.PutUint16(data[offset+10:offset+12], e.MaxDocID)
	engine.PutUint16(data[offset+12:offset+14], e.MaxPDocID)
	data[offset+14] = e.BigramTermID1
	data[offset+15] = e.BigramTermID2
	engine.PutUint16(data[offset+16:offset+18], e.PointerPivotPDocID)
	engine.PutUint16(data[offset+18:offset+20], e.EmbeddedFieldID)
	engine.PutUint32(data[offset+20:offset+24], e.CompressionPointer)

	return offset + KeyHeadEntrySize
}

// ParseKeyHeadEntry parses a KeyHeadEntry from the leading KeyHeadEntrySize
// bytes of data.
func ParseKeyHeadEntry(data []byte, engine endian.EndianEngine) (KeyHeadEntry, error) {
	if len(data) < KeyHeadEntrySize {
		return KeyHeadEntry{}, errs.ErrInvalidIndexEntrySize
	}

	return KeyHeadEntry{
		KeyHash:            engine.Uint64(data[0:8]),
		PostingCount:       engine.Uint16(data[8:10]),
		MaxDocID:           engine.Uint16(data[10:12]),
		MaxPDocID:          engine.Uint16(data[12:14]),
		BigramTermID1:      data[14],
		BigramTermID2:      data[15],
		PointerPivotPDocID: engine.Uint16(data[16:18]),
		EmbeddedFieldID:    engine.Uint16(data[18:20]),
		CompressionPointer: engine.Uint32(data[20:24]),
	}, nil
}
