// Package positions decodes a posting's (field-id, term-frequency) pairs
// and, optionally, its positions (spec.md §4.8, §4.2): either directly
// from an embedded rank-position pointer entry, or by following an
// indirect pointer to a positions record stored in the block arena.
//
// countBits is fixed at 21 throughout: spec.md §4.1 bounds a single
// position, and therefore a single field's term-frequency, to 21 bits
// (per-field token count <= 65,536).
package positions

import (
	"log/slog"

	"github.com/emberindex/ember/codec"
)

const countBits = 21

// FieldPositions is one field's term occurrences within a document.
type FieldPositions struct {
	FieldID   uint16
	Positions []uint32
}

// Posting is a fully decoded posting: one or more fields, each with its
// term frequency and (if requested) its positions.
type Posting struct {
	Fields []FieldPositions
}

// TermFrequency sums term frequency across all fields.
func (p Posting) TermFrequency() int {
	n := 0
	for _, f := range p.Fields {
		n += len(f.Positions)
	}

	return n
}

// DecodeEmbedded converts a codec.EmbeddedPosting — already extracted from
// the rank-position pointer table — into a Posting. singleFieldID is the
// field to attribute positions to when the entry was encoded single-field
// (the block's sole occurring field for that posting, known from schema
// context rather than stored in the entry).
func DecodeEmbedded(e codec.EmbeddedPosting, singleFieldID uint16) Posting {
	fieldID := singleFieldID
	if e.MultiField {
		fieldID = e.FieldID
	}

	return Posting{Fields: []FieldPositions{{FieldID: fieldID, Positions: e.Positions}}}
}

// DecodeIndirect decodes a positions record found at the given byte
// offset within arena, for a posting known (from schema context) to be
// single-field or multi-field.
//
// Record layout (this library's own resolution of spec.md §4.2's
// indirection, since the on-disk byte-for-byte table isn't specified
// beyond the embedded-pointer case). For a single-field posting: a leading
// variable-byte count, then that many position varints. For a multi-field
// posting there is no leading count: the record starts with a
// codec.FieldCounts stream of (field_id, count) records, which ends on
// its own end-of-list bit, then the concatenated position varints for
// each field in the order the records appeared.
func DecodeIndirect(arena []byte, offset int, multiField bool, singleFieldID uint16) (Posting, error) {
	if offset < 0 || offset >= len(arena) {
		slog.Warn("positions: indirect offset out of range, degrading to zero positions", "offset", offset)
		return Posting{}, nil
	}

	data := arena[offset:]

	if !multiField {
		positions, _, err := decodePositionList(data)
		if err != nil {
			slog.Warn("positions: corrupt single-field positions record", "error", err)
			return Posting{}, nil
		}

		return Posting{Fields: []FieldPositions{{FieldID: singleFieldID, Positions: positions}}}, nil
	}

	fields, n, err := codec.DecodeFieldCounts(data, countBits)
	if err != nil {
		slog.Warn("positions: corrupt multi-field count record", "error", err)
		return Posting{}, nil
	}

	off := n
	result := make([]FieldPositions, 0, len(fields))
	for _, f := range fields {
		pos, err := codec.DecodePositions(data[off:], int(f.Count))
		if err != nil {
			slog.Warn("positions: corrupt multi-field position stream", "error", err)
			return Posting{}, nil
		}
		off += positionsByteLen(pos)
		result = append(result, FieldPositions{FieldID: f.FieldID, Positions: pos})
	}

	return Posting{Fields: result}, nil
}

// DecodeIndirectAt is DecodeIndirect plus the number of bytes consumed
// from arena[offset:], for callers that decode a term's positions records
// sequentially (in commit order) rather than by following a stored
// pointer-table offset.
func DecodeIndirectAt(arena []byte, offset int, multiField bool, singleFieldID uint16) (Posting, int, error) {
	if offset < 0 || offset >= len(arena) {
		return Posting{}, 0, nil
	}

	data := arena[offset:]

	if !multiField {
		positions, n, err := decodePositionList(data)
		if err != nil {
			return Posting{}, 0, err
		}

		return Posting{Fields: []FieldPositions{{FieldID: singleFieldID, Positions: positions}}}, n, nil
	}

	fields, n, err := codec.DecodeFieldCounts(data, countBits)
	if err != nil {
		return Posting{}, 0, err
	}

	off := n
	result := make([]FieldPositions, 0, len(fields))
	for _, f := range fields {
		pos, err := codec.DecodePositions(data[off:], int(f.Count))
		if err != nil {
			return Posting{}, 0, err
		}
		off += positionsByteLen(pos)
		result = append(result, FieldPositions{FieldID: f.FieldID, Positions: pos})
	}

	return Posting{Fields: result}, off, nil
}

func decodePositionList(data []byte) ([]uint32, int, error) {
	count, n, err := codec.DecodePosition(data)
	if err != nil {
		return nil, 0, err
	}

	positions, err := codec.DecodePositions(data[n:], int(count))
	if err != nil {
		return nil, 0, err
	}

	return positions, n + positionsByteLen(positions), nil
}

func positionsByteLen(positions []uint32) int {
	n := 0
	for _, p := range positions {
		n += len(codec.EncodePosition(p))
	}

	return n
}

// EncodeIndirect is the inverse of DecodeIndirect, used when committing a
// level-0 posting whose rank-position pointer entry can't hold its
// positions embedded.
func EncodeIndirect(p Posting, multiField bool) []byte {
	if !multiField {
		positions := p.Fields[0].Positions
		out := codec.EncodePosition(uint32(len(positions)))
		out = append(out, codec.EncodePositions(positions)...)

		return out
	}

	fields := make([]codec.FieldCount, len(p.Fields))
	for i, f := range p.Fields {
		fields[i] = codec.FieldCount{FieldID: f.FieldID, Count: uint32(len(f.Positions))}
	}

	out := codec.EncodeFieldCounts(fields, countBits)
	for _, f := range p.Fields {
		out = append(out, codec.EncodePositions(f.Positions)...)
	}

	return out
}
