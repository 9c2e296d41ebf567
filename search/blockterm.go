// Package search implements the read path: resolving a parsed query
// against each segment's committed blocks and the realtime buffer,
// merging candidates with the exec package's block-alignment and
// compression kernels, scoring with rank, and collecting a top-k result
// set (spec.md §6's search operation).
package search

import (
	"log/slog"
	"sort"

	"github.com/emberindex/ember/block"
	"github.com/emberindex/ember/codec"
	"github.com/emberindex/ember/endian"
	"github.com/emberindex/ember/errs"
	"github.com/emberindex/ember/format"
	"github.com/emberindex/ember/positions"
	"github.com/emberindex/ember/posting"
	"github.com/emberindex/ember/section"
)

func defaultEngine() endian.EndianEngine {
	return endian.GetLittleEndianEngine()
}

// termBlock is one term's fully decoded view of a single committed
// block: its ascending local docids, still-compressed docid payload (for
// the exec package's merge kernels), and a lazily-resolved posting per
// local docid.
type termBlock struct {
	blockID         uint32
	tag             format.CompressionTag
	docidPayload    []byte
	locals          []uint16
	pointerTable    []byte
	positionsArea   []byte
	multiField      bool
	embeddedFieldID uint16
}

// decodeTermBlock splits a term's block-arena bytes (starting at the
// key head entry's PointerTableOffset, per commitTerm's layout: pointer
// table, a 4-byte positions-area length prefix, the positions area, then
// the compressed docid payload) into its constituent parts.
func decodeTermBlock(arena []byte, entry posting.BlockIndexEntry) (termBlock, error) {
	postingCount := int(entry.PostingCount) + 1
	pointerTableLen := postingCount * 2

	start := int(entry.PointerTableOffset)
	if start < 0 || start+pointerTableLen+4 > len(arena) {
		return termBlock{}, errs.ErrInvalidIndexEntrySize
	}

	pointerTable := arena[start : start+pointerTableLen]
	rest := arena[start+pointerTableLen:]

	positionsLen := int(defaultEngine().Uint32(rest[0:4]))
	if 4+positionsLen > len(rest) {
		return termBlock{}, errs.ErrInvalidIndexEntrySize
	}
	positionsArea := rest[4 : 4+positionsLen]
	docidPayload := rest[4+positionsLen:]

	locals, err := block.Decode(entry.CompressionTag, docidPayload)
	if err != nil {
		return termBlock{}, err
	}

	return termBlock{
		blockID:         entry.BlockID,
		tag:             entry.CompressionTag,
		docidPayload:    docidPayload,
		locals:          locals,
		pointerTable:    pointerTable,
		positionsArea:   positionsArea,
		multiField:      entry.EmbeddedFieldID == section.NoEmbeddedField,
		embeddedFieldID: entry.EmbeddedFieldID,
	}, nil
}

// postingAt decodes the p-th posting (0-indexed, ascending docid order)
// in this block. A corrupt pointer entry or positions record is logged
// and degrades that posting to zero positions instead of failing the
// query.
func (tb termBlock) postingAt(p int) (positions.Posting, error) {
	ptr, err := codec.DecodePointer(tb.pointerTable[p*2:p*2+2], codec.Pointer2Byte)
	if err != nil {
		slog.Warn("search: corrupt rank-position pointer, degrading to zero positions", "error", err)
		return positions.Posting{}, nil
	}

	if !ptr.Indirect {
		return positions.DecodeEmbedded(ptr.Embedded, tb.embeddedFieldID), nil
	}

	// Indirect records for this term are laid out in the positions area
	// in ascending docid order (the same order the pointer table was
	// built in), so the p-th indirect record is found by walking forward
	// from the start, skipping embedded entries.
	off := 0
	for i := 0; i < p; i++ {
		iptr, err := codec.DecodePointer(tb.pointerTable[i*2:i*2+2], codec.Pointer2Byte)
		if err != nil {
			slog.Warn("search: corrupt rank-position pointer, degrading to zero positions", "error", err)
			return positions.Posting{}, nil
		}
		if !iptr.Indirect {
			continue
		}
		_, n, err := positions.DecodeIndirectAt(tb.positionsArea, off, tb.multiField, tb.embeddedFieldID)
		if err != nil {
			slog.Warn("search: corrupt positions record, degrading to zero positions", "error", err)
			return positions.Posting{}, nil
		}
		off += n
	}

	p2, _, err := positions.DecodeIndirectAt(tb.positionsArea, off, tb.multiField, tb.embeddedFieldID)
	if err != nil {
		slog.Warn("search: corrupt positions record, degrading to zero positions", "error", err)
		return positions.Posting{}, nil
	}

	return p2, nil
}

// indexOfLocal returns the p-index of local within tb.locals.
func (tb termBlock) indexOfLocal(local uint16) (int, bool) {
	i := sort.Search(len(tb.locals), func(i int) bool { return tb.locals[i] >= local })
	if i < len(tb.locals) && tb.locals[i] == local {
		return i, true
	}

	return 0, false
}
