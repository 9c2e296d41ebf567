package index

import (
	"os"

	"github.com/emberindex/ember/errs"
	"github.com/emberindex/ember/format"
	"github.com/emberindex/ember/rank"
	"github.com/emberindex/ember/schema"
	"github.com/emberindex/ember/section"
	"github.com/emberindex/ember/store"
)

// manifestHeaderSize is this module's own prefix written right after
// section.FileHeader: a {level_count, indexed_field_count, segment_count}
// triple of uint32s. spec.md §6 describes index.bin as a sequence of
// levels but never specifies where a reader learns how many levels (or
// how many indexed fields/segments each level header covers) follow the
// file header, so this is the resolution index.bin needs to be
// self-describing, in the same spirit as the EmbeddedFieldID and
// positions-area length-prefix resolutions already in DESIGN.md.
const manifestHeaderSize = 12

// Save serializes every committed level (spec.md §6's on-disk layout: the
// file header, then each level's header and per-segment block bytes in
// commit order) to path. Only committed data is persisted; call Commit or
// Close first to flush a pending level-0 batch.
func (idx *Index) Save(path string) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	engine := defaultEngine()
	buf := append([]byte{}, section.NewFileHeader().Bytes()...)

	levelCount := 0
	if len(idx.segments) > 0 {
		levelCount = len(idx.segments[0].BlockOffsets)
	}
	fieldIDs := indexedFieldIDsSorted(idx.schema)

	manifest := make([]byte, manifestHeaderSize)
	engine.PutUint32(manifest[0:4], uint32(levelCount))
	engine.PutUint32(manifest[4:8], uint32(len(fieldIDs)))
	engine.PutUint32(manifest[8:12], uint32(idx.segmentCount))
	buf = append(buf, manifest...)

	for level := 0; level < levelCount; level++ {
		blockID := uint32(level)
		header := section.LevelHeader{
			DocumentLengthCompressed: make([][]byte, len(fieldIDs)),
			IndexedDocCount:          idx.levelIndexedDocs[level],
		}
		if level == 0 {
			header.LongestFieldID = idx.schema.LongestField
		}
		for i, fid := range fieldIDs {
			if arr, ok := idx.levelDocLen[blockID][fid]; ok {
				header.DocumentLengthCompressed[i] = arr
			} else {
				header.DocumentLengthCompressed[i] = make([]byte, section.RoaringBlockSize)
			}
		}
		for segID := range idx.segments {
			off := idx.segments[segID].BlockOffsets[level]
			header.Segments = append(header.Segments, section.SegmentBlockHeader{
				BlockLength: off.Length,
				KeyCount:    off.KeyCount,
			})
		}

		buf = append(buf, header.Bytes(engine, level == 0)...)
		for segID := range idx.segments {
			buf = append(buf, idx.segments[segID].BlockBytes(level)...)
		}
	}

	return os.WriteFile(path, buf, 0o644)
}

// Open reconstructs an Index from a file previously written by Save.
// accessType chooses how the file is read (spec.md §6's Access modes):
// AccessMmap maps it read-only, anything else reads it whole. In both
// modes every committed block's bytes are copied into the segments'
// in-memory arenas while opening; blocks are not resolved from the file
// on demand. The returned Index's arena is released by Close.
func Open(s *schema.Schema, segmentCount int, similarity format.SimilarityType, path string, accessType format.AccessType) (*Index, error) {
	var arena store.Arena
	var err error
	switch accessType {
	case format.AccessMmap:
		arena, err = store.OpenMmap(path)
	default:
		arena, err = store.OpenRam(path)
	}
	if err != nil {
		return nil, err
	}

	idx, err := New(s, segmentCount, similarity)
	if err != nil {
		_ = arena.Close()

		return nil, err
	}
	idx.arena = arena

	data := arena.Bytes()
	if _, err := section.ParseFileHeader(data); err != nil {
		_ = arena.Close()

		return nil, err
	}
	off := section.FileHeaderSize

	engine := defaultEngine()
	if len(data) < off+manifestHeaderSize {
		_ = arena.Close()

		return nil, errs.ErrInvalidHeaderSize
	}
	levelCount := int(engine.Uint32(data[off : off+4]))
	fieldCount := int(engine.Uint32(data[off+4 : off+8]))
	savedSegmentCount := int(engine.Uint32(data[off+8 : off+12]))
	off += manifestHeaderSize

	if savedSegmentCount != segmentCount {
		_ = arena.Close()

		return nil, errs.ErrSegmentCountNotPowerOfTwo
	}

	fieldIDs := indexedFieldIDsSorted(s)

	for level := 0; level < levelCount; level++ {
		header, n, err := section.ParseLevelHeader(data[off:], engine, fieldCount, segmentCount, level == 0)
		if err != nil {
			_ = arena.Close()

			return nil, err
		}
		off += n

		if level == 0 {
			idx.schema.LongestField = header.LongestFieldID
		}
		idx.indexedDocs = header.IndexedDocCount

		blockID := uint32(level)
		byField := make(map[uint16][]uint8, len(fieldIDs))
		for i, fid := range fieldIDs {
			if i < len(header.DocumentLengthCompressed) {
				byField[fid] = header.DocumentLengthCompressed[i]
			}
		}
		idx.levelDocLen[blockID] = byField

		for segID, sh := range header.Segments {
			if off+int(sh.BlockLength) > len(data) {
				_ = arena.Close()

				return nil, errs.ErrInvalidHeaderSize
			}
			blockBytes := data[off : off+int(sh.BlockLength)]
			off += int(sh.BlockLength)

			if err := idx.segments[segID].RestoreLevel(blockID, blockBytes, sh.KeyCount, engine, estimateReloadedBlockScore(idx.indexedDocs)); err != nil {
				_ = arena.Close()

				return nil, err
			}
		}

		idx.levelIndexedDocs = append(idx.levelIndexedDocs, header.IndexedDocCount)
	}

	// Every committed level becomes a fully-filled block id; the next
	// document indexed starts a fresh in-flight batch at the next id.
	// Deletions are not part of the persisted format (spec.md §6 doesn't
	// specify a tombstone section), so a reopened index starts with none.
	idx.blockBase = uint32(levelCount)
	idx.nextDocID = idx.blockBase << 16

	return idx, nil
}

// estimateReloadedBlockScore approximates a reopened block's MaxBlockScore
// from document frequency alone (tf=1), since recomputing the exact
// per-posting maximum would require decoding every term's positions at
// open time using the search package's block-decoding helpers, which
// index does not import (search reaches index through its own Segmenter
// interface, not the reverse). This mirrors the same df-only approximation
// estimateMaxBlockScore already makes from level-0 state at commit time,
// just without the tf refinement that requires live posting access.
func estimateReloadedBlockScore(totalDocs uint64) func(section.KeyHeadEntry) float64 {
	return func(e section.KeyHeadEntry) float64 {
		df := uint64(e.PostingCount) + 1
		idf := rank.IDF(max64(totalDocs, df+1), df)

		return rank.FieldContribution(1.0, idf, 1.0, rank.K)
	}
}
