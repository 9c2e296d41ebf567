// Package index implements the top-level Index lifecycle (spec.md §3's
// "Lifecycle" and §5's concurrency model): level-0 ingestion, commit into
// immutable segment blocks, and the single reader-writer lock guarding
// every operation that touches the index.
package index

import (
	"sort"
	"strings"
	"sync"

	"github.com/emberindex/ember/codec"
	"github.com/emberindex/ember/errs"
	"github.com/emberindex/ember/format"
	"github.com/emberindex/ember/internal/hash"
	"github.com/emberindex/ember/posting"
	"github.com/emberindex/ember/rank"
	"github.com/emberindex/ember/realtime"
	"github.com/emberindex/ember/schema"
	"github.com/emberindex/ember/section"
	"github.com/emberindex/ember/segment"
	"github.com/emberindex/ember/store"
)

// Tokenizer splits and lowercases text into tokens. Tokenizer internals
// are an external collaborator per spec.md §1 ("out of scope ... the
// tokenizer implementation details"); this is the minimal default an
// embedder can override.
type Tokenizer func(text string) []string

// DefaultTokenizer lowercases and splits on whitespace/punctuation.
func DefaultTokenizer(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
}

// Index is the top-level embeddable search index.
type Index struct {
	mu sync.RWMutex

	schema       *schema.Schema
	segmentCount int
	similarity   format.SimilarityType
	Tokenizer    Tokenizer

	segments []*segment.Segment
	realtime []*realtime.Buffer // one uncommitted buffer per segment

	nextDocID   uint32
	blockBase   uint32 // block id the in-flight level-0 batch belongs to
	indexedDocs uint64
	deleted     map[uint32]struct{}
	closed      bool

	terms        []map[uint64]*level0Term
	termName     []map[uint64]string
	realtimeLens []map[uint32]int

	// Per-field document-length tracking for BM25F's per-document length
	// normalization (spec.md §4.9). fieldLenSum/fieldLenCount accumulate a
	// running average across every document ever indexed; docFieldLen
	// accumulates the in-flight level-0 batch's per-document lengths until
	// the next commit compresses them into levelDocLen.
	fieldLenSum   map[uint16]uint64
	fieldLenCount map[uint16]uint64
	docFieldLen   map[uint32]map[uint16]uint32
	levelDocLen   map[uint32]map[uint16][]uint8 // blockID -> fieldID -> RoaringBlockSize compressed lengths

	// levelIndexedDocs[i] is idx.indexedDocs as of the i-th commit, parallel
	// to each segment's BlockOffsets, for Save's per-level header.
	levelIndexedDocs []uint64

	// arena holds the backing store for a reopened index (Open), closed
	// alongside the index itself; nil for an index built fresh via New.
	arena store.Arena
}

// New creates an empty index over the given schema, partitioned into
// segmentCount segments (a power of two, spec.md §3).
func New(s *schema.Schema, segmentCount int, similarity format.SimilarityType) (*Index, error) {
	if segmentCount <= 0 || segmentCount&(segmentCount-1) != 0 || segmentCount > section.MaxSegmentCount {
		return nil, errs.ErrSegmentCountNotPowerOfTwo
	}

	idx := &Index{
		schema:        s,
		segmentCount:  segmentCount,
		similarity:    similarity,
		Tokenizer:     DefaultTokenizer,
		segments:      make([]*segment.Segment, segmentCount),
		realtime:      make([]*realtime.Buffer, segmentCount),
		realtimeLens:  make([]map[uint32]int, segmentCount),
		deleted:       make(map[uint32]struct{}),
		fieldLenSum:   make(map[uint16]uint64),
		fieldLenCount: make(map[uint16]uint64),
		docFieldLen:   make(map[uint32]map[uint16]uint32),
		levelDocLen:   make(map[uint32]map[uint16][]uint8),
	}
	for i := range idx.segments {
		idx.segments[i] = segment.New(i)
		idx.realtime[i] = realtime.NewBuffer()
	}

	return idx, nil
}

// Schema returns the schema this index was created with.
func (idx *Index) Schema() *schema.Schema {
	return idx.schema
}

// SegmentCount returns the number of hash-partitioned segments.
func (idx *Index) SegmentCount() int {
	return idx.segmentCount
}

// SegmentFor returns the i-th segment, for the search package's
// segment-by-segment scan.
func (idx *Index) SegmentFor(i int) *segment.Segment {
	return idx.segments[i]
}

// Similarity returns the ranking function this index scores with.
func (idx *Index) Similarity() format.SimilarityType {
	return idx.similarity
}

// FieldAvgLen returns the running average token length of fieldID across
// every document indexed so far, the avg_doc_len_norm denominator BM25F's
// per-document length normalization divides by (spec.md §4.9).
func (idx *Index) FieldAvgLen(fieldID uint16) float64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	cnt := idx.fieldLenCount[fieldID]
	if cnt == 0 {
		return 1
	}

	return float64(idx.fieldLenSum[fieldID]) / float64(cnt)
}

// DocLengthCompressed returns the 8-bit compressed token length fieldID
// had for the document at (blockID, local), as recorded when that block
// was committed (spec.md §4.9's per-document length table). Returns 0
// (bucket 0, the shortest length) if no length was ever recorded, which
// happens for documents that never touched fieldID.
func (idx *Index) DocLengthCompressed(blockID uint32, fieldID uint16, local uint16) uint8 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	byField, ok := idx.levelDocLen[blockID]
	if !ok {
		return 0
	}
	arr, ok := byField[fieldID]
	if !ok || int(local) >= len(arr) {
		return 0
	}

	return arr[local]
}

func (idx *Index) segmentFor(keyHash uint64, term string) *segment.Segment {
	sel := hash.SegmentSelector(term) & uint32(idx.segmentCount-1)

	return idx.segments[sel]
}

// IndexDocument assigns the next docid and indexes fields (spec.md §3's
// index_document). fields maps schema field names to their raw text.
func (idx *Index) IndexDocument(fields map[string]string) (uint32, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return 0, errs.ErrIndexClosed
	}

	docID := idx.nextDocID
	local := docID - idx.blockBase<<16
	if local >= section.RoaringBlockSize {
		if err := idx.commitLocked(); err != nil {
			return 0, err
		}
		idx.blockBase = docID >> 16
	}

	longestLen := -1
	for name, text := range fields {
		f, ok := idx.schema.ByName(name)
		if !ok || !f.Indexed {
			continue
		}

		tokens := idx.Tokenizer(text)
		terms := idx.level0Terms()

		// The first document ever indexed designates the longest field;
		// ties go to the lower field id so map order does not matter.
		if docID == 0 && (len(tokens) > longestLen || (len(tokens) == longestLen && f.ID < idx.schema.LongestField)) {
			longestLen = len(tokens)
			idx.schema.LongestField = f.ID
		}

		idx.fieldLenSum[f.ID] += uint64(len(tokens))
		idx.fieldLenCount[f.ID]++
		if idx.docFieldLen[docID] == nil {
			idx.docFieldLen[docID] = make(map[uint16]uint32)
		}
		idx.docFieldLen[docID][f.ID] = uint32(len(tokens))

		// Group this field's token positions by term before touching the
		// level-0 map and realtime buffer, since the realtime tier
		// records one occurrence list per (term, field, doc) rather than
		// per individual token.
		fieldPositions := make(map[string][]uint32)
		for pos, tok := range tokens {
			fieldPositions[tok] = append(fieldPositions[tok], uint32(pos))
		}

		for tok, positions := range fieldPositions {
			keyHash := hash.TermHash(tok)
			seg := idx.segmentFor(keyHash, tok)
			segTerms := terms[seg.ID]
			t, ok := segTerms[keyHash]
			if !ok {
				t = newLevel0Term(keyHash)
				segTerms[keyHash] = t
				idx.termName[seg.ID][keyHash] = tok
			}
			for _, p := range positions {
				t.add(docID, f.ID, p)
			}

			idx.indexRealtime(seg.ID, keyHash, docID, f.ID, positions)
		}
	}

	idx.nextDocID++
	idx.indexedDocs++

	return docID, nil
}

// Close commits any pending level-0 batch and marks the index closed to
// further writes (spec.md §3's lifecycle): IndexDocument returns
// ErrIndexClosed after Close. Reads and searches do not check the closed
// flag.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return nil
	}
	if err := idx.commitLocked(); err != nil {
		return err
	}
	idx.closed = true

	if idx.arena != nil {
		return idx.arena.Close()
	}

	return nil
}

// IndexedDocCount returns the number of documents indexed so far,
// committed or not.
func (idx *Index) IndexedDocCount() uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.indexedDocs
}

// Delete marks docID as deleted; it is filtered from every search result
// type (spec.md §8).
func (idx *Index) Delete(docID uint32) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.deleted[docID] = struct{}{}
}

// IsDeleted reports whether docID has been deleted.
func (idx *Index) IsDeleted(docID uint32) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.deleted[docID]

	return ok
}

// Commit serializes the current level-0 batch into a new immutable block
// per segment (spec.md §3). Idempotent: committing with nothing pending
// is a no-op.
func (idx *Index) Commit() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	return idx.commitLocked()
}

func (idx *Index) commitLocked() error {
	terms := idx.level0Terms()
	pending := false
	for _, segTerms := range terms {
		if len(segTerms) > 0 {
			pending = true

			break
		}
	}
	if !pending {
		return nil
	}

	blockID := idx.blockBase
	idx.compressBlockDocLen(blockID)

	for segID, segTerms := range terms {
		seg := idx.segments[segID]
		keyHashes := make([]uint64, 0, len(segTerms))
		for kh := range segTerms {
			keyHashes = append(keyHashes, kh)
		}
		sort.Slice(keyHashes, func(i, j int) bool { return keyHashes[i] < keyHashes[j] })

		var blockBytes []byte
		keyHeads := make([]section.KeyHeadEntry, 0, len(keyHashes))
		headerSize := uint32(len(keyHashes)) * section.KeyHeadEntrySize

		for _, kh := range keyHashes {
			t := segTerms[kh]
			entry, payload, err := commitTerm(t, blockID)
			if err != nil {
				return err
			}

			// Each term's payload is self-contained (pointer table,
			// positions records, then docid payload), so its
			// PointerTableOffset is simply where that payload begins
			// within the block, after the fixed-size key head table.
			payloadOffset := headerSize + uint32(len(blockBytes))
			entry.CompressionPointer = section.PackCompressionPointer(entry.CompressionTag(), payloadOffset)

			plIdx, err := seg.GetOrCreate(idx.termName[segID][kh], kh)
			if err != nil {
				return err
			}
			plIdx.PostingCount += uint64(entry.PostingCount) + 1
			blockEntry := posting.BlockIndexEntry{
				BlockID:            blockID,
				PostingCount:       entry.PostingCount,
				MaxDocID:           entry.MaxDocID,
				MaxPDocID:          entry.MaxPDocID,
				BigramTermID1:      section.BigramNone,
				BigramTermID2:      section.BigramNone,
				PointerPivotPDocID: entry.PointerPivotPDocID,
				CompressionTag:     entry.CompressionTag(),
				PointerTableOffset: payloadOffset,
				MaxBlockScore:      estimateMaxBlockScore(t, idx.indexedDocs),
			}
			plIdx.Blocks = append(plIdx.Blocks, blockEntry)

			keyHeads = append(keyHeads, entry)
			blockBytes = append(blockBytes, payload...)
		}

		finalBytes := assembleBlock(keyHeads, blockBytes)
		seg.AppendBlock(finalBytes, uint32(len(keyHeads)))
	}

	for _, buf := range idx.realtime {
		buf.Reset()
	}
	idx.resetLevel0()
	idx.levelIndexedDocs = append(idx.levelIndexedDocs, idx.indexedDocs)
	idx.blockBase++

	return nil
}

// compressBlockDocLen drains idx.docFieldLen's accumulated per-document
// field lengths for the block about to be committed into a
// RoaringBlockSize-byte compressed-length array per indexed field
// (spec.md §4.9, section.LevelHeader.DocumentLengthCompressed's in-memory
// counterpart), then clears the entries so docFieldLen only ever holds the
// current in-flight batch.
func (idx *Index) compressBlockDocLen(blockID uint32) {
	fieldIDs := indexedFieldIDsSorted(idx.schema)
	if len(fieldIDs) == 0 {
		return
	}

	byField := make(map[uint16][]uint8, len(fieldIDs))
	for _, fid := range fieldIDs {
		byField[fid] = make([]uint8, section.RoaringBlockSize)
	}

	base := blockID << 16
	for docID, fields := range idx.docFieldLen {
		if docID>>16 != blockID {
			continue
		}
		local := uint16(docID - base)
		for fid, n := range fields {
			if arr, ok := byField[fid]; ok {
				arr[local] = rank.CompressLength(n)
			}
		}
		delete(idx.docFieldLen, docID)
	}

	idx.levelDocLen[blockID] = byField
}

// indexedFieldIDsSorted returns every indexed field's id in ascending
// order, the fixed column order levelDocLen and
// section.LevelHeader.DocumentLengthCompressed both use.
func indexedFieldIDsSorted(s *schema.Schema) []uint16 {
	var ids []uint16
	for _, f := range s.Fields {
		if f.Indexed {
			ids = append(ids, f.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

func estimateMaxBlockScore(t *level0Term, totalDocs uint64) float64 {
	df := uint64(len(t.postings))
	idf := rank.IDF(max64(totalDocs, df+1), df)
	maxTF := 1.0
	for _, p := range t.postings {
		tf := 0
		for _, positions := range p.fields {
			tf += len(positions)
		}
		if float64(tf) > maxTF {
			maxTF = float64(tf)
		}
	}

	return rank.FieldContribution(1.0, idf, maxTF, rank.K)
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}

	return b
}

// commitTerm builds one term's key head entry and block payload
// (key-local, relative to blockID's base): the rank-position pointer
// table followed by positions records and the compressed docid payload.
func commitTerm(t *level0Term, blockID uint32) (section.KeyHeadEntry, []byte, error) {
	docIDs := t.sortedDocIDs()
	locals := make([]uint16, len(docIDs))
	for i, d := range docIDs {
		locals[i] = uint16(d - blockID<<16)
	}

	tag, docidPayload := encodeLocalDocIDs(locals)

	var pointerBytes []byte
	var positionsBytes []byte

	// Every entry uses the 2-byte pointer width: with RoaringBlockSize
	// capped at 65,536 positions per block, indirect offsets stay well
	// within the 15-bit magnitude a 2-byte entry can address, so the
	// pivot where a block would need to switch to 3-byte entries is
	// never reached. PointerPivotPDocID is set to len(locals) to record
	// that every entry in this block is 2-byte.
	const width = codec.Pointer2Byte

	// Single-field embedding only applies when every document carrying
	// this term uses exactly one, and the same, field: an embedded entry
	// has nowhere to record a field id (see
	// section.KeyHeadEntry.EmbeddedFieldID), so a term whose occurrences
	// ever span more than one field, or differ in which single field
	// they use, falls back to the multi-field indirect record for every
	// document — uniform is a per-term constant, not a per-document one.
	blockFieldID, uniform := blockSingleField(t)
	blockMultiField := !uniform

	for _, docID := range docIDs {
		doc := t.postings[docID]
		multiField := blockMultiField

		var embedded codec.EmbeddedPosting
		if !multiField {
			for _, positions := range doc.fields {
				embedded = codec.EmbeddedPosting{Positions: positions}
			}
		}

		if !multiField && codec.CanEmbed(embedded, width) {
			entryBytes, err := codec.EncodeEmbedded(embedded, width)
			if err != nil {
				return section.KeyHeadEntry{}, nil, err
			}
			pointerBytes = append(pointerBytes, entryBytes...)

			continue
		}

		record := encodeIndirectRecord(doc, multiField)
		positionsBytes = append(positionsBytes, record...)
		offset := int32(-len(positionsBytes))
		entryBytes, err := codec.EncodeIndirect(offset, width)
		if err != nil {
			return section.KeyHeadEntry{}, nil, err
		}
		pointerBytes = append(pointerBytes, entryBytes...)
	}

	entry := section.KeyHeadEntry{
		KeyHash:            t.keyHash,
		PostingCount:       uint16(len(locals) - 1),
		MaxDocID:           locals[len(locals)-1],
		MaxPDocID:          uint16(len(locals) - 1),
		BigramTermID1:      section.BigramNone,
		BigramTermID2:      section.BigramNone,
		PointerPivotPDocID: uint16(len(locals)),
		EmbeddedFieldID:    blockFieldID,
		CompressionPointer: section.PackCompressionPointer(tag, 0),
	}

	// The pointer table's length is recoverable from PostingCount (every
	// entry is 2-byte), but the positions-records area that follows it
	// has no such fixed relationship to the entry count, so its byte
	// length is recorded as a 4-byte little-endian prefix. This, plus
	// the docid payload's own self-delimiting compressed format (Array's
	// length follows from PostingCount, Bitmap is fixed-size, RLE
	// carries a run-count prefix), lets a reader locate all three areas
	// of a term's payload from the key head entry alone.
	positionsLen := make([]byte, 4)
	defaultEngine().PutUint32(positionsLen, uint32(len(positionsBytes)))

	payload := append([]byte{}, pointerBytes...)
	payload = append(payload, positionsLen...)
	payload = append(payload, positionsBytes...)
	payload = append(payload, docidPayload...)

	return entry, payload, nil
}

func encodeIndirectRecord(p *level0Posting, multiField bool) []byte {
	if !multiField {
		for _, positions := range p.fields {
			out := codec.EncodePosition(uint32(len(positions)))

			return append(out, codec.EncodePositions(positions)...)
		}

		return nil
	}

	fields := make([]codec.FieldCount, 0, len(p.fields))
	for fid, positions := range p.fields {
		fields = append(fields, codec.FieldCount{FieldID: fid, Count: uint32(len(positions))})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].FieldID < fields[j].FieldID })

	out := codec.EncodeFieldCounts(fields, 21)
	for _, fc := range fields {
		out = append(out, codec.EncodePositions(p.fields[fc.FieldID])...)
	}

	return out
}
