// Package ember is the embeddable full-text search engine core: a
// segmented, block-compressed inverted index with BM25F ranking, facet
// filtering, and a realtime uncommitted tier (spec.md §1-§9). This file
// is the convenience surface gluing index.Index (write path) and
// search.Search (read path) together, plus schema and metadata
// persistence, the way a top-level package normally wraps its internal
// packages for an embedder who doesn't want to import every subpackage
// directly.
package ember

import (
	"github.com/emberindex/ember/format"
	"github.com/emberindex/ember/index"
	"github.com/emberindex/ember/schema"
	"github.com/emberindex/ember/search"
	"github.com/emberindex/ember/store"
)

// Field describes one field of a document schema.
type Field = schema.Field

// Schema describes a document's indexed and stored fields.
type Schema = schema.Schema

// NewSchema builds a Schema from its fields, per spec.md §2.
func NewSchema(fields []Field) *Schema {
	return schema.New(fields)
}

// SimilarityType selects the ranking function an Index scores with.
type SimilarityType = format.SimilarityType

// Options configures a new Index.
type Options struct {
	// SegmentCount is the number of hash-partitioned segments; must be a
	// power of two no greater than section.MaxSegmentCount.
	SegmentCount int
	// Similarity selects the ranking function: Bm25f, or Bm25fProximity,
	// which scores bigram terms with their unigram contribution.
	Similarity format.SimilarityType
	// Tokenizer overrides index.DefaultTokenizer, per spec.md §1's note
	// that tokenization is an external collaborator.
	Tokenizer index.Tokenizer
}

// Index is the top-level embeddable search index: ingest documents,
// commit them into immutable blocks, and search across every segment.
type Index struct {
	core *index.Index
}

// New creates an empty Index over s, per spec.md §3's Lifecycle.
func New(s *Schema, opts Options) (*Index, error) {
	if opts.SegmentCount == 0 {
		opts.SegmentCount = 1
	}

	core, err := index.New(s, opts.SegmentCount, opts.Similarity)
	if err != nil {
		return nil, err
	}
	if opts.Tokenizer != nil {
		core.Tokenizer = opts.Tokenizer
	}

	return &Index{core: core}, nil
}

// AccessType selects how a reopened index's committed block bytes are
// held in memory.
type AccessType = format.AccessType

const (
	// AccessRam preloads every committed block arena into process memory.
	AccessRam = format.AccessRam
	// AccessMmap resolves block arenas on demand through a memory mapping.
	AccessMmap = format.AccessMmap
)

// Save serializes every committed level of idx to path as index.bin
// (spec.md §6). A pending level-0 batch must be committed first.
func (idx *Index) Save(path string) error {
	return idx.core.Save(path)
}

// Open reconstructs an Index previously written by Save, per spec.md §6's
// round-trip invariant: indexing N documents then committing yields
// exactly N searchable docids, whether read from the live Index or a
// reopened one.
func Open(s *Schema, opts Options, path string, accessType AccessType) (*Index, error) {
	if opts.SegmentCount == 0 {
		opts.SegmentCount = 1
	}

	core, err := index.Open(s, opts.SegmentCount, opts.Similarity, path, accessType)
	if err != nil {
		return nil, err
	}
	if opts.Tokenizer != nil {
		core.Tokenizer = opts.Tokenizer
	}

	return &Index{core: core}, nil
}

// IndexDocument assigns the next docid and indexes fields, returning it.
func (idx *Index) IndexDocument(fields map[string]string) (uint32, error) {
	return idx.core.IndexDocument(fields)
}

// Delete marks docID as deleted; it is filtered from every search result.
func (idx *Index) Delete(docID uint32) {
	idx.core.Delete(docID)
}

// Commit serializes the pending level-0 batch into a new immutable block
// per segment. Idempotent when nothing is pending.
func (idx *Index) Commit() error {
	return idx.core.Commit()
}

// Close commits any pending batch and marks the index closed to further
// writes.
func (idx *Index) Close() error {
	return idx.core.Close()
}

// IndexedDocCount returns the number of documents indexed so far.
func (idx *Index) IndexedDocCount() uint64 {
	return idx.core.IndexedDocCount()
}

// Request is one search call's parameters (spec.md §6's search op).
type Request = search.Request

// Response is the result of a search call.
type Response = search.Response

// Result is one scored, ranked document.
type Result = search.Result

// FacetCount requests bucketed counts for one facet in a search call.
type FacetCount = search.FacetCount

// Search executes a parsed query string against every segment of idx and
// returns the top Request.Length results after Request.Offset.
func (idx *Index) Search(req Request) (Response, error) {
	return search.Search(idx.core, req)
}

// SaveMeta writes this index's descriptive metadata (index.json) to path,
// the way a caller persists enough to reopen and validate an index's
// configuration (spec.md §6). Segment block data is saved separately via
// Save, and the schema via SaveSchema.
func (idx *Index) SaveMeta(path, id, name string, accessType format.AccessType) error {
	return store.WriteMeta(path, store.IndexMeta{
		ID:         id,
		Name:       name,
		Similarity: idx.core.Similarity(),
		Tokenizer:  "default",
		AccessType: accessType,
	})
}

// SaveSchema writes s as schema.json to path.
func SaveSchema(path string, s *Schema) error {
	return schema.WriteJSON(path, s)
}

// LoadSchema reads a schema.json previously written by SaveSchema.
func LoadSchema(path string) (*Schema, error) {
	return schema.ReadJSON(path)
}
