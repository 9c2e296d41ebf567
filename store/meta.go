// Package store implements the on-disk file formats and access modes
// spec.md §6 names: index.bin's file/level/block structure (owned by
// section, block, segment — this package just drives file I/O over
// them), docstore.bin's compressed document blobs, schema.json, and
// index.json's IndexMeta. AccessRam reads index.bin whole into memory
// (OpenRam); AccessMmap maps it read-only through github.com/edsrzf/mmap-go
// (OpenMmap). In both modes index.Open copies every block into the
// segments' in-memory arenas.
package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/emberindex/ember/errs"
	"github.com/emberindex/ember/format"
)

// IndexMeta is the serialized form of index.json.
type IndexMeta struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Similarity format.SimilarityType `json:"similarity"`
	Tokenizer  string             `json:"tokenizer"`
	AccessType format.AccessType  `json:"access_type"`
}

// WriteMeta serializes m to index.json at path.
func WriteMeta(path string, m IndexMeta) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// ReadMeta parses index.json at path.
func ReadMeta(path string) (IndexMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return IndexMeta{}, fmt.Errorf("%w: %s", errs.ErrMissingMeta, path)
		}

		return IndexMeta{}, err
	}

	var m IndexMeta
	if err := json.Unmarshal(data, &m); err != nil {
		return IndexMeta{}, err
	}

	return m, nil
}
