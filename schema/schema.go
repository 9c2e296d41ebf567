// Package schema defines indexed/stored field metadata and its
// schema.json serialization (spec.md §3, §6).
package schema

import (
	"encoding/json"
	"math/bits"
	"os"

	"github.com/emberindex/ember/errs"
)

// Field describes one field of the schema. A field may be Indexed,
// Stored, or both.
type Field struct {
	ID      uint16  `json:"id"`
	Name    string  `json:"name"`
	Indexed bool    `json:"indexed"`
	Stored  bool    `json:"stored"`
	Boost   float64 `json:"boost"`
}

// Schema is the full set of fields for an index, plus the longest-field
// id designated from the first document ever indexed (spec.md §3).
type Schema struct {
	Fields       []Field `json:"fields"`
	LongestField uint16  `json:"longest_field"`

	byName map[string]*Field
	byID   map[uint16]*Field
}

// New builds a Schema from field definitions and indexes it for lookup.
func New(fields []Field) *Schema {
	s := &Schema{Fields: fields}
	s.reindex()

	return s
}

func (s *Schema) reindex() {
	s.byName = make(map[string]*Field, len(s.Fields))
	s.byID = make(map[uint16]*Field, len(s.Fields))
	for i := range s.Fields {
		f := &s.Fields[i]
		s.byName[f.Name] = f
		s.byID[f.ID] = f
	}
}

// ByName looks up a field by name.
func (s *Schema) ByName(name string) (Field, bool) {
	f, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}

	return *f, true
}

// ByID looks up a field by its numeric id.
func (s *Schema) ByID(id uint16) (Field, bool) {
	f, ok := s.byID[id]
	if !ok {
		return Field{}, false
	}

	return *f, true
}

// IndexedFieldCount returns how many fields are indexed.
func (s *Schema) IndexedFieldCount() int {
	n := 0
	for _, f := range s.Fields {
		if f.Indexed {
			n++
		}
	}

	return n
}

// FieldIDBits returns the number of bits needed to pack a field id,
// ceil(log2(num_fields)) as specified in spec.md §3.
func (s *Schema) FieldIDBits() int {
	n := len(s.Fields)
	if n <= 1 {
		return 1
	}

	return bits.Len(uint(n - 1))
}

// MarshalJSON serializes the schema for schema.json.
func (s *Schema) MarshalJSON() ([]byte, error) {
	type alias struct {
		Fields       []Field `json:"fields"`
		LongestField uint16  `json:"longest_field"`
	}

	return json.Marshal(alias{Fields: s.Fields, LongestField: s.LongestField})
}

// UnmarshalJSON parses schema.json and rebuilds lookup indexes.
func (s *Schema) UnmarshalJSON(data []byte) error {
	type alias struct {
		Fields       []Field `json:"fields"`
		LongestField uint16  `json:"longest_field"`
	}

	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if len(a.Fields) == 0 {
		return errs.ErrMissingSchema
	}

	s.Fields = a.Fields
	s.LongestField = a.LongestField
	s.reindex()

	return nil
}

// WriteJSON serializes s to schema.json at path.
func WriteJSON(path string, s *Schema) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// ReadJSON parses a schema.json previously written by WriteJSON.
func ReadJSON(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	s := &Schema{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}

	return s, nil
}
