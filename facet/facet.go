// Package facet implements facet filtering and counting (spec.md §4.10):
// fixed-width per-document facet values read from a memory-mapped store,
// sparse filter descriptors, range-bucket counting, and geo pruning.
package facet

import (
	"encoding/binary"
	"math"

	"github.com/emberindex/ember/format"
)

// FilterKind identifies which shape a facet filter descriptor takes.
type FilterKind uint8

const (
	FilterInert FilterKind = iota
	FilterIntRange
	FilterFloatRange
	FilterStringSet
	FilterGeo
)

// Filter is one sparse per-facet filter descriptor (spec.md §4.10).
type Filter struct {
	Kind FilterKind

	IntMin, IntMax     uint64
	FloatMin, FloatMax float64
	StringIDs          map[uint16]struct{}

	GeoLat, GeoLon float64
	GeoDistance    float64 // in the same unit as equirectangular distance below
	MortonMin      uint64
	MortonMax      uint64
}

// Store is the fixed-size-per-doc memory-mapped facet value array: for
// each docid, the concatenation of every facet's fixed-width bytes at a
// known offset.
type Store struct {
	data       []byte
	docStride  int
	offsets    []int
	valueTypes []format.FacetValueType
}

// NewStore builds a facet Store view over data, given each facet's byte
// offset within a document's record and its value type.
func NewStore(data []byte, offsets []int, valueTypes []format.FacetValueType) *Store {
	stride := 0
	for i, off := range offsets {
		end := off + valueTypes[i].ByteWidth()
		if end > stride {
			stride = end
		}
	}

	return &Store{data: data, docStride: stride, offsets: offsets, valueTypes: valueTypes}
}

func (s *Store) recordBytes(docID uint32) []byte {
	start := int(docID) * s.docStride

	return s.data[start : start+s.docStride]
}

// ReadUint reads an integral facet value for docID.
func (s *Store) ReadUint(docID uint32, facetID int) uint64 {
	rec := s.recordBytes(docID)
	off := s.offsets[facetID]
	width := s.valueTypes[facetID].ByteWidth()

	var v uint64
	for i := 0; i < width; i++ {
		v |= uint64(rec[off+i]) << uint(8*i)
	}

	return v
}

// ReadFloat reads an f32/f64 facet value for docID.
func (s *Store) ReadFloat(docID uint32, facetID int) float64 {
	rec := s.recordBytes(docID)
	off := s.offsets[facetID]

	switch s.valueTypes[facetID] {
	case format.FacetF32:
		bits := binary.LittleEndian.Uint32(rec[off : off+4])

		return float64(math.Float32frombits(bits))
	default:
		bits := binary.LittleEndian.Uint64(rec[off : off+8])

		return math.Float64frombits(bits)
	}
}

// ReadGeo reads a Morton-coded geo point facet value for docID.
func (s *Store) ReadGeo(docID uint32, facetID int) uint64 {
	return s.ReadUint(docID, facetID)
}

// ReadStringID reads a string-id facet value for docID.
func (s *Store) ReadStringID(docID uint32, facetID int) uint16 {
	return uint16(s.ReadUint(docID, facetID))
}

// Passes evaluates one filter against docID's facet value, per spec.md
// §4.10: reject if the filter fails, pass through (inert) filters, and —
// per §7's error-handling policy — treat a facet id outside the schema as
// inert rather than an error (that check is the caller's responsibility,
// since Store has no schema awareness).
func Passes(f Filter, s *Store, docID uint32, facetID int) bool {
	switch f.Kind {
	case FilterInert:
		return true

	case FilterIntRange:
		v := s.ReadUint(docID, facetID)

		return v >= f.IntMin && v <= f.IntMax

	case FilterFloatRange:
		v := s.ReadFloat(docID, facetID)

		return v >= f.FloatMin && v <= f.FloatMax

	case FilterStringSet:
		id := s.ReadStringID(docID, facetID)
		_, ok := f.StringIDs[id]

		return ok

	case FilterGeo:
		return passesGeo(f, s, docID, facetID)

	default:
		return true
	}
}

func passesGeo(f Filter, s *Store, docID uint32, facetID int) bool {
	morton := s.ReadGeo(docID, facetID)
	if morton < f.MortonMin || morton > f.MortonMax {
		return false
	}

	lat, lon := decodeMorton(morton)
	dist := equirectangularDistance(f.GeoLat, f.GeoLon, lat, lon)

	return dist <= f.GeoDistance
}
