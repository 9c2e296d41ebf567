package block

import (
	"github.com/emberindex/ember/endian"
	"github.com/emberindex/ember/errs"
)

// EncodeArray serializes an ascending, deduplicated slice of local docids
// as a flat array of little-endian u16 values. This is the compression of
// choice for sparse blocks, where an explicit list is cheaper than a
// bitmap.
func EncodeArray(docids []uint16, engine endian.EndianEngine) []byte {
	b := make([]byte, len(docids)*2)
	for i, d := range docids {
		engine.PutUint16(b[i*2:i*2+2], d)
	}

	return b
}

// DecodeArray parses an Array-compressed block payload back into its
// ascending docid slice.
func DecodeArray(data []byte, engine endian.EndianEngine) ([]uint16, error) {
	if len(data)%2 != 0 {
		return nil, errs.ErrInvalidCompressionTag
	}

	count := len(data) / 2
	docids := make([]uint16, count)
	for i := 0; i < count; i++ {
		docids[i] = engine.Uint16(data[i*2 : i*2+2])
	}

	return docids, nil
}
