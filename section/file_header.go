package section

import (
	"github.com/emberindex/ember/endian"
	"github.com/emberindex/ember/errs"
)

// FileHeader is the 4-byte header at the very start of index.bin.
type FileHeader struct {
	MajorVersion uint16
	MinorVersion uint16
}

// NewFileHeader returns the header this library writes for newly created
// indexes: the current format major/minor version.
func NewFileHeader() FileHeader {
	return FileHeader{
		MajorVersion: IndexFormatVersionMajor,
		MinorVersion: IndexFormatVersionMinor,
	}
}

// Bytes serializes the header using little-endian byte order, matching
// the on-disk convention used throughout ember.
func (h FileHeader) Bytes() []byte {
	b := make([]byte, FileHeaderSize)
	engine := endian.GetLittleEndianEngine()
	engine.PutUint16(b[0:2], h.MajorVersion)
	engine.PutUint16(b[2:4], h.MinorVersion)

	return b
}

// ParseFileHeader parses the leading 4 bytes of index.bin and validates
// the major version. A minor version mismatch is accepted (forward
// compatible read); a major version mismatch is rejected per spec.md §6.
func ParseFileHeader(data []byte) (FileHeader, error) {
	if len(data) < FileHeaderSize {
		return FileHeader{}, errs.ErrInvalidHeaderSize
	}

	engine := endian.GetLittleEndianEngine()
	h := FileHeader{
		MajorVersion: engine.Uint16(data[0:2]),
		MinorVersion: engine.Uint16(data[2:4]),
	}

	if h.MajorVersion != IndexFormatVersionMajor {
		return h, errs.ErrMajorVersionMismatch
	}

	return h, nil
}
