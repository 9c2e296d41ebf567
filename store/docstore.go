package store

import (
	"encoding/binary"

	"github.com/emberindex/ember/compress"
	"github.com/emberindex/ember/errs"
	"github.com/emberindex/ember/format"
)

// DocStorePointer locates one document's compressed blob within a level's
// docstore.bin section: {offset, length} into the compressed blob area.
type DocStorePointer struct {
	Offset uint32
	Length uint32
}

// DocStoreLevel is one level's serialized section of docstore.bin:
// docstore_pointer_docs_size u32, a pointer table, and the compressed
// document blobs (spec.md §6). The core treats each document's stored
// fields as an opaque blob; it does not interpret document content
// (spec.md §1 lists the JSON document store as an external collaborator).
type DocStoreLevel struct {
	Pointers []DocStorePointer
	Blobs    []byte
}

// Encode serializes a level's docstore section using codec to compress
// each document blob independently.
func Encode(docs [][]byte, codec compress.Codec) ([]byte, error) {
	pointers := make([]DocStorePointer, len(docs))
	var blobs []byte

	for i, doc := range docs {
		compressed, err := codec.Compress(doc)
		if err != nil {
			return nil, err
		}
		pointers[i] = DocStorePointer{Offset: uint32(len(blobs)), Length: uint32(len(compressed))}
		blobs = append(blobs, compressed...)
	}

	pointerTableSize := len(pointers) * 8
	header := make([]byte, 4+pointerTableSize)
	binary.LittleEndian.PutUint32(header[0:4], uint32(pointerTableSize))
	for i, p := range pointers {
		off := 4 + i*8
		binary.LittleEndian.PutUint32(header[off:off+4], p.Offset)
		binary.LittleEndian.PutUint32(header[off+4:off+8], p.Length)
	}

	return append(header, blobs...), nil
}

// Decode parses a level's docstore section and returns the pointer table
// and blob region, leaving individual blobs compressed until fetched.
func Decode(data []byte) (DocStoreLevel, error) {
	if len(data) < 4 {
		return DocStoreLevel{}, errs.ErrInvalidHeaderSize
	}

	tableSize := binary.LittleEndian.Uint32(data[0:4])
	count := int(tableSize) / 8
	pointers := make([]DocStorePointer, count)
	for i := 0; i < count; i++ {
		off := 4 + i*8
		pointers[i] = DocStorePointer{
			Offset: binary.LittleEndian.Uint32(data[off : off+4]),
			Length: binary.LittleEndian.Uint32(data[off+4 : off+8]),
		}
	}

	blobs := data[4+int(tableSize):]

	return DocStoreLevel{Pointers: pointers, Blobs: blobs}, nil
}

// Fetch decompresses and returns the docIdx-th document in this level.
func (l DocStoreLevel) Fetch(docIdx int, codec compress.Codec) ([]byte, error) {
	p := l.Pointers[docIdx]

	return codec.Decompress(l.Blobs[p.Offset : p.Offset+p.Length])
}

// CodecFor resolves the compress.Codec for a document-store compression
// choice through compress.GetCodec; an unknown choice is an error, with
// no fallback codec.
func CodecFor(t format.CompressionType) (compress.Codec, error) {
	return compress.GetCodec(t)
}
