// Package realtime implements the uncommitted posting tier (spec.md
// §4.11): a linked-list of short records appended into a shared buffer,
// searched the same way as committed blocks and merged into the same
// top-k heap so rankings stay consistent whether or not a document has
// been committed into a block yet.
package realtime

import "github.com/emberindex/ember/errs"

// RecordHeaderSize is the fixed header size of one uncommitted posting
// record: {next_pointer u32, docid u16, positions...}. The positions tail
// is encoded by EncodePositions and appended after the fixed 6-byte
// header.
const RecordHeaderSize = 6

// noNext marks the end of a term's linked list.
const noNext = 0xFFFFFFFF

// Record is one decoded uncommitted posting.
type Record struct {
	Next      uint32
	DocID     uint16
	Positions []byte // still encoded; caller decodes via DecodePositions
}

// Buffer is the shared append-only byte buffer every term's linked list
// of uncommitted records lives in.
type Buffer struct {
	data []byte
	// heads maps a term's key_hash to the byte offset of its most
	// recently appended record (the list's head; walking Next pointers
	// visits older records in reverse append order).
	heads map[uint64]uint32
}

// NewBuffer returns an empty uncommitted buffer.
func NewBuffer() *Buffer {
	return &Buffer{heads: make(map[uint64]uint32)}
}

// Append adds a new record for keyHash, docID and already-encoded
// positions, linking it in front of the term's existing head.
func (b *Buffer) Append(keyHash uint64, docID uint16, positions []byte) uint32 {
	next, ok := b.heads[keyHash]
	if !ok {
		next = noNext
	}

	offset := uint32(len(b.data))
	rec := make([]byte, RecordHeaderSize+len(positions))
	putUint32(rec[0:4], next)
	putUint16(rec[4:6], docID)
	copy(rec[6:], positions)

	b.data = append(b.data, rec...)
	b.heads[keyHash] = offset

	return offset
}

// Head returns the byte offset of keyHash's most recent record, if any.
func (b *Buffer) Head(keyHash uint64) (uint32, bool) {
	off, ok := b.heads[keyHash]

	return off, ok
}

// ReadAt decodes the record at byte offset off. positionsLen must be
// supplied by the caller (it tracks it separately, e.g. from a parallel
// term frequency count at append time) since the buffer has no way to
// know where one record's positions end without it.
func (b *Buffer) ReadAt(off uint32, positionsLen int) (Record, error) {
	if int(off)+RecordHeaderSize+positionsLen > len(b.data) {
		return Record{}, errs.ErrInvalidIndexEntrySize
	}

	rec := b.data[off:]

	return Record{
		Next:      getUint32(rec[0:4]),
		DocID:     getUint16(rec[4:6]),
		Positions: rec[6 : 6+positionsLen],
	}, nil
}

// Walk invokes fn for every record in keyHash's linked list, most recent
// first, until fn returns false or the list is exhausted.
func (b *Buffer) Walk(keyHash uint64, positionsLen func(off uint32) int, fn func(Record) bool) error {
	off, ok := b.Head(keyHash)
	if !ok {
		return nil
	}

	for off != noNext {
		rec, err := b.ReadAt(off, positionsLen(off))
		if err != nil {
			return err
		}
		if !fn(rec) {
			return nil
		}
		off = rec.Next
	}

	return nil
}

// Reset clears the buffer, used when a commit moves every uncommitted
// posting into a new immutable block.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
	b.heads = make(map[uint64]uint32)
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putUint16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func getUint16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}
