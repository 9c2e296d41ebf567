package codec

import "github.com/emberindex/ember/errs"

// FieldCount is one (field_id, term-frequency) pair in a multi-field
// posting's count list.
type FieldCount struct {
	FieldID uint16
	Count   uint32
}

// EncodeFieldCounts packs a list of per-field counts, one record per
// field the term occurs in within a document, terminated by a final-record
// marker on the last entry (spec.md §4.1).
//
// Each record is a little-endian chunk stream like EncodePosition's, with
// (field_id << countBits | count) as the packed value, 5 payload bits in
// the first byte and 7 in every continuation byte. Bit 7 of every byte is
// the byte-continuation stop-bit (0 continues, 1 is the final byte of this
// record's value). Bit 6 of the first byte is the end-of-list marker: set
// only on the last record.
func EncodeFieldCounts(fields []FieldCount, countBits int) []byte {
	out := make([]byte, 0, len(fields)*2)
	for i, f := range fields {
		packed := uint64(f.FieldID)<<uint(countBits) | uint64(f.Count)
		last := i == len(fields)-1
		out = append(out, encodeFieldCountRecord(packed, last)...)
	}

	return out
}

func encodeFieldCountRecord(packed uint64, endOfList bool) []byte {
	endBit := byte(0)
	if endOfList {
		endBit = 0x40
	}

	first := byte(packed & 0x1F)
	packed >>= 5
	if packed == 0 {
		return []byte{first | endBit | 0x80}
	}

	bytes := []byte{first | endBit}
	for packed != 0 {
		chunk := byte(packed & 0x7F)
		packed >>= 7
		if packed == 0 {
			bytes = append(bytes, chunk|0x80)
		} else {
			bytes = append(bytes, chunk)
		}
	}

	return bytes
}

// DecodeFieldCounts parses a field-count record stream from the start of
// data, returning all records (in the order written) and the number of
// bytes consumed.
func DecodeFieldCounts(data []byte, countBits int) ([]FieldCount, int, error) {
	var records []FieldCount
	off := 0
	for {
		if off >= len(data) {
			return nil, 0, errs.ErrInvalidPointerTag
		}

		first := data[off]
		endOfList := first&0x40 != 0
		packed := uint64(first & 0x1F)
		shift := uint(5)
		consumed := 1

		if first&0x80 == 0 {
			for {
				if off+consumed >= len(data) {
					return nil, 0, errs.ErrInvalidPointerTag
				}
				b := data[off+consumed]
				packed |= uint64(b&0x7F) << shift
				shift += 7
				consumed++
				if b&0x80 != 0 {
					break
				}
			}
		}

		countMask := uint64(1)<<uint(countBits) - 1
		records = append(records, FieldCount{
			FieldID: uint16(packed >> uint(countBits)),
			Count:   uint32(packed & countMask),
		})

		off += consumed
		if endOfList {
			break
		}
	}

	return records, off, nil
}
