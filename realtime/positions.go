package realtime

import "github.com/emberindex/ember/codec"

// EncodePositions prefixes a field id and position count onto an
// already-ordered position list, so a record can be decoded back into its
// field and positions knowing only its start offset. Both indexRealtime
// (the writer) and the search path (the reader) live in packages that
// already import realtime, so this lives here rather than in index to
// avoid a search -> index import cycle.
func EncodePositions(fieldID uint16, positions []uint32) []byte {
	out := codec.EncodePosition(uint32(fieldID))
	out = append(out, codec.EncodePosition(uint32(len(positions)))...)
	out = append(out, codec.EncodePositions(positions)...)

	return out
}

// DecodePositions reverses EncodePositions.
func DecodePositions(data []byte) (uint16, []uint32, error) {
	fieldID, n1, err := codec.DecodePosition(data)
	if err != nil {
		return 0, nil, err
	}
	count, n2, err := codec.DecodePosition(data[n1:])
	if err != nil {
		return 0, nil, err
	}
	positions, err := codec.DecodePositions(data[n1+n2:], int(count))
	if err != nil {
		return 0, nil, err
	}

	return uint16(fieldID), positions, nil
}
