package block

import "github.com/emberindex/ember/endian"

// defaultEngine is the byte order used for every on-disk integer in a
// block payload. index.bin is always little-endian regardless of host
// architecture, matching the convention set in section.FileHeader.
func defaultEngine() endian.EndianEngine {
	return endian.GetLittleEndianEngine()
}
