package block

import (
	"github.com/emberindex/ember/endian"
	"github.com/emberindex/ember/errs"
)

// EncodeRLE serializes docids as a run-length encoding: a u16 run count,
// followed by that many (start, length) u16 pairs. Used when docids form
// long contiguous stretches (e.g. a bulk-imported range of sequential
// document ids).
func EncodeRLE(docids []uint16, engine endian.EndianEngine) []byte {
	runs := toRuns(docids)

	b := make([]byte, 2+len(runs)*4)
	engine.PutUint16(b[0:2], uint16(len(runs)))
	off := 2
	for _, r := range runs {
		engine.PutUint16(b[off:off+2], r.start)
		engine.PutUint16(b[off+2:off+4], r.length)
		off += 4
	}

	return b
}

// DecodeRLE parses an RLE-compressed block payload back into its
// ascending docid slice.
func DecodeRLE(data []byte, engine endian.EndianEngine) ([]uint16, error) {
	if len(data) < 2 {
		return nil, errs.ErrInvalidCompressionTag
	}

	runCount := int(engine.Uint16(data[0:2]))
	if len(data) < 2+runCount*4 {
		return nil, errs.ErrInvalidCompressionTag
	}

	docids := make([]uint16, 0, runCount)
	off := 2
	for i := 0; i < runCount; i++ {
		start := engine.Uint16(data[off : off+2])
		length := engine.Uint16(data[off+2 : off+4])
		for d := uint32(start); d < uint32(start)+uint32(length); d++ {
			docids = append(docids, uint16(d))
		}
		off += 4
	}

	return docids, nil
}

type run struct {
	start  uint16
	length uint16
}

// toRuns collapses an ascending docid slice into contiguous runs.
func toRuns(docids []uint16) []run {
	if len(docids) == 0 {
		return nil
	}

	runs := make([]run, 0)
	start := docids[0]
	prev := docids[0]
	for _, d := range docids[1:] {
		if d == prev+1 {
			prev = d
			continue
		}
		runs = append(runs, run{start: start, length: prev - start + 1})
		start = d
		prev = d
	}
	runs = append(runs, run{start: start, length: prev - start + 1})

	return runs
}

// RunCount returns the number of runs an ascending docid slice would
// collapse to, used by ChooseTag without allocating the run slice.
func RunCount(docids []uint16) int {
	if len(docids) == 0 {
		return 0
	}

	count := 1
	prev := docids[0]
	for _, d := range docids[1:] {
		if d != prev+1 {
			count++
		}
		prev = d
	}

	return count
}
