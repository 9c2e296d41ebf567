// Package block implements the four docid compression kernels a posting
// list block can use (spec.md §3): Array, Bitmap, RLE, and Delta. Each
// kernel encodes a sorted, deduplicated slice of local docids (0..65535,
// relative to the block's RoaringBlockSize window) into a compact byte
// payload, and decodes that payload back.
//
// ChooseTag picks among the four per spec.md's cardinality/run-length
// invariants; callers that already know which kernel they want (e.g. a
// merge kernel preserving the operand's representation) can call the
// per-kernel Encode/Decode functions directly.
package block
