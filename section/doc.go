// Package section defines the fixed-size binary structures that make up
// index.bin (spec.md §6): the file header, the per-level header, and the
// per-block key head table entry. These are the structural foundation
// everything else — block, posting, segment — is built on.
//
// # On-disk layout
//
//	index.bin:
//	  FileHeader (4 bytes): {major_version u16, minor_version u16}
//	  manifest (12 bytes): {level_count u32, indexed_field_count u32,
//	                        segment_count u32}
//	  level 0:
//	    LevelHeader (LongestFieldID, per-field doc-length tables,
//	                 indexed_doc_count, positions_sum_normalized,
//	                 per-segment {block_length, key_count})
//	    segment[0] block bytes
//	    segment[1] block bytes
//	    ...
//	  level 1:
//	    LevelHeader (no LongestFieldID)
//	    segment[0] block bytes
//	    ...
//
// Each segment's block bytes at a level follow the block layout from
// spec.md §3: a key head table (KeyHeadEntry, 24 bytes per term present in
// the block), a rank-position-pointer table, positions records, and the
// compressed docid payload — the last three owned by the codec and block
// packages, not this one.
package section
