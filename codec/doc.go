// Package codec implements the variable-byte position stream (spec.md
// §4.1), the bit-packed multi-field count record, and the embedded-pointer
// rank-position pointer table (spec.md §4.2) that sits between a block's
// key head table and its compressed docid payload.
package codec
