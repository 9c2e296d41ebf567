// Package exec implements the block-at-a-time merge kernels spec.md §4.4
// through §4.7 describe: block-id alignment across a query's posting
// lists, the cross-compression docid intersection kernels, the three
// union strategies, and NOT-filter probing.
//
// Three primary kernels operate directly on their compressed
// representation, matching spec.md §4.5's word-at-a-time contract:
// Array×Array (galloping two-cursor merge), Array×Bitmap (bit probe with
// running population count), and Bitmap×Bitmap (word-wise AND with
// tzcnt/blsr iteration). Every other compression pairing — RLE and Delta
// on either side — is served by decoding both operands to their ascending
// docid slice via the block package and merging generically; spec.md §9
// explicitly allows deriving the non-primary kernels this way ("derive
// the remaining via pointer swap where semantics permit"), and RLE/Delta
// blocks are rare enough in practice (they only arise for highly
// contiguous or merge-produced docid sets) that the decode cost is not on
// the hot path the specialized kernels exist for.
package exec
