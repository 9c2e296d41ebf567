// Package compress provides compression and decompression codecs used for
// ember's off-hot-path byte payloads: docstore.bin's stored document
// blobs, and the optional positions-record compression for very large
// posting lists.
//
// It deliberately has nothing to do with the per-block docid compression
// (Array/Bitmap/RLE/Delta) described in spec.md §3 — that is a structural
// choice made by the block package based on cardinality, not a
// general-purpose byte compressor. This package is the general-purpose
// byte compressor, applied after a payload has already been serialized.
//
// # Supported algorithms
//
//   - None: no compression, used for payloads compression would not help
//   - Zstd: best ratio, used by default for docstore document blobs
//   - S2: balanced ratio/speed, a faster alternative for hot-path blobs
//   - LZ4: fastest decompression, selectable per index for read-heavy stores
//
// # Architecture
//
//	type Compressor interface {
//	    Compress(data []byte) ([]byte, error)
//	}
//
//	type Decompressor interface {
//	    Decompress(data []byte) ([]byte, error)
//	}
//
//	type Codec interface {
//	    Compressor
//	    Decompressor
//	}
//
// CreateCodec and GetCodec construct/retrieve a Codec from a
// format.CompressionType so the docstore package can round-trip the
// algorithm recorded in a blob's header without a type switch at every
// call site.
package compress
