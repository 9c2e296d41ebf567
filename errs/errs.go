// Package errs collects the sentinel errors returned throughout ember.
//
// Callers should compare with errors.Is against the values in this package
// rather than matching on error strings.
package errs

import "errors"

var (
	// ErrInvalidHeaderSize is returned when a header byte slice is not
	// exactly the expected fixed size.
	ErrInvalidHeaderSize = errors.New("ember: invalid header size")
	// ErrInvalidHeaderFlags is returned when a parsed header's flag bits
	// do not correspond to a known magic number, encoding, or compression.
	ErrInvalidHeaderFlags = errors.New("ember: invalid header flags")
	// ErrMajorVersionMismatch is returned when index.bin's major version
	// does not match the library's INDEX_FORMAT_VERSION_MAJOR. Minor
	// version differences are accepted for forward-compatible reads.
	ErrMajorVersionMismatch = errors.New("ember: index major version mismatch")
	// ErrInvalidIndexEntrySize is returned when a block index entry or
	// posting list index entry byte slice is shorter than its fixed size.
	ErrInvalidIndexEntrySize = errors.New("ember: invalid index entry size")

	// ErrMissingSchema is returned when schema.json cannot be found or
	// parsed while opening an index directory.
	ErrMissingSchema = errors.New("ember: missing or unreadable schema.json")
	// ErrMissingMeta is returned when index.json cannot be found or
	// parsed while opening an index directory.
	ErrMissingMeta = errors.New("ember: missing or unreadable index.json")
	// ErrNotWritable reports that an index directory cannot be created or
	// written to. No function in this module returns it.
	ErrNotWritable = errors.New("ember: index directory is not writable")
	// ErrIndexClosed is returned when an operation is attempted on an
	// index that has already been closed.
	ErrIndexClosed = errors.New("ember: index is closed")

	// ErrUnknownField is returned when a schema operation references a
	// field name that has not been registered. collision.Tracker.Track
	// also returns it for an empty term.
	ErrUnknownField = errors.New("ember: unknown field")
	// ErrTooManyFields is returned when the schema would exceed the
	// maximum number of indexed fields addressable by the field-id bit
	// width reserved in embedded pointers.
	ErrTooManyFields = errors.New("ember: too many indexed fields")

	// ErrBlockFull is returned internally when a block has already
	// reached ROARING_BLOCK_SIZE candidate docids and cannot accept
	// another document without a commit.
	ErrBlockFull = errors.New("ember: block is full")
	// ErrInvalidCompressionTag is returned when a block's compression
	// tag byte does not correspond to Delta/Array/Bitmap/RLE. Search
	// passes it on to its caller: a block whose docid payload cannot be
	// decoded fails the query.
	ErrInvalidCompressionTag = errors.New("ember: invalid block compression tag")
	// ErrInvalidPointerTag is returned when a rank-position pointer's
	// leading bit pattern does not match a known embedded/indirect case.
	// Search handles it by logging and degrading the single affected
	// posting to zero positions, never by failing the whole query.
	ErrInvalidPointerTag = errors.New("ember: invalid rank-position pointer tag")
	// ErrTooManyPositions is returned when a variable-byte position has no
	// stop bit within its maximum of 3 bytes.
	ErrTooManyPositions = errors.New("ember: too many positions for term")

	// ErrEmptyQuery is returned when a query string tokenizes to zero terms.
	ErrEmptyQuery = errors.New("ember: empty query")
	// ErrInvalidQueryType is returned for an unrecognized default query type.
	ErrInvalidQueryType = errors.New("ember: invalid default query type")

	// ErrSegmentCountNotPowerOfTwo is returned when an index is configured
	// with a segment count that is not a power of two, or exceeds the
	// 2048 segment cap.
	ErrSegmentCountNotPowerOfTwo = errors.New("ember: segment count must be a power of two no greater than 2048")
)
