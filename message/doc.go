// Package message implements the zeroproto message engine: the Reader and
// Builder state machines that decode and produce message images, and the
// VectorReader/VectorBuilder pair for repeated fields.
//
// # Image layout
//
// A message image is:
//
//	[2-byte field count][5-byte table entry × count][payloads...]
//
// Each table entry is a 1-byte type tag followed by a 4-byte little-endian
// absolute offset into the image. Offsets are strictly increasing and every
// offset points past the end of the field table.
//
// # Zero-copy reads
//
// Reader validates the header and field table eagerly at construction, then
// decodes payloads lazily on access. String, bytes, and nested-message
// accessors return sub-slices of the input buffer: no payload byte is ever
// copied. Returned slices and strings are invalidated when the caller frees
// or mutates the underlying buffer.
//
// # Building
//
//	b, _ := message.NewBuilder()
//	b.SetU64(0, 12345)
//	b.SetString(1, "Alice")
//	b.SetU8(2, 30)
//	image, err := b.Finish()
//
// Finish emits the header, the field table with computed offsets, and the
// payloads in field-index order, then resets the builder.
//
// # Concurrency
//
// A Reader (and any VectorReader obtained from it) is immutable after
// construction and safe for concurrent use. Builders are single-goroutine
// objects.
package message
