// Package format defines the wire-level type tags and layout constants shared
// by the codec, the message engine, and the schema compiler.
//
// The tag table is the single source of truth for both runtime decoding and
// generated code: the compiler burns these values into emitted readers and
// builders, so reordering or renumbering them is a wire-format break.
package format

// TypeTag identifies the wire encoding of a field payload.
type TypeTag uint8

const (
	TagU8     TypeTag = 0  // 1 byte
	TagU16    TypeTag = 1  // 2 bytes little-endian
	TagU32    TypeTag = 2  // 4 bytes little-endian
	TagU64    TypeTag = 3  // 8 bytes little-endian
	TagI8     TypeTag = 4  // 1 byte two's complement
	TagI16    TypeTag = 5  // 2 bytes two's complement little-endian
	TagI32    TypeTag = 6  // 4 bytes two's complement little-endian
	TagI64    TypeTag = 7  // 8 bytes two's complement little-endian
	TagF32    TypeTag = 8  // IEEE-754 binary32 little-endian
	TagF64    TypeTag = 9  // IEEE-754 binary64 little-endian
	TagBool   TypeTag = 10 // 1 byte; 0 = false, non-zero = true
	TagString TypeTag = 11 // 4-byte length prefix + UTF-8 bytes
	TagBytes  TypeTag = 12 // 4-byte length prefix + raw bytes
	TagMsg    TypeTag = 13 // 4-byte length prefix + nested image
	TagVector TypeTag = 14 // 4-byte count prefix + packed elements

	// TagCount is the number of defined type tags. Any tag >= TagCount on
	// the wire is rejected with a type mismatch.
	TagCount = 15
)

const (
	// HeaderSize is the fixed size of the message header (16-bit field count).
	HeaderSize = 2

	// EntrySize is the size of one field-table entry: a 1-byte type tag
	// followed by a 4-byte little-endian absolute offset.
	EntrySize = 5

	// LengthPrefixSize is the size of the length/count prefix carried by
	// string, bytes, message, and vector payloads.
	LengthPrefixSize = 4

	// MaxFieldCount is the maximum number of fields in one message image.
	MaxFieldCount = 65535

	// MaxImageSize is the maximum size of a message image. Offsets are
	// 32-bit, so nothing in an image may live past this boundary.
	MaxImageSize = 1<<32 - 1
)

// Valid reports whether t is one of the defined type tags.
func (t TypeTag) Valid() bool {
	return t < TagCount
}

// FixedSize returns the payload size of a fixed-width tag and true, or
// (0, false) for variable-width tags (string, bytes, message, vector).
func (t TypeTag) FixedSize() (int, bool) {
	switch t {
	case TagU8, TagI8, TagBool:
		return 1, true
	case TagU16, TagI16:
		return 2, true
	case TagU32, TagI32, TagF32:
		return 4, true
	case TagU64, TagI64, TagF64:
		return 8, true
	default:
		return 0, false
	}
}

// IsScalar reports whether t is a fixed-width scalar tag.
func (t TypeTag) IsScalar() bool {
	_, ok := t.FixedSize()
	return ok
}

// IsVarLen reports whether t carries a 4-byte length or count prefix.
func (t TypeTag) IsVarLen() bool {
	switch t {
	case TagString, TagBytes, TagMsg, TagVector:
		return true
	default:
		return false
	}
}

func (t TypeTag) String() string {
	switch t {
	case TagU8:
		return "u8"
	case TagU16:
		return "u16"
	case TagU32:
		return "u32"
	case TagU64:
		return "u64"
	case TagI8:
		return "i8"
	case TagI16:
		return "i16"
	case TagI32:
		return "i32"
	case TagI64:
		return "i64"
	case TagF32:
		return "f32"
	case TagF64:
		return "f64"
	case TagBool:
		return "bool"
	case TagString:
		return "string"
	case TagBytes:
		return "bytes"
	case TagMsg:
		return "message"
	case TagVector:
		return "vector"
	default:
		return "Unknown"
	}
}
