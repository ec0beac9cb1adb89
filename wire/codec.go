// Package wire implements the stateless codec for the zeroproto wire format.
//
// It translates between typed values and their little-endian byte encodings,
// and between field descriptors and their 5-byte field-table entries. The
// package is the lowest layer of the runtime: it depends only on a byte
// buffer and performs no allocation on the decode path. Decoded string and
// byte payloads are sub-slices of the input buffer.
//
// Encoding uses append-style operations so builders can accumulate payloads
// without temporary buffers:
//
//	buf = wire.AppendU64(buf, v)
//	buf = wire.AppendVarLen(buf, data)
//
// Decoding is bounds-checked; a decode that would read past the end of the
// buffer fails with errs.ErrOutOfBounds.
package wire

import (
	"math"
	"unicode/utf8"
	"unsafe"

	"github.com/M1tsumi/ZeroProto/endian"
	"github.com/M1tsumi/ZeroProto/errs"
	"github.com/M1tsumi/ZeroProto/format"
)

// The wire format is little-endian only.
var engine = endian.GetLittleEndianEngine()

// AppendU8 appends the 1-byte encoding of v to dst.
func AppendU8(dst []byte, v uint8) []byte {
	return append(dst, v)
}

// AppendU16 appends the 2-byte little-endian encoding of v to dst.
func AppendU16(dst []byte, v uint16) []byte {
	return engine.AppendUint16(dst, v)
}

// AppendU32 appends the 4-byte little-endian encoding of v to dst.
func AppendU32(dst []byte, v uint32) []byte {
	return engine.AppendUint32(dst, v)
}

// AppendU64 appends the 8-byte little-endian encoding of v to dst.
func AppendU64(dst []byte, v uint64) []byte {
	return engine.AppendUint64(dst, v)
}

// AppendI8 appends the two's complement encoding of v to dst.
func AppendI8(dst []byte, v int8) []byte {
	return append(dst, uint8(v))
}

// AppendI16 appends the 2-byte two's complement encoding of v to dst.
func AppendI16(dst []byte, v int16) []byte {
	return engine.AppendUint16(dst, uint16(v))
}

// AppendI32 appends the 4-byte two's complement encoding of v to dst.
func AppendI32(dst []byte, v int32) []byte {
	return engine.AppendUint32(dst, uint32(v))
}

// AppendI64 appends the 8-byte two's complement encoding of v to dst.
func AppendI64(dst []byte, v int64) []byte {
	return engine.AppendUint64(dst, uint64(v))
}

// AppendF32 appends the IEEE-754 binary32 encoding of v to dst.
func AppendF32(dst []byte, v float32) []byte {
	return engine.AppendUint32(dst, math.Float32bits(v))
}

// AppendF64 appends the IEEE-754 binary64 encoding of v to dst.
func AppendF64(dst []byte, v float64) []byte {
	return engine.AppendUint64(dst, math.Float64bits(v))
}

// AppendBool appends the 1-byte encoding of v to dst. True encodes as 1.
func AppendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}

	return append(dst, 0)
}

// AppendVarLen appends a 4-byte little-endian length prefix followed by data.
// Strings, byte arrays, and nested message images all use this shape.
func AppendVarLen(dst []byte, data []byte) []byte {
	dst = engine.AppendUint32(dst, uint32(len(data))) //nolint:gosec
	return append(dst, data...)
}

// AppendFieldEntry appends a 5-byte field-table entry: the type tag followed
// by the 4-byte little-endian absolute offset of the field's payload.
func AppendFieldEntry(dst []byte, tag format.TypeTag, offset uint32) []byte {
	dst = append(dst, byte(tag))
	return engine.AppendUint32(dst, offset)
}

// DecodeU8 decodes a u8 at offset.
func DecodeU8(buf []byte, offset int) (uint8, error) {
	if err := checkBounds(buf, offset, 1); err != nil {
		return 0, err
	}

	return buf[offset], nil
}

// DecodeU16 decodes a little-endian u16 at offset.
func DecodeU16(buf []byte, offset int) (uint16, error) {
	if err := checkBounds(buf, offset, 2); err != nil {
		return 0, err
	}

	return engine.Uint16(buf[offset : offset+2]), nil
}

// DecodeU32 decodes a little-endian u32 at offset.
func DecodeU32(buf []byte, offset int) (uint32, error) {
	if err := checkBounds(buf, offset, 4); err != nil {
		return 0, err
	}

	return engine.Uint32(buf[offset : offset+4]), nil
}

// DecodeU64 decodes a little-endian u64 at offset.
func DecodeU64(buf []byte, offset int) (uint64, error) {
	if err := checkBounds(buf, offset, 8); err != nil {
		return 0, err
	}

	return engine.Uint64(buf[offset : offset+8]), nil
}

// DecodeI8 decodes a two's complement i8 at offset.
func DecodeI8(buf []byte, offset int) (int8, error) {
	v, err := DecodeU8(buf, offset)
	return int8(v), err
}

// DecodeI16 decodes a two's complement i16 at offset.
func DecodeI16(buf []byte, offset int) (int16, error) {
	v, err := DecodeU16(buf, offset)
	return int16(v), err
}

// DecodeI32 decodes a two's complement i32 at offset.
func DecodeI32(buf []byte, offset int) (int32, error) {
	v, err := DecodeU32(buf, offset)
	return int32(v), err
}

// DecodeI64 decodes a two's complement i64 at offset.
func DecodeI64(buf []byte, offset int) (int64, error) {
	v, err := DecodeU64(buf, offset)
	return int64(v), err
}

// DecodeF32 decodes an IEEE-754 binary32 at offset.
func DecodeF32(buf []byte, offset int) (float32, error) {
	v, err := DecodeU32(buf, offset)
	return math.Float32frombits(v), err
}

// DecodeF64 decodes an IEEE-754 binary64 at offset.
func DecodeF64(buf []byte, offset int) (float64, error) {
	v, err := DecodeU64(buf, offset)
	return math.Float64frombits(v), err
}

// DecodeBool decodes a bool at offset. In non-strict mode any non-zero byte
// is true; in strict mode a byte other than 0 or 1 fails with
// errs.ErrInvalidBool.
func DecodeBool(buf []byte, offset int, strict bool) (bool, error) {
	v, err := DecodeU8(buf, offset)
	if err != nil {
		return false, err
	}

	if strict && v > 1 {
		return false, errs.ErrInvalidBool
	}

	return v != 0, nil
}

// DecodeVarLen decodes a length-prefixed payload at offset and returns the
// data as a sub-slice of buf. No bytes are copied.
func DecodeVarLen(buf []byte, offset int) ([]byte, error) {
	length, err := DecodeU32(buf, offset)
	if err != nil {
		return nil, err
	}

	start := offset + format.LengthPrefixSize
	if err := checkBounds(buf, start, int(length)); err != nil {
		return nil, err
	}

	return buf[start : start+int(length)], nil
}

// DecodeString decodes a length-prefixed UTF-8 string at offset. The returned
// string aliases buf; it is valid only as long as buf is, and buf must not be
// mutated while the string is live.
func DecodeString(buf []byte, offset int) (string, error) {
	data, err := DecodeVarLen(buf, offset)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(data) {
		return "", errs.ErrInvalidUtf8
	}

	return bytesToString(data), nil
}

// DecodeFieldEntry decodes the 5-byte field-table entry at offset.
func DecodeFieldEntry(buf []byte, offset int) (format.TypeTag, uint32, error) {
	if err := checkBounds(buf, offset, format.EntrySize); err != nil {
		return 0, 0, err
	}

	tag := format.TypeTag(buf[offset])
	fieldOffset := engine.Uint32(buf[offset+1 : offset+format.EntrySize])

	return tag, fieldOffset, nil
}

func checkBounds(buf []byte, offset, size int) error {
	if offset < 0 || size < 0 || offset+size > len(buf) {
		return errs.ErrOutOfBounds
	}

	return nil
}

// bytesToString reinterprets b as a string without copying. The result
// aliases b's backing array.
func bytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}

	return unsafe.String(unsafe.SliceData(b), len(b))
}
