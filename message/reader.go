package message

import (
	"errors"
	"fmt"

	"github.com/M1tsumi/ZeroProto/errs"
	"github.com/M1tsumi/ZeroProto/format"
	"github.com/M1tsumi/ZeroProto/internal/options"
	"github.com/M1tsumi/ZeroProto/wire"
)

// fieldEntry is one parsed field-table entry.
type fieldEntry struct {
	tag    format.TypeTag
	offset uint32
}

// Reader decodes a message image with zero-copy field access.
//
// The header and field table are validated eagerly by NewReader; payloads are
// decoded lazily on access. After construction the Reader is read-only and
// safe for concurrent use. It holds a reference to the input buffer for its
// whole lifetime, and every slice or string it returns aliases that buffer.
type Reader struct {
	buf     []byte
	entries []fieldEntry
	cfg     ReaderConfig
}

// NewReader validates the header and field table of a message image and
// returns a Reader over it.
//
// Validation enforces the layout predicates of the wire format:
//   - the buffer holds the 2-byte field count (errs.ErrTruncatedHeader)
//   - the buffer holds the whole field table (errs.ErrTruncatedTable)
//   - every offset lies in [table end, image size) and offsets are strictly
//     increasing (errs.ErrMalformedLayout)
//
// Payload bytes are not touched; per-field bounds and type tags are checked
// on access.
func NewReader(buf []byte, opts ...ReaderOption) (*Reader, error) {
	var cfg ReaderConfig
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return newReader(buf, cfg)
}

func newReader(buf []byte, cfg ReaderConfig) (*Reader, error) {
	if len(buf) < format.HeaderSize {
		return nil, errs.ErrTruncatedHeader
	}

	count, err := wire.DecodeU16(buf, 0)
	if err != nil {
		return nil, errs.ErrTruncatedHeader
	}

	tableEnd := format.HeaderSize + int(count)*format.EntrySize
	if len(buf) < tableEnd {
		return nil, fmt.Errorf("field table needs %d bytes, image has %d: %w",
			tableEnd, len(buf), errs.ErrTruncatedTable)
	}

	entries := make([]fieldEntry, count)
	prev := uint32(0)

	for i := range entries {
		tag, offset, err := wire.DecodeFieldEntry(buf, format.HeaderSize+i*format.EntrySize)
		if err != nil {
			return nil, errs.ErrTruncatedTable
		}

		if int(offset) < tableEnd || int(offset) >= len(buf) {
			return nil, fmt.Errorf("field %d offset %d outside payload region: %w",
				i, offset, errs.ErrMalformedLayout)
		}
		if i > 0 && offset <= prev {
			return nil, fmt.Errorf("field %d offset %d not increasing: %w",
				i, offset, errs.ErrMalformedLayout)
		}

		prev = offset
		entries[i] = fieldEntry{tag: tag, offset: offset}
	}

	return &Reader{buf: buf, entries: entries, cfg: cfg}, nil
}

// Count returns the number of fields in the image.
func (r *Reader) Count() uint16 {
	return uint16(len(r.entries)) //nolint:gosec
}

// Has reports whether field index i is present in the image. Optional fields
// omitted by the builder are simply absent from the table.
func (r *Reader) Has(i uint16) bool {
	return int(i) < len(r.entries)
}

// Tag returns the wire type tag of field i.
func (r *Reader) Tag(i uint16) (format.TypeTag, error) {
	entry, err := r.entry(i)
	if err != nil {
		return 0, err
	}

	return entry.tag, nil
}

func (r *Reader) entry(i uint16) (fieldEntry, error) {
	if int(i) >= len(r.entries) {
		return fieldEntry{}, fmt.Errorf("field %d of %d: %w",
			i, len(r.entries), errs.ErrFieldIndexOutOfRange)
	}

	return r.entries[i], nil
}

// fieldOffset returns the payload offset of field i after checking that the
// table tag matches want.
func (r *Reader) fieldOffset(i uint16, want format.TypeTag) (int, error) {
	entry, err := r.entry(i)
	if err != nil {
		return 0, err
	}

	if entry.tag != want {
		return 0, fmt.Errorf("field %d has tag %s, want %s: %w",
			i, entry.tag, want, errs.ErrTypeMismatch)
	}

	return int(entry.offset), nil
}

// fieldEnd returns the exclusive end of field i's payload region: the next
// field's offset, or the image size for the last field.
func (r *Reader) fieldEnd(i uint16) int {
	if int(i)+1 < len(r.entries) {
		return int(r.entries[i+1].offset)
	}

	return len(r.buf)
}

func (r *Reader) truncated(i uint16) error {
	return fmt.Errorf("field %d: %w", i, errs.ErrTruncated)
}

// ReadU8 returns the u8 field at index i.
func (r *Reader) ReadU8(i uint16) (uint8, error) {
	offset, err := r.fieldOffset(i, format.TagU8)
	if err != nil {
		return 0, err
	}

	v, err := wire.DecodeU8(r.buf, offset)
	if err != nil {
		return 0, r.truncated(i)
	}

	return v, nil
}

// ReadU16 returns the u16 field at index i.
func (r *Reader) ReadU16(i uint16) (uint16, error) {
	offset, err := r.fieldOffset(i, format.TagU16)
	if err != nil {
		return 0, err
	}

	v, err := wire.DecodeU16(r.buf, offset)
	if err != nil {
		return 0, r.truncated(i)
	}

	return v, nil
}

// ReadU32 returns the u32 field at index i.
func (r *Reader) ReadU32(i uint16) (uint32, error) {
	offset, err := r.fieldOffset(i, format.TagU32)
	if err != nil {
		return 0, err
	}

	v, err := wire.DecodeU32(r.buf, offset)
	if err != nil {
		return 0, r.truncated(i)
	}

	return v, nil
}

// ReadU64 returns the u64 field at index i.
func (r *Reader) ReadU64(i uint16) (uint64, error) {
	offset, err := r.fieldOffset(i, format.TagU64)
	if err != nil {
		return 0, err
	}

	v, err := wire.DecodeU64(r.buf, offset)
	if err != nil {
		return 0, r.truncated(i)
	}

	return v, nil
}

// ReadI8 returns the i8 field at index i.
func (r *Reader) ReadI8(i uint16) (int8, error) {
	offset, err := r.fieldOffset(i, format.TagI8)
	if err != nil {
		return 0, err
	}

	v, err := wire.DecodeI8(r.buf, offset)
	if err != nil {
		return 0, r.truncated(i)
	}

	return v, nil
}

// ReadI16 returns the i16 field at index i.
func (r *Reader) ReadI16(i uint16) (int16, error) {
	offset, err := r.fieldOffset(i, format.TagI16)
	if err != nil {
		return 0, err
	}

	v, err := wire.DecodeI16(r.buf, offset)
	if err != nil {
		return 0, r.truncated(i)
	}

	return v, nil
}

// ReadI32 returns the i32 field at index i.
func (r *Reader) ReadI32(i uint16) (int32, error) {
	offset, err := r.fieldOffset(i, format.TagI32)
	if err != nil {
		return 0, err
	}

	v, err := wire.DecodeI32(r.buf, offset)
	if err != nil {
		return 0, r.truncated(i)
	}

	return v, nil
}

// ReadI64 returns the i64 field at index i.
func (r *Reader) ReadI64(i uint16) (int64, error) {
	offset, err := r.fieldOffset(i, format.TagI64)
	if err != nil {
		return 0, err
	}

	v, err := wire.DecodeI64(r.buf, offset)
	if err != nil {
		return 0, r.truncated(i)
	}

	return v, nil
}

// ReadF32 returns the f32 field at index i.
func (r *Reader) ReadF32(i uint16) (float32, error) {
	offset, err := r.fieldOffset(i, format.TagF32)
	if err != nil {
		return 0, err
	}

	v, err := wire.DecodeF32(r.buf, offset)
	if err != nil {
		return 0, r.truncated(i)
	}

	return v, nil
}

// ReadF64 returns the f64 field at index i.
func (r *Reader) ReadF64(i uint16) (float64, error) {
	offset, err := r.fieldOffset(i, format.TagF64)
	if err != nil {
		return 0, err
	}

	v, err := wire.DecodeF64(r.buf, offset)
	if err != nil {
		return 0, r.truncated(i)
	}

	return v, nil
}

// ReadBool returns the bool field at index i. With WithStrictBool, payload
// bytes other than 0 and 1 fail with errs.ErrInvalidBool.
func (r *Reader) ReadBool(i uint16) (bool, error) {
	offset, err := r.fieldOffset(i, format.TagBool)
	if err != nil {
		return false, err
	}

	v, err := wire.DecodeBool(r.buf, offset, r.cfg.StrictBool)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidBool) {
			return false, fmt.Errorf("field %d: %w", i, errs.ErrInvalidBool)
		}

		return false, r.truncated(i)
	}

	return v, nil
}

// ReadString returns the string field at index i. The returned string
// aliases the image buffer and is validated as UTF-8.
func (r *Reader) ReadString(i uint16) (string, error) {
	offset, err := r.fieldOffset(i, format.TagString)
	if err != nil {
		return "", err
	}

	s, err := wire.DecodeString(r.buf, offset)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidUtf8) {
			return "", fmt.Errorf("field %d: %w", i, errs.ErrInvalidUtf8)
		}

		return "", r.truncated(i)
	}

	return s, nil
}

// ReadBytes returns the bytes field at index i as a sub-slice of the image
// buffer. The caller must not mutate it.
func (r *Reader) ReadBytes(i uint16) ([]byte, error) {
	offset, err := r.fieldOffset(i, format.TagBytes)
	if err != nil {
		return nil, err
	}

	data, err := wire.DecodeVarLen(r.buf, offset)
	if err != nil {
		return nil, r.truncated(i)
	}

	return data, nil
}

// ReadMessage returns a Reader over the nested message image at index i.
// The nested image is validated the same way a top-level image is, and the
// returned Reader shares this reader's buffer and configuration.
func (r *Reader) ReadMessage(i uint16) (*Reader, error) {
	offset, err := r.fieldOffset(i, format.TagMsg)
	if err != nil {
		return nil, err
	}

	inner, err := wire.DecodeVarLen(r.buf, offset)
	if err != nil {
		return nil, r.truncated(i)
	}

	nested, err := newReader(inner, r.cfg)
	if err != nil {
		return nil, fmt.Errorf("nested message at field %d: %w", i, err)
	}

	return nested, nil
}

// ReadVector returns a VectorReader over the vector field at index i with
// the given element tag. Per-element offsets of variable-width vectors are
// pre-walked eagerly, so the returned VectorReader is immutable.
func (r *Reader) ReadVector(i uint16, elemTag format.TypeTag) (*VectorReader, error) {
	offset, err := r.fieldOffset(i, format.TagVector)
	if err != nil {
		return nil, err
	}

	// The vector's extent ends at the next field's payload (offsets are
	// strictly increasing) or at the end of the image.
	end := r.fieldEnd(i)

	vr, err := newVectorReader(r.buf[offset:end], elemTag, r.cfg)
	if err != nil {
		return nil, fmt.Errorf("vector at field %d: %w", i, err)
	}

	return vr, nil
}
