package message

import (
	"fmt"

	"github.com/M1tsumi/ZeroProto/errs"
	"github.com/M1tsumi/ZeroProto/format"
	"github.com/M1tsumi/ZeroProto/internal/options"
	"github.com/M1tsumi/ZeroProto/wire"
)

// VectorReader decodes a vector payload: a 4-byte element count followed by
// packed elements.
//
// Fixed-width elements are addressed by arithmetic. For variable-width
// elements (string, bytes, message) the per-element offsets are pre-walked
// once at construction, so the reader is immutable afterwards and safe for
// concurrent use; Get is O(1) for every element type.
type VectorReader struct {
	buf      []byte
	elemTag  format.TypeTag
	count    uint32
	elemSize int      // fixed element width; 0 for variable-width
	offsets  []uint32 // per-element offsets for variable-width elements
	cfg      ReaderConfig
}

// NewVectorReader validates a standalone vector payload and returns a reader
// over it. The payload starts at the count prefix.
func NewVectorReader(payload []byte, elemTag format.TypeTag, opts ...ReaderOption) (*VectorReader, error) {
	var cfg ReaderConfig
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return newVectorReader(payload, elemTag, cfg)
}

func newVectorReader(payload []byte, elemTag format.TypeTag, cfg ReaderConfig) (*VectorReader, error) {
	if elemTag == format.TagVector || !elemTag.Valid() {
		return nil, fmt.Errorf("element tag %s: %w", elemTag, errs.ErrTypeMismatch)
	}

	count, err := wire.DecodeU32(payload, 0)
	if err != nil {
		return nil, errs.ErrTruncated
	}

	vr := &VectorReader{
		buf:     payload,
		elemTag: elemTag,
		count:   count,
		cfg:     cfg,
	}

	if size, ok := elemTag.FixedSize(); ok {
		need := uint64(format.LengthPrefixSize) + uint64(count)*uint64(size)
		if uint64(len(payload)) < need {
			return nil, fmt.Errorf("%d elements need %d bytes, have %d: %w",
				count, need, len(payload), errs.ErrTruncated)
		}

		vr.elemSize = size

		return vr, nil
	}

	// Variable-width elements each carry their own length prefix. Walk the
	// payload once and memoize every element's offset.
	offsets := make([]uint32, count)
	offset := format.LengthPrefixSize

	for i := uint32(0); i < count; i++ {
		length, err := wire.DecodeU32(payload, offset)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, errs.ErrTruncated)
		}

		end := offset + format.LengthPrefixSize + int(length)
		if end > len(payload) {
			return nil, fmt.Errorf("element %d: %w", i, errs.ErrTruncated)
		}

		offsets[i] = uint32(offset) //nolint:gosec
		offset = end
	}

	vr.offsets = offsets

	return vr, nil
}

// Len returns the number of elements in the vector.
func (v *VectorReader) Len() uint32 {
	return v.count
}

// ElementTag returns the vector's element type tag.
func (v *VectorReader) ElementTag() format.TypeTag {
	return v.elemTag
}

// elemOffset returns the byte offset of element i after checking the index
// and the expected element tag.
func (v *VectorReader) elemOffset(i uint32, want format.TypeTag) (int, error) {
	if v.elemTag != want {
		return 0, fmt.Errorf("element tag %s, want %s: %w",
			v.elemTag, want, errs.ErrElementTypeMismatch)
	}

	if i >= v.count {
		return 0, fmt.Errorf("element %d of %d: %w", i, v.count, errs.ErrElementIndexOutOfRange)
	}

	if v.elemSize > 0 {
		return format.LengthPrefixSize + int(i)*v.elemSize, nil
	}

	return int(v.offsets[i]), nil
}

// GetU8 returns element i of a u8 vector.
func (v *VectorReader) GetU8(i uint32) (uint8, error) {
	offset, err := v.elemOffset(i, format.TagU8)
	if err != nil {
		return 0, err
	}

	return wire.DecodeU8(v.buf, offset)
}

// GetU16 returns element i of a u16 vector.
func (v *VectorReader) GetU16(i uint32) (uint16, error) {
	offset, err := v.elemOffset(i, format.TagU16)
	if err != nil {
		return 0, err
	}

	return wire.DecodeU16(v.buf, offset)
}

// GetU32 returns element i of a u32 vector.
func (v *VectorReader) GetU32(i uint32) (uint32, error) {
	offset, err := v.elemOffset(i, format.TagU32)
	if err != nil {
		return 0, err
	}

	return wire.DecodeU32(v.buf, offset)
}

// GetU64 returns element i of a u64 vector.
func (v *VectorReader) GetU64(i uint32) (uint64, error) {
	offset, err := v.elemOffset(i, format.TagU64)
	if err != nil {
		return 0, err
	}

	return wire.DecodeU64(v.buf, offset)
}

// GetI8 returns element i of an i8 vector.
func (v *VectorReader) GetI8(i uint32) (int8, error) {
	offset, err := v.elemOffset(i, format.TagI8)
	if err != nil {
		return 0, err
	}

	return wire.DecodeI8(v.buf, offset)
}

// GetI16 returns element i of an i16 vector.
func (v *VectorReader) GetI16(i uint32) (int16, error) {
	offset, err := v.elemOffset(i, format.TagI16)
	if err != nil {
		return 0, err
	}

	return wire.DecodeI16(v.buf, offset)
}

// GetI32 returns element i of an i32 vector.
func (v *VectorReader) GetI32(i uint32) (int32, error) {
	offset, err := v.elemOffset(i, format.TagI32)
	if err != nil {
		return 0, err
	}

	return wire.DecodeI32(v.buf, offset)
}

// GetI64 returns element i of an i64 vector.
func (v *VectorReader) GetI64(i uint32) (int64, error) {
	offset, err := v.elemOffset(i, format.TagI64)
	if err != nil {
		return 0, err
	}

	return wire.DecodeI64(v.buf, offset)
}

// GetF32 returns element i of an f32 vector.
func (v *VectorReader) GetF32(i uint32) (float32, error) {
	offset, err := v.elemOffset(i, format.TagF32)
	if err != nil {
		return 0, err
	}

	return wire.DecodeF32(v.buf, offset)
}

// GetF64 returns element i of an f64 vector.
func (v *VectorReader) GetF64(i uint32) (float64, error) {
	offset, err := v.elemOffset(i, format.TagF64)
	if err != nil {
		return 0, err
	}

	return wire.DecodeF64(v.buf, offset)
}

// GetBool returns element i of a bool vector.
func (v *VectorReader) GetBool(i uint32) (bool, error) {
	offset, err := v.elemOffset(i, format.TagBool)
	if err != nil {
		return false, err
	}

	return wire.DecodeBool(v.buf, offset, v.cfg.StrictBool)
}

// GetString returns element i of a string vector. The string aliases the
// underlying buffer.
func (v *VectorReader) GetString(i uint32) (string, error) {
	offset, err := v.elemOffset(i, format.TagString)
	if err != nil {
		return "", err
	}

	return wire.DecodeString(v.buf, offset)
}

// GetBytes returns element i of a bytes vector as a sub-slice of the
// underlying buffer.
func (v *VectorReader) GetBytes(i uint32) ([]byte, error) {
	offset, err := v.elemOffset(i, format.TagBytes)
	if err != nil {
		return nil, err
	}

	return wire.DecodeVarLen(v.buf, offset)
}

// GetMessage returns a Reader over the nested message image at element i.
func (v *VectorReader) GetMessage(i uint32) (*Reader, error) {
	offset, err := v.elemOffset(i, format.TagMsg)
	if err != nil {
		return nil, err
	}

	inner, err := wire.DecodeVarLen(v.buf, offset)
	if err != nil {
		return nil, fmt.Errorf("element %d: %w", i, errs.ErrTruncated)
	}

	nested, err := newReader(inner, v.cfg)
	if err != nil {
		return nil, fmt.Errorf("nested message at element %d: %w", i, err)
	}

	return nested, nil
}
