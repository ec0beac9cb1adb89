package message

import (
	"fmt"

	"github.com/M1tsumi/ZeroProto/errs"
	"github.com/M1tsumi/ZeroProto/format"
	"github.com/M1tsumi/ZeroProto/internal/pool"
	"github.com/M1tsumi/ZeroProto/wire"
)

// VectorBuilder accumulates vector elements and emits a vector payload:
// a 4-byte element count followed by the packed element bytes.
//
// The builder is append-only and enforces the declared element type on every
// append. Element bytes accumulate in a pooled scratch buffer that is
// released by Finish or Reset.
type VectorBuilder struct {
	elemTag format.TypeTag
	buf     *pool.ByteBuffer
	count   uint32
}

// NewVectorBuilder creates a vector builder for the given element type.
// Vector elements may not themselves be vectors.
func NewVectorBuilder(elemTag format.TypeTag) (*VectorBuilder, error) {
	if elemTag == format.TagVector || !elemTag.Valid() {
		return nil, fmt.Errorf("element tag %s: %w", elemTag, errs.ErrElementTypeMismatch)
	}

	return &VectorBuilder{
		elemTag: elemTag,
		buf:     pool.GetImageBuffer(),
	}, nil
}

// Len returns the number of elements appended so far.
func (v *VectorBuilder) Len() uint32 {
	return v.count
}

// ElementTag returns the declared element type tag.
func (v *VectorBuilder) ElementTag() format.TypeTag {
	return v.elemTag
}

func (v *VectorBuilder) checkTag(want format.TypeTag) error {
	if v.elemTag != want {
		return fmt.Errorf("append %s to %s vector: %w", want, v.elemTag, errs.ErrElementTypeMismatch)
	}

	return nil
}

func (v *VectorBuilder) appendRaw(data []byte) error {
	newSize := uint64(format.LengthPrefixSize) + uint64(v.buf.Len()) + uint64(len(data))
	if newSize > format.MaxImageSize {
		return fmt.Errorf("vector would reach %d bytes: %w", newSize, errs.ErrMessageTooLarge)
	}

	v.buf.Grow(len(data))
	v.buf.MustWrite(data)
	v.count++

	return nil
}

// AppendU8 appends a u8 element.
func (v *VectorBuilder) AppendU8(val uint8) error {
	if err := v.checkTag(format.TagU8); err != nil {
		return err
	}

	return v.appendRaw(wire.AppendU8(nil, val))
}

// AppendU16 appends a u16 element.
func (v *VectorBuilder) AppendU16(val uint16) error {
	if err := v.checkTag(format.TagU16); err != nil {
		return err
	}

	return v.appendRaw(wire.AppendU16(nil, val))
}

// AppendU32 appends a u32 element.
func (v *VectorBuilder) AppendU32(val uint32) error {
	if err := v.checkTag(format.TagU32); err != nil {
		return err
	}

	return v.appendRaw(wire.AppendU32(nil, val))
}

// AppendU64 appends a u64 element.
func (v *VectorBuilder) AppendU64(val uint64) error {
	if err := v.checkTag(format.TagU64); err != nil {
		return err
	}

	return v.appendRaw(wire.AppendU64(nil, val))
}

// AppendI8 appends an i8 element.
func (v *VectorBuilder) AppendI8(val int8) error {
	if err := v.checkTag(format.TagI8); err != nil {
		return err
	}

	return v.appendRaw(wire.AppendI8(nil, val))
}

// AppendI16 appends an i16 element.
func (v *VectorBuilder) AppendI16(val int16) error {
	if err := v.checkTag(format.TagI16); err != nil {
		return err
	}

	return v.appendRaw(wire.AppendI16(nil, val))
}

// AppendI32 appends an i32 element.
func (v *VectorBuilder) AppendI32(val int32) error {
	if err := v.checkTag(format.TagI32); err != nil {
		return err
	}

	return v.appendRaw(wire.AppendI32(nil, val))
}

// AppendI64 appends an i64 element.
func (v *VectorBuilder) AppendI64(val int64) error {
	if err := v.checkTag(format.TagI64); err != nil {
		return err
	}

	return v.appendRaw(wire.AppendI64(nil, val))
}

// AppendF32 appends an f32 element.
func (v *VectorBuilder) AppendF32(val float32) error {
	if err := v.checkTag(format.TagF32); err != nil {
		return err
	}

	return v.appendRaw(wire.AppendF32(nil, val))
}

// AppendF64 appends an f64 element.
func (v *VectorBuilder) AppendF64(val float64) error {
	if err := v.checkTag(format.TagF64); err != nil {
		return err
	}

	return v.appendRaw(wire.AppendF64(nil, val))
}

// AppendBool appends a bool element.
func (v *VectorBuilder) AppendBool(val bool) error {
	if err := v.checkTag(format.TagBool); err != nil {
		return err
	}

	return v.appendRaw(wire.AppendBool(nil, val))
}

// AppendString appends a string element with its own length prefix.
func (v *VectorBuilder) AppendString(val string) error {
	if err := v.checkTag(format.TagString); err != nil {
		return err
	}

	return v.appendRaw(wire.AppendVarLen(nil, []byte(val)))
}

// AppendBytes appends a bytes element with its own length prefix.
func (v *VectorBuilder) AppendBytes(val []byte) error {
	if err := v.checkTag(format.TagBytes); err != nil {
		return err
	}

	return v.appendRaw(wire.AppendVarLen(nil, val))
}

// AppendMessage appends a finalized nested message image as an element.
func (v *VectorBuilder) AppendMessage(image []byte) error {
	if err := v.checkTag(format.TagMsg); err != nil {
		return err
	}

	return v.appendRaw(wire.AppendVarLen(nil, image))
}

// Finish emits the vector payload (count prefix plus packed elements),
// releases the scratch buffer, and consumes the builder.
func (v *VectorBuilder) Finish() ([]byte, error) {
	if v.buf == nil {
		return nil, fmt.Errorf("vector builder already finished: %w", errs.ErrElementTypeMismatch)
	}

	payload := make([]byte, 0, format.LengthPrefixSize+v.buf.Len())
	payload = wire.AppendU32(payload, v.count)
	payload = append(payload, v.buf.Bytes()...)

	v.release()

	return payload, nil
}

// Reset releases the scratch buffer without emitting anything. The builder
// must not be used afterwards.
func (v *VectorBuilder) Reset() {
	v.release()
}

func (v *VectorBuilder) release() {
	if v.buf != nil {
		pool.PutImageBuffer(v.buf)
		v.buf = nil
	}
	v.count = 0
}
