package message

import (
	"fmt"

	"github.com/M1tsumi/ZeroProto/errs"
	"github.com/M1tsumi/ZeroProto/format"
	"github.com/M1tsumi/ZeroProto/internal/options"
	"github.com/M1tsumi/ZeroProto/wire"
)

// builderField is one pending field record: the wire tag and the fully
// encoded payload (including the length prefix for variable-width types).
type builderField struct {
	set     bool
	tag     format.TypeTag
	payload []byte
}

// Builder accumulates field payloads and emits a message image.
//
// Fields are addressed by index and may be set in any order. Setting the
// same index twice overwrites the earlier value unless WithStrictDuplicates
// is configured. Gaps in the set indices are rejected by Finish with
// errs.ErrSparseFields unless WithAllowSparse permits them (optional-field
// schemas).
//
// A Builder must not be used from multiple goroutines.
type Builder struct {
	cfg         BuilderConfig
	fields      []builderField
	setCount    int
	payloadSize uint64
}

// NewBuilder creates an empty message builder.
func NewBuilder(opts ...BuilderOption) (*Builder, error) {
	var cfg BuilderConfig
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return &Builder{cfg: cfg}, nil
}

// FieldCount returns the number of distinct field indices set so far.
func (b *Builder) FieldCount() int {
	return b.setCount
}

// setField records the encoded payload for a field index, enforcing the
// duplicate policy and the 32-bit image size ceiling.
func (b *Builder) setField(index uint16, tag format.TypeTag, payload []byte) error {
	if index == format.MaxFieldCount {
		return fmt.Errorf("field index %d: %w", index, errs.ErrFieldCountExceeded)
	}

	if int(index) >= len(b.fields) {
		grown := make([]builderField, int(index)+1)
		copy(grown, b.fields)
		b.fields = grown
	}

	prev := &b.fields[index]
	newPayload := b.payloadSize + uint64(len(payload))
	newCount := b.setCount

	if prev.set {
		if b.cfg.StrictDuplicates {
			return fmt.Errorf("field index %d: %w", index, errs.ErrDuplicateIndex)
		}
		newPayload -= uint64(len(prev.payload))
	} else {
		newCount++
	}

	imageSize := uint64(format.HeaderSize) + uint64(newCount)*format.EntrySize + newPayload
	if imageSize > format.MaxImageSize {
		return fmt.Errorf("image would reach %d bytes: %w", imageSize, errs.ErrMessageTooLarge)
	}

	*prev = builderField{set: true, tag: tag, payload: payload}
	b.payloadSize = newPayload
	b.setCount = newCount

	return nil
}

// SetU8 sets field index to a u8 value.
func (b *Builder) SetU8(index uint16, v uint8) error {
	return b.setField(index, format.TagU8, wire.AppendU8(nil, v))
}

// SetU16 sets field index to a u16 value.
func (b *Builder) SetU16(index uint16, v uint16) error {
	return b.setField(index, format.TagU16, wire.AppendU16(nil, v))
}

// SetU32 sets field index to a u32 value.
func (b *Builder) SetU32(index uint16, v uint32) error {
	return b.setField(index, format.TagU32, wire.AppendU32(nil, v))
}

// SetU64 sets field index to a u64 value.
func (b *Builder) SetU64(index uint16, v uint64) error {
	return b.setField(index, format.TagU64, wire.AppendU64(nil, v))
}

// SetI8 sets field index to an i8 value.
func (b *Builder) SetI8(index uint16, v int8) error {
	return b.setField(index, format.TagI8, wire.AppendI8(nil, v))
}

// SetI16 sets field index to an i16 value.
func (b *Builder) SetI16(index uint16, v int16) error {
	return b.setField(index, format.TagI16, wire.AppendI16(nil, v))
}

// SetI32 sets field index to an i32 value.
func (b *Builder) SetI32(index uint16, v int32) error {
	return b.setField(index, format.TagI32, wire.AppendI32(nil, v))
}

// SetI64 sets field index to an i64 value.
func (b *Builder) SetI64(index uint16, v int64) error {
	return b.setField(index, format.TagI64, wire.AppendI64(nil, v))
}

// SetF32 sets field index to an f32 value.
func (b *Builder) SetF32(index uint16, v float32) error {
	return b.setField(index, format.TagF32, wire.AppendF32(nil, v))
}

// SetF64 sets field index to an f64 value.
func (b *Builder) SetF64(index uint16, v float64) error {
	return b.setField(index, format.TagF64, wire.AppendF64(nil, v))
}

// SetBool sets field index to a bool value.
func (b *Builder) SetBool(index uint16, v bool) error {
	return b.setField(index, format.TagBool, wire.AppendBool(nil, v))
}

// SetString sets field index to a string value. The string is copied into
// the builder, so the caller may reuse it.
func (b *Builder) SetString(index uint16, s string) error {
	return b.setField(index, format.TagString, wire.AppendVarLen(nil, []byte(s)))
}

// SetBytes sets field index to a byte array value. The bytes are copied.
func (b *Builder) SetBytes(index uint16, data []byte) error {
	return b.setField(index, format.TagBytes, wire.AppendVarLen(nil, data))
}

// SetMessage sets field index to a nested message. The image must be a
// finalized message image, typically from another Builder's Finish.
func (b *Builder) SetMessage(index uint16, image []byte) error {
	return b.setField(index, format.TagMsg, wire.AppendVarLen(nil, image))
}

// SetVector sets field index to a vector. The VectorBuilder is consumed.
func (b *Builder) SetVector(index uint16, vb *VectorBuilder) error {
	payload, err := vb.Finish()
	if err != nil {
		return fmt.Errorf("field index %d: %w", index, err)
	}

	return b.setField(index, format.TagVector, payload)
}

// Finish computes final offsets and emits the message image:
// header, field table in index order, then payloads.
//
// Gaps in the set indices fail with errs.ErrSparseFields unless the builder
// was created with WithAllowSparse; a sparse image's field count is the
// number of set indices. Finish resets the builder.
func (b *Builder) Finish() ([]byte, error) {
	if !b.cfg.AllowSparse && b.setCount != len(b.fields) {
		return nil, fmt.Errorf("%d of %d indices set: %w",
			b.setCount, len(b.fields), errs.ErrSparseFields)
	}

	count := b.setCount
	imageSize := uint64(format.HeaderSize) + uint64(count)*format.EntrySize + b.payloadSize
	if imageSize > format.MaxImageSize {
		return nil, fmt.Errorf("image size %d: %w", imageSize, errs.ErrMessageTooLarge)
	}

	image := make([]byte, 0, imageSize)
	image = wire.AppendU16(image, uint16(count)) //nolint:gosec

	offset := uint32(format.HeaderSize + count*format.EntrySize) //nolint:gosec
	for i := range b.fields {
		if !b.fields[i].set {
			continue
		}

		image = wire.AppendFieldEntry(image, b.fields[i].tag, offset)
		offset += uint32(len(b.fields[i].payload)) //nolint:gosec
	}

	for i := range b.fields {
		if !b.fields[i].set {
			continue
		}

		image = append(image, b.fields[i].payload...)
	}

	b.fields = nil
	b.setCount = 0
	b.payloadSize = 0

	return image, nil
}
