package message

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/M1tsumi/ZeroProto/errs"
	"github.com/M1tsumi/ZeroProto/format"
)

func TestBuilderEmptyMessage(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	image, err := b.Finish()
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x00}, image)
}

func TestBuilderSingleU64(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	require.NoError(t, b.SetU64(0, 0x0102030405060708))

	image, err := b.Finish()
	require.NoError(t, err)

	expected := []byte{
		0x01, 0x00, // count = 1
		0x03, 0x07, 0x00, 0x00, 0x00, // tag=u64, offset=7
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
	}
	require.Equal(t, expected, image)
	require.Len(t, image, 15)
}

func TestBuilderUserExample(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	require.NoError(t, b.SetU64(0, 12345))
	require.NoError(t, b.SetString(1, "Alice"))
	require.NoError(t, b.SetU8(2, 30))

	image, err := b.Finish()
	require.NoError(t, err)
	require.Len(t, image, 35)

	expected := []byte{
		0x03, 0x00, // count = 3
		0x03, 0x11, 0x00, 0x00, 0x00, // u64 at offset 17
		0x0B, 0x19, 0x00, 0x00, 0x00, // string at offset 25
		0x00, 0x22, 0x00, 0x00, 0x00, // u8 at offset 34
		0x39, 0x30, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // 12345
		0x05, 0x00, 0x00, 0x00, // len("Alice")
		0x41, 0x6C, 0x69, 0x63, 0x65, // "Alice"
		0x1E, // 30
	}
	require.Equal(t, expected, image)
}

func TestBuilderOutOfOrderIndices(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	require.NoError(t, b.SetU8(2, 30))
	require.NoError(t, b.SetU64(0, 12345))
	require.NoError(t, b.SetString(1, "Alice"))

	image, err := b.Finish()
	require.NoError(t, err)

	r, err := NewReader(image)
	require.NoError(t, err)

	id, err := r.ReadU64(0)
	require.NoError(t, err)
	require.Equal(t, uint64(12345), id)

	name, err := r.ReadString(1)
	require.NoError(t, err)
	require.Equal(t, "Alice", name)

	age, err := r.ReadU8(2)
	require.NoError(t, err)
	require.Equal(t, uint8(30), age)
}

func TestBuilderSparseFields(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	require.NoError(t, b.SetU8(0, 1))
	require.NoError(t, b.SetU8(2, 3))

	_, err = b.Finish()
	require.ErrorIs(t, err, errs.ErrSparseFields)
}

func TestBuilderAllowSparse(t *testing.T) {
	b, err := NewBuilder(WithAllowSparse())
	require.NoError(t, err)

	require.NoError(t, b.SetU8(0, 1))
	require.NoError(t, b.SetU8(2, 3))

	image, err := b.Finish()
	require.NoError(t, err)

	r, err := NewReader(image)
	require.NoError(t, err)
	require.Equal(t, uint16(2), r.Count())

	v, err := r.ReadU8(0)
	require.NoError(t, err)
	require.Equal(t, uint8(1), v)

	// The sparse image packs set fields contiguously; index 1 here is the
	// field originally set at index 2.
	v, err = r.ReadU8(1)
	require.NoError(t, err)
	require.Equal(t, uint8(3), v)

	require.False(t, r.Has(2))
}

func TestBuilderDuplicateOverwrite(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	require.NoError(t, b.SetU32(0, 1))
	require.NoError(t, b.SetU32(0, 2))
	require.Equal(t, 1, b.FieldCount())

	image, err := b.Finish()
	require.NoError(t, err)

	r, err := NewReader(image)
	require.NoError(t, err)

	v, err := r.ReadU32(0)
	require.NoError(t, err)
	require.Equal(t, uint32(2), v)
}

func TestBuilderStrictDuplicates(t *testing.T) {
	b, err := NewBuilder(WithStrictDuplicates())
	require.NoError(t, err)

	require.NoError(t, b.SetU32(0, 1))
	require.ErrorIs(t, b.SetU32(0, 2), errs.ErrDuplicateIndex)
}

func TestBuilderDuplicateTypeChange(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	require.NoError(t, b.SetString(0, "long initial value"))
	require.NoError(t, b.SetU8(0, 7))

	image, err := b.Finish()
	require.NoError(t, err)
	require.Len(t, image, format.HeaderSize+format.EntrySize+1)

	r, err := NewReader(image)
	require.NoError(t, err)

	v, err := r.ReadU8(0)
	require.NoError(t, err)
	require.Equal(t, uint8(7), v)
}

func TestBuilderFieldIndexCeiling(t *testing.T) {
	b, err := NewBuilder(WithAllowSparse())
	require.NoError(t, err)

	require.ErrorIs(t, b.SetU8(format.MaxFieldCount, 1), errs.ErrFieldCountExceeded)
	require.NoError(t, b.SetU8(format.MaxFieldCount-1, 1))
}

func TestBuilderAllScalarTypes(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	require.NoError(t, b.SetU8(0, 0xFF))
	require.NoError(t, b.SetU16(1, 0xFFFF))
	require.NoError(t, b.SetU32(2, 0xFFFFFFFF))
	require.NoError(t, b.SetU64(3, 0xFFFFFFFFFFFFFFFF))
	require.NoError(t, b.SetI8(4, -1))
	require.NoError(t, b.SetI16(5, -2))
	require.NoError(t, b.SetI32(6, -3))
	require.NoError(t, b.SetI64(7, -4))
	require.NoError(t, b.SetF32(8, 1.5))
	require.NoError(t, b.SetF64(9, -2.5))
	require.NoError(t, b.SetBool(10, true))
	require.NoError(t, b.SetBytes(11, []byte{0xDE, 0xAD}))

	image, err := b.Finish()
	require.NoError(t, err)

	r, err := NewReader(image)
	require.NoError(t, err)
	require.Equal(t, uint16(12), r.Count())

	u8v, err := r.ReadU8(0)
	require.NoError(t, err)
	require.Equal(t, uint8(0xFF), u8v)

	u16v, err := r.ReadU16(1)
	require.NoError(t, err)
	require.Equal(t, uint16(0xFFFF), u16v)

	u32v, err := r.ReadU32(2)
	require.NoError(t, err)
	require.Equal(t, uint32(0xFFFFFFFF), u32v)

	u64v, err := r.ReadU64(3)
	require.NoError(t, err)
	require.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), u64v)

	i8v, err := r.ReadI8(4)
	require.NoError(t, err)
	require.Equal(t, int8(-1), i8v)

	i16v, err := r.ReadI16(5)
	require.NoError(t, err)
	require.Equal(t, int16(-2), i16v)

	i32v, err := r.ReadI32(6)
	require.NoError(t, err)
	require.Equal(t, int32(-3), i32v)

	i64v, err := r.ReadI64(7)
	require.NoError(t, err)
	require.Equal(t, int64(-4), i64v)

	f32v, err := r.ReadF32(8)
	require.NoError(t, err)
	require.Equal(t, float32(1.5), f32v)

	f64v, err := r.ReadF64(9)
	require.NoError(t, err)
	require.Equal(t, -2.5, f64v)

	boolv, err := r.ReadBool(10)
	require.NoError(t, err)
	require.True(t, boolv)

	bytesv, err := r.ReadBytes(11)
	require.NoError(t, err)
	require.Equal(t, []byte{0xDE, 0xAD}, bytesv)
}

func TestBuilderNestedMessage(t *testing.T) {
	inner, err := NewBuilder()
	require.NoError(t, err)
	require.NoError(t, inner.SetU32(0, 42))

	innerImage, err := inner.Finish()
	require.NoError(t, err)

	outer, err := NewBuilder()
	require.NoError(t, err)
	require.NoError(t, outer.SetMessage(0, innerImage))
	require.NoError(t, outer.SetString(1, "outer"))

	image, err := outer.Finish()
	require.NoError(t, err)

	r, err := NewReader(image)
	require.NoError(t, err)

	nested, err := r.ReadMessage(0)
	require.NoError(t, err)

	v, err := nested.ReadU32(0)
	require.NoError(t, err)
	require.Equal(t, uint32(42), v)
}

func TestBuilderEmptyStringAndBytes(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	require.NoError(t, b.SetString(0, ""))
	require.NoError(t, b.SetBytes(1, nil))

	image, err := b.Finish()
	require.NoError(t, err)

	r, err := NewReader(image)
	require.NoError(t, err)

	s, err := r.ReadString(0)
	require.NoError(t, err)
	require.Empty(t, s)

	data, err := r.ReadBytes(1)
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestBuilderFinishResets(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	require.NoError(t, b.SetU8(0, 1))

	_, err = b.Finish()
	require.NoError(t, err)
	require.Equal(t, 0, b.FieldCount())

	image, err := b.Finish()
	require.NoError(t, err)
	require.Equal(t, []byte{0x00, 0x00}, image)
}

func TestBuilderImageSizeInvariant(t *testing.T) {
	b, err := NewBuilder()
	require.NoError(t, err)

	require.NoError(t, b.SetU64(0, 1))
	require.NoError(t, b.SetString(1, "hello"))
	require.NoError(t, b.SetBytes(2, make([]byte, 100)))

	image, err := b.Finish()
	require.NoError(t, err)

	// 2 + 5*3 + 8 + (4+5) + (4+100)
	require.Len(t, image, format.HeaderSize+3*format.EntrySize+8+9+104)
}

func BenchmarkBuilderFinish(b *testing.B) {
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		builder, _ := NewBuilder()
		_ = builder.SetU64(0, 12345)
		_ = builder.SetString(1, "Alice")
		_ = builder.SetU8(2, 30)
		_, _ = builder.Finish()
	}
}
