package schema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/M1tsumi/ZeroProto/errs"
)

func mustParse(t *testing.T, src string) *File {
	t.Helper()

	file, err := Parse(src)
	require.NoError(t, err)

	return file
}

func TestValidateCleanSchema(t *testing.T) {
	file := mustParse(t, `
enum Role {
    Admin = 0;
    Member = 1;
}

message Profile {
    bio: string;
}

message User {
    user_id: u64;
    name: string;
    role: Role;
    profile: Profile;
    friends: [u64];
}
`)
	require.NoError(t, Validate(file))
}

func TestValidateDuplicateDeclarationName(t *testing.T) {
	file := mustParse(t, `
message User { x: u8; }
message User { y: u8; }
`)
	err := Validate(file)
	require.ErrorIs(t, err, errs.ErrDuplicateName)

	d, ok := AsDiagnostic(err)
	require.True(t, ok)
	require.Equal(t, 3, d.Span.Line)
}

func TestValidateMessageEnumNameClash(t *testing.T) {
	file := mustParse(t, `
message Color { x: u8; }
enum Color { Red = 0; }
`)
	require.ErrorIs(t, Validate(file), errs.ErrDuplicateName)
}

func TestValidateReservedFieldNames(t *testing.T) {
	for _, name := range []string{"id", "type", "data", "buffer"} {
		file := mustParse(t, "message X { "+name+": u32; }")

		err := Validate(file)
		require.ErrorIs(t, err, errs.ErrReservedName, "field %q", name)

		d, ok := AsDiagnostic(err)
		require.True(t, ok)
		require.Contains(t, d.Message, name)
	}

	// Near-misses are fine.
	file := mustParse(t, `message X { user_id: u32; id_hash: u32; types: u8; }`)
	require.NoError(t, Validate(file))
}

func TestValidateReservedEnumNames(t *testing.T) {
	for _, name := range []string{"Result", "Option", "Status"} {
		file := mustParse(t, "enum "+name+" { A = 0; }")
		require.ErrorIs(t, Validate(file), errs.ErrReservedName, "enum %q", name)
	}

	// Reserved enum names do not constrain messages.
	file := mustParse(t, `message Status { x: u8; }`)
	require.NoError(t, Validate(file))
}

func TestValidateDuplicateFieldName(t *testing.T) {
	file := mustParse(t, `
message User {
    name: string;
    name: u8;
}
`)
	require.ErrorIs(t, Validate(file), errs.ErrDuplicateField)
}

func TestValidateUnknownType(t *testing.T) {
	file := mustParse(t, `message User { profile: Profile; }`)

	err := Validate(file)
	require.ErrorIs(t, err, errs.ErrUnknownType)

	d, ok := AsDiagnostic(err)
	require.True(t, ok)
	require.Contains(t, d.Message, "Profile")
}

func TestValidateUnknownVectorElementType(t *testing.T) {
	file := mustParse(t, `message User { tags: [Tag]; }`)
	require.ErrorIs(t, Validate(file), errs.ErrUnknownType)
}

func TestValidateNestedVector(t *testing.T) {
	file := mustParse(t, `message User { matrix: [[u8]]; }`)
	require.ErrorIs(t, Validate(file), errs.ErrNestedVector)
}

func TestValidateEnumMissingValue(t *testing.T) {
	file := mustParse(t, `enum E { A = 0; B; }`)
	require.ErrorIs(t, Validate(file), errs.ErrEnumMissingValue)
}

func TestValidateDuplicateDiscriminant(t *testing.T) {
	file := mustParse(t, `enum E { A = 1; B = 2; C = 1; }`)

	err := Validate(file)
	require.ErrorIs(t, err, errs.ErrDuplicateDiscriminant)

	d, ok := AsDiagnostic(err)
	require.True(t, ok)
	require.Contains(t, d.Message, "A")
	require.Contains(t, d.Message, "C")
}

func TestValidateDuplicateVariantName(t *testing.T) {
	file := mustParse(t, `enum E { A = 0; A = 1; }`)
	require.ErrorIs(t, Validate(file), errs.ErrDuplicateName)
}

func TestValidateDirectCycle(t *testing.T) {
	file := mustParse(t, `message A { self: A; }`)
	require.ErrorIs(t, Validate(file), errs.ErrContainmentCycle)
}

func TestValidateMutualCycle(t *testing.T) {
	file := mustParse(t, `
message A { b: B; }
message B { a: A; }
`)
	require.ErrorIs(t, Validate(file), errs.ErrContainmentCycle)
}

func TestValidateCycleThroughVector(t *testing.T) {
	file := mustParse(t, `
message Node {
    value: u64;
    children: [Node];
}
`)
	require.ErrorIs(t, Validate(file), errs.ErrContainmentCycle)
}

func TestValidateLongCycle(t *testing.T) {
	file := mustParse(t, `
message A { b: B; }
message B { c: C; }
message C { a: A; }
`)
	require.ErrorIs(t, Validate(file), errs.ErrContainmentCycle)
}

func TestValidateDiamondIsNotCycle(t *testing.T) {
	// Two paths to the same leaf are fine; only back edges are cycles.
	file := mustParse(t, `
message Leaf { x: u8; }
message Left { leaf: Leaf; }
message Right { leaf: Leaf; }
message Root { left: Left; right: Right; }
`)
	require.NoError(t, Validate(file))
}

func TestValidateEnumReferenceIsNotCycle(t *testing.T) {
	// Enums never contribute containment edges.
	file := mustParse(t, `
enum Kind { A = 0; }
message M { kind: Kind; kinds: [Kind]; }
`)
	require.NoError(t, Validate(file))
}
