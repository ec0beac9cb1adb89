package schema

import "github.com/M1tsumi/ZeroProto/format"

// File is the parsed representation of one schema source file. Declarations
// keep their source order; nothing is resolved yet.
type File struct {
	Decls []Decl
}

// Decl is either a *MessageDecl or an *EnumDecl.
type Decl interface {
	DeclName() string
	DeclSpan() Span
}

// MessageDecl is a message declaration with its fields in source order.
type MessageDecl struct {
	Name   string
	Fields []FieldDecl
	Span   Span
}

// DeclName returns the declared message name.
func (m *MessageDecl) DeclName() string { return m.Name }

// DeclSpan returns the span of the message name.
func (m *MessageDecl) DeclSpan() Span { return m.Span }

// FieldDecl is one field of a message. Optional marks a field the builder may
// omit; Default carries the literal after '=' when present.
type FieldDecl struct {
	Name     string
	Type     FieldType
	Optional bool
	Default  *DefaultValue
	Span     Span
}

// EnumDecl is an enum declaration with its variants in source order.
type EnumDecl struct {
	Name     string
	Variants []EnumVariant
	Span     Span
}

// DeclName returns the declared enum name.
func (e *EnumDecl) DeclName() string { return e.Name }

// DeclSpan returns the span of the enum name.
func (e *EnumDecl) DeclSpan() Span { return e.Span }

// EnumVariant is one variant with its explicit discriminant. HasValue is
// false when the source omitted the '= value' clause, which validation
// rejects.
type EnumVariant struct {
	Name     string
	Value    int64
	HasValue bool
	Span     Span
}

// TypeKind discriminates the FieldType variants.
type TypeKind uint8

const (
	// TypeScalar is a built-in scalar, string, or bytes type.
	TypeScalar TypeKind = iota
	// TypeNamed references a message or enum declared in the same file.
	TypeNamed
	// TypeVector is a vector of a scalar or named element type.
	TypeVector
)

// FieldType is a field's declared type. For TypeScalar, Tag holds the wire
// tag. For TypeNamed, Name holds the unresolved reference. For TypeVector,
// Elem holds the element type.
type FieldType struct {
	Kind TypeKind
	Tag  format.TypeTag
	Name string
	Elem *FieldType
	Span Span
}

// DefaultValueKind discriminates the DefaultValue variants.
type DefaultValueKind uint8

const (
	// DefaultInt is an integer literal.
	DefaultInt DefaultValueKind = iota
	// DefaultFloat is a float literal.
	DefaultFloat
	// DefaultBool is true or false.
	DefaultBool
	// DefaultString is a quoted string literal.
	DefaultString
)

// DefaultValue is the literal after '=' in a field declaration.
type DefaultValue struct {
	Kind   DefaultValueKind
	Int    int64
	Float  float64
	Bool   bool
	String string
	Span   Span
}

// scalarTypes maps built-in type names to their wire tags. Names not in this
// table parse as named references.
var scalarTypes = map[string]format.TypeTag{
	"u8":     format.TagU8,
	"u16":    format.TagU16,
	"u32":    format.TagU32,
	"u64":    format.TagU64,
	"i8":     format.TagI8,
	"i16":    format.TagI16,
	"i32":    format.TagI32,
	"i64":    format.TagI64,
	"f32":    format.TagF32,
	"f64":    format.TagF64,
	"bool":   format.TagBool,
	"string": format.TagString,
	"bytes":  format.TagBytes,
}
