package schema

import (
	"github.com/M1tsumi/ZeroProto/format"
)

// MessageID and EnumID index into Schema.Messages and Schema.Enums. They are
// assigned in declaration order during lowering.
type (
	MessageID int
	EnumID    int
)

// Schema is the validated, fully resolved representation handed to code
// emission. Every named reference carries a resolved id, every field a final
// index and wire tag, and every enum variant an explicit discriminant.
type Schema struct {
	Messages []IRMessage
	Enums    []IREnum
}

// IRMessage is one lowered message. Fields preserve declaration order; the
// field index is part of the wire contract.
type IRMessage struct {
	ID     MessageID
	Name   string
	Fields []IRField
}

// IRField is one lowered field.
type IRField struct {
	Name     string
	Index    uint16
	Type     IRType
	Optional bool
	Default  *DefaultValue
}

// IRTypeKind discriminates the lowered type variants.
type IRTypeKind uint8

const (
	// IRScalar is a built-in scalar, string, or bytes type.
	IRScalar IRTypeKind = iota
	// IRMessageRef is a by-value nested message.
	IRMessageRef
	// IREnumRef is an enum, carried on the wire as u64.
	IREnumRef
	// IRVector is a vector of a non-vector element type.
	IRVector
)

// IRType is a resolved field type. WireTag is the tag the field's table entry
// carries: the scalar tag for IRScalar, TagMsg for IRMessageRef, TagU64 for
// IREnumRef, and TagVector for IRVector. Elem is set only for IRVector.
type IRType struct {
	Kind    IRTypeKind
	WireTag format.TypeTag
	Message MessageID
	Enum    EnumID
	Elem    *IRType
}

// IREnum is one lowered enum with variants in declaration order.
type IREnum struct {
	ID       EnumID
	Name     string
	Variants []IRVariant
}

// IRVariant is one enum variant with its explicit discriminant.
type IRVariant struct {
	Name  string
	Value int64
}

// MessageByName returns the lowered message with the given name.
func (s *Schema) MessageByName(name string) (*IRMessage, bool) {
	for i := range s.Messages {
		if s.Messages[i].Name == name {
			return &s.Messages[i], true
		}
	}

	return nil, false
}

// EnumByName returns the lowered enum with the given name.
func (s *Schema) EnumByName(name string) (*IREnum, bool) {
	for i := range s.Enums {
		if s.Enums[i].Name == name {
			return &s.Enums[i], true
		}
	}

	return nil, false
}

// Lower converts a validated AST into the IR. It must only be called after
// Validate has succeeded; unresolved names panic here because validation
// guarantees they cannot occur.
func Lower(file *File) *Schema {
	schema := &Schema{}

	messageIDs := make(map[string]MessageID)
	enumIDs := make(map[string]EnumID)

	// Enums lower first so message fields can resolve enum references in a
	// single pass over the messages.
	for _, decl := range file.Decls {
		en, ok := decl.(*EnumDecl)
		if !ok {
			continue
		}

		id := EnumID(len(schema.Enums))
		enumIDs[en.Name] = id

		variants := make([]IRVariant, len(en.Variants))
		for i := range en.Variants {
			variants[i] = IRVariant{
				Name:  en.Variants[i].Name,
				Value: en.Variants[i].Value,
			}
		}

		schema.Enums = append(schema.Enums, IREnum{ID: id, Name: en.Name, Variants: variants})
	}

	for _, decl := range file.Decls {
		msg, ok := decl.(*MessageDecl)
		if !ok {
			continue
		}

		messageIDs[msg.Name] = MessageID(len(messageIDs))
	}

	for _, decl := range file.Decls {
		msg, ok := decl.(*MessageDecl)
		if !ok {
			continue
		}

		ir := IRMessage{ID: messageIDs[msg.Name], Name: msg.Name}

		for i := range msg.Fields {
			field := &msg.Fields[i]
			ir.Fields = append(ir.Fields, IRField{
				Name:     field.Name,
				Index:    uint16(i), //nolint:gosec
				Type:     lowerType(&field.Type, messageIDs, enumIDs),
				Optional: field.Optional,
				Default:  field.Default,
			})
		}

		schema.Messages = append(schema.Messages, ir)
	}

	return schema
}

func lowerType(ft *FieldType, messageIDs map[string]MessageID, enumIDs map[string]EnumID) IRType {
	switch ft.Kind {
	case TypeScalar:
		return IRType{Kind: IRScalar, WireTag: ft.Tag}
	case TypeNamed:
		if id, ok := enumIDs[ft.Name]; ok {
			return IRType{Kind: IREnumRef, WireTag: format.TagU64, Enum: id}
		}

		id, ok := messageIDs[ft.Name]
		if !ok {
			panic("unresolved type survived validation: " + ft.Name)
		}

		return IRType{Kind: IRMessageRef, WireTag: format.TagMsg, Message: id}
	case TypeVector:
		elem := lowerType(ft.Elem, messageIDs, enumIDs)

		return IRType{Kind: IRVector, WireTag: format.TagVector, Elem: &elem}
	}

	panic("unknown field type kind")
}
