package schema

import (
	"github.com/M1tsumi/ZeroProto/errs"
)

// Reserved identifier sets. They are fixed policy: the field names are common
// generated-code identifiers and the enum names shadow common target-language
// types.
var (
	reservedFieldNames = map[string]struct{}{
		"id":     {},
		"type":   {},
		"data":   {},
		"buffer": {},
	}

	reservedEnumNames = map[string]struct{}{
		"Result": {},
		"Option": {},
		"Status": {},
	}
)

type declKind uint8

const (
	declMessage declKind = iota
	declEnum
)

// validator holds the symbol table built during the first pass over the
// declarations.
type validator struct {
	kinds map[string]declKind
	decls map[string]Decl
}

// Validate checks a parsed file against the semantic rules, in order:
// declaration-name uniqueness, reserved names, field-name uniqueness, type
// resolution, vector nesting, enum discriminants, and by-value containment
// cycles. The first violation is returned as a *Diagnostic.
func Validate(file *File) error {
	v := &validator{
		kinds: make(map[string]declKind),
		decls: make(map[string]Decl),
	}

	if err := v.collectNames(file); err != nil {
		return err
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *MessageDecl:
			if err := v.checkReservedFields(d); err != nil {
				return err
			}
		case *EnumDecl:
			if err := v.checkReservedEnumName(d); err != nil {
				return err
			}
		}
	}

	for _, decl := range file.Decls {
		msg, ok := decl.(*MessageDecl)
		if !ok {
			continue
		}

		if err := v.checkFieldUniqueness(msg); err != nil {
			return err
		}
	}

	for _, decl := range file.Decls {
		msg, ok := decl.(*MessageDecl)
		if !ok {
			continue
		}

		for i := range msg.Fields {
			if err := v.checkFieldType(&msg.Fields[i].Type); err != nil {
				return err
			}
		}
	}

	for _, decl := range file.Decls {
		en, ok := decl.(*EnumDecl)
		if !ok {
			continue
		}

		if err := v.checkEnum(en); err != nil {
			return err
		}
	}

	return v.checkContainmentCycles(file)
}

func (v *validator) collectNames(file *File) error {
	for _, decl := range file.Decls {
		name := decl.DeclName()
		if _, exists := v.kinds[name]; exists {
			return newDiagnostic(errs.ErrDuplicateName, decl.DeclSpan(),
				"duplicate declaration name %q", name)
		}

		kind := declMessage
		if _, ok := decl.(*EnumDecl); ok {
			kind = declEnum
		}

		v.kinds[name] = kind
		v.decls[name] = decl
	}

	return nil
}

func (v *validator) checkReservedFields(msg *MessageDecl) error {
	for i := range msg.Fields {
		field := &msg.Fields[i]
		if _, reserved := reservedFieldNames[field.Name]; reserved {
			return newDiagnostic(errs.ErrReservedName, field.Span,
				"field name %q is reserved in message %q", field.Name, msg.Name)
		}
	}

	return nil
}

func (v *validator) checkReservedEnumName(en *EnumDecl) error {
	if _, reserved := reservedEnumNames[en.Name]; reserved {
		return newDiagnostic(errs.ErrReservedName, en.Span,
			"enum name %q is reserved", en.Name)
	}

	return nil
}

func (v *validator) checkFieldUniqueness(msg *MessageDecl) error {
	seen := make(map[string]struct{}, len(msg.Fields))

	for i := range msg.Fields {
		field := &msg.Fields[i]
		if _, dup := seen[field.Name]; dup {
			return newDiagnostic(errs.ErrDuplicateField, field.Span,
				"duplicate field name %q in message %q", field.Name, msg.Name)
		}

		seen[field.Name] = struct{}{}
	}

	return nil
}

func (v *validator) checkFieldType(ft *FieldType) error {
	switch ft.Kind {
	case TypeScalar:
		return nil
	case TypeNamed:
		if _, ok := v.kinds[ft.Name]; !ok {
			return newDiagnostic(errs.ErrUnknownType, ft.Span,
				"unknown type %q", ft.Name)
		}

		return nil
	case TypeVector:
		if ft.Elem.Kind == TypeVector {
			return newDiagnostic(errs.ErrNestedVector, ft.Elem.Span,
				"vector elements may not be vectors")
		}

		return v.checkFieldType(ft.Elem)
	}

	return nil
}

func (v *validator) checkEnum(en *EnumDecl) error {
	seenNames := make(map[string]struct{}, len(en.Variants))
	seenValues := make(map[int64]string, len(en.Variants))

	for i := range en.Variants {
		variant := &en.Variants[i]

		if _, dup := seenNames[variant.Name]; dup {
			return newDiagnostic(errs.ErrDuplicateName, variant.Span,
				"duplicate variant name %q in enum %q", variant.Name, en.Name)
		}
		seenNames[variant.Name] = struct{}{}

		if !variant.HasValue {
			return newDiagnostic(errs.ErrEnumMissingValue, variant.Span,
				"variant %q in enum %q has no explicit value", variant.Name, en.Name)
		}

		if prev, dup := seenValues[variant.Value]; dup {
			return newDiagnostic(errs.ErrDuplicateDiscriminant, variant.Span,
				"variants %q and %q in enum %q share value %d",
				prev, variant.Name, en.Name, variant.Value)
		}
		seenValues[variant.Value] = variant.Name
	}

	return nil
}

// checkContainmentCycles rejects messages that transitively contain
// themselves by value. Nested messages and vectors both count as by-value
// containment; enums never contribute edges. Depth-first walk with a
// three-color marking over the containment graph.
func (v *validator) checkContainmentCycles(file *File) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int, len(v.decls))

	var visit func(msg *MessageDecl) error
	visit = func(msg *MessageDecl) error {
		color[msg.Name] = gray

		for i := range msg.Fields {
			ft := &msg.Fields[i].Type
			if ft.Kind == TypeVector {
				ft = ft.Elem
			}
			if ft.Kind != TypeNamed {
				continue
			}
			if v.kinds[ft.Name] != declMessage {
				continue
			}

			switch color[ft.Name] {
			case gray:
				return newDiagnostic(errs.ErrContainmentCycle, ft.Span,
					"message %q transitively contains itself through %q",
					ft.Name, msg.Name)
			case white:
				target := v.decls[ft.Name].(*MessageDecl) //nolint:forcetypeassert
				if err := visit(target); err != nil {
					return err
				}
			}
		}

		color[msg.Name] = black

		return nil
	}

	for _, decl := range file.Decls {
		msg, ok := decl.(*MessageDecl)
		if !ok {
			continue
		}

		if color[msg.Name] == white {
			if err := visit(msg); err != nil {
				return err
			}
		}
	}

	return nil
}
