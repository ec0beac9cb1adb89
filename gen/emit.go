// Package gen emits Go source for compiled schemas: a typed reader and
// builder per message, and a discriminant type per enum, all thin wrappers
// over the message package with field indices and wire tags burned in.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"strconv"

	zpformat "github.com/M1tsumi/ZeroProto/format"
	"github.com/M1tsumi/ZeroProto/schema"
)

// scalarKind describes how one scalar wire tag maps onto generated Go code.
type scalarKind struct {
	goType string
	read   string
	set    string
}

var scalarKinds = map[zpformat.TypeTag]scalarKind{
	zpformat.TagU8:     {goType: "uint8", read: "ReadU8", set: "SetU8"},
	zpformat.TagU16:    {goType: "uint16", read: "ReadU16", set: "SetU16"},
	zpformat.TagU32:    {goType: "uint32", read: "ReadU32", set: "SetU32"},
	zpformat.TagU64:    {goType: "uint64", read: "ReadU64", set: "SetU64"},
	zpformat.TagI8:     {goType: "int8", read: "ReadI8", set: "SetI8"},
	zpformat.TagI16:    {goType: "int16", read: "ReadI16", set: "SetI16"},
	zpformat.TagI32:    {goType: "int32", read: "ReadI32", set: "SetI32"},
	zpformat.TagI64:    {goType: "int64", read: "ReadI64", set: "SetI64"},
	zpformat.TagF32:    {goType: "float32", read: "ReadF32", set: "SetF32"},
	zpformat.TagF64:    {goType: "float64", read: "ReadF64", set: "SetF64"},
	zpformat.TagBool:   {goType: "bool", read: "ReadBool", set: "SetBool"},
	zpformat.TagString: {goType: "string", read: "ReadString", set: "SetString"},
	zpformat.TagBytes:  {goType: "[]byte", read: "ReadBytes", set: "SetBytes"},
}

var tagConstNames = map[zpformat.TypeTag]string{
	zpformat.TagU8:     "TagU8",
	zpformat.TagU16:    "TagU16",
	zpformat.TagU32:    "TagU32",
	zpformat.TagU64:    "TagU64",
	zpformat.TagI8:     "TagI8",
	zpformat.TagI16:    "TagI16",
	zpformat.TagI32:    "TagI32",
	zpformat.TagI64:    "TagI64",
	zpformat.TagF32:    "TagF32",
	zpformat.TagF64:    "TagF64",
	zpformat.TagBool:   "TagBool",
	zpformat.TagString: "TagString",
	zpformat.TagBytes:  "TagBytes",
	zpformat.TagMsg:    "TagMsg",
}

// emitter accumulates generated source for one schema.
type emitter struct {
	buf         bytes.Buffer
	ir          *schema.Schema
	pkg         string
	module      string
	fingerprint uint64
}

// Emit generates a single Go source file for the schema, declared in package
// pkg. The fingerprint of the schema source is stamped into the file header
// so the watch loop can skip regenerating unchanged outputs. The output is
// gofmt-formatted.
func Emit(ir *schema.Schema, pkg string, fingerprint uint64) ([]byte, error) {
	e := &emitter{
		ir:          ir,
		pkg:         pkg,
		module:      "github.com/M1tsumi/ZeroProto",
		fingerprint: fingerprint,
	}

	e.emitHeader()

	for i := range ir.Enums {
		e.emitEnum(&ir.Enums[i])
	}
	for i := range ir.Messages {
		e.emitMessage(&ir.Messages[i])
	}

	src, err := format.Source(e.buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}

	return src, nil
}

func (e *emitter) pf(f string, args ...any) {
	fmt.Fprintf(&e.buf, f, args...)
}

func (e *emitter) emitHeader() {
	e.pf("// Code generated by zeroproto. DO NOT EDIT.\n")
	e.pf("// Source fingerprint: xxhash64:%016x\n\n", e.fingerprint)
	e.pf("package %s\n\n", e.pkg)
	e.pf("import (\n")
	e.pf("\t\"fmt\"\n\n")
	e.pf("\t\"%s/errs\"\n", e.module)
	e.pf("\t\"%s/format\"\n", e.module)
	e.pf("\t\"%s/message\"\n", e.module)
	e.pf(")\n\n")
	e.pf("// Keep imports alive for schemas that do not exercise every path.\n")
	e.pf("var (\n")
	e.pf("\t_ = fmt.Errorf\n")
	e.pf("\t_ = errs.ErrTypeMismatch\n")
	e.pf("\t_ = format.TagU8\n")
	e.pf(")\n\n")
}

func (e *emitter) emitEnum(en *schema.IREnum) {
	name := exportedName(en.Name)

	e.pf("// %s mirrors the schema enum %q.\n", name, en.Name)
	e.pf("type %s int64\n\n", name)

	e.pf("const (\n")
	for _, v := range en.Variants {
		e.pf("\t%s%s %s = %d\n", name, exportedName(v.Name), name, v.Value)
	}
	e.pf(")\n\n")

	e.pf("// Valid reports whether the value is a declared variant.\n")
	e.pf("func (v %s) Valid() bool {\n", name)
	e.pf("\tswitch v {\n")
	e.pf("\tcase ")
	for i, v := range en.Variants {
		if i > 0 {
			e.pf(", ")
		}
		e.pf("%s%s", name, exportedName(v.Name))
	}
	e.pf(":\n")
	e.pf("\t\treturn true\n")
	e.pf("\t}\n\n")
	e.pf("\treturn false\n")
	e.pf("}\n\n")

	e.pf("// String returns the variant name, or the numeric value when unknown.\n")
	e.pf("func (v %s) String() string {\n", name)
	e.pf("\tswitch v {\n")
	for _, v := range en.Variants {
		e.pf("\tcase %s%s:\n", name, exportedName(v.Name))
		e.pf("\t\treturn %s\n", strconv.Quote(v.Name))
	}
	e.pf("\t}\n\n")
	e.pf("\treturn fmt.Sprintf(\"%s(%%d)\", int64(v))\n", name)
	e.pf("}\n\n")

	e.pf("// %sFromWire converts a decoded u64 into the enum, rejecting\n", name)
	e.pf("// undeclared values.\n")
	e.pf("func %sFromWire(raw uint64) (%s, error) {\n", name, name)
	e.pf("\tv := %s(int64(raw)) //nolint:gosec\n", name)
	e.pf("\tif !v.Valid() {\n")
	e.pf("\t\treturn 0, fmt.Errorf(\"value %%d is not a %s variant: %%w\", raw, errs.ErrTypeMismatch)\n", name)
	e.pf("\t}\n\n")
	e.pf("\treturn v, nil\n")
	e.pf("}\n\n")
}

func (e *emitter) emitMessage(msg *schema.IRMessage) {
	name := exportedName(msg.Name)

	e.emitReader(msg, name)
	e.emitBuilder(msg, name)
}

func (e *emitter) emitReader(msg *schema.IRMessage, name string) {
	e.pf("// %sReader decodes %q message images with zero-copy field access.\n", name, msg.Name)
	e.pf("type %sReader struct {\n", name)
	e.pf("\tr *message.Reader\n")
	e.pf("}\n\n")

	e.pf("// New%sReader validates a message image and returns a typed reader.\n", name)
	e.pf("func New%sReader(buf []byte, opts ...message.ReaderOption) (*%sReader, error) {\n", name, name)
	e.pf("\tr, err := message.NewReader(buf, opts...)\n")
	e.pf("\tif err != nil {\n")
	e.pf("\t\treturn nil, err\n")
	e.pf("\t}\n\n")
	e.pf("\treturn &%sReader{r: r}, nil\n", name)
	e.pf("}\n\n")

	for i := range msg.Fields {
		e.emitFieldAccessor(msg, &msg.Fields[i], name)
	}
}

func (e *emitter) emitFieldAccessor(msg *schema.IRMessage, field *schema.IRField, name string) {
	fieldName := exportedName(field.Name)

	if field.Optional {
		e.pf("// Has%s reports whether the optional field %q is present.\n", fieldName, field.Name)
		e.pf("func (r *%sReader) Has%s() bool {\n", name, fieldName)
		e.pf("\treturn r.r.Has(%d)\n", field.Index)
		e.pf("}\n\n")
	}

	switch field.Type.Kind {
	case schema.IRScalar:
		kind := scalarKinds[field.Type.WireTag]
		e.pf("// %s returns the %q field.\n", fieldName, field.Name)
		e.pf("func (r *%sReader) %s() (%s, error) {\n", name, fieldName, kind.goType)
		e.pf("\treturn r.r.%s(%d)\n", kind.read, field.Index)
		e.pf("}\n\n")
		e.emitDefaultAccessor(field, name, fieldName, kind)
	case schema.IREnumRef:
		enumName := exportedName(e.ir.Enums[field.Type.Enum].Name)
		e.pf("// %s returns the %q field.\n", fieldName, field.Name)
		e.pf("func (r *%sReader) %s() (%s, error) {\n", name, fieldName, enumName)
		e.pf("\traw, err := r.r.ReadU64(%d)\n", field.Index)
		e.pf("\tif err != nil {\n")
		e.pf("\t\treturn 0, err\n")
		e.pf("\t}\n\n")
		e.pf("\treturn %sFromWire(raw)\n", enumName)
		e.pf("}\n\n")
	case schema.IRMessageRef:
		targetName := exportedName(e.ir.Messages[field.Type.Message].Name)
		e.pf("// %s returns a reader over the nested %q message.\n", fieldName, field.Name)
		e.pf("func (r *%sReader) %s() (*%sReader, error) {\n", name, fieldName, targetName)
		e.pf("\tinner, err := r.r.ReadMessage(%d)\n", field.Index)
		e.pf("\tif err != nil {\n")
		e.pf("\t\treturn nil, err\n")
		e.pf("\t}\n\n")
		e.pf("\treturn &%sReader{r: inner}, nil\n", targetName)
		e.pf("}\n\n")
	case schema.IRVector:
		e.pf("// %s returns a reader over the %q vector field.\n", fieldName, field.Name)
		e.pf("func (r *%sReader) %s() (*message.VectorReader, error) {\n", name, fieldName)
		e.pf("\treturn r.r.ReadVector(%d, format.%s)\n", field.Index, tagConstNames[field.Type.Elem.WireTag])
		e.pf("}\n\n")
	}
}

// emitDefaultAccessor generates the fallback accessor for fields carrying a
// schema default value.
func (e *emitter) emitDefaultAccessor(field *schema.IRField, name, fieldName string, kind scalarKind) {
	if field.Default == nil {
		return
	}

	var literal string
	switch field.Default.Kind {
	case schema.DefaultInt:
		literal = strconv.FormatInt(field.Default.Int, 10)
	case schema.DefaultFloat:
		literal = strconv.FormatFloat(field.Default.Float, 'g', -1, 64)
	case schema.DefaultBool:
		literal = strconv.FormatBool(field.Default.Bool)
	case schema.DefaultString:
		literal = strconv.Quote(field.Default.String)
	}

	e.pf("// %sOrDefault returns the %q field, or its schema default when the\n", fieldName, field.Name)
	e.pf("// field is absent or unreadable.\n")
	e.pf("func (r *%sReader) %sOrDefault() %s {\n", name, fieldName, kind.goType)
	e.pf("\tv, err := r.r.%s(%d)\n", kind.read, field.Index)
	e.pf("\tif err != nil {\n")
	e.pf("\t\treturn %s\n", literal)
	e.pf("\t}\n\n")
	e.pf("\treturn v\n")
	e.pf("}\n\n")
}

func (e *emitter) emitBuilder(msg *schema.IRMessage, name string) {
	hasOptional := false
	for i := range msg.Fields {
		if msg.Fields[i].Optional {
			hasOptional = true

			break
		}
	}

	e.pf("// %sBuilder assembles %q message images.\n", name, msg.Name)
	e.pf("type %sBuilder struct {\n", name)
	e.pf("\tb *message.Builder\n")
	e.pf("}\n\n")

	e.pf("// New%sBuilder creates an empty builder.\n", name)
	e.pf("func New%sBuilder() (*%sBuilder, error) {\n", name, name)
	if hasOptional {
		e.pf("\tb, err := message.NewBuilder(message.WithAllowSparse())\n")
	} else {
		e.pf("\tb, err := message.NewBuilder()\n")
	}
	e.pf("\tif err != nil {\n")
	e.pf("\t\treturn nil, err\n")
	e.pf("\t}\n\n")
	e.pf("\treturn &%sBuilder{b: b}, nil\n", name)
	e.pf("}\n\n")

	for i := range msg.Fields {
		e.emitFieldSetter(&msg.Fields[i], name)
	}

	e.pf("// Finish emits the message image and resets the builder.\n")
	e.pf("func (b *%sBuilder) Finish() ([]byte, error) {\n", name)
	e.pf("\treturn b.b.Finish()\n")
	e.pf("}\n\n")
}

func (e *emitter) emitFieldSetter(field *schema.IRField, name string) {
	fieldName := exportedName(field.Name)

	switch field.Type.Kind {
	case schema.IRScalar:
		kind := scalarKinds[field.Type.WireTag]
		e.pf("// Set%s sets the %q field.\n", fieldName, field.Name)
		e.pf("func (b *%sBuilder) Set%s(v %s) error {\n", name, fieldName, kind.goType)
		e.pf("\treturn b.b.%s(%d, v)\n", kind.set, field.Index)
		e.pf("}\n\n")
	case schema.IREnumRef:
		enumName := exportedName(e.ir.Enums[field.Type.Enum].Name)
		e.pf("// Set%s sets the %q field.\n", fieldName, field.Name)
		e.pf("func (b *%sBuilder) Set%s(v %s) error {\n", name, fieldName, enumName)
		e.pf("\tif !v.Valid() {\n")
		e.pf("\t\treturn fmt.Errorf(\"value %%d is not a %s variant: %%w\", int64(v), errs.ErrTypeMismatch)\n", enumName)
		e.pf("\t}\n\n")
		e.pf("\treturn b.b.SetU64(%d, uint64(v)) //nolint:gosec\n", field.Index)
		e.pf("}\n\n")
	case schema.IRMessageRef:
		e.pf("// Set%s sets the %q field to a finalized nested image.\n", fieldName, field.Name)
		e.pf("func (b *%sBuilder) Set%s(image []byte) error {\n", name, fieldName)
		e.pf("\treturn b.b.SetMessage(%d, image)\n", field.Index)
		e.pf("}\n\n")
	case schema.IRVector:
		e.pf("// Set%s sets the %q field, consuming the vector builder.\n", fieldName, field.Name)
		e.pf("func (b *%sBuilder) Set%s(vb *message.VectorBuilder) error {\n", name, fieldName)
		e.pf("\tif vb.ElementTag() != format.%s {\n", tagConstNames[field.Type.Elem.WireTag])
		e.pf("\t\treturn fmt.Errorf(\"vector element tag %%s: %%w\", vb.ElementTag(), errs.ErrElementTypeMismatch)\n")
		e.pf("\t}\n\n")
		e.pf("\treturn b.b.SetVector(%d, vb)\n", field.Index)
		e.pf("}\n\n")
	}
}
