// Package zeroproto provides a schema-driven binary serialization format with
// zero-copy field access.
//
// A serialized message is a self-describing byte image: a 16-bit field count,
// a field table of type tags and absolute payload offsets, and the payloads
// themselves. Readers resolve any field in O(1) through the table without
// decoding the rest of the message, and string, bytes, and nested-message
// payloads are returned as sub-slices of the input buffer.
//
// # Core Features
//
//   - O(1) field access through an offset table, no sequential decode
//   - Zero-copy string, bytes, message, and vector payloads
//   - Append-only builders that assemble images without intermediate trees
//   - A schema language with messages, enums, vectors, optional fields, and
//     default values
//   - A compiler and code generator producing typed readers and builders
//   - Structural validation of untrusted images; malformed input fails with
//     an error, never a panic
//
// # Basic Usage
//
// Building and reading a message image directly:
//
//	import "github.com/M1tsumi/ZeroProto"
//
//	builder, _ := zeroproto.NewBuilder()
//	_ = builder.SetU64(0, 12345)        // user_id
//	_ = builder.SetString(1, "Alice")   // name
//	_ = builder.SetU8(2, 30)            // age
//	image, _ := builder.Finish()
//
//	reader, _ := zeroproto.NewReader(image)
//	name, _ := reader.ReadString(1) // zero-copy, aliases image
//
// Compiling a schema and generating typed Go code:
//
//	code, err := zeroproto.Generate(`
//	message User {
//	    user_id: u64;
//	    name: string;
//	    age: u8;
//	}
//	`, "userpb")
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the message and
// schema packages, simplifying the most common use cases. For fine-grained
// control use the underlying packages directly:
//
//   - message: untyped readers and builders over message images
//   - schema: the schema compiler (parse, validate, lower)
//   - gen: the Go code generator
//   - wire: the low-level codec shared by all of the above
package zeroproto

import (
	"github.com/M1tsumi/ZeroProto/format"
	"github.com/M1tsumi/ZeroProto/gen"
	"github.com/M1tsumi/ZeroProto/internal/hash"
	"github.com/M1tsumi/ZeroProto/message"
	"github.com/M1tsumi/ZeroProto/schema"
)

// NewReader validates a message image and returns a zero-copy reader over it.
//
// The reader aliases buf: the buffer must not be mutated while decoded
// strings, bytes, or nested readers are live.
//
// Parameters:
//   - buf: The serialized message image.
//   - opts: Optional configuration (see message.ReaderOption).
//
// Returns:
//   - *message.Reader: The validated reader.
//   - error: An error if the image header, field table, or layout is invalid.
//
// Available options:
//   - message.WithStrictBool() rejects bool payloads other than 0 or 1
//
// Example:
//
//	reader, err := zeroproto.NewReader(image)
//	if err != nil {
//	    return err
//	}
//	name, err := reader.ReadString(1)
func NewReader(buf []byte, opts ...message.ReaderOption) (*message.Reader, error) {
	return message.NewReader(buf, opts...)
}

// NewBuilder creates an empty message builder.
//
// Fields may be set in any index order; Finish emits them sorted by index.
// By default the set indices must be contiguous from zero.
//
// Available options:
//   - message.WithAllowSparse() permits gaps in the set field indices
//   - message.WithStrictDuplicates() rejects setting the same index twice
//
// Example:
//
//	builder, err := zeroproto.NewBuilder()
//	if err != nil {
//	    return err
//	}
//	_ = builder.SetU64(0, 42)
//	image, err := builder.Finish()
func NewBuilder(opts ...message.BuilderOption) (*message.Builder, error) {
	return message.NewBuilder(opts...)
}

// NewVectorBuilder creates a builder for a vector payload of the given
// element type. The finished vector is attached to a message field with
// Builder.SetVector.
func NewVectorBuilder(elemTag format.TypeTag) (*message.VectorBuilder, error) {
	return message.NewVectorBuilder(elemTag)
}

// CompileSchema compiles schema source into its intermediate representation.
//
// The pipeline parses, validates, and lowers the source. Validation failures
// return a *schema.Diagnostic carrying the offending source span; match the
// cause with errors.Is against the errs package sentinels.
func CompileSchema(src string) (*schema.Schema, error) {
	return schema.Compile(src)
}

// CheckSchema validates schema source without generating anything.
func CheckSchema(src string) error {
	return schema.Check(src)
}

// Generate compiles schema source and emits Go code for it in the named
// package. The generated file carries typed readers and builders for every
// message and a discriminant type for every enum, with the source fingerprint
// stamped into the header.
//
// Example:
//
//	code, err := zeroproto.Generate(src, "userpb")
//	if err != nil {
//	    return err
//	}
//	_ = os.WriteFile("user.gen.go", code, 0o644)
func Generate(src, pkg string) ([]byte, error) {
	ir, err := schema.Compile(src)
	if err != nil {
		return nil, err
	}

	return gen.Emit(ir, pkg, hash.FingerprintString(src))
}
