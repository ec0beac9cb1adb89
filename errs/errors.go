// Package errs defines the sentinel errors shared by the zeroproto runtime
// and compiler packages.
//
// All fallible operations in the module return one of these sentinels, usually
// wrapped with positional context via fmt.Errorf("...: %w", err). Callers
// match with errors.Is:
//
//	if errors.Is(err, errs.ErrTruncated) {
//	    // the buffer ended before the field's payload
//	}
package errs

import "errors"

// Codec errors.
var (
	// ErrOutOfBounds is returned when a decode would read past the end of
	// the buffer.
	ErrOutOfBounds = errors.New("decode out of bounds")

	// ErrInvalidUtf8 is returned when a string payload is not valid UTF-8.
	ErrInvalidUtf8 = errors.New("invalid UTF-8 in string payload")

	// ErrInvalidBool is returned in strict mode when a bool payload is
	// neither 0 nor 1. Non-strict decoding treats any non-zero byte as true.
	ErrInvalidBool = errors.New("invalid bool payload")
)

// Reader errors.
var (
	// ErrTruncatedHeader is returned when the buffer is too short to hold
	// the 2-byte field count.
	ErrTruncatedHeader = errors.New("message truncated before header")

	// ErrTruncatedTable is returned when the buffer is too short to hold
	// the declared field table.
	ErrTruncatedTable = errors.New("message truncated inside field table")

	// ErrMalformedLayout is returned when field-table offsets are not
	// strictly increasing or point outside the payload region.
	ErrMalformedLayout = errors.New("malformed field table layout")

	// ErrFieldIndexOutOfRange is returned when a field index is not less
	// than the message field count.
	ErrFieldIndexOutOfRange = errors.New("field index out of range")

	// ErrTypeMismatch is returned when a field's table tag does not match
	// the accessor's expected type, or when the tag is not a defined type.
	ErrTypeMismatch = errors.New("field type mismatch")

	// ErrTruncated is returned when a field's payload extends past the end
	// of the buffer.
	ErrTruncated = errors.New("field payload truncated")
)

// Builder errors.
var (
	// ErrSparseFields is returned by Finish when the set field indices are
	// not contiguous from zero and sparse images are not permitted.
	ErrSparseFields = errors.New("sparse field indices")

	// ErrMessageTooLarge is returned when the finished image would exceed
	// the 32-bit offset space.
	ErrMessageTooLarge = errors.New("message exceeds 32-bit size limit")

	// ErrDuplicateIndex is returned in strict mode when the same field
	// index is set twice. Non-strict builders overwrite.
	ErrDuplicateIndex = errors.New("field index set twice")

	// ErrFieldCountExceeded is returned when more than 65535 field indices
	// are set on one builder.
	ErrFieldCountExceeded = errors.New("field count exceeds 65535")

	// ErrElementTypeMismatch is returned when a vector access or append
	// does not match the vector's declared element type.
	ErrElementTypeMismatch = errors.New("vector element type mismatch")

	// ErrElementIndexOutOfRange is returned when a vector element index is
	// not less than the vector's count.
	ErrElementIndexOutOfRange = errors.New("vector element index out of range")
)

// Compiler errors. The schema package wraps these in a Diagnostic carrying
// the offending source span.
var (
	// ErrUnexpectedChar is returned by the lexer for a character outside
	// the schema grammar.
	ErrUnexpectedChar = errors.New("unexpected character")

	// ErrParse is returned by the parser when the token stream does not
	// match the grammar.
	ErrParse = errors.New("parse error")

	// ErrDuplicateName is returned when two declarations share a name.
	ErrDuplicateName = errors.New("duplicate declaration name")

	// ErrReservedName is returned when a field or enum uses a reserved name.
	ErrReservedName = errors.New("reserved name")

	// ErrDuplicateField is returned when a message declares the same field
	// name twice.
	ErrDuplicateField = errors.New("duplicate field name")

	// ErrUnknownType is returned when a named type does not resolve to a
	// declaration in the same schema file.
	ErrUnknownType = errors.New("unknown type")

	// ErrNestedVector is returned for vector-of-vector field types.
	ErrNestedVector = errors.New("nested vector type")

	// ErrEnumMissingValue is returned when an enum variant has no explicit
	// discriminant.
	ErrEnumMissingValue = errors.New("enum variant missing value")

	// ErrDuplicateDiscriminant is returned when two variants of one enum
	// share a value.
	ErrDuplicateDiscriminant = errors.New("duplicate enum discriminant")

	// ErrContainmentCycle is returned when a message transitively contains
	// itself by value.
	ErrContainmentCycle = errors.New("message containment cycle")
)
