package schema

import (
	"errors"
	"fmt"
)

// Span locates a region of schema source for diagnostics. Line and Column are
// 1-based; Offset and Length are in bytes.
type Span struct {
	Line   int
	Column int
	Offset int
	Length int
}

// String formats the span as "line:column".
func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// Diagnostic is a compiler error bound to a source span. It wraps one of the
// errs sentinels so callers can classify with errors.Is while still getting a
// positioned, human-readable message.
type Diagnostic struct {
	Kind    error
	Span    Span
	Message string
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Span, d.Message)
}

// Unwrap exposes the sentinel for errors.Is matching.
func (d *Diagnostic) Unwrap() error {
	return d.Kind
}

// AsDiagnostic extracts the Diagnostic from an error chain, if any.
func AsDiagnostic(err error) (*Diagnostic, bool) {
	var d *Diagnostic
	if errors.As(err, &d) {
		return d, true
	}

	return nil, false
}

func newDiagnostic(kind error, span Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Kind:    kind,
		Span:    span,
		Message: fmt.Sprintf(format, args...),
	}
}
