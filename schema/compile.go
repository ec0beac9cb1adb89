// Package schema implements the .zp schema compiler pipeline: lexing,
// recursive-descent parsing, semantic validation, and lowering to the IR
// consumed by code emission.
//
// The pipeline is pure and synchronous. Each stage consumes the previous
// one's output; errors are *Diagnostic values that wrap the errs sentinels
// and carry the offending source span:
//
//	ir, err := schema.Compile(src)
//	if err != nil {
//	    if d, ok := schema.AsDiagnostic(err); ok {
//	        fmt.Printf("%s: %s\n", d.Span, d.Message)
//	    }
//	}
package schema

import (
	"fmt"
	"os"
)

// Compile runs the full pipeline over schema source and returns the lowered
// IR. Errors from any stage are *Diagnostic values.
func Compile(src string) (*Schema, error) {
	file, err := Parse(src)
	if err != nil {
		return nil, err
	}

	if err := Validate(file); err != nil {
		return nil, err
	}

	return Lower(file), nil
}

// CompileFile reads a schema file and compiles it.
func CompileFile(path string) (*Schema, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}

	return Compile(string(src))
}

// Check runs the pipeline for its diagnostics only, discarding the IR.
func Check(src string) error {
	_, err := Compile(src)

	return err
}
