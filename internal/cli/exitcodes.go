package cli

import (
	"errors"

	"github.com/M1tsumi/ZeroProto/schema"
)

// Exit codes for the zeroproto CLI.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitValidation indicates one or more schemas failed to compile.
	ExitValidation = 1

	// ExitIO indicates a filesystem or watcher failure.
	ExitIO = 2

	// ExitUsage indicates invalid command-line usage.
	ExitUsage = 3
)

// ErrUsage marks command-line usage errors so they map to ExitUsage.
var ErrUsage = errors.New("invalid usage")

// ExitCode classifies an error returned by command execution. Schema
// diagnostics map to ExitValidation, usage errors to ExitUsage, and
// everything else to ExitIO.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	if _, ok := schema.AsDiagnostic(err); ok {
		return ExitValidation
	}

	return ExitIO
}
