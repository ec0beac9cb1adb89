// Package main is the entry point for the zeroproto CLI.
package main

import (
	"os"

	"github.com/M1tsumi/ZeroProto/internal/cli"
	"github.com/M1tsumi/ZeroProto/internal/logging"
)

// Build-time variables set via ldflags.
//
//nolint:gochecknoglobals // ldflags injection requires package-level vars
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	err := rootCmd.Execute()
	code := cli.ExitCode(err)

	if err != nil && code != cli.ExitValidation {
		// Validation failures already printed rendered diagnostics.
		logging.Default().Error("command failed", logging.FieldError, err)
	}

	return code
}
