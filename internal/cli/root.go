// Package cli provides the cobra command structure for the zeroproto
// schema compiler.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/M1tsumi/ZeroProto/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root zeroproto command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var verbose bool
	var color string

	rootCmd := &cobra.Command{
		Use:   "zeroproto",
		Short: "Schema compiler and code generator for the zeroproto wire format",
		Long: `zeroproto compiles .zp schema files into Go code with zero-copy
readers and append-only builders.

Schemas declare messages and enums; the generated code gives every message a
typed reader over its wire image and a builder that assembles images.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})

	rootCmd.AddCommand(newCompileCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "zeroproto %s (commit %s, built %s)\n",
				info.Version, info.Commit, info.Date)
		},
	}
}
