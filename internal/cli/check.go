package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/M1tsumi/ZeroProto/internal/logging"
	"github.com/M1tsumi/ZeroProto/schema"
)

type checkFlags struct {
	input   string
	include []string
	exclude []string
}

func newCheckCommand() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate schema files without generating code",
		Long: `Validate .zp schema files and report diagnostics.

All files are checked even when earlier ones fail, so a single run surfaces
every problem in the schema set.

Examples:
  zeroproto check -i schemas/
  zeroproto check -i schemas/user.zp
  zeroproto check -i schemas/ --include "api/**"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, flags)
		},
	}

	addSchemaFlags(cmd, &flags.input, &flags.include, &flags.exclude)

	return cmd
}

func runCheck(cmd *cobra.Command, flags *checkFlags) error {
	logger := logging.Default()

	filters := Filters{Include: flags.include, Exclude: flags.exclude}
	if err := filters.Validate(); err != nil {
		return err
	}

	included, _, err := DiscoverSchemas(flags.input, filters)
	if err != nil {
		return err
	}

	if len(included) == 0 {
		logger.Warn("no schema files found", logging.FieldInput, flags.input)

		return nil
	}

	renderer := NewRenderer(shouldColor(cmd))

	var errs []error
	for _, path := range included {
		src, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("read schema: %w", err))

			continue
		}

		if err := schema.Check(string(src)); err != nil {
			reportDiagnostic(cmd, renderer, path, string(src), err)
			errs = append(errs, err)

			continue
		}

		logger.Debug("schema valid", logging.FieldPath, path)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "checked %d schema(s), no problems found\n", len(included))

	return nil
}
