package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/M1tsumi/ZeroProto/gen"
	"github.com/M1tsumi/ZeroProto/internal/hash"
	"github.com/M1tsumi/ZeroProto/internal/logging"
	"github.com/M1tsumi/ZeroProto/schema"
)

// generatedFilePermissions is the file mode for generated sources.
const generatedFilePermissions = 0o644

type compileFlags struct {
	input   string
	output  string
	pkg     string
	include []string
	exclude []string
}

func newCompileCommand() *cobra.Command {
	flags := &compileFlags{}

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile schema files to Go code",
		Long: `Compile .zp schema files to Go source.

Each schema file produces one generated file in the output directory with
typed readers, builders, and enum types for its declarations.

Examples:
  zeroproto compile -i schemas/ -o generated/
  zeroproto compile -i schemas/user.zp -o generated/ --package userpb
  zeroproto compile -i schemas/ -o generated/ --exclude "drafts/**"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompile(cmd, flags)
		},
	}

	addSchemaFlags(cmd, &flags.input, &flags.include, &flags.exclude)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "generated", "output directory for generated code")
	cmd.Flags().StringVar(&flags.pkg, "package", "", "package name for generated code (default: output directory name)")

	return cmd
}

// addSchemaFlags registers the input path and filter flags shared by the
// schema-processing commands.
func addSchemaFlags(cmd *cobra.Command, input *string, include, exclude *[]string) {
	cmd.Flags().StringVarP(input, "input", "i", "", "schema file or directory")
	_ = cmd.MarkFlagRequired("input")
	cmd.Flags().StringArrayVar(include, "include", nil, "glob patterns to include, relative to the input path")
	cmd.Flags().StringArrayVar(exclude, "exclude", nil, "glob patterns to exclude, relative to the input path")
}

func runCompile(cmd *cobra.Command, flags *compileFlags) error {
	logger := logging.Default()

	filters := Filters{Include: flags.include, Exclude: flags.exclude}
	if err := filters.Validate(); err != nil {
		return err
	}

	included, skipped, err := DiscoverSchemas(flags.input, filters)
	if err != nil {
		return err
	}

	if len(skipped) > 0 {
		logger.Debug("filtered out schemas", logging.FieldSkipped, len(skipped))
	}

	if len(included) == 0 {
		logger.Warn("no schema files found", logging.FieldInput, flags.input)

		return nil
	}

	renderer := NewRenderer(shouldColor(cmd))

	var errs []error
	for _, path := range included {
		if err := compileOne(cmd, renderer, path, flags.output, flags.pkg); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// compileOne compiles a single schema file into the output directory. It
// skips regeneration when the existing output carries the same source
// fingerprint.
func compileOne(cmd *cobra.Command, renderer *Renderer, path, outputDir, pkg string) error {
	logger := logging.Default()

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	fingerprint := hash.Fingerprint(src)
	outPath := filepath.Join(outputDir, generatedFileName(path))

	if existing, err := os.ReadFile(outPath); err == nil {
		if fp, ok := gen.HeaderFingerprint(existing); ok && fp == fingerprint {
			logger.Debug("output up to date", logging.FieldPath, path)

			return nil
		}
	}

	ir, err := schema.Compile(string(src))
	if err != nil {
		reportDiagnostic(cmd, renderer, path, string(src), err)

		return err
	}

	code, err := gen.Emit(ir, packageName(pkg, outputDir), fingerprint)
	if err != nil {
		return fmt.Errorf("generate %s: %w", path, err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if err := os.WriteFile(outPath, code, generatedFilePermissions); err != nil {
		return fmt.Errorf("write generated code: %w", err)
	}

	logger.Info("compiled schema",
		logging.FieldPath, path,
		logging.FieldOutput, outPath,
		logging.FieldFingerprint, fmt.Sprintf("%016x", fingerprint),
	)

	return nil
}

// generatedFileName maps a schema path to its generated file name, so
// user.zp becomes user.gen.go.
func generatedFileName(schemaPath string) string {
	base := strings.TrimSuffix(filepath.Base(schemaPath), schemaExt)

	return base + ".gen.go"
}

// packageName resolves the generated package name, falling back to a
// sanitized form of the output directory's base name.
func packageName(pkg, outputDir string) string {
	if pkg != "" {
		return pkg
	}

	base := filepath.Base(filepath.Clean(outputDir))

	var b strings.Builder
	for _, c := range base {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteRune(c)
		case c >= 'A' && c <= 'Z':
			b.WriteRune(c + ('a' - 'A'))
		}
	}

	if b.Len() == 0 || b.String()[0] >= '0' && b.String()[0] <= '9' {
		return "generated"
	}

	return b.String()
}

// reportDiagnostic prints a compile failure, with span rendering when the
// error carries one.
func reportDiagnostic(cmd *cobra.Command, renderer *Renderer, path, src string, err error) {
	if d, ok := schema.AsDiagnostic(err); ok {
		fmt.Fprint(cmd.ErrOrStderr(), renderer.Diagnostic(path, src, d))

		return
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s: error: %v\n", path, err)
}

// shouldColor reports whether styled output is enabled for the command.
func shouldColor(cmd *cobra.Command) bool {
	color, err := cmd.Flags().GetString("color")
	if err != nil {
		return false
	}

	switch color {
	case "always":
		return true
	case "never":
		return false
	default:
		fi, err := os.Stdout.Stat()

		return err == nil && fi.Mode()&os.ModeCharDevice != 0
	}
}
