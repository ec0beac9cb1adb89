package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/M1tsumi/ZeroProto/internal/hash"
	"github.com/M1tsumi/ZeroProto/schema"
)

// schemaStats aggregates declaration counts across one or more schemas.
type schemaStats struct {
	Messages  int
	Enums     int
	Fields    int
	Optional  int
	Defaulted int
	Vectors   int
}

func (s *schemaStats) add(other schemaStats) {
	s.Messages += other.Messages
	s.Enums += other.Enums
	s.Fields += other.Fields
	s.Optional += other.Optional
	s.Defaulted += other.Defaulted
	s.Vectors += other.Vectors
}

// collectStats walks the IR and counts declarations and field shapes.
func collectStats(ir *schema.Schema) schemaStats {
	stats := schemaStats{
		Messages: len(ir.Messages),
		Enums:    len(ir.Enums),
	}

	for i := range ir.Messages {
		for j := range ir.Messages[i].Fields {
			field := &ir.Messages[i].Fields[j]
			stats.Fields++

			if field.Optional {
				stats.Optional++
			}
			if field.Default != nil {
				stats.Defaulted++
			}
			if field.Type.Kind == schema.IRVector {
				stats.Vectors++
			}
		}
	}

	return stats
}

type inspectFlags struct {
	input   string
	include []string
	exclude []string
}

func newInspectCommand() *cobra.Command {
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show schema structure and statistics",
		Long: `Inspect .zp schema files and print declaration statistics.

For each schema the command reports message, enum, and field counts along
with the source fingerprint; a run over multiple files ends with aggregate
totals. Verbose mode lists every declaration.

Examples:
  zeroproto inspect -i schemas/
  zeroproto inspect -i schemas/user.zp --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, flags)
		},
	}

	addSchemaFlags(cmd, &flags.input, &flags.include, &flags.exclude)

	return cmd
}

func runInspect(cmd *cobra.Command, flags *inspectFlags) error {
	filters := Filters{Include: flags.include, Exclude: flags.exclude}
	if err := filters.Validate(); err != nil {
		return err
	}

	included, _, err := DiscoverSchemas(flags.input, filters)
	if err != nil {
		return err
	}

	if len(included) == 0 {
		return fmt.Errorf("%w: no schema files found in %s", ErrUsage, flags.input)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	renderer := NewRenderer(shouldColor(cmd))
	out := cmd.OutOrStdout()

	var total schemaStats
	var errs []error

	for _, path := range included {
		src, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("read schema: %w", err))

			continue
		}

		ir, err := schema.Compile(string(src))
		if err != nil {
			reportDiagnostic(cmd, renderer, path, string(src), err)
			errs = append(errs, err)

			continue
		}

		stats := collectStats(ir)
		total.add(stats)

		fmt.Fprintf(out, "%s (fingerprint %016x)\n", path, hash.Fingerprint(src))
		fmt.Fprintf(out, "  messages: %d  enums: %d  fields: %d\n",
			stats.Messages, stats.Enums, stats.Fields)
		fmt.Fprintf(out, "  optional: %d  defaulted: %d  vectors: %d\n",
			stats.Optional, stats.Defaulted, stats.Vectors)

		if verbose {
			printDeclarations(out, ir)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if len(included) > 1 {
		fmt.Fprintf(out, "total: %d schema(s), %d message(s), %d enum(s), %d field(s)\n",
			len(included), total.Messages, total.Enums, total.Fields)
	}

	return nil
}

func printDeclarations(out io.Writer, ir *schema.Schema) {
	for i := range ir.Enums {
		en := &ir.Enums[i]
		fmt.Fprintf(out, "  enum %s (%d variants)\n", en.Name, len(en.Variants))
	}

	for i := range ir.Messages {
		msg := &ir.Messages[i]
		fmt.Fprintf(out, "  message %s (%d fields)\n", msg.Name, len(msg.Fields))

		for j := range msg.Fields {
			field := &msg.Fields[j]
			fmt.Fprintf(out, "    [%d] %s: %s\n", field.Index, field.Name, fieldTypeName(ir, &field.Type))
		}
	}
}

// fieldTypeName renders an IR type the way it was declared in the schema.
func fieldTypeName(ir *schema.Schema, ft *schema.IRType) string {
	switch ft.Kind {
	case schema.IRVector:
		return "[" + fieldTypeName(ir, ft.Elem) + "]"
	case schema.IRMessageRef:
		return ir.Messages[ft.Message].Name
	case schema.IREnumRef:
		return ir.Enums[ft.Enum].Name
	default:
		return ft.WireTag.String()
	}
}
