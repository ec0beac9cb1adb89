package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/M1tsumi/ZeroProto/schema"
)

// Renderer formats compiler diagnostics for terminal output, pointing a
// caret run at the offending span within its source line.
type Renderer struct {
	color    bool
	errStyle lipgloss.Style
	locStyle lipgloss.Style
	caret    lipgloss.Style
}

// NewRenderer creates a diagnostic renderer. When color is false the output
// is plain text.
func NewRenderer(color bool) *Renderer {
	return &Renderer{
		color:    color,
		errStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		locStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		caret:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func (r *Renderer) styled(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}

	return style.Render(s)
}

// Diagnostic renders one diagnostic against its schema source. The output
// carries the location, the message, the source line, and a caret run under
// the span.
func (r *Renderer) Diagnostic(path, src string, d *schema.Diagnostic) string {
	var b strings.Builder

	loc := fmt.Sprintf("%s:%d:%d", path, d.Span.Line, d.Span.Column)
	b.WriteString(r.styled(r.locStyle, loc))
	b.WriteString(": ")
	b.WriteString(r.styled(r.errStyle, "error"))
	b.WriteString(": ")
	b.WriteString(d.Message)
	b.WriteByte('\n')

	line, ok := sourceLine(src, d.Span.Line)
	if !ok {
		return b.String()
	}

	b.WriteString("    ")
	b.WriteString(line)
	b.WriteByte('\n')

	width := d.Span.Length
	if width < 1 {
		width = 1
	}

	pad := d.Span.Column - 1
	if pad < 0 {
		pad = 0
	}
	if pad > len(line) {
		pad = len(line)
	}

	b.WriteString("    ")
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(r.styled(r.caret, strings.Repeat("^", width)))
	b.WriteByte('\n')

	return b.String()
}

// sourceLine returns the 1-based line of src, with tabs widened to a single
// space so caret columns stay aligned.
func sourceLine(src string, line int) (string, bool) {
	if line < 1 {
		return "", false
	}

	lines := strings.Split(src, "\n")
	if line > len(lines) {
		return "", false
	}

	return strings.ReplaceAll(lines[line-1], "\t", " "), true
}
