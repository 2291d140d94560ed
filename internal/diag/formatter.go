package diag

import (
	"fmt"
	"io"
	"strings"
)

// Formatter renders diagnostics as plain text with an optional source
// snippet. The core pipeline never prints; callers (the CLI) decide where
// diagnostics go.
type Formatter struct {
	w io.Writer
}

// NewFormatter creates a formatter writing to w.
func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

// Format writes one diagnostic. When source is non-empty and the span is
// valid, the offending line is echoed with a caret under the column.
func (f *Formatter) Format(d Diagnostic, source string) {
	severity := string(d.Severity)
	if severity == "" {
		severity = string(SeverityError)
	}

	if d.Span.IsValid() {
		fmt.Fprintf(f.w, "%s: %s[%s]: %s\n", d.Span, severity, d.Code, d.Message)
	} else {
		fmt.Fprintf(f.w, "%s[%s]: %s\n", severity, d.Code, d.Message)
	}

	if source == "" || !d.Span.IsValid() {
		return
	}

	lines := strings.Split(source, "\n")
	if d.Span.Line > len(lines) {
		return
	}
	line := lines[d.Span.Line-1]
	fmt.Fprintf(f.w, "  %s\n", line)

	// Tabs keep their width in the caret line so it stays aligned.
	var pad strings.Builder
	for i, r := range line {
		if i >= d.Span.Column-1 {
			break
		}
		if r == '\t' {
			pad.WriteRune('\t')
		} else {
			pad.WriteRune(' ')
		}
	}
	fmt.Fprintf(f.w, "  %s^\n", pad.String())
}
