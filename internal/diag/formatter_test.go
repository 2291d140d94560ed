package diag

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatWithSourceSnippet(t *testing.T) {
	var buf bytes.Buffer
	d := Diagnostic{
		Stage:    StageParser,
		Severity: SeverityError,
		Code:     CodeParserUnexpectedToken,
		Message:  "expected IDENT but got =",
		Span:     Span{Filename: "main.trif", Line: 2, Column: 5},
	}

	NewFormatter(&buf).Format(d, "let x = 1\nlet = 5\n")

	out := buf.String()
	wantLines := []string{
		"main.trif:2:5: error[PARSER_UNEXPECTED_TOKEN]: expected IDENT but got =",
		"  let = 5",
		"      ^",
	}
	for _, want := range wantLines {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatWithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	d := Diagnostic{
		Stage:   StageCodegen,
		Code:    CodeGenUnsupportedNode,
		Message: "unsupported node",
	}

	NewFormatter(&buf).Format(d, "")

	out := buf.String()
	if !strings.HasPrefix(out, "error[CODEGEN_UNSUPPORTED_NODE]: unsupported node") {
		t.Fatalf("unexpected output: %q", out)
	}
	if strings.Contains(out, "^") {
		t.Fatalf("caret emitted without a span:\n%s", out)
	}
}

func TestFormatCaretAlignsPastTabs(t *testing.T) {
	var buf bytes.Buffer
	d := Diagnostic{
		Severity: SeverityError,
		Code:     CodeLexerUnexpectedChar,
		Message:  "unexpected character '@'",
		Span:     Span{Line: 1, Column: 2},
	}

	NewFormatter(&buf).Format(d, "\t@")

	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected three output lines, got %q", buf.String())
	}
	if lines[2] != "  \t^" {
		t.Fatalf("caret line = %q, want tab-padded caret", lines[2])
	}
}

func TestSpanString(t *testing.T) {
	if got := (Span{Filename: "m.trif", Line: 3, Column: 7}).String(); got != "m.trif:3:7" {
		t.Fatalf("span string = %q", got)
	}
	if got := (Span{Line: 3, Column: 7}).String(); got != "3:7" {
		t.Fatalf("span string = %q", got)
	}
	if (Span{}).IsValid() {
		t.Fatalf("zero span reported valid")
	}
}
