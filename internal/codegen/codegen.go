// Package codegen lowers an AST module to target program text.
//
// Two interchangeable backends share the Generator contract: Python
// (target A) and JavaScript (target B). Each backend is an exhaustive type
// switch over the closed AST node set, so a node kind a backend cannot
// handle is a compiler bug surfaced as *Error, never a user error. Output
// is deterministic: the same tree always produces the same text.
//
// Generated programs call into an external runtime collaborator through a
// stable name set (module resolution, a generic iteration adapter, and a
// spawn primitive); the generators only emit those calls and never
// implement them.
package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/trif-lang/trif/internal/ast"
	"github.com/trif-lang/trif/internal/diag"
)

// Generator converts a module to target program text.
type Generator interface {
	Generate(module *ast.Module) (string, error)
}

// Error reports an AST node kind a backend does not handle. Given a
// grammar-closed AST this is unreachable; observing it indicates a bug in
// the compiler, not in user input.
type Error struct {
	Backend string
	Node    ast.Node
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s backend: unsupported node %T", e.Backend, e.Node)
}

// ToDiagnostic converts the codegen error into a shared diagnostic structure.
func (e *Error) ToDiagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Stage:    diag.StageCodegen,
		Severity: diag.SeverityError,
		Code:     diag.CodeGenUnsupportedNode,
		Message:  e.Error(),
	}
}

// emitter accumulates indented lines of generated code. Each backend owns
// one per Generate call, so generators are safe for concurrent use from
// separate calls.
type emitter struct {
	sb     strings.Builder
	indent int
}

func (e *emitter) emit(line string) {
	if line != "" {
		e.sb.WriteString(strings.Repeat("    ", e.indent))
	}
	e.sb.WriteString(line)
	e.sb.WriteByte('\n')
}

func (e *emitter) in()  { e.indent++ }
func (e *emitter) out() { e.indent-- }

func (e *emitter) String() string { return e.sb.String() }

// renderNumber renders a numeric literal; integer-valued numbers get no
// fractional part.
func renderNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// quoteString renders a double-quoted literal valid in both target
// languages.
func quoteString(value string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range value {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// bindingName turns a module specifier into a valid target-language
// identifier for alias-less imports ("std.io" -> "std_io").
func bindingName(module string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '-', '/':
			return '_'
		}
		return r
	}, module)
}

// hasMainFunction reports whether the module declares a top-level function
// literally named main. Both backends use it to honor the entry-point
// contract: such a module must invoke main exactly once when run as a
// standalone program, after the rest of the module body.
func hasMainFunction(module *ast.Module) bool {
	for _, stmt := range module.Body {
		if fn, ok := stmt.(*ast.FunctionDef); ok && fn.Name == "main" {
			return true
		}
	}
	return false
}

// endsWithReturn reports whether the last statement of a function body is
// an explicit return; when it is not, backends append an implicit
// "return nothing" so every function has a determinate return value.
func endsWithReturn(body []ast.Stmt) bool {
	if len(body) == 0 {
		return false
	}
	_, ok := body[len(body)-1].(*ast.Return)
	return ok
}
