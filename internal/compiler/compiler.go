// Package compiler is the facade over the whole pipeline: source text goes
// through lexing, parsing, optional constant folding, and one code
// generation backend. Each compile call is independent and shares no state,
// so one Compiler may serve concurrent callers.
package compiler

import (
	"fmt"
	"os"

	"github.com/trif-lang/trif/internal/codegen"
	"github.com/trif-lang/trif/internal/lexer"
	"github.com/trif-lang/trif/internal/optimizer"
	"github.com/trif-lang/trif/internal/parser"
)

// Target selects an output form.
type Target string

const (
	// TargetPython emits Python program text.
	TargetPython Target = "python"
	// TargetJavaScript emits an ES module.
	TargetJavaScript Target = "javascript"
	// TargetBytecode emits the UTF-8 bytes of the Python output. It is a
	// byte encoding of a textual target, not an instruction format.
	TargetBytecode Target = "bytecode"
)

// Targets lists the supported targets in presentation order.
func Targets() []Target {
	return []Target{TargetPython, TargetJavaScript, TargetBytecode}
}

// Extension returns the artifact file extension for the target.
func (t Target) Extension() string {
	switch t {
	case TargetJavaScript:
		return ".js"
	case TargetBytecode:
		return ".trifc"
	default:
		return ".py"
	}
}

// UnknownTargetError reports a target name outside the supported set.
type UnknownTargetError struct {
	Target Target
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("unknown target %q", string(e.Target))
}

// Compiler orchestrates the pipeline. The zero value is not usable; call New.
type Compiler struct {
	python     codegen.Generator
	javascript codegen.Generator
}

func New() *Compiler {
	return &Compiler{
		python:     codegen.NewPythonGenerator(),
		javascript: codegen.NewJavaScriptGenerator(),
	}
}

// CompileSource runs the full pipeline over source and returns the target
// output as bytes. Text targets return UTF-8 text; the bytecode target
// returns the same bytes the Python target would.
func (c *Compiler) CompileSource(source string, target Target, optimize bool) ([]byte, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	module, err := parser.Parse(tokens)
	if err != nil {
		return nil, err
	}
	if optimize {
		module = optimizer.Optimize(module)
	}

	switch target {
	case TargetPython, TargetBytecode:
		text, err := c.python.Generate(module)
		if err != nil {
			return nil, err
		}
		return []byte(text), nil
	case TargetJavaScript:
		text, err := c.javascript.Generate(module)
		if err != nil {
			return nil, err
		}
		return []byte(text), nil
	default:
		return nil, &UnknownTargetError{Target: target}
	}
}

// CompileFile reads path as UTF-8 source and compiles it.
func (c *Compiler) CompileFile(path string, target Target, optimize bool) ([]byte, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.CompileSource(string(source), target, optimize)
}
