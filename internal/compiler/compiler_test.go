package compiler_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/trif-lang/trif/internal/compiler"
	"github.com/trif-lang/trif/internal/lexer"
	"github.com/trif-lang/trif/internal/parser"
)

const addProgram = `const a = 1;
const b = 2;

fn add(x, y) {
    return x + y
}

fn main() {
    return add(a, b)
}
`

func TestCompileSourceTargets(t *testing.T) {
	c := compiler.New()

	python, err := c.CompileSource(addProgram, compiler.TargetPython, true)
	if err != nil {
		t.Fatalf("python compile error: %v", err)
	}
	javascript, err := c.CompileSource(addProgram, compiler.TargetJavaScript, true)
	if err != nil {
		t.Fatalf("javascript compile error: %v", err)
	}

	if !strings.Contains(string(python), "def add(x, y):") {
		t.Fatalf("python output missing add definition:\n%s", python)
	}
	if !strings.Contains(string(javascript), "function add(x, y) {") {
		t.Fatalf("javascript output missing add definition:\n%s", javascript)
	}
	if bytes.Equal(python, javascript) {
		t.Fatalf("targets produced identical output")
	}

	// The optimizer must not inline a and b through their names.
	for _, out := range [][]byte{python, javascript} {
		if !strings.Contains(string(out), "add(a, b)") {
			t.Fatalf("bindings were propagated:\n%s", out)
		}
	}
}

func TestBytecodeIsPythonBytes(t *testing.T) {
	c := compiler.New()

	python, err := c.CompileSource(addProgram, compiler.TargetPython, true)
	if err != nil {
		t.Fatalf("python compile error: %v", err)
	}
	bytecode, err := c.CompileSource(addProgram, compiler.TargetBytecode, true)
	if err != nil {
		t.Fatalf("bytecode compile error: %v", err)
	}
	if !bytes.Equal(python, bytecode) {
		t.Fatalf("bytecode differs from the UTF-8 bytes of the python output")
	}
}

func TestUnknownTarget(t *testing.T) {
	_, err := compiler.New().CompileSource("let x = 1", "wasm", true)

	var unknownErr *compiler.UnknownTargetError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("error = %v, want *UnknownTargetError", err)
	}
	if unknownErr.Target != "wasm" {
		t.Fatalf("error target = %q, want wasm", unknownErr.Target)
	}
}

func TestCompileErrorsPropagate(t *testing.T) {
	c := compiler.New()

	_, err := c.CompileSource("let @ = 1", compiler.TargetPython, true)
	var lexErr *lexer.Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("error = %v, want *lexer.Error", err)
	}

	_, err = c.CompileSource("let = 1", compiler.TargetPython, true)
	var synErr *parser.SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("error = %v, want *parser.SyntaxError", err)
	}
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.trif")
	if err := os.WriteFile(path, []byte(addProgram), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	out, err := compiler.New().CompileFile(path, compiler.TargetPython, true)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if !strings.Contains(string(out), "if __name__ == '__main__':") {
		t.Fatalf("output missing entry-point guard:\n%s", out)
	}

	if _, err := compiler.New().CompileFile(filepath.Join(dir, "missing.trif"), compiler.TargetPython, true); err == nil {
		t.Fatalf("compiling a missing file succeeded")
	}
}

func TestObfuscationRoundTrip(t *testing.T) {
	texts := []string{"", "short", strings.Repeat("long text with unicode §ü∂ ", 50)}
	for _, text := range texts {
		encoded := compiler.EncryptOutput(text, "hunter2")
		decoded, err := compiler.DecryptOutput(encoded, "hunter2")
		if err != nil {
			t.Fatalf("decrypt error: %v", err)
		}
		if decoded != text {
			t.Fatalf("round trip changed the text: %q != %q", decoded, text)
		}
	}
}

func TestWrongPassphraseYieldsGarbageSilently(t *testing.T) {
	encoded := compiler.EncryptOutput("def main():\n    return 1\n", "correct")

	decoded, err := compiler.DecryptOutput(encoded, "incorrect")
	if err != nil {
		t.Fatalf("wrong passphrase must not be detected, got error: %v", err)
	}
	if decoded == "def main():\n    return 1\n" {
		t.Fatalf("wrong passphrase reproduced the original text")
	}
}

func TestDecryptRejectsMalformedEncoding(t *testing.T) {
	if _, err := compiler.DecryptOutput("not%valid%base64", "pw"); err == nil {
		t.Fatalf("malformed input decoded without error")
	}
}

func TestEncryptOutputIsTextSafe(t *testing.T) {
	encoded := compiler.EncryptOutput("binary\x00ish\xffdata", "pw")
	for _, r := range encoded {
		ok := r == '-' || r == '_' || r == '=' ||
			(r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !ok {
			t.Fatalf("encoded output contains %q outside the URL-safe alphabet", r)
		}
	}
}
