package codegen_test

import (
	"strings"
	"testing"

	"github.com/trif-lang/trif/internal/ast"
	"github.com/trif-lang/trif/internal/codegen"
	"github.com/trif-lang/trif/internal/lexer"
	"github.com/trif-lang/trif/internal/parser"
)

func parseModule(t *testing.T, src string) *ast.Module {
	t.Helper()

	tokens, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	module, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return module
}

func generate(t *testing.T, g codegen.Generator, src string) string {
	t.Helper()

	out, err := g.Generate(parseModule(t, src))
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	return out
}

func mustContain(t *testing.T, out string, wants ...string) {
	t.Helper()

	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPythonEntryPointEmittedOnce(t *testing.T) {
	out := generate(t, codegen.NewPythonGenerator(), "export function main() { return 1 }")

	if got := strings.Count(out, "if __name__ == '__main__':"); got != 1 {
		t.Fatalf("entry-point guard appears %d times, want 1:\n%s", got, out)
	}
	// The guard's call is the only main() invocation the generator adds.
	if got := strings.Count(out, "main()\n"); got != 1 {
		t.Fatalf("main() call appears %d times, want 1:\n%s", got, out)
	}
}

func TestPythonExplicitMainCallIsNotDuplicated(t *testing.T) {
	out := generate(t, codegen.NewPythonGenerator(), "fn main() { return 1 }\nmain()")

	// One call from the module body, one inside the guard.
	if got := strings.Count(out, "main()\n"); got != 2 {
		t.Fatalf("main() call appears %d times, want 2:\n%s", got, out)
	}
	if got := strings.Count(out, "if __name__ == '__main__':"); got != 1 {
		t.Fatalf("entry-point guard appears %d times, want 1:\n%s", got, out)
	}
}

func TestPythonNoEntryPointWithoutMain(t *testing.T) {
	out := generate(t, codegen.NewPythonGenerator(), "fn helper() { return 1 }")

	if strings.Contains(out, "__main__") {
		t.Fatalf("entry-point guard emitted for a module without main:\n%s", out)
	}
}

func TestPythonLowering(t *testing.T) {
	src := `import std.io as io
import logger, { formatTime as ft } from "./time"
const limit = 3
export let mode = "fast"
fn work(x) {
    for item in x {
        io.println(item)
    }
    if x && !limit {
        return null
    }
}
spawn work([1, 2])
export default mode
`
	out := generate(t, codegen.NewPythonGenerator(), src)

	mustContain(t, out,
		`io = runtime.import_module("std.io")`,
		`__trif_import_0 = runtime.import_module("./time")`,
		`logger = runtime.extract_default(__trif_import_0)`,
		`ft = runtime.extract_export(__trif_import_0, "formatTime")`,
		"limit = 3  # const",
		`__trif_exports__["mode"] = mode`,
		"def work(x):",
		"for item in runtime.iterate(x):",
		"(x and (not limit))",
		"return None",
		"runtime.spawn(lambda: work([1, 2]))",
		"__trif_default_export__ = mode",
		"runtime.register_module_exports(__name__, __trif_exports__, __trif_default_export__)",
	)
}

func TestPythonImplicitReturn(t *testing.T) {
	out := generate(t, codegen.NewPythonGenerator(), "fn noop() { let x = 1 }")
	mustContain(t, out, "def noop():", "return None")

	// A body already ending in return gets no second one.
	out = generate(t, codegen.NewPythonGenerator(), "fn f() { return 2 }")
	if got := strings.Count(out, "return"); got != 1 {
		t.Fatalf("return appears %d times, want 1:\n%s", got, out)
	}
}

func TestPythonEmptyBlocksStayValid(t *testing.T) {
	out := generate(t, codegen.NewPythonGenerator(), "if ready { } else { done = 1 }\nwhile ready { }")
	if got := strings.Count(out, "pass"); got != 2 {
		t.Fatalf("pass appears %d times, want 2:\n%s", got, out)
	}
}

func TestPythonReexport(t *testing.T) {
	out := generate(t, codegen.NewPythonGenerator(), `export { helper as util } from "./other"`)
	mustContain(t, out,
		`__trif_import_0 = runtime.import_module("./other")`,
		`__trif_exports__["util"] = runtime.extract_export(__trif_import_0, "helper")`,
	)
}

func TestJavaScriptEntryPointEmittedOnce(t *testing.T) {
	out := generate(t, codegen.NewJavaScriptGenerator(), "export function main() { return 1 }")

	if got := strings.Count(out, "main();"); got != 1 {
		t.Fatalf("main(); appears %d times, want 1:\n%s", got, out)
	}
	if !strings.HasSuffix(strings.TrimRight(out, "\n"), "main();") {
		t.Fatalf("entry invocation is not the final statement:\n%s", out)
	}
}

func TestJavaScriptLowering(t *testing.T) {
	src := `import std.io as io
import * as ns from "./m"
let counter = 0
const banner = "Ready"
fn tick(step) {
    counter = counter + step
    return counter
}
for pair in { "a": 1 } {
    io.println(pair)
}
spawn tick(1)
export { tick }
`
	out := generate(t, codegen.NewJavaScriptGenerator(), src)

	mustContain(t, out,
		"import { runtime } from '@trif/lang/runtime.js';",
		`const io = await runtime.importModule("std.io");`,
		`const __trif_import_0 = await runtime.importModule("./m");`,
		"const ns = __trif_import_0;",
		"let counter = 0;",
		`const banner = "Ready";`,
		"function tick(step) {",
		"counter = (counter + step);",
		`for (const pair of runtime.iterate(runtime.makeMap([["a", 1]]))) {`,
		"runtime.spawn(() => tick(1));",
		`__trif_exports__.set("tick", tick);`,
		"export default __trif_default_export__;",
		"export const exports = __trif_exports__;",
	)
}

func TestJavaScriptImplicitReturn(t *testing.T) {
	out := generate(t, codegen.NewJavaScriptGenerator(), "fn noop() { let x = 1 }")
	mustContain(t, out, "return null;")
}

func TestNumberRendering(t *testing.T) {
	out := generate(t, codegen.NewPythonGenerator(), "let a = 5.0\nlet b = 0.5\nlet c = 100")
	mustContain(t, out, "a = 5\n", "b = 0.5\n", "c = 100\n")
}

func TestStringEscapesInOutput(t *testing.T) {
	src := "let s = \"line\\nbreak\\t\\\"q\\\"\""
	for _, g := range []codegen.Generator{codegen.NewPythonGenerator(), codegen.NewJavaScriptGenerator()} {
		out := generate(t, g, src)
		mustContain(t, out, `"line\nbreak\t\"q\""`)
	}
}

func TestAliaslessImportBindingIsSanitized(t *testing.T) {
	out := generate(t, codegen.NewPythonGenerator(), `import "./my-util"`)
	mustContain(t, out, `__my_util = runtime.import_module("./my-util")`)
}

func TestGenerateIsDeterministic(t *testing.T) {
	src := "import a from \"./a\"\nimport b from \"./b\"\nfn main() { return a + b }"
	for _, g := range []codegen.Generator{codegen.NewPythonGenerator(), codegen.NewJavaScriptGenerator()} {
		first := generate(t, g, src)
		second := generate(t, g, src)
		if first != second {
			t.Fatalf("two generations of the same tree differ")
		}
		// The temporary counter restarts for each module.
		mustContain(t, first, "__trif_import_0", "__trif_import_1")
	}
}
