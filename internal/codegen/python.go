package codegen

import (
	"fmt"
	"strings"

	"github.com/trif-lang/trif/internal/ast"
)

// PythonGenerator lowers a module to a standalone Python program. The
// generator itself holds no state; all per-run state lives in a writer
// created inside Generate.
type PythonGenerator struct{}

// NewPythonGenerator returns the Python backend.
func NewPythonGenerator() *PythonGenerator { return &PythonGenerator{} }

func (g *PythonGenerator) Generate(module *ast.Module) (string, error) {
	w := &pythonWriter{}
	w.prologue()
	for _, stmt := range module.Body {
		if err := w.stmt(stmt); err != nil {
			return "", err
		}
	}
	w.epilogue(hasMainFunction(module))
	return w.em.String(), nil
}

type pythonWriter struct {
	em    emitter
	temps int
}

func (w *pythonWriter) nextTemp() string {
	name := fmt.Sprintf("__trif_import_%d", w.temps)
	w.temps++
	return name
}

// prologue makes the program locatable next to its runtime package and
// sets up the export registry the epilogue publishes.
func (w *pythonWriter) prologue() {
	w.em.emit("import pathlib")
	w.em.emit("import sys")
	w.em.emit("_trif_origin = pathlib.Path(__file__).resolve().parent if '__file__' in globals() else pathlib.Path.cwd()")
	w.em.emit("for _candidate in (_trif_origin, _trif_origin.parent):")
	w.em.in()
	w.em.emit("if (_candidate / 'trif_lang').exists():")
	w.em.in()
	w.em.emit("if str(_candidate) not in sys.path:")
	w.em.in()
	w.em.emit("sys.path.insert(0, str(_candidate))")
	w.em.out()
	w.em.emit("break")
	w.em.out()
	w.em.out()
	w.em.emit("from trif_lang.runtime import runtime")
	w.em.emit("__trif_exports__ = {}")
	w.em.emit("__trif_default_export__ = None")
	w.em.emit("")
}

func (w *pythonWriter) epilogue(invokeMain bool) {
	w.em.emit("")
	w.em.emit("runtime.register_module_exports(__name__, __trif_exports__, __trif_default_export__)")
	if invokeMain {
		w.em.emit("")
		w.em.emit("if __name__ == '__main__':")
		w.em.in()
		w.em.emit("main()")
		w.em.out()
	}
}

func (w *pythonWriter) stmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Import:
		name := s.Alias
		if name == "" {
			name = bindingName(s.Module)
		}
		w.em.emit(fmt.Sprintf("%s = runtime.import_module(%s)", name, quoteString(s.Module)))

	case *ast.ImportFrom:
		temp := w.nextTemp()
		w.em.emit(fmt.Sprintf("%s = runtime.import_module(%s)", temp, quoteString(s.Module)))
		if s.Namespace != "" {
			w.em.emit(fmt.Sprintf("%s = %s", s.Namespace, temp))
		}
		if s.Default != "" {
			w.em.emit(fmt.Sprintf("%s = runtime.extract_default(%s)", s.Default, temp))
		}
		for _, spec := range s.Names {
			w.em.emit(fmt.Sprintf("%s = runtime.extract_export(%s, %s)", spec.Alias, temp, quoteString(spec.Name)))
		}

	case *ast.Let:
		value, err := w.expr(s.Value)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("%s = %s", s.Name, value)
		if !s.Mutable {
			line += "  # const"
		}
		w.em.emit(line)
		w.registerExport(s.Name, s.Exported, s.IsDefault)

	case *ast.Assign:
		target, err := w.expr(s.Target)
		if err != nil {
			return err
		}
		value, err := w.expr(s.Value)
		if err != nil {
			return err
		}
		w.em.emit(fmt.Sprintf("%s = %s", target, value))

	case *ast.FunctionDef:
		w.em.emit(fmt.Sprintf("def %s(%s):", s.Name, strings.Join(s.Params, ", ")))
		w.em.in()
		if err := w.block(s.Body); err != nil {
			return err
		}
		if !endsWithReturn(s.Body) {
			w.em.emit("return None")
		}
		w.em.out()
		w.registerExport(s.Name, s.Exported, s.IsDefault)
		w.em.emit("")

	case *ast.ExportNames:
		if s.Source != "" {
			temp := w.nextTemp()
			w.em.emit(fmt.Sprintf("%s = runtime.import_module(%s)", temp, quoteString(s.Source)))
			for _, spec := range s.Names {
				w.em.emit(fmt.Sprintf("__trif_exports__[%s] = runtime.extract_export(%s, %s)",
					quoteString(spec.Alias), temp, quoteString(spec.Name)))
			}
			return nil
		}
		for _, spec := range s.Names {
			w.em.emit(fmt.Sprintf("__trif_exports__[%s] = %s", quoteString(spec.Alias), spec.Name))
		}

	case *ast.ExportDefault:
		value, err := w.expr(s.Value)
		if err != nil {
			return err
		}
		w.em.emit(fmt.Sprintf("__trif_default_export__ = %s", value))

	case *ast.Return:
		if s.Value == nil {
			w.em.emit("return None")
			return nil
		}
		value, err := w.expr(s.Value)
		if err != nil {
			return err
		}
		w.em.emit("return " + value)

	case *ast.If:
		test, err := w.expr(s.Test)
		if err != nil {
			return err
		}
		w.em.emit(fmt.Sprintf("if %s:", test))
		w.em.in()
		if err := w.block(s.Body); err != nil {
			return err
		}
		w.em.out()
		if len(s.Orelse) > 0 {
			w.em.emit("else:")
			w.em.in()
			if err := w.block(s.Orelse); err != nil {
				return err
			}
			w.em.out()
		}

	case *ast.While:
		test, err := w.expr(s.Test)
		if err != nil {
			return err
		}
		w.em.emit(fmt.Sprintf("while %s:", test))
		w.em.in()
		if err := w.block(s.Body); err != nil {
			return err
		}
		w.em.out()

	case *ast.For:
		iterable, err := w.expr(s.Iterable)
		if err != nil {
			return err
		}
		w.em.emit(fmt.Sprintf("for %s in runtime.iterate(%s):", s.Target, iterable))
		w.em.in()
		if err := w.block(s.Body); err != nil {
			return err
		}
		w.em.out()

	case *ast.Spawn:
		call, err := w.expr(s.Call)
		if err != nil {
			return err
		}
		w.em.emit(fmt.Sprintf("runtime.spawn(lambda: %s)", call))

	case *ast.ExprStmt:
		value, err := w.expr(s.Expr)
		if err != nil {
			return err
		}
		w.em.emit(value)

	default:
		return &Error{Backend: "python", Node: stmt}
	}
	return nil
}

// block emits a statement sequence inside an indented suite; an empty body
// becomes pass so the suite stays valid Python.
func (w *pythonWriter) block(body []ast.Stmt) error {
	if len(body) == 0 {
		w.em.emit("pass")
		return nil
	}
	for _, stmt := range body {
		if err := w.stmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (w *pythonWriter) registerExport(name string, exported, isDefault bool) {
	if exported {
		w.em.emit(fmt.Sprintf("__trif_exports__[%s] = %s", quoteString(name), name))
	}
	if isDefault {
		w.em.emit(fmt.Sprintf("__trif_default_export__ = %s", name))
	}
}

func (w *pythonWriter) expr(expr ast.Expr) (string, error) {
	switch e := expr.(type) {
	case *ast.Name:
		return e.ID, nil
	case *ast.Number:
		return renderNumber(e.Value), nil
	case *ast.String:
		return quoteString(e.Value), nil
	case *ast.Boolean:
		if e.Value {
			return "True", nil
		}
		return "False", nil
	case *ast.Null:
		return "None", nil
	case *ast.BinaryOp:
		left, err := w.expr(e.Left)
		if err != nil {
			return "", err
		}
		right, err := w.expr(e.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", left, pythonOperator(e.Op), right), nil
	case *ast.UnaryOp:
		operand, err := w.expr(e.Operand)
		if err != nil {
			return "", err
		}
		if e.Op == "!" {
			return fmt.Sprintf("(not %s)", operand), nil
		}
		return fmt.Sprintf("(%s%s)", e.Op, operand), nil
	case *ast.Call:
		callee, err := w.expr(e.Func)
		if err != nil {
			return "", err
		}
		args, err := w.exprList(e.Args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s(%s)", callee, args), nil
	case *ast.Attribute:
		object, err := w.expr(e.Value)
		if err != nil {
			return "", err
		}
		return object + "." + e.Attr, nil
	case *ast.ListLiteral:
		elements, err := w.exprList(e.Elements)
		if err != nil {
			return "", err
		}
		return "[" + elements + "]", nil
	case *ast.DictLiteral:
		parts := make([]string, len(e.Pairs))
		for i, pair := range e.Pairs {
			key, err := w.expr(pair.Key)
			if err != nil {
				return "", err
			}
			value, err := w.expr(pair.Value)
			if err != nil {
				return "", err
			}
			parts[i] = key + ": " + value
		}
		return "{" + strings.Join(parts, ", ") + "}", nil
	default:
		return "", &Error{Backend: "python", Node: expr}
	}
}

func (w *pythonWriter) exprList(exprs []ast.Expr) (string, error) {
	parts := make([]string, len(exprs))
	for i, expr := range exprs {
		rendered, err := w.expr(expr)
		if err != nil {
			return "", err
		}
		parts[i] = rendered
	}
	return strings.Join(parts, ", "), nil
}

// pythonOperator maps the source operator spelling to Python's. Only the
// logical connectives differ.
func pythonOperator(op string) string {
	switch op {
	case "&&":
		return "and"
	case "||":
		return "or"
	}
	return op
}
