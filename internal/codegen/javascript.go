package codegen

import (
	"fmt"
	"strings"

	"github.com/trif-lang/trif/internal/ast"
)

// JavaScriptGenerator lowers a module to an ES module. Module loading is
// asynchronous in this target, so generated import lines await the runtime.
type JavaScriptGenerator struct{}

// NewJavaScriptGenerator returns the JavaScript backend.
func NewJavaScriptGenerator() *JavaScriptGenerator { return &JavaScriptGenerator{} }

func (g *JavaScriptGenerator) Generate(module *ast.Module) (string, error) {
	w := &jsWriter{}
	w.prologue()
	for _, stmt := range module.Body {
		if err := w.stmt(stmt); err != nil {
			return "", err
		}
	}
	w.epilogue(hasMainFunction(module))
	return w.em.String(), nil
}

type jsWriter struct {
	em    emitter
	temps int
}

func (w *jsWriter) nextTemp() string {
	name := fmt.Sprintf("__trif_import_%d", w.temps)
	w.temps++
	return name
}

func (w *jsWriter) prologue() {
	w.em.emit("import { runtime } from '@trif/lang/runtime.js';")
	w.em.emit("const __trif_exports__ = new Map();")
	w.em.emit("let __trif_default_export__ = null;")
	w.em.emit("")
}

func (w *jsWriter) epilogue(invokeMain bool) {
	w.em.emit("")
	w.em.emit("export default __trif_default_export__;")
	w.em.emit("export const exports = __trif_exports__;")
	if invokeMain {
		w.em.emit("main();")
	}
}

func (w *jsWriter) stmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Import:
		name := s.Alias
		if name == "" {
			name = bindingName(s.Module)
		}
		w.em.emit(fmt.Sprintf("const %s = await runtime.importModule(%s);", name, quoteString(s.Module)))

	case *ast.ImportFrom:
		temp := w.nextTemp()
		w.em.emit(fmt.Sprintf("const %s = await runtime.importModule(%s);", temp, quoteString(s.Module)))
		if s.Namespace != "" {
			w.em.emit(fmt.Sprintf("const %s = %s;", s.Namespace, temp))
		}
		if s.Default != "" {
			w.em.emit(fmt.Sprintf("const %s = runtime.extractDefault(%s);", s.Default, temp))
		}
		for _, spec := range s.Names {
			w.em.emit(fmt.Sprintf("const %s = runtime.extractExport(%s, %s);", spec.Alias, temp, quoteString(spec.Name)))
		}

	case *ast.Let:
		value, err := w.expr(s.Value)
		if err != nil {
			return err
		}
		keyword := "let"
		if !s.Mutable {
			keyword = "const"
		}
		w.em.emit(fmt.Sprintf("%s %s = %s;", keyword, s.Name, value))
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
		w.em.emit(fmt.Sprintf("%s = %s;", target, value))

	case *ast.FunctionDef:
		w.em.emit(fmt.Sprintf("function %s(%s) {", s.Name, strings.Join(s.Params, ", ")))
		w.em.in()
		for _, inner := range s.Body {
			if err := w.stmt(inner); err != nil {
				return err
			}
		}
		if !endsWithReturn(s.Body) {
			w.em.emit("return null;")
		}
		w.em.out()
		w.em.emit("}")
		w.registerExport(s.Name, s.Exported, s.IsDefault)
		w.em.emit("")

	case *ast.ExportNames:
		if s.Source != "" {
			temp := w.nextTemp()
			w.em.emit(fmt.Sprintf("const %s = await runtime.importModule(%s);", temp, quoteString(s.Source)))
			for _, spec := range s.Names {
				w.em.emit(fmt.Sprintf("__trif_exports__.set(%s, runtime.extractExport(%s, %s));",
					quoteString(spec.Alias), temp, quoteString(spec.Name)))
			}
			return nil
		}
		for _, spec := range s.Names {
			w.em.emit(fmt.Sprintf("__trif_exports__.set(%s, %s);", quoteString(spec.Alias), spec.Name))
		}

	case *ast.ExportDefault:
		value, err := w.expr(s.Value)
		if err != nil {
			return err
		}
		w.em.emit(fmt.Sprintf("__trif_default_export__ = %s;", value))

	case *ast.Return:
		if s.Value == nil {
			w.em.emit("return null;")
			return nil
		}
		value, err := w.expr(s.Value)
		if err != nil {
			return err
		}
		w.em.emit(fmt.Sprintf("return %s;", value))

	case *ast.If:
		test, err := w.expr(s.Test)
		if err != nil {
			return err
		}
		w.em.emit(fmt.Sprintf("if (%s) {", test))
		w.em.in()
		for _, inner := range s.Body {
			if err := w.stmt(inner); err != nil {
				return err
			}
		}
		w.em.out()
		if len(s.Orelse) > 0 {
			w.em.emit("} else {")
			w.em.in()
			for _, inner := range s.Orelse {
				if err := w.stmt(inner); err != nil {
					return err
				}
			}
			w.em.out()
		}
		w.em.emit("}")

	case *ast.While:
		test, err := w.expr(s.Test)
		if err != nil {
			return err
		}
		w.em.emit(fmt.Sprintf("while (%s) {", test))
		w.em.in()
		for _, inner := range s.Body {
			if err := w.stmt(inner); err != nil {
				return err
			}
		}
		w.em.out()
		w.em.emit("}")

	case *ast.For:
		iterable, err := w.expr(s.Iterable)
		if err != nil {
			return err
		}
		w.em.emit(fmt.Sprintf("for (const %s of runtime.iterate(%s)) {", s.Target, iterable))
		w.em.in()
		for _, inner := range s.Body {
			if err := w.stmt(inner); err != nil {
				return err
			}
		}
		w.em.out()
		w.em.emit("}")

	case *ast.Spawn:
		call, err := w.expr(s.Call)
		if err != nil {
			return err
		}
		w.em.emit(fmt.Sprintf("runtime.spawn(() => %s);", call))

	case *ast.ExprStmt:
		value, err := w.expr(s.Expr)
		if err != nil {
			return err
		}
		w.em.emit(value + ";")

	default:
		return &Error{Backend: "javascript", Node: stmt}
	}
	return nil
}

func (w *jsWriter) registerExport(name string, exported, isDefault bool) {
	if exported {
		w.em.emit(fmt.Sprintf("__trif_exports__.set(%s, %s);", quoteString(name), name))
	}
	if isDefault {
		w.em.emit(fmt.Sprintf("__trif_default_export__ = %s;", name))
	}
}

func (w *jsWriter) expr(expr ast.Expr) (string, error) {
	switch e := expr.(type) {
	case *ast.Name:
		return e.ID, nil
	case *ast.Number:
		return renderNumber(e.Value), nil
	case *ast.String:
		return quoteString(e.Value), nil
	case *ast.Boolean:
		if e.Value {
			return "true", nil
		}
		return "false", nil
	case *ast.Null:
		return "null", nil
	case *ast.BinaryOp:
		left, err := w.expr(e.Left)
		if err != nil {
			return "", err
		}
		right, err := w.expr(e.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", left, e.Op, right), nil
	case *ast.UnaryOp:
		operand, err := w.expr(e.Operand)
		if err != nil {
			return "", err
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
		// Keys are arbitrary expressions and insertion order matters, so
		// dicts lower to a runtime Map constructor rather than an object
		// literal.
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
			parts[i] = fmt.Sprintf("[%s, %s]", key, value)
		}
		return fmt.Sprintf("runtime.makeMap([%s])", strings.Join(parts, ", ")), nil
	default:
		return "", &Error{Backend: "javascript", Node: expr}
	}
}

func (w *jsWriter) exprList(exprs []ast.Expr) (string, error) {
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
