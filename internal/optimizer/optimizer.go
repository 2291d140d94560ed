// Package optimizer performs small AST rewrites, currently constant folding.
//
// The transform is total (it has no failure mode), pure (the input tree is
// never mutated; a new module is returned), and idempotent. It never folds
// through a Name reference even when that name's binding is a literal:
// there is no constant propagation.
package optimizer

import "github.com/trif-lang/trif/internal/ast"

// Optimize returns a new module with literal-only expressions folded.
// Statement order is preserved.
func Optimize(module *ast.Module) *ast.Module {
	body := make([]ast.Stmt, len(module.Body))
	for i, stmt := range module.Body {
		body[i] = optimizeStmt(stmt)
	}
	return &ast.Module{Body: body}
}

func optimizeStmts(stmts []ast.Stmt) []ast.Stmt {
	if stmts == nil {
		return nil
	}
	out := make([]ast.Stmt, len(stmts))
	for i, stmt := range stmts {
		out[i] = optimizeStmt(stmt)
	}
	return out
}

func optimizeStmt(stmt ast.Stmt) ast.Stmt {
	switch s := stmt.(type) {
	case *ast.Let:
		return &ast.Let{
			Name:      s.Name,
			Value:     optimizeExpr(s.Value),
			Mutable:   s.Mutable,
			Exported:  s.Exported,
			IsDefault: s.IsDefault,
		}
	case *ast.Assign:
		return &ast.Assign{Target: optimizeExpr(s.Target), Value: optimizeExpr(s.Value)}
	case *ast.FunctionDef:
		return &ast.FunctionDef{
			Name:      s.Name,
			Params:    s.Params,
			Body:      optimizeStmts(s.Body),
			Exported:  s.Exported,
			IsDefault: s.IsDefault,
		}
	case *ast.ExportDefault:
		return &ast.ExportDefault{Value: optimizeExpr(s.Value)}
	case *ast.Return:
		if s.Value == nil {
			return s
		}
		return &ast.Return{Value: optimizeExpr(s.Value)}
	case *ast.If:
		return &ast.If{
			Test:   optimizeExpr(s.Test),
			Body:   optimizeStmts(s.Body),
			Orelse: optimizeStmts(s.Orelse),
		}
	case *ast.While:
		return &ast.While{Test: optimizeExpr(s.Test), Body: optimizeStmts(s.Body)}
	case *ast.For:
		return &ast.For{
			Target:   s.Target,
			Iterable: optimizeExpr(s.Iterable),
			Body:     optimizeStmts(s.Body),
		}
	case *ast.Spawn:
		return &ast.Spawn{Call: optimizeCall(s.Call)}
	case *ast.ExprStmt:
		return &ast.ExprStmt{Expr: optimizeExpr(s.Expr)}
	default:
		// Import, ImportFrom, ExportNames carry no expressions.
		return stmt
	}
}

// optimizeExpr rewrites bottom-up: children first, then the parent is
// considered for folding.
func optimizeExpr(expr ast.Expr) ast.Expr {
	switch e := expr.(type) {
	case *ast.BinaryOp:
		left := optimizeExpr(e.Left)
		right := optimizeExpr(e.Right)
		if folded, ok := foldBinary(left, e.Op, right); ok {
			return folded
		}
		return &ast.BinaryOp{Left: left, Op: e.Op, Right: right}
	case *ast.UnaryOp:
		operand := optimizeExpr(e.Operand)
		if folded, ok := foldUnary(e.Op, operand); ok {
			return folded
		}
		return &ast.UnaryOp{Op: e.Op, Operand: operand}
	case *ast.Call:
		return optimizeCall(e)
	case *ast.Attribute:
		return &ast.Attribute{Value: optimizeExpr(e.Value), Attr: e.Attr}
	case *ast.ListLiteral:
		elements := make([]ast.Expr, len(e.Elements))
		for i, element := range e.Elements {
			elements[i] = optimizeExpr(element)
		}
		return &ast.ListLiteral{Elements: elements}
	case *ast.DictLiteral:
		pairs := make([]ast.Pair, len(e.Pairs))
		for i, pair := range e.Pairs {
			pairs[i] = ast.Pair{Key: optimizeExpr(pair.Key), Value: optimizeExpr(pair.Value)}
		}
		return &ast.DictLiteral{Pairs: pairs}
	default:
		// Name, Number, String, Boolean, Null pass through unchanged.
		return expr
	}
}

func optimizeCall(call *ast.Call) *ast.Call {
	args := make([]ast.Expr, len(call.Args))
	for i, arg := range call.Args {
		args[i] = optimizeExpr(arg)
	}
	return &ast.Call{Func: optimizeExpr(call.Func), Args: args}
}

func foldBinary(left ast.Expr, op string, right ast.Expr) (ast.Expr, bool) {
	if l, ok := left.(*ast.Number); ok {
		if r, ok := right.(*ast.Number); ok {
			switch op {
			case "+":
				return &ast.Number{Value: l.Value + r.Value}, true
			case "-":
				return &ast.Number{Value: l.Value - r.Value}, true
			case "*":
				return &ast.Number{Value: l.Value * r.Value}, true
			case "/":
				// Division by a literal zero stays unfolded so the
				// target language's divide-by-zero semantics apply at
				// run time.
				if r.Value != 0 {
					return &ast.Number{Value: l.Value / r.Value}, true
				}
			}
		}
	}
	if l, ok := left.(*ast.String); ok {
		if r, ok := right.(*ast.String); ok && op == "+" {
			return &ast.String{Value: l.Value + r.Value}, true
		}
	}
	return nil, false
}

func foldUnary(op string, operand ast.Expr) (ast.Expr, bool) {
	switch o := operand.(type) {
	case *ast.Number:
		if op == "-" {
			return &ast.Number{Value: -o.Value}, true
		}
	case *ast.Boolean:
		if op == "!" {
			return &ast.Boolean{Value: !o.Value}, true
		}
	}
	return nil, false
}
