// Package ast defines the syntax tree for Trif modules.
//
// The node set is a closed tagged union: statements implement Stmt,
// expressions implement Expr, and nothing outside this package can add a
// variant. Nodes are pure data with no behavior; tests compare trees with
// reflect.DeepEqual. A tree is built once by the parser, optionally replaced
// wholesale by the optimizer, consumed once by a generator, and discarded.
package ast

// Node represents any AST node.
type Node interface {
	node()
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

// Module represents a parsed compilation unit: an ordered sequence of
// top-level statements. Insertion order is significant and is preserved
// through every transform.
type Module struct {
	Body []Stmt
}

// Specifier is an (imported-or-local name, alias) pair used in named
// import/export lists. Alias equals Name when no alias was written.
type Specifier struct {
	Name  string
	Alias string
}

// Import represents a plain module import:
// `import std.io [as io]` or `import "path" [as alias]`.
type Import struct {
	Module string
	Alias  string // empty when no alias was given
}

// ImportFrom represents the ES-style import forms that carry a trailing
// `from <module>` clause. Any combination of Default, Names, and Namespace
// may be present.
type ImportFrom struct {
	Module    string
	Names     []Specifier // ordered named specifiers
	Default   string      // default-binding name, empty when absent
	Namespace string      // `* as name` binding, empty when absent
}

// Let represents a `let`/`const` binding declaration.
type Let struct {
	Name      string
	Value     Expr
	Mutable   bool // true for let, false for const
	Exported  bool
	IsDefault bool
}

// Assign represents an assignment statement. Target is restricted to
// *Name or *Attribute; the parser enforces this.
type Assign struct {
	Target Expr
	Value  Expr
}

// FunctionDef represents a function declaration.
type FunctionDef struct {
	Name      string
	Params    []string
	Body      []Stmt
	Exported  bool
	IsDefault bool
}

// ExportNames represents `export { local [as exported], ... } [from mod]`.
// Source is the re-export module, empty for plain name lists.
type ExportNames struct {
	Names  []Specifier
	Source string
}

// ExportDefault represents `export default <expr>`.
type ExportDefault struct {
	Value Expr
}

// Return represents a return statement with an optional value.
type Return struct {
	Value Expr // nil when no value was given
}

// If represents a conditional with an optional else body.
type If struct {
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

// While represents a while loop.
type While struct {
	Test Expr
	Body []Stmt
}

// For represents `for <name> in <iterable> { ... }`.
type For struct {
	Target   string
	Iterable Expr
	Body     []Stmt
}

// Spawn wraps exactly one Call expression; the parser rejects anything else.
type Spawn struct {
	Call *Call
}

// ExprStmt represents a bare expression used as a statement.
type ExprStmt struct {
	Expr Expr
}

// Name represents an identifier reference.
type Name struct {
	ID string
}

// Number represents a numeric literal. Values are double precision;
// integer-valued numbers are rendered without a fractional part.
type Number struct {
	Value float64
}

// String represents a string literal, already escape-decoded.
type String struct {
	Value string
}

// Boolean represents true/false.
type Boolean struct {
	Value bool
}

// Null represents the null literal.
type Null struct{}

// BinaryOp represents a binary expression. Op is the source-level operator
// symbol (`+`, `==`, `&&`, ...).
type BinaryOp struct {
	Left  Expr
	Op    string
	Right Expr
}

// UnaryOp represents a prefix expression (`-`, `!`).
type UnaryOp struct {
	Op      string
	Operand Expr
}

// Call represents a function call.
type Call struct {
	Func Expr
	Args []Expr
}

// Attribute represents member access `object.name`.
type Attribute struct {
	Value Expr
	Attr  string
}

// ListLiteral represents `[a, b, ...]` with source element order preserved.
type ListLiteral struct {
	Elements []Expr
}

// Pair is one key/value entry of a dict literal. Keys are arbitrary
// expressions, not just literals.
type Pair struct {
	Key   Expr
	Value Expr
}

// DictLiteral represents `{ key: value, ... }` with source pair order
// preserved.
type DictLiteral struct {
	Pairs []Pair
}

func (*Import) node()        {}
func (*ImportFrom) node()    {}
func (*Let) node()           {}
func (*Assign) node()        {}
func (*FunctionDef) node()   {}
func (*ExportNames) node()   {}
func (*ExportDefault) node() {}
func (*Return) node()        {}
func (*If) node()            {}
func (*While) node()         {}
func (*For) node()           {}
func (*Spawn) node()         {}
func (*ExprStmt) node()      {}
func (*Name) node()          {}
func (*Number) node()        {}
func (*String) node()        {}
func (*Boolean) node()       {}
func (*Null) node()          {}
func (*BinaryOp) node()      {}
func (*UnaryOp) node()       {}
func (*Call) node()          {}
func (*Attribute) node()     {}
func (*ListLiteral) node()   {}
func (*DictLiteral) node()   {}

func (*Import) stmtNode()        {}
func (*ImportFrom) stmtNode()    {}
func (*Let) stmtNode()           {}
func (*Assign) stmtNode()        {}
func (*FunctionDef) stmtNode()   {}
func (*ExportNames) stmtNode()   {}
func (*ExportDefault) stmtNode() {}
func (*Return) stmtNode()        {}
func (*If) stmtNode()            {}
func (*While) stmtNode()         {}
func (*For) stmtNode()           {}
func (*Spawn) stmtNode()         {}
func (*ExprStmt) stmtNode()      {}

func (*Name) exprNode()        {}
func (*Number) exprNode()      {}
func (*String) exprNode()      {}
func (*Boolean) exprNode()     {}
func (*Null) exprNode()        {}
func (*BinaryOp) exprNode()    {}
func (*UnaryOp) exprNode()     {}
func (*Call) exprNode()        {}
func (*Attribute) exprNode()   {}
func (*ListLiteral) exprNode() {}
func (*DictLiteral) exprNode() {}
