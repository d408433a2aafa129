// Package ast defines the abstract syntax tree for zephyr.
package ast

import (
	"zephyr-lang/internal/span"
	"zephyr-lang/internal/token"
)

// ============================================================
// Node interfaces
// ============================================================

// Node is the interface implemented by all AST nodes.
type Node interface {
	nodeNode()
	GetSpan() span.Span
}

// Expr is the interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

// ============================================================
// Base types (embedded to provide common fields)
// ============================================================

// NodeBase provides the common Span field for all AST nodes.
type NodeBase struct {
	Span span.Span
}

func (n NodeBase) nodeNode()          {}
func (n NodeBase) GetSpan() span.Span { return n.Span }

// ExprBase is embedded by all expression nodes.
type ExprBase struct{ NodeBase }

func (ExprBase) exprNode() {}

// StmtBase is embedded by all statement nodes.
type StmtBase struct{ NodeBase }

func (StmtBase) stmtNode() {}

// ============================================================
// Program (top-level AST root)
// ============================================================

// Program represents an entire source file or REPL chunk.
type Program struct {
	NodeBase
	Body []Stmt
}

// ============================================================
// Expressions
// ============================================================

// IdentExpr represents an identifier reference.
type IdentExpr struct {
	ExprBase
	Name string
}

// NumberLiteral represents a numeric literal. All numbers are doubles.
type NumberLiteral struct {
	ExprBase
	Value float64
}

// StringLiteral represents a string literal.
type StringLiteral struct {
	ExprBase
	Value string
}

// BoolLiteral represents true or false.
type BoolLiteral struct {
	ExprBase
	Value bool
}

// NullLiteral represents null.
type NullLiteral struct {
	ExprBase
}

// UndefinedLiteral represents undefined.
type UndefinedLiteral struct {
	ExprBase
}

// BinaryExpr represents a binary operation: a + b, x == y.
type BinaryExpr struct {
	ExprBase
	Op    token.Kind
	Left  Expr
	Right Expr
}

// AssignExpr represents an assignment expression: name = value.
// Only a bare identifier is a valid target.
type AssignExpr struct {
	ExprBase
	Name  string
	Value Expr
}

// CallExpr represents a function call: f(a, b) or obj.method(a).
type CallExpr struct {
	ExprBase
	Callee Expr
	Args   []Expr
}

// MemberExpr represents member access: a.b.
type MemberExpr struct {
	ExprBase
	Object   Expr
	Property string
}

// IndexExpr represents indexing: a[i].
type IndexExpr struct {
	ExprBase
	Object Expr
	Index  Expr
}

// ArrayLiteral represents an array literal: [a, b, c].
type ArrayLiteral struct {
	ExprBase
	Elements []Expr
}

// ObjectLiteral represents an object literal: { key: val, ... }.
// Keys are identifier or string tokens, stored as strings in source order.
type ObjectLiteral struct {
	ExprBase
	Keys   []string
	Values []Expr
}

// AwaitExpr represents await expr. Evaluation is synchronous pass-through.
type AwaitExpr struct {
	ExprBase
	Operand Expr
}

// ============================================================
// Statements
// ============================================================

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	StmtBase
	Expr Expr
}

// VarDeclStmt represents a declaration: let/const/var x = expr.
type VarDeclStmt struct {
	StmtBase
	Name    string
	IsConst bool
	Init    Expr // may be nil if no initializer
}

// FuncDeclStmt represents a function declaration:
// [async] function name(params) { ... }.
type FuncDeclStmt struct {
	StmtBase
	Name    string
	Params  []string
	Body    *BlockStmt
	IsAsync bool // parsed and recorded, no execution effect
}

// ReturnStmt represents a return statement.
type ReturnStmt struct {
	StmtBase
	Value Expr // may be nil
}

// BlockStmt represents a block of statements: { ... }.
type BlockStmt struct {
	StmtBase
	Stmts []Stmt
}

// IfStmt represents an if/else statement. Branches are single statements;
// a braced branch parses as a BlockStmt.
type IfStmt struct {
	StmtBase
	Condition Expr
	Then      Stmt
	Else      Stmt // may be nil
}

// WhileStmt represents a while loop.
type WhileStmt struct {
	StmtBase
	Condition Expr
	Body      Stmt
}

// TryStmt represents a try/catch block.
type TryStmt struct {
	StmtBase
	Body       *BlockStmt
	CatchParam string     // variable name in catch(e), may be empty
	CatchBody  *BlockStmt // may be nil if no catch clause
}

// ThrowStmt represents a throw statement.
type ThrowStmt struct {
	StmtBase
	Value Expr
}
