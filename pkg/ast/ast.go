// Package ast defines the abstract syntax tree produced by pkg/parser
// and consumed by pkg/resolver and pkg/interpreter.
package ast

import "github.com/kristofer/rlox/pkg/token"

// Node is the interface every AST node implements.
type Node interface {
	TokenLiteral() string
}

// Expr is an expression node. Every expression node constructed by the
// parser carries a unique ID, monotonically assigned within a single
// Parse call; the resolver maps these IDs to lexical depths.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// LiteralNumber is a numeric literal.
type LiteralNumber struct {
	ID    int
	Value float64
}

func (e *LiteralNumber) TokenLiteral() string { return "number" }
func (e *LiteralNumber) exprNode()            {}

// LiteralString is a string literal.
type LiteralString struct {
	ID    int
	Value string
}

func (e *LiteralString) TokenLiteral() string { return "string" }
func (e *LiteralString) exprNode()            {}

// LiteralBoolean is a `true`/`false` literal.
type LiteralBoolean struct {
	ID    int
	Value bool
}

func (e *LiteralBoolean) TokenLiteral() string { return "boolean" }
func (e *LiteralBoolean) exprNode()            {}

// NilLiteral is the `nil` literal.
type NilLiteral struct {
	ID int
}

func (e *NilLiteral) TokenLiteral() string { return "nil" }
func (e *NilLiteral) exprNode()            {}

// Identifier is a variable or function reference.
type Identifier struct {
	ID   int
	Name token.Token
}

func (e *Identifier) TokenLiteral() string { return e.Name.Lexeme }
func (e *Identifier) exprNode()            {}

// Assignment assigns Value to an existing binding named by Target.
type Assignment struct {
	ID     int
	Target token.Token
	Value  Expr
}

func (e *Assignment) TokenLiteral() string { return e.Target.Lexeme }
func (e *Assignment) exprNode()            {}

// Unary is a prefix `-` or `!` expression.
type Unary struct {
	ID      int
	Op      token.Token
	Operand Expr
}

func (e *Unary) TokenLiteral() string { return e.Op.Lexeme }
func (e *Unary) exprNode()            {}

// Binary is an infix arithmetic, equality, or comparison expression.
type Binary struct {
	ID    int
	Left  Expr
	Op    token.Token
	Right Expr
}

func (e *Binary) TokenLiteral() string { return e.Op.Lexeme }
func (e *Binary) exprNode()            {}

// Logical is a short-circuiting `and`/`or` expression.
type Logical struct {
	ID    int
	Left  Expr
	Op    token.Token
	Right Expr
}

func (e *Logical) TokenLiteral() string { return e.Op.Lexeme }
func (e *Logical) exprNode()            {}

// Grouping is a parenthesized expression: `( expr )`.
type Grouping struct {
	ID    int
	Inner Expr
}

func (e *Grouping) TokenLiteral() string { return "group" }
func (e *Grouping) exprNode()            {}

// Comma is `( a , b , c )`: evaluates every expression in order and
// yields the value of the last one. Expressions is never empty.
type Comma struct {
	ID          int
	Expressions []Expr
}

func (e *Comma) TokenLiteral() string { return "," }
func (e *Comma) exprNode()            {}

// Call is a function call: `callee ( arguments... )`.
type Call struct {
	ID         int
	Callee     Expr
	ClosingTok token.Token
	Arguments  []Expr
}

func (e *Call) TokenLiteral() string { return "call" }
func (e *Call) exprNode()            {}

// ExpressionStmt evaluates an expression and discards the result.
type ExpressionStmt struct {
	Expression Expr
}

func (s *ExpressionStmt) TokenLiteral() string { return "expr" }
func (s *ExpressionStmt) stmtNode()            {}

// PrintStmt writes the display form of Expression, followed by a
// newline, to standard output.
type PrintStmt struct {
	Expression Expr
}

func (s *PrintStmt) TokenLiteral() string { return "print" }
func (s *PrintStmt) stmtNode()            {}

// VarDeclStmt declares Name in the current scope, optionally
// initializing it.
type VarDeclStmt struct {
	Name        token.Token
	Initializer Expr // nil if omitted
}

func (s *VarDeclStmt) TokenLiteral() string { return "var" }
func (s *VarDeclStmt) stmtNode()            {}

// BlockStmt is a `{ ... }` block: a new lexical scope around
// Statements.
type BlockStmt struct {
	Statements []Stmt
}

func (s *BlockStmt) TokenLiteral() string { return "block" }
func (s *BlockStmt) stmtNode()            {}

// IfStmt is an `if` statement with an optional `else` branch.
type IfStmt struct {
	Condition  Expr
	Then       Stmt
	Else       Stmt // nil if absent
}

func (s *IfStmt) TokenLiteral() string { return "if" }
func (s *IfStmt) stmtNode()            {}

// WhileStmt repeatedly executes Body while Condition is truthy.
type WhileStmt struct {
	Condition Expr
	Body      Stmt
}

func (s *WhileStmt) TokenLiteral() string { return "while" }
func (s *WhileStmt) stmtNode()            {}

// FunDeclStmt declares a named function.
type FunDeclStmt struct {
	Name       token.Token
	Parameters []token.Token
	Body       []Stmt
}

func (s *FunDeclStmt) TokenLiteral() string { return "fun" }
func (s *FunDeclStmt) stmtNode()            {}

// ReturnStmt unwinds the innermost function call with Value. A bare
// `return;` is parsed with Value set to a NilLiteral.
type ReturnStmt struct {
	Keyword token.Token
	Value   Expr
}

func (s *ReturnStmt) TokenLiteral() string { return "return" }
func (s *ReturnStmt) stmtNode()            {}
