// Package resolver performs a static scope-resolution pass between
// parsing and interpretation. For every variable reference it
// determines how many enclosing scopes separate the reference from
// the scope that declares it, so pkg/interpreter can look the
// variable up by depth (environment.GetAt/AssignAt) instead of
// walking the live environment chain and guessing.
//
// Grounded on original_source/loxrustlib/src/resolver.rs: a stack of
// scope maps tracking declared-vs-defined, a check that rejects a
// local variable initializer referencing its own name, and a function
// type stack used to reject `return` outside any function.
package resolver

import (
	"fmt"

	"github.com/kristofer/rlox/pkg/ast"
)

type functionType int

const (
	functionNone functionType = iota
	functionFunction
)

// Resolver walks a parsed program and produces a table mapping
// expression IDs (ast.Identifier.ID, ast.Assignment.ID) to the number
// of scopes between the reference and its declaring scope.
type Resolver struct {
	scopes      []map[string]bool
	locals      map[int]int
	currentFunc functionType
	errors      []string
}

// New creates a Resolver.
func New() *Resolver {
	return &Resolver{
		locals:      make(map[int]int),
		currentFunc: functionNone,
	}
}

// Resolve walks the given program and returns the depth table. If any
// static errors were found (self-referencing initializer, re-declared
// name in the same scope, or a top-level `return`), it returns them
// alongside the table built so far.
func (r *Resolver) Resolve(statements []ast.Stmt) (map[int]int, error) {
	r.resolveStmts(statements)
	if len(r.errors) > 0 {
		return r.locals, fmt.Errorf("resolver errors: %v", r.errors)
	}
	return r.locals, nil
}

func (r *Resolver) pushScope() { r.scopes = append(r.scopes, make(map[string]bool)) }

func (r *Resolver) popScope() { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(name string) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name]; ok {
		r.errors = append(r.errors, fmt.Sprintf("variable '%s' already declared in this scope", name))
	}
	scope[name] = false
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

func (r *Resolver) resolveLocal(id int, name string) {
	for depth := len(r.scopes) - 1; depth >= 0; depth-- {
		if _, ok := r.scopes[depth][name]; ok {
			r.locals[id] = len(r.scopes) - 1 - depth
			return
		}
	}
	// Not found in any scope: treated as global, resolved dynamically
	// by the interpreter at call time.
}

func (r *Resolver) resolveStmts(statements []ast.Stmt) {
	for _, s := range statements {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		r.resolveExpr(s.Expression)
	case *ast.PrintStmt:
		r.resolveExpr(s.Expression)
	case *ast.VarDeclStmt:
		r.declare(s.Name.Lexeme)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name.Lexeme)
	case *ast.BlockStmt:
		r.pushScope()
		r.resolveStmts(s.Statements)
		r.popScope()
	case *ast.IfStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *ast.WhileStmt:
		r.resolveExpr(s.Condition)
		r.resolveStmt(s.Body)
	case *ast.FunDeclStmt:
		r.declare(s.Name.Lexeme)
		r.define(s.Name.Lexeme)
		r.resolveFunction(s, functionFunction)
	case *ast.ReturnStmt:
		if r.currentFunc == functionNone {
			r.errors = append(r.errors, fmt.Sprintf("line %d: cannot return from top-level code", s.Keyword.Line))
		}
		r.resolveExpr(s.Value)
	default:
		r.errors = append(r.errors, fmt.Sprintf("resolver: unhandled statement type %T", stmt))
	}
}

func (r *Resolver) resolveFunction(fn *ast.FunDeclStmt, kind functionType) {
	enclosing := r.currentFunc
	r.currentFunc = kind

	r.pushScope()
	for _, param := range fn.Parameters {
		r.declare(param.Lexeme)
		r.define(param.Lexeme)
	}
	r.resolveStmts(fn.Body)
	r.popScope()

	r.currentFunc = enclosing
}

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Identifier:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.errors = append(r.errors, fmt.Sprintf(
					"cannot read local variable '%s' in its own initializer", e.Name.Lexeme))
			}
		}
		r.resolveLocal(e.ID, e.Name.Lexeme)
	case *ast.Assignment:
		r.resolveExpr(e.Value)
		r.resolveLocal(e.ID, e.Target.Lexeme)
	case *ast.Unary:
		r.resolveExpr(e.Operand)
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Grouping:
		r.resolveExpr(e.Inner)
	case *ast.Comma:
		for _, sub := range e.Expressions {
			r.resolveExpr(sub)
		}
	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpr(arg)
		}
	case *ast.LiteralNumber, *ast.LiteralString, *ast.LiteralBoolean, *ast.NilLiteral:
		// no sub-expressions, nothing to resolve
	default:
		r.errors = append(r.errors, fmt.Sprintf("resolver: unhandled expression type %T", expr))
	}
}
