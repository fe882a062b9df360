// Package compiler compiles a subset of the Lox-family AST into the
// stack-machine bytecode format defined in pkg/bytecode.
//
// This package is not part of the working interpreter: cmd/rlox always
// runs the tree-walking pkg/interpreter, and nothing in this repo calls
// Compile. It exists as a stub for a future bytecode execution path.
//
// Only a small, literal-and-arithmetic subset of the grammar is
// handled; control flow, calls, and closures are not compiled (they
// would require a real resolver pass over bytecode slots, which the
// stack-machine format here was never extended to support).
package compiler

import (
	"fmt"

	"github.com/kristofer/rlox/pkg/ast"
	"github.com/kristofer/rlox/pkg/bytecode"
)

// Compiler compiles statements into a single Bytecode unit.
type Compiler struct {
	instructions []bytecode.Instruction
	constants    []interface{}
	symbols      map[string]int
	localCount   int
}

// New creates a new compiler.
func New() *Compiler {
	return &Compiler{
		instructions: make([]bytecode.Instruction, 0),
		constants:    make([]interface{}, 0),
		symbols:      make(map[string]int),
		localCount:   0,
	}
}

// Compile compiles a list of top-level statements into bytecode.
func (c *Compiler) Compile(statements []ast.Stmt) (*bytecode.Bytecode, error) {
	for _, stmt := range statements {
		if err := c.compileStatement(stmt); err != nil {
			return nil, err
		}
	}

	c.emit(bytecode.OpReturn, 0)

	return &bytecode.Bytecode{
		Instructions: c.instructions,
		Constants:    c.constants,
	}, nil
}

func (c *Compiler) compileStatement(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		return c.compileExpression(s.Expression)
	case *ast.PrintStmt:
		if err := c.compileExpression(s.Expression); err != nil {
			return err
		}
		c.emit(bytecode.OpPop, 0)
		return nil
	case *ast.VarDeclStmt:
		c.symbols[s.Name.Lexeme] = c.localCount
		c.localCount++
		if s.Initializer != nil {
			if err := c.compileExpression(s.Initializer); err != nil {
				return err
			}
			c.emit(bytecode.OpStoreLocal, c.symbols[s.Name.Lexeme])
		}
		return nil
	default:
		return fmt.Errorf("compiler: unsupported statement type %T", stmt)
	}
}

func (c *Compiler) compileExpression(expr ast.Expr) error {
	switch e := expr.(type) {
	case *ast.LiteralNumber:
		c.emit(bytecode.OpPush, c.addConstant(e.Value))
		return nil
	case *ast.LiteralString:
		c.emit(bytecode.OpPush, c.addConstant(e.Value))
		return nil
	case *ast.LiteralBoolean:
		if e.Value {
			c.emit(bytecode.OpPushTrue, 0)
		} else {
			c.emit(bytecode.OpPushFalse, 0)
		}
		return nil
	case *ast.NilLiteral:
		c.emit(bytecode.OpPushNil, 0)
		return nil
	case *ast.Identifier:
		if idx, ok := c.symbols[e.Name.Lexeme]; ok {
			c.emit(bytecode.OpLoadLocal, idx)
		} else {
			c.emit(bytecode.OpLoadGlobal, c.addConstant(e.Name.Lexeme))
		}
		return nil
	case *ast.Assignment:
		if err := c.compileExpression(e.Value); err != nil {
			return err
		}
		if idx, ok := c.symbols[e.Target.Lexeme]; ok {
			c.emit(bytecode.OpStoreLocal, idx)
		} else {
			c.emit(bytecode.OpStoreGlobal, c.addConstant(e.Target.Lexeme))
		}
		return nil
	case *ast.Grouping:
		return c.compileExpression(e.Inner)
	case *ast.Binary:
		if err := c.compileExpression(e.Left); err != nil {
			return err
		}
		if err := c.compileExpression(e.Right); err != nil {
			return err
		}
		selectorIdx := c.addConstant(e.Op.Lexeme)
		c.emit(bytecode.OpSend, (selectorIdx<<bytecode.SelectorIndexShift)|1)
		return nil
	default:
		return fmt.Errorf("compiler: unsupported expression type %T", expr)
	}
}

func (c *Compiler) emit(op bytecode.Opcode, operand int) {
	c.instructions = append(c.instructions, bytecode.Instruction{Op: op, Operand: operand})
}

func (c *Compiler) addConstant(obj interface{}) int {
	c.constants = append(c.constants, obj)
	return len(c.constants) - 1
}
