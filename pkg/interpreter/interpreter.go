// Package interpreter tree-walks a resolved rlox program and executes
// it directly against pkg/environment, without compiling to
// pkg/bytecode.
//
// Grounded on original_source/loxrustlib/src/interpreter.rs: eager
// left-to-right evaluation of binary operands, short-circuiting
// `and`/`or`, nil/false as the only falsy values, and a `return`
// that unwinds to the nearest enclosing function call rather than
// propagating as a generic error. That last point is handled by
// giving execute its own (*returnSignal, error) result shape instead
// of folding the unwind into the error channel the way a `panic`-based
// Lox implementation would: a return is data flowing back out of
// execute, not a failure.
package interpreter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/kristofer/rlox/pkg/ast"
	"github.com/kristofer/rlox/pkg/callable"
	"github.com/kristofer/rlox/pkg/diagnostic"
	"github.com/kristofer/rlox/pkg/environment"
	"github.com/kristofer/rlox/pkg/token"
)

// returnSignal carries a function's return value up through execute
// and executeBlock until it reaches the call that should receive it.
type returnSignal struct {
	value interface{}
	line  int
}

// Interpreter holds the state that persists across a REPL session:
// the global environment (and therefore every global variable and
// function a previous line defined) and the static variable-depth
// table produced by pkg/resolver for the program currently running.
type Interpreter struct {
	globals   *environment.Environment
	env       *environment.Environment
	locals    map[int]int
	callStack []string
	out       io.Writer
}

// New creates an Interpreter that writes `print` output to out and
// seeds the global environment with the native `clock` function.
func New(out io.Writer) *Interpreter {
	globals := environment.New(nil)
	globals.DefineCallable("clock", callable.Clock{})
	return &Interpreter{globals: globals, env: globals, out: out}
}

// SetLocals installs the depth table produced by resolver.Resolve for
// the statements about to be interpreted.
func (i *Interpreter) SetLocals(locals map[int]int) {
	if locals == nil {
		locals = make(map[int]int)
	}
	i.locals = locals
}

// Interpret executes a sequence of top-level statements, stopping at
// the first runtime error. A `return` that unwinds all the way to the
// top level is itself a runtime error.
func (i *Interpreter) Interpret(statements []ast.Stmt) error {
	for _, stmt := range statements {
		ret, err := i.execute(stmt)
		if err != nil {
			return err
		}
		if ret != nil {
			return diagnostic.New(ret.line, "Cannot return from top-level code")
		}
	}
	return nil
}

func (i *Interpreter) execute(stmt ast.Stmt) (*returnSignal, error) {
	switch s := stmt.(type) {
	case *ast.ExpressionStmt:
		_, err := i.evaluate(s.Expression)
		return nil, err

	case *ast.PrintStmt:
		v, err := i.evaluate(s.Expression)
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(i.out, stringify(v))
		return nil, nil

	case *ast.VarDeclStmt:
		if s.Initializer != nil {
			v, err := i.evaluate(s.Initializer)
			if err != nil {
				return nil, err
			}
			i.env.Define(s.Name.Lexeme, v, true)
		} else {
			i.env.Define(s.Name.Lexeme, nil, false)
		}
		return nil, nil

	case *ast.BlockStmt:
		return i.executeBlock(s.Statements, environment.New(i.env))

	case *ast.IfStmt:
		cond, err := i.evaluate(s.Condition)
		if err != nil {
			return nil, err
		}
		if isTruthy(cond) {
			return i.execute(s.Then)
		} else if s.Else != nil {
			return i.execute(s.Else)
		}
		return nil, nil

	case *ast.WhileStmt:
		for {
			cond, err := i.evaluate(s.Condition)
			if err != nil {
				return nil, err
			}
			if !isTruthy(cond) {
				return nil, nil
			}
			ret, err := i.execute(s.Body)
			if err != nil {
				return nil, err
			}
			if ret != nil {
				return ret, nil
			}
		}

	case *ast.FunDeclStmt:
		if i.env.HasCallable(s.Name.Lexeme) {
			return nil, diagnostic.New(s.Name.Line, "Function named '%s' already exists", s.Name.Lexeme)
		}
		fn := &callable.Function{
			Name:       s.Name.Lexeme,
			Parameters: s.Parameters,
			Body:       s.Body,
			Closure:    i.env,
		}
		i.env.DefineCallable(s.Name.Lexeme, fn)
		return nil, nil

	case *ast.ReturnStmt:
		v, err := i.evaluate(s.Value)
		if err != nil {
			return nil, err
		}
		return &returnSignal{value: v, line: s.Keyword.Line}, nil

	default:
		return nil, diagnostic.New(0, "interpreter: unhandled statement type %T", stmt)
	}
}

// executeBlock runs statements against env (a fresh child scope for a
// `{ ... }` block), restoring the previous environment on the way out
// regardless of how execution ended.
func (i *Interpreter) executeBlock(statements []ast.Stmt, env *environment.Environment) (*returnSignal, error) {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()

	for _, stmt := range statements {
		ret, err := i.execute(stmt)
		if err != nil {
			return nil, err
		}
		if ret != nil {
			return ret, nil
		}
	}
	return nil, nil
}

// ExecuteFunctionBody implements callable.BlockExecutor: it runs a
// user-defined function's body and converts an unwound return signal
// into the function's ordinary result. A body that runs to completion
// without a `return` yields nil.
func (i *Interpreter) ExecuteFunctionBody(body []ast.Stmt, env *environment.Environment) (interface{}, error) {
	ret, err := i.executeBlock(body, env)
	if err != nil {
		return nil, err
	}
	if ret != nil {
		return ret.value, nil
	}
	return nil, nil
}

func (i *Interpreter) evaluate(expr ast.Expr) (interface{}, error) {
	switch e := expr.(type) {
	case *ast.LiteralNumber:
		return e.Value, nil
	case *ast.LiteralString:
		return e.Value, nil
	case *ast.LiteralBoolean:
		return e.Value, nil
	case *ast.NilLiteral:
		return nil, nil
	case *ast.Grouping:
		return i.evaluate(e.Inner)
	case *ast.Comma:
		var last interface{}
		for _, sub := range e.Expressions {
			v, err := i.evaluate(sub)
			if err != nil {
				return nil, err
			}
			last = v
		}
		return last, nil
	case *ast.Identifier:
		return i.lookUpVariable(e.Name, e.ID)
	case *ast.Assignment:
		return i.evalAssignment(e)
	case *ast.Unary:
		return i.evalUnary(e)
	case *ast.Binary:
		return i.evalBinary(e)
	case *ast.Logical:
		return i.evalLogical(e)
	case *ast.Call:
		return i.evalCall(e)
	default:
		return nil, diagnostic.New(0, "interpreter: unhandled expression type %T", expr)
	}
}

// lookUpVariable resolves an identifier using the resolver's depth
// table when available, falling back to a dynamic walk of the global
// environment for names the resolver left unresolved (top-level
// globals referenced before their declaring line has run, as in a
// REPL session, or forward references to functions).
func (i *Interpreter) lookUpVariable(name token.Token, id int) (interface{}, error) {
	if distance, ok := i.locals[id]; ok {
		if c, ok := i.env.GetCallableAt(distance, name.Lexeme); ok {
			return c, nil
		}
		if v, declared := i.env.GetAt(distance, name.Lexeme); declared {
			return v, nil
		}
		return nil, diagnostic.New(name.Line, "Use of uninitialized variable '%s'", name.Lexeme)
	}

	if c, ok := i.globals.GetCallable(name.Lexeme); ok {
		return c, nil
	}
	if v, ok, declared := i.globals.Get(name.Lexeme); ok {
		return v, nil
	} else if declared {
		return nil, diagnostic.New(name.Line, "Use of uninitialized variable '%s'", name.Lexeme)
	}
	return nil, diagnostic.New(name.Line, "undefined variable '%s'", name.Lexeme)
}

func (i *Interpreter) evalAssignment(e *ast.Assignment) (interface{}, error) {
	v, err := i.evaluate(e.Value)
	if err != nil {
		return nil, err
	}
	if distance, ok := i.locals[e.ID]; ok {
		i.env.AssignAt(distance, e.Target.Lexeme, v)
		return v, nil
	}
	if err := i.globals.Assign(e.Target.Lexeme, v); err != nil {
		return nil, diagnostic.Wrap(e.Target.Line, err)
	}
	return v, nil
}

func (i *Interpreter) evalUnary(e *ast.Unary) (interface{}, error) {
	operand, err := i.evaluate(e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Op.Kind {
	case token.Minus:
		n, ok := operand.(float64)
		if !ok {
			return nil, diagnostic.New(e.Op.Line, "operand of unary '-' must be a number")
		}
		return -n, nil
	case token.Bang:
		return !isTruthy(operand), nil
	default:
		return nil, diagnostic.New(e.Op.Line, "unsupported unary operator %q", e.Op.Lexeme)
	}
}

func (i *Interpreter) evalBinary(e *ast.Binary) (interface{}, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.Plus:
		if ln, ok := left.(float64); ok {
			if rn, ok := right.(float64); ok {
				return ln + rn, nil
			}
		}
		_, leftIsString := left.(string)
		_, rightIsString := right.(string)
		if leftIsString || rightIsString {
			return stringify(left) + stringify(right), nil
		}
		return nil, diagnostic.New(e.Op.Line, "operands of '+' must be two numbers, or at least one string")

	case token.Minus:
		ln, rn, ok := numericOperands(left, right)
		if !ok {
			return nil, diagnostic.New(e.Op.Line, "operands of '-' must be numbers")
		}
		return ln - rn, nil

	case token.Star:
		ln, rn, ok := numericOperands(left, right)
		if !ok {
			return nil, diagnostic.New(e.Op.Line, "operands of '*' must be numbers")
		}
		return ln * rn, nil

	case token.Slash:
		ln, rn, ok := numericOperands(left, right)
		if !ok {
			return nil, diagnostic.New(e.Op.Line, "operands of '/' must be numbers")
		}
		if rn == 0 {
			return nil, diagnostic.New(e.Op.Line, "division by zero")
		}
		return ln / rn, nil

	case token.Greater:
		return compare(left, right, e.Op.Line, func(c int) bool { return c > 0 })
	case token.GreaterEqual:
		return compare(left, right, e.Op.Line, func(c int) bool { return c >= 0 })
	case token.Less:
		return compare(left, right, e.Op.Line, func(c int) bool { return c < 0 })
	case token.LessEqual:
		return compare(left, right, e.Op.Line, func(c int) bool { return c <= 0 })

	case token.EqualEqual:
		return isEqual(left, right), nil
	case token.BangEqual:
		return !isEqual(left, right), nil

	default:
		return nil, diagnostic.New(e.Op.Line, "unsupported binary operator %q", e.Op.Lexeme)
	}
}

func (i *Interpreter) evalLogical(e *ast.Logical) (interface{}, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op.Kind == token.Or {
		if isTruthy(left) {
			return left, nil
		}
	} else {
		if !isTruthy(left) {
			return left, nil
		}
	}
	return i.evaluate(e.Right)
}

func (i *Interpreter) evalCall(e *ast.Call) (interface{}, error) {
	callee, err := i.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]interface{}, 0, len(e.Arguments))
	for _, argExpr := range e.Arguments {
		v, err := i.evaluate(argExpr)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	fn, ok := callee.(callable.Callable)
	if !ok {
		return nil, diagnostic.New(e.ClosingTok.Line, "can only call functions")
	}
	if len(args) != fn.Arity() {
		return nil, diagnostic.New(e.ClosingTok.Line,
			"expected %d arguments but got %d", fn.Arity(), len(args))
	}

	i.callStack = append(i.callStack, fn.String())
	defer func() { i.callStack = i.callStack[:len(i.callStack)-1] }()

	result, err := fn.Call(i, args)
	if err != nil {
		if re, ok := err.(*diagnostic.RuntimeError); ok {
			// The innermost call attaches the stack; enclosing calls keep it.
			if re.Stack == nil {
				re.WithStack(i.callStack)
			}
			return nil, re
		}
		return nil, err
	}
	return result, nil
}

func numericOperands(left, right interface{}) (float64, float64, bool) {
	ln, ok := left.(float64)
	if !ok {
		return 0, 0, false
	}
	rn, ok := right.(float64)
	if !ok {
		return 0, 0, false
	}
	return ln, rn, true
}

// compare orders two same-type operands (numbers, or strings
// lexicographically) and reports whether keep(comparisonResult) holds.
func compare(left, right interface{}, line int, keep func(int) bool) (interface{}, error) {
	if ln, rn, ok := numericOperands(left, right); ok {
		switch {
		case ln < rn:
			return keep(-1), nil
		case ln > rn:
			return keep(1), nil
		default:
			return keep(0), nil
		}
	}
	if ls, ok := left.(string); ok {
		if rs, ok := right.(string); ok {
			switch {
			case ls < rs:
				return keep(-1), nil
			case ls > rs:
				return keep(1), nil
			default:
				return keep(0), nil
			}
		}
	}
	return nil, diagnostic.New(line, "operands must be two numbers or two strings of the same type")
}

func isTruthy(v interface{}) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

func isEqual(a, b interface{}) bool {
	return a == b
}

// stringify renders a runtime value the way `print` displays it.
func stringify(v interface{}) string {
	if v == nil {
		return "nil"
	}
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	case callable.Callable:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}
