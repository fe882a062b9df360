// Package callable implements rlox's callable model: a uniform call
// interface shared by the native `clock` builtin and user-defined
// functions.
//
// Grounded on original_source/loxrustlib/src/funcs/{callable,
// clockfunc,loxfunc}.rs: an arity/call trait, a native function
// reading wall-clock time, and a user function that binds its
// parameters into a fresh environment chained off the environment
// captured at definition time.
package callable

import (
	"time"

	"github.com/kristofer/rlox/pkg/ast"
	"github.com/kristofer/rlox/pkg/environment"
	"github.com/kristofer/rlox/pkg/token"
)

// BlockExecutor is the narrow slice of the interpreter that a
// user-defined function needs to run its body: execute a list of
// statements against a given environment and report either the
// function's return value or an error. Defined here (rather than
// importing the interpreter package directly) to avoid a dependency
// cycle between pkg/interpreter and pkg/callable.
type BlockExecutor interface {
	ExecuteFunctionBody(body []ast.Stmt, env *environment.Environment) (interface{}, error)
}

// Callable is anything that can be invoked from a Call expression.
type Callable interface {
	Arity() int
	Call(exec BlockExecutor, args []interface{}) (interface{}, error)
	String() string
}

// Clock is the native `clock()` builtin: zero arguments, returns
// wall-clock seconds since the Unix epoch as a float.
type Clock struct{}

func (Clock) Arity() int { return 0 }

func (Clock) Call(BlockExecutor, []interface{}) (interface{}, error) {
	return float64(time.Now().UnixNano()) / 1e9, nil
}

func (Clock) String() string { return "<fn clock>" }

// Function is a user-defined function: its parameter names, its body
// statements, and the environment chain that was current when the
// `fun` declaration executed. That chain is captured by reference so
// the function keeps write-through access to its enclosing scope's
// variables for as long as the function value is reachable, even
// after the enclosing scope has otherwise exited — this is what makes
// closures work.
type Function struct {
	Name       string
	Parameters []token.Token
	Body       []ast.Stmt
	Closure    *environment.Environment
}

func (f *Function) Arity() int { return len(f.Parameters) }

// Call binds args to the function's parameters in a fresh environment
// whose parent is the captured closure, then executes the body in
// that environment. A `return value;` inside the body is reported to
// Call as the function's result by the BlockExecutor; reaching the
// end of the body without a `return` yields nil.
func (f *Function) Call(exec BlockExecutor, args []interface{}) (interface{}, error) {
	callEnv := environment.New(f.Closure)
	for i, param := range f.Parameters {
		callEnv.Define(param.Lexeme, args[i], true)
	}
	return exec.ExecuteFunctionBody(f.Body, callEnv)
}

func (f *Function) String() string { return "<fn " + f.Name + ">" }
