package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kristofer/rlox/pkg/parser"
	"github.com/kristofer/rlox/pkg/resolver"
)

// run parses, resolves, and interprets src, returning whatever it
// printed and the first runtime error encountered (if any). Parse and
// resolve errors fail the test outright, since they are not what
// these tests are exercising.
func run(t *testing.T, src string) (string, error) {
	t.Helper()

	p := parser.New(src)
	stmts, err := p.Parse()
	require.NoError(t, err, "unexpected parse error")

	locals, err := resolver.New().Resolve(stmts)
	require.NoError(t, err, "unexpected resolve error")

	var out bytes.Buffer
	interp := New(&out)
	interp.SetLocals(locals)
	runErr := interp.Interpret(stmts)
	return out.String(), runErr
}

func lines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestInterpret_Arithmetic(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, lines(out))
}

func TestInterpret_StringConcatenation(t *testing.T) {
	out, err := run(t, `print "foo" + "bar";`)
	require.NoError(t, err)
	assert.Equal(t, []string{"foobar"}, lines(out))
}

func TestInterpret_PlusStringifiesMixedTypes(t *testing.T) {
	out, err := run(t, `print "foo" + 1;`)
	require.NoError(t, err)
	assert.Equal(t, []string{"foo1"}, lines(out))
}

func TestInterpret_DivisionByZeroIsARuntimeError(t *testing.T) {
	_, err := run(t, `print 1 / 0;`)
	require.Error(t, err)
}

func TestInterpret_Truthiness(t *testing.T) {
	out, err := run(t, `
		if (nil) { print "a"; } else { print "b"; }
		if (false) { print "c"; } else { print "d"; }
		if (0) { print "e"; } else { print "f"; }
		if ("") { print "g"; } else { print "h"; }
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d", "e", "g"}, lines(out))
}

func TestInterpret_LogicalShortCircuit(t *testing.T) {
	out, err := run(t, `
		fun loud(v) { print v; return v; }
		print loud(false) and loud(true);
		print loud(true) or loud(false);
	`)
	require.NoError(t, err)
	// The right-hand side of each expression must not print when the
	// left-hand side already determines the result.
	assert.Equal(t, []string{"false", "false", "true", "true"}, lines(out))
}

func TestInterpret_VariableAssignmentAndScoping(t *testing.T) {
	out, err := run(t, `
		var x = "global";
		{
			var x = "local";
			print x;
		}
		print x;
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"local", "global"}, lines(out))
}

func TestInterpret_AssignmentWritesThroughToEnclosingScope(t *testing.T) {
	out, err := run(t, `
		var x = 1;
		{
			x = 2;
		}
		print x;
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, lines(out))
}

func TestInterpret_UninitializedVariableIsARuntimeError(t *testing.T) {
	_, err := run(t, `
		var x;
		print x + 1;
	`)
	require.Error(t, err)
}

func TestInterpret_AssignToUndeclaredVariableIsARuntimeError(t *testing.T) {
	_, err := run(t, `y = 1;`)
	require.Error(t, err)
}

func TestInterpret_WhileLoop(t *testing.T) {
	out, err := run(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2"}, lines(out))
}

func TestInterpret_ForLoop(t *testing.T) {
	out, err := run(t, `
		for (var i = 0; i < 3; i = i + 1) {
			print i;
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2"}, lines(out))
}

func TestInterpret_FunctionCallAndReturn(t *testing.T) {
	out, err := run(t, `
		fun add(a, b) {
			return a + b;
		}
		print add(2, 3);
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"5"}, lines(out))
}

func TestInterpret_FunctionWithoutReturnYieldsNil(t *testing.T) {
	out, err := run(t, `
		fun f() { var x = 1; }
		print f();
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"nil"}, lines(out))
}

func TestInterpret_Closures(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() {
			var count = 0;
			fun increment() {
				count = count + 1;
				return count;
			}
			return increment;
		}
		var counter = makeCounter();
		print counter();
		print counter();
		print counter();
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, lines(out))
}

func TestInterpret_Recursion(t *testing.T) {
	out, err := run(t, `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print fib(10);
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"55"}, lines(out))
}

func TestInterpret_CallArityMismatchIsARuntimeError(t *testing.T) {
	_, err := run(t, `
		fun f(a, b) { return a + b; }
		f(1);
	`)
	require.Error(t, err)
}

func TestInterpret_CallingANonCallableIsARuntimeError(t *testing.T) {
	_, err := run(t, `
		var x = 1;
		x();
	`)
	require.Error(t, err)
}

func TestInterpret_CommaExpressionYieldsLastValue(t *testing.T) {
	out, err := run(t, `print (1, 2, 3);`)
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, lines(out))
}

func TestInterpret_EqualityAcrossTypesIsFalse(t *testing.T) {
	out, err := run(t, `
		print 1 == "1";
		print nil == false;
		print 1 == 1.0;
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"false", "false", "true"}, lines(out))
}

func TestInterpret_NativeClockIsCallable(t *testing.T) {
	out, err := run(t, `print clock() > 0;`)
	require.NoError(t, err)
	assert.Equal(t, []string{"true"}, lines(out))
}

func TestInterpret_CallableReferenceWinsOverShadowingVariable(t *testing.T) {
	out, err := run(t, `
		var clock = 2;
		print clock;
	`)
	require.NoError(t, err)
	assert.Equal(t, []string{"<fn clock>"}, lines(out))
}

func TestInterpret_RedeclaringAFunctionInTheSameScopeIsARuntimeError(t *testing.T) {
	_, err := run(t, `
		fun f() { print 1; }
		fun f() { print 2; }
		f();
	`)
	require.Error(t, err)
}
