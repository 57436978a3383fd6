package vm

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxbytecode/cloxgo/internal/compiler"
)

// run compiles and executes src against a fresh VM, returning stdout and
// any error the VM produced.
func run(t *testing.T, src string) (string, error) {
	t.Helper()
	machine := New()
	defer machine.Close()

	var out bytes.Buffer
	machine.Out = &out

	c, err := compiler.Compile(src, machine.Interns())
	require.NoError(t, err, "unexpected compile error")

	runErr := machine.Run(c)
	return out.String(), runErr
}

func TestArithmeticAddition(t *testing.T) {
	out, err := run(t, "print 1 + 2;")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestStringConcatenation(t *testing.T) {
	out, err := run(t, `var a = "st"; var b = "r"; print a + b + "ing";`)
	require.NoError(t, err)
	assert.Equal(t, "string\n", out)
}

func TestWhileLoop(t *testing.T) {
	out, err := run(t, `var x = 0; while (x < 3) { print x; x = x + 1; }`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestIfElseWithShortCircuitAnd(t *testing.T) {
	out, err := run(t, `if (true and 1 < 2) print "y"; else print "n";`)
	require.NoError(t, err)
	assert.Equal(t, "y\n", out)
}

func TestUndefinedGlobalIsRuntimeError(t *testing.T) {
	_, err := run(t, "print undefined;")
	require.Error(t, err)

	var rerr *RuntimeError
	require.True(t, errors.As(err, &rerr))
	assert.Contains(t, rerr.Message, "Undefined variable 'undefined'.")
	assert.Equal(t, 1, rerr.Line)
	assert.Contains(t, rerr.Error(), "[line 1] in script")
}

func TestBlockLocalShadowsGlobal(t *testing.T) {
	out, err := run(t, `var a = 1; { var a = 2; print a; } print a;`)
	require.NoError(t, err)
	assert.Equal(t, "2\n1\n", out)
}

func TestOrFallsThroughToRightOperandWhenLeftIsFalsey(t *testing.T) {
	out, err := run(t, `print false or "fallback";`)
	require.NoError(t, err)
	assert.Equal(t, "fallback\n", out)
}

func TestDivisionByZeroProducesIEEEInfinity(t *testing.T) {
	out, err := run(t, `print 1 / 0;`)
	require.NoError(t, err)
	assert.Equal(t, "inf\n", out)
}

func TestTypeMismatchOnAddIsRuntimeError(t *testing.T) {
	_, err := run(t, `print 1 + "x";`)
	require.Error(t, err)

	var rerr *RuntimeError
	require.True(t, errors.As(err, &rerr))
	assert.Contains(t, rerr.Message, "Operands must be two numbers or two strings.")
}

func TestCompileErrorNeverReachesRun(t *testing.T) {
	machine := New()
	defer machine.Close()
	c, err := compiler.Compile("var = 1;", machine.Interns())
	assert.Error(t, err)
	assert.Nil(t, c, "no chunk is handed on for Run after a compile error")
}

func TestRepeatedRunsAreDeterministic(t *testing.T) {
	const src = `var total = 0; var i = 0; while (i < 5) { total = total + i; i = i + 1; } print total;`
	first, err := run(t, src)
	require.NoError(t, err)
	second, err := run(t, src)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "10\n", first)
}
