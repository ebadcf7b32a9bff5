package evaluator

import (
	"bytes"
	"lox/internal/lexer"
	"lox/internal/object"
	"lox/internal/parser"
	"lox/internal/transform"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEval(t *testing.T, input string) (object.Object, string) {
	t.Helper()
	return testEvalEnv(t, input, object.NewEnvironment())
}

func testEvalEnv(t *testing.T, input string, env *object.Environment) (object.Object, string) {
	t.Helper()
	p := parser.New(lexer.New(input))
	tree := p.ParseProgram()
	require.Empty(t, p.Errors(), "parser errors for %q", input)
	program, err := transform.New().Program(tree)
	require.NoError(t, err)

	var out bytes.Buffer
	result := New(env, &out).Eval(program)
	return result, out.String()
}

func requireOutput(t *testing.T, input, expected string) {
	t.Helper()
	result, out := testEval(t, input)
	if errObj, ok := result.(*object.Error); ok {
		t.Fatalf("unexpected runtime error for %q: %s", input, errObj.Inspect())
	}
	assert.Equal(t, expected, out, "input: %s", input)
}

func requireError(t *testing.T, input string, kind object.ErrorKind) *object.Error {
	t.Helper()
	result, _ := testEval(t, input)
	errObj, ok := result.(*object.Error)
	require.True(t, ok, "expected error for %q, got %T (%v)", input, result, result)
	assert.Equal(t, kind, errObj.Kind, "input: %s", input)
	return errObj
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"print 1 + 2;", "3\n"},
		{"print 2 * 3 + 4;", "10\n"},
		{"print 2 + 3 * 4;", "14\n"},
		{"print (2 + 3) * 4;", "20\n"},
		{"print 10 - 15;", "-5\n"},
		{"print -5 + 10;", "5\n"},
		{"print 1.5 + 2;", "3.5\n"},
		{"print 0.1 + 0.2 > 0.3 - 0.1;", "true\n"},
	}

	for _, tt := range tests {
		requireOutput(t, tt.input, tt.expected)
	}
}

func TestDivisionIsFloor(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"print 7 / 2;", "3\n"},
		{"print 10 / 4;", "2\n"},
		{"print -7 / 2;", "-4\n"},
		{"print 7.5 / 2;", "3\n"},
	}

	for _, tt := range tests {
		requireOutput(t, tt.input, tt.expected)
	}
}

func TestDivisionByZero(t *testing.T) {
	requireError(t, "print 1 / 0;", object.TYPE_ERROR)
	requireError(t, "print 1.5 / 0;", object.TYPE_ERROR)
}

func TestWholeResultsPrintWithoutFraction(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"print 4.0;", "4\n"},
		{"print 2.0 + 2.0;", "4\n"},
		{"print 1 / 0.5;", "2\n"},
		{"print 1.5 + 1.5;", "3\n"},
		{"print 0.5;", "0.5\n"},
		{"print 2.5 * 2;", "5\n"},
	}

	for _, tt := range tests {
		requireOutput(t, tt.input, tt.expected)
	}
}

func TestComparisons(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"print 1 < 2;", "true\n"},
		{"print 2 <= 2;", "true\n"},
		{"print 3 > 4;", "false\n"},
		{"print 4 >= 5;", "false\n"},
		{"print 1 == 1.0;", "true\n"},
		{"print 1 != 2;", "true\n"},
		{`print "a" < "b";`, "true\n"},
		{`print "b" >= "ba";`, "false\n"},
		{`print "x" == "x";`, "true\n"},
	}

	for _, tt := range tests {
		requireOutput(t, tt.input, tt.expected)
	}
}

func TestEqualityAcrossTypes(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`print 1 == "1";`, "false\n"},
		{"print nil == false;", "false\n"},
		{"print nil == nil;", "true\n"},
		{"print true == true;", "true\n"},
		{`print "1" != 1;`, "true\n"},
	}

	for _, tt := range tests {
		requireOutput(t, tt.input, tt.expected)
	}
}

func TestStringConcatenation(t *testing.T) {
	requireOutput(t, `print "foo" + "bar";`, "foobar\n")
	requireError(t, `print 1 + "a";`, object.TYPE_ERROR)
	requireError(t, `print "a" * 2;`, object.TYPE_ERROR)
}

func TestUnaryOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"print -5;", "-5\n"},
		{"print --5;", "5\n"},
		{"print -2.5;", "-2.5\n"},
		{"print !true;", "false\n"},
		{"print !nil;", "true\n"},
		{"print !0;", "false\n"},
		{`print !"";`, "false\n"},
	}

	for _, tt := range tests {
		requireOutput(t, tt.input, tt.expected)
	}

	requireError(t, `print -"a";`, object.TYPE_ERROR)
}

func TestTruthiness(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`if (0) print "t"; else print "f";`, "t\n"},
		{`if ("") print "t"; else print "f";`, "t\n"},
		{`if (nil) print "t"; else print "f";`, "f\n"},
		{`if (false) print "t"; else print "f";`, "f\n"},
	}

	for _, tt := range tests {
		requireOutput(t, tt.input, tt.expected)
	}
}

func TestImplicitIntCoercion(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`var i = "42"; print i + 1;`, "43\n"},
		{"var n = 3.9; print n;", "3\n"},
		{"var m = true; print m;", "1\n"},
		{"var k = false; print k;", "0\n"},
		{`var x = "42"; print x;`, "42\n"},
		{"var count = 3.9; print count;", "3.9\n"},
		{"var abc = true; print abc;", "true\n"},
		{`var i = "4x"; print i;`, "4x\n"},
		{"var i = 0; i = 2.9; print i;", "2\n"},
		{"var i = 0; print i = 2.9;", "2\n"},
	}

	for _, tt := range tests {
		requireOutput(t, tt.input, tt.expected)
	}
}

func TestParametersAreNotCoerced(t *testing.T) {
	// coercion is a store-site rule; parameter binding is not a store
	requireOutput(t, "fun f(n) { print n; } f(2.5);", "2.5\n")
}

func TestVariables(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"var a = 1; print a;", "1\n"},
		{"var a; print a;", "nil\n"},
		{"var a = 1; a = a + 1; print a;", "2\n"},
		{"var a = 1; var b = a = 5; print b;", "5\n"},
	}

	for _, tt := range tests {
		requireOutput(t, tt.input, tt.expected)
	}
}

func TestUndefinedVariable(t *testing.T) {
	errObj := requireError(t, "print ghost;", object.UNDEFINED_VARIABLE)
	assert.Contains(t, errObj.Message, "ghost")

	requireError(t, "ghost = 1;", object.UNDEFINED_VARIABLE)
}

func TestBlockScoping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"var a = 1; { var a = 2; print a; } print a;", "2\n1\n"},
		{"var a = 1; { a = 2; } print a;", "2\n"},
	}

	for _, tt := range tests {
		requireOutput(t, tt.input, tt.expected)
	}

	requireError(t, "{ var a = 1; } print a;", object.UNDEFINED_VARIABLE)
}

func TestShortCircuit(t *testing.T) {
	source := `
fun boom() {
	print "side effect";
	return true;
}
print false and boom();
print true or boom();
`
	requireOutput(t, source, "false\ntrue\n")
}

func TestLogicalOperatorsReturnOperands(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"print 1 and 2;", "2\n"},
		{"print nil and 2;", "nil\n"},
		{"print 1 or 2;", "1\n"},
		{"print nil or 2;", "2\n"},
		{`print nil or "fallback";`, "fallback\n"},
	}

	for _, tt := range tests {
		requireOutput(t, tt.input, tt.expected)
	}
}

func TestWhileLoop(t *testing.T) {
	requireOutput(t, "var i = 0; while (i < 3) { print i; i = i + 1; }", "0\n1\n2\n")
	requireOutput(t, "while (false) print 1;", "")
}

func TestDoWhileRunsBodyAtLeastOnce(t *testing.T) {
	requireOutput(t, "var i = 10; do { print i; i = i + 1; } while (i < 5);", "10\n")
	requireOutput(t, "var i = 0; do { print i; i = i + 1; } while (i < 3);", "0\n1\n2\n")
}

func TestForLoop(t *testing.T) {
	requireOutput(t, "for (var i = 0; i < 3; i = i + 1) print i;", "0\n1\n2\n")
	requireOutput(t, "var i = 5; for (i = 0; i < 2; i = i + 1) print i; print i;", "0\n1\n2\n")
}

func TestForLoopVariableIsScoped(t *testing.T) {
	requireError(t, "for (var i = 0; i < 1; i = i + 1) { } print i;", object.UNDEFINED_VARIABLE)
}

func TestFunctions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"fun add(a, b) { return a + b; } print add(1, 2);", "3\n"},
		{"fun f() { return; } print f();", "nil\n"},
		{"fun f() { print 1; } print f();", "1\nnil\n"},
		{"fun f(x) { return x; } print f(f(f(7)));", "7\n"},
	}

	for _, tt := range tests {
		requireOutput(t, tt.input, tt.expected)
	}
}

func TestReturnUnwindsLoops(t *testing.T) {
	source := `
fun find() {
	var i = 0;
	while (true) {
		i = i + 1;
		if (i > 2) {
			return i;
		}
	}
}
print find();
`
	requireOutput(t, source, "3\n")
}

func TestReturnOutsideFunction(t *testing.T) {
	requireError(t, "return 1;", object.CONTROL_ERROR)
	requireError(t, "{ return; }", object.CONTROL_ERROR)
	requireError(t, "if (true) return 1;", object.CONTROL_ERROR)
}

func TestClosures(t *testing.T) {
	source := `
fun makeCounter() {
	var n = 0;
	fun inc() {
		n = n + 1;
		return n;
	}
	return inc;
}
var counter = makeCounter();
print counter();
print counter();
var other = makeCounter();
print other();
`
	requireOutput(t, source, "1\n2\n1\n")
}

func TestClosureSeesLaterMutation(t *testing.T) {
	source := `
var x = 1;
fun show() {
	print x;
}
x = 2;
show();
`
	requireOutput(t, source, "2\n")
}

func TestRecursion(t *testing.T) {
	source := `
fun fib(n) {
	if (n < 2) {
		return n;
	}
	return fib(n - 1) + fib(n - 2);
}
print fib(10);
`
	requireOutput(t, source, "55\n")
}

func TestArityMismatch(t *testing.T) {
	errObj := requireError(t, "fun f(a) { return a; } f(1, 2);", object.ARITY_ERROR)
	assert.Equal(t, "expected 1 arguments but got 2", errObj.Message)

	requireError(t, "fun f(a, b) { return a; } f(1);", object.ARITY_ERROR)
}

func TestNotCallable(t *testing.T) {
	errObj := requireError(t, "var x = 1; x();", object.NOT_CALLABLE)
	assert.Contains(t, errObj.Message, "x")

	requireError(t, `"s"();`, object.NOT_CALLABLE)
}

func TestArgumentsEvaluateLeftToRight(t *testing.T) {
	source := `
fun first() { print 1; return 0; }
fun second() { print 2; return 0; }
fun f(a, b) { return nil; }
f(first(), second());
`
	requireOutput(t, source, "1\n2\n")
}

func TestAttributeErrors(t *testing.T) {
	requireError(t, "var x = 1; print x.field;", object.ATTRIBUTE_ERROR)
	requireError(t, "var x = 1; x.field = 2;", object.ATTRIBUTE_ERROR)
}

func TestInstanceAttributes(t *testing.T) {
	env := object.NewEnvironment()
	env.Define("point", object.NewInstance())

	result, out := testEvalEnv(t, `point.x = 1; point.y = point.x + 2; print point.y;`, env)
	require.NotEqual(t, object.ERROR_OBJ, result.Type(), "unexpected error: %s", result.Inspect())
	assert.Equal(t, "3\n", out)
}

func TestInstanceMissingAttribute(t *testing.T) {
	env := object.NewEnvironment()
	env.Define("point", object.NewInstance())

	result, _ := testEvalEnv(t, "print point.ghost;", env)
	errObj, ok := result.(*object.Error)
	require.True(t, ok)
	assert.Equal(t, object.ATTRIBUTE_ERROR, errObj.Kind)
	assert.Contains(t, errObj.Message, "ghost")
}

func TestSetattrCoercesByAttributeName(t *testing.T) {
	env := object.NewEnvironment()
	env.Define("point", object.NewInstance())

	_, out := testEvalEnv(t, "point.n = 2.9; print point.n;", env)
	assert.Equal(t, "2\n", out)
}

func TestErrorsStopExecution(t *testing.T) {
	_, out := testEval(t, "print 1; print ghost; print 2;")
	assert.Equal(t, "1\n", out)
}

func TestPrintRendering(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"print nil;", "nil\n"},
		{"print true;", "true\n"},
		{`print "hi";`, "hi\n"},
		{"fun f() { } print f;", "fun f()\n"},
	}

	for _, tt := range tests {
		requireOutput(t, tt.input, tt.expected)
	}
}
