package internal

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkExpression(t *testing.T, exp string, result string) {
	t.Helper()
	tp := &testPrinter{}
	tr := &testReporter{}
	RunSourceWithPrinter("print "+exp+";", tp, tr)
	require.Empty(t, tr.errors, exp)
	require.Empty(t, tr.runtime, exp)
	if !tp.Equals(result) {
		t.Errorf(
			"Error on: \n%s\n\tResult should be equal to %s instead of %s",
			exp,
			result,
			tp.printed,
		)
	}
}

func checkStatements(t *testing.T, code string, result string) {
	t.Helper()
	tp := &testPrinter{}
	tr := &testReporter{}
	ok := RunSourceWithPrinter(code, tp, tr)
	require.Empty(t, tr.errors, code)
	require.Empty(t, tr.runtime, code)
	assert.True(t, ok, code)
	if !tp.Equals(result) {
		t.Errorf(
			"Error on: \n%s\n\toutput should be equal to\n%s\ninstead of\n%s",
			code,
			result,
			tp.printed,
		)
	}
}

func checkErrorMsg(t *testing.T, source string, errorMsg string, line int) *RuntimeError {
	t.Helper()
	tp := &testPrinter{}
	tr := &testReporter{}
	ok := RunSourceWithPrinter(source, tp, tr)
	assert.False(t, ok, source)
	require.Empty(t, tr.errors, source)
	require.Len(t, tr.runtime, 1, source)
	assert.Equal(t, errorMsg, tr.runtime[0].Message, source)
	assert.Equal(t, line, tr.runtime[0].Line(), source)
	return tr.runtime[0]
}

func TestExpressions(t *testing.T) {

	// Arithmethic
	{
		checkExpression(t, "1", "1")
		checkExpression(t, "-1", "-1")
		checkExpression(t, "1 + 2 * 3", "7")
		checkExpression(t, "(1 + 2) * 3", "9")
		checkExpression(t, "7 - 10", "-3")
		checkExpression(t, "10 / 4", "2.5")
		checkExpression(t, "1 / 3", "0.3333333333333333")
		checkExpression(t, "1000000 * 1000000", "1000000000000")
		checkExpression(t, "1000000000 * 1000000000000", "1e+21")
		checkExpression(t, "1 / 0", "inf")
		checkExpression(t, "1.50", "1.5")
	}

	// Double negation
	{
		for _, x := range []string{"0", "1", "2.5", "123456.789"} {
			checkExpression(t, "-(-("+x+")) == "+x, "true")
		}
		checkExpression(t, "- -2.5", "2.5")
	}

	// Strings
	{
		checkExpression(t, `"foo" + "bar"`, "foobar")
		checkExpression(t, `""`, "")
	}

	// Comparison and equality
	{
		checkExpression(t, "1 < 2", "true")
		checkExpression(t, "2 <= 2", "true")
		checkExpression(t, "3 > 4", "false")
		checkExpression(t, "3 >= 4", "false")
		checkExpression(t, "1 == 1", "true")
		checkExpression(t, `1 == "1"`, "false")
		checkExpression(t, "nil == nil", "true")
		checkExpression(t, "nil == false", "false")
		checkExpression(t, "false == nil", "false")
		checkExpression(t, `"a" != "a"`, "false")
		checkExpression(t, `"a" == "a"`, "true")
		checkExpression(t, "true != false", "true")
	}

	// Truthiness
	{
		checkExpression(t, "!nil", "true")
		checkExpression(t, "!0", "false")
		checkExpression(t, `!""`, "false")
		checkExpression(t, "!true", "false")
	}

	// Logical operators return the deciding operand
	{
		checkExpression(t, "nil or 3", "3")
		checkExpression(t, `"a" or 3`, "a")
		checkExpression(t, "nil and 3", "nil")
		checkExpression(t, "1 and 2", "2")
		checkExpression(t, "false or false", "false")
		checkExpression(t, "0 and \"zero\"", "zero")
	}

	// Natives
	{
		checkExpression(t, "clock() > 0", "true")
		checkExpression(t, "clock", "<native fn>")
	}
}

func TestStatements(t *testing.T) {
	// Shadowing
	checkStatements(t, "var a = 1; { var a = 2; print a; } print a;", lines("2", "1"))

	// Assignment reaches the enclosing scope
	checkStatements(t, "var a = 1; { a = 2; } print a;", "2")

	// Redefinition replaces the binding
	checkStatements(t, "var a = 1; var a = a + 1; print a;", "2")

	// Uninitialized variables are nil
	checkStatements(t, "var a; print a;", "nil")

	// Assignment is an expression
	checkStatements(t, "var a; var b; a = b = 3; print a + b;", "6")

	// If / else
	checkStatements(t, "if (1 > 2) print 1; else print 2;", "2")
	checkStatements(t, "if (nil) print 1; print \"done\";", "done")

	// While
	checkStatements(t, `
var i = 0;
var sum = 0;
while (i < 5) {
	sum = sum + i;
	i = i + 1;
}
print sum;`, "10")

	// For
	checkStatements(t, "for (var i = 0; i < 3; i = i + 1) print i;", lines("0", "1", "2"))

	// The loop variable lives in the loop scope
	checkStatements(t, "var i = 9; for (var i = 0; i < 1; i = i + 1) {} print i;", "9")

	// Short circuit skips side effects
	checkStatements(t, "var a = 1; false and (a = 2); true or (a = 3); print a;", "1")
}

func TestFunctions(t *testing.T) {
	checkStatements(t, "fun add(a, b) { return a + b; } print add(1, 2);", "3")
	checkStatements(t, "fun add(a, b) {} print add;", "<fn add>")
	checkStatements(t, "fun f() {} print f();", "nil")
	checkStatements(t, "fun f() { return; print 1; } print f();", "nil")

	// Recursion
	checkStatements(t, `
fun fib(n) {
	if (n < 2) return n;
	return fib(n - 1) + fib(n - 2);
}
print fib(10);`, "55")

	// Return unwinds nested blocks and loops
	checkStatements(t, `
fun find() {
	var i = 0;
	while (true) {
		{
			if (i == 3) return i;
		}
		i = i + 1;
	}
}
print find();`, "3")

	checkStatements(t, `
fun first() {
	for (var i = 10; i < 20; i = i + 1) {
		if (i > 12) return i;
	}
}
print first();
print "after";`, lines("13", "after"))

	// Names are resolved when the body runs
	checkStatements(t, `
fun a() { return b(); }
fun b() { return "b"; }
print a();`, "b")

	// Closures see later assignments
	checkStatements(t, `
var x = 1;
fun get() { return x; }
x = 2;
print get();`, "2")

	// Functions are values
	checkStatements(t, `
fun twice(f, x) { return f(f(x)); }
fun inc(n) { return n + 1; }
print twice(inc, 5);`, "7")

	// A return at the top level ends the program
	checkStatements(t, "print 1; return; print 2;", "1")
}

func TestClosures(t *testing.T) {
	checkStatements(t, `
fun makeCounter() {
	var i = 0;
	fun count() {
		i = i + 1;
		return i;
	}
	return count;
}
var c1 = makeCounter();
var c2 = makeCounter();
print c1();
print c1();
print c2();
print c1();
print c2();`, lines("1", "2", "1", "3", "2"))

	// Two closures sharing one scope
	checkStatements(t, `
var get;
var set;
fun pair() {
	var v = "a";
	fun g() { return v; }
	fun s(n) { v = n; }
	get = g;
	set = s;
}
pair();
set("b");
print get();`, "b")
}

func TestClasses(t *testing.T) {
	checkStatements(t, `
class Counter {
	inc() {
		this.n = this.n + 1;
		return this.n;
	}
	show() {
		print this.n;
	}
}
var c = Counter();
c.n = 0;
c.inc();
c.inc();
c.show();
print c;
print Counter;
var m = c.inc;
print m();
print c.n;`, lines("2", "Counter instance", "Counter", "3", "3"))

	// Fields shadow methods
	checkStatements(t, `
class A { m() { return "method"; } }
var a = A();
print a.m();
a.m = "field";
print a.m;`, lines("method", "field"))

	// Every get binds a fresh method value
	checkStatements(t, `
class A { m() {} }
var a = A();
print a.m == a.m;
print a.m;`, lines("false", "<fn m>"))

	// Methods may refer to their class by name
	checkStatements(t, `
class A { make() { return A(); } }
print A().make();`, "A instance")

	// Bound methods keep their instance
	checkStatements(t, `
class Greeter {
	greet() { return "hi " + this.name; }
}
var g = Greeter();
g.name = "bob";
var f = g.greet;
g = nil;
print f();`, "hi bob")

	// Instances are independent
	checkStatements(t, `
class Box {}
var a = Box();
var b = Box();
a.v = 1;
b.v = 2;
print a.v;
print b.v;`, lines("1", "2"))

	// Set evaluates to the assigned value
	checkStatements(t, "class Box {} var b = Box(); print b.v = 4;", "4")
}

func TestRuntimeErrors(t *testing.T) {
	// Expression errors
	{
		checkErrorMsg(t, `print -"a";`, "Operand must be a number.", 1)
		checkErrorMsg(t, `print 1 + "a";`, "Operands must be two numbers or two strings.", 1)
		checkErrorMsg(t, `print "a" + nil;`, "Operands must be two numbers or two strings.", 1)
		checkErrorMsg(t, `print 1 < "a";`, "Operands must be numbers.", 1)
		checkErrorMsg(t, `print "a" * 2;`, "Operands must be numbers.", 1)
		checkErrorMsg(t, "print x;", "Undefined variable 'x'.", 1)
		checkErrorMsg(t, "x = 1;", "Undefined variable 'x'.", 1)
		checkErrorMsg(t, `"a"();`, "Can only call functions and classes.", 1)
		checkErrorMsg(t, "nil();", "Can only call functions and classes.", 1)
	}

	// Arity is reported at the call site
	{
		err := checkErrorMsg(t, "fun f(a, b) {}\n\nf(1);", "Expected 2 arguments but got 1.", 3)
		assert.Equal(t, ")", err.Token.Lexeme())
		checkErrorMsg(t, "clock(1);", "Expected 0 arguments but got 1.", 1)
		checkErrorMsg(t, "class A {}\nA(1);", "Expected 0 arguments but got 1.", 2)
	}

	// Properties
	{
		checkErrorMsg(t, "var a = 1; print a.b;", "Only instances have properties.", 1)
		checkErrorMsg(t, "var a = 1; a.b = 2;", "Only instances have fields.", 1)
		checkErrorMsg(t, "class A {}\nprint A().x;", "Undefined property 'x'.", 2)
		checkErrorMsg(t, "class A {}\nprint A.x;", "Only instances have properties.", 2)
	}

	// Unbounded recursion
	{
		err := checkErrorMsg(t, "fun f() { f(); }\nf();", "Stack overflow.", 1)
		assert.True(t, errors.Is(err, errStackOverflow))
		checkErrorMsg(t, "fun f(n) { return f(n + 1) + 1; }\n\nprint f(0);", "Stack overflow.", 1)
	}

	// Errors are matched by kind
	{
		err := checkErrorMsg(t, "print y;", "Undefined variable 'y'.", 1)
		assert.True(t, errors.Is(err, errUndefinedVar))
		err = checkErrorMsg(t, "print 1 + nil;", "Operands must be two numbers or two strings.", 1)
		assert.True(t, errors.Is(err, errOperandsPlus))
	}
}

func TestRuntimeErrorHaltsExecution(t *testing.T) {
	tp := &testPrinter{}
	tr := &testReporter{}
	ok := RunSourceWithPrinter("print 1;\nprint x;\nprint 2;", tp, tr)
	assert.False(t, ok)
	assert.True(t, tp.Equals("1"))
	require.Len(t, tr.runtime, 1)
	assert.Equal(t, 2, tr.runtime[0].Line())

	// Errors inside functions halt the caller too
	tp.Reset()
	tr = &testReporter{}
	ok = RunSourceWithPrinter("fun f() { print \"in\"; return 1 + nil; }\nf();\nprint \"out\";", tp, tr)
	assert.False(t, ok)
	assert.True(t, tp.Equals("in"))
	require.Len(t, tr.runtime, 1)
	assert.Equal(t, 1, tr.runtime[0].Line())
}

func TestPureExpressionIsIdempotent(t *testing.T) {
	state, r := parseSource("(a + 2) * -b == 10 or a;")
	require.Empty(t, r.errors)
	x := state.stmts[0].(*exprStmt).expression

	tp := &testPrinter{}
	e := newExec(tp, NewInterpreter().log)
	e.globals.define("a", 3.0)
	e.globals.define("b", -2.0)

	first, err := e.evaluate(x)
	require.NoError(t, err)
	second, err := e.evaluate(x)
	require.NoError(t, err)
	assert.Equal(t, true, first)
	assert.Equal(t, first, second)
	assert.Empty(t, tp.printed)
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "nil", stringify(nil))
	assert.Equal(t, "3", stringify(3.0))
	assert.Equal(t, "-0.5", stringify(-0.5))
	assert.Equal(t, "true", stringify(true))
	assert.Equal(t, "abc", stringify("abc"))
	assert.Equal(t, "<native fn>", stringify(&nativeFn{name: "x"}))

	// Exponent form outside [1e-4, 1e16)
	assert.Equal(t, "1000000000000000", stringify(1e15))
	assert.Equal(t, "1e+16", stringify(1e16))
	assert.Equal(t, "1e+21", stringify(1e21))
	assert.Equal(t, "-1.5e+20", stringify(-1.5e20))
	assert.Equal(t, "0.0001", stringify(0.0001))
	assert.Equal(t, "1e-05", stringify(0.00001))
	assert.Equal(t, "1.5e-07", stringify(1.5e-7))
	assert.Equal(t, "0", stringify(0.0))
	assert.Equal(t, "inf", stringify(math.Inf(1)))
	assert.Equal(t, "-inf", stringify(math.Inf(-1)))
	assert.Equal(t, "nan", stringify(math.NaN()))
}

func TestCallDepthRecovers(t *testing.T) {
	interp, tp, tr := newTestInterpreter()

	require.Error(t, interp.Run("fun f() { f(); }\nf();"))
	require.Len(t, tr.runtime, 1)
	assert.Equal(t, 0, interp.exec.depth)

	// Deep but bounded recursion still works after an overflow
	require.NoError(t, interp.Run(`
fun count(n) {
	if (n == 0) return 0;
	return 1 + count(n - 1);
}
print count(900);`))
	assert.True(t, tp.Equals("900"))
}

func TestIsEqual(t *testing.T) {
	assert.True(t, isEqual(nil, nil))
	assert.False(t, isEqual(nil, 0.0))
	assert.False(t, isEqual(false, nil))
	assert.False(t, isEqual(1.0, "1"))
	assert.True(t, isEqual("a", "a"))
	assert.False(t, isEqual([]int{1}, []int{1}))

	c := &loxClass{name: "A"}
	assert.True(t, isEqual(c, c))
	assert.False(t, isEqual(c, &loxClass{name: "A"}))
}
