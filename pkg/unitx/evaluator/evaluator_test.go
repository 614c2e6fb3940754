package evaluator

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/text/language"

	uerrors "github.com/sambeau/unitx/pkg/unitx/errors"
	"github.com/sambeau/unitx/pkg/unitx/lexer"
	"github.com/sambeau/unitx/pkg/unitx/parser"
)

func testEvalWith(t *testing.T, input string, opts ...Option) (string, *Error, *Context) {
	t.Helper()
	p := parser.New(lexer.New(input))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parser errors for %q: %v", input, errs)
	}

	var out bytes.Buffer
	ctx := NewContext(nil, append([]Option{WithOutput(&out)}, opts...)...)
	result := EvalProgram(program, ctx)
	if err, ok := result.(*Error); ok {
		return out.String(), err, ctx
	}
	return out.String(), nil, ctx
}

func testEval(t *testing.T, input string) (string, *Error) {
	t.Helper()
	out, err, _ := testEvalWith(t, input)
	return out, err
}

func expectOutput(t *testing.T, input, want string) {
	t.Helper()
	out, err := testEval(t, input)
	if err != nil {
		t.Fatalf("%q: unexpected error: %s", input, err.Inspect())
	}
	if out != want {
		t.Errorf("%q:\n got %q\nwant %q", input, out, want)
	}
}

func expectError(t *testing.T, input, code string) *Error {
	t.Helper()
	_, err := testEval(t, input)
	if err == nil {
		t.Fatalf("%q: expected error %s, got none", input, code)
	}
	if err.Code != code {
		t.Fatalf("%q: got %s (%s), want %s", input, err.Code, err.Inspect(), code)
	}
	return err
}

func TestEndToEnd(t *testing.T) {
	expectOutput(t, "x = 5{m}; y = 500{m->cm}; print(x, y)", "5m 50000cm\n")
}

func TestConversionRoundTrip(t *testing.T) {
	expectOutput(t, "x = 1000{m->km}\nprint(x, x{km->m})", "1km 1000m\n")
	expectOutput(t, "print(36{km->m/h->s})", "10m/s\n")
	expectOutput(t, "print(2{時->分})", "120分\n")
	expectOutput(t, "print(5{MB->KB})", "5120KB\n")
	expectOutput(t, "print(1.5{km->m})", "1500m\n")
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"print(1{m} + 50{cm})", "1.5m"},
		{"print(100{cm} + 1{m})", "200cm"},
		{"print(1{km} - 500{m})", "0.5km"},
		{"print(5 + 2{kg})", "7kg"},
		{"print(2{m} * 3{s})", "6m*s"},
		{"print(10{m} / 2{s})", "5m/s"},
		{"print(10{m} / 2{m})", "5"},
		{"print(7 / 2, 6 / 3)", "3.5 2"},
		{"print(-7 % 3, -7 % -3, 7 % -3)", "2 -1 -2"},
		{"print(7.5 % 2)", "1.5"},
		{"print(1.0 + 2)", "3.0"},
		{"print(0.1 + 0.2)", "0.30000000000000004"},
		{"print(1e20, 0.00001)", "1e+20 1e-05"},
		{"print(2j * 2j, 1 + 2j, 3j)", "(-4+0j) (1+2j) 3j"},
		{"print('ab' + 'cd', 'ab' * 3, 2 * 'x')", "abcd ababab xx"},
		{"print([1, 2] + [3])", "[1, 2, 3]"},
		{"print([1, 2]{kg}, [1000, 2500]{g->kg})", "[1kg, 2kg] [1kg, 2.5kg]"},
		{"print(-5{m}, -2.5)", "-5m -2.5"},
		{"print(0x10 + 0b11 + 0o7 + 010)", "34"},
		{"print(9223372036854775807 + 1)", "9.223372036854776e+18"},
		{"print(-9223372036854775807 - 2)", "-9.223372036854776e+18"},
		{"print(4611686018427387904 * 4)", "1.8446744073709552e+19"},
		{"print(3037000499 * 3037000499)", "9223372030926249001"},
	}

	for _, tt := range tests {
		expectOutput(t, tt.input, tt.want+"\n")
	}
}

func TestComparisonAndLogic(t *testing.T) {
	expectOutput(t, "print(1{m} == 100{cm}, 2 > 1, 'a' < 'b', None == None, [1] == [1])",
		"true true true true true\n")
	expectOutput(t, "print(1{km} > 999{m}, 3 <= 2, 1 != 1.0, 'x' == 1)", "true false false false\n")
	expectOutput(t, "print(1 && 0, 0 || 'x', !0, !'text')", "false true true false\n")
	expectOutput(t, "print(false && undefined_name, true || undefined_name)", "false true\n")
	expectError(t, "print(1{m} < 1{s})", "UNIT-0002")
	expectError(t, "print(1 < 'a')", "TYPE-0001")
}

func TestErrors(t *testing.T) {
	tests := []struct {
		input string
		code  string
		class uerrors.ErrorClass
	}{
		{"print(y)", "NAME-0001", uerrors.ClassName},
		{"print(1{m} + 1{s})", "UNIT-0002", uerrors.ClassUnit},
		{"print(1{m->s})", "UNIT-0001", uerrors.ClassUnit},
		{"print(1{m->furlong})", "UNIT-0003", uerrors.ClassUnit},
		{"print(1{m/C->K})", "UNIT-0004", uerrors.ClassUnit},
		{"print(1j{C->K})", "UNIT-0004", uerrors.ClassUnit},
		{"print(None + 1)", "TYPE-0002", uerrors.ClassType},
		{"x = None\nx -= 1", "TYPE-0002", uerrors.ClassType},
		{"print(1 / 0)", "ZERO-0001", uerrors.ClassZeroDivide},
		{"print(5 % 0)", "ZERO-0001", uerrors.ClassZeroDivide},
		{"print(1.5 / 0)", "ZERO-0001", uerrors.ClassZeroDivide},
		{"x = 1\nx()", "TYPE-0004", uerrors.ClassType},
		{"5 = 3", "TYPE-0005", uerrors.ClassType},
		{"f(1)++", "TYPE-0005", uerrors.ClassType},
		{"rep(i, 'abc') {}", "TYPE-0006", uerrors.ClassType},
		{"print(-'a')", "TYPE-0007", uerrors.ClassType},
		{"print('a'{m->cm})", "TYPE-0008", uerrors.ClassType},
		{"print('a' - 'b')", "TYPE-0001", uerrors.ClassType},
		{"print('ab' * 9223372036854775807)", "TYPE-0009", uerrors.ClassType},
		{"print(4611686018427387904 * 'x')", "TYPE-0009", uerrors.ClassType},
		{"assert 1 == 2", "ASSERT-0001", uerrors.ClassAssertion},
		{"break", "CTRL-0001", uerrors.ClassSyntax},
		{"if (true) { continue }", "CTRL-0001", uerrors.ClassSyntax},
		{"def f() { break }\nf()", "CTRL-0001", uerrors.ClassSyntax},
	}

	for _, tt := range tests {
		err := expectError(t, tt.input, tt.code)
		if err.Class != tt.class {
			t.Errorf("%q: class %s, want %s", tt.input, err.Class, tt.class)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	_, err := testEval(t, "print(1{m} + 1{kg})")
	want := "UnitError: incompatible units for +: m (length) and kg (mass)"
	if err == nil || err.Inspect() != want {
		t.Fatalf("got %v, want %q", err, want)
	}

	_, err = testEval(t, "counter = 1\nprint(countr)")
	if err == nil || len(err.Hints) == 0 || !strings.Contains(err.Hints[0], "counter") {
		t.Fatalf("expected a 'Did you mean' hint, got %#v", err)
	}
	if err.Line != 2 || err.Column != 7 {
		t.Errorf("position = %d:%d, want 2:7", err.Line, err.Column)
	}

	_, err = testEval(t, "x = 1\nassert x > 2")
	if err == nil || err.Inspect() != "AssertionError: assertion failed: (x > 2)" {
		t.Fatalf("got %v", err)
	}
}

func TestJapaneseMessages(t *testing.T) {
	_, err, _ := testEvalWith(t, "print(1{m} + 1{kg})", WithLanguage(language.Japanese))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Message, "長さ") || !strings.Contains(err.Message, "質量") {
		t.Errorf("message not localized: %q", err.Message)
	}

	_, err, _ = testEvalWith(t, "print(1 / 0)", WithLanguage(language.Japanese))
	if err == nil || err.Message != "除算: ゼロ除算です" {
		t.Errorf("got %#v", err)
	}
}

func TestFunctions(t *testing.T) {
	def := "def f(a, b, c=1) { return a + b + c }\n"

	expectOutput(t, def+"print(f(1, 2), f(1, 2, 3))", "4 6\n")

	err := expectError(t, def+"f(1)", "TYPE-0003")
	if err.Message != "f() takes exactly 2 arguments (1 given)" {
		t.Errorf("message = %q", err.Message)
	}
	err = expectError(t, def+"f(1, 2, 3, 4)", "TYPE-0003")
	if err.Message != "f() takes exactly 3 arguments (4 given)" {
		t.Errorf("message = %q", err.Message)
	}

	expectError(t, "def h(a) {}\nh()", "TYPE-0003")
	expectError(t, "def g() {}\ng(1)", "TYPE-0003")
	expectError(t, "nothing(1)", "NAME-0001")

	expectOutput(t, "def sq(x) { return x * x }\nprint(sq(3{m}))", "9m*m\n")
	expectOutput(t, "def f() { x = 1 }\nprint(f())", "NULL\n")
	expectOutput(t, "def f(a, b=None) { return b }\nprint(f(1))", "NULL\n")
	expectOutput(t, "def f(d=2{km->m}) { return d }\nprint(f())", "2000m\n")
	expectOutput(t, "def first(lst) {\n  rep(e, lst) {\n    if (e > 1) return e\n  }\n  return None\n}\nprint(first([1, 5, 7]))", "5\n")
	expectOutput(t, "def f() { return z }\nz = 7\nprint(f())", "7\n")
	expectOutput(t, "def fact(n) {\n  if (n <= 1) return 1\n  return n * fact(n - 1)\n}\nprint(fact(10))", "3628800\n")
	expectOutput(t, "def f(a) { a = 9\n return a }\nx = 1\nprint(f(x), x)", "9 1\n")
	expectOutput(t, "def f() {}\ng = f\nprint(g())", "NULL\n")
}

func TestScoping(t *testing.T) {
	expectOutput(t, "x = 1\n{\n  x = 2\n  y = 3\n}\nprint(x)", "2\n")
	expectError(t, "{ y = 3 }\nprint(y)", "NAME-0001")

	expectOutput(t, "x = 1\ndef f(x) { x = 5\n return x }\nprint(f(2), x)", "5 1\n")
	expectOutput(t, "total = 0\nrep(i, 4) { total += i }\nprint(total)", "6\n")
	expectError(t, "rep(i, 3) {}\nprint(i)", "NAME-0001")
	expectOutput(t, "rep(i, 3) {\n  if (i == 0) acc = 10 else acc += 1\n  print(acc)\n}", "10\n11\n12\n")
	expectError(t, "rep(i, 3) { acc = i }\nprint(acc)", "NAME-0001")
	expectOutput(t, "if (true) { inner = 1 }\nprint(inner)", "1\n")
}

func TestRep(t *testing.T) {
	expectOutput(t, "rep(s, [1{km->m}, 2]) { print(s) }", "1000m\n2\n")
	expectOutput(t, "rep(i, -2) { print(i) }\nprint('done')", "done\n")
	expectOutput(t, "rep(i, 10) {\n  if (i == 3) break\n  if (i % 2 == 0) continue\n  print(i)\n}", "1\n")
	expectOutput(t, "rep(i, 2) print(i)", "0\n1\n")
	expectOutput(t, "rep(i, 2) {\n  rep(j, 2) {\n    if (j == 1) break\n    print(i, j)\n  }\n}", "0 0\n1 0\n")
	expectOutput(t, "print(1)\nreturn\nprint(2)", "1\n")
}

func TestAssignment(t *testing.T) {
	_, err, ctx := testEvalWith(t, "x = 500{m->cm}\ny = x\ny = 7")
	if err != nil {
		t.Fatal(err.Inspect())
	}
	x, ok := ctx.Scopes.Get("x")
	if !ok {
		t.Fatal("x not bound")
	}
	if x.Unit.HasSource() {
		t.Error("assignment should consume the pending conversion")
	}
	if n, ok := x.Payload.(*Integer); !ok || n.Value != 50000 {
		t.Errorf("x = %s, want 50000", x.Payload.Inspect())
	}
	if x.Unit.String() != "cm" {
		t.Errorf("x unit = %q, want cm", x.Unit.String())
	}

	expectOutput(t, "a = b = 2{m}\nprint(a, b)", "2m 2m\n")
	expectOutput(t, "x = 5{m}\nx++\nprint(x)", "6m\n")
	expectOutput(t, "x = 1\nprint(++x, x--, x)", "2 1 1\n")
	expectOutput(t, "x = 10{m}\nx -= 50{cm}\nprint(x)", "9.5m\n")
	expectOutput(t, "x = 2\nx *= 3{s}\nx /= 2\nx %= 2\nprint(x)", "1s\n")
	expectOutput(t, "x = 5{m}\nx = x{@}\nprint(x)", "5\n")
	expectOutput(t, "x = 5{m}\nprint(x{m->cm})\nprint(x)", "500cm\n5m\n")
}

func TestPrintAndDump(t *testing.T) {
	expectOutput(t, "x = 5{m}\ndump(x, 3, x{m->cm})", "x: 5m 3 x: 500cm\n")
	expectOutput(t, "def f() { return 2{s} }\ndump(f())", "f: 2s\n")
	expectOutput(t, "n = None\ndump(n)\nprint(n, true, 'hi')", "NULL\nNULL true hi\n")
	expectOutput(t, "print()", "\n")
	expectOutput(t, "----\nprint(1)\n----------", "----\n1\n----------\n")
	expectOutput(t, "assert(1 == 1)\nassert 'x'\nprint('ok')", "ok\n")
}

func TestIf(t *testing.T) {
	expectOutput(t, "x = 3\nif (x > 2) print('big') else print('small')", "big\n")
	expectOutput(t, "if (true) print(1) else print(undefined_name)", "1\n")
	expectOutput(t, "if ([]) print(1) else if (0.0) print(2) else print(3)", "3\n")
	expectOutput(t, "if ('') print(1)\nprint(2)", "2\n")
}

type fixedGate bool

func (g fixedGate) IgnoreBlocks() bool { return bool(g) }

func TestInteractiveEcho(t *testing.T) {
	out, err, _ := testEvalWith(t, "x = 5{m}\nx\nNone\nx{m->cm}", WithInteractive(fixedGate(false)))
	if err != nil {
		t.Fatal(err.Inspect())
	}
	if want := "5m\n5m\nNULL\n500cm\n"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}

	out, _, _ = testEvalWith(t, "x = 5", WithInteractive(fixedGate(false)), WithEcho(false))
	if out != "" {
		t.Errorf("echo disabled, got %q", out)
	}

	out, _, _ = testEvalWith(t, "x = 5")
	if out != "" {
		t.Errorf("scripts do not echo, got %q", out)
	}
}

func TestInteractiveSuppression(t *testing.T) {
	input := "def f() {}\nprint(1)\nrep(i, 2) { print(i) }\nif (true) { print(2) }\n{ print(3) }"

	out, err, ctx := testEvalWith(t, input, WithInteractive(fixedGate(true)), WithEcho(false))
	if err != nil {
		t.Fatal(err.Inspect())
	}
	if out != "1\n" {
		t.Errorf("got %q, want only the top-level print", out)
	}
	if _, ok := ctx.Scopes.Get("f"); ok {
		t.Error("suppressed def should not bind f")
	}

	out, _, _ = testEvalWith(t, input, WithInteractive(fixedGate(false)), WithEcho(false))
	if out != "1\n0\n1\n2\n3\n" {
		t.Errorf("open gate: got %q", out)
	}
}

func TestSinkReportsOnce(t *testing.T) {
	sink := &ErrorList{}
	_, err, ctx := testEvalWith(t, "x = 1\ndef f() { return q }\nf()", WithSink(sink))
	if err == nil {
		t.Fatal("expected an error")
	}
	if sink.Len() != 1 {
		t.Fatalf("sink got %d reports, want 1", sink.Len())
	}
	if sink.Messages[0] != "NameError: name 'q' is not defined" {
		t.Errorf("message = %q", sink.Messages[0])
	}
	if sink.Tokens[0].Line != 2 {
		t.Errorf("line = %d, want 2", sink.Tokens[0].Line)
	}
	if ctx.Scopes.Depth() != 0 {
		t.Errorf("frames leaked after error: depth %d", ctx.Scopes.Depth())
	}
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	WriterSink{W: &buf}.ReportError("NameError: name 'q' is not defined", lexer.Token{Line: 3, Column: 5})
	if buf.String() != "3:5: NameError: name 'q' is not defined\n" {
		t.Errorf("got %q", buf.String())
	}
}
