package tests

import (
	"errors"
	"testing"

	uerrors "github.com/sambeau/unitx/pkg/unitx/errors"
	"github.com/sambeau/unitx/pkg/unitx/unitx"
)

func runScript(t *testing.T, src string) (string, *uerrors.UnitXError) {
	t.Helper()
	out := unitx.NewBufferedLogger()
	_, err := unitx.Run(src, unitx.WithOutput(out))
	if err == nil {
		return out.String(), nil
	}
	var ue *uerrors.UnitXError
	if !errors.As(err, &ue) {
		t.Fatalf("unexpected error type %T: %v", err, err)
	}
	return out.String(), ue
}

// TestScripts runs whole programs and compares their output
func TestScripts(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name: "travel time",
			input: `
distance = 42.195{km}
pace = 4{min}
total = 0{min}
rep(i, 42) { total += pace }
print(total, total{min->h})
`,
			expected: "168min 2.8h\n",
		},
		{
			name: "download size",
			input: `
def size(files, each=512{KB}) {
    return files * each
}
s = size(4)
print(s, s{KB->MB})
dump(s)
`,
			expected: "2048KB 2MB\ns: 2048KB\n",
		},
		{
			name: "assignment consumes the pending conversion",
			input: `
y = 3{km->m}
x = y
print(x, y)
x += 1{m}
print(x)
`,
			expected: "3000m 3000m\n3001m\n",
		},
		{
			name: "aliases see in-place assignment",
			input: `
x = 1{m}
{ x = 2{m}; inner = 1 }
print(x)
`,
			expected: "2m\n",
		},
		{
			name: "loop variable persists assignments made in the body",
			input: `
count = 0
rep(i, [1{m}, 2{m}, 300{cm}]) {
    if (i == 2{m}) continue
    count++
    if (count > 5) break
}
print(count)
`,
			expected: "2\n",
		},
		{
			name: "temperatures",
			input: `
print(100{C->F}, 32{F->C}, 0{C->K})
print(1{K} + 1{C})
`,
			expected: "212F 0C 273.15K\n275.15K\n",
		},
		{
			name: "borders and dump",
			input: `
a = 2{kg}
-----
dump(a, a{kg->g})
`,
			expected: "-----\na: 2kg a: 2000g\n",
		},
		{
			name:     "complex values convert linearly",
			input:    "print((1 + 2j){m->cm})",
			expected: "(100+200j)cm\n",
		},
		{
			name:     "strip unit",
			input:    "v = 3{m}; print(v{@} * 2)",
			expected: "6\n",
		},
		{
			name:     "top-level return ends the program",
			input:    "print(1)\nreturn\nprint(2)",
			expected: "1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runScript(t, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %s", err.Text())
			}
			if out != tt.expected {
				t.Errorf("got %q, want %q", out, tt.expected)
			}
		})
	}
}

// TestScriptErrors checks that each failing program stops with the right
// class and keeps the output produced before the failure
func TestScriptErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		class     uerrors.ErrorClass
		code      string
		output    string
		errorLine int
	}{
		{"cross-category conversion", "print(1)\nprint(1{m->s})", uerrors.ClassUnit, "UNIT-0001", "1\n", 2},
		{"cross-category addition", "x = 1{kg} + 1{m}", uerrors.ClassUnit, "UNIT-0002", "", 1},
		{"affine denominator", "print(1{m->m/C->K})", uerrors.ClassUnit, "UNIT-0004", "", 1},
		{"loop variable out of scope", "rep(i, 3) {}\nprint(i)", uerrors.ClassName, "NAME-0001", "", 2},
		{"block binding out of scope", "{ z = 1 }\nprint(z)", uerrors.ClassName, "NAME-0001", "", 2},
		{"too few arguments", "def f(a, b, c=1) { }\nf(1)", uerrors.ClassType, "TYPE-0003", "", 2},
		{"too many arguments", "def f(a, b, c=1) { }\nf(1, 2, 3, 4)", uerrors.ClassType, "TYPE-0003", "", 2},
		{"arithmetic on None", "def f() { }\nx = f() + 1", uerrors.ClassType, "TYPE-0002", "", 2},
		{"assertion", "x = 1{m}\nassert x > 2{m}", uerrors.ClassAssertion, "ASSERT-0001", "", 2},
		{"division by zero", "print(1{m} / 0)", uerrors.ClassZeroDivide, "ZERO-0001", "", 1},
		{"stray break", "print(1)\nbreak", uerrors.ClassSyntax, "CTRL-0001", "1\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runScript(t, tt.input)
			if err == nil {
				t.Fatalf("expected %s, got none (output %q)", tt.class, out)
			}
			if err.Class != tt.class || err.Code != tt.code {
				t.Errorf("got %s/%s (%s), want %s/%s", err.Class, err.Code, err.Text(), tt.class, tt.code)
			}
			if err.Line != tt.errorLine {
				t.Errorf("error on line %d, want %d", err.Line, tt.errorLine)
			}
			if out != tt.output {
				t.Errorf("output %q, want %q", out, tt.output)
			}
		})
	}
}

// TestArityWithDefaults checks that two or three arguments satisfy
// f(a, b, c=1) and that the default fills the third
func TestArityWithDefaults(t *testing.T) {
	src := `
def f(a, b, c=1) { return a + b + c }
print(f(1, 2), f(1, 2, 3))
`
	out, err := runScript(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Text())
	}
	if out != "4 6\n" {
		t.Errorf("got %q", out)
	}
}
