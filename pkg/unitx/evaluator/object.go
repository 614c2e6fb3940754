package evaluator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sambeau/unitx/pkg/unitx/ast"
	uerrors "github.com/sambeau/unitx/pkg/unitx/errors"
	"github.com/sambeau/unitx/pkg/unitx/lexer"
)

// ObjectType represents the type of objects in our language
type ObjectType string

const (
	INTEGER_OBJ  = "INTEGER"
	FLOAT_OBJ    = "FLOAT"
	COMPLEX_OBJ  = "COMPLEX"
	STRING_OBJ   = "STRING"
	BOOLEAN_OBJ  = "BOOLEAN"
	NULL_OBJ     = "NULL"
	LIST_OBJ     = "LIST"
	FUNCTION_OBJ = "FUNCTION"
	VALUE_OBJ    = "VALUE"
	RETURN_OBJ   = "RETURN_VALUE"
	BREAK_OBJ    = "BREAK"
	CONTINUE_OBJ = "CONTINUE"
	ERROR_OBJ    = "ERROR"
)

// Object represents all values in our language
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Singletons
var (
	NULL  = &Null{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

// Integer represents integer objects
type Integer struct {
	Value int64
}

func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) Type() ObjectType { return INTEGER_OBJ }

// Float represents floating-point objects
type Float struct {
	Value float64
}

func (f *Float) Inspect() string  { return formatFloat(f.Value) }
func (f *Float) Type() ObjectType { return FLOAT_OBJ }

// Complex represents complex numbers such as 3j or (1+2j)
type Complex struct {
	Value complex128
}

func (c *Complex) Inspect() string  { return formatComplex(c.Value) }
func (c *Complex) Type() ObjectType { return COMPLEX_OBJ }

// String represents text objects
type String struct {
	Value string
}

func (s *String) Inspect() string  { return s.Value }
func (s *String) Type() ObjectType { return STRING_OBJ }

// Boolean represents boolean objects
type Boolean struct {
	Value bool
}

func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }
func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }

// Null represents None
type Null struct{}

func (n *Null) Inspect() string  { return "NULL" }
func (n *Null) Type() ObjectType { return NULL_OBJ }

// List represents list objects. Elements keep their own units.
type List struct {
	Elements []*Value
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		if e == nil || e.Payload == nil {
			parts[i] = "NULL"
			continue
		}
		parts[i] = e.Payload.Inspect() + e.Unit.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Param is a declared parameter with its default already resolved.
type Param struct {
	Name    string
	Default *Value // nil when the parameter is required
}

// Function represents a user-defined function
type Function struct {
	Name   string
	Params []Param
	Body   *ast.BlockStatement
	Frame  *Frame // defining frame; calls are dynamically scoped and do not use it
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string  { return fmt.Sprintf("<function %s>", f.Name) }

// Required returns the number of parameters without a default.
func (f *Function) Required() int {
	n := 0
	for _, p := range f.Params {
		if p.Default == nil {
			n++
		}
	}
	return n
}

// ReturnValue carries a 'return' out of a function body
type ReturnValue struct {
	Value *Value
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// BreakSignal carries a 'break' out to the enclosing loop
type BreakSignal struct {
	Token lexer.Token
}

func (bs *BreakSignal) Type() ObjectType { return BREAK_OBJ }
func (bs *BreakSignal) Inspect() string  { return "break" }

// ContinueSignal carries a 'continue' out to the enclosing loop
type ContinueSignal struct {
	Token lexer.Token
}

func (cs *ContinueSignal) Type() ObjectType { return CONTINUE_OBJ }
func (cs *ContinueSignal) Inspect() string  { return "continue" }

// Error is a fatal runtime error travelling up the evaluation
type Error struct {
	Class   uerrors.ErrorClass
	Code    string
	Message string
	Hints   []string
	Line    int
	Column  int
	File    string
	Data    map[string]any
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }

// Inspect returns "<Kind>: <description>".
func (e *Error) Inspect() string {
	return e.ToUnitXError().Text()
}

// ToUnitXError converts this Error to a UnitXError for structured handling.
func (e *Error) ToUnitXError() *uerrors.UnitXError {
	return &uerrors.UnitXError{
		Class:   e.Class,
		Code:    e.Code,
		Message: e.Message,
		Hints:   e.Hints,
		Line:    e.Line,
		Column:  e.Column,
		File:    e.File,
		Data:    e.Data,
	}
}

func isError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}

func nativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// isTruthy follows Python: None, false, zero, empty text and empty lists
// are false.
func isTruthy(obj Object) bool {
	switch obj := obj.(type) {
	case nil, *Null:
		return false
	case *Boolean:
		return obj.Value
	case *Integer:
		return obj.Value != 0
	case *Float:
		return obj.Value != 0
	case *Complex:
		return obj.Value != 0
	case *String:
		return obj.Value != ""
	case *List:
		return len(obj.Elements) > 0
	default:
		return true
	}
}

// typeName is the user-visible type name used in messages.
func typeName(obj Object) string {
	switch obj.(type) {
	case *Integer:
		return "int"
	case *Float:
		return "float"
	case *Complex:
		return "complex"
	case *String:
		return "str"
	case *Boolean:
		return "bool"
	case nil, *Null:
		return "NoneType"
	case *List:
		return "list"
	case *Function:
		return "function"
	}
	return strings.ToLower(string(obj.Type()))
}

// formatFloat renders a float the way Python's repr does: shortest form,
// always with a decimal point or an exponent.
func formatFloat(f float64) string {
	if s, ok := formatSpecial(f); ok {
		return s
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// formatComponent renders one part of a complex number; whole numbers drop
// the decimal point, as in "(1+2j)".
func formatComponent(f float64) string {
	if s, ok := formatSpecial(f); ok {
		return s
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatSpecial(f float64) (string, bool) {
	switch {
	case math.IsNaN(f):
		return "nan", true
	case math.IsInf(f, 1):
		return "inf", true
	case math.IsInf(f, -1):
		return "-inf", true
	}
	return "", false
}

func formatComplex(c complex128) string {
	re, im := real(c), imag(c)
	if re == 0 && !math.Signbit(re) {
		return formatComponent(im) + "j"
	}
	sign := "+"
	if im < 0 || (im == 0 && math.Signbit(im)) {
		sign = "-"
		im = -im
	}
	return "(" + formatComponent(re) + sign + formatComponent(im) + "j)"
}
