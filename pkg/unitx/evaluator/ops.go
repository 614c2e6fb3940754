package evaluator

import (
	"math"
	"strings"

	"github.com/sambeau/unitx/pkg/unitx/lexer"
	"github.com/sambeau/unitx/pkg/unitx/units"
)

// Arithmetic applies +, -, *, / or % to two values. Units are combined
// additively for +, - and % and multiplicatively for * and /.
func Arithmetic(ctx *Context, op string, left, right *Value, tok lexer.Token) Object {
	lp, lu, err := left.resolve(ctx)
	if err != nil {
		return err
	}
	rp, ru, err := right.resolve(ctx)
	if err != nil {
		return err
	}
	if isNull(lp) || isNull(rp) {
		return noneOperandError(ctx, op, tok)
	}

	var unit units.Unit
	switch op {
	case "+", "-", "%":
		u, uerr := ctx.Table.CombineAdditive(lu, ru)
		if uerr != nil {
			return unitError(ctx, uerr, op, tok)
		}
		unit = u
		if !lu.IsEmpty() && !ru.IsEmpty() && isNumber(rp) {
			rp, err = rescale(ctx, rp, ru, lu, tok)
			if err != nil {
				return err
			}
		}
	default:
		unit = units.CombineMultiplicative(lu, ru, op)
	}

	result, err := arithmetic(ctx, op, lp, rp, tok)
	if err != nil {
		return err
	}
	return &Value{Payload: result, Unit: unit, Token: tok}
}

// Add returns left + right.
func Add(ctx *Context, left, right *Value, tok lexer.Token) Object {
	return Arithmetic(ctx, "+", left, right, tok)
}

// Sub returns left - right.
func Sub(ctx *Context, left, right *Value, tok lexer.Token) Object {
	return Arithmetic(ctx, "-", left, right, tok)
}

// Mul returns left * right.
func Mul(ctx *Context, left, right *Value, tok lexer.Token) Object {
	return Arithmetic(ctx, "*", left, right, tok)
}

// Div returns left / right.
func Div(ctx *Context, left, right *Value, tok lexer.Token) Object {
	return Arithmetic(ctx, "/", left, right, tok)
}

// Mod returns left % right with floored semantics.
func Mod(ctx *Context, left, right *Value, tok lexer.Token) Object {
	return Arithmetic(ctx, "%", left, right, tok)
}

// Assign stores the resolved payload and unit of source into target in
// place and registers target under its name. The pending conversion of
// source is consumed: later reads of target do not convert again.
func Assign(ctx *Context, target, source *Value, tok lexer.Token) Object {
	if target.Name == "" {
		return newError(ctx, "TYPE-0005", tok, map[string]any{"Target": target.Inspect()})
	}
	payload, unit, err := source.resolve(ctx)
	if err != nil {
		return err
	}
	target.Payload = payload
	target.Unit = unit.WithoutSource()
	target.Token = tok
	ctx.Scopes.Register(target.Name, target)
	return target
}

// CompoundAssign implements +=, -=, *=, /= and %=.
func CompoundAssign(ctx *Context, op string, target, value *Value, tok lexer.Token) Object {
	if target.Name == "" {
		return newError(ctx, "TYPE-0005", tok, map[string]any{"Target": target.Inspect()})
	}
	result := Arithmetic(ctx, strings.TrimSuffix(op, "="), target, value, tok)
	if isError(result) {
		return result
	}
	return Assign(ctx, target, result.(*Value), tok)
}

// Increment is x = x + 1. It yields the updated variable.
func Increment(ctx *Context, target *Value, tok lexer.Token) Object {
	return CompoundAssign(ctx, "+=", target, newValue(&Integer{Value: 1}, tok), tok)
}

// Decrement is x = x - 1. It yields the updated variable.
func Decrement(ctx *Context, target *Value, tok lexer.Token) Object {
	return CompoundAssign(ctx, "-=", target, newValue(&Integer{Value: 1}, tok), tok)
}

// Negate is unary minus. The unit is kept.
func Negate(ctx *Context, operand *Value, tok lexer.Token) Object {
	p, unit, err := operand.resolve(ctx)
	if err != nil {
		return err
	}
	var result Object
	switch p := p.(type) {
	case *Integer:
		if p.Value == math.MinInt64 {
			result = &Float{Value: -float64(p.Value)}
		} else {
			result = &Integer{Value: -p.Value}
		}
	case *Float:
		result = &Float{Value: -p.Value}
	case *Complex:
		result = &Complex{Value: -p.Value}
	case *Null:
		return noneOperandError(ctx, "unary -", tok)
	default:
		return newError(ctx, "TYPE-0007", tok, map[string]any{"Operator": "-", "Type": typeName(p)})
	}
	return &Value{Payload: result, Unit: unit, Token: tok}
}

// Not is logical negation by truthiness.
func Not(ctx *Context, operand *Value, tok lexer.Token) Object {
	p, err := operand.Resolve(ctx)
	if err != nil {
		return err
	}
	return newValue(nativeBoolToBooleanObject(!isTruthy(p)), tok)
}

// Compare applies ==, !=, <, <=, > or >=. Numbers are compared after the
// right operand is rescaled into the left operand's unit.
func Compare(ctx *Context, op string, left, right *Value, tok lexer.Token) Object {
	lp, lu, err := left.resolve(ctx)
	if err != nil {
		return err
	}
	rp, ru, err := right.resolve(ctx)
	if err != nil {
		return err
	}

	if isNumber(lp) && isNumber(rp) {
		if !lu.IsEmpty() && !ru.IsEmpty() {
			if _, uerr := ctx.Table.CombineAdditive(lu, ru); uerr != nil {
				return unitError(ctx, uerr, op, tok)
			}
			if rp, err = rescale(ctx, rp, ru, lu, tok); err != nil {
				return err
			}
		}
		result, err := compareNumbers(ctx, op, lp, rp, tok)
		if err != nil {
			return err
		}
		return newValue(nativeBoolToBooleanObject(result), tok)
	}

	switch op {
	case "==":
		return newValue(nativeBoolToBooleanObject(equalObjects(lp, rp)), tok)
	case "!=":
		return newValue(nativeBoolToBooleanObject(!equalObjects(lp, rp)), tok)
	}

	ls, lok := lp.(*String)
	rs, rok := rp.(*String)
	if !lok || !rok {
		return operandTypeError(ctx, op, lp, rp, tok)
	}
	c := strings.Compare(ls.Value, rs.Value)
	return newValue(nativeBoolToBooleanObject(ordered(op, c)), tok)
}

func ordered(op string, c int) bool {
	switch op {
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	case "==":
		return c == 0
	case "!=":
		return c != 0
	}
	return false
}

func compareNumbers(ctx *Context, op string, l, r Object, tok lexer.Token) (bool, *Error) {
	if li, ok := l.(*Integer); ok {
		if ri, ok := r.(*Integer); ok {
			c := 0
			switch {
			case li.Value < ri.Value:
				c = -1
			case li.Value > ri.Value:
				c = 1
			}
			return ordered(op, c), nil
		}
	}

	_, lc := l.(*Complex)
	_, rc := r.(*Complex)
	if lc || rc {
		eq := toComplex(l) == toComplex(r)
		switch op {
		case "==":
			return eq, nil
		case "!=":
			return !eq, nil
		}
		return false, operandTypeError(ctx, op, l, r, tok)
	}

	lf, rf := toFloat(l), toFloat(r)
	c := 0
	switch {
	case lf < rf:
		c = -1
	case lf > rf:
		c = 1
	case lf != rf: // NaN
		return op == "!=", nil
	}
	return ordered(op, c), nil
}

func equalObjects(a, b Object) bool {
	switch a := a.(type) {
	case *Null:
		return isNull(b)
	case *Boolean:
		bb, ok := b.(*Boolean)
		return ok && a.Value == bb.Value
	case *String:
		bs, ok := b.(*String)
		return ok && a.Value == bs.Value
	case *Integer, *Float, *Complex:
		if !isNumber(b) {
			return false
		}
		return toComplex(a) == toComplex(b)
	case *List:
		bl, ok := b.(*List)
		if !ok || len(a.Elements) != len(bl.Elements) {
			return false
		}
		for i := range a.Elements {
			ea, eb := a.Elements[i], bl.Elements[i]
			if !ea.Unit.Equal(eb.Unit) || !equalObjects(ea.Payload, eb.Payload) {
				return false
			}
		}
		return true
	}
	return a == b
}

// rescale expresses a number measured in from in the compatible unit to.
func rescale(ctx *Context, obj Object, from, to units.Unit, tok lexer.Token) (Object, *Error) {
	if from.Equal(to) {
		return obj, nil
	}
	switch p := obj.(type) {
	case *Integer:
		f, err := ctx.Table.Rescale(float64(p.Value), from, to)
		if err != nil {
			return nil, unitError(ctx, err, "", tok)
		}
		return numberFromFloat(f), nil
	case *Float:
		f, err := ctx.Table.Rescale(p.Value, from, to)
		if err != nil {
			return nil, unitError(ctx, err, "", tok)
		}
		return &Float{Value: f}, nil
	case *Complex:
		factor, err := ctx.Table.RescaleFactor(from, to)
		if err != nil {
			return nil, unitError(ctx, err, "", tok)
		}
		return &Complex{Value: p.Value * complex(factor, 0)}, nil
	}
	return obj, nil
}

// arithmetic applies op to two resolved payloads.
func arithmetic(ctx *Context, op string, l, r Object, tok lexer.Token) (Object, *Error) {
	li, lInt := l.(*Integer)
	ri, rInt := r.(*Integer)

	switch {
	case lInt && rInt:
		return integerArithmetic(ctx, op, li.Value, ri.Value, tok)

	case isNumber(l) && isNumber(r):
		_, lc := l.(*Complex)
		_, rc := r.(*Complex)
		if lc || rc {
			return complexArithmetic(ctx, op, l, r, tok)
		}
		return floatArithmetic(ctx, op, toFloat(l), toFloat(r), tok)
	}

	switch l := l.(type) {
	case *String:
		if rs, ok := r.(*String); ok && op == "+" {
			return &String{Value: l.Value + rs.Value}, nil
		}
		if rInt && op == "*" {
			return repeat(ctx, l.Value, ri.Value, tok)
		}
	case *Integer:
		if rs, ok := r.(*String); ok && op == "*" {
			return repeat(ctx, rs.Value, l.Value, tok)
		}
	case *List:
		if rl, ok := r.(*List); ok && op == "+" {
			elements := make([]*Value, 0, len(l.Elements)+len(rl.Elements))
			elements = append(elements, l.Elements...)
			elements = append(elements, rl.Elements...)
			return &List{Elements: elements}, nil
		}
	}

	return nil, operandTypeError(ctx, op, l, r, tok)
}

func integerArithmetic(ctx *Context, op string, l, r int64, tok lexer.Token) (Object, *Error) {
	switch op {
	case "+":
		if sum := l + r; (l^sum)&(r^sum) >= 0 {
			return &Integer{Value: sum}, nil
		}
		return &Float{Value: float64(l) + float64(r)}, nil
	case "-":
		if diff := l - r; (l^r)&(l^diff) >= 0 {
			return &Integer{Value: diff}, nil
		}
		return &Float{Value: float64(l) - float64(r)}, nil
	case "*":
		if product, ok := mulInt64(l, r); ok {
			return &Integer{Value: product}, nil
		}
		return &Float{Value: float64(l) * float64(r)}, nil
	case "/":
		if r == 0 {
			return nil, zeroDivisionError(ctx, op, tok)
		}
		if l == math.MinInt64 && r == -1 {
			return &Float{Value: -float64(l)}, nil
		}
		if l%r == 0 {
			return &Integer{Value: l / r}, nil
		}
		return &Float{Value: float64(l) / float64(r)}, nil
	case "%":
		if r == 0 {
			return nil, zeroDivisionError(ctx, op, tok)
		}
		m := l % r
		if m != 0 && (m < 0) != (r < 0) {
			m += r
		}
		return &Integer{Value: m}, nil
	}
	return nil, operandTypeError(ctx, op, &Integer{Value: l}, &Integer{Value: r}, tok)
}

// mulInt64 multiplies l and r, reporting false when the product does not fit.
func mulInt64(l, r int64) (int64, bool) {
	if l == 0 || r == 0 {
		return 0, true
	}
	p := l * r
	if p/r != l || (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) {
		return 0, false
	}
	return p, true
}

func floatArithmetic(ctx *Context, op string, l, r float64, tok lexer.Token) (Object, *Error) {
	switch op {
	case "+":
		return &Float{Value: l + r}, nil
	case "-":
		return &Float{Value: l - r}, nil
	case "*":
		return &Float{Value: l * r}, nil
	case "/":
		if r == 0 {
			return nil, zeroDivisionError(ctx, op, tok)
		}
		return &Float{Value: l / r}, nil
	case "%":
		if r == 0 {
			return nil, zeroDivisionError(ctx, op, tok)
		}
		m := math.Mod(l, r)
		if m != 0 && (m < 0) != (r < 0) {
			m += r
		}
		return &Float{Value: m}, nil
	}
	return nil, operandTypeError(ctx, op, &Float{Value: l}, &Float{Value: r}, tok)
}

func complexArithmetic(ctx *Context, op string, l, r Object, tok lexer.Token) (Object, *Error) {
	lc, rc := toComplex(l), toComplex(r)
	switch op {
	case "+":
		return &Complex{Value: lc + rc}, nil
	case "-":
		return &Complex{Value: lc - rc}, nil
	case "*":
		return &Complex{Value: lc * rc}, nil
	case "/":
		if rc == 0 {
			return nil, zeroDivisionError(ctx, op, tok)
		}
		return &Complex{Value: lc / rc}, nil
	}
	return nil, operandTypeError(ctx, op, l, r, tok)
}

// maxRepeatLength bounds the result of text repetition.
const maxRepeatLength = 1 << 24

func repeat(ctx *Context, s string, n int64, tok lexer.Token) (Object, *Error) {
	if n <= 0 || s == "" {
		return &String{}, nil
	}
	if n > maxRepeatLength/int64(len(s)) {
		return nil, newError(ctx, "TYPE-0009", tok, map[string]any{"Limit": maxRepeatLength})
	}
	return &String{Value: strings.Repeat(s, int(n))}, nil
}

func isNull(obj Object) bool {
	_, ok := obj.(*Null)
	return ok || obj == nil
}

func isNumber(obj Object) bool {
	switch obj.(type) {
	case *Integer, *Float, *Complex:
		return true
	}
	return false
}

func toFloat(obj Object) float64 {
	switch n := obj.(type) {
	case *Integer:
		return float64(n.Value)
	case *Float:
		return n.Value
	case *Complex:
		return real(n.Value)
	}
	return 0
}

func toComplex(obj Object) complex128 {
	switch n := obj.(type) {
	case *Complex:
		return n.Value
	default:
		return complex(toFloat(obj), 0)
	}
}
