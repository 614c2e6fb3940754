package evaluator

import (
	"github.com/sambeau/unitx/pkg/unitx/lexer"
	"github.com/sambeau/unitx/pkg/unitx/units"
)

// Value is a payload together with its name, unit annotation and the token
// it came from. A Value without a payload but with a name is an unresolved
// reference to that name.
//
// Conversions are never applied eagerly: a pending {a->b} stays on the
// Value until it is read.
type Value struct {
	Payload Object
	Name    string
	Unit    units.Unit
	Token   lexer.Token
}

func (v *Value) Type() ObjectType { return VALUE_OBJ }
func (v *Value) Inspect() string {
	if v.Payload == nil {
		if v.Name != "" {
			return v.Name
		}
		return NULL.Inspect()
	}
	return v.Payload.Inspect() + v.Unit.String()
}

func newValue(payload Object, tok lexer.Token) *Value {
	return &Value{Payload: payload, Token: tok}
}

func noneValue(tok lexer.Token) *Value {
	return &Value{Payload: NULL, Token: tok}
}

// Resolve returns the payload with pending unit conversions applied.
func (v *Value) Resolve(ctx *Context) (Object, *Error) {
	obj, _, err := v.resolve(ctx)
	return obj, err
}

// resolve also returns the unit the payload is expressed in afterwards.
func (v *Value) resolve(ctx *Context) (Object, units.Unit, *Error) {
	if v.Payload != nil {
		obj, err := convert(ctx, v.Payload, v.Unit, v.Token)
		if err != nil {
			return nil, units.None, err
		}
		return obj, v.Unit.WithoutSource(), nil
	}

	if v.Name == "" {
		return NULL, units.None, nil
	}

	bound, ok := ctx.Scopes.Get(v.Name)
	if !ok || bound == v {
		return nil, units.None, nameError(ctx, v.Name, v.Token)
	}
	obj, unit, err := bound.resolve(ctx)
	if err != nil {
		return nil, units.None, err
	}
	if v.Unit.IsEmpty() {
		return obj, unit, nil
	}
	obj, err = convert(ctx, obj, v.Unit, v.Token)
	if err != nil {
		return nil, units.None, err
	}
	return obj, v.Unit.WithoutSource(), nil
}

// resolved returns a fresh anonymous Value holding v's converted payload.
func (v *Value) resolved(ctx *Context) (*Value, *Error) {
	obj, unit, err := v.resolve(ctx)
	if err != nil {
		return nil, err
	}
	return &Value{Payload: obj, Unit: unit, Token: v.Token}, nil
}

// convert applies the pending conversions in unit to obj. Lists are
// resolved element by element into a new list.
func convert(ctx *Context, obj Object, unit units.Unit, tok lexer.Token) (Object, *Error) {
	if list, ok := obj.(*List); ok {
		out := &List{Elements: make([]*Value, len(list.Elements))}
		for i, e := range list.Elements {
			r, err := e.resolved(ctx)
			if err != nil {
				return nil, err
			}
			out.Elements[i] = r
		}
		return out, nil
	}

	if !unit.HasSource() {
		return obj, nil
	}
	ctx.Logger.Trace().Str("unit", unit.Notation()).Str("value", obj.Inspect()).Msg("convert")

	switch p := obj.(type) {
	case *Integer:
		f, err := ctx.Table.Convert(float64(p.Value), unit)
		if err != nil {
			return nil, unitError(ctx, err, "", tok)
		}
		return numberFromFloat(f), nil

	case *Float:
		f, err := ctx.Table.Convert(p.Value, unit)
		if err != nil {
			return nil, unitError(ctx, err, "", tok)
		}
		return numberFromFloat(f), nil

	case *Complex:
		c, err := ctx.Table.ConvertComplex(p.Value, unit)
		if err != nil {
			return nil, unitError(ctx, err, "", tok)
		}
		return &Complex{Value: c}, nil

	case *String:
		return nil, newError(ctx, "TYPE-0008", tok, map[string]any{
			"Type": typeName(p),
			"Unit": unit.Notation(),
		})
	}

	return obj, nil
}

// numberFromFloat reduces whole results of a conversion to integers.
func numberFromFloat(f float64) Object {
	if n, ok := units.Integral(f); ok {
		return &Integer{Value: n}
	}
	return &Float{Value: f}
}
