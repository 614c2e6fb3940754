// eval_errors.go - error creation helpers for the UnitX evaluator
//
// Every helper renders a catalog entry in the context's language and
// attributes it to a token.

package evaluator

import (
	"errors"

	uerrors "github.com/sambeau/unitx/pkg/unitx/errors"
	"github.com/sambeau/unitx/pkg/unitx/lexer"
	"github.com/sambeau/unitx/pkg/unitx/units"
)

// newError creates a structured error from the catalog.
func newError(ctx *Context, code string, tok lexer.Token, data map[string]any) *Error {
	return fromUnitXError(ctx, uerrors.NewLocalized(ctx.Lang, code, data), tok)
}

func fromUnitXError(ctx *Context, perr *uerrors.UnitXError, tok lexer.Token) *Error {
	return &Error{
		Class:   perr.Class,
		Code:    perr.Code,
		Message: perr.Message,
		Hints:   perr.Hints,
		Line:    tok.Line,
		Column:  tok.Column,
		File:    ctx.Filename,
		Data:    perr.Data,
	}
}

// nameError reports an unbound name with a suggestion from the names in
// scope.
func nameError(ctx *Context, name string, tok lexer.Token) *Error {
	return fromUnitXError(ctx, uerrors.NewUndefinedName(ctx.Lang, name, ctx.Scopes.Names()), tok)
}

func noneOperandError(ctx *Context, op string, tok lexer.Token) *Error {
	return newError(ctx, "TYPE-0002", tok, map[string]any{"Operator": op})
}

func operandTypeError(ctx *Context, op string, left, right Object, tok lexer.Token) *Error {
	return newError(ctx, "TYPE-0001", tok, map[string]any{
		"Operator": op,
		"Left":     typeName(left),
		"Right":    typeName(right),
	})
}

func zeroDivisionError(ctx *Context, op string, tok lexer.Token) *Error {
	phrase := "division"
	if op == "%" {
		phrase = "modulo"
	}
	return newError(ctx, "ZERO-0001", tok, map[string]any{
		"Operator": uerrors.Phrase(ctx.Lang, phrase),
	})
}

func controlError(ctx *Context, keyword string, tok lexer.Token) *Error {
	return newError(ctx, "CTRL-0001", tok, map[string]any{"Keyword": keyword})
}

// unitError maps an error from the units package onto the catalog. op is
// the operator for additive mismatches, or "" for a conversion.
func unitError(ctx *Context, err error, op string, tok lexer.Token) *Error {
	var (
		mismatch *units.MismatchError
		unknown  *units.UnknownUnitError
		offset   *units.OffsetError
	)

	switch {
	case errors.As(err, &mismatch):
		left := mismatch.Left
		right := mismatch.Right
		if op == "" {
			return newError(ctx, "UNIT-0001", tok, map[string]any{
				"From":         left.String(),
				"FromCategory": describe(ctx, left),
				"To":           right.String(),
				"ToCategory":   describe(ctx, right),
			})
		}
		return newError(ctx, "UNIT-0002", tok, map[string]any{
			"Operator":      op,
			"Left":          left.String(),
			"LeftCategory":  describe(ctx, left),
			"Right":         right.String(),
			"RightCategory": describe(ctx, right),
		})

	case errors.As(err, &unknown):
		perr := uerrors.NewUnknownUnit(ctx.Lang, unknown.Symbol, ctx.Table.Symbols())
		return fromUnitXError(ctx, perr, tok)

	case errors.As(err, &offset):
		return newError(ctx, "UNIT-0004", tok, map[string]any{
			"Unit":  offset.Symbol,
			"Where": uerrors.Phrase(ctx.Lang, offset.Where),
		})
	}

	perr := uerrors.NewSimple(uerrors.ClassUnit, err.Error())
	return fromUnitXError(ctx, perr, tok)
}

// describe names the categories of u, translating the fixed words the
// table does not know about.
func describe(ctx *Context, u units.Unit) string {
	s := ctx.Table.Describe(u, ctx.Lang)
	switch s {
	case "dimensionless", "unknown":
		return uerrors.Phrase(ctx.Lang, s)
	}
	return s
}
