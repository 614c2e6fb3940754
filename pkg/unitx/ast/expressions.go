package ast

import (
	"strconv"
	"strings"

	"github.com/sambeau/unitx/pkg/unitx/lexer"
)

// Identifier is a variable or function name
type Identifier struct {
	Token lexer.Token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// IntegerLiteral is a decimal, hex, octal or binary integer
type IntegerLiteral struct {
	Token lexer.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string       { return il.Token.Literal }

// FloatLiteral is a decimal or exponent float
type FloatLiteral struct {
	Token lexer.Token
	Value float64
}

func (fl *FloatLiteral) expressionNode()      {}
func (fl *FloatLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FloatLiteral) String() string       { return fl.Token.Literal }

// ImaginaryLiteral is a number with a 'j' suffix
type ImaginaryLiteral struct {
	Token lexer.Token
	Value float64 // the imaginary part
}

func (il *ImaginaryLiteral) expressionNode()      {}
func (il *ImaginaryLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *ImaginaryLiteral) String() string       { return il.Token.Literal }

// StringLiteral holds decoded text
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return strconv.Quote(sl.Value) }

// Boolean is 'true' or 'false'
type Boolean struct {
	Token lexer.Token
	Value bool
}

func (b *Boolean) expressionNode()      {}
func (b *Boolean) TokenLiteral() string { return b.Token.Literal }
func (b *Boolean) String() string       { return b.Token.Literal }

// NoneLiteral is 'None'
type NoneLiteral struct {
	Token lexer.Token
}

func (n *NoneLiteral) expressionNode()      {}
func (n *NoneLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NoneLiteral) String() string       { return "None" }

// ListLiteral is '[a, b, c]'
type ListLiteral struct {
	Token    lexer.Token // the [ token
	Elements []Expression
}

func (ll *ListLiteral) expressionNode()      {}
func (ll *ListLiteral) TokenLiteral() string { return ll.Token.Literal }
func (ll *ListLiteral) String() string       { return "[" + joinExpressions(ll.Elements) + "]" }

// UnitLiteral is the annotation inside braces following a primary:
// {m}, {km->m}, {m/s}, {km->m/h->s} or {@}.
type UnitLiteral struct {
	Token       lexer.Token // the { token
	Numer       string
	SourceNumer string
	Denom       string
	SourceDenom string
	Clear       bool // {@}
}

func (ul *UnitLiteral) expressionNode()      {}
func (ul *UnitLiteral) TokenLiteral() string { return ul.Token.Literal }
func (ul *UnitLiteral) String() string {
	if ul.Clear {
		return "{@}"
	}
	var sb strings.Builder
	sb.WriteString("{")
	sb.WriteString(arrow(ul.SourceNumer, ul.Numer))
	if ul.Denom != "" {
		sb.WriteString("/")
		sb.WriteString(arrow(ul.SourceDenom, ul.Denom))
	}
	sb.WriteString("}")
	return sb.String()
}

func arrow(source, target string) string {
	if source == "" {
		return target
	}
	return source + "->" + target
}

// AnnotatedExpression is a primary followed by a unit annotation, e.g.
// 5{m}, x{m->cm} or [1, 2]{kg}.
type AnnotatedExpression struct {
	Token   lexer.Token // the first token of the operand
	Operand Expression
	Unit    *UnitLiteral
}

func (ae *AnnotatedExpression) expressionNode()      {}
func (ae *AnnotatedExpression) TokenLiteral() string { return ae.Token.Literal }
func (ae *AnnotatedExpression) String() string {
	return ae.Operand.String() + ae.Unit.String()
}

// PrefixExpression is '-x', '!x', '++x' or '--x'
type PrefixExpression struct {
	Token    lexer.Token // the operator token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + pe.Right.String() + ")"
}

// PostfixExpression is 'x++' or 'x--'
type PostfixExpression struct {
	Token    lexer.Token // the operator token
	Operator string
	Left     Expression
}

func (pe *PostfixExpression) expressionNode()      {}
func (pe *PostfixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PostfixExpression) String() string {
	return "(" + pe.Left.String() + pe.Operator + ")"
}

// InfixExpression is a binary arithmetic, comparison or logical operation
type InfixExpression struct {
	Token    lexer.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}

// AssignExpression is 'x = v' or a compound form such as 'x += v'
type AssignExpression struct {
	Token    lexer.Token // the operator token
	Target   Expression
	Operator string // "=", "+=", "-=", "*=", "/=", "%="
	Value    Expression
}

func (ae *AssignExpression) expressionNode()      {}
func (ae *AssignExpression) TokenLiteral() string { return ae.Token.Literal }
func (ae *AssignExpression) String() string {
	return ae.Target.String() + " " + ae.Operator + " " + ae.Value.String()
}

// CallExpression is 'name(args...)'
type CallExpression struct {
	Token     lexer.Token // the ( token
	Function  *Identifier
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) String() string {
	return ce.Function.String() + "(" + joinExpressions(ce.Arguments) + ")"
}

// TokenOf returns the token an expression is attributed to in errors.
func TokenOf(exp Expression) lexer.Token {
	switch e := exp.(type) {
	case *Identifier:
		return e.Token
	case *IntegerLiteral:
		return e.Token
	case *FloatLiteral:
		return e.Token
	case *ImaginaryLiteral:
		return e.Token
	case *StringLiteral:
		return e.Token
	case *Boolean:
		return e.Token
	case *NoneLiteral:
		return e.Token
	case *ListLiteral:
		return e.Token
	case *AnnotatedExpression:
		return e.Token
	case *PrefixExpression:
		return e.Token
	case *PostfixExpression:
		return TokenOf(e.Left)
	case *InfixExpression:
		return TokenOf(e.Left)
	case *AssignExpression:
		return TokenOf(e.Target)
	case *CallExpression:
		return e.Function.Token
	}
	return lexer.Token{}
}
