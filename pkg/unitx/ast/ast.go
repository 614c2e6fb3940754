package ast

import (
	"bytes"
	"strings"

	"github.com/sambeau/unitx/pkg/unitx/lexer"
)

// Node represents any node in the AST
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement represents statement nodes
type Statement interface {
	Node
	statementNode()
}

// Expression represents expression nodes
type Expression interface {
	Node
	expressionNode()
}

// Program represents the root node of every AST
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer

	for i, s := range p.Statements {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(s.String())
	}

	return out.String()
}

// ExpressionStatement wraps an expression used as a statement
type ExpressionStatement struct {
	Token      lexer.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String()
	}
	return ""
}

// BlockStatement is a brace-delimited statement list
type BlockStatement struct {
	Token      lexer.Token // the { token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer

	out.WriteString("{ ")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
		out.WriteString("; ")
	}
	out.WriteString("}")

	return out.String()
}

// Parameter is a formal function parameter with an optional default
type Parameter struct {
	Name    *Identifier
	Default Expression
}

func (p *Parameter) String() string {
	if p.Default != nil {
		return p.Name.String() + "=" + p.Default.String()
	}
	return p.Name.String()
}

// FunctionDeclaration represents 'def name(params) { body }'
type FunctionDeclaration struct {
	Token      lexer.Token // the 'def' token
	Name       *Identifier
	Parameters []*Parameter
	Body       *BlockStatement
}

func (fd *FunctionDeclaration) statementNode()       {}
func (fd *FunctionDeclaration) TokenLiteral() string { return fd.Token.Literal }
func (fd *FunctionDeclaration) String() string {
	params := make([]string, len(fd.Parameters))
	for i, p := range fd.Parameters {
		params[i] = p.String()
	}
	return "def " + fd.Name.String() + "(" + strings.Join(params, ", ") + ") " + fd.Body.String()
}

// RepStatement represents 'rep(var, count-or-list) body'
type RepStatement struct {
	Token    lexer.Token // the 'rep' token
	Variable *Identifier
	Iterable Expression
	Body     Statement
}

func (rs *RepStatement) statementNode()       {}
func (rs *RepStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *RepStatement) String() string {
	return "rep(" + rs.Variable.String() + ", " + rs.Iterable.String() + ") " + rs.Body.String()
}

// IfStatement represents 'if (cond) stmt else stmt'
type IfStatement struct {
	Token       lexer.Token // the 'if' token
	Condition   Expression
	Consequence Statement
	Alternative Statement // may be nil
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) String() string {
	out := "if (" + is.Condition.String() + ") " + is.Consequence.String()
	if is.Alternative != nil {
		out += " else " + is.Alternative.String()
	}
	return out
}

// ReturnStatement represents 'return' with an optional value
type ReturnStatement struct {
	Token lexer.Token // the 'return' token
	Value Expression  // may be nil
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) String() string {
	if rs.Value != nil {
		return "return " + rs.Value.String()
	}
	return "return"
}

// BreakStatement represents 'break'
type BreakStatement struct {
	Token lexer.Token
}

func (bs *BreakStatement) statementNode()       {}
func (bs *BreakStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BreakStatement) String() string       { return "break" }

// ContinueStatement represents 'continue'
type ContinueStatement struct {
	Token lexer.Token
}

func (cs *ContinueStatement) statementNode()       {}
func (cs *ContinueStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *ContinueStatement) String() string       { return "continue" }

// PrintStatement represents 'print(...)' and 'dump(...)'
type PrintStatement struct {
	Token     lexer.Token // the 'print' or 'dump' token
	Dump      bool
	Arguments []Expression
}

func (ps *PrintStatement) statementNode()       {}
func (ps *PrintStatement) TokenLiteral() string { return ps.Token.Literal }
func (ps *PrintStatement) String() string {
	return ps.Token.Literal + "(" + joinExpressions(ps.Arguments) + ")"
}

// AssertStatement represents 'assert expr'
type AssertStatement struct {
	Token      lexer.Token // the 'assert' token
	Expression Expression
}

func (as *AssertStatement) statementNode()       {}
func (as *AssertStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AssertStatement) String() string {
	return "assert " + as.Expression.String()
}

// BorderStatement is a standalone run of dashes echoed verbatim
type BorderStatement struct {
	Token lexer.Token
}

func (bs *BorderStatement) statementNode()       {}
func (bs *BorderStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BorderStatement) String() string       { return bs.Token.Literal }

func joinExpressions(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
