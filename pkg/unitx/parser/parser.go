package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sambeau/unitx/pkg/unitx/ast"
	uerrors "github.com/sambeau/unitx/pkg/unitx/errors"
	"github.com/sambeau/unitx/pkg/unitx/lexer"
)

// Precedence levels for operators
const (
	_ int = iota
	LOWEST
	ASSIGN_PREC // = += -= ...
	LOGIC_OR    // ||
	LOGIC_AND   // &&
	EQUALS      // == !=
	LESSGREATER // > < >= <=
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -X !X ++X
	POSTFIX     // X++ X--
	CALL        // f(X)
	UNIT        // X{m}
)

// precedences maps tokens to their precedence
var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:          ASSIGN_PREC,
	lexer.PLUS_ASSIGN:     ASSIGN_PREC,
	lexer.MINUS_ASSIGN:    ASSIGN_PREC,
	lexer.ASTERISK_ASSIGN: ASSIGN_PREC,
	lexer.SLASH_ASSIGN:    ASSIGN_PREC,
	lexer.PERCENT_ASSIGN:  ASSIGN_PREC,
	lexer.OR:              LOGIC_OR,
	lexer.AND:             LOGIC_AND,
	lexer.EQ:              EQUALS,
	lexer.NOT_EQ:          EQUALS,
	lexer.LT:              LESSGREATER,
	lexer.GT:              LESSGREATER,
	lexer.LTE:             LESSGREATER,
	lexer.GTE:             LESSGREATER,
	lexer.PLUS:            SUM,
	lexer.MINUS:           SUM,
	lexer.ASTERISK:        PRODUCT,
	lexer.SLASH:           PRODUCT,
	lexer.PERCENT:         PRODUCT,
	lexer.INC:             POSTFIX,
	lexer.DEC:             POSTFIX,
	lexer.LPAREN:          CALL,
	lexer.LBRACE:          UNIT,
}

// Parser represents the parser
type Parser struct {
	l *lexer.Lexer

	structuredErrors []*uerrors.UnitXError
	incomplete       bool // input ended inside an unfinished construct

	// depth counts open parentheses and brackets; line breaks only end
	// expressions at depth zero
	depth int

	prevToken lexer.Token
	curToken  lexer.Token
	peekToken lexer.Token

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// New creates a new parser instance
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l: l,
	}

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.INT, p.parseIntegerLiteral)
	p.registerPrefix(lexer.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(lexer.IMAG, p.parseImaginaryLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBoolean)
	p.registerPrefix(lexer.FALSE, p.parseBoolean)
	p.registerPrefix(lexer.NONE, p.parseNone)
	p.registerPrefix(lexer.BANG, p.parsePrefixExpression)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpression)
	p.registerPrefix(lexer.INC, p.parsePrefixExpression)
	p.registerPrefix(lexer.DEC, p.parsePrefixExpression)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(lexer.LBRACKET, p.parseListLiteral)

	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	for _, t := range []lexer.TokenType{
		lexer.PLUS, lexer.MINUS, lexer.ASTERISK, lexer.SLASH, lexer.PERCENT,
		lexer.EQ, lexer.NOT_EQ, lexer.LT, lexer.GT, lexer.LTE, lexer.GTE,
		lexer.AND, lexer.OR,
	} {
		p.registerInfix(t, p.parseInfixExpression)
	}
	for _, t := range []lexer.TokenType{
		lexer.ASSIGN, lexer.PLUS_ASSIGN, lexer.MINUS_ASSIGN,
		lexer.ASTERISK_ASSIGN, lexer.SLASH_ASSIGN, lexer.PERCENT_ASSIGN,
	} {
		p.registerInfix(t, p.parseAssignExpression)
	}
	p.registerInfix(lexer.INC, p.parsePostfixExpression)
	p.registerInfix(lexer.DEC, p.parsePostfixExpression)
	p.registerInfix(lexer.LPAREN, p.parseCallExpression)
	p.registerInfix(lexer.LBRACE, p.parseAnnotatedExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// Errors returns parser errors as strings (convenience method for tests).
func (p *Parser) Errors() []string {
	result := make([]string, len(p.structuredErrors))
	for i, err := range p.structuredErrors {
		if err.Line > 0 {
			result[i] = fmt.Sprintf("line %d, column %d: %s", err.Line, err.Column, err.Message)
		} else {
			result[i] = err.Message
		}
	}
	return result
}

// StructuredErrors returns parser errors as structured UnitXError objects.
func (p *Parser) StructuredErrors() []*uerrors.UnitXError {
	return p.structuredErrors
}

// Incomplete reports whether the input ended while a block, list or
// argument list was still open. The REPL uses it to ask for more lines.
func (p *Parser) Incomplete() bool {
	return p.incomplete
}

// addError adds a structured error from the catalog.
// Only the first error is recorded - subsequent errors are usually cascading noise.
func (p *Parser) addError(code string, line, column int, data map[string]any) {
	if len(p.structuredErrors) > 0 {
		return
	}
	p.structuredErrors = append(p.structuredErrors, uerrors.NewWithPosition(code, line, column, data))
}

func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// nextToken advances prevToken, curToken, and peekToken
func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// ParseProgram parses the program and returns the AST
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = []ast.Statement{}

	for !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	return program
}

// parseStatement parses statements
func (p *Parser) parseStatement() ast.Statement {
	var stmt ast.Statement

	switch p.curToken.Type {
	case lexer.SEMICOLON:
		return nil
	case lexer.DEF:
		return p.parseFunctionDeclaration()
	case lexer.REP:
		return p.parseRepStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.RETURN:
		stmt = p.parseReturnStatement()
	case lexer.BREAK:
		stmt = &ast.BreakStatement{Token: p.curToken}
	case lexer.CONTINUE:
		stmt = &ast.ContinueStatement{Token: p.curToken}
	case lexer.PRINT, lexer.DUMP:
		stmt = p.parsePrintStatement()
	case lexer.ASSERT:
		stmt = p.parseAssertStatement()
	case lexer.BORDER:
		stmt = &ast.BorderStatement{Token: p.curToken}
	default:
		stmt = p.parseExpressionStatement()
	}

	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}

	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}
	// a brace on the same line that failed the unit lookahead is a bad annotation
	if p.peekTokenIs(lexer.LBRACE) && !p.peekToken.NewlineBefore {
		p.addError("PARSE-0005", p.peekToken.Line, p.peekToken.Column, nil)
		return nil
	}
	return stmt
}

// parseBlockStatement parses '{ statements }'. Reaching EOF before the
// closing brace marks the parse incomplete.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}
	block.Statements = []ast.Statement{}

	p.nextToken()

	for !p.curTokenIs(lexer.RBRACE) {
		if p.curTokenIs(lexer.EOF) {
			p.incomplete = true
			p.addError("PARSE-0001", p.curToken.Line, p.curToken.Column,
				map[string]any{"Expected": "'}'", "Got": "end of file"})
			return block
		}
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}

	return block
}

// parseFunctionDeclaration parses 'def name(a, b=default) { body }'
func (p *Parser) parseFunctionDeclaration() ast.Statement {
	decl := &ast.FunctionDeclaration{Token: p.curToken}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	decl.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	params, ok := p.parseParameters()
	if !ok {
		return nil
	}
	decl.Parameters = params

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	decl.Body = p.parseBlockStatement()

	return decl
}

// parseParameters parses a formal parameter list; curToken is '('.
func (p *Parser) parseParameters() ([]*ast.Parameter, bool) {
	p.depth++
	defer func() { p.depth-- }()

	params := []*ast.Parameter{}

	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return params, true
	}

	for {
		if !p.expectPeek(lexer.IDENT) {
			return nil, false
		}
		param := &ast.Parameter{Name: &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}}

		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			param.Default = p.parseExpression(ASSIGN_PREC)
			if param.Default == nil {
				return nil, false
			}
		}
		params = append(params, param)

		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(lexer.RPAREN) {
		return nil, false
	}
	return params, true
}

// parseRepStatement parses 'rep(var, count-or-list) body'
func (p *Parser) parseRepStatement() ast.Statement {
	stmt := &ast.RepStatement{Token: p.curToken}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.depth++
	if !p.expectPeek(lexer.IDENT) {
		p.depth--
		return nil
	}
	stmt.Variable = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(lexer.COMMA) {
		p.depth--
		return nil
	}
	p.nextToken()
	stmt.Iterable = p.parseExpression(LOWEST)
	p.depth--
	if stmt.Iterable == nil || !p.expectPeek(lexer.RPAREN) {
		return nil
	}

	if !p.advanceToBody() {
		return nil
	}
	stmt.Body = p.parseStatement()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseIfStatement parses 'if (cond) stmt [else stmt]'
func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.depth++
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	p.depth--
	if stmt.Condition == nil || !p.expectPeek(lexer.RPAREN) {
		return nil
	}

	if !p.advanceToBody() {
		return nil
	}
	stmt.Consequence = p.parseStatement()
	if stmt.Consequence == nil {
		return nil
	}

	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		if !p.advanceToBody() {
			return nil
		}
		stmt.Alternative = p.parseStatement()
		if stmt.Alternative == nil {
			return nil
		}
	}

	return stmt
}

// advanceToBody moves onto the first token of a controlled statement.
func (p *Parser) advanceToBody() bool {
	if p.peekTokenIs(lexer.EOF) {
		p.incomplete = true
		p.addError("PARSE-0001", p.peekToken.Line, p.peekToken.Column,
			map[string]any{"Expected": "a statement", "Got": "end of file"})
		return false
	}
	p.nextToken()
	return true
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	if p.peekTokenIs(lexer.SEMICOLON) || p.peekTokenIs(lexer.RBRACE) ||
		p.peekTokenIs(lexer.EOF) || p.peekToken.NewlineBefore {
		return stmt
	}

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	return stmt
}

func (p *Parser) parsePrintStatement() ast.Statement {
	stmt := &ast.PrintStatement{Token: p.curToken, Dump: p.curTokenIs(lexer.DUMP)}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	args, ok := p.parseExpressionList(lexer.RPAREN)
	if !ok {
		return nil
	}
	stmt.Arguments = args
	return stmt
}

func (p *Parser) parseAssertStatement() ast.Statement {
	stmt := &ast.AssertStatement{Token: p.curToken}
	p.nextToken()
	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}
	return stmt
}

// parseExpression parses expressions using Pratt parsing
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}

	leftExp := prefix()
	if leftExp == nil {
		return nil
	}

	for !p.peekTokenIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		if p.peekToken.NewlineBefore && p.depth == 0 {
			return leftExp
		}
		// '{' continues an expression only when it holds a unit annotation
		if p.peekTokenIs(lexer.LBRACE) && (p.peekToken.NewlineBefore || !p.unitAhead()) {
			return leftExp
		}

		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
		if leftExp == nil {
			return nil
		}
	}

	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken}

	value, err := strconv.ParseInt(p.curToken.Literal, 0, 64)
	if err != nil {
		p.addError("PARSE-0004", p.curToken.Line, p.curToken.Column,
			map[string]any{"Literal": p.curToken.Literal})
		return nil
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	lit := &ast.FloatLiteral{Token: p.curToken}

	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addError("PARSE-0004", p.curToken.Line, p.curToken.Column,
			map[string]any{"Literal": p.curToken.Literal})
		return nil
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseImaginaryLiteral() ast.Expression {
	lit := &ast.ImaginaryLiteral{Token: p.curToken}

	digits := strings.TrimRight(p.curToken.Literal, "jJ")
	value, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		p.addError("PARSE-0004", p.curToken.Line, p.curToken.Column,
			map[string]any{"Literal": p.curToken.Literal})
		return nil
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBoolean() ast.Expression {
	return &ast.Boolean{Token: p.curToken, Value: p.curTokenIs(lexer.TRUE)}
}

func (p *Parser) parseNone() ast.Expression {
	return &ast.NoneLiteral{Token: p.curToken}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expression := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}

	p.nextToken()
	expression.Right = p.parseExpression(PREFIX)
	if expression.Right == nil {
		return nil
	}

	return expression
}

func (p *Parser) parsePostfixExpression(left ast.Expression) ast.Expression {
	return &ast.PostfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}

	return expression
}

// parseAssignExpression parses '=' and the compound assignments. They are
// right-associative so 'a = b = 1' assigns both.
func (p *Parser) parseAssignExpression(target ast.Expression) ast.Expression {
	expression := &ast.AssignExpression{
		Token:    p.curToken,
		Target:   target,
		Operator: p.curToken.Literal,
	}

	p.nextToken()
	expression.Value = p.parseExpression(ASSIGN_PREC - 1)
	if expression.Value == nil {
		return nil
	}

	return expression
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.depth++
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	p.depth--

	if exp == nil || !p.expectPeek(lexer.RPAREN) {
		return nil
	}

	return exp
}

func (p *Parser) parseListLiteral() ast.Expression {
	list := &ast.ListLiteral{Token: p.curToken}

	elements, ok := p.parseExpressionList(lexer.RBRACKET)
	if !ok {
		return nil
	}
	list.Elements = elements
	return list
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	ident, ok := function.(*ast.Identifier)
	if !ok {
		p.addError("PARSE-0002", p.curToken.Line, p.curToken.Column,
			map[string]any{"Token": p.curToken.Literal})
		return nil
	}

	call := &ast.CallExpression{Token: p.curToken, Function: ident}
	args, ok := p.parseExpressionList(lexer.RPAREN)
	if !ok {
		return nil
	}
	call.Arguments = args
	return call
}

// parseExpressionList parses comma-separated expressions up to end.
// curToken is the opening delimiter. A trailing comma is allowed.
func (p *Parser) parseExpressionList(end lexer.TokenType) ([]ast.Expression, bool) {
	p.depth++
	defer func() { p.depth-- }()

	list := []ast.Expression{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}

	p.nextToken()
	for {
		exp := p.parseExpression(LOWEST)
		if exp == nil {
			return nil, false
		}
		list = append(list, exp)

		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(end) {
			break
		}
		p.nextToken()
	}

	if !p.expectPeek(end) {
		return nil, false
	}

	return list, true
}

// unitAhead reports whether the '{' in peekToken opens a unit annotation
// rather than a block. The lexer is rewound afterwards.
func (p *Parser) unitAhead() bool {
	state := p.l.SaveState()
	defer p.l.RestoreState(state)

	tok := p.l.NextToken()
	if tok.Type == lexer.AT {
		return p.l.NextToken().Type == lexer.RBRACE
	}

	// side ('->' side)? ('/' side ('->' side)?)? '}'
	for part := 0; part < 2; part++ {
		if tok.Type != lexer.IDENT {
			return false
		}
		tok = p.l.NextToken()
		if tok.Type == lexer.ARROW {
			if p.l.NextToken().Type != lexer.IDENT {
				return false
			}
			tok = p.l.NextToken()
		}
		if tok.Type == lexer.RBRACE {
			return true
		}
		if tok.Type != lexer.SLASH || part == 1 {
			return false
		}
		tok = p.l.NextToken()
	}
	return false
}

// parseAnnotatedExpression attaches the unit in braces to operand.
// curToken is '{' and unitAhead has already confirmed the shape.
func (p *Parser) parseAnnotatedExpression(operand ast.Expression) ast.Expression {
	unit := p.parseUnitLiteral()
	if unit == nil {
		return nil
	}
	return &ast.AnnotatedExpression{Token: ast.TokenOf(operand), Operand: operand, Unit: unit}
}

func (p *Parser) parseUnitLiteral() *ast.UnitLiteral {
	unit := &ast.UnitLiteral{Token: p.curToken}

	if p.peekTokenIs(lexer.AT) {
		p.nextToken()
		unit.Clear = true
		if !p.expectPeek(lexer.RBRACE) {
			return nil
		}
		return unit
	}

	var ok bool
	if unit.SourceNumer, unit.Numer, ok = p.parseUnitSide(); !ok {
		return nil
	}
	if p.peekTokenIs(lexer.SLASH) {
		p.nextToken()
		if unit.SourceDenom, unit.Denom, ok = p.parseUnitSide(); !ok {
			return nil
		}
	}
	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}
	return unit
}

// parseUnitSide parses 'sym' or 'from->to', returning (source, target).
func (p *Parser) parseUnitSide() (string, string, bool) {
	if !p.expectPeek(lexer.IDENT) {
		return "", "", false
	}
	first := p.curToken.Literal
	if !p.peekTokenIs(lexer.ARROW) {
		return "", first, true
	}
	p.nextToken()
	if !p.expectPeek(lexer.IDENT) {
		return "", "", false
	}
	return first, p.curToken.Literal, true
}

// Helper functions
func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t lexer.TokenType) {
	if p.peekTokenIs(lexer.EOF) {
		p.incomplete = true
	}
	if p.peekTokenIs(lexer.ILLEGAL) || p.peekTokenIs(lexer.UNTERMINATED) {
		p.illegalTokenError(p.peekToken)
		return
	}

	got := p.peekToken.Literal
	if got == "" {
		got = readableName(p.peekToken.Type)
	}

	// Report at the position after the last successfully parsed token
	line := p.curToken.Line
	column := p.curToken.Column + len([]rune(p.curToken.Literal))

	p.addError("PARSE-0001", line, column, map[string]any{
		"Expected": readableName(t),
		"Got":      got,
	})
}

func (p *Parser) noPrefixParseFnError(tok lexer.Token) {
	switch tok.Type {
	case lexer.ILLEGAL, lexer.UNTERMINATED:
		p.illegalTokenError(tok)
	case lexer.EOF:
		p.incomplete = true
		p.addError("PARSE-0001", tok.Line, tok.Column, map[string]any{
			"Expected": "an expression",
			"Got":      "end of file",
		})
	default:
		p.addError("PARSE-0002", tok.Line, tok.Column, map[string]any{"Token": tok.Literal})
	}
}

func (p *Parser) illegalTokenError(tok lexer.Token) {
	switch {
	case tok.Type == lexer.UNTERMINATED && tok.Literal == "/*":
		p.addError("PARSE-0007", tok.Line, tok.Column, nil)
	case tok.Type == lexer.UNTERMINATED:
		p.addError("PARSE-0003", tok.Line, tok.Column, nil)
	default:
		p.addError("PARSE-0006", tok.Line, tok.Column, map[string]any{"Char": tok.Literal})
	}
}

func readableName(t lexer.TokenType) string {
	switch t {
	case lexer.IDENT:
		return "identifier"
	case lexer.EOF:
		return "end of file"
	case lexer.INT, lexer.FLOAT, lexer.IMAG:
		return "number"
	case lexer.STRING:
		return "string"
	default:
		return "'" + t.String() + "'"
	}
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}
