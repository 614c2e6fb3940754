package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType represents different types of tokens
type TokenType int

const (
	// Special tokens
	ILLEGAL      TokenType = iota
	EOF                    // end of input
	UNTERMINATED           // string or block comment that never closes

	// Identifiers and literals
	IDENT  // speed, x, 時間, ...
	INT    // 42, 0x2A, 0o52, 052, 0b101010
	FLOAT  // 3.14, 1e3
	IMAG   // 2j, 1.5j
	STRING // "text", 'text', """text""", b'bytes'

	// Assignment operators
	ASSIGN          // =
	PLUS_ASSIGN     // +=
	MINUS_ASSIGN    // -=
	ASTERISK_ASSIGN // *=
	SLASH_ASSIGN    // /=
	PERCENT_ASSIGN  // %=

	// Arithmetic operators
	PLUS     // +
	MINUS    // -
	ASTERISK // *
	SLASH    // /
	PERCENT  // %
	INC      // ++
	DEC      // --

	// Comparison and logic
	BANG   // !
	LT     // <
	GT     // >
	LTE    // <=
	GTE    // >=
	EQ     // ==
	NOT_EQ // !=
	AND    // &&
	OR     // ||

	// Delimiters
	ARROW     // ->
	AT        // @
	COMMA     // ,
	SEMICOLON // ;
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	BORDER    // --- up to ----------

	// Keywords
	DEF      // "def"
	REP      // "rep"
	IF       // "if"
	ELSE     // "else"
	RETURN   // "return"
	BREAK    // "break"
	CONTINUE // "continue"
	PRINT    // "print"
	DUMP     // "dump"
	ASSERT   // "assert"
	TRUE     // "true"
	FALSE    // "false"
	NONE     // "None"
)

// Token represents a single token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
	// NewlineBefore is set when at least one line break separates this token
	// from the previous one. The parser uses it to end statements.
	NewlineBefore bool
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %s, Line: %d, Column: %d}",
		t.Type.String(), t.Literal, t.Line, t.Column)
}

var tokenNames = map[TokenType]string{
	ILLEGAL:         "ILLEGAL",
	EOF:             "EOF",
	UNTERMINATED:    "UNTERMINATED",
	IDENT:           "IDENT",
	INT:             "INT",
	FLOAT:           "FLOAT",
	IMAG:            "IMAG",
	STRING:          "STRING",
	ASSIGN:          "=",
	PLUS_ASSIGN:     "+=",
	MINUS_ASSIGN:    "-=",
	ASTERISK_ASSIGN: "*=",
	SLASH_ASSIGN:    "/=",
	PERCENT_ASSIGN:  "%=",
	PLUS:            "+",
	MINUS:           "-",
	ASTERISK:        "*",
	SLASH:           "/",
	PERCENT:         "%",
	INC:             "++",
	DEC:             "--",
	BANG:            "!",
	LT:              "<",
	GT:              ">",
	LTE:             "<=",
	GTE:             ">=",
	EQ:              "==",
	NOT_EQ:          "!=",
	AND:             "&&",
	OR:              "||",
	ARROW:           "->",
	AT:              "@",
	COMMA:           ",",
	SEMICOLON:       ";",
	LPAREN:          "(",
	RPAREN:          ")",
	LBRACE:          "{",
	RBRACE:          "}",
	LBRACKET:        "[",
	RBRACKET:        "]",
	BORDER:          "BORDER",
	DEF:             "def",
	REP:             "rep",
	IF:              "if",
	ELSE:            "else",
	RETURN:          "return",
	BREAK:           "break",
	CONTINUE:        "continue",
	PRINT:           "print",
	DUMP:            "dump",
	ASSERT:          "assert",
	TRUE:            "true",
	FALSE:           "false",
	NONE:            "None",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

var keywords = map[string]TokenType{
	"def":      DEF,
	"rep":      REP,
	"if":       IF,
	"else":     ELSE,
	"return":   RETURN,
	"break":    BREAK,
	"continue": CONTINUE,
	"print":    PRINT,
	"dump":     DUMP,
	"assert":   ASSERT,
	"true":     TRUE,
	"false":    FALSE,
	"None":     NONE,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Border runs shorter or longer than this are lexed as operators.
const (
	minBorder = 3
	maxBorder = 10
)

// Lexer represents the lexical analyzer
type Lexer struct {
	filename     string
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination (first byte)
	chRune       rune // current character as a rune
	chSize       int  // byte size of current character
	line         int
	column       int
	sawNewline   bool // a line break was skipped since the last token
	started      bool // at least one token has been produced
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewWithFilename(input, "<input>")
}

// NewWithFilename creates a new lexer instance with a specific filename
func NewWithFilename(input string, filename string) *Lexer {
	l := &Lexer{
		filename: filename,
		input:    input,
		line:     1,
		column:   0,
	}
	l.readChar()
	return l
}

// Filename returns the name the lexer was created with.
func (l *Lexer) Filename() string {
	return l.filename
}

// LexerState holds the state of a lexer for save/restore
type LexerState struct {
	position     int
	readPosition int
	ch           byte
	chRune       rune
	chSize       int
	line         int
	column       int
	sawNewline   bool
	started      bool
}

// SaveState saves the current lexer state for potential restoration
func (l *Lexer) SaveState() LexerState {
	return LexerState{
		position:     l.position,
		readPosition: l.readPosition,
		ch:           l.ch,
		chRune:       l.chRune,
		chSize:       l.chSize,
		line:         l.line,
		column:       l.column,
		sawNewline:   l.sawNewline,
		started:      l.started,
	}
}

// RestoreState restores the lexer to a previously saved state
func (l *Lexer) RestoreState(state LexerState) {
	l.position = state.position
	l.readPosition = state.readPosition
	l.ch = state.ch
	l.chRune = state.chRune
	l.chSize = state.chSize
	l.line = state.line
	l.column = state.column
	l.sawNewline = state.sawNewline
	l.started = state.started
}

// PeekToken returns the next token without consuming it
func (l *Lexer) PeekToken() Token {
	state := l.SaveState()
	tok := l.NextToken()
	l.RestoreState(state)
	return tok
}

// readChar reads the next character and advances position.
// ASCII takes a fast path; other bytes are decoded as UTF-8.
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // NUL represents EOF
		l.chRune = 0
		l.chSize = 0
		l.position = l.readPosition
		return
	}

	b := l.input[l.readPosition]

	if b < utf8.RuneSelf {
		l.ch = b
		l.chRune = rune(b)
		l.chSize = 1
		l.position = l.readPosition
		l.readPosition++

		if l.ch == '\n' {
			l.line++
			l.column = 0
		} else {
			l.column++
		}
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = b
	l.chRune = r
	l.chSize = size
	l.position = l.readPosition
	l.readPosition += size
	l.column++
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// peekCharN returns the character n positions ahead without advancing position
func (l *Lexer) peekCharN(n int) byte {
	pos := l.readPosition + n - 1
	if pos >= len(l.input) {
		return 0
	}
	return l.input[pos]
}

// NextToken scans the input and returns the next token
func (l *Lexer) NextToken() Token {
	if tok, ok := l.skipTrivia(); !ok {
		return l.finish(tok)
	}

	line, col := l.line, l.column
	var tok Token

	switch l.ch {
	case '=':
		tok = l.twoCharToken('=', EQ, ASSIGN)
	case '+':
		switch l.peekChar() {
		case '+':
			tok = l.consume(INC, 2)
		case '=':
			tok = l.consume(PLUS_ASSIGN, 2)
		default:
			tok = l.consume(PLUS, 1)
		}
	case '-':
		if n := l.dashRun(); n >= minBorder && n <= maxBorder && l.atLineStart() && l.borderEndsLine(n) {
			tok = l.consume(BORDER, n)
			break
		}
		switch l.peekChar() {
		case '-':
			tok = l.consume(DEC, 2)
		case '=':
			tok = l.consume(MINUS_ASSIGN, 2)
		case '>':
			tok = l.consume(ARROW, 2)
		default:
			tok = l.consume(MINUS, 1)
		}
	case '*':
		tok = l.twoCharToken('=', ASTERISK_ASSIGN, ASTERISK)
	case '/':
		tok = l.twoCharToken('=', SLASH_ASSIGN, SLASH)
	case '%':
		tok = l.twoCharToken('=', PERCENT_ASSIGN, PERCENT)
	case '!':
		tok = l.twoCharToken('=', NOT_EQ, BANG)
	case '<':
		tok = l.twoCharToken('=', LTE, LT)
	case '>':
		tok = l.twoCharToken('=', GTE, GT)
	case '&':
		if l.peekChar() == '&' {
			tok = l.consume(AND, 2)
		} else {
			tok = l.consume(ILLEGAL, 1)
		}
	case '|':
		if l.peekChar() == '|' {
			tok = l.consume(OR, 2)
		} else {
			tok = l.consume(ILLEGAL, 1)
		}
	case '@':
		tok = l.consume(AT, 1)
	case ',':
		tok = l.consume(COMMA, 1)
	case ';':
		tok = l.consume(SEMICOLON, 1)
	case '(':
		tok = l.consume(LPAREN, 1)
	case ')':
		tok = l.consume(RPAREN, 1)
	case '{':
		tok = l.consume(LBRACE, 1)
	case '}':
		tok = l.consume(RBRACE, 1)
	case '[':
		tok = l.consume(LBRACKET, 1)
	case ']':
		tok = l.consume(RBRACKET, 1)
	case '"', '\'':
		return l.finish(l.readStringToken(line, col, false))
	case 0:
		tok = Token{Type: EOF, Literal: ""}
	default:
		if isLetterRune(l.chRune) {
			ident := l.readIdentifier()
			if isStringPrefix(ident) && (l.ch == '"' || l.ch == '\'') {
				raw := strings.ContainsAny(ident, "rR")
				return l.finish(l.readStringToken(line, col, raw))
			}
			return l.finish(Token{Type: LookupIdent(ident), Literal: ident, Line: line, Column: col})
		}
		if isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())) {
			return l.finish(l.readNumber(line, col))
		}
		lit := string(l.chRune)
		l.readChar()
		tok = Token{Type: ILLEGAL, Literal: lit}
	}

	tok.Line, tok.Column = line, col
	return l.finish(tok)
}

// finish stamps the pending newline flag onto tok.
func (l *Lexer) finish(tok Token) Token {
	tok.NewlineBefore = l.sawNewline
	l.sawNewline = false
	l.started = true
	return tok
}

// consume reads n single-byte characters and returns them as one token.
func (l *Lexer) consume(t TokenType, n int) Token {
	start := l.position
	for i := 0; i < n; i++ {
		l.readChar()
	}
	return Token{Type: t, Literal: l.input[start:l.position]}
}

// twoCharToken returns two if the next char is second, else one.
func (l *Lexer) twoCharToken(second byte, two, one TokenType) Token {
	if l.peekChar() == second {
		return l.consume(two, 2)
	}
	return l.consume(one, 1)
}

// skipTrivia skips whitespace and comments. It returns false together with
// an UNTERMINATED token when a block comment runs off the end of input.
func (l *Lexer) skipTrivia() (Token, bool) {
	for {
		switch {
		case l.ch == '\n':
			l.sawNewline = true
			l.readChar()
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()
		case l.ch == '#' || (l.ch == '/' && l.peekChar() == '/'):
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			line, col := l.line, l.column
			l.readChar()
			l.readChar()
			for !(l.ch == '*' && l.peekChar() == '/') {
				if l.ch == 0 {
					return Token{Type: UNTERMINATED, Literal: "/*", Line: line, Column: col}, false
				}
				if l.ch == '\n' {
					l.sawNewline = true
				}
				l.readChar()
			}
			l.readChar()
			l.readChar()
		default:
			return Token{}, true
		}
	}
}

// dashRun counts consecutive '-' characters starting at the current one.
func (l *Lexer) dashRun() int {
	n := 0
	for l.position+n < len(l.input) && l.input[l.position+n] == '-' {
		n++
	}
	return n
}

func (l *Lexer) atLineStart() bool {
	return !l.started || l.sawNewline
}

// borderEndsLine reports whether only blanks, a comment or a semicolon follow
// a run of n dashes on the current line.
func (l *Lexer) borderEndsLine(n int) bool {
	for i := l.position + n; i < len(l.input); i++ {
		switch l.input[i] {
		case ' ', '\t', '\r':
			continue
		case '\n', ';', '#':
			return true
		default:
			return false
		}
	}
	return true
}

// readIdentifier reads an identifier or keyword.
// Unicode letters are allowed so that names such as 時間 work.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetterRune(l.chRune) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads an integer, float or imaginary literal. Base prefixes
// (0x, 0o, 0b) and legacy leading-zero octal stay in the literal for the
// parser to decode.
func (l *Lexer) readNumber(line, col int) Token {
	position := l.position

	if l.ch == '0' && strings.ContainsRune("xXoObB", rune(l.peekChar())) {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		return Token{Type: INT, Literal: l.input[position:l.position], Line: line, Column: col}
	}

	tokType := INT
	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		tokType = FLOAT
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if (l.ch == 'e' || l.ch == 'E') && (isDigit(l.peekChar()) ||
		((l.peekChar() == '+' || l.peekChar() == '-') && isDigit(l.peekCharN(2)))) {
		tokType = FLOAT
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'j' || l.ch == 'J' {
		l.readChar()
		tokType = IMAG
	}

	return Token{Type: tokType, Literal: l.input[position:l.position], Line: line, Column: col}
}

// readStringToken reads a single, double or triple quoted string. The
// literal holds the decoded text without quotes.
func (l *Lexer) readStringToken(line, col int, raw bool) Token {
	quote := l.ch
	triple := l.peekChar() == quote && l.peekCharN(2) == quote
	if triple {
		l.readChar()
		l.readChar()
	}
	l.readChar()

	var result []byte
	for {
		if l.ch == 0 || (!triple && l.ch == '\n') {
			return Token{Type: UNTERMINATED, Literal: string(quote) + string(result), Line: line, Column: col}
		}
		if l.ch == quote {
			if !triple {
				l.readChar()
				break
			}
			if l.peekChar() == quote && l.peekCharN(2) == quote {
				l.readChar()
				l.readChar()
				l.readChar()
				break
			}
		}
		if l.ch == '\\' && !raw {
			l.readChar()
			switch l.ch {
			case 'n':
				result = append(result, '\n')
			case 't':
				result = append(result, '\t')
			case 'r':
				result = append(result, '\r')
			case '0':
				result = append(result, 0)
			case '\\', '"', '\'':
				result = append(result, l.ch)
			case '\n':
				// line continuation
			default:
				result = append(result, '\\', l.ch)
			}
			l.readChar()
			continue
		}
		result = append(result, l.input[l.position:l.position+max(l.chSize, 1)]...)
		l.readChar()
	}

	return Token{Type: STRING, Literal: string(result), Line: line, Column: col}
}

// isStringPrefix reports whether ident can prefix a string literal: b'..',
// u'..', r'..' and their combinations.
func isStringPrefix(ident string) bool {
	switch strings.ToLower(ident) {
	case "b", "u", "r", "br", "rb":
		return true
	}
	return false
}

// isLetterRune checks if a rune is a valid identifier character.
func isLetterRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// isDigit checks if the character is a digit
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}
