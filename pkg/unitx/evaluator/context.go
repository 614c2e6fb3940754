package evaluator

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	uerrors "github.com/sambeau/unitx/pkg/unitx/errors"
	"github.com/sambeau/unitx/pkg/unitx/lexer"
	"github.com/sambeau/unitx/pkg/unitx/units"
)

// ErrorSink receives each fatal error once, already rendered as
// "<Kind>: <description>".
type ErrorSink interface {
	ReportError(message string, tok lexer.Token)
}

// BlockGate tells an interactive context to skip block bodies while the
// user is still typing them.
type BlockGate interface {
	IgnoreBlocks() bool
}

// Context carries everything evaluation needs. It is not safe for
// concurrent use; build one per run.
type Context struct {
	Scopes      *Scopes
	Table       *units.Table
	Out         io.Writer
	Sink        ErrorSink
	Interactive bool
	Echo        bool
	Gate        BlockGate
	Lang        language.Tag
	Filename    string
	Logger      zerolog.Logger
}

// Option configures a Context.
type Option func(*Context)

// WithOutput sets the writer for print, dump, borders and echo.
func WithOutput(w io.Writer) Option {
	return func(c *Context) { c.Out = w }
}

// WithSink sets the error sink.
func WithSink(s ErrorSink) Option {
	return func(c *Context) { c.Sink = s }
}

// WithInteractive turns on expression echo and block suppression.
func WithInteractive(gate BlockGate) Option {
	return func(c *Context) {
		c.Interactive = true
		c.Echo = true
		c.Gate = gate
	}
}

// WithEcho overrides whether interactive mode echoes expression values.
func WithEcho(on bool) Option {
	return func(c *Context) { c.Echo = on }
}

// WithLanguage selects the language for error messages and category names.
func WithLanguage(tag language.Tag) Option {
	return func(c *Context) { c.Lang = uerrors.MatchLanguage(tag) }
}

// WithFilename attributes errors to a file.
func WithFilename(name string) Option {
	return func(c *Context) { c.Filename = name }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Context) { c.Logger = l }
}

// NewContext creates a context over table. A nil table means the embedded
// default table.
func NewContext(table *units.Table, opts ...Option) *Context {
	if table == nil {
		table = units.Default()
	}
	c := &Context{
		Table:  table,
		Out:    os.Stdout,
		Lang:   language.English,
		Logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Logger = c.Logger.With().Str("src", "evaluator").Logger()
	c.Scopes = NewScopes(c.Logger)
	return c
}

func (c *Context) ignoreBlocks() bool {
	return c.Interactive && c.Gate != nil && c.Gate.IgnoreBlocks()
}

// WriterSink prints "line:col: message" to W.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) ReportError(message string, tok lexer.Token) {
	if tok.Line > 0 {
		fmt.Fprintf(s.W, "%d:%d: %s\n", tok.Line, tok.Column, message)
		return
	}
	fmt.Fprintln(s.W, message)
}

// ErrorList collects reported errors.
type ErrorList struct {
	mu       sync.Mutex
	Messages []string
	Tokens   []lexer.Token
}

func (l *ErrorList) ReportError(message string, tok lexer.Token) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, message)
	l.Tokens = append(l.Tokens, tok)
}

// Reset forgets collected errors.
func (l *ErrorList) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = nil
	l.Tokens = nil
}

// Len returns the number of collected errors.
func (l *ErrorList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Messages)
}
