// Package repl is the interactive UnitX prompt.
//
// Session holds the state of one interactive run and can be driven line by
// line without a terminal. Start wraps a Session in liner for history and
// completion.
package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/sambeau/unitx/pkg/unitx/ast"
	uerrors "github.com/sambeau/unitx/pkg/unitx/errors"
	"github.com/sambeau/unitx/pkg/unitx/evaluator"
	"github.com/sambeau/unitx/pkg/unitx/help"
	"github.com/sambeau/unitx/pkg/unitx/lexer"
	"github.com/sambeau/unitx/pkg/unitx/parser"
	"github.com/sambeau/unitx/pkg/unitx/units"
)

const PROMPT = ">> "
const CONTINUATION_PROMPT = ".. "

const LOGO = `
█░█ █▄░█ █ ▀█▀ ▀▄▀
█▄█ █░▀█ █ ░█░ █░█ `

var keywordCompletions = []string{
	"def", "rep", "if", "else", "print", "dump", "assert",
	"return", "break", "continue", "true", "false", "None",
}

// Options configures a Session.
type Options struct {
	Table       *units.Table
	Lang        language.Tag
	Echo        bool
	HistoryFile string
	Logger      zerolog.Logger
}

// Session is one interactive run: a context that survives errors and a
// buffer for blocks typed over several lines.
type Session struct {
	opts   Options
	out    io.Writer
	ctx    *evaluator.Context
	errs   *evaluator.ErrorList
	buf    strings.Builder
	ignore bool
	log    zerolog.Logger
}

// NewSession creates a session writing to out.
func NewSession(out io.Writer, opts Options) *Session {
	if opts.Table == nil {
		opts.Table = units.Default()
	}
	s := &Session{
		opts: opts,
		out:  out,
		log:  opts.Logger.With().Str("src", "repl").Logger(),
	}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.errs = &evaluator.ErrorList{}
	s.ctx = evaluator.NewContext(s.opts.Table,
		evaluator.WithOutput(s.out),
		evaluator.WithSink(s.errs),
		evaluator.WithInteractive(s),
		evaluator.WithEcho(s.opts.Echo),
		evaluator.WithLanguage(s.opts.Lang),
		evaluator.WithLogger(s.opts.Logger),
	)
	s.buf.Reset()
	s.ignore = false
}

// IgnoreBlocks reports whether block bodies are being skipped because the
// user abandoned an unfinished block.
func (s *Session) IgnoreBlocks() bool {
	return s.ignore
}

// Context returns the session's evaluation context.
func (s *Session) Context() *evaluator.Context {
	return s.ctx
}

// Errors returns the messages of the errors reported by the last evaluation.
func (s *Session) Errors() []string {
	return append([]string(nil), s.errs.Messages...)
}

// Pending reports whether a multi-line block is being collected.
func (s *Session) Pending() bool {
	return s.buf.Len() > 0
}

// Prompt returns the prompt for the next line.
func (s *Session) Prompt() string {
	if s.Pending() {
		return CONTINUATION_PROMPT
	}
	return PROMPT
}

// Feed handles one line of input. It returns the complete source that was
// evaluated, or "" while more lines are needed.
func (s *Session) Feed(input string) string {
	trimmed := strings.TrimSpace(input)

	if !s.Pending() {
		if trimmed == "" {
			return ""
		}
		if strings.HasPrefix(trimmed, ":") {
			s.command(trimmed)
			return ""
		}
	}

	// An empty line inside an open block gives up on it: whatever is
	// complete runs and the unfinished block is skipped.
	if s.Pending() && trimmed == "" {
		src := s.buf.String()
		s.buf.Reset()
		s.ignore = true
		defer func() { s.ignore = false }()
		s.log.Debug().Msg("incomplete block discarded")
		program, _ := s.parse(src)
		s.eval(program)
		return src
	}

	if s.Pending() {
		s.buf.WriteString("\n")
	}
	s.buf.WriteString(input)
	src := s.buf.String()

	program, p := s.parse(src)
	if p.Incomplete() {
		return ""
	}
	s.buf.Reset()

	if errs := p.StructuredErrors(); len(errs) > 0 {
		for _, err := range errs {
			printError(s.out, err)
		}
		return src
	}

	s.eval(program)
	return src
}

func (s *Session) eval(program *ast.Program) {
	s.errs.Reset()
	s.log.Debug().Int("statements", len(program.Statements)).Bool("ignore_blocks", s.ignore).Msg("eval")
	if errObj, ok := evaluator.EvalProgram(program, s.ctx).(*evaluator.Error); ok {
		printError(s.out, errObj.ToUnitXError())
	}
}

func (s *Session) parse(src string) (*ast.Program, *parser.Parser) {
	p := parser.New(lexer.New(src))
	return p.ParseProgram(), p
}

// command handles REPL meta-commands that start with ':'
func (s *Session) command(cmd string) {
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":help", ":h", ":?":
		if arg != "" {
			s.describe(arg)
			return
		}
		fmt.Fprintln(s.out, "REPL Commands:")
		fmt.Fprintln(s.out, "  :help, :h, :?     Show this help")
		fmt.Fprintln(s.out, "  :help <topic>     Describe units, keywords, operators, a category or a unit")
		fmt.Fprintln(s.out, "  :env              Show variables in scope")
		fmt.Fprintln(s.out, "  :clear            Clear all variables")
		fmt.Fprintln(s.out, "  exit, quit        Exit the REPL")
		fmt.Fprintln(s.out, "")
		fmt.Fprintln(s.out, "Blocks may span several lines; an empty line abandons an unfinished block.")

	case ":env":
		s.printEnvironment()

	case ":clear":
		s.reset()
		fmt.Fprintln(s.out, "Environment cleared")

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type :help for commands)\n", cmd)
	}
}

func (s *Session) describe(topic string) {
	result, err := help.DescribeTopic(topic, s.opts.Table, s.ctx.Lang)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	io.WriteString(s.out, help.FormatText(result, 80))
}

// printEnvironment displays the variables visible from the innermost frame
func (s *Session) printEnvironment() {
	names := s.ctx.Scopes.Names()
	if len(names) == 0 {
		fmt.Fprintln(s.out, "(no variables)")
		return
	}

	for _, name := range names {
		v, _ := s.ctx.Scopes.Get(name)
		value := v.Inspect()
		if len(value) > 60 {
			value = value[:57] + "..."
		}
		typeStr := "NULL"
		if v.Payload != nil {
			typeStr = string(v.Payload.Type())
		}
		fmt.Fprintf(s.out, "  %s: %s = %s\n", name, typeStr, value)
	}
}

// completions returns words starting with the last word of line: keywords,
// names in scope and unit symbols after '{' or '->'.
func (s *Session) completions(line string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	if last := line[len(line)-1]; last == ' ' || last == '\t' {
		return nil
	}

	start := strings.LastIndexAny(line, " \t(,;=+-*/%[{>!&|") + 1
	head, word := line[:start], line[start:]

	var candidates []string
	if strings.HasSuffix(head, "{") || strings.HasSuffix(head, "->") || strings.HasSuffix(head, "/") {
		candidates = s.opts.Table.Symbols()
	} else {
		candidates = append(append([]string{}, keywordCompletions...), s.ctx.Scopes.Names()...)
	}

	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(c, word) {
			matches = append(matches, head+c)
		}
	}
	return matches
}

// printError prints a parse or runtime error with its hints
func printError(out io.Writer, err *uerrors.UnitXError) {
	if err.Line > 0 {
		fmt.Fprintf(out, "line %d, column %d: %s\n", err.Line, err.Column, err.Text())
	} else {
		fmt.Fprintln(out, err.Text())
	}
	for _, hint := range err.Hints {
		io.WriteString(out, "  hint: "+hint+"\n")
	}
}

// Start runs the REPL on the terminal with line editing, history and tab
// completion.
func Start(out io.Writer, version string, opts Options) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)

	session := NewSession(out, opts)
	line.SetCompleter(session.completions)

	if opts.HistoryFile != "" {
		if f, err := os.Open(opts.HistoryFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(opts.HistoryFile); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}()
	}

	fmt.Fprintf(out, "%s", LOGO)
	fmt.Fprintln(out, "v", version)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Type 'exit' or Ctrl+D to quit")
	fmt.Fprintln(out, "Type ':help' for REPL commands")
	fmt.Fprintln(out, "")

	for {
		input, err := line.Prompt(session.Prompt())
		if err != nil {
			if err == liner.ErrPromptAborted {
				// Ctrl+C clears any buffered block
				if session.Pending() {
					fmt.Fprintln(out, "^C (cleared)")
				} else {
					fmt.Fprintln(out, "^C")
				}
				session.buf.Reset()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		trimmed := strings.TrimSpace(input)
		if !session.Pending() && (trimmed == "exit" || trimmed == "quit") {
			fmt.Fprintln(out, "Goodbye!")
			return
		}

		if src := session.Feed(input); src != "" {
			line.AppendHistory(src)
		}
	}
}
