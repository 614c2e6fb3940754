// Package unitx provides a public API for embedding the UnitX interpreter.
//
//	err := unitx.Run(src, unitx.WithOutput(unitx.NewBufferedLogger()))
//
// Run parses and evaluates a whole program. Check only parses it. Both
// return the first error as a *errors.UnitXError.
package unitx

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/sambeau/unitx/pkg/unitx/ast"
	uerrors "github.com/sambeau/unitx/pkg/unitx/errors"
	"github.com/sambeau/unitx/pkg/unitx/evaluator"
	"github.com/sambeau/unitx/pkg/unitx/lexer"
	"github.com/sambeau/unitx/pkg/unitx/parser"
	"github.com/sambeau/unitx/pkg/unitx/units"
)

type options struct {
	table    *units.Table
	output   Logger
	sink     evaluator.ErrorSink
	lang     language.Tag
	filename string
	logger   zerolog.Logger
}

// Option configures Run and Check.
type Option func(*options)

// WithTable evaluates against t instead of the embedded default table.
func WithTable(t *units.Table) Option {
	return func(o *options) { o.table = t }
}

// WithOutput sends print, dump and border output to l.
func WithOutput(l Logger) Option {
	return func(o *options) { o.output = l }
}

// WithErrors reports errors to s as well as returning them.
func WithErrors(s evaluator.ErrorSink) Option {
	return func(o *options) { o.sink = s }
}

// WithLanguage selects the language of runtime messages.
func WithLanguage(tag language.Tag) Option {
	return func(o *options) { o.lang = tag }
}

// WithFilename attributes errors to name.
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func newOptions(opts []Option) *options {
	o := &options{
		output: StdoutLogger(),
		lang:   language.English,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run parses and evaluates src. It returns the final context, so callers can
// inspect bindings, together with the first error, if any.
func Run(src string, opts ...Option) (*evaluator.Context, error) {
	o := newOptions(opts)

	program, perr := parse(src, o)
	if perr != nil {
		if o.sink != nil {
			o.sink.ReportError(perr.Text(), lexer.Token{Line: perr.Line, Column: perr.Column})
		}
		return nil, perr
	}

	out := Writer(o.output)
	defer Flush(out)

	ctx := evaluator.NewContext(o.table,
		evaluator.WithOutput(out),
		evaluator.WithSink(o.sink),
		evaluator.WithLanguage(o.lang),
		evaluator.WithFilename(o.filename),
		evaluator.WithLogger(o.logger),
	)
	if err, ok := evaluator.EvalProgram(program, ctx).(*evaluator.Error); ok {
		ue := err.ToUnitXError()
		if o.filename != "" {
			ue = ue.WithFile(o.filename)
		}
		return ctx, ue
	}
	return ctx, nil
}

// RunFile reads and runs the script at path.
func RunFile(path string, opts ...Option) (*evaluator.Context, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	opts = append([]Option{WithFilename(path)}, opts...)
	return Run(string(src), opts...)
}

// Check parses src without evaluating it.
func Check(src string, opts ...Option) error {
	o := newOptions(opts)
	if _, perr := parse(src, o); perr != nil {
		return perr
	}
	return nil
}

func parse(src string, o *options) (*ast.Program, *uerrors.UnitXError) {
	p := parser.New(lexer.NewWithFilename(src, o.filename))
	program := p.ParseProgram()
	if errs := p.StructuredErrors(); len(errs) > 0 {
		e := errs[0]
		if o.filename != "" {
			e = e.WithFile(o.filename)
		}
		return nil, e
	}
	return program, nil
}

// LoadTable loads a unit table from path, or returns the embedded default
// table when path is empty.
func LoadTable(path string, log zerolog.Logger) (*units.Table, error) {
	log = log.With().Str("src", "units").Logger()
	if path == "" {
		t := units.Default()
		log.Debug().Int("symbols", t.Len()).Int("categories", len(t.Categories())).Msg("loaded embedded unit table")
		return t, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open unit table: %w", err)
	}
	defer f.Close()

	t, err := units.Load(f)
	if err != nil {
		return nil, fmt.Errorf("load unit table %s: %w", path, err)
	}
	log.Info().Str("path", path).Int("symbols", t.Len()).Int("categories", len(t.Categories())).Msg("loaded unit table")
	return t, nil
}
