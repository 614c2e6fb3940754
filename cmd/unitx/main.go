package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/sambeau/unitx/config"
	uerrors "github.com/sambeau/unitx/pkg/unitx/errors"
	"github.com/sambeau/unitx/pkg/unitx/evaluator"
	"github.com/sambeau/unitx/pkg/unitx/help"
	"github.com/sambeau/unitx/pkg/unitx/repl"
	"github.com/sambeau/unitx/pkg/unitx/units"
	"github.com/sambeau/unitx/pkg/unitx/unitx"
)

// Version information, set at build time via -ldflags
var Version = "dev"

// errFailed means a script failed and its error has already been reported.
var errFailed = errors.New("script failed")

func main() {
	ctx := context.Background()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// env is everything a mode needs once flags and config are resolved.
type env struct {
	cfg    *config.Config
	table  *units.Table
	log    zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

func (e *env) options(filename string) []unitx.Option {
	opts := []unitx.Option{
		unitx.WithTable(e.table),
		unitx.WithOutput(unitx.WriterLogger(e.stdout)),
		unitx.WithErrors(evaluator.WriterSink{W: e.stderr}),
		unitx.WithLanguage(uerrors.ParseLanguage(e.cfg.Language)),
		unitx.WithLogger(e.log),
	}
	if filename != "" {
		opts = append(opts, unitx.WithFilename(filename))
	}
	return opts
}

// run is the main entry point, designed for testability (Mat Ryer pattern)
func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	if len(args) > 0 && args[0] == "describe" {
		return runDescribe(args[1:], stdout, stderr, getenv)
	}

	flags := flag.NewFlagSet("unitx", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		configPath  = flags.String("config", "", "Path to config file")
		evalCode    = flags.String("e", "", "Evaluate code string")
		checkOnly   = flags.Bool("check", false, "Check syntax without executing")
		watch       = flags.Bool("watch", false, "Re-run the script whenever it changes")
		lang        = flags.String("lang", "", "Language for messages (en, ja)")
		unitsPath   = flags.String("units", "", "Path to a unit table file")
		logLevel    = flags.String("log-level", "", "Diagnostic log level")
		noEcho      = flags.Bool("no-echo", false, "Do not echo expression values in the REPL")
		showVersion = flags.Bool("version", false, "Show version")
		showHelp    = flags.Bool("help", false, "Show help")
	)
	flags.StringVar(evalCode, "eval", "", "Evaluate code string")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(stdout)
			return nil
		}
		printUsage(stderr)
		return err
	}

	if *showHelp {
		printUsage(stdout)
		return nil
	}
	if *showVersion {
		fmt.Fprintf(stdout, "unitx version %s\n", Version)
		return nil
	}

	e, err := setup(*configPath, getenv, stdout, stderr, func(cfg *config.Config) {
		if *lang != "" {
			cfg.Language = *lang
		}
		if *unitsPath != "" {
			cfg.Units = *unitsPath
		}
		if *logLevel != "" {
			cfg.Logging.Level = *logLevel
		}
		if *noEcho {
			cfg.InteractiveEcho = false
		}
	})
	if err != nil {
		return err
	}

	files := flags.Args()
	switch {
	case *evalCode != "":
		_, err = unitx.Run(*evalCode, e.options("")...)
		return report(err)

	case *checkOnly:
		if len(files) == 0 {
			return errors.New("--check requires at least one file")
		}
		return checkFiles(files, e)

	case *watch:
		if len(files) != 1 {
			return errors.New("--watch requires exactly one file")
		}
		ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return watchScript(ctx, files[0], e)

	case len(files) > 0:
		_, err = unitx.RunFile(files[0], e.options(files[0])...)
		return report(err)

	default:
		repl.Start(stdout, Version, repl.Options{
			Table:       e.table,
			Lang:        uerrors.ParseLanguage(e.cfg.Language),
			Echo:        e.cfg.InteractiveEcho,
			HistoryFile: e.cfg.HistoryFile,
			Logger:      e.log,
		})
		return nil
	}
}

// setup loads config, applies CLI overrides, then builds the logger and
// the unit table.
func setup(configPath string, getenv func(string) string, stdout, stderr io.Writer, override func(*config.Config)) (*env, error) {
	cfg, configFile, err := config.LoadWithPath(configPath, getenv)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	override(cfg)

	log, err := cfg.Logging.NewLogger(stderr)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	if configFile != "" {
		log.Debug().Str("path", configFile).Msg("loaded config")
	}

	table, err := unitx.LoadTable(cfg.Units, log)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, table: table, log: log, stdout: stdout, stderr: stderr}, nil
}

// report turns a script error, already shown by the error sink, into
// errFailed. Other errors pass through.
func report(err error) error {
	if err == nil {
		return nil
	}
	var ue *uerrors.UnitXError
	if errors.As(err, &ue) {
		return errFailed
	}
	return err
}

// checkFiles parses each file without running it
func checkFiles(files []string, e *env) error {
	failed := 0
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(e.stderr, "%s: %v\n", file, err)
			failed++
			continue
		}
		if err := unitx.Check(string(src), unitx.WithFilename(file)); err != nil {
			fmt.Fprintln(e.stderr, err)
			failed++
			continue
		}
		fmt.Fprintf(e.stdout, "%s: ok\n", file)
	}
	if failed > 0 {
		return errFailed
	}
	return nil
}

// runDescribe implements 'unitx describe [--json] [--lang ja] <topic>'
func runDescribe(args []string, stdout, stderr io.Writer, getenv func(string) string) error {
	flags := flag.NewFlagSet("describe", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	var (
		jsonOutput = flags.Bool("json", false, "Output JSON")
		lang       = flags.String("lang", "", "Language for category names")
		configPath = flags.String("config", "", "Path to config file")
		unitsPath  = flags.String("units", "", "Path to a unit table file")
	)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		fmt.Fprintln(stderr, `Usage: unitx describe [--json] [--lang LANG] <topic>

Topics:
  units              List unit categories and their symbols
  keywords           List statement keywords
  operators          List operators and unit syntax
  <category>         Units in a category (length, time, ...)
  <symbol>           One unit (km, MB, C, ...)`)
		return errors.New("no topic specified")
	}

	e, err := setup(*configPath, getenv, stdout, stderr, func(cfg *config.Config) {
		if *lang != "" {
			cfg.Language = *lang
		}
		if *unitsPath != "" {
			cfg.Units = *unitsPath
		}
	})
	if err != nil {
		return err
	}

	result, err := help.DescribeTopic(flags.Arg(0), e.table, uerrors.ParseLanguage(e.cfg.Language))
	if err != nil {
		return err
	}

	if *jsonOutput {
		data, err := help.FormatJSON(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}
	fmt.Fprint(stdout, help.FormatText(result, 80))
	return nil
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `unitx - a unit-aware scripting language

Usage:
  unitx [options]                 Start the REPL
  unitx [options] <file>          Run a script
  unitx [options] -e "code"       Run a code string
  unitx --check <file>...         Check syntax without executing
  unitx --watch <file>            Re-run a script whenever it is saved
  unitx describe <topic>          Describe units, keywords or operators

Options:
  --config PATH      Path to config file (default: auto-detect)
  --lang LANG        Language for messages (en, ja)
  --units PATH       Unit table file (default: built-in table)
  --log-level LEVEL  Diagnostic log level (trace, debug, info, warn, error)
  --no-echo          Do not echo expression values in the REPL
  --version          Show version
  --help             Show this help

Config Resolution:
  1. --config flag
  2. UNITX_CONFIG environment variable
  3. ./unitx.yaml
  4. ~/.config/unitx/unitx.yaml

Examples:
  unitx -e 'print(500{m->cm})'        Prints 50000cm
  unitx -e 'print(36{km->m/h->s})'    Prints 10m/s
  unitx --lang ja calc.ux             Japanese error messages
  unitx describe length               Units of length

`)
}
