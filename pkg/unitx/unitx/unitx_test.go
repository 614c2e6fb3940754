package unitx

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	uerrors "github.com/sambeau/unitx/pkg/unitx/errors"
	"github.com/sambeau/unitx/pkg/unitx/evaluator"
)

func TestRun(t *testing.T) {
	out := NewBufferedLogger()
	ctx, err := Run("x = 5{m}; y = 500{m->cm}\nprint(x, y)\n---\ndump(x)", WithOutput(out))
	require.NoError(t, err)

	assert.Equal(t, []string{"5m 50000cm", "---", "x: 5m"}, out.Lines())

	x, ok := ctx.Scopes.Get("x")
	require.True(t, ok)
	assert.Equal(t, "5m", x.Inspect())
}

func TestRunRuntimeError(t *testing.T) {
	out := NewBufferedLogger()
	sink := &evaluator.ErrorList{}
	_, err := Run("print(1)\nx = 1{m} + 1{s}\nprint(2)",
		WithOutput(out), WithErrors(sink), WithFilename("calc.ux"))
	require.Error(t, err)

	var ue *uerrors.UnitXError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, uerrors.ClassUnit, ue.Class)
	assert.Equal(t, "calc.ux", ue.File)
	assert.Equal(t, 2, ue.Line)

	assert.Equal(t, []string{"1"}, out.Lines())
	require.Equal(t, 1, sink.Len())
	assert.Contains(t, sink.Messages[0], "UnitError: ")
}

func TestRunParseError(t *testing.T) {
	sink := &evaluator.ErrorList{}
	out := NewBufferedLogger()
	_, err := Run("print(1)\nx = (1 + ", WithOutput(out), WithErrors(sink))
	require.Error(t, err)

	var ue *uerrors.UnitXError
	require.True(t, errors.As(err, &ue))
	assert.True(t, ue.IsSyntaxError())
	assert.Empty(t, out.Lines(), "nothing runs when the program does not parse")
	assert.Equal(t, 1, sink.Len())
}

func TestRunLanguage(t *testing.T) {
	_, err := Run("x = 1 / 0", WithOutput(NullLogger()), WithLanguage(language.Japanese))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ゼロ除算")
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check("def f(a, b=2) { return a + b }\nprint(f(1))"))
	assert.NoError(t, Check("print(undefined_name)"), "names are not checked")

	err := Check("def f(a { }")
	require.Error(t, err)
	var ue *uerrors.UnitXError
	require.True(t, errors.As(err, &ue))
	assert.True(t, ue.IsSyntaxError())
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "speed.ux")
	require.NoError(t, os.WriteFile(path, []byte("v = 36{km->m/h->s}\nprint(v)\n"), 0o644))

	out := NewBufferedLogger()
	_, err := RunFile(path, WithOutput(out))
	require.NoError(t, err)
	assert.Equal(t, "10m/s\n", out.String())

	_, err = RunFile(filepath.Join(dir, "missing.ux"))
	assert.Error(t, err)
}

func TestLoadTable(t *testing.T) {
	def, err := LoadTable("", zerolog.Nop())
	require.NoError(t, err)
	_, ok := def.Lookup("km")
	assert.True(t, ok)

	dir := t.TempDir()
	path := filepath.Join(dir, "units.yaml")
	custom := `
base_language: en
categories:
  - id: money
    names: {en: money}
    units:
      JPY: 1
      sen: 0.01
`
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o644))

	var logs bytes.Buffer
	table, err := LoadTable(path, zerolog.New(&logs))
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Contains(t, logs.String(), `"src":"units"`)

	out := NewBufferedLogger()
	_, err = Run("print(250{sen->JPY})", WithTable(table), WithOutput(out))
	require.NoError(t, err)
	assert.Equal(t, "2.5JPY\n", out.String())

	require.NoError(t, os.WriteFile(path, []byte("categories:\n  - id: x\n    units: {a: 0}\n"), 0o644))
	_, err = LoadTable(path, zerolog.Nop())
	assert.ErrorContains(t, err, "zero scale")

	_, err = LoadTable(filepath.Join(dir, "nope.yaml"), zerolog.Nop())
	assert.Error(t, err)
}

func TestBufferedLogger(t *testing.T) {
	l := NewBufferedLogger()
	l.Log("a", 1)
	l.LogLine("b")
	l.Log("tail")

	assert.Equal(t, []string{"a 1b"}, l.Lines())
	assert.Equal(t, "a 1b\ntail", l.String())

	l.Reset()
	assert.Equal(t, "", l.String())
}

// recordingLogger is a Logger that is not an io.Writer
type recordingLogger struct {
	calls []string
}

func (r *recordingLogger) Log(values ...any) {
	r.calls = append(r.calls, "log:"+sprint(values))
}

func (r *recordingLogger) LogLine(values ...any) {
	r.calls = append(r.calls, "line:"+sprint(values))
}

func TestWriterAdapter(t *testing.T) {
	rec := &recordingLogger{}
	w := Writer(rec)

	n, err := w.Write([]byte("one\ntw"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	_, _ = w.Write([]byte("o\nta"))
	_, _ = w.Write([]byte("il"))
	assert.Equal(t, []string{"line:one", "line:two"}, rec.calls)

	Flush(w)
	Flush(w)
	assert.Equal(t, []string{"line:one", "line:two", "log:tail"}, rec.calls)

	var buf bytes.Buffer
	assert.Same(t, &buf, Writer(WriterLogger(&buf)))

	l := NewBufferedLogger()
	assert.Same(t, l, Writer(l))
}

func TestRunWithCustomLogger(t *testing.T) {
	rec := &recordingLogger{}
	_, err := Run("print(1{km->m})\n---", WithOutput(rec))
	require.NoError(t, err)
	assert.Equal(t, []string{"line:1000m", "line:---"}, rec.calls)
}
