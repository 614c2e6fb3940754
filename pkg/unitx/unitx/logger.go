package unitx

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Logger receives a script's standard output. LogLine ends the current
// line; Log leaves it open.
type Logger interface {
	Log(values ...any)
	LogLine(values ...any)
}

// sprint joins values with single spaces, the way print separates its
// arguments.
func sprint(values []any) string {
	return strings.TrimSuffix(fmt.Sprintln(values...), "\n")
}

type writerLogger struct {
	w io.Writer
}

func (l writerLogger) Log(values ...any) {
	io.WriteString(l.w, sprint(values))
}

func (l writerLogger) LogLine(values ...any) {
	io.WriteString(l.w, sprint(values)+"\n")
}

// WriterLogger returns a logger that writes to w.
func WriterLogger(w io.Writer) Logger {
	return writerLogger{w: w}
}

// StdoutLogger returns a logger that writes to stdout.
func StdoutLogger() Logger {
	return WriterLogger(os.Stdout)
}

// NullLogger returns a logger that discards all output.
func NullLogger() Logger {
	return WriterLogger(io.Discard)
}

// BufferedLogger keeps everything a script prints. It is safe for
// concurrent use.
type BufferedLogger struct {
	mu  sync.Mutex
	out strings.Builder
}

// NewBufferedLogger creates an empty buffered logger.
func NewBufferedLogger() *BufferedLogger {
	return &BufferedLogger{}
}

func (l *BufferedLogger) Log(values ...any) {
	l.Write([]byte(sprint(values)))
}

func (l *BufferedLogger) LogLine(values ...any) {
	l.Write([]byte(sprint(values) + "\n"))
}

// Write appends raw output, so the evaluator can print straight into the
// buffer.
func (l *BufferedLogger) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.Write(p)
}

// String returns everything captured, including an unfinished last line.
func (l *BufferedLogger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out.String()
}

// Lines returns the completed lines.
func (l *BufferedLogger) Lines() []string {
	s := l.String()
	end := strings.LastIndexByte(s, '\n')
	if end < 0 {
		return nil
	}
	return strings.Split(s[:end], "\n")
}

// Reset clears all captured output.
func (l *BufferedLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Reset()
}

// Writer adapts a Logger to the io.Writer the evaluator prints to. Writer
// loggers are unwrapped and loggers that are writers are used as they are.
// Any other Logger gets whole lines through LogLine; call Flush on the
// result to hand over an unfinished last line.
func Writer(l Logger) io.Writer {
	switch l := l.(type) {
	case writerLogger:
		return l.w
	case io.Writer:
		return l
	}
	return &logWriter{l: l}
}

// Flush passes any output still held by w to its Logger. It does nothing
// for writers that hold no output.
func Flush(w io.Writer) {
	if lw, ok := w.(*logWriter); ok {
		lw.flush()
	}
}

type logWriter struct {
	l       Logger
	mu      sync.Mutex
	pending []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = append(w.pending, p...)
	for {
		i := bytes.IndexByte(w.pending, '\n')
		if i < 0 {
			break
		}
		w.l.LogLine(string(w.pending[:i]))
		w.pending = w.pending[i+1:]
	}
	return len(p), nil
}

func (w *logWriter) flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) > 0 {
		w.l.Log(string(w.pending))
		w.pending = nil
	}
}
