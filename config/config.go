// Package config handles UnitX configuration loading.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Config is the root configuration structure
type Config struct {
	// Units is a path to a unit table file. Empty means the embedded table.
	Units           string        `yaml:"units"`
	Language        string        `yaml:"language"`
	InteractiveEcho bool          `yaml:"interactive_echo"`
	HistoryFile     string        `yaml:"history_file"`
	Logging         LoggingConfig `yaml:"logging"`

	// Set by Load; not read from YAML
	BaseDir string `yaml:"-"`
}

// LoggingConfig holds diagnostic logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error, disabled
	Format string `yaml:"format"` // console or json
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		Units:           "",
		Language:        "en",
		InteractiveEcho: true,
		HistoryFile:     filepath.Join(os.TempDir(), ".unitx_history"),
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// NewLogger builds the diagnostic logger described by l, writing to w.
func (l LoggingConfig) NewLogger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(l.Level))
	if err != nil {
		return zerolog.Nop(), err
	}
	if level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	if l.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, NoColor: true}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
