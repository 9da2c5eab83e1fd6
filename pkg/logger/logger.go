// Package logger wraps zerolog behind a small typed-field API.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a structured logger backed by zerolog.
type Logger struct {
	zl zerolog.Logger
}

type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json or console
	Output     string // stdout, stderr, or file path
	TimeFormat string
}

// New builds the process logger. The level applies per logger, so tests
// and the CLI can run with different verbosity in one process.
func New(cfg *Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	var out io.Writer
	switch cfg.Output {
	case "", "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		f, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("could not open log file: %w", err)
		}
		out = f
	}

	tf := cfg.TimeFormat
	if tf == "" {
		tf = time.RFC3339Nano
	}
	zerolog.TimeFieldFormat = tf
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: tf}
	}
	return newLogger(out, level), nil
}

func newLogger(out io.Writer, level zerolog.Level) *Logger {
	zl := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "xsp-monitor").
		Logger()
	return &Logger{zl: zl}
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() *Logger { return &Logger{zl: zerolog.Nop()} }

// Component returns a child logger tagged with the component name.
func (l *Logger) Component(name string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", name).Logger()}
}

func (l *Logger) Debug(msg string, fields ...Field) { write(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...Field)  { write(l.zl.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...Field)  { write(l.zl.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields ...Field) { write(l.zl.Error(), msg, fields) }

func write(e *zerolog.Event, msg string, fields []Field) {
	// disabled levels hand back a nil event
	if e == nil {
		return
	}
	for _, f := range fields {
		f(e)
	}
	e.Msg(msg)
}

// Field adds one key/value to a log event.
type Field func(e *zerolog.Event)

func String(key, value string) Field { return func(e *zerolog.Event) { e.Str(key, value) } }

func Strings(key string, value []string) Field {
	return func(e *zerolog.Event) { e.Strs(key, value) }
}

func Int(key string, value int) Field { return func(e *zerolog.Event) { e.Int(key, value) } }

func Float64(key string, value float64) Field {
	return func(e *zerolog.Event) { e.Float64(key, value) }
}

func Bool(key string, value bool) Field { return func(e *zerolog.Event) { e.Bool(key, value) } }

func Duration(key string, value time.Duration) Field {
	return func(e *zerolog.Event) { e.Dur(key, value) }
}

// Error logs err under the "error" key; a nil error adds nothing.
func Error(err error) Field {
	return func(e *zerolog.Event) {
		if err != nil {
			e.Err(err)
		}
	}
}
