// Package logger is the zerolog sink of the theme and segment registries.
// A nil *Logger discards everything.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures New. Level defaults to warn and Writer to stderr.
type Options struct {
	Level string
	// Console selects zerolog's human-readable writer instead of JSON lines.
	Console bool
	Writer  io.Writer
}

type Logger struct {
	z zerolog.Logger
}

func New(opts Options) (*Logger, error) {
	var out io.Writer = opts.Writer
	if out == nil {
		out = os.Stderr
	}
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly, NoColor: true}
	}

	level := zerolog.WarnLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	return &Logger{z: zerolog.New(out).Level(level).With().Timestamp().Logger()}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{z: zerolog.Nop()}
}

// Registry returns a logger whose entries carry the registry name.
func (l *Logger) Registry(name string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{z: l.z.With().Str("registry", name).Logger()}
}

// Debug logs msg with key/value pairs.
func (l *Logger) Debug(msg string, kv ...interface{}) {
	if l == nil {
		return
	}
	l.z.Debug().Fields(kv).Msg(msg)
}

func (l *Logger) Warn(msg string, kv ...interface{}) {
	if l == nil {
		return
	}
	l.z.Warn().Fields(kv).Msg(msg)
}

// Error logs msg with err attached.
func (l *Logger) Error(err error, msg string, kv ...interface{}) {
	if l == nil {
		return
	}
	l.z.Error().Err(err).Fields(kv).Msg(msg)
}
