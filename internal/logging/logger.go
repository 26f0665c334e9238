// Package logging implements ports.Logger on charmbracelet/log. Entries go to
// stderr; stdout is reserved for prompt text.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	cblog "github.com/charmbracelet/log"

	"github.com/alexisbeaulieu97/promptkit/internal/ports"
)

// Options configures New. Zero values select stderr, warn level, the text
// format and the "core" layer.
type Options struct {
	Writer io.Writer
	Level  string
	Format string
	Layer  string
}

// Logger implements ports.Logger.
type Logger struct {
	base *cblog.Logger
}

func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := cblog.WarnLevel
	if opts.Level != "" {
		parsed, err := cblog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	formatter, err := formatterFor(opts.Format)
	if err != nil {
		return nil, err
	}

	layer := opts.Layer
	if layer == "" {
		layer = "core"
	}

	base := cblog.NewWithOptions(writer, cblog.Options{
		Level:     level,
		Formatter: formatter,
		// Text lines sit next to an interactive prompt; timestamps only add noise there.
		ReportTimestamp: formatter != cblog.TextFormatter,
	})
	return &Logger{base: base.With("layer", layer)}, nil
}

func formatterFor(name string) (cblog.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text":
		return cblog.TextFormatter, nil
	case "json":
		return cblog.JSONFormatter, nil
	case "logfmt":
		return cblog.LogfmtFormatter, nil
	default:
		return cblog.TextFormatter, fmt.Errorf("unknown log format %q", name)
	}
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, cblog.DebugLevel, msg, fields)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, cblog.InfoLevel, msg, fields)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, cblog.WarnLevel, msg, fields)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, cblog.ErrorLevel, msg, fields)
}

// With returns a logger that adds fields to every entry.
func (l *Logger) With(fields ...interface{}) ports.Logger {
	if l == nil || l.base == nil {
		return &NoOpLogger{}
	}
	return &Logger{base: l.base.With(fields...)}
}

func (l *Logger) log(ctx context.Context, level cblog.Level, msg string, fields []interface{}) {
	if l == nil || l.base == nil {
		return
	}
	if id := ports.GetSessionID(ctx); id != "" {
		fields = append(fields[:len(fields):len(fields)], "session_id", id)
	}
	l.base.Log(level, msg, fields...)
}

var _ ports.Logger = (*Logger)(nil)
