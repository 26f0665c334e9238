package logging

import (
	"context"

	"github.com/alexisbeaulieu97/promptkit/internal/ports"
)

// NoOpLogger discards all log entries.
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(context.Context, string, ...interface{}) {}

func (n *NoOpLogger) Info(context.Context, string, ...interface{}) {}

func (n *NoOpLogger) Warn(context.Context, string, ...interface{}) {}

func (n *NoOpLogger) Error(context.Context, string, ...interface{}) {}

func (n *NoOpLogger) With(...interface{}) ports.Logger { return n }

// NewNoOpLogger returns a ports.Logger that discards all log entries.
func NewNoOpLogger() ports.Logger {
	return &NoOpLogger{}
}

// OrNoOp returns l, or a discarding logger when l is nil.
func OrNoOp(l ports.Logger) ports.Logger {
	if l == nil {
		return &NoOpLogger{}
	}
	return l
}
