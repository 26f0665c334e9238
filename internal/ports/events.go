package ports

import (
	"context"
	"time"
)

const (
	// EventDirectoryChanged is emitted by the shell after the working directory changes.
	EventDirectoryChanged = "directory.changed"
	// EventPreCommand is emitted right before the shell runs a command line.
	EventPreCommand = "command.pre"
	// EventPostCommand is emitted once a command line has finished.
	EventPostCommand = "command.post"
)

// ShellEvent represents something the surrounding shell reports to the prompt
// engine. Payloads are one of the typed structs below.
type ShellEvent interface {
	EventType() string
	Payload() interface{}
}

// DirectoryChanged is the payload of EventDirectoryChanged.
type DirectoryChanged struct {
	From string
	To   string
}

// PreCommand is the payload of EventPreCommand.
type PreCommand struct {
	Command string
	Started time.Time
}

// PostCommand is the payload of EventPostCommand.
type PostCommand struct {
	Command  string
	ExitCode int
	Duration time.Duration
}

// Event is a ready-made ShellEvent.
type Event struct {
	Type string
	Data interface{}
}

// EventType implements ShellEvent.
func (e Event) EventType() string { return e.Type }

// Payload implements ShellEvent.
func (e Event) Payload() interface{} { return e.Data }

// EventHub distributes shell events to subscribers. Dispatch is synchronous:
// Publish returns only after every handler ran, in subscription order.
// Hubs are used from the shell's single event-loop thread.
type EventHub interface {
	Publish(ctx context.Context, event ShellEvent) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
}

// EventHandler reacts to one event. Errors are logged by the hub and do not
// stop delivery to the remaining handlers.
type EventHandler func(context.Context, ShellEvent) error

// Subscription represents a registered handler. Callers must invoke
// Unsubscribe to stop receiving events.
type Subscription interface {
	Unsubscribe()
}
