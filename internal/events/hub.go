// Package events provides the in-process hub shell integrations publish to.
package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexisbeaulieu97/promptkit/internal/logging"
	"github.com/alexisbeaulieu97/promptkit/internal/ports"
)

// Hub delivers each event synchronously to the handlers subscribed to its
// type, in subscription order. It has no locking and belongs to the shell's
// event loop.
type Hub struct {
	logger    ports.Logger
	subs      map[string][]subscriptionEntry
	nextID    int
	published int
}

// NewHub returns an empty hub logging through logger.
func NewHub(logger ports.Logger) *Hub {
	return &Hub{
		logger: logging.OrNoOp(logger).With("component", "event_hub"),
		subs:   make(map[string][]subscriptionEntry),
	}
}

// Publish runs every handler for the event. A failing handler is logged and
// does not stop delivery; all failures are returned together.
func (h *Hub) Publish(ctx context.Context, event ports.ShellEvent) error {
	if h == nil || event == nil {
		return nil
	}
	h.published++

	handlers := append([]subscriptionEntry(nil), h.subs[event.EventType()]...)
	h.logger.Debug(ctx, "shell event", "event_type", event.EventType(), "handlers", len(handlers), "payload", event.Payload())

	var errs []error
	for _, entry := range handlers {
		if err := entry.handler(ctx, event); err != nil {
			h.logger.Warn(ctx, "event handler failed", "event_type", event.EventType(), "error", err)
			errs = append(errs, fmt.Errorf("%s handler %d: %w", event.EventType(), entry.id, err))
		}
	}
	return errors.Join(errs...)
}

// Subscribe registers handler for eventType.
func (h *Hub) Subscribe(eventType string, handler ports.EventHandler) (ports.Subscription, error) {
	if h == nil {
		return noopSubscription{}, errors.New("event hub is nil")
	}
	if handler == nil {
		return noopSubscription{}, errors.New("event handler is nil")
	}
	h.nextID++
	id := h.nextID
	h.subs[eventType] = append(h.subs[eventType], subscriptionEntry{id: id, handler: handler})

	return subscription{
		cancel: func() {
			handlers := h.subs[eventType]
			for i, entry := range handlers {
				if entry.id == id {
					h.subs[eventType] = append(handlers[:i:i], handlers[i+1:]...)
					break
				}
			}
		},
	}, nil
}

// Subscribers reports how many handlers listen for eventType.
func (h *Hub) Subscribers(eventType string) int { return len(h.subs[eventType]) }

// Published reports how many events went through Publish.
func (h *Hub) Published() int { return h.published }

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

type subscription struct {
	cancel func()
}

func (s subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

type subscriptionEntry struct {
	id      int
	handler ports.EventHandler
}
