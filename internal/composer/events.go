package composer

import (
	"context"
	"fmt"

	"github.com/alexisbeaulieu97/promptkit/internal/ports"
	"github.com/alexisbeaulieu97/promptkit/internal/segment/builtin"
	apperrors "github.com/alexisbeaulieu97/promptkit/pkg/errors"
)

// Attach subscribes the composer to shell events. Each handler refreshes the
// context and segment caches it affects and marks the prompt for
// regeneration. Attaching twice replaces the earlier subscriptions.
func (c *Composer) Attach(hub ports.EventHub) error {
	if hub == nil {
		return apperrors.New(apperrors.CodeInvalidParameter, "event hub is nil", nil, nil)
	}
	c.Detach()

	handlers := []struct {
		event   string
		handler ports.EventHandler
	}{
		{ports.EventDirectoryChanged, c.onDirectoryChanged},
		{ports.EventPreCommand, c.onPreCommand},
		{ports.EventPostCommand, c.onPostCommand},
	}
	for _, h := range handlers {
		sub, err := hub.Subscribe(h.event, h.handler)
		if err != nil {
			c.Detach()
			return fmt.Errorf("subscribe to %s: %w", h.event, err)
		}
		c.subs = append(c.subs, sub)
	}
	return nil
}

// Detach drops every event subscription.
func (c *Composer) Detach() {
	for _, sub := range c.subs {
		sub.Unsubscribe()
	}
	c.subs = nil
}

func (c *Composer) onDirectoryChanged(ctx context.Context, event ports.ShellEvent) error {
	payload, _ := event.Payload().(ports.DirectoryChanged)
	if payload.To != "" {
		c.prompt.SetDirectory(payload.To)
	} else if err := c.prompt.RefreshDirectory(); err != nil {
		return err
	}
	c.segments.Invalidate(builtin.NameDirectory, builtin.NameGit)
	c.markRefreshed(ctx, event)
	return nil
}

func (c *Composer) onPreCommand(ctx context.Context, event ports.ShellEvent) error {
	c.prompt.Touch()
	c.markRefreshed(ctx, event)
	return nil
}

func (c *Composer) onPostCommand(ctx context.Context, event ports.ShellEvent) error {
	payload, ok := event.Payload().(ports.PostCommand)
	if !ok {
		return apperrors.New(apperrors.CodeInvalidParameter, "unexpected payload", nil, map[string]interface{}{"event": event.EventType()})
	}
	c.prompt.Update(payload.ExitCode, payload.Duration)
	c.segments.InvalidateAll()
	c.markRefreshed(ctx, event)
	return nil
}

func (c *Composer) markRefreshed(ctx context.Context, event ports.ShellEvent) {
	c.needsRegen = true
	c.stats.EventRefreshes++
	c.logger.Debug(ctx, "context refreshed", "event_type", event.EventType())
}
