package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/promptkit/internal/logging"
	"github.com/alexisbeaulieu97/promptkit/internal/ports"
)

func TestHubDeliversInSubscriptionOrder(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	var calls []string
	_, err := hub.Subscribe(ports.EventPostCommand, func(_ context.Context, e ports.ShellEvent) error {
		calls = append(calls, "first")
		return nil
	})
	require.NoError(t, err)
	_, err = hub.Subscribe(ports.EventPostCommand, func(_ context.Context, e ports.ShellEvent) error {
		payload, ok := e.Payload().(ports.PostCommand)
		require.True(t, ok)
		assert.Equal(t, 2, payload.ExitCode)
		calls = append(calls, "second")
		return nil
	})
	require.NoError(t, err)
	_, err = hub.Subscribe(ports.EventPreCommand, func(context.Context, ports.ShellEvent) error {
		calls = append(calls, "other")
		return nil
	})
	require.NoError(t, err)

	event := ports.Event{Type: ports.EventPostCommand, Data: ports.PostCommand{Command: "false", ExitCode: 2}}
	require.NoError(t, hub.Publish(context.Background(), event))

	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Equal(t, 2, hub.Subscribers(ports.EventPostCommand))
	assert.Equal(t, 1, hub.Published())
}

func TestHubUnsubscribe(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	count := 0
	handler := func(context.Context, ports.ShellEvent) error {
		count++
		return nil
	}
	first, err := hub.Subscribe(ports.EventDirectoryChanged, handler)
	require.NoError(t, err)
	_, err = hub.Subscribe(ports.EventDirectoryChanged, handler)
	require.NoError(t, err)

	first.Unsubscribe()
	first.Unsubscribe()
	require.NoError(t, hub.Publish(context.Background(), ports.Event{Type: ports.EventDirectoryChanged}))
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, hub.Subscribers(ports.EventDirectoryChanged))
}

func TestHubHandlerErrorsDoNotStopDelivery(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger, err := logging.New(logging.Options{
		Writer: buf,
		Level:  "warn",
		Format: "json",
	})
	require.NoError(t, err)

	hub := NewHub(logger)
	boom := errors.New("boom")
	reached := false
	_, err = hub.Subscribe(ports.EventPreCommand, func(context.Context, ports.ShellEvent) error { return boom })
	require.NoError(t, err)
	_, err = hub.Subscribe(ports.EventPreCommand, func(context.Context, ports.ShellEvent) error {
		reached = true
		return nil
	})
	require.NoError(t, err)

	err = hub.Publish(context.Background(), ports.Event{Type: ports.EventPreCommand, Data: ports.PreCommand{Command: "ls"}})
	require.ErrorIs(t, err, boom)
	assert.True(t, reached)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "event handler failed", entry["msg"])
	assert.Equal(t, ports.EventPreCommand, entry["event_type"])
	assert.Equal(t, "event_hub", entry["component"])
}

func TestHubRejectsNilHandler(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil)
	sub, err := hub.Subscribe(ports.EventPreCommand, nil)
	require.Error(t, err)
	sub.Unsubscribe()

	var nilHub *Hub
	require.NoError(t, nilHub.Publish(context.Background(), ports.Event{Type: "x"}))
	require.NoError(t, hub.Publish(context.Background(), nil))
}
