package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	entry := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestRegistryFieldsAndPairs(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "debug", Writer: buf})
	require.NoError(t, err)

	log.Registry("theme").Debug("theme registered", "theme", "powerline", "inherits", "default")

	entry := lastEntry(t, buf)
	assert.Equal(t, "theme registered", entry["message"])
	assert.Equal(t, "theme", entry["registry"])
	assert.Equal(t, "powerline", entry["theme"])
	assert.Equal(t, "default", entry["inherits"])
	assert.Equal(t, "debug", entry["level"])
}

func TestDefaultLevelIsWarn(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Writer: buf})
	require.NoError(t, err)

	log.Debug("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("theme not registered", "theme", "loop")
	assert.Equal(t, "loop", lastEntry(t, buf)["theme"])
}

func TestErrorCarriesCause(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Writer: buf})
	require.NoError(t, err)

	log.Registry("segment").Error(errors.New("boom"), "segment render failed", "segment", "git")

	entry := lastEntry(t, buf)
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "segment", entry["registry"])
	assert.Equal(t, "git", entry["segment"])
}

func TestConsoleWriter(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Console: true, Writer: buf})
	require.NoError(t, err)

	log.Warn("capacity reached", "theme", "ocean")
	out := buf.String()
	assert.Contains(t, out, "capacity reached")
	assert.Contains(t, out, "theme=ocean")
	assert.NotContains(t, out, "\x1b[")
}

func TestNilAndNopAreSafe(t *testing.T) {
	t.Parallel()

	var nilLogger *Logger
	require.NotPanics(t, func() {
		nilLogger.Debug("x")
		nilLogger.Warn("x")
		nilLogger.Error(errors.New("x"), "x")
		assert.Nil(t, nilLogger.Registry("theme"))
		Nop().Registry("segment").Warn("discarded")
	})
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Level: "verbose"})
	require.Error(t, err)
}
