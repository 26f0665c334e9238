package outbuf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/alexisbeaulieu97/promptkit/pkg/errors"
)

func TestWriteStringWithinCapacity(t *testing.T) {
	t.Parallel()

	buf := New(16)
	n, err := buf.WriteString("hello")
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "hello", buf.String())
	require.Equal(t, 11, buf.Remaining())
	require.False(t, buf.Truncated())
}

func TestWriteStringTruncatesAtCapacity(t *testing.T) {
	t.Parallel()

	buf := New(4)
	n, err := buf.WriteString("abcdef")
	require.Error(t, err)
	require.True(t, errors.Is(err, apperrors.CapacityExceeded))
	require.Equal(t, 4, n)
	require.Equal(t, "abcd", buf.String())
	require.True(t, buf.Full())
	require.True(t, buf.Truncated())

	n, err = buf.WriteString("more")
	require.Error(t, err)
	require.Zero(t, n)
	require.Equal(t, "abcd", buf.String())
}

func TestWriteStringNeverSplitsRunes(t *testing.T) {
	t.Parallel()

	buf := New(4)
	_, err := buf.WriteString("a→b")
	require.Error(t, err)
	require.Equal(t, "a→", buf.String())

	buf = New(3)
	_, err = buf.WriteString("a→b")
	require.Error(t, err)
	require.Equal(t, "a", buf.String())
}

func TestReserveHoldsRoomForClosingSequence(t *testing.T) {
	t.Parallel()

	buf := New(10)
	require.True(t, buf.Reserve(4))
	require.Equal(t, 6, buf.Remaining())

	_, err := buf.WriteString("0123456789")
	require.Error(t, err)
	require.Equal(t, "012345", buf.String())

	buf.Release(4)
	_, err = buf.WriteString("\x1b[0m")
	require.NoError(t, err)
	require.Equal(t, 10, buf.Len())
	require.False(t, buf.Reserve(1))
}

func TestWriteByteAndReset(t *testing.T) {
	t.Parallel()

	buf := New(1)
	require.NoError(t, buf.WriteByte('x'))
	require.Error(t, buf.WriteByte('y'))
	require.True(t, buf.Truncated())

	buf.Reset()
	require.Zero(t, buf.Len())
	require.False(t, buf.Truncated())
	require.Equal(t, 1, buf.Cap())
}

func TestNewDefaultsCapacity(t *testing.T) {
	t.Parallel()

	require.Equal(t, DefaultCapacity, New(0).Cap())
	require.Equal(t, DefaultCapacity, New(-5).Cap())
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{name: "fits", input: "abc", max: 5, expected: "abc"},
		{name: "exact", input: "abc", max: 3, expected: "abc"},
		{name: "cut", input: "abcdef", max: 2, expected: "ab"},
		{name: "zero", input: "abc", max: 0, expected: ""},
		{name: "multibyte boundary", input: "日本", max: 4, expected: "日"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Truncate(tt.input, tt.max))
		})
	}
}

func TestDropMarksTruncation(t *testing.T) {
	buf := New(8)
	buf.Drop()
	require.True(t, buf.Truncated())
	require.Equal(t, 0, buf.Len())
}
