// Package outbuf provides the capacity-bounded output buffer every prompt
// writer appends through. Writes never grow the buffer past its limit; once
// the limit is reached further writes are dropped and the buffer reports that
// it was truncated.
package outbuf

import (
	"unicode/utf8"

	apperrors "github.com/alexisbeaulieu97/promptkit/pkg/errors"
)

// DefaultCapacity is the limit used when a caller passes a non-positive one.
const DefaultCapacity = 4096

// ErrTruncated is returned by Write when only part of the input fit.
var ErrTruncated = apperrors.New(apperrors.CodeCapacityExceeded, "output buffer capacity exhausted", nil, nil)

// Buffer is a byte buffer with a hard capacity. The zero value is not usable;
// construct with New.
type Buffer struct {
	buf       []byte
	limit     int
	reserved  int
	truncated bool
}

// New returns an empty buffer holding at most limit bytes.
func New(limit int) *Buffer {
	if limit <= 0 {
		limit = DefaultCapacity
	}
	initial := limit
	if initial > 256 {
		initial = 256
	}
	return &Buffer{buf: make([]byte, 0, initial), limit: limit}
}

// Cap reports the configured limit.
func (b *Buffer) Cap() int { return b.limit }

// Len reports the number of bytes written.
func (b *Buffer) Len() int { return len(b.buf) }

// Remaining reports how many more bytes can be appended, excluding space held
// by Reserve.
func (b *Buffer) Remaining() int {
	left := b.limit - b.reserved - len(b.buf)
	if left < 0 {
		return 0
	}
	return left
}

// Full reports whether no further byte can be appended.
func (b *Buffer) Full() bool { return b.Remaining() == 0 }

// Truncated reports whether any write was cut short or dropped.
func (b *Buffer) Truncated() bool { return b.truncated }

// WriteString appends as much of s as fits, cutting on a rune boundary, and
// returns the number of bytes written.
func (b *Buffer) WriteString(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	room := b.Remaining()
	if len(s) <= room {
		b.buf = append(b.buf, s...)
		return len(s), nil
	}
	b.truncated = true
	cut := runeBoundary(s, room)
	b.buf = append(b.buf, s[:cut]...)
	return cut, ErrTruncated
}

// Write implements io.Writer with the same truncation rules as WriteString.
func (b *Buffer) Write(p []byte) (int, error) {
	return b.WriteString(string(p))
}

// WriteByte appends a single byte when room remains.
func (b *Buffer) WriteByte(c byte) error {
	if b.Remaining() < 1 {
		b.truncated = true
		return ErrTruncated
	}
	b.buf = append(b.buf, c)
	return nil
}

// Drop records that output was discarded without writing any of it.
func (b *Buffer) Drop() { b.truncated = true }

// Fits reports whether s can be appended without truncation.
func (b *Buffer) Fits(s string) bool { return len(s) <= b.Remaining() }

// Reserve holds n bytes back from subsequent writes so a closing sequence can
// always be emitted. It fails when fewer than n bytes remain.
func (b *Buffer) Reserve(n int) bool {
	if n < 0 || n > b.Remaining() {
		return false
	}
	b.reserved += n
	return true
}

// Release returns n previously reserved bytes.
func (b *Buffer) Release(n int) {
	b.reserved -= n
	if b.reserved < 0 {
		b.reserved = 0
	}
}

// String returns the contents written so far.
func (b *Buffer) String() string { return string(b.buf) }

// Reset empties the buffer and clears the truncation flag, keeping the limit.
func (b *Buffer) Reset() {
	b.buf = b.buf[:0]
	b.reserved = 0
	b.truncated = false
}

// Truncate returns the longest prefix of s no longer than max bytes that does
// not split a UTF-8 sequence.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	return s[:runeBoundary(s, max)]
}

func runeBoundary(s string, max int) int {
	if max >= len(s) {
		return len(s)
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return cut
}
