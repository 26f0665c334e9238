// Package builtin provides the stock prompt segments.
package builtin

import (
	"strconv"
	"time"

	"github.com/alexisbeaulieu97/promptkit/internal/gitstatus"
	"github.com/alexisbeaulieu97/promptkit/internal/segment"
)

// Segment names.
const (
	NameDirectory = "directory"
	NameGit       = "git"
	NameUser      = "user"
	NameHost      = "host"
	NameTime      = "time"
	NameStatus    = "status"
	NameJobs      = "jobs"
	NameSymbol    = "symbol"
)

const version = "1.0.0"

// Options configures the stock segments.
type Options struct {
	// Git computes repository status; nil means gitstatus.GoGit.
	Git        gitstatus.Provider
	GitTimeout time.Duration
	// DirectoryMaxWidth truncates the directory from the left; zero disables it.
	DirectoryMaxWidth int
}

// All returns fresh instances of every stock segment.
func All(opts Options) []segment.Segment {
	return []segment.Segment{
		NewDirectory(opts.DirectoryMaxWidth),
		NewGit(opts.Git, opts.GitTimeout),
		NewUser(),
		NewHost(),
		NewTime(),
		NewStatus(),
		NewJobs(),
		NewSymbol(),
	}
}

// Register adds every stock segment to reg.
func Register(reg *segment.Registry, opts Options) error {
	for _, s := range All(opts) {
		if err := reg.Register(s); err != nil {
			return err
		}
	}
	return nil
}

func boolProperty(v bool) string {
	if v {
		return "true"
	}
	return ""
}

func itoa(n int) string { return strconv.Itoa(n) }
