// Package gitstatus reports the state of the git work tree containing a
// directory.
package gitstatus

import (
	"context"
	"time"

	apperrors "github.com/alexisbeaulieu97/promptkit/pkg/errors"
)

// DefaultTimeout bounds a single status probe.
const DefaultTimeout = 250 * time.Millisecond

// ErrNotRepository is returned for directories outside any work tree.
var ErrNotRepository = apperrors.New(apperrors.CodeNotFound, "not a git repository", nil, nil)

// Status summarizes a work tree.
type Status struct {
	Branch     string
	Detached   bool
	Upstream   string
	Staged     int
	Unstaged   int
	Untracked  int
	Conflicted int
	Ahead      int
	Behind     int
}

// Dirty reports whether anything differs from HEAD.
func (s Status) Dirty() bool {
	return s.Staged+s.Unstaged+s.Untracked+s.Conflicted > 0
}

// Provider computes the status of the work tree containing dir.
type Provider interface {
	Status(ctx context.Context, dir string) (Status, error)
}

type result struct {
	status Status
	err    error
}

// Probe runs p with a deadline of timeout and returns as soon as it expires,
// even when p does not watch ctx. A non-positive timeout uses DefaultTimeout.
func Probe(ctx context.Context, p Provider, dir string, timeout time.Duration) (Status, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		st, err := p.Status(ctx, dir)
		done <- result{status: st, err: err}
	}()

	select {
	case r := <-done:
		return r.status, r.err
	case <-ctx.Done():
		return Status{}, apperrors.New(apperrors.CodeSystemCall, "git status timed out", ctx.Err(), map[string]interface{}{
			"dir":     dir,
			"timeout": timeout.String(),
		})
	}
}
