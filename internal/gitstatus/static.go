package gitstatus

import (
	"context"
	"sync/atomic"
	"time"
)

// Static returns a fixed result. It counts calls and can simulate a slow
// repository with Delay.
type Static struct {
	Result Status
	Err    error
	Delay  time.Duration

	calls atomic.Int64
}

func (s *Static) Status(ctx context.Context, _ string) (Status, error) {
	s.calls.Add(1)
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return Status{}, ctx.Err()
		}
	}
	return s.Result, s.Err
}

// Calls reports how many times Status ran.
func (s *Static) Calls() int { return int(s.calls.Load()) }
