package builtin

import (
	"time"

	"github.com/alexisbeaulieu97/promptkit/internal/segment"
)

// Time shows the wall clock as HH:MM:SS.
type Time struct{ segment.Base }

func NewTime() *Time {
	return &Time{segment.Base{Meta: segment.Info{
		Name:         NameTime,
		Description:  "Current time, HH:MM:SS",
		Version:      version,
		Capabilities: segment.CapDynamic | segment.CapHasProperties,
		Properties:   []string{"date", "hour"},
	}}}
}

func now(in segment.Input) time.Time {
	if in.Prompt.Now.IsZero() {
		return time.Now()
	}
	return in.Prompt.Now
}

func (t *Time) Render(in segment.Input) (segment.Output, error) {
	return segment.NewOutput(now(in).Format("15:04:05"), true), nil
}

func (t *Time) Property(in segment.Input, name string) (string, bool) {
	switch name {
	case "date":
		return now(in).Format("2006-01-02"), true
	case "hour":
		return now(in).Format("15"), true
	}
	return "", false
}

// Status shows the exit code of the last command when it failed.
type Status struct{ segment.Base }

func NewStatus() *Status {
	return &Status{segment.Base{Meta: segment.Info{
		Name:         NameStatus,
		Description:  "Exit code of the last failed command",
		Version:      version,
		Capabilities: segment.CapDynamic | segment.CapOptional | segment.CapHasProperties,
		Properties:   []string{"code", "duration"},
	}}}
}

func (s *Status) Visible(in segment.Input) bool { return in.Prompt.LastExitCode != 0 }

func (s *Status) Render(in segment.Input) (segment.Output, error) {
	if in.Prompt.LastExitCode == 0 {
		return segment.NewOutput("", false), nil
	}
	return segment.NewOutput(itoa(in.Prompt.LastExitCode), true), nil
}

func (s *Status) Property(in segment.Input, name string) (string, bool) {
	switch name {
	case "code":
		return itoa(in.Prompt.LastExitCode), true
	case "duration":
		if in.Prompt.LastDuration <= 0 {
			return "", true
		}
		return in.Prompt.LastDuration.Round(time.Millisecond).String(), true
	}
	return "", false
}

// Jobs shows the number of background jobs when there are any.
type Jobs struct{ segment.Base }

func NewJobs() *Jobs {
	return &Jobs{segment.Base{Meta: segment.Info{
		Name:         NameJobs,
		Description:  "Background job count",
		Version:      version,
		Capabilities: segment.CapDynamic | segment.CapOptional | segment.CapHasProperties,
		Properties:   []string{"count"},
	}}}
}

func (j *Jobs) Visible(in segment.Input) bool { return in.Prompt.JobCount > 0 }

func (j *Jobs) Render(in segment.Input) (segment.Output, error) {
	if in.Prompt.JobCount <= 0 {
		return segment.NewOutput("", false), nil
	}
	return segment.NewOutput(itoa(in.Prompt.JobCount), true), nil
}

func (j *Jobs) Property(in segment.Input, name string) (string, bool) {
	if name == "count" {
		return itoa(in.Prompt.JobCount), true
	}
	return "", false
}
