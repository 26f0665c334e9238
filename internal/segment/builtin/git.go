package builtin

import (
	"errors"
	"strings"
	"time"

	"github.com/alexisbeaulieu97/promptkit/internal/gitstatus"
	"github.com/alexisbeaulieu97/promptkit/internal/segment"
)

// Git shows the branch and change counters of the surrounding work tree.
// Status is probed once per directory until the cache is invalidated.
type Git struct {
	segment.Base
	provider gitstatus.Provider
	timeout  time.Duration

	valid  bool
	dir    string
	status gitstatus.Status
	err    error
}

func NewGit(provider gitstatus.Provider, timeout time.Duration) *Git {
	if provider == nil {
		provider = gitstatus.GoGit{}
	}
	if timeout <= 0 {
		timeout = gitstatus.DefaultTimeout
	}
	return &Git{
		Base: segment.Base{Meta: segment.Info{
			Name:         NameGit,
			Description:  "Git branch and work tree status",
			Version:      version,
			Capabilities: segment.CapCacheable | segment.CapExpensive | segment.CapOptional | segment.CapDynamic | segment.CapHasProperties,
			Properties:   []string{"branch", "staged", "unstaged", "untracked", "ahead", "behind", "dirty", "clean", "upstream", "detached"},
		}},
		provider: provider,
		timeout:  timeout,
	}
}

func (g *Git) probe(in segment.Input) (gitstatus.Status, error) {
	if !in.Prompt.InGitRepo {
		return gitstatus.Status{}, gitstatus.ErrNotRepository
	}
	if g.valid && g.dir == in.Prompt.Cwd {
		return g.status, g.err
	}
	g.status, g.err = gitstatus.Probe(in.Context(), g.provider, in.Prompt.Cwd, g.timeout)
	g.dir = in.Prompt.Cwd
	g.valid = true
	return g.status, g.err
}

func (g *Git) CacheValid() bool { return g.valid }

func (g *Git) InvalidateCache() {
	g.valid = false
	g.err = nil
	g.status = gitstatus.Status{}
}

func (g *Git) Visible(in segment.Input) bool {
	_, err := g.probe(in)
	return err == nil
}

// Render shows the branch followed by non-zero counters. A failed or timed
// out probe renders empty.
func (g *Git) Render(in segment.Input) (segment.Output, error) {
	st, err := g.probe(in)
	if err != nil {
		if errors.Is(err, gitstatus.ErrNotRepository) {
			err = nil
		}
		return segment.NewOutput("", false), err
	}

	var b strings.Builder
	b.WriteString(st.Branch)
	counter := func(glyph, fallback string, n int) {
		if n <= 0 {
			return
		}
		if glyph == "" {
			glyph = fallback
		}
		b.WriteByte(' ')
		b.WriteString(glyph)
		b.WriteString(itoa(n))
	}
	sym := in.Symbols
	counter(sym.Staged, "+", st.Staged)
	counter(sym.Unstaged, "!", st.Unstaged)
	counter(sym.Untracked, "?", st.Untracked)
	counter(sym.Ahead, "^", st.Ahead)
	counter(sym.Behind, "v", st.Behind)
	return segment.NewOutput(b.String(), true), nil
}

func (g *Git) Property(in segment.Input, name string) (string, bool) {
	st, err := g.probe(in)
	if err != nil {
		st = gitstatus.Status{}
	}
	switch name {
	case "branch":
		return st.Branch, true
	case "staged":
		return itoa(st.Staged), true
	case "unstaged":
		return itoa(st.Unstaged), true
	case "untracked":
		return itoa(st.Untracked), true
	case "ahead":
		return itoa(st.Ahead), true
	case "behind":
		return itoa(st.Behind), true
	case "dirty":
		return boolProperty(err == nil && st.Dirty()), true
	case "clean":
		return boolProperty(err == nil && !st.Dirty()), true
	case "upstream":
		return st.Upstream, true
	case "detached":
		return boolProperty(st.Detached), true
	}
	return "", false
}
