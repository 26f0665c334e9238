package builtin

import (
	"strings"

	"github.com/alexisbeaulieu97/promptkit/internal/segment"
)

// User shows the login name.
type User struct{ segment.Base }

func NewUser() *User {
	return &User{segment.Base{Meta: segment.Info{
		Name:         NameUser,
		Description:  "Current user name",
		Version:      version,
		Capabilities: segment.CapHasProperties,
		Properties:   []string{"name", "root"},
	}}}
}

func (u *User) Render(in segment.Input) (segment.Output, error) {
	return segment.NewOutput(in.Prompt.Username, true), nil
}

func (u *User) Property(in segment.Input, name string) (string, bool) {
	switch name {
	case "name":
		return in.Prompt.Username, true
	case "root":
		return boolProperty(in.Prompt.IsRoot), true
	}
	return "", false
}

// Host shows the host name up to the first dot.
type Host struct{ segment.Base }

func NewHost() *Host {
	return &Host{segment.Base{Meta: segment.Info{
		Name:         NameHost,
		Description:  "Host name without domain",
		Version:      version,
		Capabilities: segment.CapHasProperties,
		Properties:   []string{"short", "full"},
	}}}
}

func shortHost(full string) string {
	short, _, _ := strings.Cut(full, ".")
	return short
}

func (h *Host) Render(in segment.Input) (segment.Output, error) {
	return segment.NewOutput(shortHost(in.Prompt.Hostname), true), nil
}

func (h *Host) Property(in segment.Input, name string) (string, bool) {
	switch name {
	case "short":
		return shortHost(in.Prompt.Hostname), true
	case "full":
		return in.Prompt.Hostname, true
	}
	return "", false
}

// Symbol shows the prompt character, "#" for root. Its properties expose
// every glyph of the active theme.
type Symbol struct{ segment.Base }

func NewSymbol() *Symbol {
	return &Symbol{segment.Base{Meta: segment.Info{
		Name:         NameSymbol,
		Description:  "Prompt character and theme glyphs",
		Version:      version,
		Capabilities: segment.CapThemeAware | segment.CapHasProperties,
	}}}
}

func (s *Symbol) Render(in segment.Input) (segment.Output, error) {
	glyph := in.Symbols.Prompt
	fallback := "$"
	if in.Prompt.IsRoot {
		glyph = in.Symbols.RootPrompt
		fallback = "#"
	}
	if glyph == "" {
		glyph = fallback
	}
	return segment.NewOutput(glyph, false), nil
}

func (s *Symbol) Property(in segment.Input, name string) (string, bool) {
	return in.Symbols.Get(name)
}
