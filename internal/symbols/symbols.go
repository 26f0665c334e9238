// Package symbols holds the named glyph tables prompts draw from.
package symbols

import "sort"

// Set maps glyph names to their rendered text.
type Set struct {
	Prompt         string `yaml:"prompt,omitempty"`
	RootPrompt     string `yaml:"root_prompt,omitempty"`
	Separator      string `yaml:"separator,omitempty"`
	SeparatorRight string `yaml:"separator_right,omitempty"`
	Branch         string `yaml:"branch,omitempty"`
	Staged         string `yaml:"staged,omitempty"`
	Unstaged       string `yaml:"unstaged,omitempty"`
	Untracked      string `yaml:"untracked,omitempty"`
	Ahead          string `yaml:"ahead,omitempty"`
	Behind         string `yaml:"behind,omitempty"`
	Jobs           string `yaml:"jobs,omitempty"`
	Error          string `yaml:"error,omitempty"`
	Success        string `yaml:"success,omitempty"`
	Home           string `yaml:"home,omitempty"`
	Ellipsis       string `yaml:"ellipsis,omitempty"`
	ReadOnly       string `yaml:"readonly,omitempty"`
	Continuation   string `yaml:"continuation,omitempty"`
}

// Unicode returns the glyph table for terminals that render Unicode.
func Unicode() Set {
	return Set{
		Prompt:         "$",
		RootPrompt:     "#",
		Separator:      "\ue0b0",
		SeparatorRight: "\ue0b2",
		Branch:         "\ue0a0",
		Staged:         "●",
		Unstaged:       "✚",
		Untracked:      "…",
		Ahead:          "↑",
		Behind:         "↓",
		Jobs:           "⚙",
		Error:          "✘",
		Success:        "✔",
		Home:           "~",
		Ellipsis:       "…",
		ReadOnly:       "\ue0a2",
		Continuation:   "…",
	}
}

// ASCII returns a glyph table safe for any terminal.
func ASCII() Set {
	return Set{
		Prompt:         "$",
		RootPrompt:     "#",
		Separator:      ">",
		SeparatorRight: "<",
		Branch:         "git:",
		Staged:         "+",
		Unstaged:       "!",
		Untracked:      "?",
		Ahead:          "^",
		Behind:         "v",
		Jobs:           "&",
		Error:          "x",
		Success:        "ok",
		Home:           "~",
		Ellipsis:       "...",
		ReadOnly:       "[ro]",
		Continuation:   ">",
	}
}

func (s *Set) slots() map[string]*string {
	return map[string]*string{
		"prompt":          &s.Prompt,
		"root_prompt":     &s.RootPrompt,
		"separator":       &s.Separator,
		"separator_right": &s.SeparatorRight,
		"branch":          &s.Branch,
		"staged":          &s.Staged,
		"unstaged":        &s.Unstaged,
		"untracked":       &s.Untracked,
		"ahead":           &s.Ahead,
		"behind":          &s.Behind,
		"jobs":            &s.Jobs,
		"error":           &s.Error,
		"success":         &s.Success,
		"home":            &s.Home,
		"ellipsis":        &s.Ellipsis,
		"readonly":        &s.ReadOnly,
		"continuation":    &s.Continuation,
	}
}

// Get returns the glyph registered under name.
func (s *Set) Get(name string) (string, bool) {
	slot, ok := s.slots()[name]
	if !ok {
		return "", false
	}
	return *slot, true
}

// Set stores glyph under name, reporting whether the name is known.
func (s *Set) Set(name, glyph string) bool {
	slot, ok := s.slots()[name]
	if !ok {
		return false
	}
	*slot = glyph
	return true
}

// FillFrom copies every glyph from parent into the slots s leaves empty.
func (s *Set) FillFrom(parent Set) {
	own := s.slots()
	for name, slot := range parent.slots() {
		if *own[name] == "" {
			*own[name] = *slot
		}
	}
}

// Names lists the glyph names in sorted order.
func Names() []string {
	var s Set
	slots := s.slots()
	names := make([]string, 0, len(slots))
	for name := range slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Map returns the non-empty glyphs keyed by name.
func (s *Set) Map() map[string]string {
	out := make(map[string]string)
	for name, slot := range s.slots() {
		if *slot != "" {
			out[name] = *slot
		}
	}
	return out
}
