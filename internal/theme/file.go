package theme

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/promptkit/internal/color"
)

// File is the on-disk form of a theme. One YAML document describes one theme.
type File struct {
	Name         string            `yaml:"name" validate:"required,theme_name"`
	Description  string            `yaml:"description,omitempty" validate:"max=256"`
	Author       string            `yaml:"author,omitempty" validate:"max=128"`
	Version      string            `yaml:"version,omitempty" validate:"omitempty,semver"`
	Category     string            `yaml:"category,omitempty" validate:"omitempty,oneof=dark light minimal colorful classic powerline custom"`
	Inherits     string            `yaml:"inherits,omitempty" validate:"omitempty,theme_name"`
	Capabilities []string          `yaml:"capabilities,omitempty" validate:"dive,capability"`
	Layout       LayoutFile        `yaml:"layout"`
	Segments     []string          `yaml:"segments,omitempty" validate:"dive,required,max=64"`
	Colors       map[string]string `yaml:"colors,omitempty" validate:"dive,keys,color_slot,endkeys,color_spec"`
	Symbols      map[string]string `yaml:"symbols,omitempty" validate:"dive,keys,symbol_name,endkeys,max=32"`
	Syntax       map[string]string `yaml:"syntax,omitempty" validate:"dive,keys,syntax_slot,endkeys,color_spec"`
}

// LayoutFile is the layout section of a theme file.
type LayoutFile struct {
	Left         Quoted `yaml:"left,omitempty" validate:"max=2048,prompt_template"`
	Right        Quoted `yaml:"right,omitempty" validate:"max=2048,prompt_template"`
	Continuation Quoted `yaml:"continuation,omitempty" validate:"max=2048,prompt_template"`
	Multiline    bool   `yaml:"multiline,omitempty"`
	RightPrompt  bool   `yaml:"right_prompt,omitempty"`
	Compact      bool   `yaml:"compact,omitempty"`
}

// Quoted is a string always emitted in double-quoted YAML style, which
// escapes control characters and quotes.
type Quoted string

// MarshalYAML implements yaml.Marshaler.
func (q Quoted) MarshalYAML() (interface{}, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!str",
		Style: yaml.DoubleQuotedStyle,
		Value: string(q),
	}, nil
}

// ToTheme converts the file form into a Theme. Inheritance is resolved later,
// when the theme is registered.
func (f *File) ToTheme() (*Theme, error) {
	t := &Theme{
		Name:         f.Name,
		Description:  f.Description,
		Author:       f.Author,
		Version:      f.Version,
		Category:     Category(f.Category),
		InheritsFrom: f.Inherits,
		Layout: Layout{
			Left:         string(f.Layout.Left),
			Right:        string(f.Layout.Right),
			Continuation: string(f.Layout.Continuation),
			Multiline:    f.Layout.Multiline,
			RightPrompt:  f.Layout.RightPrompt,
			Compact:      f.Layout.Compact,
		},
		Segments: append([]string(nil), f.Segments...),
	}

	for _, name := range f.Capabilities {
		capability, ok := ParseCapability(name)
		if !ok {
			return nil, fmt.Errorf("unknown capability %q", name)
		}
		t.Capabilities |= capability
	}
	if t.Layout.Multiline {
		t.Capabilities |= CapMultiline
	}
	if t.Layout.RightPrompt {
		t.Capabilities |= CapRightPrompt
	}

	for name, spec := range f.Colors {
		c, err := color.Parse(spec)
		if err != nil {
			return nil, fmt.Errorf("colors.%s: %w", name, err)
		}
		if !t.Colors.Set(name, c) {
			return nil, fmt.Errorf("colors.%s: unknown color slot", name)
		}
	}
	for name, spec := range f.Syntax {
		c, err := color.Parse(spec)
		if err != nil {
			return nil, fmt.Errorf("syntax.%s: %w", name, err)
		}
		if !t.Syntax.Set(name, c) {
			return nil, fmt.Errorf("syntax.%s: unknown syntax slot", name)
		}
	}
	for name, glyph := range f.Symbols {
		if !t.Symbols.Set(name, glyph) {
			return nil, fmt.Errorf("symbols.%s: unknown symbol", name)
		}
	}
	return t, nil
}

// FileFromTheme converts t into its file form. Unset colors and empty glyphs
// are omitted; the builtin capability is never exported.
func FileFromTheme(t *Theme) *File {
	f := &File{
		Name:        t.Name,
		Description: t.Description,
		Author:      t.Author,
		Version:     t.Version,
		Category:    string(t.Category),
		Inherits:    t.InheritsFrom,
		Layout: LayoutFile{
			Left:         Quoted(t.Layout.Left),
			Right:        Quoted(t.Layout.Right),
			Continuation: Quoted(t.Layout.Continuation),
			Multiline:    t.Layout.Multiline,
			RightPrompt:  t.Layout.RightPrompt,
			Compact:      t.Layout.Compact,
		},
		Segments: append([]string(nil), t.Segments...),
	}

	f.Capabilities = (t.Capabilities &^ CapBuiltin).Names()

	colors := t.Colors
	for _, slot := range colors.slots() {
		if slot.color.IsSet() {
			if f.Colors == nil {
				f.Colors = make(map[string]string)
			}
			f.Colors[slot.name] = slot.color.String()
		}
	}
	syntax := t.Syntax
	for _, slot := range syntax.slots() {
		if slot.color.IsSet() {
			if f.Syntax == nil {
				f.Syntax = make(map[string]string)
			}
			f.Syntax[slot.name] = slot.color.String()
		}
	}
	if glyphs := t.Symbols.Map(); len(glyphs) > 0 {
		f.Symbols = glyphs
	}
	sort.Strings(f.Capabilities)
	return f
}
