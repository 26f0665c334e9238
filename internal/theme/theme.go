// Package theme defines prompt themes (colors, glyphs, layout templates and
// capability flags), the registry that owns them, single-parent inheritance,
// and the YAML file format themes are loaded from and exported to.
package theme

import (
	"sort"
	"strings"

	"github.com/alexisbeaulieu97/promptkit/internal/color"
	"github.com/alexisbeaulieu97/promptkit/internal/symbols"
)

// Category groups themes for listing.
type Category string

const (
	CategoryDark      Category = "dark"
	CategoryLight     Category = "light"
	CategoryMinimal   Category = "minimal"
	CategoryColorful  Category = "colorful"
	CategoryClassic   Category = "classic"
	CategoryPowerline Category = "powerline"
	CategoryCustom    Category = "custom"
)

// Capability is a bit set describing what a theme needs or offers.
type Capability uint32

const (
	CapColors256 Capability = 1 << iota
	CapTrueColor
	CapUnicode
	CapPowerline
	CapRightPrompt
	CapMultiline
	CapGitAware
	CapBuiltin
)

// Inheritable lists the capabilities a child picks up from its parent.
const Inheritable = CapUnicode | CapPowerline | CapRightPrompt | CapMultiline | CapGitAware

var capabilityNames = []struct {
	name string
	cap  Capability
}{
	{"256color", CapColors256},
	{"truecolor", CapTrueColor},
	{"unicode", CapUnicode},
	{"powerline", CapPowerline},
	{"right_prompt", CapRightPrompt},
	{"multiline", CapMultiline},
	{"git_aware", CapGitAware},
	{"builtin", CapBuiltin},
}

// Has reports whether every bit in other is set.
func (c Capability) Has(other Capability) bool { return c&other == other }

// Names lists the capability names present in c.
func (c Capability) Names() []string {
	names := make([]string, 0, len(capabilityNames))
	for _, entry := range capabilityNames {
		if c.Has(entry.cap) {
			names = append(names, entry.name)
		}
	}
	return names
}

// ParseCapability maps a capability name onto its flag.
func ParseCapability(name string) (Capability, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, entry := range capabilityNames {
		if entry.name == name {
			return entry.cap, true
		}
	}
	return 0, false
}

// ColorScheme holds the semantic color slots templates reference by name.
type ColorScheme struct {
	Primary      color.Color
	Secondary    color.Color
	Success      color.Color
	Warning      color.Color
	Error        color.Color
	Info         color.Color
	Text         color.Color
	Muted        color.Color
	Highlight    color.Color
	Directory    color.Color
	User         color.Color
	Host         color.Color
	Time         color.Color
	GitBranch    color.Color
	GitClean     color.Color
	GitDirty     color.Color
	GitStaged    color.Color
	GitUntracked color.Color
	Status       color.Color
	Jobs         color.Color
	Symbol       color.Color
	Separator    color.Color
}

func (s *ColorScheme) slots() []colorSlot {
	return []colorSlot{
		{"primary", &s.Primary},
		{"secondary", &s.Secondary},
		{"success", &s.Success},
		{"warning", &s.Warning},
		{"error", &s.Error},
		{"info", &s.Info},
		{"text", &s.Text},
		{"muted", &s.Muted},
		{"highlight", &s.Highlight},
		{"directory", &s.Directory},
		{"user", &s.User},
		{"host", &s.Host},
		{"time", &s.Time},
		{"git_branch", &s.GitBranch},
		{"git_clean", &s.GitClean},
		{"git_dirty", &s.GitDirty},
		{"git_staged", &s.GitStaged},
		{"git_untracked", &s.GitUntracked},
		{"status", &s.Status},
		{"jobs", &s.Jobs},
		{"symbol", &s.Symbol},
		{"separator", &s.Separator},
	}
}

// Lookup returns the color stored under a semantic name.
func (s *ColorScheme) Lookup(name string) (color.Color, bool) {
	return lookupSlot(s.slots(), name)
}

// Set stores c under a semantic name, reporting whether the name is known.
func (s *ColorScheme) Set(name string, c color.Color) bool {
	return setSlot(s.slots(), name, c)
}

// FillFrom copies parent colors into every unset slot.
func (s *ColorScheme) FillFrom(parent *ColorScheme) {
	fillSlots(s.slots(), parent.slots())
}

// ColorNames lists the semantic color slot names in declaration order.
func ColorNames() []string {
	var s ColorScheme
	return slotNames(s.slots())
}

// SyntaxScheme holds the optional command-line highlighting colors a theme
// may provide to the line editor.
type SyntaxScheme struct {
	Command  color.Color
	Keyword  color.Color
	String   color.Color
	Variable color.Color
	Comment  color.Color
	Operator color.Color
	Path     color.Color
	Number   color.Color
	Error    color.Color
}

func (s *SyntaxScheme) slots() []colorSlot {
	return []colorSlot{
		{"command", &s.Command},
		{"keyword", &s.Keyword},
		{"string", &s.String},
		{"variable", &s.Variable},
		{"comment", &s.Comment},
		{"operator", &s.Operator},
		{"path", &s.Path},
		{"number", &s.Number},
		{"error", &s.Error},
	}
}

// Lookup returns the syntax color stored under name.
func (s *SyntaxScheme) Lookup(name string) (color.Color, bool) {
	return lookupSlot(s.slots(), name)
}

// Set stores c under name, reporting whether the name is known.
func (s *SyntaxScheme) Set(name string, c color.Color) bool {
	return setSlot(s.slots(), name, c)
}

// FillFrom copies parent colors into every unset slot.
func (s *SyntaxScheme) FillFrom(parent *SyntaxScheme) {
	fillSlots(s.slots(), parent.slots())
}

// SyntaxNames lists the syntax slot names in declaration order.
func SyntaxNames() []string {
	var s SyntaxScheme
	return slotNames(s.slots())
}

type colorSlot struct {
	name  string
	color *color.Color
}

func lookupSlot(slots []colorSlot, name string) (color.Color, bool) {
	for _, slot := range slots {
		if slot.name == name {
			return *slot.color, true
		}
	}
	return color.Color{}, false
}

func setSlot(slots []colorSlot, name string, c color.Color) bool {
	for _, slot := range slots {
		if slot.name == name {
			*slot.color = c
			return true
		}
	}
	return false
}

func fillSlots(own, parent []colorSlot) {
	for i := range own {
		if own[i].color.Mode == color.ModeNone {
			*own[i].color = *parent[i].color
		}
	}
}

func slotNames(slots []colorSlot) []string {
	names := make([]string, len(slots))
	for i, slot := range slots {
		names[i] = slot.name
	}
	return names
}

// Layout holds the template strings for each prompt and layout flags.
type Layout struct {
	Left         string
	Right        string
	Continuation string
	Multiline    bool
	RightPrompt  bool
	Compact      bool
}

// FillFrom copies parent templates into empty fields. Flags are taken from
// the parent only when the child defines no templates of its own.
func (l *Layout) FillFrom(parent Layout) {
	own := l.Left != "" || l.Right != "" || l.Continuation != ""
	if l.Left == "" {
		l.Left = parent.Left
	}
	if l.Right == "" {
		l.Right = parent.Right
	}
	if l.Continuation == "" {
		l.Continuation = parent.Continuation
	}
	if !own {
		l.Multiline = parent.Multiline
		l.RightPrompt = parent.RightPrompt
		l.Compact = parent.Compact
	}
}

// Theme bundles identity, colors, glyphs and layout.
type Theme struct {
	Name         string
	Description  string
	Author       string
	Version      string
	Category     Category
	Capabilities Capability
	InheritsFrom string

	Colors   ColorScheme
	Syntax   SyntaxScheme
	Symbols  symbols.Set
	Layout   Layout
	Segments []string

	active bool
}

// Active reports whether the registry currently has this theme selected.
func (t *Theme) Active() bool { return t.active }

// SegmentEnabled reports whether the theme lets name render. An empty list
// enables every segment.
func (t *Theme) SegmentEnabled(name string) bool {
	if len(t.Segments) == 0 {
		return true
	}
	for _, s := range t.Segments {
		if s == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy detached from any registry.
func (t *Theme) Clone() *Theme {
	if t == nil {
		return nil
	}
	out := *t
	out.Segments = append([]string(nil), t.Segments...)
	out.active = false
	return &out
}

// ColorNamesInUse returns the color slots this theme sets, sorted.
func (t *Theme) ColorNamesInUse() []string {
	var names []string
	for _, slot := range t.Colors.slots() {
		if slot.color.IsSet() {
			names = append(names, slot.name)
		}
	}
	sort.Strings(names)
	return names
}
