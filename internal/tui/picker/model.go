// Package picker is an interactive theme chooser with a live prompt preview.
package picker

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/promptkit/internal/color"
	"github.com/alexisbeaulieu97/promptkit/internal/theme"
)

const maxSwatches = 8

// Entry is one theme in the list.
type Entry struct {
	Name        string
	Description string
	Category    string
	Active      bool
	Swatches    []color.Color
}

// EntriesFrom builds list entries from registered themes.
func EntriesFrom(themes []*theme.Theme) []Entry {
	entries := make([]Entry, 0, len(themes))
	for _, t := range themes {
		e := Entry{
			Name:        t.Name,
			Description: t.Description,
			Category:    string(t.Category),
			Active:      t.Active(),
		}
		for _, name := range t.ColorNamesInUse() {
			if len(e.Swatches) == maxSwatches {
				break
			}
			c, _ := t.Colors.Lookup(name)
			e.Swatches = append(e.Swatches, c)
		}
		entries = append(entries, e)
	}
	return entries
}

// PreviewFunc renders a sample prompt for the named theme.
type PreviewFunc func(name string) (string, error)

// Model is the picker state.
type Model struct {
	entries  []Entry
	filtered []int
	cursor   int

	filter    textinput.Model
	filtering bool

	preview    viewport.Model
	previewFn  PreviewFunc
	previewErr string

	selected string
	done     bool

	width  int
	height int
}

// New returns a picker over entries with the cursor on the active theme.
func New(entries []Entry, preview PreviewFunc) Model {
	ti := textinput.New()
	ti.Placeholder = "filter themes"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	m := Model{
		entries:   entries,
		filter:    ti,
		preview:   viewport.New(60, 8),
		previewFn: preview,
		width:     80,
		height:    24,
	}
	m.applyFilter()
	for i, idx := range m.filtered {
		if m.entries[idx].Active {
			m.cursor = i
		}
	}
	m.refreshPreview()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Selected returns the chosen theme once the user confirmed one.
func (m Model) Selected() (string, bool) {
	return m.selected, m.selected != ""
}

// Current returns the entry under the cursor.
func (m Model) Current() (Entry, bool) {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return Entry{}, false
	}
	return m.entries[m.filtered[m.cursor]], true
}

// Visible returns the names that pass the current filter.
func (m Model) Visible() []string {
	names := make([]string, 0, len(m.filtered))
	for _, idx := range m.filtered {
		names = append(names, m.entries[idx].Name)
	}
	return names
}

func (m *Model) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))
	m.filtered = m.filtered[:0]
	for i, e := range m.entries {
		if query == "" ||
			strings.Contains(strings.ToLower(e.Name), query) ||
			strings.Contains(strings.ToLower(e.Description), query) ||
			strings.Contains(strings.ToLower(e.Category), query) {
			m.filtered = append(m.filtered, i)
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) refreshPreview() {
	m.previewErr = ""
	entry, ok := m.Current()
	if !ok || m.previewFn == nil {
		m.preview.SetContent("")
		return
	}
	text, err := m.previewFn(entry.Name)
	if err != nil {
		m.previewErr = err.Error()
		m.preview.SetContent("")
		return
	}
	m.preview.SetContent(text)
}

func (m *Model) moveCursor(delta int) {
	if len(m.filtered) == 0 {
		return
	}
	next := m.cursor + delta
	if next < 0 {
		next = 0
	}
	if next >= len(m.filtered) {
		next = len(m.filtered) - 1
	}
	if next != m.cursor {
		m.cursor = next
		m.refreshPreview()
	}
}
