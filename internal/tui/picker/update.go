package picker

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles incoming messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.preview.Width = previewWidth(msg.Width)
		m.preview.Height = max(msg.Height-8, 3)
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.handleFilterKeys(msg)
		}
		return m.handleListKeys(msg)
	}
	return m, nil
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.done = true
		return m, tea.Quit

	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "home", "g":
		m.moveCursor(-len(m.filtered))
	case "end", "G":
		m.moveCursor(len(m.filtered))

	case "/":
		m.filtering = true
		cmd := m.filter.Focus()
		return m, cmd

	case "enter", " ":
		if entry, ok := m.Current(); ok {
			m.selected = entry.Name
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.done = true
		return m, tea.Quit
	case "esc":
		m.filter.SetValue("")
		m.filter.Blur()
		m.filtering = false
		m.applyFilter()
		m.refreshPreview()
		return m, nil
	case "enter", "up", "down":
		m.filter.Blur()
		m.filtering = false
		return m.handleListKeys(msg)
	}

	var cmd tea.Cmd
	before := m.filter.Value()
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != before {
		m.cursor = 0
		m.applyFilter()
		m.refreshPreview()
	}
	return m, cmd
}

func previewWidth(total int) int {
	return max(total/2, 20)
}
