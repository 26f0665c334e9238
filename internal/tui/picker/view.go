package picker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current model state.
func (m Model) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("promptkit themes"))
	b.WriteString("\n")
	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}

	list := m.renderList()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", m.renderPreview()))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render("↑/↓ move • / filter • enter select • q quit"))
	return b.String()
}

func (m Model) renderList() string {
	if len(m.filtered) == 0 {
		return itemStyle.Render(descriptionStyle.Render("no theme matches"))
	}

	rows := make([]string, 0, len(m.filtered))
	for i, idx := range m.filtered {
		e := m.entries[idx]
		label := e.Name
		if e.Active {
			label += activeMarkStyle.Render(" (active)")
		}
		label += " " + swatches(e)
		if i == m.cursor {
			rows = append(rows, selectedItemStyle.Render(label))
		} else {
			rows = append(rows, itemStyle.Render(label))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderPreview() string {
	entry, ok := m.Current()
	if !ok {
		return ""
	}
	header := descriptionStyle.Render(entry.Description)
	if entry.Category != "" {
		header = fmt.Sprintf("%s %s", header, activeMarkStyle.Render("["+entry.Category+"]"))
	}
	body := m.preview.View()
	if m.previewErr != "" {
		body = errorStyle.Render(m.previewErr)
	}
	return previewStyle.Width(m.preview.Width).Render(header + "\n\n" + body)
}

func swatches(e Entry) string {
	var b strings.Builder
	for _, c := range e.Swatches {
		b.WriteString(c.Style().Render("■"))
	}
	return b.String()
}
