package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lumenctl/lumen/internal/ui"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorInfo)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(ui.ColorMuted)
	primaryStyle  = lipgloss.NewStyle().Foreground(ui.ColorWarning)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := ui.SymbolSun + " lumen"
	if m.syncMode {
		title += "  " + mutedStyle.Render(ui.SymbolLinked+" sync")
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")

	if len(m.rows) == 0 {
		b.WriteString(mutedStyle.Render("  no monitors detected") + "\n")
	}

	for i, r := range m.rows {
		cursor := "  "
		nameStyle := lipgloss.NewStyle()
		if i == m.selected {
			cursor = "> "
			nameStyle = selectedStyle
		}

		name := r.rec.DisplayName
		if r.rec.IsPrimary {
			name += " " + primaryStyle.Render(ui.SymbolPrimary)
		}

		if !r.ok {
			b.WriteString(fmt.Sprintf("%s%s  %s\n", cursor,
				nameStyle.Render(name), mutedStyle.Render("unavailable")))
			continue
		}

		b.WriteString(fmt.Sprintf("%s%-14s %s %4d%%\n", cursor,
			nameStyle.Render(name), ui.RenderBar(r.level, ui.DefaultBarWidth), r.level))
	}

	b.WriteString("\n" + m.help.View(keys))
	return b.String()
}
