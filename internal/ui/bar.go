package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DefaultBarWidth is the brightness bar width in cells.
const DefaultBarWidth = 25

// RenderBar draws a horizontal brightness bar for a 0-100 percentage.
func RenderBar(percent, width int) string {
	if width <= 0 {
		width = DefaultBarWidth
	}
	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}

	filled := percent * width / 100

	fillStyle := lipgloss.NewStyle().Foreground(ColorWarning)
	emptyStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	return fillStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", width-filled))
}
