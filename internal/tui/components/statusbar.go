package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cafflog/internal/tui/theme"
)

// RenderStatusBar renders the bottom bar: key hints on the left and the
// last action message on the right.
func RenderStatusBar(width int, message string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	left := " [a]dd  [g]oal  [u]nit  [r]efresh  [?]help  [q]uit"
	right := ""
	if message != "" {
		right = message + " "
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		// Narrow terminals keep the hints; the message is dropped.
		return style.Render(left)
	}

	return style.Render(left + strings.Repeat(" ", padding) + right)
}
