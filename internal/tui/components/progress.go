package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/cafflog/internal/cli"
	"github.com/theirongolddev/cafflog/internal/model"
	"github.com/theirongolddev/cafflog/internal/tui/theme"
)

// GoalBar renders goal usage as a colored bar followed by the percentage.
// The bar is clamped at full; the percentage is not.
func GoalBar(st model.GoalStats, width int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	if !st.Goal.IsSet() {
		return muted.Render("No goal set. Press g to add one.")
	}

	color := t.ForUsage(st.UsedPercent, st.OverLimit)
	pct := st.UsedPercent
	if pct > 1 {
		pct = 1
	}

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	return bar.ViewAs(pct) + space + pctStyle.Render(fmt.Sprintf("%3s", cli.FormatPercent(st.UsedPercent)))
}
