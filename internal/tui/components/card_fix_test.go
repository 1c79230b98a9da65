package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/cafflog/internal/model"
	"github.com/theirongolddev/cafflog/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	widths := LayoutRow(80, 3)
	if len(widths) != 3 || widths[0] != 27 || widths[1] != 27 || widths[2] != 26 {
		t.Fatalf("LayoutRow(80, 3) = %v, want [27 27 26]", widths)
	}
	if got := LayoutRow(80, 0); got != nil {
		t.Fatalf("LayoutRow(80, 0) = %v, want nil", got)
	}
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}

	for i := shortLines; i < len(lines); i++ {
		if !strings.Contains(lines[i], "\x1b[") {
			t.Errorf("line %d has no ANSI codes; padding is unstyled", i)
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Today", Value: "190 mg"},
		{Label: "Goal", Value: "400 mg"},
		{Label: "Left", Value: "210 mg"},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Errorf("line %d width = %d, want 90", i, w)
		}
	}
}

func TestGoalBar(t *testing.T) {
	theme.SetActive("flexoki-dark")

	if got := GoalBar(model.GoalStats{}, 20); !strings.Contains(got, "No goal set") {
		t.Fatalf("GoalBar(no goal) = %q", got)
	}

	over := GoalBar(model.GoalStats{Goal: 200, TotalMg: 212, OverLimit: true, UsedPercent: 1.06}, 20)
	if !strings.Contains(over, "106%") {
		t.Errorf("over-limit bar missing unclamped percent: %q", over)
	}
	if w := lipgloss.Width(over); w != 20+1+4 {
		t.Errorf("bar width = %d, want %d", w, 25)
	}
}

func TestRenderStatusBar(t *testing.T) {
	bar := RenderStatusBar(100, "Logged coffee")
	if w := lipgloss.Width(bar); w != 100 {
		t.Fatalf("status bar width = %d, want 100", w)
	}
	if !strings.Contains(bar, "Logged coffee") {
		t.Fatal("status bar missing message")
	}

	narrow := RenderStatusBar(30, "Logged coffee")
	if strings.Contains(narrow, "Logged coffee") {
		t.Fatal("narrow status bar should drop the message")
	}
}
