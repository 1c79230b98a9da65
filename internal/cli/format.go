// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/cafflog/internal/model"
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatMg formats a caffeine amount.
// e.g., 95 -> "95 mg", 1250 -> "1,250 mg"
func FormatMg(mg int) string {
	return FormatNumber(int64(mg)) + " mg"
}

// FormatGoal formats a goal, or "not set".
func FormatGoal(g model.Goal) string {
	if !g.IsSet() {
		return "not set"
	}
	return FormatMg(int(g))
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.0f%%", f*100)
}

// FormatRemaining describes headroom against a goal.
// e.g., (150, 400) -> "250 mg left", (450, 400) -> "50 mg over"
func FormatRemaining(total int, g model.Goal) string {
	if !g.IsSet() {
		return ""
	}
	diff := int(g) - total
	if diff >= 0 {
		return FormatMg(diff) + " left"
	}
	return FormatMg(-diff) + " over"
}
