package model

// Goal is an optional daily caffeine ceiling in milligrams.
// Any value <= 0 means no goal is set.
type Goal int

// NoGoal is the unset goal.
const NoGoal Goal = 0

// IsSet reports whether a ceiling is configured.
func (g Goal) IsSet() bool {
	return g > 0
}

// GoalStats holds goal progress for display.
type GoalStats struct {
	Goal        Goal
	TotalMg     int
	OverLimit   bool
	UsedPercent float64 // 0 when no goal is set
}
