package tracker

import (
	"strconv"
	"strings"

	"github.com/theirongolddev/cafflog/internal/model"
)

// ParseGoal reads a goal from free-form input. Only the leading integer is
// considered ("250mg" is 250, "12.9" is 12); anything that does not yield a
// positive integer is the unset goal.
func ParseGoal(raw string) model.Goal {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return model.NoGoal
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return model.NoGoal
	}
	return NormalizeGoal(n)
}

// NormalizeGoal maps non-positive values to the unset goal.
func NormalizeGoal(mg int) model.Goal {
	if mg <= 0 {
		return model.NoGoal
	}
	return model.Goal(mg)
}

// IsOverLimit reports whether total strictly exceeds a set goal.
func IsOverLimit(total int, goal model.Goal) bool {
	return goal.IsSet() && total > int(goal)
}

// Progress reports goal usage for display.
func Progress(total int, goal model.Goal) model.GoalStats {
	st := model.GoalStats{
		Goal:      goal,
		TotalMg:   total,
		OverLimit: IsOverLimit(total, goal),
	}
	if goal.IsSet() {
		st.UsedPercent = float64(total) / float64(goal)
	}
	return st
}

// Goal returns the current goal.
func (t *Tracker) Goal() model.Goal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.goal
}

// SetGoal parses raw input and stores the result, clearing the goal when
// the input is not a positive integer.
func (t *Tracker) SetGoal(raw string) model.Goal {
	return t.SetGoalMg(int(ParseGoal(raw)))
}

// SetGoalMg stores a numeric goal; values <= 0 clear it.
func (t *Tracker) SetGoalMg(mg int) model.Goal {
	g := NormalizeGoal(mg)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.goal = g
	t.warn(t.records.SaveGoal(g))
	return g
}

// OverLimit evaluates the current total against the current goal.
func (t *Tracker) OverLimit() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return IsOverLimit(t.daily.Total(), t.goal)
}

// Progress reports goal usage for today's total.
func (t *Tracker) Progress() model.GoalStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Progress(t.daily.Total(), t.goal)
}
