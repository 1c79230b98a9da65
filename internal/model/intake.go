// Package model defines domain types for cafflog intake tracking.
package model

// DrinkCategory identifies one of the fixed beverage types.
type DrinkCategory string

// Recognized drink categories.
const (
	Coffee   DrinkCategory = "coffee"
	Espresso DrinkCategory = "espresso"
	Tea      DrinkCategory = "tea"
	Soda     DrinkCategory = "soda"
)

// Unit is the preferred volume unit for input and display.
// Stored volumes are always milliliters regardless of this setting.
type Unit string

// Supported units.
const (
	Milliliters Unit = "ml"
	FluidOunces Unit = "fl oz"
)

// DateLayout formats the calendar-day identifier of a DailyLog.
const DateLayout = "2006-01-02"

// LogEntry is one logged drink. Entries are never mutated after creation.
type LogEntry struct {
	ID         string
	Drink      DrinkCategory
	VolumeMl   float64
	CaffeineMg int
	LoggedAt   string // time-of-day label
}

// DailyLog holds today's entries in insertion (chronological) order.
type DailyLog struct {
	Date    string
	Entries []LogEntry
}

// Total sums the caffeine of all entries.
func (l DailyLog) Total() int {
	total := 0
	for _, e := range l.Entries {
		total += e.CaffeineMg
	}
	return total
}

// EntryView is a display-ready log row.
type EntryView struct {
	ID         string        `json:"id"`
	Drink      DrinkCategory `json:"drink"`
	Size       string        `json:"size"`
	VolumeMl   float64       `json:"volume_ml"`
	CaffeineMg int           `json:"caffeine_mg"`
	Time       string        `json:"time"`
}

// Snapshot is the state supplied to presentation layers.
type Snapshot struct {
	Date      string      `json:"date"`
	Entries   []EntryView `json:"entries"`
	TotalMg   int         `json:"total_mg"`
	Goal      Goal        `json:"goal,omitempty"`
	GoalSet   bool        `json:"goal_set"`
	OverLimit bool        `json:"over_limit"`
	Unit      Unit        `json:"unit"`
}
