// Package tracker owns today's caffeine log, the daily goal and the unit
// preference, and persists every change through store.Records.
package tracker

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/cafflog/internal/caffeine"
	"github.com/theirongolddev/cafflog/internal/model"
	"github.com/theirongolddev/cafflog/internal/store"
	"github.com/theirongolddev/cafflog/internal/units"
)

// DefaultTimeFormat is the layout of entry time labels.
const DefaultTimeFormat = "3:04 PM"

// MaxVolumeMl is the largest single drink Append accepts (10 L).
const MaxVolumeMl = 10000.0

// Clock supplies the current local time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock in local time.
var SystemClock Clock = ClockFunc(time.Now)

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock injects the time source.
func WithClock(c Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithTimeFormat sets the entry time-label layout.
func WithTimeFormat(layout string) Option {
	return func(t *Tracker) {
		if layout != "" {
			t.timeFormat = layout
		}
	}
}

// WithIDFunc overrides entry id generation.
func WithIDFunc(fn func() string) Option {
	return func(t *Tracker) { t.newID = fn }
}

// WithLogger replaces log.Printf for persistence warnings.
func WithLogger(logf func(format string, args ...any)) Option {
	return func(t *Tracker) { t.logf = logf }
}

// WithRolloverHook registers fn to run whenever the log is reset for a new
// day, whichever operation noticed the boundary. See OnRollover.
func WithRolloverHook(fn func(date string)) Option {
	return func(t *Tracker) { t.onRollover = fn }
}

// Tracker is the single owner of intake state. It is safe for concurrent use;
// each operation, including append's check-append-persist sequence, runs
// under one lock.
type Tracker struct {
	mu         sync.Mutex
	records    *store.Records
	clock      Clock
	timeFormat string
	newID      func() string
	logf       func(format string, args ...any)
	onRollover func(date string)

	daily model.DailyLog
	goal  model.Goal
	unit  model.Unit
}

// New restores state from records. A persisted log from a day other than
// today is discarded and its record cleared.
func New(records *store.Records, opts ...Option) *Tracker {
	t := &Tracker{
		records:    records,
		clock:      SystemClock,
		timeFormat: DefaultTimeFormat,
		newID:      uuid.NewString,
		logf:       log.Printf,
	}
	for _, opt := range opts {
		opt(t)
	}

	today := t.today()
	t.daily = model.DailyLog{Date: today}
	if persisted, ok := records.LoadLog(); ok {
		if persisted.Date == today {
			t.daily.Entries = persisted.Entries
		} else {
			t.warn(records.ClearLog())
		}
	}
	t.goal = records.LoadGoal()
	t.unit = records.LoadUnit()

	return t
}

// Append logs a drink of volumeMl milliliters. It returns false, creating
// nothing, when the volume is not in (0, MaxVolumeMl].
func (t *Tracker) Append(category model.DrinkCategory, volumeMl float64) (model.LogEntry, bool) {
	if !validVolume(volumeMl) {
		return model.LogEntry{}, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	t.rolloverLocked(now)

	entry := model.LogEntry{
		ID:         t.newID(),
		Drink:      category,
		VolumeMl:   volumeMl,
		CaffeineMg: caffeine.Estimate(category, volumeMl),
		LoggedAt:   now.Format(t.timeFormat),
	}
	t.daily.Entries = append(t.daily.Entries, entry)
	t.warn(t.records.SaveLog(t.daily))

	return entry, true
}

// LogDrink normalizes volume from unit to milliliters and appends.
func (t *Tracker) LogDrink(category model.DrinkCategory, volume float64, unit model.Unit) (model.LogEntry, bool) {
	return t.Append(category, units.Normalize(volume, unit))
}

// CheckRollover discards the log if the calendar day has changed since it
// was created. It reports whether a rollover happened.
func (t *Tracker) CheckRollover() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rolloverLocked(t.clock.Now())
}

// OnRollover replaces the rollover hook. The hook runs with the tracker
// lock held and must not call back into the Tracker.
func (t *Tracker) OnRollover(fn func(date string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onRollover = fn
}

func (t *Tracker) rolloverLocked(now time.Time) bool {
	today := now.Format(model.DateLayout)
	if t.daily.Date == today {
		return false
	}
	t.daily = model.DailyLog{Date: today}
	t.warn(t.records.ClearLog())
	if t.onRollover != nil {
		t.onRollover(today)
	}
	return true
}

// Total returns today's caffeine in milligrams, summed from the entries.
func (t *Tracker) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.daily.Total()
}

// Entries returns a copy of today's entries in logging order.
func (t *Tracker) Entries() []model.LogEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]model.LogEntry, len(t.daily.Entries))
	copy(out, t.daily.Entries)
	return out
}

// Date returns the calendar day of the current log.
func (t *Tracker) Date() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.daily.Date
}

// Unit returns the unit preference.
func (t *Tracker) Unit() model.Unit {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unit
}

// SetUnit changes the display/input preference. Stored volumes are untouched.
func (t *Tracker) SetUnit(u model.Unit) bool {
	if !units.Valid(u) {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unit = u
	t.warn(t.records.SaveUnit(u))
	return true
}

// Snapshot returns display-ready state. Reads also apply the day-boundary
// rule so a long-running view never shows yesterday's total.
func (t *Tracker) Snapshot() model.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked(t.clock.Now())

	views := make([]model.EntryView, 0, len(t.daily.Entries))
	for _, e := range t.daily.Entries {
		views = append(views, model.EntryView{
			ID:         e.ID,
			Drink:      e.Drink,
			Size:       units.FormatVolume(e.VolumeMl, t.unit),
			VolumeMl:   e.VolumeMl,
			CaffeineMg: e.CaffeineMg,
			Time:       e.LoggedAt,
		})
	}

	total := t.daily.Total()
	return model.Snapshot{
		Date:      t.daily.Date,
		Entries:   views,
		TotalMg:   total,
		Goal:      t.goal,
		GoalSet:   t.goal.IsSet(),
		OverLimit: IsOverLimit(total, t.goal),
		Unit:      t.unit,
	}
}

func (t *Tracker) today() string {
	return t.clock.Now().Format(model.DateLayout)
}

func (t *Tracker) warn(err error) {
	if err != nil && t.logf != nil {
		t.logf("cafflog: persistence degraded: %v", err)
	}
}

func validVolume(v float64) bool {
	return v > 0 && v <= MaxVolumeMl
}
