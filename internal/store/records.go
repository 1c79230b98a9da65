package store

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/cafflog/internal/model"
)

// Keys of the three persisted records.
const (
	KeyDailyLog = "caffeineLogs"
	KeyGoal     = "caffeineGoal"
	KeyUnit     = "caffeineUnit"
)

// dailyLogRecord is the persisted shape of a DailyLog.
type dailyLogRecord struct {
	Date    string        `json:"date"`
	Entries []entryRecord `json:"entries"`
}

type entryRecord struct {
	ID       string              `json:"id"`
	Drink    model.DrinkCategory `json:"drink"`
	Size     int                 `json:"size"`     // ml
	Caffeine int                 `json:"caffeine"` // mg
	Time     string              `json:"time"`
}

// Records reads and writes the daily log, goal and unit preference.
// Read failures degrade to defaults; they are logged, never returned.
type Records struct {
	kv   KV
	logf func(format string, args ...any)
}

// NewRecords wraps a KV.
func NewRecords(kv KV) *Records {
	return &Records{kv: kv, logf: log.Printf}
}

// SetLogger replaces the logger used for degraded reads.
func (r *Records) SetLogger(logf func(format string, args ...any)) {
	if logf != nil {
		r.logf = logf
	}
}

// LoadLog returns the persisted daily log. ok is false when nothing usable is stored.
func (r *Records) LoadLog() (model.DailyLog, bool) {
	raw, ok := r.get(KeyDailyLog)
	if !ok {
		return model.DailyLog{}, false
	}

	var rec dailyLogRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		r.logf("cafflog: ignoring unreadable %s record: %v", KeyDailyLog, err)
		return model.DailyLog{}, false
	}

	dl := model.DailyLog{Date: rec.Date}
	for _, e := range rec.Entries {
		dl.Entries = append(dl.Entries, model.LogEntry{
			ID:         e.ID,
			Drink:      e.Drink,
			VolumeMl:   float64(e.Size),
			CaffeineMg: e.Caffeine,
			LoggedAt:   e.Time,
		})
	}
	return dl, true
}

// SaveLog writes the full (date, entries) record.
func (r *Records) SaveLog(dl model.DailyLog) error {
	rec := dailyLogRecord{
		Date:    dl.Date,
		Entries: make([]entryRecord, 0, len(dl.Entries)),
	}
	for _, e := range dl.Entries {
		rec.Entries = append(rec.Entries, entryRecord{
			ID:       e.ID,
			Drink:    e.Drink,
			Size:     int(math.Round(e.VolumeMl)),
			Caffeine: e.CaffeineMg,
			Time:     e.LoggedAt,
		})
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding daily log: %w", err)
	}
	if err := r.kv.Set(KeyDailyLog, string(data)); err != nil {
		return fmt.Errorf("writing daily log: %w", err)
	}
	return nil
}

// ClearLog removes the persisted daily log.
func (r *Records) ClearLog() error {
	if err := r.kv.Remove(KeyDailyLog); err != nil {
		return fmt.Errorf("clearing daily log: %w", err)
	}
	return nil
}

// LoadGoal returns the persisted goal, or NoGoal.
func (r *Records) LoadGoal() model.Goal {
	raw, ok := r.get(KeyGoal)
	if !ok {
		return model.NoGoal
	}

	var mg *int
	if err := json.Unmarshal([]byte(raw), &mg); err != nil {
		r.logf("cafflog: ignoring unreadable %s record: %v", KeyGoal, err)
		return model.NoGoal
	}
	if mg == nil || *mg <= 0 {
		return model.NoGoal
	}
	return model.Goal(*mg)
}

// SaveGoal persists a set goal, or removes the record when unset.
func (r *Records) SaveGoal(g model.Goal) error {
	if !g.IsSet() {
		if err := r.kv.Remove(KeyGoal); err != nil {
			return fmt.Errorf("clearing goal: %w", err)
		}
		return nil
	}
	if err := r.kv.Set(KeyGoal, strconv.Itoa(int(g))); err != nil {
		return fmt.Errorf("writing goal: %w", err)
	}
	return nil
}

// LoadUnit returns the persisted unit preference, or milliliters.
func (r *Records) LoadUnit() model.Unit {
	raw, ok := r.get(KeyUnit)
	if !ok {
		return model.Milliliters
	}
	switch u := model.Unit(strings.TrimSpace(raw)); u {
	case model.Milliliters, model.FluidOunces:
		return u
	default:
		r.logf("cafflog: ignoring unknown %s value %q", KeyUnit, raw)
		return model.Milliliters
	}
}

// SaveUnit persists the unit preference.
func (r *Records) SaveUnit(u model.Unit) error {
	if err := r.kv.Set(KeyUnit, string(u)); err != nil {
		return fmt.Errorf("writing unit: %w", err)
	}
	return nil
}

func (r *Records) get(key string) (string, bool) {
	raw, ok, err := r.kv.Get(key)
	if err != nil {
		r.logf("cafflog: reading %s: %v", key, err)
		return "", false
	}
	return raw, ok
}
