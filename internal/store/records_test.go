package store

import (
	"errors"
	"testing"

	"github.com/theirongolddev/cafflog/internal/model"
)

type brokenKV struct{}

var errBroken = errors.New("disk gone")

func (brokenKV) Get(string) (string, bool, error) { return "", false, errBroken }
func (brokenKV) Set(string, string) error         { return errBroken }
func (brokenKV) Remove(string) error              { return errBroken }

func quietRecords(kv KV) *Records {
	r := NewRecords(kv)
	r.SetLogger(func(string, ...any) {})
	return r
}

func TestRecords_DailyLogRoundTrip(t *testing.T) {
	kv := NewMemory()
	r := quietRecords(kv)

	dl := model.DailyLog{
		Date: "2024-01-01",
		Entries: []model.LogEntry{
			{ID: "a", Drink: model.Coffee, VolumeMl: 236.588, CaffeineMg: 94, LoggedAt: "8:00 AM"},
			{ID: "b", Drink: model.Espresso, VolumeMl: 30, CaffeineMg: 64, LoggedAt: "1:15 PM"},
		},
	}
	if err := r.SaveLog(dl); err != nil {
		t.Fatalf("SaveLog() error: %v", err)
	}

	raw, _, _ := kv.Get(KeyDailyLog)
	want := `{"date":"2024-01-01","entries":[{"id":"a","drink":"coffee","size":237,"caffeine":94,"time":"8:00 AM"},{"id":"b","drink":"espresso","size":30,"caffeine":64,"time":"1:15 PM"}]}`
	if raw != want {
		t.Fatalf("stored record =\n%s\nwant\n%s", raw, want)
	}

	got, ok := r.LoadLog()
	if !ok {
		t.Fatal("LoadLog() ok = false")
	}
	if got.Date != "2024-01-01" || len(got.Entries) != 2 {
		t.Fatalf("LoadLog() = %+v", got)
	}
	if got.Entries[0].VolumeMl != 237 {
		t.Errorf("restored VolumeMl = %v, want 237 (persisted as integer ml)", got.Entries[0].VolumeMl)
	}
	if got.Entries[1].CaffeineMg != 64 || got.Entries[1].LoggedAt != "1:15 PM" {
		t.Errorf("restored entry = %+v", got.Entries[1])
	}

	if err := r.ClearLog(); err != nil {
		t.Fatalf("ClearLog() error: %v", err)
	}
	if _, ok := r.LoadLog(); ok {
		t.Error("LoadLog() ok after ClearLog")
	}
}

func TestRecords_CorruptValuesDegrade(t *testing.T) {
	kv := NewMemory()
	_ = kv.Set(KeyDailyLog, "{not json")
	_ = kv.Set(KeyGoal, `"lots"`)
	_ = kv.Set(KeyUnit, "cups")

	var logged int
	r := NewRecords(kv)
	r.SetLogger(func(string, ...any) { logged++ })

	if _, ok := r.LoadLog(); ok {
		t.Error("LoadLog() ok for corrupt record")
	}
	if g := r.LoadGoal(); g.IsSet() {
		t.Errorf("LoadGoal() = %d, want unset", g)
	}
	if u := r.LoadUnit(); u != model.Milliliters {
		t.Errorf("LoadUnit() = %q, want ml", u)
	}
	if logged != 3 {
		t.Errorf("logged %d warnings, want 3", logged)
	}
}

func TestRecords_GoalSlot(t *testing.T) {
	kv := NewMemory()
	r := quietRecords(kv)

	if g := r.LoadGoal(); g.IsSet() {
		t.Fatalf("LoadGoal() on empty store = %d, want unset", g)
	}

	if err := r.SaveGoal(400); err != nil {
		t.Fatalf("SaveGoal() error: %v", err)
	}
	if raw, _, _ := kv.Get(KeyGoal); raw != "400" {
		t.Errorf("stored goal = %q, want 400", raw)
	}
	if g := r.LoadGoal(); g != 400 {
		t.Errorf("LoadGoal() = %d, want 400", g)
	}

	if err := r.SaveGoal(model.NoGoal); err != nil {
		t.Fatalf("SaveGoal(unset) error: %v", err)
	}
	if _, ok, _ := kv.Get(KeyGoal); ok {
		t.Error("goal record still present after unset")
	}

	_ = kv.Set(KeyGoal, "null")
	if g := r.LoadGoal(); g.IsSet() {
		t.Errorf("LoadGoal(null) = %d, want unset", g)
	}
	_ = kv.Set(KeyGoal, "-3")
	if g := r.LoadGoal(); g.IsSet() {
		t.Errorf("LoadGoal(-3) = %d, want unset", g)
	}
}

func TestRecords_UnitSlot(t *testing.T) {
	r := quietRecords(NewMemory())
	if u := r.LoadUnit(); u != model.Milliliters {
		t.Fatalf("default unit = %q, want ml", u)
	}
	if err := r.SaveUnit(model.FluidOunces); err != nil {
		t.Fatalf("SaveUnit() error: %v", err)
	}
	if u := r.LoadUnit(); u != model.FluidOunces {
		t.Fatalf("LoadUnit() = %q, want fl oz", u)
	}
}

func TestRecords_BrokenStore(t *testing.T) {
	r := quietRecords(brokenKV{})

	if _, ok := r.LoadLog(); ok {
		t.Error("LoadLog() ok on broken store")
	}
	if g := r.LoadGoal(); g.IsSet() {
		t.Error("LoadGoal() set on broken store")
	}
	if u := r.LoadUnit(); u != model.Milliliters {
		t.Errorf("LoadUnit() = %q on broken store", u)
	}
	if err := r.SaveLog(model.DailyLog{Date: "2024-01-01"}); !errors.Is(err, errBroken) {
		t.Errorf("SaveLog() error = %v, want wrapped errBroken", err)
	}
}
