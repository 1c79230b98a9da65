package tui

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/cafflog/internal/model"
	"github.com/theirongolddev/cafflog/internal/store"
	"github.com/theirongolddev/cafflog/internal/tracker"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestApp(t *testing.T) (App, *tracker.Tracker, *stepClock) {
	t.Helper()
	clock := &stepClock{now: time.Date(2024, 3, 5, 8, 30, 0, 0, time.Local)}
	records := store.NewRecords(store.NewMemory())
	tr := tracker.New(records, tracker.WithClock(clock), tracker.WithLogger(func(string, ...any) {}))

	a := NewApp(tr)
	a = step(t, a, tea.WindowSizeMsg{Width: 100, Height: 40})
	a = step(t, a, refreshCmd(tr, "")())
	return a, tr, clock
}

func step(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, _ := a.Update(msg)
	next, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T, want App", m)
	}
	return next
}

// key sends a key without running the resulting command.
func key(t *testing.T, a App, k string) App {
	t.Helper()
	return step(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
}

// press sends a key and runs the resulting command, if it yields a snapshot.
func press(t *testing.T, a App, k string) App {
	t.Helper()
	m, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	a = m.(App)
	if cmd != nil {
		if msg, ok := cmd().(snapshotMsg); ok {
			a = step(t, a, msg)
		}
	}
	return a
}

func TestAppLoadsSnapshot(t *testing.T) {
	a, _, _ := newTestApp(t)
	if !a.loaded {
		t.Fatal("app not loaded after snapshot")
	}
	if a.snap.Date != "2024-03-05" {
		t.Fatalf("snap.Date = %q, want 2024-03-05", a.snap.Date)
	}
	if !strings.Contains(a.View(), "Nothing logged yet") {
		t.Fatal("empty view missing placeholder")
	}
}

func TestAppLogDrinkCommand(t *testing.T) {
	a, tr, _ := newTestApp(t)

	a = step(t, a, logDrinkCmd(tr, drinkValues{Drink: "espresso", Size: "60"})())
	if a.snap.TotalMg != 128 {
		t.Fatalf("TotalMg = %d, want 128", a.snap.TotalMg)
	}
	if a.message != "Logged Espresso, 128 mg" {
		t.Fatalf("message = %q", a.message)
	}

	view := a.View()
	for _, want := range []string{"Espresso", "60ml", "128 mg", "8:30 AM"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAppLogDrinkRejectsBadSize(t *testing.T) {
	a, tr, _ := newTestApp(t)

	for _, size := range []string{"0", "-3", "abc", "", "1e20", "10001"} {
		a = step(t, a, logDrinkCmd(tr, drinkValues{Drink: "coffee", Size: size})())
		if a.snap.TotalMg != 0 {
			t.Fatalf("size %q logged %d mg", size, a.snap.TotalMg)
		}
	}
	if !strings.Contains(a.message, errSizeLimit.Error()) {
		t.Errorf("message = %q, want the size limit message", a.message)
	}
	if len(tr.Entries()) != 0 {
		t.Fatalf("entries = %d, want 0", len(tr.Entries()))
	}
}

func TestValidateSize(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"240", true},
		{" 8.5 ", true},
		{"0", false},
		{"-1", false},
		{"NaN", false},
		{"+Inf", false},
		{"lots", false},
	}
	for _, tt := range tests {
		if got := validateSize(tt.in) == nil; got != tt.want {
			t.Errorf("validateSize(%q) ok = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAppGoalCommand(t *testing.T) {
	a, tr, _ := newTestApp(t)

	a = step(t, a, setGoalCmd(tr, "200")())
	if a.snap.Goal != 200 || a.message != "Goal set to 200 mg" {
		t.Fatalf("after set: goal=%d message=%q", a.snap.Goal, a.message)
	}

	a = step(t, a, logDrinkCmd(tr, drinkValues{Drink: "coffee", Size: "480"})())
	a = step(t, a, logDrinkCmd(tr, drinkValues{Drink: "coffee", Size: "30"})())
	if !a.snap.OverLimit {
		t.Fatalf("OverLimit = false at %d/200", a.snap.TotalMg)
	}
	if !strings.Contains(a.View(), "Over your daily goal") {
		t.Error("view missing over-limit warning")
	}

	a = step(t, a, setGoalCmd(tr, "")())
	if a.snap.GoalSet || a.message != "Goal cleared" {
		t.Fatalf("after clear: goal_set=%v message=%q", a.snap.GoalSet, a.message)
	}
}

func TestAppToggleUnit(t *testing.T) {
	a, tr, _ := newTestApp(t)
	a = step(t, a, logDrinkCmd(tr, drinkValues{Drink: "coffee", Size: "240"})())

	a = press(t, a, "u")
	if a.snap.Unit != model.FluidOunces {
		t.Fatalf("unit = %q, want fl oz", a.snap.Unit)
	}
	if got := a.snap.Entries[0].Size; got != "8.1 fl oz" {
		t.Fatalf("size = %q, want 8.1 fl oz", got)
	}

	a = press(t, a, "u")
	if a.snap.Unit != model.Milliliters {
		t.Fatalf("unit = %q, want ml", a.snap.Unit)
	}
}

func TestAppOpensForms(t *testing.T) {
	a, _, _ := newTestApp(t)

	a = key(t, a, "a")
	if a.form == nil || a.formKind != formDrink {
		t.Fatalf("after a: form=%v kind=%d", a.form != nil, a.formKind)
	}
	if a.drinkVals.Drink != string(model.Coffee) {
		t.Fatalf("default drink = %q, want coffee", a.drinkVals.Drink)
	}
	if !strings.Contains(a.View(), "Log a drink") {
		t.Fatal("form view missing title")
	}

	// Keys go to the form while it is open.
	a = key(t, a, "q")
	if a.form == nil {
		t.Fatal("q closed the form")
	}
}

func TestAppRefreshAppliesRollover(t *testing.T) {
	a, tr, clock := newTestApp(t)
	a = step(t, a, logDrinkCmd(tr, drinkValues{Drink: "coffee", Size: "240"})())

	clock.advance(24 * time.Hour)
	a = step(t, a, refreshCmd(tr, "")())

	if a.snap.TotalMg != 0 || a.snap.Date != "2024-03-06" {
		t.Fatalf("after rollover: total=%d date=%s", a.snap.TotalMg, a.snap.Date)
	}
	if a.message != "New day, log reset" {
		t.Fatalf("message = %q", a.message)
	}
}

func TestAppQuit(t *testing.T) {
	a, _, _ := newTestApp(t)
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q did not quit")
	}
}

func TestAppTooNarrow(t *testing.T) {
	a, _, _ := newTestApp(t)
	a = step(t, a, tea.WindowSizeMsg{Width: 40, Height: 20})
	if !strings.Contains(a.View(), "too narrow") {
		t.Fatal("narrow view missing notice")
	}
}
