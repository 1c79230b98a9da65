package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/cafflog/internal/config"
	"github.com/theirongolddev/cafflog/internal/model"
	"github.com/theirongolddev/cafflog/internal/store"
)

func TestConvertLine(t *testing.T) {
	tests := []struct {
		v    float64
		from model.Unit
		want string
	}{
		{240, model.Milliliters, "240 ml = 8.1 fl oz"},
		{0, model.Milliliters, "0 ml = 0 fl oz"},
		{8, model.FluidOunces, "8 fl oz = 236.6 ml"},
		{1, model.FluidOunces, "1 fl oz = 29.6 ml"},
	}
	for _, tt := range tests {
		if got := convertLine(tt.v, tt.from); got != tt.want {
			t.Errorf("convertLine(%v, %q) = %q, want %q", tt.v, tt.from, got, tt.want)
		}
	}
}

func TestValidateTimeFormat(t *testing.T) {
	for _, layout := range []string{"3:04 PM", "15:04", "15:04:05"} {
		if err := validateTimeFormat(layout); err != nil {
			t.Errorf("validateTimeFormat(%q) = %v, want nil", layout, err)
		}
	}
	for _, layout := range []string{"", "  ", "noon"} {
		if err := validateTimeFormat(layout); err == nil {
			t.Errorf("validateTimeFormat(%q) = nil, want error", layout)
		}
	}
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"daemon", "--detach", "--addr", ":9000", "--detach=true"})
	want := []string{"daemon", "--addr", ":9000"}
	if len(got) != len(want) {
		t.Fatalf("filterDetachArg = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("filterDetachArg = %v, want %v", got, want)
		}
	}
}

func TestOpenTracker_SQLitePersists(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.General.DataDir = t.TempDir()

	tr, closeFn, err := openTracker(cfg)
	if err != nil {
		t.Fatalf("openTracker: %v", err)
	}
	if _, ok := tr.Append(model.Coffee, 240); !ok {
		t.Fatal("Append rejected a valid drink")
	}
	tr.SetGoalMg(300)
	closeFn()

	tr, closeFn, err = openTracker(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer closeFn()

	if got := tr.Total(); got != 95 {
		t.Fatalf("Total() after reopen = %d, want 95", got)
	}
	if got := tr.Goal(); got != 300 {
		t.Fatalf("Goal() after reopen = %d, want 300", got)
	}
}

func TestOpenTracker_FallsBackToMemory(t *testing.T) {
	flagQuiet = true
	defer func() { flagQuiet = false }()

	cfg := config.DefaultConfig()
	// A regular file where the data directory should be makes Open fail.
	blocker := filepath.Join(t.TempDir(), "file")
	if err := writePID(blocker, 1); err != nil {
		t.Fatal(err)
	}
	cfg.General.DataDir = filepath.Join(blocker, "data")

	tr, closeFn, err := openTracker(cfg)
	if err != nil {
		t.Fatalf("openTracker: %v", err)
	}
	defer closeFn()

	if _, ok := tr.Append(model.Tea, 240); !ok {
		t.Fatal("in-memory tracker rejected a drink")
	}
	if got := tr.Total(); got != 47 {
		t.Fatalf("Total() = %d, want 47", got)
	}
}

func TestOpenTracker_UnknownStore(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.General.Store = "redis"
	if _, _, err := openTracker(cfg); err == nil {
		t.Fatal("openTracker accepted an unknown store")
	}
}

func TestLiveDaemon(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.General.DataDir = t.TempDir()
	pidFile := filepath.Join(cfg.General.DataDir, "cafflogd.pid")

	if _, ok := liveDaemon(cfg); ok {
		t.Fatal("liveDaemon = true without a pid file")
	}

	if err := os.WriteFile(pidFile, []byte("garbage\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, ok := liveDaemon(cfg); ok {
		t.Fatal("liveDaemon = true for an unreadable pid file")
	}

	if err := writePID(pidFile, os.Getpid()); err != nil {
		t.Fatal(err)
	}
	pid, ok := liveDaemon(cfg)
	if !ok || pid != os.Getpid() {
		t.Fatalf("liveDaemon = (%d, %v), want (%d, true)", pid, ok, os.Getpid())
	}

	// Writes still go through; the caller is only warned.
	flagQuiet = true
	defer func() { flagQuiet = false }()
	tr, closeFn, err := openTracker(cfg)
	if err != nil {
		t.Fatalf("openTracker: %v", err)
	}
	defer closeFn()
	if _, ok := tr.Append(model.Coffee, 240); !ok {
		t.Fatal("Append rejected a valid drink")
	}
}

func TestParseLogSize(t *testing.T) {
	tests := []struct {
		raw     string
		unit    model.Unit
		want    float64
		wantErr string
	}{
		{"240", model.Milliliters, 240, ""},
		{"10000", model.Milliliters, 10000, ""},
		{"8", model.FluidOunces, 8, ""},
		{"0", model.Milliliters, 0, "positive"},
		{"-5", model.Milliliters, 0, "positive"},
		{"abc", model.Milliliters, 0, "positive"},
		{"Inf", model.Milliliters, 0, "positive"},
		{"10001", model.Milliliters, 0, "at most 10000ml"},
		{"1e20", model.Milliliters, 0, "at most"},
		{"400", model.FluidOunces, 0, "at most 338.1 fl oz"},
	}
	for _, tt := range tests {
		got, err := parseLogSize(tt.raw, tt.unit)
		if tt.wantErr != "" {
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("parseLogSize(%q, %s) err = %v, want %q", tt.raw, tt.unit, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("parseLogSize(%q, %s) = (%v, %v), want %v", tt.raw, tt.unit, got, err, tt.want)
		}
	}
}

func TestStoredRecords(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.General.DataDir = t.TempDir()
	dbPath := store.PathIn(cfg.General.DataDir)

	n, err := storedRecords(dbPath)
	if err != nil || n != 0 {
		t.Fatalf("storedRecords before first use = (%d, %v), want (0, nil)", n, err)
	}
	if _, err := os.Stat(dbPath); !os.IsNotExist(err) {
		t.Fatalf("storedRecords created %s", dbPath)
	}

	tr, closeFn, err := openTracker(cfg)
	if err != nil {
		t.Fatalf("openTracker: %v", err)
	}
	tr.Append(model.Coffee, 240)
	tr.SetGoalMg(400)
	closeFn()

	n, err = storedRecords(dbPath)
	if err != nil {
		t.Fatalf("storedRecords: %v", err)
	}
	if n != 2 {
		t.Errorf("storedRecords = %d, want 2 (log and goal)", n)
	}
}
