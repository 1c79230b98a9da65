package store

import (
	"path/filepath"
	"testing"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "cafflog.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_SetGetRemove(t *testing.T) {
	s := newTestSQLite(t)

	if _, ok, err := s.Get("missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v, err %v; want false, nil", ok, err)
	}

	if err := s.Set("k", "v1"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := s.Set("k", "v2"); err != nil {
		t.Fatalf("Set() overwrite error: %v", err)
	}

	v, ok, err := s.Get("k")
	if err != nil || !ok {
		t.Fatalf("Get(k) = ok %v, err %v", ok, err)
	}
	if v != "v2" {
		t.Errorf("Get(k) = %q, want v2", v)
	}

	n, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys() error: %v", err)
	}
	if n != 1 {
		t.Errorf("Keys() = %d, want 1", n)
	}

	if err := s.Remove("k"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if _, ok, _ := s.Get("k"); ok {
		t.Error("key still present after Remove")
	}
	if err := s.Remove("k"); err != nil {
		t.Errorf("Remove() of missing key error: %v", err)
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cafflog.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if err := NewRecords(s).SaveUnit("fl oz"); err != nil {
		t.Fatalf("SaveUnit() error: %v", err)
	}
	_ = s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s.Close()

	if got := NewRecords(s).LoadUnit(); got != "fl oz" {
		t.Fatalf("LoadUnit() after reopen = %q, want fl oz", got)
	}
}

func TestPathIn(t *testing.T) {
	if got := PathIn("/data"); got != filepath.Join("/data", "cafflog.db") {
		t.Fatalf("PathIn = %q", got)
	}
}
