package persist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	if _, ok, err := store.Get("missing"); ok || err != nil {
		t.Errorf("Get(missing) = %v, %v; want false, nil", ok, err)
	}

	if err := store.Set("a", "one"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set("a", "two"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	v, ok, err := store.Get("a")
	if err != nil || !ok {
		t.Fatalf("Get(a) = %v, %v", ok, err)
	}
	if v != "two" {
		t.Errorf("Get(a) = %q, want two", v)
	}
}

func TestFileStore(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "lychee"))

	if _, ok, err := store.Get(RecordName); ok || err != nil {
		t.Errorf("Get() before Set() = %v, %v; want false, nil", ok, err)
	}

	// Set must create the store directory on first use.
	if err := store.Set(RecordName, `{"note.create":{"key":"k"}}`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	v, ok, err := store.Get(RecordName)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if v != `{"note.create":{"key":"k"}}` {
		t.Errorf("Get() = %q", v)
	}

	data, err := os.ReadFile(store.Path(RecordName))
	if err != nil {
		t.Fatalf("record file unreadable: %v", err)
	}
	if string(data) != v {
		t.Errorf("record file = %q, want %q", data, v)
	}
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "lychee.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteStore() error = %v", err)
	}
	defer store.Close()

	if _, ok, err := store.Get(RecordName); ok || err != nil {
		t.Errorf("Get() before Set() = %v, %v; want false, nil", ok, err)
	}

	if err := store.Set(RecordName, "first"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set(RecordName, "second"); err != nil {
		t.Fatalf("Set() upsert error = %v", err)
	}

	v, ok, err := store.Get(RecordName)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if v != "second" {
		t.Errorf("Get() = %q, want second", v)
	}
}
