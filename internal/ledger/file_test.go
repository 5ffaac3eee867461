package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEntries() []Entry {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return []Entry{
		{Fingerprint: "acme|intern|https://acme.com/jobs/1", Title: "Intern", Company: "Acme", FirstSeenAt: base},
		{Fingerprint: "globex|dev|https://globex.com/jobs/2", Title: "Dev", Company: "Globex", FirstSeenAt: base.Add(time.Minute)},
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	ctx := context.Background()

	s1 := NewFileStore(path, discardLogger())
	led, err := s1.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if led.Len() != 0 {
		t.Fatalf("fresh ledger has %d entries", led.Len())
	}
	if err := s1.Commit(ctx, led, testEntries()); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if led.Len() != 2 {
		t.Errorf("in-memory ledger after commit has %d entries, want 2", led.Len())
	}
	s1.Close()

	s2 := NewFileStore(path, discardLogger())
	defer s2.Close()
	reloaded, err := s2.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	for _, e := range testEntries() {
		if !reloaded.Has(e.Fingerprint) {
			t.Errorf("reloaded ledger missing %q", e.Fingerprint)
		}
	}
}

func TestFileStore_MissingFileStartsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nonexistent.json"), discardLogger())
	defer s.Close()

	led, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if led.Len() != 0 {
		t.Errorf("missing file yielded %d entries, want 0", led.Len())
	}
}

func TestFileStore_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewFileStore(path, discardLogger())
	defer s.Close()

	led, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load on corrupt file: %v", err)
	}
	if led.Len() != 0 {
		t.Errorf("corrupt file yielded %d entries, want 0", led.Len())
	}
}

func TestFileStore_CommitLeavesNoStagingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	ctx := context.Background()

	s := NewFileStore(path, discardLogger())
	defer s.Close()
	led, _ := s.Load(ctx)
	if err := s.Commit(ctx, led, testEntries()); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("staging file left behind after commit")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read committed ledger: %v", err)
	}
	var m map[string]Entry
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("committed ledger is not valid JSON: %v", err)
	}
	if len(m) != 2 {
		t.Errorf("committed ledger has %d entries, want 2", len(m))
	}
}

func TestFileStore_UnchangedLedgerIsByteStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	ctx := context.Background()

	s1 := NewFileStore(path, discardLogger())
	led, _ := s1.Load(ctx)
	if err := s1.Commit(ctx, led, testEntries()); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	s1.Close()
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// Load and commit with nothing new; the file must not change.
	s2 := NewFileStore(path, discardLogger())
	led2, _ := s2.Load(ctx)
	if err := s2.Commit(ctx, led2, nil); err != nil {
		t.Fatalf("empty Commit: %v", err)
	}
	s2.Close()
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(first, second) {
		t.Error("unchanged ledger did not round-trip byte-identical")
	}
}

func TestFileStore_LockExcludesSecondRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")

	s1 := NewFileStore(path, discardLogger())
	if _, err := s1.Load(context.Background()); err != nil {
		t.Fatalf("first Load: %v", err)
	}
	defer s1.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	s2 := NewFileStore(path, discardLogger())
	defer s2.Close()
	if _, err := s2.Load(ctx); err == nil {
		t.Error("second Load acquired the lock while the first run held it")
	}
}
