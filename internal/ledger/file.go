package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gofrs/flock"

	"jobscout/internal/model"
)

// FileStore persists the ledger as a JSON object keyed by fingerprint.
// json.Marshal writes map keys in sorted order, so an unchanged ledger
// round-trips byte-stable.
//
// An exclusive flock on a sibling lock file is held from Load until Close, so
// two overlapping runs cannot race the commit: the second run blocks on Load
// until the first one finishes.
type FileStore struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// NewFileStore creates a store backed by the JSON file at path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	return &FileStore{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logger,
	}
}

// Load acquires the ledger lock and reads the persisted state. A missing or
// corrupt file yields an empty ledger and a warning, never an error.
func (s *FileStore) Load(ctx context.Context) (*Ledger, error) {
	locked, err := s.lock.TryLockContext(ctx, 500*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("acquiring ledger lock (another run in progress?): %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("ledger lock at %s.lock is held by another run", s.path)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("ledger unreadable, starting empty; duplicates from history may be re-sent",
				"path", s.path, "error", err)
		}
		return New(), nil
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("ledger corrupt, starting empty; duplicates from history may be re-sent",
			"path", s.path, "error", err)
		return New(), nil
	}

	led := New()
	for fp, e := range entries {
		// Key wins over any divergent field; the key is what dedup tests.
		e.Fingerprint = fp
		led.Add(e)
	}
	return led, nil
}

// Commit merges newEntries into led and publishes the result atomically:
// the full ledger is written to a staging file, fsynced, then renamed over
// the live path. A crash mid-write leaves the previous ledger intact.
func (s *FileStore) Commit(_ context.Context, led *Ledger, newEntries []Entry) error {
	merged := make(map[string]Entry, led.Len()+len(newEntries))
	for _, e := range led.Entries() {
		merged[e.Fingerprint] = e
	}
	for _, e := range newEntries {
		if _, ok := merged[e.Fingerprint]; !ok {
			merged[e.Fingerprint] = e
		}
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return &model.LedgerCommitError{Err: fmt.Errorf("marshal ledger: %w", err)}
	}
	data = append(data, '\n')

	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return &model.LedgerCommitError{Err: fmt.Errorf("open staging file: %w", err)}
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return &model.LedgerCommitError{Err: fmt.Errorf("write staging file: %w", err)}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return &model.LedgerCommitError{Err: fmt.Errorf("sync staging file: %w", err)}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &model.LedgerCommitError{Err: fmt.Errorf("close staging file: %w", err)}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return &model.LedgerCommitError{Err: fmt.Errorf("publish ledger: %w", err)}
	}

	for _, e := range newEntries {
		led.Add(e)
	}
	return nil
}

// Close releases the ledger lock.
func (s *FileStore) Close() error {
	return s.lock.Unlock()
}
