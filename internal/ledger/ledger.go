package ledger

import (
	"context"
	"sort"
	"time"
)

// Entry records one dispatched posting. Title and company are kept for human
// audit only; membership of the fingerprint is the sole dedup mechanism.
type Entry struct {
	Fingerprint string    `json:"fingerprint"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	FirstSeenAt time.Time `json:"first_seen_at"`
}

// Ledger is the in-memory mapping from fingerprint to Entry. It only grows:
// entries are never removed by normal operation.
type Ledger struct {
	entries map[string]Entry
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{entries: make(map[string]Entry)}
}

// Has reports whether a fingerprint has already been dispatched.
func (l *Ledger) Has(fingerprint string) bool {
	_, ok := l.entries[fingerprint]
	return ok
}

// Add records an entry. Re-adding an existing fingerprint keeps the original
// entry so FirstSeenAt stays stable.
func (l *Ledger) Add(e Entry) {
	if _, ok := l.entries[e.Fingerprint]; ok {
		return
	}
	l.entries[e.Fingerprint] = e
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns all entries sorted newest first, ties broken by fingerprint.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].FirstSeenAt.Equal(out[j].FirstSeenAt) {
			return out[i].FirstSeenAt.After(out[j].FirstSeenAt)
		}
		return out[i].Fingerprint < out[j].Fingerprint
	})
	return out
}

// Store persists the ledger across runs.
//
// Load must never fail a run because of missing or corrupt state: losing the
// ledger only risks re-notifying, not data loss. Commit is the run's single
// atomic persistence point; it adds newEntries to led on success.
type Store interface {
	Load(ctx context.Context) (*Ledger, error)
	Commit(ctx context.Context, led *Ledger, newEntries []Entry) error
	Close() error
}
