package ledger

import (
	"testing"
	"time"
)

func TestLedger_AddAndHas(t *testing.T) {
	led := New()
	if led.Has("a") {
		t.Error("empty ledger reports fingerprint present")
	}

	led.Add(Entry{Fingerprint: "a", Title: "Intern", Company: "Acme", FirstSeenAt: time.Now()})
	if !led.Has("a") {
		t.Error("added fingerprint not found")
	}
	if led.Len() != 1 {
		t.Errorf("Len = %d, want 1", led.Len())
	}
}

func TestLedger_ReAddKeepsOriginal(t *testing.T) {
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	later := first.Add(24 * time.Hour)

	led := New()
	led.Add(Entry{Fingerprint: "a", Title: "Original", FirstSeenAt: first})
	led.Add(Entry{Fingerprint: "a", Title: "Rescraped", FirstSeenAt: later})

	entries := led.Entries()
	if len(entries) != 1 {
		t.Fatalf("Len = %d, want 1", len(entries))
	}
	if entries[0].Title != "Original" || !entries[0].FirstSeenAt.Equal(first) {
		t.Errorf("re-add replaced original entry: %+v", entries[0])
	}
}

func TestLedger_EntriesSortedNewestFirst(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	led := New()
	led.Add(Entry{Fingerprint: "old", FirstSeenAt: base})
	led.Add(Entry{Fingerprint: "new", FirstSeenAt: base.Add(time.Hour)})
	led.Add(Entry{Fingerprint: "b-tie", FirstSeenAt: base})
	led.Add(Entry{Fingerprint: "a-tie", FirstSeenAt: base})

	entries := led.Entries()
	want := []string{"new", "a-tie", "b-tie", "old"}
	if len(entries) != len(want) {
		t.Fatalf("Entries len = %d, want %d", len(entries), len(want))
	}
	for i, fp := range want {
		if entries[i].Fingerprint != fp {
			t.Errorf("entries[%d] = %q, want %q", i, entries[i].Fingerprint, fp)
		}
	}
}
