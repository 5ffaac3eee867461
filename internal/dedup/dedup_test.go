package dedup

import (
	"testing"
	"time"

	"jobscout/internal/ledger"
	"jobscout/internal/model"
)

func job(fp, source string, relevant bool) model.StructuredJob {
	return model.StructuredJob{
		Fingerprint: fp,
		Title:       "Backend Intern",
		Company:     "Acme",
		URL:         "https://acme.com/jobs/" + fp,
		SourceID:    source,
		IsRelevant:  relevant,
	}
}

func TestFilterNew_DropsIrrelevant(t *testing.T) {
	jobs := []model.StructuredJob{
		job("a", "internshala", true),
		job("b", "internshala", false),
	}

	got := FilterNew(jobs, ledger.New())
	if len(got) != 1 || got[0].Fingerprint != "a" {
		t.Errorf("FilterNew = %+v, want only fingerprint a", got)
	}
}

func TestFilterNew_DropsLedgeredFingerprints(t *testing.T) {
	led := ledger.New()
	led.Add(ledger.Entry{Fingerprint: "a", FirstSeenAt: time.Now()})

	jobs := []model.StructuredJob{
		job("a", "internshala", true),
		job("b", "unstop", true),
	}

	got := FilterNew(jobs, led)
	if len(got) != 1 || got[0].Fingerprint != "b" {
		t.Errorf("FilterNew = %+v, want only fingerprint b", got)
	}
	if led.Len() != 1 {
		t.Errorf("ledger mutated: len = %d, want 1", led.Len())
	}
}

func TestFilterNew_IntraRunFirstWins(t *testing.T) {
	// Same posting scraped from two sources in one run: the first occurrence
	// survives, the second is a duplicate.
	jobs := []model.StructuredJob{
		job("a", "internshala", true),
		job("a", "unstop", true),
	}

	got := FilterNew(jobs, ledger.New())
	if len(got) != 1 {
		t.Fatalf("FilterNew returned %d jobs, want 1", len(got))
	}
	if got[0].SourceID != "internshala" {
		t.Errorf("surviving job came from %q, want first occurrence (internshala)", got[0].SourceID)
	}
}

func TestFilterNew_EmptyInput(t *testing.T) {
	if got := FilterNew(nil, ledger.New()); len(got) != 0 {
		t.Errorf("FilterNew(nil) = %+v, want empty", got)
	}
}
