package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"jobscout/internal/ledger"
	"jobscout/internal/model"
)

// --- Fakes ---

type fakeCollector struct {
	name     string
	listings []model.RawListing
	err      error
}

func (f *fakeCollector) Name() string { return f.name }

func (f *fakeCollector) Collect(context.Context) ([]model.RawListing, error) {
	return f.listings, f.err
}

// fakeExtractor returns the same canned jobs on every call.
type fakeExtractor struct {
	jobs  []model.StructuredJob
	stats model.ExtractStats
}

func (f *fakeExtractor) ExtractAndFilter(_ context.Context, listings []model.RawListing, _ model.Preferences) ([]model.StructuredJob, model.ExtractStats) {
	stats := f.stats
	stats.Listings = len(listings)
	stats.Jobs = len(f.jobs)
	return f.jobs, stats
}

// memStore persists entries across Load/Commit cycles like a real backend.
type memStore struct {
	persisted map[string]ledger.Entry
	commitErr error
	loadErr   error
}

func newMemStore() *memStore {
	return &memStore{persisted: make(map[string]ledger.Entry)}
}

func (s *memStore) Load(context.Context) (*ledger.Ledger, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	led := ledger.New()
	for _, e := range s.persisted {
		led.Add(e)
	}
	return led, nil
}

func (s *memStore) Commit(_ context.Context, led *ledger.Ledger, newEntries []ledger.Entry) error {
	if s.commitErr != nil {
		return s.commitErr
	}
	for _, e := range newEntries {
		if _, ok := s.persisted[e.Fingerprint]; !ok {
			s.persisted[e.Fingerprint] = e
		}
		led.Add(e)
	}
	return nil
}

func (s *memStore) Close() error { return nil }

// recordingNotifier records sends and can fail specific fingerprints.
type recordingNotifier struct {
	sent    []model.StructuredJob
	failFPs map[string]bool
}

func (n *recordingNotifier) Send(_ context.Context, job model.StructuredJob) error {
	if n.failFPs[job.Fingerprint] {
		return errors.New("delivery failed")
	}
	n.sent = append(n.sent, job)
	return nil
}

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func listings(source string, n int) []model.RawListing {
	out := make([]model.RawListing, n)
	for i := range out {
		out[i] = model.RawListing{
			SourceID: source,
			Title:    fmt.Sprintf("Listing %d", i),
			RawText:  "raw text",
			URL:      fmt.Sprintf("https://%s.test/%d", source, i),
		}
	}
	return out
}

func structuredJob(fp string, relevant bool) model.StructuredJob {
	return model.StructuredJob{
		Fingerprint: fp,
		Title:       "Backend Intern",
		Company:     "Acme",
		URL:         "https://acme.com/jobs/" + fp,
		SourceID:    "internshala",
		IsRelevant:  relevant,
	}
}

func newPipeline(collectors []model.Collector, ex model.Extractor, store ledger.Store, n model.Notifier) *Pipeline {
	return New(model.Preferences{Role: "intern", Keywords: []string{"python"}},
		collectors, ex, store, n, time.Second, discardLogger())
}

// --- Tests ---

func TestRun_RelevantJobNotifiedAndCommitted(t *testing.T) {
	store := newMemStore()
	notifier := &recordingNotifier{}
	p := newPipeline(
		[]model.Collector{&fakeCollector{name: "internshala", listings: listings("internshala", 2)}},
		&fakeExtractor{jobs: []model.StructuredJob{
			structuredJob("a", true),
			structuredJob("b", false),
		}},
		store, notifier)

	sum, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sum.Collected != 2 || sum.Extracted != 2 || sum.Relevant != 1 {
		t.Errorf("Summary = %+v", sum)
	}
	if sum.New != 1 || sum.Notified != 1 || sum.Committed != 1 {
		t.Errorf("Summary = %+v, want 1 new/notified/committed", sum)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Fingerprint != "a" {
		t.Errorf("sent = %+v", notifier.sent)
	}
	if _, ok := store.persisted["a"]; !ok {
		t.Error("relevant job not committed to ledger")
	}
	if _, ok := store.persisted["b"]; ok {
		t.Error("irrelevant job committed to ledger")
	}
}

func TestRun_SecondRunIsIdempotent(t *testing.T) {
	store := newMemStore()
	ex := &fakeExtractor{jobs: []model.StructuredJob{structuredJob("a", true)}}
	coll := []model.Collector{&fakeCollector{name: "internshala", listings: listings("internshala", 1)}}

	n1 := &recordingNotifier{}
	if _, err := newPipeline(coll, ex, store, n1).Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	n2 := &recordingNotifier{}
	sum, err := newPipeline(coll, ex, store, n2).Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if len(n2.sent) != 0 {
		t.Errorf("second run re-sent %d jobs", len(n2.sent))
	}
	if sum.New != 0 || sum.Notified != 0 || sum.Committed != 0 {
		t.Errorf("second run Summary = %+v, want all zero", sum)
	}
}

func TestRun_FailedSourceDoesNotAbort(t *testing.T) {
	store := newMemStore()
	notifier := &recordingNotifier{}
	p := newPipeline(
		[]model.Collector{
			&fakeCollector{name: "unstop", err: errors.New("site down")},
			&fakeCollector{name: "internshala", listings: listings("internshala", 1)},
		},
		&fakeExtractor{jobs: []model.StructuredJob{structuredJob("a", true)}},
		store, notifier)

	sum, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.SourceErrors != 1 {
		t.Errorf("SourceErrors = %d, want 1", sum.SourceErrors)
	}
	if sum.Collected != 1 || sum.Notified != 1 {
		t.Errorf("Summary = %+v, want healthy source to proceed", sum)
	}
}

func TestRun_FailedSendRetriedNextRun(t *testing.T) {
	// At-least-once: a job whose notification fails stays out of the ledger
	// and is re-sent on the next run.
	store := newMemStore()
	ex := &fakeExtractor{jobs: []model.StructuredJob{
		structuredJob("a", true),
		structuredJob("b", true),
	}}
	coll := []model.Collector{&fakeCollector{name: "internshala", listings: listings("internshala", 2)}}

	n1 := &recordingNotifier{failFPs: map[string]bool{"b": true}}
	sum1, err := newPipeline(coll, ex, store, n1).Run(context.Background())
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if sum1.Notified != 1 || sum1.NotifyFailed != 1 || sum1.Committed != 1 {
		t.Errorf("first Summary = %+v", sum1)
	}
	if _, ok := store.persisted["b"]; ok {
		t.Fatal("failed send was committed to ledger")
	}

	n2 := &recordingNotifier{}
	sum2, err := newPipeline(coll, ex, store, n2).Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if len(n2.sent) != 1 || n2.sent[0].Fingerprint != "b" {
		t.Errorf("second run sent %+v, want retry of b only", n2.sent)
	}
	if sum2.Notified != 1 || sum2.Committed != 1 {
		t.Errorf("second Summary = %+v", sum2)
	}
}

func TestRun_CrossSourceDuplicateNotifiedOnce(t *testing.T) {
	store := newMemStore()
	notifier := &recordingNotifier{}
	p := newPipeline(
		[]model.Collector{&fakeCollector{name: "internshala", listings: listings("internshala", 2)}},
		&fakeExtractor{jobs: []model.StructuredJob{
			structuredJob("a", true),
			structuredJob("a", true), // same posting from a second source
		}},
		store, notifier)

	sum, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(notifier.sent) != 1 || sum.Notified != 1 {
		t.Errorf("sent %d notifications for one posting", len(notifier.sent))
	}
}

func TestRun_CommitFailureReturnsError(t *testing.T) {
	store := newMemStore()
	store.commitErr = &model.LedgerCommitError{Err: errors.New("disk full")}
	notifier := &recordingNotifier{}
	p := newPipeline(
		[]model.Collector{&fakeCollector{name: "internshala", listings: listings("internshala", 1)}},
		&fakeExtractor{jobs: []model.StructuredJob{structuredJob("a", true)}},
		store, notifier)

	_, err := p.Run(context.Background())
	var commitErr *model.LedgerCommitError
	if !errors.As(err, &commitErr) {
		t.Fatalf("Run = %v, want LedgerCommitError", err)
	}
	// The notification already went out; only persistence failed.
	if len(notifier.sent) != 1 {
		t.Errorf("sent = %d, want 1", len(notifier.sent))
	}
}

func TestRun_LoadFailureAbortsBeforeSideEffects(t *testing.T) {
	store := newMemStore()
	store.loadErr = errors.New("ledger locked by another run")
	notifier := &recordingNotifier{}
	p := newPipeline(
		[]model.Collector{&fakeCollector{name: "internshala", listings: listings("internshala", 1)}},
		&fakeExtractor{jobs: []model.StructuredJob{structuredJob("a", true)}},
		store, notifier)

	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("Run: expected error when ledger cannot be loaded")
	}
	if len(notifier.sent) != 0 {
		t.Errorf("notifications sent despite load failure: %d", len(notifier.sent))
	}
}

func TestRun_RawDumpWritesListings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.json")
	store := newMemStore()
	p := newPipeline(
		[]model.Collector{&fakeCollector{name: "internshala", listings: listings("internshala", 3)}},
		&fakeExtractor{}, store, &recordingNotifier{})
	p.SetRawDump(path)

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("raw dump not written: %v", err)
	}
	if len(data) == 0 {
		t.Error("raw dump is empty")
	}
}
