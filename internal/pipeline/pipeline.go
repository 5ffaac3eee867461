package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"jobscout/internal/collector"
	"jobscout/internal/dedup"
	"jobscout/internal/ledger"
	"jobscout/internal/model"
)

// Summary reports the counts of one run for observability. The run always
// emits it, so a degraded run is never silent about what it dropped.
type Summary struct {
	Collected     int // raw listings across all sources
	SourceErrors  int // collectors that failed or timed out
	Extracted     int // structured jobs the engine produced
	ParseErrors   int // response entries dropped during validation
	FailedBatches int // extraction batches skipped after retries
	Relevant      int // extracted jobs with a positive relevance verdict
	New           int // relevant jobs surviving the dedup pass
	Notified      int // sends that succeeded
	NotifyFailed  int // sends that failed (retried next run via ledger absence)
	Committed     int // ledger entries persisted this run
}

// Pipeline executes one batch pass:
// load ledger → collect → extract+filter → dedup → notify-and-commit.
// No stage is re-entered and nothing is resumable mid-run; a crash simply
// means the next run re-collects from scratch and the ledger keeps it honest.
type Pipeline struct {
	prefs            model.Preferences
	collectors       []model.Collector
	extractor        model.Extractor
	store            ledger.Store
	notifier         model.Notifier
	collectorTimeout time.Duration
	logger           *slog.Logger

	rawDumpPath string
}

// New wires a pipeline with all its dependencies.
func New(
	prefs model.Preferences,
	collectors []model.Collector,
	extractor model.Extractor,
	store ledger.Store,
	notifier model.Notifier,
	collectorTimeout time.Duration,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		prefs:            prefs,
		collectors:       collectors,
		extractor:        extractor,
		store:            store,
		notifier:         notifier,
		collectorTimeout: collectorTimeout,
		logger:           logger,
	}
}

// SetRawDump makes the run write all collected raw listings to path as JSON,
// for reviewing what the scrapers actually saw.
func (p *Pipeline) SetRawDump(path string) {
	p.rawDumpPath = path
}

// Run executes the pass once. The returned error is non-nil only for the two
// abnormal terminations: a ledger that cannot be locked and a failed ledger
// commit. Every other failure degrades the result set and shows up in the
// Summary instead.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	led, err := p.store.Load(ctx)
	if err != nil {
		return sum, err
	}
	p.logger.Info("ledger loaded", "entries", led.Len())

	listings, sourceErrors := collector.Run(ctx, p.collectors, p.collectorTimeout, p.logger)
	sum.Collected = len(listings)
	sum.SourceErrors = sourceErrors
	p.dumpRaw(listings)

	jobs, stats := p.extractor.ExtractAndFilter(ctx, listings, p.prefs)
	sum.Extracted = stats.Jobs
	sum.ParseErrors = stats.ParseErrors
	sum.FailedBatches = stats.FailedBatches
	for _, j := range jobs {
		if j.IsRelevant {
			sum.Relevant++
		}
	}

	fresh := dedup.FilterNew(jobs, led)
	sum.New = len(fresh)

	// Sends are attempted for every job; a failure only excludes that job
	// from the commit set so the next run retries it (at-least-once).
	var entries []ledger.Entry
	for _, job := range fresh {
		if err := p.notifier.Send(ctx, job); err != nil {
			sum.NotifyFailed++
			p.logger.Error("notification failed, job will be retried next run",
				"company", job.Company,
				"title", job.Title,
				"error", &model.NotificationError{Fingerprint: job.Fingerprint, Err: err},
			)
			continue
		}
		sum.Notified++
		entries = append(entries, ledger.Entry{
			Fingerprint: job.Fingerprint,
			Title:       job.Title,
			Company:     job.Company,
			FirstSeenAt: time.Now().UTC(),
		})
	}

	// Single atomic persistence point for the whole run.
	if err := p.store.Commit(ctx, led, entries); err != nil {
		return sum, err
	}
	sum.Committed = len(entries)

	p.logger.Info("run complete",
		"collected", sum.Collected,
		"source_errors", sum.SourceErrors,
		"extracted", sum.Extracted,
		"parse_errors", sum.ParseErrors,
		"failed_batches", sum.FailedBatches,
		"relevant", sum.Relevant,
		"new", sum.New,
		"notified", sum.Notified,
		"notify_failed", sum.NotifyFailed,
		"committed", sum.Committed,
	)
	return sum, nil
}

func (p *Pipeline) dumpRaw(listings []model.RawListing) {
	if p.rawDumpPath == "" {
		return
	}
	data, err := json.MarshalIndent(listings, "", "  ")
	if err == nil {
		err = os.WriteFile(p.rawDumpPath, data, 0o644)
	}
	if err != nil {
		p.logger.Warn("raw dump failed", "path", p.rawDumpPath, "error", err)
		return
	}
	p.logger.Info("raw listings dumped", "path", p.rawDumpPath, "listings", len(listings))
}
