package extract

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"time"

	"jobscout/internal/model"
	"jobscout/internal/retry"
)

// Engine implements model.Extractor: one combined structure-and-filter
// request per batch, batches sized by a character budget and executed
// sequentially to keep external call volume minimal.
type Engine struct {
	provider   Provider
	budget     int
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewEngine wires a provider into an engine. budget caps the combined raw
// text characters per request; maxRetries/baseDelay control the per-batch
// retry policy.
func NewEngine(provider Provider, budget, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *Engine {
	return &Engine{
		provider:   provider,
		budget:     budget,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

type promptListing struct {
	Num    int
	Source string
	URL    string
	Text   string
}

type promptData struct {
	Role            string
	Keywords        string
	GraduationYear  int
	ExperienceLevel string
	Listings        []promptListing
}

// ExtractAndFilter runs the combined call for every batch. A batch whose
// call keeps failing after retries is skipped with an explicit log line and
// counted in the stats, so a degraded result is never mistaken for "no
// relevant jobs". Entry-level validation failures drop only that entry.
func (e *Engine) ExtractAndFilter(ctx context.Context, listings []model.RawListing, prefs model.Preferences) ([]model.StructuredJob, model.ExtractStats) {
	stats := model.ExtractStats{Listings: len(listings)}
	if len(listings) == 0 {
		return nil, stats
	}

	batches := splitBatches(listings, e.budget)
	e.logger.Info("extraction starting", "listings", len(listings), "batches", len(batches))

	var jobs []model.StructuredJob
	for bi, batch := range batches {
		prompt, err := e.renderPrompt(prefs, batch)
		if err != nil {
			stats.FailedBatches++
			e.logger.Error("extraction batch skipped",
				"error", &model.ExtractionError{Batch: bi, Err: err}, "listings", len(batch))
			continue
		}

		var env *batchEnvelope
		err = retry.Do(ctx, e.maxRetries, e.baseDelay, e.logger, func(ctx context.Context) error {
			raw, cerr := e.provider.Complete(ctx, prompt)
			if cerr != nil {
				return cerr
			}
			parsed, perr := parseEnvelope(raw)
			if perr != nil {
				return perr
			}
			env = parsed
			return nil
		})
		if err != nil {
			// Explicit skip: the batch's listings are dropped for this run
			// and will be re-scraped next run.
			stats.FailedBatches++
			e.logger.Error("extraction batch skipped after retries",
				"error", &model.ExtractionError{Batch: bi, Err: err}, "listings", len(batch))
			continue
		}

		batchJobs, parseErrs := validateEntries(env, bi, batch)
		for _, pe := range parseErrs {
			e.logger.Warn("dropping invalid extraction entry", "error", pe)
		}
		stats.ParseErrors += len(parseErrs)
		jobs = append(jobs, batchJobs...)
	}

	stats.Jobs = len(jobs)
	return jobs, stats
}

func (e *Engine) renderPrompt(prefs model.Preferences, batch []model.RawListing) (string, error) {
	data := promptData{
		Role:            prefs.Role,
		Keywords:        strings.Join(prefs.Keywords, ", "),
		GraduationYear:  prefs.GraduationYear,
		ExperienceLevel: prefs.ExperienceLevel,
		Listings:        make([]promptListing, 0, len(batch)),
	}
	for i, l := range batch {
		data.Listings = append(data.Listings, promptListing{
			Num:    i,
			Source: l.SourceID,
			URL:    l.URL,
			Text:   l.RawText,
		})
	}

	var buf bytes.Buffer
	if err := ExtractFilterTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
