package model

import (
	"context"
	"time"
)

// Preferences describes what the user is looking for. Loaded once per run
// from config and never mutated by the pipeline.
type Preferences struct {
	Role            string
	Keywords        []string
	GraduationYear  int
	ExperienceLevel string // "internship", "entry-level", "mid", "senior"
}

// RawListing is one scraped posting before any interpretation. It exists
// only within the run that scraped it and is discarded after extraction.
type RawListing struct {
	SourceID  string    `json:"source_id"`
	Title     string    `json:"title"` // may be noisy or untrimmed
	RawText   string    `json:"raw_text"`
	URL       string    `json:"url"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// StructuredJob is the normalized, decision-bearing record produced by the
// extraction engine. One StructuredJob per raw listing the engine could parse.
type StructuredJob struct {
	Fingerprint     string
	Title           string
	Company         string
	Location        string // optional
	URL             string
	SourceID        string
	IsRelevant      bool
	MatchedKeywords []string
	Level           string // inferred experience level
}

// ExtractStats reports what happened inside one extraction pass, so an empty
// result is never indistinguishable from "no relevant jobs".
type ExtractStats struct {
	Listings      int // raw listings handed to the engine
	Jobs          int // structured jobs produced
	ParseErrors   int // response entries dropped during validation
	FailedBatches int // batches skipped after retries were exhausted
}

// Collector fetches raw listings from a single source. A failing collector is
// converted to an empty contribution at the pipeline boundary; it never
// aborts the run.
type Collector interface {
	Name() string
	Collect(ctx context.Context) ([]RawListing, error)
}

// Extractor turns raw listings into structured, relevance-tagged jobs in one
// combined call per batch. Failures degrade the result set and are reported
// through ExtractStats rather than returned.
type Extractor interface {
	ExtractAndFilter(ctx context.Context, listings []RawListing, prefs Preferences) ([]StructuredJob, ExtractStats)
}

// Notifier delivers one message per job.
type Notifier interface {
	Send(ctx context.Context, job StructuredJob) error
}
