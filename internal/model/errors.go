package model

import (
	"fmt"
	"time"
)

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// ConfigError means the preference context could not be loaded or is invalid.
// It is the only error that aborts a run before any side effects.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("config: %v", e.Err) }
func (e *ConfigError) Unwrap() error { return e.Err }

// SourceError records a failed collector. The source contributes zero
// listings and the run continues.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string { return fmt.Sprintf("source %s: %v", e.Source, e.Err) }
func (e *SourceError) Unwrap() error { return e.Err }

// ExtractionError records an extraction batch that failed outright
// (transport, auth, quota, or an unparsable payload) after retries.
type ExtractionError struct {
	Batch int
	Err   error
}

func (e *ExtractionError) Error() string { return fmt.Sprintf("extraction batch %d: %v", e.Batch, e.Err) }
func (e *ExtractionError) Unwrap() error { return e.Err }

// ParseError records a single response entry that failed schema validation
// within an otherwise successful extraction call.
type ParseError struct {
	Batch  int
	Entry  int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("batch %d entry %d: %s", e.Batch, e.Entry, e.Reason)
}

// NotificationError records a failed send. The job stays out of the ledger
// so the next run retries it.
type NotificationError struct {
	Fingerprint string
	Err         error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify %s: %v", e.Fingerprint, e.Err)
}
func (e *NotificationError) Unwrap() error { return e.Err }

// LedgerCommitError means the run's single persistence point failed. Sent
// notifications stand, but the run must exit loudly: without the commit the
// same jobs would be re-alerted on every future run.
type LedgerCommitError struct {
	Err error
}

func (e *LedgerCommitError) Error() string { return fmt.Sprintf("ledger commit: %v", e.Err) }
func (e *LedgerCommitError) Unwrap() error { return e.Err }
