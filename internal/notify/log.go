package notify

import (
	"context"
	"log/slog"
	"strings"

	"jobscout/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes each new job to the given logger. Used as the default
// channel and in check mode.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each job via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs the job. Stdout logging does not fail.
func (n *LogNotifier) Send(_ context.Context, job model.StructuredJob) error {
	n.logger.Info("new job",
		"company", job.Company,
		"title", job.Title,
		"location", job.Location,
		"url", job.URL,
		"source", job.SourceID,
		"matched", strings.Join(job.MatchedKeywords, ","),
		"level", job.Level,
	)
	return nil
}
