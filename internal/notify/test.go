package notify

import (
	"context"
	"time"

	"jobscout/internal/model"
)

// SendTest sends a canned job through n to verify the channel works.
func SendTest(n model.Notifier) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return n.Send(ctx, model.StructuredJob{
		Fingerprint:     "jobscout test|test notification|https://example.com/jobs",
		Title:           "Test Notification (Integration Verified)",
		Company:         "Jobscout Test",
		Location:        "Everywhere",
		URL:             "https://example.com/jobs",
		SourceID:        "test",
		IsRelevant:      true,
		MatchedKeywords: []string{"test"},
		Level:           "internship",
	})
}
