package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"jobscout/internal/dedup"
	"jobscout/internal/model"
)

// rawJob is the JSON shape of one response entry (matches jobBatchSchema).
// Pointer fields distinguish "absent" from zero values during validation.
type rawJob struct {
	Listing         *int     `json:"listing"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	URL             string   `json:"url"`
	IsRelevant      *bool    `json:"is_relevant"`
	MatchedKeywords []string `json:"matched_keywords"`
	Level           string   `json:"level"`
}

// batchEnvelope is the top-level response payload.
type batchEnvelope struct {
	Jobs []rawJob `json:"jobs"`
}

// parseEnvelope deserializes a model response, tolerating markdown fences.
// A payload that is not the expected envelope at all is an extraction-level
// failure, handled by the engine's retry-or-skip policy.
func parseEnvelope(raw string) (*batchEnvelope, error) {
	cleaned := stripFences(raw)
	var env batchEnvelope
	if err := json.Unmarshal([]byte(cleaned), &env); err != nil {
		return nil, fmt.Errorf("unparsable payload: %w", err)
	}
	return &env, nil
}

// validateEntries checks every response entry against the required schema
// (listing number in range, title, company, url, is_relevant) and converts
// the valid ones into StructuredJobs. Invalid entries become ParseErrors and
// are dropped; the rest of the batch proceeds.
func validateEntries(env *batchEnvelope, batchIdx int, batch []model.RawListing) ([]model.StructuredJob, []*model.ParseError) {
	var jobs []model.StructuredJob
	var parseErrs []*model.ParseError

	fail := func(entry int, reason string) {
		parseErrs = append(parseErrs, &model.ParseError{Batch: batchIdx, Entry: entry, Reason: reason})
	}

	for i, rj := range env.Jobs {
		switch {
		case rj.Listing == nil:
			fail(i, "missing listing number")
			continue
		case *rj.Listing < 0 || *rj.Listing >= len(batch):
			fail(i, fmt.Sprintf("listing number %d out of range", *rj.Listing))
			continue
		case strings.TrimSpace(rj.Title) == "":
			fail(i, "missing title")
			continue
		case strings.TrimSpace(rj.Company) == "":
			fail(i, "missing company")
			continue
		case strings.TrimSpace(rj.URL) == "":
			fail(i, "missing url")
			continue
		case rj.IsRelevant == nil:
			fail(i, "missing is_relevant")
			continue
		}

		keywords := make([]string, 0, len(rj.MatchedKeywords))
		for _, kw := range rj.MatchedKeywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				keywords = append(keywords, kw)
			}
		}

		title := strings.TrimSpace(rj.Title)
		company := strings.TrimSpace(rj.Company)
		url := strings.TrimSpace(rj.URL)

		jobs = append(jobs, model.StructuredJob{
			Fingerprint:     dedup.Fingerprint(company, title, url),
			Title:           title,
			Company:         company,
			Location:        strings.TrimSpace(rj.Location),
			URL:             url,
			SourceID:        batch[*rj.Listing].SourceID,
			IsRelevant:      *rj.IsRelevant,
			MatchedKeywords: keywords,
			Level:           rj.Level,
		})
	}

	return jobs, parseErrs
}

// stripFences removes a surrounding markdown code fence if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
