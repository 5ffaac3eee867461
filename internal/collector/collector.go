package collector

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"jobscout/internal/model"
)

// Listing sources serve different markup to non-browser agents; a browser UA
// keeps the selectors below working.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// maxListingsPerSource caps how much raw text one source can feed into the
// extraction budget.
const maxListingsPerSource = 25

// Run invokes every collector concurrently with a per-collector timeout and
// joins the results in registration order, so output order is deterministic
// regardless of completion order. A failed or timed-out collector is logged
// as a source error and contributes an empty slice; it never aborts the run.
func Run(ctx context.Context, collectors []model.Collector, timeout time.Duration, logger *slog.Logger) ([]model.RawListing, int) {
	results := make([][]model.RawListing, len(collectors))
	errs := make([]error, len(collectors))

	var g errgroup.Group
	for i, c := range collectors {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			listings, err := c.Collect(cctx)
			if err != nil {
				errs[i] = &model.SourceError{Source: c.Name(), Err: err}
				return nil
			}
			results[i] = listings
			return nil
		})
	}
	g.Wait()

	var all []model.RawListing
	sourceErrors := 0
	for i, c := range collectors {
		if errs[i] != nil {
			sourceErrors++
			logger.Warn("source collector failed, contributing zero listings",
				"source", c.Name(), "error", errs[i])
			continue
		}
		logger.Info("source collected", "source", c.Name(), "listings", len(results[i]))
		all = append(all, results[i]...)
	}
	return all, sourceErrors
}

// fetchDocument GETs url with a browser User-Agent and parses the body.
func fetchDocument(ctx context.Context, client *http.Client, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &model.HTTPError{StatusCode: resp.StatusCode, Err: fmt.Errorf("fetch %s", url)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}

// collapseSpace flattens a scraped text blob to single-spaced text so it
// spends as little of the extraction character budget as possible.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// firstLine returns the first non-empty line of a scraped blob, as a rough
// listing title for sources without a dedicated title element.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
