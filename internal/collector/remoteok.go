package collector

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobscout/internal/model"
)

const remoteokBaseURL = "https://remoteok.com"

// RemoteOKCollector scrapes job rows from RemoteOK's per-tag listing page.
type RemoteOKCollector struct {
	query   string
	baseURL string
	client  *http.Client
}

// NewRemoteOK creates a collector for the given tag query (spaces become
// dashes in the page URL). baseURL overrides the live site in tests; pass ""
// for the default.
func NewRemoteOK(query, baseURL string, client *http.Client) *RemoteOKCollector {
	if baseURL == "" {
		baseURL = remoteokBaseURL
	}
	return &RemoteOKCollector{query: query, baseURL: baseURL, client: client}
}

func (c *RemoteOKCollector) Name() string { return "remoteok" }

func (c *RemoteOKCollector) Collect(ctx context.Context) ([]model.RawListing, error) {
	tag := strings.ReplaceAll(strings.TrimSpace(c.query), " ", "-")
	pageURL := c.baseURL + "/remote-" + tag + "-jobs"
	doc, err := fetchDocument(ctx, c.client, pageURL)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var listings []model.RawListing
	doc.Find("tr.job:not(.placeholder)").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		dataURL, ok := s.Attr("data-url")
		if !ok || dataURL == "" {
			return true
		}

		title := strings.TrimSpace(s.Find("h2").First().Text())
		text := s.Text()
		if title == "" {
			title = firstLine(text)
		}

		listings = append(listings, model.RawListing{
			SourceID:  c.Name(),
			Title:     title,
			RawText:   collapseSpace(text),
			URL:       c.baseURL + dataURL,
			ScrapedAt: now,
		})
		return len(listings) < maxListingsPerSource
	})

	return listings, nil
}
