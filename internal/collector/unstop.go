package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobscout/internal/model"
)

const unstopBaseURL = "https://unstop.com"

// UnstopCollector scrapes internship cards from Unstop's search page. Cards
// carry no stable link element; the posting URL is reconstructed from the
// numeric id embedded in the card's element id ("opp_12345" → /o/i/12345).
type UnstopCollector struct {
	query   string
	baseURL string
	client  *http.Client
}

// NewUnstop creates a collector for the given search query. baseURL overrides
// the live site in tests; pass "" for the default.
func NewUnstop(query, baseURL string, client *http.Client) *UnstopCollector {
	if baseURL == "" {
		baseURL = unstopBaseURL
	}
	return &UnstopCollector{query: query, baseURL: baseURL, client: client}
}

func (c *UnstopCollector) Name() string { return "unstop" }

func (c *UnstopCollector) Collect(ctx context.Context) ([]model.RawListing, error) {
	pageURL := c.baseURL + "/internships?searchTerm=" + url.QueryEscape(c.query)
	doc, err := fetchDocument(ctx, c.client, pageURL)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var listings []model.RawListing
	doc.Find("app-competition-listing > div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		id, ok := s.Attr("id")
		if !ok {
			return true
		}
		parts := strings.SplitN(id, "_", 2)
		if len(parts) < 2 || parts[1] == "" {
			return true
		}

		text := s.Text()
		listings = append(listings, model.RawListing{
			SourceID:  c.Name(),
			Title:     firstLine(text),
			RawText:   collapseSpace(text),
			URL:       fmt.Sprintf("%s/o/i/%s", c.baseURL, parts[1]),
			ScrapedAt: now,
		})
		return len(listings) < maxListingsPerSource
	})

	return listings, nil
}
