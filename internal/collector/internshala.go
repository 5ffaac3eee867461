package collector

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobscout/internal/model"
)

const internshalaBaseURL = "https://internshala.com"

// InternshalaCollector scrapes internship cards from Internshala's keyword
// search page.
type InternshalaCollector struct {
	query   string
	baseURL string
	client  *http.Client
}

// NewInternshala creates a collector for the given search query. baseURL
// overrides the live site in tests; pass "" for the default.
func NewInternshala(query, baseURL string, client *http.Client) *InternshalaCollector {
	if baseURL == "" {
		baseURL = internshalaBaseURL
	}
	return &InternshalaCollector{query: query, baseURL: baseURL, client: client}
}

func (c *InternshalaCollector) Name() string { return "internshala" }

// Collect fetches the search page and extracts up to maxListingsPerSource
// raw listing blocks.
func (c *InternshalaCollector) Collect(ctx context.Context) ([]model.RawListing, error) {
	pageURL := c.baseURL + "/internships/keywords-" + url.PathEscape(c.query)
	doc, err := fetchDocument(ctx, c.client, pageURL)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var listings []model.RawListing
	doc.Find("div.individual_internship").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link := s.Find("h3.job-internship-name a").First()
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return true
		}
		if !strings.HasPrefix(href, "http") {
			href = c.baseURL + href
		}

		listings = append(listings, model.RawListing{
			SourceID:  c.Name(),
			Title:     strings.TrimSpace(link.Text()),
			RawText:   collapseSpace(s.Text()),
			URL:       href,
			ScrapedAt: now,
		})
		return len(listings) < maxListingsPerSource
	})

	return listings, nil
}
