package dedup

import (
	"net/url"
	"strings"
)

// Fingerprint derives the deterministic dedup key for a posting from its
// normalized company, title, and URL. The fields are concatenated rather
// than hashed so the key stays human-auditable: two scrapes of the same
// posting with different raw text still collapse to the same fingerprint.
func Fingerprint(company, title, rawURL string) string {
	return normalizeField(company) + "|" + normalizeField(title) + "|" + canonicalURL(rawURL)
}

// normalizeField lowercases and collapses all whitespace runs to single spaces.
func normalizeField(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// canonicalURL lowercases the scheme and host and strips the query string and
// fragment, so tracking parameters never split one posting into two keys.
func canonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.RawQuery = ""
	u.Fragment = ""

	return strings.TrimSuffix(u.String(), "/")
}
