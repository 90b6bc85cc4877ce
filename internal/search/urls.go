package search

import (
	"net/url"
	"strings"
)

// minPathDepth is the smallest number of path segments an article URL can
// have; anything shallower is a category or section listing.
const minPathDepth = 2

// categoryNames are the site's section slugs. A URL ending in one of these
// at shallow depth is a listing page, not an article.
var categoryNames = map[string]struct{}{
	"polityka":   {},
	"biznes":     {},
	"wiadomosci": {},
	"sport":      {},
	"zdrowie":    {},
	"kultura":    {},
	"rozrywka":   {},
}

// resolveRedirect unwraps a search-widget redirect URL of the form
// .../url?q=<target>&... and returns the embedded target. Anything else is
// returned unchanged.
func resolveRedirect(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if q := u.Query().Get("q"); q != "" && strings.HasPrefix(q, "http") {
		return q
	}
	return raw
}

// normalizeCandidate turns a raw widget href into an absolute, query-free
// article URL. It reports false for off-site links, category/listing pages,
// and anything that does not parse.
func normalizeCandidate(raw, baseOrigin string) (string, bool) {
	base, err := url.Parse(baseOrigin)
	if err != nil {
		return "", false
	}

	raw = resolveRedirect(raw)

	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}

	// Relative hrefs resolve against the site origin.
	if !u.IsAbs() {
		u = base.ResolveReference(u)
	}

	if !sameSite(u.Host, base.Host) {
		return "", false
	}

	// Drop tracking parameters and fragments outright.
	u.RawQuery = ""
	u.Fragment = ""

	segments := pathSegments(u.Path)
	if len(segments) < minPathDepth {
		return "", false
	}
	if _, isCategory := categoryNames[segments[len(segments)-1]]; isCategory && len(segments) <= minPathDepth {
		return "", false
	}

	return u.String(), true
}

// sameSite accepts the base host itself and any of its subdomains
// (wiadomosci.radiozet.pl belongs to radiozet.pl).
func sameSite(host, baseHost string) bool {
	root := strings.TrimPrefix(strings.ToLower(baseHost), "www.")
	host = strings.ToLower(host)
	return host == root || host == "www."+root || strings.HasSuffix(host, "."+root)
}

func pathSegments(path string) []string {
	var segments []string
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
