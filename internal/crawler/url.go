package crawler

import (
	"net/url"
	"strings"
)

// CleanURL normalizes a scraped href against a source's base URL:
// scheme-relative and site-relative links become absolute, and anything
// pointing off-site resolves to "". Mirrors the way news sites mix
// relative, protocol-relative, and absolute links in one listing.
func CleanURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(href, "//"):
		href = base.Scheme + ":" + href
	case strings.HasPrefix(href, "/"), !strings.HasPrefix(href, "http"):
		ref, err := url.Parse(href)
		if err != nil {
			return ""
		}
		href = base.ResolveReference(ref).String()
	}

	resolved, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if resolved.Host != base.Host {
		return ""
	}
	return resolved.String()
}

// isArticleURL reports whether a URL counts as an article link for this
// source. Without configured patterns every on-site link passes.
func (c *Crawler) isArticleURL(u string) bool {
	if len(c.patterns) == 0 {
		return true
	}
	for _, re := range c.patterns {
		if re.MatchString(u) {
			return true
		}
	}
	return false
}
