// Package dates normalizes the date strings scraped from news listing and
// article pages and decides whether an article falls inside the crawl's
// recency window. The pipeline is sanitize -> validate -> parse -> compare;
// every step is pure and safe for concurrent use.
package dates

import (
	"regexp"
	"strings"
)

// iconRunes are decorative glyphs that sites place next to publication dates.
var iconRunes = regexp.MustCompile(`[⏰🕒📅]`)

var whitespaceRuns = regexp.MustCompile(`\s+`)

// Sanitize normalizes a raw date string: icon glyphs are stripped,
// whitespace runs (including newlines and tabs) collapse to single spaces,
// and the result is trimmed. An empty result means the input carried no
// usable text. Sanitize never judges whether the text looks like a date;
// that is LooksLikeDate's job.
func Sanitize(raw string) string {
	cleaned := iconRunes.ReplaceAllString(raw, "")
	cleaned = whitespaceRuns.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
