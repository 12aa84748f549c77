// Package domain provides domain models used across the application.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// isoDateLayout is the wire format for article_date: a calendar date only,
// no time component, so the emitted records carry one unambiguous form.
const isoDateLayout = "2006-01-02"

// ISODate is a calendar date that marshals as an ISO-8601 date string.
type ISODate struct {
	time.Time
}

// NewISODate truncates t to its calendar date.
func NewISODate(t time.Time) ISODate {
	return ISODate{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// MarshalJSON renders the date as "YYYY-MM-DD".
func (d ISODate) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(isoDateLayout) + `"`), nil
}

// UnmarshalJSON parses a "YYYY-MM-DD" string.
func (d *ISODate) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = ISODate{}
		return nil
	}
	parsed, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid ISO date %q: %w", s, err)
	}
	*d = ISODate{Time: parsed}
	return nil
}

// Article is the record emitted for each accepted article.
type Article struct {
	// Unique identifier assigned when the article is stored
	ID string `json:"-"`
	// Title of the article
	Title string `json:"title"`
	// Canonical article URL
	URL string `json:"url"`
	// Topic tag or search term that led to this article
	SearchTerm string `json:"search_term"`
	// First meaningful paragraph of the article body
	Description string `json:"description"`
	// Best-effort publication date; null when no date could be parsed
	ArticleDate *ISODate `json:"article_date"`
	// Timestamp of the crawl that produced this record
	ScrapedAt time.Time `json:"scraped_at"`
}

// SetArticleDate records a parsed publication date; known == false leaves
// the date null.
func (a *Article) SetArticleDate(date time.Time, known bool) {
	if !known {
		a.ArticleDate = nil
		return
	}
	d := NewISODate(date)
	a.ArticleDate = &d
}

// Candidate is an article link discovered on a listing page, before its own
// page has been fetched. Candidates are transient: created during listing
// extraction and immediately either promoted to a fetch or dropped by the
// recency filter.
type Candidate struct {
	// Absolute article URL
	URL string
	// Title text from the listing
	Title string
	// Parsed publication date, if the listing carried one
	Date time.Time
	// DateKnown reports whether Date holds a parsed value
	DateKnown bool
}
