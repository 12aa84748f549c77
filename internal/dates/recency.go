package dates

import "time"

// DefaultWindowDays is the retention window applied when a source does not
// configure its own.
const DefaultWindowDays = 30

// Threshold is the recency cutoff for one crawl run. It is computed once at
// run start and immutable for the run's lifetime, so concurrent workers can
// share it without locking.
type Threshold struct {
	cutoff time.Time
}

// NewThreshold computes "now minus windowDays" from the given clock.
func NewThreshold(clock Clock, windowDays int) Threshold {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return Threshold{cutoff: clock.Now().AddDate(0, 0, -windowDays)}
}

// Cutoff returns the cutoff instant.
func (t Threshold) Cutoff() time.Time {
	return t.cutoff
}

// IsRecent reports whether an article with the given publication date should
// be fetched. Unknown dates (known == false) are accepted: an article we
// cannot date might be recent and is worth fetching. The boundary is
// inclusive; a date exactly equal to the cutoff passes.
func (t Threshold) IsRecent(date time.Time, known bool) bool {
	if !known {
		return true
	}
	return !date.Before(t.cutoff)
}
