package dates

import "time"

// Clock supplies the current time. Injecting it lets tests freeze "now"
// for relative-date parsing and threshold construction.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return systemClock{}
}

// FixedClock returns a Clock that always reports the given instant.
type FixedClock struct {
	Instant time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return c.Instant }
