package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Strategy identifies one of the parser's date-parsing strategies.
type Strategy string

const (
	// StrategyAbsolute parses explicit Russian-month dates ("27 октября 2025").
	StrategyAbsolute Strategy = "absolute"
	// StrategyRelative parses offsets from now ("2 часа назад").
	StrategyRelative Strategy = "relative"
	// StrategyNumeric parses DD.MM.YYYY and YYYY-MM-DD forms.
	StrategyNumeric Strategy = "numeric"
)

// DefaultStrategyOrder is the dispatch order used when a source does not
// configure its own.
var DefaultStrategyOrder = []Strategy{StrategyAbsolute, StrategyRelative, StrategyNumeric}

// ParseStrategyOrder converts configured strategy names into an order list.
func ParseStrategyOrder(names []string) ([]Strategy, error) {
	if len(names) == 0 {
		return DefaultStrategyOrder, nil
	}
	order := make([]Strategy, 0, len(names))
	for _, name := range names {
		s := Strategy(strings.ToLower(strings.TrimSpace(name)))
		switch s {
		case StrategyAbsolute, StrategyRelative, StrategyNumeric:
			order = append(order, s)
		default:
			return nil, fmt.Errorf("unknown date strategy %q", name)
		}
	}
	return order, nil
}

var (
	absoluteDatePattern = regexp.MustCompile(`(?i)(\d{1,2})\s+([а-яё]+)\s+(\d{4})`)
	dottedDatePattern   = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})`)
	isoDatePattern      = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)
	firstIntPattern     = regexp.MustCompile(`\d+`)
)

// Parser converts scraped date text into a calendar date. The zero value is
// not usable; construct with NewParser. A Parser is immutable after
// construction and safe for concurrent use.
type Parser struct {
	clock Clock
	order []Strategy
	stems []unitStems
}

// Option configures a Parser.
type Option func(*Parser)

// WithStrategyOrder sets the dispatch order of parse strategies.
func WithStrategyOrder(order []Strategy) Option {
	return func(p *Parser) {
		if len(order) > 0 {
			p.order = order
		}
	}
}

// WithEnglishUnits additionally recognizes English relative-time unit stems
// ("2 hours ago"). Needed for sources that mix English date text into
// otherwise Russian pages.
func WithEnglishUnits() Option {
	return func(p *Parser) {
		p.stems = append(p.stems, englishUnitStems)
	}
}

// NewParser creates a Parser using the given clock for relative-date
// arithmetic.
func NewParser(clock Clock, opts ...Option) *Parser {
	p := &Parser{
		clock: clock,
		order: DefaultStrategyOrder,
		stems: []unitStems{russianUnitStems},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Normalize converts raw scraped text into a publication date. The second
// return value reports whether a date is known; false is the ordinary
// outcome for non-date text, never an error condition.
func (p *Parser) Normalize(raw string) (time.Time, bool) {
	cleaned := Sanitize(raw)
	if cleaned == "" || !LooksLikeDate(cleaned) {
		return time.Time{}, false
	}

	for _, strategy := range p.order {
		var (
			date time.Time
			ok   bool
		)
		switch strategy {
		case StrategyAbsolute:
			date, ok = p.parseAbsolute(cleaned)
		case StrategyRelative:
			date, ok = p.parseRelative(cleaned)
		case StrategyNumeric:
			date, ok = p.parseNumeric(cleaned)
		}
		if ok {
			return date, true
		}
	}
	return time.Time{}, false
}

// parseAbsolute handles "D month-name YYYY" with Russian genitive month
// names. An unknown month token or an impossible day fails; dates never
// roll over into the next month.
func (p *Parser) parseAbsolute(cleaned string) (time.Time, bool) {
	m := absoluteDatePattern.FindStringSubmatch(cleaned)
	if m == nil {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(m[3])
	if err != nil {
		return time.Time{}, false
	}
	month, ok := russianMonths[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, false
	}
	return makeDate(year, month, day)
}

// parseRelative handles "N units ago". The first integer in the text is the
// amount; unit stems are checked first-match-wins in the fixed order
// day, hour, minute, week. Day and week offsets use calendar-aware
// subtraction.
func (p *Parser) parseRelative(cleaned string) (time.Time, bool) {
	digits := firstIntPattern.FindString(cleaned)
	if digits == "" {
		return time.Time{}, false
	}
	amount, err := strconv.Atoi(digits)
	if err != nil {
		// Malformed or overflowing numeric group: this strategy fails.
		return time.Time{}, false
	}

	lowered := strings.ToLower(cleaned)
	now := p.clock.Now()
	for _, stems := range p.stems {
		switch {
		case containsAny(lowered, stems.Day):
			return now.AddDate(0, 0, -amount), true
		case containsAny(lowered, stems.Hour):
			return now.Add(-time.Duration(amount) * time.Hour), true
		case containsAny(lowered, stems.Minute):
			return now.Add(-time.Duration(amount) * time.Minute), true
		case containsAny(lowered, stems.Week):
			return now.AddDate(0, 0, -7*amount), true
		}
	}
	return time.Time{}, false
}

// parseNumeric handles DD.MM.YYYY, then YYYY-MM-DD. The first pattern that
// matches and yields a valid calendar date wins.
func (p *Parser) parseNumeric(cleaned string) (time.Time, bool) {
	if m := dottedDatePattern.FindStringSubmatch(cleaned); m != nil {
		if date, ok := makeDateFromStrings(m[3], m[2], m[1]); ok {
			return date, true
		}
	}
	if m := isoDatePattern.FindStringSubmatch(cleaned); m != nil {
		if date, ok := makeDateFromStrings(m[1], m[2], m[3]); ok {
			return date, true
		}
	}
	return time.Time{}, false
}

// makeDate builds a date and verifies the components survived unchanged.
// time.Date normalizes out-of-range values ("31 февраля" becomes March 3),
// which must count as a parse failure here.
func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	if day < 1 || day > 31 || year < 1 {
		return time.Time{}, false
	}
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || date.Month() != month || date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}

func makeDateFromStrings(year, month, day string) (time.Time, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, false
	}
	if m < 1 || m > 12 {
		return time.Time{}, false
	}
	return makeDate(y, time.Month(m), d)
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
