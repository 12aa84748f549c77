package dates

import "time"

// russianMonths maps Russian genitive month names, as they appear in dates
// like "27 октября 2025", to calendar months.
var russianMonths = map[string]time.Month{
	"января":   time.January,
	"февраля":  time.February,
	"марта":    time.March,
	"апреля":   time.April,
	"мая":      time.May,
	"июня":     time.June,
	"июля":     time.July,
	"августа":  time.August,
	"сентября": time.September,
	"октября":  time.October,
	"ноября":   time.November,
	"декабря":  time.December,
}

// unitStems lists the substrings that identify a relative-time unit.
// "час" also matches "часа" and "часов"; "недел" matches every case form
// of "неделя".
type unitStems struct {
	Day    []string
	Hour   []string
	Minute []string
	Week   []string
}

var russianUnitStems = unitStems{
	Day:    []string{"день", "дня", "дней"},
	Hour:   []string{"час"},
	Minute: []string{"минут"},
	Week:   []string{"недел"},
}

var englishUnitStems = unitStems{
	Day:    []string{"day"},
	Hour:   []string{"hour"},
	Minute: []string{"minute"},
	Week:   []string{"week"},
}
