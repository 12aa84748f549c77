package dates

import "regexp"

// dateShapes are the recognized date shapes, checked case-insensitively.
// A string matching none of them is rejected before any parsing happens:
// better to miss a date than to mis-parse ordinary prose as one.
var dateShapes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\d{1,2}\s+[а-яё]+\s+\d{4}`),
	regexp.MustCompile(`\d{1,2}\.\d{1,2}\.\d{4}`),
	regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`),
	regexp.MustCompile(`\d{4}-\d{1,2}-\d{1,2}`),
	regexp.MustCompile(`(?i)\d{1,2}\s+[а-яё]+`),
	regexp.MustCompile(`(?i)\d+\s+(час|день|дня|дней|минут|недел)`),
	regexp.MustCompile(`(?i)\d+\s+(hour|day|days|minute|week)`),
}

// LooksLikeDate reports whether a sanitized string plausibly encodes a
// date. It is a precision gate, not a parser: a true verdict only means a
// parse attempt is worthwhile.
func LooksLikeDate(cleaned string) bool {
	if cleaned == "" {
		return false
	}
	for _, shape := range dateShapes {
		if shape.MatchString(cleaned) {
			return true
		}
	}
	return false
}
