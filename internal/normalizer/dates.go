package normalizer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// errAmbiguousDate reports a numeric day/month ordering that the detected
// locale could not resolve. Callers surface it as a low-confidence flag,
// never as a hard failure.
var errAmbiguousDate = errors.New("ambiguous day/month ordering")

var numericDateRe = regexp.MustCompile(`^([0-9]{1,2})[/.-]([0-9]{1,2})[/.-]([0-9]{2,4})$`)

// unambiguousFormats are tried in order before any numeric interpretation.
var unambiguousFormats = []string{
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

type dateOrder int

const (
	orderUnknown dateOrder = iota
	orderMonthFirst
	orderDayFirst
)

// localeOrder maps a detected language to its conventional numeric date
// ordering. English follows the US month-first convention that dominates
// the bill corpus; the other supported languages are day-first.
func localeOrder(lang string) dateOrder {
	switch lang {
	case "en":
		return orderMonthFirst
	case "es", "fr", "de", "it", "pt", "hi":
		return orderDayFirst
	}
	return orderUnknown
}

// ParseDate canonicalizes an extracted date string. Multiple input formats
// are supported; the first that parses unambiguously wins. Purely numeric
// forms like 03/04/2024 are resolved by the locale implied by lang, and
// when that fails the result is errAmbiguousDate.
func ParseDate(value, lang string) (time.Time, error) {
	for _, layout := range unambiguousFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	m := numericDateRe.FindStringSubmatch(value)
	if m == nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", value)
	}
	first, _ := strconv.Atoi(m[1])
	second, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}

	day, month := 0, 0
	switch {
	case first > 12 && second <= 12:
		day, month = first, second
	case second > 12 && first <= 12:
		day, month = second, first
	case first > 12 && second > 12:
		return time.Time{}, fmt.Errorf("unrecognized date %q", value)
	default:
		// Both components could be the month; defer to the locale.
		switch localeOrder(lang) {
		case orderMonthFirst:
			day, month = second, first
		case orderDayFirst:
			day, month = first, second
		default:
			return time.Time{}, errAmbiguousDate
		}
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components; reject instead.
	if t.Day() != day || t.Month() != time.Month(month) {
		return time.Time{}, fmt.Errorf("invalid calendar date %q", value)
	}
	return t, nil
}
