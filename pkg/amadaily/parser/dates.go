package parser

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/rbastia/amadaily/pkg/amadaily/models"
)

// dateLayouts are tried, in order, before the pattern-based fallbacks.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006",
	"1/2/2006 15:04:05",
	"1-2-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"Monday, January 2, 2006",
}

// yearlessLayouts are tried by the natural parse; the year is set afterwards.
var yearlessLayouts = []string{
	"Jan 2",
	"January 2",
	"2 Jan",
	"2 January",
	"Monday January 2",
	"Monday, January 2",
	"Mon Jan 2",
	"Mon, Jan 2",
}

var (
	// monthDayRe matches a month-day[-year] that ends the text, optionally
	// after leading words such as a weekday name.
	monthDayRe     = regexp.MustCompile(`^(?:[A-Za-z]+\.?,?\s+)*(\d{1,2})[-/](\d{1,2})(?:[-/](\d{2,4}))?$`)
	monthDayYearRe = regexp.MustCompile(`(\d{1,2})[-/](\d{1,2})[-/](\d{2,4})`)

	ordinalRe   = regexp.MustCompile(`(?i)(\d)(st|nd|rd|th)\b`)
	septRe      = regexp.MustCompile(`(?i)\bsept\b`)
	monthNameRe = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`)
)

// ResolveDate parses a cell into a calendar date (UTC midnight).
// Strategies, first success wins: native date value, fixed text layouts,
// month-day[-year] pattern, then a permissive natural-language parse.
// A missing year becomes defaultYear; two-digit years are in the 2000s.
func ResolveDate(c models.Cell, defaultYear int) (time.Time, bool) {
	if c.Kind == models.CellTime {
		return dateOf(c.Time), true
	}
	s := c.String()
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return dateOf(t), true
		}
	}

	if m := monthDayRe.FindStringSubmatch(s); m != nil {
		year := defaultYear
		if m[3] != "" {
			year = expandYear(m[3])
		}
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		return calendarDate(year, month, day)
	}

	return parseNatural(s, defaultYear)
}

// parseNatural is the last-resort parse for text naming a month or starting
// with a digit. Ordinal suffixes and "Sept" are normalized first. Results
// without a year take defaultYear.
func parseNatural(s string, defaultYear int) (time.Time, bool) {
	s = septRe.ReplaceAllString(ordinalRe.ReplaceAllString(s, "$1"), "Sep")
	s = strings.Join(strings.Fields(s), " ")

	for _, layout := range yearlessLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return calendarDate(defaultYear, int(t.Month()), t.Day())
		}
	}

	if !monthNameRe.MatchString(s) && (s == "" || s[0] < '0' || s[0] > '9') {
		return time.Time{}, false
	}
	if t, ok := dateparseIn(s, defaultYear); ok {
		return t, true
	}
	return dateparseIn(s+" "+strconv.Itoa(defaultYear), defaultYear)
}

func dateparseIn(s string, defaultYear int) (t time.Time, ok bool) {
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	parsed, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	if parsed.Year() == 0 {
		return calendarDate(defaultYear, int(parsed.Month()), parsed.Day())
	}
	return dateOf(parsed), true
}

// InferYear returns the year of the first month-day-year pattern in the
// file's base name, or now's year when there is none.
func InferYear(path string, now time.Time) int {
	if m := monthDayYearRe.FindStringSubmatch(filepath.Base(path)); m != nil {
		return expandYear(m[3])
	}
	return now.Year()
}

func expandYear(s string) int {
	y, _ := strconv.Atoi(s)
	if y < 100 {
		y += 2000
	}
	return y
}

// calendarDate rejects dates that time.Date would normalize, like 2/30.
func calendarDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// hasDateSeparator reports whether text looks like an explicit date.
func hasDateSeparator(s string) bool {
	return strings.ContainsAny(s, "/-")
}
