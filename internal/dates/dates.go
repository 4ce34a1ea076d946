// Package dates parses the release-date strings returned by metadata providers.
//
// Providers disagree on format: TMDB sends ISO dates, OMDb sends "31 Mar 2013",
// and older IMDb data carries region annotations such as "5 March 2024 (USA)".
// Parse accepts all of them and fills a missing year from a caller-supplied
// default instead of failing.
package dates

import (
	"fmt"
	"strings"
	"time"

	"seasonwatch/internal/services"
)

// SQLLayout is the date-granularity timestamp format used in the database.
const SQLLayout = "2006-01-02 00:00:00"

type layout struct {
	format   string
	hasYear  bool
	hasDay   bool
	hasMonth bool
}

var layouts = []layout{
	{format: time.RFC3339, hasYear: true, hasMonth: true, hasDay: true},
	{format: "2006-01-02 15:04:05", hasYear: true, hasMonth: true, hasDay: true},
	{format: "2006-01-02", hasYear: true, hasMonth: true, hasDay: true},
	{format: "2 January 2006", hasYear: true, hasMonth: true, hasDay: true},
	{format: "2 Jan 2006", hasYear: true, hasMonth: true, hasDay: true},
	{format: "January 2, 2006", hasYear: true, hasMonth: true, hasDay: true},
	{format: "Jan 2, 2006", hasYear: true, hasMonth: true, hasDay: true},
	{format: "January 2006", hasYear: true, hasMonth: true},
	{format: "Jan 2006", hasYear: true, hasMonth: true},
	{format: "2006-01", hasYear: true, hasMonth: true},
	{format: "2006", hasYear: true},
	{format: "2 January", hasMonth: true, hasDay: true},
	{format: "2 Jan", hasMonth: true, hasDay: true},
	{format: "January 2", hasMonth: true, hasDay: true},
	{format: "Jan 2", hasMonth: true, hasDay: true},
}

// Parse converts raw into a date in def's location. Missing years come from
// def; a missing day resolves to the first of the month and a missing month to
// January.
func Parse(raw string, def time.Time) (time.Time, error) {
	value := clean(raw)
	if value == "" {
		return time.Time{}, services.Wrap(services.ErrDateParse, "dates", "parse", "empty date string", nil)
	}
	loc := def.Location()
	for _, l := range layouts {
		parsed, err := time.ParseInLocation(l.format, value, loc)
		if err != nil {
			continue
		}
		year := parsed.Year()
		if !l.hasYear {
			year = def.Year()
		}
		month := parsed.Month()
		if !l.hasMonth {
			month = time.January
		}
		day := parsed.Day()
		if !l.hasDay {
			day = 1
		}
		if l.format == time.RFC3339 {
			return parsed.In(loc), nil
		}
		resolved := time.Date(year, month, day, parsed.Hour(), parsed.Minute(), parsed.Second(), 0, loc)
		// A yearless 29 February is valid for time.Parse but rolls into March
		// when the default year is not a leap year.
		if resolved.Month() != month || resolved.Day() != day {
			return time.Time{}, services.Wrap(services.ErrDateParse, "dates", "parse",
				fmt.Sprintf("day %d does not exist in %s %d", day, month, year), nil)
		}
		return resolved, nil
	}
	return time.Time{}, services.Wrap(services.ErrDateParse, "dates", "parse",
		fmt.Sprintf("unrecognized date %q", raw), nil)
}

// Earliest parses every non-empty raw value and returns the minimum. Any
// unparseable entry fails the whole call.
func Earliest(raws []string, def time.Time) (time.Time, error) {
	var earliest time.Time
	found := false
	for _, raw := range raws {
		if clean(raw) == "" {
			continue
		}
		parsed, err := Parse(raw, def)
		if err != nil {
			return time.Time{}, err
		}
		if !found || parsed.Before(earliest) {
			earliest = parsed
			found = true
		}
	}
	if !found {
		return time.Time{}, services.Wrap(services.ErrDateParse, "dates", "earliest", "no release dates supplied", nil)
	}
	return earliest, nil
}

// Today truncates t to midnight in its own location.
func Today(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SQLDate formats t at date granularity for storage.
func SQLDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(SQLLayout)
}

// ParseSQLDate reverses SQLDate. Empty input yields the zero time.
func ParseSQLDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, format := range []string{SQLLayout, "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.ParseInLocation(format, raw, time.Local); err == nil {
			return Today(parsed), nil
		}
	}
	return time.Time{}, services.Wrap(services.ErrDateParse, "dates", "parse sql date",
		fmt.Sprintf("couldn't parse %q as date", raw), nil)
}

func clean(raw string) string {
	value := strings.TrimSpace(raw)
	if idx := strings.Index(value, "("); idx > 0 && strings.HasSuffix(value, ")") {
		value = strings.TrimSpace(value[:idx])
	}
	value = strings.TrimSuffix(value, ".")
	return strings.Join(strings.Fields(value), " ")
}
