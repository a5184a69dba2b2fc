// Package calendar resolves report dates against a business-day calendar.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the report date format used on the command line and in
// output file names.
const DateLayout = "20060102"

const holidayLayout = "2006-01-02"

// Holidays is a set of non-business dates (midnight, any location).
type Holidays map[string]struct{}

// ParseHolidays parses YYYY-MM-DD dates. Blank entries are ignored.
func ParseHolidays(dates []string) (Holidays, error) {
	h := make(Holidays, len(dates))
	for _, s := range dates {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		d, err := time.Parse(holidayLayout, s)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday %q: %w", s, err)
		}
		h[d.Format(holidayLayout)] = struct{}{}
	}
	return h, nil
}

func (h Holidays) contains(d time.Time) bool {
	_, ok := h[d.Format(holidayLayout)]
	return ok
}

// IsBusinessDay returns false on Saturdays, Sundays and listed holidays.
func IsBusinessDay(d time.Time, h Holidays) bool {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !h.contains(d)
}

// PreviousBusinessDay returns the closest business day strictly before from,
// truncated to midnight in from's location.
func PreviousBusinessDay(from time.Time, h Holidays) time.Time {
	d := truncateToDate(from).AddDate(0, 0, -1)
	for !IsBusinessDay(d, h) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// ResolveReportDate turns a --date argument into a report date.
//
// Accepted forms:
//   - "" or "today": the current date
//   - "prev" or "previous": the previous business day
//   - YYYYMMDD: that date, taken as-is (weekends and holidays allowed)
func ResolveReportDate(arg string, now time.Time, h Holidays) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "", "today":
		return truncateToDate(now), nil
	case "prev", "previous":
		return PreviousBusinessDay(now, h), nil
	}
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(arg), now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid report date %q (want YYYYMMDD, today or prev)", arg)
	}
	return d, nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
