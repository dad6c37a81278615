// Package age renders the time elapsed since a birth date as a short,
// human-readable string such as "34 years, 2 months, 5 days old".
//
// The arithmetic is calendar based and deliberately simple: when the day of
// month has not been reached yet, a full month of days is borrowed using the
// length of the reference month, not the month before it. If that month is
// too short to cover the gap, the day count stops at zero.
package age

import (
	"fmt"
	"strings"
	"time"
)

// CalendarDate is a day on the calendar without a time of day or zone.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// Date builds a CalendarDate
func Date(year int, month time.Month, day int) CalendarDate {
	return CalendarDate{Year: year, Month: month, Day: day}
}

// FromTime returns the calendar day of t in t's own location
func FromTime(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// Today returns the current calendar day in UTC
func Today() CalendarDate {
	return FromTime(time.Now().UTC())
}

var isoLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseISO parses an ISO-8601 date, with or without a time component
func ParseISO(s string) (CalendarDate, error) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FromTime(t), nil
		}
	}
	return CalendarDate{}, fmt.Errorf("invalid ISO date: %q", s)
}

// String formats the date as YYYY-MM-DD
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Before reports whether d is strictly earlier than other
func (d CalendarDate) Before(other CalendarDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// DaysIn returns the number of days in the given month
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Breakdown is an elapsed time split into calendar units
type Breakdown struct {
	Years  int
	Months int
	Days   int
}

// Between splits the time from birth to today into years, months and days.
// today must not precede birth; the result is meaningless otherwise.
func Between(birth, today CalendarDate) Breakdown {
	caughtUp := today.Day >= birth.Day
	passed := today.Month > birth.Month || (today.Month == birth.Month && caughtUp)

	years := today.Year - birth.Year
	if !passed {
		years--
	}

	months := int(today.Month) - int(birth.Month)
	if birth.Month >= today.Month && !passed {
		months += 12
	}
	if !caughtUp {
		months--
	}

	days := today.Day - birth.Day
	if !caughtUp {
		// Borrows the reference month's length.
		days += DaysIn(today.Year, today.Month)
	}
	// A reference month shorter than the birth day can still leave the
	// count below zero; nothing is left over then.
	if days < 0 {
		days = 0
	}

	return Breakdown{Years: years, Months: months, Days: days}
}

// String renders the breakdown, omitting zero units and appending " old"
func (b Breakdown) String() string {
	var parts []string
	for _, u := range []struct {
		n        int
		one, many string
	}{
		{b.Years, "year", "years"},
		{b.Months, "month", "months"},
		{b.Days, "day", "days"},
	} {
		switch {
		case u.n == 0:
			continue
		case u.n == 1:
			parts = append(parts, "1 "+u.one)
		default:
			parts = append(parts, fmt.Sprintf("%d %s", u.n, u.many))
		}
	}
	return strings.TrimSpace(strings.Join(parts, ", ") + " old")
}

// Describe returns the age string for someone born on birth, as of today
func Describe(birth, today CalendarDate) string {
	return Between(birth, today).String()
}
