// Package calendar provides day-granularity dates for completion tracking.
//
// A Date carries no time of day and no location. Dates are always stored and
// exchanged as "YYYY-MM-DD" strings; that is the only format that round-trips.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the only text form a Date is parsed from or formatted to.
const Layout = "2006-01-02"

// ErrInvalidDate is returned when text is not a well-formed calendar date.
var ErrInvalidDate = errors.New("invalid date")

// Date is a calendar day. The zero value is "no date".
// Dates are comparable with == and ordered with Compare.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New returns the Date for year, month, day, normalizing overflow the way
// time.Date does (e.g. Jan 32 becomes Feb 1).
func New(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime returns the calendar day of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Parse parses a strict YYYY-MM-DD string.
func Parse(text string) (Date, error) {
	t, err := time.Parse(Layout, text)
	if err != nil {
		return Date{}, fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalidDate, text)
	}
	return FromTime(t), nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(text string) Date {
	d, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(Layout)
}

// AddDays returns d shifted by n days (n may be negative).
func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// Weekday returns the day of the week of d.
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// InMonth reports whether d falls in the given month of year.
func (d Date) InMonth(year int, month time.Month) bool {
	return d.Year == year && d.Month == month
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the signed number of days from a to b (b - a).
func DaysBetween(a, b Date) int {
	// Both sides are UTC midnights. Unix seconds do not saturate the way a
	// time.Duration does past ~292 years.
	return int((b.Time().Unix() - a.Time().Unix()) / secondsPerDay)
}

// IsConsecutive reports whether b is exactly the day after a.
func IsConsecutive(a, b Date) bool {
	return DaysBetween(a, b) == 1
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseMonth parses a "YYYY-MM" string.
func ParseMonth(text string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", text)
	if err != nil {
		return 0, 0, fmt.Errorf("%w %q: expected YYYY-MM", ErrInvalidDate, text)
	}
	return t.Year(), t.Month(), nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
