package calendar

import (
	"os"
	"time"
)

// Clock supplies the current instant. Engine code receives "today" from a
// Clock and never reads the system clock itself.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return time.Time(c) }

// FixedDay returns a Clock pinned to noon of d in the local zone, so that
// Today() yields d regardless of the process time zone.
func FixedDay(d Date) Clock {
	return FixedClock(time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.Local))
}

// Today returns the calendar day of c.Now() in the clock's own location.
func Today(c Clock) Date {
	return FromTime(c.Now())
}

// ClockFromEnv returns a fixed clock when the named environment variable holds
// a valid date, and the system clock otherwise.
func ClockFromEnv(key string) (Clock, error) {
	v := os.Getenv(key)
	if v == "" {
		return SystemClock{}, nil
	}
	d, err := Parse(v)
	if err != nil {
		return nil, err
	}
	return FixedDay(d), nil
}
