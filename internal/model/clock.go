package model

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the persisted booking date format.
	DateLayout = "2006-01-02"
	// ClockLayout is the persisted HH:MM format.
	ClockLayout = "15:04"
	// MinutesPerDay bounds Clock values.
	MinutesPerDay = 24 * 60
)

// Clock is a wall-clock time of day in minutes since midnight.
type Clock int

// ParseClock parses HH:MM.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

// String renders the clock as zero padded HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// CanonicalClock renders s as zero padded HH:MM so "9:30" and "09:30" name
// the same slot. Unparseable input is returned unchanged.
func CanonicalClock(s string) string {
	c, err := ParseClock(s)
	if err != nil {
		return s
	}
	return c.String()
}

// ParseDate parses YYYY-MM-DD in the given location.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

// SlotTime combines a booking date and time into an instant in loc. The
// wall clock is kept on days with a DST transition.
func SlotTime(date, clock string, loc *time.Location) (time.Time, error) {
	d, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	c, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), int(c)/60, int(c)%60, 0, 0, loc), nil
}
