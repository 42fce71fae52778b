// Package timeutil holds the calendar and duration helpers shared by the
// attendance, summary and payroll packages. Calendar dates are represented
// as time.Time values at midnight UTC so they compare and hash by value.
package timeutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	ISODate   = "2006-01-02"
	LabelDate = "02-01-2006"
)

var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD or DD-MM-YYYY")

// DurationString renders d as "Xh Ym", flooring to whole minutes.
// Hours are not wrapped at 24 and negative durations render as "0h 0m".
func DurationString(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int64(d / time.Minute)
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// Date builds a calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CivilDate returns the calendar date of instant t as observed in loc.
func CivilDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return Date(y, m, d)
}

// DateKey formats a calendar date as YYYY-MM-DD.
func DateKey(date time.Time) string {
	return date.Format(ISODate)
}

// DateLabel formats a calendar date as DD-MM-YYYY.
func DateLabel(date time.Time) string {
	return date.Format(LabelDate)
}

// ParseDateParam accepts both YYYY-MM-DD and DD-MM-YYYY.
func ParseDateParam(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) != 10 {
		return time.Time{}, ErrInvalidDate
	}
	layout := ISODate
	if s[2] == '-' && s[5] == '-' {
		layout = LabelDate
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// DaysInMonth reports the number of days in month of year, leap years included.
func DaysInMonth(month time.Month, year int) int {
	return Date(year, month+1, 0).Day()
}

// MonthRange returns the first and last calendar date of month.
func MonthRange(month time.Month, year int) (time.Time, time.Time) {
	return Date(year, month, 1), Date(year, month, DaysInMonth(month, year))
}

// MaxSpanDays bounds DaysBetween. Request ranges are validated against
// tighter limits long before this one.
const MaxSpanDays = 3660

// DayCount is the number of calendar dates from start to end inclusive,
// computed without walking the range. It is 0 when end is before start.
func DayCount(start, end time.Time) int64 {
	s, e := Date(start.Date()), Date(end.Date())
	if e.Before(s) {
		return 0
	}
	return (e.Unix()-s.Unix())/86400 + 1
}

// DaysBetween lists every calendar date from start to end inclusive. It
// returns nil for ranges longer than MaxSpanDays.
func DaysBetween(start, end time.Time) []time.Time {
	n := DayCount(start, end)
	if n == 0 || n > MaxSpanDays {
		return nil
	}
	days := make([]time.Time, 0, n)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// TimeOfDay is a wall-clock time without a date, such as a shift start.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q, expected HH:MM", s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On returns the instant at which t occurs on date in loc.
func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, loc)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
