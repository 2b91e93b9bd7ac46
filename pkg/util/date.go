package util

import (
	"time"
)

// DayFormat is the canonical trading-day layout used in keys and reports.
const DayFormat = "2006/01/02"

var taipei *time.Location

func init() {
	loc, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		// Taiwan has no DST; a fixed offset is equivalent.
		loc = time.FixedZone("CST", 8*3600)
	}
	taipei = loc
}

// Taipei returns the market timezone.
func Taipei() *time.Location {
	return taipei
}

// TradingDayOf truncates t to its calendar date in market time.
func TradingDayOf(t time.Time) time.Time {
	lt := t.In(taipei)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, taipei)
}

// IsTradingDay reports whether t falls on a weekday in market time.
// Exchange holidays are not tracked here: on a holiday neither publisher
// posts a report and the day simply expires unfilled.
func IsTradingDay(t time.Time) bool {
	wd := t.In(taipei).Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// ParseClock parses an "HH:MM" time-of-day string.
func ParseClock(s string) (hour, min int, ok bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}

// ClockAt anchors an "HH:MM" time-of-day onto the calendar date of t in market time.
func ClockAt(t time.Time, hour, min int) time.Time {
	lt := t.In(taipei)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), hour, min, 0, 0, taipei)
}

// FormatDay renders a trading day in the canonical layout.
func FormatDay(day time.Time) string {
	return day.In(taipei).Format(DayFormat)
}

// SameDay reports whether a and b are the same calendar date in market time.
func SameDay(a, b time.Time) bool {
	return TradingDayOf(a).Equal(TradingDayOf(b))
}
