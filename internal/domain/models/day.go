package models

import (
	"time"

	"ChipFlash/pkg/util"
)

// TradingDay identifies one report cycle: a calendar date in market time,
// canonically rendered as "YYYY/MM/DD". It is used directly as a map and
// ledger key.
type TradingDay string

// DayOf returns the TradingDay containing t.
func DayOf(t time.Time) TradingDay {
	return TradingDay(util.FormatDay(t))
}

func (d TradingDay) String() string {
	return string(d)
}

// Time parses the trading day back to midnight market time.
func (d TradingDay) Time() (time.Time, error) {
	return time.ParseInLocation(util.DayFormat, string(d), util.Taipei())
}
