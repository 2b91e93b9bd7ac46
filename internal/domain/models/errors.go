package models

import (
	"errors"
	"fmt"
)

// ErrNotReady signals that a publisher has not yet posted a report dated
// exactly the requested trading day. It is an expected, recurring condition
// during the polling window, not a failure.
var ErrNotReady = errors.New("source report not ready")

// ErrNoPriorReport is returned by archives when no earlier canonical report
// exists; day-over-day deltas are then unavailable rather than zero.
var ErrNoPriorReport = errors.New("no prior report")

// DataIncompleteError marks a fresh payload that is missing a required field.
// It is fatal for the day's report: the template may never render partially
// filled, and a missing field usually means the publisher changed its layout.
type DataIncompleteError struct {
	Source Source
	Field  string
}

func (e *DataIncompleteError) Error() string {
	return fmt.Sprintf("payload from %s missing required field %q", e.Source, e.Field)
}

// StalePayloadError marks a payload dated a different day than requested.
type StalePayloadError struct {
	Source Source
	Want   TradingDay
	Got    TradingDay
}

func (e *StalePayloadError) Error() string {
	return fmt.Sprintf("payload from %s dated %s, want %s", e.Source, e.Got, e.Want)
}
