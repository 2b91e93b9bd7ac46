package repository

import (
	"context"

	"ChipFlash/internal/domain/models"
)

// FubonSource fetches and extracts Fubon's chip report for a trading day.
// Implementations return models.ErrNotReady (possibly wrapped) when the
// publisher has not yet posted a report dated exactly that day.
type FubonSource interface {
	Fetch(ctx context.Context, day models.TradingDay) (*models.FubonPayload, error)
}

// SinopacSource fetches and extracts SinoPac's chip report for a trading day.
// Same freshness contract as FubonSource.
type SinopacSource interface {
	Fetch(ctx context.Context, day models.TradingDay) (*models.SinopacPayload, error)
}

// MessagePusher delivers a text message to one recipient on the messaging
// channel. Push returns only after the channel has accepted the message.
type MessagePusher interface {
	Push(ctx context.Context, to string, text string) error
}

// DispatchLedger records which trading days have had their automatic push.
// MarkSent is first-writer-wins: it returns false when another process (or a
// previous run of this one) already claimed the day.
type DispatchLedger interface {
	AlreadySent(ctx context.Context, day models.TradingDay) (bool, error)
	MarkSent(ctx context.Context, day models.TradingDay) (bool, error)
}

// ReportArchive persists canonical reports and serves the most recent report
// before a given day, which is the sole source of day-over-day deltas.
// LastBefore returns models.ErrNoPriorReport when the archive holds nothing
// earlier than day.
type ReportArchive interface {
	Store(ctx context.Context, report *models.CanonicalReport) error
	LastBefore(ctx context.Context, day models.TradingDay) (*models.CanonicalReport, error)
}

// EventPublisher emits a dispatched canonical report to downstream consumers.
type EventPublisher interface {
	PublishReport(ctx context.Context, report *models.CanonicalReport) error
	Close() error
}

// Metrics records operational counters for the polling and dispatch paths.
type Metrics interface {
	RecordPoll(source, result string)
	RecordAdapterError(source string)
	RecordDispatch(path, result string)
	RecordDayAbandoned()
	RecordPushLatency(seconds float64)
	RecordSourceReady(source string, ready bool)
}
