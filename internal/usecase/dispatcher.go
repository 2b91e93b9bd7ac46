package usecase

import (
	"context"
	"sync"
	"time"

	"ChipFlash/internal/domain/models"
	"ChipFlash/internal/domain/repository"
	"ChipFlash/pkg/logger"
)

// DispatchResult is the outcome of an automatic dispatch attempt.
type DispatchResult int

const (
	// DispatchSent means this attempt pushed the report.
	DispatchSent DispatchResult = iota
	// DispatchDuplicate means the day's automatic push already happened,
	// here or in a previous process life.
	DispatchDuplicate
)

// Dispatcher guards the at-most-once automatic push per trading day and
// performs unrestricted manual pushes. The check-push-mark sequence runs
// under a single mutex so two concurrent automatic attempts can never both
// push; the ledger extends the guarantee across restarts.
type Dispatcher struct {
	mu      sync.Mutex
	ledger  repository.DispatchLedger
	pusher  repository.MessagePusher
	groupID string
	metrics repository.Metrics
	log     *logger.Logger
}

func NewDispatcher(ledger repository.DispatchLedger, pusher repository.MessagePusher, groupID string, metrics repository.Metrics, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		ledger:  ledger,
		pusher:  pusher,
		groupID: groupID,
		metrics: metrics,
		log:     log,
	}
}

// TryAutoDispatch pushes text to the configured group if day has not been
// automatically dispatched yet. The ledger is marked only after the channel
// accepts the push; a failed push leaves the day unclaimed so the caller
// retries on its next cycle.
func (d *Dispatcher) TryAutoDispatch(ctx context.Context, day models.TradingDay, text string) (DispatchResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	sent, err := d.ledger.AlreadySent(ctx, day)
	if err != nil {
		return 0, err
	}
	if sent {
		d.metrics.RecordDispatch("auto", "duplicate")
		return DispatchDuplicate, nil
	}

	start := time.Now()
	if err := d.pusher.Push(ctx, d.groupID, text); err != nil {
		d.metrics.RecordDispatch("auto", "error")
		return 0, err
	}
	d.metrics.RecordPushLatency(time.Since(start).Seconds())

	claimed, err := d.ledger.MarkSent(ctx, day)
	if err != nil {
		// The push went out; failing to record it risks a duplicate
		// tomorrow only if the process restarts today. Log loudly and
		// report success.
		d.log.Error("dispatch sent but ledger mark failed",
			logger.String("day", day.String()), logger.Error(err))
	} else if !claimed {
		d.log.Warn("ledger already marked by another process after push",
			logger.String("day", day.String()))
	}

	d.metrics.RecordDispatch("auto", "sent")
	d.log.Info("report dispatched",
		logger.String("day", day.String()), logger.String("path", "auto"))
	return DispatchSent, nil
}

// ManualDispatch pushes text to a single requester. It never consults or
// touches the ledger: manual deliveries are unlimited and do not consume
// the day's automatic push.
func (d *Dispatcher) ManualDispatch(ctx context.Context, to string, text string) error {
	start := time.Now()
	if err := d.pusher.Push(ctx, to, text); err != nil {
		d.metrics.RecordDispatch("manual", "error")
		return err
	}
	d.metrics.RecordPushLatency(time.Since(start).Seconds())
	d.metrics.RecordDispatch("manual", "sent")
	return nil
}
