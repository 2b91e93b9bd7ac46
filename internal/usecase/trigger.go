package usecase

import (
	"context"
	"errors"
	"time"

	"ChipFlash/internal/domain/models"
	"ChipFlash/internal/domain/repository"
	"ChipFlash/pkg/logger"
	"ChipFlash/pkg/util"
)

// Trigger serves the on-demand path: an exact secret phrase in a one-on-one
// chat. It always re-fetches both sources so the requester sees live
// publisher state, merges only when both came back fresh, and otherwise
// replies with a fixed not-available message. It never consults the
// dispatch ledger and runs at any hour, window or not.
type Trigger struct {
	phrase       string
	fubon        repository.FubonSource
	sinopac      repository.SinopacSource
	tracker      *ReadinessTracker
	builder      *ReportBuilder
	dispatcher   *Dispatcher
	log          *logger.Logger
	clock        func() time.Time
	fetchTimeout time.Duration
}

func NewTrigger(
	phrase string,
	fubon repository.FubonSource,
	sinopac repository.SinopacSource,
	tracker *ReadinessTracker,
	builder *ReportBuilder,
	dispatcher *Dispatcher,
	log *logger.Logger,
	clock func() time.Time,
	fetchTimeout time.Duration,
) *Trigger {
	if clock == nil {
		clock = time.Now
	}
	return &Trigger{
		phrase:       phrase,
		fubon:        fubon,
		sinopac:      sinopac,
		tracker:      tracker,
		builder:      builder,
		dispatcher:   dispatcher,
		log:          log,
		clock:        clock,
		fetchTimeout: fetchTimeout,
	}
}

// HandleText processes one inbound text message. Anything that is not the
// exact secret phrase in a private chat is silently ignored; the phrase is
// never acknowledged outside that path.
func (t *Trigger) HandleText(ctx context.Context, userID string, private bool, text string) error {
	if !private || text != t.phrase {
		return nil
	}

	now := t.clock()
	day := models.DayOf(now)
	t.log.Info("manual report requested", logger.String("day", day.String()))

	if !util.IsTradingDay(now) {
		return t.dispatcher.ManualDispatch(ctx, userID, msgNoReportExpected)
	}

	fubon, sinopac := t.fetchBoth(ctx, day)
	if fubon == nil || sinopac == nil {
		return t.dispatcher.ManualDispatch(ctx, userID, msgNotAvailable)
	}

	_, rendered, err := t.builder.Build(ctx, day, fubon, sinopac)
	if err != nil {
		t.log.Error("manual merge rejected",
			logger.String("day", day.String()), logger.Error(err))
		return t.dispatcher.ManualDispatch(ctx, userID, msgProcessingFailed)
	}

	return t.dispatcher.ManualDispatch(ctx, userID, rendered)
}

// fetchBoth re-fetches both sources unconditionally. Successes are also
// recorded in the tracker so a manual fetch can advance the scheduled
// path's readiness; the tracker ignores the record once the day is frozen.
func (t *Trigger) fetchBoth(ctx context.Context, day models.TradingDay) (*models.FubonPayload, *models.SinopacPayload) {
	fctx, cancel := context.WithTimeout(ctx, t.fetchTimeout)
	fubon, err := t.fubon.Fetch(fctx, day)
	cancel()
	if err != nil {
		t.logFetch(models.SourceFubon, err)
		fubon = nil
	} else {
		t.tracker.RecordFubon(fubon)
	}

	sctx, cancel := context.WithTimeout(ctx, t.fetchTimeout)
	sinopac, err := t.sinopac.Fetch(sctx, day)
	cancel()
	if err != nil {
		t.logFetch(models.SourceSinopac, err)
		sinopac = nil
	} else {
		t.tracker.RecordSinopac(sinopac)
	}

	return fubon, sinopac
}

func (t *Trigger) logFetch(src models.Source, err error) {
	if errors.Is(err, models.ErrNotReady) {
		t.log.Debug("source not ready for manual request", logger.String("source", string(src)))
		return
	}
	t.log.Warn("manual fetch failed", logger.String("source", string(src)), logger.Error(err))
}
