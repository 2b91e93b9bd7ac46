package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ChipFlash/internal/domain/models"
	"ChipFlash/internal/domain/repository"
	"ChipFlash/pkg/logger"
	"ChipFlash/pkg/util"
)

// SchedulerConfig carries the polling window and cadence.
type SchedulerConfig struct {
	WindowStart  string // "HH:MM" market time, publishers never post earlier
	WindowEnd    string // "HH:MM" market time, cutoff after which the day is abandoned
	PollInterval time.Duration
	FetchTimeout time.Duration
}

// Scheduler drives the daily cycle: on weekdays inside the window it polls
// each not-yet-fresh source, and the first time both are fresh it merges,
// archives and auto-dispatches once. Past the cutoff an unfilled day is
// abandoned with no partial output.
//
// The clock is injected so tests can walk a day through its window without
// sleeping.
type Scheduler struct {
	fubon      repository.FubonSource
	sinopac    repository.SinopacSource
	tracker    *ReadinessTracker
	builder    *ReportBuilder
	dispatcher *Dispatcher
	events     repository.EventPublisher
	metrics    repository.Metrics
	log        *logger.Logger
	clock      func() time.Time

	startH, startM int
	endH, endM     int
	interval       time.Duration
	fetchTimeout   time.Duration
}

func NewScheduler(
	cfg SchedulerConfig,
	fubon repository.FubonSource,
	sinopac repository.SinopacSource,
	tracker *ReadinessTracker,
	builder *ReportBuilder,
	dispatcher *Dispatcher,
	events repository.EventPublisher,
	metrics repository.Metrics,
	log *logger.Logger,
	clock func() time.Time,
) (*Scheduler, error) {
	startH, startM, ok := util.ParseClock(cfg.WindowStart)
	if !ok {
		return nil, fmt.Errorf("invalid window start %q", cfg.WindowStart)
	}
	endH, endM, ok := util.ParseClock(cfg.WindowEnd)
	if !ok {
		return nil, fmt.Errorf("invalid window end %q", cfg.WindowEnd)
	}
	if clock == nil {
		clock = time.Now
	}
	return &Scheduler{
		fubon:        fubon,
		sinopac:      sinopac,
		tracker:      tracker,
		builder:      builder,
		dispatcher:   dispatcher,
		events:       events,
		metrics:      metrics,
		log:          log,
		clock:        clock,
		startH:       startH,
		startM:       startM,
		endH:         endH,
		endM:         endM,
		interval:     cfg.PollInterval,
		fetchTimeout: cfg.FetchTimeout,
	}, nil
}

// Run polls on the configured interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("scheduler started",
		logger.String("window_start", fmt.Sprintf("%02d:%02d", s.startH, s.startM)),
		logger.String("window_end", fmt.Sprintf("%02d:%02d", s.endH, s.endM)),
		logger.Duration("poll_interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.PollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.PollOnce(ctx)
		}
	}
}

// PollOnce runs a single cycle against the injected clock.
func (s *Scheduler) PollOnce(ctx context.Context) {
	now := s.clock()
	if !util.IsTradingDay(now) {
		return
	}
	day := models.DayOf(now)

	if now.Before(util.ClockAt(now, s.startH, s.startM)) {
		return
	}
	if now.After(util.ClockAt(now, s.endH, s.endM)) {
		if s.tracker.Abandon(day) {
			s.metrics.RecordDayAbandoned()
			s.log.Warn("day abandoned at cutoff without both sources fresh",
				logger.String("day", day.String()))
		}
		return
	}

	if s.tracker.Phase(day) != PhaseAwaiting {
		return
	}
	s.tracker.Expire(day)

	s.pollSources(ctx, day)

	if s.tracker.IsComplete(day) {
		s.finishDay(ctx, day)
	}
}

// pollSources fetches each source that is not yet fresh for day. Readiness
// is monotonic within a day, so a source that has delivered is not polled
// again.
func (s *Scheduler) pollSources(ctx context.Context, day models.TradingDay) {
	fubon, sinopac := s.tracker.Payloads(day)

	if fubon == nil {
		fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		p, err := s.fubon.Fetch(fctx, day)
		cancel()
		s.recordPoll(models.SourceFubon, err)
		if err == nil {
			s.tracker.RecordFubon(p)
		}
	}

	if sinopac == nil {
		fctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
		p, err := s.sinopac.Fetch(fctx, day)
		cancel()
		s.recordPoll(models.SourceSinopac, err)
		if err == nil {
			s.tracker.RecordSinopac(p)
		}
	}
}

func (s *Scheduler) recordPoll(src models.Source, err error) {
	switch {
	case err == nil:
		s.metrics.RecordPoll(string(src), "fresh")
		s.metrics.RecordSourceReady(string(src), true)
	case errors.Is(err, models.ErrNotReady):
		s.metrics.RecordPoll(string(src), "not_ready")
		s.metrics.RecordSourceReady(string(src), false)
	default:
		s.metrics.RecordPoll(string(src), "error")
		s.metrics.RecordAdapterError(string(src))
		s.log.Warn("source fetch failed", logger.String("source", string(src)), logger.Error(err))
	}
}

// finishDay runs the pipeline once both sources are fresh. A rejected merge
// freezes the day as failed so automatic attempts stop; a failed push leaves
// the day awaiting so the next cycle retries with the recorded payloads.
func (s *Scheduler) finishDay(ctx context.Context, day models.TradingDay) {
	fubon, sinopac := s.tracker.Payloads(day)

	rep, text, err := s.builder.Build(ctx, day, fubon, sinopac)
	if err != nil {
		s.tracker.Fail(day)
		s.log.Error("merge rejected, day frozen as failed",
			logger.String("day", day.String()), logger.Error(err))
		return
	}

	result, err := s.dispatcher.TryAutoDispatch(ctx, day, text)
	if err != nil {
		s.log.Warn("automatic dispatch failed, will retry next cycle",
			logger.String("day", day.String()), logger.Error(err))
		return
	}
	s.tracker.Complete(day)

	if result == DispatchSent && s.events != nil {
		if err := s.events.PublishReport(ctx, rep); err != nil {
			s.log.Warn("report event publish failed",
				logger.String("day", day.String()), logger.Error(err))
		}
	}
}
