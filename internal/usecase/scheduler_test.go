package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"ChipFlash/internal/domain/models"
	"ChipFlash/internal/domain/repository"
	"ChipFlash/pkg/logger"

	"github.com/stretchr/testify/require"
)

type schedulerHarness struct {
	fubon   *fakeFubon
	sinopac *fakeSinopac
	tracker *ReadinessTracker
	archive *fakeArchive
	pusher  *fakePusher
	ledger  *fakeLedger
	events  *fakeEvents
	metrics *fakeMetrics
	sched   *Scheduler
}

func newSchedulerHarness(t *testing.T, clock func() time.Time) *schedulerHarness {
	t.Helper()
	h := &schedulerHarness{
		fubon:   &fakeFubon{err: models.ErrNotReady},
		sinopac: &fakeSinopac{err: models.ErrNotReady},
		tracker: NewReadinessTracker(),
		archive: &fakeArchive{},
		pusher:  &fakePusher{},
		ledger:  newFakeLedger(),
		events:  &fakeEvents{},
		metrics: newFakeMetrics(),
	}
	log := logger.Nop()
	dispatcher := NewDispatcher(h.ledger, h.pusher, "group-1", h.metrics, log)
	builder := NewReportBuilder(NewReconciler(clock), NewFormatter(), h.archive, nil, log)

	var err error
	h.sched, err = NewScheduler(
		SchedulerConfig{
			WindowStart:  "14:45",
			WindowEnd:    "16:30",
			PollInterval: time.Minute,
			FetchTimeout: time.Second,
		},
		h.fubon, h.sinopac, h.tracker, builder, dispatcher,
		h.events, h.metrics, log, clock,
	)
	require.NoError(t, err)
	return h
}

// 2025/03/10 is a Monday.

func TestScheduler_SkipsBeforeWindow(t *testing.T) {
	h := newSchedulerHarness(t, mustClock("2025/03/10 14:30"))
	h.sched.PollOnce(context.Background())
	require.Zero(t, h.fubon.calls)
	require.Zero(t, h.sinopac.calls)
}

func TestScheduler_SkipsWeekend(t *testing.T) {
	h := newSchedulerHarness(t, mustClock("2025/03/08 15:00"))
	h.sched.PollOnce(context.Background())
	require.Zero(t, h.fubon.calls)
}

func TestScheduler_DispatchesWhenBothFresh(t *testing.T) {
	day := models.TradingDay("2025/03/10")
	h := newSchedulerHarness(t, mustClock("2025/03/10 15:00"))
	h.fubon.set(fullFubonPayload(day), nil)
	h.sinopac.set(fullSinopacPayload(day), nil)

	h.sched.PollOnce(context.Background())

	sent := h.pusher.sent()
	require.Len(t, sent, 1)
	require.Equal(t, "group-1", sent[0].To)
	require.Contains(t, sent[0].Text, "【期貨盤後籌碼整合快報】2025/03/10")
	require.Equal(t, PhaseComplete, h.tracker.Phase(day))
	require.Len(t, h.archive.stored, 1)
	require.Len(t, h.events.published, 1)
}

func TestScheduler_StopsPollingAfterComplete(t *testing.T) {
	day := models.TradingDay("2025/03/10")
	h := newSchedulerHarness(t, mustClock("2025/03/10 15:00"))
	h.fubon.set(fullFubonPayload(day), nil)
	h.sinopac.set(fullSinopacPayload(day), nil)

	h.sched.PollOnce(context.Background())
	fubonCalls := h.fubon.calls

	h.sched.PollOnce(context.Background())
	h.sched.PollOnce(context.Background())

	require.Equal(t, fubonCalls, h.fubon.calls)
	require.Len(t, h.pusher.sent(), 1)
}

func TestScheduler_WaitsForLaggardSource(t *testing.T) {
	day := models.TradingDay("2025/03/10")
	h := newSchedulerHarness(t, mustClock("2025/03/10 15:00"))
	h.fubon.set(fullFubonPayload(day), nil)

	h.sched.PollOnce(context.Background())
	require.Empty(t, h.pusher.sent())
	require.Equal(t, PhaseAwaiting, h.tracker.Phase(day))

	// Fubon is fresh; only SinoPac keeps getting polled.
	fubonCalls := h.fubon.calls
	h.sched.PollOnce(context.Background())
	require.Equal(t, fubonCalls, h.fubon.calls)

	h.sinopac.set(fullSinopacPayload(day), nil)
	h.sched.PollOnce(context.Background())
	require.Len(t, h.pusher.sent(), 1)
}

func TestScheduler_AbandonsAtCutoff(t *testing.T) {
	day := models.TradingDay("2025/03/10")
	h := newSchedulerHarness(t, mustClock("2025/03/10 16:31"))

	h.sched.PollOnce(context.Background())
	h.sched.PollOnce(context.Background())

	require.Empty(t, h.pusher.sent())
	require.Equal(t, PhaseAbandoned, h.tracker.Phase(day))
	require.Equal(t, 1, h.metrics.abandoned)
}

func TestScheduler_MergeRejectionFreezesDay(t *testing.T) {
	day := models.TradingDay("2025/03/10")
	h := newSchedulerHarness(t, mustClock("2025/03/10 15:00"))
	broken := fullFubonPayload(day)
	broken.InstTotal = nil
	h.fubon.set(broken, nil)
	h.sinopac.set(fullSinopacPayload(day), nil)

	h.sched.PollOnce(context.Background())
	h.sched.PollOnce(context.Background())

	require.Empty(t, h.pusher.sent())
	require.Empty(t, h.archive.stored)
	require.Equal(t, PhaseFailed, h.tracker.Phase(day))
}

func TestScheduler_RetriesDispatchAfterPushFailure(t *testing.T) {
	day := models.TradingDay("2025/03/10")
	h := newSchedulerHarness(t, mustClock("2025/03/10 15:00"))
	h.fubon.set(fullFubonPayload(day), nil)
	h.sinopac.set(fullSinopacPayload(day), nil)
	h.pusher.setErr(errors.New("channel down"))

	h.sched.PollOnce(context.Background())
	require.Equal(t, PhaseAwaiting, h.tracker.Phase(day))
	require.Empty(t, h.pusher.sent())

	h.pusher.setErr(nil)
	h.sched.PollOnce(context.Background())
	require.Len(t, h.pusher.sent(), 1)
	require.Equal(t, PhaseComplete, h.tracker.Phase(day))
}

func TestScheduler_AdapterErrorKeepsWaiting(t *testing.T) {
	day := models.TradingDay("2025/03/10")
	h := newSchedulerHarness(t, mustClock("2025/03/10 15:00"))
	h.fubon.set(nil, errors.New("http 500"))

	h.sched.PollOnce(context.Background())

	require.Empty(t, h.pusher.sent())
	require.Equal(t, PhaseAwaiting, h.tracker.Phase(day))
	require.Equal(t, 1, h.metrics.polls["fubon/error"])
	require.Equal(t, 1, h.metrics.polls["sinopac/not_ready"])
}

var _ repository.Metrics = (*fakeMetrics)(nil)
