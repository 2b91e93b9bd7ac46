package usecase

import (
	"context"
	"testing"
	"time"

	"ChipFlash/internal/domain/models"
	"ChipFlash/pkg/logger"

	"github.com/stretchr/testify/require"
)

const testPhrase = "盤後籌碼2025"

type triggerHarness struct {
	fubon   *fakeFubon
	sinopac *fakeSinopac
	tracker *ReadinessTracker
	archive *fakeArchive
	pusher  *fakePusher
	ledger  *fakeLedger
	trigger *Trigger
}

func newTriggerHarness(t *testing.T, clock func() time.Time) *triggerHarness {
	t.Helper()
	h := &triggerHarness{
		fubon:   &fakeFubon{err: models.ErrNotReady},
		sinopac: &fakeSinopac{err: models.ErrNotReady},
		tracker: NewReadinessTracker(),
		archive: &fakeArchive{},
		pusher:  &fakePusher{},
		ledger:  newFakeLedger(),
	}
	log := logger.Nop()
	dispatcher := NewDispatcher(h.ledger, h.pusher, "group-1", newFakeMetrics(), log)
	builder := NewReportBuilder(NewReconciler(clock), NewFormatter(), h.archive, nil, log)
	h.trigger = NewTrigger(testPhrase, h.fubon, h.sinopac, h.tracker, builder, dispatcher, log, clock, time.Second)
	return h
}

func TestTrigger_IgnoresNonMatchingText(t *testing.T) {
	h := newTriggerHarness(t, mustClock("2025/03/10 20:00"))

	require.NoError(t, h.trigger.HandleText(context.Background(), "user-1", true, "盤後籌碼"))
	require.NoError(t, h.trigger.HandleText(context.Background(), "user-1", true, testPhrase+" "))
	require.NoError(t, h.trigger.HandleText(context.Background(), "user-1", true, "hello"))

	require.Empty(t, h.pusher.sent())
	require.Zero(t, h.fubon.calls)
}

func TestTrigger_IgnoresGroupChat(t *testing.T) {
	h := newTriggerHarness(t, mustClock("2025/03/10 20:00"))

	require.NoError(t, h.trigger.HandleText(context.Background(), "user-1", false, testPhrase))

	require.Empty(t, h.pusher.sent())
	require.Zero(t, h.fubon.calls)
}

func TestTrigger_DeliversReportToRequester(t *testing.T) {
	day := models.TradingDay("2025/03/10")
	h := newTriggerHarness(t, mustClock("2025/03/10 20:00"))
	h.fubon.set(fullFubonPayload(day), nil)
	h.sinopac.set(fullSinopacPayload(day), nil)

	require.NoError(t, h.trigger.HandleText(context.Background(), "user-1", true, testPhrase))

	sent := h.pusher.sent()
	require.Len(t, sent, 1)
	require.Equal(t, "user-1", sent[0].To)
	require.Contains(t, sent[0].Text, "【期貨盤後籌碼整合快報】2025/03/10")

	// Manual delivery never claims the day's automatic push.
	claimed, err := h.ledger.AlreadySent(context.Background(), day)
	require.NoError(t, err)
	require.False(t, claimed)
}

func TestTrigger_AlwaysRefetches(t *testing.T) {
	day := models.TradingDay("2025/03/10")
	h := newTriggerHarness(t, mustClock("2025/03/10 20:00"))
	h.fubon.set(fullFubonPayload(day), nil)
	h.sinopac.set(fullSinopacPayload(day), nil)

	require.NoError(t, h.trigger.HandleText(context.Background(), "user-1", true, testPhrase))
	require.NoError(t, h.trigger.HandleText(context.Background(), "user-1", true, testPhrase))

	require.Equal(t, 2, h.fubon.calls)
	require.Equal(t, 2, h.sinopac.calls)
	require.Len(t, h.pusher.sent(), 2)
}

func TestTrigger_NotAvailableWhenSourceLags(t *testing.T) {
	day := models.TradingDay("2025/03/10")
	h := newTriggerHarness(t, mustClock("2025/03/10 20:00"))
	h.fubon.set(fullFubonPayload(day), nil)
	// SinoPac still returns ErrNotReady.

	require.NoError(t, h.trigger.HandleText(context.Background(), "user-1", true, testPhrase))

	sent := h.pusher.sent()
	require.Len(t, sent, 1)
	require.Equal(t, msgNotAvailable, sent[0].Text)
	require.Empty(t, h.archive.stored)
}

func TestTrigger_NotAvailableWhenBothLag(t *testing.T) {
	h := newTriggerHarness(t, mustClock("2025/03/10 20:00"))

	require.NoError(t, h.trigger.HandleText(context.Background(), "user-1", true, testPhrase))

	sent := h.pusher.sent()
	require.Len(t, sent, 1)
	// Same wording whether one source or both are missing.
	require.Equal(t, msgNotAvailable, sent[0].Text)
}

func TestTrigger_NonTradingDayReply(t *testing.T) {
	h := newTriggerHarness(t, mustClock("2025/03/09 20:00")) // Sunday

	require.NoError(t, h.trigger.HandleText(context.Background(), "user-1", true, testPhrase))

	sent := h.pusher.sent()
	require.Len(t, sent, 1)
	require.Equal(t, msgNoReportExpected, sent[0].Text)
	require.Zero(t, h.fubon.calls)
}

func TestTrigger_ProcessingFailureReply(t *testing.T) {
	day := models.TradingDay("2025/03/10")
	h := newTriggerHarness(t, mustClock("2025/03/10 20:00"))
	broken := fullSinopacPayload(day)
	broken.PCRatio = nil
	h.fubon.set(fullFubonPayload(day), nil)
	h.sinopac.set(broken, nil)

	require.NoError(t, h.trigger.HandleText(context.Background(), "user-1", true, testPhrase))

	sent := h.pusher.sent()
	require.Len(t, sent, 1)
	require.Equal(t, msgProcessingFailed, sent[0].Text)
}

func TestTrigger_WorksOutsideWindow(t *testing.T) {
	day := models.TradingDay("2025/03/10")
	h := newTriggerHarness(t, mustClock("2025/03/10 09:00")) // before window
	h.fubon.set(fullFubonPayload(day), nil)
	h.sinopac.set(fullSinopacPayload(day), nil)

	require.NoError(t, h.trigger.HandleText(context.Background(), "user-1", true, testPhrase))

	require.Len(t, h.pusher.sent(), 1)
	require.Contains(t, h.pusher.sent()[0].Text, "【期貨盤後籌碼整合快報】")
}
