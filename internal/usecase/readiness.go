package usecase

import (
	"sync"

	"ChipFlash/internal/domain/models"
)

// DayPhase is the lifecycle phase of one trading day's report cycle.
type DayPhase int

const (
	// PhaseAwaiting means at least one source is still missing a fresh
	// payload, or the finishing pipeline has not yet dispatched.
	PhaseAwaiting DayPhase = iota
	// PhaseComplete means the day's report was merged and dispatched.
	PhaseComplete
	// PhaseAbandoned means the cutoff passed without both sources fresh.
	PhaseAbandoned
	// PhaseFailed means both sources were fresh but the merge was rejected,
	// usually a missing field after a publisher layout change. Automatic
	// attempts stop; manual triggers still retry from scratch.
	PhaseFailed
)

func (p DayPhase) String() string {
	switch p {
	case PhaseAwaiting:
		return "awaiting"
	case PhaseComplete:
		return "complete"
	case PhaseAbandoned:
		return "abandoned"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

type dayState struct {
	fubon   *models.FubonPayload
	sinopac *models.SinopacPayload
	phase   DayPhase
}

// ReadinessTracker holds, per trading day, the latest fresh payload from
// each source and the day's lifecycle phase. Recording is last-write-wins
// while the day is still awaiting; once a day leaves the awaiting phase its
// payloads are frozen. All methods are safe for concurrent use and none of
// them performs I/O, so callers fetch outside and record after.
type ReadinessTracker struct {
	mu   sync.Mutex
	days map[models.TradingDay]*dayState
}

func NewReadinessTracker() *ReadinessTracker {
	return &ReadinessTracker{days: make(map[models.TradingDay]*dayState)}
}

func (t *ReadinessTracker) state(day models.TradingDay) *dayState {
	st, ok := t.days[day]
	if !ok {
		st = &dayState{}
		t.days[day] = st
	}
	return st
}

// RecordFubon stores a fresh Fubon payload for its day. Payloads dated a
// different day than they claim are the adapter's bug, not tolerated here:
// the payload's own Day field keys the slot.
func (t *ReadinessTracker) RecordFubon(p *models.FubonPayload) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.state(p.Day)
	if st.phase != PhaseAwaiting {
		return
	}
	st.fubon = p
}

// RecordSinopac stores a fresh SinoPac payload for its day.
func (t *ReadinessTracker) RecordSinopac(p *models.SinopacPayload) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.state(p.Day)
	if st.phase != PhaseAwaiting {
		return
	}
	st.sinopac = p
}

// IsComplete reports whether both sources hold a fresh payload for day.
func (t *ReadinessTracker) IsComplete(day models.TradingDay) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.days[day]
	return ok && st.fubon != nil && st.sinopac != nil
}

// Payloads returns the recorded pair for day. Either may be nil.
func (t *ReadinessTracker) Payloads(day models.TradingDay) (*models.FubonPayload, *models.SinopacPayload) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.days[day]
	if !ok {
		return nil, nil
	}
	return st.fubon, st.sinopac
}

// Phase returns the lifecycle phase for day. Unknown days are awaiting.
func (t *ReadinessTracker) Phase(day models.TradingDay) DayPhase {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.days[day]
	if !ok {
		return PhaseAwaiting
	}
	return st.phase
}

// Complete freezes day after a successful dispatch.
func (t *ReadinessTracker) Complete(day models.TradingDay) {
	t.setPhase(day, PhaseComplete)
}

// Abandon freezes day when the cutoff passes with a source still missing.
// It reports whether the transition happened, so the caller logs and counts
// the abandonment exactly once.
func (t *ReadinessTracker) Abandon(day models.TradingDay) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.state(day)
	if st.phase != PhaseAwaiting {
		return false
	}
	st.phase = PhaseAbandoned
	return true
}

// Fail freezes day after a rejected merge.
func (t *ReadinessTracker) Fail(day models.TradingDay) {
	t.setPhase(day, PhaseFailed)
}

func (t *ReadinessTracker) setPhase(day models.TradingDay, p DayPhase) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state(day).phase = p
}

// Expire drops state for any day other than keep. Called on day rollover so
// the map does not grow unbounded across a long-lived process.
func (t *ReadinessTracker) Expire(keep models.TradingDay) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for day := range t.days {
		if day != keep {
			delete(t.days, day)
		}
	}
}
