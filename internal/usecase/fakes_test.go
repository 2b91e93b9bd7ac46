package usecase

import (
	"context"
	"sync"
	"time"

	"ChipFlash/internal/domain/models"
	"ChipFlash/pkg/util"

	"github.com/shopspring/decimal"
)

func mustClock(s string) func() time.Time {
	t, err := time.ParseInLocation("2006/01/02 15:04", s, util.Taipei())
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func f64(v float64) *float64 { return &v }

func i64(v int64) *int64 { return &v }

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func fullFubonPayload(day models.TradingDay) *models.FubonPayload {
	return &models.FubonPayload{
		Day:         day,
		TaiexClose:  f64(17500.50),
		TaiexVolume: dec("3250.00"),
		TxClose:     f64(17480),
		InstTotal:   dec("125.30"),
		InstForeign: dec("305.17"),
		InstTrust:   dec("-5.20"),
		InstDealer:  dec("-174.67"),
		ForeignOI:   i64(-25000),
		TrustOI:     i64(18000),
		DealerOI:    i64(-3000),
	}
}

func fullSinopacPayload(day models.TradingDay) *models.SinopacPayload {
	return &models.SinopacPayload{
		Day:             day,
		ForeignCallOI:   i64(52000),
		ForeignPutOI:    i64(48000),
		PCRatio:         f64(103.25),
		VIX:             f64(18.42),
		MaxCallOIStrike: i64(18000),
		MaxCallOILots:   i64(31000),
		MaxPutOIStrike:  i64(17000),
		MaxPutOILots:    i64(28000),
		RetailMTXRatio:  f64(12.34),
		RetailMTXLong:   i64(41000),
		RetailMTXShort:  i64(36500),
		RetailXMTXRatio: f64(-4.56),
		RetailXMTXLong:  i64(21000),
		RetailXMTXShort: i64(22800),
	}
}

type fakeFubon struct {
	mu      sync.Mutex
	payload *models.FubonPayload
	err     error
	calls   int
}

func (f *fakeFubon) Fetch(ctx context.Context, day models.TradingDay) (*models.FubonPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

func (f *fakeFubon) set(p *models.FubonPayload, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payload, f.err = p, err
}

type fakeSinopac struct {
	mu      sync.Mutex
	payload *models.SinopacPayload
	err     error
	calls   int
}

func (f *fakeSinopac) Fetch(ctx context.Context, day models.TradingDay) (*models.SinopacPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

func (f *fakeSinopac) set(p *models.SinopacPayload, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payload, f.err = p, err
}

type pushedMessage struct {
	To   string
	Text string
}

type fakePusher struct {
	mu     sync.Mutex
	pushes []pushedMessage
	err    error
}

func (p *fakePusher) Push(ctx context.Context, to string, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.pushes = append(p.pushes, pushedMessage{To: to, Text: text})
	return nil
}

func (p *fakePusher) sent() []pushedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]pushedMessage, len(p.pushes))
	copy(out, p.pushes)
	return out
}

func (p *fakePusher) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

type fakeLedger struct {
	mu   sync.Mutex
	sent map[models.TradingDay]bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{sent: make(map[models.TradingDay]bool)}
}

func (l *fakeLedger) AlreadySent(ctx context.Context, day models.TradingDay) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sent[day], nil
}

func (l *fakeLedger) MarkSent(ctx context.Context, day models.TradingDay) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sent[day] {
		return false, nil
	}
	l.sent[day] = true
	return true, nil
}

type fakeArchive struct {
	mu     sync.Mutex
	prev   *models.CanonicalReport
	stored []*models.CanonicalReport
}

func (a *fakeArchive) Store(ctx context.Context, rep *models.CanonicalReport) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stored = append(a.stored, rep)
	return nil
}

func (a *fakeArchive) LastBefore(ctx context.Context, day models.TradingDay) (*models.CanonicalReport, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.prev == nil {
		return nil, models.ErrNoPriorReport
	}
	return a.prev, nil
}

type fakeEvents struct {
	mu        sync.Mutex
	published []*models.CanonicalReport
}

func (e *fakeEvents) PublishReport(ctx context.Context, rep *models.CanonicalReport) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.published = append(e.published, rep)
	return nil
}

func (e *fakeEvents) Close() error { return nil }

type fakeMetrics struct {
	mu         sync.Mutex
	polls      map[string]int
	dispatches map[string]int
	abandoned  int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{polls: make(map[string]int), dispatches: make(map[string]int)}
}

func (m *fakeMetrics) RecordPoll(source, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.polls[source+"/"+result]++
}

func (m *fakeMetrics) RecordAdapterError(source string) {}

func (m *fakeMetrics) RecordDispatch(path, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatches[path+"/"+result]++
}

func (m *fakeMetrics) RecordDayAbandoned() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.abandoned++
}

func (m *fakeMetrics) RecordPushLatency(seconds float64) {}

func (m *fakeMetrics) RecordSourceReady(source string, ready bool) {}
