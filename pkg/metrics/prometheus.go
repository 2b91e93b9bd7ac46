package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	pollsTotal      *prometheus.CounterVec
	adapterErrors   *prometheus.CounterVec
	dispatchesTotal *prometheus.CounterVec
	daysAbandoned   prometheus.Counter
	pushLatency     prometheus.Histogram
	sourceReady     *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		pollsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chipflash_polls_total",
				Help: "Adapter poll attempts by source and result",
			},
			[]string{"source", "result"},
		),
		adapterErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chipflash_adapter_errors_total",
				Help: "Adapter transport or parse failures",
			},
			[]string{"source"},
		),
		dispatchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chipflash_dispatches_total",
				Help: "Report dispatches by path and result",
			},
			[]string{"path", "result"},
		),
		daysAbandoned: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "chipflash_days_abandoned_total",
				Help: "Trading days abandoned at cutoff without a complete report",
			},
		),
		pushLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chipflash_push_duration_seconds",
				Help:    "Messaging channel push latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		sourceReady: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "chipflash_source_ready",
				Help: "Whether a source has a fresh payload for the current day",
			},
			[]string{"source"},
		),
	}
}

// RecordPoll records one adapter poll attempt.
func (r *Recorder) RecordPoll(source, result string) {
	r.pollsTotal.WithLabelValues(source, result).Inc()
}

// RecordAdapterError records an adapter transport/parse failure.
func (r *Recorder) RecordAdapterError(source string) {
	r.adapterErrors.WithLabelValues(source).Inc()
}

// RecordDispatch records a dispatch attempt on the auto or manual path.
func (r *Recorder) RecordDispatch(path, result string) {
	r.dispatchesTotal.WithLabelValues(path, result).Inc()
}

// RecordDayAbandoned records a trading day that hit the cutoff incomplete.
func (r *Recorder) RecordDayAbandoned() {
	r.daysAbandoned.Inc()
}

// RecordPushLatency records channel push latency in seconds.
func (r *Recorder) RecordPushLatency(seconds float64) {
	r.pushLatency.Observe(seconds)
}

// RecordSourceReady flags whether a source is fresh for the current day.
func (r *Recorder) RecordSourceReady(source string, ready bool) {
	v := 0.0
	if ready {
		v = 1.0
	}
	r.sourceReady.WithLabelValues(source).Set(v)
}
