package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	analyses    *prometheus.CounterVec
	newsChecks  *prometheus.CounterVec
	quotes      *prometheus.GaugeVec
	missing     *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// New creates a recorder registered on reg (prometheus.DefaultRegisterer when nil).
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		analyses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xsp_analyses_total",
				Help: "Analysis runs by recommendation outcome",
			},
			[]string{"outcome"},
		),
		newsChecks: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xsp_news_checks_total",
				Help: "News checks by status and blackout flag",
			},
			[]string{"status", "blocked"},
		),
		quotes: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "xsp_last_quote",
				Help: "Last price seen per instrument",
			},
			[]string{"symbol"},
		),
		missing: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xsp_missing_quotes_total",
				Help: "Quotes the source could not provide",
			},
			[]string{"symbol"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "xsp_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "xsp_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordAnalysis counts a finished run by recommendation kind or NoTrade reason.
func (r *Recorder) RecordAnalysis(outcome string) {
	r.analyses.WithLabelValues(outcome).Inc()
}

func (r *Recorder) RecordNewsCheck(status string, blocked bool) {
	b := "false"
	if blocked {
		b = "true"
	}
	r.newsChecks.WithLabelValues(status, b).Inc()
}

// RecordQuote records the last price for a symbol.
func (r *Recorder) RecordQuote(symbol string, price float64) {
	r.quotes.WithLabelValues(symbol).Set(price)
}

func (r *Recorder) RecordMissingQuote(symbol string) {
	r.missing.WithLabelValues(symbol).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards every observation.
type Nop struct{}

func (Nop) RecordAnalysis(string)         {}
func (Nop) RecordNewsCheck(string, bool)  {}
func (Nop) RecordQuote(string, float64)   {}
func (Nop) RecordMissingQuote(string)     {}
func (Nop) RecordError(string)            {}
func (Nop) RecordLatency(string, float64) {}
