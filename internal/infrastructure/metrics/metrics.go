package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JJCAPPE/inventario-cappellettoshop-sub000/internal/domain"
)

// Registry exposes stock run outcomes. It implements domain.RunObserver.
type Registry struct {
	reg *prometheus.Registry

	Runs           *prometheus.CounterVec // by mode: dry_run|live
	Failures       *prometheus.CounterVec // by stage
	Candidates     prometheus.Gauge
	Excluded       prometheus.Gauge
	Discrepancies  *prometheus.GaugeVec // by agreement status
	Drafted        prometheus.Counter
	DraftFailed    prometheus.Counter
	RunDurationSec prometheus.Histogram
	LastSuccess    prometheus.Gauge
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	runs := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "stock_runs_total"}, []string{"mode"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "stock_run_failures_total"}, []string{"stage"})
	candidates := prometheus.NewGauge(prometheus.GaugeOpts{Name: "stock_zero_stock_candidates"})
	excluded := prometheus.NewGauge(prometheus.GaugeOpts{Name: "stock_excluded_candidates"})
	discrepancies := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "stock_source_disagreements"}, []string{"status"})
	drafted := prometheus.NewCounter(prometheus.CounterOpts{Name: "stock_products_drafted_total"})
	draftFailed := prometheus.NewCounter(prometheus.CounterOpts{Name: "stock_product_updates_failed_total"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "stock_run_duration_seconds",
		Buckets: []float64{5, 15, 30, 60, 120, 300, 600, 1200},
	})
	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{Name: "stock_last_success_timestamp_seconds"})

	r.MustRegister(runs, failures, candidates, excluded, discrepancies, drafted, draftFailed, duration, lastSuccess)
	return &Registry{
		reg:            r,
		Runs:           runs,
		Failures:       failures,
		Candidates:     candidates,
		Excluded:       excluded,
		Discrepancies:  discrepancies,
		Drafted:        drafted,
		DraftFailed:    draftFailed,
		RunDurationSec: duration,
		LastSuccess:    lastSuccess,
	}
}

// ObserveRun records a completed run
func (r *Registry) ObserveRun(result *domain.StockUpdateResult, duration time.Duration) {
	mode := "live"
	if result.DryRun {
		mode = "dry_run"
	}
	r.Runs.WithLabelValues(mode).Inc()

	s := result.Summary
	r.Candidates.Set(float64(s.TotalFound))
	r.Excluded.Set(float64(s.ExcludedCount))
	r.Discrepancies.WithLabelValues(string(domain.AgreementDiscrepancy)).Set(float64(s.DiscrepancyCount))
	r.Discrepancies.WithLabelValues(string(domain.AgreementPartialMatch)).Set(float64(s.PartialMatchCount))
	r.Drafted.Add(float64(s.SuccessfulUpdates))
	r.DraftFailed.Add(float64(s.FailedUpdates))
	r.RunDurationSec.Observe(duration.Seconds())
	r.LastSuccess.Set(float64(result.FinishedAt.Unix()))
}

// ObserveFailure records a run aborted during stage
func (r *Registry) ObserveFailure(stage domain.RunStage) {
	r.Failures.WithLabelValues(string(stage)).Inc()
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
