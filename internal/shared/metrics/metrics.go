package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/samber/oops"
)

const namespace = "streamfeed"

// Metrics bundles Prometheus collectors for pipeline runs and the HTTP surface.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	candidates       *prometheus.CounterVec
	subqueryFailures *prometheus.CounterVec
	batchFailures    *prometheus.CounterVec
	itemsPublished   prometheus.Gauge
	itemsByStatus    *prometheus.GaugeVec
	notifications    *prometheus.CounterVec
	runDuration      prometheus.Gauge
	lastSuccess      prometheus.Gauge
	runsTotal        *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "candidates_total",
			Help:      "Candidate item ids returned per collection axis",
		}, []string{"axis"}),
		subqueryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subquery_failures_total",
			Help:      "Collection sub-queries that failed and degraded to an empty result",
		}, []string{"axis"}),
		batchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_failures_total",
			Help:      "Detail batches dropped after an upstream failure",
		}, []string{"kind"}),
		itemsPublished: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "items_published",
			Help:      "Items in the last published collection",
		}),
		itemsByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "items_by_status",
			Help:      "Items in the last published collection per status",
		}, []string{"status"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification dispatch attempts",
		}, []string{"target", "result"}),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last pipeline run",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful pipeline run",
		}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome",
		}, []string{"result"}),
	}

	registry.MustRegister(
		m.candidates,
		m.subqueryFailures,
		m.batchFailures,
		m.itemsPublished,
		m.itemsByStatus,
		m.notifications,
		m.runDuration,
		m.lastSuccess,
		m.runsTotal,
	)

	return m
}

// Handler returns an HTTP handler exposing the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for export
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

func (m *Metrics) AddCandidates(axis string, n int) {
	if m == nil {
		return
	}
	m.candidates.WithLabelValues(axis).Add(float64(n))
}

func (m *Metrics) IncSubqueryFailure(axis string) {
	if m == nil {
		return
	}
	m.subqueryFailures.WithLabelValues(axis).Inc()
}

func (m *Metrics) IncBatchFailure(kind string) {
	if m == nil {
		return
	}
	m.batchFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncNotification(target, result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(target, result).Inc()
}

// SetPublished records the size of the published collection
func (m *Metrics) SetPublished(total int, byStatus map[string]int) {
	if m == nil {
		return
	}
	m.itemsPublished.Set(float64(total))
	m.itemsByStatus.Reset()
	for status, n := range byStatus {
		m.itemsByStatus.WithLabelValues(status).Set(float64(n))
	}
}

// ObserveRun records the outcome of one pipeline run
func (m *Metrics) ObserveRun(dur time.Duration, err error) {
	if m == nil {
		return
	}
	m.runDuration.Set(dur.Seconds())
	if err != nil {
		m.runsTotal.WithLabelValues("failure").Inc()
		return
	}
	m.runsTotal.WithLabelValues("success").Inc()
	m.lastSuccess.SetToCurrentTime()
}

// Export pushes the registry to a Pushgateway and/or writes it as a
// node-exporter textfile. Empty targets are skipped.
func (m *Metrics) Export(ctx context.Context, pushgatewayURL, textfile string) error {
	if m == nil {
		return nil
	}
	if pushgatewayURL != "" {
		if err := push.New(pushgatewayURL, namespace).Gatherer(m.registry).PushContext(ctx); err != nil {
			return oops.With("pushgateway_url", pushgatewayURL, "context", "failed to push metrics").Wrap(err)
		}
	}
	if textfile != "" {
		if err := prometheus.WriteToTextfile(textfile, m.registry); err != nil {
			return oops.With("textfile", textfile, "context", "failed to write metrics textfile").Wrap(err)
		}
	}
	return nil
}
