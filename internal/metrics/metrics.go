package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Subscription outcomes.
const (
	OutcomeSubscribed     = "subscribed"
	OutcomeInvalidEmail   = "invalid_email"
	OutcomeInvalidPhone   = "invalid_phone"
	OutcomeTransportError = "transport_error"
)

// Registry holds the landing service metrics on its own prometheus registry,
// so every app instance (and test) starts from zero.
type Registry struct {
	registry *prometheus.Registry

	Subscriptions     *prometheus.CounterVec
	RelayDuration     prometheus.Histogram
	CountdownSessions prometheus.Gauge
	CountdownTicks    prometheus.Counter
}

func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		Subscriptions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "golperbox_subscriptions_total",
				Help: "Subscription attempts by outcome",
			},
			[]string{"outcome"},
		),

		RelayDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "golperbox_relay_duration_seconds",
				Help:    "Time spent posting a lead to the form backend",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),

		CountdownSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "golperbox_countdown_sessions_active",
				Help: "Mounted countdown components",
			},
		),

		CountdownTicks: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "golperbox_countdown_ticks_total",
				Help: "Countdown states pushed to mounted components",
			},
		),
	}

	r.registry.MustRegister(
		r.Subscriptions,
		r.RelayDuration,
		r.CountdownSessions,
		r.CountdownTicks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Registry) RecordSubscription(outcome string) {
	r.Subscriptions.WithLabelValues(outcome).Inc()
}
