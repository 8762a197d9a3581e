package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for the authentication handshake.
// Tracks token exchange outcomes and durations, and route guard decisions.
type Metrics struct {
	registry         *prometheus.Registry
	ExchangesTotal   *prometheus.CounterVec
	ExchangeDuration *prometheus.HistogramVec
	GuardDecisions   *prometheus.CounterVec
	LoginRedirects   prometheus.Counter
}

// New creates a Metrics instance backed by its own registry, so several servers
// can coexist in one process (tests).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ExchangesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stateless_auth_token_exchanges_total",
			Help: "Authorization code exchanges by outcome",
		}, []string{"outcome"}),
		ExchangeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stateless_auth_token_exchange_duration_seconds",
			Help:    "Duration of token endpoint calls (authentication critical path)",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"outcome"}),
		GuardDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stateless_auth_guard_decisions_total",
			Help: "Route guard decisions on protected routes",
		}, []string{"decision"}),
		LoginRedirects: factory.NewCounter(prometheus.CounterOpts{
			Name: "stateless_auth_login_redirects_total",
			Help: "Redirects issued from the login entry point to the identity provider",
		}),
	}
}

// ObserveExchange records one exchange attempt.
func (m *Metrics) ObserveExchange(outcome string, duration time.Duration) {
	m.ExchangesTotal.WithLabelValues(outcome).Inc()
	m.ExchangeDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveDecision records one guard evaluation.
func (m *Metrics) ObserveDecision(decision string) {
	m.GuardDecisions.WithLabelValues(decision).Inc()
}

// IncrementLoginRedirects records a redirect to the provider.
func (m *Metrics) IncrementLoginRedirects() {
	m.LoginRedirects.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
