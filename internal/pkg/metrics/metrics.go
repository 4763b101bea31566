package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "wallet_connector"

// Metrics groups the collectors of the connector and its provider.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ConnectAttempts  *prometheus.CounterVec
	ProviderRequests *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec
	ProviderEvents   *prometheus.CounterVec
	ConnectionState  *prometheus.GaugeVec
	BalanceRefreshes *prometheus.CounterVec
}

// New creates the collectors without registering them.
func New() *Metrics {
	return &Metrics{
		ConnectAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connect_attempts_total",
			Help:      "Connect attempts by outcome.",
		}, []string{"outcome"}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Wallet provider requests by method and status.",
		}, []string{"method", "status"}),
		ProviderLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Wallet provider request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		ProviderEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_events_total",
			Help:      "Events received from the wallet provider.",
		}, []string{"event"}),
		ConnectionState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connection_state",
			Help:      "1 for the current connection state, 0 for the others.",
		}, []string{"state"}),
		BalanceRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "balance_refreshes_total",
			Help:      "Balance refreshes by status.",
		}, []string{"status"}),
	}
}

// MustRegister registers all collectors with reg and returns m.
func (m *Metrics) MustRegister(reg prometheus.Registerer) *Metrics {
	reg.MustRegister(
		m.ConnectAttempts,
		m.ProviderRequests,
		m.ProviderLatency,
		m.ProviderEvents,
		m.ConnectionState,
		m.BalanceRefreshes,
	)
	return m
}

// MustRegisterMetrics creates the collectors and registers them with the default registry.
func MustRegisterMetrics() *Metrics {
	return New().MustRegister(prometheus.DefaultRegisterer)
}

// ObserveConnect counts a finished connect attempt.
func (m *Metrics) ObserveConnect(outcome string) {
	if m == nil {
		return
	}
	m.ConnectAttempts.WithLabelValues(outcome).Inc()
}

// ObserveRequest records a provider request result and its duration.
func (m *Metrics) ObserveRequest(method string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ProviderRequests.WithLabelValues(method, status).Inc()
	m.ProviderLatency.WithLabelValues(method).Observe(d.Seconds())
}

// ObserveEvent counts a provider event.
func (m *Metrics) ObserveEvent(event string) {
	if m == nil {
		return
	}
	m.ProviderEvents.WithLabelValues(event).Inc()
}

// ObserveBalance counts a balance refresh.
func (m *Metrics) ObserveBalance(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.BalanceRefreshes.WithLabelValues("error").Inc()
		return
	}
	m.BalanceRefreshes.WithLabelValues("ok").Inc()
}

// SetState marks state as the current connection state.
func (m *Metrics) SetState(state string, all []string) {
	if m == nil {
		return
	}
	for _, s := range all {
		v := 0.0
		if s == state {
			v = 1
		}
		m.ConnectionState.WithLabelValues(s).Set(v)
	}
}
