package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the account and transport metrics shared across handlers.
type Metrics struct {
	UsersRegistered *prometheus.CounterVec
	LoginFailures   prometheus.Counter
	RequestDuration *prometheus.HistogramVec

	// CounterIncrementFailures counts job counter bumps that failed after the
	// parent operation had already succeeded.
	CounterIncrementFailures *prometheus.CounterVec
}

// New creates and registers all platform metrics with the default registry.
func New() *Metrics {
	return &Metrics{
		UsersRegistered: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hireme_users_registered_total",
			Help: "Total number of accounts registered, by role",
		}, []string{"role"}),
		LoginFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hireme_login_failures_total",
			Help: "Total number of rejected login attempts",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hireme_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and status class",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		CounterIncrementFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hireme_counter_increment_failures_total",
			Help: "Total number of failed views/applications counter increments",
		}, []string{"counter"}),
	}
}

func (m *Metrics) IncrementUsersRegistered(role string) {
	if m == nil {
		return
	}
	m.UsersRegistered.WithLabelValues(role).Inc()
}

func (m *Metrics) IncrementLoginFailures() {
	if m == nil {
		return
	}
	m.LoginFailures.Inc()
}

func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, status).Observe(seconds)
}

func (m *Metrics) IncrementCounterFailures(counter string) {
	if m == nil {
		return
	}
	m.CounterIncrementFailures.WithLabelValues(counter).Inc()
}
