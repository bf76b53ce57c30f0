package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RequestsRejected prometheus.Counter
	StoreFailures    prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		RequestsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hireme_ratelimit_rejected_total",
			Help: "Total number of requests rejected by the per-IP limiter",
		}),
		StoreFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hireme_ratelimit_store_failures_total",
			Help: "Total number of limiter checks that failed open because the counter store errored",
		}),
	}
}

func (m *Metrics) IncrementRejected() {
	if m == nil {
		return
	}
	m.RequestsRejected.Inc()
}

func (m *Metrics) IncrementStoreFailures() {
	if m == nil {
		return
	}
	m.StoreFailures.Inc()
}
