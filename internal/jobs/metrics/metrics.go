package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the job catalog.
// Tracks posting lifecycle counts and search latency.
type Metrics struct {
	JobsCreated     prometheus.Counter
	JobsDeactivated prometheus.Counter
	SearchDuration  prometheus.Histogram
	SearchResults   prometheus.Histogram
}

// New creates a new Metrics instance with all catalog metrics registered.
func New() *Metrics {
	return &Metrics{
		JobsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hireme_jobs_created_total",
			Help: "Total number of job postings created",
		}),
		JobsDeactivated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hireme_jobs_deactivated_total",
			Help: "Total number of job postings soft-deleted by their owner",
		}),
		SearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "hireme_job_search_duration_seconds",
			Help:    "Duration of catalog searches (filters, text query and count)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		SearchResults: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "hireme_job_search_results",
			Help:    "Total matches per catalog search",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 500},
		}),
	}
}

func (m *Metrics) IncrementJobsCreated() {
	if m == nil {
		return
	}
	m.JobsCreated.Inc()
}

func (m *Metrics) IncrementJobsDeactivated() {
	if m == nil {
		return
	}
	m.JobsDeactivated.Inc()
}

// ObserveSearch records a search's duration and match count.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveSearch(start time.Time, total int) {
	if m == nil {
		return
	}
	m.SearchDuration.Observe(time.Since(start).Seconds())
	m.SearchResults.Observe(float64(total))
}
