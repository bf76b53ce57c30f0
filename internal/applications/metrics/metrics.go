package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks the application pipeline.
type Metrics struct {
	ApplicationsSubmitted prometheus.Counter
	DuplicateApplications prometheus.Counter
	StatusUpdates         *prometheus.CounterVec
	Withdrawals           prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ApplicationsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hireme_applications_submitted_total",
			Help: "Total number of applications submitted",
		}),
		DuplicateApplications: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hireme_applications_duplicate_total",
			Help: "Total number of applications rejected because the applicant already applied",
		}),
		StatusUpdates: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hireme_application_status_updates_total",
			Help: "Total number of employer status changes, by new status",
		}, []string{"status"}),
		Withdrawals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hireme_applications_withdrawn_total",
			Help: "Total number of applications withdrawn by the applicant",
		}),
	}
}

func (m *Metrics) IncrementSubmitted() {
	if m == nil {
		return
	}
	m.ApplicationsSubmitted.Inc()
}

func (m *Metrics) IncrementDuplicates() {
	if m == nil {
		return
	}
	m.DuplicateApplications.Inc()
}

func (m *Metrics) IncrementStatusUpdates(status string) {
	if m == nil {
		return
	}
	m.StatusUpdates.WithLabelValues(status).Inc()
}

func (m *Metrics) IncrementWithdrawals() {
	if m == nil {
		return
	}
	m.Withdrawals.Inc()
}
