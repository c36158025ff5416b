package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the placement context.
type Metrics struct {
	AdmissionsAdmitted   prometheus.Counter
	AdmissionsDenied     *prometheus.CounterVec
	ApplicationsAdvanced prometheus.Counter
}

// New creates and registers the placement metrics.
func New() *Metrics {
	return &Metrics{
		AdmissionsAdmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campushire_admissions_admitted_total",
			Help: "Total applications admitted under capacity",
		}),
		AdmissionsDenied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campushire_admissions_denied_total",
			Help: "Total admission attempts denied, by reason",
		}, []string{"reason"}),
		ApplicationsAdvanced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campushire_applications_advanced_total",
			Help: "Total application status transitions applied",
		}),
	}
}

func (m *Metrics) IncrementAdmitted() {
	m.AdmissionsAdmitted.Inc()
}

func (m *Metrics) IncrementDenied(reason string) {
	m.AdmissionsDenied.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementAdvanced() {
	m.ApplicationsAdvanced.Inc()
}
