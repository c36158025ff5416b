package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the challenge context.
type Metrics struct {
	SubmissionsGraded *prometheus.CounterVec
	GradingDuration   prometheus.Histogram
	PointsAwarded     prometheus.Counter
}

// New creates and registers the challenge metrics.
func New() *Metrics {
	return &Metrics{
		SubmissionsGraded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "campushire_submissions_graded_total",
			Help: "Total submissions graded, by verdict",
		}, []string{"verdict"}),
		GradingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "campushire_grading_duration_seconds",
			Help:    "Wall-clock time spent grading one submission",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		PointsAwarded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campushire_elite_points_awarded_total",
			Help: "Total elite points granted for fully passed challenges",
		}),
	}
}

func (m *Metrics) ObserveGrading(verdict string, seconds float64) {
	m.SubmissionsGraded.WithLabelValues(verdict).Inc()
	m.GradingDuration.Observe(seconds)
}

func (m *Metrics) AddPointsAwarded(points int) {
	m.PointsAwarded.Add(float64(points))
}
