package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the request module. Tracks lifecycle
// mutation counts and the list query duration.
type Metrics struct {
	RequestsCreated prometheus.Counter
	StatusEdits     prometheus.Counter
	RequestsDeleted prometheus.Counter
	ListDuration    prometheus.Histogram
}

// New creates a Metrics instance with all request module metrics registered.
func New() *Metrics {
	return &Metrics{
		RequestsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "crisiscorner_requests_created_total",
			Help: "Total number of item requests created",
		}),
		StatusEdits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "crisiscorner_status_edits_total",
			Help: "Total number of item request status changes applied",
		}),
		RequestsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "crisiscorner_requests_deleted_total",
			Help: "Total number of item requests deleted",
		}),
		ListDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "crisiscorner_list_requests_duration_seconds",
			Help:    "Duration of list queries against the request store",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementCreated records a successful request creation.
func (m *Metrics) IncrementCreated() {
	m.RequestsCreated.Inc()
}

// AddStatusEdits records n applied status changes (single or batch).
func (m *Metrics) AddStatusEdits(n int64) {
	m.StatusEdits.Add(float64(n))
}

// AddDeleted records n deleted requests.
func (m *Metrics) AddDeleted(n int64) {
	m.RequestsDeleted.Add(float64(n))
}

// ObserveList records the duration of a list query. Call with time.Now()
// taken at the start of the operation.
func (m *Metrics) ObserveList(start time.Time) {
	m.ListDuration.Observe(time.Since(start).Seconds())
}
