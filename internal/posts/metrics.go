package posts

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric label values.
const (
	opList = "list"
	opGet  = "get"

	outcomeSuccess = "success"
	outcomeError   = "error"
)

// Metrics holds the client's request instrumentation.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	Posts    prometheus.Counter
}

// NewMetrics creates the client metrics and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "postfeed",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Requests sent to the posts API by operation and outcome.",
		}, []string{"operation", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "postfeed",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Latency of requests to the posts API.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		Posts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "postfeed",
			Subsystem: "api",
			Name:      "posts_received_total",
			Help:      "Posts decoded from listing responses.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Duration, m.Posts)
	}
	return m
}

func (m *Metrics) observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeError
	}
	m.Requests.WithLabelValues(op, outcome).Inc()
	m.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
