package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interviewai",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "path", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "interviewai",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	inviteDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interviewai",
		Name:      "invite_deliveries_total",
		Help:      "Invitation emails dispatched, by outcome",
	}, []string{"outcome"})

	completions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interviewai",
		Name:      "completions_total",
		Help:      "Candidate completion attempts, by outcome",
	}, []string{"outcome"})
)

// ObserveInvites records the outcome counts of one invite dispatch.
func ObserveInvites(sent, failed int) {
	inviteDeliveries.WithLabelValues("sent").Add(float64(sent))
	inviteDeliveries.WithLabelValues("failed").Add(float64(failed))
}

// ObserveCompletion records one completion attempt outcome
// ("ok", "replay", "not_found").
func ObserveCompletion(outcome string) {
	completions.WithLabelValues(outcome).Inc()
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Middleware records request metrics with Prometheus labels.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		labels := prometheus.Labels{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": strconv.Itoa(rec.status),
		}
		httpRequests.With(labels).Inc()
		httpLatency.With(labels).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes the default Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
