// Package metrics holds the Prometheus collectors for the service. All
// collectors live in the default registry and are served by Handler.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tandem_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tandem_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Labels: result (success, invalid_credentials, not_verified, error)
	loginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tandem_login_attempts_total",
			Help: "Total number of login attempts",
		},
		[]string{"result"},
	)

	messagesSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tandem_messages_sent_total",
			Help: "Total number of direct messages stored",
		},
	)

	// Labels: badge id
	badgesAwardedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tandem_badges_awarded_total",
			Help: "Total number of badges awarded",
		},
		[]string{"badge"},
	)

	// Labels: outcome (processed, failed, dropped)
	badgeEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tandem_badge_events_total",
			Help: "Badge worker events by outcome",
		},
		[]string{"outcome"},
	)

	sessionsSweptTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tandem_sessions_swept_total",
			Help: "Expired sessions removed by housekeeping",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		loginAttemptsTotal,
		messagesSentTotal,
		badgesAwardedTotal,
		badgeEventsTotal,
		sessionsSweptTotal,
	)
}

// Instrument records count and latency for h under a fixed route label.
// The route is the mux pattern, never the raw path.
func Instrument(route string, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		h.ServeHTTP(sw, r)

		httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

func LoginAttempt(result string) {
	loginAttemptsTotal.WithLabelValues(result).Inc()
}

func MessageSent() {
	messagesSentTotal.Inc()
}

func BadgesAwarded(ids []string) {
	for _, id := range ids {
		badgesAwardedTotal.WithLabelValues(id).Inc()
	}
}

func BadgeEvent(outcome string) {
	badgeEventsTotal.WithLabelValues(outcome).Inc()
}

func SessionsSwept(n int64) {
	if n > 0 {
		sessionsSweptTotal.Add(float64(n))
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
