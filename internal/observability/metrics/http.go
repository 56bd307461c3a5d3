package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	answersTotal         *prometheus.CounterVec
	guardrailMatches     *prometheus.CounterVec
	confidenceBandsTotal *prometheus.CounterVec
	retrievedCandidates  *prometheus.HistogramVec
	askDuration          *prometheus.HistogramVec
	rateLimitedTotal     *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docqa",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docqa",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	answersTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Subsystem: "qa",
			Name:      "answers_total",
			Help:      "Total completed question turns by terminal state.",
		},
		[]string{"service", "state"},
	)
	guardrailMatches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Subsystem: "qa",
			Name:      "guardrail_matches_total",
			Help:      "Total guardrail verdicts that stopped a turn, by rule.",
		},
		[]string{"service", "rule"},
	)
	confidenceBandsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Subsystem: "qa",
			Name:      "confidence_bands_total",
			Help:      "Total answered turns by confidence band.",
		},
		[]string{"service", "band"},
	)
	retrievedCandidates := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docqa",
			Subsystem: "qa",
			Name:      "retrieved_candidates",
			Help:      "Distribution of cited chunks per answered turn.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service"},
	)
	askDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docqa",
			Subsystem: "qa",
			Name:      "ask_duration_seconds",
			Help:      "Question turn duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service"},
	)
	rateLimitedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docqa",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total requests rejected by the rate limiter.",
		},
		[]string{"service"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		answersTotal,
		guardrailMatches,
		confidenceBandsTotal,
		retrievedCandidates,
		askDuration,
		rateLimitedTotal,
	)

	return &HTTPServerMetrics{
		registry:             registry,
		requestTotal:         requestTotal,
		requestDuration:      requestDuration,
		requestInFlight:      requestInFlight,
		answersTotal:         answersTotal,
		guardrailMatches:     guardrailMatches,
		confidenceBandsTotal: confidenceBandsTotal,
		retrievedCandidates:  retrievedCandidates,
		askDuration:          askDuration,
		rateLimitedTotal:     rateLimitedTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{document_id}"
	case strings.HasPrefix(path, "/v1/sessions/") && strings.HasSuffix(path, "/query"):
		return "/v1/sessions/{session_id}/query"
	case strings.HasPrefix(path, "/v1/sessions/") && strings.HasSuffix(path, "/clear"):
		return "/v1/sessions/{session_id}/clear"
	default:
		return path
	}
}

// RecordTurn records one completed question turn. matchedRule is empty when
// no guardrail fired.
func (m *HTTPServerMetrics) RecordTurn(service, state, matchedRule, band string, citedChunks int, duration time.Duration) {
	if state == "" {
		state = "unknown"
	}
	m.answersTotal.WithLabelValues(service, state).Inc()
	m.askDuration.WithLabelValues(service).Observe(duration.Seconds())

	if matchedRule != "" {
		m.guardrailMatches.WithLabelValues(service, matchedRule).Inc()
	}
	if band != "" {
		m.confidenceBandsTotal.WithLabelValues(service, band).Inc()
	}
	if state == "answered" {
		m.retrievedCandidates.WithLabelValues(service).Observe(float64(citedChunks))
	}
}

func (m *HTTPServerMetrics) RecordRateLimited(service string) {
	m.rateLimitedTotal.WithLabelValues(service).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
