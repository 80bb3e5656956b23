// Package metrics exposes Prometheus collectors for inbound requests, upstream
// backend calls and workflow outcomes, and traces each request in its context.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id in and out of the service
const RequestIDHeader = "X-Request-Id"

// SlowRequestThreshold is the duration after which a request is logged as slow
const SlowRequestThreshold = time.Second

// Recorder owns the service collectors. A nil *Recorder is valid and records
// nothing.
type Recorder struct {
	gatherer prometheus.Gatherer

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	httpInProgress   prometheus.Gauge
	upstreamDuration *prometheus.HistogramVec
	workflow         *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them with reg
func NewRecorder(reg *prometheus.Registry) *Recorder {
	rec := &Recorder{
		gatherer: reg,
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, route, and status code",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		httpInProgress: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "Current number of HTTP requests being processed",
			},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backend_request_duration_seconds",
				Help:    "Backend REST call duration in seconds by method, endpoint, and status code",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint", "status"},
		),
		workflow: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_workflow_operations_total",
				Help: "Workflow operations by name and outcome",
			},
			[]string{"operation", "outcome"},
		),
	}
	reg.MustRegister(rec.httpRequests, rec.httpDuration, rec.httpInProgress, rec.upstreamDuration, rec.workflow)
	return rec
}

// Handler serves the registered collectors
func (rec *Recorder) Handler() http.Handler {
	if rec == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(rec.gatherer, promhttp.HandlerOpts{})
}

// Workflow counts one workflow operation outcome, e.g. ("assign", "rejected")
func (rec *Recorder) Workflow(operation, outcome string) {
	if rec == nil {
		return
	}
	rec.workflow.WithLabelValues(operation, outcome).Inc()
}

// ObserveUpstream records a backend call in the histogram and in the trace
// carried by ctx. status is 0 when no response was received.
func (rec *Recorder) ObserveUpstream(ctx context.Context, method, endpoint string, status int, d time.Duration, err error) {
	if trace := TraceFromContext(ctx); trace != nil {
		call := UpstreamCall{
			Method:    method,
			Endpoint:  endpoint,
			Status:    status,
			Duration:  d,
			Timestamp: time.Now(),
		}
		if err != nil {
			call.Error = err.Error()
		}
		trace.addUpstream(call)
	}
	if rec == nil {
		return
	}
	rec.upstreamDuration.WithLabelValues(method, NormalizePath(endpoint), strconv.Itoa(status)).Observe(d.Seconds())
}

// Middleware assigns every request an id, traces it and records it in the
// HTTP collectors
func (rec *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		requestID := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, requestID)

		trace := &RequestTrace{
			RequestID: requestID,
			Method:    r.Method,
			Path:      r.URL.Path,
			StartTime: time.Now(),
		}
		r = r.WithContext(WithRequestTrace(r.Context(), trace))

		if rec != nil {
			rec.httpInProgress.Inc()
			defer rec.httpInProgress.Dec()
		}

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		trace.TotalDuration = time.Since(trace.StartTime)
		trace.Status = wrapped.statusCode

		if rec != nil {
			route := routeLabel(r)
			status := strconv.Itoa(wrapped.statusCode)
			rec.httpRequests.WithLabelValues(r.Method, route, status).Inc()
			rec.httpDuration.WithLabelValues(r.Method, route, status).Observe(trace.TotalDuration.Seconds())
		}

		if trace.TotalDuration > SlowRequestThreshold {
			zap.S().Warnw("Slow request detected",
				"requestId", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"duration", trace.TotalDuration,
				"status", wrapped.statusCode,
				"upstreamCalls", trace.UpstreamCount(),
				"upstreamTime", trace.UpstreamTime,
			)
		}
	})
}

func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return NormalizePath(r.URL.Path)
}

// NormalizePath replaces id segments of a path with :id so label
// cardinality stays bounded
func NormalizePath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if primitive.IsValidObjectID(part) || len(part) > 20 || (len(part) > 0 && part[0] >= '0' && part[0] <= '9') {
			parts[i] = ":id"
		}
	}
	normalized := strings.Join(parts, "/")
	if len(normalized) > 100 {
		normalized = normalized[:100]
	}
	return normalized
}

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
