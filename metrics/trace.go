package metrics

import (
	"context"
	"sync"
	"time"
)

// RequestTrace tracks timing for a single inbound request and the upstream
// calls it made
type RequestTrace struct {
	RequestID     string         `json:"requestId"`
	Method        string         `json:"method"`
	Path          string         `json:"path"`
	Status        int            `json:"status"`
	StartTime     time.Time      `json:"startTime"`
	TotalDuration time.Duration  `json:"totalDuration"`
	Upstream      []UpstreamCall `json:"upstream"`
	UpstreamTime  time.Duration  `json:"upstreamTime"`

	mu sync.Mutex
}

// UpstreamCall tracks a single backend request
type UpstreamCall struct {
	Method    string        `json:"method"`
	Endpoint  string        `json:"endpoint"`
	Status    int           `json:"status"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

func (t *RequestTrace) addUpstream(c UpstreamCall) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Upstream = append(t.Upstream, c)
	t.UpstreamTime += c.Duration
}

// UpstreamCount returns the number of upstream calls recorded so far
func (t *RequestTrace) UpstreamCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.Upstream)
}

type traceKey struct{}

// WithRequestTrace adds a trace to the context
func WithRequestTrace(ctx context.Context, trace *RequestTrace) context.Context {
	return context.WithValue(ctx, traceKey{}, trace)
}

// TraceFromContext returns the trace stored in ctx, or nil
func TraceFromContext(ctx context.Context) *RequestTrace {
	t, _ := ctx.Value(traceKey{}).(*RequestTrace)
	return t
}

// RequestID returns the id of the request traced in ctx, or ""
func RequestID(ctx context.Context) string {
	if t := TraceFromContext(ctx); t != nil {
		return t.RequestID
	}
	return ""
}
