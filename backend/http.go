package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/road-report-console/metrics"
	"github.com/linesmerrill/road-report-console/session"
)

// Observer is notified of every backend call. status is 0 when no response
// was received.
type Observer interface {
	ObserveUpstream(ctx context.Context, method, endpoint string, status int, d time.Duration, err error)
}

type httpClient struct {
	baseURL    string
	httpClient *http.Client
	observer   Observer
}

func newHTTPClient(baseURL string, hc *http.Client) *httpClient {
	return &httpClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
	}
}

type envelope struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

func (c *httpClient) doRequest(ctx context.Context, method, path string, query url.Values, payload interface{}) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s, ok := session.FromContext(ctx); ok {
		token, err := s.Token()
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := metrics.RequestID(ctx); id != "" {
		req.Header.Set(metrics.RequestIDHeader, id)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = &TransportError{Endpoint: path, Err: err}
		c.observe(ctx, method, path, 0, start, err)
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		err = &TransportError{Endpoint: path, Err: err}
		c.observe(ctx, method, path, resp.StatusCode, start, err)
		return nil, err
	}

	var env envelope
	decoded := len(respBody) > 0 && json.Unmarshal(respBody, &env) == nil

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Endpoint: path}
		if decoded {
			apiErr.Message = env.Message
		}
		c.observe(ctx, method, path, resp.StatusCode, start, apiErr)
		zap.S().Errorw("backend rejected request",
			"requestId", metrics.RequestID(ctx),
			"method", method,
			"endpoint", path,
			"status", resp.StatusCode,
			"message", apiErr.Message)
		if IsUnauthorized(apiErr) {
			// the token is no longer accepted upstream, so the session ends here too
			if s, ok := session.FromContext(ctx); ok {
				s.Invalidate()
			}
		}
		return nil, apiErr
	}
	if decoded && env.Success != nil && !*env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode, Endpoint: path, Message: env.Message}
		c.observe(ctx, method, path, resp.StatusCode, start, apiErr)
		return nil, apiErr
	}

	c.observe(ctx, method, path, resp.StatusCode, start, nil)
	if resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return nil, nil
	}
	return json.RawMessage(respBody), nil
}

func (c *httpClient) observe(ctx context.Context, method, path string, status int, start time.Time, err error) {
	if c.observer != nil {
		c.observer.ObserveUpstream(ctx, method, path, status, time.Since(start), err)
	}
}

func (c *httpClient) get(ctx context.Context, path string, params map[string]string) (json.RawMessage, error) {
	v := url.Values{}
	for k, val := range params {
		if val != "" {
			v.Set(k, val)
		}
	}
	return c.doRequest(ctx, http.MethodGet, path, v, nil)
}

func (c *httpClient) post(ctx context.Context, path string, payload interface{}) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodPost, path, nil, payload)
}

func (c *httpClient) patch(ctx context.Context, path string, payload interface{}) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodPatch, path, nil, payload)
}

func (c *httpClient) del(ctx context.Context, path string) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodDelete, path, nil, nil)
}

// pathf builds a path with escaped id segments
func pathf(format string, ids ...string) string {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = url.PathEscape(id)
	}
	return fmt.Sprintf(format, args...)
}
