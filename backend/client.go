// Package backend is a typed client for the road reporting REST backend.
package backend

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds every backend call when no client is supplied
const DefaultTimeout = 30 * time.Second

// Option configures the Client
type Option func(*Client)

// WithHTTPClient sets a custom http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http.httpClient = hc
	}
}

// WithTimeout sets the timeout of the default http.Client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithObserver reports every call to o
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.http.observer = o
	}
}

// Client groups the backend services. Requests are authenticated with the
// session carried by their context.
type Client struct {
	http           *httpClient
	Reports        *ReportsService
	Operators      *OperatorsService
	Admin          *AdminService
	Municipalities *MunicipalitiesService
	Auth           *AuthService
}

// NewClient creates a new backend client
func NewClient(baseURL string, opts ...Option) *Client {
	hc := newHTTPClient(baseURL, &http.Client{Timeout: DefaultTimeout})
	c := &Client{http: hc}
	for _, opt := range opts {
		opt(c)
	}
	c.Reports = &ReportsService{http: hc}
	c.Operators = &OperatorsService{http: hc}
	c.Admin = &AdminService{http: hc}
	c.Municipalities = &MunicipalitiesService{http: hc}
	c.Auth = &AuthService{http: hc}
	return c
}
