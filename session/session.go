// Package session carries the caller's bearer token and identity through a
// request as an explicit value.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidated is returned when a session is used after Invalidate
var ErrInvalidated = errors.New("session has been invalidated")

// Claims are the identity fields read from the backend issued token. The
// token is not verified here; the backend stays authoritative for it.
type Claims struct {
	UserID string
	Role   string
	Email  string
}

// Session is the bearer token and identity of one caller
type Session struct {
	token  string
	claims Claims

	mu           sync.RWMutex
	invalidated  bool
	onInvalidate []func(token string)
}

// New returns a session for token
func New(token string, claims Claims) *Session {
	return &Session{token: token, claims: claims}
}

// Token returns the bearer token, or ErrInvalidated once the session has
// been invalidated
func (s *Session) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.invalidated {
		return "", ErrInvalidated
	}
	return s.token, nil
}

// Claims returns the identity of the session
func (s *Session) Claims() Claims {
	return s.claims
}

// Valid reports whether the session can still be used
func (s *Session) Valid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.invalidated && s.token != ""
}

// OnInvalidate registers fn to run once when the session is invalidated
func (s *Session) OnInvalidate(fn func(token string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onInvalidate = append(s.onInvalidate, fn)
}

// Invalidate ends the session. Calling it again has no effect.
func (s *Session) Invalidate() {
	s.mu.Lock()
	if s.invalidated {
		s.mu.Unlock()
		return
	}
	s.invalidated = true
	hooks := s.onInvalidate
	s.onInvalidate = nil
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(s.token)
	}
}

// ParseClaims reads the identity claims of a JWT without verifying its
// signature. Tokens that are not JWTs yield empty claims and an error.
func ParseClaims(token string) (Claims, error) {
	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return Claims{}, err
	}
	c := Claims{
		UserID: firstString(mc, "id", "userId", "_id", "sub"),
		Role:   firstString(mc, "role"),
		Email:  firstString(mc, "email"),
	}
	return c, nil
}

func firstString(mc jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		if v, ok := mc[k].(string); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in ctx, if any
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}
