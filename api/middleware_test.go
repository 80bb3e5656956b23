package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/linesmerrill/road-report-console/api"
	"github.com/linesmerrill/road-report-console/models"
	"github.com/linesmerrill/road-report-console/session"
)

type fakeValidator struct {
	user   models.User
	err    error
	calls  int
	tokens []string
}

func (f *fakeValidator) Me(ctx context.Context) (models.User, error) {
	f.calls++
	if s, ok := session.FromContext(ctx); ok {
		tok, _ := s.Token()
		f.tokens = append(f.tokens, tok)
	}
	return f.user, f.err
}

func sessionEcho(t *testing.T, want session.Claims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := session.FromContext(r.Context())
		if assert.True(t, ok) {
			assert.Equal(t, want, s.Claims())
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func authed(token string) *http.Request {
	req := httptest.NewRequest("GET", "/api/v1/employer/reports", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestGuardian_Middleware(t *testing.T) {
	v := &fakeValidator{user: models.User{ID: "u1", Email: "boss@example.com", Role: models.RoleEmployer}}
	g := api.NewGuardian(context.Background(), v, time.Minute)
	h := g.Middleware(sessionEcho(t, session.Claims{UserID: "u1", Role: models.RoleEmployer, Email: "boss@example.com"}))

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, authed("tok-1"))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	}
	assert.Equal(t, 1, v.calls)
	assert.Equal(t, []string{"tok-1"}, v.tokens)
}

func TestGuardian_MiddlewareRejects(t *testing.T) {
	inactive := false
	tests := []struct {
		name  string
		v     *fakeValidator
		token string
	}{
		{name: "missing token", v: &fakeValidator{}, token: ""},
		{name: "backend rejects", v: &fakeValidator{err: errors.New("invalid token")}, token: "tok"},
		{name: "inactive user", v: &fakeValidator{user: models.User{ID: "u1", Role: models.RoleAdmin, IsActive: &inactive}}, token: "tok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := api.NewGuardian(context.Background(), tt.v, time.Minute)
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("next handler must not run")
			})
			rr := httptest.NewRecorder()
			g.Middleware(next).ServeHTTP(rr, authed(tt.token))

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.JSONEq(t, `{"error": "unauthorized"}`, rr.Body.String())
		})
	}
}

func TestGuardian_InvalidateRevokes(t *testing.T) {
	v := &fakeValidator{user: models.User{ID: "u1", Role: models.RoleEmployer}}
	g := api.NewGuardian(context.Background(), v, time.Minute)
	logout := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, _ := session.FromContext(r.Context())
		s.Invalidate()
	}))

	logout.ServeHTTP(httptest.NewRecorder(), authed("tok-1"))
	logout.ServeHTTP(httptest.NewRecorder(), authed("tok-1"))
	assert.Equal(t, 2, v.calls)
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := api.RequireRole(models.RoleAdmin)(ok)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(session.WithSession(req.Context(), session.New("tok", session.Claims{Role: models.RoleEmployer})))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	admin := session.New("tok", session.Claims{Role: models.RoleAdmin})
	req = httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(session.WithSession(req.Context(), admin))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	admin.Invalidate()
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestTimeoutMiddleware(t *testing.T) {
	var deadline time.Time
	var hasDeadline bool
	h := api.TimeoutMiddleware(2 * time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadline, hasDeadline = r.Context().Deadline()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	assert.True(t, hasDeadline)
	assert.WithinDuration(t, time.Now().Add(2*time.Second), deadline, time.Second)
}

func TestWithGuardTimeout(t *testing.T) {
	ctx, cancel := api.WithGuardTimeout(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(api.GuardTimeout), deadline, time.Second)
}
