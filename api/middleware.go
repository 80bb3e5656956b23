package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.uber.org/zap"

	"github.com/linesmerrill/road-report-console/models"
	"github.com/linesmerrill/road-report-console/session"
)

// ErrInactiveUser is returned for tokens belonging to deactivated accounts
var ErrInactiveUser = errors.New("user account is deactivated")

// TokenValidator resolves the user a bearer token belongs to. The token is
// available as the session of ctx.
type TokenValidator interface {
	Me(ctx context.Context) (models.User, error)
}

// Guardian authenticates bearer tokens against the backend and caches the
// result for the configured ttl
type Guardian struct {
	authenticator auth.Authenticator
	strategy      auth.Strategy
	validator     TokenValidator
}

// NewGuardian sets up go-guardian with a cached bearer strategy
func NewGuardian(ctx context.Context, validator TokenValidator, ttl time.Duration) *Guardian {
	g := &Guardian{validator: validator}
	cache := store.NewFIFO(ctx, ttl)
	g.strategy = bearer.New(g.validateToken, cache)
	g.authenticator = auth.New()
	g.authenticator.EnableStrategy(bearer.CachedStrategyKey, g.strategy)
	return g
}

func (g *Guardian) validateToken(ctx context.Context, r *http.Request, token string) (auth.Info, error) {
	s := session.New(token, session.Claims{})
	user, err := g.validator.Me(session.WithSession(ctx, s))
	if err != nil {
		return nil, err
	}
	if !user.Active() {
		return nil, ErrInactiveUser
	}
	return auth.NewDefaultUser(user.Email, user.ID, []string{user.Role}, nil), nil
}

// Middleware authenticates the request and attaches the caller's session to
// its context
func (g *Guardian) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		user, err := g.authenticator.Authenticate(r)
		if err != nil {
			zap.S().Errorw("unauthorized",
				"url", r.URL,
				"error", err)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		zap.S().Debugf("User %s Authenticated\n", user.UserName())

		token := bearerToken(r)
		claims, err := session.ParseClaims(token)
		if err != nil {
			zap.S().Debugw("bearer token is not a readable jwt", "error", err)
		}
		claims.UserID = user.ID()
		claims.Email = user.UserName()
		if groups := user.Groups(); len(groups) > 0 {
			claims.Role = groups[0]
		}

		s := session.New(token, claims)
		s.OnInvalidate(func(tok string) {
			if err := auth.Revoke(g.strategy, tok, r); err != nil {
				zap.S().Warnw("failed to revoke cached token", "error", err)
			}
		})
		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
	})
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequireRole only lets sessions holding one of roles through
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := session.FromContext(r.Context())
			if !ok || !s.Valid() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error": "unauthorized"}`))
				return
			}
			role := s.Claims().Role
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			zap.S().Warnw("forbidden",
				"url", r.URL,
				"role", role,
				"required", roles)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error": "forbidden"}`))
		})
	}
}
