package api

import (
	"context"
	"net/http"
	"time"
)

// TimeoutMiddleware bounds the request context so backend calls made by the
// handler are cancelled once timeout elapses. The handler still writes the
// response itself, on the request goroutine.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
