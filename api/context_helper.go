package api

import (
	"context"
	"time"
)

// GuardTimeout bounds the extra report fetch made before an operator delete
const GuardTimeout = 10 * time.Second

// WithGuardTimeout creates a context with the guard fetch timeout
func WithGuardTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, GuardTimeout)
}
