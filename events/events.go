// Package events publishes console workflow events after the backend has
// confirmed the change.
package events

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Event types
const (
	ReportAssigned    = "report.assigned"
	OperatorCreated   = "operator.created"
	OperatorDeleted   = "operator.deleted"
	UserStatusUpdated = "user.status_updated"
	UserRoleUpdated   = "user.role_updated"
)

// Event is a confirmed workflow change
type Event struct {
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurredAt"`
	RequestID  string                 `json:"requestId,omitempty"`
	ActorID    string                 `json:"actorId,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// Publisher delivers events
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// Noop discards every event
type Noop struct{}

// Publish does nothing
func (Noop) Publish(context.Context, Event) error { return nil }

// Close does nothing
func (Noop) Close() error { return nil }

// Notify publishes evt and logs a failure instead of returning it. A nil
// publisher is allowed.
func Notify(ctx context.Context, p Publisher, evt Event) {
	if p == nil {
		return
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	if err := p.Publish(ctx, evt); err != nil {
		zap.S().Errorw("failed to publish event",
			"type", evt.Type,
			"requestId", evt.RequestID,
			"error", err)
	}
}
