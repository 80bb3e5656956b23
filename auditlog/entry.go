package auditlog

import (
	"time"

	"github.com/linesmerrill/road-report-console/models"
)

// TimestampLayout renders the createdAt column
const TimestampLayout = "1/2/2006, 3:04:05 PM"

// Entry is an audit log entry prepared for display
type Entry struct {
	ID         string   `json:"id"`
	Action     string   `json:"action"`
	Actor      string   `json:"actor"`
	TargetType string   `json:"targetType"`
	Timestamp  string   `json:"timestamp"`
	Lines      []string `json:"lines"`
}

// Present converts raw entries for display. Dates render in loc, or UTC when
// loc is nil.
func Present(entries []models.AuditLogEntry, loc *time.Location) []Entry {
	if loc == nil {
		loc = time.UTC
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, Entry{
			ID:         e.ID,
			Action:     e.Action,
			Actor:      actorName(e.ActorID),
			TargetType: orNA(e.TargetType),
			Timestamp:  formatTimestamp(e.CreatedAt, loc),
			Lines:      Render(e.Action, e.Metadata),
		})
	}
	return out
}

func actorName(ref models.OperatorRef) string {
	if s, ok := ref.Summary(); ok && s.DisplayName() != "" {
		return s.DisplayName()
	}
	return "N/A"
}

func formatTimestamp(value string, loc *time.Location) string {
	if value == "" {
		return "N/A"
	}
	t, err := models.ParseTime(value)
	if err != nil {
		return "N/A"
	}
	return t.In(loc).Format(TimestampLayout)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
