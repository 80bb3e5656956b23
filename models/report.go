package models

import (
	"encoding/json"
	"strings"
	"time"
)

// ReportStatus is the lifecycle state of a citizen report
type ReportStatus string

// Report statuses as stored by the backend
const (
	StatusPending    ReportStatus = "pending"
	StatusAssigned   ReportStatus = "assigned"
	StatusInProgress ReportStatus = "in_progress"
	StatusResolved   ReportStatus = "resolved"
)

// Priority is the classification assigned to a report by the backend.
// It is read-only from the console's point of view.
type Priority string

// Report priorities
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Report holds the structure of a report as returned by the reports api
type Report struct {
	ID                 string          `json:"_id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Status             ReportStatus    `json:"status"`
	Priority           Priority        `json:"aiPriority"`
	AssignedOperatorID OperatorRef     `json:"assignedOperatorId"`
	AssignedOperator   *OperatorRef    `json:"assignedOperator,omitempty"`
	MunicipalityID     json.RawMessage `json:"municipalityId,omitempty"`
	AssignedEmployerID json.RawMessage `json:"assignedEmployerId,omitempty"`
	Location           json.RawMessage `json:"location,omitempty"`
	ImageURL           string          `json:"imageUrl,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// Operator returns the assigned operator reference, falling back to the
// alternate assignedOperator key some endpoints populate instead.
func (r Report) Operator() OperatorRef {
	if r.AssignedOperatorID.IsAssigned() {
		return r.AssignedOperatorID
	}
	if r.AssignedOperator != nil {
		return *r.AssignedOperator
	}
	return OperatorRef{}
}

// UnmarshalJSON accepts the priority under either aiPriority or priority and
// tolerates createdAt values that are not RFC 3339 timestamps, leaving them
// as the zero time instead of failing the whole collection.
func (r *Report) UnmarshalJSON(data []byte) error {
	type reportAlias Report
	var aux struct {
		reportAlias
		LegacyPriority Priority        `json:"priority"`
		CreatedAt      json.RawMessage `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Report(aux.reportAlias)
	if r.Priority == "" {
		r.Priority = aux.LegacyPriority
	}
	r.CreatedAt = parseTimestamp(aux.CreatedAt)
	return nil
}

func parseTimestamp(raw json.RawMessage) time.Time {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return time.Time{}
	}
	t, err := ParseTime(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ParseTime parses the timestamp formats the backend emits.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// AssignRequest is the body of POST /reports/assign
type AssignRequest struct {
	ReportID   string `json:"reportId"`
	OperatorID string `json:"operatorId"`
}

// Summary holds the per municipality statistics returned by /reports/summary
type Summary struct {
	Stats            map[string]interface{} `json:"stats"`
	MunicipalityName string                 `json:"municipalityName"`
}
