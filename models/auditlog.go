package models

import (
	"bytes"
	"encoding/json"
)

// AuditLogEntry holds an immutable governance record from /auth/admin/audit-logs.
// Metadata is action dependent and may be null.
type AuditLogEntry struct {
	ID         string                 `json:"_id"`
	Action     string                 `json:"action"`
	ActorID    OperatorRef            `json:"actorId"`
	TargetType string                 `json:"targetType"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  string                 `json:"createdAt"`
}

// UnmarshalJSON keeps entries whose metadata is not an object, or whose
// createdAt is not a string, instead of failing them. Such metadata decodes
// as nil and such timestamps as empty.
func (e *AuditLogEntry) UnmarshalJSON(data []byte) error {
	type entryAlias AuditLogEntry
	var aux struct {
		entryAlias
		Metadata  json.RawMessage `json:"metadata"`
		CreatedAt json.RawMessage `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = AuditLogEntry(aux.entryAlias)

	if md := bytes.TrimSpace(aux.Metadata); len(md) > 0 && md[0] == '{' {
		if err := json.Unmarshal(md, &e.Metadata); err != nil {
			e.Metadata = nil
		}
	}
	var created string
	if json.Unmarshal(aux.CreatedAt, &created) == nil {
		e.CreatedAt = created
	}
	return nil
}
