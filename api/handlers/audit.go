package handlers

import (
	"net/http"
	"time"

	"github.com/linesmerrill/road-report-console/auditlog"
)

// Audit exported for testing purposes
type Audit struct {
	ADB      AdminSource
	Location *time.Location
}

// AuditLogsHandler returns the governance audit log rendered for display
func (ah Audit) AuditLogsHandler(w http.ResponseWriter, r *http.Request) {
	logs, err := ah.ADB.AuditLogs(r.Context())
	if err != nil {
		upstreamError(w, "Failed to load audit logs", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]auditlog.Entry{"logs": auditlog.Present(logs, ah.Location)})
}
