package handlers

import (
	"errors"
	"net/http"

	"github.com/linesmerrill/road-report-console/config"
	"github.com/linesmerrill/road-report-console/models"
	"github.com/linesmerrill/road-report-console/session"
)

// LogoutHandler invalidates the caller's session, which also drops the
// cached token so it has to be validated again on next use
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		config.ErrorStatus("no active session", http.StatusUnauthorized, w, errors.New("missing session"))
		return
	}
	s.Invalidate()
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Logged out"})
}
