package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/linesmerrill/road-report-console/backend"
	"github.com/linesmerrill/road-report-console/config"
	"github.com/linesmerrill/road-report-console/events"
	"github.com/linesmerrill/road-report-console/metrics"
	"github.com/linesmerrill/road-report-console/models"
)

// User exported for testing purposes
type User struct {
	ADB     AdminSource
	Events  events.Publisher
	Metrics *metrics.Recorder
}

// UsersResponse is the body of the user listing
type UsersResponse struct {
	Users  []models.User     `json:"users"`
	Counts models.UserCounts `json:"counts"`
}

// BulkStatusRequest is the body of the bulk status update
type BulkStatusRequest struct {
	IDs      []string `json:"ids"`
	IsActive *bool    `json:"isActive"`
}

// BulkStatusResponse attributes the bulk outcome to every id
type BulkStatusResponse struct {
	Message string               `json:"message"`
	Results []backend.BulkResult `json:"results"`
}

type statusBody struct {
	IsActive *bool `json:"isActive"`
}

// UsersHandler lists users filtered by the role and q query params
func (uh User) UsersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	users, err := uh.ADB.Users(r.Context(), strings.TrimSpace(q.Get("role")), strings.TrimSpace(q.Get("q")))
	if err != nil {
		upstreamError(w, "Failed to load users", err)
		return
	}
	writeJSON(w, http.StatusOK, UsersResponse{Users: users, Counts: models.CountUsers(users)})
}

// UserStatusHandler activates or deactivates a user
func (uh User) UserStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDVar(w, r, "user_id")
	if !ok {
		return
	}
	var body statusBody
	if err := decodeBody(r, &body); err != nil || body.IsActive == nil {
		config.ErrorStatus("isActive is required", http.StatusBadRequest, w, err)
		return
	}

	if err := uh.ADB.SetUserStatus(r.Context(), id, *body.IsActive); err != nil {
		uh.Metrics.Workflow("user_status", "failed")
		upstreamError(w, "Failed to update user status", err)
		return
	}
	uh.Metrics.Workflow("user_status", "ok")
	uh.notifyStatus(r, []string{id}, *body.IsActive)
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "User status updated"})
}

// BulkUserStatusHandler updates the status of several users one after the
// other, stopping at the first failure
func (uh User) BulkUserStatusHandler(w http.ResponseWriter, r *http.Request) {
	var body BulkStatusRequest
	if err := decodeBody(r, &body); err != nil || body.IsActive == nil {
		config.ErrorStatus("ids and isActive are required", http.StatusBadRequest, w, err)
		return
	}
	if len(body.IDs) == 0 {
		config.ErrorStatus("ids and isActive are required", http.StatusBadRequest, w, errors.New("no ids selected"))
		return
	}

	results, err := uh.ADB.BulkSetStatus(r.Context(), body.IDs, *body.IsActive)
	var updated []string
	for _, res := range results {
		if res.Outcome == backend.BulkOK {
			updated = append(updated, res.ID)
		}
	}
	if len(updated) > 0 {
		uh.notifyStatus(r, updated, *body.IsActive)
	}

	if err != nil {
		uh.Metrics.Workflow("bulk_user_status", "failed")
		writeJSON(w, backend.StatusCode(err), BulkStatusResponse{
			Message: backend.Message(err, "Bulk update failed"),
			Results: results,
		})
		return
	}
	uh.Metrics.Workflow("bulk_user_status", "ok")
	writeJSON(w, http.StatusOK, BulkStatusResponse{
		Message: fmt.Sprintf("%d users updated", len(updated)),
		Results: results,
	})
}

func (uh User) notifyStatus(r *http.Request, ids []string, active bool) {
	for _, id := range ids {
		events.Notify(r.Context(), uh.Events, events.Event{
			Type:      events.UserStatusUpdated,
			RequestID: requestID(r),
			ActorID:   actorID(r),
			Data:      map[string]interface{}{"userId": id, "isActive": active},
		})
	}
}

// UserRoleHandler changes the role of a user
func (uh User) UserRoleHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDVar(w, r, "user_id")
	if !ok {
		return
	}
	var body struct {
		Role string `json:"role"`
	}
	if err := decodeBody(r, &body); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if !models.ValidRole(body.Role) {
		config.ErrorStatus("Invalid role", http.StatusBadRequest, w, fmt.Errorf("unknown role %q", body.Role))
		return
	}

	if err := uh.ADB.SetUserRole(r.Context(), id, body.Role); err != nil {
		upstreamError(w, "Failed to update user", err)
		return
	}
	events.Notify(r.Context(), uh.Events, events.Event{
		Type:      events.UserRoleUpdated,
		RequestID: requestID(r),
		ActorID:   actorID(r),
		Data:      map[string]interface{}{"userId": id, "role": body.Role},
	})
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "User role updated"})
}

// UserMunicipalityHandler moves a user to another municipality
func (uh User) UserMunicipalityHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDVar(w, r, "user_id")
	if !ok {
		return
	}
	var body struct {
		MunicipalityID string `json:"municipalityId"`
	}
	if err := decodeBody(r, &body); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if blank(body.MunicipalityID) {
		config.ErrorStatus("municipalityId is required", http.StatusBadRequest, w, errors.New("missing municipalityId"))
		return
	}

	if err := uh.ADB.SetUserMunicipality(r.Context(), id, body.MunicipalityID); err != nil {
		upstreamError(w, "Failed to update user", err)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "User municipality updated"})
}

// CreateEmployerHandler registers an employer account for a municipality
func (uh User) CreateEmployerHandler(w http.ResponseWriter, r *http.Request) {
	var reg models.EmployerRegistration
	if err := decodeBody(r, &reg); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if blank(reg.FirstName, reg.LastName, reg.Email, reg.Password, reg.MunicipalityID) {
		config.ErrorStatus("All fields are required", http.StatusBadRequest, w, errors.New("missing employer field"))
		return
	}

	if err := uh.ADB.RegisterEmployer(r.Context(), reg); err != nil {
		upstreamError(w, "Failed to create employer", err)
		return
	}
	writeJSON(w, http.StatusCreated, models.MessageResponse{Message: "Employer created"})
}
