package backend

import (
	"context"

	"github.com/linesmerrill/road-report-console/models"
)

// BulkOutcome is the per id result of a bulk status update
type BulkOutcome string

// Bulk outcomes
const (
	BulkOK      BulkOutcome = "ok"
	BulkFailed  BulkOutcome = "failed"
	BulkSkipped BulkOutcome = "skipped"
)

// BulkResult attributes a bulk update outcome to one user id
type BulkResult struct {
	ID      string      `json:"id"`
	Outcome BulkOutcome `json:"outcome"`
	Message string      `json:"message,omitempty"`
}

// AdminService handles the /auth/admin endpoints
type AdminService struct {
	http *httpClient
}

// AuditLogs returns the governance audit log
func (s *AdminService) AuditLogs(ctx context.Context) ([]models.AuditLogEntry, error) {
	const endpoint = "/auth/admin/audit-logs"
	raw, err := s.http.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.AuditLogEntry](endpoint, raw, "logs"), nil
}

// Users lists users, optionally filtered by role and a search query
func (s *AdminService) Users(ctx context.Context, role, query string) ([]models.User, error) {
	const endpoint = "/auth/admin/users"
	raw, err := s.http.get(ctx, endpoint, map[string]string{"role": role, "q": query})
	if err != nil {
		return nil, err
	}
	return decodeList[models.User](endpoint, raw, "users"), nil
}

// SetUserStatus activates or deactivates a user
func (s *AdminService) SetUserStatus(ctx context.Context, userID string, active bool) error {
	_, err := s.http.patch(ctx, pathf("/auth/admin/users/%s/status", userID), models.StatusUpdate{IsActive: active})
	return err
}

// SetUserRole changes the role of a user
func (s *AdminService) SetUserRole(ctx context.Context, userID, role string) error {
	_, err := s.http.patch(ctx, pathf("/auth/admin/users/%s/role", userID), map[string]string{"role": role})
	return err
}

// SetUserMunicipality moves a user to another municipality
func (s *AdminService) SetUserMunicipality(ctx context.Context, userID, municipalityID string) error {
	_, err := s.http.patch(ctx, pathf("/auth/admin/users/%s/municipality", userID), map[string]string{"municipalityId": municipalityID})
	return err
}

// BulkSetStatus updates ids one at a time, in order, and stops at the first
// failure. Every id is attributed a result; ids after the failure are
// skipped. The returned error is the first failure.
func (s *AdminService) BulkSetStatus(ctx context.Context, ids []string, active bool) ([]BulkResult, error) {
	results := make([]BulkResult, len(ids))
	var firstErr error
	for i, id := range ids {
		results[i].ID = id
		if firstErr != nil {
			results[i].Outcome = BulkSkipped
			continue
		}
		if err := s.SetUserStatus(ctx, id, active); err != nil {
			firstErr = err
			results[i].Outcome = BulkFailed
			results[i].Message = Message(err, "Bulk update failed")
			continue
		}
		results[i].Outcome = BulkOK
	}
	return results, firstErr
}

// RegisterEmployer creates an employer account
func (s *AdminService) RegisterEmployer(ctx context.Context, reg models.EmployerRegistration) error {
	reg.Role = models.RoleEmployer
	_, err := s.http.post(ctx, "/auth/admin/register", reg)
	return err
}
