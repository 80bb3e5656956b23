package handlers

import (
	"context"
	"encoding/json"

	"github.com/linesmerrill/road-report-console/backend"
	"github.com/linesmerrill/road-report-console/models"
)

// ReportSource is the reports backend as used by the handlers
type ReportSource interface {
	ListForEmployer(ctx context.Context) ([]models.Report, error)
	Filter(ctx context.Context, params map[string]string) ([]models.Report, error)
	FilterStrict(ctx context.Context, params map[string]string) ([]models.Report, error)
	Get(ctx context.Context, id string) (models.Report, error)
	Assign(ctx context.Context, reportID, operatorID string) error
	Summary(ctx context.Context) (models.Summary, error)
	MunicipalityStats(ctx context.Context) ([]json.RawMessage, error)
}

// OperatorSource is the field operator backend
type OperatorSource interface {
	List(ctx context.Context) ([]models.RawOperator, error)
	Register(ctx context.Context, reg models.OperatorRegistration) (models.RawOperator, error)
	Delete(ctx context.Context, operatorID string) error
}

// AdminSource is the user administration backend
type AdminSource interface {
	AuditLogs(ctx context.Context) ([]models.AuditLogEntry, error)
	Users(ctx context.Context, role, query string) ([]models.User, error)
	SetUserStatus(ctx context.Context, userID string, active bool) error
	SetUserRole(ctx context.Context, userID, role string) error
	SetUserMunicipality(ctx context.Context, userID, municipalityID string) error
	BulkSetStatus(ctx context.Context, ids []string, active bool) ([]backend.BulkResult, error)
	RegisterEmployer(ctx context.Context, reg models.EmployerRegistration) error
}

// MunicipalitySource is the municipality backend
type MunicipalitySource interface {
	List(ctx context.Context) ([]models.Municipality, error)
	Create(ctx context.Context, m models.MunicipalityCreate) error
	UpdateCoordinates(ctx context.Context, id string, c models.CoordinatesUpdate) error
	SetStatus(ctx context.Context, id string, active bool) error
}
