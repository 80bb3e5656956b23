// Package mocks holds testify mocks of the backend sources the handlers use
package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/linesmerrill/road-report-console/backend"
	"github.com/linesmerrill/road-report-console/models"
)

// ReportSource is a mock of handlers.ReportSource
type ReportSource struct {
	mock.Mock
}

// ListForEmployer provides a mock function with given fields: ctx
func (_m *ReportSource) ListForEmployer(ctx context.Context) ([]models.Report, error) {
	ret := _m.Called(ctx)
	r0, _ := ret.Get(0).([]models.Report)
	return r0, ret.Error(1)
}

// Filter provides a mock function with given fields: ctx, params
func (_m *ReportSource) Filter(ctx context.Context, params map[string]string) ([]models.Report, error) {
	ret := _m.Called(ctx, params)
	r0, _ := ret.Get(0).([]models.Report)
	return r0, ret.Error(1)
}

// FilterStrict provides a mock function with given fields: ctx, params
func (_m *ReportSource) FilterStrict(ctx context.Context, params map[string]string) ([]models.Report, error) {
	ret := _m.Called(ctx, params)
	r0, _ := ret.Get(0).([]models.Report)
	return r0, ret.Error(1)
}

// Get provides a mock function with given fields: ctx, id
func (_m *ReportSource) Get(ctx context.Context, id string) (models.Report, error) {
	ret := _m.Called(ctx, id)
	r0, _ := ret.Get(0).(models.Report)
	return r0, ret.Error(1)
}

// Assign provides a mock function with given fields: ctx, reportID, operatorID
func (_m *ReportSource) Assign(ctx context.Context, reportID, operatorID string) error {
	return _m.Called(ctx, reportID, operatorID).Error(0)
}

// Summary provides a mock function with given fields: ctx
func (_m *ReportSource) Summary(ctx context.Context) (models.Summary, error) {
	ret := _m.Called(ctx)
	r0, _ := ret.Get(0).(models.Summary)
	return r0, ret.Error(1)
}

// MunicipalityStats provides a mock function with given fields: ctx
func (_m *ReportSource) MunicipalityStats(ctx context.Context) ([]json.RawMessage, error) {
	ret := _m.Called(ctx)
	r0, _ := ret.Get(0).([]json.RawMessage)
	return r0, ret.Error(1)
}

// OperatorSource is a mock of handlers.OperatorSource
type OperatorSource struct {
	mock.Mock
}

// List provides a mock function with given fields: ctx
func (_m *OperatorSource) List(ctx context.Context) ([]models.RawOperator, error) {
	ret := _m.Called(ctx)
	r0, _ := ret.Get(0).([]models.RawOperator)
	return r0, ret.Error(1)
}

// Register provides a mock function with given fields: ctx, reg
func (_m *OperatorSource) Register(ctx context.Context, reg models.OperatorRegistration) (models.RawOperator, error) {
	ret := _m.Called(ctx, reg)
	r0, _ := ret.Get(0).(models.RawOperator)
	return r0, ret.Error(1)
}

// Delete provides a mock function with given fields: ctx, operatorID
func (_m *OperatorSource) Delete(ctx context.Context, operatorID string) error {
	return _m.Called(ctx, operatorID).Error(0)
}

// AdminSource is a mock of handlers.AdminSource
type AdminSource struct {
	mock.Mock
}

// AuditLogs provides a mock function with given fields: ctx
func (_m *AdminSource) AuditLogs(ctx context.Context) ([]models.AuditLogEntry, error) {
	ret := _m.Called(ctx)
	r0, _ := ret.Get(0).([]models.AuditLogEntry)
	return r0, ret.Error(1)
}

// Users provides a mock function with given fields: ctx, role, query
func (_m *AdminSource) Users(ctx context.Context, role, query string) ([]models.User, error) {
	ret := _m.Called(ctx, role, query)
	r0, _ := ret.Get(0).([]models.User)
	return r0, ret.Error(1)
}

// SetUserStatus provides a mock function with given fields: ctx, userID, active
func (_m *AdminSource) SetUserStatus(ctx context.Context, userID string, active bool) error {
	return _m.Called(ctx, userID, active).Error(0)
}

// SetUserRole provides a mock function with given fields: ctx, userID, role
func (_m *AdminSource) SetUserRole(ctx context.Context, userID, role string) error {
	return _m.Called(ctx, userID, role).Error(0)
}

// SetUserMunicipality provides a mock function with given fields: ctx, userID, municipalityID
func (_m *AdminSource) SetUserMunicipality(ctx context.Context, userID, municipalityID string) error {
	return _m.Called(ctx, userID, municipalityID).Error(0)
}

// BulkSetStatus provides a mock function with given fields: ctx, ids, active
func (_m *AdminSource) BulkSetStatus(ctx context.Context, ids []string, active bool) ([]backend.BulkResult, error) {
	ret := _m.Called(ctx, ids, active)
	r0, _ := ret.Get(0).([]backend.BulkResult)
	return r0, ret.Error(1)
}

// RegisterEmployer provides a mock function with given fields: ctx, reg
func (_m *AdminSource) RegisterEmployer(ctx context.Context, reg models.EmployerRegistration) error {
	return _m.Called(ctx, reg).Error(0)
}

// MunicipalitySource is a mock of handlers.MunicipalitySource
type MunicipalitySource struct {
	mock.Mock
}

// List provides a mock function with given fields: ctx
func (_m *MunicipalitySource) List(ctx context.Context) ([]models.Municipality, error) {
	ret := _m.Called(ctx)
	r0, _ := ret.Get(0).([]models.Municipality)
	return r0, ret.Error(1)
}

// Create provides a mock function with given fields: ctx, m
func (_m *MunicipalitySource) Create(ctx context.Context, m models.MunicipalityCreate) error {
	return _m.Called(ctx, m).Error(0)
}

// UpdateCoordinates provides a mock function with given fields: ctx, id, c
func (_m *MunicipalitySource) UpdateCoordinates(ctx context.Context, id string, c models.CoordinatesUpdate) error {
	return _m.Called(ctx, id, c).Error(0)
}

// SetStatus provides a mock function with given fields: ctx, id, active
func (_m *MunicipalitySource) SetStatus(ctx context.Context, id string, active bool) error {
	return _m.Called(ctx, id, active).Error(0)
}
