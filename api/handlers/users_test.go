package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/road-report-console/api/handlers"
	"github.com/linesmerrill/road-report-console/api/handlers/mocks"
	"github.com/linesmerrill/road-report-console/backend"
	"github.com/linesmerrill/road-report-console/models"
)

const userID = "5fc51f58c72ff10004dca3a0"

func userRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, "/api/v1/admin/users/"+userID+path, bytes.NewBufferString(body))
	return mux.SetURLVars(req, map[string]string{"user_id": userID})
}

func TestUser_UsersHandler(t *testing.T) {
	inactive := false
	adb := &mocks.AdminSource{}
	adb.On("Users", mock.Anything, "employer", "jane").Return([]models.User{
		{ID: "1", Email: "a@x.com", Role: "employer"},
		{ID: "2", Email: "b@x.com", Role: "employer", IsActive: &inactive},
	}, nil)

	uh := handlers.User{ADB: adb}
	rr := httptest.NewRecorder()
	http.HandlerFunc(uh.UsersHandler).ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/admin/users?role=employer&q=jane", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp handlers.UsersResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Users, 2)
	assert.Equal(t, models.UserCounts{Total: 2, Active: 1, Inactive: 1}, resp.Counts)
}

func TestUser_UserStatusHandler(t *testing.T) {
	adb := &mocks.AdminSource{}
	adb.On("SetUserStatus", mock.Anything, userID, false).Return(nil)

	uh := handlers.User{ADB: adb}
	rr := httptest.NewRecorder()
	http.HandlerFunc(uh.UserStatusHandler).ServeHTTP(rr, userRequest("PATCH", "/status", `{"isActive":false}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	adb.AssertExpectations(t)
}

func TestUser_UserStatusHandlerMissingFlag(t *testing.T) {
	adb := &mocks.AdminSource{}
	uh := handlers.User{ADB: adb}
	rr := httptest.NewRecorder()
	http.HandlerFunc(uh.UserStatusHandler).ServeHTTP(rr, userRequest("PATCH", "/status", `{}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	adb.AssertNotCalled(t, "SetUserStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUser_UserStatusHandlerBackendMessage(t *testing.T) {
	adb := &mocks.AdminSource{}
	adb.On("SetUserStatus", mock.Anything, userID, true).Return(&backend.APIError{StatusCode: 404, Message: "User not found"})

	uh := handlers.User{ADB: adb}
	rr := httptest.NewRecorder()
	http.HandlerFunc(uh.UserStatusHandler).ServeHTTP(rr, userRequest("PATCH", "/status", `{"isActive":true}`))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "User not found", decodeError(t, rr).Message)
}

func TestUser_BulkUserStatusHandler(t *testing.T) {
	ids := []string{"a", "b", "c"}
	results := []backend.BulkResult{
		{ID: "a", Outcome: backend.BulkOK},
		{ID: "b", Outcome: backend.BulkFailed, Message: "Bulk update failed"},
		{ID: "c", Outcome: backend.BulkSkipped},
	}
	adb := &mocks.AdminSource{}
	adb.On("BulkSetStatus", mock.Anything, ids, false).Return(results, &backend.TransportError{Endpoint: "/auth/admin/users/b/status"})

	uh := handlers.User{ADB: adb}
	rr := httptest.NewRecorder()
	body := `{"ids":["a","b","c"],"isActive":false}`
	http.HandlerFunc(uh.BulkUserStatusHandler).ServeHTTP(rr, httptest.NewRequest("POST", "/api/v1/admin/users/bulk-status", bytes.NewBufferString(body)))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	var resp handlers.BulkStatusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Bulk update failed", resp.Message)
	assert.Equal(t, results, resp.Results)
}

func TestUser_BulkUserStatusHandlerNoIDs(t *testing.T) {
	adb := &mocks.AdminSource{}
	uh := handlers.User{ADB: adb}
	rr := httptest.NewRecorder()
	http.HandlerFunc(uh.BulkUserStatusHandler).ServeHTTP(rr, httptest.NewRequest("POST", "/api/v1/admin/users/bulk-status", bytes.NewBufferString(`{"ids":[],"isActive":true}`)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	adb.AssertNotCalled(t, "BulkSetStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUser_UserRoleHandler(t *testing.T) {
	adb := &mocks.AdminSource{}
	adb.On("SetUserRole", mock.Anything, userID, "field_operator").Return(nil)

	uh := handlers.User{ADB: adb}
	rr := httptest.NewRecorder()
	http.HandlerFunc(uh.UserRoleHandler).ServeHTTP(rr, userRequest("PATCH", "/role", `{"role":"field_operator"}`))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	http.HandlerFunc(uh.UserRoleHandler).ServeHTTP(rr, userRequest("PATCH", "/role", `{"role":"superuser"}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	adb.AssertNumberOfCalls(t, "SetUserRole", 1)
}

func TestUser_UserMunicipalityHandler(t *testing.T) {
	adb := &mocks.AdminSource{}
	adb.On("SetUserMunicipality", mock.Anything, userID, "m1").Return(nil)

	uh := handlers.User{ADB: adb}
	rr := httptest.NewRecorder()
	http.HandlerFunc(uh.UserMunicipalityHandler).ServeHTTP(rr, userRequest("PATCH", "/municipality", `{"municipalityId":"m1"}`))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	http.HandlerFunc(uh.UserMunicipalityHandler).ServeHTTP(rr, userRequest("PATCH", "/municipality", `{"municipalityId":""}`))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	adb.AssertNumberOfCalls(t, "SetUserMunicipality", 1)
}

func TestUser_CreateEmployerHandler(t *testing.T) {
	adb := &mocks.AdminSource{}
	adb.On("RegisterEmployer", mock.Anything, mock.Anything).Return(nil)

	uh := handlers.User{ADB: adb}
	rr := httptest.NewRecorder()
	body := `{"firstName":"Ann","lastName":"Lee","email":"ann@x.com","password":"pw"}`
	http.HandlerFunc(uh.CreateEmployerHandler).ServeHTTP(rr, httptest.NewRequest("POST", "/api/v1/admin/employers", bytes.NewBufferString(body)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "All fields are required", decodeError(t, rr).Message)

	rr = httptest.NewRecorder()
	body = `{"firstName":"Ann","lastName":"Lee","email":"ann@x.com","password":"pw","municipalityId":"m1"}`
	http.HandlerFunc(uh.CreateEmployerHandler).ServeHTTP(rr, httptest.NewRequest("POST", "/api/v1/admin/employers", bytes.NewBufferString(body)))
	assert.Equal(t, http.StatusCreated, rr.Code)
	adb.AssertNumberOfCalls(t, "RegisterEmployer", 1)
}
