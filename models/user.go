package models

import (
	"encoding/json"
	"strings"
)

// User roles known to the backend
const (
	RoleAdmin         = "admin"
	RoleEmployer      = "employer"
	RoleFieldOperator = "field_operator"
	RoleCitizen       = "citizen"
)

// ValidRole reports whether role is one the backend accepts
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleEmployer, RoleFieldOperator, RoleCitizen:
		return true
	}
	return false
}

// User holds the structure of a user account as returned by the admin api
type User struct {
	ID           string          `json:"_id"`
	FirstName    string          `json:"firstName,omitempty"`
	LastName     string          `json:"lastName,omitempty"`
	Name         string          `json:"name,omitempty"`
	Email        string          `json:"email"`
	Role         string          `json:"role"`
	IsActive     *bool           `json:"isActive,omitempty"`
	LegacyActive *bool           `json:"active,omitempty"`
	Municipality json.RawMessage `json:"municipality,omitempty"`
	CreatedAt    string          `json:"createdAt,omitempty"`
}

// Active treats a missing flag as active; only an explicit false deactivates
func (u User) Active() bool {
	if u.IsActive != nil && !*u.IsActive {
		return false
	}
	if u.LegacyActive != nil && !*u.LegacyActive {
		return false
	}
	return true
}

// DisplayName returns the best available name for the user
func (u User) DisplayName() string {
	if n := strings.TrimSpace(u.FirstName + " " + u.LastName); n != "" {
		return n
	}
	if n := strings.TrimSpace(u.Name); n != "" {
		return n
	}
	return u.Email
}

// UserCounts summarizes a user listing
type UserCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// CountUsers returns total, active and inactive counts
func CountUsers(users []User) UserCounts {
	c := UserCounts{Total: len(users)}
	for _, u := range users {
		if u.IsActive == nil || *u.IsActive {
			c.Active++
		}
	}
	c.Inactive = c.Total - c.Active
	return c
}

// EmployerRegistration is the body of POST /auth/admin/register
type EmployerRegistration struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	MunicipalityID string `json:"municipalityId,omitempty"`
}

// StatusUpdate is the body of PATCH /auth/admin/users/{id}/status and
// /municipality/{id}/status
type StatusUpdate struct {
	IsActive bool `json:"isActive"`
}
