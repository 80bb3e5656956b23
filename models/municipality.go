package models

import "encoding/json"

// Municipality holds the structure of a municipality as returned by /municipality
type Municipality struct {
	ID        string          `json:"id,omitempty"`
	MongoID   string          `json:"_id,omitempty"`
	Name      string          `json:"name"`
	CenterLat *float64        `json:"centerLat,omitempty"`
	CenterLng *float64        `json:"centerLng,omitempty"`
	RadiusKm  *float64        `json:"radiusKm,omitempty"`
	IsActive  *bool           `json:"isActive,omitempty"`
	Employer  json.RawMessage `json:"employer,omitempty"`
}

// Key returns whichever id field the endpoint populated
func (m Municipality) Key() string {
	if m.ID != "" {
		return m.ID
	}
	return m.MongoID
}

// MunicipalityCreate is the body of POST /municipality/add
type MunicipalityCreate struct {
	Name      string   `json:"name"`
	CenterLat *float64 `json:"centerLat,omitempty"`
	CenterLng *float64 `json:"centerLng,omitempty"`
	RadiusKm  *float64 `json:"radiusKm,omitempty"`
}

// CoordinatesUpdate is the body of PATCH /municipality/{id}/coordinates. Unset
// values are sent as null and clear the stored value.
type CoordinatesUpdate struct {
	CenterLat *float64 `json:"centerLat"`
	CenterLng *float64 `json:"centerLng"`
	RadiusKm  *float64 `json:"radiusKm"`
}
