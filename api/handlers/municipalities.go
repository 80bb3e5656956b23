package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/linesmerrill/road-report-console/config"
	"github.com/linesmerrill/road-report-console/models"
)

// Municipality exported for testing purposes
type Municipality struct {
	MDB MunicipalitySource
	RDB ReportSource
}

// MunicipalitiesResponse is the body of the municipality listing
type MunicipalitiesResponse struct {
	Municipalities []models.Municipality `json:"municipalities"`
	Stats          []json.RawMessage     `json:"stats"`
}

var errMissingID = errors.New("missing municipality id")

func municipalityID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(mux.Vars(r)["municipality_id"])
	if id == "" {
		config.ErrorStatus("municipality id is required", http.StatusBadRequest, w, errMissingID)
		return "", false
	}
	return id, true
}

// MunicipalitiesHandler returns every municipality with its report statistics
func (mh Municipality) MunicipalitiesHandler(w http.ResponseWriter, r *http.Request) {
	ms, err := mh.MDB.List(r.Context())
	if err != nil {
		upstreamError(w, "Failed to load municipalities", err)
		return
	}
	stats, err := mh.RDB.MunicipalityStats(r.Context())
	if err != nil {
		upstreamError(w, "Failed to load municipalities", err)
		return
	}
	writeJSON(w, http.StatusOK, MunicipalitiesResponse{Municipalities: ms, Stats: stats})
}

// CreateMunicipalityHandler adds a municipality
func (mh Municipality) CreateMunicipalityHandler(w http.ResponseWriter, r *http.Request) {
	var body models.MunicipalityCreate
	if err := decodeBody(r, &body); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		config.ErrorStatus("Municipality name is required", http.StatusBadRequest, w, errors.New("missing name"))
		return
	}
	if err := validateCoordinates(body.CenterLat, body.CenterLng, body.RadiusKm); err != nil {
		config.ErrorStatus("Invalid coordinates", http.StatusBadRequest, w, err)
		return
	}

	if err := mh.MDB.Create(r.Context(), body); err != nil {
		upstreamError(w, "Failed to create municipality", err)
		return
	}
	writeJSON(w, http.StatusCreated, models.MessageResponse{Message: "Municipality created"})
}

// MunicipalityCoordinatesHandler sets the center and radius of a municipality
func (mh Municipality) MunicipalityCoordinatesHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := municipalityID(w, r)
	if !ok {
		return
	}
	var body models.CoordinatesUpdate
	if err := decodeBody(r, &body); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if err := validateCoordinates(body.CenterLat, body.CenterLng, body.RadiusKm); err != nil {
		config.ErrorStatus("Invalid coordinates", http.StatusBadRequest, w, err)
		return
	}

	if err := mh.MDB.UpdateCoordinates(r.Context(), id, body); err != nil {
		upstreamError(w, "Failed to update coordinates", err)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Coordinates updated"})
}

// MunicipalityStatusHandler activates or deactivates a municipality
func (mh Municipality) MunicipalityStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := municipalityID(w, r)
	if !ok {
		return
	}
	var body statusBody
	if err := decodeBody(r, &body); err != nil || body.IsActive == nil {
		config.ErrorStatus("isActive is required", http.StatusBadRequest, w, err)
		return
	}

	if err := mh.MDB.SetStatus(r.Context(), id, *body.IsActive); err != nil {
		upstreamError(w, "Failed to update municipality", err)
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Municipality updated"})
}

func validateCoordinates(lat, lng, radius *float64) error {
	switch {
	case lat != nil && (*lat < -90 || *lat > 90):
		return errors.New("centerLat must be between -90 and 90")
	case lng != nil && (*lng < -180 || *lng > 180):
		return errors.New("centerLng must be between -180 and 180")
	case radius != nil && *radius < 0:
		return errors.New("radiusKm must not be negative")
	}
	return nil
}
