package backend

import (
	"context"

	"github.com/linesmerrill/road-report-console/models"
)

// MunicipalitiesService handles the /municipality endpoints
type MunicipalitiesService struct {
	http *httpClient
}

// List returns every municipality
func (s *MunicipalitiesService) List(ctx context.Context) ([]models.Municipality, error) {
	const endpoint = "/municipality"
	raw, err := s.http.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Municipality](endpoint, raw, "municipalities"), nil
}

// Create adds a municipality
func (s *MunicipalitiesService) Create(ctx context.Context, m models.MunicipalityCreate) error {
	_, err := s.http.post(ctx, "/municipality/add", m)
	return err
}

// UpdateCoordinates sets the center and radius of a municipality
func (s *MunicipalitiesService) UpdateCoordinates(ctx context.Context, id string, c models.CoordinatesUpdate) error {
	_, err := s.http.patch(ctx, pathf("/municipality/%s/coordinates", id), c)
	return err
}

// SetStatus activates or deactivates a municipality
func (s *MunicipalitiesService) SetStatus(ctx context.Context, id string, active bool) error {
	_, err := s.http.patch(ctx, pathf("/municipality/%s/status", id), models.StatusUpdate{IsActive: active})
	return err
}
