package backend

import (
	"context"

	"github.com/linesmerrill/road-report-console/models"
)

// AuthService handles the caller's own account
type AuthService struct {
	http *httpClient
}

// Me returns the user the session token belongs to
func (s *AuthService) Me(ctx context.Context) (models.User, error) {
	raw, err := s.http.get(ctx, "/auth/me", nil)
	if err != nil {
		return models.User{}, err
	}
	return decodeObject[models.User](raw, "user")
}
