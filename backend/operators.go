package backend

import (
	"context"

	"github.com/linesmerrill/road-report-console/models"
)

// OperatorsService handles the /auth/employer operator endpoints
type OperatorsService struct {
	http *httpClient
}

// List returns the raw operator records of the caller
func (s *OperatorsService) List(ctx context.Context) ([]models.RawOperator, error) {
	const endpoint = "/auth/employer/operators"
	raw, err := s.http.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.RawOperator](endpoint, raw, "operators"), nil
}

// Register creates an operator. The created record is read from the operator
// or user field, or the body itself; a zero record means the caller should
// re-fetch the listing.
func (s *OperatorsService) Register(ctx context.Context, reg models.OperatorRegistration) (models.RawOperator, error) {
	raw, err := s.http.post(ctx, "/auth/employer/register-operator", reg)
	if err != nil {
		return models.RawOperator{}, err
	}
	op, err := decodeObject[models.RawOperator](raw, "operator", "user")
	if err != nil {
		return models.RawOperator{}, nil
	}
	return op, nil
}

// Delete removes an operator
func (s *OperatorsService) Delete(ctx context.Context, operatorID string) error {
	_, err := s.http.del(ctx, pathf("/auth/employer/operators/%s", operatorID))
	return err
}
