package backend

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/linesmerrill/road-report-console/models"
)

// ReportsService handles the /reports endpoints
type ReportsService struct {
	http *httpClient
}

// ListForEmployer returns the reports of the caller's municipality
func (s *ReportsService) ListForEmployer(ctx context.Context) ([]models.Report, error) {
	const endpoint = "/reports/employer"
	raw, err := s.http.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Report](endpoint, raw, "reports"), nil
}

// Filter returns reports matching the backend side filter params
func (s *ReportsService) Filter(ctx context.Context, params map[string]string) ([]models.Report, error) {
	const endpoint = "/reports/filter"
	raw, err := s.http.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	return decodeList[models.Report](endpoint, raw, "reports", "results"), nil
}

// FilterStrict is Filter for callers that act on the result, such as the
// operator delete guard. An unusable body fails with ErrMalformedResponse
// instead of reading as an empty listing.
func (s *ReportsService) FilterStrict(ctx context.Context, params map[string]string) ([]models.Report, error) {
	const endpoint = "/reports/filter"
	raw, err := s.http.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	return decodeListStrict[models.Report](endpoint, raw, "reports", "results")
}

// Get returns a single report
func (s *ReportsService) Get(ctx context.Context, id string) (models.Report, error) {
	raw, err := s.http.get(ctx, pathf("/reports/%s", id), nil)
	if err != nil {
		return models.Report{}, err
	}
	return decodeObject[models.Report](raw, "report")
}

// Assign binds a report to an operator. An empty body counts as a failure.
func (s *ReportsService) Assign(ctx context.Context, reportID, operatorID string) error {
	raw, err := s.http.post(ctx, "/reports/assign", models.AssignRequest{ReportID: reportID, OperatorID: operatorID})
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return fmt.Errorf("%w: empty assign response", ErrMalformedResponse)
	}
	return nil
}

// Summary returns the report statistics of the caller's municipality
func (s *ReportsService) Summary(ctx context.Context) (models.Summary, error) {
	raw, err := s.http.get(ctx, "/reports/summary", nil)
	if err != nil {
		return models.Summary{}, err
	}
	return decodeObject[models.Summary](raw)
}

// MunicipalityStats returns per municipality report statistics as sent
func (s *ReportsService) MunicipalityStats(ctx context.Context) ([]json.RawMessage, error) {
	const endpoint = "/reports/admin/municipality-stats"
	raw, err := s.http.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[json.RawMessage](endpoint, raw), nil
}
