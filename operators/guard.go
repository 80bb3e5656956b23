package operators

import (
	"context"
	"errors"
	"fmt"

	"github.com/linesmerrill/road-report-console/models"
)

// ErrHasAssignments is returned when deleting an operator that still has
// assigned reports
var ErrHasAssignments = errors.New("operator has assigned reports and cannot be deleted")

// Remover issues the delete request for an operator
type Remover interface {
	Delete(ctx context.Context, operatorID string) error
}

// AssignedOperatorID returns the id a report is assigned to, whatever shape
// the reference arrived in, or "" when unassigned
func AssignedOperatorID(r models.Report) string {
	return r.Operator().ID()
}

// AssignedCount counts the reports assigned to operatorID
func AssignedCount(operatorID string, reports []models.Report) int {
	if operatorID == "" {
		return 0
	}
	n := 0
	for _, r := range reports {
		if AssignedOperatorID(r) == operatorID {
			n++
		}
	}
	return n
}

// CanDelete reports whether the operator has no assigned reports
func CanDelete(operatorID string, reports []models.Report) bool {
	return AssignedCount(operatorID, reports) == 0
}

// Usage returns the assigned report count for every operator referenced
// in reports
func Usage(reports []models.Report) map[string]int {
	usage := make(map[string]int)
	for _, r := range reports {
		if id := AssignedOperatorID(r); id != "" {
			usage[id]++
		}
	}
	return usage
}

// Delete evaluates the guard and only then asks the remover to delete the
// operator. No request is sent when the operator still has assignments.
func Delete(ctx context.Context, remover Remover, operatorID string, reports []models.Report) error {
	if n := AssignedCount(operatorID, reports); n > 0 {
		return fmt.Errorf("%w: %d assigned", ErrHasAssignments, n)
	}
	return remover.Delete(ctx, operatorID)
}
