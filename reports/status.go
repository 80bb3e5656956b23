package reports

import (
	"fmt"

	"github.com/linesmerrill/road-report-console/models"
)

// Badge labels
const (
	LabelPending    = "Pending"
	LabelInProgress = "In Progress"
	LabelResolved   = "Resolved"
)

// IsActive reports whether the status is one of the two active work labels
func IsActive(s models.ReportStatus) bool {
	return s == models.StatusAssigned || s == models.StatusInProgress
}

// Label returns the badge text for a status. Unknown statuses show as pending.
func Label(s models.ReportStatus) string {
	switch {
	case s == models.StatusResolved:
		return LabelResolved
	case IsActive(s):
		return LabelInProgress
	default:
		return LabelPending
	}
}

// CanAssign reports whether the first assignment action applies
func CanAssign(r models.Report) bool {
	return r.Status == models.StatusPending
}

// CanChange reports whether the reassignment action applies
func CanChange(r models.Report) bool {
	return IsActive(r.Status)
}

// PriorityRank maps a priority to its sort ordinal. Unknown priorities rank 0.
func PriorityRank(p models.Priority) int {
	switch p {
	case models.PriorityHigh:
		return 3
	case models.PriorityMedium:
		return 2
	case models.PriorityLow:
		return 1
	}
	return 0
}

// CheckInvariant verifies the status/assignee pairing of a single report:
// pending reports have no assignee and active reports have one.
func CheckInvariant(r models.Report) error {
	assigned := r.Operator().IsAssigned()
	switch {
	case r.Status == models.StatusPending && assigned:
		return fmt.Errorf("report %s is pending but has an assigned operator", r.ID)
	case IsActive(r.Status) && !assigned:
		return fmt.Errorf("report %s is %s without an assigned operator", r.ID, r.Status)
	}
	return nil
}

// CheckInvariants returns one error per report violating CheckInvariant
func CheckInvariants(reports []models.Report) []error {
	var errs []error
	for _, r := range reports {
		if err := CheckInvariant(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
