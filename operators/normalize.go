package operators

import (
	"strings"

	"github.com/linesmerrill/road-report-console/models"
)

// Normalize converts a raw operator record into the canonical model. Names
// fall back to splitting the combined name field on its first whitespace
// boundary. ok is false only when the record is empty.
func Normalize(raw models.RawOperator) (op models.Operator, ok bool) {
	if raw.IsZero() {
		return models.Operator{}, false
	}
	firstFromName, lastFromName := models.SplitName(raw.Name)

	op = models.Operator{
		ID:        raw.Key(),
		FirstName: firstNonEmpty(raw.FirstName, firstFromName),
		LastName:  firstNonEmpty(raw.LastName, lastFromName),
		Email:     raw.Email,
	}
	return op, true
}

// NormalizeAll normalizes a listing, dropping empty records
func NormalizeAll(raws []models.RawOperator) []models.Operator {
	ops := make([]models.Operator, 0, len(raws))
	for _, raw := range raws {
		if op, ok := Normalize(raw); ok {
			ops = append(ops, op)
		}
	}
	return ops
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
