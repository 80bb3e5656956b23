package operators

import (
	"github.com/linesmerrill/road-report-console/models"
)

// Display names used when no operator name can be resolved
const (
	NotAssigned     = "Not assigned"
	AssignedUnknown = "Assigned"
)

// Resolved is the canonical form of an operator reference
type Resolved struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// Directory indexes known operators by id. A nil Directory is valid and
// resolves nothing.
type Directory map[string]models.Operator

// NewDirectory indexes ops by id, skipping operators without one
func NewDirectory(ops []models.Operator) Directory {
	d := make(Directory, len(ops))
	for _, op := range ops {
		if op.ID != "" {
			d[op.ID] = op
		}
	}
	return d
}

// Lookup returns the operator with the given id
func (d Directory) Lookup(id string) (models.Operator, bool) {
	op, ok := d[id]
	return op, ok
}

// Resolve turns any OperatorRef shape into an id and display name. Every
// place that shows or compares an assignee goes through here.
func (d Directory) Resolve(ref models.OperatorRef) Resolved {
	if !ref.IsAssigned() {
		return Resolved{DisplayName: NotAssigned}
	}

	res := Resolved{ID: ref.ID()}
	if s, ok := ref.Summary(); ok {
		res.DisplayName = s.DisplayName()
	}
	if res.DisplayName == "" {
		if op, ok := d.Lookup(res.ID); ok {
			res.DisplayName = op.DisplayName()
		}
	}
	if res.DisplayName == "" {
		res.DisplayName = AssignedUnknown
	}
	return res
}
