package reports

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/linesmerrill/road-report-console/models"
)

var (
	// ErrOperatorRequired is returned when no operator was selected
	ErrOperatorRequired = errors.New("operator selection is required")
	// ErrOperatorNotFound is returned when the selected operator is not one of the known operators
	ErrOperatorNotFound = errors.New("selected operator could not be resolved")
	// ErrReportResolved is returned when assigning a resolved report
	ErrReportResolved = errors.New("resolved reports cannot be assigned")
	// ErrInvalidStatus is returned for statuses the engine has no transition for
	ErrInvalidStatus = errors.New("report status does not allow assignment")
	// ErrAssignmentInFlight is returned while another assignment of the same report is pending
	ErrAssignmentInFlight = errors.New("an assignment for this report is already in progress")
)

// Transition labels the kind of assignment that was performed. The resulting
// report state is the same for both.
type Transition string

// Transitions
const (
	TransitionAssign   Transition = "assign"
	TransitionReassign Transition = "reassign"
)

// Assigner sends the assign request to the backend
type Assigner interface {
	Assign(ctx context.Context, reportID, operatorID string) error
}

// Assignment is the outcome of a successful assign call
type Assignment struct {
	Report     models.Report          `json:"report"`
	Operator   models.OperatorSummary `json:"operator"`
	Transition Transition             `json:"transition"`
}

// Plan validates an assignment and computes the resulting report without any
// side effect. The input report is not modified.
func Plan(report models.Report, operatorID string, known []models.Operator) (Assignment, error) {
	operatorID = strings.TrimSpace(operatorID)
	if operatorID == "" {
		return Assignment{}, ErrOperatorRequired
	}

	var transition Transition
	switch {
	case report.Status == models.StatusResolved:
		return Assignment{}, ErrReportResolved
	case report.Status == models.StatusPending:
		transition = TransitionAssign
	case IsActive(report.Status):
		transition = TransitionReassign
	default:
		return Assignment{}, ErrInvalidStatus
	}

	op, ok := findOperator(known, operatorID)
	if !ok {
		return Assignment{}, ErrOperatorNotFound
	}

	summary := op.Summary()
	next := report
	next.Status = models.StatusInProgress
	next.AssignedOperatorID = models.EmbeddedRef(summary)
	next.AssignedOperator = nil

	return Assignment{Report: next, Operator: summary, Transition: transition}, nil
}

func findOperator(known []models.Operator, id string) (models.Operator, bool) {
	for _, op := range known {
		if op.ID == id {
			return op, true
		}
	}
	return models.Operator{}, false
}

// Engine performs assignments against the backend. It allows one in-flight
// assignment per report; concurrent requests for the same report are
// rejected instead of queued.
type Engine struct {
	remote Assigner

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewEngine returns an Engine that sends requests through remote
func NewEngine(remote Assigner) *Engine {
	return &Engine{remote: remote, inFlight: make(map[string]struct{})}
}

// Assign validates the assignment, sends exactly one assign request and, only
// once the backend confirms it, returns the updated report. On any error the
// caller's state must stay as it was.
func (e *Engine) Assign(ctx context.Context, report models.Report, operatorID string, known []models.Operator) (Assignment, error) {
	a, err := Plan(report, operatorID, known)
	if err != nil {
		return Assignment{}, err
	}

	if !e.acquire(report.ID) {
		return Assignment{}, ErrAssignmentInFlight
	}
	defer e.release(report.ID)

	if err := e.remote.Assign(ctx, report.ID, a.Operator.ID); err != nil {
		return Assignment{}, err
	}
	return a, nil
}

func (e *Engine) acquire(reportID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inFlight[reportID]; busy {
		return false
	}
	e.inFlight[reportID] = struct{}{}
	return true
}

func (e *Engine) release(reportID string) {
	e.mu.Lock()
	delete(e.inFlight, reportID)
	e.mu.Unlock()
}
