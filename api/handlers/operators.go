package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/linesmerrill/road-report-console/api"
	"github.com/linesmerrill/road-report-console/config"
	"github.com/linesmerrill/road-report-console/events"
	"github.com/linesmerrill/road-report-console/metrics"
	"github.com/linesmerrill/road-report-console/models"
	"github.com/linesmerrill/road-report-console/operators"
)

// Operator exported for testing purposes
type Operator struct {
	ODB     OperatorSource
	RDB     ReportSource
	Events  events.Publisher
	Metrics *metrics.Recorder
}

// OperatorView is an operator with its derived assignment usage
type OperatorView struct {
	models.Operator
	DisplayName   string `json:"displayName"`
	AssignedCount int    `json:"assignedCount"`
	CanDelete     bool   `json:"canDelete"`
}

// OperatorsResponse is the body of the operator listing
type OperatorsResponse struct {
	Operators []OperatorView `json:"operators"`
	Count     int            `json:"count"`
}

func presentOperator(op models.Operator, usage map[string]int) OperatorView {
	n := usage[op.ID]
	return OperatorView{
		Operator:      op,
		DisplayName:   op.DisplayName(),
		AssignedCount: n,
		CanDelete:     n == 0,
	}
}

// OperatorsHandler returns the caller's field operators with their
// assigned report counts
func (oh Operator) OperatorsHandler(w http.ResponseWriter, r *http.Request) {
	raws, err := oh.ODB.List(r.Context())
	if err != nil {
		upstreamError(w, "Failed to load operators data", err)
		return
	}
	rs, err := oh.RDB.Filter(r.Context(), nil)
	if err != nil {
		upstreamError(w, "Failed to load operators data", err)
		return
	}

	usage := operators.Usage(rs)
	ops := operators.NormalizeAll(raws)
	resp := OperatorsResponse{Operators: make([]OperatorView, 0, len(ops)), Count: len(ops)}
	for _, op := range ops {
		resp.Operators = append(resp.Operators, presentOperator(op, usage))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateOperatorHandler registers a new field operator
func (oh Operator) CreateOperatorHandler(w http.ResponseWriter, r *http.Request) {
	var reg models.OperatorRegistration
	if err := decodeBody(r, &reg); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	reg.FirstName = strings.TrimSpace(reg.FirstName)
	reg.LastName = strings.TrimSpace(reg.LastName)
	reg.Email = strings.TrimSpace(reg.Email)
	if blank(reg.FirstName, reg.LastName, reg.Email, reg.Password) {
		config.ErrorStatus("All fields are required", http.StatusBadRequest, w, errors.New("missing operator field"))
		return
	}

	raw, err := oh.ODB.Register(r.Context(), reg)
	if err != nil {
		oh.Metrics.Workflow("create_operator", "failed")
		upstreamError(w, "Failed to create field operator", err)
		return
	}
	oh.Metrics.Workflow("create_operator", "ok")

	op, ok := operators.Normalize(raw)
	if !ok || op.ID == "" {
		// the response carried no usable record, look the operator up instead
		op, ok = oh.findByEmail(r, reg.Email)
	}

	resp := map[string]interface{}{"message": "Field operator created"}
	if ok {
		resp["operator"] = presentOperator(op, nil)
	}
	events.Notify(r.Context(), oh.Events, events.Event{
		Type:      events.OperatorCreated,
		RequestID: requestID(r),
		ActorID:   actorID(r),
		Data:      map[string]interface{}{"operatorId": op.ID, "email": reg.Email},
	})
	writeJSON(w, http.StatusCreated, resp)
}

func (oh Operator) findByEmail(r *http.Request, email string) (models.Operator, bool) {
	raws, err := oh.ODB.List(r.Context())
	if err != nil {
		zap.S().Warnw("failed to re-fetch operators after create",
			"requestId", requestID(r),
			"error", err)
		return models.Operator{}, false
	}
	for _, op := range operators.NormalizeAll(raws) {
		if strings.EqualFold(op.Email, email) {
			return op, true
		}
	}
	return models.Operator{}, false
}

// DeleteOperatorHandler deletes a field operator that has no assigned
// reports. The guard is evaluated on a fresh report listing and no delete
// request is sent when it fails or cannot be evaluated. Operator ids are not
// required to be ObjectIDs since some listings key operators by userId or
// operatorId.
func (oh Operator) DeleteOperatorHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathVar(w, r, "operator_id")
	if !ok {
		return
	}

	ctx, cancel := api.WithGuardTimeout(r.Context())
	defer cancel()
	rs, err := oh.RDB.FilterStrict(ctx, nil)
	if err != nil {
		upstreamError(w, "Failed to delete field operator", err)
		return
	}

	err = operators.Delete(r.Context(), oh.ODB, id, rs)
	switch {
	case errors.Is(err, operators.ErrHasAssignments):
		oh.Metrics.Workflow("delete_operator", "blocked")
		config.ErrorStatus("This operator has assigned reports and cannot be deleted.", http.StatusConflict, w, err)
		return
	case err != nil:
		oh.Metrics.Workflow("delete_operator", "failed")
		upstreamError(w, "Failed to delete field operator", err)
		return
	}

	oh.Metrics.Workflow("delete_operator", "ok")
	events.Notify(r.Context(), oh.Events, events.Event{
		Type:      events.OperatorDeleted,
		RequestID: requestID(r),
		ActorID:   actorID(r),
		Data:      map[string]interface{}{"operatorId": id},
	})
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Field operator deleted"})
}
