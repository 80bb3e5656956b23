package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/road-report-console/config"
	"github.com/linesmerrill/road-report-console/events"
	"github.com/linesmerrill/road-report-console/exports"
	"github.com/linesmerrill/road-report-console/metrics"
	"github.com/linesmerrill/road-report-console/models"
	"github.com/linesmerrill/road-report-console/operators"
	"github.com/linesmerrill/road-report-console/reports"
)

// ExportFileName is the download name of report exports
const ExportFileName = "reports.csv"

// Report exported for testing purposes
type Report struct {
	RDB      ReportSource
	ODB      OperatorSource
	Engine   *reports.Engine
	Exports  exports.Store
	Events   events.Publisher
	Metrics  *metrics.Recorder
	Location *time.Location
}

// ReportView is a report with the display fields the console derives from it
type ReportView struct {
	models.Report
	StatusLabel string             `json:"statusLabel"`
	Operator    operators.Resolved `json:"operator"`
	CanAssign   bool               `json:"canAssign"`
	CanChange   bool               `json:"canChange"`
}

// ReportsResponse is the body of the report listing
type ReportsResponse struct {
	Reports []ReportView `json:"reports"`
	Count   int          `json:"count"`
}

// AssignResponse is the body of a successful assignment
type AssignResponse struct {
	Message    string                 `json:"message"`
	Transition reports.Transition     `json:"transition"`
	Operator   models.OperatorSummary `json:"operator"`
	Report     ReportView             `json:"report"`
}

type assignBody struct {
	OperatorID string `json:"operatorId"`
}

func presentReport(r models.Report, dir operators.Directory) ReportView {
	return ReportView{
		Report:      r,
		StatusLabel: reports.Label(r.Status),
		Operator:    dir.Resolve(r.Operator()),
		CanAssign:   reports.CanAssign(r),
		CanChange:   reports.CanChange(r),
	}
}

// directory loads the operator directory used for name resolution. A failed
// load degrades to an empty directory.
func (rh Report) directory(ctx context.Context) ([]models.Operator, operators.Directory) {
	raws, err := rh.ODB.List(ctx)
	if err != nil {
		zap.S().Warnw("failed to load field operators for name resolution",
			"requestId", metrics.RequestID(ctx),
			"error", err)
		return nil, operators.Directory{}
	}
	ops := operators.NormalizeAll(raws)
	return ops, operators.NewDirectory(ops)
}

func (rh Report) filtered(w http.ResponseWriter, r *http.Request) ([]models.Report, operators.Directory, bool) {
	all, err := rh.RDB.ListForEmployer(r.Context())
	if err != nil {
		upstreamError(w, "Failed to load reports", err)
		return nil, nil, false
	}
	for _, violation := range reports.CheckInvariants(all) {
		zap.S().Warnw("report violates assignment invariant",
			"requestId", requestID(r),
			"error", violation)
	}
	_, dir := rh.directory(r.Context())
	return reports.View(all, reports.ParseViewOptions(r.URL.Query())), dir, true
}

// ReportsHandler returns the caller's reports filtered, searched and sorted
// by the status, priority, q and sort query params
func (rh Report) ReportsHandler(w http.ResponseWriter, r *http.Request) {
	view, dir, ok := rh.filtered(w, r)
	if !ok {
		return
	}
	resp := ReportsResponse{Reports: make([]ReportView, 0, len(view)), Count: len(view)}
	for _, rep := range view {
		resp.Reports = append(resp.Reports, presentReport(rep, dir))
	}
	writeJSON(w, http.StatusOK, resp)
}

// ExportReportsHandler renders the filtered view as delimited text. With an
// export store configured the file is stored and its download URL returned.
func (rh Report) ExportReportsHandler(w http.ResponseWriter, r *http.Request) {
	view, dir, ok := rh.filtered(w, r)
	if !ok {
		return
	}
	text := reports.ToDelimitedText(view, dir, rh.Location)

	if rh.Exports != nil {
		link, err := rh.Exports.Save(r.Context(), ExportFileName, []byte(text))
		if err != nil {
			config.ErrorStatus("Failed to export reports", http.StatusBadGateway, w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"url": link, "count": len(view)})
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFileName+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(text))
}

// ReportByIDHandler returns a single report
func (rh Report) ReportByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDVar(w, r, "report_id")
	if !ok {
		return
	}

	zap.S().Debugf("report_id: %v", id)

	rep, err := rh.RDB.Get(r.Context(), id)
	if err != nil {
		upstreamError(w, "Failed to load report details.", err)
		return
	}
	_, dir := rh.directory(r.Context())
	writeJSON(w, http.StatusOK, map[string]ReportView{"report": presentReport(rep, dir)})
}

// AssignReportHandler assigns or reassigns a field operator to a report
func (rh Report) AssignReportHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDVar(w, r, "report_id")
	if !ok {
		return
	}

	var body assignBody
	if err := decodeBody(r, &body); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if blank(body.OperatorID) {
		config.ErrorStatus("Please select a field operator", http.StatusBadRequest, w, reports.ErrOperatorRequired)
		return
	}

	rep, err := rh.RDB.Get(r.Context(), id)
	if err != nil {
		upstreamError(w, "Failed to load report details.", err)
		return
	}
	raws, err := rh.ODB.List(r.Context())
	if err != nil {
		upstreamError(w, "Failed to load field operators", err)
		return
	}
	known := operators.NormalizeAll(raws)

	a, err := rh.Engine.Assign(r.Context(), rep, body.OperatorID, known)
	switch {
	case err == nil:
	case errors.Is(err, reports.ErrOperatorRequired), errors.Is(err, reports.ErrOperatorNotFound):
		rh.Metrics.Workflow("assign", "invalid")
		config.ErrorStatus("Failed to assign field operator", http.StatusBadRequest, w, err)
		return
	case errors.Is(err, reports.ErrReportResolved), errors.Is(err, reports.ErrInvalidStatus),
		errors.Is(err, reports.ErrAssignmentInFlight):
		rh.Metrics.Workflow("assign", "rejected")
		config.ErrorStatus("Failed to assign field operator", http.StatusConflict, w, err)
		return
	default:
		rh.Metrics.Workflow("assign", "failed")
		upstreamError(w, "Failed to assign field operator", err)
		return
	}

	rh.Metrics.Workflow("assign", string(a.Transition))
	events.Notify(r.Context(), rh.Events, events.Event{
		Type:      events.ReportAssigned,
		RequestID: requestID(r),
		ActorID:   actorID(r),
		Data: map[string]interface{}{
			"reportId":   a.Report.ID,
			"operatorId": a.Operator.ID,
			"transition": a.Transition,
		},
	})

	writeJSON(w, http.StatusOK, AssignResponse{
		Message:    "Field operator assigned",
		Transition: a.Transition,
		Operator:   a.Operator,
		Report:     presentReport(a.Report, operators.NewDirectory(known)),
	})
}

// StatsHandler returns the report statistics of the caller's municipality
func (rh Report) StatsHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := rh.RDB.Summary(r.Context())
	if err != nil {
		upstreamError(w, "Failed to load statistics", err)
		return
	}
	if summary.Stats == nil {
		summary.Stats = map[string]interface{}{}
	}
	writeJSON(w, http.StatusOK, summary)
}

