package reports_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesmerrill/road-report-console/models"
	"github.com/linesmerrill/road-report-console/operators"
	"github.com/linesmerrill/road-report-console/reports"
)

type fakeAssigner struct {
	mu    sync.Mutex
	calls []models.AssignRequest
	err   error
	block chan struct{}
}

func (f *fakeAssigner) Assign(ctx context.Context, reportID, operatorID string) error {
	f.mu.Lock()
	f.calls = append(f.calls, models.AssignRequest{ReportID: reportID, OperatorID: operatorID})
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	return f.err
}

func (f *fakeAssigner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

var knownOperators = []models.Operator{
	{ID: "op1", FirstName: "Ana", LastName: "Lopez", Email: "ana@x.com"},
	{ID: "op2", FirstName: "Ben", LastName: "Kim", Email: "ben@x.com"},
}

func TestLabel(t *testing.T) {
	tests := []struct {
		status models.ReportStatus
		want   string
	}{
		{models.StatusPending, "Pending"},
		{models.StatusAssigned, "In Progress"},
		{models.StatusInProgress, "In Progress"},
		{models.StatusResolved, "Resolved"},
		{models.ReportStatus("weird"), "Pending"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, reports.Label(tt.status))
		})
	}
}

func TestCanAssignAndChange(t *testing.T) {
	assert.True(t, reports.CanAssign(models.Report{Status: models.StatusPending}))
	assert.False(t, reports.CanChange(models.Report{Status: models.StatusPending}))
	assert.True(t, reports.CanChange(models.Report{Status: models.StatusAssigned}))
	assert.True(t, reports.CanChange(models.Report{Status: models.StatusInProgress}))
	assert.False(t, reports.CanAssign(models.Report{Status: models.StatusResolved}))
	assert.False(t, reports.CanChange(models.Report{Status: models.StatusResolved}))
}

func TestCheckInvariants(t *testing.T) {
	rs := []models.Report{
		{ID: "a", Status: models.StatusPending},
		{ID: "b", Status: models.StatusPending, AssignedOperatorID: models.RefByID("op1")},
		{ID: "c", Status: models.StatusInProgress},
		{ID: "d", Status: models.StatusAssigned, AssignedOperatorID: models.RefByID("op1")},
		{ID: "e", Status: models.StatusResolved},
	}
	errs := reports.CheckInvariants(rs)
	require.Len(t, errs, 2)
	assert.Contains(t, errs[0].Error(), "report b")
	assert.Contains(t, errs[1].Error(), "report c")
}

func TestPlan(t *testing.T) {
	pending := models.Report{ID: "r1", Title: "Pothole", Status: models.StatusPending}

	t.Run("assign from pending", func(t *testing.T) {
		a, err := reports.Plan(pending, "op1", knownOperators)
		require.NoError(t, err)
		assert.Equal(t, reports.TransitionAssign, a.Transition)
		assert.Equal(t, models.StatusInProgress, a.Report.Status)
		s, ok := a.Report.AssignedOperatorID.Summary()
		require.True(t, ok)
		assert.Equal(t, "Ana Lopez", s.DisplayName())
		assert.Equal(t, "op1", a.Report.AssignedOperatorID.ID())
		assert.Equal(t, models.StatusPending, pending.Status, "input must not change")
		assert.False(t, pending.AssignedOperatorID.IsAssigned())
	})

	t.Run("reassign from assigned", func(t *testing.T) {
		r := models.Report{ID: "r2", Status: models.StatusAssigned, AssignedOperatorID: models.RefByID("op1")}
		a, err := reports.Plan(r, "op2", knownOperators)
		require.NoError(t, err)
		assert.Equal(t, reports.TransitionReassign, a.Transition)
		assert.Equal(t, models.StatusInProgress, a.Report.Status)
		assert.Equal(t, "op2", a.Report.Operator().ID())
	})

	t.Run("reassign while in progress keeps the status", func(t *testing.T) {
		r := models.Report{ID: "r5", Status: models.StatusInProgress, AssignedOperatorID: models.RefByID("op1")}
		a, err := reports.Plan(r, "op2", knownOperators)
		require.NoError(t, err)
		assert.Equal(t, reports.TransitionReassign, a.Transition)
		assert.Equal(t, models.StatusInProgress, a.Report.Status)
		assert.Equal(t, "op2", a.Report.Operator().ID())
		assert.Equal(t, "op2", a.Operator.ID)
		assert.Equal(t, "op1", r.Operator().ID(), "input must not change")
	})

	t.Run("errors", func(t *testing.T) {
		_, err := reports.Plan(pending, "  ", knownOperators)
		assert.ErrorIs(t, err, reports.ErrOperatorRequired)

		_, err = reports.Plan(models.Report{ID: "r3", Status: models.StatusResolved}, "op1", knownOperators)
		assert.ErrorIs(t, err, reports.ErrReportResolved)

		_, err = reports.Plan(pending, "ghost", knownOperators)
		assert.ErrorIs(t, err, reports.ErrOperatorNotFound)

		_, err = reports.Plan(models.Report{ID: "r4", Status: "archived"}, "op1", knownOperators)
		assert.ErrorIs(t, err, reports.ErrInvalidStatus)
	})
}

func TestEngineAssign(t *testing.T) {
	report := models.Report{ID: "r1", Status: models.StatusPending}

	t.Run("sends one request and returns the new state", func(t *testing.T) {
		remote := &fakeAssigner{}
		a, err := reports.NewEngine(remote).Assign(context.Background(), report, "op2", knownOperators)
		require.NoError(t, err)
		require.Equal(t, 1, remote.count())
		assert.Equal(t, models.AssignRequest{ReportID: "r1", OperatorID: "op2"}, remote.calls[0])
		assert.Equal(t, models.StatusInProgress, a.Report.Status)
	})

	t.Run("backend failure leaves no change", func(t *testing.T) {
		remote := &fakeAssigner{err: errors.New("Failed to assign field operator")}
		a, err := reports.NewEngine(remote).Assign(context.Background(), report, "op2", knownOperators)
		assert.EqualError(t, err, "Failed to assign field operator")
		assert.Equal(t, reports.Assignment{}, a)
		assert.Equal(t, models.StatusPending, report.Status)
	})

	t.Run("validation failure sends nothing", func(t *testing.T) {
		remote := &fakeAssigner{}
		_, err := reports.NewEngine(remote).Assign(context.Background(), report, "", knownOperators)
		assert.ErrorIs(t, err, reports.ErrOperatorRequired)
		assert.Equal(t, 0, remote.count())
	})

	t.Run("rejects concurrent assignment of the same report", func(t *testing.T) {
		remote := &fakeAssigner{block: make(chan struct{})}
		engine := reports.NewEngine(remote)

		done := make(chan error)
		go func() {
			_, err := engine.Assign(context.Background(), report, "op1", knownOperators)
			done <- err
		}()
		assert.Eventually(t, func() bool { return remote.count() == 1 }, time.Second, time.Millisecond)

		_, err := engine.Assign(context.Background(), report, "op2", knownOperators)
		assert.ErrorIs(t, err, reports.ErrAssignmentInFlight)

		close(remote.block)
		assert.NoError(t, <-done)

		_, err = engine.Assign(context.Background(), report, "op2", knownOperators)
		assert.NoError(t, err)
	})
}

func titles(rs []models.Report) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Title)
	}
	return out
}

func TestView(t *testing.T) {
	rs := []models.Report{
		{Title: "Pothole A", Status: models.StatusPending, Priority: models.PriorityLow},
		{Title: "Pothole B", Status: models.StatusResolved, Priority: models.PriorityHigh},
	}

	assert.Equal(t, []string{"Pothole A"}, titles(reports.View(rs, reports.ViewOptions{Status: "pending"})))
	assert.Equal(t, []string{"Pothole B", "Pothole A"}, titles(reports.View(rs, reports.ViewOptions{Sort: reports.SortHighLow})))
	assert.Equal(t, []string{"Pothole A", "Pothole B"}, titles(reports.View(rs, reports.ViewOptions{})))
	assert.Equal(t, "Pothole A", rs[0].Title, "input order must not change")
}

func TestViewComposesFilters(t *testing.T) {
	rs := []models.Report{
		{Title: "Broken light", Status: models.StatusAssigned, Priority: models.PriorityMedium},
		{Title: "Light pole down", Status: models.StatusInProgress, Priority: models.PriorityHigh},
		{Title: "Graffiti", Status: models.StatusInProgress, Priority: models.PriorityHigh},
		{Title: "LIGHT out", Status: models.StatusPending, Priority: models.PriorityHigh},
		{Title: "Odd", Status: models.StatusPending, Priority: "urgent"},
	}

	got := reports.View(rs, reports.ViewOptions{Search: "light", Priority: "high"})
	assert.Equal(t, []string{"Light pole down", "LIGHT out"}, titles(got))

	got = reports.View(rs, reports.ViewOptions{Status: reports.FilterActive})
	assert.Equal(t, []string{"Broken light", "Light pole down", "Graffiti"}, titles(got))

	got = reports.View(rs, reports.ViewOptions{Status: "assigned", Priority: reports.FilterAll})
	assert.Equal(t, []string{"Broken light"}, titles(got))

	got = reports.View(rs, reports.ViewOptions{Sort: reports.SortLowHigh})
	assert.Equal(t, []string{"Odd", "Broken light", "Light pole down", "Graffiti", "LIGHT out"}, titles(got))

	got = reports.View(rs, reports.ViewOptions{Sort: reports.SortHighLow})
	assert.Equal(t, []string{"Light pole down", "Graffiti", "LIGHT out", "Broken light", "Odd"}, titles(got))
}

func TestParseViewOptions(t *testing.T) {
	q := map[string][]string{
		"status":   {"pending"},
		"priority": {"high"},
		"q":        {"pothole"},
		"sort":     {"high-low"},
	}
	assert.Equal(t, reports.ViewOptions{
		Status: "pending", Priority: "high", Search: "pothole", Sort: reports.SortHighLow,
	}, reports.ParseViewOptions(q))
}

func TestToDelimitedText(t *testing.T) {
	var embedded models.Report
	require.NoError(t, json.Unmarshal([]byte(`{
		"_id": "r1",
		"title": "Pothole \"big\", Main St",
		"status": "in_progress",
		"aiPriority": "high",
		"assignedOperatorId": {"_id": "op9", "firstName": "Zoe", "lastName": "Ray"},
		"createdAt": "2024-03-05T10:00:00Z"
	}`), &embedded))

	rs := []models.Report{
		embedded,
		{Title: "Light", Status: models.StatusAssigned, Priority: models.PriorityLow, AssignedOperatorID: models.RefByID("op1")},
		{Title: "Sign", Status: models.StatusAssigned, Priority: models.PriorityLow, AssignedOperatorID: models.RefByID("gone")},
		{Title: "Tree", Status: models.StatusPending, Priority: models.PriorityMedium},
	}
	out := reports.ToDelimitedText(rs, operators.NewDirectory(knownOperators), time.UTC)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Title,Status,Priority,Operator,Created", lines[0])
	assert.Equal(t, `"Pothole ""big"", Main St","in_progress","high","Zoe Ray","3/5/2024"`, lines[1])
	assert.Equal(t, `"Light","assigned","low","Ana Lopez","N/A"`, lines[2])
	assert.Equal(t, `"Sign","assigned","low","Assigned","N/A"`, lines[3])
	assert.Equal(t, `"Tree","pending","medium","Not assigned","N/A"`, lines[4])

	for _, line := range lines[2:] {
		assert.Len(t, strings.Split(line, ","), 5)
	}
}

func TestToDelimitedTextEmpty(t *testing.T) {
	assert.Equal(t, reports.ExportHeader, reports.ToDelimitedText(nil, nil, nil))
}
