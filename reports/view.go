package reports

import (
	"net/url"
	"sort"
	"strings"

	"github.com/linesmerrill/road-report-console/models"
)

// FilterAll disables a status or priority filter
const FilterAll = "all"

// FilterActive matches both active statuses, assigned and in_progress
const FilterActive = "active"

// SortOrder orders a view by priority
type SortOrder string

// Sort orders
const (
	SortNone    SortOrder = "none"
	SortHighLow SortOrder = "high-low"
	SortLowHigh SortOrder = "low-high"
)

// ViewOptions selects and orders reports. The zero value returns every
// report in its original order.
type ViewOptions struct {
	Status   string
	Priority string
	Search   string
	Sort     SortOrder
}

// ParseViewOptions reads status, priority, q and sort from query values
func ParseViewOptions(q url.Values) ViewOptions {
	return ViewOptions{
		Status:   strings.TrimSpace(q.Get("status")),
		Priority: strings.TrimSpace(q.Get("priority")),
		Search:   q.Get("q"),
		Sort:     SortOrder(strings.TrimSpace(q.Get("sort"))),
	}
}

func (o ViewOptions) matchStatus(s models.ReportStatus) bool {
	switch o.Status {
	case "", FilterAll:
		return true
	case FilterActive:
		return IsActive(s)
	}
	return string(s) == o.Status
}

func (o ViewOptions) matchPriority(p models.Priority) bool {
	if o.Priority == "" || o.Priority == FilterAll {
		return true
	}
	return string(p) == o.Priority
}

func (o ViewOptions) matchSearch(title string) bool {
	if o.Search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(o.Search))
}

// View returns a new slice holding the reports that match every filter,
// ordered by priority when a sort is requested. Ties keep their input order
// and the input slice is never modified.
func View(reports []models.Report, opts ViewOptions) []models.Report {
	out := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if opts.matchStatus(r.Status) && opts.matchPriority(r.Priority) && opts.matchSearch(r.Title) {
			out = append(out, r)
		}
	}

	switch opts.Sort {
	case SortHighLow:
		sort.SliceStable(out, func(i, j int) bool {
			return PriorityRank(out[i].Priority) > PriorityRank(out[j].Priority)
		})
	case SortLowHigh:
		sort.SliceStable(out, func(i, j int) bool {
			return PriorityRank(out[i].Priority) < PriorityRank(out[j].Priority)
		})
	}
	return out
}
