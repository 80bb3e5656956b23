package reports

import (
	"strings"
	"time"

	"github.com/linesmerrill/road-report-console/models"
	"github.com/linesmerrill/road-report-console/operators"
)

// ExportHeader is the first line of every export
const ExportHeader = "Title,Status,Priority,Operator,Created"

// ExportDateLayout renders the created date of each row
const ExportDateLayout = "1/2/2006"

const notAvailable = "N/A"

// ToDelimitedText renders reports as a comma separated table. Every data
// field is quoted with embedded quotes doubled, so each row always has
// exactly five fields. Operator names resolve through dir. A nil loc
// renders dates in UTC.
func ToDelimitedText(reports []models.Report, dir operators.Directory, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	lines := make([]string, 0, len(reports)+1)
	lines = append(lines, ExportHeader)
	for _, r := range reports {
		created := notAvailable
		if !r.CreatedAt.IsZero() {
			created = r.CreatedAt.In(loc).Format(ExportDateLayout)
		}
		fields := []string{
			r.Title,
			string(r.Status),
			string(r.Priority),
			dir.Resolve(r.Operator()).DisplayName,
			created,
		}
		for i, f := range fields {
			fields[i] = quote(f)
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return strings.Join(lines, "\n")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
