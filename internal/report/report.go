// Package report turns the ordered record list into its output artifacts:
// a CSV file, an Excel workbook, and a styled console summary. Sinks only
// format and write; every reordering or filtering decision was already
// made by the rule engine.
package report

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/tenantready/internal/domain"
)

// Report is the assembled output of one run.
type Report struct {
	RunID       string
	TenantID    string
	GeneratedAt time.Time
	Areas       []domain.Area
	Unassessed  map[domain.Area]string
	Records     []domain.Record
}

// Build assembles a report from a sealed snapshot and its evaluated
// records. Record order is preserved exactly.
func Build(snapshot *domain.Snapshot, records []domain.Record) *Report {
	unassessed := make(map[domain.Area]string)
	for _, area := range snapshot.Areas() {
		if reason, skipped := snapshot.Unassessed(area); skipped {
			unassessed[area] = reason
		}
	}
	return &Report{
		RunID:       snapshot.RunID(),
		TenantID:    snapshot.TenantID(),
		GeneratedAt: time.Now().UTC(),
		Areas:       snapshot.Areas(),
		Unassessed:  unassessed,
		Records:     records,
	}
}

// Counts tallies records by status and by priority.
type Counts struct {
	ByStatus   map[domain.Status]int
	ByPriority map[domain.Priority]int
}

// Count tallies the report's records.
func (r *Report) Count() Counts {
	c := Counts{
		ByStatus:   make(map[domain.Status]int),
		ByPriority: make(map[domain.Priority]int),
	}
	for _, rec := range r.Records {
		c.ByStatus[rec.Status]++
		c.ByPriority[rec.Priority]++
	}
	return c
}

// Sink writes a report somewhere and returns where it landed.
type Sink interface {
	Write(report *Report) (string, error)
}

// FileName builds the timestamped artifact name for a report, e.g.
// "tenantready-assessment-20260831-142500.csv".
func FileName(generatedAt time.Time, ext string) string {
	return fmt.Sprintf("tenantready-assessment-%s.%s", generatedAt.Format("20060102-150405"), ext)
}

// header is the column layout shared by the CSV and Excel sinks.
var header = []string{
	"Area", "Feature", "Status", "Priority",
	"Observation", "Recommendation", "Link Text", "Link URL",
}

func row(rec domain.Record) []string {
	return []string{
		rec.Area.DisplayName(),
		rec.Feature,
		string(rec.Status),
		rec.Priority.String(),
		rec.Observation,
		rec.Recommendation,
		rec.LinkText,
		rec.LinkURL,
	}
}
