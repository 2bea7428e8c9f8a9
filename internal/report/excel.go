package report

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/felixgeelhaar/tenantready/internal/domain"
	"github.com/felixgeelhaar/tenantready/internal/errors"
)

const (
	sheetAssessment = "Assessment"
	sheetRun        = "Run"
)

// ExcelSink writes the report as an Excel workbook: an Assessment sheet
// with the records and a Run sheet with the run metadata.
type ExcelSink struct {
	dir string
}

// NewExcelSink creates a sink writing into dir.
func NewExcelSink(dir string) *ExcelSink {
	return &ExcelSink{dir: dir}
}

// Write implements Sink.
func (s *ExcelSink) Write(report *Report) (string, error) {
	path := filepath.Join(s.dir, FileName(report.GeneratedAt, "xlsx"))

	f := excelize.NewFile()
	defer f.Close()

	if err := s.writeAssessment(f, report); err != nil {
		return "", errors.NewReportWriteError(path, err)
	}
	if err := s.writeRun(f, report); err != nil {
		return "", errors.NewReportWriteError(path, err)
	}

	if err := f.SaveAs(path); err != nil {
		return "", errors.NewReportWriteError(path, err)
	}
	return path, nil
}

func (s *ExcelSink) writeAssessment(f *excelize.File, report *Report) error {
	if err := f.SetSheetName("Sheet1", sheetAssessment); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2F5496"}},
	})
	if err != nil {
		return err
	}

	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetAssessment, cell, title); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheetAssessment, "A1", "H1", headerStyle); err != nil {
		return err
	}

	for i, rec := range report.Records {
		for col, value := range row(rec) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetAssessment, cell, value); err != nil {
				return err
			}
		}
	}

	// Narrow columns for the enum-ish fields, wide for the prose.
	if err := f.SetColWidth(sheetAssessment, "A", "D", 18); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetAssessment, "E", "F", 60); err != nil {
		return err
	}
	return f.SetColWidth(sheetAssessment, "G", "H", 30)
}

func (s *ExcelSink) writeRun(f *excelize.File, report *Report) error {
	if _, err := f.NewSheet(sheetRun); err != nil {
		return err
	}

	counts := report.Count()
	rows := [][]any{
		{"Run ID", report.RunID},
		{"Tenant", report.TenantID},
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC")},
		{"Areas assessed", len(report.Areas) - len(report.Unassessed)},
		{"Areas skipped", len(report.Unassessed)},
		{"Records", len(report.Records)},
		{"High priority", counts.ByPriority[domain.PriorityHigh]},
	}
	for _, area := range report.Areas {
		if reason, ok := report.Unassessed[area]; ok {
			rows = append(rows, []any{fmt.Sprintf("Skipped: %s", area.DisplayName()), reason})
		}
	}

	for i, pair := range rows {
		for col, value := range pair {
			cell, err := excelize.CoordinatesToCellName(col+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetRun, cell, value); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(sheetRun, "A", "B", 40)
}
