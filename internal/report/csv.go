package report

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/tenantready/internal/errors"
)

// CSVSink writes the report as a CSV file into a directory.
type CSVSink struct {
	dir string
}

// NewCSVSink creates a sink writing into dir.
func NewCSVSink(dir string) *CSVSink {
	return &CSVSink{dir: dir}
}

// Write implements Sink.
func (s *CSVSink) Write(report *Report) (string, error) {
	path := filepath.Join(s.dir, FileName(report.GeneratedAt, "csv"))

	f, err := os.Create(path)
	if err != nil {
		return "", errors.NewReportWriteError(path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return "", errors.NewReportWriteError(path, err)
	}
	for _, rec := range report.Records {
		if err := w.Write(row(rec)); err != nil {
			return "", errors.NewReportWriteError(path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", errors.NewReportWriteError(path, err)
	}
	if err := f.Close(); err != nil {
		return "", errors.NewReportWriteError(path, err)
	}
	return path, nil
}
