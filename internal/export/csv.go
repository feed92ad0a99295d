package export

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"time"

	"holdings-engine/internal/types"
)

// CSVSink writes the export table to a dated CSV file under a directory.
type CSVSink struct {
	dir string
}

// NewCSVSink creates a sink writing under dir ("exports" when empty).
func NewCSVSink(dir string) *CSVSink {
	if dir == "" {
		dir = "exports"
	}
	return &CSVSink{dir: dir}
}

func (s *CSVSink) path(t time.Time) string {
	d := t.Format("2006-01-02")
	return filepath.Join(s.dir, "holdings-"+d+".csv")
}

// Write serializes the rows and returns the path written. An existing file
// for the same day is overwritten: the export is a snapshot, not a log.
func (s *CSVSink) Write(ctx context.Context, rows []types.ExportRow) (string, error) {
	outPath := s.path(time.Now())
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write(types.ExportHeader); err != nil {
		return "", err
	}
	for _, row := range rows {
		if err := w.Write(row.Values()); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return outPath, nil
}
