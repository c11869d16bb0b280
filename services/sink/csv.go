package sink

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"flipfinder/pkg/errors"
)

// CSVSink stores each table as a CSV file under a base directory.
type CSVSink struct {
	dir string
}

// NewCSVSink creates the base directory and returns a ready sink.
func NewCSVSink(dir string) (*CSVSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewSink("csv", "create output dir "+dir, err)
	}
	return &CSVSink{dir: dir}, nil
}

// Write truncates the table file and writes the header plus all rows.
func (s *CSVSink) Write(table string, header []string, rows [][]string) error {
	path := s.path(table)

	f, err := os.Create(path)
	if err != nil {
		return errors.NewSink("csv", "create "+path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return errors.NewSink("csv", "write header", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return errors.NewSink("csv", "write row", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.NewSink("csv", "flush "+path, err)
	}
	return nil
}

// Read loads the header and rows of a previously written table.
func (s *CSVSink) Read(table string) ([]string, [][]string, error) {
	path := s.path(table)

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.NewSink("csv", "open "+path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, errors.NewSink("csv", "read "+path, err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	return records[0], records[1:], nil
}

func (s *CSVSink) path(table string) string {
	return filepath.Join(s.dir, table+".csv")
}
