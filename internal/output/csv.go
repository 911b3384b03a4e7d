package output

import (
	"encoding/csv"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/skiptrace-cli/internal/model"
)

// CSVSink streams rows to a CSV file.
type CSVSink struct {
	f *os.File
	w *csv.Writer
}

// NewCSV creates path and writes the header row.
func NewCSV(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, eris.Wrapf(err, "csv: create %s", path)
	}
	w := csv.NewWriter(f)
	if err := w.Write(Columns()); err != nil {
		f.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "csv: write header")
	}
	return &CSVSink{f: f, w: w}, nil
}

func (s *CSVSink) Write(r model.MatchResult) error {
	return eris.Wrap(s.w.Write(Row(r)), "csv: write row")
}

func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.f.Close() //nolint:errcheck
		return eris.Wrap(err, "csv: flush")
	}
	return eris.Wrap(s.f.Close(), "csv: close")
}
