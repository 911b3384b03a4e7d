package output

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/skiptrace-cli/internal/model"
)

// XLSXSink buffers rows in a workbook and saves it on Close.
type XLSXSink struct {
	path  string
	file  *xlsx.File
	sheet *xlsx.Sheet
}

// NewXLSX creates a workbook with a header row.
func NewXLSX(path string) (*XLSXSink, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("results")
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: add sheet")
	}
	s := &XLSXSink{path: path, file: f, sheet: sheet}
	s.addRow(Columns())
	return s, nil
}

func (s *XLSXSink) addRow(values []string) {
	row := s.sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func (s *XLSXSink) Write(r model.MatchResult) error {
	row := s.sheet.AddRow()
	for i, v := range Row(r) {
		cell := row.AddCell()
		if i == 0 {
			cell.SetInt(r.Confidence)
			continue
		}
		cell.SetString(v)
	}
	return nil
}

func (s *XLSXSink) Close() error {
	return eris.Wrapf(s.file.Save(s.path), "xlsx: save %s", s.path)
}
