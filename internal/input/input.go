// Package input loads identity queries from spreadsheets.
package input

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/skiptrace-cli/internal/model"
	"github.com/sells-group/skiptrace-cli/internal/name"
)

// Column headers recognised in the input sheet. Matching ignores case and
// surrounding space.
const (
	ColFirstName       = "First Name"
	ColMiddleName      = "Middle Name"
	ColLastName        = "Last Name"
	ColPropertyAddress = "Property Address"
	ColPropertyCity    = "Property City"
	ColPropertyState   = "Property State"
	ColPropertyZip     = "Property Zip"
	ColMailingAddress  = "Mailing Address"
	ColMailingCity     = "Mailing City"
	ColMailingState    = "Mailing State"
	ColMailingZip      = "Mailing Zip"
)

// Options configures Load.
type Options struct {
	// Sheet selects an xlsx sheet by name; empty means the first sheet.
	Sheet string
	// SkipBlank drops rows with no content without counting them as skipped.
	SkipBlank bool
}

// Report summarises a load.
type Report struct {
	Loaded      int   `json:"loaded"`
	Skipped     int   `json:"skipped"`
	SkippedRows []int `json:"skipped_rows,omitempty"`
}

// Load reads queries from an .xlsx or .csv file. Rows without a first or
// last name, or without any address, are dropped and reported.
func Load(path string, opts Options) ([]model.Query, Report, error) {
	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = ReadXLSX(path, opts.Sheet)
	case ".csv":
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return nil, Report{}, eris.Wrapf(err, "input: open %s", path)
		}
		defer f.Close() //nolint:errcheck
		rows, err = ReadCSV(f)
	default:
		return nil, Report{}, eris.Errorf("input: unsupported file type %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, Report{}, err
	}
	return Build(rows, opts)
}

// Build maps header-labelled rows to queries. rows[0] is the header.
func Build(rows [][]string, opts Options) ([]model.Query, Report, error) {
	if len(rows) == 0 {
		return nil, Report{}, eris.New("input: empty sheet")
	}
	cols := indexHeader(rows[0])
	for _, required := range []string{ColFirstName, ColLastName} {
		if _, ok := cols[key(required)]; !ok {
			return nil, Report{}, eris.Errorf("input: missing column %q", required)
		}
	}
	_, hasProp := cols[key(ColPropertyAddress)]
	_, hasMail := cols[key(ColMailingAddress)]
	if !hasProp && !hasMail {
		return nil, Report{}, eris.Errorf("input: need a %q or %q column", ColPropertyAddress, ColMailingAddress)
	}

	var queries []model.Query
	var rep Report
	for i, row := range rows[1:] {
		rowNum := i + 2
		if opts.SkipBlank && blank(row) {
			continue
		}
		get := func(col string) string {
			j, ok := cols[key(col)]
			if !ok || j >= len(row) {
				return ""
			}
			return cleanCell(row[j])
		}
		q := model.Query{
			Row:        rowNum,
			FirstName:  name.Normalize(get(ColFirstName)),
			MiddleName: name.Normalize(get(ColMiddleName)),
			LastName:   name.Normalize(get(ColLastName)),
			Property: model.PostalAddress{
				Address: get(ColPropertyAddress),
				City:    get(ColPropertyCity),
				State:   get(ColPropertyState),
				Zip:     model.NormalizeZip(get(ColPropertyZip)),
			},
			Mailing: model.PostalAddress{
				Address: get(ColMailingAddress),
				City:    get(ColMailingCity),
				State:   get(ColMailingState),
				Zip:     model.NormalizeZip(get(ColMailingZip)),
			},
		}
		if !q.Eligible() {
			rep.Skipped++
			rep.SkippedRows = append(rep.SkippedRows, rowNum)
			zap.L().Info("skipping ineligible row",
				zap.Int("row", rowNum),
				zap.Bool("has_name", q.FirstName != "" && q.LastName != ""),
				zap.Bool("has_address", q.HasMailing() || q.HasProperty()),
			)
			continue
		}
		queries = append(queries, q)
	}
	rep.Loaded = len(queries)
	return queries, rep, nil
}

func key(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		k := key(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := cols[k]; !dup && k != "" {
			cols[k] = i
		}
	}
	return cols
}

// cleanCell trims a cell and treats spreadsheet null markers as empty.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "nan", "null", "none", "n/a":
		return ""
	}
	return s
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
