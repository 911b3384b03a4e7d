// Package output writes match results as xlsx, CSV or JSON Lines.
package output

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/skiptrace-cli/internal/model"
)

// Sink receives results one at a time. Sinks are not safe for concurrent
// use; callers serialize writes.
type Sink interface {
	Write(r model.MatchResult) error
	Close() error
}

// Columns is the flat row layout shared by the tabular sinks.
func Columns() []string {
	cols := []string{
		"confidence", "first_name", "middle_name", "last_name",
		"property_address", "property_city", "property_state", "property_zip",
		"mailing_address", "mailing_city", "mailing_state", "mailing_zip",
	}
	for i := 1; i <= model.MaxPhones; i++ {
		cols = append(cols, fmt.Sprintf("phone-%d", i), fmt.Sprintf("phone-%d-type", i))
	}
	for i := 1; i <= model.MaxEmails; i++ {
		cols = append(cols, fmt.Sprintf("email-%d", i))
	}
	return append(cols, "source", "strategy")
}

// Row flattens r in Columns order. Missing phones and emails are empty.
func Row(r model.MatchResult) []string {
	row := []string{
		strconv.Itoa(r.Confidence), r.FirstName, r.MiddleName, r.LastName,
		r.Property.Address, r.Property.City, r.Property.State, r.Property.Zip,
		r.Mailing.Address, r.Mailing.City, r.Mailing.State, r.Mailing.Zip,
	}
	for i := range model.MaxPhones {
		if i < len(r.Phones) {
			row = append(row, r.Phones[i].Number, r.Phones[i].Type)
		} else {
			row = append(row, "", "")
		}
	}
	for i := range model.MaxEmails {
		if i < len(r.Emails) {
			row = append(row, r.Emails[i])
		} else {
			row = append(row, "")
		}
	}
	strategy := ""
	if r.Matched() {
		strategy = r.Strategy.String()
	}
	return append(row, r.Source, strategy)
}

// Open creates a sink of the given format writing to path.
func Open(format, path string) (Sink, error) {
	if path == "" {
		return nil, eris.New("output: path is required")
	}
	switch format {
	case "xlsx":
		return NewXLSX(path)
	case "csv":
		return NewCSV(path)
	case "jsonl":
		return NewJSONL(path)
	}
	return nil, eris.Errorf("output: unknown format %q", format)
}

// DefaultPath derives an output path from the input path and format.
func DefaultPath(input, format string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_results." + format
}

// Memory collects results in order. Used by the API and tests.
type Memory struct {
	Results []model.MatchResult
}

func (m *Memory) Write(r model.MatchResult) error {
	m.Results = append(m.Results, r)
	return nil
}

func (m *Memory) Close() error { return nil }
