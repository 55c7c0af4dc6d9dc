// Package importer turns an uploaded spreadsheet into the ordered row
// sequence the bulk mint consumes. It only maps columns; per-row
// validation (bad email, short name) happens in the mint itself so one
// bad row cannot abort the batch.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xkernalwebdev/xkernel-ticket/internal/app"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format, expected .csv or .xlsx")
	ErrNoHeaderRow       = errors.New("file has no header row")
	ErrMissingColumn     = errors.New("missing required column")
)

// Recognized header spellings, lowercased. Required: name, email, event.
var columnNames = map[string]string{
	"name":           "name",
	"attendee":       "name",
	"attendee name":  "name",
	"full name":      "name",
	"email":          "email",
	"e-mail":         "email",
	"mail":           "email",
	"attendee email": "email",
	"event":          "event",
	"event name":     "event",
	"phone":          "phone",
	"phone number":   "phone",
	"mobile":         "phone",
}

// ReadRows parses the uploaded file into mint inputs, dispatching on the
// file extension. Fully blank rows are skipped; everything else is kept
// and judged row by row at mint time.
func ReadRows(filename string, r io.Reader) ([]app.MintInput, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return readCSV(r)
	case ".xlsx", ".xlsm":
		return readXLSX(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func readCSV(r io.Reader) ([]app.MintInput, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return mapRows(records)
}

func readXLSX(r io.Reader) ([]app.MintInput, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeaderRow
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return mapRows(records)
}

func mapRows(records [][]string) ([]app.MintInput, error) {
	if len(records) == 0 {
		return nil, ErrNoHeaderRow
	}

	index, err := headerIndex(records[0])
	if err != nil {
		return nil, err
	}

	rows := make([]app.MintInput, 0, len(records)-1)
	for _, record := range records[1:] {
		if blankRow(record) {
			continue
		}
		rows = append(rows, app.MintInput{
			Name:  cell(record, index["name"]),
			Email: cell(record, index["email"]),
			Event: cell(record, index["event"]),
			Phone: cell(record, index["phone"]),
		})
	}
	return rows, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := map[string]int{"name": -1, "email": -1, "event": -1, "phone": -1}
	for i, h := range header {
		key, ok := columnNames[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		if index[key] == -1 {
			index[key] = i
		}
	}
	for _, required := range []string{"name", "email", "event"} {
		if index[required] == -1 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}
	return index, nil
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func blankRow(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
