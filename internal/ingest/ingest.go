// Package ingest reads uploaded mark sheets into grading records.
package ingest

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/mind-engage/gradecurve/internal/grading"
)

var (
	ErrUnsupportedFormat = errors.New("invalid file format, please upload an Excel (.xlsx) file")
	ErrLegacyFormat      = errors.New("legacy .xls workbooks are not supported, save the sheet as .xlsx")
	ErrEmptySheet        = errors.New("sheet has no header row")
)

// Problem is one row-level validation failure. Row is 1-based as shown
// in spreadsheet software; 0 means the whole sheet.
type Problem struct {
	Row     int    `json:"row,omitempty"`
	Message string `json:"message"`
}

// ValidationError collects every problem found in a sheet.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		if p.Row > 0 {
			parts = append(parts, fmt.Sprintf("row %d: %s", p.Row, p.Message))
		} else {
			parts = append(parts, p.Message)
		}
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) add(row int, format string, args ...any) {
	e.Problems = append(e.Problems, Problem{Row: row, Message: fmt.Sprintf(format, args...)})
}

// Options tune sheet reading.
type Options struct {
	// Sheet to read; the first sheet when empty.
	Sheet string
	// ExpectedCount, when positive, must equal the number of student rows.
	ExpectedCount int
}

// Sheet is a parsed mark sheet.
type Sheet struct {
	Name        string           `json:"sheet"`
	SubjectCode string           `json:"subject_code,omitempty"`
	Columns     Columns          `json:"columns"`
	Records     []grading.Record `json:"records"`
}

// CheckFilename accepts only .xlsx uploads.
func CheckFilename(name string) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return nil
	case ".xls":
		return ErrLegacyFormat
	default:
		return ErrUnsupportedFormat
	}
}

// Read parses an .xlsx workbook. Marks that are not numbers become
// missing marks; structural and range problems are returned together as
// a *ValidationError.
func Read(r io.Reader, opts Options) (Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Sheet{}, errors.Wrap(err, "open workbook")
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return Sheet{}, ErrEmptySheet
		}
		sheet = list[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Sheet{}, errors.Wrapf(err, "read sheet %q", sheet)
	}
	return parseRows(sheet, rows, opts)
}

func parseRows(sheet string, rows [][]string, opts Options) (Sheet, error) {
	if len(rows) == 0 {
		return Sheet{}, ErrEmptySheet
	}
	out := Sheet{Name: sheet, Columns: findColumns(rows[0])}
	verr := &ValidationError{}
	if out.Columns.Mark < 0 {
		verr.add(0, `Excel file must contain a "Marks" column`)
	}
	if out.Columns.Name < 0 {
		verr.add(0, `Excel file must contain a name column (e.g., "Name")`)
	}
	if len(verr.Problems) > 0 {
		return Sheet{}, verr
	}

	seen := map[string]int{}
	for i, row := range rows[1:] {
		line := i + 2
		if blank(row) {
			continue
		}
		rec := grading.Record{
			ID:   fmt.Sprintf("row-%d", line),
			Name: cell(row, out.Columns.Name),
		}
		if out.Columns.Identity >= 0 {
			id := cell(row, out.Columns.Identity)
			if id == "" {
				verr.add(line, "missing register number")
			} else {
				rec.ID = id
			}
		}
		if prev, dup := seen[rec.ID]; dup {
			verr.add(line, "duplicate register number %q (first seen on row %d)", rec.ID, prev)
		} else {
			seen[rec.ID] = line
		}
		if out.SubjectCode == "" && out.Columns.Subject >= 0 {
			out.SubjectCode = cell(row, out.Columns.Subject)
		}

		if v, ok := parseMark(cell(row, out.Columns.Mark)); ok {
			if v < 0 || v > grading.MaxMark {
				verr.add(line, "mark %v is outside 0-%d", v, grading.MaxMark)
			}
			rec.Mark, rec.HasMark = v, true
		}
		out.Records = append(out.Records, rec)
	}

	if opts.ExpectedCount > 0 && opts.ExpectedCount != len(out.Records) {
		verr.add(0, "expected %d students, sheet has %d", opts.ExpectedCount, len(out.Records))
	}
	if len(verr.Problems) > 0 {
		return Sheet{}, verr
	}
	return out, nil
}

// parseMark coerces a cell to a mark; anything that is not a finite
// number ("AB", "absent", "") is a missing mark.
func parseMark(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
