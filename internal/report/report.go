// Package report renders graded cohorts as spreadsheets.
package report

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/mind-engage/gradecurve/internal/grading"
)

const (
	ResultsSheet = "Graded_Results"
	SummarySheet = "Summary"

	// ContentType is the MIME type of the rendered workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Meta describes where the cohort came from.
type Meta struct {
	SourceFilename string
	SubjectCode    string
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// OutputFilename turns an uploaded filename into "<base>_graded.xlsx",
// keeping only characters that are safe in a download header.
func OutputFilename(src string) string {
	base := filepath.Base(strings.ReplaceAll(src, `\`, "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Trim(unsafeChars.ReplaceAllString(strings.ReplaceAll(base, " ", "_"), ""), "._")
	if base == "" {
		base = "results"
	}
	return base + "_graded.xlsx"
}

// Workbook renders the per-student results and the cohort summary as an
// .xlsx document.
func Workbook(res grading.Result, meta Meta) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ResultsSheet); err != nil {
		return nil, errors.Wrap(err, "rename results sheet")
	}
	if err := writeResults(f, res); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, errors.Wrap(err, "add summary sheet")
	}
	if err := writeSummary(f, res, meta); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, errors.Wrap(err, "write workbook")
	}
	return buf.Bytes(), nil
}

func writeResults(f *excelize.File, res grading.Result) error {
	headers := []string{"Register Number", "Name", "Marks", "Grade", "Grade_Points", "Normalized_Value"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(ResultsSheet, cell, h); err != nil {
			return errors.Wrap(err, "write results header")
		}
	}
	for i, a := range res.Assignments {
		row := []any{a.ID, a.Name, nil, string(a.Grade), a.Points, nil}
		if a.Mark != nil {
			row[2] = *a.Mark
		}
		if a.Normalized != nil {
			row[5] = *a.Normalized
		}
		if err := f.SetSheetRow(ResultsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return errors.Wrapf(err, "write results row %d", i+2)
		}
	}
	return nil
}

func writeSummary(f *excelize.File, res grading.Result, meta Meta) error {
	s := res.Summary
	rows := [][]any{
		{"Source file", meta.SourceFilename},
		{"Subject code", meta.SubjectCode},
		{"Grading method", string(s.GradingMethod)},
		{"Students with marks", s.Count},
		{"Average", s.Average},
		{"Minimum", s.Min},
		{"Maximum", s.Max},
	}
	if s.FallbackReason != "" {
		rows = append(rows, []any{"Fallback", s.FallbackReason})
	}
	rows = append(rows, []any{}, []any{"Grade", "Range", "Points", "Students"})
	for _, sr := range s.Scheme {
		rows = append(rows, []any{string(sr.Grade), sr.Range, sr.Points, sr.Members})
	}
	for i := range rows {
		if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", i+1), &rows[i]); err != nil {
			return errors.Wrapf(err, "write summary row %d", i+1)
		}
	}
	return nil
}
