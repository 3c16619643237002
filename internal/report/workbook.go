// Package report renders course progress as an Excel workbook.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/p-n-ai/pai-learn/internal/catalog"
)

// Sheet names.
const (
	SummarySheet  = "Summary"
	LecturesSheet = "Lectures"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var lectureHeader = []any{"Module", "Lecture ID", "Lecture", "Type", "Duration", "Completed"}

// WriteCourse writes a two-sheet workbook for c to w. c is expected to carry
// live completion flags and progress.
func WriteCourse(w io.Writer, c catalog.Course) error {
	f := excelize.NewFile()
	defer f.Close()

	p := message.NewPrinter(language.English)
	title := cases.Title(language.English)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("renaming summary sheet: %w", err)
	}

	completed := 0
	for _, m := range c.Modules {
		for _, l := range m.Lectures {
			if l.Completed {
				completed++
			}
		}
	}

	summary := [][]any{
		{"Course", c.Title},
		{"Course ID", c.ID},
		{"Instructor", c.Instructor},
		{"Duration", c.Duration},
		{"Lectures", p.Sprintf("%d of %d completed", completed, c.LectureCount())},
		{"Progress", p.Sprintf("%d%%", c.Progress)},
	}
	if c.NextSession != nil {
		summary = append(summary, []any{"Next session", p.Sprintf("%s %s, %s", c.NextSession.Date, c.NextSession.Time, c.NextSession.Title)})
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("writing summary row %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return fmt.Errorf("styling summary: %w", err)
	}

	if _, err := f.NewSheet(LecturesSheet); err != nil {
		return fmt.Errorf("creating lectures sheet: %w", err)
	}
	if err := f.SetSheetRow(LecturesSheet, "A1", &lectureHeader); err != nil {
		return fmt.Errorf("writing lecture header: %w", err)
	}
	if err := f.SetCellStyle(LecturesSheet, "A1", "F1", bold); err != nil {
		return fmt.Errorf("styling lecture header: %w", err)
	}

	row := 2
	for _, m := range c.Modules {
		for _, l := range m.Lectures {
			done := "No"
			if l.Completed {
				done = "Yes"
			}
			values := []any{m.Title, l.ID, l.Title, title.String(l.Type), l.Duration, done}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(LecturesSheet, cell, &values); err != nil {
				return fmt.Errorf("writing lecture %s: %w", l.ID, err)
			}
			row++
		}
	}
	if err := f.SetColWidth(LecturesSheet, "A", "C", 36); err != nil {
		return fmt.Errorf("sizing lecture columns: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
