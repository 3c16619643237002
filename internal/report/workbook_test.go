package report_test

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/pai-learn/internal/catalog"
	"github.com/p-n-ai/pai-learn/internal/report"
)

func seedCourse(t *testing.T) catalog.Course {
	t.Helper()
	cat, err := catalog.New(catalog.Seed())
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	c, _ := cat.Get("1")
	c.Progress = 25
	return c
}

func TestWriteCourse(t *testing.T) {
	var buf bytes.Buffer
	if err := report.WriteCourse(&buf, seedCourse(t)); err != nil {
		t.Fatalf("WriteCourse() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != report.SummarySheet || sheets[1] != report.LecturesSheet {
		t.Fatalf("sheets = %v, want [Summary Lectures]", sheets)
	}

	tests := []struct {
		cell string
		want string
	}{
		{"B1", "100x Engineers Generative-AI Wizardry"},
		{"B5", "1 of 4 completed"},
		{"B6", "25%"},
		{"B7", "2023-08-10 18:00, Live Lecture - Advanced AI Concepts"},
	}
	for _, tt := range tests {
		got, err := f.GetCellValue(report.SummarySheet, tt.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) error = %v", tt.cell, err)
		}
		if got != tt.want {
			t.Errorf("Summary!%s = %q, want %q", tt.cell, got, tt.want)
		}
	}

	rows, err := f.GetRows(report.LecturesSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("lecture rows = %d, want header + 4", len(rows))
	}
	if rows[1][1] != "l1" || rows[1][3] != "Lecture" || rows[1][5] != "Yes" {
		t.Errorf("row l1 = %v, want lecture marked Yes", rows[1])
	}
	if rows[2][3] != "Assignment" || rows[2][5] != "No" {
		t.Errorf("row l2 = %v, want assignment marked No", rows[2])
	}
}

func TestWriteCourse_NoModules(t *testing.T) {
	var buf bytes.Buffer
	err := report.WriteCourse(&buf, catalog.Course{ID: "2", Title: "Empty"})
	if err != nil {
		t.Fatalf("WriteCourse() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, _ := f.GetRows(report.LecturesSheet)
	if len(rows) != 1 {
		t.Errorf("lecture rows = %d, want header only", len(rows))
	}
	got, _ := f.GetCellValue(report.SummarySheet, "B6")
	if got != "0%" {
		t.Errorf("progress cell = %q, want 0%%", got)
	}
}
