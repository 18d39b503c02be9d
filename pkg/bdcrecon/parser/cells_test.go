package parser

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/models"
)

func TestExtractCells(t *testing.T) {
	// Create a temporary Excel file for testing
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", "Header1")
	f.SetCellValue(sheetName, "B1", "Header2")
	f.SetCellValue(sheetName, "A2", 100)
	f.SetCellValue(sheetName, "B2", 200.5)
	f.SetCellValue(sheetName, "A3", "Text")
	f.SetCellValue(sheetName, "B3", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	f.SetCellValue(sheetName, "C3", 45352)

	customFmt := "dd/mm/yyyy"
	styleID, err := f.NewStyle(&excelize.Style{CustomNumFmt: &customFmt})
	if err != nil {
		t.Fatalf("Failed to create style: %v", err)
	}
	f.SetCellStyle(sheetName, "C3", "C3", styleID)

	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	f2, err := excelize.OpenFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to open test file: %v", err)
	}
	defer f2.Close()

	rows, err := ExtractCells(f2, sheetName)
	if err != nil {
		t.Fatalf("ExtractCells failed: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}

	if rows[0][0].Kind != models.KindText || rows[0][0].Text != "Header1" {
		t.Errorf("Expected text 'Header1', got %+v", rows[0][0])
	}

	if rows[1][0].Kind != models.KindNumber || rows[1][0].String() != "100" {
		t.Errorf("Expected number 100, got %+v", rows[1][0])
	}
	if rows[1][1].Kind != models.KindNumber || rows[1][1].String() != "200.5" {
		t.Errorf("Expected number 200.5, got %+v", rows[1][1])
	}

	if !rows[2][1].IsDate() || rows[2][1].String() != "15/03/2024" {
		t.Errorf("Expected date 15/03/2024, got %+v", rows[2][1])
	}
	if !rows[2][2].IsDate() || rows[2][2].String() != "01/03/2024" {
		t.Errorf("Expected custom formatted date 01/03/2024, got %+v", rows[2][2])
	}
}

func TestIsDateFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"dd/mm/yyyy", true},
		{"d-mmm-yy", true},
		{"yyyy-mm-dd hh:mm", true},
		{"[$-40C]dddd d mmmm yyyy", true},
		{"h:mm", true},
		{"0.00", false},
		{"#,##0.00 \"€\"", false},
		{"#,##0.00\\ [$€-40C];-#,##0.00\\ [$€-40C]", false},
		{"\"day\" 0", false},
		{"General", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsDateFormat(tt.input); got != tt.expected {
				t.Errorf("IsDateFormat(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsBuiltinDateFormat(t *testing.T) {
	for _, id := range []int{14, 17, 22, 30, 45, 57} {
		if !isBuiltinDateFormat(id) {
			t.Errorf("format %d should be a date format", id)
		}
	}
	for _, id := range []int{0, 1, 2, 4, 10, 23, 49} {
		if isBuiltinDateFormat(id) {
			t.Errorf("format %d should not be a date format", id)
		}
	}
}
