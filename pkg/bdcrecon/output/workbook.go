package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/coerce"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/engine"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/models"
)

// Sheet names of the exported workbook.
const (
	CoverSheetName  = "Page de garde"
	GlobalSheetName = "Global"
)

// SheetOrder is the order of the processed source sheets, between the cover
// sheet and Global.
var SheetOrder = []models.Source{
	models.SourceCommandes,
	models.SourceEnvoiBDC,
	models.SourceConstatations,
	models.SourceFactures,
	models.SourceWorkflow,
}

// Global sheet layout.
var (
	globalColumnWidths = []float64{7.09, 36.09, 70, 12.09, 16, 14, 16.82, 30, 8.09, 8.09, 12.0}
	globalAmountCols   = map[int]bool{3: true, 9: true}
)

const (
	globalWidthPadding = 0.64
	globalRowHeight    = 30
	globalSideMargin   = 0.19685
	autofitMinWidth    = 10
	autofitMaxWidth    = 60
	autofitPadding     = 2
	coverColumnWidth   = 110
	numFmtText         = 49
	numFmtAmount       = 2
	dateFormat         = "dd/mm/yyyy"
)

// WriteOptions configures the exported workbook.
type WriteOptions struct {
	// CoverSheet adds the rules sheet in first position.
	CoverSheet bool
}

// DefaultWriteOptions returns the default export options.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{CoverSheet: true}
}

// WriteWorkbook renders the result and saves it to path. The file is written
// next to path under a temporary name and renamed on success, so path is
// either left untouched or fully written.
func WriteWorkbook(result *models.Result, path string, opts WriteOptions) error {
	f, err := BuildWorkbook(result, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	return saveAtomic(f, path)
}

// BuildWorkbook renders the cover sheet, one sheet per supplied source and
// the Global sheet.
func BuildWorkbook(result *models.Result, opts WriteOptions) (*excelize.File, error) {
	if result == nil {
		result = &models.Result{}
	}

	var names []string
	if opts.CoverSheet {
		names = append(names, CoverSheetName)
	}
	var tables []*models.ProcessedTable
	for _, src := range SheetOrder {
		if t := result.Table(src); t != nil {
			names = append(names, src.SheetName())
			tables = append(tables, t)
		}
	}
	names = append(names, GlobalSheetName)

	f := excelize.NewFile()
	if err := createSheets(f, names); err != nil {
		f.Close()
		return nil, err
	}
	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if opts.CoverSheet {
		if err := writeCover(f, st); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", CoverSheetName, err)
		}
	}
	for _, t := range tables {
		if err := writeTable(f, t.Source.SheetName(), &t.Table, st); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %q: %w", t.Source.SheetName(), err)
		}
	}
	if err := writeGlobal(f, result.Global, st); err != nil {
		f.Close()
		return nil, fmt.Errorf("sheet %q: %w", GlobalSheetName, err)
	}

	f.SetActiveSheet(0)
	return f, nil
}

func createSheets(f *excelize.File, names []string) error {
	if err := f.SetSheetName("Sheet1", names[0]); err != nil {
		return err
	}
	for _, name := range names[1:] {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}
	return nil
}

// styles holds the style ids shared by every sheet.
type styles struct {
	header       int
	date         int
	globalHeader int
	globalBody   int
	globalText   int
	globalDate   int
	globalAmount int
	cover        int
}

func newStyles(f *excelize.File) (*styles, error) {
	date := dateFormat
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	body := &excelize.Font{Family: "Calibri", Size: 9}

	st := &styles{}
	defs := []struct {
		id    *int
		style *excelize.Style
	}{
		{&st.header, &excelize.Style{Font: &excelize.Font{Bold: true}, Alignment: &excelize.Alignment{Horizontal: "center"}}},
		{&st.date, &excelize.Style{CustomNumFmt: &date}},
		{&st.globalHeader, &excelize.Style{Font: &excelize.Font{Family: "Calibri", Size: 12, Bold: true}, Alignment: center}},
		{&st.globalBody, &excelize.Style{Font: body, Alignment: center}},
		{&st.globalText, &excelize.Style{Font: body, Alignment: center, NumFmt: numFmtText}},
		{&st.globalDate, &excelize.Style{Font: body, Alignment: center, CustomNumFmt: &date}},
		{&st.globalAmount, &excelize.Style{Font: body, Alignment: center, NumFmt: numFmtAmount}},
		{&st.cover, &excelize.Style{Alignment: &excelize.Alignment{Vertical: "top", WrapText: true}}},
	}
	for _, def := range defs {
		id, err := f.NewStyle(def.style)
		if err != nil {
			return nil, err
		}
		*def.id = id
	}
	return st, nil
}

func writeCover(f *excelize.File, st *styles) error {
	lines := strings.Split(strings.TrimRight(engine.RulesText, "\n"), "\n")
	for i, line := range lines {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetCellStr(CoverSheetName, cell, line); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(CoverSheetName, "A", "A", coverColumnWidth); err != nil {
		return err
	}
	return f.SetColStyle(CoverSheetName, "A", st.cover)
}

// writeTable echoes a processed table: bold header, date-only cells in
// dd/mm/yyyy, numbers as numbers, auto-fitted columns.
func writeTable(f *excelize.File, sheet string, t *models.Table, st *styles) error {
	widths := make([]int, len(t.Columns))
	for c, name := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellStr(sheet, cell, name); err != nil {
			return err
		}
		widths[c] = utf8.RuneCountInString(name)
	}
	if len(t.Columns) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Columns), 1)
		if err := f.SetCellStyle(sheet, "A1", last, st.header); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			shown, isDate, err := writeValue(f, sheet, cell, v)
			if err != nil {
				return err
			}
			if isDate {
				if err := f.SetCellStyle(sheet, cell, cell, st.date); err != nil {
					return err
				}
			}
			if c < len(widths) {
				widths[c] = max(widths[c], utf8.RuneCountInString(shown))
			}
		}
	}

	for c, w := range widths {
		col, _ := excelize.ColumnNumberToName(c + 1)
		if err := f.SetColWidth(sheet, col, col, autofitWidth(w)); err != nil {
			return err
		}
	}
	return nil
}

// autofitWidth pads the longest content and clamps it.
func autofitWidth(chars int) float64 {
	return float64(min(max(chars+autofitPadding, autofitMinWidth), autofitMaxWidth))
}

// writeValue writes one cell and returns its displayed text and whether it
// was stored as a date. Text holding a date and a time of day becomes a
// date-only value. Numbers keep their exact decimal digits.
func writeValue(f *excelize.File, sheet, cell string, v models.Value) (string, bool, error) {
	switch v.Kind {
	case models.KindBlank:
		return "", false, nil
	case models.KindNumber:
		return v.String(), false, f.SetCellDefault(sheet, cell, v.Number.String())
	case models.KindDate:
		return v.String(), true, f.SetCellValue(sheet, cell, v.Date)
	}

	if coerce.IsDateTimeText(v.Text) {
		if d, ok := coerce.DateOnly(v); ok {
			return d.String(), true, f.SetCellValue(sheet, cell, d.Date)
		}
	}
	return v.Text, false, f.SetCellStr(sheet, cell, v.Text)
}

// writeGlobal writes the fixed header and the derived rows with the print
// layout of the Global sheet.
func writeGlobal(f *excelize.File, rows []models.GlobalRow, st *styles) error {
	for c, h := range models.GlobalHeader {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellStr(GlobalSheetName, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(models.GlobalHeader), 1)
	if err := f.SetCellStyle(GlobalSheetName, "A1", last, st.globalHeader); err != nil {
		return err
	}

	for r, row := range rows {
		for c, v := range row.Cells() {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			style, err := writeGlobalCell(f, cell, c, v, st)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(GlobalSheetName, cell, cell, style); err != nil {
				return err
			}
		}
	}

	return applyGlobalLayout(f, len(rows)+1)
}

// writeGlobalCell writes one Global cell and returns the style it needs. The
// order column stays text; amounts parse to numbers shown with two decimals.
func writeGlobalCell(f *excelize.File, cell string, col int, v models.Value, st *styles) (int, error) {
	if col == 0 {
		return st.globalText, f.SetCellStr(GlobalSheetName, cell, v.String())
	}
	if globalAmountCols[col] && v.Kind == models.KindText {
		if d, ok := coerce.DecimalFromString(v.Text); ok {
			v = models.Number(d)
		}
	}

	_, isDate, err := writeValue(f, GlobalSheetName, cell, v)
	switch {
	case isDate:
		return st.globalDate, err
	case globalAmountCols[col] && v.Kind == models.KindNumber:
		return st.globalAmount, err
	}
	return st.globalBody, err
}

func applyGlobalLayout(f *excelize.File, lastRow int) error {
	for c, w := range globalColumnWidths {
		col, _ := excelize.ColumnNumberToName(c + 1)
		if err := f.SetColWidth(GlobalSheetName, col, col, w+globalWidthPadding); err != nil {
			return err
		}
	}
	for r := 1; r <= lastRow; r++ {
		if err := f.SetRowHeight(GlobalSheetName, r, globalRowHeight); err != nil {
			return err
		}
	}

	orientation := "landscape"
	if err := f.SetPageLayout(GlobalSheetName, &excelize.PageLayoutOptions{Orientation: &orientation}); err != nil {
		return err
	}
	margin := globalSideMargin
	if err := f.SetPageMargins(GlobalSheetName, &excelize.PageLayoutMarginsOptions{Left: &margin, Right: &margin}); err != nil {
		return err
	}
	return SetPrintArea(f, GlobalSheetName, len(models.GlobalHeader), lastRow)
}

// saveAtomic writes f to a temporary file in the directory of path and
// renames it over path.
func saveAtomic(f *excelize.File, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".bdcrecon-*.xlsx")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	err = f.Write(tmp)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmpName, path)
	}
	if err != nil {
		os.Remove(tmpName)
	}
	return err
}
