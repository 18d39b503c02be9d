package parser

import (
	"strings"

	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/models"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/textnorm"
)

// DefaultMarker anchors the Workflow table.
const DefaultMarker = "Liste des résultats"

// MinHeaderCells is the number of non-blank cells a row needs to be taken as
// the header.
const MinHeaderCells = 2

// Extraction describes where a table sits in its workbook.
type Extraction struct {
	// Offset is the number of leading rows dropped before the header search.
	Offset int
	// Marker, when set, locates the table instead of Offset.
	Marker string
	// Positional keeps blank-named columns so that every column stays at its
	// sheet position.
	Positional bool
}

// ExtractionInfo reports what extraction found.
type ExtractionInfo struct {
	// SheetName is the sheet the table was taken from.
	SheetName string
	// HeaderRow is the 0-based row index of the header, -1 when none.
	HeaderRow int
	// MarkerFound is false when a marker was requested but not found.
	MarkerFound bool
}

// ExtractTable applies e to wb and returns the table, which is empty (no
// columns) when no header row exists.
func ExtractTable(wb *models.Workbook, e Extraction) (*models.Table, ExtractionInfo) {
	info := ExtractionInfo{HeaderRow: -1, MarkerFound: e.Marker == ""}

	sheet := wb.FirstSheet()
	offset := e.Offset
	if e.Marker != "" {
		if s, row, ok := FindMarker(wb, e.Marker); ok {
			sheet = s
			offset = row + 1
			info.MarkerFound = true
		} else {
			offset = 0
		}
	}
	if sheet == nil {
		return &models.Table{}, info
	}

	info.SheetName = sheet.Name
	extractRows := ExtractFromRows
	if e.Positional {
		extractRows = ExtractPositional
	}
	table, header := extractRows(sheet.Rows, offset)
	info.HeaderRow = header
	return table, info
}

// FindMarker scans every sheet for a cell whose normalized text equals the
// normalized marker and returns the sheet and 0-based row index of the first hit.
func FindMarker(wb *models.Workbook, marker string) (*models.RawSheet, int, bool) {
	if wb == nil {
		return nil, -1, false
	}
	target := textnorm.Normalize(marker)
	if target == "" {
		return nil, -1, false
	}
	for i := range wb.Sheets {
		sheet := &wb.Sheets[i]
		for rowIdx, row := range sheet.Rows {
			for _, cell := range row {
				if cell.Kind == models.KindText && textnorm.Normalize(cell.Text) == target {
					return sheet, rowIdx, true
				}
			}
		}
	}
	return nil, -1, false
}

// ExtractFromRows drops the first offset rows, takes the first row with at
// least MinHeaderCells non-blank cells as header and the remaining non-blank
// rows as data. Blank-named columns are dropped and every data row is padded
// or cut to the header arity. It also returns the header row index, -1 when
// no header was found.
func ExtractFromRows(rows [][]models.Value, offset int) (*models.Table, int) {
	header := FindHeader(rows, max(offset, 0))
	if header < 0 {
		return &models.Table{}, -1
	}

	var keep []int
	var columns []string
	for idx, cell := range rows[header] {
		name := strings.TrimSpace(cell.String())
		if name == "" {
			continue
		}
		keep = append(keep, idx)
		columns = append(columns, name)
	}
	return buildTable(rows[header+1:], columns, keep), header
}

// ExtractPositional finds the header like ExtractFromRows but keeps every
// column by position, blank-named ones included, up to the widest row of the
// table.
func ExtractPositional(rows [][]models.Value, offset int) (*models.Table, int) {
	header := FindHeader(rows, max(offset, 0))
	if header < 0 {
		return &models.Table{}, -1
	}

	width := 0
	for _, row := range rows[header:] {
		width = max(width, len(row))
	}
	keep := make([]int, width)
	columns := make([]string, width)
	for idx := range keep {
		keep[idx] = idx
		if idx < len(rows[header]) {
			columns[idx] = strings.TrimSpace(rows[header][idx].String())
		}
	}
	return buildTable(rows[header+1:], columns, keep), header
}

// buildTable copies the cells at the kept positions and drops blank rows.
func buildTable(rows [][]models.Value, columns []string, keep []int) *models.Table {
	table := &models.Table{Columns: columns}
	for _, row := range rows {
		values := make([]models.Value, len(keep))
		for i, idx := range keep {
			if idx < len(row) {
				values[i] = row[idx]
			}
		}
		if models.RowIsBlank(values) {
			continue
		}
		table.Rows = append(table.Rows, values)
	}
	return table
}

// FindHeader returns the index of the first row at or after offset with at
// least MinHeaderCells non-blank cells, or -1.
func FindHeader(rows [][]models.Value, offset int) int {
	for i := offset; i < len(rows); i++ {
		if countNonBlank(rows[i]) >= MinHeaderCells {
			return i
		}
	}
	return -1
}

func countNonBlank(row []models.Value) int {
	count := 0
	for _, v := range row {
		if !v.IsBlank() {
			count++
		}
	}
	return count
}
