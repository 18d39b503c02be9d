package parser

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/coerce"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/models"
)

// ExtractCells reads every row of a sheet as typed values. Numbers are kept
// as exact decimals and date-formatted numbers become date-only values.
// Rows are ragged: trailing empty cells are not materialized.
func ExtractCells(f *excelize.File, sheetName string) ([][]models.Value, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	dates := newDateStyles(f)
	result := make([][]models.Value, len(rows))
	for rowIdx, row := range rows {
		values := make([]models.Value, len(row))
		for colIdx, raw := range row {
			if raw == "" {
				continue
			}
			cellName, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			values[colIdx] = cellValue(f, sheetName, cellName, raw, dates)
		}
		result[rowIdx] = values
	}

	return result, nil
}

// cellValue types one raw cell using its stored type and number format.
func cellValue(f *excelize.File, sheetName, cellName, raw string, dates *dateStyles) models.Value {
	cellType, err := f.GetCellType(sheetName, cellName)
	if err != nil {
		return models.Text(raw)
	}

	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeBool, excelize.CellTypeError:
		return models.Text(raw)
	case excelize.CellTypeDate:
		if t, ok := coerce.ParseDate(raw); ok {
			return models.Date(t)
		}
		return models.Text(raw)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return models.Text(raw)
	}
	if styleID, err := f.GetCellStyle(sheetName, cellName); err == nil && dates.isDate(styleID) {
		if t, err := excelize.ExcelDateToTime(d.InexactFloat64(), dates.date1904); err == nil {
			return models.Date(t)
		}
	}
	return models.Number(d)
}

// dateStyles caches, per style id, whether the number format displays a date.
type dateStyles struct {
	f        *excelize.File
	date1904 bool
	cache    map[int]bool
}

func newDateStyles(f *excelize.File) *dateStyles {
	ds := &dateStyles{f: f, cache: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		ds.date1904 = *props.Date1904
	}
	return ds
}

func (ds *dateStyles) isDate(styleID int) bool {
	if styleID == 0 {
		return false
	}
	if v, ok := ds.cache[styleID]; ok {
		return v
	}
	v := false
	if style, err := ds.f.GetStyle(styleID); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			v = IsDateFormat(*style.CustomNumFmt)
		} else {
			v = isBuiltinDateFormat(style.NumFmt)
		}
	}
	ds.cache[styleID] = v
	return v
}

// firstCustomFormat is the lowest number format id a workbook may define.
const firstCustomFormat = 164

// numberFormatIsDate reports whether number format id, with its code when the
// workbook defines one, displays a date.
func numberFormatIsDate(id int, code string) bool {
	if code != "" {
		return IsDateFormat(code)
	}
	return isBuiltinDateFormat(id)
}

// isBuiltinDateFormat reports whether a built-in number format id is a date
// or date-time format.
func isBuiltinDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	return false
}

// IsDateFormat reports whether a custom number format code displays a date.
// Quoted literals, escaped characters and bracketed sections are ignored.
func IsDateFormat(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			if c == '"' {
				inQuote = false
			}
		case inBracket:
			if c == ']' {
				inBracket = false
			}
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\' || c == '_' || c == '*':
			i++
		default:
			b.WriteByte(c)
		}
	}
	stripped := strings.ToLower(b.String())
	// Only the positive section decides.
	if idx := strings.IndexByte(stripped, ';'); idx >= 0 {
		stripped = stripped[:idx]
	}
	return strings.ContainsAny(stripped, "dy") ||
		(strings.Contains(stripped, "m") && strings.ContainsAny(stripped, "/-.")) ||
		strings.Contains(stripped, "h")
}
