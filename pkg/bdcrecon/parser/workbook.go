// Package parser loads source spreadsheets and locates their tables.
package parser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/shakinm/xlsReader/xls/structure"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/models"
)

// Format is a supported spreadsheet container.
type Format string

const (
	// FormatUnknown is returned when neither the name nor the content match.
	FormatUnknown Format = ""
	// FormatXLSX is an Office Open XML workbook.
	FormatXLSX Format = "xlsx"
	// FormatXLS is a legacy BIFF workbook.
	FormatXLS Format = "xls"
	// FormatCSV is delimited text.
	FormatCSV Format = "csv"
)

// ErrUnsupportedFormat is returned when the input is not xlsx, xls or csv.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

var (
	zipMagic = []byte{'P', 'K', 0x03, 0x04}
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// Input is one source file: a path on disk or an in-memory stream.
// When Reader is set it wins over Path.
type Input struct {
	// Path is the file to read.
	Path string
	// Reader supplies the bytes directly.
	Reader io.Reader
	// Name labels a stream; its extension helps format detection.
	Name string
}

// IsZero reports whether the input was not supplied.
func (in Input) IsZero() bool {
	return in.Path == "" && in.Reader == nil
}

// DisplayName is the file name used in logs and on the workbook.
func (in Input) DisplayName() string {
	if in.Name != "" {
		return in.Name
	}
	if in.Path != "" {
		return filepath.Base(in.Path)
	}
	return "stream"
}

// DetectFormat decides the container from the file extension, falling back
// to the leading magic bytes.
func DetectFormat(name string, head []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".xls":
		return FormatXLS
	case ".csv", ".txt":
		return FormatCSV
	}
	switch {
	case bytes.HasPrefix(head, zipMagic):
		return FormatXLSX
	case bytes.HasPrefix(head, oleMagic):
		return FormatXLS
	case len(head) > 0 && !bytes.ContainsRune(head, 0):
		return FormatCSV
	}
	return FormatUnknown
}

// Load reads every sheet of the input.
func Load(in Input) (*models.Workbook, error) {
	data, err := readAll(in)
	if err != nil {
		return nil, err
	}

	name := in.Name
	if name == "" {
		name = in.Path
	}
	head := data
	if len(head) > 8 {
		head = head[:8]
	}

	var sheets []models.RawSheet
	switch DetectFormat(name, head) {
	case FormatXLSX:
		sheets, err = loadXLSX(data)
	case FormatXLS:
		sheets, err = loadXLS(data)
	case FormatCSV:
		sheets, err = loadCSV(data, in.DisplayName())
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}

	return &models.Workbook{
		BookName: in.DisplayName(),
		Sheets:   sheets,
	}, nil
}

func readAll(in Input) ([]byte, error) {
	if in.Reader != nil {
		return io.ReadAll(in.Reader)
	}
	return os.ReadFile(in.Path)
}

func loadXLSX(data []byte) ([]models.RawSheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sheets []models.RawSheet
	for _, sheetName := range f.GetSheetList() {
		rows, err := ExtractCells(f, sheetName)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheetName, err)
		}
		sheets = append(sheets, models.RawSheet{Name: sheetName, Rows: rows})
	}
	return sheets, nil
}

// loadXLS goes through a temporary file because the BIFF reader opens paths.
// Numeric cells are typed through their XF number format like xlsx cells;
// the rest is read as text.
func loadXLS(data []byte) ([]models.RawSheet, error) {
	tmp, err := os.CreateTemp("", "bdcrecon-*.xls")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	workbook, err := xls.OpenFile(tmp.Name())
	if err != nil {
		return nil, err
	}

	dateXF := make(map[int]bool)
	isDate := func(xfIndex int) bool {
		if v, ok := dateXF[xfIndex]; ok {
			return v
		}
		xf := workbook.GetXFbyIndex(xfIndex)
		id := xf.GetFormatIndex()
		code := ""
		if id >= firstCustomFormat {
			format := workbook.GetFormatByIndex(id)
			code = format.String()
		}
		v := numberFormatIsDate(id, code)
		dateXF[xfIndex] = v
		return v
	}

	var sheets []models.RawSheet
	for sheetIndex := 0; sheetIndex < workbook.GetNumberSheets(); sheetIndex++ {
		sheet, err := workbook.GetSheet(sheetIndex)
		if err != nil || sheet == nil {
			continue
		}

		raw := models.RawSheet{Name: sheet.GetName()}
		for i := 0; i <= int(sheet.GetNumberRows()); i++ {
			row, err := sheet.GetRow(i)
			if err != nil || row == nil {
				raw.Rows = append(raw.Rows, nil)
				continue
			}
			var values []models.Value
			for _, col := range row.GetCols() {
				if col == nil {
					values = append(values, models.Blank())
					continue
				}
				values = append(values, xlsCellValue(col, isDate))
			}
			raw.Rows = append(raw.Rows, values)
		}
		sheets = append(sheets, raw)
	}
	return sheets, nil
}

// xlsCellValue types one BIFF cell. Number and RK records become decimals,
// or dates when isDate reports a date format for their XF index.
func xlsCellValue(col structure.CellData, isDate func(xfIndex int) bool) models.Value {
	switch col.GetType() {
	case "*record.Number", "*record.Rk":
		f := col.GetFloat64()
		if isDate(col.GetXFIndex()) {
			if t, err := excelize.ExcelDateToTime(f, false); err == nil {
				return models.Date(t)
			}
		}
		return models.Number(decimal.NewFromFloat(f))
	}
	return models.Text(col.GetString())
}

// loadCSV decodes UTF-8 (BOM stripped) or, failing that, Windows-1252 text
// and splits it on the separator found in the first line.
func loadCSV(data []byte, name string) ([]models.RawSheet, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err != nil {
			return nil, err
		}
		data = decoded
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffSeparator(data)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	rows := make([][]models.Value, len(records))
	for i, rec := range records {
		values := make([]models.Value, len(rec))
		for j, cell := range rec {
			values[j] = models.Text(cell)
		}
		rows[i] = values
	}

	sheetName := strings.TrimSuffix(name, filepath.Ext(name))
	return []models.RawSheet{{Name: sheetName, Rows: rows}}, nil
}

// sniffSeparator picks the most frequent of ';', ',' and tab on the first line.
func sniffSeparator(data []byte) rune {
	line, _ := bufio.NewReader(bytes.NewReader(data)).ReadString('\n')
	best, bestCount := ';', 0
	for _, sep := range []rune{';', ',', '\t'} {
		if n := strings.Count(line, string(sep)); n > bestCount {
			best, bestCount = sep, n
		}
	}
	return best
}
