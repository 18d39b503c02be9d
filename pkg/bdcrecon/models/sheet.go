package models

// RawSheet is a sheet exactly as read: rows of untyped cells, no header assumed.
type RawSheet struct {
	// Name is the sheet name in its workbook.
	Name string `json:"name"`
	// Rows holds the cells; rows may be ragged and may be empty.
	Rows [][]Value `json:"rows"`
}

// Workbook is a source file loaded as an ordered list of sheets.
type Workbook struct {
	// BookName is the file name (no path), or a caller-supplied label for streams.
	BookName string `json:"book_name"`
	// Sheets keeps the order of the source file.
	Sheets []RawSheet `json:"sheets"`
}

// FirstSheet returns the first sheet, or nil when the workbook has none.
func (w *Workbook) FirstSheet() *RawSheet {
	if w == nil || len(w.Sheets) == 0 {
		return nil
	}
	return &w.Sheets[0]
}

// Table is a sheet after header discovery. Every row has exactly
// len(Columns) cells and no row is fully blank.
type Table struct {
	// Columns are the header names; duplicates are allowed.
	Columns []string `json:"columns"`
	// Rows are aligned to Columns.
	Rows [][]Value `json:"rows"`
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty reports whether the table is absent or has no data rows.
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// Index returns the position of the first column with the given name, or -1.
func (t *Table) Index(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value of column name in row r, or Blank when the column
// does not exist.
func (t *Table) Cell(r int, name string) Value {
	idx := t.Index(name)
	if idx < 0 || r < 0 || r >= len(t.Rows) || idx >= len(t.Rows[r]) {
		return Blank()
	}
	return t.Rows[r][idx]
}

// RowIsBlank reports whether every cell of row is blank.
func RowIsBlank(row []Value) bool {
	for _, v := range row {
		if !v.IsBlank() {
			return false
		}
	}
	return true
}
