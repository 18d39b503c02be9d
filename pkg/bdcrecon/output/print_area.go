package output

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const printAreaName = "_xlnm.Print_Area"

// Area is a rectangular cell range, 1-based and inclusive.
type Area struct {
	R1, C1, R2, C2 int
}

// String renders the area as an A1:K10 reference.
func (a Area) String() string {
	from, _ := excelize.CoordinatesToCellName(a.C1, a.R1)
	to, _ := excelize.CoordinatesToCellName(a.C2, a.R2)
	return from + ":" + to
}

// SetPrintArea limits printing of sheet to columns 1..cols and rows 1..rows.
func SetPrintArea(f *excelize.File, sheet string, cols, rows int) error {
	end, err := excelize.CoordinatesToCellName(cols, max(rows, 1), true)
	if err != nil {
		return err
	}
	return f.SetDefinedName(&excelize.DefinedName{
		Name:     printAreaName,
		RefersTo: fmt.Sprintf("'%s'!$A$1:%s", sheet, end),
		Scope:    sheet,
	})
}

// PrintAreas returns the print areas of a workbook keyed by sheet name.
func PrintAreas(f *excelize.File) map[string][]Area {
	result := make(map[string][]Area)
	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, printAreaName) {
			continue
		}
		sheet, areas := parseAreaReference(dn.RefersTo)
		if sheet != "" && len(areas) > 0 {
			result[sheet] = append(result[sheet], areas...)
		}
	}
	return result
}

// ReadPrintArea opens the workbook at path and returns the first print area
// of sheet. ok is false when the sheet has none.
func ReadPrintArea(path, sheet string) (area Area, ok bool, err error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Area{}, false, err
	}
	defer f.Close()

	areas := PrintAreas(f)[sheet]
	if len(areas) == 0 {
		return Area{}, false, nil
	}
	return areas[0], true, nil
}

// parseAreaReference parses 'Sheet'!$A$1:$D$10, possibly comma-separated.
func parseAreaReference(ref string) (string, []Area) {
	var sheet string
	var areas []Area
	for _, part := range strings.Split(ref, ",") {
		part = strings.TrimSpace(part)
		idx := strings.LastIndex(part, "!")
		if idx < 0 {
			continue
		}
		if sheet == "" {
			sheet = strings.Trim(part[:idx], "'")
		}
		if area, ok := parseArea(part[idx+1:]); ok {
			areas = append(areas, area)
		}
	}
	return sheet, areas
}

func parseArea(s string) (Area, bool) {
	parts := strings.Split(strings.ReplaceAll(s, "$", ""), ":")
	if len(parts) != 2 {
		return Area{}, false
	}
	c1, r1, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return Area{}, false
	}
	c2, r2, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return Area{}, false
	}
	return Area{R1: r1, C1: c1, R2: r2, C2: c2}, true
}
