package engine

import (
	"strings"

	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/models"
)

const signatureSeparator = "\x1f"

// Signature is the canonical text of the eleven fields of a row: dates as
// DD/MM/YYYY, amounts in exact fixed-point form, blanks as "". Two rows with
// the same signature are duplicates.
func Signature(row models.GlobalRow) string {
	cells := row.Cells()
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = c.String()
	}
	return strings.Join(parts, signatureSeparator)
}

// Dedup keeps the first row of each signature, in input order.
func Dedup(rows []models.GlobalRow) []models.GlobalRow {
	seen := make(map[string]struct{}, len(rows))
	out := make([]models.GlobalRow, 0, len(rows))
	for _, r := range rows {
		sig := Signature(r)
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}
		out = append(out, r)
	}
	return out
}
