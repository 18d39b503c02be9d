// Package output renders reconciliation results as an Excel workbook or JSON.
package output

import (
	"encoding/json"

	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/models"
)

// ToJSON serializes a result: run id, processed tables, Global rows and
// warnings.
func ToJSON(result *models.Result, pretty bool) ([]byte, error) {
	return marshal(result, pretty)
}

// TableToJSON serializes one processed table.
func TableToJSON(table *models.ProcessedTable, pretty bool) ([]byte, error) {
	return marshal(table, pretty)
}

// GlobalToJSON serializes the Global rows only.
func GlobalToJSON(rows []models.GlobalRow, pretty bool) ([]byte, error) {
	if rows == nil {
		rows = []models.GlobalRow{}
	}
	return marshal(rows, pretty)
}

func marshal(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
