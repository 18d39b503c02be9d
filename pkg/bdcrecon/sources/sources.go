// Package sources turns each raw upstream extract into its processed table:
// table location, column resolution, filtering and projection.
package sources

import (
	"fmt"

	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/columns"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/models"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/parser"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/textnorm"
)

// Config holds the per-source extraction and filter parameters.
type Config struct {
	// CommandesOffset is the number of junk rows above the Commandes header.
	CommandesOffset int
	// ConstatationsOffset is the number of junk rows above the Constatations header.
	ConstatationsOffset int
	// FacturesOffset is the number of junk rows above the Factures header.
	FacturesOffset int
	// EnvoiOffset is the number of junk rows above the Envoi BDC header.
	EnvoiOffset int
	// WorkflowMarker is the cell text above the Workflow table.
	WorkflowMarker string
	// ExcludedSupplier drops Commandes and Factures rows of this supplier.
	ExcludedSupplier string
	// ExcludedCommandeNature drops Commandes rows of this expense nature.
	ExcludedCommandeNature string
	// ExcludedFactureNature drops Factures rows of this expense nature.
	ExcludedFactureNature string
}

// DefaultConfig returns the layout of the usual exports.
func DefaultConfig() Config {
	return Config{
		CommandesOffset:        20,
		ConstatationsOffset:    17,
		FacturesOffset:         19,
		EnvoiOffset:            0,
		WorkflowMarker:         parser.DefaultMarker,
		ExcludedSupplier:       "FCM 3MUNDI ESR-M",
		ExcludedCommandeNature: "mission",
		ExcludedFactureNature:  "MI",
	}
}

// Output columns of each processed table.
var (
	CommandesColumns = []string{
		columns.OrderNumber, columns.Libelle, columns.Fournisseur, columns.MontantHT,
		columns.TypeFlux, columns.NatureDepense, columns.Statut, columns.IndVisa, columns.Auteur,
	}
	ConstatationsColumns = []string{columns.Commande, columns.ExtraitCommande, columns.Statut}
	EnvoiColumns         = []string{columns.Commande, columns.DateEnvoi, columns.Agent}
	FacturesColumns      = []string{columns.OrderNumber, columns.MontantHT, columns.DateReglement}
)

// Process dispatches to the processor of src.
func Process(src models.Source, wb *models.Workbook, cfg Config) (*models.ProcessedTable, []models.Warning) {
	switch src {
	case models.SourceCommandes:
		return Commandes(wb, cfg)
	case models.SourceConstatations:
		return Constatations(wb, cfg)
	case models.SourceFactures:
		return Factures(wb, cfg)
	case models.SourceEnvoiBDC:
		return EnvoiBDC(wb, cfg)
	case models.SourceWorkflow:
		return Workflow(wb, cfg)
	}
	return &models.ProcessedTable{Source: src}, nil
}

// Commandes keeps the order lines, without the excluded supplier and the
// excluded expense nature.
func Commandes(wb *models.Workbook, cfg Config) (*models.ProcessedTable, []models.Warning) {
	table, warnings := extract(models.SourceCommandes, wb, parser.Extraction{Offset: cfg.CommandesOffset})
	if len(table.Columns) == 0 {
		return emptyTable(models.SourceCommandes, CommandesColumns), warnings
	}

	mapping, missing := columns.Map(table.Columns, CommandesColumns...)
	warnings = append(warnings, missingWarnings(models.SourceCommandes, table.Columns, missing)...)

	table = exclude(table, mapping[columns.Fournisseur], cfg.ExcludedSupplier)
	table = exclude(table, mapping[columns.NatureDepense], cfg.ExcludedCommandeNature)

	return project(models.SourceCommandes, table, CommandesColumns, mapping, missing), warnings
}

// Constatations keeps order, status and the 5-character order prefix used as
// a fallback key.
func Constatations(wb *models.Workbook, cfg Config) (*models.ProcessedTable, []models.Warning) {
	table, warnings := extract(models.SourceConstatations, wb, parser.Extraction{Offset: cfg.ConstatationsOffset})
	if len(table.Columns) == 0 {
		return emptyTable(models.SourceConstatations, ConstatationsColumns), warnings
	}

	mapping, missing := columns.Map(table.Columns, columns.Commande)
	if raw, ok := columns.ResolveCanonical(table.Columns, columns.ConstatationStatut); ok {
		mapping[columns.Statut] = raw
	} else {
		missing = append(missing, columns.Statut)
	}
	warnings = append(warnings, missingWarnings(models.SourceConstatations, table.Columns, missing)...)

	orderIdx := table.Index(mapping[columns.Commande])
	statutIdx := table.Index(mapping[columns.Statut])

	out := &models.ProcessedTable{
		Table:  models.Table{Columns: append([]string(nil), ConstatationsColumns...)},
		Source: models.SourceConstatations,
	}
	for _, m := range missing {
		out.Missing = append(out.Missing, m)
		if m == columns.Commande {
			out.Missing = append(out.Missing, columns.ExtraitCommande)
		}
	}
	for _, row := range table.Rows {
		order := cellAt(row, orderIdx)
		extrait := models.Blank()
		if !order.IsBlank() {
			extrait = models.Text(textnorm.Prefix(order.Trimmed(), 5))
		}
		values := []models.Value{order, extrait, cellAt(row, statutIdx)}
		if models.RowIsBlank(values) {
			continue
		}
		out.Rows = append(out.Rows, values)
	}
	return out, warnings
}

// Factures keeps one line per invoice, without the excluded expense nature
// and the excluded supplier.
func Factures(wb *models.Workbook, cfg Config) (*models.ProcessedTable, []models.Warning) {
	table, warnings := extract(models.SourceFactures, wb, parser.Extraction{Offset: cfg.FacturesOffset})
	if len(table.Columns) == 0 {
		return emptyTable(models.SourceFactures, FacturesColumns), warnings
	}

	mapping, missing := columns.Map(table.Columns, FacturesColumns...)
	warnings = append(warnings, missingWarnings(models.SourceFactures, table.Columns, missing)...)

	if nature, ok := columns.ResolveCanonical(table.Columns, columns.NatureDepense); ok {
		table = exclude(table, nature, cfg.ExcludedFactureNature)
	}
	if supplier, ok := columns.ResolveCanonical(table.Columns, columns.Fournisseur); ok {
		table = exclude(table, supplier, cfg.ExcludedSupplier)
	}

	return project(models.SourceFactures, table, FacturesColumns, mapping, missing), warnings
}

// EnvoiBDC keeps the first three columns of the sheet by position, whatever
// their header text, blank headers included, as Commande, Date envoi and Agent.
func EnvoiBDC(wb *models.Workbook, cfg Config) (*models.ProcessedTable, []models.Warning) {
	table, warnings := extract(models.SourceEnvoiBDC, wb, parser.Extraction{Offset: cfg.EnvoiOffset, Positional: true})
	if len(table.Columns) == 0 {
		return emptyTable(models.SourceEnvoiBDC, EnvoiColumns), warnings
	}

	out := &models.ProcessedTable{
		Table:  models.Table{Columns: append([]string(nil), EnvoiColumns...)},
		Source: models.SourceEnvoiBDC,
	}
	if n := len(table.Columns); n < len(EnvoiColumns) {
		out.Missing = append(out.Missing, EnvoiColumns[n:]...)
		for _, name := range EnvoiColumns[n:] {
			warnings = append(warnings, models.Warning{
				Kind:   models.WarnMissingColumn,
				Source: models.SourceEnvoiBDC,
				Detail: fmt.Sprintf("no column at position %d for %q", indexOf(EnvoiColumns, name)+1, name),
			})
		}
	}
	for _, row := range table.Rows {
		values := make([]models.Value, len(EnvoiColumns))
		copy(values, row)
		if models.RowIsBlank(values) {
			continue
		}
		out.Rows = append(out.Rows, values)
	}
	return out, warnings
}

// Workflow passes the table found under the marker through unchanged.
func Workflow(wb *models.Workbook, cfg Config) (*models.ProcessedTable, []models.Warning) {
	marker := cfg.WorkflowMarker
	if marker == "" {
		marker = parser.DefaultMarker
	}
	table, warnings := extract(models.SourceWorkflow, wb, parser.Extraction{Marker: marker})
	return &models.ProcessedTable{Table: *table, Source: models.SourceWorkflow}, warnings
}

// extract locates the table and reports empty sources and missing markers.
func extract(src models.Source, wb *models.Workbook, e parser.Extraction) (*models.Table, []models.Warning) {
	var warnings []models.Warning
	if wb == nil {
		wb = &models.Workbook{}
	}

	table, info := parser.ExtractTable(wb, e)
	if !info.MarkerFound {
		warnings = append(warnings, models.Warning{
			Kind:   models.WarnMissingMarker,
			Source: src,
			Detail: fmt.Sprintf("marker %q not found in %s, reading the first sheet from the top", e.Marker, wb.BookName),
		})
	}
	if info.HeaderRow < 0 {
		warnings = append(warnings, models.Warning{
			Kind:   models.WarnEmptySource,
			Source: src,
			Detail: fmt.Sprintf("no header row found in %s after row %d", wb.BookName, e.Offset),
		})
	}
	return table, warnings
}

// exclude drops the rows whose column raw normalizes to the same text as
// value. An unresolved column or empty value excludes nothing.
func exclude(table *models.Table, raw string, value string) *models.Table {
	idx := table.Index(raw)
	target := textnorm.Normalize(value)
	if raw == "" || idx < 0 || target == "" {
		return table
	}

	out := &models.Table{Columns: table.Columns}
	for _, row := range table.Rows {
		if textnorm.Normalize(cellAt(row, idx).String()) == target {
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// project renames the resolved columns to their canonical names, leaves
// unresolved ones blank and drops rows left fully blank.
func project(src models.Source, table *models.Table, canonical []string, mapping columns.Mapping, missing []string) *models.ProcessedTable {
	indexes := make([]int, len(canonical))
	for i, name := range canonical {
		indexes[i] = -1
		if raw, ok := mapping[name]; ok {
			indexes[i] = table.Index(raw)
		}
	}

	out := &models.ProcessedTable{
		Table:   models.Table{Columns: append([]string(nil), canonical...)},
		Source:  src,
		Missing: missing,
	}
	for _, row := range table.Rows {
		values := make([]models.Value, len(canonical))
		for i, idx := range indexes {
			values[i] = cellAt(row, idx)
		}
		if models.RowIsBlank(values) {
			continue
		}
		out.Rows = append(out.Rows, values)
	}
	return out
}

func emptyTable(src models.Source, canonical []string) *models.ProcessedTable {
	return &models.ProcessedTable{
		Table:   models.Table{Columns: append([]string(nil), canonical...)},
		Source:  src,
		Missing: append([]string(nil), canonical...),
	}
}

func missingWarnings(src models.Source, headers []string, missing []string) []models.Warning {
	warnings := make([]models.Warning, 0, len(missing))
	for _, name := range missing {
		detail := fmt.Sprintf("column %q not found", name)
		if hint := columns.Suggest(headers, name); hint != "" {
			detail += fmt.Sprintf(" (closest header: %q)", hint)
		}
		warnings = append(warnings, models.Warning{
			Kind:   models.WarnMissingColumn,
			Source: src,
			Detail: detail,
		})
	}
	return warnings
}

func cellAt(row []models.Value, idx int) models.Value {
	if idx < 0 || idx >= len(row) {
		return models.Blank()
	}
	return row[idx]
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
