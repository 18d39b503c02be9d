package models

// Source identifies one of the five upstream extracts.
type Source string

const (
	// SourceCommandes is the procurement order export.
	SourceCommandes Source = "commandes"
	// SourceConstatations is the receipt confirmation export.
	SourceConstatations Source = "constatations"
	// SourceFactures is the invoicing export.
	SourceFactures Source = "factures"
	// SourceEnvoiBDC is the manually maintained dispatch log.
	SourceEnvoiBDC Source = "envoi_bdc"
	// SourceWorkflow is the workflow tracker export.
	SourceWorkflow Source = "workflow"
)

// Sources lists every source in processing order.
var Sources = []Source{
	SourceCommandes,
	SourceConstatations,
	SourceFactures,
	SourceEnvoiBDC,
	SourceWorkflow,
}

// SheetName returns the output sheet name echoing the processed source.
func (s Source) SheetName() string {
	switch s {
	case SourceCommandes:
		return "Commande"
	case SourceConstatations:
		return "Constatation"
	case SourceFactures:
		return "Factures"
	case SourceEnvoiBDC:
		return "Envoi BDC"
	case SourceWorkflow:
		return "Workflow"
	}
	return string(s)
}

// Label is the human readable name used in run logs.
func (s Source) Label() string {
	switch s {
	case SourceCommandes:
		return "Commandes"
	case SourceConstatations:
		return "Constatations"
	case SourceFactures:
		return "Factures"
	case SourceEnvoiBDC:
		return "Envoi BDC"
	case SourceWorkflow:
		return "Workflow"
	}
	return string(s)
}

// ProcessedTable is a source table projected on its canonical columns after
// filtering.
type ProcessedTable struct {
	Table
	// Source is the extract this table came from.
	Source Source `json:"source"`
	// Missing lists the canonical output columns that could not be resolved
	// from the source headers; their cells are blank.
	Missing []string `json:"missing,omitempty"`
}

// Has reports whether the canonical column was resolved in the source.
func (p *ProcessedTable) Has(column string) bool {
	if p == nil || p.Index(column) < 0 {
		return false
	}
	for _, m := range p.Missing {
		if m == column {
			return false
		}
	}
	return true
}
