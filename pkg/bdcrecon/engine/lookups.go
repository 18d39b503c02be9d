package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/coerce"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/columns"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/models"
)

// orderKey is the join key of a cell: its text form, trimmed. It is never
// parsed as a number.
func orderKey(v models.Value) string {
	return v.Trimmed()
}

// buildEnvoiLookup maps an order to "DD/MM/YYYY agent". The first row of a
// duplicated order wins.
func buildEnvoiLookup(t *models.ProcessedTable) map[string]string {
	lookup := make(map[string]string)
	if absent(t) {
		return lookup
	}
	for i := range t.Rows {
		key := orderKey(t.Cell(i, columns.Commande))
		if key == "" {
			continue
		}
		if _, seen := lookup[key]; seen {
			continue
		}
		date := coerce.DateText(t.Cell(i, columns.DateEnvoi))
		agent := t.Cell(i, columns.Agent).Trimmed()
		lookup[key] = strings.TrimSpace(date + " " + agent)
	}
	return lookup
}

// invoiceAggregate summarizes the invoices of one order.
type invoiceAggregate struct {
	count int
	sum   decimal.Decimal
	// raw is the settlement date cell of the first invoice; it is only
	// meaningful when count is 1.
	raw models.Value
}

// buildInvoiceAggregates groups Factures by order. Unparsable amounts count
// as zero and are reported.
func buildInvoiceAggregates(t *models.ProcessedTable) (map[string]*invoiceAggregate, []models.Warning) {
	aggs := make(map[string]*invoiceAggregate)
	if absent(t) {
		return aggs, nil
	}

	var warnings []models.Warning
	for i := range t.Rows {
		key := orderKey(t.Cell(i, columns.OrderNumber))
		if key == "" {
			continue
		}
		amount := t.Cell(i, columns.MontantHT)
		d, ok := coerce.ParseDecimal(amount)
		if !ok {
			warnings = append(warnings, models.Warning{
				Kind:   models.WarnUnparsableValue,
				Source: models.SourceFactures,
				Detail: fmt.Sprintf("amount %q of order %s counted as 0", amount.String(), key),
			})
		}

		agg, exists := aggs[key]
		if !exists {
			agg = &invoiceAggregate{raw: t.Cell(i, columns.DateReglement)}
			aggs[key] = agg
		}
		agg.count++
		agg.sum = agg.sum.Add(d)
	}
	return aggs, warnings
}

// workflowLookup maps an order to its tracker value.
type workflowLookup map[string]models.Value

// buildWorkflowLookup resolves the join column through the order synonyms and
// the value column through the Date then Statut synonyms, falling back to the
// second column. The first row of a duplicated order wins.
func buildWorkflowLookup(t *models.ProcessedTable) workflowLookup {
	lookup := make(workflowLookup)
	if absent(t) {
		return lookup
	}

	keyCol, ok := columns.ResolveCanonical(t.Columns, columns.OrderNumber)
	if !ok {
		return lookup
	}
	valueCol, ok := columns.ResolveCanonical(t.Columns, columns.Date)
	if !ok {
		valueCol, ok = columns.ResolveCanonical(t.Columns, columns.Statut)
	}
	if !ok {
		if len(t.Columns) < 2 {
			return lookup
		}
		valueCol = t.Columns[1]
	}

	for i := range t.Rows {
		key := orderKey(t.Cell(i, keyCol))
		if key == "" {
			continue
		}
		if _, seen := lookup[key]; seen {
			continue
		}
		v, _ := coerce.DateOnly(t.Cell(i, valueCol))
		lookup[key] = v
	}
	return lookup
}

// constatationLookup holds Statut by full order and by 5-character prefix.
// A later row overwrites an earlier one with the same key.
type constatationLookup struct {
	byOrder   map[string]models.Value
	byExtract map[string]models.Value
}

func buildConstatationLookup(t *models.ProcessedTable) constatationLookup {
	c := constatationLookup{
		byOrder:   make(map[string]models.Value),
		byExtract: make(map[string]models.Value),
	}
	if absent(t) {
		return c
	}
	for i := range t.Rows {
		statut := t.Cell(i, columns.Statut)
		if key := orderKey(t.Cell(i, columns.Commande)); key != "" {
			c.byOrder[key] = statut
		}
		if key := orderKey(t.Cell(i, columns.ExtraitCommande)); key != "" {
			c.byExtract[key] = statut
		}
	}
	return c
}

// find returns the non-blank Statut of the order, trying the full key first
// and then its prefix.
func (c constatationLookup) find(order, prefix string) (models.Value, bool) {
	if v, ok := c.byOrder[order]; ok && !v.IsBlank() {
		return v, true
	}
	if v, ok := c.byExtract[prefix]; ok && !v.IsBlank() {
		return v, true
	}
	return models.Blank(), false
}

// absent reports whether a source was not supplied or has no rows.
func absent(t *models.ProcessedTable) bool {
	return t == nil || t.Empty()
}
