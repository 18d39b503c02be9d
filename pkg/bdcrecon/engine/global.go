// Package engine joins the processed source tables on the order key and
// derives the Global table.
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/coerce"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/columns"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/models"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/textnorm"
)

// Literal values of the derived columns.
const (
	Placeholder          = "-"
	SFRegulCA            = "ss objet Régul CA"
	SFUnknown            = "Pas de SF connu"
	PaymentUnknown       = "pas de paiement connu"
	PaymentDateMissing   = "date manquante"
	regulCASupplier      = "bnp paribas regularisation carte achat"
	regulCAEnvoiMarker   = "ss objet regul ca"
	constatationKeyChars = 5
)

// Tables are the processed sources. A nil table is an absent source.
type Tables map[models.Source]*models.ProcessedTable

// Reconcile derives one Global row per Commandes row with a non-blank order,
// in Commandes order, and drops exact duplicates. Without Commandes the result
// is empty. Lookups are built once and only read afterwards.
func Reconcile(tables Tables) ([]models.GlobalRow, []models.Warning) {
	commandes := tables[models.SourceCommandes]
	global := []models.GlobalRow{}
	if absent(commandes) {
		return global, nil
	}

	envoi := buildEnvoiLookup(tables[models.SourceEnvoiBDC])
	invoices, warnings := buildInvoiceAggregates(tables[models.SourceFactures])
	workflow := buildWorkflowLookup(tables[models.SourceWorkflow])
	constatations := buildConstatationLookup(tables[models.SourceConstatations])

	var rows []models.GlobalRow
	for i := range commandes.Rows {
		bdc := orderKey(commandes.Cell(i, columns.OrderNumber))
		if bdc == "" {
			continue
		}

		row := models.GlobalRow{
			BDC:         bdc,
			Objet:       valueOr(commandes, i, columns.Libelle, models.Text(Placeholder)),
			Fournisseur: valueOr(commandes, i, columns.Fournisseur, models.Text(Placeholder)),
			HT:          valueOr(commandes, i, columns.MontantHT, models.Number(decimal.Zero)),
			Visa:        valueOr(commandes, i, columns.IndVisa, models.Text(Placeholder)),
			Envoye:      envoi[bdc],
			Workflow:    workflow[bdc],
			Statut:      valueOr(commandes, i, columns.Statut, models.Text(Placeholder)),
		}
		row.SF = sfStatus(row.Fournisseur, row.Envoye, bdc, constatations)

		agg := invoices[bdc]
		row.Paye = payment(agg)

		ht, ok := coerce.ParseDecimal(row.HT)
		if !ok {
			warnings = append(warnings, models.Warning{
				Kind:   models.WarnUnparsableValue,
				Source: models.SourceCommandes,
				Detail: fmt.Sprintf("amount %q of order %s counted as 0", row.HT.String(), bdc),
			})
		}
		row.Solde = ht
		if agg != nil {
			row.Solde = ht.Sub(agg.sum)
		}

		rows = append(rows, row)
	}
	return append(global, Dedup(rows)...), warnings
}

// valueOr returns the cell of a resolved column, or def when the column could
// not be resolved in the source.
func valueOr(t *models.ProcessedTable, row int, column string, def models.Value) models.Value {
	if !t.Has(column) {
		return def
	}
	return t.Cell(row, column)
}

// sfStatus applies the SF cascade: the Régul CA supplier first, then the
// Constatations status of orders dispatched as Régul CA, else unknown.
func sfStatus(fournisseur models.Value, envoye, bdc string, constatations constatationLookup) models.Value {
	if textnorm.Normalize(fournisseur.String()) == regulCASupplier {
		return models.Text(SFRegulCA)
	}
	if textnorm.Contains(envoye, regulCAEnvoiMarker) {
		if statut, ok := constatations.find(bdc, textnorm.Prefix(bdc, constatationKeyChars)); ok {
			return statut
		}
	}
	return models.Text(SFUnknown)
}

// payment renders the Payé column from the invoices of one order.
func payment(agg *invoiceAggregate) models.Value {
	if agg == nil || agg.count == 0 {
		return models.Text(PaymentUnknown)
	}
	if agg.count == 1 {
		if d, ok := coerce.DateOnly(agg.raw); ok {
			return d
		}
		if !agg.raw.IsBlank() {
			return models.Text(coerce.DateText(agg.raw))
		}
		return models.Text(PaymentDateMissing)
	}
	return models.Text(PaymentsLabel(agg.count))
}

// PaymentsLabel returns "1 paiement" or "n paiements".
func PaymentsLabel(n int) string {
	if n == 1 {
		return "1 paiement"
	}
	return fmt.Sprintf("%d paiements", n)
}
