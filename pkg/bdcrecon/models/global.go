package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// GlobalHeader is the fixed header of the Global sheet.
var GlobalHeader = []string{"BDC", "OBJET", "FOURN.", "HT", "VISA", "ENVOYE", "SF", "WORKFLOW", "PAYE", "SOLDE", "STATUT"}

// GlobalRow is one derived line of the Global sheet.
type GlobalRow struct {
	// BDC is the order key, always rendered as text.
	BDC string `json:"bdc"`
	// Objet is Commandes.Libellé.
	Objet Value `json:"objet"`
	// Fournisseur is Commandes.Fournisseur.
	Fournisseur Value `json:"fournisseur"`
	// HT is the raw Commandes.Montant HT.
	HT Value `json:"ht"`
	// Visa is Commandes.Ind. Visa.
	Visa Value `json:"visa"`
	// Envoye is "date agent" from the dispatch log.
	Envoye string `json:"envoye"`
	// SF is the no-invoice classification.
	SF Value `json:"sf"`
	// Workflow is the tracker value, date-only when date-like.
	Workflow Value `json:"workflow"`
	// Paye is a settlement date or a payment status text.
	Paye Value `json:"paye"`
	// Solde is HT minus the invoiced amounts.
	Solde decimal.Decimal `json:"-"`
	// Statut is Commandes.Statut.
	Statut Value `json:"statut"`
}

// Cells returns the eleven cells in header order. Solde is a number.
func (r GlobalRow) Cells() []Value {
	return []Value{
		Text(r.BDC),
		r.Objet,
		r.Fournisseur,
		r.HT,
		r.Visa,
		Text(r.Envoye),
		r.SF,
		r.Workflow,
		r.Paye,
		Number(r.Solde),
		r.Statut,
	}
}

// MarshalJSON renders Solde with two decimals.
func (r GlobalRow) MarshalJSON() ([]byte, error) {
	type plain GlobalRow
	return json.Marshal(struct {
		plain
		Solde json.Number `json:"solde"`
	}{
		plain: plain(r),
		Solde: json.Number(r.Solde.StringFixed(2)),
	})
}
