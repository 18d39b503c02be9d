package columns

// Canonical column names produced by the source processors.
const (
	OrderNumber     = "N° commande"
	Libelle         = "Libellé"
	Fournisseur     = "Fournisseur"
	MontantHT       = "Montant HT"
	IndVisa         = "Ind. Visa"
	Statut          = "Statut"
	NatureDepense   = "Nature de dépense"
	TypeFlux        = "Type de flux"
	Auteur          = "Auteur"
	DateReglement   = "Date de règlement"
	Commande        = "Commande"
	ExtraitCommande = "extrait commande"
	DateEnvoi       = "Date envoi"
	Agent           = "Agent"
	Date            = "Date"
)

// ConstatationStatut keys the narrower status synonym list used for the
// Constatations export, whose headers never say "status".
const ConstatationStatut = "Statut (constatations)"

// Synonyms maps every canonical column to its accepted header spellings in
// priority order. Entries are normalized before comparison.
var Synonyms = map[string][]string{
	OrderNumber: {
		"n commande", "no commande", "numero commande", "n de commande", "n° commande",
		"num commande", "n cmd", "no cmd", "numero cmd", "cmd", "commande",
		"order", "order id", "bdc",
	},
	Libelle: {
		"libelle", "désignation", "designation", "objet", "description",
		"intitule", "intitulé", "libellé",
	},
	Fournisseur: {"fournisseur", "vendor", "tiers", "fournisseu"},
	MontantHT: {
		"montant ht", "total ht", "ht", "montant hors taxes", "m ht", "mnt ht", "montantht",
	},
	IndVisa: {
		"ind visa", "indice visa", "indicateur visa", "visa", "visa ind", "visa (ind)",
		"ind? visa", "ind.? visa",
	},
	Statut: {"statut", "status", "etat", "état"},
	NatureDepense: {
		"nature de depense", "nature de dépense", "nature depense", "nature dépense",
		"nature de la depense", "nature de la dépense", "type de depense", "type de dépense",
		"nature",
	},
	TypeFlux:      {"type de flux", "flux", "nature de flux"},
	Auteur:        {"auteur", "saisi par", "cree par", "créé par"},
	DateReglement: {"date de reglement", "date reglement", "date de paiement", "date paiement", "reglement", "paiement"},
	Commande: {
		"commande", "n commande", "no commande", "numero commande", "n° commande", "cmd", "bdc",
	},
	ConstatationStatut: {"statut", "etat", "état"},
	Date: {
		"date", "date workflow", "workflow", "date de workflow", "dt workflow",
		"maj", "mise a jour", "mise à jour",
	},
}

// For returns the synonym list of a canonical column. Unknown names resolve
// against themselves only.
func For(canonical string) []string {
	if s, ok := Synonyms[canonical]; ok {
		return s
	}
	return []string{canonical}
}
