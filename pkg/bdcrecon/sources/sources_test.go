package sources

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/columns"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/models"
)

// workbook builds a single-sheet workbook with junk rows above the header.
func workbook(junk int, rows ...[]models.Value) *models.Workbook {
	var all [][]models.Value
	for i := 0; i < junk; i++ {
		all = append(all, []models.Value{models.Text("junk"), models.Text("line")})
	}
	all = append(all, rows...)
	return &models.Workbook{BookName: "test.xlsx", Sheets: []models.RawSheet{{Name: "Feuil1", Rows: all}}}
}

func row(cells ...interface{}) []models.Value {
	out := make([]models.Value, len(cells))
	for i, c := range cells {
		switch v := c.(type) {
		case string:
			out[i] = models.Text(v)
		case float64:
			out[i] = models.Number(decimal.NewFromFloat(v))
		case models.Value:
			out[i] = v
		}
	}
	return out
}

func hasWarning(warnings []models.Warning, kind models.WarningKind) bool {
	for _, w := range warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

func TestCommandesFilters(t *testing.T) {
	cfg := DefaultConfig()
	wb := workbook(cfg.CommandesOffset,
		row("N° commande", "Libellé", "Fournisseur", "Montant HT", "Nature de dépense", "Statut", "Ind. Visa", "Type de flux", "Auteur"),
		row("4500000001", "Papier", "ACME", 100.0, "Fournitures", "Validé", "V1", "Achat", "Dupont"),
		row("4500000002", "Billet", "ACME", 250.0, "Missión", "Validé", "V1", "Achat", "Dupont"),
		row("4500000003", "Carte", "fcm 3mundi esr-m ", 50.0, "Fournitures", "Validé", "V1", "Achat", "Dupont"),
		row("4500000004", "Train", "SNCF", 75.0, "MISSION", "Validé", "V1", "Achat", "Dupont"),
		row("4500000005", "Stylos", "Bureau+", 12.5, "Fournitures", "Soldé", "V2", "Achat", "Martin"),
	)

	table, warnings := Commandes(wb, cfg)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if table.Len() != 2 {
		t.Fatalf("rows = %d, expected 2", table.Len())
	}
	if got := table.Cell(0, columns.OrderNumber).String(); got != "4500000001" {
		t.Errorf("first order = %q", got)
	}
	if got := table.Cell(1, columns.OrderNumber).String(); got != "4500000005" {
		t.Errorf("second order = %q", got)
	}
	for i, c := range CommandesColumns {
		if table.Columns[i] != c {
			t.Errorf("column %d = %q, expected %q", i, table.Columns[i], c)
		}
	}
	if got := table.Cell(1, columns.Auteur).String(); got != "Martin" {
		t.Errorf("Auteur = %q, expected Martin", got)
	}
}

func TestCommandesMissingColumns(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CommandesOffset = 0
	wb := workbook(0,
		row("No Commande", "Objet"),
		row("4500000001", "Papier"),
		row("", ""),
	)

	table, warnings := Commandes(wb, cfg)
	if table.Len() != 1 {
		t.Fatalf("rows = %d, expected 1", table.Len())
	}
	if !table.Has(columns.OrderNumber) || !table.Has(columns.Libelle) {
		t.Error("resolved columns should be present")
	}
	if table.Has(columns.Fournisseur) || table.Has(columns.MontantHT) {
		t.Error("unresolved columns should be reported missing")
	}
	if len(table.Missing) != 7 {
		t.Errorf("missing = %v, expected 7 names", table.Missing)
	}
	if !hasWarning(warnings, models.WarnMissingColumn) {
		t.Error("expected missing_column warnings")
	}
	if !table.Cell(0, columns.Fournisseur).IsBlank() {
		t.Error("unresolved column cells should be blank")
	}
}

func TestConstatations(t *testing.T) {
	cfg := DefaultConfig()
	wb := workbook(cfg.ConstatationsOffset,
		row("Commande", "Date", "Etat"),
		row("4500012345", "01/03/2024", "Constaté"),
		row(" 4500099999 ", "", ""),
		row("", "02/03/2024", ""),
	)

	table, warnings := Constatations(wb, cfg)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if table.Len() != 2 {
		t.Fatalf("rows = %d, expected 2", table.Len())
	}
	if got := table.Cell(0, columns.ExtraitCommande).String(); got != "45000" {
		t.Errorf("extrait = %q, expected 45000", got)
	}
	if got := table.Cell(1, columns.ExtraitCommande).String(); got != "45000" {
		t.Errorf("extrait of padded key = %q, expected 45000", got)
	}
	if got := table.Cell(0, columns.Statut).String(); got != "Constaté" {
		t.Errorf("Statut = %q, expected Constaté", got)
	}
}

func TestFacturesFilters(t *testing.T) {
	cfg := DefaultConfig()
	wb := workbook(cfg.FacturesOffset,
		row("N° commande", "Fournisseur", "Nature", "Montant HT", "Date de paiement"),
		row("4500000001", "ACME", "FO", "100,00", "01/03/2024"),
		row("4500000001", "ACME", "mi", "20,00", "02/03/2024"),
		row("4500000002", "FCM 3MUNDI ESR-M", "FO", "30,00", "03/03/2024"),
	)

	table, _ := Factures(wb, cfg)
	if table.Len() != 1 {
		t.Fatalf("rows = %d, expected 1", table.Len())
	}
	if got := table.Cell(0, columns.DateReglement).String(); got != "01/03/2024" {
		t.Errorf("Date de règlement = %q", got)
	}
	if len(table.Columns) != 3 {
		t.Errorf("columns = %v", table.Columns)
	}
}

func TestFiltersWithoutColumnAreNoOp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FacturesOffset = 0
	wb := workbook(0,
		row("N° commande", "Montant HT"),
		row("4500000001", "10"),
		row("4500000002", "20"),
	)

	table, _ := Factures(wb, cfg)
	if table.Len() != 2 {
		t.Errorf("rows = %d, expected 2", table.Len())
	}
}

func TestEnvoiBDCPositional(t *testing.T) {
	cfg := DefaultConfig()
	wb := workbook(0,
		row("BDC", "Envoyé le", "Par", "Commentaire"),
		row("4500000001", "01/03/2024", "Dupont", "ok"),
		row("", "", "", "orphan comment"),
	)

	table, warnings := EnvoiBDC(wb, cfg)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	for i, c := range EnvoiColumns {
		if table.Columns[i] != c {
			t.Errorf("column %d = %q, expected %q", i, table.Columns[i], c)
		}
	}
	if table.Len() != 1 {
		t.Fatalf("rows = %d, expected 1", table.Len())
	}
	if got := table.Cell(0, columns.Agent).String(); got != "Dupont" {
		t.Errorf("Agent = %q, expected Dupont", got)
	}

	narrow := workbook(0,
		row("BDC", "Envoyé le"),
		row("4500000001", "01/03/2024"),
	)
	table, warnings = EnvoiBDC(narrow, cfg)
	if table.Len() != 1 || !table.Cell(0, columns.Agent).IsBlank() {
		t.Errorf("expected a padded Agent column, got %+v", table)
	}
	if table.Has(columns.Agent) || !hasWarning(warnings, models.WarnMissingColumn) {
		t.Error("Agent should be reported missing")
	}
}

func TestEnvoiBDCBlankHeader(t *testing.T) {
	tests := []struct {
		name   string
		header []models.Value
		data   []models.Value
	}{
		{"blank second header", row("BDC", "", "Agent"), row("4500000001", "01/03/2024", "Dupont")},
		{"blank third header", row("BDC", "Date", ""), row("4500000001", "01/03/2024", "Dupont")},
		{"blank first header", row("", "Date", "Agent"), row("4500000001", "01/03/2024", "Dupont")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, warnings := EnvoiBDC(workbook(0, tt.header, tt.data), DefaultConfig())
			if len(warnings) != 0 {
				t.Errorf("unexpected warnings: %v", warnings)
			}
			if table.Len() != 1 {
				t.Fatalf("rows = %d, expected 1", table.Len())
			}
			expected := map[string]string{
				columns.Commande:  "4500000001",
				columns.DateEnvoi: "01/03/2024",
				columns.Agent:     "Dupont",
			}
			for col, want := range expected {
				if got := table.Cell(0, col).String(); got != want {
					t.Errorf("%s = %q, expected %q", col, got, want)
				}
			}
		})
	}
}

func TestWorkflowPassthrough(t *testing.T) {
	wb := workbook(0,
		row("Recherche"),
		row("Liste des résultats"),
		row("N° commande", "Etape", "Date"),
		row("4500000001", "Visa", "01/03/2024"),
	)

	table, warnings := Workflow(wb, DefaultConfig())
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(table.Columns) != 3 || table.Columns[1] != "Etape" || table.Len() != 1 {
		t.Errorf("unexpected table: %+v", table)
	}
}

func TestWorkflowMissingMarker(t *testing.T) {
	wb := workbook(0,
		row("N° commande", "Date"),
		row("4500000001", "01/03/2024"),
	)

	table, warnings := Workflow(wb, DefaultConfig())
	if !hasWarning(warnings, models.WarnMissingMarker) {
		t.Error("expected missing_marker warning")
	}
	if table.Len() != 1 {
		t.Errorf("rows = %d, expected 1 from offset-0 fallback", table.Len())
	}
}

func TestEmptySource(t *testing.T) {
	cfg := DefaultConfig()
	wb := workbook(3, row("N° commande", "Libellé"))

	for _, src := range models.Sources {
		// Envoi BDC and Workflow read from the top, so the junk rows form a table.
		if src == models.SourceEnvoiBDC || src == models.SourceWorkflow {
			continue
		}
		table, warnings := Process(src, wb, cfg)
		if !table.Empty() {
			t.Errorf("%s: expected empty table", src)
		}
		if !hasWarning(warnings, models.WarnEmptySource) {
			t.Errorf("%s: expected empty_source warning, got %v", src, warnings)
		}
	}

	table, warnings := Process(models.SourceCommandes, nil, cfg)
	if !table.Empty() || !hasWarning(warnings, models.WarnEmptySource) {
		t.Error("nil workbook should yield an empty table and a warning")
	}
}
