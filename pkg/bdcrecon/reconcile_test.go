package bdcrecon

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/engine"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/models"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/parser"
)

// writeSource saves a workbook with junk rows above the given rows.
func writeSource(t *testing.T, dir, name string, junk int, rows ...[]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "A1", "Extraction du 01/03/2024")
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, junk+i+1)
		r := r
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save %s: %v", name, err)
	}
	return path
}

func quietOptions() Options {
	opts := DefaultOptions()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return opts
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	opts := quietOptions()

	commandes := writeSource(t, dir, "commandes.xlsx", opts.Sources.CommandesOffset,
		[]interface{}{"N° commande", "Libellé", "Fournisseur", "Montant HT", "Nature de dépense", "Statut", "Ind. Visa"},
		[]interface{}{"4500000001", "Papier", "ACME", 1000.0, "Fournitures", "Validé", "V1"},
		[]interface{}{"4500000002", "Billet", "ACME", 300.0, "Mission", "Validé", "V1"},
		[]interface{}{"4500000003", "Carte", "BNP PARIBAS - REGULARISATION CARTE ACHAT", 80.0, "Fournitures", "Validé", "V2"},
		[]interface{}{"4500000003", "Carte", "BNP PARIBAS - REGULARISATION CARTE ACHAT", 80.0, "Fournitures", "Validé", "V2"},
	)
	factures := writeSource(t, dir, "factures.xlsx", opts.Sources.FacturesOffset,
		[]interface{}{"N° commande", "Nature de dépense", "Montant HT", "Date de règlement"},
		[]interface{}{"4500000001", "FO", "250,50", "01/03/2024"},
		[]interface{}{"4500000001", "FO", 49.5, "05/03/2024"},
	)
	envoi := writeSource(t, dir, "envoi.xlsx", 0,
		[]interface{}{"BDC", "Date", "Agent"},
		[]interface{}{"4500000001", "04/03/2024 09:15", "Dupont"},
	)

	result, err := Run(context.Background(), Inputs{
		Commandes: parser.Input{Path: commandes},
		Factures:  parser.Input{Path: factures},
		EnvoiBDC:  parser.Input{Path: envoi},
	}, opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.RunID == "" {
		t.Error("expected a run id")
	}
	if len(result.Tables) != 3 {
		t.Errorf("tables = %d, expected 3", len(result.Tables))
	}
	if result.Table(models.SourceWorkflow) != nil {
		t.Error("workflow was not supplied")
	}
	if n := result.Table(models.SourceCommandes).Len(); n != 3 {
		t.Errorf("commandes rows = %d, expected 3 after the Mission filter", n)
	}

	if len(result.Global) != 2 {
		t.Fatalf("global rows = %d, expected 2", len(result.Global))
	}
	first := result.Global[0]
	if first.BDC != "4500000001" {
		t.Errorf("BDC = %q", first.BDC)
	}
	if first.Solde.StringFixed(2) != "700.00" {
		t.Errorf("Solde = %s, expected 700.00", first.Solde)
	}
	if first.Paye.String() != "2 paiements" {
		t.Errorf("Paye = %q, expected 2 paiements", first.Paye)
	}
	if first.Envoye != "04/03/2024 Dupont" {
		t.Errorf("Envoye = %q", first.Envoye)
	}
	if first.SF.String() != engine.SFUnknown {
		t.Errorf("SF = %q", first.SF)
	}
	if result.Global[1].SF.String() != engine.SFRegulCA {
		t.Errorf("SF = %q, expected %q", result.Global[1].SF, engine.SFRegulCA)
	}
}

func TestRunFromStreams(t *testing.T) {
	csv := "Commande;Date envoi;Agent\n4500000001;01/03/2024;Dupont\n"
	result, err := Run(context.Background(), Inputs{
		EnvoiBDC: parser.Input{Reader: strings.NewReader(csv), Name: "envoi.csv"},
	}, quietOptions())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Table(models.SourceEnvoiBDC).Len() != 1 {
		t.Errorf("expected 1 envoi row")
	}
	if result.Global == nil || len(result.Global) != 0 {
		t.Errorf("expected an empty Global without Commandes, got %v", result.Global)
	}
}

func TestRunWarnings(t *testing.T) {
	dir := t.TempDir()
	opts := quietOptions()

	commandes := writeSource(t, dir, "commandes.xlsx", 0,
		[]interface{}{"No Commande", "Objet"},
		[]interface{}{"4500000001", "Papier"},
	)
	workflow := writeSource(t, dir, "workflow.xlsx", 0,
		[]interface{}{"N° commande", "Date"},
		[]interface{}{"4500000001", "01/03/2024"},
	)
	opts.Sources.CommandesOffset = 0

	var logs bytes.Buffer
	opts.Logger = slog.New(slog.NewTextHandler(&logs, nil))

	result, err := Run(context.Background(), Inputs{
		Commandes: parser.Input{Path: commandes},
		Workflow:  parser.Input{Path: workflow},
	}, opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	kinds := make(map[models.WarningKind]int)
	for _, w := range result.Warnings {
		kinds[w.Kind]++
	}
	if kinds[models.WarnMissingColumn] == 0 || kinds[models.WarnMissingMarker] != 1 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
	if len(result.Global) != 1 || result.Global[0].Workflow.String() != "01/03/2024" {
		t.Errorf("unexpected global: %+v", result.Global)
	}
	if !strings.Contains(logs.String(), "Lecture/Nettoyage : Commandes") {
		t.Errorf("missing progress log, got:\n%s", logs.String())
	}
	if !strings.Contains(logs.String(), "level=WARN") {
		t.Error("warnings should be logged")
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.xlsx")
	if err := os.WriteFile(corrupt, []byte("not a workbook"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tests := []struct {
		name     string
		inputs   Inputs
		expected error
	}{
		{"no input", Inputs{}, ErrNoInput},
		{"missing file", Inputs{Factures: parser.Input{Path: filepath.Join(dir, "absent.xlsx")}}, ErrFileNotFound},
		{"corrupt file", Inputs{Commandes: parser.Input{Path: corrupt}}, ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Run(context.Background(), tt.inputs, quietOptions())
			if !errors.Is(err, tt.expected) {
				t.Fatalf("Run error = %v, expected %v", err, tt.expected)
			}
			if result != nil {
				t.Error("no result expected on a fatal error")
			}
		})
	}

	_, err := Run(context.Background(), Inputs{Commandes: parser.Input{Path: corrupt}}, quietOptions())
	var srcErr *SourceError
	if !errors.As(err, &srcErr) || srcErr.Source != models.SourceCommandes || srcErr.Component != "load" {
		t.Errorf("expected a SourceError for commandes, got %v", err)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	csv := "Commande;Date envoi;Agent\n4500000001;01/03/2024;Dupont\n"
	_, err := Run(ctx, Inputs{EnvoiBDC: parser.Input{Reader: strings.NewReader(csv), Name: "envoi.csv"}}, quietOptions())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
