// Package main provides the CLI entry point for bdcrecon.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ukaji3/bdcrecon-go/internal/config"
	"github.com/ukaji3/bdcrecon-go/internal/logging"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/engine"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/models"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/output"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/parser"
)

// cliOptions holds the parsed flags of one invocation.
type cliOptions struct {
	inputs     map[models.Source]*string
	outputPath string
	jsonOut    bool
	jsonPath   string
	pretty     bool
	noCover    bool
	tablesDir  string
	configPath string
	logLevel   string
	logFormat  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{inputs: make(map[models.Source]*string)}

	rootCmd := &cobra.Command{
		Use:   "bdcrecon",
		Short: "Reconcile purchase order extracts into the Global table",
		Long: `bdcrecon reads the Commandes, Constatations, Factures, Envoi BDC and
Workflow extracts, cleans them and writes a workbook with one sheet per
source and the reconciled Global sheet.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	addSourceFlags(rootCmd.Flags(), opts)
	rootCmd.Flags().StringVarP(&opts.outputPath, "output", "o", config.DefaultOutputPath, "Output workbook path")
	rootCmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Also print the result as JSON")
	rootCmd.Flags().StringVar(&opts.jsonPath, "json-output", "", "JSON output file (default: stdout)")
	rootCmd.Flags().BoolVar(&opts.pretty, "pretty", false, "Pretty-print JSON output")
	rootCmd.Flags().BoolVar(&opts.noCover, "no-cover", false, "Omit the rules cover sheet")
	rootCmd.Flags().StringVar(&opts.tablesDir, "tables-dir", "", "Directory for per-source JSON files")

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "TOML configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format: text, json")

	rootCmd.AddCommand(newRulesCmd(), newConfigCmd(opts))
	return rootCmd
}

// addSourceFlags registers one path flag per source.
func addSourceFlags(fs *pflag.FlagSet, opts *cliOptions) {
	flags := []struct {
		src  models.Source
		name string
	}{
		{models.SourceCommandes, "commandes"},
		{models.SourceConstatations, "constatations"},
		{models.SourceFactures, "factures"},
		{models.SourceEnvoiBDC, "envoi"},
		{models.SourceWorkflow, "workflow"},
	}
	for _, f := range flags {
		path := new(string)
		opts.inputs[f.src] = path
		fs.StringVar(path, f.name, "", fmt.Sprintf("%s extract (.xlsx, .xls or .csv)", f.src.Label()))
	}
}

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print how each Global column is filled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), engine.RulesText)
			return err
		},
	}
}

func newConfigCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

// loadConfig reads the configuration file and applies the flags the user set.
func loadConfig(fs *pflag.FlagSet, opts *cliOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Logging.Format = opts.logFormat
	}
	if fs.Changed("output") {
		cfg.Output.Path = opts.outputPath
	}
	if fs.Changed("no-cover") {
		cfg.Output.CoverSheet = !opts.noCover
	}
	if fs.Changed("pretty") {
		cfg.Output.PrettyJSON = opts.pretty
	}
	return cfg, nil
}

func run(cmd *cobra.Command, opts *cliOptions) error {
	cfg, err := loadConfig(cmd.Flags(), opts)
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	var inputs bdcrecon.Inputs
	for src, path := range opts.inputs {
		if *path == "" {
			continue
		}
		in := parser.Input{Path: *path}
		switch src {
		case models.SourceCommandes:
			inputs.Commandes = in
		case models.SourceConstatations:
			inputs.Constatations = in
		case models.SourceFactures:
			inputs.Factures = in
		case models.SourceEnvoiBDC:
			inputs.EnvoiBDC = in
		case models.SourceWorkflow:
			inputs.Workflow = in
		}
	}

	result, err := bdcrecon.Run(cmd.Context(), inputs, cfg.Options(logger))
	if err != nil {
		logger.Error("Échec du traitement", "error", err)
		return err
	}

	if err := output.WriteWorkbook(result, cfg.Output.Path, cfg.WriteOptions()); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	logger.Info("Export : "+cfg.Output.Path, "global_rows", len(result.Global))
	area, ok, err := output.ReadPrintArea(cfg.Output.Path, output.GlobalSheetName)
	switch {
	case err != nil:
		return fmt.Errorf("failed to reopen workbook: %w", err)
	case !ok:
		return fmt.Errorf("workbook %s has no print area on %s", cfg.Output.Path, output.GlobalSheetName)
	}
	logger.Debug("Zone d'impression", "sheet", output.GlobalSheetName, "area", area.String())

	if opts.jsonOut {
		data, err := output.ToJSON(result, cfg.Output.PrettyJSON)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		if opts.jsonPath != "" {
			if err := os.WriteFile(opts.jsonPath, data, 0644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}
	}

	if opts.tablesDir != "" {
		if err := writeTableFiles(result, opts.tablesDir, cfg.Output.PrettyJSON); err != nil {
			return fmt.Errorf("failed to write table files: %w", err)
		}
	}
	return nil
}

// writeTableFiles writes one JSON file per processed source plus global.json.
func writeTableFiles(result *models.Result, dir string, pretty bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, src := range models.Sources {
		table := result.Table(src)
		if table == nil {
			continue
		}
		data, err := output.TableToJSON(table, pretty)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, string(src)+".json"), data, 0644); err != nil {
			return err
		}
	}

	data, err := output.GlobalToJSON(result.Global, pretty)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "global.json"), data, 0644)
}
