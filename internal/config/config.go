// Package config loads the optional TOML configuration of the command line
// tool.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/output"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/sources"
)

// Environment variables overriding the file.
const (
	EnvLogLevel  = "BDCRECON_LOG_LEVEL"
	EnvLogFormat = "BDCRECON_LOG_FORMAT"
)

// DefaultOutputPath is the workbook written when no path is configured.
const DefaultOutputPath = "export_clean.xlsx"

// Config is the application configuration.
type Config struct {
	Sources SourcesConfig `toml:"sources"`
	Filters FiltersConfig `toml:"filters"`
	Output  OutputConfig  `toml:"output"`
	Logging LoggingConfig `toml:"logging"`
}

// SourcesConfig locates the table inside each extract.
type SourcesConfig struct {
	CommandesOffset     int    `toml:"commandes_offset"`
	ConstatationsOffset int    `toml:"constatations_offset"`
	FacturesOffset      int    `toml:"factures_offset"`
	EnvoiOffset         int    `toml:"envoi_offset"`
	WorkflowMarker      string `toml:"workflow_marker"`
}

// FiltersConfig lists the excluded rows.
type FiltersConfig struct {
	ExcludedSupplier       string `toml:"excluded_supplier"`
	ExcludedCommandeNature string `toml:"excluded_commande_nature"`
	ExcludedFactureNature  string `toml:"excluded_facture_nature"`
}

// OutputConfig drives the exported files.
type OutputConfig struct {
	Path       string `toml:"path"`
	CoverSheet bool   `toml:"cover_sheet"`
	PrettyJSON bool   `toml:"pretty_json"`
}

// LoggingConfig selects the log level and handler.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns the configuration used without a file.
func DefaultConfig() *Config {
	src := sources.DefaultConfig()
	return &Config{
		Sources: SourcesConfig{
			CommandesOffset:     src.CommandesOffset,
			ConstatationsOffset: src.ConstatationsOffset,
			FacturesOffset:      src.FacturesOffset,
			EnvoiOffset:         src.EnvoiOffset,
			WorkflowMarker:      src.WorkflowMarker,
		},
		Filters: FiltersConfig{
			ExcludedSupplier:       src.ExcludedSupplier,
			ExcludedCommandeNature: src.ExcludedCommandeNature,
			ExcludedFactureNature:  src.ExcludedFactureNature,
		},
		Output: OutputConfig{
			Path:       DefaultOutputPath,
			CoverSheet: output.DefaultWriteOptions().CoverSheet,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the TOML file at path over the defaults, then applies the
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects layouts that cannot locate a table.
func (c *Config) Validate() error {
	offsets := map[string]int{
		"commandes_offset":     c.Sources.CommandesOffset,
		"constatations_offset": c.Sources.ConstatationsOffset,
		"factures_offset":      c.Sources.FacturesOffset,
		"envoi_offset":         c.Sources.EnvoiOffset,
	}
	for name, v := range offsets {
		if v < 0 {
			return fmt.Errorf("sources.%s must not be negative, got %d", name, v)
		}
	}
	if c.Sources.WorkflowMarker == "" {
		return fmt.Errorf("sources.workflow_marker must not be empty")
	}
	return nil
}

// Marshal renders the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Options maps the configuration onto run options.
func (c *Config) Options(logger *slog.Logger) bdcrecon.Options {
	return bdcrecon.Options{
		Sources: sources.Config{
			CommandesOffset:        c.Sources.CommandesOffset,
			ConstatationsOffset:    c.Sources.ConstatationsOffset,
			FacturesOffset:         c.Sources.FacturesOffset,
			EnvoiOffset:            c.Sources.EnvoiOffset,
			WorkflowMarker:         c.Sources.WorkflowMarker,
			ExcludedSupplier:       c.Filters.ExcludedSupplier,
			ExcludedCommandeNature: c.Filters.ExcludedCommandeNature,
			ExcludedFactureNature:  c.Filters.ExcludedFactureNature,
		},
		Logger: logger,
	}
}

// WriteOptions maps the configuration onto workbook export options.
func (c *Config) WriteOptions() output.WriteOptions {
	return output.WriteOptions{CoverSheet: c.Output.CoverSheet}
}
