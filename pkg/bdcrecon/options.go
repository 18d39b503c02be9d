// Package bdcrecon reconciles purchase order extracts (Commandes,
// Constatations, Factures, Envoi BDC, Workflow) into the Global table.
package bdcrecon

import (
	"log/slog"

	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/models"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/parser"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/sources"
)

// Inputs holds the five optional source files. A zero Input is an absent source.
type Inputs struct {
	Commandes     parser.Input
	Constatations parser.Input
	Factures      parser.Input
	EnvoiBDC      parser.Input
	Workflow      parser.Input
}

// For returns the input of a source.
func (in Inputs) For(src models.Source) parser.Input {
	switch src {
	case models.SourceCommandes:
		return in.Commandes
	case models.SourceConstatations:
		return in.Constatations
	case models.SourceFactures:
		return in.Factures
	case models.SourceEnvoiBDC:
		return in.EnvoiBDC
	case models.SourceWorkflow:
		return in.Workflow
	}
	return parser.Input{}
}

// Empty reports whether no source was supplied.
func (in Inputs) Empty() bool {
	for _, src := range models.Sources {
		if !in.For(src).IsZero() {
			return false
		}
	}
	return true
}

// Options configures a run.
type Options struct {
	// Sources holds skip offsets, the workflow marker and filter values.
	Sources sources.Config
	// Logger receives progress and warnings. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultOptions returns the options matching the usual exports.
func DefaultOptions() Options {
	return Options{
		Sources: sources.DefaultConfig(),
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
