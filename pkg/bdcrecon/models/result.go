package models

import "fmt"

// WarningKind classifies a non-fatal condition met during a run.
type WarningKind string

const (
	// WarnMissingColumn: a canonical column could not be resolved.
	WarnMissingColumn WarningKind = "missing_column"
	// WarnMissingMarker: the workflow marker text was not found.
	WarnMissingMarker WarningKind = "missing_marker"
	// WarnEmptySource: extraction found no header row.
	WarnEmptySource WarningKind = "empty_source"
	// WarnUnparsableValue: an amount or date could not be coerced.
	WarnUnparsableValue WarningKind = "unparsable_value"
)

// Warning is a non-fatal condition. It never aborts a run.
type Warning struct {
	// Kind classifies the warning.
	Kind WarningKind `json:"kind"`
	// Source is the extract concerned, empty for engine-level warnings.
	Source Source `json:"source,omitempty"`
	// Detail is a human readable description.
	Detail string `json:"detail"`
}

func (w Warning) String() string {
	if w.Source == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Detail)
	}
	return fmt.Sprintf("%s [%s]: %s", w.Kind, w.Source, w.Detail)
}

// Result is everything a run produces for the presentation layer.
type Result struct {
	// RunID identifies the run in logs.
	RunID string `json:"run_id"`
	// Tables holds one processed table per supplied source.
	Tables map[Source]*ProcessedTable `json:"tables"`
	// Global holds the deduplicated derived rows in Commandes order.
	Global []GlobalRow `json:"global"`
	// Warnings lists every non-fatal condition met.
	Warnings []Warning `json:"warnings,omitempty"`
}

// Table returns the processed table of a source, or nil when it was not supplied.
func (r *Result) Table(s Source) *ProcessedTable {
	if r == nil || r.Tables == nil {
		return nil
	}
	return r.Tables[s]
}
