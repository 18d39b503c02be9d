package bdcrecon

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/engine"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/models"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/parser"
	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/sources"
)

// Run reads every supplied source in turn, processes it and derives the
// Global table. Missing columns, markers and unparsable values are reported
// as warnings; an unreadable file aborts the run.
func Run(ctx context.Context, in Inputs, opts Options) (*models.Result, error) {
	if in.Empty() {
		return nil, ErrNoInput
	}

	runID := uuid.New().String()
	log := opts.logger().With("run_id", runID)

	result := &models.Result{
		RunID:  runID,
		Tables: make(map[models.Source]*models.ProcessedTable),
	}

	for _, src := range models.Sources {
		input := in.For(src)
		if input.IsZero() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log.Info("Lecture/Nettoyage : "+src.Label(), "source", src, "file", input.DisplayName())
		wb, err := load(src, input)
		if err != nil {
			return nil, err
		}

		table, warnings := sources.Process(src, wb, opts.Sources)
		for _, w := range warnings {
			log.Warn(w.Detail, "kind", w.Kind, "source", w.Source)
		}
		result.Warnings = append(result.Warnings, warnings...)
		result.Tables[src] = table
		log.Info("source processed", "source", src, "rows", table.Len(), "missing", len(table.Missing))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Info("Construction : Global")
	global, warnings := engine.Reconcile(engine.Tables(result.Tables))
	for _, w := range warnings {
		log.Warn(w.Detail, "kind", w.Kind, "source", w.Source)
	}
	result.Global = global
	result.Warnings = append(result.Warnings, warnings...)
	log.Info("Global built", "rows", len(global), "warnings", len(result.Warnings))

	return result, nil
}

// load opens one source file.
func load(src models.Source, input parser.Input) (*models.Workbook, error) {
	if input.Reader == nil {
		if _, err := os.Stat(input.Path); os.IsNotExist(err) {
			return nil, NewSourceError(src, "open", fmt.Errorf("%w: %s", ErrFileNotFound, input.Path))
		}
	}

	wb, err := parser.Load(input)
	if err != nil {
		return nil, NewSourceError(src, "load", fmt.Errorf("%w: %s: %w", ErrInvalidFormat, input.DisplayName(), err))
	}
	return wb, nil
}
