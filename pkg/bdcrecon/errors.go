package bdcrecon

import (
	"errors"
	"fmt"

	"github.com/ukaji3/bdcrecon-go/pkg/bdcrecon/models"
)

// ErrFileNotFound indicates an input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates an input is not a readable xlsx, xls or csv file.
var ErrInvalidFormat = errors.New("invalid spreadsheet format")

// ErrNoInput indicates that no source at all was supplied.
var ErrNoInput = errors.New("no input file supplied")

// SourceError represents a fatal error while reading one source.
type SourceError struct {
	Source    models.Source
	Component string // "open", "load"
	Err       error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s (%s): %v", e.Source.Label(), e.Component, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError.
func NewSourceError(source models.Source, component string, err error) *SourceError {
	return &SourceError{
		Source:    source,
		Component: component,
		Err:       err,
	}
}
