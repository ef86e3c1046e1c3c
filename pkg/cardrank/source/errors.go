package source

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrUnsupportedFormat indicates the input format cannot be read.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// ErrEmptyTable indicates the input has no header row.
var ErrEmptyTable = errors.New("table has no header row")

// ErrNoTables indicates a workbook or database holds no readable table.
var ErrNoTables = errors.New("no table found")

// SourceError represents an error while reading one input.
type SourceError struct {
	Path      string
	Component string // "csv", "xlsx", "sqlite", "watch"
	Err       error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("read error in %q (%s): %v", e.Path, e.Component, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError.
func NewSourceError(path, component string, err error) *SourceError {
	return &SourceError{
		Path:      path,
		Component: component,
		Err:       err,
	}
}
