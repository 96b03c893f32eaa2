package amadaily

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates an input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ExtractionError represents a failure in one stage for one sheet.
type ExtractionError struct {
	SheetName string
	Component string // "timesheet", "jobsheet", "reconcile", "output"
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s error in sheet %q: %v", e.Component, e.SheetName, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(sheetName, component string, err error) *ExtractionError {
	return &ExtractionError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
