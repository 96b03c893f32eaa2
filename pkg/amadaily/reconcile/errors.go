package reconcile

import (
	"fmt"
	"strings"
)

// SchemaError indicates an input table lacks required columns.
type SchemaError struct {
	Table   string
	Missing []string
	Found   []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table %q is missing required column(s) %s (found: %s)",
		e.Table, strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}
