package output

import "fmt"

// WriteContentionError reports that the destination was locked and the
// report was written to Alternate instead.
type WriteContentionError struct {
	Path      string
	Alternate string
	Err       error
}

func (e *WriteContentionError) Error() string {
	return fmt.Sprintf("destination %s is locked (%v); wrote %s instead", e.Path, e.Err, e.Alternate)
}

func (e *WriteContentionError) Unwrap() error {
	return e.Err
}
