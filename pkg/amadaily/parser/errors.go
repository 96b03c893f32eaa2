package parser

import "fmt"

// LayoutError indicates a required structural anchor could not be located.
type LayoutError struct {
	Sheet  string
	Anchor string // e.g. "header row", "block start", "first data row"
	Found  string // what was seen instead
}

func (e *LayoutError) Error() string {
	sheet := e.Sheet
	if sheet == "" {
		sheet = "sheet"
	}
	if e.Found == "" {
		return fmt.Sprintf("layout error in %q: could not locate %s", sheet, e.Anchor)
	}
	return fmt.Sprintf("layout error in %q: could not locate %s (%s)", sheet, e.Anchor, e.Found)
}

// EmptyResultError indicates the layout was recognized but nothing was extracted.
type EmptyResultError struct {
	Sheet string
	What  string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no %s parsed from %q: layout may be ambiguous or unsupported", e.What, e.Sheet)
}
