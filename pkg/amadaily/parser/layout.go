package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/rbastia/amadaily/pkg/amadaily/models"
)

// LabelMatcher tests a lower-cased, trimmed header label.
type LabelMatcher func(label string) bool

// LayoutConfig parameterizes the header and day-block scan.
type LayoutConfig struct {
	// Sheet names the source in errors.
	Sheet string
	// HeaderName and IsHeader locate the header row.
	HeaderName string
	IsHeader   LabelMatcher
	// BlockName and IsBlockStart locate day-block start columns on the header row.
	BlockName    string
	IsBlockStart LabelMatcher
	// BlockStartFallback is tried when IsBlockStart matches nothing.
	BlockStartFallback LabelMatcher
	// MaxSearchRows caps how many top rows are scanned for the header.
	MaxSearchRows int
	// BlockWidth is the maximum number of columns in one day block.
	BlockWidth int
}

// TimesheetLayout returns the layout of the weekly labor timesheet:
// an "Employee" header row with one "Trk #" column per day.
func TimesheetLayout(sheet string) LayoutConfig {
	return LayoutConfig{
		Sheet:        sheet,
		HeaderName:   `header row ("Employee")`,
		IsHeader:     HasPrefix("employee"),
		BlockName:    `day block start ("Trk")`,
		IsBlockStart: HasPrefix("trk"),
		BlockStartFallback: func(label string) bool {
			return strings.Contains(label, "trk")
		},
		MaxSearchRows: 10,
		BlockWidth:    5,
	}
}

// HasPrefix matches labels starting with prefix.
func HasPrefix(prefix string) LabelMatcher {
	return func(label string) bool { return strings.HasPrefix(label, prefix) }
}

// DayBlock is one calendar day's sub-table within the grid.
type DayBlock struct {
	// Start is the block-start column.
	Start int
	// Width is the number of columns in the block, truncated at the next block start.
	Width int
	// Date is the block's day, zero when it could not be resolved.
	Date time.Time
}

// Columns returns the column indexes covered by the block.
func (b DayBlock) Columns() []int {
	cols := make([]int, b.Width)
	for i := range cols {
		cols[i] = b.Start + i
	}
	return cols
}

// Layout is the located structure of a block-repeating sheet.
type Layout struct {
	HeaderRow    int
	Blocks       []DayBlock
	FirstDataRow int
}

// BlockStarts returns the block-start columns in left-to-right order.
func (l *Layout) BlockStarts() []int {
	starts := make([]int, len(l.Blocks))
	for i, b := range l.Blocks {
		starts[i] = b.Start
	}
	return starts
}

// LocateLayout finds the header row, day-block starts and first data row.
// The first header-like row wins.
func LocateLayout(g *models.Grid, cfg LayoutConfig) (*Layout, error) {
	limit := cfg.MaxSearchRows
	if limit <= 0 || limit > g.Rows() {
		limit = g.Rows()
	}

	header := -1
	for r := 0; r < limit && header < 0; r++ {
		for c := 0; c < g.Cols(); c++ {
			if label := g.At(r, c).Label(); label != "" && cfg.IsHeader(label) {
				header = r
				break
			}
		}
	}
	if header < 0 {
		return nil, &LayoutError{
			Sheet:  cfg.Sheet,
			Anchor: cfg.HeaderName,
			Found:  fmt.Sprintf("no matching cell in the first %d rows", limit),
		}
	}

	starts := matchingColumns(g, header, cfg.IsBlockStart)
	if len(starts) == 0 && cfg.BlockStartFallback != nil {
		starts = matchingColumns(g, header, cfg.BlockStartFallback)
	}
	if len(starts) == 0 {
		return nil, &LayoutError{
			Sheet:  cfg.Sheet,
			Anchor: cfg.BlockName,
			Found:  fmt.Sprintf("header row %d has no block-start labels", header+1),
		}
	}

	first := firstDataRow(g, header)
	if first < 0 {
		return nil, &LayoutError{
			Sheet:  cfg.Sheet,
			Anchor: "first data row",
			Found:  fmt.Sprintf("no rows below header row %d", header+1),
		}
	}

	return &Layout{
		HeaderRow:    header,
		Blocks:       blocksFor(starts, cfg.BlockWidth, g.Cols()),
		FirstDataRow: first,
	}, nil
}

func matchingColumns(g *models.Grid, row int, match LabelMatcher) []int {
	var cols []int
	for c := 0; c < g.Cols(); c++ {
		if label := g.At(row, c).Label(); label != "" && match(label) {
			cols = append(cols, c)
		}
	}
	return cols
}

// blocksFor sizes each block, truncating at the next block start and the grid edge.
func blocksFor(starts []int, width, cols int) []DayBlock {
	if width <= 0 {
		width = 1
	}
	blocks := make([]DayBlock, len(starts))
	for i, start := range starts {
		w := width
		if i+1 < len(starts) && starts[i+1]-start < w {
			w = starts[i+1] - start
		}
		if start+w > cols {
			w = cols - start
		}
		blocks[i] = DayBlock{Start: start, Width: w}
	}
	return blocks
}

// firstDataRow returns the first row below the header whose leading cell
// looks like a name rather than a label or total. When none qualifies it
// falls back to three rows below the header, if that row exists.
func firstDataRow(g *models.Grid, header int) int {
	for r := header + 1; r < g.Rows(); r++ {
		s := g.At(r, 0).String()
		label := strings.ToLower(s)
		if len([]rune(s)) > 1 && !strings.HasPrefix(label, "column") && !strings.HasPrefix(label, "total") {
			return r
		}
	}
	if fallback := header + 3; fallback < g.Rows() {
		return fallback
	}
	return -1
}

// neighborOffsets are tried when a block's own date cell does not resolve.
var neighborOffsets = []int{-1, 1, 2, -2}

// resolveBlockDates reads each block's date from the row above the header.
func resolveBlockDates(g *models.Grid, layout *Layout, defaultYear int) {
	row := layout.HeaderRow - 1
	if row < 0 {
		return
	}
	for i := range layout.Blocks {
		start := layout.Blocks[i].Start
		if d, ok := ResolveDate(g.At(row, start), defaultYear); ok {
			layout.Blocks[i].Date = d
			continue
		}
		for _, off := range neighborOffsets {
			c := start + off
			if c < 0 || c >= g.Cols() {
				continue
			}
			if d, ok := ResolveDate(g.At(row, c), defaultYear); ok {
				layout.Blocks[i].Date = d
				break
			}
		}
	}
}
