// Package models defines data structures for timesheet and job sheet reconciliation.
package models

import (
	"strconv"
	"strings"
	"time"
)

// CellKind identifies the type of value held by a Cell.
type CellKind int

const (
	// CellEmpty is a blank cell.
	CellEmpty CellKind = iota
	// CellText holds free text.
	CellText
	// CellNumber holds a numeric value.
	CellNumber
	// CellTime holds a date or timestamp.
	CellTime
)

// Cell is a single untyped spreadsheet value.
type Cell struct {
	// Kind is the detected value type.
	Kind CellKind
	// Text is the displayed text of the cell (as formatted by the source).
	Text string
	// Number is set when Kind is CellNumber.
	Number float64
	// Time is set when Kind is CellTime.
	Time time.Time
}

// TextCell returns a text cell, or an empty cell for blank input.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

// NumberCell returns a numeric cell displayed with the shortest representation.
func NumberCell(n float64) Cell {
	return Cell{Kind: CellNumber, Number: n, Text: strconv.FormatFloat(n, 'f', -1, 64)}
}

// TimeCell returns a date cell.
func TimeCell(t time.Time) Cell {
	return Cell{Kind: CellTime, Time: t, Text: t.Format("2006-01-02")}
}

// IsEmpty reports whether the cell carries no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty || (c.Kind == CellText && strings.TrimSpace(c.Text) == "")
}

// String returns the trimmed display text of the cell.
func (c Cell) String() string {
	switch c.Kind {
	case CellEmpty:
		return ""
	case CellNumber:
		if t := strings.TrimSpace(c.Text); t != "" {
			return t
		}
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellTime:
		if t := strings.TrimSpace(c.Text); t != "" {
			return t
		}
		return c.Time.Format("2006-01-02")
	default:
		return strings.TrimSpace(c.Text)
	}
}

// Label returns the lower-cased, trimmed text used for header matching.
func (c Cell) Label() string {
	return strings.ToLower(c.String())
}

// Grid is an immutable, rectangular, 0-indexed table of cells.
// No header row is assumed.
type Grid struct {
	cells [][]Cell
	cols  int
}

// NewGrid copies rows into a rectangular grid padded to the widest row.
func NewGrid(rows [][]Cell) *Grid {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	cells := make([][]Cell, len(rows))
	for i, row := range rows {
		cells[i] = make([]Cell, cols)
		copy(cells[i], row)
	}
	return &Grid{cells: cells, cols: cols}
}

// NewTextGrid builds a grid from plain strings; blank strings become empty cells.
func NewTextGrid(rows [][]string) *Grid {
	cells := make([][]Cell, len(rows))
	for i, row := range rows {
		cells[i] = make([]Cell, len(row))
		for j, v := range row {
			cells[i][j] = TextCell(v)
		}
	}
	return NewGrid(cells)
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	if g == nil {
		return 0
	}
	return len(g.cells)
}

// Cols returns the number of columns.
func (g *Grid) Cols() int {
	if g == nil {
		return 0
	}
	return g.cols
}

// At returns the cell at (row, col). Out-of-range coordinates yield an empty cell.
func (g *Grid) At(row, col int) Cell {
	if g == nil || row < 0 || row >= len(g.cells) || col < 0 || col >= g.cols {
		return Cell{}
	}
	return g.cells[row][col]
}
