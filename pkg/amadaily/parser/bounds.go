package parser

import "github.com/rbastia/amadaily/pkg/amadaily/models"

// findDataExtent returns the row and column counts needed to hold every
// non-empty cell. Leading blank rows and columns are kept so coordinates
// stay aligned with the source sheet.
func findDataExtent(rows [][]models.Cell) (nRows, nCols int) {
	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell.IsEmpty() {
				continue
			}
			if rowIdx+1 > nRows {
				nRows = rowIdx + 1
			}
			if colIdx+1 > nCols {
				nCols = colIdx + 1
			}
		}
	}
	return
}

// clipRows drops trailing rows and columns outside the data extent.
func clipRows(rows [][]models.Cell, nRows, nCols int) [][]models.Cell {
	if nRows < len(rows) {
		rows = rows[:nRows]
	}
	for i, row := range rows {
		if len(row) > nCols {
			rows[i] = row[:nCols]
		}
	}
	return rows
}
