package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rbastia/amadaily/pkg/amadaily/models"
	"github.com/xuri/excelize/v2"
)

// LoadGrid loads one sheet of a workbook, or a delimited export, as a Grid.
// sheetName is ignored for delimited files; an empty name selects the first sheet.
// A single-sheet workbook is read regardless of sheetName.
func LoadGrid(path, sheetName string) (*models.Grid, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadDelimited(path, ',')
	case ".tsv", ".txt":
		return loadDelimited(path, '\t')
	case ".xls":
		return loadXLS(path, sheetName)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	idx, err := pickSheet(sheets, sheetName, path)
	if err != nil {
		return nil, err
	}
	return LoadWorkbookGrid(f, sheets[idx])
}

// SheetList returns the sheet names of a workbook in order.
func SheetList(path string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		wb, err := openXLS(path)
		if err != nil {
			return nil, err
		}
		return xlsSheetNames(wb), nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// pickSheet resolves sheetName against a workbook's sheets: empty selects
// the first sheet and a single-sheet workbook always resolves to it.
func pickSheet(sheets []string, sheetName, path string) (int, error) {
	if len(sheets) == 0 {
		return -1, fmt.Errorf("workbook %s has no sheets", filepath.Base(path))
	}
	if sheetName == "" || len(sheets) == 1 {
		return 0, nil
	}
	for i, name := range sheets {
		if name == sheetName {
			return i, nil
		}
	}
	return -1, fmt.Errorf("sheet %q not found", sheetName)
}

// gridFromText builds a grid from displayed cell text.
func gridFromText(rows [][]string) *models.Grid {
	cells := make([][]models.Cell, len(rows))
	for i, row := range rows {
		cells[i] = make([]models.Cell, len(row))
		for j, v := range row {
			cells[i][j] = parseValue(v)
		}
	}
	nRows, nCols := findDataExtent(cells)
	return models.NewGrid(clipRows(cells, nRows, nCols))
}

func loadDelimited(path string, comma rune) (*models.Grid, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return LoadCSVGrid(file, comma)
}

// LoadWorkbookGrid extracts a sheet into a Grid.
// Numeric cells whose number format is a date format become time cells.
func LoadWorkbookGrid(f *excelize.File, sheetName string) (*models.Grid, error) {
	idx, err := f.GetSheetIndex(sheetName)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheetName)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	dates := newDateStyles(f)
	cells := make([][]models.Cell, len(rows))
	for rowIdx, row := range rows {
		cells[rowIdx] = make([]models.Cell, len(row))
		for colIdx, cellValue := range row {
			if strings.TrimSpace(cellValue) == "" {
				continue
			}
			rawValue := cellValue
			if rowIdx < len(raw) && colIdx < len(raw[rowIdx]) {
				rawValue = raw[rowIdx][colIdx]
			}
			cells[rowIdx][colIdx] = dates.cell(sheetName, rowIdx, colIdx, cellValue, rawValue)
		}
	}

	nRows, nCols := findDataExtent(cells)
	return models.NewGrid(clipRows(cells, nRows, nCols)), nil
}

// dateStyles caches which style ids carry a date number format.
type dateStyles struct {
	f     *excelize.File
	known map[int]bool
}

func newDateStyles(f *excelize.File) *dateStyles {
	return &dateStyles{f: f, known: make(map[int]bool)}
}

func (d *dateStyles) cell(sheetName string, rowIdx, colIdx int, formatted, raw string) models.Cell {
	if formatted != raw {
		if serial, err := strconv.ParseFloat(raw, 64); err == nil && d.isDate(sheetName, rowIdx, colIdx) {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return models.Cell{Kind: models.CellTime, Time: t, Text: formatted}
			}
		}
	}
	return parseValue(formatted)
}

func (d *dateStyles) isDate(sheetName string, rowIdx, colIdx int) bool {
	cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
	if err != nil {
		return false
	}
	styleID, err := d.f.GetCellStyle(sheetName, cellName)
	if err != nil {
		return false
	}
	if v, ok := d.known[styleID]; ok {
		return v
	}
	isDate := false
	if style, err := d.f.GetStyle(styleID); err == nil && style != nil {
		isDate = isDateNumFmt(style.NumFmt)
		if style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		}
	}
	d.known[styleID] = isDate
	return isDate
}

// isDateNumFmt reports whether a built-in number format id renders a date.
func isDateNumFmt(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 27 && id <= 36) || (id >= 45 && id <= 47) || (id >= 50 && id <= 58)
}

// isDateFormatCode reports whether a custom format code contains date tokens
// outside quoted literals and bracketed sections.
func isDateFormatCode(code string) bool {
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		case r == 'd' || r == 'y':
			return true
		}
	}
	return false
}

// parseValue attempts to parse a string value as a number.
// Returns a number cell for numeric text, or a text cell otherwise.
func parseValue(s string) models.Cell {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return models.Cell{}
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return models.Cell{Kind: models.CellNumber, Number: f, Text: trimmed}
	}
	return models.Cell{Kind: models.CellText, Text: s}
}
