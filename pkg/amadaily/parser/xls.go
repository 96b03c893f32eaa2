package parser

import (
	"fmt"
	"path/filepath"

	"github.com/extrame/xls"
	"github.com/rbastia/amadaily/pkg/amadaily/models"
)

// loadXLS reads one sheet of a legacy BIFF workbook. Cells arrive as
// displayed text, so dates resolve through their text form.
func loadXLS(path, sheetName string) (grid *models.Grid, err error) {
	defer func() {
		if r := recover(); r != nil {
			grid, err = nil, fmt.Errorf("read %s: malformed workbook: %v", filepath.Base(path), r)
		}
	}()

	wb, err := openXLS(path)
	if err != nil {
		return nil, err
	}

	idx, err := pickSheet(xlsSheetNames(wb), sheetName, path)
	if err != nil {
		return nil, err
	}
	return gridFromText(xlsRows(wb.GetSheet(idx))), nil
}

// openXLS opens a BIFF workbook. The reader panics on some malformed
// files; those surface as errors.
func openXLS(path string) (wb *xls.WorkBook, err error) {
	defer func() {
		if r := recover(); r != nil {
			wb, err = nil, fmt.Errorf("open %s: malformed workbook: %v", filepath.Base(path), r)
		}
	}()
	wb, err = xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	return wb, nil
}

func xlsSheetNames(wb *xls.WorkBook) []string {
	names := make([]string, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		if sheet := wb.GetSheet(i); sheet != nil {
			names = append(names, sheet.Name)
		}
	}
	return names
}

func xlsRows(sheet *xls.WorkSheet) [][]string {
	if sheet == nil {
		return nil
	}
	rows := make([][]string, int(sheet.MaxRow)+1)
	for r := range rows {
		row := sheet.Row(r)
		if row == nil {
			continue
		}
		cells := make([]string, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			cells[c] = row.Col(c)
		}
		rows[r] = cells
	}
	return rows
}
