package testutil

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Sheet is a named sheet's rows for fixture workbooks.
type Sheet struct {
	Name string
	Rows [][]interface{}
}

// TimesheetRows is a one-week timesheet with two day blocks:
// Monday 9-8 (J Smith on ARA3A for 8h) and Tuesday 9-9.
func TimesheetRows() [][]interface{} {
	return [][]interface{}{
		{"Week of 9-7-25", "Monday 9-8", nil, nil, nil, "Tuesday 9-9"},
		{"Employee", "Trk #", "Job", "H", "D", "Trk #", "Job", "H", "D"},
		{"J Smith", "100", "ARA3A", 8, nil, "101", "Smith Barn", "8 hrs", 1},
		{"A Jones", nil, "Column8", 8, nil, "102", "Smith Barn ", 6, nil},
		{"B Brown", "103", "ARA3A", 0, nil, nil, nil, nil, nil},
		{"Total", nil, nil, 16, nil, nil, nil, 14, 1},
	}
}

// JobSheetRows is the job sheet matching TimesheetRows.
func JobSheetRows() [][]interface{} {
	return [][]interface{}{
		{nil, "Monday", "9/8/2025", "Tuesday", "9/9/2025"},
		{"Job & Truck", "Ara3A,", "100", "Smith Barn", "125126"},
		{"Description", "pour footings", nil, "framing", nil},
		{"Concrete & Yds", "3000 psi", 10, nil, nil},
		{"Stone & Lds", "57 stone", 2, nil, nil},
		{"Job & Truck", nil, nil, "Oak Lane", "200"},
		{"Description", nil, nil, "grading", nil},
	}
}

// WriteWorkbook saves sheets, in order, to a new workbook under t.TempDir().
func WriteWorkbook(t testing.TB, name string, sheets ...Sheet) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			t.Fatalf("new sheet %s: %v", sheet.Name, err)
		}
		for r := range sheet.Rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+1)
			if err := f.SetSheetRow(sheet.Name, cell, &sheet.Rows[r]); err != nil {
				t.Fatalf("write %s row %d: %v", sheet.Name, r+1, err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

// CombinedWorkbook writes a workbook holding both standard sheets.
func CombinedWorkbook(t testing.TB) string {
	t.Helper()
	return WriteWorkbook(t, "Timesheet 9-7-25 thru 9-13-25.xlsx",
		Sheet{Name: "Timesheet", Rows: TimesheetRows()},
		Sheet{Name: "New Formula Job Sheet", Rows: JobSheetRows()},
	)
}
