// Package output serializes reports to workbooks and delimited text.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rbastia/amadaily/pkg/amadaily/models"
	"github.com/xuri/excelize/v2"
)

const (
	// AllRowsSheet holds every row when per-job sheets are disabled.
	AllRowsSheet = "All rows"
	// AllSheet holds every row alongside per-job sheets.
	AllSheet = "All"
)

// WriteOptions configures WriteReport.
type WriteOptions struct {
	// Dir is the destination directory; created if missing.
	Dir string
	// Base is the file stem without extension.
	Base string
	// PerSheet adds one sheet per distinct job plus an "All" sheet.
	PerSheet bool
	// WriteCSV also writes a .csv sidecar next to the workbook.
	WriteCSV bool
	// Now stamps alternate file names; time.Now when nil.
	Now    func() time.Time
	Logger *slog.Logger
}

// createFile opens a destination for writing. Replaced in tests.
var createFile = func(path string) (io.WriteCloser, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
}

// WriteReport writes the report workbook and returns the path actually used.
// If the destination is locked the report is written under a timestamped
// alternate name instead.
func WriteReport(r *models.Report, opts WriteOptions) (string, error) {
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return "", err
	}
	f, err := buildWorkbook(r, opts.PerSheet)
	if err != nil {
		return "", err
	}
	defer f.Close()

	path := filepath.Join(opts.Dir, opts.Base+".xlsx")
	err = save(path, f.Write)
	if isLocked(err) {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		alt := filepath.Join(opts.Dir, fmt.Sprintf("%s_%s.xlsx", opts.Base, now().Format("20060102_150405")))
		if altErr := save(alt, f.Write); altErr != nil {
			return "", fmt.Errorf("write %s: %w (retry at %s: %v)", path, err, alt, altErr)
		}
		if opts.Logger != nil {
			opts.Logger.Warn("destination locked, wrote alternate",
				"error", &WriteContentionError{Path: path, Alternate: alt, Err: err})
		}
		path, err = alt, nil
	}
	if err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	if opts.WriteCSV {
		csvPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".csv"
		if err := save(csvPath, func(w io.Writer, _ ...excelize.Options) error { return WriteCSV(w, r) }); err != nil {
			return "", fmt.Errorf("write %s: %w", csvPath, err)
		}
	}
	return path, nil
}

func save(path string, write func(io.Writer, ...excelize.Options) error) error {
	w, err := createFile(path)
	if err != nil {
		return err
	}
	if err := write(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// buildWorkbook lays out the report as one sheet, or as "All" plus one sheet
// per case-insensitively distinct job in row order.
func buildWorkbook(r *models.Report, perSheet bool) (*excelize.File, error) {
	f := excelize.NewFile()

	if !perSheet {
		if err := f.SetSheetName("Sheet1", AllRowsSheet); err != nil {
			return nil, err
		}
		return f, writeRows(f, AllRowsSheet, r.Columns, r.Rows)
	}

	labels := []string{AllSheet}
	groups := map[string][]models.ReportRow{}
	var order []string
	for _, row := range r.Rows {
		key := strings.ToLower(strings.TrimSpace(row.Job))
		if _, ok := groups[key]; !ok {
			order = append(order, key)
			label := strings.TrimSpace(row.Job)
			if label == "" {
				label = "Blank"
			}
			labels = append(labels, label)
		}
		groups[key] = append(groups[key], row)
	}

	names := SheetNames(labels)
	if err := f.SetSheetName("Sheet1", names[0]); err != nil {
		return nil, err
	}
	if err := writeRows(f, names[0], r.Columns, r.Rows); err != nil {
		return nil, err
	}
	for i, key := range order {
		name := names[i+1]
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
		if err := writeRows(f, name, r.Columns, groups[key]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func writeRows(f *excelize.File, sheet string, columns []string, rows []models.ReportRow) error {
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row.Values()
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes the report as comma-delimited text, header first.
func WriteCSV(w io.Writer, r *models.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Columns); err != nil {
		return err
	}
	for _, row := range r.Rows {
		if err := cw.Write(row.Strings()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable writes a plain header-plus-rows sheet, used for the
// intermediate labor summary and job sheet exports.
func WriteTable(path, sheet string, columns []string, rows [][]interface{}) error {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return save(path, func(w io.Writer, _ ...excelize.Options) error {
			return writeTableCSV(w, columns, rows)
		})
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return save(path, f.Write)
}

func writeTableCSV(w io.Writer, columns []string, rows [][]interface{}) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, row := range rows {
		rec := make([]string, len(row))
		for i, v := range row {
			if v != nil {
				rec[i] = fmt.Sprint(v)
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
