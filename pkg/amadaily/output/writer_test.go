package output

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rbastia/amadaily/pkg/amadaily/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() *models.Report {
	day := func(d int) time.Time { return time.Date(2025, 9, d, 0, 0, 0, 0, time.UTC) }
	return &models.Report{
		Columns: models.ReportColumns,
		Rows: []models.ReportRow{
			{
				Date: day(8), Job: "Ara3A,", HasLabor: true, EmployeeCount: 1,
				WorkingHours: decimal.NewFromInt(8), DrivingHours: decimal.Zero, Employees: "J Smith",
				HasJob: true, Trucks: "100", Description: "pour footings",
			},
			{Date: day(9), Job: "Oak Lane", HasJob: true, Trucks: "200"},
			{
				Date: day(9), Job: "oak lane", HasLabor: true, EmployeeCount: 2,
				WorkingHours: decimal.RequireFromString("14.5"), DrivingHours: decimal.NewFromInt(1),
				Employees: "A Jones, J Smith",
			},
			{Date: day(9), Job: "", HasLabor: true, EmployeeCount: 1, WorkingHours: decimal.NewFromInt(2), Employees: "B Brown"},
		},
	}
}

func readWorkbook(t *testing.T, path string) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWriteReportSingleSheet(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteReport(sampleReport(), WriteOptions{Dir: dir, Base: "daily"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "daily.xlsx"), path)

	f := readWorkbook(t, path)
	assert.Equal(t, []string{AllRowsSheet}, f.GetSheetList())

	rows, err := f.GetRows(AllRowsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, models.ReportColumns, rows[0])
	assert.Equal(t, []string{"2025-09-08", "Ara3A,", "1", "8", "0", "J Smith", "100", "pour footings"}, rows[1])
	assert.Equal(t, []string{"2025-09-09", "Oak Lane", "", "", "", "", "200"}, rows[2])
}

func TestWriteReportPerSheet(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteReport(sampleReport(), WriteOptions{Dir: dir, Base: "daily", PerSheet: true})
	require.NoError(t, err)

	f := readWorkbook(t, path)
	assert.Equal(t, []string{AllSheet, "Ara3A,", "Oak Lane", "Blank"}, f.GetSheetList())

	all, err := f.GetRows(AllSheet)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	oak, err := f.GetRows("Oak Lane")
	require.NoError(t, err)
	require.Len(t, oak, 3, "case-insensitive job grouping")
	assert.Equal(t, "oak lane", oak[2][1])
}

func TestWriteReportLockedDestination(t *testing.T) {
	dir := t.TempDir()
	orig := createFile
	t.Cleanup(func() { createFile = orig })
	createFile = func(path string) (io.WriteCloser, error) {
		if filepath.Base(path) == "daily.xlsx" {
			return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrPermission}
		}
		return orig(path)
	}

	var logs bytes.Buffer
	opts := WriteOptions{
		Dir:    dir,
		Base:   "daily",
		Now:    func() time.Time { return time.Date(2025, 9, 8, 10, 15, 0, 0, time.UTC) },
		Logger: slog.New(slog.NewTextHandler(&logs, nil)),
	}

	path, err := WriteReport(sampleReport(), opts)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "daily_20250908_101500.xlsx"), path)
	assert.FileExists(t, path)
	assert.NoFileExists(t, filepath.Join(dir, "daily.xlsx"))
	assert.Contains(t, logs.String(), "destination locked")
}

func TestWriteReportOtherErrorsAreNotRetried(t *testing.T) {
	orig := createFile
	t.Cleanup(func() { createFile = orig })
	boom := errors.New("disk full")
	createFile = func(string) (io.WriteCloser, error) { return nil, boom }

	_, err := WriteReport(sampleReport(), WriteOptions{Dir: t.TempDir(), Base: "daily"})
	assert.ErrorIs(t, err, boom)
}

func TestWriteReportCSVSidecar(t *testing.T) {
	dir := t.TempDir()

	_, err := WriteReport(sampleReport(), WriteOptions{Dir: dir, Base: "daily", WriteCSV: true})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "daily.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Date,Job,Employee Count,Working Hours"))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "2025-09-08,\"Ara3A,\",1,8,0,J Smith,100,pour footings,,,,", lines[1])
	assert.Equal(t, "2025-09-09,Oak Lane,,,,,200,,,,,", lines[2])
	assert.Equal(t, "2025-09-09,oak lane,2,14.5,1,\"A Jones, J Smith\",,,,,,", lines[3])
}

func TestWriteTable(t *testing.T) {
	dir := t.TempDir()
	rows := [][]interface{}{{"2025-09-08", "ARA3A", 1, 8.0, 0.0, "J Smith"}}

	xlsx := filepath.Join(dir, "summary.xlsx")
	require.NoError(t, WriteTable(xlsx, "Summary", models.LaborSummaryColumns, rows))
	got, err := readWorkbook(t, xlsx).GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, models.LaborSummaryColumns, got[0])
	assert.Equal(t, []string{"2025-09-08", "ARA3A", "1", "8", "0", "J Smith"}, got[1])

	csvPath := filepath.Join(dir, "summary.csv")
	require.NoError(t, WriteTable(csvPath, "Summary", models.LaborSummaryColumns, rows))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "Date,Job,EmployeeCount,TotalHours,DrivingHours,Employees\n2025-09-08,ARA3A,1,8,0,J Smith\n", string(data))
}

func TestIsLocked(t *testing.T) {
	assert.True(t, isLocked(&fs.PathError{Op: "open", Path: "daily.xlsx", Err: fs.ErrPermission}))
	assert.False(t, isLocked(&fs.PathError{Op: "open", Path: "daily.xlsx", Err: fs.ErrNotExist}))
	assert.False(t, isLocked(errors.New("disk full")))
	assert.False(t, isLocked(nil))
}
