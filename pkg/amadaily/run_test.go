package amadaily

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rbastia/amadaily/internal/testutil"
	"github.com/rbastia/amadaily/pkg/amadaily/models"
	"github.com/rbastia/amadaily/pkg/amadaily/output"
	"github.com/rbastia/amadaily/pkg/amadaily/parser"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testOptions(t *testing.T) Options {
	opts := DefaultOptions()
	opts.OutputDir = t.TempDir()
	opts.OutputBase = "combined"
	opts.Now = func() time.Time { return time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC) }
	return opts
}

func TestRun(t *testing.T) {
	path := testutil.CombinedWorkbook(t)
	opts := testOptions(t)

	res, err := Run(WorkbookInputs(path), opts)
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, filepath.Join(opts.OutputDir, "combined.xlsx"), res.OutputPath)
	assert.Len(t, res.Labor, 3)
	assert.Len(t, res.Summaries, 2)
	assert.Len(t, res.Jobs, 3)

	rows := res.Report.Rows
	require.Len(t, rows, 3)

	first := rows[0]
	assert.Equal(t, "2025-09-08", models.FormatDate(first.Date), "year inferred from file name")
	assert.Equal(t, "Ara3A,", first.Job)
	assert.True(t, first.HasLabor)
	assert.True(t, first.WorkingHours.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, "100", first.Trucks)
	assert.Equal(t, "3000 psi", first.Concrete)

	assert.Equal(t, "Oak Lane", rows[1].Job)
	assert.False(t, rows[1].HasLabor)

	barn := rows[2]
	assert.Equal(t, "Smith Barn", barn.Job)
	assert.Equal(t, 2, barn.EmployeeCount)
	assert.Equal(t, "A Jones, J Smith", barn.Employees)
	assert.True(t, barn.WorkingHours.Equal(decimal.NewFromInt(14)))
	assert.True(t, barn.DrivingHours.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, "125, 126", barn.Trucks)

	f, err := excelize.OpenFile(res.OutputPath)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{output.AllSheet, "Ara3A,", "Oak Lane", "Smith Barn"}, f.GetSheetList())
}

func TestRunSeparateFiles(t *testing.T) {
	timesheet := testutil.WriteWorkbook(t, "Timesheet 9-7-25.xlsx",
		testutil.Sheet{Name: "Sheet1", Rows: testutil.TimesheetRows()})
	jobs := testutil.WriteWorkbook(t, "jobs 9-7-25.xlsx",
		testutil.Sheet{Name: "Jobs", Rows: testutil.JobSheetRows()})

	opts := testOptions(t)
	opts.PerSheet = false
	opts.IncludeDriving = true

	res, err := Run(Inputs{TimesheetPath: timesheet, JobSheetPath: jobs}, opts)
	require.NoError(t, err)
	require.Len(t, res.Report.Rows, 3)
	assert.True(t, res.Report.Rows[2].WorkingHours.Equal(decimal.NewFromInt(15)))

	f, err := excelize.OpenFile(res.OutputPath)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{output.AllRowsSheet}, f.GetSheetList())
}

func TestRunMissingFile(t *testing.T) {
	_, err := Run(WorkbookInputs(filepath.Join(t.TempDir(), "nope.xlsx")), testOptions(t))

	assert.ErrorIs(t, err, ErrFileNotFound)
	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "timesheet", extErr.Component)
}

func TestRunLayoutError(t *testing.T) {
	path := testutil.WriteWorkbook(t, "broken.xlsx",
		testutil.Sheet{Name: DefaultTimesheetSheet, Rows: [][]interface{}{{"Name", "Hours"}, {"J Smith", 8}}},
		testutil.Sheet{Name: DefaultJobSheetSheet, Rows: testutil.JobSheetRows()},
	)

	_, err := Run(WorkbookInputs(path), testOptions(t))

	var layoutErr *parser.LayoutError
	require.True(t, errors.As(err, &layoutErr), "expected *parser.LayoutError, got %v", err)
	assert.Equal(t, DefaultTimesheetSheet, layoutErr.Sheet)
}

func TestMergeTables(t *testing.T) {
	path := testutil.CombinedWorkbook(t)
	opts := testOptions(t)
	dir := t.TempDir()

	records, err := ParseTimesheet(path, opts)
	require.NoError(t, err)
	summaries := parser.SummarizeLabor(records)
	laborRows := make([][]interface{}, len(summaries))
	for i, s := range summaries {
		laborRows[i] = s.Values()
	}
	laborPath := filepath.Join(dir, "labor.xlsx")
	require.NoError(t, output.WriteTable(laborPath, "Summary", models.LaborSummaryColumns, laborRows))

	jobs, err := ParseJobSheet(path, opts)
	require.NoError(t, err)
	jobRows := make([][]interface{}, len(jobs))
	for i, j := range jobs {
		jobRows[i] = j.Values()
	}
	jobsPath := filepath.Join(dir, "jobs.csv")
	require.NoError(t, output.WriteTable(jobsPath, "Jobs", models.JobRecordColumns, jobRows))

	res, err := MergeTables(laborPath, jobsPath, opts)
	require.NoError(t, err)
	require.Len(t, res.Report.Rows, 3)
	assert.Equal(t, "Ara3A,", res.Report.Rows[0].Job)
	assert.True(t, res.Report.Rows[0].HasLabor)
	assert.Equal(t, "125, 126", res.Report.Rows[2].Trucks)
	assert.FileExists(t, res.OutputPath)
}
