package amadaily

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rbastia/amadaily/pkg/amadaily/models"
	"github.com/rbastia/amadaily/pkg/amadaily/output"
	"github.com/rbastia/amadaily/pkg/amadaily/parser"
	"github.com/rbastia/amadaily/pkg/amadaily/reconcile"
)

// Inputs names the two source files. Both may be the same workbook.
type Inputs struct {
	TimesheetPath string
	JobSheetPath  string
}

// WorkbookInputs returns inputs for a workbook holding both sheets.
func WorkbookInputs(path string) Inputs {
	return Inputs{TimesheetPath: path, JobSheetPath: path}
}

// Result is the outcome of a run.
type Result struct {
	// RunID correlates the run's log lines.
	RunID string
	// OutputPath is where the report was actually written.
	OutputPath string
	Labor      []models.LaborRecord
	Summaries  []models.LaborSummary
	Jobs       []models.JobRecord
	Report     *models.Report
}

// Run parses both sheets, reconciles them and writes the report.
func Run(in Inputs, opts Options) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	opts.Logger = opts.logger().With("run_id", res.RunID)
	log := opts.Logger

	var err error
	res.Labor, err = ParseTimesheet(in.TimesheetPath, opts)
	if err != nil {
		return nil, err
	}
	res.Summaries = parser.SummarizeLabor(res.Labor)

	res.Jobs, err = ParseJobSheet(in.JobSheetPath, opts)
	if err != nil {
		return nil, err
	}

	res.Report = reconcile.Reconcile(res.Summaries, res.Jobs, opts.reconcileOptions())
	logReport(log, res.Report)

	res.OutputPath, err = writeReport(res.Report, opts)
	if err != nil {
		return nil, err
	}
	log.Info("report written", "path", res.OutputPath, "rows", len(res.Report.Rows))
	return res, nil
}

// ParseTimesheet extracts labor records from the timesheet sheet.
func ParseTimesheet(path string, opts Options) ([]models.LaborRecord, error) {
	log := opts.logger()
	grid, err := loadGrid(path, opts.TimesheetSheet)
	if err != nil {
		return nil, NewExtractionError(opts.TimesheetSheet, "timesheet", err)
	}

	cfg := parser.DefaultTimesheetConfig(opts.TimesheetSheet, parser.InferYear(path, opts.now()))
	cfg.IncludeDriving = opts.IncludeDriving
	cfg.PlaceholderJobs = opts.PlaceholderJobs
	cfg.SkipEmployeePrefixes = opts.SkipEmployeePrefixes

	records, err := parser.ExtractLabor(grid, cfg)
	if err != nil {
		return nil, NewExtractionError(opts.TimesheetSheet, "timesheet", err)
	}
	log.Debug("timesheet parsed",
		"file", filepath.Base(path), "rows", grid.Rows(), "cols", grid.Cols(),
		"default_year", cfg.DefaultYear, "records", len(records))
	return records, nil
}

// ParseJobSheet extracts job records from the job sheet.
func ParseJobSheet(path string, opts Options) ([]models.JobRecord, error) {
	log := opts.logger()
	grid, err := loadGrid(path, opts.JobSheetSheet)
	if err != nil {
		return nil, NewExtractionError(opts.JobSheetSheet, "jobsheet", err)
	}

	cfg := parser.DefaultJobSheetConfig(opts.JobSheetSheet, parser.InferYear(path, opts.now()))
	records, err := parser.ExtractJobSheet(grid, cfg)
	if err != nil {
		return nil, NewExtractionError(opts.JobSheetSheet, "jobsheet", err)
	}
	if len(records) == 0 {
		log.Warn("job sheet produced no records", "file", filepath.Base(path))
	}
	log.Debug("job sheet parsed", "file", filepath.Base(path), "records", len(records))
	return records, nil
}

// MergeTables reconciles previously exported labor summary and job sheet
// tables (first row is the header) and writes the report.
func MergeTables(laborPath, jobsPath string, opts Options) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	opts.Logger = opts.logger().With("run_id", res.RunID)

	laborGrid, err := loadGrid(laborPath, "")
	if err != nil {
		return nil, NewExtractionError(filepath.Base(laborPath), "reconcile", err)
	}
	jobsGrid, err := loadGrid(jobsPath, "")
	if err != nil {
		return nil, NewExtractionError(filepath.Base(jobsPath), "reconcile", err)
	}

	res.Report, err = reconcile.ReconcileTables(
		reconcile.TableFromGrid("labor summary", laborGrid),
		reconcile.TableFromGrid("job sheet", jobsGrid),
		opts.reconcileOptions(),
	)
	if err != nil {
		return nil, NewExtractionError(filepath.Base(laborPath), "reconcile", err)
	}
	logReport(opts.Logger, res.Report)

	res.OutputPath, err = writeReport(res.Report, opts)
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("report written", "path", res.OutputPath, "rows", len(res.Report.Rows))
	return res, nil
}

func loadGrid(path, sheet string) (*models.Grid, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return parser.LoadGrid(path, sheet)
}

func writeReport(r *models.Report, opts Options) (string, error) {
	path, err := output.WriteReport(r, output.WriteOptions{
		Dir:      opts.OutputDir,
		Base:     opts.ResolvedOutputBase(),
		PerSheet: opts.PerSheet,
		WriteCSV: opts.WriteCSV,
		Now:      opts.Now,
		Logger:   opts.Logger,
	})
	if err != nil {
		return "", NewExtractionError(output.AllSheet, "output", err)
	}
	return path, nil
}

func logReport(log *slog.Logger, r *models.Report) {
	matched, laborOnly, jobOnly := 0, 0, 0
	for _, row := range r.Rows {
		switch {
		case row.HasLabor && row.HasJob:
			matched++
		case row.HasLabor:
			laborOnly++
		default:
			jobOnly++
		}
	}
	for _, m := range r.Remaps {
		log.Debug("fuzzy remap", "date", models.FormatDate(m.Date), "from", m.From, "to", m.To, "score", m.Score)
	}
	log.Info("reconciled",
		"rows", len(r.Rows), "matched", matched, "labor_only", laborOnly,
		"job_only", jobOnly, "fuzzy_remaps", len(r.Remaps))
}
