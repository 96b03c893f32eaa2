// Package amadaily reconciles a weekly labor timesheet with a daily job sheet
// into one report keyed by date and job.
package amadaily

import (
	"io"
	"log/slog"
	"time"

	"github.com/rbastia/amadaily/pkg/amadaily/reconcile"
)

const (
	// DefaultTimesheetSheet is the timesheet's sheet name in the source workbook.
	DefaultTimesheetSheet = "Timesheet"
	// DefaultJobSheetSheet is the job sheet's sheet name in the source workbook.
	DefaultJobSheetSheet = "New Formula Job Sheet"
	// DefaultOutputDir is where reports are written.
	DefaultOutputDir = "outputs"
)

// Options configures a reconciliation run.
type Options struct {
	// IncludeDriving folds driving hours into the labor totals.
	IncludeDriving bool
	// Fuzzy enables approximate job matching after the exact join.
	Fuzzy bool
	// FuzzyThreshold is the minimum similarity for a fuzzy match.
	FuzzyThreshold float64
	// PerSheet writes one sheet per job plus an "All" sheet.
	PerSheet bool
	// TimesheetSheet and JobSheetSheet name the source sheets.
	TimesheetSheet string
	JobSheetSheet  string
	// OutputDir is the destination directory.
	OutputDir string
	// OutputBase is the destination file stem. If empty, a timestamped
	// "combined_daily_report_..." name is used.
	OutputBase string
	// WriteCSV also writes a comma-delimited sidecar.
	WriteCSV bool
	// PlaceholderJobs extends the built-in list of generic job tokens.
	PlaceholderJobs []string
	// SkipEmployeePrefixes lists name prefixes of timesheet rows that are not employees.
	SkipEmployeePrefixes []string
	// Logger receives progress and diagnostics. If nil, logs are discarded.
	Logger *slog.Logger
	// Now is the clock used for year inference and file names. If nil, time.Now.
	Now func() time.Time
}

// DefaultOptions returns default run options.
func DefaultOptions() Options {
	return Options{
		Fuzzy:                true,
		FuzzyThreshold:       reconcile.DefaultThreshold,
		PerSheet:             true,
		TimesheetSheet:       DefaultTimesheetSheet,
		JobSheetSheet:        DefaultJobSheetSheet,
		OutputDir:            DefaultOutputDir,
		SkipEmployeePrefixes: []string{"ama"},
	}
}

// ResolvedOutputBase returns the output file stem.
func (o Options) ResolvedOutputBase() string {
	if o.OutputBase != "" {
		return o.OutputBase
	}
	return "combined_daily_report_" + o.now().Format("20060102_150405")
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (o Options) reconcileOptions() reconcile.Options {
	return reconcile.Options{Fuzzy: o.Fuzzy, Threshold: o.FuzzyThreshold}
}
