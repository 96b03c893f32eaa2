// Package main provides the CLI entry point for amadaily.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rbastia/amadaily/internal/server"
	"github.com/rbastia/amadaily/pkg/amadaily"
	"github.com/rbastia/amadaily/pkg/amadaily/models"
	"github.com/rbastia/amadaily/pkg/amadaily/output"
	"github.com/rbastia/amadaily/pkg/amadaily/parser"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	configPath     string
	logLevel       string
	workbookPath   string
	timesheetPath  string
	jobSheetPath   string
	timesheetSheet string
	jobSheetSheet  string
	outputDir      string
	outputName     string
	noFuzzy        bool
	singleSheet    bool
	includeDriving bool
	writeCSV       bool
	fuzzyThreshold float64
	outputPath     string
	listenAddr     string
	maxUploadMB    int64
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "amadaily",
		Short: "Reconcile a weekly timesheet with the daily job sheet",
		Long: `amadaily extracts per-day, per-job labor hours from a block-repeating
timesheet and material/truck entries from the job sheet, then merges them
into one daily report keyed by date and job.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&timesheetSheet, "timesheet-sheet", amadaily.DefaultTimesheetSheet, "Timesheet sheet name")
	rootCmd.PersistentFlags().StringVar(&jobSheetSheet, "jobsheet-sheet", amadaily.DefaultJobSheetSheet, "Job sheet sheet name")
	rootCmd.PersistentFlags().BoolVar(&includeDriving, "include-driving", false, "Fold driving hours into labor totals")

	rootCmd.AddCommand(newCombineCmd(), newMergeCmd(), newTimesheetCmd(), newJobSheetCmd(), newServeCmd())
	return rootCmd
}

func addReportFlags(flags *pflag.FlagSet) {
	flags.StringVar(&outputDir, "outdir", amadaily.DefaultOutputDir, "Output directory")
	flags.StringVar(&outputName, "name", "", "Base name for the report (timestamp used if omitted)")
	flags.BoolVar(&noFuzzy, "no-fuzzy", false, "Disable fuzzy job name reconciliation")
	flags.Float64Var(&fuzzyThreshold, "fuzzy-threshold", 0, "Minimum similarity for a fuzzy job match (default 0.82)")
	flags.BoolVar(&singleSheet, "single-sheet", false, "Write only a single sheet (no per-job sheets)")
	flags.BoolVar(&writeCSV, "csv", false, "Also write a CSV copy of the report")
}

func newCombineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Parse both sheets and write the combined daily report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			in, err := resolveInputs()
			if err != nil {
				return err
			}
			res, err := amadaily.Run(in, opts)
			if err != nil {
				return fmt.Errorf("combine failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Combined report written: %s\n", res.OutputPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&workbookPath, "workbook", "", "Workbook containing both the timesheet and job sheet")
	cmd.Flags().StringVar(&timesheetPath, "timesheet", "", "Timesheet workbook or CSV export")
	cmd.Flags().StringVar(&jobSheetPath, "jobsheet", "", "Job sheet workbook or CSV export")
	addReportFlags(cmd.Flags())
	return cmd
}

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge [labor-summary] [job-table]",
		Short: "Reconcile previously exported labor summary and job sheet tables",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			res, err := amadaily.MergeTables(args[0], args[1], opts)
			if err != nil {
				return fmt.Errorf("merge failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Combined report written: %s\n", res.OutputPath)
			return nil
		},
	}
	addReportFlags(cmd.Flags())
	return cmd
}

func newTimesheetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timesheet [input]",
		Short: "Write the per-day, per-job labor summary of a timesheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			records, err := amadaily.ParseTimesheet(args[0], opts)
			if err != nil {
				return err
			}
			summaries := parser.SummarizeLabor(records)
			rows := make([][]interface{}, len(summaries))
			for i, s := range summaries {
				rows[i] = s.Values()
			}
			return writeIntermediate(cmd, "timesheet_daily_summary.xlsx", "Summary", models.LaborSummaryColumns, rows)
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (.xlsx or .csv)")
	return cmd
}

func newJobSheetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobsheet [input]",
		Short: "Write the normalized job sheet table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			records, err := amadaily.ParseJobSheet(args[0], opts)
			if err != nil {
				return err
			}
			rows := make([][]interface{}, len(records))
			for i, r := range records {
				rows[i] = r.Values()
			}
			return writeIntermediate(cmd, "ex_job_sheet_normalized.xlsx", "Jobs", models.JobRecordColumns, rows)
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (.xlsx or .csv)")
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the workbook upload endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			gin.SetMode(gin.ReleaseMode)
			h := server.NewHandler(opts, server.Config{MaxUploadBytes: maxUploadMB << 20}, opts.Logger)
			opts.Logger.Info("listening", "addr", listenAddr)
			return server.NewRouter(h).Run(listenAddr)
		},
	}
	cmd.Flags().StringVar(&listenAddr, "addr", "127.0.0.1:5000", "Listen address")
	cmd.Flags().Int64Var(&maxUploadMB, "max-upload-mb", 50, "Maximum upload size in MiB")
	return cmd
}

func resolveInputs() (amadaily.Inputs, error) {
	switch {
	case workbookPath != "" && (timesheetPath != "" || jobSheetPath != ""):
		return amadaily.Inputs{}, fmt.Errorf("--workbook cannot be combined with --timesheet/--jobsheet")
	case workbookPath != "":
		return amadaily.WorkbookInputs(workbookPath), nil
	case timesheetPath != "" && jobSheetPath != "":
		return amadaily.Inputs{TimesheetPath: timesheetPath, JobSheetPath: jobSheetPath}, nil
	default:
		return amadaily.Inputs{}, fmt.Errorf("either --workbook or both --timesheet and --jobsheet are required")
	}
}

// loadOptions layers defaults, the config file, then explicitly set flags.
func loadOptions(cmd *cobra.Command) (amadaily.Options, error) {
	opts := amadaily.DefaultOptions()
	level := logLevel

	if configPath != "" {
		cfg, err := amadaily.LoadConfig(configPath)
		if err != nil {
			return opts, err
		}
		cfg.Apply(&opts)
		if cfg.LogLevel != "" && !cmd.Flags().Changed("log-level") {
			level = cfg.LogLevel
		}
	}

	flags := cmd.Flags()
	if flags.Changed("timesheet-sheet") {
		opts.TimesheetSheet = timesheetSheet
	}
	if flags.Changed("jobsheet-sheet") {
		opts.JobSheetSheet = jobSheetSheet
	}
	if flags.Changed("include-driving") {
		opts.IncludeDriving = includeDriving
	}
	if flags.Changed("outdir") {
		opts.OutputDir = outputDir
	}
	if flags.Changed("name") {
		opts.OutputBase = outputName
	}
	if flags.Changed("no-fuzzy") {
		opts.Fuzzy = !noFuzzy
	}
	if flags.Changed("fuzzy-threshold") {
		if fuzzyThreshold <= 0 || fuzzyThreshold > 1 {
			return opts, fmt.Errorf("invalid --fuzzy-threshold %v (must be in (0, 1])", fuzzyThreshold)
		}
		opts.FuzzyThreshold = fuzzyThreshold
	}
	if flags.Changed("single-sheet") {
		opts.PerSheet = !singleSheet
	}
	if flags.Changed("csv") {
		opts.WriteCSV = writeCSV
	}

	lvl, err := parseLevel(level)
	if err != nil {
		return opts, err
	}
	opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	return opts, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", s)
	}
}

func writeIntermediate(cmd *cobra.Command, defaultName, sheet string, columns []string, rows [][]interface{}) error {
	path := outputPath
	if path == "" {
		path = filepath.Join(amadaily.DefaultOutputDir, defaultName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := output.WriteTable(path, sheet, columns, rows); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s (%d rows)\n", path, len(rows))
	return nil
}
