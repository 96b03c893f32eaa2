package parser

import (
	"regexp"
	"sort"
	"strings"

	"github.com/rbastia/amadaily/pkg/amadaily/models"
	"github.com/shopspring/decimal"
)

// TimesheetConfig configures labor extraction.
type TimesheetConfig struct {
	Layout      LayoutConfig
	DefaultYear int
	// IncludeDriving folds driving hours into Hours.
	IncludeDriving bool
	// PlaceholderJobs extends DefaultPlaceholderJobs.
	PlaceholderJobs []string
	// SkipEmployeePrefixes lists lower-case name prefixes of non-employee rows.
	SkipEmployeePrefixes []string
}

// DefaultTimesheetConfig returns the configuration for the standard timesheet.
func DefaultTimesheetConfig(sheet string, defaultYear int) TimesheetConfig {
	return TimesheetConfig{
		Layout:               TimesheetLayout(sheet),
		DefaultYear:          defaultYear,
		SkipEmployeePrefixes: []string{"ama"},
	}
}

type blockField int

const (
	fieldJob blockField = iota
	fieldHours
	fieldDriving
)

// fieldLabel pairs a header predicate with the block field it identifies.
type fieldLabel struct {
	field blockField
	match LabelMatcher
}

// timesheetFields is evaluated in order against every column of a block;
// the first column matching a field wins.
var timesheetFields = []fieldLabel{
	{fieldJob, HasPrefix("job")},
	{fieldHours, func(l string) bool { return l == "h" || strings.HasPrefix(l, "hour") }},
	{fieldDriving, func(l string) bool { return l == "d" || strings.HasPrefix(l, "driv") }},
}

// locateFields maps block fields to columns. Missing fields map to -1.
func locateFields(g *models.Grid, header int, block DayBlock, isStart LabelMatcher) map[blockField]int {
	cols := map[blockField]int{fieldJob: -1, fieldHours: -1, fieldDriving: -1}
	for offset, c := range block.Columns() {
		label := g.At(header, c).Label()
		if offset > 0 && isStart != nil && isStart(label) {
			break
		}
		for _, fl := range timesheetFields {
			if cols[fl.field] < 0 && fl.match(label) {
				cols[fl.field] = c
				break
			}
		}
	}
	return cols
}

// ExtractLabor walks day blocks by employee rows and returns one record per
// (employee, day) cell that names a real job and carries hours.
// Blocks without job or hours columns are skipped.
func ExtractLabor(g *models.Grid, cfg TimesheetConfig) ([]models.LaborRecord, error) {
	layout, err := LocateLayout(g, cfg.Layout)
	if err != nil {
		return nil, err
	}
	resolveBlockDates(g, layout, cfg.DefaultYear)

	var records []models.LaborRecord
	for _, block := range layout.Blocks {
		cols := locateFields(g, layout.HeaderRow, block, cfg.Layout.IsBlockStart)
		if cols[fieldJob] < 0 || cols[fieldHours] < 0 {
			continue
		}

		for r := layout.FirstDataRow; r < g.Rows(); r++ {
			employee := g.At(r, 0).String()
			if skipEmployee(employee, cfg.SkipEmployeePrefixes) {
				continue
			}
			job := g.At(r, cols[fieldJob]).String()
			if IsPlaceholderJob(job, cfg.PlaceholderJobs) {
				continue
			}

			hours := cellNumber(g.At(r, cols[fieldHours]))
			driving := decimal.Zero
			if cols[fieldDriving] >= 0 {
				driving = cellNumber(g.At(r, cols[fieldDriving]))
			}
			if hours.IsZero() && driving.IsZero() {
				continue
			}
			if cfg.IncludeDriving {
				hours = hours.Add(driving)
			}

			records = append(records, models.LaborRecord{
				Employee:  employee,
				Date:      block.Date,
				Job:       job,
				Hours:     hours,
				Driving:   driving,
				Truck:     g.At(r, block.Start).String(),
				SourceRow: r,
				BlockCol:  block.Start,
			})
		}
	}

	if len(records) == 0 {
		return nil, &EmptyResultError{Sheet: cfg.Layout.Sheet, What: "labor records"}
	}
	return records, nil
}

func skipEmployee(name string, prefixes []string) bool {
	if name == "" {
		return true
	}
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "total") {
		return true
	}
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// DefaultPlaceholderJobs are generic tokens that are layout artifacts, not jobs.
// Extend through TimesheetConfig.PlaceholderJobs rather than editing this list.
var DefaultPlaceholderJobs = []string{"job", "column", "col", "trk", "trk#"}

var placeholderColumnRe = regexp.MustCompile(`^column\s*\d+$`)

// IsPlaceholderJob reports whether job is empty or a layout artifact such as
// "Column8". extra lists additional generic tokens.
func IsPlaceholderJob(job string, extra []string) bool {
	t := strings.ToLower(strings.TrimSpace(job))
	if t == "" {
		return true
	}
	if placeholderColumnRe.MatchString(t) {
		return true
	}
	for _, lists := range [][]string{DefaultPlaceholderJobs, extra} {
		for _, p := range lists {
			if t == strings.ToLower(strings.TrimSpace(p)) {
				return true
			}
		}
	}
	return false
}

// SummarizeLabor groups records by (date, job). Employee counts are distinct
// and the employee list is sorted and comma-joined. Output is ordered by date, then job.
func SummarizeLabor(records []models.LaborRecord) []models.LaborSummary {
	type group struct {
		summary   models.LaborSummary
		employees map[string]struct{}
	}
	index := make(map[string]*group)
	var order []*group
	for _, rec := range records {
		key := models.FormatDate(rec.Date) + "\x00" + rec.Job
		g, ok := index[key]
		if !ok {
			g = &group{
				summary:   models.LaborSummary{Date: rec.Date, Job: rec.Job},
				employees: make(map[string]struct{}),
			}
			index[key] = g
			order = append(order, g)
		}
		g.summary.TotalHours = g.summary.TotalHours.Add(rec.Hours)
		g.summary.DrivingHours = g.summary.DrivingHours.Add(rec.Driving)
		g.employees[rec.Employee] = struct{}{}
	}

	out := make([]models.LaborSummary, len(order))
	for i, g := range order {
		names := make([]string, 0, len(g.employees))
		for name := range g.employees {
			names = append(names, name)
		}
		sort.Strings(names)
		g.summary.EmployeeCount = len(names)
		g.summary.Employees = strings.Join(names, ", ")
		out[i] = g.summary
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Job < out[j].Job
	})
	return out
}
