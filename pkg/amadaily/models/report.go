package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ReportColumns are the user-facing headers of the unified daily report.
// Driving Hours stays adjacent to Working Hours.
var ReportColumns = []string{
	"Date", "Job",
	"Employee Count", "Working Hours", "Driving Hours", "Employees",
	"Truck(s)", "Description", "Concrete", "Concrete Yds", "Stone", "Stone Lds",
}

// ReportRow is one reconciled (date, job) row.
// Columns from a side with no data are left empty.
type ReportRow struct {
	Date time.Time
	// Job is the display text; the job sheet spelling wins when present.
	Job string

	// HasLabor is true when a timesheet summary contributed to the row.
	HasLabor      bool
	EmployeeCount int
	WorkingHours  decimal.Decimal
	DrivingHours  decimal.Decimal
	Employees     string

	// HasJob is true when a job sheet record contributed to the row.
	HasJob      bool
	Trucks      string
	Description string
	Concrete    string
	ConcreteYds string
	Stone       string
	StoneLds    string
}

// Values returns the row matching ReportColumns. Labor cells are nil when
// the row has no timesheet data.
func (r ReportRow) Values() []interface{} {
	vals := []interface{}{FormatDate(r.Date), r.Job, nil, nil, nil, nil}
	if r.HasLabor {
		vals[2] = r.EmployeeCount
		vals[3] = r.WorkingHours.InexactFloat64()
		vals[4] = r.DrivingHours.InexactFloat64()
		vals[5] = r.Employees
	}
	return append(vals, r.Trucks, r.Description, r.Concrete, r.ConcreteYds, r.Stone, r.StoneLds)
}

// Strings returns the row as text, with empty strings for absent values.
func (r ReportRow) Strings() []string {
	out := []string{FormatDate(r.Date), r.Job, "", "", "", ""}
	if r.HasLabor {
		out[2] = strconv.Itoa(r.EmployeeCount)
		out[3] = r.WorkingHours.String()
		out[4] = r.DrivingHours.String()
		out[5] = r.Employees
	}
	return append(out, r.Trucks, r.Description, r.Concrete, r.ConcreteYds, r.Stone, r.StoneLds)
}

// Remap records a fuzzy reconciliation decision.
type Remap struct {
	Date  time.Time
	From  string
	To    string
	Score float64
}

// Report is the unified daily report.
type Report struct {
	// Columns are the output headers, in order.
	Columns []string
	// Rows are sorted by case-insensitive job, then date.
	Rows []ReportRow
	// Remaps lists fuzzy key substitutions applied before the join.
	Remaps []Remap
}
