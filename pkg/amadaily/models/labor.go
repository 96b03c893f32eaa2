package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LaborRecord is one employee's work on one job for one day.
type LaborRecord struct {
	// Employee is the employee name from the first column.
	Employee string
	// Date is the day of the block the record came from (zero if unresolved).
	Date time.Time
	// Job is the job text as typed.
	Job string
	// Hours is the reported total; includes driving when driving is folded in.
	Hours decimal.Decimal
	// Driving is the driving hours, always reported separately.
	Driving decimal.Decimal
	// Truck is the truck identifier from the block-start column.
	Truck string
	// SourceRow is the 0-based grid row.
	SourceRow int
	// BlockCol is the 0-based block-start column.
	BlockCol int
}

// LaborSummaryColumns are the column headers of a labor summary table.
var LaborSummaryColumns = []string{"Date", "Job", "EmployeeCount", "TotalHours", "DrivingHours", "Employees"}

// LaborSummary aggregates labor records for one (date, job).
type LaborSummary struct {
	Date          time.Time
	Job           string
	EmployeeCount int
	TotalHours    decimal.Decimal
	DrivingHours  decimal.Decimal
	// Employees is the sorted, de-duplicated, comma-joined employee list.
	Employees string
}

// Values returns the summary as a row matching LaborSummaryColumns.
func (s LaborSummary) Values() []interface{} {
	return []interface{}{
		FormatDate(s.Date),
		s.Job,
		s.EmployeeCount,
		s.TotalHours.InexactFloat64(),
		s.DrivingHours.InexactFloat64(),
		s.Employees,
	}
}

// FormatDate renders a date as YYYY-MM-DD, or "" for the zero date.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
