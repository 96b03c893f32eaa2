package parser

import (
	"errors"
	"testing"

	"github.com/rbastia/amadaily/internal/testutil"
	"github.com/rbastia/amadaily/pkg/amadaily/models"
	"github.com/shopspring/decimal"
)

func TestExtractLabor(t *testing.T) {
	g := gridOf(testutil.TimesheetRows())

	records, err := ExtractLabor(g, DefaultTimesheetConfig("Timesheet", 2025))
	if err != nil {
		t.Fatalf("ExtractLabor failed: %v", err)
	}

	want := []struct {
		employee, job, truck string
		date                 int
		hours, driving       int64
	}{
		{"J Smith", "ARA3A", "100", 8, 8, 0},
		{"J Smith", "Smith Barn", "101", 9, 8, 1},
		{"A Jones", "Smith Barn", "102", 9, 6, 0},
	}
	if len(records) != len(want) {
		t.Fatalf("Expected %d records, got %d: %+v", len(want), len(records), records)
	}
	for i, w := range want {
		rec := records[i]
		if rec.Employee != w.employee || rec.Job != w.job || rec.Truck != w.truck {
			t.Errorf("record %d = %s/%s/%s, want %s/%s/%s", i, rec.Employee, rec.Job, rec.Truck, w.employee, w.job, w.truck)
		}
		if !rec.Date.Equal(day(2025, 9, w.date)) {
			t.Errorf("record %d date = %v, want 2025-09-%02d", i, rec.Date, w.date)
		}
		if !rec.Hours.Equal(decimal.NewFromInt(w.hours)) {
			t.Errorf("record %d hours = %s, want %d", i, rec.Hours, w.hours)
		}
		if !rec.Driving.Equal(decimal.NewFromInt(w.driving)) {
			t.Errorf("record %d driving = %s, want %d", i, rec.Driving, w.driving)
		}
	}
}

func TestExtractLaborNeverEmitsEmptyWork(t *testing.T) {
	g := gridOf(testutil.TimesheetRows())

	records, err := ExtractLabor(g, DefaultTimesheetConfig("Timesheet", 2025))
	if err != nil {
		t.Fatalf("ExtractLabor failed: %v", err)
	}
	for _, rec := range records {
		if rec.Hours.IsZero() && rec.Driving.IsZero() {
			t.Errorf("record with no hours emitted: %+v", rec)
		}
		if IsPlaceholderJob(rec.Job, nil) {
			t.Errorf("record with placeholder job emitted: %+v", rec)
		}
		if rec.Employee == "" || rec.Employee == "Total" {
			t.Errorf("non-employee row emitted: %+v", rec)
		}
	}
}

func TestExtractLaborIncludeDriving(t *testing.T) {
	cfg := DefaultTimesheetConfig("Timesheet", 2025)
	cfg.IncludeDriving = true

	records, err := ExtractLabor(gridOf(testutil.TimesheetRows()), cfg)
	if err != nil {
		t.Fatalf("ExtractLabor failed: %v", err)
	}
	if got := records[1].Hours; !got.Equal(decimal.NewFromInt(9)) {
		t.Errorf("hours with driving = %s, want 9", got)
	}
	if got := records[1].Driving; !got.Equal(decimal.NewFromInt(1)) {
		t.Errorf("driving = %s, want 1", got)
	}
}

func TestExtractLaborSkipsConfiguredRows(t *testing.T) {
	rows := append(testutil.TimesheetRows(),
		[]interface{}{"AMA Office", "104", "ARA3A", 4},
		[]interface{}{"C Green", "105", "Shop", 4},
	)
	cfg := DefaultTimesheetConfig("Timesheet", 2025)
	cfg.PlaceholderJobs = []string{"shop"}

	records, err := ExtractLabor(gridOf(rows), cfg)
	if err != nil {
		t.Fatalf("ExtractLabor failed: %v", err)
	}
	for _, rec := range records {
		if rec.Employee == "AMA Office" || rec.Employee == "C Green" {
			t.Errorf("expected %s to be skipped", rec.Employee)
		}
	}
	if len(records) != 3 {
		t.Errorf("Expected 3 records, got %d", len(records))
	}
}

func TestExtractLaborEmpty(t *testing.T) {
	g := gridOf([][]interface{}{
		{"Employee", "Trk", "Job", "H"},
		{"J Smith", "100", "ARA3A", 0},
		{"A Jones", nil, "Column3", 8},
	})

	_, err := ExtractLabor(g, DefaultTimesheetConfig("Timesheet", 2025))
	var emptyErr *EmptyResultError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("expected *EmptyResultError, got %v", err)
	}
	if emptyErr.Sheet != "Timesheet" {
		t.Errorf("Sheet = %q, want Timesheet", emptyErr.Sheet)
	}
}

func TestIsPlaceholderJob(t *testing.T) {
	tests := []struct {
		job  string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"Column8", true},
		{"column 12", true},
		{"JOB", true},
		{"trk#", true},
		{"Col", true},
		{"ARA3A", false},
		{"Columbus Ave", false},
	}
	for _, tt := range tests {
		if got := IsPlaceholderJob(tt.job, nil); got != tt.want {
			t.Errorf("IsPlaceholderJob(%q) = %v, want %v", tt.job, got, tt.want)
		}
	}
	if !IsPlaceholderJob("Yard", []string{"yard"}) {
		t.Error("expected extra placeholder to match case-insensitively")
	}
}

func TestSummarizeLabor(t *testing.T) {
	records := []models.LaborRecord{
		{Employee: "J Smith", Date: day(2025, 9, 9), Job: "Smith Barn", Hours: decimal.NewFromInt(8), Driving: decimal.NewFromInt(1)},
		{Employee: "A Jones", Date: day(2025, 9, 9), Job: "Smith Barn", Hours: decimal.RequireFromString("6.5")},
		{Employee: "J Smith", Date: day(2025, 9, 9), Job: "Smith Barn", Hours: decimal.NewFromInt(1)},
		{Employee: "J Smith", Date: day(2025, 9, 8), Job: "ARA3A", Hours: decimal.NewFromInt(8)},
	}

	got := SummarizeLabor(records)
	if len(got) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(got))
	}

	first := got[0]
	if first.Job != "ARA3A" || first.EmployeeCount != 1 || !first.TotalHours.Equal(decimal.NewFromInt(8)) {
		t.Errorf("first summary = %+v", first)
	}

	second := got[1]
	if second.EmployeeCount != 2 {
		t.Errorf("EmployeeCount = %d, want 2 (distinct)", second.EmployeeCount)
	}
	if second.Employees != "A Jones, J Smith" {
		t.Errorf("Employees = %q, want sorted list", second.Employees)
	}
	if !second.TotalHours.Equal(decimal.RequireFromString("15.5")) {
		t.Errorf("TotalHours = %s, want 15.5", second.TotalHours)
	}
	if !second.DrivingHours.Equal(decimal.NewFromInt(1)) {
		t.Errorf("DrivingHours = %s, want 1", second.DrivingHours)
	}
}

func TestExtractLaborBlockRules(t *testing.T) {
	type want struct {
		job   string
		date  int
		hours int64
		truck string
	}
	tests := []struct {
		name string
		rows [][]interface{}
		want []want
	}{
		{
			name: "block without hours column is skipped",
			rows: [][]interface{}{
				{nil, "Monday 9-8", nil, nil, nil, "Tuesday 9-9", nil, nil, "Wednesday 9-10"},
				{"Employee", "Trk", "Job", "H", "D", "Trk", "Job", "D", "Trk", "Job", "H"},
				{"J Smith", "100", "ARA3A", 8, nil, "101", "Smith Barn", 3, "102", "Oak Lane", 6},
			},
			want: []want{
				{"ARA3A", 8, 8, "100"},
				{"Oak Lane", 10, 6, "102"},
			},
		},
		{
			name: "block without job column does not borrow the next day's",
			rows: [][]interface{}{
				{nil, "Monday 9-8", nil, "Tuesday 9-9"},
				{"Employee", "Trk", "H", "Trk", "Job", "H"},
				{"J Smith", "100", 8, "101", "ARA3A", 6},
			},
			want: []want{
				{"ARA3A", 9, 6, "101"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ExtractLabor(gridOf(tt.rows), DefaultTimesheetConfig("Timesheet", 2025))
			if err != nil {
				t.Fatalf("ExtractLabor failed: %v", err)
			}
			if len(records) != len(tt.want) {
				t.Fatalf("Expected %d records, got %d: %+v", len(tt.want), len(records), records)
			}
			for i, w := range tt.want {
				rec := records[i]
				if rec.Job != w.job || rec.Truck != w.truck {
					t.Errorf("record %d = %s/%s, want %s/%s", i, rec.Job, rec.Truck, w.job, w.truck)
				}
				if !rec.Date.Equal(day(2025, 9, w.date)) {
					t.Errorf("record %d date = %v, want 2025-09-%02d", i, rec.Date, w.date)
				}
				if !rec.Hours.Equal(decimal.NewFromInt(w.hours)) {
					t.Errorf("record %d hours = %s, want %d", i, rec.Hours, w.hours)
				}
			}
		})
	}
}

func TestLocateFieldsStopsAtNextBlockStart(t *testing.T) {
	g := gridOf([][]interface{}{
		{"Employee", "Trk", "H", "Trk", "Job", "H"},
	})
	isStart := TimesheetLayout("Timesheet").IsBlockStart

	cols := locateFields(g, 0, DayBlock{Start: 1, Width: 5}, isStart)
	if cols[fieldJob] != -1 {
		t.Errorf("job column = %d, want -1 (next block's Job must not be used)", cols[fieldJob])
	}
	if cols[fieldHours] != 2 {
		t.Errorf("hours column = %d, want 2", cols[fieldHours])
	}

	cols = locateFields(g, 0, DayBlock{Start: 3, Width: 3}, isStart)
	if cols[fieldJob] != 4 || cols[fieldHours] != 5 || cols[fieldDriving] != -1 {
		t.Errorf("second block fields = %v, want job 4, hours 5, driving -1", cols)
	}
}
