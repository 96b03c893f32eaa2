package reconcile

import (
	"strings"
	"time"

	"github.com/rbastia/amadaily/pkg/amadaily/models"
	"github.com/rbastia/amadaily/pkg/amadaily/parser"
)

// Table is a header row plus text rows, as read back from an intermediate
// labor summary or job sheet export.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// TableFromGrid treats row 0 of g as the header.
func TableFromGrid(name string, g *models.Grid) Table {
	t := Table{Name: name}
	for r := 0; r < g.Rows(); r++ {
		row := make([]string, g.Cols())
		for c := range row {
			row[c] = g.At(r, c).String()
		}
		if r == 0 {
			t.Columns = row
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

var requiredColumns = []string{"Date", "Job"}

// Column aliases accepted when reading tables back, keyed by canonical header.
var (
	employeeCountAliases = []string{"Employee Count", "EmployeeCount"}
	workingHoursAliases  = []string{"Working Hours", "TotalHours", "Total Hours", "Hours"}
	drivingHoursAliases  = []string{"Driving Hours", "DrivingHours", "Total Driving Hours"}
	employeesAliases     = []string{"Employees"}
)

func headerKey(s string) string {
	r := strings.NewReplacer(" ", "", "_", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}

// index returns the column position of the first alias present, or -1.
func (t Table) index(aliases ...string) int {
	for _, a := range aliases {
		want := headerKey(a)
		for i, c := range t.Columns {
			if headerKey(c) == want {
				return i
			}
		}
	}
	return -1
}

func (t Table) validate() error {
	var missing []string
	for _, col := range requiredColumns {
		if t.index(col) < 0 {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Table: t.Name, Missing: missing, Found: t.Columns}
	}
	return nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func tableDate(s string, year int) time.Time {
	d, _ := parser.ResolveDate(models.TextCell(s), year)
	return d
}

// ReconcileTables validates both tables and reconciles them. A table without
// Date or Job columns fails with *SchemaError; no partial merge is attempted.
func ReconcileTables(labor, jobs Table, opts Options) (*models.Report, error) {
	if err := labor.validate(); err != nil {
		return nil, err
	}
	if err := jobs.validate(); err != nil {
		return nil, err
	}
	year := time.Now().Year()
	return Reconcile(laborFromTable(labor, year), jobsFromTable(jobs, year), opts), nil
}

func laborFromTable(t Table, year int) []models.LaborSummary {
	date, job := t.index("Date"), t.index("Job")
	count := t.index(employeeCountAliases...)
	hours := t.index(workingHoursAliases...)
	driving := t.index(drivingHoursAliases...)
	employees := t.index(employeesAliases...)

	out := make([]models.LaborSummary, 0, len(t.Rows))
	for _, row := range t.Rows {
		s := models.LaborSummary{
			Date:      tableDate(cellAt(row, date), year),
			Job:       cellAt(row, job),
			Employees: cellAt(row, employees),
		}
		if n, ok := parser.ParseFirstNumber(cellAt(row, count)); ok {
			s.EmployeeCount = int(n.IntPart())
		}
		s.TotalHours, _ = parser.ParseFirstNumber(cellAt(row, hours))
		s.DrivingHours, _ = parser.ParseFirstNumber(cellAt(row, driving))
		out = append(out, s)
	}
	return out
}

func jobsFromTable(t Table, year int) []models.JobRecord {
	date, job := t.index("Date"), t.index("Job")
	trucks := t.index("Truck(s)", "Trucks", "Truck")
	desc := t.index("Description")
	concrete := t.index("Concrete")
	concreteYds := t.index("Concrete Yds")
	stone := t.index("Stone")
	stoneLds := t.index("Stone Lds")

	out := make([]models.JobRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, models.JobRecord{
			Date:        tableDate(cellAt(row, date), year),
			Job:         cellAt(row, job),
			Trucks:      cellAt(row, trucks),
			Description: cellAt(row, desc),
			Concrete:    cellAt(row, concrete),
			ConcreteYds: cellAt(row, concreteYds),
			Stone:       cellAt(row, stone),
			StoneLds:    cellAt(row, stoneLds),
		})
	}
	return out
}
