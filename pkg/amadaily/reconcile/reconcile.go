package reconcile

import (
	"sort"
	"strings"

	"github.com/rbastia/amadaily/pkg/amadaily/models"
)

// DefaultThreshold is the minimum similarity for a fuzzy remap. It was tuned
// on observed job names rather than a labeled dataset.
const DefaultThreshold = 0.82

// Options configures reconciliation.
type Options struct {
	// Fuzzy enables approximate matching of keys left over after the exact join.
	Fuzzy bool
	// Threshold is the minimum similarity; DefaultThreshold when zero.
	Threshold float64
}

// DefaultOptions returns fuzzy matching at DefaultThreshold.
func DefaultOptions() Options {
	return Options{Fuzzy: true, Threshold: DefaultThreshold}
}

type joinKey struct {
	day string
	job string
}

// rightSide indexes job sheet records by (date, canonical job).
type rightSide struct {
	rows map[joinKey][]int
	// keysByDay lists distinct canonical jobs per date in first-seen order.
	keysByDay map[string][]string
}

func indexJobs(jobs []models.JobRecord) rightSide {
	rs := rightSide{rows: make(map[joinKey][]int), keysByDay: make(map[string][]string)}
	for j, rec := range jobs {
		k := joinKey{models.FormatDate(rec.Date), NormalizeJob(rec.Job)}
		if _, seen := rs.rows[k]; !seen {
			rs.keysByDay[k.day] = append(rs.keysByDay[k.day], k.job)
		}
		rs.rows[k] = append(rs.rows[k], j)
	}
	return rs
}

// Reconcile outer-joins labor summaries with job records on (date, canonical
// job). With fuzzy matching on, an unmatched labor key is remapped to a job
// key on the same date when exactly one candidate clears the threshold;
// ambiguous candidates leave the row unmatched. Rows are sorted by
// case-insensitive job, then date, keeping input order for ties.
func Reconcile(labor []models.LaborSummary, jobs []models.JobRecord, opts Options) *models.Report {
	right := indexJobs(jobs)

	leftKeys := make([]joinKey, len(labor))
	for i, s := range labor {
		leftKeys[i] = joinKey{models.FormatDate(s.Date), NormalizeJob(s.Job)}
	}

	var remaps []models.Remap
	if opts.Fuzzy {
		threshold := opts.Threshold
		if threshold <= 0 {
			threshold = DefaultThreshold
		}
		remaps = fuzzyRemap(labor, leftKeys, right, threshold)
	}

	matched := make([]bool, len(jobs))
	rows := make([]models.ReportRow, 0, len(labor)+len(jobs))
	for i, s := range labor {
		js := right.rows[leftKeys[i]]
		if len(js) == 0 {
			rows = append(rows, mergeRow(&s, nil))
			continue
		}
		for _, j := range js {
			rows = append(rows, mergeRow(&s, &jobs[j]))
			matched[j] = true
		}
	}
	for j := range jobs {
		if !matched[j] {
			rows = append(rows, mergeRow(nil, &jobs[j]))
		}
	}

	sortRows(rows)
	return &models.Report{
		Columns: append([]string(nil), models.ReportColumns...),
		Rows:    rows,
		Remaps:  remaps,
	}
}

// fuzzyRemap rewrites leftKeys in place for unambiguous approximate matches
// and returns the substitutions made.
func fuzzyRemap(labor []models.LaborSummary, leftKeys []joinKey, right rightSide, threshold float64) []models.Remap {
	decided := make(map[joinKey]string)
	var remaps []models.Remap
	for i, k := range leftKeys {
		if k.job == "" {
			continue
		}
		if _, ok := right.rows[k]; ok {
			continue
		}
		target, done := decided[k]
		if !done {
			var score float64
			target, score = uniqueCandidate(k.job, right.keysByDay[k.day], threshold)
			decided[k] = target
			if target != "" {
				remaps = append(remaps, models.Remap{Date: labor[i].Date, From: k.job, To: target, Score: score})
			}
		}
		if target != "" {
			leftKeys[i].job = target
		}
	}
	return remaps
}

// uniqueCandidate returns the only candidate scoring at least threshold,
// or "" when none or several do.
func uniqueCandidate(key string, candidates []string, threshold float64) (string, float64) {
	found, best := "", 0.0
	hits := 0
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if score := Similarity(key, c); score >= threshold {
			hits++
			found, best = c, score
		}
	}
	if hits != 1 {
		return "", 0
	}
	return found, best
}

func mergeRow(labor *models.LaborSummary, job *models.JobRecord) models.ReportRow {
	var row models.ReportRow
	if labor != nil {
		row.Date = labor.Date
		row.Job = labor.Job
		row.HasLabor = true
		row.EmployeeCount = labor.EmployeeCount
		row.WorkingHours = labor.TotalHours
		row.DrivingHours = labor.DrivingHours
		row.Employees = labor.Employees
	}
	if job != nil {
		if labor == nil {
			row.Date = job.Date
		}
		if strings.TrimSpace(job.Job) != "" || labor == nil {
			row.Job = job.Job
		}
		row.HasJob = true
		row.Trucks = job.Trucks
		row.Description = job.Description
		row.Concrete = job.Concrete
		row.ConcreteYds = job.ConcreteYds
		row.Stone = job.Stone
		row.StoneLds = job.StoneLds
	}
	return row
}

func sortRows(rows []models.ReportRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a := strings.ToLower(strings.TrimSpace(rows[i].Job))
		b := strings.ToLower(strings.TrimSpace(rows[j].Job))
		if a != b {
			return a < b
		}
		return rows[i].Date.Before(rows[j].Date)
	})
}
