package parser

import (
	"strings"
	"time"

	"github.com/rbastia/amadaily/pkg/amadaily/models"
)

// JobSheetConfig configures job sheet extraction.
type JobSheetConfig struct {
	Sheet       string
	DefaultYear int
	// JobMarker opens a job group when found in column 0.
	JobMarker string
	// ConcreteMarker and StoneMarker identify a group's material rows.
	ConcreteMarker string
	StoneMarker    string
}

// DefaultJobSheetConfig returns the configuration for the standard job sheet.
func DefaultJobSheetConfig(sheet string, defaultYear int) JobSheetConfig {
	return JobSheetConfig{
		Sheet:          sheet,
		DefaultYear:    defaultYear,
		JobMarker:      "Job & Truck",
		ConcreteMarker: "Concrete",
		StoneMarker:    "Stone",
	}
}

// dayPair is one day's two-column field layout: most fields come from the
// day-name column, paired numeric or list fields from the date column.
type dayPair struct {
	dayCol  int
	dateCol int
	date    time.Time
}

// jobGroup holds the rows belonging to one "Job & Truck" block.
type jobGroup struct {
	jobRow      int
	descRow     int
	concreteRow int
	stoneRow    int
}

// ExtractJobSheet reads the job sheet into one record per (job group, day)
// with at least one non-empty field. Row 0 alternates day names and dates.
func ExtractJobSheet(g *models.Grid, cfg JobSheetConfig) ([]models.JobRecord, error) {
	if g.Rows() == 0 {
		return nil, nil
	}

	pairs := dayPairs(g, cfg.DefaultYear)
	if len(pairs) == 0 {
		return nil, &LayoutError{
			Sheet:  cfg.Sheet,
			Anchor: "date header",
			Found:  "row 1 holds no parseable dates",
		}
	}

	var records []models.JobRecord
	for _, grp := range jobGroups(g, cfg) {
		for _, p := range pairs {
			rec := models.JobRecord{
				Date:        p.date,
				Job:         cleanField(g.At(grp.jobRow, p.dayCol)),
				Trucks:      NormalizeTrucks(cleanField(g.At(grp.jobRow, p.dateCol))),
				Description: cleanField(g.At(grp.descRow, p.dayCol)),
				Concrete:    cleanField(g.At(grp.concreteRow, p.dayCol)),
				ConcreteYds: cleanField(g.At(grp.concreteRow, p.dateCol)),
				Stone:       cleanField(g.At(grp.stoneRow, p.dayCol)),
				StoneLds:    cleanField(g.At(grp.stoneRow, p.dateCol)),
			}
			if hasAnyField(rec) {
				records = append(records, rec)
			}
		}
	}
	return records, nil
}

// dayPairs finds header columns holding dates and pairs each with the
// column before it.
func dayPairs(g *models.Grid, defaultYear int) []dayPair {
	var pairs []dayPair
	for c := 0; c < g.Cols(); c++ {
		cell := g.At(0, c)
		if cell.IsEmpty() {
			continue
		}
		if cell.Kind != models.CellTime && !hasDateSeparator(cell.String()) {
			continue
		}
		d, ok := ResolveDate(cell, defaultYear)
		if !ok {
			continue
		}
		dayCol := c - 1
		if dayCol < 0 {
			dayCol = c
		}
		pairs = append(pairs, dayPair{dayCol: dayCol, dateCol: c, date: d})
	}
	return pairs
}

// jobGroups scans column 0 top to bottom. Material rows attach to the most
// recent job marker; a later row of the same kind replaces an earlier one.
// Rows that were never seen stay at -1 and read as empty.
func jobGroups(g *models.Grid, cfg JobSheetConfig) []jobGroup {
	var groups []jobGroup
	for r := 0; r < g.Rows(); r++ {
		label := g.At(r, 0).String()
		switch {
		case strings.Contains(label, cfg.JobMarker):
			groups = append(groups, jobGroup{jobRow: r, descRow: r + 1, concreteRow: -1, stoneRow: -1})
		case len(groups) == 0:
		case strings.Contains(label, cfg.ConcreteMarker):
			groups[len(groups)-1].concreteRow = r
		case strings.Contains(label, cfg.StoneMarker):
			groups[len(groups)-1].stoneRow = r
		}
	}
	return groups
}

func hasAnyField(r models.JobRecord) bool {
	for _, v := range []string{r.Job, r.Trucks, r.Description, r.Concrete, r.ConcreteYds, r.Stone, r.StoneLds} {
		if v != "" {
			return true
		}
	}
	return false
}

// cleanField trims a cell, removes double quotes and re-joins comma lists
// that contain numbers with ", ".
func cleanField(c models.Cell) string {
	s := c.String()
	if strings.EqualFold(s, "nan") {
		return ""
	}
	s = strings.ReplaceAll(s, `"`, "")

	var parts []string
	numeric := false
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parts = append(parts, p)
		if isDigits(p) {
			numeric = true
		}
	}
	if len(parts) > 1 && numeric {
		return strings.Join(parts, ", ")
	}
	return strings.TrimSpace(s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
