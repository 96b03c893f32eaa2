package models

import "time"

// JobRecordColumns are the column headers of a normalized job sheet table.
var JobRecordColumns = []string{"Date", "Job", "Truck(s)", "Description", "Concrete", "Concrete Yds", "Stone", "Stone Lds"}

// JobRecord is one job's material and truck entry for one day.
type JobRecord struct {
	Date        time.Time
	Job         string
	Trucks      string
	Description string
	Concrete    string
	ConcreteYds string
	Stone       string
	StoneLds    string
}

// Values returns the record as a row matching JobRecordColumns.
func (j JobRecord) Values() []interface{} {
	return []interface{}{
		FormatDate(j.Date), j.Job, j.Trucks, j.Description,
		j.Concrete, j.ConcreteYds, j.Stone, j.StoneLds,
	}
}
