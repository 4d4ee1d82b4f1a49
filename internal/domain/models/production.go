package models

import (
	"encoding/json"
	"time"
)

// DateLayout is the ISO-8601 calendar day format used for every stored date.
// Zero padding keeps lexical and chronological order identical.
const DateLayout = "2006-01-02"

// Shift enumerates the two working shifts of the mill.
type Shift string

const (
	ShiftDay   Shift = "Day"
	ShiftNight Shift = "Night"
)

// Valid reports whether s is one of the known shifts.
func (s Shift) Valid() bool {
	return s == ShiftDay || s == ShiftNight
}

// ProductionRecord is one logged unit of work: a worker on a loom for a shift.
// Records are written once and never updated.
type ProductionRecord struct {
	ID          string    `bson:"_id" json:"id" gorm:"primaryKey;type:varchar(64)"`
	WorkerID    string    `bson:"worker_id" json:"worker_id" gorm:"type:varchar(64);not null;index:idx_production_worker_date,priority:1"`
	LoomID      string    `bson:"loom_id" json:"loom_id" gorm:"type:varchar(64);not null;index"`
	Date        string    `bson:"date" json:"date" gorm:"type:varchar(10);not null;index:idx_production_worker_date,priority:2"`
	Shift       Shift     `bson:"shift" json:"shift" gorm:"type:varchar(8);not null"`
	Meters      float64   `bson:"meters" json:"meters" gorm:"not null"`
	Rate        float64   `bson:"rate" json:"rate" gorm:"not null"`
	TotalAmount float64   `bson:"total_amount" json:"total_amount" gorm:"not null"`
	ShedName    string    `bson:"shed_name,omitempty" json:"shed_name,omitempty" gorm:"size:64"`
	LoomNumber  string    `bson:"loom_number,omitempty" json:"loom_number,omitempty" gorm:"size:32"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// LoomLabel is the display label of the loom, e.g. "A12".
func (r ProductionRecord) LoomLabel() string {
	return r.ShedName + r.LoomNumber
}

// ProductionFilter narrows production reads. Empty fields do not filter.
// StartDate and EndDate are inclusive bounds.
type ProductionFilter struct {
	WorkerID  string
	LoomID    string
	StartDate string
	EndDate   string
}

// Matches reports whether the record satisfies every non-empty filter field.
func (f ProductionFilter) Matches(r ProductionRecord) bool {
	if f.WorkerID != "" && r.WorkerID != f.WorkerID {
		return false
	}
	if f.LoomID != "" && r.LoomID != f.LoomID {
		return false
	}
	if f.StartDate != "" && r.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && r.Date > f.EndDate {
		return false
	}
	return true
}

// ProductionMeters is the meters logged by a worker on a loom for one day.
type ProductionMeters struct {
	WorkerID string  `json:"worker_id"`
	LoomID   string  `json:"loom_id"`
	Date     string  `json:"date"`
	Meters   float64 `json:"meters"`
	Records  int     `json:"records"`
}

// MarshalJSON encodes meters as a float.
func (m ProductionMeters) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		WorkerID string `json:"worker_id"`
		LoomID   string `json:"loom_id"`
		Date     string `json:"date"`
		Meters   Amount `json:"meters"`
		Records  int    `json:"records"`
	}{m.WorkerID, m.LoomID, m.Date, Amount(m.Meters), m.Records})
}
