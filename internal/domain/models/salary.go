package models

import "encoding/json"

// SalaryDetail is one production record as shown on a salary slip.
type SalaryDetail struct {
	Date   string  `json:"date"`
	Shift  Shift   `json:"shift"`
	Meters float64 `json:"meters"`
	Amount float64 `json:"amount"`
	Loom   string  `json:"loom"`
	LoomID string  `json:"loom_id"`
}

// MarshalJSON encodes meters and amount as floats.
func (d SalaryDetail) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date   string `json:"date"`
		Shift  Shift  `json:"shift"`
		Meters Amount `json:"meters"`
		Amount Amount `json:"amount"`
		Loom   string `json:"loom"`
		LoomID string `json:"loom_id"`
	}{d.Date, d.Shift, Amount(d.Meters), Amount(d.Amount), d.Loom, d.LoomID})
}

// SalarySummary holds the totals of a salary calculation.
type SalarySummary struct {
	WorkerID    string  `json:"worker_id"`
	Period      string  `json:"period"`
	TotalMeters float64 `json:"total_meters"`
	TotalSalary float64 `json:"total_salary"`
}

// MarshalJSON encodes the totals as floats even when they are whole.
func (s SalarySummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		WorkerID    string `json:"worker_id"`
		Period      string `json:"period"`
		TotalMeters Amount `json:"total_meters"`
		TotalSalary Amount `json:"total_salary"`
	}{s.WorkerID, s.Period, Amount(s.TotalMeters), Amount(s.TotalSalary)})
}

// SalaryReport is the result of aggregating a worker's records over a period.
type SalaryReport struct {
	Summary SalarySummary  `json:"summary"`
	Details []SalaryDetail `json:"details"`
}
