package models

import "time"

// PayrollReport is the persisted weekly salary snapshot of one worker.
type PayrollReport struct {
	ID          string    `bson:"_id" json:"id" gorm:"primaryKey;type:varchar(64)"`
	WorkerID    string    `bson:"worker_id" json:"worker_id" gorm:"type:varchar(64);not null;index"`
	WorkerName  string    `bson:"worker_name" json:"worker_name" gorm:"size:255"`
	PeriodStart string    `bson:"period_start" json:"period_start" gorm:"type:varchar(10);not null"`
	PeriodEnd   string    `bson:"period_end" json:"period_end" gorm:"type:varchar(10);not null"`
	TotalMeters float64   `bson:"total_meters" json:"total_meters"`
	TotalSalary float64   `bson:"total_salary" json:"total_salary"`
	Records     int       `bson:"records" json:"records"`
	GeneratedAt time.Time `bson:"generated_at" json:"generated_at"`
}
