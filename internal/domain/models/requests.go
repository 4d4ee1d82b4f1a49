package models

// WorkerCreateRequest is the payload to register a worker.
type WorkerCreateRequest struct {
	Name  string `json:"name" form:"name" binding:"required"`
	Phone string `json:"phone" form:"phone"`
}

// ShedCreateRequest is the payload to create a shed.
type ShedCreateRequest struct {
	Name string `json:"name" form:"name" binding:"required"`
}

// LoomCreateRequest is the payload to add a loom to a shed.
type LoomCreateRequest struct {
	ShedID     string `json:"shed_id" form:"shed_id" binding:"required"`
	LoomNumber string `json:"loom_number" form:"loom_number" binding:"required"`
}

// ProductionCreateRequest is a production entry submission. ShedName and
// LoomNumber are optional; they are resolved from the loom when omitted.
type ProductionCreateRequest struct {
	WorkerID   string  `json:"worker_id" binding:"required"`
	LoomID     string  `json:"loom_id" binding:"required"`
	Date       string  `json:"date" binding:"required"`
	Shift      Shift   `json:"shift" binding:"required,oneof=Day Night"`
	Meters     float64 `json:"meters" binding:"required,gt=0"`
	Rate       float64 `json:"rate" binding:"required,gt=0"`
	ShedName   string  `json:"shed_name"`
	LoomNumber string  `json:"loom_number"`
}

// ProductionMetersQuery selects the production of one worker on one loom for a day.
type ProductionMetersQuery struct {
	WorkerID string `form:"worker_id" binding:"required"`
	LoomID   string `form:"loom_id" binding:"required"`
	Date     string `form:"date" binding:"required"`
}

// SalaryQuery holds the query parameters of a salary calculation.
type SalaryQuery struct {
	WorkerID  string `form:"worker_id" binding:"required"`
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
}
