package salary

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/weaver/internal/domain/models"
)

// ErrInvalidRange indicates a malformed worker identifier or date interval.
var ErrInvalidRange = errors.New("invalid salary range")

// RecordReader is the read side of the store needed for salary calculation.
type RecordReader interface {
	ListProductionRecords(ctx context.Context, filter models.ProductionFilter) ([]models.ProductionRecord, error)
}

// Service computes salary reports from production records.
type Service struct {
	records RecordReader
	logger  *zap.Logger
}

// NewService wires a new salary service instance.
func NewService(records RecordReader, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{records: records, logger: logger}
}

// Calculate validates the query, reads the worker's records in [start, end]
// and aggregates them.
func (s *Service) Calculate(ctx context.Context, workerID, start, end string) (models.SalaryReport, error) {
	if err := ValidateRange(workerID, start, end); err != nil {
		return models.SalaryReport{}, err
	}

	records, err := s.records.ListProductionRecords(ctx, models.ProductionFilter{
		WorkerID:  workerID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		return models.SalaryReport{}, fmt.Errorf("load production records: %w", err)
	}

	report := Aggregate(workerID, start, end, records)
	s.logger.Debug("salary calculated",
		zap.String("worker_id", workerID),
		zap.String("period", report.Summary.Period),
		zap.Int("records", len(report.Details)),
		zap.Float64("total_salary", report.Summary.TotalSalary))

	return report, nil
}

// ValidateRange checks that workerID is present and that start and end are
// ISO-8601 calendar days with start <= end.
func ValidateRange(workerID, start, end string) error {
	if strings.TrimSpace(workerID) == "" {
		return fmt.Errorf("%w: worker_id is required", ErrInvalidRange)
	}
	startDate, err := time.Parse(models.DateLayout, start)
	if err != nil {
		return fmt.Errorf("%w: start_date %q is not YYYY-MM-DD", ErrInvalidRange, start)
	}
	endDate, err := time.Parse(models.DateLayout, end)
	if err != nil {
		return fmt.Errorf("%w: end_date %q is not YYYY-MM-DD", ErrInvalidRange, end)
	}
	if startDate.After(endDate) {
		return fmt.Errorf("%w: start_date %s is after end_date %s", ErrInvalidRange, start, end)
	}
	return nil
}

// Aggregate folds the records of workerID dated within [start, end] into a
// salary report. Records of other workers or outside the range are ignored,
// so the result does not depend on how much the caller pre-filtered.
// Dates compare lexically, which is only sound for zero-padded YYYY-MM-DD.
func Aggregate(workerID, start, end string, records []models.ProductionRecord) models.SalaryReport {
	filter := models.ProductionFilter{WorkerID: workerID, StartDate: start, EndDate: end}

	matched := make([]models.ProductionRecord, 0, len(records))
	for _, r := range records {
		if filter.Matches(r) {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date < matched[j].Date })

	report := models.SalaryReport{
		Summary: models.SalarySummary{
			WorkerID: workerID,
			Period:   fmt.Sprintf("%s to %s", start, end),
		},
		Details: make([]models.SalaryDetail, 0, len(matched)),
	}

	for _, r := range matched {
		report.Details = append(report.Details, models.SalaryDetail{
			Date:   r.Date,
			Shift:  r.Shift,
			Meters: r.Meters,
			Amount: r.TotalAmount,
			Loom:   r.LoomLabel(),
			LoomID: r.LoomID,
		})
		report.Summary.TotalMeters += r.Meters
		report.Summary.TotalSalary += r.TotalAmount
	}

	return report
}
