package sheets

import (
	"context"
	"errors"

	"github.com/mamadbah2/weaver/internal/domain/models"
)

// PayrollExporter appends payroll reports to a spreadsheet range, one row per report.
type PayrollExporter struct {
	repo       Repository
	sheetRange string
}

// NewPayrollExporter builds an exporter writing into sheetRange.
func NewPayrollExporter(repo Repository, sheetRange string) *PayrollExporter {
	return &PayrollExporter{repo: repo, sheetRange: sheetRange}
}

// ExportPayroll writes the report as a single row.
func (e *PayrollExporter) ExportPayroll(ctx context.Context, report models.PayrollReport) error {
	if e.repo == nil {
		return errors.New("sheets repository is not configured")
	}
	return e.repo.AppendRows(ctx, e.sheetRange, [][]interface{}{PayrollRow(report)})
}

// PayrollRow lays out a report as
// period start | period end | worker id | worker name | records | meters | salary.
func PayrollRow(report models.PayrollReport) []interface{} {
	return []interface{}{
		report.PeriodStart,
		report.PeriodEnd,
		report.WorkerID,
		report.WorkerName,
		report.Records,
		report.TotalMeters,
		report.TotalSalary,
	}
}
