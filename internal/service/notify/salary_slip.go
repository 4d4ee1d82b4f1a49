package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/weaver/internal/domain/models"
	"github.com/mamadbah2/weaver/pkg/clients/whatsapp"
)

// WorkerReader resolves the worker a payroll report belongs to.
type WorkerReader interface {
	GetWorker(ctx context.Context, id string) (models.Worker, error)
}

// SalarySlipNotifier sends each worker their weekly payroll summary over WhatsApp.
type SalarySlipNotifier struct {
	sender  whatsapp.Sender
	workers WorkerReader
	logger  *zap.Logger
}

// NewSalarySlipNotifier wires the notifier.
func NewSalarySlipNotifier(sender whatsapp.Sender, workers WorkerReader, logger *zap.Logger) *SalarySlipNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalarySlipNotifier{sender: sender, workers: workers, logger: logger}
}

// ExportPayroll messages the worker behind report. Workers without a phone
// number are skipped.
func (n *SalarySlipNotifier) ExportPayroll(ctx context.Context, report models.PayrollReport) error {
	worker, err := n.workers.GetWorker(ctx, report.WorkerID)
	if err != nil {
		return fmt.Errorf("load worker %s: %w", report.WorkerID, err)
	}

	to := normalizePhone(worker.Phone)
	if to == "" {
		n.logger.Debug("worker has no phone, salary slip skipped", zap.String("worker_id", worker.ID))
		return nil
	}

	messageID, err := n.sender.SendText(ctx, to, FormatSalarySlip(report))
	if err != nil {
		return err
	}

	n.logger.Info("salary slip sent", zap.String("worker_id", worker.ID), zap.String("message_id", messageID))
	return nil
}

// FormatSalarySlip renders the text body of a salary slip.
func FormatSalarySlip(report models.PayrollReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n", report.WorkerName)
	fmt.Fprintf(&b, "Salary slip %s to %s\n", report.PeriodStart, report.PeriodEnd)
	fmt.Fprintf(&b, "Entries: %d\n", report.Records)
	fmt.Fprintf(&b, "Meters: %s\n", formatAmount(report.TotalMeters))
	fmt.Fprintf(&b, "Salary: %s", formatAmount(report.TotalSalary))
	return b.String()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// normalizePhone strips everything but digits from phone.
func normalizePhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
}
