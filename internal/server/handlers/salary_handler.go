package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/weaver/internal/domain/models"
)

// SalaryService computes salary reports.
type SalaryService interface {
	Calculate(ctx context.Context, workerID, start, end string) (models.SalaryReport, error)
}

// SalaryHandler serves salary calculations.
type SalaryHandler struct {
	svc    SalaryService
	logger *zap.Logger
}

// NewSalaryHandler constructs the salary handler.
func NewSalaryHandler(svc SalaryService, logger *zap.Logger) *SalaryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalaryHandler{svc: svc, logger: logger}
}

// Calculate aggregates a worker's production over an inclusive date range.
func (h *SalaryHandler) Calculate(c *gin.Context) {
	var q models.SalaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	report, err := h.svc.Calculate(c.Request.Context(), q.WorkerID, q.StartDate, q.EndDate)
	if err != nil {
		writeError(c, h.logger, "failed to calculate salary", err)
		return
	}
	c.JSON(http.StatusOK, report)
}
