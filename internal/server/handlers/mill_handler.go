package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/weaver/internal/domain/models"
)

// MillService is the registry behaviour exposed over HTTP.
type MillService interface {
	CreateWorker(ctx context.Context, req models.WorkerCreateRequest) (models.Worker, error)
	ListWorkers(ctx context.Context) ([]models.Worker, error)
	CreateShed(ctx context.Context, req models.ShedCreateRequest) (models.Shed, error)
	CreateLoom(ctx context.Context, req models.LoomCreateRequest) (models.Loom, error)
	ShedHierarchy(ctx context.Context) ([]models.ShedNode, error)
	RecordProduction(ctx context.Context, req models.ProductionCreateRequest) (models.ProductionRecord, error)
	GetProductionRecord(ctx context.Context, id string) (models.ProductionRecord, error)
	ProductionMeters(ctx context.Context, q models.ProductionMetersQuery) (models.ProductionMeters, error)
}

// MillHandler serves workers, sheds, looms and production entries.
type MillHandler struct {
	svc    MillService
	logger *zap.Logger
}

// NewMillHandler constructs the HTTP handler adapter.
func NewMillHandler(svc MillService, logger *zap.Logger) *MillHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MillHandler{svc: svc, logger: logger}
}

// CreateWorker registers a worker.
func (h *MillHandler) CreateWorker(c *gin.Context) {
	var req models.WorkerCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	worker, err := h.svc.CreateWorker(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, "failed to create worker", err)
		return
	}
	c.JSON(http.StatusCreated, worker)
}

// ListWorkers returns every worker.
func (h *MillHandler) ListWorkers(c *gin.Context) {
	workers, err := h.svc.ListWorkers(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "failed to list workers", err)
		return
	}
	if workers == nil {
		workers = []models.Worker{}
	}
	c.JSON(http.StatusOK, workers)
}

// CreateShed accepts the name as JSON body or query parameter.
func (h *MillHandler) CreateShed(c *gin.Context) {
	var req models.ShedCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	shed, err := h.svc.CreateShed(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, "failed to create shed", err)
		return
	}
	c.JSON(http.StatusCreated, shed)
}

// CreateLoom accepts shed_id and loom_number as JSON body or query parameters.
func (h *MillHandler) CreateLoom(c *gin.Context) {
	var req models.LoomCreateRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	loom, err := h.svc.CreateLoom(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, "failed to create loom", err)
		return
	}
	c.JSON(http.StatusCreated, loom)
}

// ShedHierarchy returns sheds with their looms nested.
func (h *MillHandler) ShedHierarchy(c *gin.Context) {
	nodes, err := h.svc.ShedHierarchy(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, "failed to load sheds", err)
		return
	}
	c.JSON(http.StatusOK, nodes)
}

// CreateProduction records a production entry.
func (h *MillHandler) CreateProduction(c *gin.Context) {
	var req models.ProductionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	record, err := h.svc.RecordProduction(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, "failed to record production", err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// GetProduction reads a production record by id.
func (h *MillHandler) GetProduction(c *gin.Context) {
	record, err := h.svc.GetProductionRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, "failed to load production record", err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// ProductionMeters returns the meters a worker logged on a loom for a day.
func (h *MillHandler) ProductionMeters(c *gin.Context) {
	var q models.ProductionMetersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	result, err := h.svc.ProductionMeters(c.Request.Context(), q)
	if err != nil {
		writeError(c, h.logger, "failed to sum production meters", err)
		return
	}
	c.JSON(http.StatusOK, result)
}
