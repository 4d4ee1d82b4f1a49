package repository

import (
	"context"

	"github.com/mamadbah2/weaver/internal/domain/models"
)

// Store defines the persistence operations shared by every storage backend.
// Implementations return models.ErrNotFound (wrapped) for missing entities.
type Store interface {
	CreateWorker(ctx context.Context, worker *models.Worker) error
	GetWorker(ctx context.Context, id string) (models.Worker, error)
	ListWorkers(ctx context.Context) ([]models.Worker, error)

	CreateShed(ctx context.Context, shed *models.Shed) error
	GetShed(ctx context.Context, id string) (models.Shed, error)
	CreateLoom(ctx context.Context, loom *models.Loom) error
	GetLoom(ctx context.Context, id string) (models.Loom, error)
	// ListShedsWithLooms returns every shed ordered by name with Looms populated.
	ListShedsWithLooms(ctx context.Context) ([]models.Shed, error)

	CreateProductionRecord(ctx context.Context, record *models.ProductionRecord) error
	GetProductionRecord(ctx context.Context, id string) (models.ProductionRecord, error)
	// ListProductionRecords returns matching records ordered by date ascending.
	ListProductionRecords(ctx context.Context, filter models.ProductionFilter) ([]models.ProductionRecord, error)

	SavePayrollReport(ctx context.Context, report *models.PayrollReport) error

	// Migrate prepares schema objects (tables or indexes) required by the backend.
	Migrate(ctx context.Context) error
	Close(ctx context.Context) error
}

// Supported store drivers.
const (
	DriverMongoDB  = "mongodb"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)
