package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mamadbah2/weaver/internal/domain/models"
	"github.com/mamadbah2/weaver/internal/repository"
)

var _ repository.Store = (*Repository)(nil)

// Repository implements repository.Store on PostgreSQL through GORM.
type Repository struct {
	db          *gorm.DB
	autoMigrate bool
	logger      *zap.Logger
	now         func() time.Time
}

// NewRepository opens a PostgreSQL connection for the given DSN.
func NewRepository(dsn string, autoMigrate bool, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dsn == "" {
		return nil, errors.New("postgres dsn must not be empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect postgres database: %w", err)
	}

	return newWithDB(db, autoMigrate, logger), nil
}

func newWithDB(db *gorm.DB, autoMigrate bool, logger *zap.Logger) *Repository {
	return &Repository{db: db, autoMigrate: autoMigrate, logger: logger, now: time.Now}
}

// Migrate runs AutoMigrate for every table unless auto-migration is disabled.
// Tables are migrated individually so one failure does not block the others.
func (r *Repository) Migrate(ctx context.Context) error {
	if !r.autoMigrate {
		r.logger.Info("auto migration disabled, skipping")
		return nil
	}

	tables := []interface{}{
		&models.Worker{},
		&models.Shed{},
		&models.Loom{},
		&models.ProductionRecord{},
		&models.PayrollReport{},
	}

	var firstErr error
	for _, t := range tables {
		if err := r.db.WithContext(ctx).AutoMigrate(t); err != nil {
			r.logger.Warn("migration warning", zap.String("model", fmt.Sprintf("%T", t)), zap.Error(err))
			if firstErr == nil {
				firstErr = fmt.Errorf("auto migrate %T: %w", t, err)
			}
		}
	}
	return firstErr
}

// CreateWorker inserts a worker row.
func (r *Repository) CreateWorker(ctx context.Context, worker *models.Worker) error {
	worker.ID = uuid.NewString()
	if worker.CreatedAt.IsZero() {
		worker.CreatedAt = r.now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(worker).Error; err != nil {
		return fmt.Errorf("failed to insert worker: %w", err)
	}
	return nil
}

// GetWorker loads a worker by ID.
func (r *Repository) GetWorker(ctx context.Context, id string) (models.Worker, error) {
	var worker models.Worker
	if err := r.first(ctx, &worker, id); err != nil {
		return models.Worker{}, fmt.Errorf("worker %s: %w", id, err)
	}
	return worker, nil
}

// ListWorkers returns all workers ordered by name.
func (r *Repository) ListWorkers(ctx context.Context) ([]models.Worker, error) {
	workers := make([]models.Worker, 0)
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&workers).Error; err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	return workers, nil
}

// CreateShed inserts a shed row.
func (r *Repository) CreateShed(ctx context.Context, shed *models.Shed) error {
	shed.ID = uuid.NewString()
	if shed.CreatedAt.IsZero() {
		shed.CreatedAt = r.now().UTC()
	}
	if err := r.db.WithContext(ctx).Omit("Looms").Create(shed).Error; err != nil {
		return fmt.Errorf("failed to insert shed: %w", err)
	}
	return nil
}

// GetShed loads a shed by ID.
func (r *Repository) GetShed(ctx context.Context, id string) (models.Shed, error) {
	var shed models.Shed
	if err := r.first(ctx, &shed, id); err != nil {
		return models.Shed{}, fmt.Errorf("shed %s: %w", id, err)
	}
	return shed, nil
}

// CreateLoom inserts a loom row. The foreign key guarantees the shed exists.
func (r *Repository) CreateLoom(ctx context.Context, loom *models.Loom) error {
	loom.ID = uuid.NewString()
	if loom.CreatedAt.IsZero() {
		loom.CreatedAt = r.now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(loom).Error; err != nil {
		return fmt.Errorf("failed to insert loom: %w", err)
	}
	return nil
}

// GetLoom loads a loom by ID.
func (r *Repository) GetLoom(ctx context.Context, id string) (models.Loom, error) {
	var loom models.Loom
	if err := r.first(ctx, &loom, id); err != nil {
		return models.Loom{}, fmt.Errorf("loom %s: %w", id, err)
	}
	return loom, nil
}

// ListShedsWithLooms loads sheds with their looms preloaded.
func (r *Repository) ListShedsWithLooms(ctx context.Context) ([]models.Shed, error) {
	sheds := make([]models.Shed, 0)
	err := r.db.WithContext(ctx).
		Preload("Looms", func(tx *gorm.DB) *gorm.DB { return tx.Order("loom_number ASC") }).
		Order("name ASC").
		Find(&sheds).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sheds: %w", err)
	}
	return sheds, nil
}

// CreateProductionRecord inserts an immutable production record.
func (r *Repository) CreateProductionRecord(ctx context.Context, record *models.ProductionRecord) error {
	record.ID = uuid.NewString()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = r.now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to insert production record: %w", err)
	}
	return nil
}

// GetProductionRecord loads a production record by ID.
func (r *Repository) GetProductionRecord(ctx context.Context, id string) (models.ProductionRecord, error) {
	var record models.ProductionRecord
	if err := r.first(ctx, &record, id); err != nil {
		return models.ProductionRecord{}, fmt.Errorf("production record %s: %w", id, err)
	}
	return record, nil
}

// ListProductionRecords runs the range query ordered by date.
func (r *Repository) ListProductionRecords(ctx context.Context, filter models.ProductionFilter) ([]models.ProductionRecord, error) {
	records := make([]models.ProductionRecord, 0)
	err := applyProductionFilter(r.db.WithContext(ctx), filter).
		Order("date ASC").
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list production records: %w", err)
	}
	return records, nil
}

// SavePayrollReport inserts a payroll report row.
func (r *Repository) SavePayrollReport(ctx context.Context, report *models.PayrollReport) error {
	report.ID = uuid.NewString()
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("failed to insert payroll report: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *Repository) Close(context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r *Repository) first(ctx context.Context, out interface{}, id string) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).First(out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return err
}

func applyProductionFilter(tx *gorm.DB, filter models.ProductionFilter) *gorm.DB {
	if filter.WorkerID != "" {
		tx = tx.Where("worker_id = ?", filter.WorkerID)
	}
	if filter.LoomID != "" {
		tx = tx.Where("loom_id = ?", filter.LoomID)
	}
	if filter.StartDate != "" {
		tx = tx.Where("date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		tx = tx.Where("date <= ?", filter.EndDate)
	}
	return tx
}
