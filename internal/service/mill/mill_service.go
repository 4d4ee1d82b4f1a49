package mill

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/weaver/internal/domain/models"
)

// ErrInvalidInput indicates a submission was rejected before reaching the store.
var ErrInvalidInput = errors.New("invalid input")

// ErrUnknownLoom indicates a production entry references a loom that cannot be
// resolved while its display labels are missing.
var ErrUnknownLoom = errors.New("unknown loom")

// Store is the persistence surface used by the registry.
type Store interface {
	CreateWorker(ctx context.Context, worker *models.Worker) error
	ListWorkers(ctx context.Context) ([]models.Worker, error)
	CreateShed(ctx context.Context, shed *models.Shed) error
	GetShed(ctx context.Context, id string) (models.Shed, error)
	CreateLoom(ctx context.Context, loom *models.Loom) error
	GetLoom(ctx context.Context, id string) (models.Loom, error)
	ListShedsWithLooms(ctx context.Context) ([]models.Shed, error)
	CreateProductionRecord(ctx context.Context, record *models.ProductionRecord) error
	GetProductionRecord(ctx context.Context, id string) (models.ProductionRecord, error)
	ListProductionRecords(ctx context.Context, filter models.ProductionFilter) ([]models.ProductionRecord, error)
}

// Service validates and persists workers, sheds, looms and production entries.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs the mill registry service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// CreateWorker registers a new active worker.
func (s *Service) CreateWorker(ctx context.Context, req models.WorkerCreateRequest) (models.Worker, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Worker{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	worker := models.Worker{
		Name:      name,
		Phone:     strings.TrimSpace(req.Phone),
		IsActive:  true,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateWorker(ctx, &worker); err != nil {
		return models.Worker{}, err
	}

	s.logger.Info("worker created", zap.String("worker_id", worker.ID))
	return worker, nil
}

// ListWorkers returns every worker.
func (s *Service) ListWorkers(ctx context.Context) ([]models.Worker, error) {
	return s.store.ListWorkers(ctx)
}

// CreateShed creates a shed. Shed names are stored upper-case.
func (s *Service) CreateShed(ctx context.Context, req models.ShedCreateRequest) (models.Shed, error) {
	name := strings.ToUpper(strings.TrimSpace(req.Name))
	if name == "" {
		return models.Shed{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	shed := models.Shed{Name: name, CreatedAt: s.now().UTC()}
	if err := s.store.CreateShed(ctx, &shed); err != nil {
		return models.Shed{}, err
	}

	s.logger.Info("shed created", zap.String("shed_id", shed.ID), zap.String("name", shed.Name))
	return shed, nil
}

// CreateLoom adds a loom to an existing shed.
func (s *Service) CreateLoom(ctx context.Context, req models.LoomCreateRequest) (models.Loom, error) {
	shedID := strings.TrimSpace(req.ShedID)
	number := strings.TrimSpace(req.LoomNumber)
	if shedID == "" || number == "" {
		return models.Loom{}, fmt.Errorf("%w: shed_id and loom_number are required", ErrInvalidInput)
	}

	if _, err := s.store.GetShed(ctx, shedID); err != nil {
		return models.Loom{}, err
	}

	loom := models.Loom{ShedID: shedID, LoomNumber: number, CreatedAt: s.now().UTC()}
	if err := s.store.CreateLoom(ctx, &loom); err != nil {
		return models.Loom{}, err
	}

	s.logger.Info("loom created", zap.String("loom_id", loom.ID), zap.String("shed_id", shedID))
	return loom, nil
}

// ShedHierarchy returns every shed with its looms nested.
func (s *Service) ShedHierarchy(ctx context.Context) ([]models.ShedNode, error) {
	sheds, err := s.store.ListShedsWithLooms(ctx)
	if err != nil {
		return nil, err
	}

	nodes := make([]models.ShedNode, 0, len(sheds))
	for _, shed := range sheds {
		node := models.ShedNode{ID: shed.ID, Name: shed.Name, Looms: make([]models.LoomNode, 0, len(shed.Looms))}
		for _, l := range shed.Looms {
			node.Looms = append(node.Looms, models.LoomNode{ID: l.ID, LoomNumber: l.LoomNumber})
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// RecordProduction validates an entry, derives its total amount and persists it.
func (s *Service) RecordProduction(ctx context.Context, req models.ProductionCreateRequest) (models.ProductionRecord, error) {
	record, err := s.buildProductionRecord(req)
	if err != nil {
		return models.ProductionRecord{}, err
	}

	if record.ShedName == "" || record.LoomNumber == "" {
		if err := s.resolveLoomLabels(ctx, &record); err != nil {
			return models.ProductionRecord{}, err
		}
	}

	if err := s.store.CreateProductionRecord(ctx, &record); err != nil {
		return models.ProductionRecord{}, err
	}

	s.logger.Info("production recorded",
		zap.String("record_id", record.ID),
		zap.String("worker_id", record.WorkerID),
		zap.String("date", record.Date),
		zap.Float64("total_amount", record.TotalAmount))
	return record, nil
}

// GetProductionRecord reads back a stored production record.
func (s *Service) GetProductionRecord(ctx context.Context, id string) (models.ProductionRecord, error) {
	return s.store.GetProductionRecord(ctx, id)
}

// ProductionMeters sums the meters a worker produced on a loom for one day.
// No matching records yields a zero payload.
func (s *Service) ProductionMeters(ctx context.Context, q models.ProductionMetersQuery) (models.ProductionMeters, error) {
	if strings.TrimSpace(q.WorkerID) == "" || strings.TrimSpace(q.LoomID) == "" {
		return models.ProductionMeters{}, fmt.Errorf("%w: worker_id and loom_id are required", ErrInvalidInput)
	}
	if _, err := time.Parse(models.DateLayout, q.Date); err != nil {
		return models.ProductionMeters{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidInput, q.Date)
	}

	records, err := s.store.ListProductionRecords(ctx, models.ProductionFilter{
		WorkerID:  q.WorkerID,
		LoomID:    q.LoomID,
		StartDate: q.Date,
		EndDate:   q.Date,
	})
	if err != nil {
		return models.ProductionMeters{}, err
	}

	result := models.ProductionMeters{WorkerID: q.WorkerID, LoomID: q.LoomID, Date: q.Date}
	for _, r := range records {
		result.Meters += r.Meters
		result.Records++
	}
	return result, nil
}

func (s *Service) buildProductionRecord(req models.ProductionCreateRequest) (models.ProductionRecord, error) {
	workerID := strings.TrimSpace(req.WorkerID)
	loomID := strings.TrimSpace(req.LoomID)
	switch {
	case workerID == "":
		return models.ProductionRecord{}, fmt.Errorf("%w: worker_id is required", ErrInvalidInput)
	case loomID == "":
		return models.ProductionRecord{}, fmt.Errorf("%w: loom_id is required", ErrInvalidInput)
	case !req.Shift.Valid():
		return models.ProductionRecord{}, fmt.Errorf("%w: shift must be Day or Night", ErrInvalidInput)
	case req.Meters <= 0:
		return models.ProductionRecord{}, fmt.Errorf("%w: meters must be positive", ErrInvalidInput)
	case req.Rate <= 0:
		return models.ProductionRecord{}, fmt.Errorf("%w: rate must be positive", ErrInvalidInput)
	}

	date, err := time.Parse(models.DateLayout, req.Date)
	if err != nil {
		return models.ProductionRecord{}, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidInput, req.Date)
	}

	total := req.Meters * req.Rate
	if math.IsInf(total, 0) || math.IsNaN(total) {
		return models.ProductionRecord{}, fmt.Errorf("%w: meters * rate overflows", ErrInvalidInput)
	}

	return models.ProductionRecord{
		WorkerID:    workerID,
		LoomID:      loomID,
		Date:        date.Format(models.DateLayout),
		Shift:       req.Shift,
		Meters:      req.Meters,
		Rate:        req.Rate,
		TotalAmount: total,
		ShedName:    strings.TrimSpace(req.ShedName),
		LoomNumber:  strings.TrimSpace(req.LoomNumber),
		CreatedAt:   s.now().UTC(),
	}, nil
}

func (s *Service) resolveLoomLabels(ctx context.Context, record *models.ProductionRecord) error {
	loom, err := s.store.GetLoom(ctx, record.LoomID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUnknownLoom, record.LoomID)
		}
		return err
	}
	if record.LoomNumber == "" {
		record.LoomNumber = loom.LoomNumber
	}

	if record.ShedName == "" {
		shed, err := s.store.GetShed(ctx, loom.ShedID)
		switch {
		case err == nil:
			record.ShedName = shed.Name
		case errors.Is(err, models.ErrNotFound):
			s.logger.Warn("loom references a missing shed", zap.String("loom_id", loom.ID), zap.String("shed_id", loom.ShedID))
		default:
			return err
		}
	}
	return nil
}
