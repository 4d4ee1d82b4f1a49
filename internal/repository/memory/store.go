package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mamadbah2/weaver/internal/domain/models"
	"github.com/mamadbah2/weaver/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// Store keeps every entity in process memory. It backs local runs and tests.
type Store struct {
	mu         sync.RWMutex
	workers    map[string]models.Worker
	sheds      map[string]models.Shed
	looms      map[string]models.Loom
	production []models.ProductionRecord
	payroll    []models.PayrollReport
	now        func() time.Time
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		workers: make(map[string]models.Worker),
		sheds:   make(map[string]models.Shed),
		looms:   make(map[string]models.Loom),
		now:     time.Now,
	}
}

// CreateWorker stores the worker and assigns its ID.
func (s *Store) CreateWorker(_ context.Context, worker *models.Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	worker.ID = uuid.NewString()
	if worker.CreatedAt.IsZero() {
		worker.CreatedAt = s.now().UTC()
	}
	s.workers[worker.ID] = *worker
	return nil
}

// GetWorker returns a worker by ID.
func (s *Store) GetWorker(_ context.Context, id string) (models.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	worker, ok := s.workers[id]
	if !ok {
		return models.Worker{}, fmt.Errorf("worker %s: %w", id, models.ErrNotFound)
	}
	return worker, nil
}

// ListWorkers returns all workers ordered by name.
func (s *Store) ListWorkers(_ context.Context) ([]models.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	workers := make([]models.Worker, 0, len(s.workers))
	for _, w := range s.workers {
		workers = append(workers, w)
	}
	sort.Slice(workers, func(i, j int) bool {
		if workers[i].Name == workers[j].Name {
			return workers[i].ID < workers[j].ID
		}
		return workers[i].Name < workers[j].Name
	})
	return workers, nil
}

// CreateShed stores the shed and assigns its ID.
func (s *Store) CreateShed(_ context.Context, shed *models.Shed) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shed.ID = uuid.NewString()
	if shed.CreatedAt.IsZero() {
		shed.CreatedAt = s.now().UTC()
	}
	stored := *shed
	stored.Looms = nil
	s.sheds[shed.ID] = stored
	return nil
}

// GetShed returns a shed by ID.
func (s *Store) GetShed(_ context.Context, id string) (models.Shed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shed, ok := s.sheds[id]
	if !ok {
		return models.Shed{}, fmt.Errorf("shed %s: %w", id, models.ErrNotFound)
	}
	return shed, nil
}

// CreateLoom stores the loom and assigns its ID. The shed must exist.
func (s *Store) CreateLoom(_ context.Context, loom *models.Loom) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sheds[loom.ShedID]; !ok {
		return fmt.Errorf("shed %s: %w", loom.ShedID, models.ErrNotFound)
	}
	loom.ID = uuid.NewString()
	if loom.CreatedAt.IsZero() {
		loom.CreatedAt = s.now().UTC()
	}
	s.looms[loom.ID] = *loom
	return nil
}

// GetLoom returns a loom by ID.
func (s *Store) GetLoom(_ context.Context, id string) (models.Loom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loom, ok := s.looms[id]
	if !ok {
		return models.Loom{}, fmt.Errorf("loom %s: %w", id, models.ErrNotFound)
	}
	return loom, nil
}

// ListShedsWithLooms returns sheds ordered by name with their looms attached.
func (s *Store) ListShedsWithLooms(_ context.Context) ([]models.Shed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byShed := make(map[string][]models.Loom, len(s.sheds))
	for _, l := range s.looms {
		byShed[l.ShedID] = append(byShed[l.ShedID], l)
	}

	sheds := make([]models.Shed, 0, len(s.sheds))
	for _, shed := range s.sheds {
		looms := byShed[shed.ID]
		sort.Slice(looms, func(i, j int) bool { return looms[i].LoomNumber < looms[j].LoomNumber })
		shed.Looms = looms
		sheds = append(sheds, shed)
	}
	sort.Slice(sheds, func(i, j int) bool {
		if sheds[i].Name == sheds[j].Name {
			return sheds[i].ID < sheds[j].ID
		}
		return sheds[i].Name < sheds[j].Name
	})
	return sheds, nil
}

// CreateProductionRecord appends the record and assigns its ID.
func (s *Store) CreateProductionRecord(_ context.Context, record *models.ProductionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.ID = uuid.NewString()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now().UTC()
	}
	s.production = append(s.production, *record)
	return nil
}

// GetProductionRecord returns a production record by ID.
func (s *Store) GetProductionRecord(_ context.Context, id string) (models.ProductionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.production {
		if r.ID == id {
			return r, nil
		}
	}
	return models.ProductionRecord{}, fmt.Errorf("production record %s: %w", id, models.ErrNotFound)
}

// ListProductionRecords returns matching records ordered by date, then insertion order.
func (s *Store) ListProductionRecords(_ context.Context, filter models.ProductionFilter) ([]models.ProductionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.ProductionRecord, 0)
	for _, r := range s.production {
		if filter.Matches(r) {
			records = append(records, r)
		}
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date < records[j].Date })
	return records, nil
}

// SavePayrollReport stores a payroll snapshot and assigns its ID.
func (s *Store) SavePayrollReport(_ context.Context, report *models.PayrollReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	report.ID = uuid.NewString()
	s.payroll = append(s.payroll, *report)
	return nil
}

// PayrollReports returns a copy of every saved payroll report.
func (s *Store) PayrollReports() []models.PayrollReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.PayrollReport, len(s.payroll))
	copy(out, s.payroll)
	return out
}

// Migrate is a no-op for the in-memory store.
func (s *Store) Migrate(context.Context) error { return nil }

// Close is a no-op for the in-memory store.
func (s *Store) Close(context.Context) error { return nil }
