package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/weaver/internal/domain/models"
	"github.com/mamadbah2/weaver/internal/repository"
)

const (
	workersCollection    = "workers"
	shedsCollection      = "sheds"
	loomsCollection      = "looms"
	productionCollection = "production"
	payrollCollection    = "payroll_reports"
)

var _ repository.Store = (*MongoDBRepository)(nil)

// MongoDBRepository implements repository.Store on top of MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
	now    func() time.Time
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
		now:    time.Now,
	}, nil
}

// Migrate creates the indexes used by the salary range query and the hierarchy reads.
func (r *MongoDBRepository) Migrate(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		productionCollection: {
			{Keys: bson.D{{Key: "worker_id", Value: 1}, {Key: "date", Value: 1}}},
			{Keys: bson.D{{Key: "loom_id", Value: 1}, {Key: "date", Value: 1}}},
		},
		loomsCollection:   {{Keys: bson.D{{Key: "shed_id", Value: 1}}}},
		payrollCollection: {{Keys: bson.D{{Key: "worker_id", Value: 1}, {Key: "period_start", Value: 1}}}},
	}

	for coll, specs := range indexes {
		names, err := r.db.Collection(coll).Indexes().CreateMany(ctx, specs)
		if err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
		r.logger.Debug("indexes ensured", zap.String("collection", coll), zap.Strings("indexes", names))
	}
	return nil
}

// CreateWorker inserts a worker document.
func (r *MongoDBRepository) CreateWorker(ctx context.Context, worker *models.Worker) error {
	worker.ID = primitive.NewObjectID().Hex()
	if worker.CreatedAt.IsZero() {
		worker.CreatedAt = r.now().UTC()
	}
	if _, err := r.db.Collection(workersCollection).InsertOne(ctx, worker); err != nil {
		return fmt.Errorf("failed to insert worker: %w", err)
	}
	return nil
}

// GetWorker loads a worker by ID.
func (r *MongoDBRepository) GetWorker(ctx context.Context, id string) (models.Worker, error) {
	var worker models.Worker
	if err := r.findByID(ctx, workersCollection, id, &worker); err != nil {
		return models.Worker{}, fmt.Errorf("worker %s: %w", id, err)
	}
	return worker, nil
}

// ListWorkers returns all workers ordered by name.
func (r *MongoDBRepository) ListWorkers(ctx context.Context) ([]models.Worker, error) {
	workers := make([]models.Worker, 0)
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if err := r.findAll(ctx, workersCollection, bson.M{}, opts, &workers); err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	return workers, nil
}

// CreateShed inserts a shed document.
func (r *MongoDBRepository) CreateShed(ctx context.Context, shed *models.Shed) error {
	shed.ID = primitive.NewObjectID().Hex()
	if shed.CreatedAt.IsZero() {
		shed.CreatedAt = r.now().UTC()
	}
	if _, err := r.db.Collection(shedsCollection).InsertOne(ctx, shed); err != nil {
		return fmt.Errorf("failed to insert shed: %w", err)
	}
	return nil
}

// GetShed loads a shed by ID.
func (r *MongoDBRepository) GetShed(ctx context.Context, id string) (models.Shed, error) {
	var shed models.Shed
	if err := r.findByID(ctx, shedsCollection, id, &shed); err != nil {
		return models.Shed{}, fmt.Errorf("shed %s: %w", id, err)
	}
	return shed, nil
}

// CreateLoom inserts a loom document referencing its shed.
func (r *MongoDBRepository) CreateLoom(ctx context.Context, loom *models.Loom) error {
	loom.ID = primitive.NewObjectID().Hex()
	if loom.CreatedAt.IsZero() {
		loom.CreatedAt = r.now().UTC()
	}
	if _, err := r.db.Collection(loomsCollection).InsertOne(ctx, loom); err != nil {
		return fmt.Errorf("failed to insert loom: %w", err)
	}
	return nil
}

// GetLoom loads a loom by ID.
func (r *MongoDBRepository) GetLoom(ctx context.Context, id string) (models.Loom, error) {
	var loom models.Loom
	if err := r.findByID(ctx, loomsCollection, id, &loom); err != nil {
		return models.Loom{}, fmt.Errorf("loom %s: %w", id, err)
	}
	return loom, nil
}

// ListShedsWithLooms reads sheds and looms and nests the looms under their shed.
func (r *MongoDBRepository) ListShedsWithLooms(ctx context.Context) ([]models.Shed, error) {
	sheds := make([]models.Shed, 0)
	if err := r.findAll(ctx, shedsCollection, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}), &sheds); err != nil {
		return nil, fmt.Errorf("failed to list sheds: %w", err)
	}

	var looms []models.Loom
	if err := r.findAll(ctx, loomsCollection, bson.M{}, options.Find().SetSort(bson.D{{Key: "loom_number", Value: 1}}), &looms); err != nil {
		return nil, fmt.Errorf("failed to list looms: %w", err)
	}

	byShed := make(map[string][]models.Loom, len(sheds))
	for _, l := range looms {
		byShed[l.ShedID] = append(byShed[l.ShedID], l)
	}
	for i := range sheds {
		sheds[i].Looms = byShed[sheds[i].ID]
	}
	return sheds, nil
}

// CreateProductionRecord inserts an immutable production record.
func (r *MongoDBRepository) CreateProductionRecord(ctx context.Context, record *models.ProductionRecord) error {
	record.ID = primitive.NewObjectID().Hex()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = r.now().UTC()
	}
	if _, err := r.db.Collection(productionCollection).InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert production record: %w", err)
	}
	return nil
}

// GetProductionRecord loads a production record by ID.
func (r *MongoDBRepository) GetProductionRecord(ctx context.Context, id string) (models.ProductionRecord, error) {
	var record models.ProductionRecord
	if err := r.findByID(ctx, productionCollection, id, &record); err != nil {
		return models.ProductionRecord{}, fmt.Errorf("production record %s: %w", id, err)
	}
	return record, nil
}

// ListProductionRecords runs the range query ordered by date.
func (r *MongoDBRepository) ListProductionRecords(ctx context.Context, filter models.ProductionFilter) ([]models.ProductionRecord, error) {
	records := make([]models.ProductionRecord, 0)
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: 1}})
	if err := r.findAll(ctx, productionCollection, productionQuery(filter), opts, &records); err != nil {
		return nil, fmt.Errorf("failed to list production records: %w", err)
	}
	return records, nil
}

// SavePayrollReport saves a payroll report to the database.
func (r *MongoDBRepository) SavePayrollReport(ctx context.Context, report *models.PayrollReport) error {
	report.ID = primitive.NewObjectID().Hex()
	if _, err := r.db.Collection(payrollCollection).InsertOne(ctx, report); err != nil {
		return fmt.Errorf("failed to insert payroll report: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) findByID(ctx context.Context, coll, id string, out interface{}) error {
	err := r.db.Collection(coll).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	return err
}

func (r *MongoDBRepository) findAll(ctx context.Context, coll string, query bson.M, opts *options.FindOptions, out interface{}) error {
	cursor, err := r.db.Collection(coll).Find(ctx, query, opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func productionQuery(filter models.ProductionFilter) bson.M {
	query := bson.M{}
	if filter.WorkerID != "" {
		query["worker_id"] = filter.WorkerID
	}
	if filter.LoomID != "" {
		query["loom_id"] = filter.LoomID
	}

	dateRange := bson.M{}
	if filter.StartDate != "" {
		dateRange["$gte"] = filter.StartDate
	}
	if filter.EndDate != "" {
		dateRange["$lte"] = filter.EndDate
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}
	return query
}
