package salary

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/weaver/internal/domain/models"
	"github.com/mamadbah2/weaver/internal/repository/memory"
)

func record(worker, date string, meters, rate float64) models.ProductionRecord {
	return models.ProductionRecord{
		WorkerID:    worker,
		LoomID:      "loom-1",
		Date:        date,
		Shift:       models.ShiftDay,
		Meters:      meters,
		Rate:        rate,
		TotalAmount: meters * rate,
		ShedName:    "A",
		LoomNumber:  "1",
	}
}

func TestAggregate(t *testing.T) {
	t.Run("sums meters and amounts", func(t *testing.T) {
		records := []models.ProductionRecord{
			record("W1", "2024-01-01", 10, 5),
			record("W1", "2024-01-05", 20, 5),
		}

		report := Aggregate("W1", "2024-01-01", "2024-01-31", records)

		assert.Equal(t, 30.0, report.Summary.TotalMeters)
		assert.Equal(t, 150.0, report.Summary.TotalSalary)
		assert.Equal(t, "W1", report.Summary.WorkerID)
		assert.Equal(t, "2024-01-01 to 2024-01-31", report.Summary.Period)
		require.Len(t, report.Details, 2)
		assert.Equal(t, "A1", report.Details[0].Loom)
		assert.Equal(t, "loom-1", report.Details[0].LoomID)
		assert.Equal(t, 50.0, report.Details[0].Amount)
	})

	t.Run("empty match set", func(t *testing.T) {
		report := Aggregate("W1", "2024-01-01", "2024-01-31", nil)

		assert.Zero(t, report.Summary.TotalMeters)
		assert.Zero(t, report.Summary.TotalSalary)
		require.NotNil(t, report.Details)
		assert.Empty(t, report.Details)
	})

	t.Run("boundary dates are inclusive", func(t *testing.T) {
		records := []models.ProductionRecord{
			record("W1", "2023-12-31", 100, 1),
			record("W1", "2024-01-01", 1, 2),
			record("W1", "2024-01-31", 3, 2),
			record("W1", "2024-02-01", 100, 1),
		}

		report := Aggregate("W1", "2024-01-01", "2024-01-31", records)

		require.Len(t, report.Details, 2)
		assert.Equal(t, "2024-01-01", report.Details[0].Date)
		assert.Equal(t, "2024-01-31", report.Details[1].Date)
		assert.Equal(t, 8.0, report.Summary.TotalSalary)
	})

	t.Run("other workers never leak in", func(t *testing.T) {
		records := []models.ProductionRecord{
			record("W1", "2024-01-02", 10, 1),
			record("W2", "2024-01-02", 99, 9),
		}

		report := Aggregate("W1", "2024-01-01", "2024-01-31", records)

		require.Len(t, report.Details, 1)
		assert.Equal(t, 10.0, report.Summary.TotalSalary)
	})

	t.Run("details sorted by date", func(t *testing.T) {
		records := []models.ProductionRecord{
			record("W1", "2024-01-09", 1, 1),
			record("W1", "2024-01-03", 1, 1),
			record("W1", "2024-01-06", 1, 1),
		}

		report := Aggregate("W1", "2024-01-01", "2024-01-31", records)

		dates := []string{report.Details[0].Date, report.Details[1].Date, report.Details[2].Date}
		assert.Equal(t, []string{"2024-01-03", "2024-01-06", "2024-01-09"}, dates)
	})

	t.Run("missing labels degrade to empty strings", func(t *testing.T) {
		r := record("W1", "2024-01-02", 2, 2)
		r.ShedName = ""

		report := Aggregate("W1", "2024-01-01", "2024-01-31", []models.ProductionRecord{r})

		assert.Equal(t, "1", report.Details[0].Loom)
	})

	t.Run("total equals sum of meters times rate", func(t *testing.T) {
		records := []models.ProductionRecord{
			record("W1", "2024-03-01", 12.5, 3.2),
			record("W1", "2024-03-02", 7.25, 4),
			record("W2", "2024-03-02", 5, 5),
			record("W1", "2024-04-02", 5, 5),
		}

		var want float64
		for _, r := range records {
			if r.WorkerID == "W1" && r.Date >= "2024-03-01" && r.Date <= "2024-03-31" {
				want += r.Meters * r.Rate
			}
		}

		report := Aggregate("W1", "2024-03-01", "2024-03-31", records)
		assert.InDelta(t, want, report.Summary.TotalSalary, 1e-9)
	})
}

func TestValidateRange(t *testing.T) {
	cases := []struct {
		name               string
		worker, start, end string
		ok                 bool
	}{
		{"valid", "W1", "2024-01-01", "2024-01-31", true},
		{"single day", "W1", "2024-01-01", "2024-01-01", true},
		{"missing worker", " ", "2024-01-01", "2024-01-31", false},
		{"bad start", "W1", "2024-1-1", "2024-01-31", false},
		{"bad end", "W1", "2024-01-01", "31/01/2024", false},
		{"reversed", "W1", "2024-02-01", "2024-01-31", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRange(tc.worker, tc.start, tc.end)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidRange)
		})
	}
}

type failingReader struct{}

func (failingReader) ListProductionRecords(context.Context, models.ProductionFilter) ([]models.ProductionRecord, error) {
	return nil, errors.New("boom")
}

func TestServiceCalculate(t *testing.T) {
	ctx := context.Background()

	t.Run("reads from the store", func(t *testing.T) {
		store := memory.NewStore()
		for _, r := range []models.ProductionRecord{
			record("W1", "2024-01-01", 10, 5),
			record("W1", "2024-01-05", 20, 5),
			record("W2", "2024-01-05", 20, 5),
		} {
			r := r
			require.NoError(t, store.CreateProductionRecord(ctx, &r))
		}

		svc := NewService(store, zap.NewNop())
		report, err := svc.Calculate(ctx, "W1", "2024-01-01", "2024-01-31")

		require.NoError(t, err)
		assert.Equal(t, 30.0, report.Summary.TotalMeters)
		assert.Equal(t, 150.0, report.Summary.TotalSalary)
		assert.Len(t, report.Details, 2)
	})

	t.Run("rejects reversed range before reading", func(t *testing.T) {
		svc := NewService(failingReader{}, nil)
		_, err := svc.Calculate(ctx, "W1", "2024-02-01", "2024-01-01")
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("propagates store failures", func(t *testing.T) {
		svc := NewService(failingReader{}, nil)
		_, err := svc.Calculate(ctx, "W1", "2024-01-01", "2024-01-31")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidRange)
	})
}
