// Package postgres stores chart runs in PostgreSQL through gorm.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chrissnell/sleepchart/internal/database"
	"github.com/chrissnell/sleepchart/internal/storage"
	"github.com/chrissnell/sleepchart/internal/types"
)

// Storage holds the connection for a PostgreSQL storage backend
type Storage struct {
	client *database.Client
	logger *zap.SugaredLogger
}

var _ storage.Store = (*Storage)(nil)

// New connects to PostgreSQL and migrates the chart tables
func New(ctx context.Context, connectionString string, logger *zap.SugaredLogger) (*Storage, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	client := database.NewClient(connectionString, logger)
	if err := client.Connect(ctx); err != nil {
		return nil, err
	}

	return &Storage{client: client, logger: logger}, nil
}

// SaveRun stores the run together with its rows and intervals. gorm writes
// the associations inside the same transaction as the parent record.
func (p *Storage) SaveRun(ctx context.Context, run *storage.Run) error {
	record := database.NewChartRun(run.ID, run.Source, run.CreatedAt, run.Rows, run.Intervals)

	err := p.client.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(record).Error
	})
	if err != nil {
		p.logger.Errorw("could not store run", "run", run.ID, "error", err)
		return fmt.Errorf("failed to store run %s: %w", run.ID, err)
	}

	p.logger.Infow("stored run", "run", run.ID, "rows", len(run.Rows), "intervals", len(run.Intervals))
	return nil
}

// LoadRows returns the stored rows of a run.
func (p *Storage) LoadRows(ctx context.Context, id uuid.UUID) ([]types.Row, error) {
	var run database.ChartRun
	err := p.client.DB.WithContext(ctx).
		Preload("Rows", func(db *gorm.DB) *gorm.DB { return db.Order("day_index") }).
		First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", storage.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run %s: %w", id, err)
	}

	out := make([]types.Row, 0, len(run.Rows))
	for _, rec := range run.Rows {
		r, err := rec.Row()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Close closes the connection pool.
func (p *Storage) Close() error {
	return p.client.Close()
}
