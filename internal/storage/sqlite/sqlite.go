// Package sqlite stores chart runs in a local SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/chrissnell/sleepchart/internal/storage"
	"github.com/chrissnell/sleepchart/internal/types"
	"github.com/chrissnell/sleepchart/pkg/migrate"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Storage is a SQLite-backed storage.Store
type Storage struct {
	db     *sql.DB
	path   string
	logger *zap.SugaredLogger
}

var _ storage.Store = (*Storage)(nil)

// New opens (creating if needed) the database at path and brings its schema
// up to date.
func New(ctx context.Context, path string, logger *zap.SugaredLogger) (*Storage, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	logger.Infow("migrating sleepchart database", "path", path)
	m := migrate.NewMigrator(db, migrate.NewFSProvider(migrations, "migrations", ""), logger)
	if err := m.MigrateUp(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db, path: path, logger: logger}, nil
}

// SaveRun writes the run, its rows and its intervals in one transaction.
func (s *Storage) SaveRun(ctx context.Context, run *storage.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO chart_runs (id, source, created_at, days) VALUES (?, ?, ?, ?)`,
		run.ID.String(), run.Source, run.CreatedAt.UTC().Format(time.RFC3339Nano), len(run.Rows))
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	rowStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO day_rows (run_id, day_index, date, slots, asleep_quarters) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare row insert: %w", err)
	}
	defer rowStmt.Close()

	for i := range run.Rows {
		row := &run.Rows[i]
		_, err := rowStmt.ExecContext(ctx, run.ID.String(), i,
			row.Date.Format(types.DateLayout), row.Slots.Compact(), row.Slots.Count(types.Asleep))
		if err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}

	ivStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sleep_intervals (run_id, start, quarters) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare interval insert: %w", err)
	}
	defer ivStmt.Close()

	for _, iv := range run.Intervals {
		_, err := ivStmt.ExecContext(ctx, run.ID.String(), iv.Start.UTC().Format(time.RFC3339), iv.Quarters)
		if err != nil {
			return fmt.Errorf("failed to insert interval at %s: %w", iv.Start, err)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Errorw("could not store run", "run", run.ID, "error", err)
		return err
	}

	s.logger.Infow("stored run", "run", run.ID, "rows", len(run.Rows), "intervals", len(run.Intervals))
	return nil
}

// LoadRows returns the stored rows of a run.
func (s *Storage) LoadRows(ctx context.Context, id uuid.UUID) ([]types.Row, error) {
	var days int
	err := s.db.QueryRowContext(ctx, `SELECT days FROM chart_runs WHERE id = ?`, id.String()).Scan(&days)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", storage.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, slots FROM day_rows WHERE run_id = ? ORDER BY day_index`, id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	out := make([]types.Row, 0, days)
	for rows.Next() {
		var date, slots string
		if err := rows.Scan(&date, &slots); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		r, err := decodeRow(date, slots)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *Storage) Close() error {
	return s.db.Close()
}

func decodeRow(date, slots string) (types.Row, error) {
	d, err := time.Parse(types.DateLayout, date)
	if err != nil {
		return types.Row{}, fmt.Errorf("stored row has bad date %q: %w", date, err)
	}
	r, err := types.ParseCompact(slots)
	if err != nil {
		return types.Row{}, fmt.Errorf("stored row %s: %w", date, err)
	}
	return types.Row{Date: d, Slots: r}, nil
}
