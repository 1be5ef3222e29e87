// Package managers builds the runtime components selected by configuration.
package managers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/chrissnell/sleepchart/internal/storage"
	"github.com/chrissnell/sleepchart/internal/storage/postgres"
	"github.com/chrissnell/sleepchart/internal/storage/sqlite"
	"github.com/chrissnell/sleepchart/pkg/config"
)

// ErrNoStorage is returned when no storage backend is configured
var ErrNoStorage = fmt.Errorf("no storage backend configured")

// NewStore opens the configured storage backend. SQLite is preferred when
// both backends are present.
func NewStore(ctx context.Context, c *config.StorageData, logger *zap.SugaredLogger) (storage.Store, error) {
	switch {
	case c == nil:
		return nil, ErrNoStorage
	case c.SQLite != nil:
		s, err := sqlite.New(ctx, c.SQLite.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("could not add SQLite storage backend: %w", err)
		}
		return s, nil
	case c.Postgres != nil:
		s, err := postgres.New(ctx, c.Postgres.ConnectionString, logger)
		if err != nil {
			return nil, fmt.Errorf("could not add PostgreSQL storage backend: %w", err)
		}
		return s, nil
	default:
		return nil, ErrNoStorage
	}
}
