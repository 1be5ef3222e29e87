// Package storage defines the interface implemented by chart storage backends
// and the Run record they persist.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/chrissnell/sleepchart/internal/summary"
	"github.com/chrissnell/sleepchart/internal/types"
)

// ErrRunNotFound is returned by LoadRows for an unknown run ID
var ErrRunNotFound = errors.New("run not found")

// Store is implemented by every storage backend
type Store interface {
	// SaveRun persists a run atomically: either every row and interval is
	// written or none is.
	SaveRun(ctx context.Context, run *Run) error

	// LoadRows returns the sealed rows of a stored run in date order.
	LoadRows(ctx context.Context, id uuid.UUID) ([]types.Row, error)

	Close() error
}

// Run is one pass of the pipeline over an input file
type Run struct {
	ID        uuid.UUID
	Source    string
	CreatedAt time.Time
	Rows      []types.Row
	Intervals []summary.Interval
}

// NewRun assigns a fresh ID to rows read from source and extracts their
// asleep intervals.
func NewRun(source string, rows []types.Row) *Run {
	return &Run{
		ID:        uuid.New(),
		Source:    source,
		CreatedAt: time.Now().UTC(),
		Rows:      rows,
		Intervals: summary.Intervals(rows, types.Asleep),
	}
}
