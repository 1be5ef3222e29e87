package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/sleepchart/internal/storage"
	"github.com/chrissnell/sleepchart/internal/types"
)

// Set SLEEPCHART_TEST_POSTGRES to a connection string to run against a live
// database.
func TestSaveAndLoadRun(t *testing.T) {
	dsn := os.Getenv("SLEEPCHART_TEST_POSTGRES")
	if dsn == "" {
		t.Skip("SLEEPCHART_TEST_POSTGRES not set")
	}

	ctx := context.Background()
	s, err := New(ctx, dsn, nil)
	require.NoError(t, err)
	defer s.Close()

	row := types.Row{Date: time.Date(2016, 12, 10, 0, 0, 0, 0, time.UTC)}
	for i := 88; i < types.SlotsPerDay; i++ {
		row.Slots[i] = types.Asleep
	}
	run := storage.NewRun("sleep.log", []types.Row{row})
	require.NoError(t, s.SaveRun(ctx, run))

	rows, err := s.LoadRows(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, row.Slots, rows[0].Slots)
	assert.True(t, row.Date.Equal(rows[0].Date))
}

func TestNewFailsWithoutServer(t *testing.T) {
	_, err := New(context.Background(), "host=127.0.0.1 port=1 user=none dbname=none sslmode=disable connect_timeout=1", nil)
	assert.Error(t, err)
}
