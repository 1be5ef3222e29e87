package migrate

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"migrations/001_create_notes.up.sql":   {Data: []byte("CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT);")},
		"migrations/001_create_notes.down.sql": {Data: []byte("DROP TABLE notes;")},
		"migrations/002_add_tags.up.sql":       {Data: []byte("CREATE TABLE tags (name TEXT);")},
		"migrations/002_add_tags.down.sql":     {Data: []byte("DROP TABLE tags;")},
		"migrations/README.md":                 {Data: []byte("ignored")},
	}
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n))
	return n == 1
}

func TestGetMigrations(t *testing.T) {
	migrations, err := NewFSProvider(testFS(), "migrations", "").GetMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "create notes", migrations[0].Name)
	assert.Equal(t, "DROP TABLE notes;", migrations[0].Down)
	assert.Equal(t, 2, migrations[1].Version)
}

func TestMigrateUpAndDown(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	m := NewMigrator(db, NewFSProvider(testFS(), "migrations", ""), nil)

	pending, err := m.GetPendingMigrations(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	require.NoError(t, m.MigrateUp(ctx))
	v, err := m.GetCurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.True(t, tableExists(t, db, "notes"))
	assert.True(t, tableExists(t, db, "tags"))

	// second run is a no-op
	require.NoError(t, m.MigrateUp(ctx))

	require.NoError(t, m.MigrateTo(ctx, 1))
	v, err = m.GetCurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.False(t, tableExists(t, db, "tags"))

	require.NoError(t, m.MigrateTo(ctx, 0))
	v, err = m.GetCurrentVersion(ctx)
	require.NoError(t, err)
	assert.Zero(t, v)
	assert.False(t, tableExists(t, db, "notes"))
}

func TestFailedMigrationRollsBack(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	fsys := fstest.MapFS{
		"m/001_broken.up.sql": {Data: []byte("CREATE TABLE ok (id INTEGER); NOT SQL;")},
	}
	m := NewMigrator(db, NewFSProvider(fsys, "m", ""), nil)

	require.Error(t, m.MigrateUp(ctx))
	v, err := m.GetCurrentVersion(ctx)
	require.NoError(t, err)
	assert.Zero(t, v)
}
