package iocache

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/bonuspoints/thelist/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateRunsNoneBackend(t *testing.T) {
	err := MigrateRuns(schema.NoneBackend, "", -1)
	assert.ErrorContains(t, err, "migrations are not supported for NoneBackend")
}

func TestMigrateRunsSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1))
	assert.True(t, hasTable(t, dbPath, runsTable))
	assert.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1), "second run is a no-op")

	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, 1))
	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, 0))
	assert.False(t, hasTable(t, dbPath, runsTable))

	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, 2))
	assert.True(t, hasTable(t, dbPath, seriesPointsTable))
}

func TestMigrateRunsAfterStoreCreatedTables(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1))
}

func TestMigrateRunsBadMySQLDSN(t *testing.T) {
	assert.Error(t, MigrateRuns(schema.MySQLBackend, "not a dsn", -1))
}

func hasTable(t *testing.T, dbPath, table string) bool {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&n))
	return n == 1
}
