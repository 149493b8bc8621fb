package iocache

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bonuspoints/thelist/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetStores lets a test call InitStores again.
func resetStores(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	t.Cleanup(func() {
		CloseStores()
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
		Manager = &CacheStoreManager{}
	})
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite files", func(t *testing.T) {
		resetStores(t)
		dir := t.TempDir()
		cachePath := filepath.Join(dir, "cache.db")
		runsPath := filepath.Join(dir, "runs.db")

		require.NoError(t, InitStores(schema.SQLiteBackend, cachePath, schema.SQLiteBackend, runsPath))
		assert.NotNil(t, Manager.GetMetadataStore())
		assert.NotNil(t, Manager.GetRunStore())

		CloseStores()
		CloseStores() // idempotent

		_, err := os.Stat(cachePath)
		assert.NoError(t, err, "cache database file should be created")
		_, err = os.Stat(runsPath)
		assert.NoError(t, err, "runs database file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetStores(t)
		for range 3 {
			assert.NoError(t, InitStores(schema.SQLiteBackend, ":memory:", "", ""))
		}
		assert.NotNil(t, Manager.GetMetadataStore())
		assert.Nil(t, Manager.GetRunStore(), "empty backend skips the run store")
	})

	t.Run("unsupported backend", func(t *testing.T) {
		resetStores(t)
		err := InitStores("oracle", "", "", "")
		assert.ErrorContains(t, err, "failed to initialize metadata caching")
	})

	t.Run("none backends are no-ops", func(t *testing.T) {
		resetStores(t)
		require.NoError(t, InitStores(schema.NoneBackend, "", schema.NoneBackend, ""))

		store := Manager.GetMetadataStore()
		require.NotNil(t, store)
		assert.NoError(t, store.Set("k", []byte("v"), 1, 1000))
		_, _, _, err := store.Get("k")
		assert.Equal(t, sql.ErrNoRows, err)

		runs := Manager.GetRunStore()
		require.NotNil(t, runs)
		id, err := runs.BeginRun(time.Now(), nil)
		assert.NoError(t, err)
		assert.Zero(t, id)
	})
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{"valid simple name", "metadata_cache", false},
		{"valid name with numbers", "runs_2024", false},
		{"valid leading underscore", "_points", false},
		{"valid mixed case", "TheList_Runs", false},
		{"valid long name", strings.Repeat("a", 1000), false},
		{"empty name", "", true},
		{"starts with number", "1runs", true},
		{"contains dash", "the-list", true},
		{"contains space", "the list", true},
		{"contains dot", "db.runs", true},
		{"sql injection attempt", "runs'; DROP TABLE users; --", true},
		{"unicode", "runs_表", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, `"runs"`, quoteTableName("runs", schema.SQLiteBackend))
	assert.Equal(t, "`runs`", quoteTableName("runs", schema.MySQLBackend))
	assert.Equal(t, `"runs"`, quoteTableName("runs", schema.PostgreSQLBackend))
	assert.Equal(t, `"runs"`, quoteTableName("runs", schema.NoneBackend))
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "?", placeholder(schema.SQLiteBackend, 1))
	assert.Equal(t, "?", placeholder(schema.MySQLBackend, 2))
	assert.Equal(t, "$3", placeholder(schema.PostgreSQLBackend, 3))
}

func TestGetUpsertQuery(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    string
	}{
		{schema.SQLiteBackend, "INSERT OR REPLACE"},
		{schema.MySQLBackend, "ON DUPLICATE KEY UPDATE"},
		{schema.PostgreSQLBackend, "ON CONFLICT (cache_key)"},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			store := &CacheStoreImpl{tableName: metadataTable, backend: tt.backend}
			query := store.getUpsertQuery()
			assert.Contains(t, query, tt.want)
			assert.Contains(t, query, quoteTableName(metadataTable, tt.backend))
		})
	}
}

func TestGetCreateTableQuery(t *testing.T) {
	assert.Contains(t, getCreateTableQuery(metadataTable, schema.MySQLBackend), "VARCHAR(255) PRIMARY KEY")
	assert.Contains(t, getCreateTableQuery(metadataTable, schema.PostgreSQLBackend), "BYTEA")
	assert.Contains(t, getCreateTableQuery(metadataTable, schema.SQLiteBackend), "BLOB")
}

func TestCacheStoreSQLite(t *testing.T) {
	store, err := NewCacheStore("test_table", schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Set("game:1942", []byte(`{"id":"1942"}`), 1, 1000))
	value, version, ts, err := store.Get("game:1942")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1942"}`, string(value))
	assert.Equal(t, 1, version)
	assert.Equal(t, int64(1000), ts)

	// Upsert replaces the row
	require.NoError(t, store.Set("game:1942", []byte(`{}`), 2, 2000))
	_, version, ts, err = store.Get("game:1942")
	require.NoError(t, err)
	assert.Equal(t, 2, version)
	assert.Equal(t, int64(2000), ts)

	_, _, _, err = store.Get("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestNewCacheStoreErrors(t *testing.T) {
	_, err := NewCacheStore("bad-name", schema.SQLiteBackend, ":memory:")
	assert.Error(t, err)

	_, err = NewCacheStore("ok", "oracle", "")
	assert.ErrorContains(t, err, "unsupported backend")
}

func TestClearCache(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore(metadataTable, schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Missing files are fine
	assert.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
	assert.NoError(t, ClearRuns(schema.NoneBackend, "", ""))
	assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	assert.Error(t, ClearRuns("oracle", "", ""))
}

func TestCacheStoreManagerConcurrency(t *testing.T) {
	mgr := &CacheStoreManager{}
	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			_ = mgr.GetMetadataStore()
			_ = mgr.GetRunStore()
		})
	}
	wg.Go(func() {
		mgr.Lock()
		mgr.metadata = &CacheStoreImpl{backend: schema.NoneBackend}
		mgr.Unlock()
	})
	wg.Wait()
	assert.NotNil(t, mgr.GetMetadataStore())
}

func TestCacheStoreGetStatus(t *testing.T) {
	t.Run("SQLite backend with data", func(t *testing.T) {
		store, err := NewCacheStore("test_status_table", schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		for _, ts := range []int64{1000, 2000, 1500} {
			require.NoError(t, store.Set(time.Unix(ts, 0).String(), []byte("v"), 1, ts))
		}

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "sqlite", status.Backend)
		assert.True(t, status.Connected)
		assert.Equal(t, 3, status.TotalEntries)
		assert.Equal(t, time.Unix(2000, 0), status.LastEntryTime)
		assert.Equal(t, time.Unix(1000, 0), status.OldestEntryTime)
		assert.Positive(t, status.TableSizeBytes)
	})

	t.Run("SQLite backend empty", func(t *testing.T) {
		store, err := NewCacheStore("test_empty_table", schema.SQLiteBackend, ":memory:")
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Zero(t, status.TotalEntries)
		assert.True(t, status.LastEntryTime.IsZero())
		assert.Zero(t, status.TableSizeBytes)
	})

	t.Run("None backend", func(t *testing.T) {
		store, err := NewCacheStore("test_none", schema.NoneBackend, "")
		require.NoError(t, err)

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "none", status.Backend)
		assert.False(t, status.Connected)
	})
}
