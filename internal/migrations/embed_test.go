package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUp_CreatesTables(t *testing.T) {
	db := openDB(t)
	require.NoError(t, Up(db))

	for _, table := range []string{"videos", "settings", "events"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s", table)
		assert.Equal(t, table, name)
	}
}

func TestUp_Idempotent(t *testing.T) {
	db := openDB(t)
	require.NoError(t, Up(db))
	require.NoError(t, Up(db))

	v, err := Version(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
}
