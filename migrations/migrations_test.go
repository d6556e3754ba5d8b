package migrations

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUp_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Up(db, DialectSQLite))
	// Re-running is a no-op.
	require.NoError(t, Up(db, DialectSQLite))

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM urls`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestUp_UnknownDialect(t *testing.T) {
	err := Up(nil, "oracle")
	assert.ErrorContains(t, err, "unsupported migration dialect")
}
