package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(context.Background(), `CREATE TABLE items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		note TEXT,
		score REAL,
		created_at DATETIME
	)`)
	require.NoError(t, err)
	return db
}

func TestOpen_SelectsEngine(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, Options{})
	assert.ErrorIs(t, err, ErrNoPath)

	db, err := Open(ctx, Options{Path: filepath.Join(t.TempDir(), "a.sqlite")})
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, DialectSQLite, db.Dialect())
	assert.NoError(t, db.Ping(ctx))

	_, err = Open(ctx, Options{Path: "ignored.sqlite", DatabaseURL: "not a url ::"})
	assert.Error(t, err, "a database url must win over the file path")
}

func TestSQLite_ExecReportsInsertIDAndRowsAffected(t *testing.T) {
	ctx := context.Background()
	db := openTestSQLite(t)

	first, err := db.Exec(ctx, `INSERT INTO items (name) VALUES (?)`, "a")
	require.NoError(t, err)
	second, err := db.Exec(ctx, `INSERT INTO items (name) VALUES (?)`, "b")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.RowsAffected)
	assert.Greater(t, second.LastInsertID, first.LastInsertID)

	res, err := db.Exec(ctx, `UPDATE items SET note = ? WHERE id > ?`, "x", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.RowsAffected)

	res, err = db.Exec(ctx, `DELETE FROM items WHERE id = ?`, 999)
	require.NoError(t, err)
	assert.Zero(t, res.RowsAffected)
}

func TestSQLite_GetAndAll(t *testing.T) {
	ctx := context.Background()
	db := openTestSQLite(t)

	created := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	for _, name := range []string{"a", "b", "c"} {
		_, err := db.Exec(ctx, `INSERT INTO items (name, score, created_at) VALUES (?, ?, ?)`, name, 1.5, created)
		require.NoError(t, err)
	}

	row, err := db.Get(ctx, `SELECT id, name, note, score, created_at FROM items WHERE name = ?`, "b")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, int64(2), row.Int64("id"))
	assert.Equal(t, "b", row.String("name"))
	assert.Nil(t, row.NullString("note"))
	assert.Equal(t, 1.5, row.Float64("score"))
	assert.True(t, created.Equal(row.Time("created_at")))

	row, err = db.Get(ctx, `SELECT id FROM items WHERE name = ?`, "missing")
	require.NoError(t, err)
	assert.Nil(t, row)

	rows, err := db.All(ctx, `SELECT id FROM items ORDER BY id`)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	rows, err = db.All(ctx, `SELECT id FROM items WHERE name = ?`, "missing")
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestSQLite_ErrorsAreWrapped(t *testing.T) {
	ctx := context.Background()
	db := openTestSQLite(t)

	_, err := db.Exec(ctx, `INSERT INTO items (name) VALUES (NULL)`)
	assert.ErrorContains(t, err, "exec:")

	_, err = db.All(ctx, `SELECT * FROM nowhere`)
	assert.ErrorContains(t, err, "query:")
}
