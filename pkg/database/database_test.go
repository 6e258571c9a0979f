package database_test

import (
	"context"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/godilite/assessment-server/pkg/database"
)

func TestOpen(t *testing.T) {
	t.Run("sqlite in memory", func(t *testing.T) {
		db, err := database.Open(context.Background(),
			database.WithDataSource(database.SQLiteDSN(":memory:")),
			database.WithMaxOpenConns(1),
			database.WithLogger(zaptest.NewLogger(t)),
		)
		require.NoError(t, err)
		defer db.Close()

		var one int
		require.NoError(t, db.QueryRow("SELECT 1").Scan(&one))
		assert.Equal(t, 1, one)
	})

	t.Run("empty driver", func(t *testing.T) {
		_, err := database.New(database.WithDriver(""))
		assert.ErrorContains(t, err, "driver cannot be empty")
	})

	t.Run("empty data source", func(t *testing.T) {
		_, err := database.New(database.WithDataSource(""))
		assert.ErrorContains(t, err, "data source cannot be empty")
	})

	t.Run("unknown driver fails after retries", func(t *testing.T) {
		_, err := database.New(
			database.WithDriver("nope"),
			database.WithRetry(2, time.Millisecond),
		)
		assert.ErrorContains(t, err, "after 2 attempts")
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := database.Open(ctx,
			database.WithDriver("nope"),
			database.WithRetry(5, time.Hour),
		)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:?cache=shared&_foreign_keys=on", database.SQLiteDSN(":memory:"))

	dsn := database.SQLiteDSN("data/assessments.db")
	assert.Contains(t, dsn, "file:data/assessments.db?")
	assert.Contains(t, dsn, "_foreign_keys=on")
	assert.Contains(t, dsn, "_busy_timeout=5000")
}
