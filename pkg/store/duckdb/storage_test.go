package duckdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_BootsSchema(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "duckdb-test-*")
	require.NoError(t, err)

	defer func() {
		err := os.RemoveAll(tmpDir)
		if err != nil {
			t.Errorf("failed to cleanup test directory: %v", err)
		}
	}()

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := NewDB(Settings{
		DbPath: dbPath,
	})
	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		err := db.Close()
		if err != nil {
			t.Errorf("failed to close database connection: %v", err)
		}
	}()

	_, err = db.Exec(
		`INSERT INTO bookings (customer_name, contact_number, project_name, type, area, agreement_cost, amount, created_by)
		 VALUES (?, ?, ?, ?, ?, 5000000, 4800000, ?)`,
		"Asha Rao", "9876543210", "Skyline", "2BHK", 1200.0, "seed",
	)
	require.NoError(t, err)

	var (
		id     int64
		status string
	)
	err = db.QueryRow("SELECT id, status FROM bookings WHERE customer_name = ?", "Asha Rao").Scan(&id, &status)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "active", status)

	t.Run("check constraints", func(t *testing.T) {
		_, err := db.Exec(
			`INSERT INTO bookings (customer_name, contact_number, project_name, type, area, agreement_cost, amount, created_by)
			 VALUES ('x', '9876543210', 'p', '2BHK', 0, 1, 1, 'seed')`,
		)
		assert.Error(t, err)
	})

	t.Run("boot is idempotent", func(t *testing.T) {
		require.NoError(t, db.Close())
		db, err = NewDB(Settings{DbPath: dbPath})
		require.NoError(t, err)

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM bookings").Scan(&count))
		assert.Equal(t, 1, count)
	})
}
