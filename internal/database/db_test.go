package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tastebook/tastebook/internal/database"
)

func setupPool(t *testing.T) (*database.Pool, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return &database.Pool{DB: db}, mock
}

func TestTransaction_Commit(t *testing.T) {
	pool, mock := setupPool(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE recipes").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := pool.Transaction(context.Background(), func(tx *sql.Tx) error {
		_, err := tx.Exec("UPDATE recipes SET likes = likes + 1 WHERE recipe_id = $1", 1)
		return err
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransaction_RollbackOnError(t *testing.T) {
	pool, mock := setupPool(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	sentinel := errors.New("business rule violated")
	err := pool.Transaction(context.Background(), func(tx *sql.Tx) error {
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel, "The function's error must be returned unchanged")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransaction_RollbackOnPanic(t *testing.T) {
	pool, mock := setupPool(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = pool.Transaction(context.Background(), func(tx *sql.Tx) error {
			panic("unexpected")
		})
	}, "The panic must propagate after rollback")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransaction_BeginFails(t *testing.T) {
	pool, mock := setupPool(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection lost"))

	err := pool.Transaction(context.Background(), func(tx *sql.Tx) error {
		t.Error("function should not run when begin fails")
		return nil
	})

	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	pool, mock := setupPool(t)

	mock.ExpectPing()
	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	assert.NoError(t, pool.HealthCheck(context.Background()))
}

func TestHealthCheck_QueryFails(t *testing.T) {
	pool, mock := setupPool(t)

	mock.ExpectPing()
	mock.ExpectQuery("SELECT 1").WillReturnError(errors.New("server going away"))

	assert.Error(t, pool.HealthCheck(context.Background()))
}

func TestClose_NilSafe(t *testing.T) {
	var pool *database.Pool
	assert.NotPanics(t, func() {
		pool.Close()
	})
}
