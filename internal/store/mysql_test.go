package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerr "github.com/globelend/waitlist-manager/internal/errors"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) (*MYSQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	ms := NewWithDB(sqlx.NewDb(db, "mysql"), Config{QueryTimeout: time.Second})
	ms.now = func() time.Time { return testNow }
	return ms, mock
}

func TestNewWithDB_DefaultTimeout(t *testing.T) {
	ms := NewWithDB(nil, Config{})
	assert.Equal(t, DefaultQueryTimeout, ms.queryTimeout)
	ms.Close()
}

func TestPing(t *testing.T) {
	ms, mock := newTestDB(t)

	mock.ExpectQuery(`SELECT 1`).WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	assert.NoError(t, ms.Ping(context.Background()))

	mock.ExpectQuery(`SELECT 1`).WillReturnError(assert.AnError)
	err := ms.Ping(context.Background())
	assert.ErrorIs(t, err, gerr.ErrStoreUnavailable)
}
