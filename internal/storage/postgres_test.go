package storage

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPostgres(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS kv_entries")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	s, err := NewPostgresStore(db)
	require.NoError(t, err)
	return s, mock
}

func TestPostgresStorePut(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_entries (key, value) VALUES ($1, $2)")).
		WithArgs("mindmaps.document.a", `{"id":"a"}`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.Put("mindmaps.document.a", `{"id":"a"}`))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStorePutError(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_entries")).
		WillReturnError(errors.New("disk full"))

	assert.Error(t, s.Put("k", "v"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreGet(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_entries WHERE key = $1")).
		WithArgs("k").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("v"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv_entries WHERE key = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	v, ok, err := s.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	_, ok, err = s.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreKeys(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT key FROM kv_entries ORDER BY key")).
		WillReturnRows(sqlmock.NewRows([]string{"key"}).AddRow("a").AddRow("b"))

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreRemoveAndClear(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_entries WHERE key = $1")).
		WithArgs("a").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_entries")).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, s.Remove("a"))
	require.NoError(t, s.Clear())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreClose(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectClose()

	require.NoError(t, s.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
