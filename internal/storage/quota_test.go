package storage_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindmaps/internal/storage"
)

func newQuota(t *testing.T, inner storage.Store, limit int64) *storage.QuotaStore {
	t.Helper()
	q, err := storage.NewQuotaStore(inner, limit)
	require.NoError(t, err)
	return q
}

func TestQuotaStoreRejectsOversizedPut(t *testing.T) {
	inner := storage.NewMemoryStore()
	q := newQuota(t, inner, 10)

	require.NoError(t, q.Put("ab", "cdef")) // 6 bytes

	err := q.Put("gh", "ijklm") // 6 + 7 > 10
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrQuotaExceeded)

	_, ok, err := inner.Get("gh")
	require.NoError(t, err)
	assert.False(t, ok, "rejected put must not reach the inner store")
	assert.Equal(t, int64(6), q.Used())
}

func TestQuotaStoreOverwriteCountsOnlyNewValue(t *testing.T) {
	q := newQuota(t, storage.NewMemoryStore(), 10)

	require.NoError(t, q.Put("k", "123456789")) // exactly 10
	require.NoError(t, q.Put("k", "abcdefghi")) // replaces, still 10
	assert.ErrorIs(t, q.Put("k", "abcdefghij"), storage.ErrQuotaExceeded)

	v, _, err := q.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "abcdefghi", v)
	assert.Equal(t, int64(10), q.Used())
}

func TestQuotaStoreFreesSpaceOnRemove(t *testing.T) {
	q := newQuota(t, storage.NewMemoryStore(), 8)

	require.NoError(t, q.Put("a", "1234567"))
	assert.ErrorIs(t, q.Put("b", "1"), storage.ErrQuotaExceeded)

	require.NoError(t, q.Remove("a"))
	assert.Zero(t, q.Used())
	assert.NoError(t, q.Put("b", "1"))

	require.NoError(t, q.Remove("missing"))
	assert.Equal(t, int64(2), q.Used())
}

func TestQuotaStoreFreesSpaceOnClear(t *testing.T) {
	q := newQuota(t, storage.NewMemoryStore(), 8)

	require.NoError(t, q.Put("a", "1234567"))
	require.NoError(t, q.Clear())
	assert.Zero(t, q.Used())
	assert.NoError(t, q.Put("b", "1234567"))
}

func TestQuotaStoreMeasuresExistingEntries(t *testing.T) {
	inner := storage.NewMemoryStore()
	require.NoError(t, inner.Put("a", "1234")) // 5 bytes already on disk

	q := newQuota(t, inner, 8)
	assert.Equal(t, int64(5), q.Used())
	assert.ErrorIs(t, q.Put("b", "1234"), storage.ErrQuotaExceeded)
	assert.NoError(t, q.Put("b", "1"))
}

// countingStore records how often the quota wrapper reads through to the backend.
type countingStore struct {
	*storage.MemoryStore
	gets, keys int
}

func (c *countingStore) Get(key string) (string, bool, error) {
	c.gets++
	return c.MemoryStore.Get(key)
}

func (c *countingStore) Keys() ([]string, error) {
	c.keys++
	return c.MemoryStore.Keys()
}

func TestQuotaStorePutDoesNotRescan(t *testing.T) {
	inner := &countingStore{MemoryStore: storage.NewMemoryStore()}
	for _, k := range []string{"a", "b", "c", "d"} {
		require.NoError(t, inner.MemoryStore.Put(k, "v"))
	}
	q := newQuota(t, inner, 1<<10)
	inner.gets, inner.keys = 0, 0

	require.NoError(t, q.Put("e", "v"))
	require.NoError(t, q.Put("a", "w"))

	assert.Zero(t, inner.keys)
	assert.Equal(t, 2, inner.gets, "one lookup of the previous value per put")
}

func TestQuotaStoreCloseClosesInner(t *testing.T) {
	sqlite, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	q := newQuota(t, sqlite, 1<<10)

	require.NoError(t, q.Close())
	assert.Error(t, sqlite.Put("k", "v"), "inner handle must be closed")

	assert.NoError(t, newQuota(t, storage.NewMemoryStore(), 8).Close())
}
