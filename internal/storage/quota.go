package storage

import (
	"fmt"
	"io"
	"sync"
)

// QuotaStore caps the total size of an inner store, counted as the byte length
// of every key plus its value. A Put that would go over the limit fails with
// ErrQuotaExceeded and leaves the store unchanged.
//
// Usage is measured once at construction and tracked from then on, so the
// inner store must only be written through the QuotaStore.
type QuotaStore struct {
	mu    sync.Mutex
	inner Store
	limit int64
	used  int64
}

func NewQuotaStore(inner Store, limit int64) (*QuotaStore, error) {
	keys, err := inner.Keys()
	if err != nil {
		return nil, fmt.Errorf("measure store usage: %w", err)
	}
	var used int64
	for _, k := range keys {
		v, ok, err := inner.Get(k)
		if err != nil {
			return nil, fmt.Errorf("measure store usage: %w", err)
		}
		if ok {
			used += entrySize(k, v)
		}
	}
	return &QuotaStore{inner: inner, limit: limit, used: used}, nil
}

func entrySize(key, value string) int64 {
	return int64(len(key) + len(value))
}

// Used reports the bytes currently counted against the limit.
func (q *QuotaStore) Used() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.used
}

func (q *QuotaStore) Put(key, value string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	old, ok, err := q.inner.Get(key)
	if err != nil {
		return err
	}
	var freed int64
	if ok {
		freed = entrySize(key, old)
	}
	need := entrySize(key, value)
	if q.used-freed+need > q.limit {
		return fmt.Errorf("put %q (%d bytes, %d of %d in use): %w", key, need, q.used-freed, q.limit, ErrQuotaExceeded)
	}
	if err := q.inner.Put(key, value); err != nil {
		return err
	}
	q.used += need - freed
	return nil
}

func (q *QuotaStore) Get(key string) (string, bool, error) {
	return q.inner.Get(key)
}

func (q *QuotaStore) Remove(key string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	old, ok, err := q.inner.Get(key)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := q.inner.Remove(key); err != nil {
		return err
	}
	q.used -= entrySize(key, old)
	return nil
}

func (q *QuotaStore) Keys() ([]string, error) {
	return q.inner.Keys()
}

func (q *QuotaStore) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.inner.Clear(); err != nil {
		return err
	}
	q.used = 0
	return nil
}

// Close closes the inner store when it holds resources.
func (q *QuotaStore) Close() error {
	if c, ok := q.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
