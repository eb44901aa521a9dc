// Package storage provides string key/value stores used for document persistence.
package storage

import "errors"

// ErrQuotaExceeded is returned by Put when the store has no room for the entry.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Store is a flat table of string keys to string values. Implementations are
// safe for concurrent use. Keys enumerates in ascending key order.
type Store interface {
	// Put stores value under key, overwriting any existing entry.
	Put(key, value string) error

	// Get returns the value for key. ok is false when no entry exists; a
	// missing key is never an error.
	Get(key string) (value string, ok bool, err error)

	// Remove deletes the entry for key. Removing a missing key is a no-op.
	Remove(key string) error

	// Keys returns every key currently held.
	Keys() ([]string, error)

	// Clear removes all entries irrespective of namespace.
	Clear() error
}
