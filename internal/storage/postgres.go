package storage

import (
	"database/sql"
	"fmt"

	"mindmaps/pkg/logger"
)

// PostgresStore keeps the table in PostgreSQL. Close releases the handle.
type PostgresStore struct {
	DB *sql.DB
}

// NewPostgresStore creates kv_entries if needed and returns a store over db.
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv_entries (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create kv_entries: %w", err)
	}
	return &PostgresStore{DB: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.DB.Close()
}

func (s *PostgresStore) Put(key, value string) error {
	_, err := s.DB.Exec(`INSERT INTO kv_entries (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = $2`, key, value)
	if err != nil {
		logger.Sugar.Errorf("Failed to put key %s: %v", key, err)
	}
	return err
}

func (s *PostgresStore) Get(key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRow("SELECT value FROM kv_entries WHERE key = $1", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		logger.Sugar.Errorf("Failed to get key %s: %v", key, err)
		return "", false, err
	}
	return value, true, nil
}

func (s *PostgresStore) Remove(key string) error {
	_, err := s.DB.Exec("DELETE FROM kv_entries WHERE key = $1", key)
	if err != nil {
		logger.Sugar.Errorf("Failed to remove key %s: %v", key, err)
	}
	return err
}

func (s *PostgresStore) Keys() ([]string, error) {
	rows, err := s.DB.Query("SELECT key FROM kv_entries ORDER BY key")
	if err != nil {
		logger.Sugar.Errorf("Failed to list keys: %v", err)
		return nil, err
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) Clear() error {
	_, err := s.DB.Exec("DELETE FROM kv_entries")
	if err != nil {
		logger.Sugar.Errorf("Failed to clear kv_entries: %v", err)
	}
	return err
}
