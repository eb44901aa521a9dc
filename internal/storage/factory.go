package storage

import (
	"fmt"
	"io"
	"path/filepath"

	"mindmaps/config/database"
)

// Options selects and configures the persistent backend.
type Options struct {
	Backend     string
	DataDir     string
	PostgresDSN string
	// QuotaBytes wraps the backend in a QuotaStore when positive.
	QuotaBytes int64
}

// New creates the persistent Store described by opts. Backends holding a file
// or connection implement io.Closer, including when wrapped in a QuotaStore.
//
// Supported backends:
//
//	"sqlite"   - SQLite database at DataDir/mindmaps.db (default)
//	"json"     - JSON file at DataDir/mindmaps.json
//	"postgres" - kv_entries table reached through PostgresDSN
//	"memory"   - in-memory (ephemeral, for testing)
func New(opts Options) (Store, error) {
	var (
		s   Store
		err error
	)
	switch opts.Backend {
	case "sqlite", "":
		s, err = NewSQLiteStore(filepath.Join(opts.DataDir, "mindmaps.db"))
	case "json":
		s, err = NewJSONFileStore(filepath.Join(opts.DataDir, "mindmaps.json"))
	case "postgres":
		db, cerr := database.Connect(opts.PostgresDSN)
		if cerr != nil {
			return nil, cerr
		}
		s, err = NewPostgresStore(db)
		if err != nil {
			db.Close()
		}
	case "memory":
		s = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: sqlite, json, postgres, memory)", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	if opts.QuotaBytes > 0 {
		q, err := NewQuotaStore(s, opts.QuotaBytes)
		if err != nil {
			if c, ok := s.(io.Closer); ok {
				c.Close()
			}
			return nil, err
		}
		s = q
	}
	return s, nil
}

// NewSession returns the session-scoped store. Its contents live as long as
// the process.
func NewSession() Store {
	return NewMemoryStore()
}
