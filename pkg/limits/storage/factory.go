package storage

import "fmt"

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Options selects and configures a store.
type Options struct {
	Backend string
	Memory  MemoryConfig
	SQLite  SQLiteConfig
}

// Open creates the store named by opts.Backend.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(opts.Memory), nil
	case BackendSQLite:
		s, err := NewSQLiteStore(opts.SQLite)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
