package store

import (
	"fmt"
	"sync"
)

// Manager provides shared database access to prevent locking conflicts
// when several commands in one process touch the same store.
type Manager struct {
	db     *DB
	dbPath string
	refs   int
}

var globalManager *Manager
var managerMu sync.Mutex

// GetSharedDB returns a shared database connection for the given path.
// Multiple calls with the same path return the same connection. The
// connection is reference counted and closed when all references are
// released.
func GetSharedDB(dbPath string) (*SharedDB, error) {
	managerMu.Lock()
	defer managerMu.Unlock()

	if globalManager == nil || globalManager.dbPath != dbPath {
		if globalManager != nil {
			globalManager.close()
		}

		db, err := Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}

		globalManager = &Manager{
			db:     db,
			dbPath: dbPath,
		}
	}

	globalManager.refs++

	return &SharedDB{
		manager: globalManager,
		DB:      globalManager.db,
	}, nil
}

// SharedDB wraps a database connection with reference counting.
type SharedDB struct {
	manager *Manager
	*DB
}

// Close decrements the reference count and closes the underlying
// database when no more references exist.
func (sdb *SharedDB) Close() error {
	if sdb.manager == nil {
		return nil
	}

	managerMu.Lock()
	defer managerMu.Unlock()

	sdb.manager.refs--
	if sdb.manager.refs <= 0 {
		err := sdb.manager.close()
		globalManager = nil
		return err
	}
	return nil
}

func (m *Manager) close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
