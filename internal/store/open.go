package store

import (
	"fmt"
	"path/filepath"
)

const (
	BackendDiskv  = "diskv"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var Backends = []string{BackendDiskv, BackendSQLite, BackendMemory}

// OpenPersistence builds the named backend rooted at dataDir.
func OpenPersistence(backend, dataDir, slot string) (Persistence, error) {
	switch backend {
	case BackendDiskv, "":
		return NewDiskv(filepath.Join(dataDir, "data"), slot)
	case BackendSQLite:
		return NewSQLite(filepath.Join(dataDir, "quadra.db"), slot)
	case BackendMemory:
		return NewMemoryPersistence(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
