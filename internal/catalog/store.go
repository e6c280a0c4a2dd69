package catalog

import (
	"sync"

	"go.uber.org/zap"
)

// Store holds the current catalog snapshot behind an RWMutex. Request
// handlers read a snapshot once and pass it down as a parameter; only the
// watcher (or an explicit reload) swaps it.
type Store struct {
	dir    string
	logger *zap.Logger

	mu   sync.RWMutex
	snap *Snapshot
}

// NewStore loads the catalog from dir and returns a store holding it.
func NewStore(dir string, logger *zap.Logger) *Store {
	return &Store{
		dir:    dir,
		logger: logger,
		snap:   LoadAll(dir, logger),
	}
}

// Snapshot returns the current catalog snapshot.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Reload re-reads the catalog directory and swaps in the new snapshot,
// returning it so callers can rebuild derived state (e.g. the search index).
func (s *Store) Reload() *Snapshot {
	snap := LoadAll(s.dir, s.logger)
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	s.logger.Info("catalog reloaded", zap.Int("parts", snap.Len()))
	return snap
}
