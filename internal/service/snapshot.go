package service

import (
	"sync/atomic"

	"cluster_fan/internal/models"
)

// SnapshotStore holds the latest published snapshot. Publish replaces it as
// one unit; readers never see a partially built cycle.
type SnapshotStore struct {
	current atomic.Pointer[models.Snapshot]
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Publish swaps in s. The caller must not mutate s.Readings afterwards.
func (s *SnapshotStore) Publish(snap models.Snapshot) {
	s.current.Store(&snap)
}

// Load returns the latest snapshot; ok is false before the first Publish.
func (s *SnapshotStore) Load() (models.Snapshot, bool) {
	p := s.current.Load()
	if p == nil {
		return models.Snapshot{}, false
	}
	return *p, true
}
