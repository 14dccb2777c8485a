package service

import (
	"cluster_fan/internal/models"
)

// MonitoringService is the read side of the control loop. It only reads the
// published snapshot and static config, so handlers never block a cycle.
type MonitoringService struct {
	store  *SnapshotStore
	nodes  []models.Node
	fanCfg models.FanConfig
}

func NewMonitoringService(store *SnapshotStore, nodes []models.Node, fanCfg models.FanConfig) *MonitoringService {
	cp := make([]models.Node, len(nodes))
	copy(cp, nodes)
	return &MonitoringService{store: store, nodes: cp, fanCfg: fanCfg}
}

// Snapshot returns the latest published cycle, or a baseline Idle snapshot
// when nothing was published yet.
func (s *MonitoringService) Snapshot() models.Snapshot {
	if snap, ok := s.store.Load(); ok {
		return snap
	}
	return models.Snapshot{
		Readings: map[string]models.Reading{},
		Fan:      models.FanState{Mode: models.FanIdle},
	}
}

// Nodes returns the configured nodes, disabled ones included.
func (s *MonitoringService) Nodes() []models.Node {
	out := make([]models.Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Temperatures returns the readings from the latest cycle keyed by node name.
func (s *MonitoringService) Temperatures() map[string]models.Reading {
	return s.Snapshot().Readings
}

func (s *MonitoringService) FanConfig() models.FanConfig {
	return s.fanCfg
}

// FanStatus returns the applied fan state with the signal that produced it.
func (s *MonitoringService) FanStatus() FanStatus {
	snap := s.Snapshot()
	return FanStatus{State: snap.Fan, Control: snap.Control}
}
