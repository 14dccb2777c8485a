package service

import (
	"context"

	"cluster_fan/internal/models"
	"cluster_fan/internal/repository"
)

// Monitoring exposes read-only state: nodes, readings, fan config and status.
type Monitoring interface {
	Snapshot() models.Snapshot
	Nodes() []models.Node
	Temperatures() map[string]models.Reading
	FanConfig() models.FanConfig
	FanStatus() FanStatus
}

// EventLog exposes the append-only control event log with filtering.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ControlEvent, error)
}

// Service aggregates the read-side services used by the HTTP layer.
type Service struct {
	Monitoring
	EventLog
}

// NewService wires the repository layer and the snapshot store into the
// read-side services.
func NewService(repos *repository.Repository, store *SnapshotStore, nodes []models.Node, fanCfg models.FanConfig) *Service {
	return &Service{
		Monitoring: NewMonitoringService(store, nodes, fanCfg),
		EventLog:   NewEventLogService(repos.EventRepo),
	}
}
