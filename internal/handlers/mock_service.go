package handlers

import (
	"context"
	"sync"
	"time"

	"cluster_fan/internal/models"
	"cluster_fan/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockMonitoring struct {
	mu     sync.Mutex
	snap   models.Snapshot
	nodes  []models.Node
	fanCfg models.FanConfig
}

func (m *mockMonitoring) set(s models.Snapshot) {
	m.mu.Lock()
	m.snap = s
	m.mu.Unlock()
}

func (m *mockMonitoring) Snapshot() models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

func (m *mockMonitoring) Nodes() []models.Node { return m.nodes }

func (m *mockMonitoring) Temperatures() map[string]models.Reading {
	return m.Snapshot().Readings
}

func (m *mockMonitoring) FanConfig() models.FanConfig { return m.fanCfg }

func (m *mockMonitoring) FanStatus() service.FanStatus {
	s := m.Snapshot()
	return service.FanStatus{State: s.Fan, Control: s.Control}
}

type mockEventLog struct {
	resp      []models.ControlEvent
	err       error
	calls     int
	lastFrom  time.Time
	lastTo    time.Time
	lastType  string
	lastLimit int
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.ControlEvent, error) {
	m.calls++
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	m.lastLimit = f.Limit
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, nil)
	return h.InitRoutes()
}
