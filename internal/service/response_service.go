package service

import (
	"time"

	"cluster_fan/internal/models"
)

// LogFilter supports control event filtering by time range and type.
type LogFilter struct {
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Type  string    // "", "REGULATING_STARTED", "FAN_CHANGE", "GPIO_ERROR", "ALL_NODES_FAILED", "NODE_DOWN", "NODE_UP"
	Limit int       // 0 means no limit
}

// FanStatus is the fan view served to the dashboard.
type FanStatus struct {
	State   models.FanState      `json:"state"`
	Control models.ControlSignal `json:"control"`
}
