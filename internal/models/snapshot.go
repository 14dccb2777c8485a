package models

import "time"

// Snapshot is the published result of one poll cycle. It is replaced as a
// whole and never mutated after publication.
type Snapshot struct {
	CycleID     string             `json:"cycle_id"`
	StartedAt   time.Time          `json:"started_at"`
	CompletedAt time.Time          `json:"completed_at"`
	Readings    map[string]Reading `json:"readings"`
	Control     ControlSignal      `json:"control"`
	Fan         FanState           `json:"fan"`
}

// Duration is the wall-clock length of the cycle.
func (s Snapshot) Duration() time.Duration {
	return s.CompletedAt.Sub(s.StartedAt)
}
