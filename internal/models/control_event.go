package models

import "time"

// Control event types.
const (
	EventRegulatingStarted = "REGULATING_STARTED"
	EventFanChange         = "FAN_CHANGE"
	EventGPIOError         = "GPIO_ERROR"
	EventAllNodesFailed    = "ALL_NODES_FAILED"
	EventNodeDown          = "NODE_DOWN"
	EventNodeUp            = "NODE_UP"
)

// ControlEvent is a single control-loop log entry.
type ControlEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
