package models

import (
	"encoding/json"
	"time"
)

// FailureKind classifies why a poll attempt produced no temperature.
type FailureKind string

const (
	FailureNone        FailureKind = ""
	FailureTimeout     FailureKind = "timeout"
	FailureUnreachable FailureKind = "unreachable"
	FailureMalformed   FailureKind = "malformed"
)

// Reading is the outcome of one poll attempt for one node: either a
// temperature or a failure tag, never both.
type Reading struct {
	Node         string
	Slot         int
	TemperatureC float64 // valid only when Failure is empty
	Failure      FailureKind
	Detail       string
	Timestamp    time.Time
}

// OK reports whether the reading carries a temperature.
func (r Reading) OK() bool {
	return r.Failure == FailureNone
}

// Status is the display label for the reading.
func (r Reading) Status() string {
	if r.OK() {
		return "ok"
	}
	return string(r.Failure)
}

type readingJSON struct {
	Node        string      `json:"node"`
	Slot        int         `json:"slot"`
	Status      string      `json:"status"`
	Temperature *float64    `json:"temperature,omitempty"`
	Failure     FailureKind `json:"failure,omitempty"`
	Detail      string      `json:"detail,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}

// MarshalJSON omits the temperature for failed readings so 0°C stays
// distinguishable from "no value".
func (r Reading) MarshalJSON() ([]byte, error) {
	out := readingJSON{
		Node:      r.Node,
		Slot:      r.Slot,
		Status:    r.Status(),
		Failure:   r.Failure,
		Detail:    r.Detail,
		Timestamp: r.Timestamp,
	}
	if r.OK() {
		t := r.TemperatureC
		out.Temperature = &t
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (r *Reading) UnmarshalJSON(b []byte) error {
	var in readingJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*r = Reading{
		Node:      in.Node,
		Slot:      in.Slot,
		Failure:   in.Failure,
		Detail:    in.Detail,
		Timestamp: in.Timestamp,
	}
	if in.Temperature != nil {
		r.TemperatureC = *in.Temperature
	}
	return nil
}
