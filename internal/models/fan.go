package models

import "time"

// FanConfig is the static mapping from control temperature to duty cycle.
type FanConfig struct {
	GPIOPin      int     `json:"gpio_pin" mapstructure:"gpio_pin"`
	MinTemp      float64 `json:"min_temp" mapstructure:"min_temp"`
	MaxTemp      float64 `json:"max_temp" mapstructure:"max_temp"`
	MinSpeed     int     `json:"min_speed" mapstructure:"min_speed"`
	MaxSpeed     int     `json:"max_speed" mapstructure:"max_speed"`
	PWMFrequency int     `json:"pwm_frequency" mapstructure:"pwm_frequency"` // Hz
	StartupSpeed int     `json:"startup_speed" mapstructure:"startup_speed"` // duty applied before the first valid signal
}

// FanMode is the Fan Controller state.
type FanMode string

const (
	FanIdle       FanMode = "IDLE"
	FanRegulating FanMode = "REGULATING"
)

// FanState is the currently applied duty cycle. Only the Fan Controller
// produces new values.
type FanState struct {
	DutyCycle int       `json:"duty_cycle"` // percent, 0..100
	Mode      FanMode   `json:"mode"`
	ChangedAt time.Time `json:"changed_at"`
	LastError string    `json:"last_error,omitempty"`
}

// ControlSignal is the aggregated temperature for one cycle. Valid is false
// when no node produced a reading.
type ControlSignal struct {
	TemperatureC float64 `json:"temperature"`
	Valid        bool    `json:"valid"`
	Source       string  `json:"source,omitempty"` // hottest node
	Succeeded    int     `json:"succeeded"`
	Failed       int     `json:"failed"`
}
