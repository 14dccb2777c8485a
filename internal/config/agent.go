package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Temperature selects and tunes the agent's local sensor.
type Temperature struct {
	Source                   string  `mapstructure:"source"` // thermal_zone | ds18b20 | static
	ThermalPath              string  `mapstructure:"thermal_path"`
	DS18B20Address           string  `mapstructure:"ds18b20_address"`
	StaticCelsius            float64 `mapstructure:"static_celsius"`
	CalibrationOffsetCelsius float64 `mapstructure:"calibration_offset_celsius"`
}

// Agent is the per-node agent configuration.
type Agent struct {
	LogLevel    string      `mapstructure:"log_level"`
	Server      Server      `mapstructure:"server"`
	Temperature Temperature `mapstructure:"temperature"`
}

// DefaultThermalPath is the Linux thermal zone read when nothing else is configured.
const DefaultThermalPath = "/sys/class/thermal/thermal_zone0/temp"

func setAgentDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5001)
	v.SetDefault("temperature.source", "thermal_zone")
	v.SetDefault("temperature.thermal_path", DefaultThermalPath)
}

// LoadAgent reads and validates the agent config at path. An empty path
// yields the defaults (plus env overrides).
func LoadAgent(path string) (Agent, error) {
	v, err := newViper(path)
	if err != nil {
		return Agent{}, err
	}
	setAgentDefaults(v)

	var cfg Agent
	if err := v.Unmarshal(&cfg); err != nil {
		return Agent{}, fmt.Errorf("decode agent config: %w", err)
	}

	switch cfg.Temperature.Source {
	case "thermal_zone", "static":
	case "ds18b20":
		if cfg.Temperature.DS18B20Address == "" {
			return Agent{}, fmt.Errorf("temperature.ds18b20_address is required for source ds18b20")
		}
	default:
		return Agent{}, fmt.Errorf("unknown temperature source %q", cfg.Temperature.Source)
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return Agent{}, fmt.Errorf("server.port %d out of range", cfg.Server.Port)
	}
	return cfg, nil
}
