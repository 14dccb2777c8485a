package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cluster_fan/internal/gpio"
	"cluster_fan/internal/models"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix scopes environment overrides, e.g. FANCTL_SERVER_PORT.
const EnvPrefix = "FANCTL"

var (
	ErrInvalidFanConfig = errors.New("invalid fan config")
	ErrInvalidNodes     = errors.New("invalid node list")
	ErrInvalidPolling   = errors.New("invalid temperature monitoring config")
	ErrInvalidGPIO      = errors.New("invalid gpio config")
)

// Server is the listen address of either process.
type Server struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr returns host:port.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Monitoring controls the poll loop.
type Monitoring struct {
	IntervalSeconds float64 `mapstructure:"interval_seconds"`
	TimeoutSeconds  float64 `mapstructure:"timeout"`
	Endpoint        string  `mapstructure:"endpoint"`
}

// Interval is the poll period.
func (m Monitoring) Interval() time.Duration {
	return seconds(m.IntervalSeconds)
}

// Timeout is the per-node request timeout.
func (m Monitoring) Timeout() time.Duration {
	return seconds(m.TimeoutSeconds)
}

// GPIO selects the PWM driver.
type GPIO struct {
	Driver string `mapstructure:"driver"` // rpio | mock
}

// DB is the sqlite location.
type DB struct {
	Path string `mapstructure:"path"`
}

// Coordinator is the full coordinator configuration.
type Coordinator struct {
	LogLevel   string           `mapstructure:"log_level"`
	Server     Server           `mapstructure:"server"`
	DB         DB               `mapstructure:"db"`
	Monitoring Monitoring       `mapstructure:"temperature_monitoring"`
	Nodes      []models.Node    `mapstructure:"nodes"`
	Fan        models.FanConfig `mapstructure:"fan"`
	GPIO       GPIO             `mapstructure:"gpio"`
}

// newViper builds a viper instance that reads path (if any) and lets
// FANCTL_* environment variables override file values.
func newViper(path string) (*viper.Viper, error) {
	// .env is optional; missing file is not an error
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}
	return v, nil
}

func setCoordinatorDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("db.path", "fanctl.db")
	v.SetDefault("temperature_monitoring.interval_seconds", 10)
	v.SetDefault("temperature_monitoring.timeout", 5)
	v.SetDefault("temperature_monitoring.endpoint", "/api/temperature")
	v.SetDefault("fan.gpio_pin", 13)
	v.SetDefault("fan.min_temp", 40)
	v.SetDefault("fan.max_temp", 70)
	v.SetDefault("fan.min_speed", 30)
	v.SetDefault("fan.max_speed", 100)
	// 25 kHz is the 4-pin PC fan PWM standard
	v.SetDefault("fan.pwm_frequency", 25000)
	v.SetDefault("fan.startup_speed", 100)
	v.SetDefault("gpio.driver", gpio.DriverRPIO)
}

// LoadCoordinator reads and validates the coordinator config at path.
func LoadCoordinator(path string) (Coordinator, error) {
	v, err := newViper(path)
	if err != nil {
		return Coordinator{}, err
	}
	setCoordinatorDefaults(v)

	var cfg Coordinator
	if err := v.Unmarshal(&cfg); err != nil {
		return Coordinator{}, fmt.Errorf("decode coordinator config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Coordinator{}, err
	}
	return cfg, nil
}

// Validate checks the invariants the control loop relies on.
func (c Coordinator) Validate() error {
	if c.Monitoring.IntervalSeconds <= 0 {
		return fmt.Errorf("%w: interval_seconds must be > 0", ErrInvalidPolling)
	}
	if c.Monitoring.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: timeout must be > 0", ErrInvalidPolling)
	}
	if !strings.HasPrefix(c.Monitoring.Endpoint, "/") {
		return fmt.Errorf("%w: endpoint must start with '/'", ErrInvalidPolling)
	}
	if err := ValidateNodes(c.Nodes); err != nil {
		return err
	}
	switch c.GPIO.Driver {
	case gpio.DriverRPIO, gpio.DriverMock:
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidGPIO, c.GPIO.Driver)
	}
	return ValidateFan(c.Fan)
}

// ValidateNodes requires unique, non-empty names and usable addresses.
func ValidateNodes(nodes []models.Node) error {
	seen := make(map[string]struct{}, len(nodes))
	for i, n := range nodes {
		if strings.TrimSpace(n.Name) == "" {
			return fmt.Errorf("%w: node %d has no name", ErrInvalidNodes, i)
		}
		if _, dup := seen[n.Name]; dup {
			return fmt.Errorf("%w: duplicate node name %q", ErrInvalidNodes, n.Name)
		}
		seen[n.Name] = struct{}{}
		if strings.TrimSpace(n.Address) == "" {
			return fmt.Errorf("%w: node %q has no address", ErrInvalidNodes, n.Name)
		}
		if n.Port < 1 || n.Port > 65535 {
			return fmt.Errorf("%w: node %q port %d out of range", ErrInvalidNodes, n.Name, n.Port)
		}
	}
	return nil
}

// ValidateFan enforces min_temp < max_temp and 0 <= min_speed <= max_speed <= 100.
func ValidateFan(f models.FanConfig) error {
	if f.MinTemp >= f.MaxTemp {
		return fmt.Errorf("%w: min_temp %.1f must be below max_temp %.1f", ErrInvalidFanConfig, f.MinTemp, f.MaxTemp)
	}
	if f.MinSpeed < 0 || f.MaxSpeed > 100 || f.MinSpeed > f.MaxSpeed {
		return fmt.Errorf("%w: need 0 <= min_speed (%d) <= max_speed (%d) <= 100", ErrInvalidFanConfig, f.MinSpeed, f.MaxSpeed)
	}
	if f.StartupSpeed < 0 || f.StartupSpeed > 100 {
		return fmt.Errorf("%w: startup_speed %d out of range", ErrInvalidFanConfig, f.StartupSpeed)
	}
	if f.GPIOPin < 0 {
		return fmt.Errorf("%w: gpio_pin %d", ErrInvalidFanConfig, f.GPIOPin)
	}
	if f.PWMFrequency <= 0 {
		return fmt.Errorf("%w: pwm_frequency must be > 0", ErrInvalidFanConfig)
	}
	return nil
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
