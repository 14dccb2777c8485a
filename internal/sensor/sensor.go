package sensor

import (
	"context"
	"errors"
	"fmt"

	"cluster_fan/internal/config"
)

// Source names accepted in agent config.
const (
	SourceThermalZone = "thermal_zone"
	SourceDS18B20     = "ds18b20"
	SourceStatic      = "static"
)

var ErrSensorUnavailable = errors.New("temperature sensor unavailable")

// Reader reads one current temperature from a local source.
type Reader interface {
	ReadCelsius(ctx context.Context) (float64, error)
	// Source describes where the value comes from (a path or bus address).
	Source() string
	// Available reports whether the underlying source is present.
	Available() bool
}

// New builds the reader selected by cfg.Source.
func New(cfg config.Temperature) (Reader, error) {
	var r Reader
	switch cfg.Source {
	case SourceThermalZone, "":
		path := cfg.ThermalPath
		if path == "" {
			path = config.DefaultThermalPath
		}
		r = NewThermalZone(path)
	case SourceDS18B20:
		r = NewDS18B20(cfg.DS18B20Address)
	case SourceStatic:
		r = NewStatic(cfg.StaticCelsius)
	default:
		return nil, fmt.Errorf("unknown temperature source %q", cfg.Source)
	}
	if cfg.CalibrationOffsetCelsius != 0 {
		r = WithOffset(r, cfg.CalibrationOffsetCelsius)
	}
	return r, nil
}

type offsetReader struct {
	Reader
	offset float64
}

// WithOffset adds a fixed calibration offset to every reading of r.
func WithOffset(r Reader, offset float64) Reader {
	return &offsetReader{Reader: r, offset: offset}
}

func (o *offsetReader) ReadCelsius(ctx context.Context) (float64, error) {
	t, err := o.Reader.ReadCelsius(ctx)
	if err != nil {
		return 0, err
	}
	return t + o.offset, nil
}
