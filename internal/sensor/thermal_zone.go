package sensor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// ThermalZone reads a Linux thermal zone file holding millidegrees Celsius.
type ThermalZone struct {
	path string
}

func NewThermalZone(path string) *ThermalZone {
	return &ThermalZone{path: path}
}

func (z *ThermalZone) Source() string { return z.path }

func (z *ThermalZone) Available() bool {
	_, err := os.Stat(z.path)
	return err == nil
}

// ReadCelsius parses the file and converts millidegrees to degrees.
func (z *ThermalZone) ReadCelsius(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	b, err := os.ReadFile(z.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s not found", ErrSensorUnavailable, z.path)
		}
		return 0, fmt.Errorf("read %s: %w", z.path, err)
	}
	milli, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid temperature data in %s: %w", z.path, err)
	}
	return milli / 1000.0, nil
}
