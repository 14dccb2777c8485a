package sensor

import (
	"context"
	"fmt"

	"github.com/yryz/ds18b20"
)

// DS18B20 reads a 1-wire DS18B20 probe by its bus address.
type DS18B20 struct {
	address string
	read    func(address string) (float64, error)
}

func NewDS18B20(address string) *DS18B20 {
	return &DS18B20{address: address, read: ds18b20.Temperature}
}

func (d *DS18B20) Source() string { return "ds18b20:" + d.address }

func (d *DS18B20) Available() bool {
	sensors, err := ds18b20.Sensors()
	if err != nil {
		return false
	}
	for _, s := range sensors {
		if s == d.address {
			return true
		}
	}
	return false
}

func (d *DS18B20) ReadCelsius(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	t, err := d.read(d.address)
	if err != nil {
		return 0, fmt.Errorf("%w: ds18b20 %s: %v", ErrSensorUnavailable, d.address, err)
	}
	return t, nil
}
