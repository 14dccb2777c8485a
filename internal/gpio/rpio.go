package gpio

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"
)

// cycleLength makes one duty step equal one percent.
const cycleLength = 100

// RPIO drives a Raspberry Pi hardware PWM channel via /dev/gpiomem.
type RPIO struct {
	pin       rpio.Pin
	frequency int
	open      bool

	// hooks for tests; default to the rpio package
	openFn  func() error
	closeFn func() error
	setup   func(pin rpio.Pin, clock int)
	write   func(pin rpio.Pin, duty, cycle uint32)
}

// NewRPIO prepares pin for hardware PWM at frequency Hz. Memory is mapped
// lazily on the first write so a missing device is not fatal.
func NewRPIO(pin, frequency int) *RPIO {
	return &RPIO{
		pin:       rpio.Pin(pin),
		frequency: frequency,
		openFn:    rpio.Open,
		closeFn:   rpio.Close,
		setup: func(p rpio.Pin, clock int) {
			p.Mode(rpio.Pwm)
			p.Freq(clock)
		},
		write: func(p rpio.Pin, duty, cycle uint32) {
			p.DutyCycle(duty, cycle)
		},
	}
}

func (r *RPIO) ensureOpen() error {
	if r.open {
		return nil
	}
	if err := r.openFn(); err != nil {
		return fmt.Errorf("%w: %v", ErrNotOpen, err)
	}
	// the PWM clock runs cycleLength times faster than the output frequency
	r.setup(r.pin, r.frequency*cycleLength)
	r.open = true
	return nil
}

// SetDutyCycle writes percent (0..100) to the pin.
func (r *RPIO) SetDutyCycle(percent int) error {
	if err := checkDuty(percent); err != nil {
		return err
	}
	if err := r.ensureOpen(); err != nil {
		return err
	}
	r.write(r.pin, uint32(percent), cycleLength)
	return nil
}

// Close unmaps GPIO memory. The pin keeps its last duty cycle.
func (r *RPIO) Close() error {
	if !r.open {
		return nil
	}
	r.open = false
	return r.closeFn()
}
