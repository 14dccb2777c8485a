package gpio

import (
	"errors"
	"fmt"
)

// Driver names accepted in config.
const (
	DriverRPIO = "rpio"
	DriverMock = "mock"
)

var (
	ErrNotOpen      = errors.New("gpio memory not mapped")
	ErrInvalidDuty  = errors.New("duty cycle out of range")
	ErrUnknownDrive = errors.New("unknown gpio driver")
)

// PWM sets the duty cycle of a single fan pin. Writes come only from the
// control loop, so implementations need not be safe for concurrent writers.
type PWM interface {
	SetDutyCycle(percent int) error
	Close() error
}

// New returns the PWM driver named by driver. The rpio driver tolerates a
// failed open and retries on every write.
func New(driver string, pin, frequency int) (PWM, error) {
	switch driver {
	case DriverRPIO:
		return NewRPIO(pin, frequency), nil
	case DriverMock:
		return NewMock(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDrive, driver)
	}
}

func checkDuty(percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidDuty, percent)
	}
	return nil
}
