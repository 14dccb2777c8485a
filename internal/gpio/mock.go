package gpio

import "sync"

// Mock records duty cycle writes instead of touching hardware.
type Mock struct {
	mu     sync.Mutex
	writes []int
	fail   error
	closed bool
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SetDutyCycle(percent int) error {
	if err := checkDuty(percent); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.writes = append(m.writes, percent)
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// FailWith makes subsequent writes return err; nil restores normal writes.
func (m *Mock) FailWith(err error) {
	m.mu.Lock()
	m.fail = err
	m.mu.Unlock()
}

// Writes returns a copy of every successful write, oldest first.
func (m *Mock) Writes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.writes))
	copy(out, m.writes)
	return out
}

// Last returns the most recent successful write.
func (m *Mock) Last() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.writes) == 0 {
		return 0, false
	}
	return m.writes[len(m.writes)-1], true
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
