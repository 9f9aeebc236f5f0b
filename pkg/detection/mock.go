package detection

import "sync"

// Mock implements Detector for testing.
type Mock struct {
	// DetectFunc is called when Detect is invoked.
	// If nil, Detect returns no detections.
	DetectFunc func(frame Frame) ([]Detection, error)

	mu     sync.Mutex
	calls  int
	closed bool
}

// NewMock returns a mock that replays script, one entry per Detect call.
// Once the script is exhausted every call returns no detections.
func NewMock(script ...[]Detection) *Mock {
	m := &Mock{}
	m.DetectFunc = func(Frame) ([]Detection, error) {
		i := m.Calls() - 1
		if i < len(script) {
			return script[i], nil
		}
		return nil, nil
	}
	return m
}

// Detect calls DetectFunc and records the call.
func (m *Mock) Detect(frame Frame) ([]Detection, error) {
	m.mu.Lock()
	m.calls++
	fn := m.DetectFunc
	m.mu.Unlock()

	if fn == nil {
		return nil, nil
	}
	return fn(frame)
}

// Close marks the mock closed.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Calls returns how many times Detect was invoked.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
