// Package monitor polls an arm's position for live displays.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang/geo/r3"
)

// DefaultHz is the polling rate used when none is configured.
const DefaultHz = 10

// State is one position reading.
type State struct {
	Position  r3.Vector
	Timestamp time.Time
	Error     error
}

// Positioner reports where the arm is.
type Positioner interface {
	Position(ctx context.Context) (r3.Vector, error)
}

// Monitor polls a Positioner at a fixed rate and publishes the readings.
type Monitor struct {
	arm Positioner
	hz  int

	mu      sync.Mutex
	running bool
	stateCh chan State
	logCh   chan string
	now     func() time.Time
}

// New creates a monitor polling arm hz times per second.
func New(arm Positioner, hz int) *Monitor {
	if hz <= 0 {
		hz = DefaultHz
	}
	return &Monitor{
		arm:     arm,
		hz:      hz,
		stateCh: make(chan State, 1),
		logCh:   make(chan string, 10),
		now:     time.Now,
	}
}

// States returns a channel that receives the latest reading. Readings not
// consumed in time are replaced by newer ones.
func (m *Monitor) States() <-chan State {
	return m.stateCh
}

// Logs returns a channel that receives log messages.
func (m *Monitor) Logs() <-chan string {
	return m.logCh
}

// Hz returns the polling frequency.
func (m *Monitor) Hz() int {
	return m.hz
}

// Logf publishes a timestamped message on the log channel. Messages are
// dropped when nobody reads them.
func (m *Monitor) Logf(format string, args ...any) {
	msg := fmt.Sprintf("[%s] %s", m.now().Format("15:04:05"), fmt.Sprintf(format, args...))
	select {
	case m.logCh <- msg:
	default:
	}
}

// Start polls until ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("already running")
	}
	m.running = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
	}()

	ticker := time.NewTicker(time.Second / time.Duration(m.hz))
	defer ticker.Stop()

	m.step(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.step(ctx)
		}
	}
}

func (m *Monitor) step(ctx context.Context) {
	pos, err := m.arm.Position(ctx)
	if err != nil {
		if ctx.Err() == nil {
			m.Logf("read error: %v", err)
		}
		m.sendState(State{Error: err, Timestamp: m.now()})
		return
	}
	m.sendState(State{Position: pos, Timestamp: m.now()})
}

func (m *Monitor) sendState(s State) {
	select {
	case m.stateCh <- s:
	default:
		// replace the stale reading
		select {
		case <-m.stateCh:
		default:
		}
		select {
		case m.stateCh <- s:
		default:
		}
	}
}
