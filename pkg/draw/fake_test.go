package draw

import (
	"context"
	"sync"

	"github.com/golang/geo/r3"
)

type call struct {
	name   string
	pos    r3.Vector
	speed  float64
	factor float64
}

// fakeDriver records every call. failAt makes the n-th SetPosition fail.
type fakeDriver struct {
	mu        sync.Mutex
	connected bool
	calls     []call
	failAt    int
	err       error
	positions int
}

func (f *fakeDriver) Connected() bool { return f.connected }

func (f *fakeDriver) SetPosition(ctx context.Context, pos r3.Vector, speed float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.positions++
	if f.err != nil && f.positions == f.failAt {
		return f.err
	}
	f.calls = append(f.calls, call{name: "position", pos: pos, speed: speed})
	return nil
}

func (f *fakeDriver) SetSpeedFactor(ctx context.Context, factor float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{name: "factor", factor: factor})
	return nil
}

func (f *fakeDriver) moves() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []call
	for _, c := range f.calls {
		if c.name == "position" {
			out = append(out, c)
		}
	}
	return out
}
