package robot

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang/geo/r3"
	"go.uber.org/zap"

	"github.com/gwillem/uarm/pkg/draw"
	"github.com/gwillem/uarm/pkg/swift"
)

// Driver is the full arm connection used by the control panel.
type Driver interface {
	draw.Driver
	Close() error
	Position(ctx context.Context) (r3.Vector, error)
	SetGripper(ctx context.Context, open bool) error
	SetPolar(ctx context.Context, p swift.Polar, speed float64) error
}

// Dialer opens a driver.
type Dialer func(ctx context.Context) (Driver, error)

// SwiftDialer dials a uArm Swift with the connection settings of cfg.
func SwiftDialer(cfg *Config, log *zap.SugaredLogger) Dialer {
	return func(ctx context.Context) (Driver, error) {
		s, err := swift.Dial(ctx, cfg.SwiftConfig(), log)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Arm owns the connection to one arm and the operator-facing state around it.
type Arm struct {
	cfg  *Config
	dial Dialer
	log  *zap.SugaredLogger

	mu          sync.Mutex
	drv         Driver
	gripperOpen bool
	target      r3.Vector
}

// NewArm creates a disconnected arm.
func NewArm(cfg *Config, dial Dialer, log *zap.SugaredLogger) *Arm {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Arm{
		cfg:    cfg,
		dial:   dial,
		log:    log,
		target: cfg.Jog.Start,
	}
}

// Connect opens the connection if it is not open yet.
func (a *Arm) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.drv != nil && a.drv.Connected() {
		return nil
	}
	drv, err := a.dial(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	a.drv = drv

	if pos, err := drv.Position(ctx); err == nil {
		a.target = a.cfg.Jog.Clamp(pos)
	} else {
		a.log.Warnf("read initial position: %v", err)
	}
	return nil
}

// Disconnect releases the gripper and closes the connection.
func (a *Arm) Disconnect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.drv == nil {
		return nil
	}
	if err := a.drv.SetGripper(ctx, true); err != nil {
		a.log.Warnf("release gripper: %v", err)
	}
	a.gripperOpen = true
	err := a.drv.Close()
	a.drv = nil
	return err
}

// Close closes the connection and leaves the gripper as it is, so a
// one-shot command can exit holding the pencil.
func (a *Arm) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.drv == nil {
		return nil
	}
	err := a.drv.Close()
	a.drv = nil
	return err
}

// Connected reports whether a live connection exists.
func (a *Arm) Connected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.drv != nil && a.drv.Connected()
}

// Driver returns the connection for the exporter, or nil when disconnected.
func (a *Arm) Driver() draw.Driver {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.drv == nil {
		return nil
	}
	return a.drv
}

func (a *Arm) driver() (Driver, error) {
	if a.drv == nil || !a.drv.Connected() {
		return nil, draw.ErrNotConnected
	}
	return a.drv, nil
}

// Position reads the current position.
func (a *Arm) Position(ctx context.Context) (r3.Vector, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	drv, err := a.driver()
	if err != nil {
		return r3.Vector{}, err
	}
	return drv.Position(ctx)
}

// MoveTo moves to pos at speed. Zero speed uses the jog speed.
func (a *Arm) MoveTo(ctx context.Context, pos r3.Vector, speed float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.moveTo(ctx, pos, speed)
}

func (a *Arm) moveTo(ctx context.Context, pos r3.Vector, speed float64) error {
	drv, err := a.driver()
	if err != nil {
		return err
	}
	if speed <= 0 {
		speed = a.cfg.Jog.Speed
	}
	a.log.Debugf("move to (%.1f, %.1f, %.1f) F%.0f", pos.X, pos.Y, pos.Z, speed)
	if err := drv.SetPosition(ctx, pos, speed); err != nil {
		return err
	}
	a.target = pos
	return nil
}

// MovePolar moves to a position in the polar frame.
func (a *Arm) MovePolar(ctx context.Context, p swift.Polar, speed float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	drv, err := a.driver()
	if err != nil {
		return err
	}
	if speed <= 0 {
		speed = a.cfg.Jog.Speed
	}
	return drv.SetPolar(ctx, p, speed)
}

// Home moves to the workspace's rest position.
func (a *Arm) Home(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.moveTo(ctx, a.cfg.Workspace.Home, a.cfg.Export.TravelSpeed)
}

// Target returns the last commanded jog position.
func (a *Arm) Target() r3.Vector {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.target
}

// Jog moves one axis by delta, clamped to the slider range, and returns the
// new target.
func (a *Arm) Jog(ctx context.Context, axis Axis, delta float64) (r3.Vector, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := axis.Set(a.target, axis.Get(a.target)+delta)
	return a.jogTo(ctx, next)
}

// JogTo moves to v with every component clamped to its slider range.
func (a *Arm) JogTo(ctx context.Context, v r3.Vector) (r3.Vector, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.jogTo(ctx, v)
}

func (a *Arm) jogTo(ctx context.Context, v r3.Vector) (r3.Vector, error) {
	v = a.cfg.Jog.Clamp(v)
	if err := a.moveTo(ctx, v, a.cfg.Jog.Speed); err != nil {
		return a.target, err
	}
	return v, nil
}

// SetGripper opens or closes the gripper.
func (a *Arm) SetGripper(ctx context.Context, open bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.setGripper(ctx, open)
}

func (a *Arm) setGripper(ctx context.Context, open bool) error {
	drv, err := a.driver()
	if err != nil {
		return err
	}
	if err := drv.SetGripper(ctx, open); err != nil {
		return err
	}
	a.gripperOpen = open
	return nil
}

// ToggleGripper flips the gripper and returns whether it is now open.
func (a *Arm) ToggleGripper(ctx context.Context) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	open := !a.gripperOpen
	if err := a.setGripper(ctx, open); err != nil {
		return a.gripperOpen, err
	}
	return open, nil
}

// GripperOpen returns the last commanded gripper state.
func (a *Arm) GripperOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gripperOpen
}

// GrabPencil picks the pencil out of its holder: approach from above with
// the gripper open, descend, close, and lift back to clearance height.
func (a *Arm) GrabPencil(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	p := a.cfg.Pencil
	above := p.Holder
	above.Z += p.Clearance

	steps := []struct {
		name string
		fn   func() error
	}{
		{"move above holder", func() error { return a.moveTo(ctx, above, p.Speed) }},
		{"open gripper", func() error { return a.setGripper(ctx, true) }},
		{"descend", func() error { return a.moveTo(ctx, p.Holder, p.Speed) }},
		{"close gripper", func() error { return a.setGripper(ctx, false) }},
		{"lift", func() error { return a.moveTo(ctx, above, p.Speed) }},
	}
	for _, s := range steps {
		a.log.Debugf("grab pencil: %s", s.name)
		if err := s.fn(); err != nil {
			return fmt.Errorf("grab pencil: %s: %w", s.name, err)
		}
	}
	return nil
}
