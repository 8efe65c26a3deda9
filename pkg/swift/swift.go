package swift

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Commands for the device info block and state queries.
const (
	cmdDeviceName   = "P2201"
	cmdHardware     = "P2202"
	cmdFirmware     = "P2203"
	cmdAPIVersion   = "P2204"
	cmdUID          = "P2205"
	cmdPosition     = "P2220"
	cmdMoving       = "M2200"
	movingPollDelay = 20 * time.Millisecond
)

// Polar is a position in the arm's cylindrical frame.
type Polar struct {
	Stretch  float64
	Rotation float64
	Height   float64
}

// DeviceInfo is what the firmware reports about itself.
type DeviceInfo struct {
	Name     string
	Hardware string
	Firmware string
	API      string
	UID      string
}

// Swift is a connection to one arm. All methods are safe for concurrent use;
// commands are sent one at a time.
type Swift struct {
	cfg Config
	log *zap.SugaredLogger

	mu      sync.Mutex
	rw      io.ReadWriteCloser
	pending []byte
	seq     int
	factor  float64
	info    DeviceInfo
}

// New wraps an already open link. Most callers want Dial.
func New(rw io.ReadWriteCloser, cfg Config, log *zap.SugaredLogger) *Swift {
	cfg = cfg.withDefaults()
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Swift{
		cfg:    cfg,
		log:    log,
		rw:     rw,
		factor: 1,
	}
}

// Connected reports whether the link is open. It is safe on a nil *Swift.
func (s *Swift) Connected() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rw != nil
}

// Close closes the serial link.
func (s *Swift) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rw == nil {
		return nil
	}
	err := s.rw.Close()
	s.rw = nil
	return err
}

// Port returns the configured serial port name.
func (s *Swift) Port() string { return s.cfg.Port }

// Info returns the device info read while connecting.
func (s *Swift) Info() DeviceInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

// DeviceInfo reads the firmware's identification block.
func (s *Swift) DeviceInfo(ctx context.Context) (DeviceInfo, error) {
	var info DeviceInfo
	fields := []struct {
		cmd string
		dst *string
	}{
		{cmdDeviceName, &info.Name},
		{cmdHardware, &info.Hardware},
		{cmdFirmware, &info.Firmware},
		{cmdAPIVersion, &info.API},
		{cmdUID, &info.UID},
	}
	for _, f := range fields {
		r, err := s.Do(ctx, f.cmd)
		if err != nil {
			return DeviceInfo{}, errors.Wrapf(err, "device info %s", f.cmd)
		}
		*f.dst = r.Value()
	}
	return info, nil
}

// Position reads the current end effector position in millimetres.
func (s *Swift) Position(ctx context.Context) (r3.Vector, error) {
	r, err := s.Do(ctx, cmdPosition)
	if err != nil {
		return r3.Vector{}, errors.Wrap(err, "get position")
	}
	vals, err := r.Floats()
	if err != nil {
		return r3.Vector{}, errors.Wrap(err, "get position")
	}
	return r3.Vector{X: vals['X'], Y: vals['Y'], Z: vals['Z']}, nil
}

// SetPosition moves to pos at speed (mm/min) scaled by the speed factor and,
// when the connection waits for motion, returns once the arm has stopped.
func (s *Swift) SetPosition(ctx context.Context, pos r3.Vector, speed float64) error {
	s.mu.Lock()
	f := s.factor
	s.mu.Unlock()

	if _, err := s.Do(ctx, moveCommand(pos, speed*f)); err != nil {
		return errors.Wrapf(err, "set position (%.1f, %.1f, %.1f)", pos.X, pos.Y, pos.Z)
	}
	if s.cfg.WaitMotion {
		return s.waitIdle(ctx)
	}
	return nil
}

// SetPolar moves to a position given in the polar frame.
func (s *Swift) SetPolar(ctx context.Context, p Polar, speed float64) error {
	s.mu.Lock()
	f := s.factor
	s.mu.Unlock()

	if _, err := s.Do(ctx, polarCommand(p, speed*f)); err != nil {
		return errors.Wrap(err, "set polar")
	}
	if s.cfg.WaitMotion {
		return s.waitIdle(ctx)
	}
	return nil
}

// SetGripper opens or closes the gripper.
func (s *Swift) SetGripper(ctx context.Context, open bool) error {
	_, err := s.Do(ctx, gripperCommand(open))
	return errors.Wrap(err, "set gripper")
}

// SetSpeedFactor sets the multiplier applied to every move speed.
func (s *Swift) SetSpeedFactor(ctx context.Context, factor float64) error {
	if factor <= 0 {
		return errors.Errorf("speed factor must be positive, got %g", factor)
	}
	if !s.Connected() {
		return errors.Wrap(ErrConnection, "not open")
	}
	s.mu.Lock()
	s.factor = factor
	s.mu.Unlock()
	return nil
}

// SpeedFactor returns the current speed multiplier.
func (s *Swift) SpeedFactor() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.factor
}

// Beep sounds the buzzer, used to tell arms apart.
func (s *Swift) Beep(ctx context.Context, freq int, d time.Duration) error {
	_, err := s.Do(ctx, beepCommand(freq, int(d/time.Millisecond)))
	return errors.Wrap(err, "beep")
}

func (s *Swift) waitIdle(ctx context.Context) error {
	for {
		r, err := s.Do(ctx, cmdMoving)
		if err != nil {
			return errors.Wrap(err, "wait for motion")
		}
		if r.Value() == "0" {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(movingPollDelay):
		}
	}
}

// Do sends one command and waits for its reply.
func (s *Swift) Do(ctx context.Context, cmd string) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rw == nil {
		return Reply{}, errors.Wrap(ErrConnection, "not open")
	}

	s.seq++
	seq := s.seq
	s.log.Debugf("> #%d %s", seq, cmd)
	if _, err := io.WriteString(s.rw, formatCommand(seq, cmd)); err != nil {
		return Reply{}, errors.Wrap(ErrConnection, err.Error())
	}

	deadline := time.Now().Add(s.cfg.Timeout)
	for {
		line, err := s.readLine(ctx, deadline)
		if err != nil {
			return Reply{}, err
		}
		r, ok := parseReply(line)
		if !ok {
			if line != "" {
				s.log.Debugf("< %s", line)
			}
			continue
		}
		if r.Seq != seq {
			s.log.Debugf("dropping stale reply %d (want %d)", r.Seq, seq)
			continue
		}
		s.log.Debugf("< %s", line)
		return r, r.Err()
	}
}

// readLine returns the next line without its terminator. The caller holds s.mu.
func (s *Swift) readLine(ctx context.Context, deadline time.Time) (string, error) {
	buf := make([]byte, 256)
	for {
		if i := bytes.IndexByte(s.pending, '\n'); i >= 0 {
			line := string(s.pending[:i])
			s.pending = s.pending[i+1:]
			return strings.TrimRight(line, "\r"), nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if time.Now().After(deadline) {
			return "", ErrTimeout
		}

		n, err := s.rw.Read(buf)
		if n > 0 {
			s.pending = append(s.pending, buf[:n]...)
		}
		if err != nil {
			return "", errors.Wrap(ErrConnection, err.Error())
		}
	}
}
