package draw

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang/geo/r3"
	"go.uber.org/zap"
)

// ErrNotConnected is returned when an export is started without a live driver.
var ErrNotConnected = errors.New("arm not connected")

// Driver is the part of an arm connection the sequencer needs. Every call
// blocks until the arm has accepted the command.
type Driver interface {
	Connected() bool
	SetPosition(ctx context.Context, pos r3.Vector, speed float64) error
	SetSpeedFactor(ctx context.Context, factor float64) error
}

// Sequencer issues a move list to a driver one move at a time.
type Sequencer struct {
	log *zap.SugaredLogger

	// Sleep waits between moves. It defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
	// OnMove, if set, is called after each move has been accepted.
	OnMove func(index int, m Move)
}

// NewSequencer creates a sequencer that logs to log.
func NewSequencer(log *zap.SugaredLogger) *Sequencer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Sequencer{
		log:   log,
		Sleep: sleep,
	}
}

// Run drives moves through drv in order. The speed factor is applied before
// the first move and reset to 1 before the home move. The first failing call
// aborts the run; moves already executed are not undone.
func (s *Sequencer) Run(ctx context.Context, drv Driver, moves []Move, factor float64) error {
	if drv == nil || !drv.Connected() {
		s.log.Warn("no arm connected, skipping motion")
		return ErrNotConnected
	}
	if len(moves) == 0 {
		return nil
	}

	if factor <= 0 {
		factor = 1
	}
	if err := drv.SetSpeedFactor(ctx, factor); err != nil {
		return fmt.Errorf("set speed factor: %w", err)
	}

	for i, m := range moves {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.Kind == Home {
			if err := drv.SetSpeedFactor(ctx, 1); err != nil {
				return fmt.Errorf("reset speed factor: %w", err)
			}
		}

		s.log.Debugf("move %d/%d %s (%.1f, %.1f, %.1f) F%.0f",
			i+1, len(moves), m.Kind, m.Pos.X, m.Pos.Y, m.Pos.Z, m.Speed)
		if err := drv.SetPosition(ctx, m.Pos, m.Speed); err != nil {
			return fmt.Errorf("move %d (%s): %w", i, m.Kind, err)
		}
		if s.OnMove != nil {
			s.OnMove(i, m)
		}

		if m.Delay > 0 {
			if err := s.Sleep(ctx, m.Delay); err != nil {
				return err
			}
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
