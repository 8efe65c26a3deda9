package draw

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testSequencer(t *testing.T) (*Sequencer, *[]time.Duration) {
	s := NewSequencer(zaptest.NewLogger(t).Sugar())
	var slept []time.Duration
	s.Sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return s, &slept
}

var testMoves = []Move{
	{Kind: Approach, Pos: r3.Vector{X: 155, Y: -75, Z: 10}, Speed: 500, Delay: 500 * time.Millisecond},
	{Kind: Lift, Pos: r3.Vector{X: 155, Y: -75, Z: 10}, Speed: 500, Delay: 500 * time.Millisecond},
	{Kind: Lift, Pos: r3.Vector{X: 250, Y: 20, Z: 10}, Speed: 500, Delay: 500 * time.Millisecond},
	{Kind: Draw, Pos: r3.Vector{X: 250, Y: 20, Z: 0}, Speed: 500, Delay: 100 * time.Millisecond},
	{Kind: Home, Pos: r3.Vector{X: 150, Y: 0, Z: 150}, Speed: 5000},
}

func TestSequencer_Run(t *testing.T) {
	s, slept := testSequencer(t)
	drv := &fakeDriver{connected: true}

	require.NoError(t, s.Run(context.Background(), drv, testMoves, 2))

	want := []call{
		{name: "factor", factor: 2},
		{name: "position", pos: testMoves[0].Pos, speed: 500},
		{name: "position", pos: testMoves[1].Pos, speed: 500},
		{name: "position", pos: testMoves[2].Pos, speed: 500},
		{name: "position", pos: testMoves[3].Pos, speed: 500},
		{name: "factor", factor: 1},
		{name: "position", pos: testMoves[4].Pos, speed: 5000},
	}
	assert.Equal(t, want, drv.calls)
	assert.Equal(t, []time.Duration{
		500 * time.Millisecond, 500 * time.Millisecond, 500 * time.Millisecond, 100 * time.Millisecond,
	}, *slept)
}

func TestSequencer_NotConnected(t *testing.T) {
	s, _ := testSequencer(t)

	drv := &fakeDriver{connected: false}
	err := s.Run(context.Background(), drv, testMoves, 1)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Empty(t, drv.calls)

	err = s.Run(context.Background(), nil, testMoves, 1)
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestSequencer_EmptyPlan(t *testing.T) {
	s, _ := testSequencer(t)
	drv := &fakeDriver{connected: true}

	require.NoError(t, s.Run(context.Background(), drv, nil, 1))
	assert.Empty(t, drv.calls)
}

func TestSequencer_DriverErrorAborts(t *testing.T) {
	s, _ := testSequencer(t)
	linkDown := errors.New("link down")
	drv := &fakeDriver{connected: true, failAt: 3, err: linkDown}

	var seen []int
	s.OnMove = func(i int, m Move) { seen = append(seen, i) }

	err := s.Run(context.Background(), drv, testMoves, 1)
	require.ErrorIs(t, err, linkDown)
	assert.Contains(t, err.Error(), "move 2 (lift)")
	assert.Len(t, drv.moves(), 2, "moves after the failure must not be issued")
	assert.Equal(t, []int{0, 1}, seen)
}

func TestSequencer_Cancelled(t *testing.T) {
	s := NewSequencer(nil)
	drv := &fakeDriver{connected: true}

	ctx, cancel := context.WithCancel(context.Background())
	s.Sleep = func(context.Context, time.Duration) error {
		cancel()
		return ctx.Err()
	}

	err := s.Run(ctx, drv, testMoves, 1)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, drv.moves(), 1)
}

func TestSleep(t *testing.T) {
	require.NoError(t, sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleep(ctx, time.Hour), context.Canceled)
}
