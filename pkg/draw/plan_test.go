package draw

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(moves []Move) []MoveKind {
	out := make([]MoveKind, len(moves))
	for i, m := range moves {
		out[i] = m.Kind
	}
	return out
}

func TestPlan_Empty(t *testing.T) {
	assert.Empty(t, Plan(nil, nil, testWorkspace, DefaultOptions()))
}

func TestPlan_SinglePoint(t *testing.T) {
	points := []r2.Point{{X: 200, Y: 0}}
	moves := Plan(points, Segments(points, 10), testWorkspace, DefaultOptions())

	require.Equal(t, []MoveKind{Approach, Home}, kinds(moves))
	assert.Equal(t, r3.Vector{X: 200, Y: 0, Z: testWorkspace.ZLift}, moves[0].Pos)
}

func TestPlan_ContinuousPair(t *testing.T) {
	points := []r2.Point{{X: 200, Y: 0}, {X: 203, Y: 4}}
	opts := DefaultOptions()
	moves := Plan(points, Segments(points, 10), testWorkspace, opts)

	require.Equal(t, []MoveKind{Approach, Draw, Home}, kinds(moves))
	draw := moves[1]
	assert.Equal(t, r3.Vector{X: 203, Y: 4, Z: testWorkspace.ZDraw}, draw.Pos)
	assert.Equal(t, opts.DrawSpeed, draw.Speed)
	assert.Equal(t, opts.DrawDelay, draw.Delay)
}

func TestPlan_DisjointPair(t *testing.T) {
	points := []r2.Point{{X: 160, Y: -70}, {X: 240, Y: 60}}
	opts := DefaultOptions()
	moves := Plan(points, Segments(points, 10), testWorkspace, opts)

	require.Equal(t, []MoveKind{Approach, Lift, Lift, Draw, Home}, kinds(moves))
	assert.Equal(t, r3.Vector{X: 160, Y: -70, Z: testWorkspace.ZLift}, moves[1].Pos)
	assert.Equal(t, r3.Vector{X: 240, Y: 60, Z: testWorkspace.ZLift}, moves[2].Pos)
	assert.Equal(t, r3.Vector{X: 240, Y: 60, Z: testWorkspace.ZDraw}, moves[3].Pos)
	assert.Equal(t, opts.SettleDelay, moves[1].Delay)
	assert.Equal(t, opts.SettleDelay, moves[2].Delay)
}

func TestPlan_Home(t *testing.T) {
	points := []r2.Point{{X: 200, Y: 0}, {X: 201, Y: 0}}
	opts := DefaultOptions()
	moves := Plan(points, Segments(points, 10), testWorkspace, opts)

	home := moves[len(moves)-1]
	assert.Equal(t, Home, home.Kind)
	assert.Equal(t, testWorkspace.Home, home.Pos)
	assert.Equal(t, opts.TravelSpeed, home.Speed)
	assert.Greater(t, home.Speed, moves[1].Speed, "home move should be faster than drawing")
}

func TestPlan_TwoStrokes(t *testing.T) {
	points := []r2.Point{
		{X: 160, Y: 0}, {X: 165, Y: 0}, {X: 170, Y: 0},
		{X: 220, Y: 0}, {X: 225, Y: 0},
	}
	moves := Plan(points, Segments(points, 10), testWorkspace, DefaultOptions())

	assert.Equal(t, []MoveKind{Approach, Draw, Draw, Lift, Lift, Draw, Draw, Home}, kinds(moves))
	n := Count(moves)
	assert.Equal(t, 2, n[Lift])
	assert.Equal(t, 4, n[Draw])
}

func TestMoveKind_String(t *testing.T) {
	assert.Equal(t, "approach", Approach.String())
	assert.Equal(t, "lift", Lift.String())
	assert.Equal(t, "draw", Draw.String())
	assert.Equal(t, "home", Home.String())
	assert.Equal(t, "unknown", MoveKind(42).String())
}
