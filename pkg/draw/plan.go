package draw

import (
	"time"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// MoveKind tells what a move is for.
type MoveKind int

const (
	// Approach is the first, lifted move to the start of the drawing.
	Approach MoveKind = iota
	// Lift is a pen-up move bridging a gap between strokes.
	Lift
	// Draw is a pen-down move.
	Draw
	// Home is the final return to the rest position.
	Home
)

func (k MoveKind) String() string {
	switch k {
	case Approach:
		return "approach"
	case Lift:
		return "lift"
	case Draw:
		return "draw"
	case Home:
		return "home"
	default:
		return "unknown"
	}
}

// Move is one commanded arm pose followed by a pause.
type Move struct {
	Kind  MoveKind
	Pos   r3.Vector
	Speed float64
	Delay time.Duration
}

// Options holds the tunable motion parameters of an export.
type Options struct {
	// GapThreshold is the largest mapped distance still drawn as one stroke.
	GapThreshold float64 `yaml:"gap_threshold"`
	// DrawSpeed is used for approach, lift and draw moves.
	DrawSpeed float64 `yaml:"draw_speed"`
	// TravelSpeed is used for the final home move.
	TravelSpeed float64 `yaml:"travel_speed"`
	// SpeedFactor is applied to the driver before the first move and reset
	// to 1 before the home move.
	SpeedFactor float64       `yaml:"speed_factor"`
	SettleDelay time.Duration `yaml:"settle_delay"`
	DrawDelay   time.Duration `yaml:"draw_delay"`
}

// DefaultOptions returns the motion parameters used when none are configured.
func DefaultOptions() Options {
	return Options{
		GapThreshold: DefaultGapThreshold,
		DrawSpeed:    500,
		TravelSpeed:  5000,
		SpeedFactor:  1,
		SettleDelay:  500 * time.Millisecond,
		DrawDelay:    100 * time.Millisecond,
	}
}

// Plan turns mapped points and their segments into the ordered move list.
//
// The pen approaches the first point lifted. Every disjoint segment becomes
// lift-at-previous, lift-at-current, draw-at-current; every continuous
// segment a single draw. The list ends with a home move. No points, no moves.
func Plan(points []r2.Point, segs []Segment, ws Workspace, opts Options) []Move {
	if len(points) == 0 {
		return nil
	}

	at := func(p r2.Point, z float64) r3.Vector {
		return r3.Vector{X: p.X, Y: p.Y, Z: z}
	}

	moves := make([]Move, 0, 2+len(segs)*3)
	moves = append(moves, Move{
		Kind:  Approach,
		Pos:   at(points[0], ws.ZLift),
		Speed: opts.DrawSpeed,
		Delay: opts.SettleDelay,
	})

	for _, s := range segs {
		if s.Disjoint {
			moves = append(moves,
				Move{Kind: Lift, Pos: at(s.From, ws.ZLift), Speed: opts.DrawSpeed, Delay: opts.SettleDelay},
				Move{Kind: Lift, Pos: at(s.To, ws.ZLift), Speed: opts.DrawSpeed, Delay: opts.SettleDelay},
			)
		}
		moves = append(moves, Move{
			Kind:  Draw,
			Pos:   at(s.To, ws.ZDraw),
			Speed: opts.DrawSpeed,
			Delay: opts.DrawDelay,
		})
	}

	moves = append(moves, Move{
		Kind:  Home,
		Pos:   ws.Home,
		Speed: opts.TravelSpeed,
	})
	return moves
}

// Count returns how many moves of each kind a plan contains.
func Count(moves []Move) map[MoveKind]int {
	n := make(map[MoveKind]int, 4)
	for _, m := range moves {
		n[m.Kind]++
	}
	return n
}
