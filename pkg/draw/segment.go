package draw

import (
	"github.com/golang/geo/r2"
)

// DefaultGapThreshold is the distance in millimetres above which two
// consecutive points are treated as separate strokes.
const DefaultGapThreshold = 10.0

// Segment is one consecutive pair of mapped points.
type Segment struct {
	From     r2.Point
	To       r2.Point
	Distance float64
	// Disjoint is set when the pen has to be lifted between From and To.
	Disjoint bool
}

// Segments classifies every consecutive pair of points. A pair further apart
// than threshold is disjoint; a pair at exactly threshold still counts as
// continuous. Fewer than two points yield no segments.
func Segments(points []r2.Point, threshold float64) []Segment {
	if len(points) < 2 {
		return nil
	}

	segs := make([]Segment, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		from, to := points[i-1], points[i]
		d := to.Sub(from).Norm()
		segs = append(segs, Segment{
			From:     from,
			To:       to,
			Distance: d,
			Disjoint: d > threshold,
		})
	}
	return segs
}
