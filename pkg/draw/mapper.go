package draw

import (
	"github.com/golang/geo/r2"
)

// Mapper scales canvas coordinates into a workspace with a single factor for
// both axes, anchored at the workspace's minimum corner.
type Mapper struct {
	Scale  float64
	Origin r2.Point
}

// NewMapper picks the largest uniform scale that fits the canvas into the
// workspace: width-bound when the canvas is relatively wider than the
// workspace, height-bound otherwise.
func NewMapper(canvas Canvas, ws Workspace) (Mapper, error) {
	if err := canvas.Validate(); err != nil {
		return Mapper{}, err
	}
	if err := ws.Validate(); err != nil {
		return Mapper{}, err
	}

	var scale float64
	if canvas.Aspect() > ws.Aspect() {
		scale = ws.Width() / canvas.Width
	} else {
		scale = ws.Height() / canvas.Height
	}

	return Mapper{
		Scale:  scale,
		Origin: r2.Point{X: ws.XMin, Y: ws.YMin},
	}, nil
}

// Map converts one canvas point. Points outside the canvas map outside the
// workspace; nothing is clipped.
func (m Mapper) Map(p r2.Point) r2.Point {
	return m.Origin.Add(p.Mul(m.Scale))
}

// MapAll converts a sequence, preserving order.
func (m Mapper) MapAll(points []r2.Point) []r2.Point {
	out := make([]r2.Point, len(points))
	for i, p := range points {
		out[i] = m.Map(p)
	}
	return out
}
