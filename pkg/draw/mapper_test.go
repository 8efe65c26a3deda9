package draw

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

var testWorkspace = Workspace{
	XMin: 155, XMax: 250,
	YMin: -75, YMax: 75,
	ZDraw: 0, ZLift: 10,
	Home: r3.Vector{X: 150, Y: 0, Z: 150},
}

func TestNewMapper_Scale(t *testing.T) {
	tests := []struct {
		name   string
		canvas Canvas
		want   float64
	}{
		{"square canvas is width-bound", Canvas{500, 500}, 95.0 / 500},
		{"wide canvas is width-bound", Canvas{1000, 200}, 95.0 / 1000},
		{"tall canvas is height-bound", Canvas{100, 600}, 150.0 / 600},
		{"same aspect is height-bound", Canvas{95, 150}, 150.0 / 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMapper(tt.canvas, testWorkspace)
			if err != nil {
				t.Fatalf("NewMapper(%v) error: %v", tt.canvas, err)
			}
			if math.Abs(m.Scale-tt.want) > 1e-9 {
				t.Errorf("Scale = %f, want %f", m.Scale, tt.want)
			}

			// Both axes must use the same factor.
			p := m.Map(r2.Point{X: 10, Y: 10})
			dx, dy := p.X-testWorkspace.XMin, p.Y-testWorkspace.YMin
			if math.Abs(dx-dy) > 1e-9 {
				t.Errorf("axes scaled differently: dx=%f dy=%f", dx, dy)
			}
		})
	}
}

func TestNewMapper_InvalidCanvas(t *testing.T) {
	for _, c := range []Canvas{{0, 500}, {500, 0}, {-1, 10}, {10, -1}} {
		_, err := NewMapper(c, testWorkspace)
		if !errors.Is(err, ErrInvalidCanvas) {
			t.Errorf("NewMapper(%v) error = %v, want ErrInvalidCanvas", c, err)
		}
	}
}

func TestNewMapper_InvalidWorkspace(t *testing.T) {
	ws := testWorkspace
	ws.ZLift = ws.ZDraw
	if _, err := NewMapper(Canvas{500, 500}, ws); !errors.Is(err, ErrInvalidWorkspace) {
		t.Errorf("error = %v, want ErrInvalidWorkspace", err)
	}
}

func TestMapper_Map(t *testing.T) {
	m, err := NewMapper(Canvas{500, 500}, testWorkspace)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		in   r2.Point
		want r2.Point
	}{
		{r2.Point{X: 0, Y: 0}, r2.Point{X: 155, Y: -75}},
		{r2.Point{X: 500, Y: 500}, r2.Point{X: 250, Y: 20}},
		{r2.Point{X: 250, Y: 0}, r2.Point{X: 202.5, Y: -75}},
		// out of canvas maps out of workspace, unclipped
		{r2.Point{X: -100, Y: 1000}, r2.Point{X: 136, Y: 115}},
	}

	for _, tt := range tests {
		got := m.Map(tt.in)
		if !near(got, tt.want) {
			t.Errorf("Map(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMapper_MapAll(t *testing.T) {
	m, err := NewMapper(Canvas{500, 500}, testWorkspace)
	if err != nil {
		t.Fatal(err)
	}

	if got := m.MapAll(nil); len(got) != 0 {
		t.Errorf("MapAll(nil) = %v, want empty", got)
	}

	in := []r2.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 0, Y: 100}}
	got := m.MapAll(in)
	if len(got) != len(in) {
		t.Fatalf("MapAll returned %d points, want %d", len(got), len(in))
	}
	for i := range in {
		if !near(got[i], m.Map(in[i])) {
			t.Errorf("MapAll()[%d] = %v, want %v", i, got[i], m.Map(in[i]))
		}
	}
}

func near(a, b r2.Point) bool {
	return a.Sub(b).Norm() < 1e-9
}
