package draw

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"

	"github.com/golang/geo/r2"
)

// Source supplies an ordered point sequence in the coordinate space of its canvas.
type Source interface {
	Canvas() Canvas
	Points(ctx context.Context) ([]r2.Point, error)
}

// Strokes is a freehand drawing: one point list per pointer drag, in the
// order the strokes were made.
type Strokes struct {
	Size  Canvas
	Lines [][]r2.Point
}

// NewStrokes creates an empty drawing on a canvas of the given size.
func NewStrokes(size Canvas) *Strokes {
	return &Strokes{Size: size}
}

// Add appends a stroke. Empty strokes are ignored.
func (s *Strokes) Add(stroke ...r2.Point) {
	if len(stroke) == 0 {
		return
	}
	s.Lines = append(s.Lines, stroke)
}

// Canvas returns the drawing's canvas.
func (s *Strokes) Canvas() Canvas { return s.Size }

// Points returns all strokes concatenated in stroke order.
func (s *Strokes) Points(ctx context.Context) ([]r2.Point, error) {
	var n int
	for _, l := range s.Lines {
		n += len(l)
	}
	points := make([]r2.Point, 0, n)
	for _, l := range s.Lines {
		points = append(points, l...)
	}
	return points, nil
}

type strokesFile struct {
	Width   float64        `json:"width"`
	Height  float64        `json:"height"`
	Strokes [][][2]float64 `json:"strokes"`
}

// LoadStrokes reads a drawing saved as
//
//	{"width": 500, "height": 500, "strokes": [[[x, y], ...], ...]}
//
// A file without width or height falls back to def.
func LoadStrokes(path string, def Canvas) (*Strokes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strokes file: %w", err)
	}

	var f strokesFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse strokes JSON: %w", err)
	}

	size := Canvas{Width: f.Width, Height: f.Height}
	if size.Width == 0 && size.Height == 0 {
		size = def
	}
	if err := size.Validate(); err != nil {
		return nil, err
	}

	s := NewStrokes(size)
	for _, raw := range f.Strokes {
		stroke := make([]r2.Point, len(raw))
		for i, xy := range raw {
			stroke[i] = r2.Point{X: xy[0], Y: xy[1]}
		}
		s.Add(stroke...)
	}
	return s, nil
}

// Save writes the drawing in the format LoadStrokes reads.
func (s *Strokes) Save(path string) error {
	f := strokesFile{
		Width:   s.Size.Width,
		Height:  s.Size.Height,
		Strokes: make([][][2]float64, len(s.Lines)),
	}
	for i, l := range s.Lines {
		f.Strokes[i] = make([][2]float64, len(l))
		for j, p := range l {
			f.Strokes[i][j] = [2]float64{p.X, p.Y}
		}
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// FlattenContours concatenates contours in traversal order, dropping those
// with fewer than minPoints points.
func FlattenContours(contours [][]image.Point, minPoints int) []r2.Point {
	var points []r2.Point
	for _, c := range contours {
		if len(c) < minPoints {
			continue
		}
		for _, p := range c {
			points = append(points, r2.Point{X: float64(p.X), Y: float64(p.Y)})
		}
	}
	return points
}
