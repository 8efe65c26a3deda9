package draw

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrokes_Points(t *testing.T) {
	s := NewStrokes(Canvas{Width: 100, Height: 50})
	s.Add(r2.Point{X: 1, Y: 1}, r2.Point{X: 2, Y: 2})
	s.Add()
	s.Add(r2.Point{X: 80, Y: 40})

	points, err := s.Points(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []r2.Point{{X: 1, Y: 1}, {X: 2, Y: 2}, {X: 80, Y: 40}}, points)
	assert.Len(t, s.Lines, 2, "empty strokes are ignored")
}

func TestLoadStrokes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "drawing.json")
	data := `{"width": 400, "height": 300, "strokes": [[[0, 0], [10, 5]], [[200, 150]]]}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	s, err := LoadStrokes(path, Canvas{Width: 500, Height: 500})
	require.NoError(t, err)
	assert.Equal(t, Canvas{Width: 400, Height: 300}, s.Canvas())
	require.Len(t, s.Lines, 2)
	assert.Equal(t, r2.Point{X: 10, Y: 5}, s.Lines[0][1])
}

func TestLoadStrokes_DefaultCanvas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drawing.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"strokes": [[[1, 2]]]}`), 0644))

	s, err := LoadStrokes(path, Canvas{Width: 500, Height: 500})
	require.NoError(t, err)
	assert.Equal(t, Canvas{Width: 500, Height: 500}, s.Canvas())
}

func TestLoadStrokes_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadStrokes(filepath.Join(dir, "missing.json"), Canvas{Width: 1, Height: 1})
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = LoadStrokes(bad, Canvas{Width: 1, Height: 1})
	assert.Error(t, err)

	neg := filepath.Join(dir, "neg.json")
	require.NoError(t, os.WriteFile(neg, []byte(`{"width": -5, "height": 10}`), 0644))
	_, err = LoadStrokes(neg, Canvas{Width: 1, Height: 1})
	assert.ErrorIs(t, err, ErrInvalidCanvas)
}

func TestStrokes_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drawing.json")

	s := NewStrokes(Canvas{Width: 640, Height: 480})
	s.Add(r2.Point{X: 1.5, Y: 2.5}, r2.Point{X: 3, Y: 4})
	require.NoError(t, s.Save(path))

	loaded, err := LoadStrokes(path, Canvas{Width: 1, Height: 1})
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestFlattenContours(t *testing.T) {
	contours := [][]image.Point{
		{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}},
		{{X: 9, Y: 9}},
		{{X: 5, Y: 5}, {X: 6, Y: 6}},
	}

	got := FlattenContours(contours, 2)
	want := []r2.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 5, Y: 5}, {X: 6, Y: 6}}
	assert.Equal(t, want, got)

	assert.Empty(t, FlattenContours(nil, 0))
}
