// Package draw turns 2-D point sequences into pen-plotting motion for a robot arm.
//
// A Source supplies points in its own pixel space. A Mapper scales them into a
// Workspace, Segment decides where the pen has to be lifted, Plan produces the
// ordered Move list and a Sequencer drives it through a Driver.
package draw

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r3"
)

var (
	// ErrInvalidCanvas is returned for a canvas with a non-positive dimension.
	ErrInvalidCanvas = errors.New("invalid canvas")
	// ErrInvalidWorkspace is returned for a workspace with empty bounds or equal pen heights.
	ErrInvalidWorkspace = errors.New("invalid workspace")
)

// Canvas is the coordinate space a point sequence was captured in.
type Canvas struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
}

// Validate returns ErrInvalidCanvas unless both dimensions are positive.
func (c Canvas) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrInvalidCanvas, c.Width, c.Height)
	}
	return nil
}

// Aspect returns width/height.
func (c Canvas) Aspect() float64 {
	return c.Width / c.Height
}

// Workspace is the physical rectangle the arm draws in, in millimetres of the
// arm's base frame, with the two pen heights and the rest position.
type Workspace struct {
	XMin  float64   `yaml:"x_min"`
	XMax  float64   `yaml:"x_max"`
	YMin  float64   `yaml:"y_min"`
	YMax  float64   `yaml:"y_max"`
	ZDraw float64   `yaml:"z_draw"`
	ZLift float64   `yaml:"z_lift"`
	Home  r3.Vector `yaml:"home"`
}

// Validate checks the bounds are non-empty and the pen heights differ.
func (w Workspace) Validate() error {
	switch {
	case w.XMax <= w.XMin:
		return fmt.Errorf("%w: x_max %g <= x_min %g", ErrInvalidWorkspace, w.XMax, w.XMin)
	case w.YMax <= w.YMin:
		return fmt.Errorf("%w: y_max %g <= y_min %g", ErrInvalidWorkspace, w.YMax, w.YMin)
	case w.ZLift == w.ZDraw:
		return fmt.Errorf("%w: z_lift equals z_draw (%g)", ErrInvalidWorkspace, w.ZDraw)
	}
	return nil
}

// Width returns the extent along x.
func (w Workspace) Width() float64 { return w.XMax - w.XMin }

// Height returns the extent along y.
func (w Workspace) Height() float64 { return w.YMax - w.YMin }

// Aspect returns Width/Height.
func (w Workspace) Aspect() float64 { return w.Width() / w.Height() }
