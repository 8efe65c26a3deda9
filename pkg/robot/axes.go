// Package robot provides the control panel operations of a uArm Swift:
// connecting, jogging, the gripper and the home and pencil routines.
package robot

import "github.com/golang/geo/r3"

// Axis identifies a cartesian jog axis.
type Axis string

// Jog axes of the arm's base frame.
const (
	AxisX Axis = "x"
	AxisY Axis = "y"
	AxisZ Axis = "z"
)

// AllAxes returns the axes in display order.
func AllAxes() []Axis {
	return []Axis{AxisX, AxisY, AxisZ}
}

// Get returns the component of v along the axis.
func (a Axis) Get(v r3.Vector) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	case AxisZ:
		return v.Z
	}
	return 0
}

// Set returns v with the component along the axis replaced.
func (a Axis) Set(v r3.Vector, val float64) r3.Vector {
	switch a {
	case AxisX:
		v.X = val
	case AxisY:
		v.Y = val
	case AxisZ:
		v.Z = val
	}
	return v
}
