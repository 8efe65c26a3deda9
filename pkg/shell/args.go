package shell

import (
	"fmt"
	"strconv"

	"github.com/golang/geo/r3"

	"github.com/gwillem/uarm/pkg/robot"
)

func parseFloats(args []string, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("expected %d numbers, got %d", n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", a)
		}
		out[i] = f
	}
	return out, nil
}

// parseVector parses "x y z", optionally followed by a speed.
func parseVector(args []string) (r3.Vector, float64, error) {
	var speed float64
	if len(args) == 4 {
		s, err := parseFloats(args[3:], 1)
		if err != nil {
			return r3.Vector{}, 0, err
		}
		speed = s[0]
		args = args[:3]
	}
	f, err := parseFloats(args, 3)
	if err != nil {
		return r3.Vector{}, 0, err
	}
	return r3.Vector{X: f[0], Y: f[1], Z: f[2]}, speed, nil
}

// parseJog parses "axis delta" where axis is x, y or z.
func parseJog(args []string) (robot.Axis, float64, error) {
	if len(args) != 2 {
		return "", 0, fmt.Errorf("usage: jog x|y|z delta")
	}
	axis := robot.Axis(args[0])
	switch axis {
	case robot.AxisX, robot.AxisY, robot.AxisZ:
	default:
		return "", 0, fmt.Errorf("unknown axis %q", args[0])
	}
	d, err := parseFloats(args[1:], 1)
	if err != nil {
		return "", 0, err
	}
	return axis, d[0], nil
}

type gripperAction int

const (
	gripperToggle gripperAction = iota
	gripperOpen
	gripperClose
)

func parseGripper(args []string) (gripperAction, error) {
	if len(args) == 0 {
		return gripperToggle, nil
	}
	switch args[0] {
	case "toggle":
		return gripperToggle, nil
	case "open":
		return gripperOpen, nil
	case "close":
		return gripperClose, nil
	}
	return gripperToggle, fmt.Errorf("usage: gripper [open|close|toggle]")
}

func formatVector(v r3.Vector) string {
	return fmt.Sprintf("x=%.2f y=%.2f z=%.2f", v.X, v.Y, v.Z)
}
