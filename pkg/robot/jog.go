package robot

import "github.com/golang/geo/r3"

// Range is an inclusive interval of one jog slider.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Clamp limits v to the range.
func (r Range) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Fraction converts a value to its slider position in [0, 1].
func (r Range) Fraction(v float64) float64 {
	size := r.Max - r.Min
	if size == 0 {
		return 0
	}
	return (r.Clamp(v) - r.Min) / size
}

// Value converts a slider position in [0, 1] back to a value.
func (r Range) Value(frac float64) float64 {
	return r.Min + frac*(r.Max-r.Min)
}

// JogConfig holds the slider ranges and step of manual jogging.
type JogConfig struct {
	X     Range     `yaml:"x"`
	Y     Range     `yaml:"y"`
	Z     Range     `yaml:"z"`
	Step  float64   `yaml:"step"`
	Speed float64   `yaml:"speed"`
	Start r3.Vector `yaml:"start"`
}

// Range returns the slider range of an axis.
func (j JogConfig) Range(a Axis) Range {
	switch a {
	case AxisX:
		return j.X
	case AxisY:
		return j.Y
	default:
		return j.Z
	}
}

// Clamp limits every component of v to its slider range.
func (j JogConfig) Clamp(v r3.Vector) r3.Vector {
	for _, a := range AllAxes() {
		v = a.Set(v, j.Range(a).Clamp(a.Get(v)))
	}
	return v
}
