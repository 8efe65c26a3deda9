package swift

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReply(t *testing.T) {
	tests := []struct {
		line string
		ok   bool
		want Reply
	}{
		{"$1 ok", true, Reply{Seq: 1, OK: true, Fields: []string{}}},
		{"$12 ok X154.70 Y0.00 Z35.27\r", true, Reply{Seq: 12, OK: true, Fields: []string{"X154.70", "Y0.00", "Z35.27"}}},
		{"$3 E22", true, Reply{Seq: 3, Code: "E22", Fields: []string{}}},
		{"@1 X1 Y2", false, Reply{}},
		{"", false, Reply{}},
		{"$x ok", false, Reply{}},
		{"$4", false, Reply{}},
		{"$4 maybe", false, Reply{}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := parseReply(tt.line)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestReply_Err(t *testing.T) {
	assert.NoError(t, Reply{OK: true}.Err())
	assert.ErrorIs(t, Reply{Code: "E22"}.Err(), ErrOutOfRange)
	assert.ErrorIs(t, Reply{Code: "E20"}.Err(), ErrCommand)
	assert.ErrorIs(t, Reply{Code: "E21"}.Err(), ErrCommand)

	err := Reply{Code: "E99"}.Err()
	assert.True(t, errors.Is(err, ErrCommand))
	assert.Contains(t, err.Error(), "E99")
}

func TestReply_Value(t *testing.T) {
	assert.Equal(t, "3.3.1", Reply{Fields: []string{"V3.3.1"}}.Value())
	assert.Equal(t, "0", Reply{Fields: []string{"V0"}}.Value())
	assert.Equal(t, "", Reply{}.Value())
	assert.Equal(t, "x", Reply{Fields: []string{"x"}}.Value())
}

func TestReply_Floats(t *testing.T) {
	vals, err := Reply{Fields: []string{"X154.70", "Y-3.5", "Z35.27"}}.Floats()
	require.NoError(t, err)
	assert.InDelta(t, 154.70, vals['X'], 1e-9)
	assert.InDelta(t, -3.5, vals['Y'], 1e-9)
	assert.InDelta(t, 35.27, vals['Z'], 1e-9)

	_, err = Reply{Fields: []string{"Xabc"}}.Floats()
	assert.Error(t, err)
}

func TestCommands(t *testing.T) {
	assert.Equal(t, "#7 P2220\n", formatCommand(7, "P2220"))
	assert.Equal(t, "G0 X200.00 Y-10.50 Z5.00 F1000", moveCommand(r3.Vector{X: 200, Y: -10.5, Z: 5}, 1000))
	assert.Equal(t, "G2201 S150.00 R90.00 H20.00 F500", polarCommand(Polar{Stretch: 150, Rotation: 90, Height: 20}, 500))
	assert.Equal(t, "M2232 V0", gripperCommand(true))
	assert.Equal(t, "M2232 V1", gripperCommand(false))
	assert.Equal(t, "M2210 F1000 T200", beepCommand(1000, 200))
}
