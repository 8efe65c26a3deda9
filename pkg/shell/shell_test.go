package shell

import (
	"io"
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gwillem/uarm/pkg/draw"
	"github.com/gwillem/uarm/pkg/robot"
)

func TestParseVector(t *testing.T) {
	tests := []struct {
		args    []string
		pos     r3.Vector
		speed   float64
		wantErr bool
	}{
		{[]string{"200", "0", "50"}, r3.Vector{X: 200, Y: 0, Z: 50}, 0, false},
		{[]string{"200", "-10.5", "50", "1000"}, r3.Vector{X: 200, Y: -10.5, Z: 50}, 1000, false},
		{[]string{"200", "0"}, r3.Vector{}, 0, true},
		{[]string{"200", "zero", "50"}, r3.Vector{}, 0, true},
		{[]string{"200", "0", "50", "fast"}, r3.Vector{}, 0, true},
	}

	for _, tt := range tests {
		pos, speed, err := parseVector(tt.args)
		if tt.wantErr {
			assert.Error(t, err, "args %v", tt.args)
			continue
		}
		require.NoError(t, err, "args %v", tt.args)
		assert.Equal(t, tt.pos, pos)
		assert.Equal(t, tt.speed, speed)
	}
}

func TestParseJog(t *testing.T) {
	axis, delta, err := parseJog([]string{"z", "-5"})
	require.NoError(t, err)
	assert.Equal(t, robot.AxisZ, axis)
	assert.Equal(t, -5.0, delta)

	_, _, err = parseJog([]string{"w", "5"})
	assert.Error(t, err)
	_, _, err = parseJog([]string{"x"})
	assert.Error(t, err)
}

func TestParseGripper(t *testing.T) {
	tests := map[string]gripperAction{
		"":       gripperToggle,
		"toggle": gripperToggle,
		"open":   gripperOpen,
		"close":  gripperClose,
	}
	for arg, want := range tests {
		var args []string
		if arg != "" {
			args = []string{arg}
		}
		got, err := parseGripper(args)
		require.NoError(t, err)
		assert.Equal(t, want, got, "arg %q", arg)
	}

	_, err := parseGripper([]string{"half"})
	assert.Error(t, err)
}

func TestParseExportFlags(t *testing.T) {
	f, err := parseExportFlags("draw", []string{"-n", "-gap", "4", "cat.json"}, io.Discard)
	require.NoError(t, err)
	assert.True(t, f.dryRun)
	assert.Equal(t, 4.0, f.gap)
	assert.Equal(t, "cat.json", f.path)

	f, err = parseExportFlags("draw", []string{"cat.json"}, io.Discard)
	require.NoError(t, err)
	assert.False(t, f.dryRun)
	assert.Zero(t, f.gap)

	_, err = parseExportFlags("draw", nil, io.Discard)
	assert.Error(t, err)
	_, err = parseExportFlags("draw", []string{"-gap", "x", "cat.json"}, io.Discard)
	assert.Error(t, err)
}

func TestShellCtxt_Exporter(t *testing.T) {
	cfg := robot.DefaultConfig()
	ctx := &ShellCtxt{cfg: cfg, log: zaptest.NewLogger(t).Sugar()}

	exp, err := ctx.exporter(0)
	require.NoError(t, err)
	assert.Equal(t, cfg.Export.GapThreshold, exp.Options().GapThreshold)

	exp, err = ctx.exporter(2.5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, exp.Options().GapThreshold)
	assert.Equal(t, draw.DefaultGapThreshold, cfg.Export.GapThreshold)
}

func TestShellCtxt_Prompt(t *testing.T) {
	cfg := robot.DefaultConfig()
	ctx := &ShellCtxt{arm: robot.NewArm(cfg, nil, nil), cfg: cfg}
	assert.Equal(t, "[uarm offline]>", ctx.prompt())
}

func TestSummary(t *testing.T) {
	res := &draw.Result{
		Points: 3,
		Plan:   make([]draw.Move, 5),
		Lifts:  2,
		Draws:  1,
	}
	res.DryRun = true
	assert.Equal(t, "3 points, 5 moves (2 lifts, 1 draws), dry run", summary(res))

	res.DryRun = false
	res.Duration = 1234 * time.Millisecond
	assert.Equal(t, "3 points, 5 moves (2 lifts, 1 draws) in 1.2s", summary(res))
}
