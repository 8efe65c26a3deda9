package swift

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterCandidatePorts(t *testing.T) {
	tests := []struct {
		name     string
		ports    []string
		expected []string
	}{
		{
			name:     "Linux USB ports",
			ports:    []string{"/dev/ttyUSB0", "/dev/ttyS0", "/dev/ttyACM0", "/dev/null"},
			expected: []string{"/dev/ttyUSB0", "/dev/ttyACM0"},
		},
		{
			name:     "macOS USB ports",
			ports:    []string{"/dev/tty.usbmodem123", "/dev/tty.Bluetooth-Incoming-Port", "/dev/cu.usbserial-AB"},
			expected: []string{"/dev/tty.usbmodem123", "/dev/cu.usbserial-AB"},
		},
		{
			name:     "Windows COM ports",
			ports:    []string{"COM3", "COM10", "LPT1"},
			expected: []string{"COM3", "COM10"},
		},
		{
			name:     "Empty list",
			ports:    []string{},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FilterCandidatePorts(tt.ports))
		})
	}
}

func TestPortInfo_LikelySwift(t *testing.T) {
	assert.True(t, PortInfo{USB: true, VID: "2341", PID: "0042"}.LikelySwift())
	assert.False(t, PortInfo{USB: true, VID: "0403", PID: "6001"}.LikelySwift())
	assert.False(t, PortInfo{VID: "2341", PID: "0042"}.LikelySwift())
}

func TestProbeWith(t *testing.T) {
	open := func(cfg Config) (io.ReadWriteCloser, error) {
		if cfg.Port == "/dev/ttyACM1" || cfg.Port == "/dev/ttyACM0" {
			return newFakeLink(nil), nil
		}
		return nil, errors.New("no device")
	}

	ports := []string{"/dev/ttyUSB0", "/dev/ttyACM1", "/dev/ttyACM0"}
	found, err := ProbeWith(context.Background(), Config{Backoff: time.Millisecond}, ports, open, nil)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "/dev/ttyACM0", found[0].Port)
	assert.Equal(t, "/dev/ttyACM1", found[1].Port)
	assert.Equal(t, "SwiftPro", found[0].Info.Name)
}
