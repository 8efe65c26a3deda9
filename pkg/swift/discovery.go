package swift

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// USB ids of the Arduino Mega 2560 board inside the uArm Swift.
const (
	swiftVID = "2341"
	swiftPID = "0042"
)

// PortInfo describes one serial port on the host.
type PortInfo struct {
	Name   string
	USB    bool
	VID    string
	PID    string
	Serial string
}

// LikelySwift reports whether the USB ids match the arm's controller board.
func (p PortInfo) LikelySwift() bool {
	return p.USB && strings.EqualFold(p.VID, swiftVID) && strings.EqualFold(p.PID, swiftPID)
}

// Found is a port where an arm answered.
type Found struct {
	Port string
	Info DeviceInfo
}

// ListPorts enumerates serial ports with their USB details.
func ListPorts() ([]PortInfo, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}

	infos := make([]PortInfo, 0, len(ports))
	for _, p := range ports {
		infos = append(infos, PortInfo{
			Name:   p.Name,
			USB:    p.IsUSB,
			VID:    p.VID,
			PID:    p.PID,
			Serial: p.SerialNumber,
		})
	}
	return infos, nil
}

// FilterCandidatePorts keeps ports that can be a USB serial adapter.
func FilterCandidatePorts(ports []string) []string {
	candidates := []string{}
	for _, port := range ports {
		if isCandidatePort(port) {
			candidates = append(candidates, port)
		}
	}
	return candidates
}

func isCandidatePort(port string) bool {
	// Linux
	if strings.HasPrefix(port, "/dev/ttyUSB") || strings.HasPrefix(port, "/dev/ttyACM") {
		return true
	}
	// macOS, skipping Bluetooth
	if strings.Contains(port, "Bluetooth") {
		return false
	}
	for _, prefix := range []string{"/dev/tty.usbmodem", "/dev/tty.usbserial", "/dev/cu.usbmodem", "/dev/cu.usbserial"} {
		if strings.HasPrefix(port, prefix) {
			return true
		}
	}
	// Windows
	return strings.HasPrefix(port, "COM")
}

// Probe tries every port in parallel with a single connection attempt each
// and returns the ports where an arm answered, sorted by name.
func Probe(ctx context.Context, cfg Config, ports []string, log *zap.SugaredLogger) ([]Found, error) {
	return ProbeWith(ctx, cfg, ports, OpenSerial, log)
}

// ProbeWith is Probe with a custom opener.
func ProbeWith(ctx context.Context, cfg Config, ports []string, open Opener, log *zap.SugaredLogger) ([]Found, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	var (
		mu    sync.Mutex
		found []Found
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, port := range ports {
		g.Go(func() error {
			pc := cfg
			pc.Port = port
			pc.Attempts = 1

			probeCtx, cancel := context.WithTimeout(gctx, pc.withDefaults().Timeout+time.Second)
			defer cancel()

			s, err := DialWith(probeCtx, pc, open, log)
			if err != nil {
				log.Debugf("no arm on %s: %v", port, err)
				return nil
			}
			defer s.Close()

			mu.Lock()
			found = append(found, Found{Port: port, Info: s.Info()})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Port < found[j].Port })
	return found, nil
}
