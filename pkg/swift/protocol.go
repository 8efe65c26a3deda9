// Package swift talks to a uArm Swift / Swift Pro over its serial G-code protocol.
//
// Requests are numbered lines "#<seq> <cmd>". The firmware answers with
// "$<seq> ok [fields]" or "$<seq> E<code>"; lines starting with "@" are
// unsolicited reports and are skipped.
package swift

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

var (
	// ErrConnection is returned when the serial link fails or is closed.
	ErrConnection = errors.New("uarm connection error")
	// ErrOutOfRange is returned when the arm rejects an unreachable position.
	ErrOutOfRange = errors.New("position out of range")
	// ErrTimeout is returned when the arm does not answer in time.
	ErrTimeout = errors.New("uarm response timeout")
	// ErrCommand is returned for any other error reply.
	ErrCommand = errors.New("uarm command error")
)

// Firmware error codes.
const (
	codeUnknownCommand = "E20"
	codeBadParameter   = "E21"
	codeOutOfRange     = "E22"
)

// Reply is one parsed "$" line.
type Reply struct {
	Seq    int
	OK     bool
	Code   string
	Fields []string
}

// Err converts an error reply into one of the package errors.
func (r Reply) Err() error {
	if r.OK {
		return nil
	}
	switch r.Code {
	case codeOutOfRange:
		return ErrOutOfRange
	case codeUnknownCommand:
		return errors.Wrap(ErrCommand, "unknown command")
	case codeBadParameter:
		return errors.Wrap(ErrCommand, "bad parameter")
	default:
		return errors.Wrapf(ErrCommand, "code %s", r.Code)
	}
}

// Value returns the first field with its leading letter removed, as in
// "V3.3.1" -> "3.3.1".
func (r Reply) Value() string {
	if len(r.Fields) == 0 {
		return ""
	}
	f := r.Fields[0]
	if len(f) > 1 && f[0] >= 'A' && f[0] <= 'Z' {
		return f[1:]
	}
	return f
}

// Floats parses "X154.70 Y0.00 Z35.27" style fields keyed by their letter.
func (r Reply) Floats() (map[byte]float64, error) {
	vals := make(map[byte]float64, len(r.Fields))
	for _, f := range r.Fields {
		if len(f) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(f[1:], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parse field %q", f)
		}
		vals[f[0]] = v
	}
	return vals, nil
}

func formatCommand(seq int, cmd string) string {
	return fmt.Sprintf("#%d %s\n", seq, cmd)
}

// parseReply parses a response line. ok is false for anything that is not a
// "$" reply, such as "@" reports or boot banners.
func parseReply(line string) (Reply, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "$") {
		return Reply{}, false
	}

	parts := strings.Fields(line[1:])
	if len(parts) < 2 {
		return Reply{}, false
	}
	seq, err := strconv.Atoi(parts[0])
	if err != nil {
		return Reply{}, false
	}

	r := Reply{Seq: seq}
	switch {
	case parts[1] == "ok":
		r.OK = true
		r.Fields = parts[2:]
	case strings.HasPrefix(parts[1], "E"):
		r.Code = parts[1]
		r.Fields = parts[2:]
	default:
		return Reply{}, false
	}
	return r, true
}

func moveCommand(pos r3.Vector, speed float64) string {
	return fmt.Sprintf("G0 X%.2f Y%.2f Z%.2f F%.0f", pos.X, pos.Y, pos.Z, speed)
}

func polarCommand(p Polar, speed float64) string {
	return fmt.Sprintf("G2201 S%.2f R%.2f H%.2f F%.0f", p.Stretch, p.Rotation, p.Height, speed)
}

func gripperCommand(open bool) string {
	if open {
		return "M2232 V0"
	}
	return "M2232 V1"
}

func beepCommand(freq int, ms int) string {
	return fmt.Sprintf("M2210 F%d T%d", freq, ms)
}
