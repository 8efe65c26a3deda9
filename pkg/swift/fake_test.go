package swift

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
)

// fakeLink is an in-memory arm. handle returns the reply body for a command,
// or "" to stay silent.
type fakeLink struct {
	mu      sync.Mutex
	out     bytes.Buffer
	cmds    []string
	closed  bool
	handle  func(cmd string) string
	preface string
}

func newFakeLink(handle func(cmd string) string) *fakeLink {
	if handle == nil {
		handle = defaultReply
	}
	return &fakeLink{handle: handle}
}

func defaultReply(cmd string) string {
	switch {
	case cmd == "P2201":
		return "ok VSwiftPro"
	case cmd == "P2202":
		return "ok V3.3"
	case cmd == "P2203":
		return "ok V4.5.0"
	case cmd == "P2204":
		return "ok V4.0.1"
	case cmd == "P2205":
		return "ok VABC123"
	case cmd == "P2220":
		return "ok X154.70 Y-3.50 Z35.27"
	case cmd == "M2200":
		return "ok V0"
	default:
		return "ok"
	}
}

func (f *fakeLink) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, io.ErrClosedPipe
	}

	for _, line := range strings.Split(strings.TrimSpace(string(p)), "\n") {
		var seq int
		var cmd string
		if _, err := fmt.Sscanf(line, "#%d", &seq); err != nil {
			continue
		}
		if i := strings.IndexByte(line, ' '); i >= 0 {
			cmd = line[i+1:]
		}
		f.cmds = append(f.cmds, cmd)

		f.out.WriteString(f.preface)
		if reply := f.handle(cmd); reply != "" {
			fmt.Fprintf(&f.out, "$%d %s\r\n", seq, reply)
		}
	}
	return len(p), nil
}

func (f *fakeLink) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, io.EOF
	}
	if f.out.Len() == 0 {
		return 0, nil
	}
	return f.out.Read(p)
}

func (f *fakeLink) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeLink) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.cmds...)
}
