package swift

import (
	"context"
	"io"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"go.bug.st/serial"
	"go.uber.org/zap"
)

// Defaults for Config.
const (
	DefaultBaudRate = 115200
	DefaultTimeout  = 2 * time.Second
	DefaultAttempts = 5
	DefaultBackoff  = 200 * time.Millisecond

	// readPoll bounds each serial read so a stuck read can notice deadlines.
	readPoll = 50 * time.Millisecond
)

// Config describes how to reach an arm.
type Config struct {
	Port     string
	BaudRate int
	// Timeout bounds the wait for each reply.
	Timeout time.Duration
	// Attempts is the number of connection attempts Dial makes.
	Attempts int
	// Backoff is the delay before the second attempt; it doubles after each failure.
	Backoff time.Duration
	// WaitMotion makes moves return only once the arm has stopped.
	WaitMotion bool
}

func (c Config) withDefaults() Config {
	if c.BaudRate <= 0 {
		c.BaudRate = DefaultBaudRate
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Attempts <= 0 {
		c.Attempts = DefaultAttempts
	}
	if c.Backoff <= 0 {
		c.Backoff = DefaultBackoff
	}
	return c
}

// Opener opens the link to an arm.
type Opener func(cfg Config) (io.ReadWriteCloser, error)

// OpenSerial opens cfg.Port as 8N1 at cfg.BaudRate.
func OpenSerial(cfg Config) (io.ReadWriteCloser, error) {
	port, err := serial.Open(cfg.Port, &serial.Mode{BaudRate: cfg.BaudRate})
	if err != nil {
		return nil, errors.Wrapf(ErrConnection, "open %s: %v", cfg.Port, err)
	}
	if err := port.SetReadTimeout(readPoll); err != nil {
		port.Close()
		return nil, errors.Wrapf(ErrConnection, "configure %s: %v", cfg.Port, err)
	}
	return port, nil
}

// Dial opens the serial port and waits for the firmware to answer, retrying
// with exponential backoff up to cfg.Attempts times.
func Dial(ctx context.Context, cfg Config, log *zap.SugaredLogger) (*Swift, error) {
	return DialWith(ctx, cfg, OpenSerial, log)
}

// DialWith is Dial with a custom opener.
func DialWith(ctx context.Context, cfg Config, open Opener, log *zap.SugaredLogger) (*Swift, error) {
	cfg = cfg.withDefaults()
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.Backoff
	b.MaxInterval = 10 * cfg.Backoff
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(cfg.Attempts-1)), ctx)

	var (
		sw      *Swift
		attempt int
	)
	op := func() error {
		attempt++
		rw, err := open(cfg)
		if err != nil {
			log.Debugf("attempt %d: %v", attempt, err)
			return err
		}

		s := New(rw, cfg, log)
		info, err := s.DeviceInfo(ctx)
		if err != nil {
			s.Close()
			log.Debugf("attempt %d: handshake: %v", attempt, err)
			return err
		}

		log.Infof("connected to %s on %s (firmware %s)", info.Name, cfg.Port, info.Firmware)
		s.mu.Lock()
		s.info = info
		s.mu.Unlock()
		sw = s
		return nil
	}

	if err := backoff.Retry(op, policy); err != nil {
		return nil, errors.Wrapf(err, "connect %s after %d attempts", cfg.Port, attempt)
	}
	return sw, nil
}
