package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/gwillem/uarm/pkg/draw"
	"github.com/gwillem/uarm/pkg/robot"
	"github.com/gwillem/uarm/pkg/shell"
	"github.com/gwillem/uarm/pkg/swift"
	"github.com/gwillem/uarm/pkg/vision"
)

func newLogger() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	if opts.Verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return log.Sugar()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// loadConfig reads the configuration file and applies the command line
// overrides.
func loadConfig() (*robot.Config, error) {
	cfg, err := robot.LoadConfigFrom(opts.Config)
	if err != nil {
		return nil, err
	}
	if opts.Port != "" {
		cfg.Port = opts.Port
	}
	return cfg, nil
}

// resolvePort fills in the port when none is configured and exactly one
// arm answers on the candidate ports.
func resolvePort(ctx context.Context, cfg *robot.Config, log *zap.SugaredLogger) error {
	if cfg.Port != "" {
		return nil
	}
	found, err := probe(ctx, cfg, log)
	if err != nil {
		return err
	}
	switch len(found) {
	case 0:
		return fmt.Errorf("no arm found, connect it or pass --port")
	case 1:
		log.Infof("using arm on %s", found[0].Port)
		cfg.Port = found[0].Port
		return nil
	}
	return fmt.Errorf("%d arms found, run 'uarm setup' or pass --port", len(found))
}

func probe(ctx context.Context, cfg *robot.Config, log *zap.SugaredLogger) ([]swift.Found, error) {
	ports, err := swift.ListPorts()
	if err != nil {
		return nil, fmt.Errorf("list ports: %w", err)
	}
	names := make([]string, 0, len(ports))
	for _, p := range ports {
		names = append(names, p.Name)
	}
	return swift.Probe(ctx, cfg.SwiftConfig(), swift.FilterCandidatePorts(names), log)
}

// openArm loads the configuration and connects to the arm.
func openArm(ctx context.Context, log *zap.SugaredLogger) (*robot.Arm, *robot.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := resolvePort(ctx, cfg, log); err != nil {
		return nil, nil, err
	}
	arm := robot.NewArm(cfg, robot.SwiftDialer(cfg, log), log)
	if err := arm.Connect(ctx); err != nil {
		return nil, nil, err
	}
	return arm, cfg, nil
}

// withArm runs fn against a connected arm and closes the port afterwards.
func withArm(fn func(ctx context.Context, arm *robot.Arm, cfg *robot.Config) error) error {
	log := newLogger()
	defer log.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	arm, cfg, err := openArm(ctx, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := arm.Close(); err != nil {
			log.Warnf("close: %v", err)
		}
	}()
	return fn(ctx, arm, cfg)
}

func visionOptions(v robot.VisionConfig) vision.Options {
	return vision.Options{
		MaxWidth:      v.MaxWidth,
		MaxHeight:     v.MaxHeight,
		Blur:          v.Blur,
		LowThreshold:  v.LowThreshold,
		HighThreshold: v.HighThreshold,
		MinPoints:     v.MinPoints,
	}
}

func imageOpener(cfg *robot.Config) shell.ImageOpener {
	return func(path string) (draw.Source, error) {
		src, err := vision.Open(path, visionOptions(cfg.Vision))
		if err != nil {
			return nil, err
		}
		return src, nil
	}
}

func formatVector(x, y, z float64) string {
	return fmt.Sprintf("x=%.2f y=%.2f z=%.2f", x, y, z)
}
