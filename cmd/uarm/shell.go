package main

import (
	"context"

	"github.com/gwillem/uarm/pkg/robot"
	"github.com/gwillem/uarm/pkg/shell"
)

type ShellCommand struct{}

// Execute opens the control panel. Arguments run a single shell command.
func (c *ShellCommand) Execute(args []string) error {
	log := newLogger()
	defer log.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := resolvePort(ctx, cfg, log); err != nil {
		log.Warnf("%v", err)
	}

	arm := robot.NewArm(cfg, robot.SwiftDialer(cfg, log), log)
	defer func() {
		if err := arm.Disconnect(context.Background()); err != nil {
			log.Warnf("disconnect: %v", err)
		}
	}()
	return shell.RunShell(ctx, arm, cfg, imageOpener(cfg), log, args)
}
