// Package shell is an interactive control panel for the arm.
package shell

import (
	"context"
	"fmt"

	"github.com/abiosoft/ishell"
	"go.uber.org/zap"

	"github.com/gwillem/uarm/pkg/draw"
	"github.com/gwillem/uarm/pkg/robot"
)

// ImageOpener turns an image path into a point source.
type ImageOpener func(path string) (draw.Source, error)

type ShellCtxt struct {
	ctx       context.Context
	arm       *robot.Arm
	cfg       *robot.Config
	log       *zap.SugaredLogger
	openImage ImageOpener
}

func (ctx *ShellCtxt) prompt() string {
	state := "offline"
	if ctx.arm.Connected() {
		state = "online"
	}
	return fmt.Sprintf("[uarm %s]>", state)
}

// exporter builds an exporter from the configuration with an optional gap
// threshold override.
func (ctx *ShellCtxt) exporter(gap float64) (*draw.Exporter, error) {
	opts := ctx.cfg.Export
	if gap > 0 {
		opts.GapThreshold = gap
	}
	return draw.NewExporter(ctx.cfg.Workspace, opts, ctx.log)
}

// RunShell runs args as a single command, or starts the interactive shell
// when args is empty.
func RunShell(c context.Context, arm *robot.Arm, cfg *robot.Config, openImage ImageOpener, log *zap.SugaredLogger, args []string) error {
	shell := ishell.New()
	ctx := &ShellCtxt{
		ctx:       c,
		arm:       arm,
		cfg:       cfg,
		log:       log,
		openImage: openImage,
	}

	shell.SetPrompt(ctx.prompt())

	shell.AddCmd(connectCmd(ctx))
	shell.AddCmd(disconnectCmd(ctx))
	shell.AddCmd(posCmd(ctx))
	shell.AddCmd(gotoCmd(ctx))
	shell.AddCmd(polarCmd(ctx))
	shell.AddCmd(homeCmd(ctx))
	shell.AddCmd(jogCmd(ctx))
	shell.AddCmd(gripperCmd(ctx))
	shell.AddCmd(grabCmd(ctx))
	shell.AddCmd(drawCmd(ctx))
	shell.AddCmd(edgesCmd(ctx))

	if len(args) > 0 {
		return shell.Process(args...)
	}

	shell.Println("uArm control panel, type help for commands")
	shell.Run()
	return nil
}
