package shell

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/gwillem/uarm/pkg/draw"
)

type exportFlags struct {
	gap    float64
	dryRun bool
	path   string
}

func parseExportFlags(name string, args []string, out io.Writer) (*exportFlags, error) {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(out)
	f := &exportFlags{}
	flagSet.Float64Var(&f.gap, "gap", 0, "gap threshold in mm, 0 uses the configured one")
	flagSet.BoolVar(&f.dryRun, "n", false, "plan only, do not move the arm")

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	rest := flagSet.Args()
	if len(rest) == 0 {
		return nil, errors.New("missing file")
	}
	f.path = rest[0]
	return f, nil
}

func drawCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "draw",
		Help: "draw a strokes file: draw [-n] [-gap mm] strokes.json",
		Func: func(c *ishell.Context) {
			f, err := parseExportFlags("draw", c.Args, io.Discard)
			if err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}
			src, err := draw.LoadStrokes(f.path, ctx.cfg.Canvas)
			if err != nil {
				c.Err(err)
				return
			}
			runExport(ctx, c, src, f)
		},
	}
}

func edgesCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "edges",
		Help: "draw the edges of a photo: edges [-n] [-gap mm] image",
		Func: func(c *ishell.Context) {
			f, err := parseExportFlags("edges", c.Args, io.Discard)
			if err != nil {
				if err != flag.ErrHelp {
					c.Err(err)
				}
				return
			}
			if ctx.openImage == nil {
				c.Err(errors.New("image support not available"))
				return
			}
			src, err := ctx.openImage(f.path)
			if err != nil {
				c.Err(err)
				return
			}
			runExport(ctx, c, src, f)
		},
	}
}

func runExport(ctx *ShellCtxt, c *ishell.Context, src draw.Source, f *exportFlags) {
	exp, err := ctx.exporter(f.gap)
	if err != nil {
		c.Err(err)
		return
	}

	if f.dryRun {
		res, err := exp.Preview(ctx.ctx, src)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(summary(res))
		return
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case p := <-exp.Progress():
				c.Printf("\r%d/%d %s", p.Index+1, p.Total, p.Move.Kind)
			case <-done:
				return
			}
		}
	}()
	res, err := exp.Export(ctx.ctx, ctx.arm.Driver(), src)
	close(done)
	c.Println()
	if err != nil {
		c.Err(err)
		return
	}
	c.Println(summary(res))
}

func summary(res *draw.Result) string {
	s := fmt.Sprintf("%d points, %d moves (%d lifts, %d draws)", res.Points, len(res.Plan), res.Lifts, res.Draws)
	if res.DryRun {
		return s + ", dry run"
	}
	return fmt.Sprintf("%s in %s", s, res.Duration.Round(100*time.Millisecond))
}
