package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.uber.org/zap"

	"github.com/gwillem/uarm/pkg/draw"
	"github.com/gwillem/uarm/pkg/robot"
	"github.com/gwillem/uarm/pkg/vision"
)

// previewRows limits the plan table of a dry run.
const previewRows = 20

type ExportOptions struct {
	Gap    float64 `long:"gap" description:"Pen-lift gap threshold in mm, overrides the configuration"`
	DryRun bool    `short:"n" long:"dry-run" description:"Print the planned moves without moving the arm"`
	All    bool    `long:"all" description:"Print every planned move in a dry run"`
}

type DrawCommand struct {
	ExportOptions
	Args struct {
		File string `positional-arg-name:"strokes.json"`
	} `positional-args:"yes" required:"yes"`
}

func (c *DrawCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	src, err := draw.LoadStrokes(c.Args.File, cfg.Canvas)
	if err != nil {
		return err
	}
	return c.run(cfg, src)
}

type EdgesCommand struct {
	ExportOptions
	Args struct {
		Image string `positional-arg-name:"image"`
	} `positional-args:"yes" required:"yes"`
}

func (c *EdgesCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	src, err := vision.Open(c.Args.Image, visionOptions(cfg.Vision))
	if err != nil {
		return err
	}
	b := src.Image().Bounds()
	fmt.Println(dimStyle.Render(fmt.Sprintf("Image scaled to %dx%d", b.Dx(), b.Dy())))
	return c.run(cfg, src)
}

func (o *ExportOptions) run(cfg *robot.Config, src draw.Source) error {
	log := newLogger()
	defer log.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	opts := cfg.Export
	if o.Gap > 0 {
		opts.GapThreshold = o.Gap
	}
	exp, err := draw.NewExporter(cfg.Workspace, opts, log)
	if err != nil {
		return err
	}

	if o.DryRun {
		res, err := exp.Preview(ctx, src)
		if err != nil {
			return err
		}
		printPlan(res, o.All)
		return nil
	}

	if err := resolvePort(ctx, cfg, log); err != nil {
		return err
	}
	arm := robot.NewArm(cfg, robot.SwiftDialer(cfg, log), log)
	if err := arm.Connect(ctx); err != nil {
		return err
	}
	defer arm.Close()

	res, err := export(ctx, exp, arm, src)
	if errors.Is(err, context.Canceled) {
		fmt.Println(errorStyle.Render("Interrupted, lifting pen"))
		lift(arm, cfg, log)
	}
	if err != nil {
		return err
	}
	printSummary(res)
	return nil
}

func export(ctx context.Context, exp *draw.Exporter, arm *robot.Arm, src draw.Source) (*draw.Result, error) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case p := <-exp.Progress():
				fmt.Printf("\r%s %d/%d %-8s", dimStyle.Render(p.RunID[:8]), p.Index+1, p.Total, p.Move.Kind)
			case <-done:
				return
			}
		}
	}()

	res, err := exp.Export(ctx, arm.Driver(), src)
	fmt.Println()
	return res, err
}

// lift raises the pen after an interrupted export.
func lift(arm *robot.Arm, cfg *robot.Config, log *zap.SugaredLogger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pos, err := arm.Position(ctx)
	if err != nil {
		log.Warnf("read position: %v", err)
		return
	}
	pos.Z = cfg.Workspace.ZLift
	if err := arm.MoveTo(ctx, pos, cfg.Export.TravelSpeed); err != nil {
		log.Warnf("lift pen: %v", err)
	}
}

func printSummary(res *draw.Result) {
	fmt.Println(successStyle.Render("Drawing finished"))
	fmt.Printf("  %d points, %d moves (%d lifts, %d draws) in %s\n",
		res.Points, len(res.Plan), res.Lifts, res.Draws, res.Duration.Round(100*time.Millisecond))
}

func printPlan(res *draw.Result, all bool) {
	moves := res.Plan
	if !all && len(moves) > previewRows {
		moves = moves[:previewRows]
	}

	rows := make([][]string, 0, len(moves))
	for i, m := range moves {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			m.Kind.String(),
			fmt.Sprintf("%.2f", m.Pos.X),
			fmt.Sprintf("%.2f", m.Pos.Y),
			fmt.Sprintf("%.2f", m.Pos.Z),
			fmt.Sprintf("%.0f", m.Speed),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("#", "Move", "X", "Y", "Z", "F").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col == 1 {
				return tableKeyStyle
			}
			return tableCellStyle
		})

	fmt.Println(headerStyle.Render("Dry run " + res.RunID))
	fmt.Println(t.Render())
	if len(moves) < len(res.Plan) {
		fmt.Println(dimStyle.Render(fmt.Sprintf("... %d more moves, use --all to show them", len(res.Plan)-len(moves))))
	}
	fmt.Printf("%d points, %d moves (%d lifts, %d draws)\n", res.Points, len(res.Plan), res.Lifts, res.Draws)
}
