package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/golang/geo/r3"

	"github.com/gwillem/uarm/pkg/robot"
	"github.com/gwillem/uarm/pkg/swift"
)

type InfoCommand struct{}

func (c *InfoCommand) Execute(args []string) error {
	log := newLogger()
	defer log.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := resolvePort(ctx, cfg, log); err != nil {
		return err
	}

	s, err := swift.Dial(ctx, cfg.SwiftConfig(), log)
	if err != nil {
		return err
	}
	defer s.Close()

	info := s.Info()
	rows := [][]string{
		{"Port", s.Port()},
		{"Device", info.Name},
		{"Hardware", info.Hardware},
		{"Firmware", info.Firmware},
		{"API", info.API},
		{"UID", info.UID},
	}
	if pos, err := s.Position(ctx); err == nil {
		rows = append(rows, []string{"Position", formatVector(pos.X, pos.Y, pos.Z)})
	} else {
		log.Warnf("read position: %v", err)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return tableKeyStyle
			}
			return tableCellStyle
		})
	fmt.Println(t.Render())
	return nil
}

type PosCommand struct{}

func (c *PosCommand) Execute(args []string) error {
	return withArm(func(ctx context.Context, arm *robot.Arm, cfg *robot.Config) error {
		pos, err := arm.Position(ctx)
		if err != nil {
			return err
		}
		fmt.Println(formatVector(pos.X, pos.Y, pos.Z))
		return nil
	})
}

type GotoCommand struct {
	Speed float64 `short:"s" long:"speed" description:"Speed in mm/min, defaults to the jog speed"`
}

func (c *GotoCommand) Execute(args []string) error {
	var target *r3.Vector
	if len(args) > 0 {
		v, err := parseXYZ(args)
		if err != nil {
			return err
		}
		target = &v
	}

	return withArm(func(ctx context.Context, arm *robot.Arm, cfg *robot.Config) error {
		err := moveTo(ctx, arm, target, c.Speed, askPosition)
		if errors.Is(err, errCancelled) {
			fmt.Println(dimStyle.Render("Cancelled"))
			return nil
		}
		return err
	})
}

// moveTo moves to target, asking for it when it is nil.
func moveTo(ctx context.Context, arm *robot.Arm, target *r3.Vector, speed float64, ask func(r3.Vector) (r3.Vector, error)) error {
	if target == nil {
		v, err := ask(arm.Target())
		if err != nil {
			return err
		}
		target = &v
	}
	if err := arm.MoveTo(ctx, *target, speed); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("Moved to " + formatVector(target.X, target.Y, target.Z)))
	return nil
}

func parseXYZ(args []string) (r3.Vector, error) {
	if len(args) != 3 {
		return r3.Vector{}, fmt.Errorf("expected x y z, got %d values", len(args))
	}
	var f [3]float64
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return r3.Vector{}, fmt.Errorf("invalid coordinate %q", a)
		}
		f[i] = v
	}
	return r3.Vector{X: f[0], Y: f[1], Z: f[2]}, nil
}

// errCancelled is returned when the operator dismisses a dialog.
var errCancelled = errors.New("cancelled")

func formError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return errCancelled
	}
	return err
}

func validateFloat(s string) error {
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		return fmt.Errorf("not a number")
	}
	return nil
}

// askPosition shows the set-position dialog prefilled with cur.
func askPosition(cur r3.Vector) (r3.Vector, error) {
	x := strconv.FormatFloat(cur.X, 'f', 1, 64)
	y := strconv.FormatFloat(cur.Y, 'f', 1, 64)
	z := strconv.FormatFloat(cur.Z, 'f', 1, 64)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("X (mm)").Value(&x).Validate(validateFloat),
			huh.NewInput().Title("Y (mm)").Value(&y).Validate(validateFloat),
			huh.NewInput().Title("Z (mm)").Value(&z).Validate(validateFloat),
		).Title("Set position"),
	)
	if err := formError(form.Run()); err != nil {
		return r3.Vector{}, err
	}
	return parseXYZ([]string{x, y, z})
}

type HomeCommand struct{}

func (c *HomeCommand) Execute(args []string) error {
	return withArm(func(ctx context.Context, arm *robot.Arm, cfg *robot.Config) error {
		if err := arm.Home(ctx); err != nil {
			return err
		}
		h := cfg.Workspace.Home
		fmt.Println(successStyle.Render("Home at " + formatVector(h.X, h.Y, h.Z)))
		return nil
	})
}

type GripperCommand struct {
	Args struct {
		Action string `positional-arg-name:"open|close|toggle"`
	} `positional-args:"yes"`
}

func (c *GripperCommand) Execute(args []string) error {
	action := c.Args.Action
	switch action {
	case "", "toggle", "open", "close":
	default:
		return fmt.Errorf("unknown gripper action %q", action)
	}

	return withArm(func(ctx context.Context, arm *robot.Arm, cfg *robot.Config) error {
		var (
			open = action == "open"
			err  error
		)
		switch action {
		case "open", "close":
			err = arm.SetGripper(ctx, open)
		default:
			open, err = arm.ToggleGripper(ctx)
		}
		if err != nil {
			return err
		}
		if open {
			fmt.Println("Gripper open")
		} else {
			fmt.Println("Gripper closed")
		}
		return nil
	})
}

type GrabCommand struct{}

func (c *GrabCommand) Execute(args []string) error {
	return withArm(func(ctx context.Context, arm *robot.Arm, cfg *robot.Config) error {
		fmt.Println(subHeaderStyle.Render("Grabbing pencil"))
		if err := arm.GrabPencil(ctx); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("Pencil grabbed"))
		return nil
	})
}
