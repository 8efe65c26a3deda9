package shell

import (
	"github.com/abiosoft/ishell"

	"github.com/gwillem/uarm/pkg/swift"
)

func connectCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "connect",
		Help: "connect to the arm",
		Func: func(c *ishell.Context) {
			if err := ctx.arm.Connect(ctx.ctx); err != nil {
				c.Err(err)
				return
			}
			c.SetPrompt(ctx.prompt())
			c.Println("connected at", formatVector(ctx.arm.Target()))
		},
	}
}

func disconnectCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "disconnect",
		Help: "release the gripper and disconnect",
		Func: func(c *ishell.Context) {
			if err := ctx.arm.Disconnect(ctx.ctx); err != nil {
				c.Err(err)
			}
			c.SetPrompt(ctx.prompt())
		},
	}
}

func posCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "pos",
		Help: "print the current position",
		Func: func(c *ishell.Context) {
			pos, err := ctx.arm.Position(ctx.ctx)
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(formatVector(pos))
		},
	}
}

func gotoCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "goto",
		Help: "move to x y z [speed]",
		Func: func(c *ishell.Context) {
			pos, speed, err := parseVector(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			if err := ctx.arm.MoveTo(ctx.ctx, pos, speed); err != nil {
				c.Err(err)
			}
		},
	}
}

func polarCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "polar",
		Help: "move to stretch rotation height",
		Func: func(c *ishell.Context) {
			f, err := parseFloats(c.Args, 3)
			if err != nil {
				c.Err(err)
				return
			}
			p := swift.Polar{Stretch: f[0], Rotation: f[1], Height: f[2]}
			if err := ctx.arm.MovePolar(ctx.ctx, p, 0); err != nil {
				c.Err(err)
			}
		},
	}
}

func homeCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "home",
		Help: "move to the rest position",
		Func: func(c *ishell.Context) {
			if err := ctx.arm.Home(ctx.ctx); err != nil {
				c.Err(err)
			}
		},
	}
}

func jogCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "jog",
		Help: "move one axis: jog x|y|z delta",
		Func: func(c *ishell.Context) {
			axis, delta, err := parseJog(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			pos, err := ctx.arm.Jog(ctx.ctx, axis, delta)
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(formatVector(pos))
		},
	}
}

func gripperCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "gripper",
		Help: "open, close or toggle the gripper",
		Completer: func([]string) []string {
			return []string{"open", "close", "toggle"}
		},
		Func: func(c *ishell.Context) {
			action, err := parseGripper(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			open := action == gripperOpen
			if action == gripperToggle {
				open, err = ctx.arm.ToggleGripper(ctx.ctx)
			} else {
				err = ctx.arm.SetGripper(ctx.ctx, open)
			}
			if err != nil {
				c.Err(err)
				return
			}
			if open {
				c.Println("gripper open")
			} else {
				c.Println("gripper closed")
			}
		},
	}
}

func grabCmd(ctx *ShellCtxt) *ishell.Cmd {
	return &ishell.Cmd{
		Name: "grab",
		Help: "pick the pencil from its holder",
		Func: func(c *ishell.Context) {
			if err := ctx.arm.GrabPencil(ctx.ctx); err != nil {
				c.Err(err)
				return
			}
			c.Println("pencil grabbed")
		},
	}
}
