package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Config  string `short:"c" long:"config" default:"uarm.yaml" description:"Configuration file"`
	Port    string `short:"p" long:"port" description:"Serial port of the arm, overrides the configuration"`
	Verbose bool   `short:"v" long:"verbose" description:"Show debug logging"`

	Setup   SetupCommand   `command:"setup" description:"Find the arm and write the configuration"`
	Ports   PortsCommand   `command:"ports" description:"List serial ports and the arms answering on them"`
	Info    InfoCommand    `command:"info" description:"Show firmware and hardware information"`
	Pos     PosCommand     `command:"pos" description:"Print the current position"`
	Goto    GotoCommand    `command:"goto" description:"Move to a position, asks for it when none is given"`
	Home    HomeCommand    `command:"home" description:"Move to the rest position"`
	Gripper GripperCommand `command:"gripper" description:"Open, close or toggle the gripper"`
	Grab    GrabCommand    `command:"grab" description:"Pick the pencil from its holder"`
	Jog     JogCommand     `command:"jog" description:"Jog the arm with the keyboard"`
	Draw    DrawCommand    `command:"draw" description:"Draw a strokes file"`
	Edges   EdgesCommand   `command:"edges" description:"Draw the edges of a photo"`
	Shell   ShellCommand   `command:"shell" description:"Interactive control panel"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "uarm - drawing and jog control for the uArm Swift"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
