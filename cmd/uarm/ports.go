package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/uarm/pkg/swift"
)

type PortsCommand struct {
	Probe bool `long:"probe" description:"Connect to every candidate port and ask for device info"`
}

func (c *PortsCommand) Execute(args []string) error {
	ports, err := swift.ListPorts()
	if err != nil {
		return fmt.Errorf("list ports: %w", err)
	}

	answered := make(map[string]swift.Found)
	if c.Probe {
		log := newLogger()
		defer log.Sync()
		ctx, cancel := signalContext()
		defer cancel()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		found, err := probe(ctx, cfg, log)
		if err != nil {
			return err
		}
		for _, f := range found {
			answered[f.Port] = f
		}
	}

	candidates := make(map[string]bool)
	var names []string
	for _, p := range ports {
		names = append(names, p.Name)
	}
	for _, n := range swift.FilterCandidatePorts(names) {
		candidates[n] = true
	}

	rows := make([][]string, 0, len(ports))
	for _, p := range ports {
		usb := ""
		if p.USB {
			usb = p.VID + ":" + p.PID
		}
		hint := ""
		switch {
		case answered[p.Name].Port != "":
			f := answered[p.Name]
			hint = fmt.Sprintf("%s %s", f.Info.Name, f.Info.Firmware)
		case p.LikelySwift():
			hint = "likely uArm"
		case !candidates[p.Name]:
			hint = "skipped"
		}
		rows = append(rows, []string{p.Name, usb, p.Serial, hint})
	}

	if len(rows) == 0 {
		fmt.Println("No serial ports found.")
		return nil
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Port", "USB", "Serial", "Arm").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col == 0 {
				return tableKeyStyle
			}
			return tableCellStyle
		})
	fmt.Println(t.Render())
	return nil
}
