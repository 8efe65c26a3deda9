package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/golang/geo/r3"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/uarm/pkg/monitor"
	"github.com/gwillem/uarm/pkg/robot"
)

type JogCommand struct {
	Hz   int     `long:"hz" default:"5" description:"Position polling frequency"`
	Step float64 `long:"step" description:"Jog step in mm, defaults to the configured step"`
}

const (
	headerHeight  = 2 // title + blank line
	sliderHeight  = 4 // one row per axis + blank
	legendHeight  = 2 // legend row + blank
	footerHeight  = 7 // log box height
	maxLogs       = 5 // number of log messages to show
	borderSize    = 2 // chart border
	sliderWidth   = 40
	chartMaxValue = 100
)

// Axis colors
var axisColors = map[robot.Axis]string{
	robot.AxisX: "196", // red
	robot.AxisY: "46",  // green
	robot.AxisZ: "33",  // blue
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type jogModel struct {
	ctx      context.Context
	arm      *robot.Arm
	cfg      robot.JogConfig
	mon      *monitor.Monitor
	chart    *streamlinechart.Model
	step     float64
	width    int       // terminal width
	height   int       // terminal height
	pos      r3.Vector // last reported position
	target   r3.Vector
	gripper  bool
	busy     bool
	logs     []string // last N log messages
	quitting bool
	lastPos  *r3.Vector // freeze the chart while idle
}

func (m *jogModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the monitor and finished arm commands
type stateMsg monitor.State
type logMsg string
type jogDoneMsg struct {
	target  r3.Vector
	gripper bool
	err     error
}

func waitForState(mon *monitor.Monitor) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-mon.States())
	}
}

func waitForLog(mon *monitor.Monitor) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-mon.Logs())
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *jogModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 12 // default size before we know terminal size
	}
	width = m.width - borderSize - 2
	if width < 40 {
		width = 40
	}
	height = m.height - headerHeight - sliderHeight - legendHeight - footerHeight - borderSize
	if height < 6 {
		height = 6
	}
	return width, height
}

func (m *jogModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func initialJogModel(ctx context.Context, arm *robot.Arm, cfg robot.JogConfig, mon *monitor.Monitor, step float64) jogModel {
	chart := streamlinechart.New(80, 12,
		streamlinechart.WithYRange(0, chartMaxValue),
	)
	for _, a := range robot.AllAxes() {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(axisColors[a]))
		chart.SetDataSetStyles(string(a), runes.ThinLineStyle, style)
	}

	return jogModel{
		ctx:     ctx,
		arm:     arm,
		cfg:     cfg,
		mon:     mon,
		chart:   &chart,
		step:    step,
		target:  arm.Target(),
		pos:     arm.Target(),
		gripper: arm.GripperOpen(),
	}
}

func (m jogModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.mon),
		waitForLog(m.mon),
	)
}

// run executes an arm command off the UI goroutine.
func (m *jogModel) run(fn func() (r3.Vector, bool, error)) tea.Cmd {
	m.busy = true
	return func() tea.Msg {
		target, gripper, err := fn()
		return jogDoneMsg{target: target, gripper: gripper, err: err}
	}
}

func (m *jogModel) jog(axis robot.Axis, delta float64) tea.Cmd {
	return m.run(func() (r3.Vector, bool, error) {
		pos, err := m.arm.Jog(m.ctx, axis, delta)
		return pos, m.arm.GripperOpen(), err
	})
}

func (m jogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		switch key {
		case "left":
			cmd = m.jog(robot.AxisX, -m.step)
		case "right":
			cmd = m.jog(robot.AxisX, m.step)
		case "down":
			cmd = m.jog(robot.AxisY, -m.step)
		case "up":
			cmd = m.jog(robot.AxisY, m.step)
		case "pgdown", "s":
			cmd = m.jog(robot.AxisZ, -m.step)
		case "pgup", "w":
			cmd = m.jog(robot.AxisZ, m.step)
		case "g", " ":
			cmd = m.run(func() (r3.Vector, bool, error) {
				open, err := m.arm.ToggleGripper(m.ctx)
				return m.arm.Target(), open, err
			})
		case "h":
			cmd = m.run(func() (r3.Vector, bool, error) {
				err := m.arm.Home(m.ctx)
				return m.arm.Target(), m.arm.GripperOpen(), err
			})
		case "p":
			cmd = m.run(func() (r3.Vector, bool, error) {
				err := m.arm.GrabPencil(m.ctx)
				return m.arm.Target(), m.arm.GripperOpen(), err
			})
		}
		return m, cmd

	case jogDoneMsg:
		m.busy = false
		m.target = msg.target
		m.gripper = msg.gripper
		if msg.err != nil {
			m.mon.Logf("%v", msg.err)
		}
		return m, nil

	case stateMsg:
		state := monitor.State(msg)
		if state.Error == nil {
			m.pos = state.Position
			// Only update chart if there's movement (freeze when idle)
			if m.lastPos == nil || *m.lastPos != state.Position {
				for _, a := range robot.AllAxes() {
					frac := m.cfg.Range(a).Fraction(a.Get(state.Position))
					m.chart.PushDataSet(string(a), frac*chartMaxValue)
				}
				m.chart.DrawAll()
				p := state.Position
				m.lastPos = &p
			}
		}
		return m, waitForState(m.mon)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.mon)
	}

	return m, nil
}

func (m jogModel) View() string {
	if m.quitting {
		return "Jog stopped.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("uArm Jog"))
	sb.WriteString(fmt.Sprintf(" - step %.1f mm", m.step))
	if m.gripper {
		sb.WriteString(statusStyle.Render("  gripper open"))
	} else {
		sb.WriteString(statusStyle.Render("  gripper closed"))
	}
	if m.busy {
		sb.WriteString(statusStyle.Render("  moving..."))
	}
	sb.WriteString("\n\n")

	// Sliders
	for _, a := range robot.AllAxes() {
		sb.WriteString(m.renderSlider(a))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	// Chart
	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	// Legend
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	// Log box
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(max(m.width-4, 20)).
		Foreground(lipgloss.Color("9")) // bright red

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("←/→ x  ↑/↓ y  w/s z  g gripper  h home  p grab pencil  q quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

// renderSlider draws one axis: the commanded target as a bar and the
// reported position as a number.
func (m jogModel) renderSlider(a robot.Axis) string {
	r := m.cfg.Range(a)
	filled := int(r.Fraction(a.Get(m.target))*sliderWidth + 0.5)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(axisColors[a]))

	bar := style.Render(strings.Repeat("█", filled)) +
		statusStyle.Render(strings.Repeat("░", sliderWidth-filled))
	return fmt.Sprintf("%s %s %7.1f %s",
		style.Bold(true).Render(strings.ToUpper(string(a))),
		bar,
		a.Get(m.pos),
		statusStyle.Render(fmt.Sprintf("[%g..%g]", r.Min, r.Max)),
	)
}

func renderLegend() string {
	var items []string
	for _, a := range robot.AllAxes() {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(axisColors[a])).Bold(true)
		items = append(items, colorStyle.Render("━━")+" "+string(a))
	}
	return strings.Join(items, "  ")
}

func (c *JogCommand) Execute(args []string) error {
	return withArm(func(ctx context.Context, arm *robot.Arm, cfg *robot.Config) error {
		step := c.Step
		if step <= 0 {
			step = cfg.Jog.Step
		}

		mon := monitor.New(arm, c.Hz)
		monCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go mon.Start(monCtx)
		mon.Logf("connected, jogging at %.1f mm per key", step)

		p := tea.NewProgram(initialJogModel(ctx, arm, cfg.Jog, mon, step), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("run jog panel: %w", err)
		}
		return nil
	})
}
