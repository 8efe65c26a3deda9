package draw

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrBusy is returned when an export is started while another one is running.
var ErrBusy = errors.New("export already running")

// Progress is a snapshot of a running export.
type Progress struct {
	RunID     string
	Index     int
	Total     int
	Move      Move
	Timestamp time.Time
}

// Result summarises one export.
type Result struct {
	RunID    string
	Points   int
	Plan     []Move
	Lifts    int
	Draws    int
	Duration time.Duration
	DryRun   bool
}

// Exporter runs the point source to motion pipeline, one export at a time.
type Exporter struct {
	ws   Workspace
	opts Options
	seq  *Sequencer
	log  *zap.SugaredLogger

	mu         sync.Mutex
	running    bool
	progressCh chan Progress
}

// NewExporter creates an exporter for a workspace. Zero-valued options fall
// back to DefaultOptions.
func NewExporter(ws Workspace, opts Options, log *zap.SugaredLogger) (*Exporter, error) {
	if err := ws.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	def := DefaultOptions()
	if opts.GapThreshold <= 0 {
		opts.GapThreshold = def.GapThreshold
	}
	if opts.DrawSpeed <= 0 {
		opts.DrawSpeed = def.DrawSpeed
	}
	if opts.TravelSpeed <= 0 {
		opts.TravelSpeed = def.TravelSpeed
	}
	if opts.SpeedFactor <= 0 {
		opts.SpeedFactor = def.SpeedFactor
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = def.SettleDelay
	}
	if opts.DrawDelay <= 0 {
		opts.DrawDelay = def.DrawDelay
	}

	e := &Exporter{
		ws:         ws,
		opts:       opts,
		seq:        NewSequencer(log),
		log:        log.Named("export"),
		progressCh: make(chan Progress, 1),
	}
	return e, nil
}

// Options returns the effective motion parameters.
func (e *Exporter) Options() Options { return e.opts }

// Sequencer exposes the sequencer so callers can replace its sleeper.
func (e *Exporter) Sequencer() *Sequencer { return e.seq }

// Progress returns a channel that receives the latest move of a running
// export. Old snapshots are dropped when nobody reads.
func (e *Exporter) Progress() <-chan Progress {
	return e.progressCh
}

// Busy reports whether an export is in flight.
func (e *Exporter) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Preview plans an export without moving the arm.
func (e *Exporter) Preview(ctx context.Context, src Source) (*Result, error) {
	res, err := e.plan(ctx, src)
	if err != nil {
		return nil, err
	}
	res.DryRun = true
	return res, nil
}

// Export maps the source's points into the workspace and drives the
// resulting moves through drv. An empty source succeeds without touching
// drv. It returns ErrNotConnected without issuing any move when drv is
// absent, and ErrBusy when another export is running.
func (e *Exporter) Export(ctx context.Context, drv Driver, src Source) (*Result, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, ErrBusy
	}
	e.running = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	start := time.Now()
	res, err := e.plan(ctx, src)
	if err != nil {
		return nil, err
	}
	if len(res.Plan) == 0 {
		e.log.Infow("nothing to draw", "run", res.RunID)
		return res, nil
	}
	if drv == nil || !drv.Connected() {
		e.log.Warnw("export skipped, arm not connected", "run", res.RunID)
		return res, ErrNotConnected
	}

	e.log.Infow("export started", "run", res.RunID, "points", res.Points, "moves", len(res.Plan))
	total := len(res.Plan)
	e.seq.OnMove = func(i int, m Move) {
		e.sendProgress(Progress{
			RunID:     res.RunID,
			Index:     i,
			Total:     total,
			Move:      m,
			Timestamp: time.Now(),
		})
	}
	defer func() { e.seq.OnMove = nil }()

	if err := e.seq.Run(ctx, drv, res.Plan, e.opts.SpeedFactor); err != nil {
		e.log.Errorw("export aborted", "run", res.RunID, "error", err)
		return res, err
	}

	res.Duration = time.Since(start)
	e.log.Infow("export finished", "run", res.RunID, "duration", res.Duration)
	return res, nil
}

func (e *Exporter) plan(ctx context.Context, src Source) (*Result, error) {
	m, err := NewMapper(src.Canvas(), e.ws)
	if err != nil {
		return nil, err
	}

	points, err := src.Points(ctx)
	if err != nil {
		return nil, fmt.Errorf("read points: %w", err)
	}

	mapped := m.MapAll(points)
	segs := Segments(mapped, e.opts.GapThreshold)
	moves := Plan(mapped, segs, e.ws, e.opts)
	n := Count(moves)

	res := &Result{
		RunID:  uuid.NewString(),
		Points: len(points),
		Plan:   moves,
		Lifts:  n[Lift],
		Draws:  n[Draw],
	}
	e.log.Debugw("planned export", "run", res.RunID, "scale", m.Scale,
		"points", res.Points, "lifts", res.Lifts, "draws", res.Draws)
	return res, nil
}

func (e *Exporter) sendProgress(p Progress) {
	select {
	case e.progressCh <- p:
	default:
		// Drop old progress if channel full, replace with new
		select {
		case <-e.progressCh:
		default:
		}
		select {
		case e.progressCh <- p:
		default:
		}
	}
}
