// Package frameloop drives backdrop's fixed-interval render loop.
package frameloop

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/backdrop/internal/config"
	"github.com/1broseidon/backdrop/internal/gl"
	"github.com/1broseidon/backdrop/internal/scene"
	"github.com/1broseidon/backdrop/internal/x11"
)

// State is the loop's lifecycle stage.
type State int32

const (
	StateInit State = iota
	StateRunning
	StateShuttingDown
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting-down"
	default:
		return "unknown"
	}
}

// Events is a non-blocking X event source.
type Events interface {
	PollEvent() (x11.Event, bool)
}

// Guard runs one frame with the GL context current.
type Guard interface {
	Frame(draw func() error) error
}

// Renderer draws a scene into the current context.
type Renderer interface {
	Resize(width, height int)
	SetClearColor(c gl.Color)
	SetAlpha(a float32)
	Draw(d gl.Drawable)
}

type Options struct {
	// Window is the backdrop window; its configure and destroy events are
	// acted on, others are ignored.
	Window xproto.Window
	// Close recognises WM_DELETE_WINDOW requests.
	Close    x11.DeleteProtocol
	Interval time.Duration
	// Reloads delivers new configs from a file watcher. May be nil.
	Reloads <-chan *config.Config
	// Level is adjusted when a reload changes log_level. May be nil.
	Level  *slog.LevelVar
	Logger *slog.Logger
}

// Loop owns the per-tick sequence: drain events, update, draw, wait.
type Loop struct {
	events   Events
	guard    Guard
	renderer Renderer
	scene    scene.Scene
	opts     Options
	log      *slog.Logger

	state      atomic.Int32
	frames     atomic.Uint64
	windowGone atomic.Bool
	ticker     *time.Ticker
}

func New(events Events, guard Guard, renderer Renderer, sc scene.Scene, opts Options) *Loop {
	if opts.Interval <= 0 {
		opts.Interval = config.DefaultFrameInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		events:   events,
		guard:    guard,
		renderer: renderer,
		scene:    sc,
		opts:     opts,
		log:      logger.With("component", "frameloop"),
	}
}

func (l *Loop) State() State { return State(l.state.Load()) }

// Frames is the number of frames drawn so far.
func (l *Loop) Frames() uint64 { return l.frames.Load() }

// WindowDestroyed reports whether the loop stopped because the server
// destroyed the window. The drawable is gone, so the context can no longer
// be made current on it.
func (l *Loop) WindowDestroyed() bool { return l.windowGone.Load() }

// Run loops until the window is closed or destroyed, ctx is cancelled, or a
// frame fails. Only a frame failure is returned as an error.
func (l *Loop) Run(ctx context.Context) error {
	if !l.state.CompareAndSwap(int32(StateInit), int32(StateRunning)) {
		return fmt.Errorf("frame loop already %s", l.State())
	}
	defer l.state.Store(int32(StateShuttingDown))

	l.ticker = time.NewTicker(l.opts.Interval)
	defer l.ticker.Stop()

	l.log.Info("frame loop running", "scene", l.scene.Name(), "interval", l.opts.Interval)
	for {
		if ctx.Err() != nil {
			l.log.Info("frame loop cancelled", "frames", l.Frames())
			return nil
		}
		if l.drainEvents() {
			l.log.Info("window closed", "frames", l.Frames())
			return nil
		}
		l.pollReload()

		l.scene.Update()
		err := l.guard.Frame(func() error {
			l.renderer.Draw(l.scene)
			return nil
		})
		if err != nil {
			return fmt.Errorf("frame %d: %w", l.Frames(), err)
		}
		l.frames.Add(1)

		select {
		case <-ctx.Done():
			l.log.Info("frame loop cancelled", "frames", l.Frames())
			return nil
		case <-l.ticker.C:
		}
	}
}

// drainEvents handles every queued event and reports whether the window
// should close.
func (l *Loop) drainEvents() (closing bool) {
	for {
		ev, ok := l.events.PollEvent()
		if !ok {
			return closing
		}
		if l.opts.Close.Matches(ev) {
			closing = true
			continue
		}
		switch e := ev.(type) {
		case x11.KeyEvent:
			action := "released"
			if e.Pressed {
				action = "pressed"
			}
			l.log.Info("key "+action, "key", e.Name, "code", e.Code, "state", e.State)
		case x11.ConfigureEvent:
			if e.Window == l.opts.Window {
				l.renderer.Resize(int(e.Geometry.Width), int(e.Geometry.Height))
			}
		case x11.DestroyEvent:
			if e.Window == l.opts.Window {
				l.windowGone.Store(true)
				closing = true
			}
		case x11.ExposeEvent:
			// Every tick redraws the whole window.
		}
	}
}

func (l *Loop) pollReload() {
	if l.opts.Reloads == nil {
		return
	}
	select {
	case cfg, ok := <-l.opts.Reloads:
		if ok && cfg != nil {
			l.apply(cfg)
		}
	default:
	}
}

// apply takes the reloadable settings from cfg. Display, GL version, scene
// and shaders only change on restart.
func (l *Loop) apply(cfg *config.Config) {
	c := cfg.ClearColor
	l.renderer.SetClearColor(gl.Color{R: c[0], G: c[1], B: c[2], A: c[3]})
	l.renderer.SetAlpha(cfg.ShapeAlpha)
	if l.opts.Level != nil {
		l.opts.Level.Set(cfg.SlogLevel())
	}
	if cfg.FrameInterval > 0 && cfg.FrameInterval != l.opts.Interval {
		l.opts.Interval = cfg.FrameInterval
		if l.ticker != nil {
			l.ticker.Reset(cfg.FrameInterval)
		}
	}
	l.log.Debug("settings applied", "interval", l.opts.Interval, "alpha", cfg.ShapeAlpha)
}
