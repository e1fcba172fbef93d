// Package probe inspects an X display for what backdrop needs without
// creating any window.
package probe

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/backdrop/internal/glx"
	"github.com/1broseidon/backdrop/internal/x11"
)

// Desktop describes the window backdrop would sit on.
type Desktop struct {
	Window uint32 `json:"window"`
	X      int16  `json:"x"`
	Y      int16  `json:"y"`
	Width  uint16 `json:"width"`
	Height uint16 `json:"height"`
}

type Compositor struct {
	Status string `json:"status"`
	// MissingHints are backdrop window hints the window manager does not
	// advertise.
	MissingHints []string `json:"missing_hints,omitempty"`
	HintsError   string   `json:"hints_error,omitempty"`
}

// Report is everything Run learns about a display.
type Report struct {
	Display       string           `json:"display"`
	Screen        int              `json:"screen"`
	Desktop       *Desktop         `json:"desktop"`
	Compositor    Compositor       `json:"compositor"`
	FBConfigs     []glx.ConfigInfo `json:"fbconfigs"`
	FBConfigError string           `json:"fbconfig_error,omitempty"`
}

// Usable reports whether backdrop could start on this display.
func (r *Report) Usable() bool {
	if r.Desktop == nil || r.FBConfigError != "" {
		return false
	}
	for _, c := range r.FBConfigs {
		if c.Usable {
			return true
		}
	}
	return false
}

// FindDesktop returns the desktop window's geometry, or nil when there is
// none.
func FindDesktop(conn *x11.Connection) (*Desktop, error) {
	screen, err := conn.Screen()
	if err != nil {
		return nil, err
	}
	win, ok := conn.FindDesktop(screen.Root())
	if !ok {
		return nil, nil
	}
	geom, err := win.Geometry()
	if err != nil {
		return nil, fmt.Errorf("failed to read desktop geometry: %w", err)
	}
	return &Desktop{
		Window: uint32(win.ID),
		X:      geom.X,
		Y:      geom.Y,
		Width:  geom.Width,
		Height: geom.Height,
	}, nil
}

// CompositorState reports the compositing manager and missing EWMH hints.
func CompositorState(conn *x11.Connection) Compositor {
	out := Compositor{Status: conn.DetectCompositor().String()}
	missing, err := conn.MissingHints(x11.BackdropHints)
	if err != nil {
		out.HintsError = err.Error()
		return out
	}
	out.MissingHints = missing
	return out
}

// Prober opens fresh connections for each query so it can serve long-lived
// callers such as the MCP server.
type Prober struct {
	Display string
	Log     *slog.Logger

	dial    func(display string, logger *slog.Logger) (*x11.Connection, error)
	openGLX func(display string) (glx.Driver, error)
}

func NewProber(display string, logger *slog.Logger) *Prober {
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{
		Display: display,
		Log:     logger,
		dial:    x11.Dial,
		openGLX: func(display string) (glx.Driver, error) {
			d, err := glx.Open(display)
			if err != nil {
				return nil, err
			}
			return d, nil
		},
	}
}

func (p *Prober) connect() (*x11.Connection, error) {
	conn, err := p.dial(p.Display, p.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to display %q: %w", p.Display, err)
	}
	return conn, nil
}

func (p *Prober) Desktop() (*Desktop, error) {
	conn, err := p.connect()
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	return FindDesktop(conn)
}

func (p *Prober) Compositor() (Compositor, error) {
	conn, err := p.connect()
	if err != nil {
		return Compositor{}, err
	}
	defer conn.Close()
	return CompositorState(conn), nil
}

func (p *Prober) FBConfigs() ([]glx.ConfigInfo, error) {
	conn, err := p.connect()
	if err != nil {
		return nil, err
	}
	screen := conn.ScreenNumber()
	conn.Close()
	return p.fbConfigs(screen)
}

func (p *Prober) fbConfigs(screen int) ([]glx.ConfigInfo, error) {
	d, err := p.openGLX(p.Display)
	if err != nil {
		return nil, fmt.Errorf("failed to open GLX: %w", err)
	}
	defer d.Close()
	return glx.ListConfigs(d, screen)
}

// Run gathers a full report over one X connection. Only a failure to
// connect is an error; partial failures are recorded in the report.
func (p *Prober) Run() (*Report, error) {
	conn, err := p.connect()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rep := &Report{Display: p.Display, Screen: conn.ScreenNumber()}
	desktop, err := FindDesktop(conn)
	if err != nil {
		p.Log.Warn("desktop lookup failed", "error", err)
	}
	rep.Desktop = desktop
	rep.Compositor = CompositorState(conn)

	configs, err := p.fbConfigs(rep.Screen)
	if err != nil {
		rep.FBConfigError = err.Error()
	} else {
		rep.FBConfigs = configs
	}
	return rep, nil
}
