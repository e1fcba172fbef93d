package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/backdrop/internal/config"
	"github.com/1broseidon/backdrop/internal/glx"
	"github.com/1broseidon/backdrop/internal/probe"
)

const (
	ServerName    = "backdrop"
	ServerVersion = "0.1.0"
)

// Prober answers display questions; probe.Prober is the real one.
type Prober interface {
	Desktop() (*probe.Desktop, error)
	Compositor() (probe.Compositor, error)
	FBConfigs() ([]glx.ConfigInfo, error)
	Run() (*probe.Report, error)
}

// Server is the MCP server exposing backdrop's display diagnostics.
type Server struct {
	mcpServer *mcpsdk.Server
	config    *config.Config
	log       *slog.Logger

	environ   func() []string
	newProber func(display string) Prober
}

// NewServer creates a new MCP server. Tools are read-only: they never
// create windows or GL contexts.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		config:  cfg,
		log:     logger.With("component", "mcp"),
		environ: os.Environ,
	}
	s.newProber = func(display string) Prober {
		return probe.NewProber(display, s.log)
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "find_desktop",
		Description: "Locate the window of type _NET_WM_WINDOW_TYPE_DESKTOP that backdrop would attach to, and report its geometry.",
	}, s.handleFindDesktop)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_fbconfigs",
		Description: "List the double-buffered RGBA GLX framebuffer configs on the display, whether each one's visual has an alpha channel, and which one backdrop would select.",
	}, s.handleListFBConfigs)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "compositor_status",
		Description: "Report whether a compositing manager is running (required for transparency) and which EWMH hints used by backdrop the window manager does not advertise.",
	}, s.handleCompositorStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "probe",
		Description: "Run every check at once and report whether backdrop can start on the display.",
	}, s.handleProbe)
}

func (s *Server) proberFor(display string) (Prober, string, error) {
	disp, xauth, err := resolveX11Env(s.environ(), display, s.config.Display)
	if err != nil {
		return nil, "", err
	}
	ensureXAuthority(xauth)
	return s.newProber(disp), disp, nil
}

func (s *Server) handleFindDesktop(_ context.Context, _ *mcpsdk.CallToolRequest, args DisplayInput) (*mcpsdk.CallToolResult, FindDesktopOutput, error) {
	p, disp, err := s.proberFor(args.Display)
	if err != nil {
		return nil, FindDesktopOutput{}, err
	}
	desktop, err := p.Desktop()
	if err != nil {
		return nil, FindDesktopOutput{}, err
	}
	s.log.Debug("find_desktop", "display", disp, "found", desktop != nil)
	return nil, FindDesktopOutput{
		Display: disp,
		Found:   desktop != nil,
		Desktop: desktop,
	}, nil
}

func (s *Server) handleListFBConfigs(_ context.Context, _ *mcpsdk.CallToolRequest, args DisplayInput) (*mcpsdk.CallToolResult, ListFBConfigsOutput, error) {
	p, disp, err := s.proberFor(args.Display)
	if err != nil {
		return nil, ListFBConfigsOutput{}, err
	}
	configs, err := p.FBConfigs()
	if err != nil {
		return nil, ListFBConfigsOutput{}, err
	}
	selected := -1
	for _, c := range configs {
		if c.Usable {
			selected = c.Index
			break
		}
	}
	return nil, ListFBConfigsOutput{
		Display:  disp,
		Configs:  configs,
		Selected: selected,
	}, nil
}

func (s *Server) handleCompositorStatus(_ context.Context, _ *mcpsdk.CallToolRequest, args DisplayInput) (*mcpsdk.CallToolResult, CompositorStatusOutput, error) {
	p, disp, err := s.proberFor(args.Display)
	if err != nil {
		return nil, CompositorStatusOutput{}, err
	}
	c, err := p.Compositor()
	if err != nil {
		return nil, CompositorStatusOutput{}, err
	}
	return nil, CompositorStatusOutput{
		Display:      disp,
		Status:       c.Status,
		Transparent:  c.Status == "active",
		MissingHints: c.MissingHints,
		HintsError:   c.HintsError,
	}, nil
}

func (s *Server) handleProbe(_ context.Context, _ *mcpsdk.CallToolRequest, args DisplayInput) (*mcpsdk.CallToolResult, ProbeOutput, error) {
	p, _, err := s.proberFor(args.Display)
	if err != nil {
		return nil, ProbeOutput{}, err
	}
	rep, err := p.Run()
	if err != nil {
		return nil, ProbeOutput{}, err
	}
	return nil, ProbeOutput{Report: rep, Usable: rep.Usable()}, nil
}
