package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/backdrop/internal/config"
	"github.com/1broseidon/backdrop/internal/frameloop"
	"github.com/1broseidon/backdrop/internal/gl"
	"github.com/1broseidon/backdrop/internal/glx"
	"github.com/1broseidon/backdrop/internal/runtimepath"
	"github.com/1broseidon/backdrop/internal/scene"
	"github.com/1broseidon/backdrop/internal/x11"
)

const windowName = "backdrop"

func runBackdrop(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/backdrop/config.yaml)")
	display := fs.String("display", "", "X display (overrides config and $DISPLAY)")
	sceneName := fs.String("scene", "", "Scene to draw: "+fmt.Sprint(scene.Names()))
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: backdrop run [--path PATH] [--display DISPLAY] [--scene NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open a transparent window below all others and animate a scene until")
		fmt.Fprintln(os.Stderr, "the window manager closes it or the process is interrupted.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	cfgPath := *path
	if cfgPath == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			log.Fatalf("Failed to resolve config path: %v", err)
		}
		cfgPath = p
	}
	res, err := config.LoadFromPath(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config
	if *display != "" {
		cfg.Display = *display
	}
	if *sceneName != "" {
		cfg.Scene = *sceneName
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid --scene: %v", err)
		}
	}

	level := new(slog.LevelVar)
	level.Set(cfg.SlogLevel())
	logger := newLogger(os.Stderr, level)
	slog.SetDefault(logger)

	cleanup := frameloop.NewCleanup(logger)
	app, err := setup(cfg, logger, cleanup, xlibPlatform)
	if err != nil {
		cleanup.Run()
		log.Fatalf("Failed to start: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var reloads <-chan *config.Config
	if cfg.Watch {
		w, err := config.NewWatcher(cfgPath, 0, logger)
		if err != nil {
			logger.Warn("config watch disabled", "path", cfgPath, "error", err)
		} else {
			cleanup.PushFunc("config watcher", w.Stop)
			reloads = w.Updates()
		}
	}

	loop := frameloop.New(app.conn, app.glctx, app.renderer, app.scene, frameloop.Options{
		Window:   app.window.ID,
		Close:    app.close,
		Interval: cfg.FrameInterval,
		Reloads:  reloads,
		Level:    level,
		Logger:   logger,
	})
	runErr := loop.Run(ctx)
	app.windowGone = loop.WindowDestroyed()
	if err := cleanup.Run(); err != nil {
		logger.Warn("teardown incomplete", "error", err)
	}
	if runErr != nil {
		logger.Error("frame loop failed", "error", runErr)
		return 1
	}
	return 0
}

// sceneRenderer is the GL renderer the frame loop draws with. Delete needs
// the context current.
type sceneRenderer interface {
	frameloop.Renderer
	Delete()
}

// platform opens the display-side resources setup acquires.
type platform struct {
	dial          func(display string, logger *slog.Logger) (*x11.Connection, error)
	openGLX       func(display string) (glx.Driver, error)
	buildRenderer func(cfg *config.Config, driver glx.Driver, glctx *glx.Context) (sceneRenderer, error)
}

var xlibPlatform = platform{
	dial:          x11.Dial,
	openGLX:       openXlib,
	buildRenderer: buildRenderer,
}

func openXlib(display string) (glx.Driver, error) {
	d, err := glx.Open(display)
	if err != nil {
		return nil, err
	}
	return d, nil
}

type application struct {
	conn     *x11.Connection
	window   x11.Window
	close    x11.DeleteProtocol
	glctx    *glx.Context
	renderer sceneRenderer
	scene    scene.Scene

	// windowGone is set once the server has destroyed the window. Teardown
	// then skips every step that needs the drawable.
	windowGone bool
}

// setup acquires every resource in order and registers its release on
// cleanup as it goes, so a failure part way leaves nothing behind once
// cleanup runs.
func setup(cfg *config.Config, logger *slog.Logger, cleanup *frameloop.Cleanup, p platform) (*application, error) {
	app := &application{}
	major, minor, err := config.ParseGLVersion(cfg.GLVersion)
	if err != nil {
		return nil, err
	}

	lock, err := runtimepath.AcquireLock(cfg.Display)
	if err != nil {
		return nil, err
	}
	cleanup.Push("pid lock", lock.Release)

	conn, err := p.dial(cfg.Display, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to display: %w", err)
	}
	cleanup.PushFunc("x connection", conn.Close)
	warnEnvironment(conn, logger)

	driver, err := p.openGLX(cfg.Display)
	if err != nil {
		return nil, err
	}
	cleanup.PushFunc("glx display", driver.Close)

	screenNum := conn.ScreenNumber()
	choice, err := glx.ChooseAlphaConfig(driver, screenNum)
	if err != nil {
		return nil, err
	}
	cleanup.PushFunc("visual", func() { driver.FreeVisual(choice.Visual) })
	logger.Info("framebuffer config selected", "index", choice.Index, "visual", choice.Visual.ID, "depth", choice.Visual.Depth)

	screen, err := conn.Screen()
	if err != nil {
		return nil, err
	}
	root := screen.Root()
	desktop, ok := conn.FindDesktop(root)
	if !ok {
		return nil, errors.New("no window of type _NET_WM_WINDOW_TYPE_DESKTOP found")
	}
	geom, err := desktop.Geometry()
	if err != nil {
		return nil, fmt.Errorf("failed to read desktop geometry: %w", err)
	}
	logger.Info("desktop found", "window", desktop.ID, "width", geom.Width, "height", geom.Height)

	cmap, err := root.CreateColormap(choice.Visual.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create colormap: %w", err)
	}
	cleanup.Push("colormap", cmap.Free)

	background := uint32(0)
	border := screen.WhitePixel()
	visual := choice.Visual.ID
	win, err := root.CreateChild(x11.ChildWindowOptions{
		Geometry:   geom,
		Depth:      choice.Visual.Depth,
		Colormap:   cmap,
		Background: &background,
		Border:     &border,
		Visual:     &visual,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	cleanup.Push("window", func() error {
		if app.windowGone {
			return nil
		}
		return win.Destroy()
	})
	if err := win.SetName(windowName); err != nil {
		logger.Warn("failed to set window name", "error", err)
	}

	closeProto, err := conn.ApplyBackdropRole(win)
	if err != nil {
		return nil, err
	}
	driver.Sync()

	glctx, err := glx.CreateContext(driver, screenNum, choice.Config, win.ID, glx.Version{Major: major, Minor: minor}, logger)
	if err != nil {
		return nil, err
	}
	cleanup.PushFunc("gl context", glctx.Destroy)

	renderer, err := p.buildRenderer(cfg, driver, glctx)
	if err != nil {
		return nil, err
	}
	cleanup.Push("gl resources", func() error {
		// GL objects go with the context when the drawable is already gone.
		if app.windowGone {
			logger.Debug("window destroyed; leaving gl objects to the context")
			return nil
		}
		if err := glctx.Bind(); err != nil {
			return err
		}
		defer glctx.Release()
		renderer.Delete()
		return nil
	})
	renderer.Resize(int(geom.Width), int(geom.Height))

	sc, err := newScene(cfg)
	if err != nil {
		return nil, err
	}

	app.conn = conn
	app.window = win
	app.close = closeProto
	app.glctx = glctx
	app.renderer = renderer
	app.scene = sc
	return app, nil
}

// buildRenderer loads GL entry points and creates the program and mesh with
// the context bound, then releases it for the frame loop.
func buildRenderer(cfg *config.Config, driver glx.Driver, glctx *glx.Context) (sceneRenderer, error) {
	if err := glctx.Bind(); err != nil {
		return nil, err
	}
	defer glctx.Release()

	funcs, err := gl.Load(driver.ProcAddress)
	if err != nil {
		return nil, err
	}
	glctx.SetErrorCheck(func() error { return gl.CheckError(funcs) })

	src, err := gl.LoadSources(cfg.Shaders.Vertex, cfg.Shaders.Fragment)
	if err != nil {
		return nil, err
	}
	program, err := gl.BuildProgram(funcs, src)
	if err != nil {
		return nil, err
	}
	mesh := gl.NewMesh(funcs)
	c := cfg.ClearColor
	renderer := gl.NewRenderer(funcs, program, mesh, gl.Color{R: c[0], G: c[1], B: c[2], A: c[3]})
	renderer.SetAlpha(cfg.ShapeAlpha)
	if err := gl.CheckError(funcs); err != nil {
		renderer.Delete()
		return nil, fmt.Errorf("gl setup: %w", err)
	}
	return renderer, nil
}

func newScene(cfg *config.Config) (scene.Scene, error) {
	if cfg.Scene == "sprite" {
		return scene.NewSprite(scene.DefaultSpriteFrames(), cfg.SpriteTicks), nil
	}
	return scene.New(cfg.Scene)
}

// warnEnvironment reports conditions that leave the window visible but not
// transparent or not pinned below other windows.
func warnEnvironment(conn *x11.Connection, logger *slog.Logger) {
	if status := conn.DetectCompositor(); status != x11.CompositorActive {
		logger.Warn("no compositing manager detected; the window will not be transparent", "compositor", status.String())
	}
	missing, err := conn.MissingHints(x11.BackdropHints)
	if err != nil {
		logger.Debug("window manager hints unavailable", "error", err)
		return
	}
	if len(missing) > 0 {
		logger.Warn("window manager does not advertise hints backdrop relies on", "missing", missing)
	}
}
