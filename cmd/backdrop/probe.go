package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/1broseidon/backdrop/internal/config"
	"github.com/1broseidon/backdrop/internal/probe"
)

func runProbe(args []string) int {
	fs := flag.NewFlagSet("probe", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	display := fs.String("display", "", "X display (default: config display, then $DISPLAY)")
	jsonOut := fs.Bool("json", false, "Print the report as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: backdrop probe [--display DISPLAY] [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Locate the desktop window, list alpha-capable framebuffer configs and")
		fmt.Fprintln(os.Stderr, "report the compositor without creating any window.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "probe takes no arguments")
		fs.Usage()
		return 2
	}

	disp := *display
	if disp == "" {
		if cfg, err := config.Load(); err == nil {
			disp = cfg.Display
		}
	}

	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	rep, err := probe.NewProber(disp, newLogger(os.Stderr, level)).Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	} else {
		printReport(os.Stdout, rep)
	}
	if !rep.Usable() {
		return 1
	}
	return 0
}

func printReport(w io.Writer, rep *probe.Report) {
	disp := rep.Display
	if disp == "" {
		disp = "$DISPLAY"
	}
	fmt.Fprintf(w, "display:    %s (screen %d)\n", disp, rep.Screen)
	if rep.Desktop == nil {
		fmt.Fprintln(w, "desktop:    not found")
	} else {
		d := rep.Desktop
		fmt.Fprintf(w, "desktop:    0x%x %dx%d+%d+%d\n", d.Window, d.Width, d.Height, d.X, d.Y)
	}
	fmt.Fprintf(w, "compositor: %s\n", rep.Compositor.Status)
	if len(rep.Compositor.MissingHints) > 0 {
		fmt.Fprintf(w, "missing wm hints: %v\n", rep.Compositor.MissingHints)
	}
	if rep.Compositor.HintsError != "" {
		fmt.Fprintf(w, "wm hints:   %s\n", rep.Compositor.HintsError)
	}
	if rep.FBConfigError != "" {
		fmt.Fprintf(w, "fbconfigs:  %s\n", rep.FBConfigError)
	} else {
		fmt.Fprintf(w, "fbconfigs:  %d candidates\n", len(rep.FBConfigs))
		for _, c := range rep.FBConfigs {
			mark := " "
			if c.Usable {
				mark = "*"
			}
			fmt.Fprintf(w, "  %s [%d] visual 0x%x depth %d alpha 0x%x\n", mark, c.Index, c.VisualID, c.Depth, c.AlphaMask)
		}
	}
	if rep.Usable() {
		fmt.Fprintln(w, "status:     ok")
	} else {
		fmt.Fprintln(w, "status:     backdrop cannot start on this display")
	}
}
