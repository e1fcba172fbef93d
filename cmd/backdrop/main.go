package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
)

// GL contexts are bound to the OS thread that made them current; every GL
// call happens on the main goroutine.
func init() {
	runtime.LockOSThread()
}

func main() {
	if len(os.Args) < 2 {
		os.Exit(runBackdrop(nil))
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runBackdrop(os.Args[2:]))
	case "probe":
		os.Exit(runProbe(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: backdrop [command] [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run                 Draw on the desktop until closed (default)")
	fmt.Fprintln(w, "  probe               Check the display for a desktop window, alpha visuals and a compositor")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP diagnostics server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'backdrop <command> --help' for command-specific options.")
}
