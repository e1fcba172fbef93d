package mcp

import (
	"github.com/1broseidon/backdrop/internal/glx"
	"github.com/1broseidon/backdrop/internal/probe"
)

// DisplayInput selects the X display a tool inspects.
type DisplayInput struct {
	Display string `json:"display,omitempty" jsonschema:"X display to inspect (default: config display, then DISPLAY, then the login session)"`
}

// FindDesktopOutput is the output for the find_desktop tool.
type FindDesktopOutput struct {
	Display string         `json:"display"`
	Found   bool           `json:"found"`
	Desktop *probe.Desktop `json:"desktop,omitempty"`
}

// ListFBConfigsOutput is the output for the list_fbconfigs tool.
type ListFBConfigsOutput struct {
	Display string           `json:"display"`
	Configs []glx.ConfigInfo `json:"configs"`
	// Selected is the index backdrop would use, -1 when none qualifies.
	Selected int `json:"selected"`
}

// CompositorStatusOutput is the output for the compositor_status tool.
type CompositorStatusOutput struct {
	Display      string   `json:"display"`
	Status       string   `json:"status"`
	Transparent  bool     `json:"transparent"`
	MissingHints []string `json:"missing_hints,omitempty"`
	HintsError   string   `json:"hints_error,omitempty"`
}

// ProbeOutput is the output for the probe tool.
type ProbeOutput struct {
	Report *probe.Report `json:"report"`
	Usable bool          `json:"usable"`
}
