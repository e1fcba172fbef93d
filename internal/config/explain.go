package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths:
//
//	display
//	frame_interval
//	gl_version
//	scene
//	clear_color
//	shape_alpha
//	sprite_ticks
//	shaders.vertex
//	shaders.fragment
//	log_level
//	watch
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch path {
	case "display":
		return cfg.Display, nil
	case "frame_interval":
		return cfg.FrameInterval, nil
	case "gl_version":
		return cfg.GLVersion, nil
	case "scene":
		return cfg.Scene, nil
	case "clear_color":
		return cfg.ClearColor, nil
	case "shape_alpha":
		return cfg.ShapeAlpha, nil
	case "sprite_ticks":
		return cfg.SpriteTicks, nil
	case "shaders":
		return cfg.Shaders, nil
	case "shaders.vertex":
		return cfg.Shaders.Vertex, nil
	case "shaders.fragment":
		return cfg.Shaders.Fragment, nil
	case "log_level":
		return cfg.LogLevel, nil
	case "watch":
		return cfg.Watch, nil
	}
	if strings.HasPrefix(path, "shaders.") {
		return nil, fmt.Errorf("unknown path: %s (expected shaders.vertex or shaders.fragment)", path)
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}
