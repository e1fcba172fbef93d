package config

import "fmt"

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig overlays raw onto DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.FrameInterval != nil {
		cfg.FrameInterval = *raw.FrameInterval
	}
	if raw.GLVersion != nil {
		cfg.GLVersion = *raw.GLVersion
	}
	if raw.Scene != nil {
		cfg.Scene = *raw.Scene
	}
	if raw.ClearColor != nil {
		cfg.ClearColor = *raw.ClearColor
	}
	if raw.ShapeAlpha != nil {
		cfg.ShapeAlpha = *raw.ShapeAlpha
	}
	if raw.SpriteTicks != nil {
		cfg.SpriteTicks = *raw.SpriteTicks
	}
	if raw.Shaders != nil {
		if raw.Shaders.Vertex != nil {
			cfg.Shaders.Vertex = *raw.Shaders.Vertex
		}
		if raw.Shaders.Fragment != nil {
			cfg.Shaders.Fragment = *raw.Shaders.Fragment
		}
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.Watch != nil {
		cfg.Watch = *raw.Watch
	}
	return cfg
}
