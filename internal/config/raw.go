package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawShaders struct {
	Vertex   *string `yaml:"vertex"`
	Fragment *string `yaml:"fragment"`
}

// RawConfig mirrors Config with every field optional so layered files only
// override what they set.
type RawConfig struct {
	Include       IncludeList    `yaml:"include"`
	Display       *string        `yaml:"display"`
	FrameInterval *time.Duration `yaml:"frame_interval"`
	GLVersion     *string        `yaml:"gl_version"`
	Scene         *string        `yaml:"scene"`
	ClearColor    *Color         `yaml:"clear_color"`
	ShapeAlpha    *float32       `yaml:"shape_alpha"`
	SpriteTicks   *int           `yaml:"sprite_ticks"`
	Shaders       *RawShaders    `yaml:"shaders"`
	LogLevel      *string        `yaml:"log_level"`
	Watch         *bool          `yaml:"watch"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.FrameInterval != nil {
		out.FrameInterval = overlay.FrameInterval
	}
	if overlay.GLVersion != nil {
		out.GLVersion = overlay.GLVersion
	}
	if overlay.Scene != nil {
		out.Scene = overlay.Scene
	}
	if overlay.ClearColor != nil {
		out.ClearColor = overlay.ClearColor
	}
	if overlay.ShapeAlpha != nil {
		out.ShapeAlpha = overlay.ShapeAlpha
	}
	if overlay.SpriteTicks != nil {
		out.SpriteTicks = overlay.SpriteTicks
	}
	if overlay.Shaders != nil {
		out.Shaders = mergeRawShaders(out.Shaders, overlay.Shaders)
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.Watch != nil {
		out.Watch = overlay.Watch
	}
	return out
}

func mergeRawShaders(base *RawShaders, overlay *RawShaders) *RawShaders {
	out := RawShaders{}
	if base != nil {
		out = *base
	}
	if overlay.Vertex != nil {
		out.Vertex = overlay.Vertex
	}
	if overlay.Fragment != nil {
		out.Fragment = overlay.Fragment
	}
	return &out
}
