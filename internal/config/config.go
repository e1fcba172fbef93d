package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFrameInterval = 36 * time.Millisecond
	DefaultGLVersion     = "3.0"
	DefaultScene         = "triangle"
	DefaultSpriteTicks   = 8

	minFrameInterval = time.Millisecond
)

// Color is an RGBA clear color with components in [0, 1].
type Color [4]float32

// Shaders optionally replaces the embedded shader sources with files.
type Shaders struct {
	Vertex   string `yaml:"vertex,omitempty"`
	Fragment string `yaml:"fragment,omitempty"`
}

type Config struct {
	// Display overrides $DISPLAY when non-empty.
	Display       string        `yaml:"display"`
	FrameInterval time.Duration `yaml:"frame_interval"`
	GLVersion     string        `yaml:"gl_version"`
	Scene         string        `yaml:"scene"`
	ClearColor    Color         `yaml:"clear_color"`
	// ShapeAlpha is the opacity applied to scene geometry.
	ShapeAlpha  float32 `yaml:"shape_alpha"`
	SpriteTicks int     `yaml:"sprite_ticks"`
	Shaders     Shaders `yaml:"shaders"`
	LogLevel    string  `yaml:"log_level"`
	// Watch reloads clear_color, shape_alpha, frame_interval and
	// log_level while running.
	Watch bool `yaml:"watch"`
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "backdrop", "config.yaml"), nil
}

func DefaultConfig() *Config {
	return &Config{
		FrameInterval: DefaultFrameInterval,
		GLVersion:     DefaultGLVersion,
		Scene:         DefaultScene,
		ClearColor:    Color{0.5, 0.5, 1, 0.5},
		ShapeAlpha:    1,
		SpriteTicks:   DefaultSpriteTicks,
		LogLevel:      "info",
	}
}

// KnownScenes lists the values accepted for scene.
var KnownScenes = []string{"cube", "sprite", "triangle"}

func (c *Config) Validate() error {
	if c.FrameInterval < minFrameInterval {
		return &ValidationError{Path: "frame_interval", Err: fmt.Errorf("frame_interval must be >= %s", minFrameInterval)}
	}
	major, minor, err := ParseGLVersion(c.GLVersion)
	if err != nil {
		return &ValidationError{Path: "gl_version", Err: err}
	}
	if major < 3 {
		return &ValidationError{Path: "gl_version", Err: fmt.Errorf("gl_version must be at least 3.0, got %d.%d", major, minor)}
	}
	sceneOK := false
	for _, s := range KnownScenes {
		if c.Scene == s {
			sceneOK = true
			break
		}
	}
	if !sceneOK {
		return &ValidationError{Path: "scene", Err: fmt.Errorf("scene must be one of: %s", strings.Join(KnownScenes, ", "))}
	}
	for i, v := range c.ClearColor {
		if v < 0 || v > 1 {
			return &ValidationError{Path: "clear_color", Err: fmt.Errorf("component %d is %g, must be within [0, 1]", i, v)}
		}
	}
	if c.ShapeAlpha < 0 || c.ShapeAlpha > 1 {
		return &ValidationError{Path: "shape_alpha", Err: fmt.Errorf("shape_alpha must be within [0, 1]")}
	}
	if c.SpriteTicks < 1 {
		return &ValidationError{Path: "sprite_ticks", Err: fmt.Errorf("sprite_ticks must be >= 1")}
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	return nil
}

// ParseGLVersion parses "major.minor".
func ParseGLVersion(s string) (int, int, error) {
	majorStr, minorStr, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return 0, 0, fmt.Errorf("gl_version %q must be major.minor", s)
	}
	major, err := strconv.Atoi(majorStr)
	if err != nil {
		return 0, 0, fmt.Errorf("gl_version %q: invalid major: %w", s, err)
	}
	minor, err := strconv.Atoi(minorStr)
	if err != nil {
		return 0, 0, fmt.Errorf("gl_version %q: invalid minor: %w", s, err)
	}
	if major < 0 || minor < 0 {
		return 0, 0, fmt.Errorf("gl_version %q must not be negative", s)
	}
	return major, minor, nil
}

func parseLevel(s string) (slog.Level, bool) {
	switch s {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return 0, false
	}
}

// SlogLevel maps log_level to a slog level; unknown values map to info.
func (c *Config) SlogLevel() slog.Level {
	level, ok := parseLevel(c.LogLevel)
	if !ok {
		return slog.LevelInfo
	}
	return level
}

// Marshal renders the effective config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
