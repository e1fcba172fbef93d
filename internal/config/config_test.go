package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Validates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.FrameInterval != 36*time.Millisecond {
		t.Fatalf("expected frame interval 36ms, got %s", cfg.FrameInterval)
	}
	if cfg.ClearColor != (Color{0.5, 0.5, 1, 0.5}) {
		t.Fatalf("expected half-transparent blue clear color, got %v", cfg.ClearColor)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Scene != DefaultScene {
		t.Fatalf("expected scene %q, got %q", DefaultScene, res.Config.Scene)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files loaded, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.GLVersion != DefaultGLVersion {
		t.Fatalf("expected gl_version %q, got %q", DefaultGLVersion, res.Config.GLVersion)
	}
	if len(res.Files) != 1 {
		t.Fatalf("expected one loaded file, got %v", res.Files)
	}
}

func TestLoadFromPath_Overlays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		`display: ":1"`,
		"frame_interval: 16ms",
		"scene: cube",
		"clear_color: [0, 0, 0, 0.25]",
		"shape_alpha: 0.5",
		"log_level: debug",
		"watch: true",
		"",
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Display != ":1" {
		t.Fatalf("expected display :1, got %q", cfg.Display)
	}
	if cfg.FrameInterval != 16*time.Millisecond {
		t.Fatalf("expected frame_interval 16ms, got %s", cfg.FrameInterval)
	}
	if cfg.Scene != "cube" {
		t.Fatalf("expected scene cube, got %q", cfg.Scene)
	}
	if cfg.ClearColor != (Color{0, 0, 0, 0.25}) {
		t.Fatalf("expected clear_color [0 0 0 0.25], got %v", cfg.ClearColor)
	}
	if cfg.ShapeAlpha != 0.5 {
		t.Fatalf("expected shape_alpha 0.5, got %v", cfg.ShapeAlpha)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", cfg.SlogLevel())
	}
	if !cfg.Watch {
		t.Fatalf("expected watch to be true")
	}
	// Unset keys keep their defaults.
	if cfg.SpriteTicks != DefaultSpriteTicks {
		t.Fatalf("expected sprite_ticks %d, got %d", DefaultSpriteTicks, cfg.SpriteTicks)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(configD, "10-base.yaml"), "scene: sprite\nsprite_ticks: 3\n")
	writeFile(t, filepath.Join(configD, "20-override.yaml"), "sprite_ticks: 4\n")
	writeFile(t, filepath.Join(configD, "notes.txt"), "scene: nope\n")

	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "include:\n  - config.d\nshape_alpha: 0.75\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.Scene != "sprite" {
		t.Fatalf("expected scene sprite from include, got %q", res.Config.Scene)
	}
	if res.Config.SpriteTicks != 4 {
		t.Fatalf("expected later include to win with 4, got %d", res.Config.SpriteTicks)
	}
	if res.Config.ShapeAlpha != 0.75 {
		t.Fatalf("expected shape_alpha 0.75, got %v", res.Config.ShapeAlpha)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 loaded files, got %v", res.Files)
	}
	if filepath.Base(res.Files[2]) != "config.yaml" {
		t.Fatalf("expected main file loaded last, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
	if !strings.Contains(err.Error(), path+":") {
		t.Fatalf("expected error to include file:line:col prefix, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, filepath.Join(dir, "b.yaml"), "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	tests := []struct {
		name string
		data string
		path string
		line int
	}{
		{name: "interval", data: "scene: cube\nframe_interval: 0s\n", path: "frame_interval", line: 2},
		{name: "scene", data: "scene: teapot\n", path: "scene", line: 1},
		{name: "alpha", data: "\n\nshape_alpha: 2\n", path: "shape_alpha", line: 3},
		{name: "color", data: "clear_color: [0, 0, 1.5, 1]\n", path: "clear_color", line: 1},
		{name: "gl version", data: "gl_version: \"2.1\"\n", path: "gl_version", line: 1},
		{name: "level", data: "log_level: loud\n", path: "log_level", line: 1},
		{name: "ticks", data: "sprite_ticks: 0\n", path: "sprite_ticks", line: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			writeFile(t, path, tc.data)

			_, err := LoadFromPath(path)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tc.path {
				t.Fatalf("expected path %q, got %q", tc.path, verr.Path)
			}
			if verr.Source.Kind != SourceFile || verr.Source.Line != tc.line {
				t.Fatalf("expected file source at line %d, got %#v", tc.line, verr.Source)
			}
			if !strings.HasPrefix(err.Error(), verr.Source.File+":") {
				t.Fatalf("expected file:line prefix, got %v", err)
			}
		})
	}
}

func TestLoadFromPath_ShaderPathsRelativeToFile(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "conf")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(sub, "config.yaml")
	writeFile(t, path, "shaders:\n  vertex: glsl/v.glsl\n  fragment: /abs/f.glsl\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	canon, _ := canonicalPath(path)
	want := filepath.Join(filepath.Dir(canon), "glsl", "v.glsl")
	if res.Config.Shaders.Vertex != want {
		t.Fatalf("expected vertex %q, got %q", want, res.Config.Shaders.Vertex)
	}
	if res.Config.Shaders.Fragment != "/abs/f.glsl" {
		t.Fatalf("expected absolute fragment path kept, got %q", res.Config.Shaders.Fragment)
	}
}

func TestExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "scene: cube\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "scene")
	if err != nil {
		t.Fatalf("explain scene: %v", err)
	}
	if val != "cube" || src.Kind != SourceFile || src.Line != 1 {
		t.Fatalf("expected cube from file line 1, got %#v %#v", val, src)
	}

	val, src, err = Explain(res, "frame_interval")
	if err != nil {
		t.Fatalf("explain frame_interval: %v", err)
	}
	if val != DefaultFrameInterval || src.Kind != SourceDefault {
		t.Fatalf("expected default frame interval, got %#v %#v", val, src)
	}

	if _, _, err := Explain(res, "shaders.geometry"); err == nil {
		t.Fatalf("expected error for unknown shader stage")
	}
	if _, _, err := Explain(nil, "scene"); err == nil {
		t.Fatalf("expected error without loaded config")
	}
}

func TestParseGLVersion(t *testing.T) {
	tests := []struct {
		in           string
		major, minor int
		wantErr      bool
	}{
		{in: "3.0", major: 3, minor: 0},
		{in: " 4.6 ", major: 4, minor: 6},
		{in: "3", wantErr: true},
		{in: "x.1", wantErr: true},
		{in: "3.-1", wantErr: true},
	}
	for _, tc := range tests {
		major, minor, err := ParseGLVersion(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("expected %q to parse, got %v", tc.in, err)
		}
		if major != tc.major || minor != tc.minor {
			t.Fatalf("expected %d.%d, got %d.%d", tc.major, tc.minor, major, minor)
		}
	}
}

func TestMarshal_RoundTripsThroughLoader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Scene = "sprite"
	cfg.FrameInterval = 20 * time.Millisecond
	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, string(data))
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("expected marshalled config to load, got %v\n%s", err, data)
	}
	if res.Config.Scene != "sprite" || res.Config.FrameInterval != 20*time.Millisecond {
		t.Fatalf("expected sprite at 20ms, got %q at %s", res.Config.Scene, res.Config.FrameInterval)
	}
}

func TestWatcher_PublishKeepsLatest(t *testing.T) {
	w := &Watcher{updates: make(chan *Config, 1)}
	first := DefaultConfig()
	second := DefaultConfig()
	second.Scene = "cube"

	w.publish(first)
	w.publish(second)

	select {
	case got := <-w.Updates():
		if got != second {
			t.Fatalf("expected latest config, got %#v", got)
		}
	default:
		t.Fatalf("expected a pending update")
	}
	select {
	case got := <-w.Updates():
		t.Fatalf("expected one pending update, got another %#v", got)
	default:
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "shape_alpha: 1\n")

	w, err := NewWatcher(path, 20*time.Millisecond, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Stop()

	// An invalid edit is rejected and never published.
	writeFile(t, path, "shape_alpha: 5\n")
	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, "shape_alpha: 0.25\n")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-w.Updates():
			if cfg.ShapeAlpha == 0.25 {
				return
			}
			if cfg.ShapeAlpha == 5 {
				t.Fatalf("expected invalid config to be rejected")
			}
		case <-deadline:
			t.Fatalf("expected a reload within 5s")
		}
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	w, err := NewWatcher(path, 0, nil)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	w.Stop()
	w.Stop()
}
