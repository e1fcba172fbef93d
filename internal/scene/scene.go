// Package scene holds the animated shapes backdrop draws.
package scene

import (
	"fmt"
	"sort"
)

// Scene is a drawable that advances one step per frame.
type Scene interface {
	Name() string
	Update()
	// Geometry returns interleaved position/color vertices and whether
	// they changed since the previous call.
	Geometry() ([]float32, bool)
	Transform() [16]float32
}

var registry = map[string]func() Scene{
	"triangle": func() Scene { return NewTriangle() },
	"cube":     func() Scene { return NewCube() },
	"sprite":   func() Scene { return NewSprite(DefaultSpriteFrames(), DefaultSpriteTicks) },
}

// Default is the scene used when none is configured.
const Default = "triangle"

// New builds the named scene.
func New(name string) (Scene, error) {
	if name == "" {
		name = Default
	}
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %v)", name, Names())
	}
	return ctor(), nil
}

// Names lists the available scenes in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Vertex is a position and an RGB color.
type Vertex struct {
	X, Y, Z float32
	R, G, B float32
}

func flatten(vs []Vertex) []float32 {
	out := make([]float32, 0, len(vs)*6)
	for _, v := range vs {
		out = append(out, v.X, v.Y, v.Z, v.R, v.G, v.B)
	}
	return out
}

// Triangle is a static flat triangle.
type Triangle struct {
	vertices []float32
	sent     bool
}

func NewTriangle() *Triangle {
	return &Triangle{vertices: flatten([]Vertex{
		{X: -0.5, Y: 0, R: 1, G: 0.4, B: 0.2},
		{X: 0, Y: 0.5, R: 0.2, G: 1, B: 0.4},
		{X: 0.5, Y: 0, R: 0.4, G: 0.2, B: 1},
	})}
}

func (t *Triangle) Name() string { return "triangle" }

func (t *Triangle) Update() {}

func (t *Triangle) Geometry() ([]float32, bool) {
	changed := !t.sent
	t.sent = true
	return t.vertices, changed
}

func (t *Triangle) Transform() [16]float32 { return Identity() }
