package scene

// DefaultSpriteTicks is how many frames each sprite frame is held.
const DefaultSpriteTicks = 8

// Sprite loops through a fixed list of frames, holding each for a number
// of ticks.
type Sprite struct {
	frames  [][]float32
	hold    int
	current int
	ticks   int
	dirty   bool
}

// NewSprite builds a sprite over frames. hold below 1 is treated as 1.
func NewSprite(frames [][]Vertex, hold int) *Sprite {
	if hold < 1 {
		hold = 1
	}
	s := &Sprite{hold: hold, dirty: true}
	for _, f := range frames {
		s.frames = append(s.frames, flatten(f))
	}
	return s
}

func (s *Sprite) Name() string { return "sprite" }

func (s *Sprite) Update() {
	if len(s.frames) < 2 {
		return
	}
	s.ticks++
	if s.ticks < s.hold {
		return
	}
	s.ticks = 0
	s.current = (s.current + 1) % len(s.frames)
	s.dirty = true
}

func (s *Sprite) Geometry() ([]float32, bool) {
	changed := s.dirty
	s.dirty = false
	if len(s.frames) == 0 {
		return nil, changed
	}
	return s.frames[s.current], changed
}

func (s *Sprite) Transform() [16]float32 { return Identity() }

// Frame is the index of the frame currently shown.
func (s *Sprite) Frame() int { return s.current }

func quad(x, y, size, r, g, b float32) []Vertex {
	x0, y0, x1, y1 := x-size, y-size, x+size, y+size
	return []Vertex{
		{X: x0, Y: y0, R: r, G: g, B: b},
		{X: x1, Y: y0, R: r, G: g, B: b},
		{X: x1, Y: y1, R: r, G: g, B: b},
		{X: x1, Y: y1, R: r, G: g, B: b},
		{X: x0, Y: y1, R: r, G: g, B: b},
		{X: x0, Y: y0, R: r, G: g, B: b},
	}
}

// DefaultSpriteFrames is a square walking around the corners of the
// window, changing color at each stop.
func DefaultSpriteFrames() [][]Vertex {
	return [][]Vertex{
		quad(-0.5, -0.5, 0.2, 1, 0.3, 0.3),
		quad(0.5, -0.5, 0.2, 0.3, 1, 0.3),
		quad(0.5, 0.5, 0.2, 0.3, 0.3, 1),
		quad(-0.5, 0.5, 0.2, 1, 1, 0.3),
	}
}
