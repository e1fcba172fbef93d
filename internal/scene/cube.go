package scene

// Per-tick motion of the cube.
const (
	CubeTranslateStep float32 = 0.005
	CubeRotateStep    float32 = 0.02
	cubeHalfSide      float32 = 0.25
	cubeStartAngle    float32 = 0.8
)

var cubeCorners = [8][3]float32{
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
}

// Two triangles per face: front, right, left, back, top, bottom.
var cubeIndices = [36]int{
	0, 1, 2, 2, 3, 0,
	1, 5, 6, 6, 2, 1,
	4, 0, 3, 3, 7, 4,
	5, 4, 7, 7, 6, 5,
	3, 2, 6, 6, 7, 3,
	4, 5, 1, 1, 0, 4,
}

// Cube spins about all three axes while bouncing between the left and
// right edges of the window.
type Cube struct {
	vertices []float32
	sent     bool

	offset   float32
	velocity float32
	angle    float32
}

func NewCube() *Cube {
	vs := make([]Vertex, 0, len(cubeIndices))
	for _, i := range cubeIndices {
		c := cubeCorners[i]
		v := Vertex{X: c[0] * cubeHalfSide, Y: c[1] * cubeHalfSide, Z: c[2] * cubeHalfSide}
		// Front corners red, back corners green.
		if c[2] > 0 {
			v.R = 1
		} else {
			v.G = 1
		}
		vs = append(vs, v)
	}
	return &Cube{
		vertices: flatten(vs),
		velocity: CubeTranslateStep,
		angle:    cubeStartAngle,
	}
}

func (c *Cube) Name() string { return "cube" }

// Update moves the cube one step and reverses direction when its edge
// reaches the clip-space boundary.
func (c *Cube) Update() {
	c.offset += c.velocity
	switch {
	case c.offset+cubeHalfSide >= 1:
		c.velocity = -CubeTranslateStep
	case c.offset-cubeHalfSide <= -1:
		c.velocity = CubeTranslateStep
	}
	c.angle += CubeRotateStep
}

func (c *Cube) Geometry() ([]float32, bool) {
	changed := !c.sent
	c.sent = true
	return c.vertices, changed
}

func (c *Cube) Transform() [16]float32 {
	return Translation(c.offset, 0, 0).Mul(Euler(c.angle, c.angle, c.angle))
}

// Offset is the current horizontal translation.
func (c *Cube) Offset() float32 { return c.offset }
