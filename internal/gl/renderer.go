package gl

// Drawable supplies geometry and a model transform each frame.
type Drawable interface {
	// Geometry returns interleaved vertices and whether they changed
	// since the previous call.
	Geometry() (vertices []float32, changed bool)
	// Transform is a column-major 4x4 matrix.
	Transform() [16]float32
}

// Color is a straight RGBA clear color.
type Color struct {
	R, G, B, A float32
}

// Renderer draws one Drawable per frame with a single program and mesh.
// All methods except Resize and SetClearColor require a current context.
type Renderer struct {
	api     API
	program *Program
	mesh    *Mesh

	clear    Color
	alpha    float32
	width    int32
	height   int32
	resized  bool
	uploaded bool
}

// NewRenderer enables depth testing and alpha blending and takes ownership
// of program and mesh.
func NewRenderer(api API, program *Program, mesh *Mesh, clear Color) *Renderer {
	api.Enable(DepthTest)
	api.Enable(Blend)
	api.BlendFunc(SrcAlpha, OneMinusSrcAlpha)
	return &Renderer{api: api, program: program, mesh: mesh, clear: clear, alpha: 1}
}

func (r *Renderer) SetClearColor(c Color) { r.clear = c }

// SetAlpha sets the opacity the fragment shader applies to shapes.
func (r *Renderer) SetAlpha(a float32) { r.alpha = a }

// Resize records a new drawable size; the viewport is updated at the start
// of the next Draw.
func (r *Renderer) Resize(width, height int) {
	if int32(width) == r.width && int32(height) == r.height {
		return
	}
	r.width, r.height = int32(width), int32(height)
	r.resized = true
}

// Draw clears the frame and draws d.
func (r *Renderer) Draw(d Drawable) {
	if r.resized {
		r.api.Viewport(0, 0, r.width, r.height)
		r.resized = false
	}
	r.api.ClearColor(r.clear.R, r.clear.G, r.clear.B, r.clear.A)
	r.api.Clear(ColorBufferBit | DepthBufferBit)

	vertices, changed := d.Geometry()
	if changed || !r.uploaded {
		r.mesh.Upload(vertices)
		r.uploaded = true
	}
	m := d.Transform()
	r.program.Use()
	r.program.SetTransform(&m)
	r.program.SetAlpha(r.alpha)
	r.mesh.Draw()
}

// Delete releases the program and the mesh.
func (r *Renderer) Delete() {
	r.program.Delete()
	r.mesh.Delete()
}
