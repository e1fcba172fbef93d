package gl

// FloatsPerVertex is the interleaved layout: position xyz then color rgb.
const FloatsPerVertex = 6

const vertexStride = FloatsPerVertex * 4

// Mesh is a vertex array and its backing buffer.
type Mesh struct {
	api   API
	vao   uint32
	vbo   uint32
	count int32
}

// NewMesh allocates a vertex array with position and color attributes
// pointing into a fresh buffer. The context must be current.
func NewMesh(api API) *Mesh {
	m := &Mesh{api: api}
	m.vao = api.GenVertexArray()
	api.BindVertexArray(m.vao)
	m.vbo = api.GenBuffer()
	api.BindBuffer(ArrayBuffer, m.vbo)
	api.EnableVertexAttribArray(AttribPosition)
	api.VertexAttribPointer(AttribPosition, 3, vertexStride, 0)
	api.EnableVertexAttribArray(AttribColor)
	api.VertexAttribPointer(AttribColor, 3, vertexStride, 3*4)
	api.BindVertexArray(0)
	return m
}

// Upload replaces the buffer contents with vertices.
func (m *Mesh) Upload(vertices []float32) {
	m.api.BindVertexArray(m.vao)
	m.api.BindBuffer(ArrayBuffer, m.vbo)
	m.api.BufferData(ArrayBuffer, vertices, DynamicDraw)
	m.count = int32(len(vertices) / FloatsPerVertex)
}

// Count is the number of vertices drawn.
func (m *Mesh) Count() int32 { return m.count }

func (m *Mesh) Draw() {
	if m.count == 0 {
		return
	}
	m.api.BindVertexArray(m.vao)
	m.api.DrawArrays(Triangles, 0, m.count)
}

// Delete releases the buffer then the vertex array.
func (m *Mesh) Delete() {
	m.api.DeleteBuffer(m.vbo)
	m.api.DeleteVertexArray(m.vao)
}
