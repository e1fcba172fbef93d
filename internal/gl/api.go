// Package gl wraps the handful of OpenGL 3.0 calls backdrop draws with.
package gl

// GL enums.
const (
	NoError          = 0
	InvalidEnum      = 0x0500
	InvalidValue     = 0x0501
	InvalidOperation = 0x0502
	OutOfMemory      = 0x0505
	InvalidFramebuf  = 0x0506

	ColorBufferBit = 0x00004000
	DepthBufferBit = 0x00000100

	Triangles = 0x0004
	Float     = 0x1406

	ArrayBuffer = 0x8892
	StaticDraw  = 0x88E4
	DynamicDraw = 0x88E8

	FragmentShader = 0x8B30
	VertexShader   = 0x8B31
	CompileStatus  = 0x8B81
	LinkStatus     = 0x8B82
	InfoLogLength  = 0x8B84

	DepthTest = 0x0B71
	Blend     = 0x0BE2

	SrcAlpha         = 0x0302
	OneMinusSrcAlpha = 0x0303
)

// API is the GL surface used by the renderer. Funcs implements it against
// the driver; tests substitute a recorder.
type API interface {
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	Viewport(x, y, width, height int32)
	Enable(capability uint32)
	BlendFunc(src, dst uint32)
	GetError() uint32

	CreateShader(stage uint32) uint32
	ShaderSource(shader uint32, src string)
	CompileShader(shader uint32)
	ShaderParam(shader, pname uint32) int32
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	BindAttribLocation(program, index uint32, name string)
	LinkProgram(program uint32)
	ProgramParam(program, pname uint32) int32
	ProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	UniformLocation(program uint32, name string) int32
	UniformMatrix4(location int32, m *[16]float32)
	Uniform1(location int32, v float32)

	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)
	GenBuffer() uint32
	BindBuffer(target, buf uint32)
	BufferData(target uint32, data []float32, usage uint32)
	DeleteBuffer(buf uint32)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size, stride int32, offset uintptr)
	DrawArrays(mode uint32, first, count int32)
}
