package gl

import "fmt"

// recorder is an API that logs every call in order.
type recorder struct {
	calls []string

	nextID       uint32
	compileFail  map[uint32]string
	linkFail     string
	uniforms     map[string]int32
	errors       []uint32
	shaderStages map[uint32]uint32
	uploads      [][]float32
}

func newRecorder() *recorder {
	return &recorder{
		nextID:       1,
		compileFail:  map[uint32]string{},
		uniforms:     map[string]int32{"transform": 3, "alpha": 4},
		shaderStages: map[uint32]uint32{},
	}
}

func (r *recorder) log(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *recorder) id() uint32 {
	id := r.nextID
	r.nextID++
	return id
}

func (r *recorder) ClearColor(cr, cg, cb, ca float32) { r.log("ClearColor(%g,%g,%g,%g)", cr, cg, cb, ca) }
func (r *recorder) Clear(mask uint32) { r.log("Clear(0x%x)", mask) }
func (r *recorder) Viewport(x, y, w, h int32) { r.log("Viewport(%d,%d,%d,%d)", x, y, w, h) }
func (r *recorder) Enable(c uint32) { r.log("Enable(0x%x)", c) }
func (r *recorder) BlendFunc(src, dst uint32) { r.log("BlendFunc(0x%x,0x%x)", src, dst) }

func (r *recorder) GetError() uint32 {
	if len(r.errors) == 0 {
		return NoError
	}
	code := r.errors[0]
	r.errors = r.errors[1:]
	return code
}

func (r *recorder) CreateShader(stage uint32) uint32 {
	id := r.id()
	r.shaderStages[id] = stage
	r.log("CreateShader(0x%x)=%d", stage, id)
	return id
}

func (r *recorder) ShaderSource(shader uint32, _ string) { r.log("ShaderSource(%d)", shader) }
func (r *recorder) CompileShader(shader uint32) { r.log("CompileShader(%d)", shader) }

func (r *recorder) ShaderParam(shader, pname uint32) int32 {
	if pname == CompileStatus {
		if _, fail := r.compileFail[r.shaderStages[shader]]; fail {
			return 0
		}
		return 1
	}
	return 0
}

func (r *recorder) ShaderInfoLog(shader uint32) string { return r.compileFail[r.shaderStages[shader]] }
func (r *recorder) DeleteShader(shader uint32) { r.log("DeleteShader(%d)", shader) }

func (r *recorder) CreateProgram() uint32 {
	id := r.id()
	r.log("CreateProgram()=%d", id)
	return id
}

func (r *recorder) AttachShader(program, shader uint32) { r.log("AttachShader(%d,%d)", program, shader) }
func (r *recorder) BindAttribLocation(program, index uint32, name string) {
	r.log("BindAttribLocation(%d,%d,%s)", program, index, name)
}
func (r *recorder) LinkProgram(program uint32) { r.log("LinkProgram(%d)", program) }

func (r *recorder) ProgramParam(_, pname uint32) int32 {
	if pname == LinkStatus && r.linkFail != "" {
		return 0
	}
	return 1
}

func (r *recorder) ProgramInfoLog(uint32) string { return r.linkFail }
func (r *recorder) UseProgram(program uint32) { r.log("UseProgram(%d)", program) }
func (r *recorder) DeleteProgram(program uint32) { r.log("DeleteProgram(%d)", program) }
func (r *recorder) Uniform1(loc int32, v float32) { r.log("Uniform1(%d,%g)", loc, v) }

func (r *recorder) UniformLocation(_ uint32, name string) int32 {
	if loc, ok := r.uniforms[name]; ok {
		return loc
	}
	return -1
}

func (r *recorder) UniformMatrix4(loc int32, m *[16]float32) { r.log("UniformMatrix4(%d,%g)", loc, m[0]) }

func (r *recorder) GenVertexArray() uint32 {
	id := r.id()
	r.log("GenVertexArray()=%d", id)
	return id
}

func (r *recorder) BindVertexArray(vao uint32) { r.log("BindVertexArray(%d)", vao) }
func (r *recorder) DeleteVertexArray(vao uint32) { r.log("DeleteVertexArray(%d)", vao) }

func (r *recorder) GenBuffer() uint32 {
	id := r.id()
	r.log("GenBuffer()=%d", id)
	return id
}

func (r *recorder) BindBuffer(target, buf uint32) { r.log("BindBuffer(0x%x,%d)", target, buf) }

func (r *recorder) BufferData(target uint32, data []float32, usage uint32) {
	r.uploads = append(r.uploads, append([]float32(nil), data...))
	r.log("BufferData(%d)", len(data))
}

func (r *recorder) DeleteBuffer(buf uint32) { r.log("DeleteBuffer(%d)", buf) }
func (r *recorder) EnableVertexAttribArray(index uint32) { r.log("EnableVertexAttribArray(%d)", index) }

func (r *recorder) VertexAttribPointer(index uint32, size, stride int32, offset uintptr) {
	r.log("VertexAttribPointer(%d,%d,%d,%d)", index, size, stride, offset)
}

func (r *recorder) DrawArrays(mode uint32, first, count int32) {
	r.log("DrawArrays(0x%x,%d,%d)", mode, first, count)
}

func (r *recorder) reset() { r.calls = nil }
