package gl

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
)

// ProcLoader resolves a GL entry point for the current context, returning 0
// when the driver does not provide it.
type ProcLoader func(name string) uintptr

// Funcs holds GL entry points resolved through a ProcLoader.
type Funcs struct {
	glClearColor              func(r, g, b, a float32)
	glClear                   func(mask uint32)
	glViewport                func(x, y, width, height int32)
	glEnable                  func(capability uint32)
	glBlendFunc               func(src, dst uint32)
	glGetError                func() uint32
	glCreateShader            func(stage uint32) uint32
	glShaderSource            func(shader uint32, count int32, str **byte, length *int32)
	glCompileShader           func(shader uint32)
	glGetShaderiv             func(shader, pname uint32, params *int32)
	glGetShaderInfoLog        func(shader uint32, bufSize int32, length *int32, log *byte)
	glDeleteShader            func(shader uint32)
	glCreateProgram           func() uint32
	glAttachShader            func(program, shader uint32)
	glBindAttribLocation      func(program, index uint32, name string)
	glLinkProgram             func(program uint32)
	glGetProgramiv            func(program, pname uint32, params *int32)
	glGetProgramInfoLog       func(program uint32, bufSize int32, length *int32, log *byte)
	glUseProgram              func(program uint32)
	glDeleteProgram           func(program uint32)
	glGetUniformLocation      func(program uint32, name string) int32
	glUniformMatrix4fv        func(location, count int32, transpose bool, value *float32)
	glUniform1f               func(location int32, v float32)
	glGenVertexArrays         func(n int32, arrays *uint32)
	glBindVertexArray         func(vao uint32)
	glDeleteVertexArrays      func(n int32, arrays *uint32)
	glGenBuffers              func(n int32, buffers *uint32)
	glBindBuffer              func(target, buf uint32)
	glBufferData              func(target uint32, size int, data unsafe.Pointer, usage uint32)
	glDeleteBuffers           func(n int32, buffers *uint32)
	glEnableVertexAttribArray func(index uint32)
	glVertexAttribPointer     func(index uint32, size int32, typ uint32, normalized bool, stride int32, offset uintptr)
	glDrawArrays              func(mode uint32, first, count int32)
}

// Load resolves every entry point. A missing symbol means the context does
// not offer GL 3.0 and is reported by name.
func Load(proc ProcLoader) (*Funcs, error) {
	f := &Funcs{}
	entries := []struct {
		fn   any
		name string
	}{
		{&f.glClearColor, "glClearColor"},
		{&f.glClear, "glClear"},
		{&f.glViewport, "glViewport"},
		{&f.glEnable, "glEnable"},
		{&f.glBlendFunc, "glBlendFunc"},
		{&f.glGetError, "glGetError"},
		{&f.glCreateShader, "glCreateShader"},
		{&f.glShaderSource, "glShaderSource"},
		{&f.glCompileShader, "glCompileShader"},
		{&f.glGetShaderiv, "glGetShaderiv"},
		{&f.glGetShaderInfoLog, "glGetShaderInfoLog"},
		{&f.glDeleteShader, "glDeleteShader"},
		{&f.glCreateProgram, "glCreateProgram"},
		{&f.glAttachShader, "glAttachShader"},
		{&f.glBindAttribLocation, "glBindAttribLocation"},
		{&f.glLinkProgram, "glLinkProgram"},
		{&f.glGetProgramiv, "glGetProgramiv"},
		{&f.glGetProgramInfoLog, "glGetProgramInfoLog"},
		{&f.glUseProgram, "glUseProgram"},
		{&f.glDeleteProgram, "glDeleteProgram"},
		{&f.glGetUniformLocation, "glGetUniformLocation"},
		{&f.glUniformMatrix4fv, "glUniformMatrix4fv"},
		{&f.glUniform1f, "glUniform1f"},
		{&f.glGenVertexArrays, "glGenVertexArrays"},
		{&f.glBindVertexArray, "glBindVertexArray"},
		{&f.glDeleteVertexArrays, "glDeleteVertexArrays"},
		{&f.glGenBuffers, "glGenBuffers"},
		{&f.glBindBuffer, "glBindBuffer"},
		{&f.glBufferData, "glBufferData"},
		{&f.glDeleteBuffers, "glDeleteBuffers"},
		{&f.glEnableVertexAttribArray, "glEnableVertexAttribArray"},
		{&f.glVertexAttribPointer, "glVertexAttribPointer"},
		{&f.glDrawArrays, "glDrawArrays"},
	}
	for _, e := range entries {
		ptr := proc(e.name)
		if ptr == 0 {
			return nil, fmt.Errorf("gl: %s not available", e.name)
		}
		purego.RegisterFunc(e.fn, ptr)
	}
	return f, nil
}

func (f *Funcs) ClearColor(r, g, b, a float32) { f.glClearColor(r, g, b, a) }
func (f *Funcs) Clear(mask uint32) { f.glClear(mask) }
func (f *Funcs) Viewport(x, y, width, height int32) { f.glViewport(x, y, width, height) }
func (f *Funcs) Enable(capability uint32) { f.glEnable(capability) }
func (f *Funcs) BlendFunc(src, dst uint32) { f.glBlendFunc(src, dst) }
func (f *Funcs) GetError() uint32 { return f.glGetError() }
func (f *Funcs) CreateShader(stage uint32) uint32 { return f.glCreateShader(stage) }
func (f *Funcs) CompileShader(shader uint32) { f.glCompileShader(shader) }
func (f *Funcs) DeleteShader(shader uint32) { f.glDeleteShader(shader) }
func (f *Funcs) CreateProgram() uint32 { return f.glCreateProgram() }
func (f *Funcs) AttachShader(program, shader uint32) {
	f.glAttachShader(program, shader)
}
func (f *Funcs) LinkProgram(program uint32) { f.glLinkProgram(program) }
func (f *Funcs) UseProgram(program uint32) { f.glUseProgram(program) }
func (f *Funcs) DeleteProgram(program uint32) { f.glDeleteProgram(program) }
func (f *Funcs) BindVertexArray(vao uint32) { f.glBindVertexArray(vao) }
func (f *Funcs) BindBuffer(target, buf uint32) {
	f.glBindBuffer(target, buf)
}
func (f *Funcs) EnableVertexAttribArray(index uint32) { f.glEnableVertexAttribArray(index) }
func (f *Funcs) DrawArrays(mode uint32, first, count int32) {
	f.glDrawArrays(mode, first, count)
}
func (f *Funcs) Uniform1(location int32, v float32) { f.glUniform1f(location, v) }

func (f *Funcs) BindAttribLocation(program, index uint32, name string) {
	f.glBindAttribLocation(program, index, name)
}

func (f *Funcs) UniformLocation(program uint32, name string) int32 {
	return f.glGetUniformLocation(program, name)
}

func (f *Funcs) UniformMatrix4(location int32, m *[16]float32) {
	f.glUniformMatrix4fv(location, 1, false, &m[0])
}

// ShaderSource hands the driver an array holding one pointer to src. The
// source bytes are pinned for the call since the array itself lives in Go
// memory.
func (f *Funcs) ShaderSource(shader uint32, src string) {
	buf := append([]byte(src), 0)
	var pinner runtime.Pinner
	defer pinner.Unpin()
	pinner.Pin(&buf[0])
	ptr := &buf[0]
	f.glShaderSource(shader, 1, &ptr, nil)
}

func (f *Funcs) ShaderParam(shader, pname uint32) int32 {
	var v int32
	f.glGetShaderiv(shader, pname, &v)
	return v
}

func (f *Funcs) ShaderInfoLog(shader uint32) string {
	n := f.ShaderParam(shader, InfoLogLength)
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	var written int32
	f.glGetShaderInfoLog(shader, n, &written, &buf[0])
	return string(buf[:written])
}

func (f *Funcs) ProgramParam(program, pname uint32) int32 {
	var v int32
	f.glGetProgramiv(program, pname, &v)
	return v
}

func (f *Funcs) ProgramInfoLog(program uint32) string {
	n := f.ProgramParam(program, InfoLogLength)
	if n <= 0 {
		return ""
	}
	buf := make([]byte, n)
	var written int32
	f.glGetProgramInfoLog(program, n, &written, &buf[0])
	return string(buf[:written])
}

func (f *Funcs) GenVertexArray() uint32 {
	var id uint32
	f.glGenVertexArrays(1, &id)
	return id
}

func (f *Funcs) DeleteVertexArray(vao uint32) { f.glDeleteVertexArrays(1, &vao) }

func (f *Funcs) GenBuffer() uint32 {
	var id uint32
	f.glGenBuffers(1, &id)
	return id
}

func (f *Funcs) DeleteBuffer(buf uint32) { f.glDeleteBuffers(1, &buf) }

func (f *Funcs) BufferData(target uint32, data []float32, usage uint32) {
	if len(data) == 0 {
		f.glBufferData(target, 0, nil, usage)
		return
	}
	f.glBufferData(target, len(data)*4, unsafe.Pointer(&data[0]), usage)
	runtime.KeepAlive(data)
}

func (f *Funcs) VertexAttribPointer(index uint32, size, stride int32, offset uintptr) {
	f.glVertexAttribPointer(index, size, Float, false, stride, offset)
}
