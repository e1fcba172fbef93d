package gl

import (
	_ "embed"
	"fmt"
	"os"
)

//go:embed shaders/vertex.glsl
var DefaultVertexSource string

//go:embed shaders/fragment.glsl
var DefaultFragmentSource string

// Vertex attribute slots bound before linking.
const (
	AttribPosition = 0
	AttribColor    = 1
)

// ShaderError carries the driver's compile or link log unmodified.
type ShaderError struct {
	Stage string
	Log   string
}

func (e *ShaderError) Error() string {
	return fmt.Sprintf("%s shader failed:\n%s", e.Stage, e.Log)
}

func stageName(stage uint32) string {
	switch stage {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	default:
		return fmt.Sprintf("stage 0x%x", stage)
	}
}

// Shader is a compiled shader object.
type Shader struct {
	api   API
	ID    uint32
	Stage uint32
}

// CompileShader compiles src for stage. On failure the shader object is
// deleted and the info log is returned in a *ShaderError.
func CompileShader(api API, stage uint32, src string) (*Shader, error) {
	id := api.CreateShader(stage)
	if id == 0 {
		return nil, fmt.Errorf("gl: create %s shader failed", stageName(stage))
	}
	api.ShaderSource(id, src)
	api.CompileShader(id)
	if api.ShaderParam(id, CompileStatus) == 0 {
		log := api.ShaderInfoLog(id)
		api.DeleteShader(id)
		return nil, &ShaderError{Stage: stageName(stage), Log: log}
	}
	return &Shader{api: api, ID: id, Stage: stage}, nil
}

func (s *Shader) Delete() {
	s.api.DeleteShader(s.ID)
}

// Program is a linked shader program with the uniforms the renderer sets.
type Program struct {
	api       API
	ID        uint32
	transform int32
	alpha     int32
}

// LinkProgram links vert and frag. Attribute slots are bound to
// AttribPosition and AttribColor before linking.
func LinkProgram(api API, vert, frag *Shader) (*Program, error) {
	id := api.CreateProgram()
	if id == 0 {
		return nil, fmt.Errorf("gl: create program failed")
	}
	api.AttachShader(id, vert.ID)
	api.AttachShader(id, frag.ID)
	api.BindAttribLocation(id, AttribPosition, "position")
	api.BindAttribLocation(id, AttribColor, "color")
	api.LinkProgram(id)
	if api.ProgramParam(id, LinkStatus) == 0 {
		log := api.ProgramInfoLog(id)
		api.DeleteProgram(id)
		return nil, &ShaderError{Stage: "link", Log: log}
	}
	return &Program{
		api:       api,
		ID:        id,
		transform: api.UniformLocation(id, "transform"),
		alpha:     api.UniformLocation(id, "alpha"),
	}, nil
}

func (p *Program) Use() {
	p.api.UseProgram(p.ID)
}

// SetTransform uploads m, column-major. Missing uniforms are ignored.
func (p *Program) SetTransform(m *[16]float32) {
	if p.transform >= 0 {
		p.api.UniformMatrix4(p.transform, m)
	}
}

func (p *Program) SetAlpha(a float32) {
	if p.alpha >= 0 {
		p.api.Uniform1(p.alpha, a)
	}
}

func (p *Program) Delete() {
	p.api.DeleteProgram(p.ID)
}

// Sources holds shader source text.
type Sources struct {
	Vertex   string
	Fragment string
}

// LoadSources returns the embedded shaders, replacing either stage with the
// contents of the corresponding path when it is non-empty.
func LoadSources(vertexPath, fragmentPath string) (Sources, error) {
	src := Sources{Vertex: DefaultVertexSource, Fragment: DefaultFragmentSource}
	if vertexPath != "" {
		b, err := os.ReadFile(vertexPath)
		if err != nil {
			return Sources{}, fmt.Errorf("read vertex shader: %w", err)
		}
		src.Vertex = string(b)
	}
	if fragmentPath != "" {
		b, err := os.ReadFile(fragmentPath)
		if err != nil {
			return Sources{}, fmt.Errorf("read fragment shader: %w", err)
		}
		src.Fragment = string(b)
	}
	return src, nil
}

// BuildProgram compiles both stages and links them. Shader objects are
// deleted once the program is linked or on any failure.
func BuildProgram(api API, src Sources) (*Program, error) {
	vert, err := CompileShader(api, VertexShader, src.Vertex)
	if err != nil {
		return nil, err
	}
	defer vert.Delete()

	frag, err := CompileShader(api, FragmentShader, src.Fragment)
	if err != nil {
		return nil, err
	}
	defer frag.Delete()

	return LinkProgram(api, vert, frag)
}
