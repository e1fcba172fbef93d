package gl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"unsafe"
)

func TestCompileShader_FailureKeepsLogVerbatim(t *testing.T) {
	api := newRecorder()
	driverLog := "0:3(1): error: syntax error, unexpected '}'\n\x00"
	api.compileFail[FragmentShader] = driverLog

	_, err := CompileShader(api, FragmentShader, "void main() {")
	var shaderErr *ShaderError
	if !errors.As(err, &shaderErr) {
		t.Fatalf("expected ShaderError, got %v", err)
	}
	if shaderErr.Stage != "fragment" {
		t.Fatalf("expected fragment stage, got %q", shaderErr.Stage)
	}
	if shaderErr.Log != driverLog {
		t.Fatalf("expected log %q, got %q", driverLog, shaderErr.Log)
	}
	if !slices.Contains(api.calls, "DeleteShader(1)") {
		t.Fatalf("expected failed shader deleted, calls=%v", api.calls)
	}
}

func TestBuildProgram_Success(t *testing.T) {
	api := newRecorder()

	prog, err := BuildProgram(api, Sources{Vertex: DefaultVertexSource, Fragment: DefaultFragmentSource})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prog.ID != 3 || prog.transform != 3 || prog.alpha != 4 {
		t.Fatalf("unexpected program %+v", prog)
	}

	bindIdx := slices.Index(api.calls, "BindAttribLocation(3,0,position)")
	linkIdx := slices.Index(api.calls, "LinkProgram(3)")
	if bindIdx < 0 || linkIdx < 0 || bindIdx > linkIdx {
		t.Fatalf("expected attributes bound before link, calls=%v", api.calls)
	}
	// Shader objects are released once linked, fragment first.
	n := len(api.calls)
	if api.calls[n-2] != "DeleteShader(2)" || api.calls[n-1] != "DeleteShader(1)" {
		t.Fatalf("expected shaders deleted after link, calls=%v", api.calls)
	}
}

func TestBuildProgram_LinkFailure(t *testing.T) {
	api := newRecorder()
	api.linkFail = "error: vertex output v_color not read by fragment shader"

	_, err := BuildProgram(api, Sources{Vertex: "v", Fragment: "f"})
	var shaderErr *ShaderError
	if !errors.As(err, &shaderErr) || shaderErr.Stage != "link" || shaderErr.Log != api.linkFail {
		t.Fatalf("expected link ShaderError with driver log, got %v", err)
	}
	if !slices.Contains(api.calls, "DeleteProgram(3)") {
		t.Fatalf("expected failed program deleted")
	}
	if !slices.Contains(api.calls, "DeleteShader(1)") || !slices.Contains(api.calls, "DeleteShader(2)") {
		t.Fatalf("expected both shaders deleted")
	}
}

func TestBuildProgram_VertexFailureSkipsFragment(t *testing.T) {
	api := newRecorder()
	api.compileFail[VertexShader] = "bad vertex"

	if _, err := BuildProgram(api, Sources{Vertex: "v", Fragment: "f"}); err == nil {
		t.Fatalf("expected error")
	}
	for _, c := range api.calls {
		if strings.HasPrefix(c, "CreateShader(0x8b30)") {
			t.Fatalf("expected fragment stage not compiled")
		}
	}
}

func TestProgram_MissingUniformsIgnored(t *testing.T) {
	api := newRecorder()
	api.uniforms = map[string]int32{}

	prog, err := BuildProgram(api, Sources{Vertex: "v", Fragment: "f"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	api.reset()
	var m [16]float32
	prog.SetTransform(&m)
	prog.SetAlpha(0.5)
	if len(api.calls) != 0 {
		t.Fatalf("expected no uniform calls, got %v", api.calls)
	}
}

func TestLoadSources(t *testing.T) {
	dir := t.TempDir()
	frag := filepath.Join(dir, "frag.glsl")
	if err := os.WriteFile(frag, []byte("custom"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	src, err := LoadSources("", frag)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Vertex != DefaultVertexSource {
		t.Fatalf("expected embedded vertex shader")
	}
	if src.Fragment != "custom" {
		t.Fatalf("expected override, got %q", src.Fragment)
	}

	if _, err := LoadSources(filepath.Join(dir, "missing.glsl"), ""); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestDefaultSourcesDeclareGLSL130(t *testing.T) {
	for name, src := range map[string]string{"vertex": DefaultVertexSource, "fragment": DefaultFragmentSource} {
		if !strings.HasPrefix(src, "#version 130") {
			t.Fatalf("expected %s shader to target GLSL 1.30", name)
		}
	}
}

func TestFuncsShaderSource_PassesTerminatedSource(t *testing.T) {
	var got string
	var count int32
	f := &Funcs{
		glShaderSource: func(_ uint32, n int32, str **byte, _ *int32) {
			count = n
			p := unsafe.Pointer(*str)
			var b []byte
			for i := 0; ; i++ {
				c := *(*byte)(unsafe.Add(p, i))
				if c == 0 {
					break
				}
				b = append(b, c)
			}
			got = string(b)
		},
	}
	f.ShaderSource(7, "#version 130\nvoid main() {}")
	if count != 1 {
		t.Fatalf("expected 1 source string, got %d", count)
	}
	if got != "#version 130\nvoid main() {}" {
		t.Fatalf("expected source passed through, got %q", got)
	}
}
