package gl

import (
	"errors"
	"reflect"
	"slices"
	"testing"
)

type stubDrawable struct {
	vertices []float32
	changed  bool
	calls    int
}

func (s *stubDrawable) Geometry() ([]float32, bool) {
	s.calls++
	changed := s.changed
	s.changed = false
	return s.vertices, changed
}

func (s *stubDrawable) Transform() [16]float32 {
	return [16]float32{0: 1, 5: 1, 10: 1, 15: 1}
}

func TestNewMesh_AttributeLayout(t *testing.T) {
	api := newRecorder()
	NewMesh(api)

	want := []string{
		"GenVertexArray()=1",
		"BindVertexArray(1)",
		"GenBuffer()=2",
		"BindBuffer(0x8892,2)",
		"EnableVertexAttribArray(0)",
		"VertexAttribPointer(0,3,24,0)",
		"EnableVertexAttribArray(1)",
		"VertexAttribPointer(1,3,24,12)",
		"BindVertexArray(0)",
	}
	if !reflect.DeepEqual(api.calls, want) {
		t.Fatalf("expected %v, got %v", want, api.calls)
	}
}

func TestMesh_DeleteOrder(t *testing.T) {
	api := newRecorder()
	m := NewMesh(api)
	api.reset()

	m.Delete()
	want := []string{"DeleteBuffer(2)", "DeleteVertexArray(1)"}
	if !reflect.DeepEqual(api.calls, want) {
		t.Fatalf("expected %v, got %v", want, api.calls)
	}
}

func TestMesh_EmptyDrawIsNoop(t *testing.T) {
	api := newRecorder()
	m := NewMesh(api)
	api.reset()
	m.Draw()
	if len(api.calls) != 0 {
		t.Fatalf("expected no draw for empty mesh, got %v", api.calls)
	}
}

func newTestRenderer(t *testing.T) (*Renderer, *recorder) {
	t.Helper()
	api := newRecorder()
	prog, err := BuildProgram(api, Sources{Vertex: "v", Fragment: "f"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r := NewRenderer(api, prog, NewMesh(api), Color{0.5, 0.5, 1, 0.5})
	api.reset()
	return r, api
}

func TestRenderer_UploadsOnlyWhenChanged(t *testing.T) {
	r, api := newTestRenderer(t)
	tri := make([]float32, 3*FloatsPerVertex)
	d := &stubDrawable{vertices: tri}

	r.Draw(d)
	r.Draw(d)
	if len(api.uploads) != 1 {
		t.Fatalf("expected first frame upload only, got %d", len(api.uploads))
	}

	d.changed = true
	r.Draw(d)
	if len(api.uploads) != 2 {
		t.Fatalf("expected re-upload after change, got %d", len(api.uploads))
	}
	if !slices.Contains(api.calls, "DrawArrays(0x4,0,3)") {
		t.Fatalf("expected 3-vertex draw, calls=%v", api.calls)
	}
}

func TestRenderer_FrameSequence(t *testing.T) {
	r, api := newTestRenderer(t)
	r.Draw(&stubDrawable{vertices: make([]float32, 3*FloatsPerVertex)})

	if api.calls[0] != "ClearColor(0.5,0.5,1,0.5)" || api.calls[1] != "Clear(0x4100)" {
		t.Fatalf("expected clear first, got %v", api.calls[:2])
	}
	if api.calls[len(api.calls)-1] != "DrawArrays(0x4,0,3)" {
		t.Fatalf("expected draw last, got %v", api.calls)
	}
}

func TestRenderer_ViewportAppliedOnNextFrame(t *testing.T) {
	r, api := newTestRenderer(t)
	d := &stubDrawable{vertices: make([]float32, 3*FloatsPerVertex)}

	r.Resize(800, 600)
	if len(api.calls) != 0 {
		t.Fatalf("expected no GL calls outside a frame")
	}
	r.Draw(d)
	if api.calls[0] != "Viewport(0,0,800,600)" {
		t.Fatalf("expected viewport first, got %v", api.calls)
	}

	api.reset()
	r.Resize(800, 600)
	r.Draw(d)
	if slices.Contains(api.calls, "Viewport(0,0,800,600)") {
		t.Fatalf("expected unchanged size not to reset viewport")
	}
}

func TestCheckError(t *testing.T) {
	api := newRecorder()
	if err := CheckError(api); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	api.errors = []uint32{InvalidOperation, InvalidValue}
	err := CheckError(api)
	var glErr *Error
	if !errors.As(err, &glErr) || glErr.Code != InvalidOperation {
		t.Fatalf("expected GL_INVALID_OPERATION, got %v", err)
	}
	if len(api.errors) != 0 {
		t.Fatalf("expected remaining errors drained")
	}
}
