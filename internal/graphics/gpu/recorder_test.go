package gpu

import (
	"testing"

	"ftb-render/internal/graphics/atlas"

	"github.com/go-gl/mathgl/mgl32"
)

func TestRecorderKeepsCopies(t *testing.T) {
	r := NewRecorder()
	id, err := r.CreateSurface(64)
	if err != nil {
		t.Fatal(err)
	}
	pix := []uint16{1, 2, 3, 4}
	r.UploadSurface(id, atlas.Rect{W: 2, H: 2}, pix)
	pix[0] = 99
	if r.Uploads[0].Pix[0] != 1 {
		t.Fatalf("upload aliased caller buffer")
	}

	verts := make([]TexturedVertex, 3)
	r.SetTransform(mgl32.Translate3D(1, 2, 3))
	r.DrawTextured(id, verts)
	verts[0].UV = mgl32.Vec2{1, 1}
	s := r.Submissions[0]
	if s.Textured[0].UV != (mgl32.Vec2{}) {
		t.Fatalf("draw aliased caller buffer")
	}
	if s.Transform != mgl32.Translate3D(1, 2, 3) {
		t.Fatalf("transform not recorded")
	}
	if r.Triangles() != 1 {
		t.Fatalf("got %d triangles, want 1", r.Triangles())
	}

	r.DeleteSurface(id)
	if len(r.Surfaces) != 0 {
		t.Fatalf("surface still live after delete")
	}
	if _, err := r.CreateSurface(0); err == nil {
		t.Fatal("expected error for zero size")
	}
}
