package gpu

import (
	"fmt"

	"ftb-render/internal/graphics/atlas"

	"github.com/go-gl/mathgl/mgl32"
)

// Submission is one recorded draw call.
type Submission struct {
	Surface   SurfaceID // 0 for flat-colour draws
	Transform mgl32.Mat4
	Colored   []ColorVertex
	Textured  []TexturedVertex
}

// VertexCount returns the number of vertices in the submission.
func (s Submission) VertexCount() int {
	if s.Surface == 0 {
		return len(s.Colored)
	}
	return len(s.Textured)
}

// Upload is one recorded surface upload.
type Upload struct {
	Surface SurfaceID
	Rect    atlas.Rect
	Pix     []uint16
}

// Recorder is a headless Device that keeps every call for inspection.
type Recorder struct {
	Submissions []Submission
	Uploads     []Upload
	Surfaces    map[SurfaceID]int // live surfaces and their size
	Clears      int
	ViewportArg [4]int

	transform mgl32.Mat4
	nextID    SurfaceID
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		Surfaces:  make(map[SurfaceID]int),
		transform: mgl32.Ident4(),
	}
}

func (r *Recorder) CreateSurface(size int) (SurfaceID, error) {
	if size <= 0 {
		return 0, fmt.Errorf("gpu: invalid surface size %d", size)
	}
	r.nextID++
	r.Surfaces[r.nextID] = size
	return r.nextID, nil
}

func (r *Recorder) UploadSurface(id SurfaceID, rect atlas.Rect, pix []uint16) {
	r.Uploads = append(r.Uploads, Upload{Surface: id, Rect: rect, Pix: append([]uint16(nil), pix...)})
}

func (r *Recorder) DeleteSurface(id SurfaceID) {
	delete(r.Surfaces, id)
}

func (r *Recorder) SetTransform(m mgl32.Mat4) {
	r.transform = m
}

func (r *Recorder) DrawColored(verts []ColorVertex) {
	r.Submissions = append(r.Submissions, Submission{
		Transform: r.transform,
		Colored:   append([]ColorVertex(nil), verts...),
	})
}

func (r *Recorder) DrawTextured(id SurfaceID, verts []TexturedVertex) {
	r.Submissions = append(r.Submissions, Submission{
		Surface:   id,
		Transform: r.transform,
		Textured:  append([]TexturedVertex(nil), verts...),
	})
}

func (r *Recorder) Clear() {
	r.Clears++
}

func (r *Recorder) Viewport(x, y, w, h int) {
	r.ViewportArg = [4]int{x, y, w, h}
}

// Reset forgets recorded draws and uploads but keeps live surfaces.
func (r *Recorder) Reset() {
	r.Submissions = r.Submissions[:0]
	r.Uploads = r.Uploads[:0]
	r.Clears = 0
}

// Triangles returns the total triangle count across recorded submissions.
func (r *Recorder) Triangles() int {
	n := 0
	for _, s := range r.Submissions {
		n += s.VertexCount() / 3
	}
	return n
}
