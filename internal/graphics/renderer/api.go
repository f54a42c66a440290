package renderer

import (
	"ftb-render/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderContext provides shared per-frame context for all renderables
type RenderContext struct {
	Renderer *Renderer
	Camera   *graphics.Camera
	Frame    uint64
	DT       float64
	View     mgl32.Mat4
	Proj     mgl32.Mat4
}

// Renderable interface defines the lifecycle for scene content drawn through
// the renderer each frame
type Renderable interface {
	Init(r *Renderer) error
	Render(ctx RenderContext)
	Dispose()
}
