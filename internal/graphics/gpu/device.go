// Package gpu defines the rasterizer boundary the renderer draws through.
package gpu

import (
	"ftb-render/internal/graphics/atlas"

	"github.com/go-gl/mathgl/mgl32"
)

// SurfaceID identifies a texture surface owned by a Device. Zero means none.
type SurfaceID uint32

// ColorVertex is the flat-colour vertex layout: position then RGBA.
type ColorVertex struct {
	Pos   mgl32.Vec3
	Color mgl32.Vec4
}

// TexturedVertex is the textured vertex layout: position then UV.
type TexturedVertex struct {
	Pos mgl32.Vec3
	UV  mgl32.Vec2
}

// Floats per vertex in each layout.
const (
	ColorVertexFloats    = 7
	TexturedVertexFloats = 5
)

// Device is a GPU-like rasterizer. Draw calls take triangle lists: every
// three consecutive vertices form one triangle.
type Device interface {
	// CreateSurface allocates a size×size RGBA5551 surface.
	CreateSurface(size int) (SurfaceID, error)
	// UploadSurface replaces the texels of r with pix (r.W*r.H texels, row major).
	UploadSurface(id SurfaceID, r atlas.Rect, pix []uint16)
	DeleteSurface(id SurfaceID)

	// SetTransform sets the clip-space transform applied to subsequent draws.
	SetTransform(m mgl32.Mat4)
	DrawColored(verts []ColorVertex)
	DrawTextured(id SurfaceID, verts []TexturedVertex)

	Clear()
	Viewport(x, y, w, h int)
}
