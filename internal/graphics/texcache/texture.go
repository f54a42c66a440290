package texcache

import (
	"ftb-render/internal/graphics/atlas"
	"ftb-render/internal/graphics/gpu"
)

// NoKey marks a texture that is never matched by key lookups.
const NoKey int16 = -1

// UVRect is a normalized sub-rectangle of an atlas surface.
type UVRect struct {
	U0, V0 float32
	U1, V1 float32
}

// Texture is a bitmap placed in the atlas.
type Texture struct {
	Key     int16
	Rect    atlas.Rect // placement in atlas texels, already scaled
	UV      UVRect
	Surface gpu.SurfaceID
	Slot    int // index of the atlas surface, used to group draws

	bitmap           []byte
	bitmapW, bitmapH int
	next             *Texture
}

// BitmapSize returns the size of the source bitmap before scaling.
func (t *Texture) BitmapSize() (w, h int) {
	return t.bitmapW, t.bitmapH
}
