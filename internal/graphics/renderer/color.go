package renderer

import (
	"fmt"

	"ftb-render/internal/graphics/palette"

	"github.com/go-gl/mathgl/mgl32"
)

// Flat colours outside the palette range. Values 0..255 are palette indices.
const (
	FlatColorRed = palette.Size + iota
	FlatColorGreen
	FlatColorYellow
	FlatColorBlue
	FlatColorShadow
	FlatColorLight
)

var fixedColors = [...]mgl32.Vec4{
	FlatColorRed - palette.Size:    {1, 0, 0, .5},
	FlatColorGreen - palette.Size:  {0, 1, 0, .5},
	FlatColorYellow - palette.Size: {1, 1, 0, .5},
	FlatColorBlue - palette.Size:   {0, 0, 1, .5},
	FlatColorShadow - palette.Size: {0, 0, 0, .5},
	FlatColorLight - palette.Size:  {1, 1, 1, .2},
}

// colorMap holds the palette as normalized colours. Index 0 is transparent.
type colorMap [palette.Size]mgl32.Vec4

func (m *colorMap) set(i int, r, g, b uint8) {
	a := float32(1)
	if i == 0 {
		a = 0
	}
	m[i] = mgl32.Vec4{float32(r) / 255, float32(g) / 255, float32(b) / 255, a}
}

func (m *colorMap) resolve(color int) (mgl32.Vec4, error) {
	switch {
	case color >= 0 && color < palette.Size:
		return m[color], nil
	case color >= FlatColorRed && color <= FlatColorLight:
		return fixedColors[color-palette.Size], nil
	}
	return mgl32.Vec4{}, fmt.Errorf("%w: %d", ErrUnknownColor, color)
}
