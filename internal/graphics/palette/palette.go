// Package palette converts 8-bit indexed bitmaps into the 16-bit RGBA5551
// texel format uploaded to atlas surfaces.
package palette

import (
	"errors"
	"image/color"
)

// Size is the number of entries in a palette.
const Size = 256

// ErrShortPalette is returned when fewer than Size*3 RGB bytes are supplied.
var ErrShortPalette = errors.New("palette: need 768 RGB bytes")

// Palette is a 256-entry RGB table.
type Palette [Size]color.RGBA

// FromRGB builds a palette from packed r,g,b bytes.
func FromRGB(rgb []byte) (Palette, error) {
	var p Palette
	if len(rgb) < Size*3 {
		return p, ErrShortPalette
	}
	for i := range p {
		p[i] = color.RGBA{R: rgb[3*i], G: rgb[3*i+1], B: rgb[3*i+2], A: 0xff}
	}
	return p, nil
}

// Format packs an RGB triple into a 16-bit texel.
type Format int

const (
	RGBA5551 Format = iota
	BGRA1555
)

// Pack converts r,g,b to the format's 16-bit layout with an opaque alpha bit.
func (f Format) Pack(r, g, b uint8) uint16 {
	switch f {
	case BGRA1555:
		return 0x8000 | uint16(r>>3)<<10 | uint16(g>>3)<<5 | uint16(b>>3)
	default:
		return uint16(r>>3)<<11 | uint16(g>>3)<<6 | uint16(b>>3)<<1 | 1
	}
}

// Unpack expands a 16-bit texel back to 8-bit channels.
func (f Format) Unpack(p uint16) color.NRGBA {
	switch f {
	case BGRA1555:
		return color.NRGBA{
			R: uint8(p>>10&0x1f) << 3,
			G: uint8(p>>5&0x1f) << 3,
			B: uint8(p&0x1f) << 3,
			A: uint8(p>>15) * 0xff,
		}
	default:
		return color.NRGBA{
			R: uint8(p>>11&0x1f) << 3,
			G: uint8(p>>6&0x1f) << 3,
			B: uint8(p>>1&0x1f) << 3,
			A: uint8(p&1) * 0xff,
		}
	}
}

// CLUT maps palette indices to packed texels.
type CLUT [Size]uint16

// NewCLUT packs every palette entry. Pure black becomes the fully
// transparent texel 0, which is how sprites mark their background.
func NewCLUT(p *Palette, f Format) CLUT {
	var c CLUT
	for i, e := range p {
		if e.R == 0 && e.G == 0 && e.B == 0 {
			c[i] = 0
			continue
		}
		c[i] = f.Pack(e.R, e.G, e.B)
	}
	return c
}
