package palette

import (
	"image"
	"image/color"
)

// Image5551 is a draw.Image over 16-bit texels packed in Format.
type Image5551 struct {
	Pix    []uint16
	Stride int
	Rect   image.Rectangle
	Format Format
}

// NewImage5551 allocates a w×h image in format f.
func NewImage5551(w, h int, f Format) *Image5551 {
	return &Image5551{Pix: make([]uint16, w*h), Stride: w, Rect: image.Rect(0, 0, w, h), Format: f}
}

func (m *Image5551) ColorModel() color.Model {
	return color.NRGBAModel
}

func (m *Image5551) Bounds() image.Rectangle {
	return m.Rect
}

func (m *Image5551) offset(x, y int) int {
	return (y-m.Rect.Min.Y)*m.Stride + (x - m.Rect.Min.X)
}

func (m *Image5551) At(x, y int) color.Color {
	if !image.Pt(x, y).In(m.Rect) {
		return color.NRGBA{}
	}
	return m.Format.Unpack(m.Pix[m.offset(x, y)])
}

func (m *Image5551) Set(x, y int, c color.Color) {
	if !image.Pt(x, y).In(m.Rect) {
		return
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A < 0x80 {
		m.Pix[m.offset(x, y)] = 0
		return
	}
	m.Pix[m.offset(x, y)] = m.Format.Pack(n.R, n.G, n.B)
}
