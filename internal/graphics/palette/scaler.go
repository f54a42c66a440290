package palette

import (
	"fmt"

	"golang.org/x/image/draw"
)

// Scaler selects the upscale filter applied while converting a bitmap.
type Scaler int

const (
	Point1x Scaler = iota
	Point2x
	Scale2x
	Point3x
	Scale3x
)

var scalerNames = [...]string{"point1x", "point2x", "scale2x", "point3x", "scale3x"}

func (s Scaler) String() string {
	if s < 0 || int(s) >= len(scalerNames) {
		return fmt.Sprintf("Scaler(%d)", int(s))
	}
	return scalerNames[s]
}

// ParseScaler resolves a scaler by name.
func ParseScaler(name string) (Scaler, error) {
	for i, n := range scalerNames {
		if n == name {
			return Scaler(i), nil
		}
	}
	return Point1x, fmt.Errorf("palette: unknown scaler %q", name)
}

// Valid reports whether s names a known scaler.
func (s Scaler) Valid() bool {
	return s >= 0 && int(s) < len(scalerNames)
}

// Factor is the output size multiplier.
func (s Scaler) Factor() int {
	switch s {
	case Point2x, Scale2x:
		return 2
	case Point3x, Scale3x:
		return 3
	default:
		return 1
	}
}

// Convert writes the w×h indexed bitmap src through clut into dst, scaled by
// the scaler factor. dstPitch is the dst row length in texels and f is the
// format clut was built in.
func Convert(dst []uint16, dstPitch int, src []byte, w, h int, clut *CLUT, f Format, s Scaler) {
	if s.Factor() == 1 {
		for y := 0; y < h; y++ {
			row := dst[y*dstPitch:]
			for x, idx := range src[y*w : y*w+w] {
				row[x] = clut[idx]
			}
		}
		return
	}

	tmp := NewImage5551(w, h, f)
	for i, idx := range src[:w*h] {
		tmp.Pix[i] = clut[idx]
	}
	n := s.Factor()
	out := &Image5551{Pix: dst, Stride: dstPitch, Format: f}
	out.Rect.Max.X, out.Rect.Max.Y = w*n, h*n

	switch s {
	case Scale2x:
		scale2x(out, tmp)
	case Scale3x:
		scale3x(out, tmp)
	default:
		draw.NearestNeighbor.Scale(out, out.Rect, tmp, tmp.Rect, draw.Src, nil)
	}
}

// px clamps to the source edge.
func px(m *Image5551, x, y int) uint16 {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	x = min(max(x, 0), w-1)
	y = min(max(y, 0), h-1)
	return m.Pix[y*m.Stride+x]
}

func scale2x(dst, src *Image5551) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b, d, e, f, hh := px(src, x, y-1), px(src, x-1, y), px(src, x, y), px(src, x+1, y), px(src, x, y+1)
			e0, e1, e2, e3 := e, e, e, e
			if b != hh && d != f {
				if d == b {
					e0 = d
				}
				if b == f {
					e1 = f
				}
				if d == hh {
					e2 = d
				}
				if hh == f {
					e3 = f
				}
			}
			o := 2*y*dst.Stride + 2*x
			dst.Pix[o], dst.Pix[o+1] = e0, e1
			dst.Pix[o+dst.Stride], dst.Pix[o+dst.Stride+1] = e2, e3
		}
	}
}

func scale3x(dst, src *Image5551) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a, b, c := px(src, x-1, y-1), px(src, x, y-1), px(src, x+1, y-1)
			d, e, f := px(src, x-1, y), px(src, x, y), px(src, x+1, y)
			g, hh, i := px(src, x-1, y+1), px(src, x, y+1), px(src, x+1, y+1)
			out := [9]uint16{e, e, e, e, e, e, e, e, e}
			if b != hh && d != f {
				if d == b {
					out[0] = d
				}
				if (d == b && e != c) || (b == f && e != a) {
					out[1] = b
				}
				if b == f {
					out[2] = f
				}
				if (d == b && e != g) || (d == hh && e != a) {
					out[3] = d
				}
				if (b == f && e != i) || (hh == f && e != c) {
					out[5] = f
				}
				if d == hh {
					out[6] = d
				}
				if (d == hh && e != i) || (hh == f && e != g) {
					out[7] = hh
				}
				if hh == f {
					out[8] = f
				}
			}
			o := 3*y*dst.Stride + 3*x
			for row := 0; row < 3; row++ {
				copy(dst.Pix[o+row*dst.Stride:o+row*dst.Stride+3], out[row*3:row*3+3])
			}
		}
	}
}
