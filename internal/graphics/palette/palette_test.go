package palette

import (
	"image/color"
	"testing"
)

func greyPalette() *Palette {
	var p Palette
	for i := range p {
		p[i] = color.RGBA{R: uint8(i), G: uint8(i), B: uint8(i), A: 0xff}
	}
	return &p
}

func TestFromRGB(t *testing.T) {
	if _, err := FromRGB(make([]byte, 10)); err != ErrShortPalette {
		t.Fatalf("got %v, want ErrShortPalette", err)
	}
	rgb := make([]byte, Size*3)
	rgb[3], rgb[4], rgb[5] = 10, 20, 30
	p, err := FromRGB(rgb)
	if err != nil {
		t.Fatal(err)
	}
	if p[1] != (color.RGBA{R: 10, G: 20, B: 30, A: 0xff}) {
		t.Fatalf("entry 1 = %v", p[1])
	}
}

func TestPackRGBA5551(t *testing.T) {
	cases := []struct {
		r, g, b uint8
		want    uint16
	}{
		{0xff, 0xff, 0xff, 0xffff},
		{0xff, 0, 0, 0xf801},
		{0, 0xff, 0, 0x07c1},
		{0, 0, 0xff, 0x003f},
		{0, 0, 0, 0x0001},
	}
	for _, tc := range cases {
		if got := RGBA5551.Pack(tc.r, tc.g, tc.b); got != tc.want {
			t.Errorf("Pack(%d,%d,%d) = %#04x, want %#04x", tc.r, tc.g, tc.b, got, tc.want)
		}
	}
	if got := BGRA1555.Pack(0xff, 0, 0); got != 0xfc00 {
		t.Errorf("BGRA1555 red = %#04x, want 0xfc00", got)
	}
}

func TestCLUTBlackIsTransparent(t *testing.T) {
	c := NewCLUT(greyPalette(), RGBA5551)
	if c[0] != 0 {
		t.Fatalf("black entry = %#04x, want 0", c[0])
	}
	if c[255] != 0xffff {
		t.Fatalf("white entry = %#04x, want 0xffff", c[255])
	}
}

func TestConvertPoint1xHonoursPitch(t *testing.T) {
	c := NewCLUT(greyPalette(), RGBA5551)
	src := []byte{8, 16, 24, 32}
	dst := make([]uint16, 2*5)
	Convert(dst, 5, src, 2, 2, &c, RGBA5551, Point1x)
	want := []uint16{c[8], c[16], 0, 0, 0, c[24], c[32], 0, 0, 0}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst[%d] = %#04x, want %#04x", i, dst[i], want[i])
		}
	}
}

func TestConvertPointScalersReplicate(t *testing.T) {
	c := NewCLUT(greyPalette(), RGBA5551)
	src := []byte{40, 200, 0, 120}
	for _, s := range []Scaler{Point2x, Point3x} {
		f := s.Factor()
		dst := make([]uint16, 2*f*2*f)
		Convert(dst, 2*f, src, 2, 2, &c, RGBA5551, s)
		for y := 0; y < 2*f; y++ {
			for x := 0; x < 2*f; x++ {
				want := c[src[(y/f)*2+x/f]]
				if got := dst[y*2*f+x]; got != want {
					t.Fatalf("%v: texel (%d,%d) = %#04x, want %#04x", s, x, y, got, want)
				}
			}
		}
	}
}

func TestConvertPointScalersKeepFormat(t *testing.T) {
	var p Palette
	p[1] = color.RGBA{R: 0xff, A: 0xff}
	c := NewCLUT(&p, BGRA1555)
	for _, s := range []Scaler{Point2x, Point3x} {
		f := s.Factor()
		dst := make([]uint16, f*f)
		Convert(dst, f, []byte{1}, 1, 1, &c, BGRA1555, s)
		for i, v := range dst {
			if v != 0xfc00 {
				t.Fatalf("%v: texel %d = %#04x, want 0xfc00", s, i, v)
			}
		}
	}
}

func TestScale2xKeepsFlatAreas(t *testing.T) {
	c := NewCLUT(greyPalette(), RGBA5551)
	src := []byte{
		9, 9, 9,
		9, 9, 9,
		9, 9, 9,
	}
	for _, s := range []Scaler{Scale2x, Scale3x} {
		f := s.Factor()
		dst := make([]uint16, 9*f*f)
		Convert(dst, 3*f, src, 3, 3, &c, RGBA5551, s)
		for i, v := range dst {
			if v != c[9] {
				t.Fatalf("%v: texel %d = %#04x, want %#04x", s, i, v, c[9])
			}
		}
	}
}

func TestScale2xSmoothsDiagonal(t *testing.T) {
	c := NewCLUT(greyPalette(), RGBA5551)
	// A diagonal edge: the centre pixel's top-left output takes the
	// colour shared by its top and left neighbours.
	src := []byte{
		1, 1, 2,
		1, 2, 2,
		2, 2, 2,
	}
	dst := make([]uint16, 6*6)
	Convert(dst, 6, src, 3, 3, &c, RGBA5551, Scale2x)
	if got := dst[2*6+2]; got != c[1] {
		t.Fatalf("centre top-left = %#04x, want %#04x", got, c[1])
	}
	if got := dst[3*6+3]; got != c[2] {
		t.Fatalf("centre bottom-right = %#04x, want %#04x", got, c[2])
	}
}

func TestParseScaler(t *testing.T) {
	for _, s := range []Scaler{Point1x, Point2x, Scale2x, Point3x, Scale3x} {
		got, err := ParseScaler(s.String())
		if err != nil || got != s {
			t.Errorf("ParseScaler(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseScaler("hq4x"); err == nil {
		t.Error("expected error for unknown scaler")
	}
}
