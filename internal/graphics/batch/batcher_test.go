package batch_test

import (
	"errors"
	"reflect"
	"testing"

	"ftb-render/internal/graphics/batch"
	"ftb-render/internal/graphics/gpu"
	"ftb-render/internal/graphics/texcache"

	"github.com/go-gl/mathgl/mgl32"
)

func quad(z float32) []mgl32.Vec3 {
	return []mgl32.Vec3{{0, 0, z}, {1, 0, z}, {1, 1, z}, {0, 1, z}}
}

func triangle(z float32) []mgl32.Vec3 {
	return []mgl32.Vec3{{0, 0, z}, {1, 0, z}, {0, 1, z}}
}

var red = mgl32.Vec4{1, 0, 0, 0.5}

func TestFan(t *testing.T) {
	tests := []struct {
		n    int
		want [][3]int
	}{
		{2, nil},
		{3, [][3]int{{0, 1, 2}}},
		{4, [][3]int{{0, 1, 2}, {0, 2, 3}}},
		{6, [][3]int{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}, {0, 4, 5}}},
	}
	for _, tt := range tests {
		if got := batch.Fan(tt.n); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Fan(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestLayoutCorners(t *testing.T) {
	for l := batch.Layout(0); l < batch.LayoutCount; l++ {
		want := 4
		if l == 1 || l == 4 || l == 7 {
			want = 3
		}
		if got := l.Corners(); got != want {
			t.Errorf("layout %d: %d corners, want %d", l, got, want)
		}
	}
	if batch.Layout(11).Corners() != 0 || batch.Layout(-1).Valid() {
		t.Fatal("out of range layouts must be invalid")
	}
}

func TestLayoutUVs(t *testing.T) {
	uv := texcache.UVRect{U0: 0, V0: 0, U1: 1, V1: 1}
	tests := []struct {
		layout batch.Layout
		want   []mgl32.Vec2
	}{
		{0, []mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}},
		{1, []mgl32.Vec2{{0.5, 0}, {1, 1}, {0, 1}}},
		{3, []mgl32.Vec2{{1, 0}, {1, 1}, {0, 1}, {0, 0}}},
		{4, []mgl32.Vec2{{1, 1}, {0, 1}, {0.5, 0}}},
		{6, []mgl32.Vec2{{1, 1}, {0, 1}, {0, 0}, {1, 0}}},
		{7, []mgl32.Vec2{{0, 1}, {0.5, 0}, {1, 1}}},
		{10, []mgl32.Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}}},
	}
	for _, tt := range tests {
		if got := tt.layout.UVs(nil, uv); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("layout %d: %v, want %v", tt.layout, got, tt.want)
		}
	}
}

func TestBeginTwiceFails(t *testing.T) {
	b := batch.New(batch.Options{})
	if err := b.Begin(); err != nil {
		t.Fatal(err)
	}
	if err := b.Begin(); !errors.Is(err, batch.ErrBatchActive) {
		t.Fatalf("second Begin: %v, want ErrBatchActive", err)
	}
	if !b.Active() {
		t.Fatal("batch closed by failed Begin")
	}
}

func TestSubmitWithoutBegin(t *testing.T) {
	b := batch.New(batch.Options{})
	if err := b.SubmitFlat(quad(0), red); !errors.Is(err, batch.ErrBatchInactive) {
		t.Fatalf("SubmitFlat: %v", err)
	}
	if _, err := b.Flush(gpu.NewRecorder()); !errors.Is(err, batch.ErrBatchInactive) {
		t.Fatalf("Flush: %v", err)
	}
}

func TestOverflowBoundary(t *testing.T) {
	const capacity = 8
	b := batch.New(batch.Options{Slots: 1, Capacity: capacity})
	_ = b.Begin()

	for i := 0; i < capacity/2; i++ {
		if err := b.SubmitFlat(quad(float32(i)), red); err != nil {
			t.Fatalf("quad %d: %v", i, err)
		}
	}
	if b.FlatLen() != capacity {
		t.Fatalf("FlatLen = %d, want %d", b.FlatLen(), capacity)
	}

	err := b.SubmitFlat(triangle(99), red)
	if !errors.Is(err, batch.ErrBufferOverflow) {
		t.Fatalf("one past capacity: %v, want ErrBufferOverflow", err)
	}
	if b.FlatLen() != capacity {
		t.Fatalf("overflow grew buffer to %d", b.FlatLen())
	}

	rec := gpu.NewRecorder()
	st, err := b.Flush(rec)
	if err != nil {
		t.Fatal(err)
	}
	if st.Draws != 1 || st.Triangles != capacity {
		t.Fatalf("stats = %+v", st)
	}
	got := rec.Submissions[0].Colored
	for i := 0; i < capacity; i++ {
		if z := got[i*3].Pos.Z(); z != float32(i/2) {
			t.Fatalf("triangle %d from quad %v, want %d", i, z, i/2)
		}
	}
}

func TestOverflowKeepsPartialPolygon(t *testing.T) {
	b := batch.New(batch.Options{Slots: 1, Capacity: 3})
	_ = b.Begin()
	_ = b.SubmitFlat(triangle(0), red)
	hexagon := []mgl32.Vec3{{0, 0, 1}, {1, 0, 1}, {2, 1, 1}, {1, 2, 1}, {0, 2, 1}, {-1, 1, 1}}
	if err := b.SubmitFlat(hexagon, red); !errors.Is(err, batch.ErrBufferOverflow) {
		t.Fatalf("hexagon: %v", err)
	}
	if b.FlatLen() != 3 {
		t.Fatalf("FlatLen = %d, want 3", b.FlatLen())
	}
}

func TestTexturedGroupedBySlot(t *testing.T) {
	b := batch.New(batch.Options{Slots: 2, Capacity: 16})
	uv := texcache.UVRect{U0: 0, V0: 0, U1: 0.5, V1: 0.5}
	t0 := &texcache.Texture{UV: uv, Surface: 7, Slot: 0}
	t1 := &texcache.Texture{UV: uv, Surface: 9, Slot: 1}

	_ = b.Begin()
	steps := []struct {
		tex    *texcache.Texture
		layout batch.Layout
	}{{t0, 0}, {t1, 1}, {t0, 4}}
	for _, s := range steps {
		if err := b.SubmitTextured(quad(0), s.layout, s.tex); err != nil {
			t.Fatal(err)
		}
	}
	_ = b.SubmitFlat(quad(0), red)

	if b.Len(0) != 3 || b.Len(1) != 1 {
		t.Fatalf("slot lens = %d, %d", b.Len(0), b.Len(1))
	}

	rec := gpu.NewRecorder()
	st, _ := b.Flush(rec)
	if st.Draws != 3 || st.Triangles != 6 {
		t.Fatalf("stats = %+v", st)
	}
	if rec.Submissions[0].Surface != 0 || rec.Submissions[1].Surface != 7 || rec.Submissions[2].Surface != 9 {
		t.Fatalf("draw order: %d %d %d", rec.Submissions[0].Surface, rec.Submissions[1].Surface, rec.Submissions[2].Surface)
	}
	if got := rec.Submissions[1].Textured[1].UV; got != (mgl32.Vec2{0.5, 0}) {
		t.Fatalf("layout 0 second corner uv = %v", got)
	}
	if b.Active() || b.FlatLen() != 0 || b.Len(0) != 0 {
		t.Fatal("flush left state behind")
	}
}

func TestTexturedErrors(t *testing.T) {
	b := batch.New(batch.Options{Slots: 1})
	tex := &texcache.Texture{Surface: 1}
	_ = b.Begin()

	if err := b.SubmitTextured(quad(0), 11, tex); !errors.Is(err, batch.ErrUnknownLayout) {
		t.Errorf("layout 11: %v", err)
	}
	if err := b.SubmitTextured(triangle(0), 0, tex); !errors.Is(err, batch.ErrMalformedPolygon) {
		t.Errorf("three vertices: %v", err)
	}
	if err := b.SubmitTextured(quad(0), 0, nil); !errors.Is(err, batch.ErrMalformedPolygon) {
		t.Errorf("nil texture: %v", err)
	}
	if err := b.SubmitTextured(quad(0), 0, &texcache.Texture{Slot: 3}); !errors.Is(err, batch.ErrMalformedPolygon) {
		t.Errorf("bad slot: %v", err)
	}
	if err := b.SubmitFlat(quad(0)[:2], red); !errors.Is(err, batch.ErrMalformedPolygon) {
		t.Errorf("two vertex flat: %v", err)
	}
	if b.Len(0) != 0 || b.FlatLen() != 0 {
		t.Fatal("rejected submissions were buffered")
	}
}

func TestEmptyFlushDrawsNothing(t *testing.T) {
	b := batch.New(batch.Options{})
	_ = b.Begin()
	rec := gpu.NewRecorder()
	st, err := b.Flush(rec)
	if err != nil || st.Draws != 0 || len(rec.Submissions) != 0 {
		t.Fatalf("st=%+v err=%v subs=%d", st, err, len(rec.Submissions))
	}
}
