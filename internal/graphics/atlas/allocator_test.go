package atlas_test

import (
	"errors"
	"math/rand"
	"testing"

	"ftb-render/internal/graphics/atlas"
)

func newAllocator(t *testing.T, size int) *atlas.Allocator {
	t.Helper()
	a, err := atlas.New(size)
	if err != nil {
		t.Fatalf("New(%d): %v", size, err)
	}
	return a
}

func TestFirstAllocationAtOrigin(t *testing.T) {
	a := newAllocator(t, 4096)
	r, err := a.Allocate(64, 64)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if r != (atlas.Rect{X: 0, Y: 0, W: 64, H: 64}) {
		t.Fatalf("got %v, want (0,0 64x64)", r)
	}
	r2, err := a.Allocate(64, 64)
	if err != nil {
		t.Fatalf("second Allocate: %v", err)
	}
	if r2.Overlaps(r) {
		t.Fatalf("second placement %v overlaps first %v", r2, r)
	}
}

func TestSplitConservesArea(t *testing.T) {
	cases := []struct {
		name       string
		size, w, h int
	}{
		{"wide slack", 256, 16, 200},
		{"tall slack", 256, 200, 16},
		{"equal slack", 256, 64, 64},
		{"exact fit", 256, 256, 256},
		{"full width", 256, 256, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := newAllocator(t, tc.size)
			id, ok := a.FindFreeNode(tc.w, tc.h)
			if !ok {
				t.Fatalf("FindFreeNode(%d,%d) failed", tc.w, tc.h)
			}
			before, _ := a.Node(id)
			a.SplitNode(id, tc.w, tc.h)

			placed, occupied := a.Node(id)
			if !occupied {
				t.Fatalf("split node not marked occupied")
			}
			if placed.W != tc.w || placed.H != tc.h {
				t.Fatalf("node shrank to %dx%d, want %dx%d", placed.W, placed.H, tc.w, tc.h)
			}
			c0, c1 := a.Children(id)
			r0, _ := a.Node(c0)
			r1, _ := a.Node(c1)
			if got, want := r0.Area()+r1.Area(), before.Area()-tc.w*tc.h; got != want {
				t.Fatalf("children area %d, want %d", got, want)
			}
			if r0.Overlaps(r1) || r0.Overlaps(placed) || r1.Overlaps(placed) {
				t.Fatalf("split produced overlapping rectangles: %v %v %v", placed, r0, r1)
			}
		})
	}
}

func TestSplitAxisFollowsLargerSlack(t *testing.T) {
	a := newAllocator(t, 100)
	a.SplitNode(a.Root(), 10, 90)
	c0, c1 := a.Children(a.Root())
	r0, _ := a.Node(c0)
	r1, _ := a.Node(c1)
	// dw=90 > dh=10: right strip keeps the placed height, bottom strip spans the full width.
	if r0 != (atlas.Rect{X: 10, Y: 0, W: 90, H: 90}) {
		t.Errorf("left child %v", r0)
	}
	if r1 != (atlas.Rect{X: 0, Y: 90, W: 100, H: 10}) {
		t.Errorf("right child %v", r1)
	}
}

func TestFindFreeNodeIsFirstFit(t *testing.T) {
	a := newAllocator(t, 128)
	if _, err := a.Allocate(64, 64); err != nil {
		t.Fatal(err)
	}
	// Left child (below the placement) is searched before the right strip.
	id, ok := a.FindFreeNode(8, 8)
	if !ok {
		t.Fatal("expected a fit")
	}
	c0, _ := a.Children(a.Root())
	if id != c0 {
		t.Fatalf("got node %d, want left child %d", id, c0)
	}
}

func TestNoFit(t *testing.T) {
	a := newAllocator(t, 64)
	if _, err := a.Allocate(65, 1); !errors.Is(err, atlas.ErrNoFit) {
		t.Fatalf("got %v, want ErrNoFit", err)
	}
	if _, err := a.Allocate(64, 64); err != nil {
		t.Fatalf("full-size allocate: %v", err)
	}
	if _, err := a.Allocate(1, 1); !errors.Is(err, atlas.ErrNoFit) {
		t.Fatalf("got %v, want ErrNoFit on a full atlas", err)
	}
}

func TestInvalidSize(t *testing.T) {
	if _, err := atlas.New(0); !errors.Is(err, atlas.ErrInvalidSize) {
		t.Fatalf("New(0): got %v", err)
	}
	a := newAllocator(t, 64)
	if _, err := a.Allocate(0, 4); !errors.Is(err, atlas.ErrInvalidSize) {
		t.Fatalf("Allocate(0,4): got %v", err)
	}
}

func TestResetRestoresFullCapacity(t *testing.T) {
	a := newAllocator(t, 256)
	for i := 0; i < 20; i++ {
		if _, err := a.Allocate(30, 17); err != nil {
			break
		}
	}
	if _, err := a.Allocate(256, 256); err == nil {
		t.Fatal("full-size allocation succeeded on a fragmented atlas")
	}
	a.Reset()
	if a.Len() != 1 || a.Used() != 0 {
		t.Fatalf("after Reset: %d nodes, %d used", a.Len(), a.Used())
	}
	if _, err := a.Allocate(256, 256); err != nil {
		t.Fatalf("full-size allocation after Reset: %v", err)
	}
}

func TestPlacementsStayDisjoint(t *testing.T) {
	a := newAllocator(t, 512)
	rng := rand.New(rand.NewSource(7))
	var placed []atlas.Rect
	for i := 0; i < 400; i++ {
		w, h := 1+rng.Intn(48), 1+rng.Intn(48)
		r, err := a.Allocate(w, h)
		if err != nil {
			continue
		}
		if r.X < 0 || r.Y < 0 || r.X+r.W > 512 || r.Y+r.H > 512 {
			t.Fatalf("placement %v outside atlas", r)
		}
		for _, p := range placed {
			if p.Overlaps(r) {
				t.Fatalf("placement %v overlaps %v", r, p)
			}
		}
		placed = append(placed, r)
	}
	total := 0
	for _, p := range placed {
		total += p.Area()
	}
	if total != a.Used() {
		t.Fatalf("Used() = %d, sum of placements = %d", a.Used(), total)
	}
}
