// Package batch accumulates fan-triangulated polygons into fixed-capacity
// job buffers and submits each buffer as one draw call.
//
// Triangles keep submission order within a buffer. Buffers are drawn flat
// colour first, then one per atlas slot, so draws from different slots may
// land in a different order than they were submitted.
package batch

import (
	"fmt"

	"ftb-render/internal/graphics/gpu"
	"ftb-render/internal/graphics/texcache"
	"ftb-render/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultSlots is the number of atlas slots with their own buffer.
	DefaultSlots = 4
	// DefaultCapacity is the triangle capacity of each job buffer.
	DefaultCapacity = 4096
)

// Options sizes the job buffers.
type Options struct {
	Slots    int
	Capacity int // triangles per buffer
}

// Stats describes one Flush.
type Stats struct {
	Draws     int
	Triangles int
}

type slotBuffer struct {
	surface gpu.SurfaceID
	verts   []gpu.TexturedVertex
}

// Batcher owns the flat-colour buffer and one buffer per atlas slot.
type Batcher struct {
	capacity int
	flat     []gpu.ColorVertex
	slots    []slotBuffer
	active   bool

	uvScratch []mgl32.Vec2
}

// New allocates the job buffers up front.
func New(opts Options) *Batcher {
	if opts.Slots <= 0 {
		opts.Slots = DefaultSlots
	}
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	b := &Batcher{
		capacity: opts.Capacity,
		flat:     make([]gpu.ColorVertex, 0, opts.Capacity*3),
		slots:    make([]slotBuffer, opts.Slots),
	}
	for i := range b.slots {
		b.slots[i].verts = make([]gpu.TexturedVertex, 0, opts.Capacity*3)
	}
	return b
}

// Capacity returns the triangle capacity of each buffer.
func (b *Batcher) Capacity() int {
	return b.capacity
}

// Active reports whether a batch is open.
func (b *Batcher) Active() bool {
	return b.active
}

// FlatLen returns the number of buffered flat-colour triangles.
func (b *Batcher) FlatLen() int {
	return len(b.flat) / 3
}

// Len returns the number of buffered triangles for an atlas slot.
func (b *Batcher) Len(slot int) int {
	if slot < 0 || slot >= len(b.slots) {
		return 0
	}
	return len(b.slots[slot].verts) / 3
}

// Begin empties every buffer and opens a batch. Opening a second batch
// before Flush is refused.
func (b *Batcher) Begin() error {
	if b.active {
		return ErrBatchActive
	}
	b.reset()
	b.active = true
	return nil
}

func (b *Batcher) reset() {
	b.flat = b.flat[:0]
	for i := range b.slots {
		b.slots[i].verts = b.slots[i].verts[:0]
		b.slots[i].surface = 0
	}
}

// SubmitFlat appends the fan triangles of a convex polygon with a constant
// colour. Triangles past the buffer capacity are dropped and reported with
// ErrBufferOverflow; the rest of the call is kept.
func (b *Batcher) SubmitFlat(verts []mgl32.Vec3, c mgl32.Vec4) error {
	if !b.active {
		return ErrBatchInactive
	}
	if len(verts) < 3 {
		return fmt.Errorf("%w: flat polygon with %d vertices", ErrMalformedPolygon, len(verts))
	}
	want := len(verts) - 2
	var got int
	b.flat, got = AppendColoredFan(b.flat, verts, c, b.capacity-b.FlatLen())
	return overflow("flat", want, got)
}

// SubmitTextured appends the fan triangles of a polygon textured with tex
// through the layout's UV table into the buffer of tex's atlas slot. The
// polygon is cut to the layout's corner count.
func (b *Batcher) SubmitTextured(verts []mgl32.Vec3, layout Layout, tex *texcache.Texture) error {
	if !b.active {
		return ErrBatchInactive
	}
	if tex == nil || len(verts) < 4 {
		return fmt.Errorf("%w: textured polygon with %d vertices", ErrMalformedPolygon, len(verts))
	}
	if !layout.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownLayout, int(layout))
	}
	if tex.Slot < 0 || tex.Slot >= len(b.slots) {
		return fmt.Errorf("%w: atlas slot %d outside 0..%d", ErrMalformedPolygon, tex.Slot, len(b.slots)-1)
	}

	b.uvScratch = layout.UVs(b.uvScratch[:0], tex.UV)
	corners := verts[:len(b.uvScratch)]

	s := &b.slots[tex.Slot]
	s.surface = tex.Surface
	want := len(corners) - 2
	var got int
	s.verts, got = AppendTexturedFan(s.verts, corners, b.uvScratch, b.capacity-len(s.verts)/3)
	return overflow(fmt.Sprintf("slot %d", tex.Slot), want, got)
}

func overflow(buffer string, want, got int) error {
	if got == want {
		return nil
	}
	profiling.Count("batch.dropped", want-got)
	return fmt.Errorf("%w: %s buffer dropped %d of %d triangles", ErrBufferOverflow, buffer, want-got, want)
}

// Flush draws every non-empty buffer with one call each, empties them and
// closes the batch.
func (b *Batcher) Flush(device gpu.Device) (Stats, error) {
	if !b.active {
		return Stats{}, ErrBatchInactive
	}
	defer profiling.Track("batch.Flush")()

	var st Stats
	if len(b.flat) > 0 {
		device.DrawColored(b.flat)
		st.Draws++
		st.Triangles += len(b.flat) / 3
	}
	for i := range b.slots {
		s := &b.slots[i]
		if len(s.verts) == 0 {
			continue
		}
		device.DrawTextured(s.surface, s.verts)
		st.Draws++
		st.Triangles += len(s.verts) / 3
	}
	profiling.Count("batch.draws", st.Draws)
	profiling.Count("batch.triangles", st.Triangles)

	b.reset()
	b.active = false
	return st, nil
}
