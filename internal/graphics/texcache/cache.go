// Package texcache keeps indexed-colour bitmaps resident in an atlas surface,
// keyed by asset identity.
package texcache

import (
	"errors"
	"fmt"
	"log"

	"ftb-render/internal/graphics/atlas"
	"ftb-render/internal/graphics/gpu"
	"ftb-render/internal/graphics/palette"
	"ftb-render/internal/profiling"
)

// DefaultAtlasSize is the edge length of the atlas surface.
const DefaultAtlasSize = 4096

// Options configures a Cache.
type Options struct {
	AtlasSize int
	Scaler    palette.Scaler
	Format    palette.Format
	Logger    *log.Logger
}

// Cache places textures in a single atlas surface and keeps them in a
// most-recently-used list. Nothing is ever evicted for capacity; atlas space
// is reclaimed only by Flush.
type Cache struct {
	device gpu.Device
	opts   Options
	logger *log.Logger

	alloc   *atlas.Allocator
	surface gpu.SurfaceID

	head, tail *Texture
	count      int

	clut    palette.CLUT
	scratch []uint16
}

// New creates the atlas surface on device.
func New(device gpu.Device, opts Options) (*Cache, error) {
	if opts.AtlasSize == 0 {
		opts.AtlasSize = DefaultAtlasSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	alloc, err := atlas.New(opts.AtlasSize)
	if err != nil {
		return nil, fmt.Errorf("texcache: %w", err)
	}
	c := &Cache{device: device, opts: opts, logger: logger, alloc: alloc}
	if c.surface, err = device.CreateSurface(opts.AtlasSize); err != nil {
		return nil, fmt.Errorf("texcache: create atlas surface: %w", err)
	}
	return c, nil
}

// Len returns the number of cached textures.
func (c *Cache) Len() int {
	return c.count
}

// Textures returns the cached textures from most to least recently used.
func (c *Cache) Textures() []*Texture {
	out := make([]*Texture, 0, c.count)
	for t := c.head; t != nil; t = t.next {
		out = append(out, t)
	}
	return out
}

// Surface returns the live atlas surface.
func (c *Cache) Surface() gpu.SurfaceID {
	return c.surface
}

// AtlasUsage returns occupied and total atlas area in texels.
func (c *Cache) AtlasUsage() (used, total int) {
	return c.alloc.Used(), c.alloc.Size() * c.alloc.Size()
}

// GetCachedTexture returns the texture stored under key, moving it to the
// front of the list, or creates it from data on a miss. NoKey always creates.
// data is validated on hits too.
func (c *Cache) GetCachedTexture(data []byte, w, h int, key int16) (*Texture, error) {
	if err := checkBitmap(data, w, h); err != nil {
		return nil, err
	}
	if key != NoKey {
		var prev *Texture
		for t := c.head; t != nil; prev, t = t, t.next {
			if t.Key != key {
				continue
			}
			if prev != nil {
				prev.next = t.next
				if t == c.tail {
					c.tail = prev
				}
				t.next = c.head
				c.head = t
			}
			profiling.Count("texcache.hit", 1)
			return t, nil
		}
	}
	profiling.Count("texcache.miss", 1)
	t, err := c.CreateTexture(data, w, h)
	if err != nil {
		return nil, err
	}
	t.Key = key
	return t, nil
}

func checkBitmap(data []byte, w, h int) error {
	if data == nil || w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidBitmap, w, h)
	}
	if len(data) < w*h {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrInvalidBitmap, len(data), w, h)
	}
	return nil
}

// CreateTexture copies data, places it in the atlas at the scaled size,
// uploads the converted texels and appends the record to the list tail.
func (c *Cache) CreateTexture(data []byte, w, h int) (*Texture, error) {
	defer profiling.Track("texcache.CreateTexture")()
	if err := checkBitmap(data, w, h); err != nil {
		return nil, err
	}

	f := c.opts.Scaler.Factor()
	r, err := c.alloc.Allocate(w*f, h*f)
	if err != nil {
		if errors.Is(err, atlas.ErrNoFit) {
			c.logger.Printf("texcache: allocation capacity exceeded for %dx%d bitmap (atlas %d texels used)", w, h, c.alloc.Used())
			return nil, fmt.Errorf("%w: %v", ErrNoCapacity, err)
		}
		return nil, fmt.Errorf("texcache: %w", err)
	}

	size := float32(c.alloc.Size())
	t := &Texture{
		Key:     NoKey,
		Rect:    r,
		Surface: c.surface,
		bitmap:  append([]byte(nil), data[:w*h]...),
		bitmapW: w,
		bitmapH: h,
		UV: UVRect{
			U0: float32(r.X) / size,
			V0: float32(r.Y) / size,
			U1: float32(r.X+r.W) / size,
			V1: float32(r.Y+r.H) / size,
		},
	}
	c.upload(t)

	if c.head == nil {
		c.head = t
	} else {
		c.tail.next = t
	}
	c.tail = t
	c.count++
	return t, nil
}

func (c *Cache) upload(t *Texture) {
	n := t.Rect.W * t.Rect.H
	if cap(c.scratch) < n {
		c.scratch = make([]uint16, n)
	}
	pix := c.scratch[:n]
	palette.Convert(pix, t.Rect.W, t.bitmap, t.bitmapW, t.bitmapH, &c.clut, c.opts.Format, c.opts.Scaler)
	c.device.UploadSurface(t.Surface, t.Rect, pix)
}

// UpdateTexture replaces the bitmap of t with a same-sized one and re-uploads it.
func (c *Cache) UpdateTexture(t *Texture, data []byte, w, h int) error {
	if t == nil || t.bitmap == nil {
		return ErrRemovedTexture
	}
	if err := checkBitmap(data, w, h); err != nil {
		return err
	}
	if w != t.bitmapW || h != t.bitmapH {
		return fmt.Errorf("%w: update %dx%d on %dx%d texture", ErrInvalidBitmap, w, h, t.bitmapW, t.bitmapH)
	}
	copy(t.bitmap, data[:w*h])
	c.upload(t)
	return nil
}

// DestroyTexture unlinks t and drops its bitmap. Its atlas rectangle stays
// occupied until the next Flush.
func (c *Cache) DestroyTexture(t *Texture) {
	var prev *Texture
	for cur := c.head; cur != nil; prev, cur = cur, cur.next {
		if cur != t {
			continue
		}
		if prev == nil {
			c.head = cur.next
		} else {
			prev.next = cur.next
		}
		if c.tail == cur {
			c.tail = prev
		}
		c.count--
		t.next = nil
		t.bitmap = nil
		return
	}
}

// SetPalette rebuilds the colour lookup table. With reupload set, every
// cached texture is converted again and re-uploaded.
func (c *Cache) SetPalette(p *palette.Palette, reupload bool) {
	c.clut = palette.NewCLUT(p, c.opts.Format)
	if !reupload {
		return
	}
	defer profiling.Track("texcache.SetPalette")()
	for t := c.head; t != nil; t = t.next {
		c.upload(t)
	}
}

// Flush drops every texture and replaces the atlas with a fresh, empty one.
// The colour lookup table is cleared as well; callers set a palette again.
func (c *Cache) Flush() error {
	for t := c.head; t != nil; {
		next := t.next
		t.next = nil
		t.bitmap = nil
		t = next
	}
	c.head, c.tail, c.count = nil, nil, 0
	c.clut = palette.CLUT{}

	c.device.DeleteSurface(c.surface)
	c.alloc.Reset()
	surface, err := c.device.CreateSurface(c.alloc.Size())
	if err != nil {
		c.surface = 0
		return fmt.Errorf("texcache: recreate atlas surface: %w", err)
	}
	c.surface = surface
	return nil
}

// Close releases the atlas surface.
func (c *Cache) Close() {
	c.head, c.tail, c.count = nil, nil, 0
	if c.surface != 0 {
		c.device.DeleteSurface(c.surface)
		c.surface = 0
	}
}
