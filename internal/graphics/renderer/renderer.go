// Package renderer is the draw-call front end: it sets up projections, keeps
// the frustum current and routes polygons either straight to the device or
// into job buffers while a batch is open.
package renderer

import (
	"errors"
	"fmt"
	"image/color"
	"log"

	"ftb-render/internal/config"
	"ftb-render/internal/graphics"
	"ftb-render/internal/graphics/batch"
	"ftb-render/internal/graphics/frustum"
	"ftb-render/internal/graphics/gpu"
	"ftb-render/internal/graphics/palette"
	"ftb-render/internal/graphics/texcache"
	"ftb-render/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// Renderer orchestrates rendering of a frame
type Renderer struct {
	device   gpu.Device
	settings *config.RenderSettings
	logger   *log.Logger

	camera  *graphics.Camera
	frustum *frustum.Frustum
	cache   *texcache.Cache
	jobs    *batch.Batcher

	renderables []Renderable
	frame       uint64

	pal    palette.Palette
	colors colorMap

	width, height int
	viewportPW    int
	viewportPH    int
	viewportDirty bool

	// transform stack; the bottom entry is the projection*view of the last
	// SetupProjection call
	transforms []mgl32.Mat4

	colored  []gpu.ColorVertex
	textured []gpu.TexturedVertex
	uvs      []mgl32.Vec2
}

// New builds a renderer over device. A nil logger logs to log.Default().
func New(device gpu.Device, settings *config.RenderSettings, logger *log.Logger) (*Renderer, error) {
	if settings == nil {
		settings = config.Default()
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	cache, err := texcache.New(device, texcache.Options{
		AtlasSize: settings.AtlasSize,
		Scaler:    settings.Scaler,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	camera := graphics.NewCamera(settings.FOV, settings.AspectRatio, settings.NearPlane, settings.FarPlane)
	r := &Renderer{
		device:        device,
		settings:      settings,
		logger:        logger,
		camera:        camera,
		frustum:       frustum.New(camera.ViewProjection(graphics.ProjectionGame)),
		cache:         cache,
		jobs:          batch.New(batch.Options{Slots: settings.Slots, Capacity: settings.JobCapacity}),
		viewportPW:    256,
		viewportPH:    256,
		viewportDirty: true,
		transforms:    []mgl32.Mat4{mgl32.Ident4()},
	}
	return r, nil
}

// Add initializes renderables and appends them to the frame list.
func (r *Renderer) Add(rs ...Renderable) error {
	for _, rd := range rs {
		if err := rd.Init(r); err != nil {
			return err
		}
		r.renderables = append(r.renderables, rd)
	}
	return nil
}

// Render sets up the game projection and runs every renderable.
func (r *Renderer) Render(dt float64) {
	defer profiling.Track("renderer.Render")()
	r.SetupProjection(graphics.ProjectionGame)
	ctx := RenderContext{
		Renderer: r,
		Camera:   r.camera,
		Frame:    r.frame,
		DT:       dt,
		View:     r.camera.GetViewMatrix(graphics.ProjectionGame),
		Proj:     r.camera.GetProjectionMatrix(graphics.ProjectionGame),
	}
	for _, rd := range r.renderables {
		rd.Render(ctx)
	}
	r.frame++
}

// Close disposes renderables in reverse order and releases the atlas.
func (r *Renderer) Close() {
	for i := len(r.renderables) - 1; i >= 0; i-- {
		r.renderables[i].Dispose()
	}
	r.renderables = nil
	r.cache.Close()
}

// Camera returns the camera instance
func (r *Renderer) Camera() *graphics.Camera {
	return r.camera
}

// Frustum returns the planes of the last game projection.
func (r *Renderer) Frustum() *frustum.Frustum {
	return r.frustum
}

// Cache returns the texture cache.
func (r *Renderer) Cache() *texcache.Cache {
	return r.cache
}

// Settings returns the settings the renderer was built with.
func (r *Renderer) Settings() *config.RenderSettings {
	return r.settings
}

// Resize records the window size; the viewport is applied on the next
// SetupProjection.
func (r *Renderer) Resize(w, h int) {
	r.width, r.height = w, h
	r.viewportDirty = true
}

// SetViewportScale shrinks the centered viewport to pw/256 by ph/256 of the
// window.
func (r *Renderer) SetViewportScale(pw, ph int) {
	r.viewportPW, r.viewportPH = pw, ph
	r.viewportDirty = true
}

func (r *Renderer) SetCameraPos(x, y, z, shift int) {
	r.camera.SetPosition(x, y, z, shift)
}

func (r *Renderer) SetCameraPitch(ry int) {
	r.camera.SetPitch(ry)
}

// SetupProjection prepares the transforms for mode. Game mode also clears
// the screen and re-extracts the frustum planes; menu mode only swaps in
// its fixed projection.
func (r *Renderer) SetupProjection(mode graphics.ProjectionMode) {
	if mode == graphics.ProjectionMenu {
		r.setBaseTransform(r.camera.ViewProjection(mode))
		return
	}
	r.device.Clear()
	if r.viewportDirty {
		r.viewportDirty = false
		vp := graphics.CenteredViewport(r.width, r.height, r.viewportPW, r.viewportPH)
		r.device.Viewport(vp.X, vp.Y, vp.W, vp.H)
	}
	if mode == graphics.ProjectionDefault {
		return
	}
	vp := r.camera.ViewProjection(mode)
	r.setBaseTransform(vp)
	r.frustum.Update(vp)
}

func (r *Renderer) setBaseTransform(m mgl32.Mat4) {
	r.transforms = r.transforms[:1]
	r.transforms[0] = m
	r.device.SetTransform(m)
}

// SetPalette replaces the first count palette entries from packed RGB
// triples and re-uploads every cached texture.
func (r *Renderer) SetPalette(rgb []byte, count int) error {
	if count < 0 || count > palette.Size || len(rgb) < 3*count {
		return fmt.Errorf("%w: %d entries from %d bytes", palette.ErrShortPalette, count, len(rgb))
	}
	for i := 0; i < count; i++ {
		cr, cg, cb := rgb[3*i], rgb[3*i+1], rgb[3*i+2]
		r.pal[i] = color.RGBA{R: cr, G: cg, B: cb, A: 0xff}
		r.colors.set(i, cr, cg, cb)
	}
	r.cache.SetPalette(&r.pal, true)
	return nil
}

// FlushCachedTextures drops every cached texture and starts a fresh atlas
// with the current palette. It fails while a batch is open, since buffered
// jobs still reference the old atlas surface.
func (r *Renderer) FlushCachedTextures() error {
	if r.jobs.Active() {
		return fmt.Errorf("renderer: flush textures: %w", batch.ErrBatchActive)
	}
	if err := r.cache.Flush(); err != nil {
		return err
	}
	r.cache.SetPalette(&r.pal, false)
	return nil
}

// BeginBatch opens a batch; draws are buffered until FlushBatch.
func (r *Renderer) BeginBatch() error {
	return r.jobs.Begin()
}

// FlushBatch submits the buffered draws under the current transform.
func (r *Renderer) FlushBatch() (batch.Stats, error) {
	return r.jobs.Flush(r.device)
}

// Batching reports whether a batch is open.
func (r *Renderer) Batching() bool {
	return r.jobs.Active()
}

// BeginObjectDraw pushes the transform of a model placed at fixed-point
// (x, y, z) turned by ry, and opens a batch when batching is enabled.
func (r *Renderer) BeginObjectDraw(x, y, z, ry, shift int) error {
	top := r.transforms[len(r.transforms)-1]
	m := top.Mul4(graphics.ObjectTransform(x, y, z, ry, shift))
	r.transforms = append(r.transforms, m)
	r.device.SetTransform(m)
	if !r.settings.Batching() {
		return nil
	}
	if err := r.jobs.Begin(); err != nil {
		r.popTransform()
		return err
	}
	return nil
}

// EndObjectDraw flushes the object's batch and pops its transform.
func (r *Renderer) EndObjectDraw() (batch.Stats, error) {
	var (
		st  batch.Stats
		err error
	)
	if r.jobs.Active() {
		st, err = r.jobs.Flush(r.device)
	}
	r.popTransform()
	return st, err
}

func (r *Renderer) popTransform() {
	if len(r.transforms) > 1 {
		r.transforms = r.transforms[:len(r.transforms)-1]
	}
	r.device.SetTransform(r.transforms[len(r.transforms)-1])
}

// IsQuadInFrustum reports whether any corner of q is inside the frustum.
func (r *Renderer) IsQuadInFrustum(q [4]mgl32.Vec3) bool {
	return r.frustum.IsQuadVisible(q)
}

// IsBoxInFrustum runs the per-plane box test on eight corners.
func (r *Renderer) IsBoxInFrustum(box [8]mgl32.Vec3) bool {
	return r.frustum.IsBoxVisible(box)
}

// report logs a skipped draw. Allocation failures are already logged by
// the cache.
func (r *Renderer) report(err error) error {
	if err != nil && !errors.Is(err, texcache.ErrNoCapacity) {
		r.logger.Printf("renderer: %v", err)
	}
	return err
}

// DrawPolygonFlat draws a convex polygon in a flat colour, which is either a
// palette index or a FlatColor constant.
func (r *Renderer) DrawPolygonFlat(verts []mgl32.Vec3, color int) error {
	c, err := r.colors.resolve(color)
	if err != nil {
		return r.report(err)
	}
	if r.jobs.Active() {
		return r.report(r.jobs.SubmitFlat(verts, c))
	}
	if len(verts) < 3 {
		return r.report(fmt.Errorf("%w: flat polygon with %d vertices", batch.ErrMalformedPolygon, len(verts)))
	}
	r.colored, _ = batch.AppendColoredFan(r.colored[:0], verts, c, len(verts))
	r.device.DrawColored(r.colored)
	profiling.Count("renderer.immediate", 1)
	return nil
}

// DrawPolygonTexture draws a polygon textured with the w×h indexed bitmap
// data, cached under key, with corners mapped by layout.
func (r *Renderer) DrawPolygonTexture(verts []mgl32.Vec3, layout batch.Layout, data []byte, w, h int, key int16) error {
	if len(verts) < 4 {
		return r.report(fmt.Errorf("%w: textured polygon with %d vertices", batch.ErrMalformedPolygon, len(verts)))
	}
	if !layout.Valid() {
		return r.report(fmt.Errorf("%w: %d", batch.ErrUnknownLayout, int(layout)))
	}
	tex, err := r.cache.GetCachedTexture(data, w, h, key)
	if err != nil {
		return r.report(err)
	}
	if r.jobs.Active() {
		return r.report(r.jobs.SubmitTextured(verts, layout, tex))
	}
	r.uvs = layout.UVs(r.uvs[:0], tex.UV)
	r.textured, _ = batch.AppendTexturedFan(r.textured[:0], verts[:len(r.uvs)], r.uvs, len(r.uvs))
	r.device.DrawTextured(tex.Surface, r.textured)
	profiling.Count("renderer.immediate", 1)
	return nil
}
