// Package viewer holds the demo content and frame pacing used by the
// ftb-viewer command.
package viewer

import (
	"log"
	"math"

	"ftb-render/internal/graphics"
	"ftb-render/internal/graphics/batch"
	"ftb-render/internal/graphics/frustum"
	"ftb-render/internal/graphics/palette"
	"ftb-render/internal/graphics/renderer"
	"ftb-render/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	bitmapSize  = 32
	animKey     = 100
	positionFix = 4 // fractional bits of the camera position

	corridorHalfWidth = 16
	wallLength        = 8
	wallHeight        = 48
)

// SceneOptions sizes the demo.
type SceneOptions struct {
	Segments int // wall pairs along the corridor
	Props    int // spinning boxes drawn as objects
	Logger   *log.Logger
}

type wall struct {
	quad   [4]mgl32.Vec3
	layout batch.Layout
	key    int16
}

type prop struct {
	x, y, z int // fixed point, positionFix fractional bits
	ry      int
	color   int
}

// Scene is a corridor of textured walls with flat-shaded boxes, drawn
// through a renderer. Walls outside the frustum are skipped.
type Scene struct {
	opts   SceneOptions
	logger *log.Logger

	r       *renderer.Renderer
	bitmaps [][]byte
	anim    []byte
	walls   []wall
	props   []prop

	camX, camZ int // fixed point
	heading    int // 1024 steps per turn
	culling    bool

	visibleWalls int
	visibleProps int
}

func NewScene(opts SceneOptions) *Scene {
	if opts.Segments <= 0 {
		opts.Segments = 16
	}
	if opts.Props < 0 {
		opts.Props = 0
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Scene{opts: opts, logger: logger, culling: true}
}

// Init uploads the palette and builds the geometry.
func (s *Scene) Init(r *renderer.Renderer) error {
	s.r = r
	if err := s.applyPalette(); err != nil {
		return err
	}
	s.bitmaps = [][]byte{checker(), stripes(), rings(), noise(1)}
	s.anim = make([]byte, bitmapSize*bitmapSize)

	s.walls = s.walls[:0]
	for i := 0; i < s.opts.Segments; i++ {
		z0 := float32(wallLength * (i + 1))
		z1 := z0 + wallLength
		for side, x := range [2]float32{-corridorHalfWidth, corridorHalfWidth} {
			n := 2*i + side
			s.walls = append(s.walls, wall{
				quad:   [4]mgl32.Vec3{{x, 0, z0}, {x, 0, z1}, {x, wallHeight, z1}, {x, wallHeight, z0}},
				layout: batch.Layout(n % batch.LayoutCount),
				key:    int16(n % len(s.bitmaps)),
			})
		}
	}
	s.props = s.props[:0]
	for i := 0; i < s.opts.Props; i++ {
		s.props = append(s.props, prop{
			x:     ((i%3)*8 - 8) << positionFix,
			z:     (wallLength*2 + i*12) << positionFix,
			ry:    i * 128,
			color: propColors[i%len(propColors)],
		})
	}
	s.updateCamera()
	return nil
}

var propColors = []int{
	renderer.FlatColorRed,
	renderer.FlatColorGreen,
	renderer.FlatColorYellow,
	renderer.FlatColorBlue,
	200,
}

// applyPalette loads a ramp; index 0 stays black.
func (s *Scene) applyPalette() error {
	rgb := make([]byte, 3*palette.Size)
	for i := 1; i < palette.Size; i++ {
		rgb[3*i] = byte(i)
		rgb[3*i+1] = byte(255 - i)
		rgb[3*i+2] = byte(i * 7)
	}
	return s.r.SetPalette(rgb, palette.Size)
}

// FlushTextures drops the atlas; textures are re-created on the next frame.
func (s *Scene) FlushTextures() error {
	return s.r.FlushCachedTextures()
}

// Turn rotates the heading by steps of 1/1024 turn.
func (s *Scene) Turn(steps int) {
	s.heading = (s.heading + steps) & 1023
	s.updateCamera()
}

// Move walks along the heading by dist world units.
func (s *Scene) Move(dist float32) {
	a := float64(mgl32.DegToRad(graphics.AngleToDegrees(s.heading)))
	s.camX += int(-math.Sin(a) * float64(dist) * (1 << positionFix))
	s.camZ += int(math.Cos(a) * float64(dist) * (1 << positionFix))
	s.updateCamera()
}

func (s *Scene) updateCamera() {
	if s.r == nil {
		return
	}
	s.r.SetCameraPos(s.camX, 0, s.camZ, positionFix)
	s.r.SetCameraPitch(s.heading)
}

// SetCulling toggles frustum rejection of walls and props.
func (s *Scene) SetCulling(on bool) {
	s.culling = on
}

func (s *Scene) Culling() bool {
	return s.culling
}

// Visible returns how many walls and props were drawn by the last Render.
func (s *Scene) Visible() (walls, props int) {
	return s.visibleWalls, s.visibleProps
}

// Render draws the corridor and the props for one frame.
func (s *Scene) Render(ctx renderer.RenderContext) {
	defer profiling.Track("scene.Render")()
	r := ctx.Renderer

	s.animate(ctx.Frame)

	batched := r.Settings().Batching()
	if batched {
		if err := r.BeginBatch(); err != nil {
			s.logger.Printf("viewer: %v", err)
			batched = false
		}
	}
	s.visibleWalls = 0
	for i := range s.walls {
		w := &s.walls[i]
		if s.culling && !r.IsQuadInFrustum(w.quad) {
			continue
		}
		s.visibleWalls++
		_ = r.DrawPolygonTexture(w.quad[:], w.layout, s.bitmaps[w.key], bitmapSize, bitmapSize, w.key)
	}
	s.drawBanner(r)
	if batched {
		if _, err := r.FlushBatch(); err != nil {
			s.logger.Printf("viewer: %v", err)
		}
	}
	profiling.Count("scene.walls", s.visibleWalls)

	s.visibleProps = 0
	for i := range s.props {
		p := &s.props[i]
		p.ry = (p.ry + 4) & 1023
		if s.culling && !r.IsBoxInFrustum(p.corners()) {
			continue
		}
		s.visibleProps++
		s.drawProp(r, p)
	}
	profiling.Count("scene.props", s.visibleProps)
}

// animate scrolls the banner bitmap and re-uploads it in place.
func (s *Scene) animate(frame uint64) {
	for y := 0; y < bitmapSize; y++ {
		for x := 0; x < bitmapSize; x++ {
			s.anim[y*bitmapSize+x] = byte(1 + (x+y+int(frame))%254)
		}
	}
	cache := s.r.Cache()
	t, err := cache.GetCachedTexture(s.anim, bitmapSize, bitmapSize, animKey)
	if err != nil {
		return
	}
	if err := cache.UpdateTexture(t, s.anim, bitmapSize, bitmapSize); err != nil {
		s.logger.Printf("viewer: %v", err)
	}
}

// drawBanner hangs the animated texture across the far end of the corridor.
func (s *Scene) drawBanner(r *renderer.Renderer) {
	z := float32(wallLength * (s.opts.Segments + 1))
	q := [4]mgl32.Vec3{
		{-corridorHalfWidth, wallHeight, z},
		{corridorHalfWidth, wallHeight, z},
		{corridorHalfWidth, 0, z},
		{-corridorHalfWidth, 0, z},
	}
	if s.culling && !r.IsQuadInFrustum(q) {
		return
	}
	_ = r.DrawPolygonTexture(q[:], 0, s.anim, bitmapSize, bitmapSize, animKey)
}

// Box model in object space; the object transform scales it to 8x16x8.
var (
	boxMin = mgl32.Vec3{-32, 0, -32}
	boxMax = mgl32.Vec3{32, 32, 32}
)

var boxFaces = [6][4]int{
	{0, 1, 3, 2}, // bottom
	{4, 6, 7, 5}, // top
	{0, 4, 5, 1}, // front
	{2, 3, 7, 6}, // back
	{0, 2, 6, 4}, // left
	{1, 5, 7, 3}, // right
}

func (p *prop) corners() [8]mgl32.Vec3 {
	m := graphics.ObjectTransform(p.x, p.y, p.z, p.ry, positionFix)
	local := frustum.BoxCorners(boxMin, boxMax)
	var out [8]mgl32.Vec3
	for i, c := range local {
		out[i] = m.Mul4x1(c.Vec4(1)).Vec3()
	}
	return out
}

func (s *Scene) drawProp(r *renderer.Renderer, p *prop) {
	if err := r.BeginObjectDraw(p.x, p.y, p.z, p.ry, positionFix); err != nil {
		s.logger.Printf("viewer: %v", err)
		return
	}
	local := frustum.BoxCorners(boxMin, boxMax)
	var face [4]mgl32.Vec3
	for i, f := range boxFaces {
		for j, k := range f {
			face[j] = local[k]
		}
		color := p.color
		if i < 2 {
			color = renderer.FlatColorShadow
		}
		_ = r.DrawPolygonFlat(face[:], color)
	}
	if _, err := r.EndObjectDraw(); err != nil {
		s.logger.Printf("viewer: %v", err)
	}
}

// Dispose releases nothing; the textures live in the renderer's cache.
func (s *Scene) Dispose() {
	s.r = nil
}

func checker() []byte {
	b := make([]byte, bitmapSize*bitmapSize)
	for y := 0; y < bitmapSize; y++ {
		for x := 0; x < bitmapSize; x++ {
			if (x/8+y/8)%2 == 0 {
				b[y*bitmapSize+x] = 40
			} else {
				b[y*bitmapSize+x] = 180
			}
		}
	}
	return b
}

func stripes() []byte {
	b := make([]byte, bitmapSize*bitmapSize)
	for y := 0; y < bitmapSize; y++ {
		for x := 0; x < bitmapSize; x++ {
			b[y*bitmapSize+x] = byte(16 + (y/4)*28)
		}
	}
	return b
}

func rings() []byte {
	b := make([]byte, bitmapSize*bitmapSize)
	c := float64(bitmapSize-1) / 2
	for y := 0; y < bitmapSize; y++ {
		for x := 0; x < bitmapSize; x++ {
			d := math.Hypot(float64(x)-c, float64(y)-c)
			b[y*bitmapSize+x] = byte(1 + int(d*12)%255)
		}
	}
	return b
}

// noise is a fixed xorshift pattern; index 0 pixels are transparent.
func noise(seed uint32) []byte {
	b := make([]byte, bitmapSize*bitmapSize)
	v := seed
	for i := range b {
		v ^= v << 13
		v ^= v >> 17
		v ^= v << 5
		b[i] = byte(v)
	}
	return b
}
