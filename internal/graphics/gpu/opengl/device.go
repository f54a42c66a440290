// Package opengl implements gpu.Device on an OpenGL 4.1 core context.
// All methods must be called from the thread that owns the context.
package opengl

import (
	"fmt"
	"log"

	"ftb-render/internal/graphics/atlas"
	"ftb-render/internal/graphics/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// stream is a VAO plus a growable VBO for one vertex layout.
type stream struct {
	vao, vbo      uint32
	capacityBytes int
}

// Device draws through the current OpenGL context.
type Device struct {
	colored  *program
	textured *program

	colorStream    stream
	texturedStream stream

	transform mgl32.Mat4
	surfaces  map[gpu.SurfaceID]int
}

// New compiles the shader programs and sets up blend, depth and vertex state.
// gl.Init must already have been called for the current context.
func New() (*Device, error) {
	colored, err := newProgram(colorVertSrc, colorFragSrc)
	if err != nil {
		return nil, fmt.Errorf("opengl: colored program: %w", err)
	}
	textured, err := newProgram(texturedVertSrc, texturedFragSrc)
	if err != nil {
		gl.DeleteProgram(colored.id)
		return nil, fmt.Errorf("opengl: textured program: %w", err)
	}

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Enable(gl.DEPTH_TEST)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	d := &Device{
		colored:   colored,
		textured:  textured,
		transform: mgl32.Ident4(),
		surfaces:  make(map[gpu.SurfaceID]int),
	}
	d.colorStream = newStream(func() {
		stride := int32(gpu.ColorVertexFloats * 4)
		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
		gl.EnableVertexAttribArray(1)
		gl.VertexAttribPointerWithOffset(1, 4, gl.FLOAT, false, stride, 3*4)
	})
	d.texturedStream = newStream(func() {
		stride := int32(gpu.TexturedVertexFloats * 4)
		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
		gl.EnableVertexAttribArray(1)
		gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 3*4)
	})

	gl.UseProgram(textured.id)
	gl.Uniform1i(gl.GetUniformLocation(textured.id, gl.Str("uAtlas\x00")), 0)
	gl.UseProgram(0)
	glCheckError("opengl.New")
	return d, nil
}

func newStream(layout func()) stream {
	var s stream
	gl.GenVertexArrays(1, &s.vao)
	gl.GenBuffers(1, &s.vbo)
	gl.BindVertexArray(s.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	layout()
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return s
}

// upload orphans the buffer when it must grow, then writes bytes at offset 0.
func (s *stream) upload(ptrBytes int, write func()) {
	gl.BindVertexArray(s.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, s.vbo)
	if ptrBytes > s.capacityBytes {
		newCap := max(s.capacityBytes*2, ptrBytes)
		gl.BufferData(gl.ARRAY_BUFFER, newCap, nil, gl.STREAM_DRAW)
		s.capacityBytes = newCap
	}
	write()
}

func glCheckError(label string) {
	if err := gl.GetError(); err != gl.NO_ERROR {
		log.Printf("opengl: gl error %s: 0x%x", label, err)
	}
}

func (d *Device) CreateSurface(size int) (gpu.SurfaceID, error) {
	var maxSize int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)
	if size <= 0 || int32(size) > maxSize {
		return 0, fmt.Errorf("opengl: surface size %d outside 1..%d", size, maxSize)
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB5_A1, int32(size), int32(size), 0, gl.RGBA, gl.UNSIGNED_SHORT_5_5_5_1, nil)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	glCheckError("CreateSurface")

	id := gpu.SurfaceID(tex)
	d.surfaces[id] = size
	return id, nil
}

func (d *Device) UploadSurface(id gpu.SurfaceID, r atlas.Rect, pix []uint16) {
	if len(pix) < r.W*r.H || r.W <= 0 || r.H <= 0 {
		return
	}
	gl.BindTexture(gl.TEXTURE_2D, uint32(id))
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, int32(r.X), int32(r.Y), int32(r.W), int32(r.H), gl.RGBA, gl.UNSIGNED_SHORT_5_5_5_1, gl.Ptr(pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	glCheckError("UploadSurface")
}

func (d *Device) DeleteSurface(id gpu.SurfaceID) {
	if _, ok := d.surfaces[id]; !ok {
		return
	}
	tex := uint32(id)
	gl.DeleteTextures(1, &tex)
	delete(d.surfaces, id)
}

func (d *Device) SetTransform(m mgl32.Mat4) {
	d.transform = m
}

func (d *Device) DrawColored(verts []gpu.ColorVertex) {
	if len(verts) == 0 {
		return
	}
	gl.UseProgram(d.colored.id)
	gl.UniformMatrix4fv(d.colored.transform, 1, false, &d.transform[0])
	bytes := len(verts) * gpu.ColorVertexFloats * 4
	d.colorStream.upload(bytes, func() {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, bytes, gl.Ptr(verts))
	})
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(verts)))
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (d *Device) DrawTextured(id gpu.SurfaceID, verts []gpu.TexturedVertex) {
	if len(verts) == 0 {
		return
	}
	gl.UseProgram(d.textured.id)
	gl.UniformMatrix4fv(d.textured.transform, 1, false, &d.transform[0])
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, uint32(id))
	bytes := len(verts) * gpu.TexturedVertexFloats * 4
	d.texturedStream.upload(bytes, func() {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, bytes, gl.Ptr(verts))
	})
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(verts)))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (d *Device) Clear() {
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) Viewport(x, y, w, h int) {
	gl.Viewport(int32(x), int32(y), int32(w), int32(h))
}

// Dispose releases every GL object the device created.
func (d *Device) Dispose() {
	for id := range d.surfaces {
		d.DeleteSurface(id)
	}
	for _, s := range []*stream{&d.colorStream, &d.texturedStream} {
		gl.DeleteBuffers(1, &s.vbo)
		gl.DeleteVertexArrays(1, &s.vao)
	}
	gl.DeleteProgram(d.colored.id)
	gl.DeleteProgram(d.textured.id)
}

var _ gpu.Device = (*Device)(nil)
