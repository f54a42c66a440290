// Package frustum extracts view-frustum planes and runs conservative
// visibility tests against them.
package frustum

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Plane is a*x + b*y + c*z + d = 0 with a unit-length normal pointing inside.
type Plane struct {
	A, B, C, D float32
}

// Distance returns the signed distance from p to the plane.
func (pl Plane) Distance(p mgl32.Vec3) float32 {
	return pl.A*p[0] + pl.B*p[1] + pl.C*p[2] + pl.D
}

// Plane order in Planes.
const (
	Left = iota
	Right
	Bottom
	Top
	Near
	Far
)

// Frustum holds the six planes of the current view-projection.
type Frustum struct {
	planes [6]Plane
}

// New returns a frustum extracted from viewProj.
func New(viewProj mgl32.Mat4) *Frustum {
	f := &Frustum{}
	f.Update(viewProj)
	return f
}

// Update re-extracts the planes. Call it whenever the camera or projection
// changes and before the frame's visibility tests.
func (f *Frustum) Update(clip mgl32.Mat4) {
	// mgl32 matrices are column-major
	m00, m01, m02, m03 := clip[0], clip[4], clip[8], clip[12]
	m10, m11, m12, m13 := clip[1], clip[5], clip[9], clip[13]
	m20, m21, m22, m23 := clip[2], clip[6], clip[10], clip[14]
	m30, m31, m32, m33 := clip[3], clip[7], clip[11], clip[15]

	f.planes[Left] = normalize(Plane{m30 + m00, m31 + m01, m32 + m02, m33 + m03})
	f.planes[Right] = normalize(Plane{m30 - m00, m31 - m01, m32 - m02, m33 - m03})
	f.planes[Bottom] = normalize(Plane{m30 + m10, m31 + m11, m32 + m12, m33 + m13})
	f.planes[Top] = normalize(Plane{m30 - m10, m31 - m11, m32 - m12, m33 - m13})
	f.planes[Near] = normalize(Plane{m30 + m20, m31 + m21, m32 + m22, m33 + m23})
	f.planes[Far] = normalize(Plane{m30 - m20, m31 - m21, m32 - m22, m33 - m23})
}

func normalize(p Plane) Plane {
	n := float32(math.Sqrt(float64(p.A*p.A + p.B*p.B + p.C*p.C)))
	if n == 0 {
		return p
	}
	return Plane{p.A / n, p.B / n, p.C / n, p.D / n}
}

// Planes returns left, right, bottom, top, near and far in that order.
func (f *Frustum) Planes() [6]Plane {
	return f.planes
}

// ContainsPoint reports whether p is strictly inside every plane.
func (f *Frustum) ContainsPoint(p mgl32.Vec3) bool {
	for i := range f.planes {
		if f.planes[i].Distance(p) <= 0 {
			return false
		}
	}
	return true
}

// IsQuadVisible reports whether any corner lies inside the frustum.
// Quads that cross the frustum with every corner outside are reported
// invisible.
func (f *Frustum) IsQuadVisible(q [4]mgl32.Vec3) bool {
	for _, p := range q {
		if f.ContainsPoint(p) {
			return true
		}
	}
	return false
}

// IsBoxVisible reports false only when all eight corners are outside one
// plane. Boxes near a frustum corner may pass without intersecting it.
func (f *Frustum) IsBoxVisible(box [8]mgl32.Vec3) bool {
	for i := range f.planes {
		inside := false
		for _, p := range box {
			if f.planes[i].Distance(p) > 0 {
				inside = true
				break
			}
		}
		if !inside {
			return false
		}
	}
	return true
}

// IntersectsAABB tests an axis-aligned box using the corner furthest along
// each plane normal.
func (f *Frustum) IntersectsAABB(min, max mgl32.Vec3) bool {
	for i := range f.planes {
		p := f.planes[i]
		px := max.X()
		if p.A < 0 {
			px = min.X()
		}
		py := max.Y()
		if p.B < 0 {
			py = min.Y()
		}
		pz := max.Z()
		if p.C < 0 {
			pz = min.Z()
		}
		if p.A*px+p.B*py+p.C*pz+p.D < 0 {
			return false
		}
	}
	return true
}

// BoxCorners expands an axis-aligned box into its eight corners.
func BoxCorners(min, max mgl32.Vec3) [8]mgl32.Vec3 {
	return [8]mgl32.Vec3{
		{min[0], min[1], min[2]},
		{max[0], min[1], min[2]},
		{min[0], max[1], min[2]},
		{max[0], max[1], min[2]},
		{min[0], min[1], max[2]},
		{max[0], min[1], max[2]},
		{min[0], max[1], max[2]},
		{max[0], max[1], max[2]},
	}
}
