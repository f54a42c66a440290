package batch

import (
	"ftb-render/internal/graphics/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Fan returns the corner indices of the n-2 triangles of a convex n-gon,
// each sharing corner 0.
func Fan(n int) [][3]int {
	if n < 3 {
		return nil
	}
	tris := make([][3]int, 0, n-2)
	for i := 2; i < n; i++ {
		tris = append(tris, [3]int{0, i - 1, i})
	}
	return tris
}

// AppendColoredFan appends up to limit fan triangles of verts with a constant
// colour and returns the extended slice and the number of triangles written.
func AppendColoredFan(dst []gpu.ColorVertex, verts []mgl32.Vec3, c mgl32.Vec4, limit int) ([]gpu.ColorVertex, int) {
	n := 0
	for i := 2; i < len(verts) && n < limit; i++ {
		dst = append(dst,
			gpu.ColorVertex{Pos: verts[0], Color: c},
			gpu.ColorVertex{Pos: verts[i-1], Color: c},
			gpu.ColorVertex{Pos: verts[i], Color: c},
		)
		n++
	}
	return dst, n
}

// AppendTexturedFan is AppendColoredFan for textured corners; verts and uvs
// must have the same length.
func AppendTexturedFan(dst []gpu.TexturedVertex, verts []mgl32.Vec3, uvs []mgl32.Vec2, limit int) ([]gpu.TexturedVertex, int) {
	n := 0
	for i := 2; i < len(verts) && n < limit; i++ {
		dst = append(dst,
			gpu.TexturedVertex{Pos: verts[0], UV: uvs[0]},
			gpu.TexturedVertex{Pos: verts[i-1], UV: uvs[i-1]},
			gpu.TexturedVertex{Pos: verts[i], UV: uvs[i]},
		)
		n++
	}
	return dst, n
}
