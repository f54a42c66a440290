package batch

import (
	"ftb-render/internal/graphics/texcache"

	"github.com/go-gl/mathgl/mgl32"
)

// Layout identifies how polygon corners map onto a texture's UV rectangle.
type Layout int

// LayoutCount is the number of recognized layouts (0..10).
const LayoutCount = 11

type uAnchor uint8

const (
	uMin uAnchor = iota
	uMid
	uMax
)

type vAnchor uint8

const (
	vMin vAnchor = iota
	vMax
)

type anchor struct {
	u uAnchor
	v vAnchor
}

// Corner order per layout. Triangles put their apex on the horizontal midpoint.
//
//	0,2: 1 2    1: . 1 .   3,5: 4 1    4: . 3 .   6,8: 3 4    7: . 2 .   9,10: 2 3
//	     4 3       3 . 2        3 2       2 . 1        2 1       1 . 3         1 4
var layoutTable = [LayoutCount][]anchor{
	0:  {{uMin, vMin}, {uMax, vMin}, {uMax, vMax}, {uMin, vMax}},
	1:  {{uMid, vMin}, {uMax, vMax}, {uMin, vMax}},
	2:  {{uMin, vMin}, {uMax, vMin}, {uMax, vMax}, {uMin, vMax}},
	3:  {{uMax, vMin}, {uMax, vMax}, {uMin, vMax}, {uMin, vMin}},
	4:  {{uMax, vMax}, {uMin, vMax}, {uMid, vMin}},
	5:  {{uMax, vMin}, {uMax, vMax}, {uMin, vMax}, {uMin, vMin}},
	6:  {{uMax, vMax}, {uMin, vMax}, {uMin, vMin}, {uMax, vMin}},
	7:  {{uMin, vMax}, {uMid, vMin}, {uMax, vMax}},
	8:  {{uMax, vMax}, {uMin, vMax}, {uMin, vMin}, {uMax, vMin}},
	9:  {{uMin, vMin}, {uMin, vMax}, {uMax, vMax}, {uMax, vMin}},
	10: {{uMin, vMin}, {uMin, vMax}, {uMax, vMax}, {uMax, vMin}},
}

// Valid reports whether l is in the table.
func (l Layout) Valid() bool {
	return l >= 0 && l < LayoutCount
}

// Corners returns how many polygon vertices the layout textures: 3 or 4.
// It returns 0 for an unrecognized layout.
func (l Layout) Corners() int {
	if !l.Valid() {
		return 0
	}
	return len(layoutTable[l])
}

// UVs appends the per-corner texture coordinates of l within uv to dst.
func (l Layout) UVs(dst []mgl32.Vec2, uv texcache.UVRect) []mgl32.Vec2 {
	if !l.Valid() {
		return dst
	}
	us := [3]float32{uv.U0, (uv.U0 + uv.U1) / 2, uv.U1}
	vs := [2]float32{uv.V0, uv.V1}
	for _, a := range layoutTable[l] {
		dst = append(dst, mgl32.Vec2{us[a.u], vs[a.v]})
	}
	return dst
}
