// Package atlas packs rectangles into one fixed-size square surface with a
// guillotine binary tree. Space is only ever reclaimed by Reset.
package atlas

import "fmt"

// Rect is a rectangle in atlas texel space.
type Rect struct {
	X, Y int
	W, H int
}

// Area returns W*H.
func (r Rect) Area() int {
	return r.W * r.H
}

// Overlaps reports whether r and o share at least one texel.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

// NodeID indexes a node in the allocator arena.
type NodeID int32

// NoNode marks an absent child.
const NoNode NodeID = -1

type node struct {
	rect     Rect
	occupied bool
	children [2]NodeID
}

// Allocator is a first-fit guillotine packer over a size×size surface.
// Nodes live in a flat arena and reference their children by index.
type Allocator struct {
	size  int
	nodes []node
	used  int
}

// New returns an allocator with a single free root covering the surface.
func New(size int) (*Allocator, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	a := &Allocator{size: size}
	a.Reset()
	return a, nil
}

// Reset drops every node and recreates a fully free root.
func (a *Allocator) Reset() {
	a.nodes = a.nodes[:0]
	a.used = 0
	a.newNode(Rect{0, 0, a.size, a.size})
}

// Size returns the surface edge length.
func (a *Allocator) Size() int {
	return a.size
}

// Used returns the occupied area in texels.
func (a *Allocator) Used() int {
	return a.used
}

// Len returns the number of nodes in the arena.
func (a *Allocator) Len() int {
	return len(a.nodes)
}

// Root returns the root node handle.
func (a *Allocator) Root() NodeID {
	return 0
}

// Node returns the rectangle and occupancy of id.
func (a *Allocator) Node(id NodeID) (Rect, bool) {
	n := &a.nodes[id]
	return n.rect, n.occupied
}

// Children returns the two child handles of id, NoNode for a leaf.
func (a *Allocator) Children(id NodeID) (NodeID, NodeID) {
	n := &a.nodes[id]
	return n.children[0], n.children[1]
}

func (a *Allocator) newNode(r Rect) NodeID {
	a.nodes = append(a.nodes, node{rect: r, children: [2]NodeID{NoNode, NoNode}})
	return NodeID(len(a.nodes) - 1)
}

// FindFreeNode searches depth first, left child before right, for the first
// unoccupied node at least w×h. There is no best-fit scoring.
func (a *Allocator) FindFreeNode(w, h int) (NodeID, bool) {
	return a.find(0, w, h)
}

func (a *Allocator) find(id NodeID, w, h int) (NodeID, bool) {
	n := &a.nodes[id]
	if !n.occupied && n.rect.W >= w && n.rect.H >= h {
		return id, true
	}
	for _, c := range n.children {
		if c == NoNode {
			continue
		}
		if found, ok := a.find(c, w, h); ok {
			return found, true
		}
	}
	return NoNode, false
}

// SplitNode places a w×h rectangle at the origin of id. The node shrinks to
// the placed size and becomes occupied; its two new children partition the
// vacated space, cut along the axis with the larger slack.
func (a *Allocator) SplitNode(id NodeID, w, h int) {
	r := a.nodes[id].rect
	dw := r.W - w
	dh := r.H - h

	var c0, c1 Rect
	if dw > dh {
		c0 = Rect{r.X + w, r.Y, r.W - w, h}
		c1 = Rect{r.X, r.Y + h, r.W, r.H - h}
	} else {
		c0 = Rect{r.X, r.Y + h, w, r.H - h}
		c1 = Rect{r.X + w, r.Y, r.W - w, r.H}
	}
	// newNode may grow the arena, so index after appending.
	first := a.newNode(c0)
	second := a.newNode(c1)

	n := &a.nodes[id]
	n.children = [2]NodeID{first, second}
	n.rect.W = w
	n.rect.H = h
	n.occupied = true
	a.used += w * h
}

// Allocate reserves a w×h rectangle, or returns ErrNoFit.
func (a *Allocator) Allocate(w, h int) (Rect, error) {
	if w <= 0 || h <= 0 {
		return Rect{}, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	id, ok := a.FindFreeNode(w, h)
	if !ok {
		return Rect{}, fmt.Errorf("%w: %dx%d in %dx%d atlas", ErrNoFit, w, h, a.size, a.size)
	}
	a.SplitNode(id, w, h)
	r, _ := a.Node(id)
	return r, nil
}
