package graphics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ProjectionMode selects how SetupProjection configures the transforms.
type ProjectionMode int

const (
	// ProjectionDefault only refreshes the viewport.
	ProjectionDefault ProjectionMode = iota
	// ProjectionGame is the in-game perspective following the camera.
	ProjectionGame
	// ProjectionMenu is a fixed close-up view with a short far plane.
	ProjectionMenu
)

func (m ProjectionMode) String() string {
	switch m {
	case ProjectionGame:
		return "game"
	case ProjectionMenu:
		return "menu"
	default:
		return "default"
	}
}

const (
	// EyeHeight is the fixed camera height used by the game view.
	EyeHeight = 24

	projectionTilt     = 20 // degrees about X
	projectionDistance = 24
	menuFarPlane       = 128
	menuDistance       = 64
)

// Camera handles the view and projection matrices
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32

	Position mgl32.Vec3
	Pitch    float32 // degrees about Y
}

func NewCamera(fov, aspect, near, far float32) *Camera {
	return &Camera{
		AspectRatio: aspect,
		FOV:         fov,
		NearPlane:   near,
		FarPlane:    far,
	}
}

// FixedToFloat converts a fixed-point coordinate with shift fractional bits.
func FixedToFloat(v, shift int) float32 {
	return float32(v) / float32(int(1)<<shift)
}

// AngleToDegrees converts a 1024-step angle to degrees.
func AngleToDegrees(ry int) float32 {
	return float32(ry) * 360 / 1024
}

// SetPosition places the camera from fixed-point world coordinates.
func (c *Camera) SetPosition(x, y, z, shift int) {
	c.Position = mgl32.Vec3{FixedToFloat(x, shift), FixedToFloat(y, shift), FixedToFloat(z, shift)}
}

// SetPitch sets the heading from a 1024-step angle.
func (c *Camera) SetPitch(ry int) {
	c.Pitch = AngleToDegrees(ry)
}

// GetProjectionMatrix returns the perspective for mode. The projection
// includes the fixed pull-back and downward tilt of the game view.
func (c *Camera) GetProjectionMatrix(mode ProjectionMode) mgl32.Mat4 {
	far := c.FarPlane
	if mode == ProjectionMenu {
		far = menuFarPlane
	}
	proj := mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, far)
	proj = proj.Mul4(mgl32.Translate3D(0, 0, -projectionDistance))
	return proj.Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(projectionTilt)))
}

// GetViewMatrix returns the world-to-eye transform for mode. The eye height
// is fixed at EyeHeight regardless of Position.Y.
func (c *Camera) GetViewMatrix(mode ProjectionMode) mgl32.Mat4 {
	if mode == ProjectionMenu {
		return mgl32.Scale3D(1, -0.5, 1).Mul4(mgl32.Translate3D(0, 0, -menuDistance))
	}
	view := mgl32.Scale3D(1, -0.5, -1)
	view = view.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(c.Pitch)))
	return view.Mul4(mgl32.Translate3D(-c.Position.X(), -EyeHeight, -c.Position.Z()))
}

// ViewProjection returns projection * view for mode.
func (c *Camera) ViewProjection(mode ProjectionMode) mgl32.Mat4 {
	return c.GetProjectionMatrix(mode).Mul4(c.GetViewMatrix(mode))
}

// ObjectTransform places a model at fixed-point (x, y, z), turned by the
// 1024-step angle ry, with the model-space scale of 1/8 horizontally and
// 1/2 vertically.
func ObjectTransform(x, y, z, ry, shift int) mgl32.Mat4 {
	m := mgl32.Translate3D(FixedToFloat(x, shift), FixedToFloat(y, shift), FixedToFloat(z, shift))
	m = m.Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(AngleToDegrees(ry))))
	return m.Mul4(mgl32.Scale3D(1.0/8, 1.0/2, 1.0/8))
}

// Viewport is a pixel rectangle inside the window.
type Viewport struct {
	X, Y, W, H int
}

// CenteredViewport scales the window by pw/256 and ph/256 and centers it.
func CenteredViewport(w, h, pw, ph int) Viewport {
	vw := w * pw >> 8
	vh := h * ph >> 8
	return Viewport{X: (w - vw) / 2, Y: (h - vh) / 2, W: vw, H: vh}
}
