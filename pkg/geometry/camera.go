package geometry

import (
	"math"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
)

// lookAtEpsilon is float64 machine epsilon; smaller deltas are not normalized
const lookAtEpsilon = 2.220446049250313e-16

// CameraConfig contains the parameters a camera is created from
type CameraConfig struct {
	Position    core.Vec3 // Eye position
	LookAt      core.Vec3 // Initial target; ignored when equal to Position
	AspectRatio float64   // Width / height
	VFov        float64   // Vertical field of view in degrees
	NearPlane   float64   // Distance from the eye to the viewport plane
}

// DefaultCameraConfig returns a camera five units behind the origin looking at it
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Position:    core.NewVec3(0, 0, -5),
		LookAt:      core.NewVec3(0, 0, 0),
		AspectRatio: 4.0 / 3.0,
		VFov:        90.0,
		NearPlane:   1.0,
	}
}

// Camera is a free-flying pinhole camera oriented by pitch, yaw and roll.
// It is read only by the goroutine that builds the frame's Viewport.
type Camera struct {
	position    core.Vec3
	rotation    core.Vec3 // pitch, yaw, roll in radians
	aspectRatio float64
	fovY        float64 // radians
	fovX        float64 // radians, derived from fovY and aspectRatio
	nearPlane   float64
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	c := &Camera{
		position:  config.Position,
		fovY:      config.VFov * math.Pi / 180.0,
		nearPlane: config.NearPlane,
	}
	c.SetAspectRatio(config.AspectRatio)

	if config.LookAt.Subtract(config.Position).LengthSquared() > lookAtEpsilon {
		c.LookAt(config.LookAt)
	}
	return c
}

// LookAt orients the camera so that forward points from its position to target.
// Roll is reset. Calling it with target == position leaves the orientation undefined.
func (c *Camera) LookAt(target core.Vec3) {
	delta := target.Subtract(c.position)
	if delta.LengthSquared() > lookAtEpsilon {
		delta = delta.Normalize()
	}

	yaw := math.Atan2(delta.X, delta.Z)
	pitch := math.Asin(math.Max(-1, math.Min(1, delta.Y)))

	c.rotation = core.NewVec3(pitch, yaw, 0)
}

// MoveBy translates the camera
func (c *Camera) MoveBy(offset core.Vec3) {
	c.position = c.position.Add(offset)
}

// RotateBy adds (pitch, yaw, roll) to the current rotation. Pitch is not clamped.
func (c *Camera) RotateBy(offset core.Vec3) {
	c.rotation = c.rotation.Add(offset)
}

func (c *Camera) Position() core.Vec3  { return c.position }
func (c *Camera) Rotation() core.Vec3  { return c.rotation }
func (c *Camera) AspectRatio() float64 { return c.aspectRatio }
func (c *Camera) NearPlane() float64   { return c.nearPlane }
func (c *Camera) FovX() float64        { return c.fovX }
func (c *Camera) FovY() float64        { return c.fovY }

// SetAspectRatio updates the aspect ratio and the derived horizontal field of view.
// Call it whenever the output width or height changes.
func (c *Camera) SetAspectRatio(aspectRatio float64) {
	c.aspectRatio = aspectRatio
	c.fovX = 2 * math.Atan(aspectRatio*math.Tan(c.fovY/2))
}

// SetFovY sets the vertical field of view in radians
func (c *Camera) SetFovY(fovY float64) {
	c.fovY = fovY
	c.SetAspectRatio(c.aspectRatio)
}

// ViewportHeight returns the world-space height of the viewport on the near plane
func (c *Camera) ViewportHeight() float64 {
	return 2 * c.nearPlane * math.Tan(c.fovY/2)
}

// ViewportWidth returns the world-space width of the viewport on the near plane
func (c *Camera) ViewportWidth() float64 {
	return 2 * c.nearPlane * math.Tan(c.fovX/2)
}

// Forward returns the unit view direction
func (c *Camera) Forward() core.Vec3 {
	pitch, yaw := c.rotation.X, c.rotation.Y
	return core.NewVec3(
		math.Cos(pitch)*math.Sin(yaw),
		math.Sin(pitch),
		math.Cos(pitch)*math.Cos(yaw),
	)
}

// Right returns the unit right vector, rotated about Forward by roll
func (c *Camera) Right() core.Vec3 {
	yaw, roll := c.rotation.Y, c.rotation.Z
	right := core.NewVec3(math.Cos(yaw), 0, -math.Sin(yaw))
	if roll == 0 {
		return right
	}
	up := c.Forward().Cross(right)
	return right.Multiply(math.Cos(roll)).Add(up.Multiply(math.Sin(roll)))
}

// Up returns cross(Forward, Right)
func (c *Camera) Up() core.Vec3 {
	return c.Forward().Cross(c.Right())
}

// Viewport computes the per-frame pixel basis for an image of the given size
func (c *Camera) Viewport(width, height int) Viewport {
	right := c.Right()
	up := c.Up()

	viewportRight := right.Multiply(c.ViewportWidth())
	viewportDown := up.Negate().Multiply(c.ViewportHeight())
	pixelRight := viewportRight.Multiply(1.0 / float64(width))
	pixelDown := viewportDown.Multiply(1.0 / float64(height))

	topLeft := c.position.
		Add(c.Forward().Multiply(c.nearPlane)).
		Subtract(viewportRight.Multiply(0.5)).
		Subtract(viewportDown.Multiply(0.5)).
		Add(pixelRight.Multiply(0.5)).
		Add(pixelDown.Multiply(0.5))

	return Viewport{
		Origin:     c.position,
		TopLeft:    topLeft,
		PixelRight: pixelRight,
		PixelDown:  pixelDown,
		Width:      width,
		Height:     height,
	}
}

// Viewport is a snapshot of the camera basis for one frame. Workers only ever see
// this value, never the Camera.
type Viewport struct {
	Origin     core.Vec3 // Ray origin
	TopLeft    core.Vec3 // Centre of pixel (0, 0)
	PixelRight core.Vec3 // Step of one pixel to the right
	PixelDown  core.Vec3 // Step of one pixel down
	Width      int
	Height     int
}

// PixelCenter returns the world-space point for fractional pixel coordinates
func (v Viewport) PixelCenter(x, y float64) core.Vec3 {
	return v.TopLeft.Add(v.PixelRight.Multiply(x)).Add(v.PixelDown.Multiply(y))
}

// Ray returns the ray through pixel (x, y) offset by (dx, dy) pixels
func (v Viewport) Ray(x, y int, dx, dy float64) core.Ray {
	target := v.PixelCenter(float64(x)+dx, float64(y)+dy)
	return core.NewRay(v.Origin, target.Subtract(v.Origin))
}
