package window

import (
	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/geometry"
)

// ControllerConfig contains fly-camera speeds
type ControllerConfig struct {
	MoveSpeed float64 // Units per second
	LookSpeed float64 // Radians per pixel of mouse drag
}

// DefaultControllerConfig returns sensible default values
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		MoveSpeed: 3.0,
		LookSpeed: 0.01,
	}
}

// CameraController flies a camera from keyboard and mouse input.
// W/S move along forward, A/D along right, E/Q along world Y; dragging with
// the left button turns the camera.
type CameraController struct {
	config ControllerConfig
}

// NewCameraController creates a controller
func NewCameraController(config ControllerConfig) *CameraController {
	return &CameraController{config: config}
}

// Update applies one frame of input to the camera and reports whether it moved.
// Holding the left button counts as moving even when the cursor is still.
func (cc *CameraController) Update(camera *geometry.Camera, input Input, dt float64) bool {
	moved := false
	offset := core.Vec3{}

	if input.KeyDown(KeyW) {
		offset = offset.Add(camera.Forward())
		moved = true
	}
	if input.KeyDown(KeyS) {
		offset = offset.Subtract(camera.Forward())
		moved = true
	}
	if input.KeyDown(KeyA) {
		offset = offset.Subtract(camera.Right())
		moved = true
	}
	if input.KeyDown(KeyD) {
		offset = offset.Add(camera.Right())
		moved = true
	}
	if input.KeyDown(KeyE) {
		offset = offset.Add(core.NewVec3(0, 1, 0))
		moved = true
	}
	if input.KeyDown(KeyQ) {
		offset = offset.Subtract(core.NewVec3(0, 1, 0))
		moved = true
	}

	rotation := core.Vec3{}
	if input.ButtonDown(MouseButtonLeft) {
		dx, dy := input.MouseDelta()
		rotation.X = -dy * cc.config.LookSpeed // pitch: dragging up looks up
		rotation.Y = dx * cc.config.LookSpeed  // yaw
		moved = true
	}

	camera.MoveBy(offset.Multiply(cc.config.MoveSpeed * dt))
	camera.RotateBy(rotation)
	return moved
}
