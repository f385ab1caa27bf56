package window

import (
	"math"
	"testing"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/geometry"
)

func vecClose(a, b core.Vec3) bool {
	return a.Subtract(b).Length() < 1e-9
}

func TestCameraController_Move(t *testing.T) {
	tests := []struct {
		name     string
		keys     KeySet
		expected core.Vec3 // Offset after 0.5s at 3 units/s
	}{
		{"forward", KeySet(0).With(KeyW), core.NewVec3(0, 0, 1.5)},
		{"back", KeySet(0).With(KeyS), core.NewVec3(0, 0, -1.5)},
		{"left", KeySet(0).With(KeyA), core.NewVec3(-1.5, 0, 0)},
		{"right", KeySet(0).With(KeyD), core.NewVec3(1.5, 0, 0)},
		{"up", KeySet(0).With(KeyE), core.NewVec3(0, 1.5, 0)},
		{"down", KeySet(0).With(KeyQ), core.NewVec3(0, -1.5, 0)},
		{"forward and up", KeySet(0).With(KeyW).With(KeyE), core.NewVec3(0, 1.5, 1.5)},
		{"opposites cancel", KeySet(0).With(KeyW).With(KeyS), core.NewVec3(0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			camera := geometry.NewCamera(geometry.DefaultCameraConfig())
			start := camera.Position()
			controller := NewCameraController(DefaultControllerConfig())

			moved := controller.Update(camera, Input{Keys: tt.keys}, 0.5)
			if !moved {
				t.Error("Expected key input to count as movement")
			}
			if got := camera.Position().Subtract(start); !vecClose(got, tt.expected) {
				t.Errorf("Expected offset %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestCameraController_Idle(t *testing.T) {
	camera := geometry.NewCamera(geometry.DefaultCameraConfig())
	position, rotation := camera.Position(), camera.Rotation()
	controller := NewCameraController(DefaultControllerConfig())

	// Mouse movement without a button does not turn the camera
	input := Input{MouseX: 50, MouseY: 50, PrevMouseX: 10, PrevMouseY: 10}
	if controller.Update(camera, input, 0.016) {
		t.Error("Expected no movement")
	}
	if !camera.Position().Equals(position) || !camera.Rotation().Equals(rotation) {
		t.Error("Expected camera to stay put")
	}
}

func TestCameraController_Look(t *testing.T) {
	camera := geometry.NewCamera(geometry.DefaultCameraConfig())
	controller := NewCameraController(DefaultControllerConfig())

	// Drag 5px right and 5px up
	input := Input{
		Buttons:    ButtonSet(0).With(MouseButtonLeft),
		MouseX:     15,
		MouseY:     5,
		PrevMouseX: 10,
		PrevMouseY: 10,
	}
	if !controller.Update(camera, input, 0.016) {
		t.Error("Expected drag to count as movement")
	}

	rotation := camera.Rotation()
	if math.Abs(rotation.X-0.05) > 1e-12 || math.Abs(rotation.Y-0.05) > 1e-12 {
		t.Errorf("Expected pitch and yaw 0.05, got %v", rotation)
	}

	// Holding the button still counts as moving
	input.PrevMouseX, input.PrevMouseY = input.MouseX, input.MouseY
	if !controller.Update(camera, input, 0.016) {
		t.Error("Expected a held button to count as movement")
	}
}
