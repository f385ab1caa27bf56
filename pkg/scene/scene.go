package scene

import (
	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/geometry"
	"github.com/df07/go-realtime-pathtracer/pkg/material"
	"github.com/df07/go-realtime-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	ID             string
	World          *geometry.HittableList // Objects in the scene
	CameraConfig   geometry.CameraConfig  // Starting camera
	SamplingConfig SamplingConfig         // Scene-preferred sampling settings
}

// SamplingConfig contains the renderer settings a scene may prefer.
// Zero fields leave the renderer's value alone.
type SamplingConfig struct {
	SamplesPerPixel int       // Number of rays per pixel
	MaxDepth        int       // Maximum ray bounce depth
	SkyTop          core.Vec3 // Sky color straight up
	SkyBottom       core.Vec3 // Sky color at the horizon
}

// ApplyTo overlays the scene's sampling preferences on a renderer config
func (s *Scene) ApplyTo(config renderer.Config) renderer.Config {
	sc := s.SamplingConfig
	if sc.SamplesPerPixel > 0 {
		config.SamplesPerPixel = sc.SamplesPerPixel
	}
	if sc.MaxDepth > 0 {
		config.MaxDepth = sc.MaxDepth
	}
	if !sc.SkyTop.Equals(core.Vec3{}) {
		config.SkyTop = sc.SkyTop
	}
	if !sc.SkyBottom.Equals(core.Vec3{}) {
		config.SkyBottom = sc.SkyBottom
	}
	return config
}

// NewCamera creates the scene's starting camera for the given output size
func (s *Scene) NewCamera(width, height int) *geometry.Camera {
	config := s.CameraConfig
	if width > 0 && height > 0 {
		config.AspectRatio = float64(width) / float64(height)
	}
	return geometry.NewCamera(config)
}

// groundSphere returns a huge sphere whose top sits at y = top, standing in for a floor
func groundSphere(top float64, mat material.Material) *geometry.Sphere {
	const radius = 1000.0
	return geometry.NewSphere(core.NewVec3(0, top-radius, 0), radius, mat)
}
