package scene

import (
	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/geometry"
	"github.com/df07/go-realtime-pathtracer/pkg/material"
)

// NewDefaultScene creates a red sphere resting above a dark ground, flanked by two metal spheres
func NewDefaultScene() *Scene {
	world := geometry.NewHittableList(
		groundSphere(-1, material.NewLambertian(core.NewVec3(0.1, 0.1, 0.1))),
		geometry.NewSphere(core.NewVec3(0, 0, 0), 1, material.NewLambertian(core.NewVec3(1.0, 0.25, 0.25))),
		geometry.NewSphere(core.NewVec3(-3, 0, 0), 1, material.NewMetal(core.NewVec3(0.25, 1.0, 0.25), 0.1)),
		geometry.NewSphere(core.NewVec3(3, 0, 0), 1, material.NewMetal(core.NewVec3(0.25, 0.25, 1.0), 0.5)),
	)

	return &Scene{
		ID:           "default",
		World:        world,
		CameraConfig: geometry.DefaultCameraConfig(),
	}
}

// NewMetalsScene creates a lambertian sphere between a mirror and a brushed gold sphere
func NewMetalsScene() *Scene {
	cameraConfig := geometry.DefaultCameraConfig()
	cameraConfig.Position = core.NewVec3(0, 0.75, -2)
	cameraConfig.LookAt = core.NewVec3(0, 0.5, 1)
	cameraConfig.VFov = 40.0

	lambertianGreen := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0).Multiply(0.6))
	lambertianRed := material.NewLambertian(core.NewVec3(0.65, 0.25, 0.2))
	metalSilver := material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0)
	metalGold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)

	world := geometry.NewHittableList(
		groundSphere(0, lambertianGreen),
		geometry.NewSphere(core.NewVec3(0, 0.5, 1), 0.5, lambertianRed),
		geometry.NewSphere(core.NewVec3(-1, 0.5, 1), 0.5, metalSilver),
		geometry.NewSphere(core.NewVec3(1, 0.5, 1), 0.5, metalGold),
	)

	return &Scene{
		ID:           "metals",
		World:        world,
		CameraConfig: cameraConfig,
		SamplingConfig: SamplingConfig{
			MaxDepth: 16, // Mirrors facing each other need more bounces
		},
	}
}
