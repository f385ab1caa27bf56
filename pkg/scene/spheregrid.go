package scene

import (
	"math"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/geometry"
	"github.com/df07/go-realtime-pathtracer/pkg/material"
)

// sphereGridSize is the number of spheres along each side of the grid
const sphereGridSize = 10

// oklchToRGB converts OKLCH color values to linear RGB clamped to [0,1]
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	hRad := h * math.Pi / 180.0

	// OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// OKLAB to LMS, cubed
	lms := core.NewVec3(
		l+0.3963377774*a+0.2158037573*b,
		l-0.1055613458*a-0.0638541728*b,
		l-0.0894841775*a-1.2914855480*b,
	)
	lms = lms.MultiplyVec(lms).MultiplyVec(lms)

	// LMS to linear RGB
	rgb := core.NewVec3(
		+4.0767416621*lms.X-3.3077115913*lms.Y+0.2309699292*lms.Z,
		-1.2684380046*lms.X+2.6097574011*lms.Y-0.3413193965*lms.Z,
		-0.0041960863*lms.X-0.7034186147*lms.Y+1.7076147010*lms.Z,
	)

	unit := core.NewInterval(0, 1)
	return core.NewVec3(unit.Clamp(rgb.X), unit.Clamp(rgb.Y), unit.Clamp(rgb.Z))
}

// NewSphereGridScene creates a scene with a 10x10 grid of rainbow-colored spheres
func NewSphereGridScene() *Scene {
	cameraConfig := geometry.DefaultCameraConfig()
	cameraConfig.Position = core.NewVec3(0, 6, -13) // Above and behind the grid
	cameraConfig.LookAt = core.NewVec3(0, 0, 0)
	cameraConfig.VFov = 50.0

	world := geometry.NewHittableList(
		groundSphere(0, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))),
	)

	spacing := 1.0
	sphereRadius := 0.35 * spacing
	offset := float64(sphereGridSize-1) * spacing / 2.0

	// OKLCH parameters for color variation
	baseLightness := 0.65 // Keep lightness relatively constant for uniform appearance
	minChroma := 0.05     // Minimum chroma (near white/gray)
	maxChroma := 0.25     // Maximum chroma (vivid colors)

	for i := 0; i < sphereGridSize; i++ {
		for j := 0; j < sphereGridSize; j++ {
			position := core.NewVec3(float64(i)*spacing-offset, sphereRadius, float64(j)*spacing-offset)

			// Hue varies across X, chroma across Z
			hue := (float64(i) / float64(sphereGridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(sphereGridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)
			color := oklchToRGB(lightness, chroma, hue)

			// Checkerboard of brushed metal and matte spheres
			var mat material.Material
			if (i+j)%2 == 0 {
				roughness := 0.05 + 0.1*float64((i+j)%3)/2.0
				mat = material.NewMetal(color, roughness)
			} else {
				mat = material.NewLambertian(color)
			}

			world.Add(geometry.NewSphere(position, sphereRadius, mat))
		}
	}

	return &Scene{
		ID:           "sphere-grid",
		World:        world,
		CameraConfig: cameraConfig,
		SamplingConfig: SamplingConfig{
			SamplesPerPixel: 2, // Many small spheres; keep frames interactive
		},
	}
}
