package renderer

import (
	"math"

	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/geometry"
)

// bytesPerPixel is the size of one RGBA8 pixel
const bytesPerPixel = 4

// ShadingMode selects how a hit surface is colored
type ShadingMode int

const (
	// ShadePathTraced follows scattered rays until they escape to the sky or run out of depth
	ShadePathTraced ShadingMode = iota
	// ShadeNormals colors hits by their surface normal, mapped to [0,1]
	ShadeNormals
)

func (m ShadingMode) String() string {
	switch m {
	case ShadePathTraced:
		return "pathtraced"
	case ShadeNormals:
		return "normals"
	default:
		return "unknown"
	}
}

// intensity is the displayable range of a color channel
var intensity = core.NewInterval(0, 1)

// Raytracer shades pixels of one frame. It only reads the world and the viewport,
// so a single instance is shared by every job of the frame.
type Raytracer struct {
	world  geometry.Hittable
	config Config
	rayT   core.Interval
}

// NewRaytracer creates a raytracer for a world
func NewRaytracer(world geometry.Hittable, config Config) *Raytracer {
	return &Raytracer{
		world:  world,
		config: config,
		rayT:   core.NewInterval(config.RaySurfaceOffset, math.Inf(1)),
	}
}

// backgroundGradient returns a gradient color based on ray direction
func (rt *Raytracer) backgroundGradient(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Y + 1.0)
	return rt.config.SkyBottom.Lerp(rt.config.SkyTop, t)
}

// RayColor returns the radiance carried back along r. Paths that run out of
// depth or are absorbed contribute black.
func (rt *Raytracer) RayColor(r core.Ray, depth int, random *core.Random) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{}
	}

	// The lower bound skips self-intersections caused by floating point error
	hit, isHit := rt.world.Hit(r, rt.rayT)
	if !isHit {
		return rt.backgroundGradient(r)
	}

	if rt.config.ShadingMode == ShadeNormals {
		return hit.Normal.Multiply(0.5).Add(core.NewVec3(0.5, 0.5, 0.5))
	}

	scatter, didScatter := hit.Material.Scatter(r, &hit, random)
	if !didScatter {
		return core.Vec3{}
	}

	return scatter.Attenuation.MultiplyVec(rt.RayColor(scatter.Scattered, depth-1, random))
}

// SamplePixel averages SamplesPerPixel jittered paths through pixel (x, y)
func (rt *Raytracer) SamplePixel(vp geometry.Viewport, x, y int, random *core.Random) core.Vec3 {
	colorAccum := core.Vec3{}

	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		var dx, dy float64
		if rt.config.Jitter {
			dx = random.Range(-0.5, 0.5)
			dy = random.Range(-0.5, 0.5)
		}
		ray := vp.Ray(x, y, dx, dy)
		colorAccum = colorAccum.Add(rt.RayColor(ray, rt.config.MaxDepth, random))
	}

	return colorAccum.Multiply(1.0 / float64(rt.config.SamplesPerPixel))
}

// RenderBatch shades every pixel of the batch into pixels, whose row width is vp.Width.
// Each pixel draws from its own random stream so results do not depend on batching.
func (rt *Raytracer) RenderBatch(batch Batch, vp geometry.Viewport, pixels []byte, frame uint64) {
	for i := batch.Start; i < batch.End(); i++ {
		y := i / vp.Width
		x := i - y*vp.Width

		random := core.NewRandom(core.PixelSeed(rt.config.Seed, frame, uint64(i)))
		color := rt.SamplePixel(vp, x, y, &random)
		writePixel(pixels, i, color)
	}
}

// AccumulateBatch adds one estimate per pixel of the batch to sums and writes the
// running average into pixels. writes counts the estimates behind each sum.
func (rt *Raytracer) AccumulateBatch(batch Batch, vp geometry.Viewport, sums []core.Vec3, writes []uint32, pixels []byte, frame uint64) {
	for i := batch.Start; i < batch.End(); i++ {
		y := i / vp.Width
		x := i - y*vp.Width

		random := core.NewRandom(core.PixelSeed(rt.config.Seed, frame, uint64(i)))
		sums[i] = sums[i].Add(rt.SamplePixel(vp, x, y, &random))
		writes[i]++
		writePixel(pixels, i, sums[i].Multiply(1.0/float64(writes[i])))
	}
}

// gammaCorrect applies gamma 2; negative and NaN channels become 0
func gammaCorrect(value float64) float64 {
	if value > 0 {
		return math.Sqrt(value)
	}
	return 0
}

// writePixel gamma corrects, clamps and quantizes a linear color into pixel i
func writePixel(pixels []byte, i int, color core.Vec3) {
	offset := i * bytesPerPixel
	pixels[offset+0] = uint8(intensity.Clamp(gammaCorrect(color.X)) * 255)
	pixels[offset+1] = uint8(intensity.Clamp(gammaCorrect(color.Y)) * 255)
	pixels[offset+2] = uint8(intensity.Clamp(gammaCorrect(color.Z)) * 255)
	pixels[offset+3] = 255
}
