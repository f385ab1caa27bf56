package material

import (
	"github.com/df07/go-realtime-pathtracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo core.Vec3 // Base color/reflectance
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter implements the Material interface for lambertian scattering
func (l *Lambertian) Scatter(rayIn core.Ray, hit *HitRecord, random *core.Random) (ScatterResult, bool) {
	direction := diffuseDirection(hit.Normal, random.UnitVector())

	return ScatterResult{
		Scattered:   core.NewRay(hit.Point, direction),
		Attenuation: l.Albedo,
	}, true
}

// diffuseDirection offsets the normal by a unit vector, falling back to the
// normal itself when the two nearly cancel out
func diffuseDirection(normal, unit core.Vec3) core.Vec3 {
	direction := normal.Add(unit)
	if direction.NearZero() {
		return normal
	}
	return direction
}
