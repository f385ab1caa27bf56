package geometry

import (
	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/material"
)

// Hittable is anything a ray can intersect: a single shape or an aggregate of shapes.
// Hit returns the closest intersection whose t lies strictly inside rayT.
type Hittable interface {
	Hit(ray core.Ray, rayT core.Interval) (material.HitRecord, bool)
}
