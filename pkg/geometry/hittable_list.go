package geometry

import (
	"github.com/df07/go-realtime-pathtracer/pkg/core"
	"github.com/df07/go-realtime-pathtracer/pkg/material"
)

// HittableList is an aggregate that reports the closest hit among its members
type HittableList struct {
	Objects []Hittable
}

// NewHittableList creates a list from the given objects
func NewHittableList(objects ...Hittable) *HittableList {
	return &HittableList{Objects: objects}
}

// Add appends an object. Lists must not be modified while a frame is rendering.
func (l *HittableList) Add(object Hittable) {
	l.Objects = append(l.Objects, object)
}

// Len returns the number of direct members
func (l *HittableList) Len() int {
	return len(l.Objects)
}

// Hit returns the hit with the smallest t across all members. Each accepted hit
// shrinks the search interval, so a farther object tested later can never
// replace a nearer one.
func (l *HittableList) Hit(ray core.Ray, rayT core.Interval) (material.HitRecord, bool) {
	var closestHit material.HitRecord
	closestSoFar := rayT.Max
	hitAnything := false

	for _, object := range l.Objects {
		if hit, isHit := object.Hit(ray, rayT.WithMax(closestSoFar)); isHit {
			hitAnything = true
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, hitAnything
}
