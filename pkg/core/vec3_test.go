package core

import (
	"math"
	"testing"
)

func TestVec3_Reflect(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec3
		normal   Vec3
		expected Vec3
	}{
		{"head on", NewVec3(0, -1, 0), NewVec3(0, 1, 0), NewVec3(0, 1, 0)},
		{"45 degrees", NewVec3(1, -1, 0), NewVec3(0, 1, 0), NewVec3(1, 1, 0)},
		{"parallel to surface", NewVec3(1, 0, 0), NewVec3(0, 1, 0), NewVec3(1, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.v.Reflect(tt.normal)
			if result.Subtract(tt.expected).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestVec3_NearZero(t *testing.T) {
	if !NewVec3(1e-9, -1e-9, 0).NearZero() {
		t.Error("Tiny vector should be near zero")
	}
	if NewVec3(1e-9, 1e-3, 0).NearZero() {
		t.Error("Vector with one large component should not be near zero")
	}
}

func TestVec3_NormalizeZero(t *testing.T) {
	n := Vec3{}.Normalize()
	if !n.Equals(Vec3{}) {
		t.Errorf("Normalizing a zero vector should return zero, got %v", n)
	}
	if math.IsNaN(n.X) || math.IsNaN(n.Y) || math.IsNaN(n.Z) {
		t.Error("Normalize produced NaN")
	}
}

func TestVec3_Cross(t *testing.T) {
	result := NewVec3(0, 0, 1).Cross(NewVec3(1, 0, 0))
	if !result.Equals(NewVec3(0, 1, 0)) {
		t.Errorf("Expected (0,1,0), got %v", result)
	}
}

func TestVec3_Lerp(t *testing.T) {
	white := NewVec3(1, 1, 1)
	blue := NewVec3(0.5, 0.7, 1.0)

	if !white.Lerp(blue, 0).Equals(white) {
		t.Error("Lerp at 0 should return the start")
	}
	if !white.Lerp(blue, 1).Equals(blue) {
		t.Error("Lerp at 1 should return the end")
	}
	mid := white.Lerp(blue, 0.5)
	if math.Abs(mid.Y-0.85) > 1e-12 {
		t.Errorf("Expected mid Y 0.85, got %f", mid.Y)
	}
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(1, 2, 3), NewVec3(0, 0, 2))
	p := ray.At(1.5)
	if !p.Equals(NewVec3(1, 2, 6)) {
		t.Errorf("Expected (1,2,6), got %v", p)
	}
}
