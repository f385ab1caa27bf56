package core

import (
	"math"
	"testing"
)

func TestInterval_Empty(t *testing.T) {
	values := []float64{0, -1, 1, 1e300, -1e300, math.Inf(1), math.Inf(-1)}
	for _, x := range values {
		if EmptyInterval.Contains(x) {
			t.Errorf("Empty interval should not contain %v", x)
		}
		if EmptyInterval.Surrounds(x) {
			t.Errorf("Empty interval should not surround %v", x)
		}
	}
	if EmptyInterval.Size() >= 0 {
		t.Errorf("Empty interval should have negative size, got %v", EmptyInterval.Size())
	}
}

func TestInterval_Universe(t *testing.T) {
	values := []float64{0, -1, 1, 1e300, -1e300, math.MaxFloat64, -math.MaxFloat64, math.SmallestNonzeroFloat64}
	for _, x := range values {
		if !UniverseInterval.Contains(x) {
			t.Errorf("Universe should contain %v", x)
		}
		if !UniverseInterval.Surrounds(x) {
			t.Errorf("Universe should surround finite %v", x)
		}
	}
}

func TestInterval_ContainsVsSurrounds(t *testing.T) {
	i := NewInterval(0, 1)

	tests := []struct {
		x         float64
		contains  bool
		surrounds bool
	}{
		{-0.1, false, false},
		{0, true, false},
		{0.5, true, true},
		{1, true, false},
		{1.1, false, false},
	}

	for _, tt := range tests {
		if got := i.Contains(tt.x); got != tt.contains {
			t.Errorf("Contains(%v) = %v, want %v", tt.x, got, tt.contains)
		}
		if got := i.Surrounds(tt.x); got != tt.surrounds {
			t.Errorf("Surrounds(%v) = %v, want %v", tt.x, got, tt.surrounds)
		}
	}
}

func TestInterval_ClampIdempotent(t *testing.T) {
	intervals := []Interval{NewInterval(0, 1), NewInterval(-5, 2.5), NewInterval(3, 3)}
	values := []float64{-100, -5, -0.25, 0, 0.3, 1, 2.5, 3, 42}

	for _, i := range intervals {
		for _, x := range values {
			once := i.Clamp(x)
			twice := i.Clamp(once)
			if once != twice {
				t.Errorf("Clamp not idempotent on %v for %v: %v then %v", i, x, once, twice)
			}
			if !i.Contains(once) {
				t.Errorf("Clamp(%v) = %v lies outside %v", x, once, i)
			}
		}
	}
}

func TestInterval_WithMax(t *testing.T) {
	i := NewInterval(0.001, math.Inf(1)).WithMax(5)
	if i.Min != 0.001 || i.Max != 5 {
		t.Errorf("Expected [0.001, 5], got %v", i)
	}
}
