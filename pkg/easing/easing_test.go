package easing

import (
	"math"
	"testing"
)

func TestQuadraticFixedPoints(t *testing.T) {
	tests := []struct {
		raw  float64
		want float64
	}{
		{0, 0},
		{100, 1},
		{-100, -1},
		{50, 0.25},
		{-50, -0.25},
		{10, 0.01},
	}

	for _, tt := range tests {
		got := Quadratic(tt.raw)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Quadratic(%v) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestQuadraticOddSymmetry(t *testing.T) {
	for raw := 0.0; raw <= 100.0; raw += 0.5 {
		if diff := Quadratic(-raw) + Quadratic(raw); math.Abs(diff) > 1e-12 {
			t.Errorf("Quadratic(-%v) != -Quadratic(%v), diff %v", raw, raw, diff)
		}
	}
}

func TestQuadraticMonotonic(t *testing.T) {
	prev := Quadratic(-100)
	for raw := -99.5; raw <= 100.0; raw += 0.5 {
		cur := Quadratic(raw)
		if cur < prev {
			t.Fatalf("Quadratic not monotonic at raw=%v: %v < %v", raw, cur, prev)
		}
		prev = cur
	}
}

func TestQuadraticRange(t *testing.T) {
	for raw := -100.0; raw <= 100.0; raw += 0.25 {
		got := Quadratic(raw)
		if got < -1 || got > 1 {
			t.Errorf("Quadratic(%v) = %v out of [-1,1]", raw, got)
		}
	}
}
