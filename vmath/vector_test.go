package vmath

import (
	"math"
	"testing"
)

func TestMidpoint(t *testing.T) {
	got := Midpoint(Vec2{X: 2, Y: 10}, Vec2{X: 6, Y: -4})
	if got != (Vec2{X: 4, Y: 3}) {
		t.Errorf("Expected (4,3), got %+v", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-3, 0, 10, 0},
		{12, 0, 10, 10},
		{math.Inf(1), -1, 1, 1},
		{math.Inf(-1), -1, 1, -1},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestNormalizeZeroSafe(t *testing.T) {
	if got := (Vec2{}).Normalize(); got != (Vec2{}) {
		t.Errorf("Expected zero vector, got %+v", got)
	}
	n := Vec2{X: 3, Y: 4}.Normalize()
	if math.Abs(n.Len()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %v", n.Len())
	}
}
