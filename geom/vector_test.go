package geom

import (
	"testing"
)

func TestVector2(t *testing.T) {
	zero := NewVector2(0, 0)
	if zero.Len() != 0 || zero.LenSqr() != 0 {
		t.Error("len != 0")
	}

	if *NewVector2(1, 0).Add(NewVector2(0, 1)) != *NewVector2(1, 1) {
		t.Error("Vector.Add()")
	}
	if *NewVector2(1, 2).Sub(NewVector2(1, 2)) != *zero {
		t.Error("Vector.Sub()")
	}
}

func TestVector3(t *testing.T) {
	zero := NewVector3(0, 0, 0)
	if zero.Len() != 0 || zero.LenSqr() != 0 || zero.Dot(zero) != 0 {
		t.Error("len != 0")
	}

	if *zero.Normalize() != *NewVector3(1, 0, 0) {
		t.Error("Normalize shoud returns unit vector.", zero.Normalize())
	}

	if *NewVector3(1, 0, 0).Add(NewVector3(0, 1, 0)) != *NewVector3(1, 1, 0) {
		t.Error("Vector.Add()")
	}

	if *NewVector3(1, 0, 0).Cross(NewVector3(0, 1, 0)) != *NewVector3(0, 0, 1) {
		t.Error("Vector.Cross()")
	}
}

func TestSmoothStep(t *testing.T) {
	if SmoothStep(0, 1, -1) != 0 || SmoothStep(0, 1, 2) != 1 {
		t.Error("SmoothStep should clamp to [0,1]")
	}
	if SmoothStep(0, 1, 0.5) != 0.5 {
		t.Error("SmoothStep(0.5) != 0.5")
	}
	// zero slope at both edges
	eps := Element(0.0001)
	if SmoothStep(0, 1, eps)/eps > 0.001 {
		t.Error("slope at edge0 should be ~0")
	}
	if (1-SmoothStep(0, 1, 1-eps))/eps > 0.001 {
		t.Error("slope at edge1 should be ~0")
	}
}

func TestClamp(t *testing.T) {
	if Clamp(0.5, 0, 1) != 0.5 || Clamp(-1, 0, 1) != 0 || Clamp(2, 0, 1) != 1 {
		t.Error("Clamp")
	}
}
