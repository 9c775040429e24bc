package viewport

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tanema/gween/ease"
)

func approxVec(a, b mgl64.Vec2, eps float64) bool {
	return math.Abs(a.X()-b.X()) < eps && math.Abs(a.Y()-b.Y()) < eps
}

func TestTransitionEndsAtTarget(t *testing.T) {
	from := newTestViewport(t)
	to := from.Clone()
	if err := to.ZoomInAroundDevice(3, 100, 400); err != nil {
		t.Fatal(err)
	}

	tr := NewTransition(from, to, 0.5, ease.OutQuad)
	if v, done := tr.Update(0.2); done || v == nil {
		t.Fatalf("Update(0.2) done = %v, want false", done)
	}
	v, done := tr.Update(0.4)
	if !done {
		t.Fatal("Update past the duration should finish")
	}
	if *v != *to {
		t.Errorf("final viewport %v, want %v", v, to)
	}
	if tr.Current() != v {
		t.Error("Current() should return the last Update result")
	}
}

func TestTransitionKeepsZoomAnchor(t *testing.T) {
	from := newTestViewport(t)
	to := from.Clone()
	if err := to.ZoomInAroundDevice(4, 100, 50); err != nil {
		t.Fatal(err)
	}
	anchor := from.DeviceToLogical(100, 50)

	tr := NewTransition(from, to, 1, ease.Linear)
	for i := 0; i < 4; i++ {
		v, _ := tr.Update(0.2)
		if got := v.DeviceToLogical(100, 50); !approxVec(got, anchor, 1e-9) {
			t.Errorf("step %d: anchor moved to %v, want %v", i, got, anchor)
		}
	}

	// Linear easing at 80%: size shrank by 4^0.8. Progress is a float32.
	want := from.LogicalSize().Mul(math.Pow(4, -0.8))
	if got := tr.Current().LogicalSize(); !approxVec(got, want, 1e-6) {
		t.Errorf("LogicalSize() = %v, want %v", got, want)
	}
}

func TestTransitionPan(t *testing.T) {
	from := newTestViewport(t)
	to := from.Clone()
	to.MoveRelativeDevice(320, -240)

	tr := NewTransition(from, to, 1, nil)
	v, _ := tr.Update(0.5)
	want := from.LogicalCenter().Add(to.LogicalCenter()).Mul(0.5)
	if !approxVec(v.LogicalCenter(), want, 1e-9) {
		t.Errorf("LogicalCenter() = %v, want %v", v.LogicalCenter(), want)
	}
	if !approxVec(v.LogicalSize(), from.LogicalSize(), 1e-12) {
		t.Errorf("LogicalSize() = %v, panning must not resize", v.LogicalSize())
	}
}

func TestTransitionDoesNotAlias(t *testing.T) {
	from := newTestViewport(t)
	to := from.Clone()
	to.MoveRelativeDevice(10, 10)

	tr := NewTransition(from, to, 1, ease.Linear)
	to.MoveRelativeDevice(1000, 1000)
	if tr.Target().LogicalCenter() == to.LogicalCenter() {
		t.Error("transition target should be a copy")
	}
}
