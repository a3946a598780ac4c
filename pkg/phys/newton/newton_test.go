package newton

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestStepRejectsBadTimestep(t *testing.T) {
	w := New(DefaultConfig())
	if err := w.Step(0); err == nil {
		t.Error("Step(0) should fail")
	}
	if err := w.Step(-0.01); err == nil {
		t.Error("Step(-0.01) should fail")
	}
	if err := w.Step(1.0 / 600); err != nil {
		t.Errorf("Step(1/600) failed: %v", err)
	}
}

func TestGravityPullsDynamicBody(t *testing.T) {
	w := New(Config{Gravity: v3.Vec{Y: -10}})
	b := w.NewBody(v3.Vec{Y: 100}, 2, 1)

	for i := 0; i < 100; i++ {
		if err := w.Step(0.01); err != nil {
			t.Fatal(err)
		}
	}
	if b.Position().Y >= 100 {
		t.Errorf("body did not fall, y = %g", b.Position().Y)
	}
	if b.Velocity().Y >= 0 {
		t.Errorf("body velocity should point down, vy = %g", b.Velocity().Y)
	}
}

func TestStaticBodyIgnoresForces(t *testing.T) {
	w := New(DefaultConfig())
	b := w.NewBody(v3.Vec{Y: 5}, 0, 0)

	b.ApplyForce(v3.Vec{X: 1e6})
	b.ApplyForceAt(v3.Vec{Y: 1e6}, v3.Vec{X: 1, Y: 5})
	for i := 0; i < 50; i++ {
		if err := w.Step(0.01); err != nil {
			t.Fatal(err)
		}
	}
	want := v3.Vec{Y: 5}
	if !b.Position().Equals(want, 1e-12) {
		t.Errorf("static body moved to %v", b.Position())
	}
	if !b.Static() {
		t.Error("zero-mass body should report Static")
	}
}

func TestOffCenterForceSpinsBody(t *testing.T) {
	w := New(Config{}) // no gravity
	b := w.NewBody(v3.Vec{}, 1, 1)

	// Push +Y at a point offset along +X: torque about +Z.
	local := v3.Vec{X: 1}
	b.ApplyForceAt(v3.Vec{Y: 1}, b.PointToWorld(local))
	if err := w.Step(0.1); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		if err := w.Step(0.1); err != nil {
			t.Fatal(err)
		}
	}

	// The attachment point must have rotated away from the +X axis.
	world := b.PointToWorld(local).Sub(b.Position())
	if world.Y <= 0 {
		t.Errorf("attachment point should swing toward +Y, got %v", world)
	}
	// Rotation must preserve length.
	if math.Abs(world.Length()-1) > 1e-9 {
		t.Errorf("rotation changed offset length: %g", world.Length())
	}
}

func TestPointRoundTrip(t *testing.T) {
	w := New(Config{})
	b := w.NewBody(v3.Vec{X: 3, Y: -2, Z: 7}, 1, 1)
	b.ApplyForceAt(v3.Vec{Z: 4}, b.PointToWorld(v3.Vec{X: 1, Y: 1}))
	for i := 0; i < 10; i++ {
		if err := w.Step(0.05); err != nil {
			t.Fatal(err)
		}
	}

	local := v3.Vec{X: 0.5, Y: -1.5, Z: 2}
	got := b.PointToLocal(b.PointToWorld(local))
	if !got.Equals(local, 1e-9) {
		t.Errorf("round trip = %v, want %v", got, local)
	}
}

func TestConstraintRunsEachStep(t *testing.T) {
	w := New(Config{})
	n := 0
	w.AddConstraint(constraintFunc(func(dt float64) { n++ }))
	for i := 0; i < 7; i++ {
		if err := w.Step(0.01); err != nil {
			t.Fatal(err)
		}
	}
	if n != 7 {
		t.Errorf("constraint applied %d times, want 7", n)
	}
}

type constraintFunc func(dt float64)

func (f constraintFunc) Apply(dt float64) { f(dt) }
