package cable

import (
	"errors"
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestNewChainPointGeneration(t *testing.T) {
	p1 := v3.Vec{X: 1, Y: 2, Z: 3}
	p2 := v3.Vec{X: 11, Y: 2, Z: 3}
	c, err := NewChain(p1, p2, Config{Resolution: 5, Stiffness: 100, Damping: 1})
	if err != nil {
		t.Fatal(err)
	}

	pts := c.Points()
	if len(pts) != 5 {
		t.Fatalf("point count = %d, want 5", len(pts))
	}
	if pts[0] != p1 {
		t.Errorf("point[0] = %v, want %v exactly", pts[0], p1)
	}
	if pts[4] != p2 {
		t.Errorf("point[4] = %v, want %v exactly", pts[4], p2)
	}

	// Consecutive points equidistant: 10 units over 4 segments.
	for i := 1; i < len(pts); i++ {
		d := pts[i].Sub(pts[i-1]).Length()
		if math.Abs(d-2.5) > 1e-12 {
			t.Errorf("segment %d length = %g, want 2.5", i, d)
		}
	}
	if math.Abs(c.SegmentRestLength()-2.5) > 1e-12 {
		t.Errorf("rest segment = %g, want 2.5", c.SegmentRestLength())
	}
}

func TestNewChainRejectsBadResolution(t *testing.T) {
	p1 := v3.Vec{}
	p2 := v3.Vec{X: 1}
	for _, n := range []int{1, 0, -3} {
		_, err := NewChain(p1, p2, Config{Resolution: n})
		var ire InvalidResolutionError
		if !errors.As(err, &ire) {
			t.Errorf("resolution %d: err = %v, want InvalidResolutionError", n, err)
			continue
		}
		if ire.Resolution != n {
			t.Errorf("error resolution = %d, want %d", ire.Resolution, n)
		}
	}
}

func TestNewChainRejectsCoincidentEndpoints(t *testing.T) {
	p := v3.Vec{X: 3, Y: 4, Z: 5}
	if _, err := NewChain(p, p, Config{Resolution: 5, Stiffness: 100}); err == nil {
		t.Fatal("coincident endpoints should be rejected")
	}
}

func TestWorldRejectsBadTimestep(t *testing.T) {
	w := NewWorld(v3.Vec{Y: -9.81})
	if err := w.Step(0); err == nil {
		t.Error("Step(0) should fail")
	}
	if err := w.Step(-1); err == nil {
		t.Error("Step(-1) should fail")
	}
}

func TestAnchoredEndsTrackAnchors(t *testing.T) {
	p1 := v3.Vec{}
	p2 := v3.Vec{X: 10}
	c, err := NewChain(p1, p2, Config{Resolution: 8, Stiffness: 500, Damping: 5, Bending: 1})
	if err != nil {
		t.Fatal(err)
	}

	// Anchors move slowly along +Y, as if the owning bodies drifted.
	tick := 0
	anchorA := func() v3.Vec { return v3.Vec{Y: float64(tick) * 0.001} }
	anchorB := func() v3.Vec { return v3.Vec{X: 10, Y: float64(tick) * 0.001} }
	c.SetAnchors(anchorA, anchorB)

	w := NewWorld(v3.Vec{Y: -9.81})
	w.AddChain(c)
	for i := 0; i < 100; i++ {
		tick++
		if err := w.Step(1.0 / 600); err != nil {
			t.Fatal(err)
		}
	}

	// tick still holds the value the final step pinned the ends to.
	pts := c.Points()
	if !pts[0].Equals(anchorA(), 1e-9) {
		t.Errorf("from end = %v, want %v", pts[0], anchorA())
	}
	if !pts[len(pts)-1].Equals(anchorB(), 1e-9) {
		t.Errorf("to end = %v, want %v", pts[len(pts)-1], anchorB())
	}
}

func TestInteriorSagsUnderGravity(t *testing.T) {
	c, err := NewChain(v3.Vec{}, v3.Vec{X: 10}, Config{Resolution: 9, Stiffness: 200, Damping: 2})
	if err != nil {
		t.Fatal(err)
	}
	c.SetAnchors(func() v3.Vec { return v3.Vec{} }, func() v3.Vec { return v3.Vec{X: 10} })

	w := NewWorld(v3.Vec{Y: -9.81})
	w.AddChain(c)
	for i := 0; i < 300; i++ {
		if err := w.Step(1.0 / 600); err != nil {
			t.Fatal(err)
		}
	}

	mid := c.Points()[4]
	if mid.Y >= 0 {
		t.Errorf("interior point should sag below anchors, y = %g", mid.Y)
	}
	// A taut anchored cable under gravity pulls both ends inward and down.
	if c.EndTensionFrom().Equals(v3.Vec{}, 1e-12) {
		t.Error("from-end tension should be nonzero for a sagging cable")
	}
}
