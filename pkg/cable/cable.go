// Package cable models flexible cables as discretized chains of point
// masses with their own continuum dynamics (axial stiffness, bending,
// damping). Chains live in a secondary World that must be advanced with
// the same timestep as the primary rigid-body world on every tick; the
// two end masses couple back to rigid bodies through anchor functions
// and the end-segment tension they expose.
package cable

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// InvalidResolutionError reports a chain resolution below the two points
// needed to define a segment.
type InvalidResolutionError struct {
	Resolution int
}

func (e InvalidResolutionError) Error() string {
	return fmt.Sprintf("cable resolution %d invalid, need at least 2 points", e.Resolution)
}

// Config parameterizes a chain's discretization and material response.
type Config struct {
	Resolution int     // number of point masses, >= 2
	Stiffness  float64 // axial spring constant per segment
	Damping    float64 // axial damping per segment
	Bending    float64 // bending resistance at interior points
	Density    float64 // mass per unit length
}

// Chain is a discretized flexible cable. Its point masses are owned
// exclusively by the cable World; rigid-body code interacts with a chain
// only through the endpoint anchors and EndTension.
type Chain struct {
	cfg     Config
	points  []v3.Vec
	vels    []v3.Vec
	restSeg float64 // rest length of one segment
	ptMass  float64

	// Endpoint anchors. When set, the corresponding end mass is pinned
	// to the anchor position each step and the segment tension there is
	// exported for the owning rigid body.
	anchorFrom func() v3.Vec
	anchorTo   func() v3.Vec

	tensionFrom v3.Vec // force the cable exerts on the from-side body
	tensionTo   v3.Vec
}

// NewChain discretizes the straight segment p1->p2 into cfg.Resolution
// evenly spaced point masses. point[0] == p1 and point[N-1] == p2
// exactly; this seeds the initial condition only, the subsequent shape
// is governed by the chain's own dynamics.
func NewChain(p1, p2 v3.Vec, cfg Config) (*Chain, error) {
	n := cfg.Resolution
	if n < 2 {
		return nil, InvalidResolutionError{Resolution: n}
	}
	length := p2.Sub(p1).Length()
	if length == 0 {
		// A zero-length chain has zero point mass and NaNs out on the
		// first step.
		return nil, fmt.Errorf("cable endpoints coincide at %v", p1)
	}
	step := p2.Sub(p1).DivScalar(float64(n - 1))
	points := make([]v3.Vec, n)
	points[0] = p1
	pos := p1
	for i := 1; i < n-1; i++ {
		pos = pos.Add(step)
		points[i] = pos
	}
	points[n-1] = p2

	density := cfg.Density
	if density <= 0 {
		density = 1
	}
	return &Chain{
		cfg:     cfg,
		points:  points,
		vels:    make([]v3.Vec, n),
		restSeg: length / float64(n-1),
		ptMass:  density * length / float64(n),
	}, nil
}

// SetAnchors pins the two end masses to the given position sources.
// Either may be nil, leaving that end free.
func (c *Chain) SetAnchors(from, to func() v3.Vec) {
	c.anchorFrom = from
	c.anchorTo = to
}

// Points returns a copy of the current point mass positions.
func (c *Chain) Points() []v3.Vec {
	out := make([]v3.Vec, len(c.points))
	copy(out, c.points)
	return out
}

// Resolution returns the number of point masses.
func (c *Chain) Resolution() int {
	return len(c.points)
}

// SegmentRestLength returns the rest length of one segment.
func (c *Chain) SegmentRestLength() float64 {
	return c.restSeg
}

// Length returns the current arc length of the chain.
func (c *Chain) Length() float64 {
	sum := 0.0
	for i := 1; i < len(c.points); i++ {
		sum += c.points[i].Sub(c.points[i-1]).Length()
	}
	return sum
}

// EndTensionFrom returns the force the cable currently exerts on the
// body anchored at point[0]. Zero when that end is free.
func (c *Chain) EndTensionFrom() v3.Vec { return c.tensionFrom }

// EndTensionTo returns the force the cable currently exerts on the body
// anchored at point[N-1]. Zero when that end is free.
func (c *Chain) EndTensionTo() v3.Vec { return c.tensionTo }

// axialForce returns the spring-damper force acting on point i from the
// segment toward point j.
func (c *Chain) axialForce(i, j int) v3.Vec {
	d := c.points[j].Sub(c.points[i])
	dist := d.Length()
	if dist == 0 {
		return v3.Vec{}
	}
	dir := d.DivScalar(dist)
	stretch := dist - c.restSeg
	relVel := c.vels[j].Sub(c.vels[i]).Dot(dir)
	return dir.MulScalar(c.cfg.Stiffness*stretch + c.cfg.Damping*relVel)
}

// step advances the chain by dt under the given gravity. Anchored end
// masses are repositioned onto their anchors after integration and the
// end segment tensions are recomputed for rigid-body coupling.
func (c *Chain) step(dt float64, gravity v3.Vec) {
	n := len(c.points)
	forces := make([]v3.Vec, n)

	for i := 0; i < n; i++ {
		if i > 0 {
			forces[i] = forces[i].Add(c.axialForce(i, i-1))
		}
		if i < n-1 {
			forces[i] = forces[i].Add(c.axialForce(i, i+1))
		}
		forces[i] = forces[i].Add(gravity.MulScalar(c.ptMass))
	}
	// Bending resistance: pull interior points toward the midpoint of
	// their neighbours.
	if c.cfg.Bending > 0 {
		for i := 1; i < n-1; i++ {
			mid := c.points[i-1].Add(c.points[i+1]).MulScalar(0.5)
			forces[i] = forces[i].Add(mid.Sub(c.points[i]).MulScalar(c.cfg.Bending))
		}
	}

	for i := 0; i < n; i++ {
		c.vels[i] = c.vels[i].Add(forces[i].MulScalar(dt / c.ptMass))
		c.points[i] = c.points[i].Add(c.vels[i].MulScalar(dt))
	}

	// Pin anchored ends and export the coupling forces.
	if c.anchorFrom != nil {
		target := c.anchorFrom()
		c.vels[0] = target.Sub(c.points[0]).DivScalar(dt)
		c.points[0] = target
		c.tensionFrom = c.axialForce(0, 1)
	}
	if c.anchorTo != nil {
		target := c.anchorTo()
		c.vels[n-1] = target.Sub(c.points[n-1]).DivScalar(dt)
		c.points[n-1] = target
		c.tensionTo = c.axialForce(n-1, n-2)
	}
}
