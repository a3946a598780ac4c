// Package newton implements the phys.World interface with a compact
// semi-implicit Euler integrator. Bodies carry position, orientation and
// scalar inertia; connectors act on them as force elements. It is the
// reference backend used by tests and small experiments; a binding to a
// full rigid-body engine can replace it behind the phys interfaces.
package newton

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"tenseg/pkg/phys"
)

// Compile-time interface checks.
var _ phys.World = (*World)(nil)
var _ phys.Body = (*Body)(nil)

// Config parameterizes a world.
type Config struct {
	Gravity        v3.Vec  // world gravity acceleration
	LinearDamping  float64 // per-second velocity decay, stabilizes penalty joints
	AngularDamping float64 // per-second angular velocity decay
}

// DefaultConfig returns a config with Earth-like gravity along -Y and
// mild damping.
func DefaultConfig() Config {
	return Config{
		Gravity:        v3.Vec{Y: -9.81},
		LinearDamping:  0.05,
		AngularDamping: 0.05,
	}
}

// World integrates a set of bodies and force-element constraints.
type World struct {
	cfg         Config
	bodies      []*Body
	constraints []phys.Constraint
}

// New creates an empty world.
func New(cfg Config) *World {
	return &World{cfg: cfg}
}

// NewBody creates a body at pos and registers it. mass <= 0 creates a
// static body.
func (w *World) NewBody(pos v3.Vec, mass, inertia float64) phys.Body {
	b := &Body{pos: pos, rot: identity()}
	if mass > 0 {
		b.mass = mass
		b.invMass = 1 / mass
		if inertia > 0 {
			b.invInertia = 1 / inertia
		}
	}
	w.bodies = append(w.bodies, b)
	return b
}

// AddConstraint registers a force element.
func (w *World) AddConstraint(c phys.Constraint) {
	w.constraints = append(w.constraints, c)
}

// Gravity returns the configured gravity vector.
func (w *World) Gravity() v3.Vec {
	return w.cfg.Gravity
}

// BodyCount returns the number of registered bodies.
func (w *World) BodyCount() int {
	return len(w.bodies)
}

// Step evaluates all constraints and integrates all bodies by dt.
func (w *World) Step(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("newton: timestep must be positive, got %g", dt)
	}
	for _, c := range w.constraints {
		c.Apply(dt)
	}
	for _, b := range w.bodies {
		b.integrate(dt, w.cfg)
	}
	return nil
}

// Body is a rigid body with position, orientation and scalar inertia.
type Body struct {
	pos    v3.Vec
	vel    v3.Vec
	rot    mat3 // body frame to world frame
	angVel v3.Vec

	mass       float64
	invMass    float64
	invInertia float64

	force  v3.Vec
	torque v3.Vec
}

// Position returns the world position of the center of mass.
func (b *Body) Position() v3.Vec { return b.pos }

// Velocity returns the linear velocity of the center of mass.
func (b *Body) Velocity() v3.Vec { return b.vel }

// Mass returns the body mass, zero for static bodies.
func (b *Body) Mass() float64 { return b.mass }

// Static reports whether the body is immovable.
func (b *Body) Static() bool { return b.invMass == 0 }

// PointToWorld maps a body-local point into world space.
func (b *Body) PointToWorld(local v3.Vec) v3.Vec {
	return b.pos.Add(b.rot.mulVec(local))
}

// PointToLocal maps a world-space point into the body frame.
func (b *Body) PointToLocal(world v3.Vec) v3.Vec {
	return b.rot.mulVecT(world.Sub(b.pos))
}

// VelocityAt returns the material velocity at a world-space point.
func (b *Body) VelocityAt(world v3.Vec) v3.Vec {
	return b.vel.Add(b.angVel.Cross(world.Sub(b.pos)))
}

// ApplyForce accumulates a force through the center of mass.
func (b *Body) ApplyForce(f v3.Vec) {
	if b.Static() {
		return
	}
	b.force = b.force.Add(f)
}

// ApplyForceAt accumulates a force acting at a world-space point.
func (b *Body) ApplyForceAt(f, at v3.Vec) {
	if b.Static() {
		return
	}
	b.force = b.force.Add(f)
	b.torque = b.torque.Add(at.Sub(b.pos).Cross(f))
}

func (b *Body) integrate(dt float64, cfg Config) {
	if b.Static() {
		b.force = v3.Vec{}
		b.torque = v3.Vec{}
		return
	}
	b.vel = b.vel.Add(b.force.MulScalar(b.invMass * dt)).Add(cfg.Gravity.MulScalar(dt))
	b.vel = b.vel.MulScalar(1 / (1 + cfg.LinearDamping*dt))
	b.pos = b.pos.Add(b.vel.MulScalar(dt))

	b.angVel = b.angVel.Add(b.torque.MulScalar(b.invInertia * dt))
	b.angVel = b.angVel.MulScalar(1 / (1 + cfg.AngularDamping*dt))
	b.rot = b.rot.integrate(b.angVel, dt)

	b.force = v3.Vec{}
	b.torque = v3.Vec{}
}
