// Package phys defines the abstract rigid-body engine interface.
// Implementations (newton, or a binding to a full physics engine) provide
// bodies, force-element constraints and world stepping behind this
// interface. The abstraction allows swapping solver backends without
// changing the structure compiler or the compiled scene.
package phys

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Body is an opaque handle to a rigid body owned by a World.
// A body with zero mass is static: it never moves and ignores forces.
type Body interface {
	// Position returns the world position of the center of mass.
	Position() v3.Vec

	// Velocity returns the linear velocity of the center of mass.
	Velocity() v3.Vec

	// PointToWorld maps a body-local point into world space using the
	// body's current pose.
	PointToWorld(local v3.Vec) v3.Vec

	// PointToLocal maps a world-space point into the body frame.
	PointToLocal(world v3.Vec) v3.Vec

	// VelocityAt returns the world velocity of the body material at a
	// world-space point (linear plus rotational contribution).
	VelocityAt(world v3.Vec) v3.Vec

	// ApplyForce accumulates a force through the center of mass for the
	// next step.
	ApplyForce(f v3.Vec)

	// ApplyForceAt accumulates a force acting at a world-space point,
	// producing torque when the point is off-center.
	ApplyForceAt(f, at v3.Vec)

	// Mass returns the body mass. Zero means static.
	Mass() float64

	// Static reports whether the body is immovable.
	Static() bool
}

// Constraint is a force element evaluated once per step, before
// integration. Constraints read body state and accumulate forces; they
// must not depend on evaluation order relative to other constraints.
type Constraint interface {
	Apply(dt float64)
}

// World owns rigid bodies and constraints and advances them by fixed
// timesteps. Implementations are single-threaded; Step must be driven by
// one loop.
type World interface {
	// NewBody creates a body at pos and registers it with the world.
	// mass <= 0 creates a static body. inertia is the (scalar) moment of
	// inertia about the center of mass; it is ignored for static bodies.
	NewBody(pos v3.Vec, mass, inertia float64) Body

	// AddConstraint registers a force element to be evaluated each step.
	AddConstraint(c Constraint)

	// Gravity returns the world gravity vector.
	Gravity() v3.Vec

	// Step advances the world by dt. dt must be positive.
	Step(dt float64) error
}
