package scene

import (
	"math"

	"github.com/google/uuid"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"tenseg/pkg/phys"
	"tenseg/pkg/structure"
)

// HingeConfig parameterizes a hinge joint.
type HingeConfig struct {
	Axis      v3.Vec  // hinge axis in world frame at build time
	MinAngle  float64 // radians
	MaxAngle  float64 // radians
	Stiffness float64 // pin strength
	Damping   float64
}

// Hinge joins two rigid bodies at a shared anchor, allowing rotation
// only about the hinge axis. It is realised as two point-coincidence
// pins spaced along the axis, with a torsion penalty outside the angle
// limits.
type Hinge struct {
	id   string
	tags structure.Tags
	cfg  HingeConfig

	from, to phys.Body
	// Pin points, body-local: the anchor and a second point offset
	// along the hinge axis. Pinning both leaves only rotation about
	// the axis free.
	fromPins, toPins [2]v3.Vec
	// Reference arms perpendicular to the axis, used to measure the
	// joint angle.
	fromRef, toRef v3.Vec
}

// NewHinge creates a hinge pinning the two bodies together at the world
// anchor point.
func NewHinge(tags structure.Tags, cfg HingeConfig, from, to phys.Body, anchor v3.Vec) *Hinge {
	axis := cfg.Axis
	if axis.Length() == 0 {
		axis = v3.Vec{Z: 1}
	}
	axis = axis.Normalize()
	second := anchor.Add(axis)

	ref := perpendicular(axis)
	refPoint := anchor.Add(ref)

	return &Hinge{
		id:       uuid.NewString(),
		tags:     tags,
		cfg:      cfg,
		from:     from,
		to:       to,
		fromPins: [2]v3.Vec{from.PointToLocal(anchor), from.PointToLocal(second)},
		toPins:   [2]v3.Vec{to.PointToLocal(anchor), to.PointToLocal(second)},
		fromRef:  from.PointToLocal(refPoint),
		toRef:    to.PointToLocal(refPoint),
	}
}

// ID returns the connector's unique identifier.
func (h *Hinge) ID() string { return h.id }

// Tags returns the tag set of the pair this hinge was built from.
func (h *Hinge) Tags() structure.Tags { return h.tags }

// Angle returns the current rotation of the to-body relative to the
// from-body about the hinge axis, in radians.
func (h *Hinge) Angle() float64 {
	anchorA := h.from.PointToWorld(h.fromPins[0])
	axisW := h.from.PointToWorld(h.fromPins[1]).Sub(anchorA).Normalize()

	armA := reject(h.from.PointToWorld(h.fromRef).Sub(anchorA), axisW)
	armB := reject(h.to.PointToWorld(h.toRef).Sub(h.to.PointToWorld(h.toPins[0])), axisW)
	if armA.Length() == 0 || armB.Length() == 0 {
		return 0
	}
	armA = armA.Normalize()
	armB = armB.Normalize()
	sin := armA.Cross(armB).Dot(axisW)
	cos := armA.Dot(armB)
	return math.Atan2(sin, cos)
}

// Apply pins the bodies together and penalizes rotation beyond the
// configured angle limits.
func (h *Hinge) Apply(dt float64) {
	for i := 0; i < 2; i++ {
		pinBodies(h.from, h.to, h.fromPins[i], h.toPins[i], h.cfg.Stiffness, h.cfg.Damping)
	}

	if h.cfg.MinAngle == 0 && h.cfg.MaxAngle == 0 {
		return
	}
	angle := h.Angle()
	over := 0.0
	if angle < h.cfg.MinAngle {
		over = h.cfg.MinAngle - angle
	} else if angle > h.cfg.MaxAngle {
		over = h.cfg.MaxAngle - angle
	}
	if over == 0 {
		return
	}
	// Torsion penalty: push the to-body reference arm back inside the
	// limit, reacting on the from-body.
	anchor := h.from.PointToWorld(h.fromPins[0])
	axisW := h.from.PointToWorld(h.fromPins[1]).Sub(anchor).Normalize()
	refB := h.to.PointToWorld(h.toRef)
	arm := reject(refB.Sub(anchor), axisW)
	if arm.Length() == 0 {
		return
	}
	tangent := axisW.Cross(arm.Normalize())
	f := tangent.MulScalar(h.cfg.Stiffness * over)
	h.to.ApplyForceAt(f, refB)
	h.from.ApplyForceAt(f.Neg(), anchor)
}

// PrismaticConfig parameterizes a prismatic (sliding) joint.
type PrismaticConfig struct {
	Axis         v3.Vec  // slide axis in world frame at build time
	MinExtension float64 // relative to the built pose
	MaxExtension float64
	Stiffness    float64 // off-axis pin strength
	Damping      float64
	MotorForce   float64 // actuation force clamp, 0 disables the motor
}

// Prismatic joins two rigid bodies so the to-body slides along one axis
// of the from-body, within extension limits, optionally driven toward a
// target extension by a clamped motor force.
type Prismatic struct {
	id   string
	tags structure.Tags
	cfg  PrismaticConfig

	from, to           phys.Body
	fromLocal, toLocal v3.Vec // the two joint anchor points
	axisLocal          v3.Vec // slide axis in the from-body frame
	restAlong          float64
	target             float64
}

// NewPrismatic creates a prismatic joint between the two world anchor
// points. The slide axis defaults to the anchor separation when the
// config axis is zero.
func NewPrismatic(tags structure.Tags, cfg PrismaticConfig, from, to phys.Body, fromAttach, toAttach v3.Vec) *Prismatic {
	axis := cfg.Axis
	if axis.Length() == 0 {
		axis = toAttach.Sub(fromAttach)
	}
	if axis.Length() == 0 {
		axis = v3.Vec{X: 1}
	}
	axis = axis.Normalize()
	return &Prismatic{
		id:        uuid.NewString(),
		tags:      tags,
		cfg:       cfg,
		from:      from,
		to:        to,
		fromLocal: from.PointToLocal(fromAttach),
		toLocal:   to.PointToLocal(toAttach),
		axisLocal: from.PointToLocal(fromAttach.Add(axis)).Sub(from.PointToLocal(fromAttach)),
		restAlong: toAttach.Sub(fromAttach).Dot(axis),
	}
}

// ID returns the connector's unique identifier.
func (p *Prismatic) ID() string { return p.id }

// Tags returns the tag set of the pair this joint was built from.
func (p *Prismatic) Tags() structure.Tags { return p.tags }

// Extension returns the current displacement along the slide axis
// relative to the built pose.
func (p *Prismatic) Extension() float64 {
	pa := p.from.PointToWorld(p.fromLocal)
	pb := p.to.PointToWorld(p.toLocal)
	return pb.Sub(pa).Dot(p.axisWorld()) - p.restAlong
}

// Target returns the commanded extension.
func (p *Prismatic) Target() float64 { return p.target }

// SetTargetExtension commands the motor, clamped to the extension
// limits.
func (p *Prismatic) SetTargetExtension(e float64) {
	if e < p.cfg.MinExtension {
		e = p.cfg.MinExtension
	}
	if e > p.cfg.MaxExtension {
		e = p.cfg.MaxExtension
	}
	p.target = e
}

func (p *Prismatic) axisWorld() v3.Vec {
	origin := p.from.PointToWorld(v3.Vec{})
	return p.from.PointToWorld(p.axisLocal).Sub(origin).Normalize()
}

// Apply pins off-axis motion, enforces extension limits and drives the
// motor toward the target extension.
func (p *Prismatic) Apply(dt float64) {
	pa := p.from.PointToWorld(p.fromLocal)
	pb := p.to.PointToWorld(p.toLocal)
	axisW := p.axisWorld()

	d := pb.Sub(pa)
	along := d.Dot(axisW)
	perp := d.Sub(axisW.MulScalar(along))

	relVel := p.to.VelocityAt(pb).Sub(p.from.VelocityAt(pa))
	perpVel := relVel.Sub(axisW.MulScalar(relVel.Dot(axisW)))

	// Off-axis pin.
	f := perp.MulScalar(-p.cfg.Stiffness).Sub(perpVel.MulScalar(p.cfg.Damping))
	p.to.ApplyForceAt(f, pb)
	p.from.ApplyForceAt(f.Neg(), pa)

	// Extension limits.
	ext := along - p.restAlong
	overshoot := 0.0
	if ext < p.cfg.MinExtension {
		overshoot = p.cfg.MinExtension - ext
	} else if ext > p.cfg.MaxExtension {
		overshoot = p.cfg.MaxExtension - ext
	}
	if overshoot != 0 {
		lf := axisW.MulScalar(p.cfg.Stiffness * overshoot)
		p.to.ApplyForceAt(lf, pb)
		p.from.ApplyForceAt(lf.Neg(), pa)
	}

	// Motor.
	if p.cfg.MotorForce > 0 {
		drive := p.cfg.Stiffness * (p.target - ext)
		if drive > p.cfg.MotorForce {
			drive = p.cfg.MotorForce
		} else if drive < -p.cfg.MotorForce {
			drive = -p.cfg.MotorForce
		}
		mf := axisW.MulScalar(drive)
		p.to.ApplyForceAt(mf, pb)
		p.from.ApplyForceAt(mf.Neg(), pa)
	}
}

// pinBodies applies a spring-damper force drawing two body-local points
// together.
func pinBodies(a, b phys.Body, aLocal, bLocal v3.Vec, stiffness, damping float64) {
	pa := a.PointToWorld(aLocal)
	pb := b.PointToWorld(bLocal)
	relVel := b.VelocityAt(pb).Sub(a.VelocityAt(pa))
	f := pb.Sub(pa).MulScalar(stiffness).Add(relVel.MulScalar(damping))
	a.ApplyForceAt(f, pa)
	b.ApplyForceAt(f.Neg(), pb)
}

// reject returns v minus its component along the unit vector axis.
func reject(v, axis v3.Vec) v3.Vec {
	return v.Sub(axis.MulScalar(v.Dot(axis)))
}

// perpendicular returns an arbitrary unit vector perpendicular to the
// unit vector axis.
func perpendicular(axis v3.Vec) v3.Vec {
	ref := v3.Vec{X: 1}
	if math.Abs(axis.X) > 0.9 {
		ref = v3.Vec{Y: 1}
	}
	return axis.Cross(ref).Normalize()
}
