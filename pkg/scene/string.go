package scene

import (
	"github.com/google/uuid"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"tenseg/pkg/phys"
	"tenseg/pkg/structure"
)

// Connector is a compiled constraint or force element linking two rigid
// entities.
type Connector interface {
	ID() string
	Tags() structure.Tags
}

// StringConfig parameterizes a string actuator.
type StringConfig struct {
	Stiffness float64 // spring constant when taut
	Damping   float64 // damping along the string axis
	MaxForce  float64 // tension clamp, 0 for unlimited
	MaxVel    float64 // motor rest-length rate limit, 0 for immediate
}

// StringActuator models a cable as a tension-only spring-damper between
// two body attachment points, with an actuated rest length. The motor
// moves the rest length toward its target at no more than MaxVel per
// second, and the applied tension never exceeds MaxForce.
type StringActuator struct {
	id   string
	tags structure.Tags
	cfg  StringConfig

	from, to           phys.Body
	fromLocal, toLocal v3.Vec

	restLength float64
	targetRest float64
	tension    float64
}

// NewStringActuator creates a string between two attachment points given
// in world coordinates at build time. The initial rest length is the
// initial separation.
func NewStringActuator(tags structure.Tags, cfg StringConfig, from, to phys.Body, fromAttach, toAttach v3.Vec) *StringActuator {
	rest := toAttach.Sub(fromAttach).Length()
	return &StringActuator{
		id:         uuid.NewString(),
		tags:       tags,
		cfg:        cfg,
		from:       from,
		to:         to,
		fromLocal:  from.PointToLocal(fromAttach),
		toLocal:    to.PointToLocal(toAttach),
		restLength: rest,
		targetRest: rest,
	}
}

// ID returns the connector's unique identifier.
func (s *StringActuator) ID() string { return s.id }

// Tags returns the tag set of the pair this string was built from.
func (s *StringActuator) Tags() structure.Tags { return s.tags }

// Length returns the current distance between the attachment points.
func (s *StringActuator) Length() float64 {
	pa := s.from.PointToWorld(s.fromLocal)
	pb := s.to.PointToWorld(s.toLocal)
	return pb.Sub(pa).Length()
}

// RestLength returns the current motor rest length.
func (s *StringActuator) RestLength() float64 { return s.restLength }

// SetRestLength sets the motor target. The rest length moves toward the
// target at the configured MaxVel on subsequent steps. Negative targets
// are clamped to zero.
func (s *StringActuator) SetRestLength(l float64) {
	if l < 0 {
		l = 0
	}
	s.targetRest = l
}

// Tension returns the force magnitude applied on the last step, zero
// when the string was slack.
func (s *StringActuator) Tension() float64 { return s.tension }

// Apply advances the motor and applies the tension-only spring-damper
// force to both bodies. Strings never push.
func (s *StringActuator) Apply(dt float64) {
	// Motor: rate-limited rest length tracking.
	if s.restLength != s.targetRest {
		if s.cfg.MaxVel <= 0 {
			s.restLength = s.targetRest
		} else {
			maxMove := s.cfg.MaxVel * dt
			diff := s.targetRest - s.restLength
			switch {
			case diff > maxMove:
				s.restLength += maxMove
			case diff < -maxMove:
				s.restLength -= maxMove
			default:
				s.restLength = s.targetRest
			}
		}
	}

	pa := s.from.PointToWorld(s.fromLocal)
	pb := s.to.PointToWorld(s.toLocal)
	d := pb.Sub(pa)
	dist := d.Length()
	s.tension = 0
	if dist <= s.restLength || dist == 0 {
		return // slack
	}
	dir := d.DivScalar(dist)

	relVel := s.to.VelocityAt(pb).Sub(s.from.VelocityAt(pa)).Dot(dir)
	mag := s.cfg.Stiffness*(dist-s.restLength) + s.cfg.Damping*relVel
	if mag < 0 {
		mag = 0
	}
	if s.cfg.MaxForce > 0 && mag > s.cfg.MaxForce {
		mag = s.cfg.MaxForce
	}
	s.tension = mag

	f := dir.MulScalar(mag)
	s.from.ApplyForceAt(f, pa)
	s.to.ApplyForceAt(f.Neg(), pb)
}
