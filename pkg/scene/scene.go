// Package scene holds the result of compiling a structure: rigid
// entities, connectors and the two dynamics worlds they live in. The
// scene is the stepping coordinator — each tick it advances the primary
// rigid-body world, advances the cable world by the same dt, then
// broadcasts to attached observers, in that fixed order.
package scene

import (
	"fmt"

	"github.com/charmbracelet/log"
)

var logger = log.WithPrefix("scene")

// InvalidTimestepError reports a non-positive dt passed to Step. The
// failed step leaves all entity state unchanged.
type InvalidTimestepError struct {
	Dt float64
}

func (e InvalidTimestepError) Error() string {
	return fmt.Sprintf("timestep must be positive, got %g", e.Dt)
}

// Observer receives scene lifecycle notifications. Controllers implement
// this to read and write entity state (string rest lengths, joint
// targets); the scene itself never interprets what an observer does.
type Observer interface {
	OnSetup(s *Scene)
	OnStep(s *Scene, dt float64)
	OnTeardown(s *Scene)
}

// Scene is the compiled set of rigid entities and connectors produced
// from one structure. It exclusively owns the entities it holds.
type Scene struct {
	world Stepper
	soft  Stepper

	rigids     []*RigidEntity
	connectors []Connector
	observers  []Observer
}

// Stepper is the minimal surface the scene needs from each dynamics
// world: advance by a positive dt.
type Stepper interface {
	Step(dt float64) error
}

// New creates an empty scene coordinating the given primary and
// secondary worlds. soft may be nil when no flexible cables exist.
func New(world, soft Stepper) *Scene {
	return &Scene{world: world, soft: soft}
}

// AddRigid appends a rigid entity. Used by the compiler.
func (s *Scene) AddRigid(r *RigidEntity) {
	s.rigids = append(s.rigids, r)
}

// AddConnector appends a connector. Used by the compiler.
func (s *Scene) AddConnector(c Connector) {
	s.connectors = append(s.connectors, c)
}

// Rigids returns the rigid entities in build order.
func (s *Scene) Rigids() []*RigidEntity {
	return s.rigids
}

// Connectors returns the connectors in build order.
func (s *Scene) Connectors() []Connector {
	return s.connectors
}

// Strings returns every string actuator in the scene, in build order.
func (s *Scene) Strings() []*StringActuator {
	var out []*StringActuator
	for _, c := range s.connectors {
		if sa, ok := c.(*StringActuator); ok {
			out = append(out, sa)
		}
	}
	return out
}

// Prismatics returns every prismatic joint in the scene, in build order.
func (s *Scene) Prismatics() []*Prismatic {
	var out []*Prismatic
	for _, c := range s.connectors {
		if p, ok := c.(*Prismatic); ok {
			out = append(out, p)
		}
	}
	return out
}

// FlexCables returns every flexible cable connector, in build order.
func (s *Scene) FlexCables() []*FlexCable {
	var out []*FlexCable
	for _, c := range s.connectors {
		if fc, ok := c.(*FlexCable); ok {
			out = append(out, fc)
		}
	}
	return out
}

// Attach registers an observer. Observers are notified in attachment
// order at every lifecycle broadcast.
func (s *Scene) Attach(o Observer) {
	s.observers = append(s.observers, o)
}

// Setup broadcasts the setup event to all observers. Call once, after
// compilation and observer attachment, before the first Step.
func (s *Scene) Setup() {
	logger.Debug("setup", "rigids", len(s.rigids), "connectors", len(s.connectors))
	for _, o := range s.observers {
		o.OnSetup(s)
	}
}

// Step advances both worlds by dt and then notifies every observer
// exactly once, in attachment order. A non-positive dt fails with
// InvalidTimestepError before any world is advanced or any observer
// notified, leaving all state untouched.
func (s *Scene) Step(dt float64) error {
	if dt <= 0 {
		return InvalidTimestepError{Dt: dt}
	}
	if err := s.world.Step(dt); err != nil {
		return err
	}
	if s.soft != nil {
		if err := s.soft.Step(dt); err != nil {
			return err
		}
	}
	for _, o := range s.observers {
		o.OnStep(s, dt)
	}
	return nil
}

// Teardown broadcasts the teardown event to all observers.
func (s *Scene) Teardown() {
	logger.Debug("teardown")
	for _, o := range s.observers {
		o.OnTeardown(s)
	}
}
