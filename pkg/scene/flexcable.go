package scene

import (
	"github.com/google/uuid"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"tenseg/pkg/cable"
	"tenseg/pkg/phys"
	"tenseg/pkg/structure"
)

// FlexCable is a connector backed by a discretized cable chain simulated
// in the secondary cable world. The connector owns the chain; the cable
// world only holds a tracking reference. Coupling is two-way: the chain's
// end masses are pinned to the bodies' attachment points, and the chain's
// end-segment tension is applied back to the bodies as a force element in
// the primary world.
type FlexCable struct {
	id    string
	tags  structure.Tags
	chain *cable.Chain

	from, to           phys.Body
	fromLocal, toLocal v3.Vec
}

// NewFlexCable discretizes the segment between the two resolved
// attachment points and wires the coupling anchors. The chain must still
// be registered with the cable world by the caller.
func NewFlexCable(tags structure.Tags, cfg cable.Config, from, to phys.Body, fromAttach, toAttach v3.Vec) (*FlexCable, error) {
	chain, err := cable.NewChain(fromAttach, toAttach, cfg)
	if err != nil {
		return nil, err
	}
	fc := &FlexCable{
		id:        uuid.NewString(),
		tags:      tags,
		chain:     chain,
		from:      from,
		to:        to,
		fromLocal: from.PointToLocal(fromAttach),
		toLocal:   to.PointToLocal(toAttach),
	}
	chain.SetAnchors(
		func() v3.Vec { return fc.from.PointToWorld(fc.fromLocal) },
		func() v3.Vec { return fc.to.PointToWorld(fc.toLocal) },
	)
	return fc, nil
}

// ID returns the connector's unique identifier.
func (f *FlexCable) ID() string { return f.id }

// Tags returns the tag set of the pair this cable was built from.
func (f *FlexCable) Tags() structure.Tags { return f.tags }

// Chain returns the underlying cable chain.
func (f *FlexCable) Chain() *cable.Chain { return f.chain }

// Apply transfers the chain's end-segment tensions onto the rigid bodies.
// Registered as a constraint in the primary world so the coupling force
// is accounted for in the same tick order as every other force element.
func (f *FlexCable) Apply(dt float64) {
	f.from.ApplyForceAt(f.chain.EndTensionFrom(), f.from.PointToWorld(f.fromLocal))
	f.to.ApplyForceAt(f.chain.EndTensionTo(), f.to.PointToWorld(f.toLocal))
}
