package scene

import (
	"github.com/google/uuid"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"tenseg/pkg/phys"
	"tenseg/pkg/structure"
)

// ResolverFunc computes the world attachment point on a rigid entity's
// surface for a connector running from ref (a node the entity claimed)
// toward dest (the connector's far node). It is evaluated against the
// authored node positions at build time; connectors convert the result
// to a body-local offset so it tracks the body afterwards.
type ResolverFunc func(ref, dest v3.Vec) v3.Vec

// RigidEntity is a compiled rigid body plus the metadata connectors need
// to attach to it: the structure nodes it claimed and its
// connection-point resolver.
type RigidEntity struct {
	id       string
	tags     structure.Tags
	body     phys.Body
	nodes    []int
	resolver ResolverFunc
}

// NewRigidEntity wraps a physics body built from the given claimed node
// indices. The resolver may be nil, in which case connection points are
// the raw node positions.
func NewRigidEntity(body phys.Body, tags structure.Tags, nodes []int, resolver ResolverFunc) *RigidEntity {
	return &RigidEntity{
		id:       uuid.NewString(),
		tags:     tags,
		body:     body,
		nodes:    nodes,
		resolver: resolver,
	}
}

// ID returns the entity's unique identifier.
func (r *RigidEntity) ID() string { return r.id }

// Tags returns the tag set of the node or pair this entity was built from.
func (r *RigidEntity) Tags() structure.Tags { return r.tags }

// Body returns the underlying physics body.
func (r *RigidEntity) Body() phys.Body { return r.body }

// Nodes returns the structure node indices this entity claimed.
func (r *RigidEntity) Nodes() []int { return r.nodes }

// ConnectionPoint resolves the attachment point on the entity's surface
// for a connector from ref toward dest. Read-only; any number of
// connectors may query it.
func (r *RigidEntity) ConnectionPoint(ref, dest v3.Vec) v3.Vec {
	if r.resolver == nil {
		return ref
	}
	return r.resolver(ref, dest)
}
