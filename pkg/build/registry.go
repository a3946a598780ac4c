package build

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"tenseg/pkg/cable"
	"tenseg/pkg/phys"
	"tenseg/pkg/scene"
	"tenseg/pkg/structure"
)

// Builder produces physics entities from tagged graph elements. Every
// builder carries one of the closed Kind variants; the kind determines
// whether the builder consumes nodes, rigid pairs or connector pairs.
type Builder interface {
	Kind() Kind
}

// RigidNodeBuilder builds a rigid entity from a single tagged node
// (e.g. a sphere).
type RigidNodeBuilder interface {
	Builder
	BuildNode(w phys.World, index int, n structure.Node) (*scene.RigidEntity, error)
}

// RigidPairBuilder builds a rigid entity spanning a tagged pair
// (e.g. a rod).
type RigidPairBuilder interface {
	Builder
	BuildRigidPair(w phys.World, p structure.Pair, from, to structure.Node) (*scene.RigidEntity, error)
}

// ConnectorContext carries everything a connector builder may need: the
// worlds, the pair, and the already-built rigid entities owning its two
// endpoints together with the authored endpoint positions.
type ConnectorContext struct {
	World   phys.World
	Soft    *cable.World
	Pair    structure.Pair
	From    *scene.RigidEntity
	To      *scene.RigidEntity
	FromPos v3.Vec
	ToPos   v3.Vec
}

// ConnectorBuilder builds a constraint or force element from a tagged
// pair in phase 2, once both endpoint rigid entities exist.
type ConnectorBuilder interface {
	Builder
	BuildConnector(ctx ConnectorContext) (scene.Connector, error)
}

type entry struct {
	tag     string
	tags    structure.Tags
	builder Builder
}

// Registry maps tag strings to builders. Matching is by tag word
// containment: a builder registered for "vert string" handles any pair
// tagged with both words, such as "vert string one".
type Registry struct {
	entries []entry
	index   map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register associates a builder with a tag. Re-registering a tag
// replaces the previous builder in place; the last registration wins.
func (r *Registry) Register(tag string, b Builder) {
	if i, ok := r.index[tag]; ok {
		r.entries[i].builder = b
		return
	}
	r.index[tag] = len(r.entries)
	r.entries = append(r.entries, entry{tag: tag, tags: structure.NewTags(tag), builder: b})
}

// Resolve returns the builder registered for exactly this tag.
func (r *Registry) Resolve(tag string) (Builder, error) {
	i, ok := r.index[tag]
	if !ok {
		return nil, UnknownTagError{Tag: tag}
	}
	return r.entries[i].builder, nil
}

// Len returns the number of registered tags.
func (r *Registry) Len() int {
	return len(r.entries)
}
