// Package build compiles a declarative structure into a physics scene.
// A registry maps tags to builders of a closed set of kinds; the
// compiler runs two phases, building every rigid entity before any
// connector so that connectors can resolve attachment points on rigid
// bodies that already exist. Compilation is atomic: any failure aborts
// with no partial scene.
package build

import (
	"github.com/charmbracelet/log"

	"tenseg/pkg/cable"
	"tenseg/pkg/phys"
	"tenseg/pkg/scene"
	"tenseg/pkg/structure"
)

var logger = log.WithPrefix("build")

// Compile turns a structure plus a registry into a compiled scene living
// in the given worlds. soft may be nil when the registry contains no
// flexible cable builders. On error no scene is returned and the passed
// worlds should be discarded, since bodies may already have been created
// in them.
func Compile(st *structure.Structure, reg *Registry, world phys.World, soft *cable.World) (*scene.Scene, error) {
	if err := checkTagShapes(st, reg); err != nil {
		return nil, err
	}

	// A nil *cable.World must stay a nil Stepper inside the scene.
	var softStepper scene.Stepper
	if soft != nil {
		softStepper = soft
	}
	sc := scene.New(world, softStepper)

	// Phase 1: rigid entities. owners maps node index to the rigid
	// entity that claimed it; a connector endpoint is later resolved by
	// a plain lookup.
	owners := make([]*scene.RigidEntity, st.NodeCount())
	for _, e := range reg.entries {
		if !e.builder.Kind().rigid() {
			continue
		}
		if err := buildRigid(sc, e, st, world, owners); err != nil {
			return nil, err
		}
	}
	logger.Debug("rigid phase complete", "entities", len(sc.Rigids()))

	// Phase 2: connectors.
	for _, e := range reg.entries {
		if e.builder.Kind().rigid() {
			continue
		}
		if err := buildConnectors(sc, e, st, world, soft, owners); err != nil {
			return nil, err
		}
	}
	logger.Debug("connector phase complete", "connectors", len(sc.Connectors()))

	return sc, nil
}

// checkTagShapes rejects registered tags used inconsistently before
// anything is built: a connector tag on a node, or a node-builder tag
// on a pair. A rigid pair tag appearing on a node is fine and simply
// skipped in phase 1; models routinely share one label between a pair
// and its endpoint nodes.
func checkTagShapes(st *structure.Structure, reg *Registry) error {
	for _, e := range reg.entries {
		switch e.builder.Kind().shape() {
		case shapeConnector:
			for i, n := range st.Nodes() {
				if n.Tags.ContainsAll(e.tags) {
					return TagTypeMismatchError{Tag: e.tag, Kind: e.builder.Kind(), OnNode: true, Index: i}
				}
			}
		case shapeRigidNode:
			for i, p := range st.Pairs() {
				if p.Tags.ContainsAll(e.tags) {
					return TagTypeMismatchError{Tag: e.tag, Kind: e.builder.Kind(), Index: i}
				}
			}
		}
	}
	return nil
}

func buildRigid(sc *scene.Scene, e entry, st *structure.Structure, world phys.World, owners []*scene.RigidEntity) error {
	switch e.builder.Kind().shape() {
	case shapeRigidNode:
		b := e.builder.(RigidNodeBuilder)
		for i, n := range st.Nodes() {
			if !n.Tags.ContainsAll(e.tags) {
				continue
			}
			re, err := b.BuildNode(world, i, n)
			if err != nil {
				return BuilderError{Tag: e.tag, OnNode: true, Index: i, Err: err}
			}
			if err := claim(owners, re, e.tag); err != nil {
				return err
			}
			sc.AddRigid(re)
		}
	case shapeRigidPair:
		b := e.builder.(RigidPairBuilder)
		for i, p := range st.Pairs() {
			if !p.Tags.ContainsAll(e.tags) {
				continue
			}
			from, _ := st.Node(p.From)
			to, _ := st.Node(p.To)
			re, err := b.BuildRigidPair(world, p, from, to)
			if err != nil {
				return BuilderError{Tag: e.tag, Index: i, Err: err}
			}
			if err := claim(owners, re, e.tag); err != nil {
				return err
			}
			sc.AddRigid(re)
		}
	}
	return nil
}

// claim records the rigid entity as owner of every node it was built
// from. A node already owned is an error: each node belongs to exactly
// one rigid entity.
func claim(owners []*scene.RigidEntity, re *scene.RigidEntity, tag string) error {
	for _, n := range re.Nodes() {
		if owners[n] != nil {
			return DuplicateOwnerError{Tag: tag, Node: n}
		}
		owners[n] = re
	}
	return nil
}

func buildConnectors(sc *scene.Scene, e entry, st *structure.Structure, world phys.World, soft *cable.World, owners []*scene.RigidEntity) error {
	b := e.builder.(ConnectorBuilder)
	for i, p := range st.Pairs() {
		if !p.Tags.ContainsAll(e.tags) {
			continue
		}
		from := owners[p.From]
		if from == nil {
			return MissingRigidOwnerError{Tag: e.tag, Pair: i, Node: p.From}
		}
		to := owners[p.To]
		if to == nil {
			return MissingRigidOwnerError{Tag: e.tag, Pair: i, Node: p.To}
		}
		fromNode, _ := st.Node(p.From)
		toNode, _ := st.Node(p.To)
		conn, err := b.BuildConnector(ConnectorContext{
			World:   world,
			Soft:    soft,
			Pair:    p,
			From:    from,
			To:      to,
			FromPos: fromNode.Pos,
			ToPos:   toNode.Pos,
		})
		if err != nil {
			return BuilderError{Tag: e.tag, Index: i, Err: err}
		}
		sc.AddConnector(conn)
	}
	return nil
}
