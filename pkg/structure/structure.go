// Package structure defines the declarative structure graph for tenseg.
// A Structure is a pure-data description of a robot or tensegrity: tagged
// 3-D nodes and tagged pairs (edges) between them. No physics objects are
// created at this stage; the graph is consumed by the compiler in
// pkg/build, which turns tags into rigid bodies and connectors.
package structure

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// InvalidIndexError reports a pair endpoint that does not name an
// existing node.
type InvalidIndexError struct {
	Index int
	Count int
}

func (e InvalidIndexError) Error() string {
	return fmt.Sprintf("node index %d out of range (structure has %d nodes)", e.Index, e.Count)
}

// Node is a tagged point in the structure graph. Its index is its
// position in the owning structure's node sequence.
type Node struct {
	Pos  v3.Vec
	Tags Tags
}

// Pair is a tagged edge between two node indices of the same structure.
type Pair struct {
	From int
	To   int
	Tags Tags
}

// Structure is a composable container of nodes and pairs. It is built
// incrementally by a model script and consumed exactly once by the
// compiler. The zero value is not usable; call New.
type Structure struct {
	nodes []Node
	pairs []Pair
}

// New creates an empty structure.
func New() *Structure {
	return &Structure{}
}

// AddNode appends a node at pos with the given space-separated tags and
// returns its index. Indices are assigned monotonically from 0.
func (s *Structure) AddNode(pos v3.Vec, tags string) int {
	s.nodes = append(s.nodes, Node{Pos: pos, Tags: NewTags(tags)})
	return len(s.nodes) - 1
}

// AddPair appends a tagged edge between nodes i and j. Both endpoints
// must already exist in this structure.
func (s *Structure) AddPair(i, j int, tags string) error {
	if i < 0 || i >= len(s.nodes) {
		return InvalidIndexError{Index: i, Count: len(s.nodes)}
	}
	if j < 0 || j >= len(s.nodes) {
		return InvalidIndexError{Index: j, Count: len(s.nodes)}
	}
	s.pairs = append(s.pairs, Pair{From: i, To: j, Tags: NewTags(tags)})
	return nil
}

// Merge appends all of other's nodes and pairs to s, offsetting every
// pair endpoint by s's node count prior to the merge. It returns that
// offset so callers can address the merged sub-structure's nodes from
// outside. The other structure is not modified.
func (s *Structure) Merge(other *Structure) int {
	offset := len(s.nodes)
	s.nodes = append(s.nodes, other.nodes...)
	for _, p := range other.pairs {
		s.pairs = append(s.pairs, Pair{
			From: p.From + offset,
			To:   p.To + offset,
			Tags: p.Tags,
		})
	}
	return offset
}

// Move translates every node position by delta. The transform is applied
// in place and is irreversible; apply it before compilation.
func (s *Structure) Move(delta v3.Vec) {
	for i := range s.nodes {
		s.nodes[i].Pos = s.nodes[i].Pos.Add(delta)
	}
}

// Rotate rotates every node position by angle radians about an axis
// through center. Like Move, it mutates the structure in place.
func (s *Structure) Rotate(center, axis v3.Vec, angle float64) {
	m := sdf.Rotate3d(axis, angle)
	for i := range s.nodes {
		s.nodes[i].Pos = m.MulPosition(s.nodes[i].Pos.Sub(center)).Add(center)
	}
}

// NodeCount returns the number of nodes.
func (s *Structure) NodeCount() int {
	return len(s.nodes)
}

// PairCount returns the number of pairs.
func (s *Structure) PairCount() int {
	return len(s.pairs)
}

// Node returns the node at index i.
func (s *Structure) Node(i int) (Node, error) {
	if i < 0 || i >= len(s.nodes) {
		return Node{}, InvalidIndexError{Index: i, Count: len(s.nodes)}
	}
	return s.nodes[i], nil
}

// Nodes returns the node sequence. The slice is owned by the structure
// and must not be mutated by callers.
func (s *Structure) Nodes() []Node {
	return s.nodes
}

// Pairs returns the pair sequence. The slice is owned by the structure
// and must not be mutated by callers.
func (s *Structure) Pairs() []Pair {
	return s.pairs
}
