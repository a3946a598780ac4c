package build

import "fmt"

// UnknownTagError reports a registry lookup for a tag with no builder.
type UnknownTagError struct {
	Tag string
}

func (e UnknownTagError) Error() string {
	return fmt.Sprintf("no builder registered for tag %q", e.Tag)
}

// TagTypeMismatchError reports a tag used on the wrong kind of graph
// element: a rigid node tag on a pair, or a connector tag on a node.
type TagTypeMismatchError struct {
	Tag     string
	Kind    Kind
	OnNode  bool // true when the offending element is a node
	Index   int  // node or pair index
}

func (e TagTypeMismatchError) Error() string {
	where := "pair"
	if e.OnNode {
		where = "node"
	}
	return fmt.Sprintf("tag %q resolves to a %s builder but appears on %s %d", e.Tag, e.Kind, where, e.Index)
}

// MissingRigidOwnerError reports a connector endpoint node that no rigid
// builder claimed in phase 1.
type MissingRigidOwnerError struct {
	Tag  string
	Pair int
	Node int
}

func (e MissingRigidOwnerError) Error() string {
	return fmt.Sprintf("connector %q on pair %d: node %d has no rigid owner", e.Tag, e.Pair, e.Node)
}

// DuplicateOwnerError reports a node claimed by more than one rigid
// builder. Each node must belong to exactly one rigid entity.
type DuplicateOwnerError struct {
	Tag  string
	Node int
}

func (e DuplicateOwnerError) Error() string {
	return fmt.Sprintf("rigid builder %q claims node %d, which is already owned by another rigid entity", e.Tag, e.Node)
}

// BuilderError reports a builder that rejected its input, wrapping the
// underlying cause and naming the originating tag and element index.
type BuilderError struct {
	Tag    string
	OnNode bool
	Index  int
	Err    error
}

func (e BuilderError) Error() string {
	where := "pair"
	if e.OnNode {
		where = "node"
	}
	return fmt.Sprintf("builder %q failed on %s %d: %v", e.Tag, where, e.Index, e.Err)
}

func (e BuilderError) Unwrap() error { return e.Err }
